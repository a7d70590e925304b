package entities

import (
	"errors"
	"fmt"
)

// OptionsPerQuestion is the number of answer options every question offers.
const OptionsPerQuestion = 4

var (
	ErrWrongOptionCount   = errors.New("question must have exactly 4 options")
	ErrEmptyOption        = errors.New("question option is empty")
	ErrDuplicateOption    = errors.New("question options must be unique")
	ErrAnswerNotInOptions = errors.New("correct answer is not among the options")
	ErrMissingImage       = errors.New("question has no image reference")
)

// Question is a flag-identification item: a flag image, four labels and the correct label.
// Questions are reference data and are never mutated after load; sessions work on clones.
type Question struct {
	ID            int      `json:"id"`      // unique question ID
	ImageRef      string   `json:"flag"`    // URL of the flag image
	Options       []string `json:"options"` // answer labels in display order
	CorrectAnswer string   `json:"answer"`  // label of the correct option
}

// Validate checks the question invariants.
func (q Question) Validate() error {
	if q.ImageRef == "" {
		return fmt.Errorf("question %d: %w", q.ID, ErrMissingImage)
	}

	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("question %d: %w (got %d)", q.ID, ErrWrongOptionCount, len(q.Options))
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("question %d: %w", q.ID, ErrEmptyOption)
		}
		if _, ok := seen[opt]; ok {
			return fmt.Errorf("question %d: %w: %q", q.ID, ErrDuplicateOption, opt)
		}
		seen[opt] = struct{}{}
	}

	if _, ok := seen[q.CorrectAnswer]; !ok {
		return fmt.Errorf("question %d: %w: %q", q.ID, ErrAnswerNotInOptions, q.CorrectAnswer)
	}

	return nil
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	c := q
	c.Options = make([]string, len(q.Options))
	copy(c.Options, q.Options)
	return c
}

// IndexOf returns the position of option in Options or -1.
func (q Question) IndexOf(option string) int {
	for i, opt := range q.Options {
		if opt == option {
			return i
		}
	}
	return -1
}

// CloneQuestions deep-copies a question list.
func CloneQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		out[i] = q.Clone()
	}
	return out
}
