package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
)

var (
	ErrEmptyQuestionBank = errors.New("question bank is empty")
	ErrDuplicateQuestion = errors.New("duplicate question id")
)

// QuestionRepository provides access to the flag question bank.
// The bank is either the built-in set or a JSON file loaded once at startup.
type QuestionRepository struct {
	questions []entities.Question
}

// NewQuestionRepository creates a repository. An empty path selects the built-in flags.
func NewQuestionRepository(path string) (*QuestionRepository, error) {
	if path == "" {
		return NewQuestionRepositoryFrom(DefaultQuestions())
	}

	questions, err := loadQuestions(path)
	if err != nil {
		return nil, err
	}

	return NewQuestionRepositoryFrom(questions)
}

// NewQuestionRepositoryFrom validates questions and wraps them in a repository.
func NewQuestionRepositoryFrom(questions []entities.Question) (*QuestionRepository, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestionBank
	}

	ids := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, ok := ids[q.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateQuestion, q.ID)
		}
		ids[q.ID] = struct{}{}
	}

	return &QuestionRepository{
		questions: entities.CloneQuestions(questions),
	}, nil
}

// GetAll returns a deep copy of every question in bank order.
func (r *QuestionRepository) GetAll(_ context.Context) ([]entities.Question, error) {
	return entities.CloneQuestions(r.questions), nil
}

// Count returns the number of questions in the bank.
func (r *QuestionRepository) Count() int {
	return len(r.questions)
}

func loadQuestions(path string) ([]entities.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var wrapper struct {
		Questions []entities.Question `json:"questions"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions JSON: %w", err)
	}

	return wrapper.Questions, nil
}

// DefaultQuestions returns the built-in flag questions.
func DefaultQuestions() []entities.Question {
	return []entities.Question{
		{
			ID:            1,
			ImageRef:      "https://upload.wikimedia.org/wikipedia/commons/thumb/4/41/Flag_of_India.svg/320px-Flag_of_India.svg.png",
			Options:       []string{"India", "USA", "France", "Brazil"},
			CorrectAnswer: "India",
		},
		{
			ID:            2,
			ImageRef:      "https://upload.wikimedia.org/wikipedia/commons/thumb/a/a4/Flag_of_the_United_States.svg/320px-Flag_of_the_United_States.svg.png",
			Options:       []string{"Canada", "USA", "Russia", "Italy"},
			CorrectAnswer: "USA",
		},
		{
			ID:            3,
			ImageRef:      "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c3/Flag_of_France.svg/320px-Flag_of_France.svg.png",
			Options:       []string{"Germany", "France", "Japan", "China"},
			CorrectAnswer: "France",
		},
		{
			ID:            4,
			ImageRef:      "https://upload.wikimedia.org/wikipedia/commons/thumb/0/05/Flag_of_Brazil.svg/320px-Flag_of_Brazil.svg.png",
			Options:       []string{"Argentina", "Brazil", "Portugal", "Spain"},
			CorrectAnswer: "Brazil",
		},
		{
			ID:            5,
			ImageRef:      "https://upload.wikimedia.org/wikipedia/commons/thumb/9/9e/Flag_of_Japan.svg/320px-Flag_of_Japan.svg.png",
			Options:       []string{"South Korea", "Japan", "Thailand", "Vietnam"},
			CorrectAnswer: "Japan",
		},
	}
}
