package entities

import (
	"time"
)

// QuizSession represents one play-through of the quiz.
// It tracks the question order, the current position, the score and the answer pending reveal.
type QuizSession struct {
	ID             string     // unique session ID
	Questions      []Question // session copy of the question bank with shuffled options
	CurrentIndex   int        // index of the current question; len(Questions) means finished
	Score          int        // number of correct answers so far
	SelectedAnswer string     // option chosen for the current question
	RevealedAnswer string     // correct label of the current question, shown as feedback
	Answered       bool       // whether SelectedAnswer and RevealedAnswer are set
	StartedAt      time.Time  // timestamp when the session started
	CompletedAt    *time.Time // timestamp when the last question was advanced past (nullable)
}

// NewQuizSession creates a session over the given questions. The slice is owned by the session.
func NewQuizSession(id string, questions []Question) *QuizSession {
	return &QuizSession{
		ID:        id,
		Questions: questions,
		StartedAt: time.Now(),
	}
}

// Total returns the number of questions in the session.
func (qs *QuizSession) Total() int {
	return len(qs.Questions)
}

// IsFinished reports whether every question has been advanced past.
func (qs *QuizSession) IsFinished() bool {
	return qs.CurrentIndex >= len(qs.Questions)
}

// Current returns the current question or nil when the session is finished.
func (qs *QuizSession) Current() *Question {
	if qs.IsFinished() {
		return nil
	}
	return &qs.Questions[qs.CurrentIndex]
}

// Progress returns the fraction of questions presented so far.
func (qs *QuizSession) Progress() float64 {
	if len(qs.Questions) == 0 || qs.IsFinished() {
		return 1
	}
	return float64(qs.CurrentIndex+1) / float64(len(qs.Questions))
}

// CanAnswer reports whether the current question accepts an answer.
func (qs *QuizSession) CanAnswer() bool {
	return !qs.IsFinished() && !qs.Answered
}

// Answer records the option for the current question and reveals the correct one.
// It reports whether the option is correct. Callers must check CanAnswer first.
func (qs *QuizSession) Answer(option string) bool {
	q := qs.Current()

	qs.SelectedAnswer = option
	qs.RevealedAnswer = q.CorrectAnswer
	qs.Answered = true

	isCorrect := option == q.CorrectAnswer
	if isCorrect {
		qs.Score++
	}

	return isCorrect
}

// Advance moves to the next question, or finishes the session after the last one.
func (qs *QuizSession) Advance() {
	if qs.IsFinished() {
		return
	}

	qs.CurrentIndex++
	qs.SelectedAnswer = ""
	qs.RevealedAnswer = ""
	qs.Answered = false

	if qs.IsFinished() {
		now := time.Now()
		qs.CompletedAt = &now
	}
}

// Snapshot returns a read-only copy of the session state.
func (qs *QuizSession) Snapshot() Snapshot {
	s := Snapshot{
		SessionID:      qs.ID,
		QuestionIndex:  qs.CurrentIndex,
		TotalQuestions: len(qs.Questions),
		SelectedAnswer: qs.SelectedAnswer,
		RevealedAnswer: qs.RevealedAnswer,
		Answered:       qs.Answered,
		Score:          qs.Score,
		Progress:       qs.Progress(),
		Finished:       qs.IsFinished(),
	}

	if q := qs.Current(); q != nil {
		c := q.Clone()
		// The answer is only part of the snapshot once revealed.
		if !qs.Answered {
			c.CorrectAnswer = ""
		}
		s.Question = &c
	}

	return s
}

// Snapshot is what a view reads to render the quiz.
type Snapshot struct {
	SessionID      string    `json:"session_id"`
	Question       *Question `json:"question,omitempty"`
	QuestionIndex  int       `json:"question_index"`
	TotalQuestions int       `json:"total_questions"`
	SelectedAnswer string    `json:"selected_answer,omitempty"`
	RevealedAnswer string    `json:"revealed_answer,omitempty"`
	Answered       bool      `json:"answered"`
	Score          int       `json:"score"`
	Progress       float64   `json:"progress"`
	Finished       bool      `json:"finished"`
}

// QuestionNumber returns the 1-based number of the current question.
func (s Snapshot) QuestionNumber() int {
	return s.QuestionIndex + 1
}

// IsCorrect reports whether the answered option matches the revealed one.
func (s Snapshot) IsCorrect() bool {
	return s.Answered && s.SelectedAnswer == s.RevealedAnswer
}
