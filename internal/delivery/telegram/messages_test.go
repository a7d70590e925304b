package telegram

import (
	"strings"
	"testing"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
)

func questionSnapshot() entities.Snapshot {
	return entities.Snapshot{
		SessionID: "s1",
		Question: &entities.Question{
			ID:       1,
			ImageRef: "https://example.com/in.png",
			Options:  []string{"USA", "India", "Brazil", "France"},
		},
		QuestionIndex:  1,
		TotalQuestions: 5,
		Score:          1,
		Progress:       0.4,
	}
}

func TestBuildProgressBar(t *testing.T) {
	tests := []struct {
		current, total, length int
		want                   string
	}{
		{0, 5, 10, "[░░░░░░░░░░]"},
		{1, 5, 10, "[██░░░░░░░░]"},
		{5, 5, 10, "[██████████]"},
		{7, 5, 10, "[██████████]"},
		{1, 0, 4, "[░░░░]"},
	}

	for _, tt := range tests {
		if got := buildProgressBar(tt.current, tt.total, tt.length); got != tt.want {
			t.Errorf("buildProgressBar(%d, %d, %d) = %q, want %q", tt.current, tt.total, tt.length, got, tt.want)
		}
	}
}

func TestFormatQuestionCaption(t *testing.T) {
	got := formatQuestionCaption(questionSnapshot())

	if !strings.Contains(got, "Question 2 of 5") || !strings.Contains(got, "Score 1") {
		t.Errorf("caption = %q", got)
	}
}

func TestFormatQuizResult(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{5, "Perfect score!"},
		{4, "Great result!"},
		{3, "Not bad"},
		{1, "Keep practicing!"},
	}

	for _, tt := range tests {
		s := entities.Snapshot{Score: tt.score, TotalQuestions: 5, Finished: true}
		got := formatQuizResult(s)
		if !strings.Contains(got, tt.want) {
			t.Errorf("score %d: result %q does not contain %q", tt.score, got, tt.want)
		}
		if !strings.Contains(got, "Quiz over!") {
			t.Errorf("score %d: result %q has no title", tt.score, got)
		}
	}
}

func TestFormatScore(t *testing.T) {
	got := formatScore(questionSnapshot())
	if !strings.Contains(got, "Question 2 of 5 (40%)") {
		t.Errorf("score text = %q", got)
	}

	got = formatScore(entities.Snapshot{Score: 3, TotalQuestions: 5, Finished: true})
	if !strings.Contains(got, "3/5") {
		t.Errorf("finished score text = %q", got)
	}
}

func TestAnswerKeyboard(t *testing.T) {
	s := questionSnapshot()

	kb := buildAnswerKeyboard(s)
	if len(kb.InlineKeyboard) != 2 || len(kb.InlineKeyboard[0]) != 2 || len(kb.InlineKeyboard[1]) != 2 {
		t.Fatalf("unexpected keyboard layout: %+v", kb.InlineKeyboard)
	}

	btn := kb.InlineKeyboard[0][1]
	if btn.Text != "India" || btn.CallbackData == nil || *btn.CallbackData != buildQuizAnswerCallback("s1", 1, 1) {
		t.Errorf("unexpected button: %+v", btn)
	}

	s.Answered = true
	s.SelectedAnswer = "USA"
	s.RevealedAnswer = "India"

	kb = buildAnswerKeyboard(s)
	labels := []string{
		kb.InlineKeyboard[0][0].Text,
		kb.InlineKeyboard[0][1].Text,
		kb.InlineKeyboard[1][0].Text,
		kb.InlineKeyboard[1][1].Text,
	}
	want := []string{"❌ USA", "✅ India", "Brazil", "France"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("button %d = %q, want %q", i, labels[i], want[i])
		}
	}
	if *kb.InlineKeyboard[1][0].CallbackData != buildQuizNoopCallback() {
		t.Error("answered keyboard still sends answers")
	}

	if got := formatAnswerFeedback(s); got != "❌ Wrong! It's India." {
		t.Errorf("feedback = %q", got)
	}
	s.SelectedAnswer = "India"
	if got := formatAnswerFeedback(s); got != msgCorrect {
		t.Errorf("feedback = %q, want %q", got, msgCorrect)
	}
}
