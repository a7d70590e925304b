// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
)

// User-facing texts.
const (
	msgWelcome = "🏳️ <b>Guess the Flag</b>\n\n" +
		"I show you a flag, you pick the country. One point for every right answer.\n\n" +
		"Press the button or send /quiz to play."
	msgHelp = "<b>Commands</b>\n\n" +
		"/quiz - start a new quiz (restarts the current one)\n" +
		"/score - show your current score\n" +
		"/stop - stop the current quiz\n" +
		"/help - this message"
	msgUnknownCommand  = "Unknown command. Send /help to see what I can do."
	msgUseButtons      = "Use the buttons under the flag to answer, or send /quiz to start."
	msgInternalError   = "Something went wrong. Please try again later."
	msgNoQuiz          = "No quiz in progress. Send /quiz to start one."
	msgQuizStopped     = "Quiz stopped. Send /quiz whenever you want to play again."
	msgQuestionExpired = "This question is no longer active."
	msgAlreadyAnswered = "You have already answered this question."
	msgCorrect         = "✅ Correct!"
	msgWrongFormat     = "❌ Wrong! It's %s."
)

const (
	progressBarLength = 10
	resultBarLength   = 10
)

// buildProgressBar creates a text progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

// formatQuestionCaption formats the caption shown under a flag.
func formatQuestionCaption(s entities.Snapshot) string {
	return fmt.Sprintf(
		"<b>Which country does this flag belong to?</b>\n\n%s\nQuestion %d of %d · Score %d",
		buildProgressBar(s.QuestionNumber(), s.TotalQuestions, progressBarLength),
		s.QuestionNumber(),
		s.TotalQuestions,
		s.Score,
	)
}

// formatQuizResult formats the completion screen.
func formatQuizResult(s entities.Snapshot) string {
	percentage := 0.0
	if s.TotalQuestions > 0 {
		percentage = float64(s.Score) / float64(s.TotalQuestions) * 100
	}

	emoji, message := "📚", "Keep practicing!"
	switch {
	case percentage >= 100:
		emoji, message = "🏆", "Perfect score!"
	case percentage >= 70:
		emoji, message = "🌟", "Great result!"
	case percentage >= 50:
		emoji, message = "👍", "Not bad, keep going!"
	}

	return fmt.Sprintf(
		"%s <b>Quiz over!</b>\n\nYour score: <b>%d/%d</b>\n%s\n\n%s",
		emoji,
		s.Score,
		s.TotalQuestions,
		buildProgressBar(s.Score, s.TotalQuestions, resultBarLength),
		message,
	)
}

// formatScore formats the reply to /score.
func formatScore(s entities.Snapshot) string {
	if s.Finished {
		return fmt.Sprintf("Quiz finished with <b>%d/%d</b>. Send /quiz to play again.", s.Score, s.TotalQuestions)
	}

	return fmt.Sprintf(
		"Score: <b>%d</b>\nQuestion %d of %d (%.0f%%)",
		s.Score,
		s.QuestionNumber(),
		s.TotalQuestions,
		s.Progress*100,
	)
}

// formatAnswerFeedback formats the callback toast for an answer.
func formatAnswerFeedback(s entities.Snapshot) string {
	if s.IsCorrect() {
		return msgCorrect
	}
	return fmt.Sprintf(msgWrongFormat, s.RevealedAnswer)
}

// optionLabel decorates an option of an answered question.
func optionLabel(option string, s entities.Snapshot) string {
	switch {
	case !s.Answered:
		return option
	case option == s.RevealedAnswer:
		return "✅ " + option
	case option == s.SelectedAnswer:
		return "❌ " + option
	default:
		return option
	}
}
