package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb, "")
		return
	}

	cd := decodeCallback(cb.Data)
	if cd.Action != actionQuiz {
		h.logger.Debug("unknown callback action", zap.String("data", cb.Data))
		h.answerCallback(cb, "")
		return
	}

	chatID := cb.Message.Chat.ID

	switch cd.subAction() {
	case quizStart:
		// Remove the user's "clock" before the photo upload.
		h.answerCallback(cb, "")
		_ = h.withErrorHandling(h.handleQuiz())(ctx, chatID)

	case quizAnswer:
		h.answerCallback(cb, h.handleAnswerCallback(cb, cd))

	case quizNoop:
		h.answerCallback(cb, msgAlreadyAnswered)

	default:
		h.logger.Debug("unknown quiz callback", zap.String("data", cb.Data))
		h.answerCallback(cb, "")
	}
}

// handleAnswerCallback forwards the chosen option to the chat's engine and
// returns the text of the callback toast.
func (h *Handler) handleAnswerCallback(cb *tgbotapi.CallbackQuery, cd callbackData) string {
	chatID := cb.Message.Chat.ID

	params, err := parseQuizAnswer(cd)
	if err != nil {
		h.logger.Debug("invalid answer callback", zap.String("data", cb.Data))
		return msgQuestionExpired
	}

	engine, ok := h.quizStorage.Get(chatID)
	if !ok {
		return msgNoQuiz
	}

	snap := engine.Snapshot()
	if snap.SessionID != params.SessionID || snap.QuestionIndex != params.QuestionIndex || snap.Question == nil {
		return msgQuestionExpired
	}
	if params.OptionIndex >= len(snap.Question.Options) {
		return msgQuestionExpired
	}

	option := snap.Question.Options[params.OptionIndex]
	if !engine.SubmitAnswerAt(params.SessionID, params.QuestionIndex, option) {
		if snap.Answered {
			return msgAlreadyAnswered
		}
		return msgQuestionExpired
	}

	answered := engine.Snapshot()
	if answered.SessionID != params.SessionID || answered.QuestionIndex != params.QuestionIndex {
		// The advance already ran, the next question replaces the feedback.
		return ""
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, buildAnswerKeyboard(answered))
	_ = h.send(edit)

	h.logger.Debug("answer accepted",
		zap.Int64("chat_id", chatID),
		zap.String("session_id", params.SessionID),
		zap.Int("question_index", params.QuestionIndex),
		zap.Bool("is_correct", answered.IsCorrect()),
	)

	return formatAnswerFeedback(answered)
}
