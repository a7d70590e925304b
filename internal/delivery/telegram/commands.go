package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
	"github.com/aliskhannn/guess-the-flag-bot/internal/service"
)

// handleStart sends the welcome screen.
func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newHTMLMessage(chatID, msgWelcome)
		msg.ReplyMarkup = buildStartKeyboard()
		return h.send(msg)
	}
}

// handleQuiz starts a quiz in the chat, or restarts the one in progress.
func (h *Handler) handleQuiz() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.startQuiz(ctx, chatID)
	}
}

// handleScore reports the score of the quiz in progress.
func (h *Handler) handleScore() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		engine, ok := h.quizStorage.Get(chatID)
		if !ok {
			return h.send(newHTMLMessage(chatID, msgNoQuiz))
		}

		return h.send(newHTMLMessage(chatID, formatScore(engine.Snapshot())))
	}
}

// handleStop drops the chat's quiz and its pending advance.
func (h *Handler) handleStop() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		messageID, hasMessage := h.quizStorage.GetMessageID(chatID)

		if !h.quizStorage.Delete(chatID) {
			return h.send(newHTMLMessage(chatID, msgNoQuiz))
		}

		if hasMessage {
			h.clearKeyboard(chatID, messageID)
		}

		h.logger.Info("quiz stopped", zap.Int64("chat_id", chatID))

		return h.send(newHTMLMessage(chatID, msgQuizStopped))
	}
}

func (h *Handler) startQuiz(ctx context.Context, chatID int64) error {
	var snap entities.Snapshot

	engine, ok := h.quizStorage.Get(chatID)
	if ok {
		// Buttons of the old question must not stay clickable.
		if messageID, hasMessage := h.quizStorage.GetMessageID(chatID); hasMessage {
			h.clearKeyboard(chatID, messageID)
		}
		snap = engine.Restart()
	} else {
		var err error
		engine, err = h.quizService.NewEngine(ctx, h.onAdvance(chatID))
		if err != nil {
			return fmt.Errorf("new quiz engine: %w", err)
		}
		h.quizStorage.Store(chatID, engine)
		snap = engine.Snapshot()
	}

	h.logger.Info("quiz started",
		zap.Int64("chat_id", chatID),
		zap.String("session_id", snap.SessionID),
		zap.Bool("restart", ok),
	)

	return h.sendQuestion(chatID, snap)
}

func (h *Handler) sendQuestion(chatID int64, s entities.Snapshot) error {
	msg, err := h.bot.Send(buildQuestionPhoto(chatID, s))
	if err != nil {
		return fmt.Errorf("send question: %w", err)
	}

	h.quizStorage.SetMessageID(chatID, msg.MessageID)
	return nil
}

// onAdvance renders the chat's quiz after the engine moved on.
func (h *Handler) onAdvance(chatID int64) service.AdvanceListener {
	return func(s entities.Snapshot) {
		if !h.isCurrentSession(chatID, s.SessionID) {
			h.logger.Debug("dropping advance of a replaced session",
				zap.Int64("chat_id", chatID),
				zap.String("session_id", s.SessionID),
			)
			return
		}

		messageID, ok := h.quizStorage.GetMessageID(chatID)

		if s.Finished {
			h.showResult(chatID, messageID, ok, s)
			return
		}

		if ok {
			_, err := h.bot.Send(buildQuestionMediaEdit(chatID, messageID, s))
			if err == nil {
				return
			}
			h.logger.Warn("failed to edit question, sending a new one",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}

		if err := h.sendQuestion(chatID, s); err != nil {
			h.logger.Error("failed to send next question",
				zap.Int64("chat_id", chatID),
				zap.String("session_id", s.SessionID),
				zap.Error(err),
			)
		}
	}
}

// isCurrentSession reports whether sessionID is the session the chat plays now.
// The quiz may have been stopped or restarted while its advance was in flight.
func (h *Handler) isCurrentSession(chatID int64, sessionID string) bool {
	engine, ok := h.quizStorage.Get(chatID)
	return ok && engine.Snapshot().SessionID == sessionID
}

func (h *Handler) showResult(chatID int64, messageID int, hasMessage bool, s entities.Snapshot) {
	h.logger.Info("quiz finished",
		zap.Int64("chat_id", chatID),
		zap.String("session_id", s.SessionID),
		zap.Int("score", s.Score),
		zap.Int("total_questions", s.TotalQuestions),
	)

	if hasMessage {
		if _, err := h.bot.Send(buildResultCaptionEdit(chatID, messageID, s)); err == nil {
			return
		}
	}

	msg := newHTMLMessage(chatID, formatQuizResult(s))
	msg.ReplyMarkup = buildResultKeyboard()
	_ = h.send(msg)
}

func (h *Handler) clearKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, emptyKeyboard())
	if _, err := h.bot.Send(edit); err != nil {
		h.logger.Debug("failed to clear keyboard",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}
