package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const defaultUpdatesTimeout = 60

type Handler struct {
	bot            BotAPI
	logger         *zap.Logger
	quizService    QuizService
	quizStorage    QuizStorage
	updatesTimeout int
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	quizService QuizService,
	quizStorage QuizStorage,
	updatesTimeout int,
) *Handler {
	if updatesTimeout <= 0 {
		updatesTimeout = defaultUpdatesTimeout
	}

	return &Handler{
		bot:            bot,
		logger:         logger,
		quizService:    quizService,
		quizStorage:    quizStorage,
		updatesTimeout: updatesTimeout,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = h.updatesTimeout

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		_ = h.send(newHTMLMessage(chatID, msgUseButtons))
		return
	}

	switch update.Message.Command() {
	case "start":
		_ = h.withErrorHandling(h.handleStart())(ctx, chatID)

	case "quiz":
		_ = h.withErrorHandling(h.handleQuiz())(ctx, chatID)

	case "score":
		_ = h.withErrorHandling(h.handleScore())(ctx, chatID)

	case "stop":
		_ = h.withErrorHandling(h.handleStop())(ctx, chatID)

	case "help":
		_ = h.send(newHTMLMessage(chatID, msgHelp))

	default:
		_ = h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	_ = h.send(newHTMLMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		h.logger.Error("callback answer error",
			zap.String("callback_id", cb.ID),
			zap.Error(err),
		)
	}
}
