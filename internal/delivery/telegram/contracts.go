package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/guess-the-flag-bot/internal/service"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type QuizService interface {
	NewEngine(ctx context.Context, listener service.AdvanceListener) (*service.QuizEngine, error)
}

type QuizStorage interface {
	Store(chatID int64, engine *service.QuizEngine)
	Get(chatID int64) (*service.QuizEngine, bool)
	Delete(chatID int64) bool
	SetMessageID(chatID int64, messageID int)
	GetMessageID(chatID int64) (int, bool)
}
