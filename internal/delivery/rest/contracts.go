package rest

import (
	"context"

	"github.com/aliskhannn/guess-the-flag-bot/internal/service"
)

type QuizService interface {
	NewEngine(ctx context.Context, listener service.AdvanceListener) (*service.QuizEngine, error)
	QuestionCount(ctx context.Context) (int, error)
}

// GameStorage keeps the engines of HTTP games by game ID.
type GameStorage interface {
	Store(gameID string, engine *service.QuizEngine)
	Get(gameID string) (*service.QuizEngine, bool)
	Delete(gameID string) bool
	Len() int
}
