package service

import (
	"context"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
)

type QuestionRepo interface {
	GetAll(ctx context.Context) ([]entities.Question, error)
}
