package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/guess-the-flag-bot/internal/config"
)

func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
