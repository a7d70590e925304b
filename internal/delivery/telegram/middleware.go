package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// HandlerFunc handles one update addressed to a chat.
type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs a failed handler and tells the user something went wrong.
// Failures caused by shutdown are not reported to the chat.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) {
			h.logger.Debug("handler canceled", zap.Int64("chat_id", chatID))
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}
