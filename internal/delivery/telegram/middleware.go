package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/service"
)

// userError is shown to the user verbatim.
type userError struct{ text string }

func (e userError) Error() string { return e.text }

// HandlerFunc handles a command for the session of the sending user.
type HandlerFunc func(ctx context.Context, chatID int64, sess *service.Session) error

// withSession resolves the user's session and reports handler errors.
func (h *Handler) withSession(fn HandlerFunc) func(ctx context.Context, chatID, userID int64) error {
	return func(ctx context.Context, chatID, userID int64) error {
		sess, err := h.sessions.Get(ctx, userKey(userID))
		if err != nil {
			h.logger.Error("failed to load session",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			return nil
		}

		if err = fn(ctx, chatID, sess); err != nil {
			var ue userError
			if errors.As(err, &ue) {
				h.sendError(chatID, ue.text)
				return nil
			}
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
		}
		return nil
	}
}
