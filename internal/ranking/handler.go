package ranking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// SyncResponse is returned by POST /sync.
type SyncResponse struct {
	Success bool `json:"success"`
	Score   int  `json:"score"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Handler serves the ranking endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With(zap.String("handler", "ranking")),
	}
}

// POST /sync
func (h *Handler) Sync(c *gin.Context) {
	var e entities.LeaderboardEntry
	if err := c.ShouldBindJSON(&e); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	stored, err := h.store.Upsert(c.Request.Context(), e)
	if err != nil {
		if errors.Is(err, ErrInvalidEntry) {
			RespondError(c, http.StatusBadRequest, "invalid_entry", err)
			return
		}
		h.logger.Error("upsert failed", zap.String("id", e.ID), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "upsert_failed", err)
		return
	}

	RespondOK(c, SyncResponse{Success: true, Score: stored.Score})
}

// GET /leaderboard
func (h *Handler) Leaderboard(c *gin.Context) {
	entries, err := h.store.Top(c.Request.Context(), TopLimit)
	if err != nil {
		h.logger.Error("leaderboard query failed", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "leaderboard_failed", err)
		return
	}
	if entries == nil {
		entries = []entities.LeaderboardEntry{}
	}
	RespondOK(c, entries)
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
