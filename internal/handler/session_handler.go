package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/service/dedup"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/service/listener"
)

// SessionManager starts and stops per-recipient alert subscriptions.
type SessionManager interface {
	Subscribe(ctx context.Context, key domain.RecipientKey, tracker *dedup.Tracker) error
	Unsubscribe(key domain.RecipientKey) error
	Info(key domain.RecipientKey) (listener.SessionInfo, error)
}

type SessionHandler struct {
	manager SessionManager
}

func NewSessionHandler(manager SessionManager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

type startSessionRequest struct {
	Role        string `json:"role" binding:"required"`
	RecipientID string `json:"recipient_id" binding:"required"`
}

type sessionResponse struct {
	Role        string     `json:"role"`
	RecipientID string     `json:"recipient_id"`
	State       string     `json:"state"`
	Delivered   int        `json:"delivered_count"`
	StartedAt   time.Time  `json:"started_at"`
	LastEventAt *time.Time `json:"last_event_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

func newSessionResponse(info listener.SessionInfo) sessionResponse {
	resp := sessionResponse{
		Role:        info.Key.Role.String(),
		RecipientID: info.Key.ID,
		State:       info.State.String(),
		Delivered:   info.Delivered,
		StartedAt:   info.StartedAt,
		LastError:   info.LastError,
	}
	if !info.LastEventAt.IsZero() {
		t := info.LastEventAt
		resp.LastEventAt = &t
	}
	return resp
}

// HandleStart begins a session with a fresh dedup history. Starting a
// session that is already running returns its current state.
func (h *SessionHandler) HandleStart(c *gin.Context) {
	ctx := c.Request.Context()

	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	key, ok := recipientKey(c, req.Role, req.RecipientID)
	if !ok {
		return
	}

	if err := h.manager.Subscribe(ctx, key, dedup.NewTracker()); err != nil {
		if errors.Is(err, listener.ErrManagerClosed) {
			respondError(c, http.StatusServiceUnavailable, codeUnavailable, "service is shutting down")
			return
		}
		slog.ErrorContext(ctx, "failed to start session",
			slog.String("recipient", key.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, codeUnavailable, "alert store is unavailable")
		return
	}

	info, err := h.manager.Info(key)
	if err != nil {
		// torn down between subscribe and read back
		respondError(c, http.StatusConflict, codeNotFound, "session ended while starting")
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(info))
}

func (h *SessionHandler) HandleGet(c *gin.Context) {
	key, ok := recipientKeyFromPath(c)
	if !ok {
		return
	}

	info, err := h.manager.Info(key)
	if err != nil {
		if errors.Is(err, listener.ErrNotSubscribed) {
			respondError(c, http.StatusNotFound, codeNotFound, "no active session")
			return
		}
		respondError(c, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(info))
}

// HandleStop ends the session and forgets which alerts it delivered.
func (h *SessionHandler) HandleStop(c *gin.Context) {
	key, ok := recipientKeyFromPath(c)
	if !ok {
		return
	}

	if err := h.manager.Unsubscribe(key); err != nil {
		if errors.Is(err, listener.ErrNotSubscribed) {
			respondError(c, http.StatusNotFound, codeNotFound, "no active session")
			return
		}
		respondError(c, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}
