package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

// RecordStore reads and writes recipient alert records.
type RecordStore interface {
	Read(ctx context.Context, key domain.RecipientKey) (*domain.RecipientRecord, error)
	MarkRead(ctx context.Context, key domain.RecipientKey, ids []string) error
	Append(ctx context.Context, key domain.RecipientKey, item domain.AlertItem) (bool, error)
	CurrentNotice(ctx context.Context, key domain.RecipientKey) (*domain.Notice, error)
}

type AlertHandler struct {
	store RecordStore
}

func NewAlertHandler(store RecordStore) *AlertHandler {
	return &AlertHandler{store: store}
}

type recordResponse struct {
	Recipient   string             `json:"recipient"`
	UnreadCount int                `json:"unread_count"`
	Items       []domain.AlertItem `json:"items"`
}

type markReadRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

type appendAlertRequest struct {
	ID           string    `json:"id" binding:"required"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
	StudentName  string    `json:"studentName"`
	ParentName   string    `json:"parentName"`
	Subject      string    `json:"subject"`
	Time         string    `json:"time"`
	PreviousTime string    `json:"previousTime"`
}

func (h *AlertHandler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()

	key, ok := recipientKeyFromPath(c)
	if !ok {
		return
	}

	record, err := h.store.Read(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrRecipientNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "recipient has no alerts")
			return
		}
		slog.ErrorContext(ctx, "failed to read recipient record",
			slog.String("recipient", key.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, codeUnavailable, "alert store is unavailable")
		return
	}

	c.JSON(http.StatusOK, recordResponse{
		Recipient:   key.String(),
		UnreadCount: len(record.Unread()),
		Items:       record.Items,
	})
}

func (h *AlertHandler) HandleMarkRead(c *gin.Context) {
	ctx := c.Request.Context()

	key, ok := recipientKeyFromPath(c)
	if !ok {
		return
	}

	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	if err := h.store.MarkRead(ctx, key, req.IDs); err != nil {
		slog.ErrorContext(ctx, "failed to mark alerts read",
			slog.String("recipient", key.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, codeUnavailable, "alert store is unavailable")
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleAppend is the producer write path. Posting an id that already
// exists leaves the record unchanged and answers 200 instead of 201.
func (h *AlertHandler) HandleAppend(c *gin.Context) {
	ctx := c.Request.Context()

	key, ok := recipientKeyFromPath(c)
	if !ok {
		return
	}

	var req appendAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	alertType := domain.AlertType(req.Type)
	if alertType != "" && !alertType.IsKnown() {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "unknown alert type: "+req.Type)
		return
	}

	item := domain.AlertItem{
		ID:           req.ID,
		Type:         alertType,
		Title:        req.Title,
		Message:      req.Message,
		Status:       domain.AlertStatusUnread,
		CreatedAt:    req.CreatedAt,
		StudentName:  req.StudentName,
		ParentName:   req.ParentName,
		Subject:      req.Subject,
		Time:         req.Time,
		PreviousTime: req.PreviousTime,
	}

	created, err := h.store.Append(ctx, key, item)
	if err != nil {
		slog.ErrorContext(ctx, "failed to append alert",
			slog.String("recipient", key.String()),
			slog.String("alert_id", req.ID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, codeUnavailable, "alert store is unavailable")
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"id":      req.ID,
		"created": created,
	})
}

// HandleNotice returns the connection notice still showing, or 204.
func (h *AlertHandler) HandleNotice(c *gin.Context) {
	ctx := c.Request.Context()

	key, ok := recipientKeyFromPath(c)
	if !ok {
		return
	}

	notice, err := h.store.CurrentNotice(ctx, key)
	if err != nil {
		respondError(c, http.StatusBadGateway, codeUnavailable, "alert store is unavailable")
		return
	}
	if notice == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, notice)
}
