package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

// UpcomingRanker returns an entity's ongoing and next classes.
type UpcomingRanker interface {
	RankedUpcoming(ctx context.Context, entityID string) ([]domain.UpcomingEntry, error)
}

type ScheduleHandler struct {
	ranker       UpcomingRanker
	scheduleRepo domain.ScheduleRepository
}

func NewScheduleHandler(ranker UpcomingRanker, scheduleRepo domain.ScheduleRepository) *ScheduleHandler {
	return &ScheduleHandler{
		ranker:       ranker,
		scheduleRepo: scheduleRepo,
	}
}

type scheduleEntryBody struct {
	Subject string `json:"subject" binding:"required"`
	Day     string `json:"day" binding:"required"`
	Time    string `json:"time" binding:"required"`
}

type replaceScheduleRequest struct {
	Entries []scheduleEntryBody `json:"entries" binding:"required,dive"`
}

type scheduleResponse struct {
	EntityID string                 `json:"entity_id"`
	Entries  []domain.ScheduleEntry `json:"entries"`
}

type upcomingResponse struct {
	EntityID string                 `json:"entity_id"`
	Entries  []domain.UpcomingEntry `json:"entries"`
}

func (h *ScheduleHandler) HandleUpcoming(c *gin.Context) {
	ctx := c.Request.Context()
	entityID := c.Param("entityID")

	entries, err := h.ranker.RankedUpcoming(ctx, entityID)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyEntityID) {
			respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to rank upcoming schedule",
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, codeUnavailable, "schedule store is unavailable")
		return
	}

	if entries == nil {
		entries = []domain.UpcomingEntry{}
	}

	c.JSON(http.StatusOK, upcomingResponse{
		EntityID: strings.TrimSpace(entityID),
		Entries:  entries,
	})
}

func (h *ScheduleHandler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()

	entityID := strings.TrimSpace(c.Param("entityID"))
	if entityID == "" {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, domain.ErrEmptyEntityID.Error())
		return
	}

	entries, err := h.scheduleRepo.GetEntries(ctx, entityID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load schedule",
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, codeUnavailable, "schedule store is unavailable")
		return
	}

	if entries == nil {
		entries = []domain.ScheduleEntry{}
	}

	c.JSON(http.StatusOK, scheduleResponse{
		EntityID: entityID,
		Entries:  entries,
	})
}

// HandleReplace swaps the whole weekly schedule. Day names must be
// recognizable; time ranges are stored as entered.
func (h *ScheduleHandler) HandleReplace(c *gin.Context) {
	ctx := c.Request.Context()

	entityID := strings.TrimSpace(c.Param("entityID"))
	if entityID == "" {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, domain.ErrEmptyEntityID.Error())
		return
	}

	var req replaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	entries := make([]domain.ScheduleEntry, 0, len(req.Entries))
	for i, e := range req.Entries {
		if _, err := domain.ParseWeekday(e.Day); err != nil {
			respondError(c, http.StatusBadRequest, codeInvalidRequest, fmt.Sprintf("entries[%d]: %s", i, err.Error()))
			return
		}
		entries = append(entries, domain.ScheduleEntry{
			Subject:   strings.TrimSpace(e.Subject),
			Day:       strings.TrimSpace(e.Day),
			TimeRange: strings.TrimSpace(e.Time),
		})
	}

	if err := h.scheduleRepo.ReplaceEntries(ctx, entityID, entries); err != nil {
		slog.ErrorContext(ctx, "failed to replace schedule",
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, codeUnavailable, "schedule store is unavailable")
		return
	}

	slog.InfoContext(ctx, "schedule replaced",
		slog.String("entity_id", entityID),
		slog.Int("entry_count", len(entries)),
	)

	c.Status(http.StatusNoContent)
}
