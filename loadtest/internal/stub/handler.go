package stub

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultQueue = "default"

type Handler struct {
	storage *DeliveryStorage
	now     func() time.Time
}

func NewHandler(storage *DeliveryStorage) *Handler {
	return &Handler{storage: storage, now: time.Now}
}

// Register mounts the tasks endpoints and the inspection API.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/tasks", h.HandleEnqueue)
	r.POST("/tasks/:queue", h.HandleEnqueue)

	api := r.Group("/api/v1")
	api.GET("/deliveries", h.HandleList)
	api.GET("/deliveries/stats", h.HandleStats)
	api.POST("/reset", h.HandleReset)
}

// POST /tasks[/:queue]
// Accepts the Primind Tasks enqueue body and records the decoded push
// message.
func (h *Handler) HandleEnqueue(c *gin.Context) {
	queue := c.Param("queue")
	if queue == "" {
		queue = defaultQueue
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Task.HTTPRequest.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task body is not base64"})
		return
	}

	var payload pushPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task body is not a push message"})
		return
	}

	name := req.Task.Name
	if name == "" {
		name = uuid.NewString()
	}
	now := h.now()

	accepted := h.storage.Add(Delivery{
		TaskName:   name,
		Queue:      queue,
		TargetID:   payload.TargetID,
		Role:       payload.Role,
		Title:      payload.Title,
		Body:       payload.Body,
		AlertID:    payload.AlertID,
		AlertType:  payload.AlertType,
		Data:       payload.Data,
		ReceivedAt: now,
	})

	slog.Debug("task received",
		slog.String("queue", queue),
		slog.String("task_name", name),
		slog.String("alert_id", payload.AlertID),
		slog.Bool("accepted", accepted),
	)

	c.JSON(http.StatusOK, taskResponse{
		Name:       name,
		CreateTime: now.UTC().Format(time.RFC3339),
	})
}

// GET /api/v1/deliveries?queue=...&target_id=...
func (h *Handler) HandleList(c *gin.Context) {
	queue := c.DefaultQuery("queue", defaultQueue)
	deliveries := h.storage.List(queue, c.Query("target_id"))

	c.JSON(http.StatusOK, DeliveriesResponse{
		Deliveries: deliveries,
		Count:      len(deliveries),
	})
}

// GET /api/v1/deliveries/stats?queue=...
func (h *Handler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.storage.Stats(c.DefaultQuery("queue", defaultQueue)))
}

// POST /api/v1/reset?queue=...
// Without a queue every queue is cleared.
func (h *Handler) HandleReset(c *gin.Context) {
	queue := c.Query("queue")
	if queue == "" {
		h.storage.ResetAll()
	} else {
		h.storage.Reset(queue)
	}

	slog.Info("reset deliveries", slog.String("queue", queue))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"queue":  queue,
	})
}
