package pushtransport

import (
	"time"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

// PushMessage is the payload delivered to the push gateway.
type PushMessage struct {
	DeliveryID string `json:"-"`

	TargetID  string            `json:"target_id"`
	Role      string            `json:"role"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	AlertID   string            `json:"alert_id"`
	AlertType string            `json:"alert_type"`
	Data      map[string]string `json:"data,omitempty"`
}

func NewPushMessage(deliveryID string, n domain.Notification) *PushMessage {
	return &PushMessage{
		DeliveryID: deliveryID,
		TargetID:   n.TargetID,
		Role:       n.Role.String(),
		Title:      n.Title,
		Body:       n.Body,
		AlertID:    n.AlertID,
		AlertType:  n.AlertType.String(),
		Data:       n.Metadata,
	}
}

type Receipt struct {
	Name       string    `json:"name"`
	CreateTime time.Time `json:"create_time"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name        string             `json:"name,omitempty"`
	HTTPRequest PrimindHTTPRequest `json:"httpRequest"`
}

type PrimindHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name       string `json:"name"`
	CreateTime string `json:"createTime"`
}
