package stub

import "time"

// Delivery is one push message received through the tasks endpoint.
type Delivery struct {
	TaskName   string            `json:"task_name"`
	Queue      string            `json:"queue"`
	TargetID   string            `json:"target_id"`
	Role       string            `json:"role"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	AlertID    string            `json:"alert_id"`
	AlertType  string            `json:"alert_type"`
	Data       map[string]string `json:"data,omitempty"`
	ReceivedAt time.Time         `json:"received_at"`
}

type DeliveriesResponse struct {
	Deliveries []Delivery `json:"deliveries"`
	Count      int        `json:"count"`
}

// StatsResponse summarizes a queue. Duplicates counts deliveries whose
// (target, alert) pair had already been received.
type StatsResponse struct {
	Queue       string         `json:"queue"`
	Total       int            `json:"total"`
	Duplicates  int            `json:"duplicates"`
	ByRole      map[string]int `json:"by_role"`
	ByAlertType map[string]int `json:"by_alert_type"`
}

type taskRequest struct {
	Task struct {
		Name        string `json:"name"`
		HTTPRequest struct {
			Body    string            `json:"body"`
			Headers map[string]string `json:"headers"`
		} `json:"httpRequest"`
	} `json:"task"`
}

type pushPayload struct {
	TargetID  string            `json:"target_id"`
	Role      string            `json:"role"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	AlertID   string            `json:"alert_id"`
	AlertType string            `json:"alert_type"`
	Data      map[string]string `json:"data"`
}

type taskResponse struct {
	Name       string `json:"name"`
	CreateTime string `json:"createTime"`
}
