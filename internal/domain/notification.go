package domain

import "context"

//go:generate mockgen -source=notification.go -destination=notification_mock.go -package=domain

// Notification is a formatted alert ready to hand to the push transport.
type Notification struct {
	TargetID  string
	Role      Role
	Title     string
	Body      string
	AlertID   string
	AlertType AlertType
	Metadata  map[string]string
}

// Dispatcher hands notifications to the push transport. Send never blocks
// and never reports failure back to the caller.
type Dispatcher interface {
	Send(ctx context.Context, n Notification)
}

// Notice is a transient, auto-dismissing message for the UI.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NoticeSink surfaces transient notices to the UI collaborator.
type NoticeSink interface {
	ShowTransient(ctx context.Context, key RecipientKey, notice Notice) error
}
