package domain

import (
	"time"
)

// AlertType is the closed set of alert kinds a recipient record can hold.
type AlertType string

const (
	AlertTypeLinkRequest     AlertType = "link_request"
	AlertTypeLinkResponse    AlertType = "link_response"
	AlertTypeLinkUnlinked    AlertType = "link_unlinked"
	AlertTypeScheduleAdded   AlertType = "schedule_added"
	AlertTypeScheduleUpdated AlertType = "schedule_updated"
	AlertTypeScheduleDeleted AlertType = "schedule_deleted"
	AlertTypeScheduleCurrent AlertType = "schedule_current"
	AlertTypeAttendanceScan  AlertType = "attendance_scan"
	AlertTypeQRGenerated     AlertType = "qr_generated"
	AlertTypeQRChanged       AlertType = "qr_changed"
	AlertTypeGeneric         AlertType = "generic"
)

var knownAlertTypes = map[AlertType]struct{}{
	AlertTypeLinkRequest:     {},
	AlertTypeLinkResponse:    {},
	AlertTypeLinkUnlinked:    {},
	AlertTypeScheduleAdded:   {},
	AlertTypeScheduleUpdated: {},
	AlertTypeScheduleDeleted: {},
	AlertTypeScheduleCurrent: {},
	AlertTypeAttendanceScan:  {},
	AlertTypeQRGenerated:     {},
	AlertTypeQRChanged:       {},
	AlertTypeGeneric:         {},
}

func (t AlertType) String() string {
	return string(t)
}

func (t AlertType) IsKnown() bool {
	_, ok := knownAlertTypes[t]
	return ok
}

type AlertStatus string

const (
	AlertStatusUnread AlertStatus = "unread"
	AlertStatusRead   AlertStatus = "read"
)

// AlertItem is one notification-worthy event stored in a recipient's record.
// ID is unique within one recipient scope.
type AlertItem struct {
	ID        string      `json:"id"`
	Type      AlertType   `json:"type"`
	Title     string      `json:"title,omitempty"`
	Message   string      `json:"message,omitempty"`
	Status    AlertStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`

	StudentName  string `json:"studentName,omitempty"`
	ParentName   string `json:"parentName,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Time         string `json:"time,omitempty"`
	PreviousTime string `json:"previousTime,omitempty"`
}

func (a *AlertItem) IsUnread() bool {
	return a.Status == AlertStatusUnread
}
