package formatter

import (
	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

type templateDef struct {
	role      domain.Role
	alertType domain.AlertType
	title     string
	body      string
}

// Optional tokens are wrapped in {{with}} so an absent value drops the
// whole clause instead of rendering an empty placeholder.
var defaultTemplates = []templateDef{
	// student
	{
		role:      domain.RoleStudent,
		alertType: domain.AlertTypeLinkRequest,
		title:     "Link Request",
		body:      "{{.ParentName}} wants to link to your account.",
	},
	{
		role:      domain.RoleStudent,
		alertType: domain.AlertTypeLinkUnlinked,
		title:     "Account Unlinked",
		body:      "{{.ParentName}} is no longer linked to your account.",
	},
	{
		role:      domain.RoleStudent,
		alertType: domain.AlertTypeScheduleAdded,
		title:     "New Class Added",
		body:      "{{with .Subject}}{{.}}{{else}}A class{{end}} was added to your schedule{{with .Time}} at {{.}}{{end}}.",
	},
	{
		role:      domain.RoleStudent,
		alertType: domain.AlertTypeScheduleUpdated,
		title:     "Class Updated",
		body:      "{{with .Subject}}{{.}}{{else}}A class{{end}} was moved{{with .PreviousTime}} from {{.}}{{end}}{{with .Time}} to {{.}}{{end}}.",
	},
	{
		role:      domain.RoleStudent,
		alertType: domain.AlertTypeScheduleDeleted,
		title:     "Class Removed",
		body:      "{{with .Subject}}{{.}}{{else}}A class{{end}}{{with .Time}} at {{.}}{{end}} was removed from your schedule.",
	},
	{
		role:      domain.RoleStudent,
		alertType: domain.AlertTypeScheduleCurrent,
		title:     "Class Starting",
		body:      "{{with .Subject}}{{.}}{{else}}Your class{{end}} is happening now{{with .Time}} ({{.}}){{end}}.",
	},
	{
		role:      domain.RoleStudent,
		alertType: domain.AlertTypeAttendanceScan,
		title:     "Attendance Recorded",
		body:      "You were marked present{{with .Subject}} for {{.}}{{end}}{{with .Time}} at {{.}}{{end}}.",
	},
	{
		role:      domain.RoleStudent,
		alertType: domain.AlertTypeQRChanged,
		title:     "QR Code Updated",
		body:      "The attendance QR code{{with .Subject}} for {{.}}{{end}} has changed.",
	},

	// parent
	{
		role:      domain.RoleParent,
		alertType: domain.AlertTypeLinkResponse,
		title:     "Link Request Update",
		body:      "{{.StudentName}} responded to your link request.",
	},
	{
		role:      domain.RoleParent,
		alertType: domain.AlertTypeLinkUnlinked,
		title:     "Account Unlinked",
		body:      "{{.StudentName}} is no longer linked to your account.",
	},
	{
		role:      domain.RoleParent,
		alertType: domain.AlertTypeScheduleAdded,
		title:     "Schedule Update",
		body:      "{{.StudentName}} has a new class{{with .Subject}}: {{.}}{{end}}{{with .Time}} at {{.}}{{end}}.",
	},
	{
		role:      domain.RoleParent,
		alertType: domain.AlertTypeScheduleUpdated,
		title:     "Schedule Update",
		body:      "{{.StudentName}}'s {{with .Subject}}{{.}}{{else}}class{{end}} was moved{{with .PreviousTime}} from {{.}}{{end}}{{with .Time}} to {{.}}{{end}}.",
	},
	{
		role:      domain.RoleParent,
		alertType: domain.AlertTypeScheduleDeleted,
		title:     "Schedule Update",
		body:      "{{.StudentName}}'s {{with .Subject}}{{.}}{{else}}class{{end}}{{with .Time}} at {{.}}{{end}} was removed.",
	},
	{
		role:      domain.RoleParent,
		alertType: domain.AlertTypeScheduleCurrent,
		title:     "Class In Progress",
		body:      "{{.StudentName}} has {{with .Subject}}{{.}}{{else}}a class{{end}} now{{with .Time}} ({{.}}){{end}}.",
	},
	{
		role:      domain.RoleParent,
		alertType: domain.AlertTypeAttendanceScan,
		title:     "Attendance Update",
		body:      "{{.StudentName}} was marked present{{with .Subject}} for {{.}}{{end}}{{with .Time}} at {{.}}{{end}}.",
	},

	// admin
	{
		role:      domain.RoleAdmin,
		alertType: domain.AlertTypeLinkRequest,
		title:     "Link Request",
		body:      "{{.ParentName}} requested to link with {{.StudentName}}.",
	},
	{
		role:      domain.RoleAdmin,
		alertType: domain.AlertTypeAttendanceScan,
		title:     "Attendance Scan",
		body:      "{{.StudentName}} scanned in{{with .Subject}} for {{.}}{{end}}{{with .Time}} at {{.}}{{end}}.",
	},
	{
		role:      domain.RoleAdmin,
		alertType: domain.AlertTypeQRGenerated,
		title:     "QR Code Generated",
		body:      "A new attendance QR code was generated{{with .Subject}} for {{.}}{{end}}.",
	},
	{
		role:      domain.RoleAdmin,
		alertType: domain.AlertTypeQRChanged,
		title:     "QR Code Changed",
		body:      "The attendance QR code{{with .Subject}} for {{.}}{{end}} was replaced{{with .Time}} at {{.}}{{end}}.",
	},
}
