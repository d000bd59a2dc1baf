package formatter

import (
	"log/slog"
	"strings"
	"text/template"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

const (
	fallbackTitle = "New Alert"
	fallbackBody  = "You have a new alert."

	defaultStudentName = "Student"
	defaultParentName  = "Parent"
)

type templateKey struct {
	role      domain.Role
	alertType domain.AlertType
}

type messageTemplate struct {
	title *template.Template
	body  *template.Template
}

type templateData struct {
	StudentName  string
	ParentName   string
	Subject      string
	Time         string
	PreviousTime string
}

// Formatter renders notification text from a (role, alert type) table.
type Formatter struct {
	templates map[templateKey]messageTemplate
}

func New() *Formatter {
	templates := make(map[templateKey]messageTemplate, len(defaultTemplates))
	for _, def := range defaultTemplates {
		name := def.role.String() + "." + def.alertType.String()
		templates[templateKey{role: def.role, alertType: def.alertType}] = messageTemplate{
			title: template.Must(template.New(name + ".title").Parse(def.title)),
			body:  template.Must(template.New(name + ".body").Parse(def.body)),
		}
	}

	return &Formatter{templates: templates}
}

// Format returns the title and body for alert as seen by role. Pairs with
// no template fall back to the alert's own title and message.
func (f *Formatter) Format(role domain.Role, alertType domain.AlertType, alert domain.AlertItem) (string, string) {
	tmpl, ok := f.templates[templateKey{role: role, alertType: alertType}]
	if !ok {
		return fallback(alert)
	}

	data := templateData{
		StudentName:  firstName(alert.StudentName, defaultStudentName),
		ParentName:   firstName(alert.ParentName, defaultParentName),
		Subject:      strings.TrimSpace(alert.Subject),
		Time:         strings.TrimSpace(alert.Time),
		PreviousTime: strings.TrimSpace(alert.PreviousTime),
	}

	title, err := render(tmpl.title, data)
	if err != nil {
		slog.Warn("failed to render notification title, using alert text",
			slog.String("role", role.String()),
			slog.String("alert_type", alertType.String()),
			slog.String("error", err.Error()),
		)
		return fallback(alert)
	}

	body, err := render(tmpl.body, data)
	if err != nil {
		slog.Warn("failed to render notification body, using alert text",
			slog.String("role", role.String()),
			slog.String("alert_type", alertType.String()),
			slog.String("error", err.Error()),
		)
		return fallback(alert)
	}

	return title, body
}

func render(t *template.Template, data templateData) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func fallback(alert domain.AlertItem) (string, string) {
	title := strings.TrimSpace(alert.Title)
	if title == "" {
		title = fallbackTitle
	}
	body := strings.TrimSpace(alert.Message)
	if body == "" {
		body = fallbackBody
	}
	return title, body
}

// firstName keeps notification bodies short by using only the first word.
func firstName(name, defaultName string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return defaultName
	}
	return fields[0]
}
