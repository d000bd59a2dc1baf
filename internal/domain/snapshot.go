package domain

import (
	"time"
)

// ItemsField is the document field holding the alert list.
const ItemsField = "items"

// SnapshotMetadata describes where an update event came from.
type SnapshotMetadata struct {
	// FromCache is set when the document was served from a local replay
	// rather than a confirmed server change.
	FromCache bool
	// HasPendingWrites is set when the document includes local writes the
	// server has not acknowledged yet.
	HasPendingWrites bool
}

// Snapshot is one update event emitted by an alert store subscription.
// Document is kept loosely typed because the store does not guarantee its shape.
type Snapshot struct {
	Key        RecipientKey
	Document   map[string]any
	Metadata   SnapshotMetadata
	ReceivedAt time.Time
}

// DecodeAlertItems extracts the alert list from a document. A missing or
// non-list field yields an empty list; malformed elements are skipped and
// unknown alert types decode as generic.
func DecodeAlertItems(doc map[string]any) []AlertItem {
	raw, ok := doc[ItemsField]
	if !ok {
		return []AlertItem{}
	}

	list, ok := raw.([]any)
	if !ok {
		return []AlertItem{}
	}

	items := make([]AlertItem, 0, len(list))
	for _, el := range list {
		fields, ok := el.(map[string]any)
		if !ok {
			continue
		}
		item, ok := decodeAlertItem(fields)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	return items
}

func decodeAlertItem(fields map[string]any) (AlertItem, bool) {
	id := stringField(fields, "id")
	if id == "" {
		return AlertItem{}, false
	}

	item := AlertItem{
		ID:           id,
		Type:         AlertType(stringField(fields, "type")),
		Title:        stringField(fields, "title"),
		Message:      stringField(fields, "message"),
		Status:       AlertStatus(stringField(fields, "status")),
		StudentName:  stringField(fields, "studentName"),
		ParentName:   stringField(fields, "parentName"),
		Subject:      stringField(fields, "subject"),
		Time:         stringField(fields, "time"),
		PreviousTime: stringField(fields, "previousTime"),
	}
	if !item.Type.IsKnown() {
		item.Type = AlertTypeGeneric
	}

	switch v := fields["createdAt"].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			item.CreatedAt = t
		}
	case float64:
		item.CreatedAt = time.UnixMilli(int64(v)).UTC()
	case time.Time:
		item.CreatedAt = v
	}

	return item, true
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}
