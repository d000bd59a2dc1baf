package domain

import (
	"testing"
	"time"
)

func TestDecodeAlertItems(t *testing.T) {
	tests := []struct {
		name    string
		doc     map[string]any
		wantIDs []string
	}{
		{
			name:    "missing items field",
			doc:     map[string]any{"owner": "s-1"},
			wantIDs: []string{},
		},
		{
			name:    "items is not a list",
			doc:     map[string]any{"items": "broken"},
			wantIDs: []string{},
		},
		{
			name:    "nil document",
			doc:     nil,
			wantIDs: []string{},
		},
		{
			name: "skips malformed elements",
			doc: map[string]any{"items": []any{
				map[string]any{"id": "a1", "status": "unread"},
				"not-an-object",
				map[string]any{"status": "unread"},
				map[string]any{"id": "a2", "status": "read"},
			}},
			wantIDs: []string{"a1", "a2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeAlertItems(tt.doc)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("item[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestDecodeAlertItems_Fields(t *testing.T) {
	doc := map[string]any{"items": []any{
		map[string]any{
			"id":          "a1",
			"type":        "attendance_scan",
			"status":      "unread",
			"studentName": "Maria Clara Santos",
			"subject":     "Math",
			"createdAt":   "2024-03-04T08:01:02Z",
		},
		map[string]any{
			"id":        "a2",
			"status":    "unread",
			"createdAt": float64(1709539262000),
		},
		map[string]any{
			"id":     "a3",
			"type":   "homework_due",
			"status": "unread",
		},
	}}

	items := DecodeAlertItems(doc)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	first := items[0]
	if first.Type != AlertTypeAttendanceScan {
		t.Errorf("Type = %q, want %q", first.Type, AlertTypeAttendanceScan)
	}
	if !first.IsUnread() {
		t.Error("expected first item to be unread")
	}
	if first.StudentName != "Maria Clara Santos" || first.Subject != "Math" {
		t.Errorf("unexpected subject fields: %+v", first)
	}
	wantCreated := time.Date(2024, 3, 4, 8, 1, 2, 0, time.UTC)
	if !first.CreatedAt.Equal(wantCreated) {
		t.Errorf("CreatedAt = %v, want %v", first.CreatedAt, wantCreated)
	}

	second := items[1]
	if second.Type != AlertTypeGeneric {
		t.Errorf("missing type should default to generic, got %q", second.Type)
	}
	if items[2].Type != AlertTypeGeneric {
		t.Errorf("unknown type should decode as generic, got %q", items[2].Type)
	}
	if second.CreatedAt.UnixMilli() != 1709539262000 {
		t.Errorf("CreatedAt millis = %d", second.CreatedAt.UnixMilli())
	}
}

func TestRecipientRecord_Unread(t *testing.T) {
	record := RecipientRecord{Items: []AlertItem{
		{ID: "a1", Status: AlertStatusUnread},
		{ID: "a2", Status: AlertStatusRead},
		{ID: "a3", Status: AlertStatusUnread},
	}}

	unread := record.Unread()
	if len(unread) != 2 || unread[0].ID != "a1" || unread[1].ID != "a3" {
		t.Errorf("Unread() = %+v", unread)
	}
}
