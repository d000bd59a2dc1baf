package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

type fakeRecordStore struct {
	records  map[domain.RecipientKey][]domain.AlertItem
	notices  map[domain.RecipientKey]domain.Notice
	markRead map[domain.RecipientKey][]string
	err      error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		records:  make(map[domain.RecipientKey][]domain.AlertItem),
		notices:  make(map[domain.RecipientKey]domain.Notice),
		markRead: make(map[domain.RecipientKey][]string),
	}
}

func (f *fakeRecordStore) Read(_ context.Context, key domain.RecipientKey) (*domain.RecipientRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	items, ok := f.records[key]
	if !ok {
		return nil, domain.ErrRecipientNotFound
	}
	return &domain.RecipientRecord{Key: key, Items: items}, nil
}

func (f *fakeRecordStore) MarkRead(_ context.Context, key domain.RecipientKey, ids []string) error {
	if f.err != nil {
		return f.err
	}
	f.markRead[key] = append(f.markRead[key], ids...)
	return nil
}

func (f *fakeRecordStore) Append(_ context.Context, key domain.RecipientKey, item domain.AlertItem) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, existing := range f.records[key] {
		if existing.ID == item.ID {
			return false, nil
		}
	}
	f.records[key] = append(f.records[key], item)
	return true, nil
}

func (f *fakeRecordStore) CurrentNotice(_ context.Context, key domain.RecipientKey) (*domain.Notice, error) {
	if f.err != nil {
		return nil, f.err
	}
	n, ok := f.notices[key]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func newAlertRouter(store RecordStore) *gin.Engine {
	h := NewAlertHandler(store)
	r := gin.New()
	alerts := r.Group("/api/v1/recipients/:role/:recipientID")
	alerts.GET("/alerts", h.HandleList)
	alerts.POST("/alerts", h.HandleAppend)
	alerts.POST("/alerts/read", h.HandleMarkRead)
	alerts.GET("/notice", h.HandleNotice)
	return r
}

func TestAlertHandler_AppendAndList(t *testing.T) {
	store := newFakeRecordStore()
	r := newAlertRouter(store)

	w := doRequest(t, r, http.MethodPost, "/api/v1/recipients/parent/p-1/alerts", map[string]string{
		"id":          "a1",
		"type":        "attendance_scan",
		"studentName": "Maria Santos",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("append status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doRequest(t, r, http.MethodPost, "/api/v1/recipients/parent/p-1/alerts", map[string]string{"id": "a1"})
	if w.Code != http.StatusOK {
		t.Errorf("duplicate append status = %d, want 200", w.Code)
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/recipients/parent/p-1/alerts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}

	var resp recordResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Recipient != "parent:p-1" {
		t.Errorf("Recipient = %q", resp.Recipient)
	}
	if len(resp.Items) != 1 || resp.UnreadCount != 1 {
		t.Fatalf("items = %d unread = %d, want 1 and 1", len(resp.Items), resp.UnreadCount)
	}
	if resp.Items[0].Type != domain.AlertTypeAttendanceScan || resp.Items[0].StudentName != "Maria Santos" {
		t.Errorf("item = %+v", resp.Items[0])
	}
}

func TestAlertHandler_AppendRequiresID(t *testing.T) {
	r := newAlertRouter(newFakeRecordStore())

	w := doRequest(t, r, http.MethodPost, "/api/v1/recipients/student/s-1/alerts", map[string]string{"type": "generic"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAlertHandler_AppendRejectsUnknownType(t *testing.T) {
	store := newFakeRecordStore()
	r := newAlertRouter(store)

	w := doRequest(t, r, http.MethodPost, "/api/v1/recipients/student/s-1/alerts", map[string]string{
		"id":   "a1",
		"type": "homework_due",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decodeError(t, w); got.Error != codeInvalidRequest {
		t.Errorf("error code = %q, want %q", got.Error, codeInvalidRequest)
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/recipients/student/s-1/alerts", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("list status = %d, want 404 after rejected append", w.Code)
	}
}

func TestAlertHandler_ListNotFound(t *testing.T) {
	r := newAlertRouter(newFakeRecordStore())

	w := doRequest(t, r, http.MethodGet, "/api/v1/recipients/student/s-1/alerts", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAlertHandler_MarkRead(t *testing.T) {
	key := domain.RecipientKey{Role: domain.RoleStudent, ID: "s-1"}

	tests := []struct {
		name       string
		body       any
		storeErr   error
		wantStatus int
		wantIDs    []string
	}{
		{name: "marks ids", body: map[string][]string{"ids": {"a1", "a2"}}, wantStatus: http.StatusNoContent, wantIDs: []string{"a1", "a2"}},
		{name: "empty ids", body: map[string][]string{"ids": {}}, wantStatus: http.StatusBadRequest},
		{name: "blank id", body: map[string][]string{"ids": {""}}, wantStatus: http.StatusBadRequest},
		{name: "store error", body: map[string][]string{"ids": {"a1"}}, storeErr: errors.New("boom"), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeRecordStore()
			store.err = tt.storeErr
			r := newAlertRouter(store)

			w := doRequest(t, r, http.MethodPost, "/api/v1/recipients/student/s-1/alerts/read", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if got := store.markRead[key]; len(got) != len(tt.wantIDs) {
				t.Errorf("marked = %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestAlertHandler_Notice(t *testing.T) {
	store := newFakeRecordStore()
	r := newAlertRouter(store)

	w := doRequest(t, r, http.MethodGet, "/api/v1/recipients/admin/ad-1/notice", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("status without notice = %d, want 204", w.Code)
	}

	store.notices[domain.RecipientKey{Role: domain.RoleAdmin, ID: "ad-1"}] = domain.Notice{Kind: "connection", Message: "Connection interrupted."}

	w = doRequest(t, r, http.MethodGet, "/api/v1/recipients/admin/ad-1/notice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status with notice = %d, want 200", w.Code)
	}

	var notice domain.Notice
	if err := json.Unmarshal(w.Body.Bytes(), &notice); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if notice.Kind != "connection" {
		t.Errorf("Kind = %q, want connection", notice.Kind)
	}
}
