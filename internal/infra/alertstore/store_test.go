package alertstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/testutil"
)

var testKey = domain.RecipientKey{Role: domain.RoleParent, ID: "parent-1"}

type snapshotCollector struct {
	mu        sync.Mutex
	snapshots []domain.Snapshot
	errs      []error
	notify    chan struct{}
}

func newCollector() *snapshotCollector {
	return &snapshotCollector{notify: make(chan struct{}, 64)}
}

func (c *snapshotCollector) onUpdate(s domain.Snapshot) {
	c.mu.Lock()
	c.snapshots = append(c.snapshots, s)
	c.mu.Unlock()
	c.notify <- struct{}{}
}

func (c *snapshotCollector) onError(err error) {
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

func (c *snapshotCollector) wait(t *testing.T, n int) []domain.Snapshot {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		c.mu.Lock()
		if len(c.snapshots) >= n {
			out := append([]domain.Snapshot(nil), c.snapshots...)
			c.mu.Unlock()
			return out
		}
		c.mu.Unlock()

		select {
		case <-c.notify:
		case <-deadline:
			t.Fatalf("timed out waiting for %d snapshots", n)
		}
	}
}

func TestStore_AppendAndRead(t *testing.T) {
	testutil.SkipIfShort(t)

	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)
	store := NewStore(client, Options{})

	if _, err := store.Read(ctx, testKey); !errors.Is(err, domain.ErrRecipientNotFound) {
		t.Fatalf("Read() on empty record error = %v, want ErrRecipientNotFound", err)
	}

	base := time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"a1", "a2"} {
		created, err := store.Append(ctx, testKey, domain.AlertItem{
			ID:        id,
			Type:      domain.AlertTypeAttendanceScan,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Append(%s) error = %v", id, err)
		}
		if !created {
			t.Errorf("Append(%s) created = false, want true", id)
		}
	}

	created, err := store.Append(ctx, testKey, domain.AlertItem{ID: "a1", Title: "changed"})
	if err != nil {
		t.Fatalf("duplicate Append() error = %v", err)
	}
	if created {
		t.Error("duplicate Append() created = true, want false")
	}

	record, err := store.Read(ctx, testKey)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(record.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(record.Items))
	}
	if record.Items[0].ID != "a1" || record.Items[1].ID != "a2" {
		t.Errorf("order = %s, %s; want a1, a2", record.Items[0].ID, record.Items[1].ID)
	}
	if record.Items[0].Title != "" {
		t.Errorf("duplicate append overwrote item: title = %q", record.Items[0].Title)
	}
	if !record.Items[0].IsUnread() {
		t.Errorf("status = %q, want unread", record.Items[0].Status)
	}
	if !record.Items[1].CreatedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("createdAt = %v", record.Items[1].CreatedAt)
	}
}

func TestStore_AppendRejectsEmptyID(t *testing.T) {
	store := NewStore(nil, Options{})
	if _, err := store.Append(context.Background(), testKey, domain.AlertItem{}); !errors.Is(err, ErrEmptyAlertID) {
		t.Errorf("Append() error = %v, want ErrEmptyAlertID", err)
	}
}

func TestStore_MarkReadTouchesOnlyNamedItems(t *testing.T) {
	testutil.SkipIfShort(t)

	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)
	store := NewStore(client, Options{})

	for _, id := range []string{"a1", "a2", "a3"} {
		if _, err := store.Append(ctx, testKey, domain.AlertItem{ID: id, Subject: "Math"}); err != nil {
			t.Fatalf("Append(%s) error = %v", id, err)
		}
	}

	if err := store.MarkRead(ctx, testKey, []string{"a1", "a3", "missing"}); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	record, err := store.Read(ctx, testKey)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := map[string]domain.AlertStatus{
		"a1": domain.AlertStatusRead,
		"a2": domain.AlertStatusUnread,
		"a3": domain.AlertStatusRead,
	}
	for _, item := range record.Items {
		if item.Status != want[item.ID] {
			t.Errorf("%s status = %q, want %q", item.ID, item.Status, want[item.ID])
		}
		if item.Subject != "Math" {
			t.Errorf("%s subject = %q, want Math", item.ID, item.Subject)
		}
	}
}

func TestStore_Subscribe(t *testing.T) {
	testutil.SkipIfShort(t)

	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)
	store := NewStore(client, Options{RetryDelay: 50 * time.Millisecond})

	if _, err := store.Append(ctx, testKey, domain.AlertItem{ID: "a1"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	c := newCollector()
	unsubscribe, err := store.Subscribe(ctx, testKey, c.onUpdate, c.onError)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer unsubscribe()

	first := c.wait(t, 1)[0]
	if !first.Metadata.FromCache {
		t.Error("initial snapshot should be flagged as cached")
	}
	if items := domain.DecodeAlertItems(first.Document); len(items) != 1 || items[0].ID != "a1" {
		t.Fatalf("initial items = %+v", items)
	}

	if _, err := store.Append(ctx, testKey, domain.AlertItem{ID: "a2"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	second := c.wait(t, 2)[1]
	if second.Metadata.FromCache {
		t.Error("change snapshot should come from the server")
	}
	if items := domain.DecodeAlertItems(second.Document); len(items) != 2 {
		t.Errorf("items after append = %d, want 2", len(items))
	}

	if err := store.MarkRead(ctx, testKey, []string{"a1"}); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	third := c.wait(t, 3)[2]
	items := domain.DecodeAlertItems(third.Document)
	if len(items) != 2 || items[0].IsUnread() || !items[1].IsUnread() {
		t.Errorf("items after mark read = %+v", items)
	}

	unsubscribe()
	unsubscribe()
}

func TestStore_Notice(t *testing.T) {
	testutil.SkipIfShort(t)

	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)
	store := NewStore(client, Options{NoticeTTL: time.Second})

	notice, err := store.CurrentNotice(ctx, testKey)
	if err != nil || notice != nil {
		t.Fatalf("CurrentNotice() = %v, %v; want nil, nil", notice, err)
	}

	if err := store.ShowTransient(ctx, testKey, domain.Notice{Kind: "connection", Message: "offline"}); err != nil {
		t.Fatalf("ShowTransient() error = %v", err)
	}

	notice, err = store.CurrentNotice(ctx, testKey)
	if err != nil {
		t.Fatalf("CurrentNotice() error = %v", err)
	}
	if notice == nil || notice.Message != "offline" {
		t.Fatalf("CurrentNotice() = %+v, want offline notice", notice)
	}

	ttl, err := client.TTL(ctx, noticeKey(testKey)).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > time.Second {
		t.Errorf("notice TTL = %v, want (0, 1s]", ttl)
	}
}
