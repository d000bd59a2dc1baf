package listener

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/metrics"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/tracing"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/service/dedup"
)

const (
	NoticeKindConnection = "connection"

	connectionNoticeMessage = "Connection interrupted. Alerts will resume when it is restored."
)

// Formatter renders the notification text for an alert.
type Formatter interface {
	Format(role domain.Role, alertType domain.AlertType, alert domain.AlertItem) (string, string)
}

// SessionInfo is a point-in-time view of one subscription.
type SessionInfo struct {
	Key         domain.RecipientKey
	State       State
	Delivered   int
	StartedAt   time.Time
	LastEventAt time.Time
	LastError   string
}

type subscription struct {
	key       domain.RecipientKey
	ctx       context.Context
	tracker   *dedup.Tracker
	startedAt time.Time

	// mu serializes event handling for this recipient.
	mu          sync.Mutex
	state       State
	serverSeen  bool
	closed      bool
	unsubscribe domain.Unsubscribe
	lastEventAt time.Time
	lastError   string
}

// Manager owns one store subscription per recipient and turns new unread
// alerts into notifications.
type Manager struct {
	store        domain.AlertStore
	formatter    Formatter
	dispatcher   domain.Dispatcher
	notices      domain.NoticeSink
	alertMetrics *metrics.AlertMetrics

	mu     sync.Mutex
	subs   map[domain.RecipientKey]*subscription
	closed bool
}

func NewManager(
	store domain.AlertStore,
	formatter Formatter,
	dispatcher domain.Dispatcher,
	notices domain.NoticeSink,
	alertMetrics *metrics.AlertMetrics,
) *Manager {
	return &Manager{
		store:        store,
		formatter:    formatter,
		dispatcher:   dispatcher,
		notices:      notices,
		alertMetrics: alertMetrics,
		subs:         make(map[domain.RecipientKey]*subscription),
	}
}

// Subscribe starts listening to key's record. A nil tracker starts a fresh
// session. Subscribing an already subscribed key is a no-op and the existing
// session's tracker is kept; a different tracker passed here is ignored.
func (m *Manager) Subscribe(ctx context.Context, key domain.RecipientKey, tracker *dedup.Tracker) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if existing, ok := m.subs[key]; ok {
		m.mu.Unlock()
		if tracker != nil && tracker != existing.tracker {
			slog.WarnContext(ctx, "recipient already subscribed, keeping existing dedup tracker",
				slog.String("recipient", key.String()),
			)
			return nil
		}
		slog.DebugContext(ctx, "recipient already subscribed",
			slog.String("recipient", key.String()),
		)
		return nil
	}

	if tracker == nil {
		tracker = dedup.NewTracker()
	}

	sub := &subscription{
		key:       key,
		ctx:       context.WithoutCancel(ctx),
		tracker:   tracker,
		startedAt: time.Now(),
		state:     StateSubscribing,
	}
	m.subs[key] = sub
	m.mu.Unlock()

	unsubscribe, err := m.store.Subscribe(sub.ctx, key,
		func(snap domain.Snapshot) { m.handleSnapshot(sub, snap) },
		func(err error) { m.handleError(sub, err) },
	)
	if err != nil {
		m.mu.Lock()
		if m.subs[key] == sub {
			delete(m.subs, key)
		}
		m.mu.Unlock()

		slog.ErrorContext(ctx, "failed to subscribe to recipient record",
			slog.String("recipient", key.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("subscribe %s: %w", key, err)
	}

	sub.mu.Lock()
	if sub.closed {
		// torn down while the store was still subscribing
		sub.mu.Unlock()
		unsubscribe()
		return nil
	}
	sub.unsubscribe = unsubscribe
	if sub.state == StateSubscribing {
		sub.state = StateActive
	}
	sub.mu.Unlock()

	if m.alertMetrics != nil {
		m.alertMetrics.AddActiveSubscriptions(ctx, key.Role.String(), 1)
	}

	slog.InfoContext(ctx, "recipient subscribed",
		slog.String("recipient", key.String()),
	)

	return nil
}

// Unsubscribe tears down key's subscription and clears its dedup history.
// Dispatches already handed off are not cancelled.
func (m *Manager) Unsubscribe(key domain.RecipientKey) error {
	m.mu.Lock()
	sub, ok := m.subs[key]
	if !ok {
		m.mu.Unlock()
		return ErrNotSubscribed
	}
	delete(m.subs, key)
	m.mu.Unlock()

	m.teardown(sub)

	slog.Info("recipient unsubscribed",
		slog.String("recipient", key.String()),
	)

	return nil
}

func (m *Manager) teardown(sub *subscription) {
	sub.mu.Lock()
	sub.closed = true
	sub.state = StateUnsubscribed
	unsubscribe := sub.unsubscribe
	sub.unsubscribe = nil
	sub.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
		if m.alertMetrics != nil {
			m.alertMetrics.AddActiveSubscriptions(sub.ctx, sub.key.Role.String(), -1)
		}
	}
	sub.tracker.Clear()
}

func (m *Manager) State(key domain.RecipientKey) State {
	m.mu.Lock()
	sub, ok := m.subs[key]
	m.mu.Unlock()
	if !ok {
		return StateUnsubscribed
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.state
}

func (m *Manager) Info(key domain.RecipientKey) (SessionInfo, error) {
	m.mu.Lock()
	sub, ok := m.subs[key]
	m.mu.Unlock()
	if !ok {
		return SessionInfo{}, ErrNotSubscribed
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	return SessionInfo{
		Key:         sub.key,
		State:       sub.state,
		Delivered:   sub.tracker.Len(),
		StartedAt:   sub.startedAt,
		LastEventAt: sub.lastEventAt,
		LastError:   sub.lastError,
	}, nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Close tears down every subscription. Later Subscribe calls fail.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	subs := make([]*subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub)
	}
	m.subs = make(map[domain.RecipientKey]*subscription)
	m.mu.Unlock()

	for _, sub := range subs {
		m.teardown(sub)
	}

	slog.Info("listener manager closed",
		slog.Int("subscription_count", len(subs)),
	)
}

// isStaleEcho reports whether snap is a cache replay of state the
// subscription has already seen from the server.
func (s *subscription) isStaleEcho(snap domain.Snapshot) bool {
	return snap.Metadata.FromCache && !snap.Metadata.HasPendingWrites && s.serverSeen
}

func (m *Manager) handleSnapshot(sub *subscription, snap domain.Snapshot) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed {
		return
	}

	ctx, span := tracing.StartSnapshotSpan(sub.ctx, sub.key.String(), snap.Metadata.FromCache)
	defer span.End()

	role := sub.key.Role.String()
	source := snapshotSource(snap)

	sub.lastEventAt = time.Now()
	sub.state = StateActive
	sub.lastError = ""

	if sub.isStaleEcho(snap) {
		slog.DebugContext(ctx, "discarding cached snapshot echo",
			slog.String("recipient", sub.key.String()),
		)
		if m.alertMetrics != nil {
			m.alertMetrics.RecordSnapshot(ctx, role, source, "discarded")
		}
		tracing.RecordSnapshotResult(span, 0, 0, true)
		return
	}

	if !snap.Metadata.FromCache {
		sub.serverSeen = true
	}

	items := domain.DecodeAlertItems(snap.Document)

	unread := 0
	admitted := 0
	for _, item := range items {
		if !item.IsUnread() {
			continue
		}
		unread++

		if !sub.tracker.Admit(item.ID) {
			if m.alertMetrics != nil {
				m.alertMetrics.RecordNotification(ctx, role, item.Type.String(), "duplicate")
			}
			continue
		}
		admitted++

		m.notify(ctx, sub.key, item)
		if m.alertMetrics != nil {
			m.alertMetrics.RecordNotification(ctx, role, item.Type.String(), "admitted")
		}
	}

	if m.alertMetrics != nil {
		m.alertMetrics.RecordSnapshot(ctx, role, source, "processed")
	}
	tracing.RecordSnapshotResult(span, unread, admitted, false)

	slog.DebugContext(ctx, "processed snapshot",
		slog.String("recipient", sub.key.String()),
		slog.String("source", source),
		slog.Int("item_count", len(items)),
		slog.Int("unread_count", unread),
		slog.Int("admitted_count", admitted),
	)
}

func (m *Manager) notify(ctx context.Context, key domain.RecipientKey, item domain.AlertItem) {
	title, body := m.formatter.Format(key.Role, item.Type, item)

	metadata := map[string]string{
		"alert_id":   item.ID,
		"alert_type": item.Type.String(),
		"recipient":  key.String(),
	}
	if !item.CreatedAt.IsZero() {
		metadata["created_at"] = item.CreatedAt.UTC().Format(time.RFC3339)
	}

	m.dispatcher.Send(ctx, domain.Notification{
		TargetID:  key.ID,
		Role:      key.Role,
		Title:     title,
		Body:      body,
		AlertID:   item.ID,
		AlertType: item.Type,
		Metadata:  metadata,
	})

	slog.InfoContext(ctx, "alert notification dispatched",
		slog.String("recipient", key.String()),
		slog.String("alert_id", item.ID),
		slog.String("alert_type", item.Type.String()),
	)
}

func (m *Manager) handleError(sub *subscription, err error) {
	if err == nil {
		return
	}

	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return
	}
	sub.state = StateError
	sub.lastError = err.Error()
	ctx := sub.ctx
	key := sub.key
	sub.mu.Unlock()

	transient := IsTransient(err)
	if m.alertMetrics != nil {
		m.alertMetrics.RecordSubscriptionError(ctx, key.Role.String(), transient)
	}

	if !transient {
		slog.ErrorContext(ctx, "recipient subscription error",
			slog.String("recipient", key.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	slog.WarnContext(ctx, "recipient subscription interrupted, waiting for store to reconnect",
		slog.String("recipient", key.String()),
		slog.String("error", err.Error()),
	)

	if m.notices == nil {
		return
	}
	if noticeErr := m.notices.ShowTransient(ctx, key, domain.Notice{
		Kind:    NoticeKindConnection,
		Message: connectionNoticeMessage,
	}); noticeErr != nil {
		slog.WarnContext(ctx, "failed to show connection notice",
			slog.String("recipient", key.String()),
			slog.String("error", noticeErr.Error()),
		)
	}
}

func snapshotSource(snap domain.Snapshot) string {
	if snap.Metadata.FromCache {
		return "cache"
	}
	return "server"
}
