package alertstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/tracing"
)

const (
	DefaultRetryDelay = time.Second
	DefaultNoticeTTL  = 5 * time.Second
)

type Options struct {
	// RetryDelay is the pause between receive attempts after a
	// subscription error.
	RetryDelay time.Duration
	NoticeTTL  time.Duration
}

// Store keeps recipient records in Redis as one hash entry per alert, so
// marking items read never rewrites items it did not touch.
type Store struct {
	client     *redis.Client
	retryDelay time.Duration
	noticeTTL  time.Duration
}

var (
	_ domain.AlertStore = (*Store)(nil)
	_ domain.NoticeSink = (*Store)(nil)
)

func NewStore(client *redis.Client, opts Options) *Store {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = DefaultNoticeTTL
	}

	return &Store{
		client:     client,
		retryDelay: opts.RetryDelay,
		noticeTTL:  opts.NoticeTTL,
	}
}

// Subscribe emits the current record flagged as cached, then a fresh
// snapshot for every change published on the record's channel. Receive
// errors go to onError and the loop keeps going until unsubscribed.
func (s *Store) Subscribe(ctx context.Context, key domain.RecipientKey, onUpdate func(domain.Snapshot), onError func(error)) (domain.Unsubscribe, error) {
	pubsub := s.client.Subscribe(ctx, eventsChannel(key))

	// wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", eventsChannel(key), err)
	}

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	go s.listen(subCtx, key, pubsub, onUpdate, onError)

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			if err := pubsub.Close(); err != nil {
				slog.Debug("failed to close pubsub",
					slog.String("recipient", key.String()),
					slog.String("error", err.Error()),
				)
			}
		})
	}, nil
}

func (s *Store) listen(ctx context.Context, key domain.RecipientKey, pubsub *redis.PubSub, onUpdate func(domain.Snapshot), onError func(error)) {
	s.emit(ctx, key, true, onUpdate, onError)

	for {
		msg, err := pubsub.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, redis.ErrClosed) {
				return
			}

			onError(err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(s.retryDelay):
			}
			continue
		}

		switch m := msg.(type) {
		case *redis.Subscription:
			// the client resubscribed after a reconnect; changes may
			// have been missed, so re-read from the server
			if m.Kind == "subscribe" {
				s.emit(ctx, key, false, onUpdate, onError)
			}
		case *redis.Message:
			s.emit(ctx, key, false, onUpdate, onError)
		}
	}
}

func (s *Store) emit(ctx context.Context, key domain.RecipientKey, fromCache bool, onUpdate func(domain.Snapshot), onError func(error)) {
	doc, err := s.loadDocument(ctx, key)
	if err != nil {
		if ctx.Err() == nil {
			onError(err)
		}
		return
	}

	onUpdate(domain.Snapshot{
		Key:        key,
		Document:   doc,
		Metadata:   domain.SnapshotMetadata{FromCache: fromCache},
		ReceivedAt: time.Now(),
	})
}

// loadDocument returns the record in its loosely typed document form.
// Entries that are not valid JSON objects are skipped.
func (s *Store) loadDocument(ctx context.Context, key domain.RecipientKey) (map[string]any, error) {
	ids, err := s.client.ZRange(ctx, orderKey(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load alert order: %w", err)
	}

	items := make([]any, 0, len(ids))
	if len(ids) == 0 {
		return map[string]any{domain.ItemsField: items}, nil
	}

	values, err := s.client.HMGet(ctx, itemsKey(key), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load alert items: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var fields map[string]any
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			slog.WarnContext(ctx, "skipping malformed alert item",
				slog.String("recipient", key.String()),
				slog.String("alert_id", ids[i]),
				slog.String("error", err.Error()),
			)
			continue
		}
		items = append(items, fields)
	}

	return map[string]any{domain.ItemsField: items}, nil
}

func (s *Store) Read(ctx context.Context, key domain.RecipientKey) (*domain.RecipientRecord, error) {
	ctx, span := tracing.StartStoreOperationSpan(ctx, "read", key.String())
	defer span.End()

	exists, err := s.client.Exists(ctx, orderKey(key)).Result()
	if err != nil {
		tracing.RecordResult(span, err)
		return nil, err
	}
	if exists == 0 {
		return nil, domain.ErrRecipientNotFound
	}

	doc, err := s.loadDocument(ctx, key)
	if err != nil {
		tracing.RecordResult(span, err)
		return nil, err
	}

	return &domain.RecipientRecord{
		Key:   key,
		Items: domain.DecodeAlertItems(doc),
	}, nil
}

func (s *Store) MarkRead(ctx context.Context, key domain.RecipientKey, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	ctx, span := tracing.StartStoreOperationSpan(ctx, "mark_read", key.String())
	defer span.End()

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	updated, err := markReadScript.Run(ctx, s.client, []string{itemsKey(key), eventsChannel(key)}, args...).Int()
	if err != nil {
		tracing.RecordResult(span, err)
		return fmt.Errorf("mark read: %w", err)
	}

	slog.DebugContext(ctx, "alerts marked read",
		slog.String("recipient", key.String()),
		slog.Int("requested", len(ids)),
		slog.Int("updated", updated),
	)

	return nil
}

// Append adds item to key's record and reports whether it was new. An id
// already present is left untouched.
func (s *Store) Append(ctx context.Context, key domain.RecipientKey, item domain.AlertItem) (bool, error) {
	if item.ID == "" {
		return false, ErrEmptyAlertID
	}
	if item.Status == "" {
		item.Status = domain.AlertStatusUnread
	}
	if item.Type == "" {
		item.Type = domain.AlertTypeGeneric
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	ctx, span := tracing.StartStoreOperationSpan(ctx, "append", key.String())
	defer span.End()

	data, err := json.Marshal(item)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidAlertData, err)
	}

	created, err := appendScript.Run(ctx, s.client,
		[]string{itemsKey(key), orderKey(key), eventsChannel(key)},
		item.ID, string(data), item.CreatedAt.UnixMilli(),
	).Int()
	if err != nil {
		tracing.RecordResult(span, err)
		return false, fmt.Errorf("append alert: %w", err)
	}

	return created == 1, nil
}

// ShowTransient stores notice until its TTL expires, replacing any notice
// still showing.
func (s *Store) ShowTransient(ctx context.Context, key domain.RecipientKey, notice domain.Notice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, noticeKey(key), data, s.noticeTTL).Err()
}

// CurrentNotice returns the notice still showing for key, or nil.
func (s *Store) CurrentNotice(ctx context.Context, key domain.RecipientKey) (*domain.Notice, error) {
	data, err := s.client.Get(ctx, noticeKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var notice domain.Notice
	if err := json.Unmarshal(data, &notice); err != nil {
		return nil, ErrInvalidAlertData
	}
	return &notice, nil
}
