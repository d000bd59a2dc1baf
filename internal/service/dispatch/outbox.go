package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/pushtransport"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/metrics"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/tracing"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256

	deliveryTimeout = 30 * time.Second

	recordSkippedOutcome = "record_skipped"
)

type Config struct {
	Workers   int
	QueueSize int
}

type droppedRecord struct {
	ctx    context.Context
	record domain.DeliveryRecord
}

type job struct {
	ctx        context.Context
	deliveryID string
	n          domain.Notification
	enqueuedAt time.Time
}

// Outbox is a bounded in-memory queue in front of the push transport.
// Send never blocks: when the queue is full the notification is dropped
// and recorded as such. Delivery errors are logged, never returned.
type Outbox struct {
	transport    pushtransport.Transport
	recorder     domain.DeliveryRecorder
	alertMetrics *metrics.AlertMetrics

	queue chan job
	wg    sync.WaitGroup

	// drops carries dropped-notification records to a single recorder
	// goroutine so Send never waits on the recorder.
	drops     chan droppedRecord
	stopDrops chan struct{}
	dropsDone chan struct{}

	mu     sync.RWMutex
	closed bool
}

var _ domain.Dispatcher = (*Outbox)(nil)

func NewOutbox(
	transport pushtransport.Transport,
	recorder domain.DeliveryRecorder,
	cfg Config,
	alertMetrics *metrics.AlertMetrics,
) *Outbox {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	o := &Outbox{
		transport:    transport,
		recorder:     recorder,
		alertMetrics: alertMetrics,
		queue:        make(chan job, cfg.QueueSize),
		drops:        make(chan droppedRecord, cfg.QueueSize),
		stopDrops:    make(chan struct{}),
		dropsDone:    make(chan struct{}),
	}

	o.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go o.worker()
	}
	go o.recordDrops()

	slog.Info("dispatch outbox started",
		slog.String("transport", transport.Name()),
		slog.Int("workers", cfg.Workers),
		slog.Int("queue_size", cfg.QueueSize),
	)

	return o
}

func (o *Outbox) Send(ctx context.Context, n domain.Notification) {
	j := job{
		ctx:        context.WithoutCancel(ctx),
		deliveryID: uuid.NewString(),
		n:          n,
		enqueuedAt: time.Now(),
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		o.drop(j, "outbox closed")
		return
	}

	select {
	case o.queue <- j:
		if o.alertMetrics != nil {
			o.alertMetrics.AddQueueDepth(ctx, 1)
		}
	default:
		o.drop(j, "outbox full")
	}
}

func (o *Outbox) Pending() int {
	return len(o.queue)
}

// Close stops accepting notifications and waits for queued ones to be
// delivered and their records written, or for ctx to end.
func (o *Outbox) Close(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
		go func() {
			o.wg.Wait()
			close(o.stopDrops)
		}()
	}
	o.mu.Unlock()

	select {
	case <-o.dropsDone:
		slog.Info("dispatch outbox drained")
		return nil
	case <-ctx.Done():
		slog.Warn("dispatch outbox close timed out",
			slog.Int("pending", len(o.queue)),
		)
		return ctx.Err()
	}
}

func (o *Outbox) worker() {
	defer o.wg.Done()
	for j := range o.queue {
		if o.alertMetrics != nil {
			o.alertMetrics.AddQueueDepth(j.ctx, -1)
		}
		o.deliver(j)
	}
}

func (o *Outbox) deliver(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, deliveryTimeout)
	defer cancel()

	transportName := o.transport.Name()
	ctx, span := tracing.StartDispatchSpan(ctx, j.deliveryID, j.n.AlertID, transportName)
	defer span.End()

	record := o.newRecord(j)

	_, err := o.transport.Deliver(ctx, pushtransport.NewPushMessage(j.deliveryID, j.n))
	record.CompletedAt = time.Now()
	if err != nil {
		record.Outcome = domain.DeliveryFailed
		record.Error = err.Error()
		slog.WarnContext(ctx, "push delivery failed",
			slog.String("delivery_id", j.deliveryID),
			slog.String("target_id", j.n.TargetID),
			slog.String("alert_id", j.n.AlertID),
			slog.String("transport", transportName),
			slog.String("error", err.Error()),
		)
	} else {
		record.Outcome = domain.DeliveryDelivered
	}
	tracing.RecordDispatchResult(span, string(record.Outcome), err)

	if o.alertMetrics != nil {
		o.alertMetrics.RecordDispatch(ctx, transportName, string(record.Outcome))
		o.alertMetrics.RecordDispatchDuration(ctx, transportName, record.Latency())
	}

	o.record(ctx, record)
}

// recordDrops writes dropped-notification records until the workers have
// finished, then flushes whatever is still buffered.
func (o *Outbox) recordDrops() {
	defer close(o.dropsDone)
	for {
		select {
		case d := <-o.drops:
			o.record(d.ctx, d.record)
		case <-o.stopDrops:
			for {
				select {
				case d := <-o.drops:
					o.record(d.ctx, d.record)
				default:
					return
				}
			}
		}
	}
}

func (o *Outbox) drop(j job, reason string) {
	record := o.newRecord(j)
	record.Outcome = domain.DeliveryDropped
	record.CompletedAt = j.enqueuedAt
	record.Error = reason

	slog.WarnContext(j.ctx, "push notification dropped",
		slog.String("target_id", j.n.TargetID),
		slog.String("alert_id", j.n.AlertID),
		slog.String("reason", reason),
	)

	if o.alertMetrics != nil {
		o.alertMetrics.RecordDispatch(j.ctx, o.transport.Name(), string(domain.DeliveryDropped))
	}

	if o.recorder == nil {
		return
	}

	select {
	case o.drops <- droppedRecord{ctx: j.ctx, record: record}:
	default:
		slog.WarnContext(j.ctx, "delivery record skipped, recorder backlog full",
			slog.String("delivery_id", record.DeliveryID),
			slog.String("alert_id", record.AlertID),
		)
		if o.alertMetrics != nil {
			o.alertMetrics.RecordDispatch(j.ctx, o.transport.Name(), recordSkippedOutcome)
		}
	}
}

func (o *Outbox) newRecord(j job) domain.DeliveryRecord {
	return domain.DeliveryRecord{
		DeliveryID: j.deliveryID,
		TargetID:   j.n.TargetID,
		Role:       j.n.Role.String(),
		AlertID:    j.n.AlertID,
		AlertType:  j.n.AlertType.String(),
		Transport:  o.transport.Name(),
		EnqueuedAt: j.enqueuedAt,
	}
}

func (o *Outbox) record(ctx context.Context, record domain.DeliveryRecord) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordDeliveries(ctx, []domain.DeliveryRecord{record}); err != nil {
		slog.WarnContext(ctx, "failed to record delivery",
			slog.String("delivery_id", record.DeliveryID),
			slog.String("error", err.Error()),
		)
	}
}
