package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/pushtransport"
)

type recordSink struct {
	mu      sync.Mutex
	records []domain.DeliveryRecord
}

func (s *recordSink) add(_ context.Context, records []domain.DeliveryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *recordSink) outcomes() map[domain.DeliveryOutcome]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[domain.DeliveryOutcome]int)
	for _, r := range s.records {
		counts[r.Outcome]++
	}
	return counts
}

func notification(id string) domain.Notification {
	return domain.Notification{
		TargetID:  "parent-1",
		Role:      domain.RoleParent,
		Title:     "Attendance Update",
		Body:      "Maria was marked present.",
		AlertID:   id,
		AlertType: domain.AlertTypeAttendanceScan,
	}
}

func newRecorder(ctrl *gomock.Controller, sink *recordSink) *domain.MockDeliveryRecorder {
	recorder := domain.NewMockDeliveryRecorder(ctrl)
	recorder.EXPECT().RecordDeliveries(gomock.Any(), gomock.Any()).DoAndReturn(sink.add).AnyTimes()
	return recorder
}

func TestOutbox_DeliversAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := pushtransport.NewMockTransport(ctrl)
	transport.EXPECT().Name().Return("fake").AnyTimes()

	var mu sync.Mutex
	delivered := make(map[string]string)
	transport.EXPECT().
		Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *pushtransport.PushMessage) (*pushtransport.Receipt, error) {
			mu.Lock()
			defer mu.Unlock()
			delivered[msg.AlertID] = msg.DeliveryID
			return &pushtransport.Receipt{Name: msg.DeliveryID}, nil
		}).
		Times(5)

	sink := &recordSink{}
	outbox := NewOutbox(transport, newRecorder(ctrl, sink), Config{Workers: 2, QueueSize: 10}, nil)

	for _, id := range []string{"a1", "a2", "a3", "a4", "a5"} {
		outbox.Send(context.Background(), notification(id))
	}

	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if len(delivered) != 5 {
		t.Errorf("delivered %d messages, want 5", len(delivered))
	}
	for id, deliveryID := range delivered {
		if deliveryID == "" {
			t.Errorf("alert %s delivered without delivery id", id)
		}
	}
	if got := sink.outcomes()[domain.DeliveryDelivered]; got != 5 {
		t.Errorf("delivered records = %d, want 5", got)
	}
}

func TestOutbox_FailureIsRecordedNotReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := pushtransport.NewMockTransport(ctrl)
	transport.EXPECT().Name().Return("fake").AnyTimes()
	transport.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil, errors.New("gateway down"))

	sink := &recordSink{}
	outbox := NewOutbox(transport, newRecorder(ctrl, sink), Config{Workers: 1, QueueSize: 1}, nil)

	outbox.Send(context.Background(), notification("a1"))
	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.records) != 1 {
		t.Fatalf("records = %d, want 1", len(sink.records))
	}
	if sink.records[0].Outcome != domain.DeliveryFailed || sink.records[0].Error != "gateway down" {
		t.Errorf("unexpected record: %+v", sink.records[0])
	}
}

func TestOutbox_DropsWhenFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := make(chan struct{})
	release := make(chan struct{})

	transport := pushtransport.NewMockTransport(ctrl)
	transport.EXPECT().Name().Return("fake").AnyTimes()
	transport.EXPECT().
		Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *pushtransport.PushMessage) (*pushtransport.Receipt, error) {
			if msg.AlertID == "a1" {
				close(started)
				<-release
			}
			return &pushtransport.Receipt{}, nil
		}).
		Times(2)

	sink := &recordSink{}
	outbox := NewOutbox(transport, newRecorder(ctrl, sink), Config{Workers: 1, QueueSize: 1}, nil)

	outbox.Send(context.Background(), notification("a1"))
	<-started

	outbox.Send(context.Background(), notification("a2"))

	sendReturned := make(chan struct{})
	go func() {
		outbox.Send(context.Background(), notification("a3"))
		close(sendReturned)
	}()

	select {
	case <-sendReturned:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a full outbox")
	}

	close(release)
	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	outcomes := sink.outcomes()
	if outcomes[domain.DeliveryDelivered] != 2 || outcomes[domain.DeliveryDropped] != 1 {
		t.Errorf("outcomes = %v, want 2 delivered and 1 dropped", outcomes)
	}
}

func TestOutbox_DropDoesNotWaitForRecorder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := make(chan struct{})
	releaseTransport := make(chan struct{})
	releaseRecorder := make(chan struct{})

	transport := pushtransport.NewMockTransport(ctrl)
	transport.EXPECT().Name().Return("fake").AnyTimes()
	transport.EXPECT().
		Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *pushtransport.PushMessage) (*pushtransport.Receipt, error) {
			if msg.AlertID == "a1" {
				close(started)
				<-releaseTransport
			}
			return &pushtransport.Receipt{}, nil
		}).
		Times(2)

	sink := &recordSink{}
	recorder := domain.NewMockDeliveryRecorder(ctrl)
	recorder.EXPECT().
		RecordDeliveries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, records []domain.DeliveryRecord) error {
			for _, r := range records {
				if r.Outcome == domain.DeliveryDropped {
					<-releaseRecorder
				}
			}
			return sink.add(ctx, records)
		}).
		AnyTimes()

	outbox := NewOutbox(transport, recorder, Config{Workers: 1, QueueSize: 1}, nil)

	outbox.Send(context.Background(), notification("a1"))
	<-started
	outbox.Send(context.Background(), notification("a2"))

	start := time.Now()
	outbox.Send(context.Background(), notification("a3"))
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Send on full queue took %v with a slow recorder", elapsed)
	}

	close(releaseRecorder)
	close(releaseTransport)
	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	outcomes := sink.outcomes()
	if outcomes[domain.DeliveryDelivered] != 2 || outcomes[domain.DeliveryDropped] != 1 {
		t.Errorf("outcomes = %v, want 2 delivered and 1 dropped", outcomes)
	}
}

func TestOutbox_SendAfterClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := pushtransport.NewMockTransport(ctrl)
	transport.EXPECT().Name().Return("fake").AnyTimes()
	transport.EXPECT().Deliver(gomock.Any(), gomock.Any()).Times(0)

	outbox := NewOutbox(transport, nil, Config{Workers: 1, QueueSize: 1}, nil)
	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	outbox.Send(context.Background(), notification("late"))

	if err := outbox.Close(context.Background()); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOutbox_CloseTimesOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	defer close(release)

	transport := pushtransport.NewMockTransport(ctrl)
	transport.EXPECT().Name().Return("fake").AnyTimes()
	transport.EXPECT().
		Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *pushtransport.PushMessage) (*pushtransport.Receipt, error) {
			<-release
			return &pushtransport.Receipt{}, nil
		}).
		AnyTimes()

	outbox := NewOutbox(transport, nil, Config{Workers: 1, QueueSize: 4}, nil)
	outbox.Send(context.Background(), notification("slow"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := outbox.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Close() error = %v, want deadline exceeded", err)
	}
}
