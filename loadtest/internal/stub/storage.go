package stub

import (
	"sync"
)

type deliveryKey struct {
	targetID string
	alertID  string
}

// DeliveryStorage keeps received deliveries per queue.
type DeliveryStorage struct {
	mu         sync.RWMutex
	deliveries map[string][]Delivery               // queue -> deliveries
	seen       map[string]map[deliveryKey]struct{} // queue -> (target, alert)
	duplicates map[string]int
	taskNames  map[string]map[string]struct{} // queue -> task name
}

func NewDeliveryStorage() *DeliveryStorage {
	return &DeliveryStorage{
		deliveries: make(map[string][]Delivery),
		seen:       make(map[string]map[deliveryKey]struct{}),
		duplicates: make(map[string]int),
		taskNames:  make(map[string]map[string]struct{}),
	}
}

// Add stores d and reports false when a task with the same name was
// already accepted, mirroring named task deduplication.
func (s *DeliveryStorage) Add(d Delivery) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.TaskName != "" {
		names := s.taskNames[d.Queue]
		if names == nil {
			names = make(map[string]struct{})
			s.taskNames[d.Queue] = names
		}
		if _, ok := names[d.TaskName]; ok {
			return false
		}
		names[d.TaskName] = struct{}{}
	}

	seen := s.seen[d.Queue]
	if seen == nil {
		seen = make(map[deliveryKey]struct{})
		s.seen[d.Queue] = seen
	}
	key := deliveryKey{targetID: d.Role + ":" + d.TargetID, alertID: d.AlertID}
	if _, ok := seen[key]; ok {
		s.duplicates[d.Queue]++
	}
	seen[key] = struct{}{}

	s.deliveries[d.Queue] = append(s.deliveries[d.Queue], d)
	return true
}

func (s *DeliveryStorage) List(queue, targetID string) []Delivery {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Delivery, 0, len(s.deliveries[queue]))
	for _, d := range s.deliveries[queue] {
		if targetID != "" && d.TargetID != targetID {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (s *DeliveryStorage) Stats(queue string) StatsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := StatsResponse{
		Queue:       queue,
		Total:       len(s.deliveries[queue]),
		Duplicates:  s.duplicates[queue],
		ByRole:      make(map[string]int),
		ByAlertType: make(map[string]int),
	}
	for _, d := range s.deliveries[queue] {
		stats.ByRole[d.Role]++
		stats.ByAlertType[d.AlertType]++
	}
	return stats
}

func (s *DeliveryStorage) Reset(queue string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deliveries, queue)
	delete(s.seen, queue)
	delete(s.duplicates, queue)
	delete(s.taskNames, queue)
}

func (s *DeliveryStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = make(map[string][]Delivery)
	s.seen = make(map[string]map[deliveryKey]struct{})
	s.duplicates = make(map[string]int)
	s.taskNames = make(map[string]map[string]struct{})
}
