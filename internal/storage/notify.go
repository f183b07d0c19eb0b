package storage

import (
	"context"
	"log"
	"sort"
	"sync"

	"ItemList/internal/metrics"
	"ItemList/internal/models"
)

// Subscribe registers fn to receive the full ordered item list after every
// effective mutation. Notifications are delivered one at a time in mutation
// order; fn must not call back into the store synchronously.
func (s *Store) Subscribe(fn func([]models.Item)) (cancel func()) {
	s.subsMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subscribers, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store) publish(ctx context.Context) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	// 요청이 끝나도 이미 커밋된 변경은 알려야 함
	items, err := s.All(context.WithoutCancel(ctx))
	if err != nil {
		log.Printf("Store.publish(): failed to query items: %v", err)
		return
	}
	metrics.Items.Set(float64(len(items)))

	for _, fn := range s.snapshotSubscribers() {
		snapshot := make([]models.Item, len(items))
		copy(snapshot, items)
		fn(snapshot)
	}
}

func (s *Store) snapshotSubscribers() []func([]models.Item) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	ids := make([]uint64, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fns := make([]func([]models.Item), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subscribers[id])
	}
	return fns
}
