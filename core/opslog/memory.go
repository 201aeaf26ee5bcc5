package opslog

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps events in memory. Used in tests and as the default
// backend when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append stores the event after validation.
func (s *MemoryStore) Append(_ context.Context, ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

// Query returns events matching q in chronological order.
func (s *MemoryStore) Query(_ context.Context, q Query) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Event
	for _, ev := range s.events {
		if q.QuoteID != "" && ev.QuoteID != q.QuoteID {
			continue
		}
		if q.Type != "" && ev.Type != q.Type {
			continue
		}
		if !q.Start.IsZero() && ev.CreatedAt.Before(q.Start) {
			continue
		}
		if !q.End.IsZero() && ev.CreatedAt.After(q.End) {
			continue
		}
		res = append(res, ev)
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

// Seen reports whether any event of the type exists for the quote.
func (s *MemoryStore) Seen(_ context.Context, quoteID, eventType string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ev := range s.events {
		if ev.QuoteID == quoteID && ev.Type == eventType {
			return true, nil
		}
	}
	return false, nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error { return nil }
