package notify

import (
	"fmt"
	"sync"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/opslog"
)

// MockPublisher records published events for tests.
type MockPublisher struct {
	lock      sync.Mutex
	Events    []opslog.Event
	FailTypes map[string]bool
	Closed    bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailTypes: make(map[string]bool)}
}

// PublishEvent records the event or returns an error if configured to fail
// for its type.
func (m *MockPublisher) PublishEvent(ev opslog.Event) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.FailTypes[ev.Type] {
		return fmt.Errorf("publish failed")
	}
	m.Events = append(m.Events, ev)
	return nil
}

// Published returns a copy of the recorded events.
func (m *MockPublisher) Published() []opslog.Event {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]opslog.Event(nil), m.Events...)
}

// Close marks the publisher closed.
func (m *MockPublisher) Close() {
	m.lock.Lock()
	m.Closed = true
	m.lock.Unlock()
}
