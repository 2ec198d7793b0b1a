package mocks

import (
	"context"
	"sync"

	"github.com/metinatakli/movie-booking-web/internal/events"
)

// MockPublisher records every published event.
type MockPublisher struct {
	mu        sync.Mutex
	Published []events.Event
	Err       error
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Published = append(m.Published, event)

	return m.Err
}

func (m *MockPublisher) Close() error {
	return nil
}

func (m *MockPublisher) Types() []events.Type {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]events.Type, len(m.Published))
	for i, event := range m.Published {
		types[i] = event.Type
	}

	return types
}

func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Published = nil
}
