package session

import (
	"context"
	"sync"
	"time"

	"github.com/RobBrazier/audiodrop/internal/model"
	"github.com/maypok86/otter/v2"
)

const idleTimeout = 2 * time.Hour

type memoryState struct {
	mu       sync.Mutex
	inFlight int
	toasts   []model.Toast
}

type MemoryStore struct {
	highlights *otter.Cache[string, string]
	states     *otter.Cache[string, *memoryState]
}

func NewMemoryStore(highlight time.Duration) *MemoryStore {
	return &MemoryStore{
		highlights: otter.Must(&otter.Options[string, string]{
			MaximumSize:      100_000,
			ExpiryCalculator: otter.ExpiryWriting[string, string](highlight),
		}),
		states: otter.Must(&otter.Options[string, *memoryState]{
			MaximumSize:      100_000,
			ExpiryCalculator: otter.ExpiryAccessing[string, *memoryState](idleTimeout),
		}),
	}
}

func (m *MemoryStore) state(ctx context.Context, sid string) (*memoryState, error) {
	return m.states.Get(ctx, sid, otter.LoaderFunc[string, *memoryState](func(ctx context.Context, key string) (*memoryState, error) {
		return &memoryState{}, nil
	}))
}

func (m *MemoryStore) SetHighlight(ctx context.Context, sid, id string) error {
	m.highlights.Set(sid, id)
	return nil
}

func (m *MemoryStore) Highlight(ctx context.Context, sid string) (string, error) {
	id, _ := m.highlights.GetIfPresent(sid)
	return id, nil
}

func (m *MemoryStore) BeginPurchase(ctx context.Context, sid string) error {
	s, err := m.state(ctx, sid)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
	return nil
}

func (m *MemoryStore) EndPurchase(ctx context.Context, sid string) error {
	s, err := m.state(ctx, sid)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight > 0 {
		s.inFlight--
	}
	return nil
}

func (m *MemoryStore) PurchaseInProgress(ctx context.Context, sid string) (bool, error) {
	s, ok := m.states.GetIfPresent(sid)
	if !ok {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0, nil
}

func (m *MemoryStore) PushToast(ctx context.Context, sid string, toast model.Toast) error {
	s, err := m.state(ctx, sid)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = append(s.toasts, toast)
	return nil
}

func (m *MemoryStore) PopToasts(ctx context.Context, sid string) ([]model.Toast, error) {
	s, ok := m.states.GetIfPresent(sid)
	if !ok {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	toasts := s.toasts
	s.toasts = nil
	return toasts, nil
}
