// README: In-process trip store for local runs and the plan demo.
package trip

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

type MemoryStore struct {
	mu     sync.RWMutex
	trips  map[string][]byte
	events map[string][]Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trips: map[string][]byte{}, events: map[string][]Event{}}
}

func (s *MemoryStore) Create(_ context.Context, t *Trip) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.trips[t.ID]; exists {
		return ErrConflict
	}
	s.trips[t.ID] = doc
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(id)
}

func (s *MemoryStore) load(id string) (*Trip, error) {
	doc, ok := s.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	var t Trip
	if err := json.Unmarshal(doc, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MemoryStore) List(_ context.Context, f ListFilter) ([]*Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Trip
	for id := range s.trips {
		t, err := s.load(id)
		if err != nil {
			return nil, err
		}
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, t *Trip, version int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.load(t.ID)
	if err != nil || cur.Version != version {
		return false, nil
	}
	next := *t
	next.Version = version + 1
	return true, s.put(&next)
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, from, to Status, version int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.load(id)
	if err != nil || cur.Status != from || cur.Version != version {
		return false, nil
	}
	cur.Status = to
	cur.Version++
	cur.UpdatedAt = time.Now().UTC()
	return true, s.put(cur)
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[id]; !ok {
		return false, nil
	}
	delete(s.trips, id)
	delete(s.events, id)
	return true, nil
}

func (s *MemoryStore) AppendEvent(_ context.Context, e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.TripID] = append(s.events[e.TripID], *e)
	return nil
}

func (s *MemoryStore) ListEvents(_ context.Context, tripID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events[tripID]...), nil
}

func (s *MemoryStore) put(t *Trip) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}
	s.trips[t.ID] = doc
	return nil
}
