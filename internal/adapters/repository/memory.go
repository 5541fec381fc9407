package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/hirematch/internal/domain/model"
	"github.com/okian/hirematch/pkg/metrics"
)

const backendMemory = "memory"

// MemoryStore is an in-memory Store. Candidates list in insertion order.
type MemoryStore struct {
	mu         sync.RWMutex
	positions  map[uuid.UUID]model.Position
	candidates map[uuid.UUID]model.Candidate
	order      []uuid.UUID
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store and applies opts.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		positions:  make(map[uuid.UUID]model.Position),
		candidates: make(map[uuid.UUID]model.Candidate),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutPosition inserts or replaces a position.
func (s *MemoryStore) PutPosition(p model.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[p.ID] = clonePosition(p)
}

// PutCandidate inserts or replaces a candidate. A replaced candidate keeps
// its place in the listing order.
func (s *MemoryStore) PutCandidate(c model.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	s.candidates[c.ID] = cloneCandidate(c)
}

// GetPosition implements Store.
func (s *MemoryStore) GetPosition(_ context.Context, id uuid.UUID) (model.Position, error) {
	defer observe("get_position", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[id]
	if !ok {
		return model.Position{}, ErrNotFound
	}
	return clonePosition(p), nil
}

// GetCandidate implements Store.
func (s *MemoryStore) GetCandidate(_ context.Context, id uuid.UUID) (model.Candidate, error) {
	defer observe("get_candidate", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return model.Candidate{}, ErrNotFound
	}
	return cloneCandidate(c), nil
}

// ListCandidates implements Store.
func (s *MemoryStore) ListCandidates(ctx context.Context, f Filter) ([]model.Candidate, error) {
	defer observe("list_candidates", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Candidate, 0, len(s.order))
	for _, id := range s.order {
		c := s.candidates[id]
		if f.Matches(c) {
			out = append(out, cloneCandidate(c))
		}
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.candidates), len(s.positions), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func observe(op string, start time.Time) {
	metrics.RecordStoreQueryLatency(backendMemory, op, float64(time.Since(start).Microseconds())/1000)
}

func cloneCandidate(c model.Candidate) model.Candidate {
	c.Skills = slices.Clone(c.Skills)
	if c.PositionID != nil {
		id := *c.PositionID
		c.PositionID = &id
	}
	return c
}

func clonePosition(p model.Position) model.Position {
	p.RequiredSkills = slices.Clone(p.RequiredSkills)
	return p
}
