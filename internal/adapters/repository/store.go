// Package repository reads candidates and positions from a backing store.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/okian/hirematch/internal/domain/model"
)

// Filter narrows ListCandidates. Zero values mean no restriction.
type Filter struct {
	// PositionID keeps only candidates who applied to this position.
	PositionID *uuid.UUID
	// Statuses keeps only candidates in one of these pipeline stages.
	Statuses []model.Status
}

// Matches reports whether c passes the filter.
func (f Filter) Matches(c model.Candidate) bool {
	if f.PositionID != nil {
		if c.PositionID == nil || *c.PositionID != *f.PositionID {
			return false
		}
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if c.Status == s {
			return true
		}
	}
	return false
}

// Store provides read access to candidates and positions.
type Store interface {
	// GetPosition returns ErrNotFound if the position is unknown.
	GetPosition(ctx context.Context, id uuid.UUID) (model.Position, error)
	// GetCandidate returns ErrNotFound if the candidate is unknown.
	GetCandidate(ctx context.Context, id uuid.UUID) (model.Candidate, error)
	// ListCandidates returns candidates in a stable order.
	ListCandidates(ctx context.Context, f Filter) ([]model.Candidate, error)
	// Count returns the number of candidates and positions held.
	Count(ctx context.Context) (candidates, positions int, err error)

	Close() error
}
