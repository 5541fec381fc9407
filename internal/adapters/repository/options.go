package repository

import "github.com/okian/hirematch/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithPositions preloads positions.
func WithPositions(ps ...model.Position) Option {
	return func(s *MemoryStore) {
		for _, p := range ps {
			s.PutPosition(p)
		}
	}
}

// WithCandidates preloads candidates in the given order.
func WithCandidates(cs ...model.Candidate) Option {
	return func(s *MemoryStore) {
		for _, c := range cs {
			s.PutCandidate(c)
		}
	}
}

// WithSeed preloads everything in a parsed seed file.
func WithSeed(seed *Seed) Option {
	return func(s *MemoryStore) {
		if seed == nil {
			return
		}
		WithPositions(seed.Positions...)(s)
		WithCandidates(seed.Candidates...)(s)
	}
}

// PostgresOption applies a configuration option to the PostgresStore.
type PostgresOption func(*PostgresStore)

// WithOwnership makes Close also close the underlying *sql.DB.
func WithOwnership() PostgresOption {
	return func(s *PostgresStore) {
		s.ownsDB = true
	}
}
