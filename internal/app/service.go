// Package service ranks candidates against positions on top of the store
// and cache adapters. It implements the dependencies required by the HTTP
// API and the CLI.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/hirematch/internal/adapters/cache"
	"github.com/okian/hirematch/internal/adapters/repository"
	"github.com/okian/hirematch/internal/domain/model"
	"github.com/okian/hirematch/internal/domain/scoring"
	"github.com/okian/hirematch/internal/domain/types"
	"github.com/okian/hirematch/pkg/logger"
	"github.com/okian/hirematch/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/okian/hirematch/internal/app"

// RankOptions narrows a ranking. The zero value returns every candidate.
type RankOptions struct {
	// Limit caps the number of rows returned; 0 means no cap.
	Limit int
	// MinScore drops rows scoring below it.
	MinScore int
	// Statuses keeps only candidates in these pipeline stages.
	Statuses []model.Status
	// ApplicantsOnly keeps only candidates who applied to the position.
	ApplicantsOnly bool
}

func (o RankOptions) validate() error {
	switch {
	case o.Limit < 0:
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidOptions)
	case o.MinScore < 0 || o.MinScore > 100:
		return fmt.Errorf("%w: min_score must be between 0 and 100", ErrInvalidOptions)
	}
	for _, st := range o.Statuses {
		if !st.Valid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidOptions, st)
		}
	}
	return nil
}

// Service ranks candidates for positions.
type Service struct {
	store  repository.Store
	cache  cache.Cache
	scorer *scoring.Scorer
	logger logger.Logger
	tracer trace.Tracer
	now    func() time.Time

	startedAt        time.Time
	rankingsServed   atomic.Uint64
	adHocRankings    atomic.Uint64
	candidatesScored atomic.Uint64
	cacheHits        atomic.Uint64
	cacheMisses      atomic.Uint64
}

// New constructs a Service. Without options it ranks over an empty in-memory
// store with caching disabled.
func New(opts ...Option) *Service {
	s := &Service{
		store:  repository.NewMemoryStore(),
		cache:  cache.Nop{},
		scorer: scoring.NewScorer(),
		logger: logger.Nop(),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// RankCandidates ranks the candidate pool against a position. Position and
// pool are fetched concurrently. Rows are numbered by their place in the full
// stable ordering, so MinScore and Limit never renumber them.
func (s *Service) RankCandidates(ctx context.Context, positionID uuid.UUID, opts RankOptions) (types.Ranking, error) {
	ctx, span := s.tracer.Start(ctx, "service.RankCandidates", trace.WithAttributes(
		attribute.String("position.id", positionID.String()),
		attribute.Int("options.limit", opts.Limit),
		attribute.Int("options.min_score", opts.MinScore),
	))
	defer span.End()
	start := s.now()

	if err := opts.validate(); err != nil {
		return types.Ranking{}, fail(span, err)
	}

	filter := repository.Filter{Statuses: opts.Statuses}
	if opts.ApplicantsOnly {
		filter.PositionID = &positionID
	}

	var (
		pos  model.Position
		pool []model.Candidate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.store.GetPosition(gctx, positionID)
		if err != nil {
			return positionError(positionID, err)
		}
		pos = p
		return nil
	})
	g.Go(func() error {
		cs, err := s.store.ListCandidates(gctx, filter)
		if err != nil {
			return fmt.Errorf("list candidates: %w", err)
		}
		pool = cs
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.Ranking{}, fail(span, err)
	}

	rows, hit := s.rankPool(ctx, pos, pool)
	span.SetAttributes(attribute.Int("pool.size", len(pool)), attribute.Bool("cache.hit", hit))
	s.rankingsServed.Add(1)

	latency := s.now().Sub(start)
	metrics.RecordRankingLatency(float64(latency.Microseconds()) / 1000)
	s.logger.Debug(ctx, "ranking served",
		logger.String("positionID", positionID.String()),
		logger.Int("poolSize", len(pool)),
		logger.Bool("cacheHit", hit),
		logger.Duration("latency", latency),
	)

	return types.Ranking{
		PositionID:    pos.ID.String(),
		PositionTitle: pos.Title,
		Total:         len(rows),
		Candidates:    applyOptions(rows, opts),
	}, nil
}

// MatchCandidate returns the score breakdown of one candidate for one
// position. The row carries no rank.
func (s *Service) MatchCandidate(ctx context.Context, positionID, candidateID uuid.UUID) (types.RankedCandidate, error) {
	ctx, span := s.tracer.Start(ctx, "service.MatchCandidate", trace.WithAttributes(
		attribute.String("position.id", positionID.String()),
		attribute.String("candidate.id", candidateID.String()),
	))
	defer span.End()

	var (
		pos model.Position
		c   model.Candidate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.store.GetPosition(gctx, positionID)
		if err != nil {
			return positionError(positionID, err)
		}
		pos = p
		return nil
	})
	g.Go(func() error {
		cand, err := s.store.GetCandidate(gctx, candidateID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrCandidateNotFound, candidateID)
			}
			return fmt.Errorf("get candidate: %w", err)
		}
		c = cand
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.RankedCandidate{}, fail(span, err)
	}

	m := s.scorer.Evaluate(c, pos)
	s.candidatesScored.Add(1)
	metrics.RecordCandidateScored()
	metrics.ObserveMatchScore(m.Score)
	span.SetAttributes(attribute.Int("match.score", m.Score))
	return types.FromMatch(0, m), nil
}

// RankAdHoc ranks caller-supplied records without touching the store or
// the cache.
func (s *Service) RankAdHoc(ctx context.Context, pos model.Position, candidates []model.Candidate, opts RankOptions) (types.Ranking, error) {
	ctx, span := s.tracer.Start(ctx, "service.RankAdHoc", trace.WithAttributes(
		attribute.Int("pool.size", len(candidates)),
	))
	defer span.End()

	if err := opts.validate(); err != nil {
		return types.Ranking{}, fail(span, err)
	}
	if len(opts.Statuses) > 0 {
		candidates = filterCandidates(candidates, repository.Filter{Statuses: opts.Statuses})
	}

	rows := s.compute(pos, candidates)
	s.adHocRankings.Add(1)
	s.logger.Debug(ctx, "ad hoc ranking served", logger.Int("poolSize", len(candidates)))

	var id string
	if pos.ID != uuid.Nil {
		id = pos.ID.String()
	}
	return types.Ranking{
		PositionID:    id,
		PositionTitle: pos.Title,
		Total:         len(rows),
		Candidates:    applyOptions(rows, opts),
	}, nil
}

// GetStats returns store totals and service counters.
func (s *Service) GetStats(ctx context.Context) (types.Stats, error) {
	candidates, positions, err := s.store.Count(ctx)
	if err != nil {
		return types.Stats{}, fmt.Errorf("count records: %w", err)
	}
	policy := s.scorer.Policy()
	return types.Stats{
		Candidates:       candidates,
		Positions:        positions,
		RankingsServed:   s.rankingsServed.Load(),
		AdHocRankings:    s.adHocRankings.Load(),
		CandidatesScored: s.candidatesScored.Load(),
		CacheHits:        s.cacheHits.Load(),
		CacheMisses:      s.cacheMisses.Load(),
		SkillWeight:      policy.SkillWeight,
		ExperienceWeight: policy.ExperienceWeight,
		UptimeSeconds:    s.now().Sub(s.startedAt).Seconds(),
	}, nil
}

// Ready reports whether the store answers.
func (s *Service) Ready(ctx context.Context) error {
	_, _, err := s.store.Count(ctx)
	return err
}

// Close releases the store and, if it holds resources, the cache.
func (s *Service) Close() error {
	var errs []error
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if c, ok := s.cache.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	return errors.Join(errs...)
}

// rankPool returns the full ranking, from the cache when possible.
func (s *Service) rankPool(ctx context.Context, pos model.Position, pool []model.Candidate) ([]types.RankedCandidate, bool) {
	key := rankingKey(s.scorer.Policy(), pos, pool)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var rows []types.RankedCandidate
		err := json.Unmarshal(raw, &rows)
		if err == nil {
			s.cacheHits.Add(1)
			return rows, true
		}
		s.logger.Warn(ctx, "discarding unreadable cached ranking", logger.String("key", key), logger.Error(err))
	}
	s.cacheMisses.Add(1)

	rows := s.compute(pos, pool)
	if raw, err := json.Marshal(rows); err == nil {
		s.cache.Set(ctx, key, raw)
	}
	return rows, false
}

func (s *Service) compute(pos model.Position, pool []model.Candidate) []types.RankedCandidate {
	matches := s.scorer.Rank(pos, pool)
	for _, m := range matches {
		metrics.ObserveMatchScore(m.Score)
	}
	metrics.RecordRanking(len(matches))
	s.candidatesScored.Add(uint64(len(matches)))
	return types.FromMatches(matches)
}

// rankingKey addresses every input that can change a ranked row.
func rankingKey(p scoring.Policy, pos model.Position, pool []model.Candidate) string {
	k := cache.NewKey("ranking:" + pos.ID.String()).
		Float(p.SkillWeight).Float(p.ExperienceWeight).
		Int(p.NearMissYears).Float(p.NearMissScore).
		Int(p.OverqualifiedYears).Float(p.OverqualifiedScore).Float(p.FarOverqualifiedScore).
		Strings(pos.RequiredSkills).Int(pos.MinExperienceYears).Int(pos.MaxExperienceYears).
		Text(pos.Title).
		Int(len(pool))
	for _, c := range pool {
		k.Text(c.ID.String()).Text(c.FirstName).Text(c.LastName).Text(c.Email).
			Text(string(c.Status)).Strings(c.Skills).Int(c.ExperienceYears)
	}
	return k.Sum()
}

// applyOptions trims a ranking sorted by descending score.
func applyOptions(rows []types.RankedCandidate, opts RankOptions) []types.RankedCandidate {
	end := len(rows)
	for i, r := range rows {
		if r.Score < opts.MinScore {
			end = i
			break
		}
	}
	if opts.Limit > 0 && opts.Limit < end {
		end = opts.Limit
	}
	return rows[:end:end]
}

func filterCandidates(cs []model.Candidate, f repository.Filter) []model.Candidate {
	out := make([]model.Candidate, 0, len(cs))
	for _, c := range cs {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

func positionError(id uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrPositionNotFound, id)
	}
	return fmt.Errorf("get position: %w", err)
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
