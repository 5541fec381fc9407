package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/okian/hirematch/internal/domain/model"
	"github.com/okian/hirematch/pkg/metrics"
)

const (
	backendPostgres = "postgres"
	pingTimeout     = 5 * time.Second
)

const (
	positionColumns = `id, title, coalesce(department, ''), coalesce(location, ''),
		coalesce(status, ''), coalesce(required_skills, '{}'),
		min_experience_years, max_experience_years, created_at`
	candidateColumns = `id, first_name, last_name, coalesce(email, ''), coalesce(phone, ''),
		coalesce(status, ''), position_id, coalesce(skills, '{}'), experience_years, created_at`
)

// PostgresStore reads the positions and candidates tables of the hosted
// backend. It never writes.
type PostgresStore struct {
	db     *sql.DB
	ownsDB bool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// OpenPostgres connects to dsn and checks the connection. The returned store
// owns the handle.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open postgres: %w", ErrStoreUnavailable, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %w", ErrStoreUnavailable, err)
	}
	return NewPostgresStore(db, WithOwnership()), nil
}

// GetPosition implements Store.
func (s *PostgresStore) GetPosition(ctx context.Context, id uuid.UUID) (model.Position, error) {
	const op = "get_position"
	defer observePostgres(op, time.Now())
	row := s.db.QueryRowContext(ctx, `SELECT `+positionColumns+` FROM positions WHERE id = $1`, id.String())
	p, err := scanPosition(row)
	if err != nil {
		return model.Position{}, classify(op, err)
	}
	return p, nil
}

// GetCandidate implements Store.
func (s *PostgresStore) GetCandidate(ctx context.Context, id uuid.UUID) (model.Candidate, error) {
	const op = "get_candidate"
	defer observePostgres(op, time.Now())
	row := s.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id.String())
	c, err := scanCandidate(row)
	if err != nil {
		return model.Candidate{}, classify(op, err)
	}
	return c, nil
}

// ListCandidates implements Store. Rows are ordered by created_at, id.
func (s *PostgresStore) ListCandidates(ctx context.Context, f Filter) ([]model.Candidate, error) {
	const op = "list_candidates"
	defer observePostgres(op, time.Now())

	query, args := listCandidatesQuery(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := make([]model.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context) (int, int, error) {
	const op = "count"
	defer observePostgres(op, time.Now())
	var candidates, positions int
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM candidates), (SELECT count(*) FROM positions)`,
	).Scan(&candidates, &positions)
	if err != nil {
		return 0, 0, classify(op, err)
	}
	return candidates, positions, nil
}

// Close closes the handle when the store owns it.
func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil || !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

func listCandidatesQuery(f Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.PositionID != nil {
		args = append(args, f.PositionID.String())
		where = append(where, "position_id = $"+strconv.Itoa(len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, pq.Array(statuses))
		where = append(where, "status = ANY($"+strconv.Itoa(len(args))+")")
	}

	var b strings.Builder
	b.WriteString("SELECT " + candidateColumns + " FROM candidates")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at, id")
	return b.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosition(row rowScanner) (model.Position, error) {
	var (
		p        model.Position
		id       string
		status   string
		minExp   sql.NullInt64
		maxExp   sql.NullInt64
		required pq.StringArray
	)
	if err := row.Scan(&id, &p.Title, &p.Department, &p.Location, &status,
		&required, &minExp, &maxExp, &p.CreatedAt); err != nil {
		return model.Position{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.Position{}, fmt.Errorf("position id %q: %w", id, err)
	}
	p.ID = parsed
	p.Status = model.PositionStatus(status)
	p.RequiredSkills = []string(required)
	p.MinExperienceYears = int(minExp.Int64)
	p.MaxExperienceYears = int(maxExp.Int64)
	return p, nil
}

func scanCandidate(row rowScanner) (model.Candidate, error) {
	var (
		c          model.Candidate
		id         string
		status     string
		positionID sql.NullString
		skills     pq.StringArray
		experience sql.NullInt64
	)
	if err := row.Scan(&id, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &status,
		&positionID, &skills, &experience, &c.CreatedAt); err != nil {
		return model.Candidate{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("candidate id %q: %w", id, err)
	}
	c.ID = parsed
	c.Status = model.Status(status)
	if positionID.Valid {
		pid, err := uuid.Parse(positionID.String)
		if err != nil {
			return model.Candidate{}, fmt.Errorf("candidate position_id %q: %w", positionID.String, err)
		}
		c.PositionID = &pid
	}
	c.Skills = []string(skills)
	c.ExperienceYears = int(experience.Int64)
	return c, nil
}

// classify maps driver errors onto the package sentinels and records them.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		metrics.RecordStoreError(backendPostgres, op, "context")
		return err
	default:
		metrics.RecordStoreError(backendPostgres, op, "query")
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
}

func observePostgres(op string, start time.Time) {
	metrics.RecordStoreQueryLatency(backendPostgres, op, float64(time.Since(start).Microseconds())/1000)
}
