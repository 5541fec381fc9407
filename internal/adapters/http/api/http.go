// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	service "github.com/okian/hirematch/internal/app"
	"github.com/okian/hirematch/internal/domain/model"
	"github.com/okian/hirematch/internal/domain/types"
	"github.com/okian/hirematch/pkg/logger"
)

const (
	defaultMaxLimit = 100
	requestTimeout  = 30 * time.Second
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	AdHocDependencies
	StatsProvider
	ReadinessChecker
}

// MatchDependencies ranks stored candidates.
type MatchDependencies interface {
	RankCandidates(ctx context.Context, positionID uuid.UUID, opts service.RankOptions) (types.Ranking, error)
	MatchCandidate(ctx context.Context, positionID, candidateID uuid.UUID) (types.RankedCandidate, error)
}

// AdHocDependencies ranks caller-supplied records.
type AdHocDependencies interface {
	RankAdHoc(ctx context.Context, pos model.Position, candidates []model.Candidate, opts service.RankOptions) (types.Ranking, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	matchesHandler *MatchesHandler
	adHocHandler   *AdHocHandler
	log            logger.Logger
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// limit query parameter; values below 1 use 100.
func NewServer(deps Dependencies, maxLimit int, log logger.Logger) *Server {
	if maxLimit < 1 {
		maxLimit = defaultMaxLimit
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(deps),
		matchesHandler: NewMatchesHandler(deps, maxLimit, log),
		adHocHandler:   NewAdHocHandler(deps, maxLimit, log),
		log:            log,
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
		r.Get("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
		r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

		r.Route("/positions/{positionID}/matches", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(s.matchesHandler.HandleRankCandidates, "matches"))
			r.Get("/{candidateID}", MetricsMiddleware(s.matchesHandler.HandleMatchCandidate, "match"))
		})
		r.Post("/matches", MetricsMiddleware(s.adHocHandler.HandleRankAdHoc, "adhoc"))
	})
}

// NewRouter returns a chi router with every API route registered.
func NewRouter(deps Dependencies, maxLimit int, log logger.Logger) chi.Router {
	r := chi.NewRouter()
	NewServer(deps, maxLimit, log).Register(r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
