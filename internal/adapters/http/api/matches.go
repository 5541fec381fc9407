package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	service "github.com/okian/hirematch/internal/app"
	"github.com/okian/hirematch/internal/domain/model"
	"github.com/okian/hirematch/pkg/logger"
)

// MatchesHandler serves rankings of stored candidates.
type MatchesHandler struct {
	deps     MatchDependencies
	maxLimit int
	log      logger.Logger
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies, maxLimit int, log logger.Logger) *MatchesHandler {
	return &MatchesHandler{deps: deps, maxLimit: maxLimit, log: log}
}

// HandleRankCandidates handles
// GET /positions/{positionID}/matches?limit=&min_score=&status=&applicants=.
func (h *MatchesHandler) HandleRankCandidates(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank_candidates"
	positionID, err := uuid.Parse(chi.URLParam(r, "positionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Invalid(op, "invalid position id"))
		return
	}
	opts, err := parseRankQuery(op, r, h.maxLimit)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	ranking, err := h.deps.RankCandidates(r.Context(), positionID, opts)
	if err != nil {
		h.writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

// HandleMatchCandidate handles GET /positions/{positionID}/matches/{candidateID}.
func (h *MatchesHandler) HandleMatchCandidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.match_candidate"
	positionID, err := uuid.Parse(chi.URLParam(r, "positionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Invalid(op, "invalid position id"))
		return
	}
	candidateID, err := uuid.Parse(chi.URLParam(r, "candidateID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Invalid(op, "invalid candidate id"))
		return
	}

	row, err := h.deps.MatchCandidate(r.Context(), positionID, candidateID)
	if err != nil {
		h.writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *MatchesHandler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrPositionNotFound), errors.Is(err, service.ErrCandidateNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, service.ErrInvalidOptions):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	default:
		h.log.Error(r.Context(), "ranking failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, errors.New("internal error")))
	}
}

// parseRankQuery reads limit, min_score, status and applicants. An absent
// limit means maxLimit.
func parseRankQuery(op string, r *http.Request, maxLimit int) (service.RankOptions, error) {
	q := r.URL.Query()
	opts := service.RankOptions{Limit: maxLimit}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return opts, Invalid(op, "limit must be a positive integer")
		}
		if n > maxLimit {
			return opts, &Error{Op: op, Kind: ErrLimitExceeded, Msg: "limit must not exceed " + strconv.Itoa(maxLimit)}
		}
		opts.Limit = n
	}

	if raw := q.Get("min_score"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			return opts, Invalid(op, "min_score must be an integer between 0 and 100")
		}
		opts.MinScore = n
	}

	if raw := q.Get("status"); raw != "" {
		statuses, err := parseStatuses(strings.Split(raw, ","))
		if err != nil {
			return opts, Invalid(op, err.Error())
		}
		opts.Statuses = statuses
	}

	if raw := q.Get("applicants"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, Invalid(op, "applicants must be a boolean")
		}
		opts.ApplicantsOnly = b
	}
	return opts, nil
}

func parseStatuses(raw []string) ([]model.Status, error) {
	out := make([]model.Status, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		st, ok := model.ParseStatus(s)
		if !ok {
			return nil, errors.New("unknown status " + strconv.Quote(strings.TrimSpace(s)))
		}
		out = append(out, st)
	}
	return out, nil
}

func writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrLimitExceeded) {
		writeError(w, http.StatusBadRequest, "limit_exceeded", err)
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", err)
}
