package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	service "github.com/okian/hirematch/internal/app"
	"github.com/okian/hirematch/internal/domain/model"
	"github.com/okian/hirematch/pkg/logger"
)

const (
	maxAdHocBodyBytes  = 4 << 20
	maxAdHocCandidates = 5000
)

// AdHocHandler ranks records posted by the caller.
type AdHocHandler struct {
	deps     AdHocDependencies
	maxLimit int
	log      logger.Logger
}

// NewAdHocHandler creates a new ad hoc ranking handler.
func NewAdHocHandler(deps AdHocDependencies, maxLimit int, log logger.Logger) *AdHocHandler {
	return &AdHocHandler{deps: deps, maxLimit: maxLimit, log: log}
}

// adHocRequest mirrors the OpenAPI schema for POST /matches.
type adHocRequest struct {
	Position   adHocPosition    `json:"position"`
	Candidates []adHocCandidate `json:"candidates"`
	Limit      *int             `json:"limit"`
	MinScore   int              `json:"min_score"`
	Statuses   []string         `json:"statuses"`
}

type adHocPosition struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	RequiredSkills     []string `json:"required_skills"`
	MinExperienceYears int      `json:"min_experience_years"`
	MaxExperienceYears *int     `json:"max_experience_years"`
}

type adHocCandidate struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	Status          string   `json:"status"`
	Skills          []string `json:"skills"`
	ExperienceYears *int     `json:"experience_years"`
}

func (p adHocPosition) toModel() (model.Position, error) {
	pos := model.Position{
		Title:              p.Title,
		RequiredSkills:     p.RequiredSkills,
		MinExperienceYears: p.MinExperienceYears,
	}
	if p.ID != "" {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return pos, errors.New("invalid position id")
		}
		pos.ID = id
	}
	if p.MaxExperienceYears != nil {
		pos.MaxExperienceYears = *p.MaxExperienceYears
	}
	switch {
	case pos.MinExperienceYears < 0:
		return pos, errors.New("min_experience_years must not be negative")
	case pos.MaxExperienceYears < 0:
		return pos, errors.New("max_experience_years must not be negative")
	case pos.HasMaxExperience() && pos.MaxExperienceYears < pos.MinExperienceYears:
		return pos, errors.New("max_experience_years must not be below min_experience_years")
	}
	return pos, nil
}

func (c adHocCandidate) toModel(i int) (model.Candidate, error) {
	out := model.Candidate{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Skills:    c.Skills,
	}
	if c.ID != "" {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return out, errors.New("candidates[" + strconv.Itoa(i) + "]: invalid id")
		}
		out.ID = id
	}
	if c.Status != "" {
		st, ok := model.ParseStatus(c.Status)
		if !ok {
			return out, errors.New("candidates[" + strconv.Itoa(i) + "]: unknown status")
		}
		out.Status = st
	}
	if c.ExperienceYears != nil {
		if *c.ExperienceYears < 0 {
			return out, errors.New("candidates[" + strconv.Itoa(i) + "]: experience_years must not be negative")
		}
		out.ExperienceYears = *c.ExperienceYears
	}
	return out, nil
}

// HandleRankAdHoc handles POST /matches.
func (h *AdHocHandler) HandleRankAdHoc(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank_ad_hoc"
	r.Body = http.MaxBytesReader(w, r.Body, maxAdHocBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req adHocRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Invalid(op, "invalid JSON body"))
		return
	}
	if len(req.Candidates) > maxAdHocCandidates {
		writeError(w, http.StatusBadRequest, "bad_request",
			Invalid(op, "at most "+strconv.Itoa(maxAdHocCandidates)+" candidates per request"))
		return
	}

	pos, err := req.Position.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Invalid(op, err.Error()))
		return
	}
	candidates := make([]model.Candidate, len(req.Candidates))
	for i, c := range req.Candidates {
		if candidates[i], err = c.toModel(i); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", Invalid(op, err.Error()))
			return
		}
	}

	opts := service.RankOptions{Limit: h.maxLimit, MinScore: req.MinScore}
	if req.Limit != nil {
		switch {
		case *req.Limit < 1:
			writeError(w, http.StatusBadRequest, "bad_request", Invalid(op, "limit must be a positive integer"))
			return
		case *req.Limit > h.maxLimit:
			writeError(w, http.StatusBadRequest, "limit_exceeded",
				&Error{Op: op, Kind: ErrLimitExceeded, Msg: "limit must not exceed " + strconv.Itoa(h.maxLimit)})
			return
		}
		opts.Limit = *req.Limit
	}
	if opts.Statuses, err = parseStatuses(req.Statuses); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Invalid(op, err.Error()))
		return
	}

	ranking, err := h.deps.RankAdHoc(r.Context(), pos, candidates, opts)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOptions) {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
			return
		}
		h.log.Error(r.Context(), "ad hoc ranking failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, errors.New("internal error")))
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}
