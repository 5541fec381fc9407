package repository

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/okian/hirematch/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// Seed is the parsed content of a fixture file.
type Seed struct {
	Positions  []model.Position
	Candidates []model.Candidate
}

type seedFile struct {
	Positions  []seedPosition  `yaml:"positions"`
	Candidates []seedCandidate `yaml:"candidates"`
}

type seedPosition struct {
	ID                 string    `yaml:"id"`
	Title              string    `yaml:"title"`
	Department         string    `yaml:"department"`
	Location           string    `yaml:"location"`
	Status             string    `yaml:"status"`
	RequiredSkills     []string  `yaml:"required_skills"`
	MinExperienceYears *int      `yaml:"min_experience_years"`
	MaxExperienceYears *int      `yaml:"max_experience_years"`
	CreatedAt          time.Time `yaml:"created_at"`
}

type seedCandidate struct {
	ID              string    `yaml:"id"`
	FirstName       string    `yaml:"first_name"`
	LastName        string    `yaml:"last_name"`
	Email           string    `yaml:"email"`
	Phone           string    `yaml:"phone"`
	Status          string    `yaml:"status"`
	PositionID      string    `yaml:"position_id"`
	Skills          []string  `yaml:"skills"`
	ExperienceYears *int      `yaml:"experience_years"`
	CreatedAt       time.Time `yaml:"created_at"`
}

// LoadSeed reads and parses a YAML fixture file.
func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("read seed %q: %w", path, err)
	}
	return ParseSeed(bytes.NewReader(raw))
}

// ParseSeed decodes a YAML fixture. Position ids are required; a candidate
// without an id gets a random one. Missing experience values read as 0 and a
// missing candidate status reads as "new".
func ParseSeed(r io.Reader) (*Seed, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}

	seed := &Seed{
		Positions:  make([]model.Position, 0, len(f.Positions)),
		Candidates: make([]model.Candidate, 0, len(f.Candidates)),
	}
	for i, sp := range f.Positions {
		p, err := sp.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: position %d: %w", ErrInvalidSeed, i, err)
		}
		seed.Positions = append(seed.Positions, p)
	}
	for i, sc := range f.Candidates {
		c, err := sc.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: candidate %d: %w", ErrInvalidSeed, i, err)
		}
		seed.Candidates = append(seed.Candidates, c)
	}
	return seed, nil
}

func (sp seedPosition) toModel() (model.Position, error) {
	id, err := uuid.Parse(sp.ID)
	if err != nil {
		return model.Position{}, fmt.Errorf("id %q: %w", sp.ID, err)
	}
	status := model.PositionOpen
	if sp.Status != "" {
		status = model.PositionStatus(sp.Status)
	}
	return model.Position{
		ID:                 id,
		Title:              sp.Title,
		Department:         sp.Department,
		Location:           sp.Location,
		Status:             status,
		RequiredSkills:     sp.RequiredSkills,
		MinExperienceYears: deref(sp.MinExperienceYears),
		MaxExperienceYears: deref(sp.MaxExperienceYears),
		CreatedAt:          sp.CreatedAt,
	}, nil
}

func (sc seedCandidate) toModel() (model.Candidate, error) {
	id := uuid.New()
	if sc.ID != "" {
		parsed, err := uuid.Parse(sc.ID)
		if err != nil {
			return model.Candidate{}, fmt.Errorf("id %q: %w", sc.ID, err)
		}
		id = parsed
	}

	status := model.StatusNew
	if sc.Status != "" {
		st, ok := model.ParseStatus(sc.Status)
		if !ok {
			return model.Candidate{}, fmt.Errorf("unknown status %q", sc.Status)
		}
		status = st
	}

	var positionID *uuid.UUID
	if sc.PositionID != "" {
		pid, err := uuid.Parse(sc.PositionID)
		if err != nil {
			return model.Candidate{}, fmt.Errorf("position_id %q: %w", sc.PositionID, err)
		}
		positionID = &pid
	}

	return model.Candidate{
		ID:              id,
		FirstName:       sc.FirstName,
		LastName:        sc.LastName,
		Email:           sc.Email,
		Phone:           sc.Phone,
		Status:          status,
		PositionID:      positionID,
		Skills:          sc.Skills,
		ExperienceYears: deref(sc.ExperienceYears),
		CreatedAt:       sc.CreatedAt,
	}, nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
