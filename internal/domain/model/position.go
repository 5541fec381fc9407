package model

import (
	"time"

	"github.com/google/uuid"
)

// PositionStatus is the lifecycle state of a job requisition.
type PositionStatus string

const (
	PositionOpen   PositionStatus = "open"
	PositionClosed PositionStatus = "closed"
	PositionDraft  PositionStatus = "draft"
)

// Position is a job requisition.
type Position struct {
	ID                 uuid.UUID      `json:"id"`
	Title              string         `json:"title"`
	Department         string         `json:"department,omitempty"`
	Location           string         `json:"location,omitempty"`
	Status             PositionStatus `json:"status,omitempty"`
	RequiredSkills     []string       `json:"required_skills"`
	MinExperienceYears int            `json:"min_experience_years"`
	MaxExperienceYears int            `json:"max_experience_years"` // 0 means no upper bound
	CreatedAt          time.Time      `json:"created_at"`
}

// HasMaxExperience reports whether the position caps experience.
func (p Position) HasMaxExperience() bool {
	return p.MaxExperienceYears > 0
}
