// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is a candidate's pipeline stage.
type Status string

// Pipeline stages, in the order a candidate normally moves through them.
const (
	StatusNew       Status = "new"
	StatusScreening Status = "screening"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusHired     Status = "hired"
	StatusRejected  Status = "rejected"
)

var knownStatuses = map[Status]struct{}{
	StatusNew:       {},
	StatusScreening: {},
	StatusInterview: {},
	StatusOffer:     {},
	StatusHired:     {},
	StatusRejected:  {},
}

// Valid reports whether s is a known pipeline stage.
func (s Status) Valid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// ParseStatus normalizes and validates a status string.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Candidate is a person record as read from the backing store.
// Skills and ExperienceYears are the fields the matcher reads.
type Candidate struct {
	ID              uuid.UUID  `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Status          Status     `json:"status,omitempty"`
	PositionID      *uuid.UUID `json:"position_id,omitempty"` // position applied to, if any
	Skills          []string   `json:"skills"`
	ExperienceYears int        `json:"experience_years"` // absent is 0
	CreatedAt       time.Time  `json:"created_at"`
}

// FullName joins first and last name, skipping empty parts.
func (c Candidate) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}
