// Package types contains the read shapes returned to API and CLI callers.
package types

import (
	"github.com/google/uuid"
	"github.com/okian/hirematch/internal/domain/model"
	"github.com/okian/hirematch/internal/domain/scoring"
)

// SkillBadge marks whether a candidate has one required skill.
type SkillBadge struct {
	Skill   string `json:"skill"`
	Matched bool   `json:"matched"`
}

// RankedCandidate is one row of a ranking.
type RankedCandidate struct {
	Rank            int          `json:"rank,omitempty"`
	CandidateID     string       `json:"candidate_id"`
	Name            string       `json:"name"`
	Email           string       `json:"email,omitempty"`
	Status          string       `json:"status,omitempty"`
	ExperienceYears int          `json:"experience_years"`
	Score           int          `json:"score"`
	SkillScore      float64      `json:"skill_score"`
	ExperienceScore float64      `json:"experience_score"`
	Skills          []SkillBadge `json:"skills"`
}

// MatchedSkills returns the required skills the candidate has.
func (r RankedCandidate) MatchedSkills() []string {
	out := make([]string, 0, len(r.Skills))
	for _, b := range r.Skills {
		if b.Matched {
			out = append(out, b.Skill)
		}
	}
	return out
}

// Ranking is a position with its candidates ordered by descending score.
type Ranking struct {
	PositionID    string            `json:"position_id"`
	PositionTitle string            `json:"position_title"`
	Total         int               `json:"total"` // candidates scored before filtering
	Candidates    []RankedCandidate `json:"candidates"`
}

// FromMatch converts a scorer result into a row. rank is 1-based; 0 leaves
// it unset.
func FromMatch(rank int, m scoring.Match) RankedCandidate {
	badges := make([]SkillBadge, len(m.Skills))
	for i, b := range m.Skills {
		badges[i] = SkillBadge{Skill: b.Skill, Matched: b.Matched}
	}
	return RankedCandidate{
		Rank:            rank,
		CandidateID:     candidateID(m.Candidate),
		Name:            m.Candidate.FullName(),
		Email:           m.Candidate.Email,
		Status:          string(m.Candidate.Status),
		ExperienceYears: m.Candidate.ExperienceYears,
		Score:           m.Score,
		SkillScore:      m.SkillScore,
		ExperienceScore: m.ExperienceScore,
		Skills:          badges,
	}
}

// FromMatches numbers matches 1..n in the order given.
func FromMatches(matches []scoring.Match) []RankedCandidate {
	out := make([]RankedCandidate, len(matches))
	for i, m := range matches {
		out[i] = FromMatch(i+1, m)
	}
	return out
}

func candidateID(c model.Candidate) string {
	if c.ID == uuid.Nil {
		return ""
	}
	return c.ID.String()
}

// Stats is the snapshot served on /stats.
type Stats struct {
	Candidates       int     `json:"candidates"`
	Positions        int     `json:"positions"`
	RankingsServed   uint64  `json:"rankings_served"`
	AdHocRankings    uint64  `json:"ad_hoc_rankings"`
	CandidatesScored uint64  `json:"candidates_scored"`
	CacheHits        uint64  `json:"cache_hits"`
	CacheMisses      uint64  `json:"cache_misses"`
	SkillWeight      float64 `json:"skill_weight"`
	ExperienceWeight float64 `json:"experience_weight"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}
