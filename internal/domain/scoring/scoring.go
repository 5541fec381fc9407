// Package scoring computes how well a candidate fits a position and ranks a
// candidate pool against one position.
//
// A match score is round(skill × w_skill + experience × w_experience), where
// both sub-scores lie in [0, 100] and the weights sum to 1. Nothing here
// mutates its inputs, so a Scorer is safe for concurrent use.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/hirematch/internal/domain/model"
)

// SkillBadge reports whether the candidate has one required skill.
type SkillBadge struct {
	Skill   string
	Matched bool
}

// Match is the evaluation of one candidate against one position.
type Match struct {
	Candidate       model.Candidate
	Score           int
	SkillScore      float64
	ExperienceScore float64
	Skills          []SkillBadge // one per required skill, in position order
}

// Scorer evaluates candidates with a fixed Policy.
type Scorer struct {
	policy Policy
}

// NewScorer creates a scorer using DefaultPolicy unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the policy in effect.
func (s *Scorer) Policy() Policy {
	return s.policy
}

// SkillScore is 100 × matched / required, or 100 when nothing is required.
// A required skill matches when some candidate skill equals it ignoring case.
func (s *Scorer) SkillScore(c model.Candidate, p model.Position) float64 {
	if len(p.RequiredSkills) == 0 {
		return FullMatchScore
	}
	have := skillSet(c.Skills)
	matched := 0
	for _, req := range p.RequiredSkills {
		if _, ok := have[strings.ToLower(req)]; ok {
			matched++
		}
	}
	return FullMatchScore * float64(matched) / float64(len(p.RequiredSkills))
}

// ExperienceScore grades the candidate's years against the position range.
//
//	min ≤ e ≤ max                → 100
//	e < min, e ≥ min − near-miss → near-miss score (only when min > 0)
//	e < min otherwise            → 0
//	max < e ≤ max + overqualified → overqualified score
//	e > max + overqualified      → far-overqualified score
func (s *Scorer) ExperienceScore(c model.Candidate, p model.Position) float64 {
	e := max(c.ExperienceYears, 0)
	lo := p.MinExperienceYears

	if e < lo {
		if lo > 0 && e >= lo-s.policy.NearMissYears {
			return s.policy.NearMissScore
		}
		return 0
	}
	if !p.HasMaxExperience() || e <= p.MaxExperienceYears {
		return FullMatchScore
	}
	if e <= p.MaxExperienceYears+s.policy.OverqualifiedYears {
		return s.policy.OverqualifiedScore
	}
	return s.policy.FarOverqualifiedScore
}

// Score returns the weighted match score in [0, 100].
func (s *Scorer) Score(c model.Candidate, p model.Position) int {
	return s.combine(s.SkillScore(c, p), s.ExperienceScore(c, p))
}

func (s *Scorer) combine(skill, experience float64) int {
	total := math.Round(skill*s.policy.SkillWeight + experience*s.policy.ExperienceWeight)
	return int(math.Max(0, math.Min(maxScoreValue, total)))
}

// Evaluate returns the full breakdown for one candidate.
func (s *Scorer) Evaluate(c model.Candidate, p model.Position) Match {
	skill := s.SkillScore(c, p)
	experience := s.ExperienceScore(c, p)
	return Match{
		Candidate:       c,
		Score:           s.combine(skill, experience),
		SkillScore:      skill,
		ExperienceScore: experience,
		Skills:          SkillBadges(c, p),
	}
}

// Rank evaluates every candidate and orders them by descending score.
// The sort is stable: equal scores keep their input order. The result always
// has the same length as candidates.
func (s *Scorer) Rank(p model.Position, candidates []model.Candidate) []Match {
	out := make([]Match, len(candidates))
	for i, c := range candidates {
		out[i] = s.Evaluate(c, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// SkillBadges lists each required skill with whether the candidate has it.
func SkillBadges(c model.Candidate, p model.Position) []SkillBadge {
	have := skillSet(c.Skills)
	badges := make([]SkillBadge, len(p.RequiredSkills))
	for i, req := range p.RequiredSkills {
		_, ok := have[strings.ToLower(req)]
		badges[i] = SkillBadge{Skill: req, Matched: ok}
	}
	return badges
}

func skillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, sk := range skills {
		set[strings.ToLower(sk)] = struct{}{}
	}
	return set
}

var defaultScorer = NewScorer()

// Score evaluates c against p with DefaultPolicy.
func Score(c model.Candidate, p model.Position) int { return defaultScorer.Score(c, p) }

// Rank ranks candidates against p with DefaultPolicy.
func Rank(p model.Position, candidates []model.Candidate) []Match {
	return defaultScorer.Rank(p, candidates)
}
