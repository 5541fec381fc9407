package scoring

import (
	"errors"
	"fmt"
	"math"
)

// Product policy constants. Changing any of these changes every ranking.
const (
	// DefaultSkillWeight and DefaultExperienceWeight must sum to 1.
	DefaultSkillWeight      = 0.7
	DefaultExperienceWeight = 0.3

	// FullMatchScore is awarded for a vacuous skill requirement or an
	// experience value inside the required range.
	FullMatchScore = 100.0

	// NearMissYears below the floor still earns NearMissScore.
	NearMissYears = 1
	NearMissScore = 50.0

	// OverqualifiedYears above the ceiling earns OverqualifiedScore; anything
	// further above earns FarOverqualifiedScore, which is never 0.
	OverqualifiedYears    = 2
	OverqualifiedScore    = 70.0
	FarOverqualifiedScore = 50.0

	maxScoreValue   = 100
	weightTolerance = 1e-9
)

// ErrInvalidPolicy is returned by Policy.Validate.
var ErrInvalidPolicy = errors.New("invalid scoring policy")

// Policy holds the weights and thresholds that turn the skill and experience
// sub-scores into a match score.
type Policy struct {
	SkillWeight      float64 `json:"skill_weight"`
	ExperienceWeight float64 `json:"experience_weight"`

	NearMissYears int     `json:"near_miss_years"`
	NearMissScore float64 `json:"near_miss_score"`

	OverqualifiedYears    int     `json:"overqualified_years"`
	OverqualifiedScore    float64 `json:"overqualified_score"`
	FarOverqualifiedScore float64 `json:"far_overqualified_score"`
}

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{
		SkillWeight:           DefaultSkillWeight,
		ExperienceWeight:      DefaultExperienceWeight,
		NearMissYears:         NearMissYears,
		NearMissScore:         NearMissScore,
		OverqualifiedYears:    OverqualifiedYears,
		OverqualifiedScore:    OverqualifiedScore,
		FarOverqualifiedScore: FarOverqualifiedScore,
	}
}

// Validate checks that the weights are non-negative and sum to 1 and that the
// partial scores stay within [0, 100].
func (p Policy) Validate() error {
	if p.SkillWeight < 0 || p.ExperienceWeight < 0 {
		return fmt.Errorf("%w: weights must be non-negative (skill=%v, experience=%v)", ErrInvalidPolicy, p.SkillWeight, p.ExperienceWeight)
	}
	if math.Abs(p.SkillWeight+p.ExperienceWeight-1) > weightTolerance {
		return fmt.Errorf("%w: weights must sum to 1 (skill=%v, experience=%v)", ErrInvalidPolicy, p.SkillWeight, p.ExperienceWeight)
	}
	if p.NearMissYears < 0 || p.OverqualifiedYears < 0 {
		return fmt.Errorf("%w: tolerances must be non-negative", ErrInvalidPolicy)
	}
	for _, s := range []float64{p.NearMissScore, p.OverqualifiedScore, p.FarOverqualifiedScore} {
		if s < 0 || s > FullMatchScore {
			return fmt.Errorf("%w: partial score %v outside [0, 100]", ErrInvalidPolicy, s)
		}
	}
	return nil
}
