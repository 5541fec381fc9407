package matchcheck

import (
	"fmt"
	"math"

	"github.com/okian/hirematch/internal/domain/types"
)

// scoreTolerance absorbs float formatting in sub-scores.
const scoreTolerance = 1e-6

// verifyRanking checks the ordering rules of one ranking.
func verifyRanking(r types.Ranking, limit int) error {
	if limit > 0 && len(r.Candidates) > limit {
		return fmt.Errorf("%w: %d rows returned for limit %d", ErrInconsistent, len(r.Candidates), limit)
	}
	if len(r.Candidates) > r.Total {
		return fmt.Errorf("%w: %d rows but total %d", ErrInconsistent, len(r.Candidates), r.Total)
	}
	for i, c := range r.Candidates {
		if c.Rank != i+1 {
			return fmt.Errorf("%w: row %d has rank %d", ErrInconsistent, i, c.Rank)
		}
		if c.Score < 0 || c.Score > 100 {
			return fmt.Errorf("%w: %s scored %d", ErrInconsistent, c.CandidateID, c.Score)
		}
		if i > 0 && c.Score > r.Candidates[i-1].Score {
			return fmt.Errorf("%w: rank %d (%d) above rank %d (%d)",
				ErrInconsistent, c.Rank, c.Score, r.Candidates[i-1].Rank, r.Candidates[i-1].Score)
		}
	}
	return nil
}

// verifyBreakdown compares a ranking row with the single-candidate result.
func verifyBreakdown(row, single types.RankedCandidate) error {
	switch {
	case row.CandidateID != single.CandidateID:
		return fmt.Errorf("%w: asked for %s, got %s", ErrInconsistent, row.CandidateID, single.CandidateID)
	case row.Score != single.Score:
		return fmt.Errorf("%w: %s ranked with %d but scored %d alone", ErrInconsistent, row.CandidateID, row.Score, single.Score)
	case math.Abs(row.SkillScore-single.SkillScore) > scoreTolerance,
		math.Abs(row.ExperienceScore-single.ExperienceScore) > scoreTolerance:
		return fmt.Errorf("%w: %s sub-scores differ", ErrInconsistent, row.CandidateID)
	case len(row.MatchedSkills()) != len(single.MatchedSkills()):
		return fmt.Errorf("%w: %s matched skills differ", ErrInconsistent, row.CandidateID)
	}
	return nil
}
