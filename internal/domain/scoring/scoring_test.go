package scoring_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/hirematch/internal/domain/model"
	scoring "github.com/okian/hirematch/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func reactSQL() model.Position {
	return model.Position{
		ID:                 uuid.New(),
		Title:              "Full-stack engineer",
		RequiredSkills:     []string{"React", "SQL"},
		MinExperienceYears: 2,
		MaxExperienceYears: 5,
	}
}

func candidate(name string, years int, skills ...string) model.Candidate {
	return model.Candidate{
		ID:              uuid.New(),
		FirstName:       name,
		Skills:          skills,
		ExperienceYears: years,
	}
}

func TestScorer_Scenarios(t *testing.T) {
	Convey("Given a position requiring React and SQL with 2-5 years", t, func() {
		scorer := scoring.NewScorer()
		pos := reactSQL()

		Convey("When the candidate knows react (lowercase) and Java with 3 years", func() {
			c := candidate("ada", 3, "react", "Java")

			Convey("Then skill is 50, experience 100 and total 65", func() {
				So(scorer.SkillScore(c, pos), ShouldEqual, 50.0)
				So(scorer.ExperienceScore(c, pos), ShouldEqual, 100.0)
				So(scorer.Score(c, pos), ShouldEqual, 65)
			})
		})

		Convey("When the candidate has no skills and no experience", func() {
			c := candidate("bob", 0)

			Convey("Then every sub-score and the total are 0", func() {
				So(scorer.SkillScore(c, pos), ShouldEqual, 0.0)
				So(scorer.ExperienceScore(c, pos), ShouldEqual, 0.0)
				So(scorer.Score(c, pos), ShouldEqual, 0)
			})
		})

		Convey("When the candidate is one year below the floor", func() {
			c := candidate("cy", 1)

			Convey("Then the experience sub-score is the near-miss 50", func() {
				So(scorer.ExperienceScore(c, pos), ShouldEqual, 50.0)
			})
		})

		Convey("When the candidate is two years above the ceiling", func() {
			c := candidate("dee", 7)

			Convey("Then the experience sub-score is 70", func() {
				So(scorer.ExperienceScore(c, pos), ShouldEqual, 70.0)
			})
		})

		Convey("When the candidate is far above the ceiling", func() {
			c := candidate("eve", 10)

			Convey("Then the experience sub-score stays at 50, never 0", func() {
				So(scorer.ExperienceScore(c, pos), ShouldEqual, 50.0)
			})

			Convey("And even extreme overqualification is not penalized further", func() {
				c.ExperienceYears = 60
				So(scorer.ExperienceScore(c, pos), ShouldEqual, 50.0)
			})
		})

		Convey("When the candidate sits exactly on the bounds", func() {
			Convey("Then both the floor and the ceiling are full matches", func() {
				So(scorer.ExperienceScore(candidate("lo", 2), pos), ShouldEqual, 100.0)
				So(scorer.ExperienceScore(candidate("hi", 5), pos), ShouldEqual, 100.0)
			})
		})
	})

	Convey("Given a position with no required skills", t, func() {
		scorer := scoring.NewScorer()
		pos := model.Position{MinExperienceYears: 2, MaxExperienceYears: 5}

		Convey("Then the skill sub-score is 100 whatever the candidate knows", func() {
			So(scorer.SkillScore(candidate("a", 3), pos), ShouldEqual, 100.0)
			So(scorer.SkillScore(candidate("b", 3, "Go", "Rust"), pos), ShouldEqual, 100.0)
		})

		Convey("Then the total is 70 plus 0.3 times the experience sub-score", func() {
			So(scorer.Score(candidate("in-range", 3), pos), ShouldEqual, 100)
			So(scorer.Score(candidate("over", 7), pos), ShouldEqual, 91)
			So(scorer.Score(candidate("near", 1), pos), ShouldEqual, 85)
			So(scorer.Score(candidate("far-over", 9), pos), ShouldEqual, 85)
			So(scorer.Score(candidate("none", 0), pos), ShouldEqual, 70)
		})

		Convey("And a nil skill list behaves like an empty one", func() {
			pos.RequiredSkills = nil
			So(scorer.SkillScore(candidate("nil", 3), pos), ShouldEqual, 100.0)
		})
	})
}

func TestScorer_ExperienceEdges(t *testing.T) {
	Convey("Given the default scorer", t, func() {
		scorer := scoring.NewScorer()

		Convey("When the position has no upper bound", func() {
			pos := model.Position{MinExperienceYears: 3}

			Convey("Then any experience at or above the floor is a full match", func() {
				So(scorer.ExperienceScore(candidate("a", 3), pos), ShouldEqual, 100.0)
				So(scorer.ExperienceScore(candidate("b", 40), pos), ShouldEqual, 100.0)
			})

			Convey("Then two or more years below the floor scores 0", func() {
				So(scorer.ExperienceScore(candidate("c", 1), pos), ShouldEqual, 0.0)
			})
		})

		Convey("When the position has neither floor nor ceiling", func() {
			pos := model.Position{}

			Convey("Then a candidate with no recorded experience is a full match", func() {
				So(scorer.ExperienceScore(candidate("fresh", 0), pos), ShouldEqual, 100.0)
			})
		})

		Convey("When the floor is 1 and the candidate has 0 years", func() {
			pos := model.Position{MinExperienceYears: 1, MaxExperienceYears: 4}

			Convey("Then it is a near miss", func() {
				So(scorer.ExperienceScore(candidate("z", 0), pos), ShouldEqual, 50.0)
			})
		})

		Convey("When experience is negative", func() {
			pos := model.Position{MinExperienceYears: 1}

			Convey("Then it is treated as 0", func() {
				So(scorer.ExperienceScore(candidate("neg", -3), pos), ShouldEqual, 50.0)
			})
		})
	})
}

func TestScorer_SkillMatching(t *testing.T) {
	Convey("Given a position requiring Go, PostgreSQL and Kubernetes", t, func() {
		scorer := scoring.NewScorer()
		pos := model.Position{RequiredSkills: []string{"Go", "PostgreSQL", "Kubernetes"}}

		Convey("Then matching ignores case", func() {
			c := candidate("a", 0, "GO", "postgresql", "KUBERNETES")
			So(scorer.SkillScore(c, pos), ShouldEqual, 100.0)
		})

		Convey("Then substrings do not match", func() {
			c := candidate("b", 0, "Golang", "Postgres", "k8s")
			So(scorer.SkillScore(c, pos), ShouldEqual, 0.0)
		})

		Convey("Then surrounding whitespace is not trimmed", func() {
			c := candidate("c", 0, " Go")
			So(scorer.SkillScore(c, pos), ShouldEqual, 0.0)
		})

		Convey("Then duplicate candidate skills count once", func() {
			c := candidate("d", 0, "go", "Go", "GO")
			So(scorer.SkillScore(c, pos), ShouldAlmostEqual, 100.0/3, 1e-9)
		})

		Convey("Then badges follow the position's skill order", func() {
			c := candidate("e", 0, "kubernetes")
			So(scoring.SkillBadges(c, pos), ShouldResemble, []scoring.SkillBadge{
				{Skill: "Go", Matched: false},
				{Skill: "PostgreSQL", Matched: false},
				{Skill: "Kubernetes", Matched: true},
			})
		})

		Convey("Then the score never decreases as more skills match", func() {
			all := []string{"Go", "PostgreSQL", "Kubernetes"}
			prev := -1
			for n := 0; n <= len(all); n++ {
				got := scorer.Score(candidate("m", 4, all[:n]...), pos)
				So(got, ShouldBeGreaterThanOrEqualTo, prev)
				prev = got
			}
		})
	})
}

func TestScorer_Rank(t *testing.T) {
	Convey("Given a pool of candidates", t, func() {
		scorer := scoring.NewScorer()
		pos := reactSQL()
		pool := []model.Candidate{
			candidate("first-zero", 0),
			candidate("half", 3, "react"),
			candidate("full", 4, "React", "SQL"),
			candidate("second-zero", 0),
			candidate("half-again", 3, "sql"),
		}

		Convey("When ranking", func() {
			ranked := scorer.Rank(pos, pool)

			Convey("Then no candidate is dropped or added", func() {
				So(len(ranked), ShouldEqual, len(pool))
			})

			Convey("Then scores are in descending order", func() {
				for i := 1; i < len(ranked); i++ {
					So(ranked[i-1].Score, ShouldBeGreaterThanOrEqualTo, ranked[i].Score)
				}
				So(ranked[0].Candidate.FirstName, ShouldEqual, "full")
				So(ranked[0].Score, ShouldEqual, 100)
			})

			Convey("Then ties keep the input order", func() {
				So(ranked[1].Candidate.FirstName, ShouldEqual, "half")
				So(ranked[2].Candidate.FirstName, ShouldEqual, "half-again")
				So(ranked[3].Candidate.FirstName, ShouldEqual, "first-zero")
				So(ranked[4].Candidate.FirstName, ShouldEqual, "second-zero")
			})

			Convey("Then the inputs are untouched", func() {
				So(pool[0].FirstName, ShouldEqual, "first-zero")
				So(pool[2].Skills, ShouldResemble, []string{"React", "SQL"})
				So(pos.RequiredSkills, ShouldResemble, []string{"React", "SQL"})
			})
		})

		Convey("When ranking an empty pool", func() {
			Convey("Then the result is empty, not an error", func() {
				So(scorer.Rank(pos, nil), ShouldBeEmpty)
			})
		})

		Convey("When ranking concurrently", func() {
			var wg sync.WaitGroup
			results := make([][]scoring.Match, 8)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = scorer.Rank(pos, pool)
				}(i)
			}
			wg.Wait()

			Convey("Then every caller sees the same ranking", func() {
				for _, r := range results[1:] {
					for j := range r {
						So(r[j].Candidate.ID, ShouldEqual, results[0][j].Candidate.ID)
						So(r[j].Score, ShouldEqual, results[0][j].Score)
					}
				}
			})
		})
	})
}

func TestScorer_Policy(t *testing.T) {
	Convey("Given scorer policies", t, func() {
		Convey("When using defaults", func() {
			p := scoring.NewScorer().Policy()

			Convey("Then the product constants apply", func() {
				So(p, ShouldResemble, scoring.DefaultPolicy())
				So(p.SkillWeight, ShouldEqual, 0.7)
				So(p.ExperienceWeight, ShouldEqual, 0.3)
				So(p.Validate(), ShouldBeNil)
			})
		})

		Convey("When overriding the weights", func() {
			scorer := scoring.NewScorer(scoring.WithWeights(0.5, 0.5))
			pos := reactSQL()
			c := candidate("x", 3, "react")

			Convey("Then the total uses the new weights", func() {
				So(scorer.Score(c, pos), ShouldEqual, 75)
			})
		})

		Convey("When the weights do not sum to 1", func() {
			scorer := scoring.NewScorer(scoring.WithWeights(0.9, 0.9))

			Convey("Then the override is ignored", func() {
				So(scorer.Policy().SkillWeight, ShouldEqual, 0.7)
			})

			Convey("And Validate reports it", func() {
				p := scoring.DefaultPolicy()
				p.SkillWeight = 0.9
				So(errors.Is(p.Validate(), scoring.ErrInvalidPolicy), ShouldBeTrue)
			})
		})

		Convey("When a weight is negative", func() {
			p := scoring.DefaultPolicy()
			p.SkillWeight, p.ExperienceWeight = -0.5, 1.5

			Convey("Then Validate rejects it", func() {
				So(errors.Is(p.Validate(), scoring.ErrInvalidPolicy), ShouldBeTrue)
			})
		})

		Convey("When a partial score exceeds 100", func() {
			p := scoring.DefaultPolicy()
			p.OverqualifiedScore = 120

			Convey("Then Validate rejects it and WithPolicy ignores it", func() {
				So(errors.Is(p.Validate(), scoring.ErrInvalidPolicy), ShouldBeTrue)
				So(scoring.NewScorer(scoring.WithPolicy(p)).Policy().OverqualifiedScore, ShouldEqual, 70.0)
			})
		})

		Convey("When a stricter policy is supplied", func() {
			p := scoring.DefaultPolicy()
			p.FarOverqualifiedScore = 20
			scorer := scoring.NewScorer(scoring.WithPolicy(p))

			Convey("Then far overqualification uses it", func() {
				So(scorer.ExperienceScore(candidate("old", 20), reactSQL()), ShouldEqual, 20.0)
			})
		})
	})
}

func TestPackageLevelHelpers(t *testing.T) {
	Convey("Given the package-level helpers", t, func() {
		pos := reactSQL()
		pool := make([]model.Candidate, 0, 10)
		for i := 0; i < 10; i++ {
			pool = append(pool, candidate(fmt.Sprintf("c%d", i), i, "react"))
		}

		Convey("Then they use the default policy", func() {
			So(scoring.Score(pool[3], pos), ShouldEqual, 65)
			ranked := scoring.Rank(pos, pool)
			So(len(ranked), ShouldEqual, 10)
			So(ranked[0].Candidate.FirstName, ShouldEqual, "c2")
		})
	})
}
