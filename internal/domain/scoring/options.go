package scoring

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithPolicy replaces the whole policy. Invalid policies are ignored; callers
// that accept user input should call Policy.Validate first.
func WithPolicy(p Policy) Option {
	return func(s *Scorer) {
		if p.Validate() == nil {
			s.policy = p
		}
	}
}

// WithWeights overrides the skill and experience weights, keeping the
// thresholds. Ignored unless the weights are non-negative and sum to 1.
func WithWeights(skill, experience float64) Option {
	return func(s *Scorer) {
		p := s.policy
		p.SkillWeight = skill
		p.ExperienceWeight = experience
		if p.Validate() == nil {
			s.policy = p
		}
	}
}
