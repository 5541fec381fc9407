// Package rankcli ranks candidates from a fixture file on the command line.
package rankcli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/hirematch/internal/domain/model"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Config holds the parsed flags of one rank invocation.
type Config struct {
	DataFile       string
	PositionID     string
	Limit          int
	MinScore       int
	Statuses       []string
	ApplicantsOnly bool
	Format         string
	XLSXPath       string
	SkillWeight    float64
	Verbose        bool
}

func (c *Config) position() (uuid.UUID, error) {
	if c.DataFile == "" {
		return uuid.Nil, fmt.Errorf("%w: --data is required", ErrUsage)
	}
	id, err := uuid.Parse(strings.TrimSpace(c.PositionID))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: --position must be a UUID: %w", ErrUsage, err)
	}
	switch {
	case c.Limit < 0:
		return uuid.Nil, fmt.Errorf("%w: --limit must not be negative", ErrUsage)
	case c.MinScore < 0 || c.MinScore > 100:
		return uuid.Nil, fmt.Errorf("%w: --min-score must be between 0 and 100", ErrUsage)
	case c.SkillWeight < 0 || c.SkillWeight > 1:
		return uuid.Nil, fmt.Errorf("%w: --skill-weight must be between 0 and 1", ErrUsage)
	case c.Format != FormatTable && c.Format != FormatJSON:
		return uuid.Nil, fmt.Errorf("%w: --format must be table or json", ErrUsage)
	}
	return id, nil
}

func (c *Config) statuses() ([]model.Status, error) {
	out := make([]model.Status, 0, len(c.Statuses))
	for _, raw := range c.Statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		st, ok := model.ParseStatus(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrUsage, strings.TrimSpace(raw))
		}
		out = append(out, st)
	}
	return out, nil
}
