package matchcheck

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/hirematch/internal/domain/types"
	"github.com/okian/hirematch/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 30 * time.Second

// Run executes the check against every configured position and returns the
// first inconsistency found.
func Run(ctx context.Context, cfg *Config, log logger.Logger) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting match check",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("positions", len(cfg.PositionIDs)),
		logger.Int("workers", cfg.Workers),
	)

	if err := checkServiceHealth(ctx, c); err != nil {
		return stats, err
	}

	for _, id := range cfg.PositionIDs {
		n, err := checkPosition(ctx, c, cfg, id, log)
		stats.Positions++
		stats.RowsChecked += n
		stats.BreakdownsFetched += n
		if err != nil {
			return stats, fmt.Errorf("position %s: %w", id, err)
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "match check passed",
		logger.Int("positions", stats.Positions),
		logger.Int("rowsChecked", stats.RowsChecked),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func checkServiceHealth(ctx context.Context, c *client) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/healthz", nil, &health); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("%w: status %q", ErrUnhealthy, health.Status)
	}
	return nil
}

// checkPosition verifies one ranking and returns the number of rows checked.
func checkPosition(ctx context.Context, c *client, cfg *Config, positionID string, log logger.Logger) (int, error) {
	var ranking types.Ranking
	if err := c.getJSON(ctx, rankingPath(positionID), rankingQuery(cfg.Limit), &ranking); err != nil {
		return 0, err
	}
	if err := verifyRanking(ranking, cfg.Limit); err != nil {
		return 0, err
	}
	if cfg.Verbose {
		for _, row := range ranking.Candidates {
			log.Info(ctx, "ranked",
				logger.String("position", ranking.PositionTitle),
				logger.Int("rank", row.Rank),
				logger.String("name", row.Name),
				logger.Int("score", row.Score),
			)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, row := range ranking.Candidates {
		g.Go(func() error {
			var single types.RankedCandidate
			if err := c.getJSON(gctx, breakdownPath(positionID, row.CandidateID), nil, &single); err != nil {
				return err
			}
			return verifyBreakdown(row, single)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(ranking.Candidates), nil
}
