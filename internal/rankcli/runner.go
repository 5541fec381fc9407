package rankcli

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/hirematch/internal/adapters/export"
	"github.com/okian/hirematch/internal/adapters/repository"
	service "github.com/okian/hirematch/internal/app"
	"github.com/okian/hirematch/internal/domain/scoring"
	"github.com/okian/hirematch/pkg/logger"
)

// Run loads the fixture, ranks the candidates for the configured position
// and writes the result to out. When XLSXPath is set the ranking is also
// exported to a workbook.
func Run(ctx context.Context, cfg *Config, out io.Writer, log logger.Logger) error {
	positionID, err := cfg.position()
	if err != nil {
		return err
	}
	statuses, err := cfg.statuses()
	if err != nil {
		return err
	}

	seed, err := repository.LoadSeed(cfg.DataFile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRank, err)
	}
	store := repository.NewMemoryStore(repository.WithSeed(seed))
	svc := service.New(
		service.WithStore(store),
		service.WithLogger(log),
		service.WithScorer(scoring.NewScorer(scoring.WithWeights(cfg.SkillWeight, 1-cfg.SkillWeight))),
	)
	defer func() { _ = svc.Close() }()

	log.Debug(ctx, "fixture loaded",
		logger.String("file", cfg.DataFile),
		logger.Int("positions", len(seed.Positions)),
		logger.Int("candidates", len(seed.Candidates)),
	)

	ranking, err := svc.RankCandidates(ctx, positionID, service.RankOptions{
		Limit:          cfg.Limit,
		MinScore:       cfg.MinScore,
		Statuses:       statuses,
		ApplicantsOnly: cfg.ApplicantsOnly,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRank, err)
	}

	switch cfg.Format {
	case FormatJSON:
		err = writeJSON(out, ranking)
	default:
		err = writeTable(out, ranking)
	}
	if err != nil {
		return err
	}

	if cfg.XLSXPath == "" {
		return nil
	}
	pos, err := store.GetPosition(ctx, positionID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRank, err)
	}
	path, err := export.ToExcel(pos, ranking, cfg.XLSXPath)
	if err != nil {
		return err
	}
	log.Info(ctx, "ranking exported", logger.String("path", path))
	_, err = fmt.Fprintf(out, "\nexported to %s\n", path)
	return err
}
