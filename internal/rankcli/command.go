package rankcli

import (
	"github.com/okian/hirematch/internal/domain/scoring"
	"github.com/okian/hirematch/pkg/logger"
	"github.com/spf13/cobra"
)

// NewCommand builds the rank command.
func NewCommand() *cobra.Command {
	cfg := &Config{
		Format:      FormatTable,
		SkillWeight: scoring.DefaultPolicy().SkillWeight,
	}

	cmd := &cobra.Command{
		Use:           "rank",
		Short:         "Rank the candidates of a fixture file against one position",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.Nop()
			if cfg.Verbose {
				if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
					return err
				}
				_ = logger.SetLevelString("debug")
				log = logger.Named("rank")
			}
			return Run(cmd.Context(), cfg, cmd.OutOrStdout(), log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.DataFile, "data", "", "YAML fixture with positions and candidates")
	f.StringVarP(&cfg.PositionID, "position", "p", "", "position id to rank for")
	f.IntVarP(&cfg.Limit, "limit", "n", 0, "maximum rows to print (0 prints all)")
	f.IntVar(&cfg.MinScore, "min-score", 0, "drop candidates scoring below this")
	f.StringSliceVar(&cfg.Statuses, "status", nil, "only candidates in these pipeline stages")
	f.BoolVar(&cfg.ApplicantsOnly, "applicants", false, "only candidates who applied to the position")
	f.StringVarP(&cfg.Format, "format", "o", FormatTable, "output format: table or json")
	f.StringVar(&cfg.XLSXPath, "xlsx", "", "also export the ranking to this workbook")
	f.Float64Var(&cfg.SkillWeight, "skill-weight", cfg.SkillWeight, "weight of the skill sub-score; experience gets the rest")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log progress to stderr")

	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("position")
	return cmd
}
