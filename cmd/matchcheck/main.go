package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/okian/hirematch/internal/matchcheck"
	"github.com/okian/hirematch/pkg/logger"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRunBudget = 5 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		positions = flag.String("positions", "", "Comma separated position ids to check")
		limit     = flag.Int("limit", 0, "limit query parameter (0 uses the server maximum)")
		workers   = flag.Int("workers", runtime.NumCPU(), "Concurrent breakdown requests")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		jsonLogs  = flag.Bool("json", false, "Log as JSON")
		verbose   = flag.Bool("verbose", false, "Log every ranked row")
	)
	flag.Parse()

	format := logger.FormatText
	if *jsonLogs {
		format = logger.FormatJSON
	}
	if err := logger.Init(logger.WithFormat(format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	var ids []string
	for _, id := range strings.Split(*positions, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		os.Stderr.WriteString("matchcheck: -positions is required\n")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunBudget)
	defer cancel()

	cfg := &matchcheck.Config{
		BaseURL:     *baseURL,
		PositionIDs: ids,
		Limit:       *limit,
		Workers:     *workers,
		Timeout:     *timeout,
		Verbose:     *verbose,
	}
	if _, err := matchcheck.Run(ctx, cfg, logger.Named("matchcheck")); err != nil {
		logger.Get().Error(ctx, "match check failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
