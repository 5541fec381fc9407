package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/hirematch/internal/rankcli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rankcli.NewCommand().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("rank: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
