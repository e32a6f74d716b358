// Command catalogc compiles the shareholder benefit catalog.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/yutaicat/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Subcommands report their own errors through the output formatter;
	// cobra prints the rest (unknown command, bad flag).
	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
