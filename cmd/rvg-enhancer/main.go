package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rvg-enhancer/internal/cli"
)

func main() {
	// Ctrl-C cancels the context; watch mode and in-flight pipelines exit
	// between stages without leaving partial output.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
