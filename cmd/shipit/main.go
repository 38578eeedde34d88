// Package main provides the entry point for the shipit CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	err := Execute(ctx)
	if err == nil {
		return 0
	}
	printError(err)
	return exitCodeOf(err)
}
