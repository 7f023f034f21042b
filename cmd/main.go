package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/daleyoon76/saas-idea-generator/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}

	runErr := a.Run(ctx)
	if runErr != nil {
		a.Log.Error("Server exited", "error", runErr)
	}
	if err := a.Close(); err != nil {
		a.Log.Warn("Shutdown incomplete", "error", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
