package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
	"github.com/elitelearners/coursegen/internal/pkg/logger" // Still needed for initial error logging
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := newApp(os.Stdin, os.Stdout)
	if err := app.RunContext(ctx, os.Args); err != nil {
		stop()
		if errors.Is(err, apperrors.ErrAborted) {
			logger.Warn().Msg("Course creation stopped by the author")
			os.Exit(2)
		}
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
