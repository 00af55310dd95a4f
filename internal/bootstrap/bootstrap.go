// Package bootstrap provides dependency initialization for the chopper CLI.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/birkheadc/transcript-chopper/internal/chop"
	"github.com/birkheadc/transcript-chopper/internal/config"
	"github.com/birkheadc/transcript-chopper/internal/storage"
)

// Dependencies holds all initialized dependencies for the CLI.
type Dependencies struct {
	Chopper *chop.Service
	Store   storage.Storage
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := storage.NewLocalStorage(cfg.TempDir, cfg.OutDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("temp_dir", cfg.TempDir),
		slog.String("out_dir", cfg.OutDir),
	)

	svc := chop.NewService(
		chop.WithLogger(logger),
		chop.WithStride(cfg.Stride),
	)

	return &Dependencies{
		Chopper: svc,
		Store:   store,
	}, nil
}
