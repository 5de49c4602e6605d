// Package backend selects where finance data comes from: the live REST API
// or the in-process demo backend used for local development.
package backend

import (
	"fmt"
	"log/slog"

	"aimms/internal/api"
	"aimms/internal/api/memory"
	"aimms/internal/config"
)

// Backend types accepted by DATA_BACKEND.
const (
	LiveBackend   = "live"
	MemoryBackend = "memory"
)

// New returns the api.Service for the configured backend.
func New(cfg *config.Config, logger *slog.Logger) (api.Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DataBackend {
	case LiveBackend:
		client := api.NewClient(api.Config{
			BaseURL: cfg.APIBaseURL,
			Timeout: cfg.APITimeout,
		}, logger)
		logger.Info("Initialized live backend", "base_url", cfg.APIBaseURL)
		return client, nil

	case MemoryBackend:
		logger.Info("Initialized in-memory demo backend")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
