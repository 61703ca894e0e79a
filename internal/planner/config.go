package planner

import (
	"log/slog"

	"github.com/claude/hevyplan/internal/config"
	"github.com/claude/hevyplan/internal/generator"
)

// NewFromConfig wires a Planner with the real generator and Hevy clients.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Planner {
	gen := generator.New(generator.Options{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})
	return New(gen, HevyClients(cfg.Hevy.BaseURL, cfg.Hevy.Timeout), Options{
		PageSize:   cfg.Hevy.PageSize,
		RunTimeout: cfg.Planner.RunTimeout,
	}, logger)
}
