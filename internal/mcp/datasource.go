package mcp

import (
	"context"

	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/planner"
)

// Backend abstracts plan execution for MCP tools. Both *planner.Planner
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type Backend interface {
	Run(ctx context.Context, prefs *models.Preferences) (*planner.Result, error)
	Preview(ctx context.Context, prefs *models.Preferences) (*planner.Result, error)
	Lookup(ctx context.Context, apiKey, name string, limit int) (*planner.Lookup, error)
}

// Compile-time check: *planner.Planner satisfies Backend.
var _ Backend = (*planner.Planner)(nil)
