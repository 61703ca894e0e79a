package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/claude/hevyplan/internal/config"
	hevymcp "github.com/claude/hevyplan/internal/mcp"
	"github.com/claude/hevyplan/internal/planner"
	"github.com/spf13/cobra"
)

// remoteTimeout bounds a single call to a remote server. Plan runs wait on
// the AI provider and several Hevy calls, so it is generous.
const remoteTimeout = 10 * time.Minute

// hevyKeyEnv is consulted when --api-key is not given.
const hevyKeyEnv = "HEVY_API_KEY"

// errLocalOnly marks commands that need direct catalog access.
var errLocalOnly = errors.New("not available with --remote")

// newLogger logs to the command's stderr: warnings only, everything with --verbose.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// newPlanner builds an in-process planner from the configuration.
var newPlanner = func(cmd *cobra.Command) (*planner.Planner, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return planner.NewFromConfig(cfg, newLogger(cmd)), nil
}

// newBackend returns the remote client when --remote is set, otherwise an
// in-process planner.
var newBackend = func(cmd *cobra.Command) (hevymcp.Backend, error) {
	if remoteURL != "" {
		return hevymcp.NewHTTPClient(remoteURL, remoteKey, remoteTimeout), nil
	}
	p, err := newPlanner(cmd)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// hevyAPIKey returns the flag value, falling back to HEVY_API_KEY.
func hevyAPIKey(flag string) (string, error) {
	key := strings.TrimSpace(flag)
	if key == "" {
		key = strings.TrimSpace(os.Getenv(hevyKeyEnv))
	}
	if key == "" {
		return "", fmt.Errorf("a Hevy API key is required (--api-key or %s)", hevyKeyEnv)
	}
	return key, nil
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
