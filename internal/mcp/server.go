package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(b Backend, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("hevyplan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Hevy workout planner. Generate a multi-day workout plan and create it as routines in the user's Hevy account, preview a plan without creating anything, or check how an exercise name maps onto the user's Hevy exercise catalog. Every call needs the user's Hevy API key."),
	)

	h := &handlers{b: b, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGenerateWorkoutPlan, Handler: h.generateWorkoutPlan},
		server.ServerTool{Tool: toolResolveExercise, Handler: h.resolveExercise},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resAliases, Handler: h.aliases},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	b   Backend
	log *slog.Logger
}

// --- Resource definitions ---

var resAliases = mcp.NewResource(
	"hevyplan://aliases",
	"Exercise Aliases",
	mcp.WithResourceDescription("Static mapping from common exercise names to Hevy catalog titles, consulted when no exact title matches"),
	mcp.WithMIMEType("application/json"),
)
