package mcp

import (
	"context"
	"strings"

	"github.com/claude/hevyplan/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// splitList parses a comma-separated tool argument, dropping blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// preferencesFromRequest maps tool arguments onto a plan request.
func preferencesFromRequest(req mcp.CallToolRequest) *models.Preferences {
	p := &models.Preferences{
		Goals:        req.GetString("goals", ""),
		Experience:   req.GetString("experience", ""),
		DaysPerWeek:  req.GetInt("days_per_week", 0),
		WorkoutSplit: req.GetString("workout_split", ""),
		Preferences: models.SessionOptions{
			FocusAreas:          splitList(req.GetString("focus_areas", "")),
			SessionDuration:     req.GetInt("session_duration", 60),
			ExercisesPerSession: req.GetInt("exercises_per_session", 6),
		},
		HevyAPIKey: req.GetString("hevy_api_key", ""),
	}
	if ex := splitList(req.GetString("excluded_exercises", "")); len(ex) > 0 {
		p.Preferences.ExcludedExercises = ex
	}
	return p
}

// --- Tool definitions ---

var toolGenerateWorkoutPlan = mcp.NewTool("generate_workout_plan",
	mcp.WithDescription("Generate a multi-day workout plan and create one Hevy routine per day, in plan order. Exercise names are matched to the user's catalog exactly, through a built-in alias table, or by keyword similarity; unmatched exercises are left out. A day with no matched exercise stops the run, and routines created before it are kept. Set dry_run to preview the routines without creating anything."),
	mcp.WithString("hevy_api_key", mcp.Required(), mcp.Description("The user's Hevy API key")),
	mcp.WithString("goals", mcp.Required(), mcp.Description("Training goals in free text (e.g. 'build strength and lose fat')")),
	mcp.WithString("experience", mcp.Required(), mcp.Description("Training experience"), mcp.Enum(models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceAdvanced)),
	mcp.WithNumber("days_per_week", mcp.Required(), mcp.Description("Training days per week (1-7)")),
	mcp.WithString("workout_split", mcp.Required(), mcp.Description("Split style (e.g. 'push/pull/legs', 'full body')")),
	mcp.WithString("focus_areas", mcp.Description("Comma-separated focus areas (e.g. 'chest, back')")),
	mcp.WithString("excluded_exercises", mcp.Description("Comma-separated exercises to avoid")),
	mcp.WithNumber("session_duration", mcp.Description("Session length in minutes (30-120). Defaults to 60.")),
	mcp.WithNumber("exercises_per_session", mcp.Description("Exercises per session (4-8). Defaults to 6.")),
	mcp.WithBoolean("dry_run", mcp.Description("Assemble the routines without creating them in Hevy. Defaults to false.")),
)

var toolResolveExercise = mcp.NewTool("resolve_exercise",
	mcp.WithDescription("Look up how an exercise name maps onto the user's Hevy exercise catalog. Returns the match (with the tier that produced it: exact, alias or fuzzy) and the best keyword candidates."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name to resolve")),
	mcp.WithString("hevy_api_key", mcp.Required(), mcp.Description("The user's Hevy API key")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of candidates to list. Defaults to 5.")),
)

// --- Tool handlers ---

func (h *handlers) generateWorkoutPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefs := preferencesFromRequest(req)
	if err := prefs.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	run := h.b.Run
	if req.GetBool("dry_run", false) {
		run = h.b.Preview
	}

	res, err := run(ctx, prefs)
	if err != nil {
		h.log.Error("mcp generate_workout_plan", "error", err)
		msg := "plan generation failed: " + err.Error()
		if res != nil && len(res.Routines) > 0 {
			titles := make([]string, 0, len(res.Routines))
			for _, rt := range res.Routines {
				titles = append(titles, rt.Title)
			}
			msg += "; routines already created: " + strings.Join(titles, ", ")
		}
		return mcp.NewToolResultError(msg), nil
	}

	result, err := mcp.NewToolResultJSON(res)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) resolveExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil || strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	apiKey, err := req.RequireString("hevy_api_key")
	if err != nil || strings.TrimSpace(apiKey) == "" {
		return mcp.NewToolResultError("hevy_api_key parameter is required"), nil
	}

	lookup, err := h.b.Lookup(ctx, apiKey, name, req.GetInt("limit", 0))
	if err != nil {
		h.log.Error("mcp resolve_exercise", "error", err)
		return mcp.NewToolResultError("lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(lookup)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
