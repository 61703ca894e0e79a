package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/claude/hevyplan/internal/models"
)

const systemPrompt = "You are a professional fitness coach. You MUST respond with ONLY a valid JSON object matching the specified schema. No markdown, no explanations, no additional text."

const userPromptTmplStr = `
Create a workout plan with these specifications:
- Days per week: {{.DaysPerWeek}}
- Experience level: {{.Experience}}
- Goals: {{.Goals}}
- Focus areas: {{join .Preferences.FocusAreas ", "}}
- Session duration: {{.Preferences.SessionDuration}} minutes
- Exercises per session: {{.Preferences.ExercisesPerSession}}
- Workout split: {{.WorkoutSplit}}
{{- if .Preferences.ExcludedExercises}}
- Excluded exercises: {{join .Preferences.ExcludedExercises ", "}}
{{- end}}

Sets per exercise based on experience:
{{.SetsPerExercise}} sets per exercise

IMPORTANT: Respond ONLY with a JSON object in this exact format:
{
  "workouts": [
    {
      "day": "Monday",
      "muscle_groups": "Chest and Triceps",
      "exercises": [
        {
          "name": "Bench Press",
          "sets": 3,
          "reps": 8,
          "isCompound": true,
          "notes": "Keep shoulders retracted, feet planted firmly"
        }
      ]
    }
  ]
}
`

var userPromptTmpl = template.Must(template.New("user").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(userPromptTmplStr))

// UserPrompt renders the plan request for the given preferences.
func UserPrompt(p *models.Preferences) (string, error) {
	var buf bytes.Buffer
	if err := userPromptTmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("generator: render prompt: %w", err)
	}
	return buf.String(), nil
}
