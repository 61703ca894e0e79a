package models

import (
	"fmt"
	"strings"
)

// Experience levels accepted by the generate endpoint.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// Preferences is the inbound plan-generation request.
type Preferences struct {
	Goals        string         `json:"goals"`
	Experience   string         `json:"experience"`
	DaysPerWeek  int            `json:"daysPerWeek"`
	WorkoutSplit string         `json:"workoutSplit"`
	Preferences  SessionOptions `json:"preferences"`
	HevyAPIKey   string         `json:"hevyApiKey"`
}

// SessionOptions holds the per-session knobs of a request.
type SessionOptions struct {
	FocusAreas          []string `json:"focusAreas"`
	ExcludedExercises   []string `json:"excludedExercises,omitempty"`
	SessionDuration     int      `json:"sessionDuration"`
	ExercisesPerSession int      `json:"exercisesPerSession"`
}

// ValidationErrors lists every field that failed validation.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return "invalid request: " + strings.Join(v, "; ")
}

// Validate checks the request against the field constraints. It is run at
// the boundary, before any external call is made.
func (p *Preferences) Validate() error {
	var errs ValidationErrors

	switch p.Experience {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
	default:
		errs = append(errs, fmt.Sprintf("experience must be one of beginner, intermediate, advanced (got %q)", p.Experience))
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		errs = append(errs, fmt.Sprintf("daysPerWeek must be between 1 and 7 (got %d)", p.DaysPerWeek))
	}
	if d := p.Preferences.SessionDuration; d < 30 || d > 120 {
		errs = append(errs, fmt.Sprintf("preferences.sessionDuration must be between 30 and 120 (got %d)", d))
	}
	if n := p.Preferences.ExercisesPerSession; n < 4 || n > 8 {
		errs = append(errs, fmt.Sprintf("preferences.exercisesPerSession must be between 4 and 8 (got %d)", n))
	}
	if p.Preferences.FocusAreas == nil {
		errs = append(errs, "preferences.focusAreas is required")
	}
	if strings.TrimSpace(p.HevyAPIKey) == "" {
		errs = append(errs, "hevyApiKey is required")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetsPerExercise is the set count suggested to the generator for the
// requested experience level.
func (p *Preferences) SetsPerExercise() int {
	switch p.Experience {
	case ExperienceBeginner:
		return 3
	case ExperienceIntermediate:
		return 4
	default:
		return 5
	}
}
