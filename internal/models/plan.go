package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// AbstractExercise is one exercise request from the AI-generated plan:
// Sets sets of Reps reps of a named movement.
type AbstractExercise struct {
	Name       string `json:"name"`
	Sets       int    `json:"sets"`
	Reps       Reps   `json:"reps"`
	IsCompound bool   `json:"isCompound"`
	Notes      string `json:"notes,omitempty"`
}

// AbstractWorkoutDay is a single training day of the generated plan.
type AbstractWorkoutDay struct {
	Day          string             `json:"day"`
	MuscleGroups string             `json:"muscle_groups"`
	Exercises    []AbstractExercise `json:"exercises"`
}

// AbstractPlan is the complete generated plan. Order of days and of
// exercises within a day is preserved end-to-end.
type AbstractPlan struct {
	Workouts []AbstractWorkoutDay `json:"workouts"`
}

// Reps is a repetition target. Models occasionally answer with a range
// such as [8, 12]; it is collapsed to the rounded midpoint.
type Reps int

// UnmarshalJSON accepts a number or a two-element [lo, hi] array.
func (r *Reps) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*r = Reps(math.Round(n))
		return nil
	}

	var span []float64
	if err := json.Unmarshal(data, &span); err != nil {
		return fmt.Errorf("reps: expected number or [lo, hi], got %s", data)
	}
	switch len(span) {
	case 1:
		*r = Reps(math.Round(span[0]))
	case 2:
		*r = Reps(math.Round((span[0] + span[1]) / 2))
	default:
		return fmt.Errorf("reps: expected [lo, hi], got %d values", len(span))
	}
	return nil
}
