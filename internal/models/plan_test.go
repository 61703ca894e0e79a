package models

import (
	"encoding/json"
	"errors"
	"testing"
)

const samplePlanJSON = `{
  "workouts": [
    {
      "day": "Monday",
      "muscle_groups": "Chest and Triceps",
      "exercises": [
        {"name": "Bench Press", "sets": 4, "reps": 8, "isCompound": true, "notes": "Retract shoulders"},
        {"name": "Tricep Pushdowns", "sets": 3, "reps": [10, 12], "isCompound": false}
      ]
    },
    {
      "day": "Wednesday",
      "muscle_groups": "Back",
      "exercises": [
        {"name": "Pull-Ups", "sets": 3, "reps": 7.6, "isCompound": true}
      ]
    }
  ]
}`

// TestAbstractPlanDecode verifies the generator's JSON shape decodes with
// day and exercise order preserved.
func TestAbstractPlanDecode(t *testing.T) {
	var plan AbstractPlan
	if err := json.Unmarshal([]byte(samplePlanJSON), &plan); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(plan.Workouts) != 2 {
		t.Fatalf("workouts = %d, want 2", len(plan.Workouts))
	}

	mon := plan.Workouts[0]
	if mon.Day != "Monday" || mon.MuscleGroups != "Chest and Triceps" {
		t.Errorf("day 1 = %q / %q", mon.Day, mon.MuscleGroups)
	}
	if len(mon.Exercises) != 2 {
		t.Fatalf("day 1 exercises = %d, want 2", len(mon.Exercises))
	}
	if mon.Exercises[0].Name != "Bench Press" || !mon.Exercises[0].IsCompound {
		t.Errorf("exercise 1 = %+v", mon.Exercises[0])
	}
	if mon.Exercises[0].Notes != "Retract shoulders" {
		t.Errorf("notes = %q", mon.Exercises[0].Notes)
	}
	if plan.Workouts[1].Day != "Wednesday" {
		t.Errorf("day 2 = %q, want Wednesday", plan.Workouts[1].Day)
	}
}

// TestRepsRange verifies that a [lo, hi] rep range collapses to its rounded midpoint.
func TestRepsRange(t *testing.T) {
	tests := []struct {
		in   string
		want Reps
	}{
		{`8`, 8},
		{`7.6`, 8},
		{`[10, 12]`, 11},
		{`[8, 11]`, 10}, // 9.5 rounds half away from zero
		{`[6]`, 6},
	}
	for _, tt := range tests {
		var r Reps
		if err := json.Unmarshal([]byte(tt.in), &r); err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if r != tt.want {
			t.Errorf("reps %s = %d, want %d", tt.in, r, tt.want)
		}
	}
}

// TestRepsInvalid verifies that non-numeric reps are rejected instead of silently zeroed.
func TestRepsInvalid(t *testing.T) {
	for _, in := range []string{`"eight"`, `[1, 2, 3]`, `{}`} {
		var r Reps
		if err := json.Unmarshal([]byte(in), &r); err == nil {
			t.Errorf("expected error for %s, got %d", in, r)
		}
	}
}

// TestRoutinePayloadShape verifies the wire names and explicit nulls the Hevy API expects.
func TestRoutinePayloadShape(t *testing.T) {
	reps := 10
	req := CreateRoutineRequest{Routine: RoutinePayload{
		Title: "Back - Monday",
		Notes: "Generated workout routine",
		Exercises: []RoutineExercise{{
			ExerciseTemplateID: "ABC123",
			RestSeconds:        90,
			Notes:              "n",
			Sets:               []RoutineSet{{Type: SetTypeNormal, Reps: &reps}},
		}},
	}}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	routine := raw["routine"]
	if v, ok := routine["folder_id"]; !ok || v != nil {
		t.Errorf("folder_id = %v (present=%v), want explicit null", v, ok)
	}

	ex := routine["exercises"].([]any)[0].(map[string]any)
	if ex["exercise_template_id"] != "ABC123" {
		t.Errorf("exercise_template_id = %v", ex["exercise_template_id"])
	}
	if v, ok := ex["superset_id"]; !ok || v != nil {
		t.Errorf("superset_id = %v (present=%v), want explicit null", v, ok)
	}

	set := ex["sets"].([]any)[0].(map[string]any)
	for _, k := range []string{"weight_kg", "distance_meters", "duration_seconds"} {
		if v, ok := set[k]; !ok || v != nil {
			t.Errorf("%s = %v (present=%v), want explicit null", k, v, ok)
		}
	}
	if set["reps"] != float64(10) {
		t.Errorf("reps = %v, want 10", set["reps"])
	}
}

func validPreferences() Preferences {
	return Preferences{
		Goals:        "Build strength",
		Experience:   ExperienceIntermediate,
		DaysPerWeek:  3,
		WorkoutSplit: "Push/Pull/Legs",
		Preferences: SessionOptions{
			FocusAreas:          []string{"chest", "back"},
			SessionDuration:     60,
			ExercisesPerSession: 5,
		},
		HevyAPIKey: "hevy-key",
	}
}

// TestPreferencesValidate verifies the field bounds of the inbound request.
func TestPreferencesValidate(t *testing.T) {
	p := validPreferences()
	if err := p.Validate(); err != nil {
		t.Fatalf("valid preferences rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Preferences)
	}{
		{"days zero", func(p *Preferences) { p.DaysPerWeek = 0 }},
		{"days eight", func(p *Preferences) { p.DaysPerWeek = 8 }},
		{"duration short", func(p *Preferences) { p.Preferences.SessionDuration = 29 }},
		{"duration long", func(p *Preferences) { p.Preferences.SessionDuration = 121 }},
		{"too few exercises", func(p *Preferences) { p.Preferences.ExercisesPerSession = 3 }},
		{"too many exercises", func(p *Preferences) { p.Preferences.ExercisesPerSession = 9 }},
		{"unknown experience", func(p *Preferences) { p.Experience = "expert" }},
		{"missing focus areas", func(p *Preferences) { p.Preferences.FocusAreas = nil }},
		{"blank api key", func(p *Preferences) { p.HevyAPIKey = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPreferences()
			tt.mutate(&p)
			err := p.Validate()
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("err = %v, want ValidationErrors", err)
			}
			if len(verrs) != 1 {
				t.Errorf("got %d errors, want 1: %v", len(verrs), verrs)
			}
		})
	}
}

// TestPreferencesValidateCollectsAll verifies every failing field is reported at once.
func TestPreferencesValidateCollectsAll(t *testing.T) {
	var p Preferences
	var verrs ValidationErrors
	if !errors.As(p.Validate(), &verrs) {
		t.Fatal("expected ValidationErrors for zero value")
	}
	if len(verrs) != 6 {
		t.Errorf("got %d errors, want 6: %v", len(verrs), verrs)
	}
}

// TestSetsPerExercise verifies the experience-to-sets mapping passed to the generator.
func TestSetsPerExercise(t *testing.T) {
	for exp, want := range map[string]int{
		ExperienceBeginner:     3,
		ExperienceIntermediate: 4,
		ExperienceAdvanced:     5,
	} {
		p := Preferences{Experience: exp}
		if got := p.SetsPerExercise(); got != want {
			t.Errorf("%s: sets = %d, want %d", exp, got, want)
		}
	}
}
