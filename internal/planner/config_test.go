package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/hevyplan/internal/config"
	"github.com/claude/hevyplan/internal/models"
)

// TestNewFromConfigEndToEnd runs a full plan against fake AI and Hevy
// endpoints: catalog paging, plan generation, resolution and submission.
func TestNewFromConfigEndToEnd(t *testing.T) {
	const content = "```json\n" + `{"workouts":[
		{"day":"Monday","muscle_groups":"Chest and Triceps","exercises":[
			{"name":"Bench Press (Barbell)","sets":4,"reps":8,"isCompound":true,"notes":"Control the descent"},
			{"name":"Tricep Pushdowns","sets":3,"reps":[10,12]}
		]},
		{"day":"Thursday","muscle_groups":"Legs","exercises":[
			{"name":"Squats","sets":4,"reps":6,"isCompound":true}
		]}
	]}` + "\n```"

	ai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer ai-key" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		})
	}))
	defer ai.Close()

	var created []models.CreateRoutineRequest
	var pages atomic.Int32
	hevySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("api-key"); got != "user-key" {
			t.Errorf("api-key = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/exercise_templates":
			pages.Add(1)
			page := map[string]any{"page": 1, "page_count": 2, "exercise_templates": []models.CatalogEntry{
				{ID: "bp", Title: "Bench Press (Barbell)"},
				{ID: "tp", Title: "Triceps Pushdown"},
			}}
			if r.URL.Query().Get("page") == "2" {
				page = map[string]any{"page": 2, "page_count": 2, "exercise_templates": []models.CatalogEntry{
					{ID: "sq", Title: "Squat (Barbell)"},
				}}
			}
			_ = json.NewEncoder(w).Encode(page)
		case "/routines":
			var req models.CreateRoutineRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode routine: %v", err)
			}
			created = append(created, req)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"routine":[{"title":"` + req.Routine.Title + `"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer hevySrv.Close()

	cfg := config.Default()
	cfg.AI.BaseURL = ai.URL
	cfg.AI.APIKey = "ai-key"
	cfg.Hevy.BaseURL = hevySrv.URL
	cfg.Hevy.Timeout = 5 * time.Second

	p := prefs()
	p.DaysPerWeek = 2
	res, err := NewFromConfig(cfg, nil).Run(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pages.Load() != 2 {
		t.Errorf("catalog pages fetched = %d, want 2", pages.Load())
	}
	if res.CatalogSize != 3 || len(res.Routines) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if len(created) != 2 {
		t.Fatalf("created = %d, want 2", len(created))
	}

	monday := created[0].Routine
	if monday.Title != "Chest and Triceps - Monday" || len(monday.Exercises) != 2 {
		t.Fatalf("monday = %+v", monday)
	}
	push := monday.Exercises[1]
	if push.ExerciseTemplateID != "tp" || push.RestSeconds != 60 || len(push.Sets) != 3 {
		t.Errorf("pushdown = %+v", push)
	}
	if *push.Sets[0].Reps != 11 {
		t.Errorf("reps = %d, want 11 (midpoint of 10-12)", *push.Sets[0].Reps)
	}
	if push.Notes != " (Substituted with: Triceps Pushdown)" {
		t.Errorf("notes = %q", push.Notes)
	}
	if legs := created[1].Routine; legs.Exercises[0].ExerciseTemplateID != "sq" {
		t.Errorf("legs = %+v", legs)
	}
}
