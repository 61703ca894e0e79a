// Package routine turns one generated workout day into a Hevy routine
// payload, resolving each exercise against the catalog.
package routine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/resolve"
)

const (
	// RoutineNotes marks every routine this service creates.
	RoutineNotes = "Generated workout routine"
	// DefaultExerciseNotes is used for exact matches that came without a note.
	DefaultExerciseNotes = "Focus on form and control"

	compoundRestSeconds  = 90
	isolationRestSeconds = 60
)

// ErrEmptyDay is matched by errors.Is for any EmptyDayError.
var ErrEmptyDay = errors.New("no valid exercises")

// EmptyDayError reports a day in which no exercise could be resolved.
type EmptyDayError struct {
	Day string
}

func (e *EmptyDayError) Error() string {
	return fmt.Sprintf("no valid exercises found for %s", e.Day)
}

func (e *EmptyDayError) Is(target error) bool { return target == ErrEmptyDay }

// Outcome records what happened to one requested exercise.
type Outcome struct {
	Requested string       `json:"requested"`
	Resolved  string       `json:"resolved,omitempty"`
	Tier      resolve.Tier `json:"tier"`
	Dropped   bool         `json:"dropped,omitempty"`
}

// Assembly is a routine payload plus the per-exercise outcomes behind it.
type Assembly struct {
	Payload  models.RoutinePayload `json:"payload"`
	Outcomes []Outcome             `json:"outcomes"`
}

// Substitutions returns the outcomes that resolved to a different exercise.
func (a *Assembly) Substitutions() []Outcome {
	var out []Outcome
	for _, o := range a.Outcomes {
		if !o.Dropped && o.Tier != resolve.TierExact {
			out = append(out, o)
		}
	}
	return out
}

// Dropped returns the names of exercises left out of the routine.
func (a *Assembly) Dropped() []string {
	var out []string
	for _, o := range a.Outcomes {
		if o.Dropped {
			out = append(out, o.Requested)
		}
	}
	return out
}

// Title formats the routine title for a day.
func Title(day models.AbstractWorkoutDay) string {
	return day.MuscleGroups + " - " + day.Day
}

// Assemble resolves every exercise of day against catalog and builds the
// routine payload. Unresolvable exercises are dropped; if none remain the
// day fails with an EmptyDayError.
func Assemble(day models.AbstractWorkoutDay, catalog []models.CatalogEntry, log *slog.Logger) (*Assembly, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	a := &Assembly{
		Payload: models.RoutinePayload{
			Title: Title(day),
			Notes: RoutineNotes,
		},
	}

	for _, ex := range day.Exercises {
		if ex.Sets < 1 {
			log.Warn("exercise has no sets, dropping", "day", day.Day, "exercise", ex.Name, "sets", ex.Sets)
			a.Outcomes = append(a.Outcomes, Outcome{Requested: ex.Name, Tier: resolve.TierNone, Dropped: true})
			continue
		}

		m, ok := resolve.Resolve(ex.Name, catalog)
		if !ok {
			log.Warn("exercise not found, dropping", "day", day.Day, "exercise", ex.Name)
			a.Outcomes = append(a.Outcomes, Outcome{Requested: ex.Name, Tier: resolve.TierNone, Dropped: true})
			continue
		}

		log.Debug("exercise resolved",
			"day", day.Day,
			"exercise", ex.Name,
			"template", m.CanonicalName,
			"tier", m.Tier,
		)
		a.Outcomes = append(a.Outcomes, Outcome{Requested: ex.Name, Resolved: m.CanonicalName, Tier: m.Tier})
		a.Payload.Exercises = append(a.Payload.Exercises, buildExercise(ex, m.Resolution))
	}

	if len(a.Payload.Exercises) == 0 {
		return a, &EmptyDayError{Day: day.Day}
	}
	return a, nil
}

func buildExercise(ex models.AbstractExercise, res models.Resolution) models.RoutineExercise {
	rest := isolationRestSeconds
	if ex.IsCompound {
		rest = compoundRestSeconds
	}

	sets := make([]models.RoutineSet, ex.Sets)
	for i := range sets {
		reps := int(ex.Reps)
		sets[i] = models.RoutineSet{Type: models.SetTypeNormal, Reps: &reps}
	}

	return models.RoutineExercise{
		ExerciseTemplateID: res.CatalogID,
		RestSeconds:        rest,
		Notes:              exerciseNotes(ex.Notes, res),
		Sets:               sets,
	}
}

// exerciseNotes keeps the generated note for exact matches and annotates
// every substitution with the title actually used. The annotation is
// appended verbatim, so an empty note leaves a leading space.
func exerciseNotes(note string, res models.Resolution) string {
	if !res.IsAlternative {
		if note == "" {
			return DefaultExerciseNotes
		}
		return note
	}
	return note + " (Substituted with: " + res.CanonicalName + ")"
}
