package models

// CatalogEntry is an exercise template as registered in the Hevy catalog.
// Title is the canonical name.
type CatalogEntry struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Type               string `json:"type,omitempty"`
	PrimaryMuscleGroup string `json:"primary_muscle_group,omitempty"`
	IsCustom           bool   `json:"is_custom,omitempty"`
}

// Resolution is the outcome of matching a free-form exercise name against
// the catalog. IsAlternative is set for every match that is not an exact
// title match and must be surfaced to the user.
type Resolution struct {
	CatalogID     string `json:"catalog_id"`
	CanonicalName string `json:"canonical_name"`
	IsAlternative bool   `json:"is_alternative"`
}

// SetTypeNormal is the only set type generated routines use.
const SetTypeNormal = "normal"

// RoutineSet is one set of a routine exercise. The tracking fields stay
// null because the generated plan does not prescribe load, distance or time.
type RoutineSet struct {
	Type            string   `json:"type"`
	WeightKg        *float64 `json:"weight_kg"`
	Reps            *int     `json:"reps"`
	DistanceMeters  *int     `json:"distance_meters"`
	DurationSeconds *int     `json:"duration_seconds"`
}

// RoutineExercise is a resolved exercise inside a routine payload.
type RoutineExercise struct {
	ExerciseTemplateID string       `json:"exercise_template_id"`
	SupersetID         *int         `json:"superset_id"`
	RestSeconds        int          `json:"rest_seconds"`
	Notes              string       `json:"notes"`
	Sets               []RoutineSet `json:"sets"`
}

// RoutinePayload is the routine body accepted by POST /routines.
type RoutinePayload struct {
	Title     string            `json:"title"`
	FolderID  *int              `json:"folder_id"`
	Notes     string            `json:"notes"`
	Exercises []RoutineExercise `json:"exercises"`
}

// CreateRoutineRequest wraps a payload the way the Hevy API expects it.
type CreateRoutineRequest struct {
	Routine RoutinePayload `json:"routine"`
}
