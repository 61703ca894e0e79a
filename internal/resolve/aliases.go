package resolve

// Aliases maps informal exercise names, as a language model tends to write
// them, to canonical Hevy template titles. Keys are matched case-sensitively;
// the target is matched against the catalog case-insensitively.
var Aliases = map[string]string{
	// Compound
	"Deadlifts":          "Deadlift (Barbell)",
	"Squats":             "Squat (Barbell)",
	"Bench Press":        "Bench Press (Barbell)",
	"Overhead Press":     "Overhead Press (Barbell)",
	"Romanian Deadlifts": "Romanian Deadlift (Barbell)",

	// Back
	"Lat Pulldowns":            "Lat Pulldown (Cable)",
	"Bent-Over Rows":           "Bent Over Row (Barbell)",
	"Single-Arm Dumbbell Rows": "Dumbbell Row",
	"Seated Cable Rows":        "Seated Cable Row",
	"Pull-Ups":                 "Pull Up",

	// Chest
	"Chest Press Machine":    "Chest Press (Machine)",
	"Incline Bench Press":    "Incline Bench Press (Barbell)",
	"Incline Dumbbell Press": "Incline Bench Press (Dumbbell)",
	"Cable Crossovers":       "Cable Fly Crossovers",
	"Dumbbell Flyes":         "Chest Fly (Dumbbell)",

	// Shoulders
	"Front Raises":            "Front Raise (Dumbbell)",
	"Lateral Raises":          "Lateral Raise (Dumbbell)",
	"Upright Rows":            "Upright Row (Barbell)",
	"Face Pulls":              "Face Pull",
	"Dumbbell Shoulder Press": "Shoulder Press (Dumbbell)",
	"Arnold Press":            "Arnold Press (Dumbbell)",

	// Arms
	"Tricep Pushdowns":           "Triceps Pushdown",
	"Tricep Overhead Extensions": "Triceps Extension (Cable)",
	"Tricep Dips":                "Triceps Dip",
	"Barbell Curls":              "Bicep Curl (Barbell)",
	"Hammer Curls":               "Hammer Curl (Dumbbell)",
	"Concentration Curls":        "Concentration Curl",
	"Skull Crushers":             "Triceps Extension (Barbell)",

	// Legs
	"Leg Press":              "Leg Press (Machine)",
	"Leg Extensions":         "Leg Extension (Machine)",
	"Leg Curls":              "Leg Curl (Machine)",
	"Calf Raises":            "Standing Calf Raise",
	"Seated Calf Raises":     "Seated Calf Raise",
	"Bulgarian Split Squats": "Bulgarian Split Squat",
	"Lunges":                 "Walking Lunge",

	// Core
	"Planks":             "Plank",
	"Russian Twists":     "Russian Twist",
	"Hanging Leg Raises": "Hanging Leg Raise",
	"Cable Crunches":     "Cable Crunch",
	"Ab Wheel Rollouts":  "Ab Wheel",
}

// Alias returns the canonical title registered for name, if any.
func Alias(name string) (string, bool) {
	target, ok := Aliases[name]
	return target, ok
}
