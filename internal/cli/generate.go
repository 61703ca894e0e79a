package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/planner"
	"github.com/claude/hevyplan/internal/routine"
	"github.com/spf13/cobra"
)

var (
	prefsPath      string
	generateDryRun bool
	generateAPIKey string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a plan and create its routines in Hevy",
	Long: `Generate a workout plan from a preferences file and create one Hevy routine
per day, in plan order. The preferences file uses the same JSON body as
POST /api/generate-workout; use "-" to read it from stdin.

With --dry-run the routines are assembled and printed but not created.`,
	Example: `  hevyplanctl generate --prefs prefs.json
  hevyplanctl generate --prefs - --dry-run < prefs.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := readPreferences(cmd, prefsPath)
		if err != nil {
			return err
		}
		if generateAPIKey != "" || prefs.HevyAPIKey == "" {
			if prefs.HevyAPIKey, err = hevyAPIKey(generateAPIKey); err != nil {
				return err
			}
		}
		if err := prefs.Validate(); err != nil {
			return err
		}

		b, err := newBackend(cmd)
		if err != nil {
			return err
		}

		run := b.Run
		if generateDryRun {
			run = b.Preview
		}
		res, runErr := run(cmd.Context(), prefs)

		out := cmd.OutOrStdout()
		if jsonOutput {
			if res != nil {
				if err := outputJSON(out, res); err != nil {
					return err
				}
			}
			return runErr
		}

		if res != nil {
			printResult(out, res, generateDryRun)
		}
		if runErr != nil {
			var dayErr *planner.DayError
			if errors.As(runErr, &dayErr) && res != nil && len(res.Routines) > 0 && !generateDryRun {
				PrintWarning(out, fmt.Sprintf("%d routine(s) were created before day %d failed and remain in Hevy", len(res.Routines), dayErr.Index))
			}
			return runErr
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&prefsPath, "prefs", "p", "", "Preferences JSON file (\"-\" for stdin)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Assemble routines without creating them")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Hevy API key (overrides the file, falls back to "+hevyKeyEnv+")")
}

// readPreferences decodes a preferences document from path or stdin.
func readPreferences(cmd *cobra.Command, path string) (*models.Preferences, error) {
	if path == "" {
		return nil, errors.New("--prefs is required")
	}

	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening preferences: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var p models.Preferences
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}
	return &p, nil
}

func printResult(w io.Writer, res *planner.Result, dryRun bool) {
	PrintSection(w, "Plan "+res.RunID)
	PrintLabelValue(w, "Catalog", strconv.Itoa(res.CatalogSize)+" exercises")
	if res.CatalogPartial {
		PrintWarning(w, "catalog was incomplete; some exercises may have been matched against a partial list")
	}
	_, _ = fmt.Fprintln(w)

	verb := "Created"
	if dryRun {
		verb = "Assembled"
	}
	for _, rt := range res.Routines {
		PrintSuccess(w, fmt.Sprintf("%s %q (%d exercises)", verb, rt.Title, len(rt.Payload.Exercises)))
		PrintTable(w, []string{"REQUESTED", "RESOLVED", "TIER"}, outcomeRows(rt.Outcomes))
		_, _ = fmt.Fprintln(w)
	}

	if subs := res.Substitutions(); len(subs) > 0 {
		items := make([]string, 0, len(subs))
		for _, o := range subs {
			items = append(items, o.Requested+" → "+o.Resolved)
		}
		PrintWarning(w, "Substituted exercises:")
		PrintList(w, items, 1)
	}
	if dropped := res.Dropped(); len(dropped) > 0 {
		PrintWarning(w, "Not found in your catalog, left out:")
		PrintList(w, dropped, 1)
	}
}

func outcomeRows(outcomes []routine.Outcome) [][]string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		resolved := o.Resolved
		if o.Dropped {
			resolved = "-"
		}
		rows = append(rows, []string{o.Requested, resolved, string(o.Tier)})
	}
	return rows
}
