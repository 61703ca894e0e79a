package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/claude/hevyplan/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	resolveAPIKey string
	resolveLimit  int
	catalogAPIKey string
	catalogSearch string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve NAME",
	Short: "Show how an exercise name maps onto your catalog",
	Long: `Resolve an exercise name the way plan generation does: exact title first,
then the alias table, then keyword similarity. The best keyword candidates
are listed as well.`,
	Example: `  hevyplanctl resolve "Tricep Pushdowns"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := hevyAPIKey(resolveAPIKey)
		if err != nil {
			return err
		}
		b, err := newBackend(cmd)
		if err != nil {
			return err
		}

		l, err := b.Lookup(cmd.Context(), key, args[0], resolveLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, l)
		}

		if l.Found {
			PrintSuccess(out, fmt.Sprintf("%s → %s [%s]", l.Name, l.Match.CanonicalName, l.Match.Tier))
			PrintLabelValue(out, "Template", l.Match.CatalogID)
		} else {
			PrintWarning(out, fmt.Sprintf("%s: no match in %d catalog entries", l.Name, l.CatalogSize))
		}

		if len(l.Candidates) > 0 {
			PrintSection(out, "Candidates")
			rows := make([][]string, 0, len(l.Candidates))
			for _, c := range l.Candidates {
				rows = append(rows, []string{strconv.Itoa(c.Score), c.Entry.ID, c.Entry.Title})
			}
			PrintTable(out, []string{"SCORE", "ID", "TITLE"}, rows)
		}
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List your Hevy exercise catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if remoteURL != "" {
			return fmt.Errorf("catalog: %w", errLocalOnly)
		}
		key, err := hevyAPIKey(catalogAPIKey)
		if err != nil {
			return err
		}
		p, err := newPlanner(cmd)
		if err != nil {
			return err
		}

		entries, partial, err := p.Catalog(cmd.Context(), key)
		if err != nil {
			return err
		}

		if term := strings.ToLower(strings.TrimSpace(catalogSearch)); term != "" {
			kept := entries[:0]
			for _, e := range entries {
				if strings.Contains(strings.ToLower(e.Title), term) {
					kept = append(kept, e)
				}
			}
			entries = kept
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, entries)
		}

		if partial {
			PrintWarning(out, "catalog fetch stopped early; the list is incomplete")
		}
		if len(entries) == 0 {
			PrintInfo(out, "No exercises found")
			return nil
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			custom := ""
			if e.IsCustom {
				custom = "yes"
			}
			rows = append(rows, []string{e.ID, e.Title, e.PrimaryMuscleGroup, custom})
		}
		PrintTable(out, []string{"ID", "TITLE", "MUSCLE", "CUSTOM"}, rows)
		return nil
	},
}

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Print the built-in exercise alias table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, resolve.Aliases)
		}

		names := make([]string, 0, len(resolve.Aliases))
		for name := range resolve.Aliases {
			names = append(names, name)
		}
		sort.Strings(names)

		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name, resolve.Aliases[name]})
		}
		PrintTable(out, []string{"NAME", "CATALOG TITLE"}, rows)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveAPIKey, "api-key", "", "Hevy API key (falls back to "+hevyKeyEnv+")")
	resolveCmd.Flags().IntVar(&resolveLimit, "limit", 0, "Maximum number of candidates (default 5)")

	catalogCmd.Flags().StringVar(&catalogAPIKey, "api-key", "", "Hevy API key (falls back to "+hevyKeyEnv+")")
	catalogCmd.Flags().StringVar(&catalogSearch, "search", "", "Only list titles containing this text")
}
