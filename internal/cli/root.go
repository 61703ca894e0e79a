// Package cli implements hevyplanctl, the command-line front end for plan
// generation, catalog inspection and the stdio MCP server.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	configPath string
	remoteURL  string
	remoteKey  string
	verbose    bool

	groupTitleColor = color.New(color.FgCyan, color.Bold)
)

// rootCmd is the root command for hevyplanctl.
var rootCmd = &cobra.Command{
	Use:     "hevyplanctl",
	Version: "dev",
	Short:   "Generate workout plans and create them as Hevy routines",
	Long: `hevyplanctl generates a multi-day workout plan from training preferences,
matches every exercise against your Hevy exercise catalog and creates one
routine per day in your Hevy account.

Commands run in-process using the configuration file and HEVYPLAN_* environment
variables, or against a running hevyplan server with --remote.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (environment only when empty)")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "Base URL of a hevyplan server to run against")
	rootCmd.PersistentFlags().StringVar(&remoteKey, "remote-key", "", "Access key for the remote server")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "plans",
		Title: groupTitleColor.Sprint("Plans:"),
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "catalog",
		Title: groupTitleColor.Sprint("Catalog:"),
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "tooling",
		Title: groupTitleColor.Sprint("Tooling:"),
	})

	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the hevyplanctl version",
		Args:    cobra.NoArgs,
		GroupID: "tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}

	generateCmd.GroupID = "plans"
	resolveCmd.GroupID = "catalog"
	catalogCmd.GroupID = "catalog"
	aliasesCmd.GroupID = "catalog"
	mcpCmd.GroupID = "tooling"

	rootCmd.AddCommand(generateCmd, resolveCmd, catalogCmd, aliasesCmd, mcpCmd, versionCmd)
}
