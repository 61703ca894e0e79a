package cli

import (
	hevymcp "github.com/claude/hevyplan/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	Long: `Serve the plan generation tools to an MCP client over stdin/stdout.
Plans run in-process, or on a hevyplan server when --remote is set.
Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := newBackend(cmd)
		if err != nil {
			return err
		}
		s := hevymcp.New(b, rootCmd.Version, newLogger(cmd))
		return server.ServeStdio(s)
	},
}
