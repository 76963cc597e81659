package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/qualify/cmd/qualify/commands"
	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/logger"
)

var rootCmd = &cobra.Command{
	Use:   "qualify",
	Short: "qualify - fully-qualified name completion",
	Long: `qualify offers fully-qualified type names at the caret and, on commit,
can shorten the inserted name to what the file's using directives and
namespaces already make visible.

Available commands:
  serve    - Run as a language server (stdio or WebSocket)
  complete - List the items offered at an offset
  apply    - Commit a candidate at an offset
  preview  - Compare verbatim and simplified insertions
  catalog  - List the configured candidates
  am       - Manage configuration

Examples:
  qualify serve
  qualify complete Program.cs --offset 120
  qualify apply Program.cs --offset 120 --candidate 0 --simplify`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")

		// Config errors surface from the command itself
		if cfg, err := commands.LoadConfig(cmd); err == nil && cfg.Server.LogTheme != "" {
			logger.SetTheme(cfg.Server.LogTheme)
		}
		if err := logger.Initialize(logger.Options{JSON: jsonLogs, Verbosity: verbosity}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON")
	rootCmd.PersistentFlags().String("config", "", "Read configuration from this file only (on top of defaults)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.CompleteCmd)
	rootCmd.AddCommand(commands.ApplyCmd)
	rootCmd.AddCommand(commands.PreviewCmd)
	rootCmd.AddCommand(commands.CatalogCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		stop()
		os.Exit(1)
	}
}
