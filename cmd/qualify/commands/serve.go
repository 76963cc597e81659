package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qualify/logger"
	"github.com/teranos/qualify/lsp"
	"github.com/teranos/qualify/version"
)

// ServeCmd runs the language server
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the completion provider as a language server",
	Long: `Serve the Language Server Protocol over stdin/stdout, or over WebSocket
with --ws (or server.websocket_addr).

In stdio mode stdout carries the protocol; logs go to stderr.

Examples:
  qualify serve                       # editor spawns qualify as a stdio server
  qualify serve --ws localhost:7420   # browser editors connect to ws://localhost:7420/lsp`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().String("ws", "", "Serve over WebSocket on this address instead of stdio")
}

func runServe(cmd *cobra.Command, args []string) error {
	provider, cfg, err := loadProvider(cmd)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("ws")
	if addr == "" {
		addr = cfg.Server.WebSocketAddr
	}

	server := lsp.NewServer(provider, lsp.OptionsFromConfig(cfg))
	if addr == "" {
		return server.RunStdio(cmd.Context())
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	pterm.DefaultHeader.WithFullWidth().Printf("%s language server", version.Name)
	pterm.Info.Printfln("Version:   %s", version.Get().String())
	pterm.Info.Printfln("Endpoint:  ws://%s%s", addr, lsp.WebSocketPath)
	pterm.Info.Printfln("Provider:  %s (%d candidates, simplify %t)", provider.Name(), provider.Catalog().Len(), provider.SimplifyOnCommit())
	pterm.Info.Printfln("Verbosity: %s", logger.LevelName(verbosity))

	if err := server.ListenAndServe(cmd.Context(), addr); err != nil {
		return err
	}
	pterm.Success.Println("Server stopped cleanly")
	return nil
}
