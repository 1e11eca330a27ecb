package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/api"
)

func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API",
		Long: `Serve the REST API other tools can call: conversations, analysis,
sentiment history, dashboard, trends and import. Binds localhost by
default; nothing is exposed beyond your machine unless you ask.`,
		Example: `  # Serve on the configured address
  chatwell serve

  # Pick a port
  chatwell serve --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}

func runServe(addr string) error {
	if addr == "" {
		addr = cfg.APIAddr
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	arch, err := newArchiveWriter()
	if err != nil {
		return err
	}
	defer arch.Close()

	server := api.NewServer(store, newImporter(store, arch), cfg.UserName)

	fmt.Printf("Serving chatwell API on %s (Ctrl+C to stop)\n", addr)
	return server.Run(addr)
}
