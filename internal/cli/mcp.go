package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/mcp"
)

func NewMCPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Expose chatwell to MCP clients over stdin/stdout. Assistants connected
this way can analyze transcripts, track feelings, and read your
summaries and suggestions.`,
		Example: `  # Typical client configuration runs:
  chatwell mcp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd.Context())
		},
	}

	return cmd
}

func runMCP(ctx context.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	server := mcp.NewServer(store, newClassifier(), cfg.UserName)
	return server.Run(ctx)
}
