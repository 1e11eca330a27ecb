package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/chatlog"
	"github.com/ravenmoor/chatwell/internal/config"
)

var (
	cfgFile      string
	dbOverride   string
	userOverride string
	jsonOut      bool

	cfg *config.Config
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chatwell",
		Short: "Local-first chat analytics and emotional wellbeing tracking",
		Long: `Chatwell - Import chat exports, analyze how your conversations feel, and
track your emotional wellbeing over time. Everything stays on your machine.`,
		Version: "0.1.0",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: ~/.chatwell/chatwell.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbOverride, "db", "", "Path to database file (default: ~/.chatwell/chatwell.db)")
	rootCmd.PersistentFlags().StringVar(&userOverride, "user", "", "Your name as it appears in transcripts")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of formatted text")

	rootCmd.AddCommand(
		NewImportCommand(),
		NewAnalyzeCommand(),
		NewTrackCommand(),
		NewHistoryCommand(),
		NewSummaryCommand(),
		NewSuggestCommand(),
		NewDashboardCommand(),
		NewTrendsCommand(),
		NewListCommand(),
		NewSearchCommand(),
		NewRenameCommand(),
		NewDeleteCommand(),
		NewExportCommand(),
		NewStatsCommand(),
		NewWatchCommand(),
		NewBrowseCommand(),
		NewServeCommand(),
		NewMCPCommand(),
	)

	return rootCmd
}

// initConfig resolves configuration once for the whole command tree.
// Flag overrides land on top of whatever the file and environment said.
func initConfig() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dbOverride != "" {
		loaded.DBPath = dbOverride
	}
	if userOverride != "" {
		loaded.UserName = userOverride
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	if jsonOut {
		// Parser warnings on stderr would interleave with piped JSON.
		chatlog.Quiet = true
	}
	cfg = loaded
	return nil
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
