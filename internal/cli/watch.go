package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/daemon"
)

func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Manage the watch-and-import daemon",
		Long: `Control the background daemon that watches a drop directory and imports
every chat export placed there once the file stops changing.`,
		Example: `  # Run the watcher in the foreground
  chatwell watch start

  # Stop a running watcher
  chatwell watch stop

  # Check what the watcher is doing
  chatwell watch status`,
	}

	cmd.AddCommand(
		newWatchStartCommand(),
		newWatchStopCommand(),
		newWatchStatusCommand(),
	)

	return cmd
}

func newWatchStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the watch daemon",
		Long:  `Start the daemon in the foreground. Imports land in the configured database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			d, err := daemon.New(&daemon.Config{
				WatchDir: cfg.WatchDir,
				StateDir: cfg.DataDir,
				Settle:   cfg.SettleDuration().String(),
			}, newImporter(store, arch))
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}

			fmt.Println("Starting watch daemon in foreground (Ctrl+C to stop)...")
			fmt.Printf("Watching: %s\n", cfg.WatchDir)
			return d.Run()
		},
	}
}

func newWatchStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the watch daemon",
		Long:  `Signal the running daemon to shut down.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pidFile := filepath.Join(cfg.DataDir, "daemon.pid")

			data, err := os.ReadFile(pidFile)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("Daemon is not running")
					return nil
				}
				return fmt.Errorf("failed to read PID file: %w", err)
			}

			var pid int
			fmt.Sscanf(string(data), "%d", &pid)

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process: %w", err)
			}

			if err := process.Signal(os.Interrupt); err != nil {
				return fmt.Errorf("failed to stop daemon: %w", err)
			}

			// Give it a moment to finish the file it is on.
			time.Sleep(2 * time.Second)

			os.Remove(pidFile)

			fmt.Println("Daemon stopped")
			return nil
		},
	}
}

func newWatchStatusCommand() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show watch daemon status",
		Long:  `Display the current status of the watch daemon.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := daemon.GetStatus(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			if jsonOut {
				return printJSON(status)
			}

			if status.Status == "stopped" {
				fmt.Println("Daemon status: stopped")
				return nil
			}

			fmt.Printf("Daemon status: %s\n", status.Status)
			fmt.Printf("PID: %d\n", status.PID)
			fmt.Printf("Updated: %s\n", status.UpdatedAt.Format("2006-01-02 15:04:05"))

			metrics := status.Metrics
			fmt.Println("\nMetrics:")
			fmt.Printf("  Files settled: %d\n", metrics.FilesSettled)
			fmt.Printf("  Files imported: %d\n", metrics.FilesImported)
			fmt.Printf("  Duplicates skipped: %d\n", metrics.FilesSkipped)
			fmt.Printf("  Failures: %d\n", metrics.FilesFailed)
			fmt.Printf("  Records stored: %d\n", metrics.RecordsStored)
			fmt.Printf("  Running since: %s\n", metrics.StartTime.Format("2006-01-02 15:04:05"))
			if !metrics.LastImport.IsZero() {
				fmt.Printf("  Last import: %s\n", metrics.LastImport.Format("2006-01-02 15:04:05"))
			}

			if len(status.Pending) > 0 {
				fmt.Println("\nSettling now:")
				for _, path := range status.Pending {
					fmt.Printf("  - %s\n", path)
				}
			}

			if detailed && status.Config != nil {
				fmt.Println("\nConfiguration:")
				fmt.Printf("  Watch directory: %s\n", status.Config.WatchDir)
				fmt.Printf("  State directory: %s\n", status.Config.StateDir)
				fmt.Printf("  Settle delay: %s\n", status.Config.Settle)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "Show detailed status including configuration")

	return cmd
}
