// Package daemon runs the watch-and-import loop: a drop directory is
// watched for chat exports, settled files go through the import pipeline
// one at a time, and imported files move to a processed subdirectory so
// they are never picked up twice. The daemon leaves a pid file and a
// JSON status file behind for inspection.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ravenmoor/chatwell/internal/importer"
	"github.com/ravenmoor/chatwell/internal/watcher"
)

// Config holds the watch daemon settings. Settle is a duration string so
// the status file stays readable.
type Config struct {
	WatchDir string `json:"watch_dir"`
	StateDir string `json:"state_dir"`
	Settle   string `json:"settle"`
}

// DefaultConfig places the inbox and state files under ~/.chatwell.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".chatwell")
	return &Config{
		WatchDir: filepath.Join(base, "inbox"),
		StateDir: base,
		Settle:   "2s",
	}
}

func (c *Config) settle() time.Duration {
	d, err := time.ParseDuration(c.Settle)
	if err != nil || d <= 0 {
		return watcher.DefaultSettle
	}
	return d
}

// Metrics counts what the daemon has done since it started.
type Metrics struct {
	FilesSettled  int64     `json:"files_settled"`
	FilesImported int64     `json:"files_imported"`
	FilesSkipped  int64     `json:"files_skipped"`
	FilesFailed   int64     `json:"files_failed"`
	RecordsStored int64     `json:"records_stored"`
	StartTime     time.Time `json:"start_time"`
	LastImport    time.Time `json:"last_import_time,omitempty"`
}

// Daemon wires the export watcher to the import pipeline.
type Daemon struct {
	config     *Config
	watcher    *watcher.ExportWatcher
	importer   *importer.Importer
	queue      chan string
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	pidFile    string
	statusFile string

	mu      sync.Mutex
	metrics Metrics
}

func New(cfg *Config, imp *importer.Importer) (*Daemon, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	w, err := watcher.NewExportWatcher(cfg.WatchDir, cfg.settle())
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		config:     cfg,
		watcher:    w,
		importer:   imp,
		queue:      make(chan string, 64),
		ctx:        ctx,
		cancel:     cancel,
		pidFile:    filepath.Join(cfg.StateDir, "daemon.pid"),
		statusFile: filepath.Join(cfg.StateDir, "daemon.status"),
	}
	d.metrics.StartTime = time.Now()

	w.AddHandler(d.enqueue)

	return d, nil
}

// Start begins watching and processing. It refuses to start when another
// daemon already holds the pid file.
func (d *Daemon) Start() error {
	if pid, running := d.runningPID(); running {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	if err := d.writePIDFile(); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}

	if err := d.watcher.Start(); err != nil {
		os.Remove(d.pidFile)
		return fmt.Errorf("start watcher: %w", err)
	}

	d.wg.Add(1)
	go d.processFiles()

	d.wg.Add(1)
	go d.statusLoop()

	d.writeStatusFile()
	return nil
}

// Stop shuts the loop down and removes the pid and status files.
func (d *Daemon) Stop() error {
	d.cancel()

	if err := d.watcher.Stop(); err != nil {
		log.Printf("Error stopping watcher: %v", err)
	}

	d.wg.Wait()

	os.Remove(d.pidFile)
	os.Remove(d.statusFile)
	return nil
}

// Run starts the daemon and blocks until SIGINT or SIGTERM.
func (d *Daemon) Run() error {
	if err := d.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-d.ctx.Done():
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	}

	return d.Stop()
}

// Metrics returns a snapshot of the counters.
func (d *Daemon) Metrics() Metrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.metrics
}

func (d *Daemon) enqueue(path string) {
	d.mu.Lock()
	d.metrics.FilesSettled++
	d.mu.Unlock()

	select {
	case d.queue <- path:
	case <-d.ctx.Done():
	}
}

func (d *Daemon) processFiles() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		case path := <-d.queue:
			d.importOne(path)
		}
	}
}

// importOne runs the pipeline on a settled file. Imported and duplicate
// files move to processed/; failures stay in the inbox so the next start
// retries them and the operator can see what was refused.
func (d *Daemon) importOne(path string) {
	res, err := d.importer.ImportFile(d.ctx, path)
	switch {
	case errors.Is(err, importer.ErrDuplicate):
		log.Printf("Skipping %s: identical content already imported", filepath.Base(path))
		d.mu.Lock()
		d.metrics.FilesSkipped++
		d.mu.Unlock()
	case err != nil:
		log.Printf("Import of %s failed: %v", filepath.Base(path), err)
		d.mu.Lock()
		d.metrics.FilesFailed++
		d.mu.Unlock()
		return
	default:
		log.Printf("Imported %s: %d messages, %d classified", filepath.Base(path), len(res.Conversation.Messages), res.Classified)
		d.mu.Lock()
		d.metrics.FilesImported++
		d.metrics.RecordsStored += int64(res.Classified)
		d.metrics.LastImport = time.Now()
		d.mu.Unlock()
	}

	d.moveToProcessed(path)
}

func (d *Daemon) processedDir() string {
	return filepath.Join(d.config.WatchDir, "processed")
}

func (d *Daemon) moveToProcessed(path string) {
	if err := os.MkdirAll(d.processedDir(), 0755); err != nil {
		log.Printf("Failed to create processed directory: %v", err)
		return
	}

	dest := filepath.Join(d.processedDir(), filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		dest = strings.TrimSuffix(dest, ext) + "_" + time.Now().Format("20060102_150405") + ext
	}
	if err := os.Rename(path, dest); err != nil {
		log.Printf("Failed to move %s to processed: %v", filepath.Base(path), err)
	}
}

func (d *Daemon) statusLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.writeStatusFile()
		}
	}
}

// Status is the daemon's externally visible state, written to the status
// file and read back by GetStatus.
type Status struct {
	PID       int       `json:"pid"`
	Status    string    `json:"status"`
	Config    *Config   `json:"config,omitempty"`
	Metrics   Metrics   `json:"metrics"`
	Pending   []string  `json:"pending,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Daemon) writeStatusFile() {
	status := Status{
		PID:       os.Getpid(),
		Status:    "running",
		Config:    d.config,
		Metrics:   d.Metrics(),
		Pending:   d.watcher.Pending(),
		UpdatedAt: time.Now(),
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return
	}

	// Atomic replace so a concurrent reader never sees a torn file.
	tmp := d.statusFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return
	}
	os.Rename(tmp, d.statusFile)
}

func (d *Daemon) writePIDFile() error {
	return os.WriteFile(d.pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644)
}

// runningPID reports the pid from an existing pid file when that process
// is still alive.
func (d *Daemon) runningPID() (int, bool) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		return 0, false
	}

	var pid int
	fmt.Sscanf(string(data), "%d", &pid)
	if pid == 0 {
		return 0, false
	}
	return pid, pidAlive(pid)
}

func pidAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

// GetStatus reads the status file left by a running daemon. A missing
// file means stopped; a file whose process died means stale.
func GetStatus(stateDir string) (*Status, error) {
	data, err := os.ReadFile(filepath.Join(stateDir, "daemon.status"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Status{Status: "stopped"}, nil
		}
		return nil, err
	}

	var status Status
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	if status.PID != 0 && !pidAlive(status.PID) {
		status.Status = "stale"
	}
	return &status, nil
}
