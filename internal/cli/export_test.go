package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ravenmoor/chatwell/internal/models"
)

func TestNewExportCommand(t *testing.T) {
	cmd := NewExportCommand()

	flags := []string{"format", "range", "output"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Flag %q not defined", flag)
		}
	}

	formatFlag := cmd.Flags().Lookup("format")
	if formatFlag.DefValue != "json" {
		t.Errorf("Default format = %v, want json", formatFlag.DefValue)
	}
}

func TestRunExport_CSV(t *testing.T) {
	dir := setTestConfig(t)

	seedRecord(t, "feeling pretty good about the week", models.SentimentPositive, time.Now().Add(-24*time.Hour))
	seedRecord(t, "rough morning, too many meetings", models.SentimentNegative, time.Now().Add(-2*time.Hour))

	outPath := filepath.Join(dir, "history.csv")
	output, err := captureStdout(t, func() error {
		return runExport("csv", "7d", outPath)
	})
	if err != nil {
		t.Fatalf("runExport() error = %v", err)
	}

	if !strings.Contains(output, "✓ Exported 2 record(s)") {
		t.Errorf("Expected export confirmation, got: %s", output)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV lines = %d, want header plus 2 rows", len(lines))
	}
	if lines[0] != "timestamp,message,sentiment,confidence,emotions,emoji_analysis" {
		t.Errorf("CSV header = %q", lines[0])
	}
	if !strings.Contains(string(data), "joy:0.80") {
		t.Errorf("Expected packed emotions in CSV, got: %s", data)
	}
}

func TestRunExport_JSONBundle(t *testing.T) {
	setTestConfig(t)

	seedRecord(t, "feeling pretty good about the week", models.SentimentPositive, time.Now().Add(-24*time.Hour))

	output, err := captureStdout(t, func() error {
		return runExport("json", "30d", "")
	})
	if err != nil {
		t.Fatalf("runExport() error = %v", err)
	}

	if !strings.Contains(output, `"total_records": 1`) {
		t.Errorf("Expected total_records in JSON bundle, got: %s", output)
	}
	if !strings.Contains(output, `"time_range": "30d"`) {
		t.Errorf("Expected time_range in JSON bundle, got: %s", output)
	}
}

func TestRunExport_UnknownFormat(t *testing.T) {
	setTestConfig(t)

	_, err := captureStdout(t, func() error {
		return runExport("xml", "30d", "")
	})
	if err == nil {
		t.Fatal("runExport() expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("error = %v, want unknown format", err)
	}
}
