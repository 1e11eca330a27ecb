// Package scanner discovers chat transcript exports on disk. It walks a
// root directory for .txt/.json files whose head sniffs as a known chat
// format and returns them newest first, for `import --scan` and the
// watch daemon's startup sweep.
package scanner

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ravenmoor/chatwell/internal/chatlog"
)

// MaxExportSize guards the walk from files that are clearly not chat
// exports. Oversized files are skipped, not errors.
const MaxExportSize = 50 << 20

// sniffBytes of head content are enough for format detection.
const sniffBytes = 8 << 10

// minGenericMessages is how many parseable lines a generic-looking file
// needs before it counts as a transcript; one stray "key: value" line
// should not.
const minGenericMessages = 3

// Candidate is one plausible transcript export.
type Candidate struct {
	Path    string    `json:"path"`
	Format  string    `json:"format"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Scan walks root for transcript exports and returns them newest first.
// Unreadable entries and implausible files are skipped silently; hidden
// directories and processed/ subtrees are not descended into.
func Scan(root string) ([]Candidate, error) {
	return scanWithLimit(root, MaxExportSize)
}

func scanWithLimit(root string, maxSize int64) ([]Candidate, error) {
	var candidates []Candidate

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			if path != root && skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !plausibleName(path) {
			return nil
		}
		if info.Size() == 0 || info.Size() > maxSize {
			return nil
		}

		format, ok := sniff(path)
		if !ok {
			return nil
		}

		candidates = append(candidates, Candidate{
			Path:    path,
			Format:  format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ModTime.After(candidates[j].ModTime)
	})

	return candidates, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "processed"
}

func plausibleName(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".json":
		return true
	}
	return false
}

// sniff reads the file head and asks the parser what it sees. Structured
// formats qualify on detection alone; generic needs a few parseable
// message lines.
func sniff(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", false
	}
	content := string(head[:n])

	format := chatlog.DetectFormat(content)
	switch format {
	case chatlog.FormatUnknown:
		return "", false
	case chatlog.FormatGeneric:
		msgs, _ := chatlog.Parse(content, chatlog.FormatGeneric)
		if len(msgs) < minGenericMessages {
			return "", false
		}
	}

	return format, true
}
