package archive

import (
	"bufio"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Entry is one archived raw transcript (or a single tracked message).
// Raw is kept verbatim so history can be re-imported after the
// classifier changes.
type Entry struct {
	Timestamp int64  `json:"ts"`
	UserID    string `json:"user_id"`
	Source    string `json:"source"`
	Platform  string `json:"platform"`
	SHA       string `json:"sha"`
	Raw       string `json:"raw"`
}

// DefaultMaxShardSize seals shards once they pass 8 MiB of entries.
const DefaultMaxShardSize = 8 << 20

// Writer appends entries to size-rotated JSONL shards under one
// directory. Safe for concurrent use.
type Writer struct {
	baseDir       string
	maxShardSize  int64
	compress      bool
	flushInterval time.Duration

	mu      sync.Mutex
	current *shard

	done      chan struct{}
	closeOnce sync.Once
}

type shard struct {
	file *os.File
	buf  *bufio.Writer
	gz   *gzip.Writer // nil when uncompressed
	size int64
	path string
}

// NewWriter opens (creating if needed) the archive at baseDir. A
// non-positive maxShardSize selects DefaultMaxShardSize.
func NewWriter(baseDir string, maxShardSize int64, compress bool) (*Writer, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	if maxShardSize <= 0 {
		maxShardSize = DefaultMaxShardSize
	}

	w := &Writer{
		baseDir:       baseDir,
		maxShardSize:  maxShardSize,
		compress:      compress,
		flushInterval: 5 * time.Second,
		done:          make(chan struct{}),
	}

	if err := w.rotate(); err != nil {
		return nil, fmt.Errorf("failed to create initial shard: %w", err)
	}

	go w.backgroundFlush()

	return w, nil
}

// Append writes one entry and returns the name of the shard file that
// holds it. Timestamp and SHA are filled in when unset.
func (w *Writer) Append(e Entry) (string, error) {
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().Unix()
	}
	if e.SHA == "" {
		e.SHA = Fingerprint(e.Raw)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to marshal entry: %w", err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current.size >= w.maxShardSize {
		if err := w.rotate(); err != nil {
			return "", fmt.Errorf("failed to rotate shard: %w", err)
		}
	}

	n, err := w.current.buf.Write(data)
	if err != nil {
		return "", fmt.Errorf("failed to write to shard: %w", err)
	}
	w.current.size += int64(n)

	return filepath.Base(w.current.path), nil
}

// Fingerprint returns the hex SHA-256 of raw transcript content.
func Fingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (w *Writer) rotate() error {
	if w.current != nil {
		if err := w.current.close(); err != nil {
			return fmt.Errorf("failed to close current shard: %w", err)
		}
	}

	ext := ".jsonl"
	if w.compress {
		ext = ".jsonl.gz"
	}

	// Second-resolution names collide under fast rotation, so suffix
	// until the name is free.
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(w.baseDir, fmt.Sprintf("shard_%s%s", stamp, ext))
	for i := 1; fileExists(path); i++ {
		path = filepath.Join(w.baseDir, fmt.Sprintf("shard_%s_%d%s", stamp, i, ext))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create shard file: %w", err)
	}

	sh := &shard{file: file, path: path}
	if w.compress {
		sh.gz = gzip.NewWriter(file)
		sh.buf = bufio.NewWriterSize(sh.gz, 64*1024)
	} else {
		sh.buf = bufio.NewWriterSize(file, 64*1024)
	}

	w.current = sh
	return nil
}

func (w *Writer) backgroundFlush() {
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.mu.Lock()
			if w.current != nil {
				w.current.flush()
			}
			w.mu.Unlock()
		}
	}
}

// Close seals the current shard and stops the background flush.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() { close(w.done) })

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return nil
	}
	err := w.current.close()
	w.current = nil
	return err
}

func (s *shard) flush() error {
	if err := s.buf.Flush(); err != nil {
		return err
	}
	if s.gz != nil {
		return s.gz.Flush()
	}
	return nil
}

func (s *shard) close() error {
	if err := s.buf.Flush(); err != nil {
		return err
	}
	if s.gz != nil {
		if err := s.gz.Close(); err != nil {
			return err
		}
	}
	return s.file.Close()
}

// ShardInfo describes one shard file on disk.
type ShardInfo struct {
	Path       string    `json:"path"`
	ModTime    time.Time `json:"mod_time"`
	Size       int64     `json:"size"`
	Compressed bool      `json:"compressed"`
}

// ListShards returns every shard under baseDir in name (write) order.
func ListShards(baseDir string) ([]ShardInfo, error) {
	files, err := filepath.Glob(filepath.Join(baseDir, "shard_*.jsonl*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var shards []ShardInfo
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		shards = append(shards, ShardInfo{
			Path:       file,
			ModTime:    info.ModTime(),
			Size:       info.Size(),
			Compressed: filepath.Ext(file) == ".gz",
		})
	}

	return shards, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
