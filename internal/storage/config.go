package storage

import (
	"fmt"
	"time"
)

// Options tune the SQLite connections. Use DefaultOptions and override
// individual fields rather than building the struct from scratch.
type Options struct {
	Path        string
	ReadConns   int
	BusyTimeout time.Duration
	CacheSizeKB int
}

// DefaultOptions returns the settings every store starts from.
func DefaultOptions() Options {
	return Options{
		ReadConns:   5,
		BusyTimeout: 5 * time.Second,
		CacheSizeKB: 64000,
	}
}

// pragmas returns the PRAGMA statements applied at open. WAL keeps
// readers unblocked while the single write connection holds the lock.
func (o Options) pragmas() []string {
	return []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = memory",
		"PRAGMA mmap_size = 30000000000",
		fmt.Sprintf("PRAGMA busy_timeout = %d", o.BusyTimeout.Milliseconds()),
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA cache_size = -%d", o.CacheSizeKB),
	}
}
