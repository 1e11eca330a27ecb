package archive

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

var errEmptyShard = errors.New("archive: empty shard")

type shardReader struct {
	file *os.File
	r    *bufio.Reader
	gz   *gzip.Reader
}

func openShard(path string) (*shardReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shard: %w", err)
	}

	sr := &shardReader{file: file}
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			// A live writer may not have flushed the gzip header yet.
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, errEmptyShard
			}
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		sr.gz = gz
		sr.r = bufio.NewReader(gz)
	} else {
		sr.r = bufio.NewReader(file)
	}

	return sr, nil
}

func (r *shardReader) readLine() ([]byte, error) {
	return r.r.ReadBytes('\n')
}

func (r *shardReader) close() error {
	if r.gz != nil {
		r.gz.Close()
	}
	return r.file.Close()
}

// Iterator walks every archived entry across all shards in write order.
type Iterator struct {
	shards  []string
	index   int
	current *shardReader
}

// NewIterator creates an iterator over the shards under baseDir.
func NewIterator(baseDir string) (*Iterator, error) {
	shards, err := filepath.Glob(filepath.Join(baseDir, "shard_*.jsonl*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(shards)

	return &Iterator{shards: shards, index: -1}, nil
}

// Next returns the next entry, or io.EOF after the last one. Lines that
// fail to decode (a torn tail from a crashed writer) are skipped.
func (it *Iterator) Next() (*Entry, error) {
	for {
		line, err := it.nextLine()
		if err != nil {
			return nil, err
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		return &e, nil
	}
}

func (it *Iterator) nextLine() ([]byte, error) {
	for {
		if it.current != nil {
			line, err := it.current.readLine()
			if len(line) > 0 && (err == nil || err == io.EOF) {
				if err == io.EOF {
					it.current.close()
					it.current = nil
				}
				return line, nil
			}
			if err != nil && err != io.EOF {
				return nil, err
			}
			it.current.close()
			it.current = nil
		}

		it.index++
		if it.index >= len(it.shards) {
			return nil, io.EOF
		}

		current, err := openShard(it.shards[it.index])
		if err == errEmptyShard {
			continue
		}
		if err != nil {
			return nil, err
		}
		it.current = current
	}
}

// Close releases the currently open shard, if any.
func (it *Iterator) Close() error {
	if it.current != nil {
		err := it.current.close()
		it.current = nil
		return err
	}
	return nil
}
