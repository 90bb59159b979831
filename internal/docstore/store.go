// Package docstore is the durable owner of rows and columns. Collections are
// stored nedb-style as one JSON document per line, rewritten atomically on
// every mutation. The store assigns document ids and answers every channel
// intent with exactly one authoritative confirmation event.
package docstore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/avolkov/teesheet/internal/table"
)

const (
	rowsFile    = "rows.db"
	columnsFile = "columns.db"
)

// Store holds the two persisted collections. Serve is the only writer during
// normal operation; the mutex guards test and snapshot access.
type Store struct {
	dir string

	mu      sync.Mutex
	rows    []table.Row
	columns []table.Column
}

// Open loads the collections from dir, creating and seeding them on first
// run: rows from players.csv when present, columns from the default layout.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir}

	if err := readCollection(filepath.Join(dir, rowsFile), &s.rows); err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	if err := readCollection(filepath.Join(dir, columnsFile), &s.columns); err != nil {
		return nil, fmt.Errorf("load columns: %w", err)
	}

	if len(s.rows) == 0 {
		seeded, err := seedRows(filepath.Join(dir, "players.csv"))
		if err != nil {
			return nil, fmt.Errorf("seed rows: %w", err)
		}
		s.rows = seeded
		if len(seeded) > 0 {
			if err := s.persistRows(); err != nil {
				return nil, err
			}
		}
	}
	if len(s.columns) == 0 {
		s.columns = defaultColumns()
		if err := s.persistColumns(); err != nil {
			return nil, err
		}
	}

	slices.SortStableFunc(s.rows, table.CompareRows)
	slices.SortStableFunc(s.columns, table.CompareColumns)
	return s, nil
}

// Rows returns a sorted copy of the row collection.
func (s *Store) Rows() []table.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rows)
}

// Columns returns a sorted copy of the column collection.
func (s *Store) Columns() []table.Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.columns)
}

func (s *Store) persistRows() error {
	return writeCollection(filepath.Join(s.dir, rowsFile), s.rows)
}

func (s *Store) persistColumns() error {
	return writeCollection(filepath.Join(s.dir, columnsFile), s.columns)
}

func readCollection[T any](path string, dest *[]T) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var doc T
		if err := json.Unmarshal(line, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		*dest = append(*dest, doc)
	}
	return scanner.Err()
}

func writeCollection[T any](path string, docs []T) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
		}
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
