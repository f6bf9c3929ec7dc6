// Package snapshot persists the last-known record set. The file backend is
// the canonical tab-delimited flat file; the sqlite backend holds the same
// single record set in a table for deployments that already ship a database.
// Either way exactly one snapshot exists: Save replaces it wholesale.
package snapshot

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kwhalen/internwatch/internal/model"
)

// Ensure FileStore implements model.SnapshotStore.
var _ model.SnapshotStore = (*FileStore)(nil)

// FileStore reads and writes the snapshot as tab-delimited lines, one record
// per line. The storage layer does not distinguish header, listing, and
// status records.
type FileStore struct {
	path string
}

// NewFileStore returns a store over the file at path. The file is not
// created until the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load parses the snapshot file. A missing file returns model.ErrNoSnapshot.
func (s *FileStore) Load(ctx context.Context) ([]model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading snapshot %s: %w", s.path, model.ErrNoSnapshot)
		}
		return nil, fmt.Errorf("loading snapshot %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1 // records vary in width (status record is shorter)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", s.path, err)
	}

	recs := make([]model.Record, len(rows))
	for i, row := range rows {
		recs[i] = model.Record(row)
	}
	return recs, nil
}

// Save overwrites the snapshot file with the given record set.
func (s *FileStore) Save(ctx context.Context, recs []model.Record) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("saving snapshot %s: %w", s.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("saving snapshot %s: %w", s.path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("saving snapshot %s: %w", s.path, err)
	}
	return nil
}
