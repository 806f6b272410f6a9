package solver

import (
	"bufio"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const fileVersion = 1

// DefaultPath returns the table file name used for an n-layer cube.
func DefaultPath(n int) string {
	return fmt.Sprintf("cubeview-%d.tbl", n)
}

type tableFile struct {
	Version int
	Size    int
	Depth   int
	Entries map[string]uint16
}

// Save writes the table to path.
func (t *Table) Save(path string) error {
	if t.entries == nil {
		return ErrNotReady
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create table directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}

	w := bufio.NewWriter(f)
	err = gob.NewEncoder(w).Encode(tableFile{
		Version: fileVersion,
		Size:    t.size,
		Depth:   t.depth,
		Entries: t.entries,
	})
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write table file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move table file into place: %w", err)
	}
	t.log.Info().Str("path", path).Int("states", len(t.entries)).Msg("solver table saved")
	return nil
}

// Load reads a table written by Save. The file must match the solver's
// cube size.
func (t *Table) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open table file: %w", err)
	}
	defer f.Close()

	var tf tableFile
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&tf); err != nil {
		return fmt.Errorf("failed to decode table file %s: %w", path, err)
	}
	if tf.Version != fileVersion {
		return fmt.Errorf("%w: file version %d, want %d", ErrTableMismatch, tf.Version, fileVersion)
	}
	if tf.Size != t.size {
		return fmt.Errorf("%w: file for %d layers, want %d", ErrTableMismatch, tf.Size, t.size)
	}

	t.depth = tf.Depth
	t.entries = tf.Entries
	if t.entries == nil {
		t.entries = map[string]uint16{}
	}
	t.log.Info().Str("path", path).Int("states", len(t.entries)).Int("depth", t.depth).Msg("solver table loaded")
	return nil
}

// InitFrom loads the table at path if the file exists, otherwise builds
// it and saves it there.
func (t *Table) InitFrom(ctx context.Context, path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return t.Load(path)
	case errors.Is(err, fs.ErrNotExist):
		if err := t.Init(ctx); err != nil {
			return err
		}
		return t.Save(path)
	default:
		return fmt.Errorf("failed to check table file: %w", err)
	}
}
