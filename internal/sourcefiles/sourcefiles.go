// Package sourcefiles stages uploaded spreadsheets next to their final
// location and moves them into place with an atomic rename.
package sourcefiles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StagedFile is a fully written temp file waiting to replace FinalPath.
type StagedFile struct {
	TempPath  string
	FinalPath string
	Size      int64
}

// Stage copies r into a temp file in the directory of finalPath. The temp
// file shares the target's filesystem so Commit is a rename.
func Stage(finalPath string, r io.Reader) (*StagedFile, error) {
	finalPath, err := filepath.Abs(finalPath)
	if err != nil {
		return nil, fmt.Errorf("sourcefiles: resolve path: %w", err)
	}
	dir := filepath.Dir(finalPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("sourcefiles: create directory: %w", err)
	}

	tempPath := filepath.Join(dir, "."+filepath.Base(finalPath)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640) //nolint:gosec // path is built from configured data dir
	if err != nil {
		return nil, fmt.Errorf("sourcefiles: create temp file: %w", err)
	}

	n, err := io.Copy(f, r)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("sourcefiles: write temp file: %w", err)
	}

	return &StagedFile{TempPath: tempPath, FinalPath: finalPath, Size: n}, nil
}

// Commit renames the temp file over FinalPath.
func (s *StagedFile) Commit() error {
	if err := os.Rename(s.TempPath, s.FinalPath); err != nil {
		_ = os.Remove(s.TempPath)
		return fmt.Errorf("sourcefiles: rename into place: %w", err)
	}
	return nil
}

// Discard removes the temp file. It is safe to call after Commit.
func (s *StagedFile) Discard() {
	_ = os.Remove(s.TempPath)
}
