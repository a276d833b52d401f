// Package store persists classification results.
//
// Every classified image gets a JSON record written next to it (or into a
// configured output directory). An optional SQLite ledger keeps the history
// of all classifications across runs.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/face-rotation/internal/orient"
)

// PersistenceError reports that a result could not be written or read back.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist result to %q: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ResultPath returns where the record for imagePath is written: the image's
// base name with a .json extension, inside outputDir when given and next to
// the image otherwise.
func ResultPath(imagePath, outputDir string) string {
	base := filepath.Base(imagePath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
	if outputDir == "" {
		outputDir = filepath.Dir(imagePath)
	}
	return filepath.Join(outputDir, name)
}

// WriteResult writes r as indented JSON to ResultPath(r.ImagePath, outputDir),
// creating missing directories.
//
// Parameters:
//   - r: The classification to persist.
//   - outputDir: Destination directory. Empty means the image's own directory.
//
// Returns:
//   - string: The path written.
//   - error: Non-nil if nothing was written.
//
// # Errors
//
//   - Returns *PersistenceError if the directory cannot be created or the
//     file cannot be written
func WriteResult(r *orient.Result, outputDir string) (string, error) {
	path := ResultPath(r.ImagePath, outputDir)

	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", &PersistenceError{Path: path, Err: err}
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &PersistenceError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &PersistenceError{Path: path, Err: err}
	}
	return path, nil
}

// ReadResult loads a record previously written by WriteResult.
func ReadResult(path string) (*orient.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PersistenceError{Path: path, Err: err}
	}
	var r orient.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &PersistenceError{Path: path, Err: err}
	}
	if !r.RotationDegrees.Valid() {
		return nil, &PersistenceError{Path: path, Err: fmt.Errorf("invalid rotation %d", r.RotationDegrees)}
	}
	return &r, nil
}
