package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ironsheep/face-rotation/internal/orient"
)

// Entry is one row of the classification history.
type Entry struct {
	ID              string          `json:"id"`
	ImagePath       string          `json:"image_path"`
	RotationDegrees orient.Rotation `json:"rotation_degrees"`
	LeftRight       float64         `json:"left_right"`
	TopBottom       float64         `json:"top_bottom"`
	Smoothed        bool            `json:"smoothed"`
	Kernel          string          `json:"kernel,omitempty"`
	ResultPath      string          `json:"result_path"`
	ClassifiedAt    time.Time       `json:"classified_at"`
}

// History is a SQLite ledger of classifications. It is safe for concurrent
// use because database/sql serializes access to the connection pool.
type History struct {
	db *sql.DB
}

// OpenHistory opens or creates the ledger at path.
//
// Parameters:
//   - path: SQLite database file. Missing parent directories are created.
//
// Returns:
//   - *History: The open ledger. Callers must Close it.
//   - error: Non-nil if the database cannot be opened or migrated.
//
// # Errors
//
//   - Returns *PersistenceError if the parent directory cannot be created
//   - Returns *PersistenceError if the file is not a SQLite database or the
//     schema cannot be created
func OpenHistory(path string) (*History, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &PersistenceError{Path: path, Err: err}
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &PersistenceError{Path: path, Err: err}
	}
	// SQLite allows a single writer; batch workers queue on this connection.
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS classifications (
		id               TEXT PRIMARY KEY,
		image_path       TEXT NOT NULL,
		rotation_degrees INTEGER NOT NULL,
		left_right       REAL NOT NULL DEFAULT 0,
		top_bottom       REAL NOT NULL DEFAULT 0,
		result_path      TEXT DEFAULT '',
		classified_at    DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_classifications_path ON classifications(image_path);
	CREATE INDEX IF NOT EXISTS idx_classifications_date ON classifications(classified_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &PersistenceError{Path: path, Err: err}
	}

	// Migration: preprocessing settings were added after the first schema.
	for _, col := range []struct{ name, ddl string }{
		{"smoothed", `ALTER TABLE classifications ADD COLUMN smoothed INTEGER NOT NULL DEFAULT 1`},
		{"kernel", `ALTER TABLE classifications ADD COLUMN kernel TEXT DEFAULT ''`},
	} {
		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('classifications') WHERE name = ?`, col.name).Scan(&count); err != nil {
			db.Close()
			return nil, &PersistenceError{Path: path, Err: err}
		}
		if count == 0 {
			if _, err := db.Exec(col.ddl); err != nil {
				db.Close()
				return nil, &PersistenceError{Path: path, Err: err}
			}
		}
	}

	return &History{db: db}, nil
}

// Close releases the database.
func (h *History) Close() error {
	return h.db.Close()
}

// Record appends a classification and returns the stored entry.
func (h *History) Record(r *orient.Result, opts orient.Options, resultPath string) (*Entry, error) {
	e := &Entry{
		ID:              uuid.NewString(),
		ImagePath:       r.ImagePath,
		RotationDegrees: r.RotationDegrees,
		Smoothed:        opts.Smooth,
		ResultPath:      resultPath,
		ClassifiedAt:    time.Now().UTC(),
	}
	if opts.Smooth {
		e.Kernel = opts.Kernel.String()
	}
	if r.Symmetry != nil {
		e.LeftRight = r.Symmetry.LeftRight
		e.TopBottom = r.Symmetry.TopBottom
	}

	_, err := h.db.Exec(
		`INSERT INTO classifications (id, image_path, rotation_degrees, left_right, top_bottom, smoothed, kernel, result_path, classified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ImagePath, int(e.RotationDegrees), e.LeftRight, e.TopBottom, e.Smoothed, e.Kernel, e.ResultPath, e.ClassifiedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record classification: %w", err)
	}
	return e, nil
}

// ErrNoHistory is returned by Latest when an image was never classified.
var ErrNoHistory = errors.New("no classification recorded for image")

// Latest returns the most recent entry for imagePath.
func (h *History) Latest(imagePath string) (*Entry, error) {
	row := h.db.QueryRow(
		`SELECT id, image_path, rotation_degrees, left_right, top_bottom, smoothed, kernel, result_path, classified_at
		 FROM classifications WHERE image_path = ? ORDER BY classified_at DESC, rowid DESC LIMIT 1`,
		imagePath,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoHistory
	}
	return e, err
}

// Since lists entries classified at or after t, oldest first.
func (h *History) Since(t time.Time) ([]Entry, error) {
	rows, err := h.db.Query(
		`SELECT id, image_path, rotation_degrees, left_right, top_bottom, smoothed, kernel, result_path, classified_at
		 FROM classifications WHERE classified_at >= ? ORDER BY classified_at ASC, rowid ASC`,
		t.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Counts returns how many recorded classifications fall on each rotation.
func (h *History) Counts() (map[orient.Rotation]int, error) {
	rows, err := h.db.Query(`SELECT rotation_degrees, COUNT(*) FROM classifications GROUP BY rotation_degrees`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[orient.Rotation]int)
	for rows.Next() {
		var degrees, n int
		if err := rows.Scan(&degrees, &n); err != nil {
			return nil, err
		}
		counts[orient.Rotation(degrees)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var degrees int
	if err := s.Scan(&e.ID, &e.ImagePath, &degrees, &e.LeftRight, &e.TopBottom, &e.Smoothed, &e.Kernel, &e.ResultPath, &e.ClassifiedAt); err != nil {
		return nil, err
	}
	e.RotationDegrees = orient.Rotation(degrees)
	return &e, nil
}
