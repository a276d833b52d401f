package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/face-rotation/internal/orient"
)

func TestResultPath(t *testing.T) {
	tests := []struct {
		name      string
		image     string
		outputDir string
		want      string
	}{
		{"co-located", "/photos/alice.jpg", "", "/photos/alice.json"},
		{"output dir", "/photos/alice.jpg", "/results", "/results/alice.json"},
		{"double extension", "/photos/bob.face.png", "", "/photos/bob.face.json"},
		{"no extension", "/photos/carol", "/out", "/out/carol.json"},
		{"relative", "img.png", "", "img.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), ResultPath(filepath.FromSlash(tt.image), filepath.FromSlash(tt.outputDir)))
		})
	}
}

func TestWriteResult_CreatesOutputDir(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "not", "yet", "there")
	r := &orient.Result{ImagePath: "/photos/alice.jpg", RotationDegrees: orient.Rotate90}

	path, err := WriteResult(r, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "alice.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "/photos/alice.jpg", raw["image_path"])
	assert.Equal(t, float64(90), raw["rotation_degrees"])
	assert.NotContains(t, raw, "symmetry")
}

func TestWriteResult_CoLocated(t *testing.T) {
	dir := t.TempDir()
	scores := orient.SymmetryScore{LeftRight: 0.9, TopBottom: 0.2}
	r := &orient.Result{
		ImagePath:       filepath.Join(dir, "face.png"),
		RotationDegrees: orient.Upright,
		Symmetry:        &scores,
	}

	path, err := WriteResult(r, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "face.json"), path)

	back, err := ReadResult(path)
	require.NoError(t, err)
	assert.Equal(t, r.ImagePath, back.ImagePath)
	assert.Equal(t, orient.Upright, back.RotationDegrees)
	require.NotNil(t, back.Symmetry)
	assert.InDelta(t, 0.9, back.Symmetry.LeftRight, 1e-12)
}

func TestWriteResult_Unwritable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file-as-directory semantics differ on windows")
	}
	// A regular file where a directory is expected
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	r := &orient.Result{ImagePath: "/photos/alice.jpg", RotationDegrees: orient.Rotate180}
	_, err := WriteResult(r, filepath.Join(blocker, "out"))

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, filepath.Join(blocker, "out", "alice.json"), perr.Path)
}

func TestReadResult_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"image_path":"a.png","rotation_degrees":45}`), 0o644))
	_, err := ReadResult(bad)
	var perr *PersistenceError
	assert.True(t, errors.As(err, &perr))

	_, err = ReadResult(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.As(err, &perr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
