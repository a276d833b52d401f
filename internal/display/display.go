// Package display shows preprocessed planes to a person.
//
// Display is optional and never affects classification: callers log a failed
// Show and carry on.
package display

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ironsheep/face-rotation/internal/imaging"
)

// Viewer renders a plane for human inspection.
type Viewer interface {
	Show(p *imaging.Plane, title string) error
}

// Nop is a Viewer that shows nothing.
type Nop struct{}

// Show does nothing.
func (Nop) Show(*imaging.Plane, string) error { return nil }

// SystemViewer writes the plane to a PNG file and hands it to the operating
// system's default image viewer.
type SystemViewer struct {
	// Dir receives the preview files. Empty means os.TempDir().
	Dir string

	// Open launches the viewer for a file. Nil means the platform default
	// (xdg-open, open, or rundll32).
	Open func(path string) error
}

// Show writes p to a temporary PNG named after title and opens it.
// The file is left in place for the viewer to read.
func (v SystemViewer) Show(p *imaging.Plane, title string) error {
	dir := v.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	f, err := os.CreateTemp(dir, "face-rotation-"+sanitize(title)+"-*.png")
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	path := f.Name()
	f.Close()

	if err := imaging.SavePNG(p, path); err != nil {
		os.Remove(path)
		return err
	}

	open := v.Open
	if open == nil {
		open = openWithSystem
	}
	if err := open(path); err != nil {
		return fmt.Errorf("failed to open viewer for %s: %w", path, err)
	}
	return nil
}

func openWithSystem(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return startDetached(cmd)
}

// startDetached starts cmd and releases its process so no wait is owed.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func sanitize(title string) string {
	base := strings.TrimSuffix(filepath.Base(title), filepath.Ext(title))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
}
