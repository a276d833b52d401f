// Package runner drives one classification end to end: load and classify,
// show the preprocessed plane, report, persist, and optionally correct.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/face-rotation/internal/display"
	"github.com/ironsheep/face-rotation/internal/imaging"
	"github.com/ironsheep/face-rotation/internal/logging"
	"github.com/ironsheep/face-rotation/internal/orient"
	"github.com/ironsheep/face-rotation/internal/store"
)

// Runner holds everything shared by the classifications of one invocation.
// A Runner is safe for concurrent use when its Viewer and Stdout are.
type Runner struct {
	Options orient.Options

	// OutputDir receives JSON results and corrected copies. Empty writes
	// next to each image.
	OutputDir string

	// Viewer shows the preprocessed plane. Nil shows nothing.
	Viewer display.Viewer

	// History records every classification when set.
	History *store.History

	// Fix writes an upright copy of each image.
	Fix bool

	// Stdout receives the human-readable report. Nil means os.Stdout.
	Stdout io.Writer
}

// Run classifies the image at path.
//
// Parameters:
//   - ctx: Checked before any work starts.
//   - path: File path to the image.
//
// Returns:
//   - *orient.Result: The classification. Once a rotation has been computed
//     it is always returned, even if a later step fails.
//   - error: Non-nil if classification or persistence failed.
//
// Display, history, and correction failures are logged and do not fail the run.
//
// # Errors
//
//   - Returns ctx.Err() with a nil result if ctx is already done
//   - Returns load and parameter errors with a nil result
//   - Returns *store.PersistenceError next to the result if the JSON write fails
func (r *Runner) Run(ctx context.Context, path string) (*orient.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, analysis, err := orient.ClassifyFile(path, r.Options)
	if err != nil {
		return nil, err
	}
	logging.Debugf("%s: left-right=%.4f top-bottom=%.4f -> %s",
		path, analysis.Scores.LeftRight, analysis.Scores.TopBottom, analysis.Rotation)

	if r.Viewer != nil {
		if err := r.Viewer.Show(analysis.Plane, path); err != nil {
			logging.Printf("Failed to display %s: %v", path, err)
		}
	}

	out := r.Stdout
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "Image has %d degrees rotation.\n", int(result.RotationDegrees))

	resultPath, err := store.WriteResult(result, r.OutputDir)
	if err != nil {
		return result, err
	}
	fmt.Fprintf(out, "Result saved to %s\n", resultPath)

	if r.History != nil {
		if _, err := r.History.Record(result, r.Options, resultPath); err != nil {
			logging.Printf("Failed to record history for %s: %v", path, err)
		}
	}

	if r.Fix {
		dst := imaging.UprightPath(path, r.OutputDir)
		if err := imaging.SaveUpright(path, dst, int(result.RotationDegrees)); err != nil {
			logging.Printf("Failed to write upright copy of %s: %v", path, err)
		} else {
			fmt.Fprintf(out, "Upright copy saved to %s\n", dst)
		}
	}

	return result, nil
}
