// Package batch classifies many images concurrently.
//
// A failure on one image is recorded against that image and never stops the
// rest of the batch. Only cancellation of the context ends a run early.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/face-rotation/internal/imaging"
	"github.com/ironsheep/face-rotation/internal/orient"
)

// uprightSuffix marks corrected copies written by the fix step.
const uprightSuffix = "_upright"

// Func classifies one image.
type Func func(ctx context.Context, path string) (*orient.Result, error)

// KeyFunc maps an input path to the output it writes, such as its result file.
type KeyFunc func(path string) string

// DuplicateOutputError reports an input skipped because an earlier input in
// the same run writes the same output.
type DuplicateOutputError struct {
	Path   string
	Other  string
	Output string
}

func (e *DuplicateOutputError) Error() string {
	return fmt.Sprintf("%s skipped: %s already writes %s", e.Path, e.Other, e.Output)
}

// Item is the outcome for one input path. Result may be set even when Err is
// not nil, for example when the classification succeeded but saving failed.
type Item struct {
	Path   string
	Result *orient.Result
	Err    error
}

// Summary counts outcomes across a run.
type Summary struct {
	Total      int
	Failed     int
	ByRotation map[orient.Rotation]int
}

// ExpandPaths resolves args into a sorted, de-duplicated list of image files.
// Directories are walked recursively; files inside them are kept only when
// their extension is a supported image type and they are not corrected
// copies. Files named explicitly are always kept.
func ExpandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Missing files are reported per image by the classifier.
			add(arg)
			continue
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !imaging.IsImageFile(path) || isUpright(path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func isUpright(path string) bool {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(name, uprightSuffix)
}

// Run applies fn to every path with at most workers calls in flight.
//
// Parameters:
//   - ctx: Cancelling it stops new calls from starting.
//   - paths: Inputs, each passed to fn once.
//   - workers: Maximum concurrent calls. Values below 1 mean 1.
//   - key: Maps a path to the output it writes. May be nil.
//   - fn: The per-path work.
//
// Returns:
//   - []Item: One item per path, in input order.
//   - error: Non-nil only when ctx ends the run.
//
// When key is not nil, a path whose key matches an earlier path's is not
// run and carries a *DuplicateOutputError, so two inputs never write the
// same output concurrently.
//
// # Errors
//
//   - Returns ctx.Err() if ctx ends the run; items that never started carry it
func Run(ctx context.Context, paths []string, workers int, key KeyFunc, fn Func) ([]Item, error) {
	if workers < 1 {
		workers = 1
	}
	items := make([]Item, len(paths))
	owners := make(map[string]string)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		items[i].Path = path
		if key != nil {
			out := filepath.Clean(key(path))
			if other, taken := owners[out]; taken {
				items[i].Err = &DuplicateOutputError{Path: path, Other: other, Output: out}
				continue
			}
			owners[out] = path
		}
		if gctx.Err() != nil {
			items[i].Err = gctx.Err()
			continue
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result, items[i].Err = fn(gctx, path)
			return nil
		})
	}
	g.Wait()

	return items, ctx.Err()
}

// Summarize counts successes by rotation and failures.
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items), ByRotation: make(map[orient.Rotation]int)}
	for _, it := range items {
		if it.Err != nil {
			s.Failed++
		}
		if it.Result != nil {
			s.ByRotation[it.Result.RotationDegrees]++
		}
	}
	return s
}
