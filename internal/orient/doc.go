// Package orient estimates the upright orientation of a face photograph.
//
// The estimate is a heuristic over a single grayscale image, not a learned
// model. It relies on two properties of identification-style photos:
//
//   - A frontal face is close to mirror-symmetric about its vertical axis.
//   - The background above the head is brighter than the region below the chin.
//
// # Pipeline
//
// Classification runs four stateless stages in order:
//
//  1. Preprocess: load a single-channel plane and optionally smooth it
//     (see package imaging).
//  2. Split: cut the plane into (left, mirrored right) and
//     (top, mirrored bottom) pairs of equal shape.
//  3. Score: normalized cross-correlation of each pair at zero offset.
//  4. Decide: pick the dominant symmetry axis, then use the brightness of the
//     opposite halves to choose among the two rotations left on that axis.
//
// # Rotation Convention
//
// A Rotation is the number of degrees the image must be turned CLOCKWISE for
// the face to be upright:
//
//	  0  top of the head at the top edge
//	 90  top of the head at the left edge
//	180  top of the head at the bottom edge
//	270  top of the head at the right edge
//
// Equivalently, an upright photo turned counter-clockwise by k degrees is
// classified as k.
//
// # Ties
//
// Equal symmetry scores select the top-bottom branch, and equal means select
// 180 or 270. Outputs are reproducible bit for bit; no "unknown" result exists.
package orient
