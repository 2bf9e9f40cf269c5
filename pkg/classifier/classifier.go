// Package classifier decides whether a motion sequence swept the scene
// along a triangular or a square path. It tracks the correlation peak
// across consecutive frame pairs and counts direction reversals: a
// triangular sweep shows exactly two large peak jumps, a square sweep
// does not.
package classifier

import (
	"math"

	"camsweep/internal/models"
	"camsweep/pkg/correlation"
)

// Heuristic constants. These were tuned against clean synthetic sweeps
// and have no principled derivation; keep them configurable.
const (
	// DefaultScanRegion bounds the square region of each correlation
	// frame that is scanned for the peak. Matches the correlation
	// surface size at the default margin.
	DefaultScanRegion = 50

	// DefaultPeakStride is the step between candidate block corners in
	// the coarse peak scan.
	DefaultPeakStride = 4

	// DefaultPeakWindow is the side length of the summed block at each
	// candidate corner.
	DefaultPeakWindow = 2

	// DefaultTurnThreshold is the Euclidean peak-jump distance above
	// which a jump counts as a turn.
	DefaultTurnThreshold = 20.0

	// triangleTurns is the exact turn count that classifies a sequence
	// as a triangular sweep.
	triangleTurns = 2
)

// Options configures a Classifier. Zero values select the defaults.
type Options struct {
	// ScanRegion bounds the square region scanned for the peak.
	ScanRegion int

	// PeakStride is the step between candidate block corners.
	PeakStride int

	// PeakWindow is the side length of the summed block.
	PeakWindow int

	// TurnThreshold is the peak-jump distance that counts as a turn.
	TurnThreshold float64
}

// Classifier classifies the path shape of a motion sequence from the
// correlation frames produced by a Correlator.
type Classifier struct {
	correlator    *correlation.Correlator
	scanRegion    int
	peakStride    int
	peakWindow    int
	turnThreshold float64
}

// New creates a Classifier that uses the given correlator for the
// frame-pair stage, filling in defaults for zero-valued options.
func New(correlator *correlation.Correlator, opts Options) *Classifier {
	if opts.ScanRegion <= 0 {
		opts.ScanRegion = DefaultScanRegion
	}
	if opts.PeakStride <= 0 {
		opts.PeakStride = DefaultPeakStride
	}
	if opts.PeakWindow <= 0 {
		opts.PeakWindow = DefaultPeakWindow
	}
	if opts.TurnThreshold <= 0 {
		opts.TurnThreshold = DefaultTurnThreshold
	}
	return &Classifier{
		correlator:    correlator,
		scanRegion:    opts.ScanRegion,
		peakStride:    opts.PeakStride,
		peakWindow:    opts.PeakWindow,
		turnThreshold: opts.TurnThreshold,
	}
}

// IsTriangular reports whether the sequence swept the scene along a
// triangular path. False covers the square path and, by construction of
// the heuristic, any other shape.
//
// The decision needs at least three correlation frames (so at least
// four input frames) before two turns can ever be observed; shorter
// sequences classify as false without error.
func (cl *Classifier) IsTriangular(video []*models.Frame) (bool, error) {
	correlated, err := cl.correlator.BuildSequence(video, nil)
	if err != nil {
		return false, err
	}

	return cl.countTurns(correlated) == triangleTurns, nil
}

// countTurns tracks the peak location across the correlation sequence
// and counts jumps whose Euclidean distance exceeds the turn threshold.
// The running previous location always advances to the current peak,
// whether or not the jump counted.
func (cl *Classifier) countTurns(correlated []*models.Frame) int {
	turns := 0
	havePrev := false
	var prev models.PeakLocation

	for _, frame := range correlated {
		peak := cl.peakLocation(frame)

		if havePrev {
			dr := float64(peak.Row - prev.Row)
			dc := float64(peak.Col - prev.Col)
			if math.Hypot(dr, dc) > cl.turnThreshold {
				turns++
			}
		}
		prev = peak
		havePrev = true
	}

	return turns
}

// peakLocation scans a coarse grid of candidate block corners over the
// scan region and returns the corner of the block with the greatest
// summed intensity. Only a strictly greater sum replaces the running
// maximum, so ties keep the earliest candidate; the maximum starts at
// zero, so an all-zero frame yields (0, 0).
//
// Candidate corners step by the peak stride over [0, scanRegion] in
// each axis. Block samples past the frame boundary contribute zero
// rather than being read out of range.
func (cl *Classifier) peakLocation(frame *models.Frame) models.PeakLocation {
	maxVal := 0
	maxLoc := models.PeakLocation{}

	for r := 0; r <= cl.scanRegion; r += cl.peakStride {
		for c := 0; c <= cl.scanRegion; c += cl.peakStride {
			val := cl.blockSum(frame, r, c)
			if val > maxVal {
				maxVal = val
				maxLoc = models.PeakLocation{Row: r, Col: c}
			}
		}
	}

	return maxLoc
}

// blockSum sums the peak window anchored at (r, c), clamped to both the
// scan region and the frame bounds.
func (cl *Classifier) blockSum(frame *models.Frame, r, c int) int {
	rowLimit := cl.scanRegion
	if frame.Height < rowLimit {
		rowLimit = frame.Height
	}
	colLimit := cl.scanRegion
	if frame.Width < colLimit {
		colLimit = frame.Width
	}

	sum := 0
	for dr := 0; dr < cl.peakWindow; dr++ {
		for dc := 0; dc < cl.peakWindow; dc++ {
			if r+dr >= rowLimit || c+dc >= colLimit {
				continue
			}
			sum += int(frame.At(r+dr, c+dc))
		}
	}
	return sum
}
