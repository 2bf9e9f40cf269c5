// Package correlation computes zero-mean cross-correlation surfaces
// between consecutive frames of a motion sequence. The peak of each
// surface tracks the apparent translational shift of the scene content
// between the two frames.
package correlation

import (
	"errors"
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"camsweep/internal/models"
)

// DefaultMargin is the number of samples trimmed from each edge of the
// current frame to form the correlation template. For 160x160 frames
// this yields a 110x110 template and a 50x50 correlation surface.
const DefaultMargin = 25

// quantMax is the upper bound of the quantized sample range.
const quantMax = 255.0

// ErrShapeMismatch is returned when two frames passed to the correlator
// do not share dimensions.
var ErrShapeMismatch = errors.New("frame dimensions do not match")

// Options configures a Correlator.
type Options struct {
	// Margin is the number of samples trimmed from each edge of the
	// current frame to form the template. The correlation surface is
	// 2*Margin samples on a side. Defaults to DefaultMargin.
	Margin int

	// UseFFT selects the FFT-backed correlation path instead of the
	// direct sliding-window sum. Both paths produce the same surface
	// within floating-point tolerance.
	UseFFT bool

	// NumWorkers bounds how many frame pairs are correlated at once
	// when building a sequence. Defaults to runtime.NumCPU().
	NumWorkers int
}

// Correlator computes quantized cross-correlation frames between pairs
// of equal-sized grayscale frames. It is safe for concurrent use: all
// state is configuration fixed at construction time.
type Correlator struct {
	margin  int
	useFFT  bool
	workers int
}

// New creates a Correlator, filling in defaults for zero-valued options.
func New(opts Options) *Correlator {
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = runtime.NumCPU()
	}
	return &Correlator{
		margin:  opts.Margin,
		useFFT:  opts.UseFFT,
		workers: opts.NumWorkers,
	}
}

// SurfaceSize returns the side length of the correlation surface this
// correlator produces.
func (c *Correlator) SurfaceSize() int {
	return 2 * c.margin
}

// Correlate cross-correlates a fixed central template of the current
// frame against the previous frame and returns the resulting surface
// quantized to 8-bit samples.
//
// The computation follows these steps:
//  1. Scale both frames from [0,255] to [0,1].
//  2. Zero-center both frames against a shared baseline: the midpoint
//     of the two per-frame means, NOT the mean of the pooled samples.
//     Both frames must be compared against the same reference point.
//  3. Trim the margin from every edge of the current frame to form the
//     template.
//  4. For every alignment offset, sum the elementwise product of the
//     template with the same-shaped window of the previous frame
//     (valid-mode correlation: no offset reads outside the frame).
//  5. Rescale the surface so its minimum maps to 0 and its maximum to
//     255, truncating to uint8.
//
// A degenerate surface whose samples are all equal (constant-intensity
// inputs) carries no peak information; it quantizes to an all-zero
// frame rather than dividing by zero. Frames with unequal dimensions
// are rejected with ErrShapeMismatch.
func (c *Correlator) Correlate(previous, current *models.Frame) (*models.Frame, error) {
	if !previous.SameShape(current) {
		return nil, fmt.Errorf("%w: previous %s, current %s", ErrShapeMismatch, previous, current)
	}
	h, w := current.Height, current.Width
	if 2*c.margin >= h || 2*c.margin >= w {
		return nil, fmt.Errorf("margin %d leaves no template in %s frames", c.margin, current)
	}

	prev := normalize(previous)
	curr := normalize(current)

	offset := (stat.Mean(prev.RawMatrix().Data, nil) + stat.Mean(curr.RawMatrix().Data, nil)) / 2
	floats.AddConst(-offset, prev.RawMatrix().Data)
	floats.AddConst(-offset, curr.RawMatrix().Data)

	kernel := curr.Slice(c.margin, h-c.margin, c.margin, w-c.margin).(*mat.Dense)

	var surface *mat.Dense
	if c.useFFT {
		surface = c.fftSurface(prev, kernel)
	} else {
		surface = c.slideSurface(prev, kernel)
	}

	return quantize(surface), nil
}

// slideSurface computes the correlation surface by direct sliding-window
// summation, the defining form of the computation.
func (c *Correlator) slideSurface(prev, kernel *mat.Dense) *mat.Dense {
	kh, kw := kernel.Dims()
	size := c.SurfaceSize()

	surface := mat.NewDense(size, size, nil)
	prod := mat.NewDense(kh, kw, nil)
	for r := 0; r < size; r++ {
		for col := 0; col < size; col++ {
			window := prev.Slice(r, r+kh, col, col+kw)
			prod.MulElem(kernel, window)
			surface.Set(r, col, mat.Sum(prod))
		}
	}
	return surface
}

// normalize converts a uint8 frame into a float64 matrix scaled to [0,1].
func normalize(f *models.Frame) *mat.Dense {
	data := make([]float64, len(f.Pixels))
	for i, p := range f.Pixels {
		data[i] = float64(p) / 255
	}
	return mat.NewDense(f.Height, f.Width, data)
}

// quantize rescales a correlation surface so its minimum maps to 0 and
// its maximum to 255, truncated to uint8. The normalized ratio is
// computed before scaling so the maximum lands on exactly 255.
func quantize(surface *mat.Dense) *models.Frame {
	rows, cols := surface.Dims()
	out := models.NewFrame(cols, rows)

	lo, hi := mat.Min(surface), mat.Max(surface)
	if hi == lo {
		// Degenerate surface: every alignment scores the same, so there
		// is no peak to preserve. Emit an all-zero frame.
		return out
	}

	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			v := (surface.At(r, col) - lo) / (hi - lo) * quantMax
			if v < 0 {
				v = 0
			} else if v > quantMax {
				v = quantMax
			}
			out.Set(r, col, uint8(v))
		}
	}
	return out
}
