package models

import "fmt"

// Frame represents a single grayscale frame of a motion sequence.
// It is used both for raw input frames decoded from a GIF and for the
// quantized correlation frames produced by the correlator.
type Frame struct {
	// Pixels holds the 8-bit intensity samples in row-major order
	Pixels []uint8

	// Width is the number of samples per row
	Width int

	// Height is the number of rows
	Height int
}

// NewFrame allocates a zero-valued frame with the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Pixels: make([]uint8, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the intensity sample at row r, column c.
// Out-of-range coordinates return 0, mirroring how a slice past the
// frame boundary contributes nothing to a windowed sum.
func (f *Frame) At(r, c int) uint8 {
	if r < 0 || r >= f.Height || c < 0 || c >= f.Width {
		return 0
	}
	return f.Pixels[r*f.Width+c]
}

// Set stores an intensity sample at row r, column c.
func (f *Frame) Set(r, c int, v uint8) {
	f.Pixels[r*f.Width+c] = v
}

// SameShape reports whether two frames share dimensions.
func (f *Frame) SameShape(other *Frame) bool {
	return f.Width == other.Width && f.Height == other.Height
}

// String describes the frame dimensions for error messages.
func (f *Frame) String() string {
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}

// PeakLocation identifies the top-left corner of the strongest local
// block found in one correlation frame. It stands in for the apparent
// translational shift of the scene between the two correlated frames.
type PeakLocation struct {
	// Row is the row coordinate of the block corner
	Row int

	// Col is the column coordinate of the block corner
	Col int
}
