// Package gifio reads and writes motion sequences as animated GIF
// files. Frames are stored with a 256-level grayscale palette, so a
// written sequence reads back with bit-identical samples.
package gifio

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"

	"camsweep/internal/models"
)

// frameDelay is the per-frame delay written into output GIFs, in
// hundredths of a second.
const frameDelay = 10

// grayPalette maps palette index i to the gray level i, making the
// paletted encoding lossless for 8-bit grayscale frames.
var grayPalette = newGrayPalette()

func newGrayPalette() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}

// ReadSequence decodes an animated GIF into a sequence of grayscale
// frames. Every frame must share the dimensions of the first; color
// frames are converted to 8-bit grayscale. The container itself is
// assumed to be a well-formed GIF.
func ReadSequence(path string) ([]*models.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input sequence: %v", err)
	}
	defer file.Close()

	decoded, err := gif.DecodeAll(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %v", path, err)
	}

	frames := make([]*models.Frame, 0, len(decoded.Image))
	for i, img := range decoded.Image {
		frame := toGray(img)
		if i > 0 && !frame.SameShape(frames[0]) {
			return nil, fmt.Errorf("frame %d is %s, want %s", i, frame, frames[0])
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

// toGray converts one decoded GIF frame to a grayscale frame.
func toGray(img *image.Paletted) *models.Frame {
	bounds := img.Bounds()
	frame := models.NewFrame(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			frame.Set(y-bounds.Min.Y, x-bounds.Min.X, gray.Y)
		}
	}

	return frame
}

// WriteSequence encodes a sequence of grayscale frames as an animated
// GIF at the given path, creating parent directories as needed.
func WriteSequence(path string, frames []*models.Frame) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to write to %s", path)
	}

	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(frames)),
		Delay: make([]int, 0, len(frames)),
	}
	for _, frame := range frames {
		img := image.NewPaletted(image.Rect(0, 0, frame.Width, frame.Height), grayPalette)
		// Palette index i is the gray level i, so the samples copy over
		// directly.
		copy(img.Pix, frame.Pixels)
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, frameDelay)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %v", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output sequence: %v", err)
	}
	defer file.Close()

	if err := gif.EncodeAll(file, anim); err != nil {
		return fmt.Errorf("encoding %s: %v", path, err)
	}
	return nil
}

// Writer persists a correlation sequence to a fixed path. It implements
// the sequence builder's Sink interface.
type Writer struct {
	// Path is the destination GIF file.
	Path string
}

// WriteSequence writes the frames to the writer's path.
func (w *Writer) WriteSequence(frames []*models.Frame) error {
	return WriteSequence(w.Path, frames)
}
