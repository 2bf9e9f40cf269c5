package correlation

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"camsweep/internal/models"
)

// captureSink records the sequence it is handed.
type captureSink struct {
	frames []*models.Frame
	calls  int
	err    error
}

func (s *captureSink) WriteSequence(frames []*models.Frame) error {
	s.frames = frames
	s.calls++
	return s.err
}

// TestBuildSequenceLengthAndOrder checks that an N-frame input produces
// N-1 correlation frames matching the sequential pairwise computation.
func TestBuildSequenceLengthAndOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	correlator := New(Options{Margin: 4, NumWorkers: 3})

	video := make([]*models.Frame, 5)
	for i := range video {
		video[i] = randomFrame(rng, 16)
	}

	got, err := correlator.BuildSequence(video, nil)
	if err != nil {
		t.Fatalf("BuildSequence failed: %v", err)
	}

	if len(got) != len(video)-1 {
		t.Fatalf("Expected %d correlation frames, got %d", len(video)-1, len(got))
	}

	for i := range got {
		want, err := correlator.Correlate(video[i], video[i+1])
		if err != nil {
			t.Fatalf("Correlate pair %d failed: %v", i, err)
		}
		if !bytes.Equal(got[i].Pixels, want.Pixels) {
			t.Errorf("Correlation frame %d does not match the sequential result", i)
		}
	}
}

// TestBuildSequenceTooFewFrames checks that inputs with no pairs yield
// an empty sequence rather than an error.
func TestBuildSequenceTooFewFrames(t *testing.T) {
	correlator := New(Options{Margin: 4})

	for _, video := range [][]*models.Frame{nil, {constantFrame(16, 0)}} {
		got, err := correlator.BuildSequence(video, nil)
		if err != nil {
			t.Errorf("Expected no error for %d input frames, got %v", len(video), err)
		}
		if len(got) != 0 {
			t.Errorf("Expected an empty sequence for %d input frames, got %d frames", len(video), len(got))
		}
	}
}

// TestBuildSequenceWriteThrough checks that a supplied sink receives
// the finished sequence exactly once and that the same sequence is
// still returned.
func TestBuildSequenceWriteThrough(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	correlator := New(Options{Margin: 4})

	video := []*models.Frame{randomFrame(rng, 16), randomFrame(rng, 16), randomFrame(rng, 16)}
	sink := &captureSink{}

	got, err := correlator.BuildSequence(video, sink)
	if err != nil {
		t.Fatalf("BuildSequence failed: %v", err)
	}

	if sink.calls != 1 {
		t.Errorf("Expected exactly one write-through, got %d", sink.calls)
	}
	if len(sink.frames) != len(got) {
		t.Fatalf("Sink received %d frames, builder returned %d", len(sink.frames), len(got))
	}
	for i := range got {
		if sink.frames[i] != got[i] {
			t.Errorf("Sink frame %d is not the returned frame", i)
		}
	}
}

// TestBuildSequenceSinkError checks that a failing sink surfaces as a
// builder error.
func TestBuildSequenceSinkError(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	correlator := New(Options{Margin: 4})

	video := []*models.Frame{randomFrame(rng, 16), randomFrame(rng, 16)}
	sink := &captureSink{err: errors.New("disk full")}

	if _, err := correlator.BuildSequence(video, sink); err == nil {
		t.Errorf("Expected the sink error to propagate")
	}
}

// TestBuildSequenceFailFast checks that one bad pair aborts the whole
// sequence.
func TestBuildSequenceFailFast(t *testing.T) {
	correlator := New(Options{Margin: 4})

	video := []*models.Frame{
		constantFrame(16, 10),
		constantFrame(16, 20),
		constantFrame(20, 30), // mismatched shape poisons pairs 1 and 2
	}

	got, err := correlator.BuildSequence(video, nil)
	if err == nil {
		t.Fatalf("Expected an error for a sequence with mismatched frame shapes")
	}
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected no partial sequence on failure, got %d frames", len(got))
	}
}
