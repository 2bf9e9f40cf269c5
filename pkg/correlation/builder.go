package correlation

import (
	"fmt"

	"camsweep/internal/models"
)

// Sink receives a finished correlation sequence for persistence. The
// GIF output collaborator implements this; a nil Sink skips the
// write-through entirely.
type Sink interface {
	WriteSequence(frames []*models.Frame) error
}

// BuildSequence correlates every consecutive pair of the input
// sequence: element i of the result is the correlation of frame i with
// frame i+1, so the result is one frame shorter than the input. Input
// order is preserved.
//
// Pairs are independent of one another and are computed concurrently,
// bounded by the correlator's worker limit. Failures are fail-fast: the
// first pair error aborts the whole sequence rather than leaving a hole
// in it.
//
// Fewer than two input frames means there are no pairs to correlate;
// the result is an empty sequence, not an error.
//
// When sink is non-nil the finished sequence is handed to it before
// being returned; the returned sequence is the same either way.
func (c *Correlator) BuildSequence(video []*models.Frame, sink Sink) ([]*models.Frame, error) {
	if len(video) < 2 {
		return []*models.Frame{}, nil
	}

	numPairs := len(video) - 1
	output := make([]*models.Frame, numPairs)

	type pairResult struct {
		index int
		frame *models.Frame
		err   error
	}
	results := make(chan pairResult, numPairs)
	workers := make(chan struct{}, c.workers)

	for i := 0; i < numPairs; i++ {
		go func(idx int) {
			workers <- struct{}{}
			defer func() { <-workers }()

			frame, err := c.Correlate(video[idx], video[idx+1])
			results <- pairResult{index: idx, frame: frame, err: err}
		}(i)
	}

	// Drain every pair before reporting failure so no goroutine is left
	// blocked on the results channel.
	var firstErr error
	for i := 0; i < numPairs; i++ {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("correlating pair %d failed: %w", res.index, res.err)
			}
			continue
		}
		output[res.index] = res.frame
	}
	if firstErr != nil {
		return nil, firstErr
	}

	if sink != nil {
		if err := sink.WriteSequence(output); err != nil {
			return nil, fmt.Errorf("writing correlation sequence: %v", err)
		}
	}

	return output, nil
}
