// Package slice extracts sample-accurate sub-clips from an audio
// source and re-encodes each one as a standalone WAV blob.
package slice

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/birkheadc/transcript-chopper/internal/audio"
)

// Slicer cuts audio sources along fractional time ranges.
type Slicer struct {
	logger *slog.Logger
}

// Option configures a Slicer.
type Option func(*Slicer)

// WithLogger sets the logger used for slicing diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Slicer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Slicer.
func New(opts ...Option) *Slicer {
	s := &Slicer{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slice decodes the source once and extracts one WAV blob per range,
// in range order. The whole call fails on the first decode, range or
// encode problem: downstream pairing assumes the output is 1:1 with
// the input ranges, so there are no partial results. Mono and
// multi-channel sources are handled uniformly; each output keeps the
// source's sample rate, channel count and bit depth.
func (s *Slicer) Slice(ctx context.Context, src audio.Source, ranges []audio.TimeRange) ([][]byte, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	clip, err := audio.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("slice %s: %w", src.Name, err)
	}

	blobs := make([][]byte, 0, len(ranges))
	for i, r := range ranges {
		blob, err := s.sliceOne(clip, r)
		if err != nil {
			return nil, fmt.Errorf("slice %s range %d: %w", src.Name, i, err)
		}
		blobs = append(blobs, blob)
	}

	s.logger.Debug("sliced audio source",
		slog.String("source", src.Name),
		slog.Int("clips", len(blobs)),
	)

	return blobs, nil
}

// sliceOne copies the frame span covered by one range and encodes it.
func (s *Slicer) sliceOne(clip *audio.Clip, r audio.TimeRange) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	n := r.Normalized()

	duration := clip.Duration()
	fromFrame := frameAt(n.From, duration, clip.SampleRate)
	toFrame := frameAt(n.To, duration, clip.SampleRate)
	if toFrame > clip.Frames() {
		toFrame = clip.Frames()
	}
	if fromFrame >= toFrame {
		return nil, fmt.Errorf("%w: empty frame span [%d, %d)", audio.ErrInvalidRange, fromFrame, toFrame)
	}

	// Copy the span across all channels, keeping the interleaved
	// layout. The encoder header is derived from the same layout so
	// pitch and playback speed stay correct.
	data := make([]int, (toFrame-fromFrame)*clip.NumChannels)
	copy(data, clip.Data[fromFrame*clip.NumChannels:toFrame*clip.NumChannels])

	sub := &audio.Clip{
		Data:        data,
		SampleRate:  clip.SampleRate,
		NumChannels: clip.NumChannels,
		BitDepth:    clip.BitDepth,
	}
	return audio.EncodeWAV(sub)
}

// frameAt converts a fractional track position to a sample-frame index.
func frameAt(fraction, durationSeconds float64, sampleRate int) int {
	return int(math.Floor(fraction * durationSeconds * float64(sampleRate)))
}
