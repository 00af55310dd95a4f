// Package volume reduces decoded audio to a fixed-stride amplitude
// envelope and derives speech/silence time ranges from it.
package volume

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/birkheadc/transcript-chopper/internal/audio"
)

// DefaultStride is the number of sample frames reduced into one volume
// array entry. It is fixed rather than derived from the file length so
// profiling stays O(n) time and O(output) memory on large files.
const DefaultStride = 4096

// Array is a downsampled amplitude envelope of an audio signal, one
// non-negative scalar per stride window of frames, plus summary stats.
type Array struct {
	Samples         []float64
	Max             float64
	Min             float64
	StrideSize      int
	DurationSeconds float64
}

// Empty reports whether the array carries no usable signal. Callers
// treat an empty array as "unusable source" rather than an error.
func (a *Array) Empty() bool {
	return len(a.Samples) == 0
}

// Profiler decodes audio sources into volume arrays.
type Profiler struct {
	stride int
	logger *slog.Logger
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithStride overrides the window size in frames. Values below 1 are
// ignored.
func WithStride(stride int) ProfilerOption {
	return func(p *Profiler) {
		if stride >= 1 {
			p.stride = stride
		}
	}
}

// WithLogger sets the logger used for profiling diagnostics.
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProfiler creates a Profiler with the default stride.
func NewProfiler(opts ...ProfilerOption) *Profiler {
	p := &Profiler{
		stride: DefaultStride,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stride returns the configured window size in frames.
func (p *Profiler) Stride() int {
	return p.stride
}

// Profile decodes a source and reduces channel 0 to one
// mean-of-absolute-value scalar per stride window. It is a pure
// function of the source bytes: no decoded state is cached between
// calls. A decodable source with zero frames yields an empty array with
// Max = Min = 0 and zero duration, not an error.
func (p *Profiler) Profile(ctx context.Context, src audio.Source) (*Array, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	clip, err := audio.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", src.Name, err)
	}

	frames := clip.Frames()
	arr := &Array{
		StrideSize:      p.stride,
		DurationSeconds: clip.Duration(),
	}
	if frames == 0 {
		return arr, nil
	}

	windows := (frames + p.stride - 1) / p.stride
	arr.Samples = make([]float64, 0, windows)

	for start := 0; start < frames; start += p.stride {
		end := start + p.stride
		if end > frames {
			end = frames
		}

		var sum float64
		for f := start; f < end; f++ {
			v := clip.Data[f*clip.NumChannels]
			if v < 0 {
				v = -v
			}
			sum += float64(v)
		}
		mean := sum / float64(end-start)

		if len(arr.Samples) == 0 {
			arr.Max = mean
			arr.Min = mean
		} else {
			if mean > arr.Max {
				arr.Max = mean
			}
			if mean < arr.Min {
				arr.Min = mean
			}
		}
		arr.Samples = append(arr.Samples, mean)
	}

	p.logger.Debug("profiled audio source",
		slog.String("source", src.Name),
		slog.Int("windows", len(arr.Samples)),
		slog.Int("stride", p.stride),
		slog.Float64("duration_sec", arr.DurationSeconds),
	)

	return arr, nil
}
