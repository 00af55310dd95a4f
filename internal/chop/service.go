// Package chop orchestrates the chopping workflow: profile the source,
// segment it, slice the ranges, pair the clips with transcript stubs
// and serialize the result as a downloadable archive.
package chop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/birkheadc/transcript-chopper/internal/archive"
	"github.com/birkheadc/transcript-chopper/internal/audio"
	"github.com/birkheadc/transcript-chopper/internal/deck"
	"github.com/birkheadc/transcript-chopper/internal/slice"
	"github.com/birkheadc/transcript-chopper/internal/transcript"
	"github.com/birkheadc/transcript-chopper/internal/volume"
)

// Input contains the parameters for one chopping run.
type Input struct {
	// Source is the audio file to chop.
	Source audio.Source
	// Transcript is the UTF-8 transcript text paired with the source.
	Transcript string
	// Ranges, when non-empty, skips automatic segmentation and slices
	// exactly these ranges. This is how caller-edited sections flow
	// back into the pipeline.
	Ranges []audio.TimeRange
	// Segment holds the tunables used when Ranges is empty.
	Segment volume.SegmentOpts
	// Scheme names the generated files.
	Scheme archive.NamingScheme
	// Format lays out the generated archive.
	Format archive.Format
	// Separator delimits fields for the card-with-separator format.
	Separator string
	// ExtraFields declares extra-field names applied to every card.
	ExtraFields []string
}

// Output contains the result of one chopping run.
type Output struct {
	// Archive holds the finished zip bytes.
	Archive []byte
	// Ranges are the sections that were sliced, in slicing order.
	Ranges []audio.TimeRange
	// Clips are the per-range WAV blobs, 1:1 with Ranges.
	Clips [][]byte
	// Cards is how many units the archive contains.
	Cards int
}

// Service wires the core components into one workflow. Every call
// re-decodes the source independently; callers serialize runs against
// the same source and simply ignore the result of a run they no longer
// want.
type Service struct {
	profiler *volume.Profiler
	slicer   *slice.Slicer
	builder  *archive.Builder
	logger   *slog.Logger

	stride int
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger shared by the pipeline stages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStride overrides the profiler window size in frames.
func WithStride(stride int) Option {
	return func(s *Service) {
		if stride >= 1 {
			s.stride = stride
		}
	}
}

// WithClock overrides the clock used by timestamped file naming.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service. Components are assembled after all
// options are applied so they share the configured logger.
func NewService(opts ...Option) *Service {
	s := &Service{
		logger: slog.Default(),
		stride: volume.DefaultStride,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.profiler = volume.NewProfiler(volume.WithStride(s.stride), volume.WithLogger(s.logger))
	s.slicer = slice.New(slice.WithLogger(s.logger))
	s.builder = archive.New(archive.WithLogger(s.logger), archive.WithClock(s.now))
	return s
}

// Chop runs the full workflow for one source and returns the archive
// plus the intermediate products the caller may want to present. Any
// stage error fails the whole run; only a separator collision is worth
// retrying with different input.
func (s *Service) Chop(ctx context.Context, in Input) (*Output, error) {
	ranges := in.Ranges
	if len(ranges) == 0 {
		arr, err := s.profiler.Profile(ctx, in.Source)
		if err != nil {
			return nil, fmt.Errorf("profile: %w", err)
		}
		ranges, err = volume.Segment(arr, in.Segment)
		if err != nil {
			return nil, fmt.Errorf("segment: %w", err)
		}
	}

	clips, err := s.slicer.Slice(ctx, in.Source, ranges)
	if err != nil {
		return nil, fmt.Errorf("slice: %w", err)
	}

	d := s.buildDeck(in, clips)

	blob, err := s.builder.Build(ctx, archive.BuildRequest{
		Units:     d.Cards(),
		Format:    in.Format,
		Scheme:    in.Scheme,
		Separator: in.Separator,
	})
	if err != nil {
		return nil, fmt.Errorf("build archive: %w", err)
	}

	s.logger.Info("chopped source",
		slog.String("source", in.Source.Name),
		slog.Int("sections", len(ranges)),
		slog.Int("cards", d.Len()),
		slog.Int("archive_bytes", len(blob)),
	)

	return &Output{
		Archive: blob,
		Ranges:  ranges,
		Clips:   clips,
		Cards:   d.Len(),
	}, nil
}

// buildDeck pairs clips with transcript stubs positionally. Clips
// beyond the last stub get empty text; stubs beyond the last clip are
// dropped, matching how the pairing screen treats leftovers.
func (s *Service) buildDeck(in Input, clips [][]byte) *deck.Deck {
	stubs := transcript.Stubs(in.Transcript)

	d := deck.New(in.Source)
	for _, name := range in.ExtraFields {
		d.AddField(name)
	}
	for i, clip := range clips {
		text := ""
		if i < len(stubs) {
			text = stubs[i]
		}
		d.AddCard(text, clip)
	}
	return d
}
