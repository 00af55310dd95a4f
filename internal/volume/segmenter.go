package volume

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/birkheadc/transcript-chopper/internal/audio"
)

// ErrEmptyInput is returned when segmentation is attempted on an empty
// volume array.
var ErrEmptyInput = errors.New("volume: empty volume array")

// Gap bounds in seconds between which the target-length control
// interpolates. A below-threshold run shorter than the chosen gap does
// not split a section.
const (
	minGapSeconds = 0.1
	maxGapSeconds = 1.0
)

// SegmentOpts are the user-facing tunables for automatic segmentation.
type SegmentOpts struct {
	// Sensitivity scales the speech threshold: windows at or above
	// (Max/2)*(Sensitivity/100) count as speech.
	Sensitivity int `validate:"min=1,max=99"`
	// TargetLength interpolates the silence gap that closes a section,
	// from minGapSeconds at 0 to maxGapSeconds at 100.
	TargetLength int `validate:"min=0,max=100"`
}

// DefaultSegmentOpts returns the defaults exposed to the UI sliders.
func DefaultSegmentOpts() SegmentOpts {
	return SegmentOpts{
		Sensitivity:  50,
		TargetLength: 50,
	}
}

var validate = validator.New()

// Segment scans a volume array left to right and returns the time
// ranges that hold meaningful audio, as fractions of the track length.
// Ranges are pairwise non-overlapping, ascending by From, and never
// degenerate. The scan closes a section only when the silence since the
// last loud window reaches the gap, so short dips below the threshold
// do not fragment a section. The output is a pure function of the
// inputs.
func Segment(arr *Array, opts SegmentOpts) ([]audio.TimeRange, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("segment options: %w", err)
	}
	if arr == nil || arr.Empty() || arr.DurationSeconds <= 0 {
		return nil, ErrEmptyInput
	}

	threshold := (arr.Max / 2) * (float64(opts.Sensitivity) / 100)

	gapSec := minGapSeconds + (maxGapSeconds-minGapSeconds)*(float64(opts.TargetLength)/100)
	if gapSec < minGapSeconds {
		gapSec = minGapSeconds
	}
	maxGap := gapSec / arr.DurationSeconds

	denom := float64(len(arr.Samples) - 1)
	if denom < 1 {
		denom = 1
	}

	var ranges []audio.TimeRange
	inSpeech := false
	var open, lastLoud float64

	for i, v := range arr.Samples {
		pos := float64(i) / denom

		if v >= threshold {
			if !inSpeech {
				inSpeech = true
				open = pos
			}
			lastLoud = pos
			continue
		}

		if inSpeech && pos-lastLoud >= maxGap {
			if lastLoud > open {
				ranges = append(ranges, audio.TimeRange{From: open, To: lastLoud})
			}
			inSpeech = false
		}
	}

	// Still inside a section at the end of the scan: close at the end
	// of the track.
	if inSpeech && open < 1 {
		ranges = append(ranges, audio.TimeRange{From: open, To: 1})
	}

	return ranges, nil
}
