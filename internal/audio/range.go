package audio

import "fmt"

// TimeRange is a fractional position span along a track, both ends in
// [0,1]. Producers do not guarantee ordering of From and To; consumers
// normalize before use. A degenerate range (From == To) is invalid and
// rejected by every component that receives one.
type TimeRange struct {
	From float64
	To   float64
}

// Normalized returns the range with From <= To.
func (r TimeRange) Normalized() TimeRange {
	if r.From > r.To {
		return TimeRange{From: r.To, To: r.From}
	}
	return r
}

// Degenerate reports whether the range spans no time at all.
func (r TimeRange) Degenerate() bool {
	return r.From == r.To
}

// Validate returns ErrInvalidRange for a degenerate or out-of-bounds
// range.
func (r TimeRange) Validate() error {
	if r.Degenerate() {
		return fmt.Errorf("%w: degenerate range at %v", ErrInvalidRange, r.From)
	}
	n := r.Normalized()
	if n.From < 0 || n.To > 1 {
		return fmt.Errorf("%w: [%v, %v] outside [0, 1]", ErrInvalidRange, n.From, n.To)
	}
	return nil
}
