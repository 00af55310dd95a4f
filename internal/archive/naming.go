// Package archive assembles paired audio/text units into a single
// downloadable zip with a deterministic internal structure.
package archive

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NamingScheme maps (total count, index) to a filename stem.
type NamingScheme string

const (
	// SchemeNone names units by their bare decimal index.
	SchemeNone NamingScheme = "none"
	// SchemeUUID names units with random UUIDs. The only scheme whose
	// filenames vary between runs; archive contents still do not.
	SchemeUUID NamingScheme = "uuid"
	// SchemeTimestampIndex prefixes the padded index with the unix
	// timestamp captured once per build.
	SchemeTimestampIndex NamingScheme = "timestamp-index"
	// SchemeIndex names units by zero-padded decimal index.
	SchemeIndex NamingScheme = "index"
)

// ParseNamingScheme converts a configuration string to a NamingScheme.
func ParseNamingScheme(s string) (NamingScheme, error) {
	switch NamingScheme(s) {
	case SchemeNone, SchemeUUID, SchemeTimestampIndex, SchemeIndex:
		return NamingScheme(s), nil
	}
	return "", fmt.Errorf("unknown naming scheme %q", s)
}

// stemmer produces filename stems for one build. The timestamp is
// captured once so every stem in an archive shares it.
type stemmer struct {
	scheme NamingScheme
	total  int
	stamp  int64
}

func newStemmer(scheme NamingScheme, total int, now time.Time) *stemmer {
	return &stemmer{
		scheme: scheme,
		total:  total,
		stamp:  now.Unix(),
	}
}

func (s *stemmer) stem(index int) string {
	switch s.scheme {
	case SchemeUUID:
		return uuid.NewString()
	case SchemeTimestampIndex:
		return fmt.Sprintf("%d-%s", s.stamp, paddedIndex(s.total, index))
	case SchemeIndex:
		return paddedIndex(s.total, index)
	default:
		return strconv.Itoa(index)
	}
}

// paddedIndex zero-pads the index to at least two digits, widening with
// the total so stems sort lexically in unit order.
func paddedIndex(total, index int) string {
	width := len(strconv.Itoa(total))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%0*d", width, index)
}
