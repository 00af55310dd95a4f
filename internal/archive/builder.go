package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/birkheadc/transcript-chopper/internal/deck"
)

// Static errors for archive assembly.
var (
	// ErrEmptyInput is returned when a build is requested with zero
	// units. An empty archive is never produced.
	ErrEmptyInput = errors.New("archive: no units to build")
	// ErrInvalidSeparator is returned when a delimited format is
	// requested and the separator is malformed or collides with unit
	// content. This is the one recoverable condition: the caller
	// re-prompts for a different separator and retries the same build.
	ErrInvalidSeparator = errors.New("archive: invalid separator")
)

// Format describes the directory layout of the generated archive.
type Format string

const (
	// FormatFlatSplit puts audio under audio/ and text under text/.
	FormatFlatSplit Format = "flat-split"
	// FormatFlatDump puts every file at the archive root.
	FormatFlatDump Format = "flat-dump"
	// FormatPerUnitFolder gives each unit its own folder holding
	// audio.wav and text.txt.
	FormatPerUnitFolder Format = "per-unit-folder"
	// FormatCardWithSeparator writes one delimited card file plus an
	// audio folder, ready for flashcard import.
	FormatCardWithSeparator Format = "card-with-separator"
)

// ParseFormat converts a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatFlatSplit, FormatFlatDump, FormatPerUnitFolder, FormatCardWithSeparator:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown archive format %q", s)
}

// cardFileName is the delimited card file at the archive root.
const cardFileName = "cards.txt"

// readmeName and readmeBody describe the card file grammar for the
// card-with-separator format. The body is static so archives stay
// byte-identical for identical inputs.
const (
	readmeName = "README.txt"
	readmeBody = `This archive was generated by transcript-chopper.

cards.txt holds one card per line:

    <text><SEP>[sound:<name>.wav]<SEP><extra field>...

where <SEP> is the separator character chosen at export time. The audio
folder holds one wav file per card; copy its contents into your
flashcard application's media folder, then import cards.txt using the
same separator character as the field delimiter.
`
)

// BuildRequest carries everything one archive build needs. Validation
// happens here, at the component boundary, not in the UI.
type BuildRequest struct {
	Units  []deck.Card
	Format Format       `validate:"required,oneof=flat-split flat-dump per-unit-folder card-with-separator"`
	Scheme NamingScheme `validate:"required,oneof=none uuid timestamp-index index"`
	// Separator delimits fields in the card file. Only consulted for
	// FormatCardWithSeparator, where it must be exactly one character
	// and absent from every unit's text and extra fields.
	Separator string
}

// Builder serializes unit lists into zip archives.
type Builder struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithClock overrides the clock consulted by the timestamp-index
// naming scheme.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var validate = validator.New()

// Build serializes the request's units into a zip archive and returns
// the archive bytes. File contents are byte-identical across builds
// with identical inputs; under the uuid scheme only the names vary.
func (b *Builder) Build(ctx context.Context, req BuildRequest) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if len(req.Units) == 0 {
		return nil, ErrEmptyInput
	}
	if req.Format == FormatCardWithSeparator {
		if err := checkSeparator(req.Separator, req.Units); err != nil {
			return nil, err
		}
	}

	stems := newStemmer(req.Scheme, len(req.Units), b.now())
	names := make([]string, len(req.Units))
	for i := range req.Units {
		names[i] = stems.stem(i)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var err error
	switch req.Format {
	case FormatFlatSplit:
		err = writeFlatSplit(zw, req.Units, names)
	case FormatFlatDump:
		err = writeFlatDump(zw, req.Units, names)
	case FormatPerUnitFolder:
		err = writePerUnitFolder(zw, req.Units, names)
	case FormatCardWithSeparator:
		err = writeCardFile(zw, req.Units, names, req.Separator)
	}
	if err != nil {
		return nil, fmt.Errorf("write %s archive: %w", req.Format, err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	b.logger.Debug("built archive",
		slog.String("format", string(req.Format)),
		slog.String("scheme", string(req.Scheme)),
		slog.Int("units", len(req.Units)),
		slog.Int("bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// checkSeparator enforces the delimiter contract: exactly one character
// and no collision with any unit's text or extra fields.
func checkSeparator(sep string, units []deck.Card) error {
	if utf8.RuneCountInString(sep) != 1 {
		return fmt.Errorf("%w: %q is not a single character", ErrInvalidSeparator, sep)
	}
	for i, u := range units {
		if strings.Contains(u.Text, sep) {
			return fmt.Errorf("%w: %q appears in unit %d text", ErrInvalidSeparator, sep, i)
		}
		for _, extra := range u.Extra {
			if strings.Contains(extra, sep) {
				return fmt.Errorf("%w: %q appears in unit %d extra field", ErrInvalidSeparator, sep, i)
			}
		}
	}
	return nil
}

func writeFlatSplit(zw *zip.Writer, units []deck.Card, names []string) error {
	for i, u := range units {
		if err := addFile(zw, "audio/"+names[i]+".wav", u.Audio); err != nil {
			return err
		}
		if err := addFile(zw, "text/"+names[i]+".txt", []byte(u.Text)); err != nil {
			return err
		}
	}
	return nil
}

func writeFlatDump(zw *zip.Writer, units []deck.Card, names []string) error {
	for i, u := range units {
		if err := addFile(zw, names[i]+".wav", u.Audio); err != nil {
			return err
		}
		if err := addFile(zw, names[i]+".txt", []byte(u.Text)); err != nil {
			return err
		}
	}
	return nil
}

func writePerUnitFolder(zw *zip.Writer, units []deck.Card, names []string) error {
	for i, u := range units {
		if err := addFile(zw, names[i]+"/audio.wav", u.Audio); err != nil {
			return err
		}
		if err := addFile(zw, names[i]+"/text.txt", []byte(u.Text)); err != nil {
			return err
		}
	}
	return nil
}

// writeCardFile writes the audio folder, the delimited card file and
// the static README. Each card line is newline-terminated:
// text SEP [sound:<stem>.wav] then one SEP-prefixed extra field each.
// Newlines inside a field would break the one-card-per-line grammar,
// so they are flattened to single spaces.
func writeCardFile(zw *zip.Writer, units []deck.Card, names []string, sep string) error {
	var cards strings.Builder
	for i, u := range units {
		if err := addFile(zw, "audio/"+names[i]+".wav", u.Audio); err != nil {
			return err
		}
		cards.WriteString(flattenField(u.Text))
		cards.WriteString(sep)
		cards.WriteString("[sound:" + names[i] + ".wav]")
		for _, extra := range u.Extra {
			cards.WriteString(sep)
			cards.WriteString(flattenField(extra))
		}
		cards.WriteString("\n")
	}
	if err := addFile(zw, cardFileName, []byte(cards.String())); err != nil {
		return err
	}
	return addFile(zw, readmeName, []byte(readmeBody))
}

func flattenField(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// addFile writes one archive entry with a fixed header so identical
// inputs produce identical archive bytes.
func addFile(zw *zip.Writer, name string, contents []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(contents); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
