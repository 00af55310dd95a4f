package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birkheadc/transcript-chopper/internal/deck"
)

func testUnits(n int) []deck.Card {
	units := make([]deck.Card, 0, n)
	for i := 0; i < n; i++ {
		units = append(units, deck.Card{
			Text:  "text " + string(rune('a'+i)),
			Audio: []byte{0xFF, byte(i)},
		})
	}
	return units
}

// readZip returns entry name → contents for an archive blob.
func readZip(t *testing.T, blob []byte) map[string][]byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)

	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = data
	}
	return files
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Unix(1700000000, 0)
	}
}

func TestBuild_FlatDumpIndexNames(t *testing.T) {
	ctx := context.Background()

	blob, err := New().Build(ctx, BuildRequest{
		Units:  testUnits(3),
		Format: FormatFlatDump,
		Scheme: SchemeIndex,
	})
	require.NoError(t, err)

	files := readZip(t, blob)
	require.Len(t, files, 6)
	for _, name := range []string{"00.wav", "00.txt", "01.wav", "01.txt", "02.wav", "02.txt"} {
		assert.Contains(t, files, name)
	}
	assert.Equal(t, []byte("text a"), files["00.txt"])
	assert.Equal(t, []byte{0xFF, 1}, files["01.wav"])
}

func TestBuild_FlatSplitLayout(t *testing.T) {
	ctx := context.Background()

	blob, err := New().Build(ctx, BuildRequest{
		Units:  testUnits(2),
		Format: FormatFlatSplit,
		Scheme: SchemeIndex,
	})
	require.NoError(t, err)

	files := readZip(t, blob)
	require.Len(t, files, 4)
	assert.Contains(t, files, "audio/00.wav")
	assert.Contains(t, files, "text/00.txt")
	assert.Contains(t, files, "audio/01.wav")
	assert.Contains(t, files, "text/01.txt")
}

func TestBuild_PerUnitFolderLayout(t *testing.T) {
	ctx := context.Background()

	blob, err := New().Build(ctx, BuildRequest{
		Units:  testUnits(2),
		Format: FormatPerUnitFolder,
		Scheme: SchemeIndex,
	})
	require.NoError(t, err)

	files := readZip(t, blob)
	require.Len(t, files, 4)
	assert.Equal(t, []byte("text a"), files["00/text.txt"])
	assert.Equal(t, []byte{0xFF, 0}, files["00/audio.wav"])
	assert.Contains(t, files, "01/audio.wav")
	assert.Contains(t, files, "01/text.txt")
}

func TestBuild_CardWithSeparator(t *testing.T) {
	ctx := context.Background()

	units := testUnits(2)
	units[0].Extra = []string{"extra one", "more"}
	units[1].Extra = []string{"extra two", ""}

	blob, err := New().Build(ctx, BuildRequest{
		Units:     units,
		Format:    FormatCardWithSeparator,
		Scheme:    SchemeIndex,
		Separator: ";",
	})
	require.NoError(t, err)

	files := readZip(t, blob)
	require.Contains(t, files, "cards.txt")
	require.Contains(t, files, "README.txt")
	require.Contains(t, files, "audio/00.wav")
	require.Contains(t, files, "audio/01.wav")

	want := "text a;[sound:00.wav];extra one;more\n" +
		"text b;[sound:01.wav];extra two;\n"
	assert.Equal(t, want, string(files["cards.txt"]))
	assert.True(t, strings.HasSuffix(string(files["cards.txt"]), "\n"),
		"card file must be newline-terminated")
	assert.NotEmpty(t, files["README.txt"])
}

func TestBuild_CardFileFlattensNewlines(t *testing.T) {
	ctx := context.Background()

	units := testUnits(2)
	units[0].Text = "first line\nsecond line"
	units[0].Extra = []string{"note\r\nwith break"}

	blob, err := New().Build(ctx, BuildRequest{
		Units:     units,
		Format:    FormatCardWithSeparator,
		Scheme:    SchemeIndex,
		Separator: ";",
	})
	require.NoError(t, err)

	files := readZip(t, blob)
	cards := string(files["cards.txt"])
	lines := strings.Split(strings.TrimSuffix(cards, "\n"), "\n")
	require.Len(t, lines, len(units), "one line per card")
	assert.Equal(t, "first line second line;[sound:00.wav];note with break", lines[0])
}

func TestBuild_SeparatorValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("separator inside text stub", func(t *testing.T) {
		units := testUnits(2)
		units[1].Text = "has ; inside"

		_, err := New().Build(ctx, BuildRequest{
			Units:     units,
			Format:    FormatCardWithSeparator,
			Scheme:    SchemeIndex,
			Separator: ";",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSeparator)
	})

	t.Run("separator inside extra field", func(t *testing.T) {
		units := testUnits(1)
		units[0].Extra = []string{"a;b"}

		_, err := New().Build(ctx, BuildRequest{
			Units:     units,
			Format:    FormatCardWithSeparator,
			Scheme:    SchemeIndex,
			Separator: ";",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSeparator)
	})

	t.Run("multi-character separator", func(t *testing.T) {
		_, err := New().Build(ctx, BuildRequest{
			Units:     testUnits(1),
			Format:    FormatCardWithSeparator,
			Scheme:    SchemeIndex,
			Separator: ";;",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSeparator)
	})

	t.Run("empty separator", func(t *testing.T) {
		_, err := New().Build(ctx, BuildRequest{
			Units:     testUnits(1),
			Format:    FormatCardWithSeparator,
			Scheme:    SchemeIndex,
			Separator: "",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSeparator)
	})

	t.Run("multibyte rune separator is one character", func(t *testing.T) {
		_, err := New().Build(ctx, BuildRequest{
			Units:     testUnits(1),
			Format:    FormatCardWithSeparator,
			Scheme:    SchemeIndex,
			Separator: "§",
		})
		require.NoError(t, err)
	})

	t.Run("retry with a new separator succeeds", func(t *testing.T) {
		units := testUnits(1)
		units[0].Text = "a;b"
		req := BuildRequest{
			Units:     units,
			Format:    FormatCardWithSeparator,
			Scheme:    SchemeIndex,
			Separator: ";",
		}

		_, err := New().Build(ctx, req)
		require.ErrorIs(t, err, ErrInvalidSeparator)

		req.Separator = "|"
		_, err = New().Build(ctx, req)
		require.NoError(t, err)
	})
}

func TestBuild_EmptyInput(t *testing.T) {
	ctx := context.Background()

	_, err := New().Build(ctx, BuildRequest{
		Units:  nil,
		Format: FormatFlatDump,
		Scheme: SchemeIndex,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestBuild_RequestValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown format", func(t *testing.T) {
		_, err := New().Build(ctx, BuildRequest{
			Units:  testUnits(1),
			Format: Format("tarball"),
			Scheme: SchemeIndex,
		})
		require.Error(t, err)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		_, err := New().Build(ctx, BuildRequest{
			Units:  testUnits(1),
			Format: FormatFlatDump,
			Scheme: NamingScheme("hash"),
		})
		require.Error(t, err)
	})
}

func TestBuild_Deterministic(t *testing.T) {
	ctx := context.Background()

	for _, scheme := range []NamingScheme{SchemeNone, SchemeIndex, SchemeTimestampIndex} {
		t.Run(string(scheme), func(t *testing.T) {
			b := New(WithClock(fixedClock()))
			req := BuildRequest{
				Units:  testUnits(3),
				Format: FormatFlatSplit,
				Scheme: scheme,
			}

			first, err := b.Build(ctx, req)
			require.NoError(t, err)
			second, err := b.Build(ctx, req)
			require.NoError(t, err)

			assert.Equal(t, first, second, "identical inputs must produce identical archives")
		})
	}
}

func TestBuild_UUIDNamesVaryContentsDoNot(t *testing.T) {
	ctx := context.Background()

	req := BuildRequest{
		Units:  testUnits(2),
		Format: FormatFlatDump,
		Scheme: SchemeUUID,
	}
	first, err := New().Build(ctx, req)
	require.NoError(t, err)
	second, err := New().Build(ctx, req)
	require.NoError(t, err)

	firstFiles := readZip(t, first)
	secondFiles := readZip(t, second)
	require.Len(t, firstFiles, 4)
	require.Len(t, secondFiles, 4)

	names := func(files map[string][]byte, suffix string) []string {
		var out []string
		for name := range files {
			if strings.HasSuffix(name, suffix) {
				out = append(out, name)
			}
		}
		return out
	}
	assert.NotElementsMatch(t, names(firstFiles, ".wav"), names(secondFiles, ".wav"))

	contents := func(files map[string][]byte) [][]byte {
		var out [][]byte
		for _, data := range files {
			out = append(out, data)
		}
		return out
	}
	assert.ElementsMatch(t, contents(firstFiles), contents(secondFiles))
}

func TestStemmer(t *testing.T) {
	now := time.Unix(1700000000, 0)

	t.Run("index pads to at least two digits", func(t *testing.T) {
		s := newStemmer(SchemeIndex, 3, now)
		assert.Equal(t, "00", s.stem(0))
		assert.Equal(t, "02", s.stem(2))
	})

	t.Run("index widens with the total", func(t *testing.T) {
		s := newStemmer(SchemeIndex, 150, now)
		assert.Equal(t, "000", s.stem(0))
		assert.Equal(t, "149", s.stem(149))
	})

	t.Run("none uses the bare index", func(t *testing.T) {
		s := newStemmer(SchemeNone, 12, now)
		assert.Equal(t, "0", s.stem(0))
		assert.Equal(t, "11", s.stem(11))
	})

	t.Run("timestamp-index shares one build timestamp", func(t *testing.T) {
		s := newStemmer(SchemeTimestampIndex, 3, now)
		assert.Equal(t, "1700000000-00", s.stem(0))
		assert.Equal(t, "1700000000-02", s.stem(2))
	})

	t.Run("uuid stems are unique", func(t *testing.T) {
		s := newStemmer(SchemeUUID, 2, now)
		assert.NotEqual(t, s.stem(0), s.stem(1))
	})
}

func TestParseEnums(t *testing.T) {
	_, err := ParseFormat("flat-dump")
	assert.NoError(t, err)
	_, err = ParseFormat("rar")
	assert.Error(t, err)

	_, err = ParseNamingScheme("timestamp-index")
	assert.NoError(t, err)
	_, err = ParseNamingScheme("sha")
	assert.Error(t, err)
}
