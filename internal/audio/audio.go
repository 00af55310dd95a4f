// Package audio provides decoded-PCM handling for the chopper core:
// audio sources, sample-accurate clips, fractional time ranges and the
// WAV decode/encode boundary shared by the profiler and the slicer.
package audio

import (
	"bytes"
	"errors"
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Static errors for the audio processing taxonomy.
var (
	// ErrDecode is returned when a source cannot be decoded as audio.
	ErrDecode = errors.New("audio: source could not be decoded")
	// ErrEncode is returned when re-encoding a sliced buffer fails.
	ErrEncode = errors.New("audio: buffer could not be encoded")
	// ErrInvalidRange is returned when a degenerate or out-of-bounds
	// time range reaches a component that requires a usable one.
	ErrInvalidRange = errors.New("audio: invalid time range")
)

// Source is an opaque handle to an uploaded audio file. It is owned by
// the caller and never mutated by the core; every operation that needs
// PCM performs its own decode from Data.
type Source struct {
	// Name is the original filename, used only as a hint.
	Name string
	// MIME is the content-type hint from the file picker. It is not
	// validated beyond decode success or failure.
	MIME string
	// Data holds the raw file bytes.
	Data []byte
}

// Clip is a fully decoded PCM buffer. Sample data is interleaved,
// frame-major: Data[frame*NumChannels+ch].
type Clip struct {
	Data        []int
	SampleRate  int
	NumChannels int
	BitDepth    int
}

// Frames returns the number of sample frames in the clip.
func (c *Clip) Frames() int {
	if c.NumChannels == 0 {
		return 0
	}
	return len(c.Data) / c.NumChannels
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.SampleRate)
}

// Channel returns a copy of one channel's samples, deinterleaved.
func (c *Clip) Channel(ch int) []int {
	frames := c.Frames()
	out := make([]int, frames)
	for i := 0; i < frames; i++ {
		out[i] = c.Data[i*c.NumChannels+ch]
	}
	return out
}

// Decode decodes a source into a Clip. It fails with ErrDecode when the
// bytes are not a valid WAV stream or carry no usable format. A valid
// file with zero sample frames decodes to an empty clip rather than an
// error; callers treat empty clips as unusable.
func Decode(src Source) (*Clip, error) {
	d := wav.NewDecoder(bytes.NewReader(src.Data))
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid wav file", ErrDecode, src.Name)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: read pcm: %v", ErrDecode, err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing format information", ErrDecode)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	return &Clip{
		Data:        buf.Data,
		SampleRate:  buf.Format.SampleRate,
		NumChannels: buf.Format.NumChannels,
		BitDepth:    bitDepth,
	}, nil
}

// EncodeWAV encodes a clip as an uncompressed WAV container and returns
// the container bytes. The sample rate and channel count written to the
// header always describe the interleaved layout of Data; feeding an
// interleaved buffer with a mismatched channel count would change pitch
// and playback speed, so the header is derived from the clip itself.
func EncodeWAV(c *Clip) ([]byte, error) {
	if c.NumChannels <= 0 || c.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing format information", ErrEncode)
	}

	var ws writeSeekBuffer
	e := wav.NewEncoder(&ws, c.SampleRate, c.BitDepth, c.NumChannels, 1)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: c.NumChannels,
			SampleRate:  c.SampleRate,
		},
		Data:           c.Data,
		SourceBitDepth: c.BitDepth,
	}
	if err := e.Write(buf); err != nil {
		return nil, fmt.Errorf("%w: write samples: %v", ErrEncode, err)
	}
	if err := e.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalize container: %v", ErrEncode, err)
	}

	return ws.Bytes(), nil
}
