package audio

import (
	"fmt"
	"io"
)

// writeSeekBuffer is an in-memory io.WriteSeeker. The wav encoder
// finalizes RIFF chunk sizes by seeking back into the header, which
// bytes.Buffer cannot do.
type writeSeekBuffer struct {
	buf []byte
	pos int
}

func (w *writeSeekBuffer) Write(p []byte) (int, error) {
	if need := w.pos + len(p); need > len(w.buf) {
		grown := make([]byte, need)
		copy(grown, w.buf)
		w.buf = grown
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)
	return len(p), nil
}

func (w *writeSeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(w.pos) + offset
	case io.SeekEnd:
		next = int64(len(w.buf)) + offset
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("seek: negative position %d", next)
	}
	w.pos = int(next)
	return next, nil
}

// Bytes returns the written contents.
func (w *writeSeekBuffer) Bytes() []byte {
	return w.buf
}
