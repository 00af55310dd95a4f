// Package storage provides local workspace storage for the chopper:
// reading input audio into sources, holding emitted clips as temporary
// files and writing the finished archive where the caller can pick it
// up. All processing stays local; nothing is shipped to a remote store.
package storage

import (
	"context"
	"io"

	"github.com/birkheadc/transcript-chopper/internal/audio"
)

// Storage is the workspace port used by the CLI around the core.
type Storage interface {
	// ReadSource loads an audio file into a Source with a MIME hint
	// derived from its extension.
	ReadSource(ctx context.Context, path string) (audio.Source, error)

	// SaveTemp saves data to a temporary file and returns the file
	// path. The name parameter is used as a hint for the filename.
	SaveTemp(ctx context.Context, name string, data io.Reader) (path string, err error)

	// CleanupTemp removes the specified temporary files.
	// It continues cleanup even if some files fail to delete.
	CleanupTemp(ctx context.Context, paths []string) error

	// WriteArchive writes the finished archive bytes into the output
	// directory under the given name and returns the full path.
	WriteArchive(ctx context.Context, name string, data []byte) (path string, err error)
}
