package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/birkheadc/transcript-chopper/internal/audio"
)

// LocalStorage implements the Storage interface on the local disk.
// Temporary files live in tempDir, finished archives in outDir.
type LocalStorage struct {
	tempDir string
	outDir  string
}

// NewLocalStorage creates a LocalStorage instance. Empty directories
// fall back to a chopper subdirectory of os.TempDir() and the current
// working directory respectively. Both directories are created if they
// do not exist.
func NewLocalStorage(tempDir, outDir string) (*LocalStorage, error) {
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "chopper")
	}
	if outDir == "" {
		outDir = "."
	}

	if err := os.MkdirAll(tempDir, 0750); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &LocalStorage{tempDir: tempDir, outDir: outDir}, nil
}

// TempDir returns the temporary directory path.
func (s *LocalStorage) TempDir() string {
	return s.tempDir
}

// OutDir returns the output directory path.
func (s *LocalStorage) OutDir() string {
	return s.outDir
}

// ReadSource loads an audio file into an immutable Source. The MIME
// hint comes from the file extension and is not validated further;
// decode success or failure is the real gate.
func (s *LocalStorage) ReadSource(ctx context.Context, path string) (audio.Source, error) {
	select {
	case <-ctx.Done():
		return audio.Source{}, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return audio.Source{}, fmt.Errorf("read source file: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return audio.Source{
		Name: filepath.Base(path),
		MIME: mimeType,
		Data: data,
	}, nil
}

// SaveTemp saves data to a temporary file and returns the file path.
// The name is used as a base for the filename with a unique suffix.
func (s *LocalStorage) SaveTemp(ctx context.Context, name string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	f, err := os.CreateTemp(s.tempDir, name+"_*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	fileName := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(fileName)
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(fileName)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return fileName, nil
}

// CleanupTemp removes the specified temporary files. It continues
// cleanup even if some files fail to delete, returning the first error
// encountered.
func (s *LocalStorage) CleanupTemp(ctx context.Context, paths []string) error {
	var firstErr error
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove temp file %s: %w", p, err)
			}
		}
	}
	return firstErr
}

// WriteArchive writes the archive bytes into the output directory and
// returns the full path.
func (s *LocalStorage) WriteArchive(ctx context.Context, name string, data []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	path := filepath.Join(s.outDir, name)
	if err := os.WriteFile(path, data, 0640); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return path, nil
}

// Verify interface implementation at compile time.
var _ Storage = (*LocalStorage)(nil)
