package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// Backend stores document binaries and cover images. Keys are relative paths
// like "pdfs/<slug>.pdf".
type Backend interface {
	Save(ctx context.Context, key string, body io.Reader, contentType string) error
	// Open returns the object and its size; size is -1 when unknown.
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
}

// DiskBackend keeps objects under a local root directory. It is the fallback
// when no S3 bucket is configured.
type DiskBackend struct {
	Root string
}

func NewDisk(root string) *DiskBackend {
	return &DiskBackend{Root: root}
}

func (d *DiskBackend) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	path := filepath.Join(d.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, body)
	return err
}

func (d *DiskBackend) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	path := filepath.Join(d.Root, filepath.FromSlash(key))
	f, err := os.Open(path)
	if err != nil {
		return nil, -1, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, -1, err
	}
	return f, info.Size(), nil
}

// LocalPath maps a key to its on-disk location, for callers that need a real
// file (thumbnail generation).
func (d *DiskBackend) LocalPath(key string) string {
	return filepath.Join(d.Root, filepath.FromSlash(key))
}
