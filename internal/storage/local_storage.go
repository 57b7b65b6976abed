package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/port"
)

// LocalStorage stores artifacts as `{dir}/{key}` files.
type LocalStorage struct {
	dir string
}

var _ port.ArtifactSink = (*LocalStorage)(nil)

// NewLocalStorage creates dir when missing.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory %q: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save writes to a temporary file first and renames it into place, so readers
// never see a partial artifact.
func (s *LocalStorage) Save(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	dst := filepath.Join(s.dir, key)

	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	logger.Debugf(ctx, "saved artifact %q (%d bytes)", dst, len(data))
	return dst, nil
}

func (s *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return f, nil
}

// checkKey only accepts flat `{name}.{format}` keys.
func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}
