package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files under a base directory.
type Local struct {
	baseDir string
	urlBase string
}

func NewLocal(baseDir, urlBase string) (*Local, error) {
	if baseDir == "" {
		baseDir = "./media"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/")}, nil
}

func (l *Local) path(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.baseDir, filepath.FromSlash(key)), nil
}

func (l *Local) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	absPath, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(absPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return dst.Close()
}

func (l *Local) Get(_ context.Context, key string) (io.ReadCloser, error) {
	absPath, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Delete ignores files that are already gone.
func (l *Local) Delete(_ context.Context, key string) error {
	absPath, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) URL(key string) string {
	return l.urlBase + "/" + key
}
