// Package storage keeps attachment files on local disk or in a MinIO bucket.
package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxFileSize = 20 * 1024 * 1024 // 20 MB
	KeyPrefix   = "inspection_attachments"
)

var (
	ErrNotFound        = errors.New("stored file not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// AllowedMimeTypes defines which file types are accepted
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// Storage is a flat key/value file store. Keys use forward slashes.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Sniff detects the content type from the first 512 bytes and returns a
// reader that still yields the whole stream.
func Sniff(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", nil, fmt.Errorf("read file head: %w", err)
	}
	mimeType := http.DetectContentType(head)
	mimeType = strings.Split(mimeType, ";")[0]
	return mimeType, br, nil
}

// Check validates size and content type of an upload.
func Check(size int64, mimeType string) error {
	if size == 0 {
		return ErrEmptyFile
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	if !AllowedMimeTypes[mimeType] {
		return ErrInvalidMimeType
	}
	return nil
}

// NewKey builds inspection_attachments/YYYY/MM/DD/<uuid>_<name><ext>.
func NewKey(filename, mimeType string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	name := fmt.Sprintf("%s_%s%s", uuid.New().String(), sanitizeName(filename), ext)
	return path.Join(KeyPrefix, fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day()), name)
}

// ContentTypeOf guesses the type from the key's extension.
func ContentTypeOf(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "_" {
		return "file"
	}
	return name
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}

// validKey rejects keys that could escape the storage root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return false
		}
	}
	return true
}

// Deleter removes stored files.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// DeleteAll removes every key and joins the failures. A nil d removes nothing.
func DeleteAll(ctx context.Context, d Deleter, keys []string) error {
	if d == nil {
		return nil
	}
	var errs []error
	for _, key := range keys {
		if err := d.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
