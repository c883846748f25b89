package storage

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestNewKey_Layout(t *testing.T) {
	key := NewKey("../Front View.JPG", "image/jpeg", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))

	assert.Regexp(t, regexp.MustCompile(`^inspection_attachments/2024/03/05/[0-9a-f-]{36}_Front_View\.jpg$`), key)
	assert.True(t, validKey(key))
}

func TestNewKey_ExtensionFromMime(t *testing.T) {
	key := NewKey("scan", "application/pdf", time.Now())
	assert.Equal(t, ".pdf", key[len(key)-4:])
}

func TestSniffAndCheck(t *testing.T) {
	mimeType, r, err := Sniff(bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, all)

	assert.NoError(t, Check(int64(len(all)), mimeType))
	assert.ErrorIs(t, Check(0, mimeType), ErrEmptyFile)
	assert.ErrorIs(t, Check(MaxFileSize+1, mimeType), ErrFileTooLarge)
	assert.ErrorIs(t, Check(10, "text/plain"), ErrInvalidMimeType)
}

func TestLocal_PutGetDelete(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/media/")
	require.NoError(t, err)
	ctx := context.Background()
	key := "inspection_attachments/2024/01/01/a.png"

	require.NoError(t, store.Put(ctx, key, bytes.NewReader(pngHeader), int64(len(pngHeader)), "image/png"))
	assert.Equal(t, "/media/"+key, store.URL(key))

	rc, err := store.Get(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, pngHeader, got)

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocal_RejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	err = store.Put(context.Background(), "../escape.txt", bytes.NewReader([]byte("x")), 1, "text/plain")
	assert.Error(t, err)
}
