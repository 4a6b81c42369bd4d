package storage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorePut(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, "http://files.test/admin/files/")
	require.NoError(t, err)

	obj, err := s.Put(context.Background(), "documents/u1/selfie.png", strings.NewReader("\x89PNG\r\n\x1a\nrest"), 1024)
	require.NoError(t, err)
	assert.Equal(t, "documents/u1/selfie.png", obj.Key)
	assert.Equal(t, "http://files.test/admin/files/documents/u1/selfie.png", obj.URL)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.EqualValues(t, 12, obj.Size)

	data, err := os.ReadFile(filepath.Join(dir, "documents", "u1", "selfie.png"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG\r\n\x1a\nrest", string(data))
}

func TestFileStorePutRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, "")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "big.bin", strings.NewReader(strings.Repeat("x", 2048)), 1024)
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial uploads are removed")
}

func TestFileStoreOpen(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Put(ctx, "documents/u1/id.jpg", strings.NewReader("jpeg"), 1024)
	require.NoError(t, err)

	rc, err := s.Open(ctx, "/documents/u1/id.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	_, err = s.Open(ctx, "documents/u1/missing.jpg")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = s.Open(ctx, "../etc/passwd")
	assert.Error(t, err)
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "a/b.txt", want: "a/b.txt"},
		{key: "/a//b.txt", want: "a/b.txt"},
		{key: `a\b.txt`, want: "a/b.txt"},
		{key: "../etc/passwd", wantErr: true},
		{key: "a/../../x", wantErr: true},
		{key: "..", wantErr: true},
		{key: "  ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := sanitizeKey(tt.key)
		if tt.wantErr {
			assert.Error(t, err, tt.key)
			continue
		}
		require.NoError(t, err, tt.key)
		assert.Equal(t, tt.want, got)
	}
}

func TestDocumentKey(t *testing.T) {
	key := DocumentKey("user_1/../x", "passport", ".JPG")
	assert.True(t, strings.HasPrefix(key, "documents/user_1____x/passport-"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)

	noExt := DocumentKey("u", "selfie", "")
	assert.False(t, strings.Contains(noExt, "."), noExt)
}
