package service

import (
	"bytes"
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/util"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewTokenBlacklist(nil)

	revoked, err := bl.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "a", time.Hour))
	revoked, _ = bl.IsRevoked(ctx, "a")
	assert.True(t, revoked)

	// 已过期的令牌无需记录
	require.NoError(t, bl.Revoke(ctx, "b", 0))
	revoked, _ = bl.IsRevoked(ctx, "b")
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "c", time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	revoked, _ = bl.IsRevoked(ctx, "c")
	assert.False(t, revoked)
}

func TestNoopListingCache(t *testing.T) {
	ctx := context.Background()
	c := NewListingCache(nil, time.Minute)
	c.Set(ctx, ListingLatest, []string{"x"})

	var out []string
	assert.False(t, c.Get(ctx, ListingLatest, &out))
	c.Invalidate(ctx)
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("document", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["document"][0]
}

func TestStorageSaveDocument(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir, MaxUploadMB: 1}}
	s := NewStorageService(cfg)
	ctx := context.Background()

	url, err := s.SaveDocument(ctx, fileHeader(t, "essay.PDF", []byte("%PDF-1.4\nbody")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/submissions/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	saved, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "/uploads/"))))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4\nbody", string(saved))

	large := bytes.Repeat([]byte("a"), 2<<20)
	_, err = s.SaveDocument(ctx, fileHeader(t, "big.txt", large))
	assert.ErrorIs(t, err, util.ErrFileTooLarge)
}

func TestNormalizePage(t *testing.T) {
	page, per := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, util.DefaultPerPage, per)

	page, per = NormalizePage(3, 1000)
	assert.Equal(t, 3, page)
	assert.Equal(t, util.MaxPerPage, per)
}
