package routes

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFilesServer(t *testing.T, root string) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	NewFiles(root).Register(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

// get issues a request without letting the client rewrite the path, so
// escaped traversal sequences reach the router intact.
func get(t *testing.T, rawURL string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestDownloadServesFile(t *testing.T) {
	root := t.TempDir()
	content := "media bytes"
	require.NoError(t, os.WriteFile(filepath.Join(root, "My Clip.mp4"), []byte(content), 0o644))

	ts := newFilesServer(t, root)
	resp := get(t, ts.URL+"/download/My%20Clip.mp4")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf("%d", len(content)), resp.Header.Get("Content-Length"))
	assert.Equal(t,
		`attachment; filename="My Clip.mp4"; filename*=UTF-8''My%20Clip.mp4`,
		resp.Header.Get("Content-Disposition"))
	assert.Equal(t, content, body(t, resp))
}

func TestDownloadUnicodeName(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "héllo.mp3"), []byte("x"), 0o644))

	ts := newFilesServer(t, root)
	resp := get(t, ts.URL+"/download/h%C3%A9llo.mp3")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))

	cd := resp.Header.Get("Content-Disposition")
	assert.Contains(t, cd, `filename="h_llo.mp3"`, "ASCII fallback must replace non-ASCII runes")
	assert.Contains(t, cd, "filename*=UTF-8''h%C3%A9llo.mp3")
}

func TestDownloadMissingFile(t *testing.T) {
	ts := newFilesServer(t, t.TempDir())
	resp := get(t, ts.URL+"/download/nope.mp4")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body(t, resp), "File not found")
}

func TestDownloadTraversalDenied(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "downloads")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o644))

	ts := newFilesServer(t, root)

	tests := []struct {
		name string
		path string
	}{
		{name: "single parent hop", path: "/download/..%2Fsecret.txt"},
		{name: "deep traversal", path: "/download/..%2F..%2F..%2Fetc%2Fpasswd"},
		{name: "dotdot only", path: "/download/.."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, ts.URL+tt.path)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Contains(t, body(t, resp), "Access denied")
		})
	}
}

func TestDownloadDoubleEscapedNameIsJustAFilename(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "downloads")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o644))

	ts := newFilesServer(t, root)

	// Decoded exactly once this is the literal name "..%2Fsecret.txt",
	// which doesn't exist under the root.
	resp := get(t, ts.URL+"/download/..%252Fsecret.txt")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDownloadSymlinkEscapeDenied(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "downloads")
	require.NoError(t, os.Mkdir(root, 0o755))
	outside := filepath.Join(parent, "outside.mp4")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	if err := os.Symlink(outside, filepath.Join(root, "link.mp4")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	ts := newFilesServer(t, root)
	resp := get(t, ts.URL+"/download/link.mp4")

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDownloadDirectoryRejected(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	ts := newFilesServer(t, root)
	resp := get(t, ts.URL+"/download/sub")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIndexListsNewestFirstCapped(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-48 * time.Hour)
	for i := 0; i < maxListed+5; i++ {
		name := filepath.Join(root, fmt.Sprintf("clip%02d.mp4", i))
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
		mtime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(name, mtime, mtime))
	}

	ts := newFilesServer(t, root)
	resp := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	page := body(t, resp)
	assert.Contains(t, page, "clip24.mp4", "newest file must be listed")
	assert.Contains(t, page, "clip05.mp4", "20th newest file must be listed")
	assert.NotContains(t, page, "clip04.mp4", "files beyond the cap must be dropped")

	newest := strings.Index(page, "clip24.mp4")
	older := strings.Index(page, "clip05.mp4")
	assert.Less(t, newest, older, "newest file must come first")
}

func TestIndexEscapesNames(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a<b>&c.mp4"), []byte("x"), 0o644))

	ts := newFilesServer(t, root)
	page := body(t, get(t, ts.URL+"/"))

	assert.Contains(t, page, "a&lt;b&gt;&amp;c.mp4")
	assert.NotContains(t, page, ">a<b>&c.mp4<")
}

func TestIndexShowsSizeInMB(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.mp4"), make([]byte, 1536*1024), 0o644))

	ts := newFilesServer(t, root)
	page := body(t, get(t, ts.URL+"/"))

	assert.Contains(t, page, "(1.5 MB)")
}

func TestHeaderSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain.mp4", want: "plain.mp4"},
		{in: `qu"ote.mp4`, want: "qu_ote.mp4"},
		{in: `back\slash.mp4`, want: "back_slash.mp4"},
		{in: "héllo.mp4", want: "h_llo.mp4"},
		{in: "tab\there.mp4", want: "tab_here.mp4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, headerSafeName(tt.in))
	}
}

func TestMimeFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "clip.mp4", want: "video/mp4"},
		{name: "clip.WEBM", want: "video/webm"},
		{name: "song.mp3", want: "audio/mpeg"},
		{name: "song.flac", want: "audio/flac"},
		{name: "blob.bin", want: "application/octet-stream"},
		{name: "noext", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mimeFor(tt.name))
	}
}
