package routes

import (
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/coah80/hoist/internal/config"
	"github.com/coah80/hoist/internal/util"
)

const maxListed = 20

// Files serves the artifact directory: a recency-sorted listing page and
// attachment downloads. The directory is the only trust boundary; nothing
// outside it is ever readable through this handler.
type Files struct {
	root string
	log  zerolog.Logger
}

func NewFiles(root string) *Files {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return &Files{root: root, log: util.GetLogger("files")}
}

func (f *Files) Register(r chi.Router) {
	r.Get("/", f.handleIndex)
	r.Get("/download/{filename}", f.handleDownload)
}

func (f *Files) handleIndex(w http.ResponseWriter, r *http.Request) {
	type listed struct {
		name  string
		size  int64
		mtime int64
	}

	entries, err := os.ReadDir(f.root)
	if err != nil {
		f.log.Error().Err(err).Msg("reading download dir")
		http.Error(w, "Internal server error", 500)
		return
	}

	var files []listed
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, listed{name: e.Name(), size: info.Size(), mtime: info.ModTime().UnixNano()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mtime > files[j].mtime })
	if len(files) > maxListed {
		files = files[:maxListed]
	}

	var b strings.Builder
	b.WriteString("<html><head><title>Downloads</title></head><body><h1>Downloads</h1><ul>")
	for _, file := range files {
		sizeMB := float64(file.size) / 1024 / 1024
		fmt.Fprintf(&b, `<li><a href="/download/%s">%s</a> (%.1f MB)</li>`,
			url.PathEscape(file.name), html.EscapeString(file.name), sizeMB)
	}
	b.WriteString("</ul></body></html>")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(b.String()))
}

func (f *Files) handleDownload(w http.ResponseWriter, r *http.Request) {
	path, info, err := resolveUnderRoot(f.root, chi.URLParam(r, "filename"))
	if err != nil {
		if errors.Is(err, util.ErrAccessDenied) {
			http.Error(w, "Access denied", 403)
			return
		}
		http.Error(w, "File not found", 404)
		return
	}

	file, err := os.Open(path)
	if err != nil {
		http.Error(w, "File not found", 404)
		return
	}
	defer file.Close()

	name := info.Name()
	w.Header().Set("Content-Type", mimeFor(name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
			headerSafeName(name), url.PathEscape(name)))

	if _, err := io.Copy(w, file); err != nil {
		f.log.Debug().Err(err).Str("file", name).Msg("stream aborted")
	}
}

// resolveUnderRoot turns a raw request segment into a vetted path inside
// root. Containment is decided before any existence probing so the response
// never reveals whether an out-of-root path exists: escapes are
// ErrAccessDenied, everything else that fails is ErrNotFound.
func resolveUnderRoot(root, rawName string) (string, os.FileInfo, error) {
	name, err := url.PathUnescape(rawName)
	if err != nil || name == "" {
		return "", nil, util.ErrNotFound
	}

	abs := filepath.Join(root, name)
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", nil, util.ErrAccessDenied
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", nil, util.ErrNotFound
	}
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", nil, util.ErrNotFound
	}
	if resolved != resolvedRoot && !strings.HasPrefix(resolved, resolvedRoot+string(filepath.Separator)) {
		return "", nil, util.ErrAccessDenied
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return "", nil, util.ErrNotFound
	}
	return resolved, info, nil
}

func mimeFor(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if mime, ok := config.ContainerMIMEs[ext]; ok {
		return mime
	}
	if mime, ok := config.AudioMIMEs[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// headerSafeName is the ASCII fallback for Content-Disposition. Besides
// non-ASCII runes it replaces the two characters that would break out of
// the quoted-string form.
func headerSafeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x20 || r > 0x7E || r == '"' || r == '\\' {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
