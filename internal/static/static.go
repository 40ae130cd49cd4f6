// Package static serves files from a content root directory.
//
// Every request opens the root through os.Root, so neither ".." segments nor
// symlinks can reach files outside of it.
package static

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	root  string
	index string
}

func NewHandler(root, index string) *Handler {
	return &Handler{root: root, index: index}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	urlPath := r.URL.Path
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	name := strings.TrimPrefix(path.Clean(urlPath), "/")
	if name == "" {
		name = "."
	}

	root, err := os.OpenRoot(h.root)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer root.Close() //nolint:all

	f, info, err := openFile(root, name)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if info.IsDir() {
		f.Close() //nolint:all
		if !strings.HasSuffix(r.URL.Path, "/") {
			redirectToDir(w, r)
			return
		}
		f, info, err = openFile(root, path.Join(name, h.index))
		if err != nil {
			h.fail(w, r, err)
			return
		}
	}
	defer f.Close() //nolint:all

	if !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	contentType, err := detectContentType(info.Name(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func openFile(root *os.Root, name string) (*os.File, fs.FileInfo, error) {
	f, err := root.Open(filepath.FromSlash(name))
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close() //nolint:all
		return nil, nil, err
	}
	return f, info, nil
}

// detectContentType prefers the extension and falls back to sniffing the
// first bytes. The reader is rewound before returning.
func detectContentType(name string, f io.ReadSeeker) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct, nil
	}

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return detected.String(), nil
}

func redirectToDir(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if isNotFound(err) {
		http.NotFound(w, r)
		return
	}

	log.WithFields(log.Fields{
		"root":    h.root,
		"request": r.URL.Path,
	}).Errorf("failed to serve static file: %v", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
