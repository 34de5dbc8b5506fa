package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apperrors "babylog/internal/errors"
	"babylog/internal/providers"
	"babylog/internal/structures"
)

const apiPrefix = "/api"

// StaticController serves the client bundle. Paths that do not name a file
// get the entry document so the client-side router can take over.
type StaticController struct {
	logger providers.Logger
	root   string
	index  string
}

func NewStaticController(conf *structures.Config, logger providers.Logger) *StaticController {
	root, err := filepath.Abs(conf.Static.Dir)
	if err != nil {
		root = filepath.Clean(conf.Static.Dir)
	}
	return &StaticController{
		logger: logger,
		root:   root,
		index:  conf.Static.Index,
	}
}

func isAPIPath(p string) bool {
	return p == apiPrefix || strings.HasPrefix(p, apiPrefix+"/")
}

// resolve maps a request path onto the asset root. It fails when the result
// would leave the root.
func (sc *StaticController) resolve(urlPath string) (string, bool) {
	target := filepath.Join(sc.root, filepath.FromSlash(urlPath))
	rel, err := filepath.Rel(sc.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

func (sc *StaticController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r.URL.Path) {
		writeError(w, r, sc.logger, apperrors.NotFoundf("no route for %s %s", r.Method, r.URL.Path))
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, r, sc.logger, apperrors.NotFoundf("no route for %s %s", r.Method, r.URL.Path))
		return
	}

	target, ok := sc.resolve(r.URL.Path)
	if !ok {
		writeError(w, r, sc.logger, apperrors.Forbidden("path escapes asset root"))
		return
	}

	if sc.serveFile(w, r, target) {
		return
	}
	if !sc.serveFile(w, r, filepath.Join(sc.root, sc.index)) {
		writeError(w, r, sc.logger, apperrors.NotFound("client bundle not found"))
	}
}

// serveFile writes the regular file at path and reports whether it existed.
func (sc *StaticController) serveFile(w http.ResponseWriter, r *http.Request, path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}
