// Package server is a small static file host that runs directory index
// plugins inside its request pipeline.
//
// For every GET/HEAD request the host:
//  1. offers the request to each plugin (serve stage, Status 0)
//  2. rewrites a slash-terminated path to the index document and serves the
//     matching static file, redirecting bare directory paths to their
//     slash-terminated form
//  3. on a miss, sets Status 404 and offers the request to each plugin again
//     (fallback stage) before writing its own 404 page
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/brettbedarf/dirindex"
	"github.com/brettbedarf/dirindex/config"
	"github.com/brettbedarf/dirindex/internal/util"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
)

// Server wraps an http.Server serving files under the configured root
type Server struct {
	cfg      *config.Config
	fs       billy.Filesystem
	root     string // absolute physical root
	plugins  []dirindex.Plugin
	handler  http.Handler
	server   *http.Server
	listener net.Listener
}

// New validates cfg and runs every plugin's startup hook. A nil fsys selects
// the OS filesystem.
func New(cfg *config.Config, fsys billy.Filesystem, plugins ...dirindex.Plugin) (*Server, error) {
	logger := util.GetLogger("server.New")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root %q: %w", cfg.RootDir, err)
	}
	if fsys == nil {
		fsys = osfs.New("/")
	}

	host := dirindex.HostConfig{RootDir: root, IndexDocument: cfg.IndexDocument}
	for _, p := range plugins {
		if err := p.ServerStart(host); err != nil {
			return nil, fmt.Errorf("starting plugin %s: %w", p.Name(), err)
		}
		logger.Debug().Str("plugin", p.Name()).Str("root", root).Msg("Plugin started")
	}

	s := &Server{
		cfg:     cfg,
		fs:      fsys,
		root:    root,
		plugins: plugins,
	}
	s.handler = requestIDMiddleware(loggingMiddleware(s))
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ErrorLog:          util.NewLogLogger("http", util.WarnLevel),
	}
	return s, nil
}

// Handler returns the full handler chain including middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// Plugins trust the path they are given
	if containsDotDot(r.URL.Path) {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	rc := &dirindex.RequestContext{
		URLPath:      r.URL.Path,
		OriginalPath: r.URL.EscapedPath(),
		Path:         r.URL.Path,
	}
	if s.runPlugins(w, r, rc) {
		return
	}

	if strings.HasSuffix(rc.Path, "/") {
		rc.Path += s.cfg.IndexDocument
	}
	if s.serveStatic(w, r, rc) {
		return
	}

	rc.Status = http.StatusNotFound
	if s.runPlugins(w, r, rc) {
		return
	}
	http.NotFound(w, r)
}

// runPlugins offers rc to each plugin in order and reports whether one of
// them produced the response
func (s *Server) runPlugins(w http.ResponseWriter, r *http.Request, rc *dirindex.RequestContext) bool {
	for _, p := range s.plugins {
		resp, err := p.Serve(r.Context(), rc)
		if err != nil {
			writeError(w, r, p.Name(), err)
			return true
		}
		if resp != nil {
			writeResponse(w, r, resp)
			return true
		}
	}
	return false
}

// serveStatic serves the file at rc.Path and reports whether a response was
// written. Missing files leave the response untouched.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request, rc *dirindex.RequestContext) bool {
	physical := filepath.Join(s.root, filepath.FromSlash(rc.Path))
	info, err := s.fs.Stat(physical)
	if isMissing(err) {
		return false
	}
	if err != nil {
		writeError(w, r, "static", err)
		return true
	}

	if info.IsDir() {
		if strings.HasSuffix(rc.URLPath, "/") {
			// the index document itself is a directory
			return false
		}
		target := rc.OriginalPath + "/"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return true
	}

	f, err := s.fs.Open(physical)
	if err != nil {
		writeError(w, r, "static", err)
		return true
	}
	defer f.Close()

	rc.Status = http.StatusOK
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

func writeResponse(w http.ResponseWriter, r *http.Request, resp *dirindex.Response) {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(resp.Body))
	}
}

// writeError renders an opaque error as a plain text body
func writeError(w http.ResponseWriter, r *http.Request, source string, err error) {
	status := http.StatusInternalServerError
	switch {
	case isMissing(err):
		status = http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		status = http.StatusForbidden
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Str("source", source).Int("status", status).Msg("Request failed")
	http.Error(w, err.Error(), status)
}

// isMissing reports whether err means nothing exists at the path, including
// a path that descends through a regular file
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func containsDotDot(p string) bool {
	if !strings.Contains(p, "..") {
		return false
	}
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// Listen binds the configured address. Serve and ServeAsync call it when
// the server is not bound yet.
func (s *Server) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln
	return ln.Addr(), nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Serve() error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}
	logger := util.GetLogger("server.Serve")
	logger.Info().
		Str("addr", s.listener.Addr().String()).
		Str("root", s.root).
		Msg("Serving")

	if err := s.server.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeAsync binds synchronously, then serves in the background. The channel
// yields the result of Serve.
func (s *Server) ServeAsync() <-chan error {
	done := make(chan error, 1)
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			done <- err
			close(done)
			return done
		}
	}

	go func() {
		done <- s.Serve()
		close(done)
	}()

	return done
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
