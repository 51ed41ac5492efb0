// Package preview serves a gallery of the sprite during development.
//
// Every page load rebuilds the sprite through the supplied BuildFunc, so
// adding an icon to a component and refreshing the browser shows it without
// a separate generate step. With the transform cache enabled a rebuild only
// re-reads the icon files.
//
// Routes:
//
//	GET /              HTML gallery, one tile per symbol
//	GET /icons.svg     the sprite document
//	GET /symbols.json  the symbol ids
package preview

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/iconsprite/pkg/errors"
)

// DefaultAddr is the listen address of the preview server.
const DefaultAddr = "localhost:4000"

// Sprite is a built sprite.
type Sprite struct {
	Data []byte
	IDs  []string
}

// BuildFunc builds the current sprite.
type BuildFunc func(ctx context.Context) (*Sprite, error)

// Server is the preview HTTP server.
type Server struct {
	build  BuildFunc
	logger *log.Logger
	router *chi.Mux
	server *http.Server
}

// NewServer creates a preview server. A nil logger uses log.Default().
func NewServer(build BuildFunc, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		build:  build,
		logger: logger,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.NoCache)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleGallery)
	s.router.Get("/icons.svg", s.handleSprite)
	s.router.Get("/symbols.json", s.handleSymbols)
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
// ready, if non-nil, receives the bound address once listening.
func (s *Server) Serve(ctx context.Context, addr string, ready func(addr string)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr().String())
	}

	errc := make(chan error, 1)
	go func() { errc <- s.server.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// logRequests logs every request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := galleryTemplate.Execute(w, sp.IDs); err != nil {
		s.logger.Error("render gallery", "err", err)
	}
}

func (s *Server) handleSprite(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(sp.Data)
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	ids := sp.IDs
	if ids == nil {
		ids = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ids); err != nil {
		s.logger.Error("json encode", "err", err)
	}
}

// buildOrFail builds the sprite, answering 500 on failure.
func (s *Server) buildOrFail(w http.ResponseWriter, r *http.Request) (*Sprite, bool) {
	sp, err := s.build(r.Context())
	if err != nil {
		s.logger.Error("build failed",
			"path", r.URL.Path,
			"err", err,
			"request_id", middleware.GetReqID(r.Context()))
		http.Error(w, errors.UserMessage(err), http.StatusInternalServerError)
		return nil, false
	}
	return sp, true
}

var galleryTemplate = template.Must(template.New("gallery").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>iconsprite preview</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1f2937; }
h1 { font-size: 1.25rem; }
ul { display: grid; grid-template-columns: repeat(auto-fill, minmax(8rem, 1fr)); gap: 1rem; list-style: none; padding: 0; }
li { display: flex; flex-direction: column; align-items: center; gap: .5rem; padding: 1rem; border: 1px solid #e5e7eb; border-radius: .5rem; }
svg { width: 24px; height: 24px; }
code { font-size: .75rem; word-break: break-all; text-align: center; }
</style>
</head>
<body>
<h1>{{len .}} icons</h1>
<ul>
{{- range .}}
<li><svg aria-hidden="true"><use href="/icons.svg#{{.}}"/></svg><code>{{.}}</code></li>
{{- end}}
</ul>
</body>
</html>
`))
