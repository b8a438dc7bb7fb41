// Package server serves the rendered leaderboard over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-leaderboard/pkg/pipeline"
	"github.com/goliatone/go-leaderboard/pkg/render"
	"github.com/goliatone/go-leaderboard/pkg/renderers/vanilla"
	"github.com/goliatone/go-leaderboard/pkg/source"
)

// StaleHeader is set to "true" on page responses that show the last good
// table because the latest load failed.
const StaleHeader = "X-Leaderboard-Stale"

const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 5 * time.Second
)

// Config holds configuration for the HTTP server.
type Config struct {
	Pipeline *pipeline.Pipeline
	Source   source.Source
	Addr     string
	// Renderer is used for GET / when no ?format= is given.
	Renderer       string
	RenderOptions  render.RenderOptions
	ThemeName      string
	ThemeVariant   string
	AllowedOrigins []string
	Logger         *zap.Logger
	// ShutdownTimeout bounds graceful shutdown. Defaults to 5s.
	ShutdownTimeout time.Duration
}

// Server exposes the leaderboard page, the raw document, and an OpenAPI
// description of both.
type Server struct {
	cfg     Config
	logger  *zap.Logger
	router  chi.Router
	openAPI []byte
}

// New validates cfg and builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Pipeline == nil {
		return nil, errors.New("server: pipeline is required")
	}
	if cfg.Source == nil {
		return nil, errors.New("server: source is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	doc, err := openAPIJSON(context.Background(), cfg.RenderOptions.Title)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, logger: logger, openAPI: doc}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler, useful for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		s.requestLogger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		ExposedHeaders: []string{"Content-Length", "Content-Type", StaleHeader},
	})
	r.Use(c.Handler)

	r.Get("/", s.handlePage)
	name := documentName(s.cfg.Source)
	r.Get("/"+name, s.handleDocument)
	if name != source.DefaultPath {
		r.Get("/"+source.DefaultPath, s.handleDocument)
	}
	r.Get("/openapi.json", s.handleOpenAPI)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))
	return r
}

// Serve starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting leaderboard server",
		zap.String("addr", s.cfg.Addr),
		zap.String("source", s.cfg.Source.Location()),
	)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down leaderboard server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	renderer := strings.TrimSpace(r.URL.Query().Get("format"))
	if renderer == "" {
		renderer = s.cfg.Renderer
	}
	if renderer != "" && !s.cfg.Pipeline.Registry().Has(renderer) {
		http.Error(w, fmt.Sprintf("unknown format %q", renderer), http.StatusBadRequest)
		return
	}

	result, err := s.cfg.Pipeline.Generate(r.Context(), pipeline.Request{
		Source:        s.cfg.Source,
		AllowStale:    true,
		Renderer:      renderer,
		RenderOptions: s.cfg.RenderOptions,
		ThemeName:     s.cfg.ThemeName,
		ThemeVariant:  s.cfg.ThemeVariant,
	})
	if err != nil {
		s.logger.Error("render leaderboard", zap.Error(err))
		http.Error(w, "leaderboard unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	if result.Stale {
		w.Header().Set(StaleHeader, "true")
	}
	_, _ = w.Write(result.Body)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.cfg.Pipeline.Fetch(r.Context(), s.cfg.Source)
	if err != nil {
		s.logger.Error("fetch leaderboard document", zap.Error(err))
		http.Error(w, "leaderboard unavailable", http.StatusBadGateway)
		return
	}

	contentType := "application/json"
	if doc.IsYAML() {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(doc.Raw())
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.openAPI)
}

type health struct {
	Status      string     `json:"status"`
	Loaded      bool       `json:"loaded"`
	Rows        int        `json:"rows"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := s.cfg.Pipeline.Status()
	body := health{Status: "ok", Loaded: status.Loaded, Rows: status.Rows}
	if !status.LastSuccess.IsZero() {
		ts := status.LastSuccess.UTC()
		body.LastSuccess = &ts
	}
	if status.LastError != nil {
		body.Status = "degraded"
		body.LastError = status.LastError.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// documentName returns the file name the server mirrors the document under,
// the last segment of the source location.
func documentName(src source.Source) string {
	loc := src.Location()
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}
	if i := strings.LastIndexAny(loc, `/\`); i >= 0 {
		loc = loc[i+1:]
	}
	if loc == "" {
		return source.DefaultPath
	}
	return loc
}
