// Package server implements the slotcraft HTTP API.
//
// All API routes live under /api/v1 and exchange JSON. Errors use a single
// shape:
//
//	{"error": "template \"x\" not found", "code": "TEMPLATE_NOT_FOUND"}
//
// Design routes are scoped to the owner named in the configured owner
// header (X-Slotcraft-Owner by default). Authentication is expected to
// happen in a proxy in front of the server.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/slotcraft/internal/config"
	"github.com/matzehuels/slotcraft/pkg/design"
	"github.com/matzehuels/slotcraft/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Options configures a Server.
type Options struct {
	Runner *pipeline.Runner
	Store  design.Store
	Logger *log.Logger
	Config config.ServerConfig

	// Metrics serves /metrics. Nil means promhttp.Handler().
	Metrics http.Handler
}

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   design.Store
	logger  *log.Logger
	cfg     config.ServerConfig
	metrics http.Handler
	router  chi.Router
}

// New builds the server and its routes.
func New(opts Options) *Server {
	s := &Server{
		runner:  opts.Runner,
		store:   opts.Store,
		logger:  opts.Logger,
		cfg:     opts.Config,
		metrics: opts.Metrics,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.metrics == nil {
		s.metrics = promhttp.Handler()
	}
	if s.cfg.OwnerHeader == "" {
		s.cfg.OwnerHeader = config.Default().Server.OwnerHeader
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "X-Request-Id", s.cfg.OwnerHeader},
		ExposedHeaders: []string{"X-Cache"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(limitBody)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Route("/{templateID}", func(r chi.Router) {
				r.Get("/", s.handleGetTemplate)
				r.Get("/validation", s.handleValidateTemplate)
				r.Post("/match", s.handleMatch)
				r.Post("/assign", s.handleAssign)
			})
		})

		r.Post("/arrange", s.handleArrange)
		r.Post("/arrange/batch", s.handleArrangeBatch)
		r.Post("/suggest", s.handleSuggest)
		r.Post("/status", s.handleStatus)

		r.Route("/convert", func(r chi.Router) {
			r.Post("/elements", s.handleToElements)
			r.Post("/placements", s.handleToPlacements)
		})

		r.Route("/designs", func(r chi.Router) {
			r.Use(s.requireOwner)
			r.Get("/", s.handleListDesigns)
			r.Post("/", s.handleCreateDesign)
			r.Route("/{designID}", func(r chi.Router) {
				r.Get("/", s.handleGetDesign)
				r.Put("/", s.handleUpdateDesign)
				r.Delete("/", s.handleDeleteDesign)
				r.Put("/elements", s.handleSaveElements)
				r.Get("/revalidate", s.handleRevalidate)
			})
		})
	})
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := time.Duration(s.cfg.ShutdownTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
