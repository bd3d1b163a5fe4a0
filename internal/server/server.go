// Package server serves the back-office web client: login, the entity and
// report catalog, metadata-driven CRUD pages and the report viewer. All
// data comes from the external REST API; this process renders it.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/controller"
	"github.com/goliatone/go-backoffice/pkg/openapi"
	"github.com/goliatone/go-backoffice/pkg/render"
	"github.com/goliatone/go-backoffice/pkg/renderers/vanilla"
	"github.com/goliatone/go-backoffice/pkg/session"
	"github.com/goliatone/go-backoffice/pkg/uischema"
)

// Config holds the web server configuration.
type Config struct {
	Host            string
	Port            int
	APIBaseURL      string
	BaseDomain      string
	DevTenant       string
	Locale          string
	CORSOrigins     []string
	RateLimit       int
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with development defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            3000,
		APIBaseURL:      "http://localhost:8080",
		DevTenant:       "dev",
		Locale:          "en",
		CORSOrigins:     []string{"*"},
		RateLimit:       240,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server owns the router, the process-wide session and the renderer.
type Server struct {
	cfg           Config
	logger        *slog.Logger
	router        chi.Router
	session       *session.Store
	schemas       *uischema.Store
	specSource    *openapi.Source
	renderers     *render.Registry
	rendererName  string
	renderer      render.Renderer
	theme         *theme.RendererConfig
	messages      *render.Messages
	invalidations *controller.Invalidations
	httpClient    *http.Client
	httpServer    *http.Server
}

type Option func(*Server)

// WithUISchema wires per-entity and per-report presentation overrides.
func WithUISchema(store *uischema.Store) Option {
	return func(s *Server) {
		s.schemas = store
	}
}

// WithOpenAPISource serves entity metadata from a local OpenAPI document
// instead of the upstream metadata endpoints. Records and mutations still
// go to the live API.
func WithOpenAPISource(source *openapi.Source) Option {
	return func(s *Server) {
		s.specSource = source
	}
}

// WithRenderer registers an additional renderer and makes it the one pages
// are rendered with.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		s.renderers.MustRegister(renderer)
		s.rendererName = renderer.Name()
	}
}

// WithTheme applies a resolved go-theme configuration to every page.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithHTTPClient replaces the HTTP client used for upstream API calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Server) {
		if httpClient != nil {
			s.httpClient = httpClient
		}
	}
}

// New wires the router and returns a server ready to listen.
func New(cfg Config, logger *slog.Logger, options ...Option) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		session:       session.NewStore(),
		renderers:     render.NewRegistry(),
		invalidations: controller.NewInvalidations(),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		messages:      localeMessages(cfg.Locale),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.rendererName == "" {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: build renderer: %w", err)
		}
		s.renderers.MustRegister(renderer)
		s.rendererName = renderer.Name()
	}
	active, err := s.renderers.Get(s.rendererName)
	if err != nil {
		return nil, fmt.Errorf("server: resolve renderer: %w", err)
	}
	s.renderer = active
	if s.theme == nil {
		s.theme = &theme.RendererConfig{
			AssetURL: func(key string) string { return "/assets/" + key },
		}
	}

	s.setupRouter()
	return s, nil
}

func localeMessages(locale string) *render.Messages {
	if locale == "pt-BR" {
		return render.MessagesPTBR()
	}
	return render.DefaultMessages()
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(tenantResolver(s.cfg.BaseDomain, s.cfg.DevTenant))
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))
	if s.cfg.RateLimit > 0 {
		r.Use(rateLimit(s.cfg.RateLimit))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/", s.handleDashboard)
		r.Get("/agent-token", s.handleAgentTokenPage)
		r.Post("/agent-token", s.handleAgentToken)

		r.Route("/crud/{entity}", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Get("/new", s.handleNewForm)
			r.Post("/new", s.handleCreate)
			r.Get("/{id}", s.handleEditForm)
			r.Post("/{id}", s.handleUpdate)
			r.Get("/{id}/detail", s.handleDetail)
			r.Post("/{id}/delete", s.handleDelete)
		})

		r.Route("/reports/{report}", func(r chi.Router) {
			r.Get("/", s.handleReport)
			r.Get("/export", s.handleReportExport)
		})
	})

	s.router = r
}

// api builds an upstream client bound to the request's tenant and the
// process-wide session token.
func (s *Server) api(r *http.Request) *client.Client {
	return client.New(s.cfg.APIBaseURL, tenantFrom(r.Context()),
		client.WithHTTPClient(s.httpClient),
		client.WithTokenProvider(s.session.Token),
	)
}

// role returns the authenticated user's role, empty when anonymous.
func (s *Server) role() string {
	if user, ok := s.session.CurrentUser(); ok {
		return user.Role
	}
	return ""
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// ListenAndServe starts the server and blocks until SIGINT or SIGTERM,
// then drains in-flight requests.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr, "api", s.cfg.APIBaseURL)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Session exposes the process-wide session store.
func (s *Server) Session() *session.Store {
	return s.session
}

// Router returns the underlying router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
