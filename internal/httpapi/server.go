// Package httpapi serves the settings page, its form endpoint and the JSON
// options API over chi.
package httpapi

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-settingspage/internal/auth"
	"github.com/goliatone/go-settingspage/internal/metrics"
	"github.com/goliatone/go-settingspage/pkg/page"
)

// maxBodyBytes bounds form and JSON payloads.
const maxBodyBytes = 64 << 10

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits submissions and API calls to n per minute per client
// IP. Zero disables limiting.
func WithRateLimit(n int) Option {
	return func(s *Server) {
		s.rateLimit = n
		s.rateWindow = time.Minute
	}
}

// WithLogger sets the access and error logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records request and submission metrics and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithAssets serves files under /assets/.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// WithSecureCookies marks the CSRF cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// WithSchemaVersion sets the version reported by /api/options/schema.
func WithSchemaVersion(version string) Option {
	return func(s *Server) {
		s.schemaVersion = version
	}
}

// Server wires the page controller into HTTP routes.
type Server struct {
	controller    *page.Controller
	directory     *auth.Directory
	logger        zerolog.Logger
	metrics       *metrics.Metrics
	assets        fs.FS
	rateLimit     int
	rateWindow    time.Duration
	secureCookies bool
	schemaVersion string
}

// New builds a Server. The controller must be built with
// page.WithTokenVerifier(VerifyToken) for form CSRF checks to apply.
func New(controller *page.Controller, directory *auth.Directory, opts ...Option) *Server {
	s := &Server{
		controller: controller,
		directory:  directory,
		logger:     zerolog.Nop(),
		rateWindow: time.Minute,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestID(s.logger))
	r.Use(securityHeaders)
	r.Use(accessLog(s.metrics))
	r.Use(auth.Middleware(s.directory))
	r.Use(csrfCookie(s.secureCookies))

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	if s.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))
	}

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", s.handleIndex)
		r.With(s.limit()...).Post("/options", s.handleSubmit)
		r.Get("/{slug}", s.handlePage)
	})

	r.Route("/api/options", func(r chi.Router) {
		r.Get("/schema", s.handleSchema)
		r.Group(func(r chi.Router) {
			r.Use(s.limit()...)
			r.Get("/", s.handleGetOptions)
			r.Put("/", s.handlePutOptions)
		})
	})

	return r
}

func (s *Server) limit() []func(http.Handler) http.Handler {
	if s.rateLimit <= 0 {
		return nil
	}
	return []func(http.Handler) http.Handler{rateLimit(s.rateLimit, s.rateWindow)}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
