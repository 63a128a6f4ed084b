// Package api exposes the lab over HTTP: catalog and checklist
// lookup, session driving, progress management, the live
// dashboard and its WebSocket stream, and Prometheus metrics.
package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/metrics"
	"github.com/letsconfuse/manualQaLabs/pkg/monitor"
	"github.com/letsconfuse/manualQaLabs/pkg/registry"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
)

// Lab is the runner surface the API drives.
type Lab interface {
	runner.Runner

	// Registry returns the scenario catalog.
	Registry() registry.Registry

	// Session returns a live session.
	Session(sessionID string) (runner.SessionInfo, error)

	// Sessions lists live sessions.
	Sessions() []runner.SessionInfo
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the application logger.
func WithLogger(logger logging.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAccessLog sets where the combined access log is written.
func WithAccessLog(w io.Writer) ServerOption {
	return func(s *Server) { s.accessLog = w }
}

// WithPrometheus serves /metrics from m and counts requests per
// route.
func WithPrometheus(m *metrics.PrometheusMetrics) ServerOption {
	return func(s *Server) { s.prom = m }
}

// WithHub serves the WebSocket live log at /ws.
func WithHub(h *monitor.Hub) ServerOption {
	return func(s *Server) { s.hub = h }
}

// WithDashboard serves the dashboard at /api/v1/dashboard.
func WithDashboard(d *monitor.DashboardData) ServerOption {
	return func(s *Server) { s.dashboard = d }
}

// WithToken requires a bearer token on mutating requests.
func WithToken(token string) ServerOption {
	return func(s *Server) { s.token = token }
}

// WithAllowedOrigins sets the CORS origins. The default allows
// any origin.
func WithAllowedOrigins(origins ...string) ServerOption {
	return func(s *Server) { s.origins = origins }
}

// WithTimeouts sets the HTTP server read and write timeouts.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// Server serves the lab API.
type Server struct {
	lab          Lab
	logger       logging.Logger
	accessLog    io.Writer
	prom         *metrics.PrometheusMetrics
	hub          *monitor.Hub
	dashboard    *monitor.DashboardData
	token        string
	origins      []string
	readTimeout  time.Duration
	writeTimeout time.Duration
	startTime    time.Time
}

// NewServer creates a Server around lab.
func NewServer(lab Lab, opts ...ServerOption) *Server {
	s := &Server{
		lab:          lab,
		logger:       logging.NullLogger{},
		accessLog:    os.Stdout,
		origins:      []string{"*"},
		readTimeout:  15 * time.Second,
		writeTimeout: 15 * time.Second,
		startTime:    time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the route table without the outer middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.authenticate)

	r.Handle("/health", s.route("health", s.health)).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Handle("/scenarios", s.route("scenarios", s.listScenarios)).Methods(http.MethodGet)
	v1.Handle("/scenarios/{id}", s.route("scenario", s.getScenario)).Methods(http.MethodGet)
	v1.Handle("/scenarios/{id}/progress", s.route("progress", s.getProgress)).Methods(http.MethodGet)
	v1.Handle("/scenarios/{id}/progress", s.route("progress", s.resetProgress)).Methods(http.MethodDelete)
	v1.Handle("/scenarios/{id}/sessions", s.route("sessions", s.openSession)).Methods(http.MethodPost)
	v1.Handle("/scenarios/{id}/evaluate", s.route("evaluate", s.evaluate)).Methods(http.MethodPost)
	v1.Handle("/sessions", s.route("sessions", s.listSessions)).Methods(http.MethodGet)
	v1.Handle("/sessions/{sid}", s.route("session", s.getSession)).Methods(http.MethodGet)
	v1.Handle("/sessions/{sid}", s.route("session", s.closeSession)).Methods(http.MethodDelete)
	v1.Handle("/sessions/{sid}/actions", s.route("actions", s.submit)).Methods(http.MethodPost)
	v1.Handle("/summary", s.route("summary", s.summary)).Methods(http.MethodGet)

	if s.dashboard != nil {
		v1.Handle("/dashboard", s.route("dashboard", s.getDashboard)).Methods(http.MethodGet)
	}
	if s.hub != nil {
		r.Handle("/ws", s.hub).Methods(http.MethodGet)
	}
	if s.prom != nil {
		r.Handle("/metrics", s.prom.Handler()).Methods(http.MethodGet)
	}

	for _, router := range []*mux.Router{r, v1} {
		router.NotFoundHandler = http.HandlerFunc(routeNotFound)
		router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}
	return r
}

func routeNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, errors.New("route not found"))
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

// Handler returns the router wrapped in CORS, panic recovery and
// access logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()
	h = handlers.CORS(
		handlers.AllowedOrigins(s.origins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
	)(h)
	if s.accessLog != nil {
		h = handlers.LoggingHandler(s.accessLog, h)
	}
	return h
}

// Serve listens on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("api listening",
		logging.StringField("addr", ln.Addr().String()),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx), 5*time.Second,
	)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("api stopped")
	return nil
}

func (s *Server) route(name string, fn http.HandlerFunc) http.Handler {
	if s.prom == nil {
		return fn
	}
	return s.prom.WrapHandler(name, fn)
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" || !mutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			writeError(w, http.StatusUnauthorized, errors.New("missing or invalid bearer token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

type recoveryLogger struct {
	logger logging.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error("panic recovered",
		logging.StringField("panic", fmt.Sprint(v...)),
	)
}
