package http

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quantonganh/httperror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/quantonganh/prefcenter"
)

const (
	shutdownTimeout = 1 * time.Second
)

// Server represents HTTP server
type Server struct {
	ln     net.Listener
	server *http.Server
	router *mux.Router

	Addr   string
	Domain string

	// SignupURL is offered to users whose email the backend does not know.
	SignupURL string
	// DefaultLocale is used when a request does not name one.
	DefaultLocale string

	SubscriberService prefcenter.SubscriberService
	CatalogService    prefcenter.CatalogService

	// Translate resolves a message key for a locale. Injected so the
	// handlers never reach into a translation framework themselves.
	Translate func(locale, key string) string

	metrics   *Metrics
	templates *template.Template
}

// NewServer create new HTTP server
func NewServer() (*Server, error) {
	registry := prometheus.NewRegistry()

	s := &Server{
		server:        &http.Server{},
		router:        mux.NewRouter().StrictSlash(true),
		DefaultLocale: "en-US",
		metrics:       newMetrics(registry),
	}

	if err := s.parseTemplates(); err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	zlog := zerolog.New(os.Stdout).With().
		Timestamp().
		Logger()
	s.router.Use(hlog.NewHandler(zlog))
	s.router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("")
	}))
	s.router.Use(hlog.UserAgentHandler("user_agent"))
	s.router.Use(hlog.RefererHandler("referer"))
	s.router.Use(httperror.RequestIDHandler("req_id"))

	sentryHandler := sentryhttp.New(sentryhttp.Options{})
	s.router.Use(sentryHandler.Handle)

	s.server.Handler = http.HandlerFunc(s.serveHTTP)

	s.router.HandleFunc("/health", s.healthCheckHandler)
	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	nl := s.router.PathPrefix("/newsletter").Subrouter()
	nl.HandleFunc("/confirm/{token}", s.Error(s.confirmHandler)).Methods(http.MethodGet)
	nl.HandleFunc("/existing", s.Error(s.noTokenHandler)).Methods(http.MethodGet)
	nl.HandleFunc("/existing/{token}", s.Error(s.existingHandler)).Methods(http.MethodGet, http.MethodPost)
	nl.HandleFunc("/updated", s.Error(s.updatedHandler)).Methods(http.MethodGet, http.MethodPost)
	nl.HandleFunc("/signup", s.Error(s.signupHandler)).Methods(http.MethodGet, http.MethodPost)
	nl.HandleFunc("/recovery", s.Error(s.recoveryHandler)).Methods(http.MethodGet, http.MethodPost)

	return s, nil
}

// Scheme returns scheme
func (s *Server) Scheme() string {
	if s.UseTLS() {
		return "https"
	}
	return "http"
}

// UseTLS checks if server use TLS or not
func (s *Server) UseTLS() bool {
	return s.Domain != ""
}

// Port returns server port
func (s *Server) Port() int {
	if s.ln == nil {
		return 0
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

// URL returns server URL
func (s *Server) URL() string {
	scheme, port := s.Scheme(), s.Port()

	domain := "localhost"
	if s.Domain != "" {
		domain = s.Domain
	}

	if port == 80 || port == 443 || flag.Lookup("test.v") != nil {
		return fmt.Sprintf("%s://%s", scheme, domain)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, domain, s.Port())
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// noTokenHandler covers management links with the token missing entirely.
func (s *Server) noTokenHandler(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, "/newsletter/recovery?expired=1", http.StatusFound)
	return nil
}

// Open opens a connection to HTTP server
func (s *Server) Open() (err error) {
	s.ln, err = net.Listen("tcp", s.Addr)
	if err != nil {
		return errors.Errorf("failed to listen to port %s: %v", s.Addr, err)
	}

	go func() {
		_ = s.server.Serve(s.ln)
	}()

	return nil
}

// Close shutdowns HTTP server
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
