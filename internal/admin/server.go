// Package admin serves the authenticated administration surface: GitHub
// sign-in, the document API and websocket editing sessions.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/iw2rmb/navedit/internal/config"
	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/internal/store"
)

// DefaultUserURL is the GitHub endpoint that names the signed-in user.
const DefaultUserURL = "https://api.github.com/user"

// maxDocumentBytes bounds request bodies and websocket messages.
const maxDocumentBytes = 4 << 20

// Options configures a Server.
type Options struct {
	Config config.AdminConfig
	Store  *store.Store
	Logger *log.Logger

	// Endpoint overrides the GitHub OAuth endpoint.
	Endpoint *oauth2.Endpoint
	// UserURL overrides DefaultUserURL.
	UserURL string
	// HTTPClient is used for calls to the provider.
	HTTPClient *http.Client
	// Now overrides the clock.
	Now func() time.Time
}

// Server is the admin HTTP service.
type Server struct {
	cfg    config.AdminConfig
	store  *store.Store
	logger *log.Logger

	oauth      *oauth2.Config
	userURL    string
	httpClient *http.Client
	now        func() time.Time

	signer        signer
	secureCookies bool
	upgrader      websocket.Upgrader

	handler http.Handler
}

// New builds a Server. opts.Config must have passed ValidateAdmin.
func New(opts Options) *Server {
	s := &Server{
		cfg:        opts.Config,
		store:      opts.Store,
		logger:     opts.Logger,
		userURL:    opts.UserURL,
		httpClient: opts.HTTPClient,
		now:        opts.Now,
		signer:     signer{key: []byte(opts.Config.SessionSecret)},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	if s.userURL == "" {
		s.userURL = DefaultUserURL
	}
	if s.httpClient == nil {
		s.httpClient = http.DefaultClient
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.cfg.WSRate <= 0 {
		s.cfg.WSRate = 20
	}
	if s.cfg.WSBurst <= 0 {
		s.cfg.WSBurst = 40
	}

	endpoint := github.Endpoint
	if opts.Endpoint != nil {
		endpoint = *opts.Endpoint
	}
	s.oauth = &oauth2.Config{
		ClientID:     s.cfg.GitHub.ClientID,
		ClientSecret: s.cfg.GitHub.ClientSecret,
		RedirectURL:  s.cfg.GitHub.RedirectURL,
		Endpoint:     endpoint,
		Scopes:       []string{"repo"},
	}
	if u, err := url.Parse(s.cfg.GitHub.RedirectURL); err == nil && u.Scheme == "https" {
		s.secureCookies = true
	}

	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	admin := http.NewServeMux()
	admin.HandleFunc("GET /admin", s.handleIndex)
	admin.HandleFunc("GET /admin/{$}", s.handleIndex)
	admin.HandleFunc("GET /admin/api/document", s.handleGetDocument)
	admin.HandleFunc("PUT /admin/api/document", s.handlePutDocument)
	admin.HandleFunc("GET /admin/api/document/download", s.handleDownload)
	admin.HandleFunc("POST /admin/api/format", s.handleFormat)
	admin.HandleFunc("GET /admin/api/schema", s.handleSchema)
	admin.HandleFunc("GET /admin/ws", s.handleWebSocket)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /auth/signin", s.handleSignIn)
	mux.HandleFunc("GET /auth/callback", s.handleCallback)
	mux.HandleFunc("POST /auth/signout", s.handleSignOut)
	mux.Handle("/admin", s.requireSession(admin))
	mux.Handle("/admin/", s.requireSession(admin))
	return s.logRequests(mux)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("admin server listening", logging.FieldAddr, s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("admin server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("admin server shutdown: %w", err)
	}
	s.logger.Info("admin server stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Hijack lets websocket upgrades through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			logging.FieldMethod, r.Method,
			logging.FieldPath, r.URL.Path,
			logging.FieldStatus, rec.status,
			logging.FieldRemote, r.RemoteAddr,
		)
	})
}
