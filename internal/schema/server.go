package schema

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
)

//go:embed index.html
var indexHTML []byte

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr        string
	Python      string
	SyncTimeout time.Duration
	Logger      *slog.Logger
}

// uploaded holds schemas pushed from the browser. They take priority over
// the files on disk until the server stops.
type uploaded struct {
	Component json.RawMessage
	Row       json.RawMessage
	Name      string
}

// Server is the schema tester HTTP server.
type Server struct {
	project *Project
	addr    string
	mux     *http.ServeMux
	logger  *slog.Logger
	runner  *SyncRunner

	mu       sync.RWMutex
	uploaded *uploaded
}

// NewServer creates a server for project.
func NewServer(project *Project, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscard()
	}

	s := &Server{
		project: project,
		addr:    opts.Addr,
		mux:     http.NewServeMux(),
		logger:  logger,
		runner:  &SyncRunner{Python: opts.Python, Timeout: opts.SyncTimeout},
	}
	s.registerRoutes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	cors := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			h(w, r)
		}
	}

	routes := []struct {
		method, path string
		handler      http.HandlerFunc
	}{
		{http.MethodGet, "/{$}", s.handleIndex},
		{http.MethodGet, "/api/discovery-info", s.handleDiscoveryInfo},
		{http.MethodPost, "/api/load-schemas", s.handleLoadSchemas},
		{http.MethodGet, "/api/schemas", s.handleSchemas},
		{http.MethodGet, "/api/config", s.handleConfig},
		{http.MethodPost, "/sync-action", s.handleSyncAction},
	}
	// Preflight is answered per route so unknown paths still get 404.
	for _, rt := range routes {
		h := cors(rt.handler)
		s.mux.HandleFunc(rt.method+" "+rt.path, h)
		s.mux.HandleFunc(http.MethodOptions+" "+rt.path, h)
	}
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown did not complete", "error", err)
		}
	}()

	s.logger.Info("starting schema tester", "addr", ln.Addr().String(), "root", s.project.Root)
	err := server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		s.logger.Info("schema tester stopped")
		return nil
	}
	return errors.Wrap(err, "serving schema tester")
}

// jsonResponse writes data as JSON with status 200.
func (s *Server) jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("writing response failed", "error", err)
	}
}

// jsonError writes a JSON error response.
func (s *Server) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// actionError writes the error shape the browser expects from sync actions.
func (s *Server) actionError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": message})
}
