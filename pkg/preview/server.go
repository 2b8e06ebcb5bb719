// Package preview serves a generated project directory over local HTTP so a
// browser can load it with correct MIME and module semantics. One server
// instance serves one directory/port pair at a time; restarting for a new
// materialization pass tears the old listener down first.
package preview

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/entrhq/stagehand/pkg/logging"
)

// State is the lifecycle state of a preview server.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// settleDelay gives the background accept loop a moment to come up before
// Start returns. The listener is already bound at that point; the delay only
// smooths over immediately-following browser opens.
const settleDelay = 100 * time.Millisecond

// Server is a single static-file preview server with a start/stop lifecycle.
// At most one listener is live per Server; Start on a running instance stops
// it before binding again.
type Server struct {
	mu         sync.Mutex
	state      State
	directory  string
	port       int
	listener   net.Listener
	httpServer *http.Server
	logger     *logging.Logger
}

// NewServer creates a stopped preview server.
func NewServer() *Server {
	logger, _ := logging.NewLogger("preview") // fallback logger is still usable
	return &Server{
		state:  StateStopped,
		logger: logger,
	}
}

// Start serves the given directory on the given port. Any prior running
// instance is fully stopped first, so two listeners are never bound at once.
// Start returns once the listener is confirmed bound; on bind failure the
// server is left Stopped and the underlying error is returned.
func (s *Server) Start(directory string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning || s.state == StateStarting {
		s.stopLocked()
	}

	s.state = StateStarting

	// The standard listener enables address reuse on POSIX targets, so a
	// restart immediately after a stop does not fail with "address in use".
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		s.state = StateStopped
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.listener = listener
	s.directory = directory
	s.port = listener.Addr().(*net.TCPAddr).Port // resolves port 0 to the bound port
	s.httpServer = &http.Server{Handler: newHandler(directory)}

	go func(srv *http.Server, ln net.Listener) {
		if serveErr := srv.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Errorf("preview server exited: %v", serveErr)
		}
	}(s.httpServer, listener)

	time.Sleep(settleDelay)
	s.state = StateRunning
	s.logger.Infof("serving %s on port %d", directory, s.port)
	return nil
}

// Stop tears down the running listener and releases the port. Stopping an
// already-stopped server is a safe no-op.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// stopLocked performs the Running → Stopping → Stopped transition.
// Callers must hold s.mu.
func (s *Server) stopLocked() {
	if s.state == StateStopped {
		return
	}

	s.state = StateStopping
	if s.httpServer != nil {
		// Close rather than graceful shutdown: the preview is iterated on
		// rapidly and the port must be free for the next Start immediately.
		if err := s.httpServer.Close(); err != nil {
			s.logger.Warnf("error closing preview server: %v", err)
		}
		s.httpServer = nil
	}
	s.listener = nil
	s.state = StateStopped
	s.logger.Infof("preview server stopped")
}

// Running returns true while the server is accepting requests.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateRunning
}

// Directory returns the directory currently being served.
func (s *Server) Directory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.directory
}

// Port returns the bound port of the current or last run.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// URL returns the preview URL for a file in the served directory.
func (s *Server) URL(file string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/%s", s.port, file)
}

// newHandler builds the static-file router for a served directory. Every
// response carries permissive CORS headers plus cache-defeating headers:
// generated projects are iterated on rapidly, and stale browser caches would
// mask changes.
func newHandler(directory string) http.Handler {
	r := chi.NewRouter()
	r.Use(previewHeaders)
	r.Handle("/*", http.FileServer(http.Dir(directory)))
	return r
}

// previewHeaders is the CORS and no-cache middleware applied to every
// response. OPTIONS preflights are answered directly.
func previewHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
