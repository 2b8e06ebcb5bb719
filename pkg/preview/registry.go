package preview

import "sync"

// DefaultSession is the session id used by the single-user CLI flow.
const DefaultSession = "default"

// Registry tracks at most one preview server per session. Keying by session
// id keeps one session's restart from silently killing another session's
// preview when several materialization flows share a process.
type Registry struct {
	mu      sync.Mutex
	servers map[string]*Server
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{servers: make(map[string]*Server)}
}

// Get returns the session's server, creating a stopped one on first use.
func (r *Registry) Get(sessionID string) *Server {
	r.mu.Lock()
	defer r.mu.Unlock()

	srv, ok := r.servers[sessionID]
	if !ok {
		srv = NewServer()
		r.servers[sessionID] = srv
	}
	return srv
}

// Stop stops the session's server if it exists. Unknown sessions are a no-op.
func (r *Registry) Stop(sessionID string) {
	r.mu.Lock()
	srv, ok := r.servers[sessionID]
	r.mu.Unlock()

	if ok {
		srv.Stop()
	}
}

// StopAll stops every tracked server. Called on session end so no listener
// outlives the process's useful life.
func (r *Registry) StopAll() {
	r.mu.Lock()
	servers := make([]*Server, 0, len(r.servers))
	for _, srv := range r.servers {
		servers = append(servers, srv)
	}
	r.mu.Unlock()

	for _, srv := range servers {
		srv.Stop()
	}
}

// defaultRegistry backs the package-level convenience functions.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by callers that do
// not manage their own sessions.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// StopAll stops every server in the default registry.
func StopAll() {
	defaultRegistry.StopAll()
}
