package relay

import (
	"fmt"
	"sync"
)

// Registry maps registered display names to live client handles. It is the
// one piece of state shared between all session handlers and the fan-out
// loop; all methods are safe for concurrent use, and the lock is only ever
// held for a map lookup, insert or delete, never across a send.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
	}
}

// Register binds a name to a client handle.
//
// Precondition: name must be non-empty; c must be non-nil.
// Postcondition: The name maps to c, or an error is returned if the name is
// already bound to a live handle.
func (r *Registry) Register(name string, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[name]; exists {
		return fmt.Errorf("name %q already registered", name)
	}
	r.clients[name] = c
	return nil
}

// Remove unbinds a name. Removing an unknown name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
}

// Get returns the handle bound to name.
//
// Postcondition: Returns (client, true) if the name is registered, or
// (nil, false) otherwise.
func (r *Registry) Get(name string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[name]
	return c, ok
}

// Count returns the number of registered clients.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Names returns the currently registered names.
//
// Postcondition: Returns a fresh slice; order is unspecified.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}
