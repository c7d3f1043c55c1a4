package session

import "sync"

// Registry keeps the active sessions by id for the HTTP surface and the
// reaper. Finished sessions linger until the reaper collects them so the
// caller can still read the final snapshot and its redirect target.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Machine
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Machine)}
}

func (r *Registry) Add(m *Machine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[m.ID()] = m
}

func (r *Registry) Get(id string) (*Machine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.sessions[id]
	return m, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Each calls fn for every registered session, outside the registry lock.
func (r *Registry) Each(fn func(*Machine)) {
	r.mu.RLock()
	snapshot := make([]*Machine, 0, len(r.sessions))
	for _, m := range r.sessions {
		snapshot = append(snapshot, m)
	}
	r.mu.RUnlock()

	for _, m := range snapshot {
		fn(m)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
