package scanner

import (
	"errors"
	"sync"

	"qrscan-go/pkg/decoder"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown session id
var ErrSessionNotFound = errors.New("session not found")

// Manager keeps the live scanner sessions of one server
type Manager struct {
	opts      Options
	decoder   *decoder.Decoder
	deliverer Deliverer

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates an empty session registry
func NewManager(opts Options, dec *decoder.Decoder, deliverer Deliverer) *Manager {
	return &Manager{
		opts:      opts.withDefaults(),
		decoder:   dec,
		deliverer: deliverer,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Create starts a new session
func (m *Manager) Create() *Session {
	s := NewSession(m.opts, m.decoder, m.deliverer)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	m.opts.Logger.Printf("created session %s", s.ID())
	return s
}

// Get looks up a session by id
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete closes and forgets a session
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	m.opts.Logger.Printf("deleted session %s", id)
	return nil
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close closes every session
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
