package sessions

import (
	"sync"
	"time"

	"resume-builder/internal/editor"
	"resume-builder/internal/identity"
	"resume-builder/internal/layout"
	"resume-builder/internal/persist"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

// Options tunes the sessions created by a Manager.
type Options struct {
	// Delay is the save debounce window; see persist.Options.
	Delay time.Duration
	Clock persist.Clock
	// FixedIdentity binds every session to its user for its whole life;
	// sign-out is refused. Used by the local storage mode.
	FixedIdentity bool
	InboxSize     int
}

// Manager owns one Session per signed-in user.
type Manager struct {
	docs persist.Documents
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a Manager persisting through docs.
func NewManager(docs persist.Documents, opts Options) *Manager {
	return &Manager{
		docs:     docs,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Acquire returns the user's session, signing in a new one if needed.
func (m *Manager) Acquire(userID string) (*Session, error) {
	if userID == "" {
		return nil, identity.ErrEmptyUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}

	s := &Session{
		userID: userID,
		store:  editor.NewStore(),
		inbox:  NewInbox(m.opts.InboxSize),
	}
	s.layout = &layout.Manager{Store: s}

	popts := persist.Options{Delay: m.opts.Delay, Clock: m.opts.Clock}
	if m.opts.FixedIdentity {
		s.coord = persist.New(s.store, m.docs, identity.Static(userID), s.inbox, popts)
	} else {
		s.manual = identity.NewManual()
		s.coord = persist.New(s.store, m.docs, s.manual, s.inbox, popts)
		if err := s.manual.SignIn(userID); err != nil {
			s.coord.Close()
			return nil, err
		}
	}

	m.sessions[userID] = s
	metrics.SetActiveSessions(len(m.sessions))
	telemetry.Info("session.start", map[string]any{"user_id": userID})
	return s, nil
}

// Get returns the user's session if one is active.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Release signs the user out: pending saves are dropped and the state is
// reset before the session is discarded.
func (m *Manager) Release(userID string) error {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	if !ok {
		m.mu.Unlock()
		return ErrNoSession
	}
	if s.manual == nil {
		m.mu.Unlock()
		return ErrFixedIdentity
	}
	delete(m.sessions, userID)
	metrics.SetActiveSessions(len(m.sessions))
	m.mu.Unlock()

	s.manual.SignOut()
	s.coord.Close()
	telemetry.Info("session.end", map[string]any{"user_id": userID})
	return nil
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops every session. Pending saves are dropped.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	metrics.SetActiveSessions(0)
	m.mu.Unlock()
	for _, s := range all {
		s.coord.Close()
	}
}
