package identity

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

// LocalUserID is the identity every request carries in local mode.
const LocalUserID = "local"

// ErrEmptyUserID indicates a sign-in without a user id.
var ErrEmptyUserID = errors.New("user id required")

// EventKind distinguishes identity transitions.
type EventKind int

const (
	SignedIn EventKind = iota + 1
	SignedOut
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// Event reports an identity transition. UserID is empty for SignedOut.
type Event struct {
	Kind   EventKind
	UserID string
}

// Provider reports the current identity and notifies on changes.
type Provider interface {
	Current() (userID string, ok bool)
	Subscribe(fn func(Event)) (unsubscribe func())
}

// Manual is a Provider driven by explicit SignIn and SignOut calls.
// Subscribers are called synchronously, in order, from the calling goroutine.
type Manual struct {
	mu     sync.Mutex
	userID string

	emitMu    sync.Mutex
	listeners map[uint64]func(Event)
	nextID    uint64
}

// NewManual returns a signed-out Manual provider.
func NewManual() *Manual {
	return &Manual{listeners: make(map[uint64]func(Event))}
}

// Current returns the signed-in user, if any.
func (m *Manual) Current() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userID, m.userID != ""
}

// SignIn makes userID the current identity. Signing in as the current user
// is a no-op.
func (m *Manual) SignIn(userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	m.mu.Lock()
	if m.userID == userID {
		m.mu.Unlock()
		return nil
	}
	m.userID = userID
	m.publishLocked(Event{Kind: SignedIn, UserID: userID})
	return nil
}

// SignOut clears the current identity. It is a no-op when signed out.
func (m *Manual) SignOut() {
	m.mu.Lock()
	if m.userID == "" {
		m.mu.Unlock()
		return
	}
	m.userID = ""
	m.publishLocked(Event{Kind: SignedOut})
}

// Subscribe registers fn for future events.
func (m *Manual) Subscribe(fn func(Event)) func() {
	m.emitMu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.emitMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.emitMu.Lock()
			delete(m.listeners, id)
			m.emitMu.Unlock()
		})
	}
}

func (m *Manual) publishLocked(ev Event) {
	m.emitMu.Lock()
	m.mu.Unlock()
	defer m.emitMu.Unlock()
	for _, id := range slices.Sorted(maps.Keys(m.listeners)) {
		m.listeners[id](ev)
	}
}

// Static is a Provider that is always signed in as the same user.
type Static string

// Current returns the fixed user id.
func (s Static) Current() (string, bool) {
	return string(s), s != ""
}

// Subscribe never delivers events.
func (Static) Subscribe(func(Event)) func() {
	return func() {}
}

var (
	_ Provider = (*Manual)(nil)
	_ Provider = Static("")
)
