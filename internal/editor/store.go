package editor

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"resume-builder/internal/resume"
)

// Store is the single owner of one user's resume and design documents.
//
// Snapshots returned by Resume and Design are immutable: callers must not
// modify their slices. All changes go through UpdateResume and UpdateDesign,
// which hand the mutator a private draft and commit the result atomically.
//
// Subscribers run in commit order after the state lock is released. Every
// Change carries what a subscriber needs; subscribers must not call back into
// the store.
type Store struct {
	mu      sync.Mutex
	status  Status
	resume  resume.ResumeData
	design  resume.DesignState
	version uint64

	ready       chan struct{}
	readyClosed bool

	emitMu    sync.Mutex
	listeners map[uint64]func(Change)
	nextID    uint64
}

// NewStore returns an uninitialized store holding the default documents.
func NewStore() *Store {
	return &Store{
		resume:    resume.DefaultResume(),
		design:    resume.DefaultDesign(),
		ready:     make(chan struct{}),
		listeners: make(map[uint64]func(Change)),
	}
}

// Resume returns the current resume snapshot.
func (s *Store) Resume() resume.ResumeData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resume
}

// Design returns the current design snapshot.
func (s *Store) Design() resume.DesignState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.design
}

// Status returns the lifecycle state.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Ready reports whether a load has completed since the last reset.
func (s *Store) Ready() bool {
	return s.Status() == StatusReady
}

// Version increases with every committed change.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Snapshot returns the documents, status and version read together.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Status: s.status, Resume: s.resume, Design: s.design, Version: s.version}
}

// Subscribe registers fn for every future change and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.emitMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.emitMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.emitMu.Lock()
			delete(s.listeners, id)
			s.emitMu.Unlock()
		})
	}
}

// UpdateResume runs fn on a deep copy of the resume. Missing ids are filled
// in afterwards. If the result breaks an invariant, or fn panics, the update
// is rejected with ErrRejected and nothing changes. If fn changed nothing no change is
// published. The mutator must not call back into the store.
func (s *Store) UpdateResume(fn func(*resume.ResumeData)) error {
	s.mu.Lock()
	prev := s.resume
	draft := prev.Clone()
	if err := mutate(fn, &draft); err != nil {
		s.mu.Unlock()
		return err
	}
	resume.AssignIDs(&draft)
	if err := resume.CheckIntegrity(draft); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	next, changed := reconcile(prev, draft)
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.resume = next
	s.version++
	s.publishLocked(Change{Source: SourceEdit, Resume: &next, Version: s.version})
	return nil
}

// UpdateDesign runs fn on a copy of the design. A mutator that changes
// nothing publishes nothing.
func (s *Store) UpdateDesign(fn func(*resume.DesignState)) error {
	s.mu.Lock()
	draft := s.design
	if err := mutate(fn, &draft); err != nil {
		s.mu.Unlock()
		return err
	}
	if draft == s.design {
		s.mu.Unlock()
		return nil
	}
	s.design = draft
	s.version++
	s.publishLocked(Change{Source: SourceEdit, Design: &draft, Version: s.version})
	return nil
}

// mutate runs fn on draft, reporting a panic as a rejected update.
func mutate[T any](fn func(*T), draft *T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: mutator panicked: %v", ErrRejected, r)
		}
	}()
	fn(draft)
	return nil
}

// BeginLoading marks the store as waiting for a load.
func (s *Store) BeginLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusLoading
	s.rearmLocked()
}

// Loaded replaces both documents with freshly loaded ones and marks the
// store ready.
func (s *Store) Loaded(doc resume.ResumeData, design resume.DesignState) {
	doc = doc.Clone()
	resume.RepairIDs(&doc)
	resume.Normalize(&doc)

	s.mu.Lock()
	s.resume = doc
	s.design = design
	s.status = StatusReady
	s.version++
	if !s.readyClosed {
		close(s.ready)
		s.readyClosed = true
	}
	s.publishLocked(Change{Source: SourceLoad, Resume: &doc, Design: &design, Version: s.version})
}

// Reset restores the defaults and returns the store to uninitialized.
func (s *Store) Reset() {
	doc := resume.DefaultResume()
	design := resume.DefaultDesign()

	s.mu.Lock()
	s.resume = doc
	s.design = design
	s.status = StatusUninitialized
	s.version++
	s.rearmLocked()
	s.publishLocked(Change{Source: SourceReset, Resume: &doc, Design: &design, Version: s.version})
}

// WaitReady blocks until the store is ready or ctx is done.
func (s *Store) WaitReady(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.status == StatusReady {
			s.mu.Unlock()
			return nil
		}
		ready := s.ready
		s.mu.Unlock()

		select {
		case <-ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Store) rearmLocked() {
	if s.readyClosed {
		s.ready = make(chan struct{})
		s.readyClosed = false
	}
}

// publishLocked hands ch to every subscriber. It is called with mu held and
// releases it; emitMu is taken first so deliveries keep commit order.
func (s *Store) publishLocked(ch Change) {
	ch.Status = s.status
	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()

	for _, fn := range s.sortedListenersLocked() {
		fn(ch)
	}
}

func (s *Store) sortedListenersLocked() []func(Change) {
	out := make([]func(Change), 0, len(s.listeners))
	for _, id := range slices.Sorted(maps.Keys(s.listeners)) {
		out = append(out, s.listeners[id])
	}
	return out
}
