package persist

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"resume-builder/internal/editor"
	"resume-builder/internal/identity"
	"resume-builder/internal/resume"
	"resume-builder/internal/shared/telemetry"
)

// DefaultDelay is the quiet window before an edit is written.
const DefaultDelay = time.Second

// Documents is the remote store the coordinator reads and writes.
type Documents interface {
	LoadResume(ctx context.Context, userID string) (resume.ResumeData, error)
	LoadDesign(ctx context.Context, userID string) (resume.DesignState, error)
	SaveResume(ctx context.Context, userID string, doc resume.ResumeData) error
	SaveDesign(ctx context.Context, userID string, design resume.DesignState) error
}

// Options tunes a Coordinator.
type Options struct {
	// Delay is the debounce window per document. Zero writes immediately;
	// negative selects DefaultDelay.
	Delay time.Duration
	Clock Clock
}

// epoch is one signed-in period. A new epoch starts on every sign-in;
// work started in an earlier epoch is discarded.
type epoch struct {
	userID string
	ctx    context.Context
	cancel context.CancelFunc
}

// Coordinator keeps one Store in sync with the remote store: it loads on
// sign-in, resets on sign-out and writes debounced edits while signed in.
type Coordinator struct {
	store    *editor.Store
	docs     Documents
	notifier Notifier

	resumeSched *Scheduler
	designSched *Scheduler

	// mu serialises identity transitions and load completion.
	mu      sync.Mutex
	closed  bool
	current atomic.Pointer[epoch]
	loads   sync.WaitGroup

	resumeSaveMu sync.Mutex
	designSaveMu sync.Mutex
	latestResume atomic.Pointer[resume.ResumeData]
	latestDesign atomic.Pointer[resume.DesignState]

	unsubscribeStore    func()
	unsubscribeIdentity func()
}

// New wires a coordinator to store and provider and applies the provider's
// current identity.
func New(store *editor.Store, docs Documents, provider identity.Provider, notifier Notifier, opts Options) *Coordinator {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	delay := opts.Delay
	if delay < 0 {
		delay = DefaultDelay
	}
	c := &Coordinator{
		store:       store,
		docs:        docs,
		notifier:    notifier,
		resumeSched: NewScheduler(delay, opts.Clock),
		designSched: NewScheduler(delay, opts.Clock),
	}
	doc := store.Resume()
	design := store.Design()
	c.latestResume.Store(&doc)
	c.latestDesign.Store(&design)

	c.unsubscribeStore = store.Subscribe(c.onChange)
	c.unsubscribeIdentity = provider.Subscribe(c.onIdentity)
	if userID, ok := provider.Current(); ok {
		c.signIn(userID)
	}
	return c
}

// UserID returns the identity of the current epoch.
func (c *Coordinator) UserID() (string, bool) {
	if ep := c.current.Load(); ep != nil {
		return ep.userID, true
	}
	return "", false
}

// Pending reports whether a resume or design write is waiting to run.
func (c *Coordinator) Pending() bool {
	return c.resumeSched.Pending() || c.designSched.Pending()
}

// Close stops all pending writes and detaches from the store and provider.
// It waits for an in-flight load to finish.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.endEpochLocked()
	c.unsubscribeStore()
	c.unsubscribeIdentity()
	c.mu.Unlock()
	c.loads.Wait()
}

func (c *Coordinator) onIdentity(ev identity.Event) {
	switch ev.Kind {
	case identity.SignedIn:
		c.signIn(ev.UserID)
	case identity.SignedOut:
		c.signOut()
	}
}

func (c *Coordinator) signIn(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if ep := c.current.Load(); ep != nil && ep.userID == userID {
		return
	}
	c.endEpochLocked()

	ctx, cancel := context.WithCancel(context.Background())
	ep := &epoch{userID: userID, ctx: ctx, cancel: cancel}
	c.current.Store(ep)
	c.store.BeginLoading()

	c.loads.Add(1)
	go c.load(ep)
}

func (c *Coordinator) signOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.current.Load() == nil {
		return
	}
	c.endEpochLocked()
	c.store.Reset()
}

// endEpochLocked cancels pending writes and the epoch context.
func (c *Coordinator) endEpochLocked() {
	c.resumeSched.Cancel()
	c.designSched.Cancel()
	if ep := c.current.Swap(nil); ep != nil {
		ep.cancel()
	}
}

func (c *Coordinator) load(ep *epoch) {
	defer c.loads.Done()

	var (
		doc    resume.ResumeData
		design resume.DesignState
		g      errgroup.Group
	)
	g.Go(func() error {
		var err error
		doc, err = c.docs.LoadResume(ep.ctx, ep.userID)
		return err
	})
	g.Go(func() error {
		var err error
		design, err = c.docs.LoadDesign(ep.ctx, ep.userID)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.current.Load() != ep {
		telemetry.Info("persist.load_discarded", map[string]any{"user_id": ep.userID})
		return
	}
	if err != nil {
		c.notify(noticeLoadFailed, err)
	}
	c.store.Loaded(doc, design)
}

// onChange runs on the store's delivery path and only records snapshots
// and arms timers.
func (c *Coordinator) onChange(ch editor.Change) {
	if ch.Resume != nil {
		c.latestResume.Store(ch.Resume)
	}
	if ch.Design != nil {
		c.latestDesign.Store(ch.Design)
	}
	if ch.Source != editor.SourceEdit || ch.Status != editor.StatusReady {
		return
	}
	ep := c.current.Load()
	if ep == nil {
		return
	}
	if ch.Resume != nil {
		c.resumeSched.Schedule(func() { c.flushResume(ep) })
	}
	if ch.Design != nil {
		c.designSched.Schedule(func() { c.flushDesign(ep) })
	}
}

func (c *Coordinator) flushResume(ep *epoch) {
	c.resumeSaveMu.Lock()
	defer c.resumeSaveMu.Unlock()
	if c.current.Load() != ep {
		return
	}
	doc := c.latestResume.Load()
	if err := c.docs.SaveResume(ep.ctx, ep.userID, *doc); err != nil && ep.ctx.Err() == nil {
		c.notify(noticeResumeSaveFailed, err)
	}
}

func (c *Coordinator) flushDesign(ep *epoch) {
	c.designSaveMu.Lock()
	defer c.designSaveMu.Unlock()
	if c.current.Load() != ep {
		return
	}
	design := c.latestDesign.Load()
	if err := c.docs.SaveDesign(ep.ctx, ep.userID, *design); err != nil && ep.ctx.Err() == nil {
		c.notify(noticeDesignSaveFailed, err)
	}
}

func (c *Coordinator) notify(n Notice, err error) {
	n.Err = err
	n.At = time.Now().UTC()
	c.notifier.Notify(n)
}
