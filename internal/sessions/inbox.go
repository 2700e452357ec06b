package sessions

import (
	"sync"

	"resume-builder/internal/persist"
)

const defaultInboxSize = 32

// Inbox buffers notices until the client drains them. When full the oldest
// notice is dropped.
type Inbox struct {
	mu      sync.Mutex
	size    int
	notices []persist.Notice
	log     persist.Notifier
}

// NewInbox returns an inbox holding at most size notices.
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = defaultInboxSize
	}
	return &Inbox{size: size, log: persist.LogNotifier{}}
}

// Notify records n and logs it.
func (b *Inbox) Notify(n persist.Notice) {
	b.log.Notify(n)
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.notices) == b.size {
		b.notices = b.notices[1:]
	}
	b.notices = append(b.notices, n)
}

// Drain returns the buffered notices oldest first and empties the inbox.
func (b *Inbox) Drain() []persist.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	if out == nil {
		out = []persist.Notice{}
	}
	return out
}

var _ persist.Notifier = (*Inbox)(nil)
