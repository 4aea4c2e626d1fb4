// Package notice delivers transient user-facing messages (the storefront's
// toasts). Notices auto-dismiss after a fixed interval; errors crossing into
// the view layer arrive here, never as faults.
package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notice for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 3 * time.Second

// Notice is one transient message.
type Notice struct {
	ID      string
	Message string
	Kind    Kind
}

// Center holds the currently visible notices.
type Center struct {
	mu       sync.Mutex
	ttl      time.Duration
	notices  []Notice
	timers   map[string]*time.Timer
	onChange func()
}

// NewCenter creates a notice center. TTL <= 0 selects DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, timers: make(map[string]*time.Timer)}
}

// OnChange registers the view refresh hook.
func (c *Center) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Post shows a notice and schedules its dismissal.
func (c *Center) Post(message string, kind Kind) Notice {
	n := Notice{ID: uuid.New().String(), Message: message, Kind: kind}

	c.mu.Lock()
	c.notices = append(c.notices, n)
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return n
}

// Error posts an error notice.
func (c *Center) Error(message string) Notice {
	return c.Post(message, KindError)
}

// Success posts a success notice.
func (c *Center) Success(message string) Notice {
	return c.Post(message, KindSuccess)
}

// Dismiss removes a notice before (or at) its deadline. Unknown ids are a
// no-op.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	removed := false
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i], c.notices[i+1:]...)
			removed = true
			break
		}
	}
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	fn := c.onChange
	c.mu.Unlock()

	if removed && fn != nil {
		fn()
	}
}

// Active returns the currently visible notices, oldest first.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}
