package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"jobtracker/internal/events"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 4 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier surfaces transient, dismissable messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Center keeps the visible notifications and mirrors them to an event hub
// when one is attached.
type Center struct {
	mu       sync.Mutex
	items    []Notification
	duration time.Duration
	now      func() time.Time
	hub      *events.Hub
}

type Option func(*Center)

func WithDuration(d time.Duration) Option {
	return func(c *Center) { c.duration = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func WithHub(h *events.Hub) Option {
	return func(c *Center) { c.hub = h }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{duration: DefaultDuration, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Center) Success(msg string) { c.push(KindSuccess, msg) }

func (c *Center) Error(msg string) { c.push(KindError, msg) }

func (c *Center) push(kind Kind, msg string) {
	now := c.now()
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   msg,
		CreatedAt: now,
		ExpiresAt: now.Add(c.duration),
	}
	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()

	if c.hub != nil {
		c.hub.Publish(events.MakeEvent("", events.TypeNotification, 1, n))
	}
}

// Active returns the notifications that have neither expired nor been
// dismissed, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.items[:0]
	for _, n := range c.items {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	c.items = kept
	return append([]Notification(nil), kept...)
}

func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	found := false
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()

	if found && c.hub != nil {
		c.hub.Publish(events.MakeEvent("", events.TypeNotificationGone, 1, map[string]any{"id": id}))
	}
	return found
}

// Recorder is a Notifier that only remembers messages. Useful for the CLI
// and tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []Notification
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(KindError, msg) }

func (r *Recorder) add(kind Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Notification{Kind: kind, Message: msg})
}

func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return Notification{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}

func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.Messages {
		if m.Kind == kind {
			n++
		}
	}
	return n
}
