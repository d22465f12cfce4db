package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/desertthunder/cogniapply/internal/models"
)

// NotificationTTL is how long a notification stays visible.
const NotificationTTL = 3 * time.Second

// Notification is a transient message shown to the user.
type Notification struct {
	ID      uint64
	Message string
	Level   models.Level
	Shown   time.Time
}

// Expired reports whether the notification should no longer be shown at now.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.Shown.Add(NotificationTTL))
}

// Presenter holds the single visible notification.
//
// A new notification replaces the previous one. Dismissal is keyed by ID so a timer
// started for an older notification cannot hide a newer one.
type Presenter struct {
	now func() time.Time
	out io.Writer

	mu      sync.Mutex
	current *Notification
	nextID  uint64
	wake    chan struct{}
}

// NewPresenter creates a Presenter. When out is non-nil every notification is also
// printed to it as a styled line.
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{now: time.Now, out: out, wake: make(chan struct{}, 1)}
}

// Notify shows message, replacing any visible notification. It never blocks.
func (p *Presenter) Notify(message string, level models.Level) {
	p.mu.Lock()
	p.nextID++
	n := Notification{ID: p.nextID, Message: message, Level: level, Shown: p.now()}
	p.current = &n
	p.mu.Unlock()

	if p.out != nil {
		fmt.Fprintln(p.out, renderNotice(n))
	}

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Visible returns the notification shown at now, if any.
func (p *Presenter) Visible(now time.Time) (Notification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil || p.current.Expired(now) {
		return Notification{}, false
	}
	return *p.current, true
}

// Dismiss hides the notification with id. It reports false when id is no longer current.
func (p *Presenter) Dismiss(id uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil || p.current.ID != id {
		return false
	}
	p.current = nil
	return true
}

// Wake signals after each notification. Signals are coalesced.
func (p *Presenter) Wake() <-chan struct{} {
	return p.wake
}

func renderNotice(n Notification) string {
	switch n.Level {
	case models.LevelSuccess:
		return styles.ok.Render("✓ " + n.Message)
	case models.LevelError:
		return styles.err.Render("✗ " + n.Message)
	default:
		return styles.info.Render("• " + n.Message)
	}
}
