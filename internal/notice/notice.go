// Package notice holds the single user-visible error message that clears
// itself after a fixed display duration.
package notice

import (
	"sync"
	"time"
)

// DisplayDuration is how long a posted message stays visible.
const DisplayDuration = 3 * time.Second

// Board is a one-slot message board. Posting replaces the current message.
type Board struct {
	mu        sync.Mutex
	message   string
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewBoard returns a board using DisplayDuration and the wall clock.
func NewBoard() *Board {
	return &Board{ttl: DisplayDuration, now: time.Now}
}

// Post shows message until the display duration elapses.
func (b *Board) Post(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = message
	b.expiresAt = b.now().Add(b.ttl)
}

// Current returns the visible message, or "" once it has expired.
func (b *Board) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.message == "" || !b.now().Before(b.expiresAt) {
		b.message = ""
		return ""
	}
	return b.message
}

// Clear dismisses the current message early.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = ""
}
