// Package notifycenter keeps the small in-memory notification list
// behind the admin bell icon. The buffer lives for the process only and
// never holds more than maxEntries entries, newest first.
package notifycenter

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxEntries = 10

type Category string

const (
	CategoryRoleChange    Category = "role-change"
	CategoryUserBlocked   Category = "user-blocked"
	CategoryUserUnblocked Category = "user-unblocked"
)

type Entry struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Read        bool      `json:"read"`
}

type Center struct {
	mu      sync.Mutex
	entries []Entry
}

func NewCenter() *Center {
	return &Center{}
}

// Add prepends a fresh unread entry and evicts everything past the
// capacity. Safe to call from any goroutine.
func (c *Center) Add(category Category, title, description string) Entry {
	entry := Entry{
		ID:          uuid.NewString(),
		Category:    category,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append([]Entry{entry}, c.entries...)
	if len(c.entries) > maxEntries {
		c.entries = c.entries[:maxEntries]
	}
	return entry
}

// MarkRead flags the entry read; unknown ids are a no-op. Entries never
// go back to unread.
func (c *Center) MarkRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		if c.entries[i].ID == id {
			c.entries[i].Read = true
			return
		}
	}
}

func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		c.entries[i].Read = true
	}
}

// Remove deletes the entry; unknown ids are a no-op.
func (c *Center) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		if c.entries[i].ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Entries returns a copy, newest first.
func (c *Center) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for i := range c.entries {
		if !c.entries[i].Read {
			count++
		}
	}
	return count
}

// DisplayUnread is the badge text: the real count up to 9, then "9+".
// Only the display is capped, UnreadCount keeps counting.
func (c *Center) DisplayUnread() string {
	count := c.UnreadCount()
	if count > 9 {
		return "9+"
	}
	return strconv.Itoa(count)
}
