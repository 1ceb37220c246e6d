package notifycenter

import (
	"fmt"
	"testing"
)

func TestCenter_AddEvictsOldest(t *testing.T) {
	c := NewCenter()

	for i := 1; i <= 11; i++ {
		c.Add(CategoryRoleChange, fmt.Sprintf("entry %d", i), "")
	}

	entries := c.Entries()
	if len(entries) != 10 {
		t.Fatalf("Expected 10 entries, got %d", len(entries))
	}
	if entries[0].Title != "entry 11" {
		t.Errorf("Expected newest entry at head, got %q", entries[0].Title)
	}
	if entries[9].Title != "entry 2" {
		t.Errorf("Expected entry 1 evicted, tail is %q", entries[9].Title)
	}
}

func TestCenter_MarkRead(t *testing.T) {
	c := NewCenter()

	entry := c.Add(CategoryUserBlocked, "user blocked", "details")
	if c.UnreadCount() != 1 {
		t.Fatalf("Expected 1 unread, got %d", c.UnreadCount())
	}

	c.MarkRead(entry.ID)
	if c.UnreadCount() != 0 {
		t.Errorf("Expected 0 unread after MarkRead, got %d", c.UnreadCount())
	}

	// unknown id is a no-op
	c.MarkRead("missing")
	if len(c.Entries()) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(c.Entries()))
	}
}

func TestCenter_MarkAllRead(t *testing.T) {
	c := NewCenter()

	for i := 0; i < 5; i++ {
		c.Add(CategoryRoleChange, "role changed", "")
	}

	c.MarkAllRead()
	if c.UnreadCount() != 0 {
		t.Fatalf("Expected 0 unread, got %d", c.UnreadCount())
	}

	c.Add(CategoryUserUnblocked, "user unblocked", "")
	if c.UnreadCount() != 1 {
		t.Errorf("Expected 1 unread after a fresh add, got %d", c.UnreadCount())
	}
}

func TestCenter_Remove(t *testing.T) {
	c := NewCenter()

	entry := c.Add(CategoryRoleChange, "role changed", "")
	c.Add(CategoryRoleChange, "another", "")

	c.Remove(entry.ID)
	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry after remove, got %d", len(entries))
	}
	if entries[0].Title != "another" {
		t.Errorf("Removed the wrong entry, remaining %q", entries[0].Title)
	}

	// unknown id is a no-op
	c.Remove("missing")
	if len(c.Entries()) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(c.Entries()))
	}
}

func TestCenter_DisplayUnread(t *testing.T) {
	c := NewCenter()

	if got := c.DisplayUnread(); got != "0" {
		t.Errorf("Expected display '0', got %q", got)
	}

	for i := 0; i < 10; i++ {
		c.Add(CategoryRoleChange, "role changed", "")
	}

	if c.UnreadCount() != 10 {
		t.Fatalf("Expected underlying count 10, got %d", c.UnreadCount())
	}
	if got := c.DisplayUnread(); got != "9+" {
		t.Errorf("Expected display '9+', got %q", got)
	}
}
