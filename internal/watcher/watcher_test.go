package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fitclub/internal/changefeed"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingToaster struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *recordingToaster) Success(title, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, title+" | "+description)
}

func (r *recordingToaster) Error(title, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, title+" | "+description)
}

func (r *recordingToaster) successCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.successes)
}

func (r *recordingToaster) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

func (r *recordingToaster) lastSuccess() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.successes) == 0 {
		return ""
	}
	return r.successes[len(r.successes)-1]
}

type recordingSender struct {
	mu   sync.Mutex
	sent []AccountNotification
	fail bool
}

func (r *recordingSender) SendAccountNotification(ctx context.Context, n AccountNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("smtp unreachable")
	}
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingSender) sentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func userUpdate(oldRow, newRow map[string]any) changefeed.Change {
	return changefeed.Change{Table: "users", Action: "UPDATE", Old: oldRow, New: newRow}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestRoleWatcher_Transition(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	toast := &recordingToaster{}
	sender := &recordingSender{}
	var transitions []Transition
	var mu sync.Mutex

	w := NewRoleWatcher(feed, toast, sender, func(tr Transition) {
		mu.Lock()
		transitions = append(transitions, tr)
		mu.Unlock()
	}, zap.NewNop().Sugar())

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	feed.Publish(userUpdate(
		map[string]any{"id": float64(7), "email": "ivan@example.com", "role": "user"},
		map[string]any{"id": float64(7), "email": "ivan@example.com", "role": "admin"},
	))

	waitFor(t, func() bool { return toast.successCount() == 1 }, "expected one transition toast")
	w.Stop()

	assert.Contains(t, toast.lastSuccess(), "ivan@example.com")
	assert.Contains(t, toast.lastSuccess(), "Пользователь → Администратор")
	assert.Equal(t, 0, toast.errorCount())

	assert.Equal(t, 1, sender.sentCount())
	sender.mu.Lock()
	sent := sender.sent[0]
	sender.mu.Unlock()
	assert.Equal(t, KindRoleChange, sent.Kind)
	assert.Equal(t, "ivan@example.com", sent.UserEmail)
	assert.Equal(t, "user", sent.OldRole)
	assert.Equal(t, "admin", sent.NewRole)

	mu.Lock()
	defer mu.Unlock()
	if assert.Len(t, transitions, 1) {
		assert.Equal(t, "Пользователь", transitions[0].OldLabel)
		assert.Equal(t, "Администратор", transitions[0].NewLabel)
	}
}

func TestRoleWatcher_SevenDigitUserID(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	toast := &recordingToaster{}
	sender := &recordingSender{}

	w := NewRoleWatcher(feed, toast, sender, nil, zap.NewNop().Sugar())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	feed.Publish(userUpdate(
		map[string]any{"id": float64(1234567), "email": "big@example.com", "role": "user"},
		map[string]any{"id": float64(1234567), "email": "big@example.com", "role": "admin"},
	))

	waitFor(t, func() bool { return sender.sentCount() == 1 }, "expected one send")
	w.Stop()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, int64(1234567), sender.sent[0].UserID)
}

func TestRoleWatcher_UnchangedRoleIgnored(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	toast := &recordingToaster{}
	sender := &recordingSender{}

	w := NewRoleWatcher(feed, toast, sender, nil, zap.NewNop().Sugar())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	// email changed, role did not: no visible effect
	feed.Publish(userUpdate(
		map[string]any{"email": "old@example.com", "role": "partner"},
		map[string]any{"email": "new@example.com", "role": "partner"},
	))
	// marker event; its toast proves the previous event was processed
	feed.Publish(userUpdate(
		map[string]any{"email": "x@example.com", "role": "user"},
		map[string]any{"email": "x@example.com", "role": "support"},
	))

	waitFor(t, func() bool { return toast.successCount() == 1 }, "expected only the marker toast")
	w.Stop()

	assert.Equal(t, 1, sender.sentCount())
}

func TestRoleWatcher_SenderFailureSurfacesErrorToast(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	toast := &recordingToaster{}
	sender := &recordingSender{fail: true}

	w := NewRoleWatcher(feed, toast, sender, nil, zap.NewNop().Sugar())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	feed.Publish(userUpdate(
		map[string]any{"email": "a@example.com", "role": "user"},
		map[string]any{"email": "a@example.com", "role": "partner"},
	))

	// the primary toast fires regardless of the send outcome
	waitFor(t, func() bool { return toast.successCount() == 1 }, "expected the transition toast")
	waitFor(t, func() bool { return toast.errorCount() == 1 }, "expected a second error toast")
	w.Stop()
}

func TestRoleWatcher_UnknownRoleDefaultsToUserLabel(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	toast := &recordingToaster{}
	sender := &recordingSender{}

	w := NewRoleWatcher(feed, toast, sender, nil, zap.NewNop().Sugar())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	feed.Publish(userUpdate(
		map[string]any{"email": "b@example.com", "role": "owner"},
		map[string]any{"email": "b@example.com", "role": "admin"},
	))

	waitFor(t, func() bool { return toast.successCount() == 1 }, "expected one toast")
	w.Stop()

	assert.Contains(t, toast.lastSuccess(), "Пользователь → Администратор")
}

func TestRoleWatcher_MissingEmailUsesPlaceholder(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	toast := &recordingToaster{}
	sender := &recordingSender{}

	w := NewRoleWatcher(feed, toast, sender, nil, zap.NewNop().Sugar())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	feed.Publish(userUpdate(
		map[string]any{"role": "user"},
		map[string]any{"role": "support"},
	))

	waitFor(t, func() bool { return toast.successCount() == 1 }, "expected one toast")
	w.Stop()

	assert.Contains(t, toast.lastSuccess(), "Неизвестный пользователь")
}

func TestBlockWatcher_Transitions(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	toast := &recordingToaster{}
	sender := &recordingSender{}
	var kinds []Kind
	var mu sync.Mutex

	w := NewBlockWatcher(feed, toast, sender, func(tr Transition) {
		mu.Lock()
		kinds = append(kinds, tr.Kind)
		mu.Unlock()
	}, zap.NewNop().Sugar())

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	feed.Publish(userUpdate(
		map[string]any{"email": "c@example.com", "is_blocked": false},
		map[string]any{"email": "c@example.com", "is_blocked": true},
	))
	feed.Publish(userUpdate(
		map[string]any{"email": "c@example.com", "is_blocked": true},
		map[string]any{"email": "c@example.com", "is_blocked": false},
	))

	waitFor(t, func() bool { return toast.successCount() == 2 }, "expected two toasts")
	w.Stop()

	assert.Equal(t, 2, sender.sentCount())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Kind{KindUserBlocked, KindUserUnblocked}, kinds)
}

func TestWatcher_StopTearsDownSubscription(t *testing.T) {
	feed := changefeed.NewMemoryFeed()
	defer feed.Close()

	toast := &recordingToaster{}
	sender := &recordingSender{}

	w := NewRoleWatcher(feed, toast, sender, nil, zap.NewNop().Sugar())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	w.Stop()

	feed.Publish(userUpdate(
		map[string]any{"email": "d@example.com", "role": "user"},
		map[string]any{"email": "d@example.com", "role": "admin"},
	))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, toast.successCount(), "no events are handled after Stop")
	assert.Equal(t, 0, sender.sentCount())
}
