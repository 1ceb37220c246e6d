// Package watcher turns user-row change events into ambient admin
// notifications: a toast for connected admin screens, an email and a
// push to the affected user, and an optional callback for chained
// behavior such as the notification center.
package watcher

import (
	"context"
	"fmt"
	"sync"

	"fitclub/internal/changefeed"

	"go.uber.org/zap"
)

// Kind is the transition type reported to the email sender and the
// callback.
type Kind string

const (
	KindRoleChange    Kind = "role_change"
	KindUserBlocked   Kind = "user_blocked"
	KindUserUnblocked Kind = "user_unblocked"
)

// Toaster shows fire-and-forget messages on connected admin screens.
type Toaster interface {
	Success(title, description string)
	Error(title, description string)
}

// Sender delivers the transition to the affected user out of band.
// Failures must be returned, never panicked.
type Sender interface {
	SendAccountNotification(ctx context.Context, n AccountNotification) error
}

// AccountNotification is the payload handed to the Sender.
type AccountNotification struct {
	Kind      Kind
	UserID    int64
	UserEmail string
	OldRole   string
	NewRole   string
}

// Transition is what the optional callback receives.
type Transition struct {
	Kind        Kind
	Subject     string // email, name, or a placeholder
	OldLabel    string
	NewLabel    string
	Description string
}

// A field describes which column a Watcher observes and how a change in
// it becomes a Transition.
type field struct {
	column string
	diff   func(change changefeed.Change) (Transition, AccountNotification, bool)
}

// Watcher consumes one change-feed subscription on its own goroutine.
// Two instances exist in the app, one per watched column; they share
// nothing.
type Watcher struct {
	feed         changefeed.Feed
	field        field
	toast        Toaster
	sender       Sender
	onTransition func(Transition)
	logger       *zap.SugaredLogger

	sub  *changefeed.Subscription
	done chan struct{}
	wg   sync.WaitGroup
}

// NewRoleWatcher watches the role column on user rows.
func NewRoleWatcher(feed changefeed.Feed, toast Toaster, sender Sender, onTransition func(Transition), logger *zap.SugaredLogger) *Watcher {
	return &Watcher{
		feed:         feed,
		field:        roleField(),
		toast:        toast,
		sender:       sender,
		onTransition: onTransition,
		logger:       logger,
	}
}

// NewBlockWatcher watches the is_blocked column on user rows.
func NewBlockWatcher(feed changefeed.Feed, toast Toaster, sender Sender, onTransition func(Transition), logger *zap.SugaredLogger) *Watcher {
	return &Watcher{
		feed:         feed,
		field:        blockField(),
		toast:        toast,
		sender:       sender,
		onTransition: onTransition,
		logger:       logger,
	}
}

// Start opens exactly one subscription and consumes it until Stop.
func (w *Watcher) Start(ctx context.Context) error {
	sub, err := w.feed.Subscribe("users", "UPDATE", w.field.column)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", w.field.column, err)
	}
	w.sub = sub
	w.done = make(chan struct{})

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				return
			case change, ok := <-sub.C:
				if !ok {
					return
				}
				w.handle(ctx, change)
			}
		}
	}()
	return nil
}

// Stop tears the subscription down; no event is handled after it
// returns.
func (w *Watcher) Stop() {
	if w.sub == nil {
		return
	}
	close(w.done)
	w.sub.Unsubscribe()
	w.wg.Wait()
}

// handle processes one event. The toast is synchronous; the email and
// push sends are handed off so a slow delivery never blocks the next
// event.
func (w *Watcher) handle(ctx context.Context, change changefeed.Change) {
	transition, notification, changed := w.field.diff(change)
	if !changed {
		return
	}

	w.toast.Success(transition.Subject, transition.Description)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.sender.SendAccountNotification(ctx, notification); err != nil {
			w.logger.Errorw("account notification failed",
				"kind", notification.Kind, "user", notification.UserEmail, "error", err)
			w.toast.Error("Ошибка уведомления", "Не удалось отправить письмо пользователю")
		}
	}()

	if w.onTransition != nil {
		w.onTransition(transition)
	}
}
