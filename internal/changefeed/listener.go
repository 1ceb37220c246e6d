package changefeed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrListenerClosed = errors.New("change feed listener is closed")

// subscriberBuffer is how many undelivered changes one subscriber may
// lag behind before the feed starts dropping for it.
const subscriberBuffer = 64

type subscriber struct {
	table  string
	action string
	column string
	ch     chan Change
}

// Listener is the production Feed: one pooled connection runs LISTEN on
// the trigger's channel and fans matching changes out to subscribers.
type Listener struct {
	pool    *pgxpool.Pool
	channel string
	logger  *zap.SugaredLogger

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

func NewListener(pool *pgxpool.Pool, channel string, logger *zap.SugaredLogger) *Listener {
	return &Listener{
		pool:    pool,
		channel: channel,
		logger:  logger,
		subs:    make(map[*subscriber]struct{}),
	}
}

func (l *Listener) Subscribe(table, action, column string) (*Subscription, error) {
	sub := &subscriber{
		table:  table,
		action: action,
		column: column,
		ch:     make(chan Change, subscriberBuffer),
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrListenerClosed
	}
	l.subs[sub] = struct{}{}
	l.mu.Unlock()

	return newSubscription(sub.ch, func() {
		l.mu.Lock()
		_, ok := l.subs[sub]
		delete(l.subs, sub)
		l.mu.Unlock()
		if ok {
			close(sub.ch)
		}
	}), nil
}

// Run blocks listening for notifications until ctx is canceled,
// reconnecting with a delay when the connection drops.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Errorw("change feed connection lost, reconnecting", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+l.channel); err != nil {
		return err
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		change, err := parseChange([]byte(notification.Payload))
		if err != nil {
			l.logger.Errorw("dropping change event", "error", err)
			continue
		}
		l.dispatch(change)
	}
}

func (l *Listener) dispatch(change Change) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for sub := range l.subs {
		if !matches(change, sub.table, sub.action, sub.column) {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			// a stalled consumer must not block the feed
			l.logger.Warnw("subscriber lagging, change dropped",
				"table", sub.table, "action", sub.action, "column", sub.column)
		}
	}
}

// Close tears down every subscription; Subscribe fails afterwards.
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	for sub := range l.subs {
		delete(l.subs, sub)
		close(sub.ch)
	}
}
