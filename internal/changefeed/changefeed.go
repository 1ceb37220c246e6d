// Package changefeed delivers before/after row snapshots for committed
// table changes. The production implementation listens on a Postgres
// NOTIFY channel fed by the row_change() trigger installed by the
// migrations; consumers only see the narrow Feed interface so they can
// run against a fake feed in tests.
package changefeed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// Change is one committed row change. Old and New are column name to
// value snapshots; Old is nil for inserts, New is nil for deletes.
type Change struct {
	Table  string         `json:"table"`
	Action string         `json:"action"`
	Old    map[string]any `json:"old"`
	New    map[string]any `json:"new"`
}

// OldString returns the named column from the before snapshot rendered
// as a string, and whether it was present and non-null.
func (c Change) OldString(column string) (string, bool) {
	return snapshotString(c.Old, column)
}

func (c Change) NewString(column string) (string, bool) {
	return snapshotString(c.New, column)
}

// NewInt64 returns the named column from the after snapshot as an
// integer. JSON numbers arrive as float64, which renders bigserial ids
// in scientific notation when formatted, so id columns must be read
// through this accessor rather than NewString.
func (c Change) NewInt64(column string) (int64, bool) {
	return snapshotInt64(c.New, column)
}

func (c Change) OldBool(column string) (bool, bool) {
	return snapshotBool(c.Old, column)
}

func (c Change) NewBool(column string) (bool, bool) {
	return snapshotBool(c.New, column)
}

func snapshotString(row map[string]any, column string) (string, bool) {
	if row == nil {
		return "", false
	}
	v, ok := row[column]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func snapshotInt64(row map[string]any, column string) (int64, bool) {
	if row == nil {
		return 0, false
	}
	v, ok := row[column]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func snapshotBool(row map[string]any, column string) (bool, bool) {
	if row == nil {
		return false, false
	}
	v, ok := row[column]
	if !ok || v == nil {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		return b == "t" || b == "true", true
	default:
		return false, false
	}
}

// Feed hands out subscriptions filtered by table, action and a column
// that must be non-null in the after snapshot (or the before snapshot
// for deletes).
type Feed interface {
	Subscribe(table, action, column string) (*Subscription, error)
}

// Subscription owns one delivery channel. C is closed by Unsubscribe
// and nothing is delivered afterwards.
type Subscription struct {
	C <-chan Change

	once  sync.Once
	close func()
}

func newSubscription(ch chan Change, close func()) *Subscription {
	return &Subscription{C: ch, close: close}
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(s.close)
}

func parseChange(payload []byte) (Change, error) {
	var c Change
	if err := json.Unmarshal(payload, &c); err != nil {
		return Change{}, fmt.Errorf("malformed change payload: %w", err)
	}
	if c.Table == "" || c.Action == "" {
		return Change{}, fmt.Errorf("change payload missing table or action")
	}
	return c, nil
}

// matches reports whether the change passes a subscriber's filter: same
// table and action, and the watched column non-null in the row the
// action left behind.
func matches(c Change, table, action, column string) bool {
	if c.Table != table || c.Action != action {
		return false
	}
	if column == "" {
		return true
	}
	row := c.New
	if c.Action == "DELETE" {
		row = c.Old
	}
	if row == nil {
		return false
	}
	v, ok := row[column]
	return ok && v != nil
}
