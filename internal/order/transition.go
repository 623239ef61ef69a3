package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogo-cafe/api/internal/status"
)

// ErrInvalidTransition is returned when the target is neither the registered
// successor nor a legal cancellation.
var ErrInvalidTransition = errors.New("invalid status transition")

// CanAdvance reports whether from -> to is a legal move.
func CanAdvance(from, to status.Status) bool {
	if to == status.Canceled {
		return status.CanCancel(from)
	}
	next, ok := status.Successor(from)
	return ok && next == to
}

// Advance moves o to target and returns the new record; o is not modified.
//
// Entering Completed stamps CompletedAt unless it is already set. Advancing
// a Completed order to Completed again returns it unchanged, keeping the
// original completion time. On error no record is produced.
func Advance(o Order, target status.Status, now time.Time) (Order, error) {
	if o.Status == status.Completed && target == status.Completed {
		return o.clone(), nil
	}
	if !CanAdvance(o.Status, target) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}

	next := o.clone()
	next.Status = target
	next.UpdatedAt = now
	if target == status.Completed && next.CompletedAt == nil {
		t := now
		next.CompletedAt = &t
	}
	return next, nil
}

// NextAction describes the staff button for moving an order forward.
type NextAction struct {
	To    status.Status `json:"to"`
	Label string        `json:"label"`
	Color string        `json:"color"`
}

// NextActionFor returns the forward action for s, or false for terminal statuses.
func NextActionFor(s status.Status) (NextAction, bool) {
	cfg, ok := status.Lookup(s)
	if !ok || !cfg.HasNext() {
		return NextAction{}, false
	}
	return NextAction{To: cfg.Next, Label: cfg.NextAction, Color: status.Color(cfg.Next)}, true
}
