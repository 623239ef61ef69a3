package value

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrQuantityTooLow is returned when a quantity would drop below 1.
var ErrQuantityTooLow = errors.New("quantity must be at least 1")

// Quantity is a whole item count of at least 1.
type Quantity struct {
	v int
}

// NewQuantity validates v. Callers turn user input into a Quantity before
// pricing anything with it.
func NewQuantity(v int) (Quantity, error) {
	if v < 1 {
		return Quantity{}, fmt.Errorf("%w: got %d", ErrQuantityTooLow, v)
	}
	return Quantity{v: v}, nil
}

// One is the default quantity for a freshly added item.
func One() Quantity {
	return Quantity{v: 1}
}

func (q Quantity) Int() int {
	return q.v
}

func (q Quantity) Increment() Quantity {
	return Quantity{v: q.v + 1}
}

// Decrement fails instead of producing a quantity below 1.
func (q Quantity) Decrement() (Quantity, error) {
	if !q.CanDecrement() {
		return Quantity{}, fmt.Errorf("%w: cannot decrement %d", ErrQuantityTooLow, q.v)
	}
	return Quantity{v: q.v - 1}, nil
}

func (q Quantity) CanDecrement() bool {
	return q.v > 1
}

// IsValid reports whether q was built through NewQuantity (the zero value is not).
func (q Quantity) IsValid() bool {
	return q.v >= 1
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.v)
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewQuantity(v)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
