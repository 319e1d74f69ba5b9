// Package counter implements the fixed-width decimal tally counter.
package counter

import (
	"errors"
	"fmt"
)

// Width is the number of decimal digits held by a Counter.
const Width = 4

// MaxValue is the largest value a Counter can represent.
const MaxValue = 9999

// ErrUnderflow is matched by errors.Is for every PreconditionError raised
// by Decrement.
var ErrUnderflow = errors.New("counter underflow")

// PreconditionError reports an operation invoked outside its contract.
type PreconditionError struct {
	Op    string
	Value int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition violated at value %d", e.Op, e.Value)
}

// Is makes PreconditionError match ErrUnderflow.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrUnderflow
}

// Counter is a four digit non-negative counter with ripple carry and borrow.
// Digits are stored most significant first. The zero value is a counter at 0.
type Counter struct {
	digits [Width]uint8
}

// New returns a counter at zero.
func New() *Counter {
	return &Counter{}
}

// Increment adds one. At MaxValue it is a no-op and reports false.
func (c *Counter) Increment() bool {
	if c.Value() == MaxValue {
		return false
	}
	for i := Width - 1; i >= 0; i-- {
		if c.digits[i] < 9 {
			c.digits[i]++
			return true
		}
		c.digits[i] = 0
	}
	return true
}

// Decrement subtracts one. Decrementing a zero counter returns a
// *PreconditionError and leaves the counter unchanged.
func (c *Counter) Decrement() error {
	if c.Value() == 0 {
		return &PreconditionError{Op: "decrement", Value: 0}
	}
	for i := Width - 1; i >= 0; i-- {
		if c.digits[i] > 0 {
			c.digits[i]--
			return nil
		}
		c.digits[i] = 9
	}
	return nil
}

// Value reconstructs the integer held by the digits.
func (c *Counter) Value() int {
	v := 0
	for _, d := range c.digits {
		v = v*10 + int(d)
	}
	return v
}

// Digits returns thousands, hundreds, tens and ones.
func (c *Counter) Digits() [Width]int {
	var out [Width]int
	for i, d := range c.digits {
		out[i] = int(d)
	}
	return out
}

// String renders the zero-padded readout, e.g. "0042".
func (c *Counter) String() string {
	return fmt.Sprintf("%0*d", Width, c.Value())
}
