package counter

import (
	"errors"
	"testing"
)

func advance(t *testing.T, c *Counter, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		c.Increment()
	}
}

func TestIncrementRipplesIntoThousands(t *testing.T) {
	c := New()
	advance(t, c, 999)
	if got := c.Digits(); got != [Width]int{0, 9, 9, 9} {
		t.Fatalf("expected digits 0999, got %v", got)
	}
	if !c.Increment() {
		t.Fatalf("expected increment to advance")
	}
	if got := c.Digits(); got != [Width]int{1, 0, 0, 0} {
		t.Fatalf("expected digits 1000, got %v", got)
	}
	if c.Value() != 1000 {
		t.Fatalf("expected 1000, got %d", c.Value())
	}
}

func TestDecrementBorrowsFromThousands(t *testing.T) {
	c := New()
	advance(t, c, 1000)
	if err := c.Decrement(); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if got := c.Digits(); got != [Width]int{0, 9, 9, 9} {
		t.Fatalf("expected digits 0999, got %v", got)
	}
}

func TestIncrementSaturatesAtMax(t *testing.T) {
	c := New()
	advance(t, c, MaxValue)
	if c.Value() != MaxValue {
		t.Fatalf("expected %d, got %d", MaxValue, c.Value())
	}
	if c.Increment() {
		t.Fatalf("expected saturated increment to report no change")
	}
	if c.Value() != MaxValue {
		t.Fatalf("expected value to stay at %d, got %d", MaxValue, c.Value())
	}
	if c.String() != "9999" {
		t.Fatalf("unexpected readout %q", c.String())
	}
}

func TestDecrementAtZeroIsPreconditionError(t *testing.T) {
	c := New()
	err := c.Decrement()
	if err == nil {
		t.Fatalf("expected error decrementing zero counter")
	}
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PreconditionError, got %T", err)
	}
	if perr.Op != "decrement" {
		t.Fatalf("unexpected op %q", perr.Op)
	}
	if !errors.Is(err, ErrUnderflow) {
		t.Fatalf("expected error to match ErrUnderflow")
	}
	if c.Value() != 0 {
		t.Fatalf("expected counter to stay at 0, got %d", c.Value())
	}
}

func TestZeroValueCounterIsUsable(t *testing.T) {
	var c Counter
	c.Increment()
	c.Increment()
	if c.String() != "0002" {
		t.Fatalf("unexpected readout %q", c.String())
	}
}
