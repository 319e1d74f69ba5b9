package counter

import (
	"os"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCounterMatchesNetSumPropTest(t *testing.T) {
	var (
		parameters = gopter.DefaultTestParameters()
		seed       = time.Now().UnixNano()
		props      = gopter.NewProperties(parameters)
		reporter   = gopter.NewFormatedReporter(true, 160, os.Stdout)
	)
	parameters.MinSuccessfulTests = 500
	parameters.Rng.Seed(seed)

	// true is an increment, false a decrement.
	props.Property("value equals clamped net sum and digits stay in sync",
		prop.ForAll(func(ops []bool) bool {
			c := New()
			expected := 0
			for _, up := range ops {
				if up {
					c.Increment()
					if expected < MaxValue {
						expected++
					}
					continue
				}
				if expected == 0 {
					if c.Decrement() == nil {
						return false
					}
					continue
				}
				if err := c.Decrement(); err != nil {
					return false
				}
				expected--
			}
			if c.Value() != expected {
				return false
			}
			d := c.Digits()
			return d == [Width]int{expected / 1000 % 10, expected / 100 % 10, expected / 10 % 10, expected % 10}
		}, gen.SliceOf(gen.Bool())))

	if !props.Run(reporter) {
		t.Errorf("failed with initial seed: %d", seed)
	}
}

func TestCounterDigitInvariantPropTest(t *testing.T) {
	var (
		parameters = gopter.DefaultTestParameters()
		seed       = time.Now().UnixNano()
		props      = gopter.NewProperties(parameters)
		reporter   = gopter.NewFormatedReporter(true, 160, os.Stdout)
	)
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(seed)

	props.Property("n increments then n decrements returns to zero",
		prop.ForAll(func(n int) bool {
			c := New()
			for i := 0; i < n; i++ {
				c.Increment()
			}
			if c.Value() != n {
				return false
			}
			for i := 0; i < n; i++ {
				if err := c.Decrement(); err != nil {
					return false
				}
			}
			return c.Value() == 0 && c.Digits() == [Width]int{}
		}, gen.IntRange(0, MaxValue)))

	if !props.Run(reporter) {
		t.Errorf("failed with initial seed: %d", seed)
	}
}
