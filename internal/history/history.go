// Package history turns an absolute running total into per-period deltas.
package history

// Sampler records, once per elapsed period, how far the total moved since
// the previous sample. The record starts with a single zero entry standing
// for the state before the first sample, and is append-only.
type Sampler struct {
	start  int
	last   int
	deltas []int
}

// New returns a sampler whose baseline is the total at the moment sampling
// begins.
func New(start int) *Sampler {
	return &Sampler{
		start:  start,
		last:   start,
		deltas: []int{0},
	}
}

// Sample appends current minus the previously sampled total and returns
// that delta. Deltas may be negative.
func (s *Sampler) Sample(current int) int {
	delta := current - s.last
	s.deltas = append(s.deltas, delta)
	s.last = current
	return delta
}

// History returns a copy of all deltas in chronological order, including
// the leading zero.
func (s *Sampler) History() []int {
	out := make([]int, len(s.deltas))
	copy(out, s.deltas)
	return out
}

// Len reports the number of entries, including the leading zero.
func (s *Sampler) Len() int {
	return len(s.deltas)
}

// Last returns the most recent delta.
func (s *Sampler) Last() int {
	return s.deltas[len(s.deltas)-1]
}

// Start returns the total at construction.
func (s *Sampler) Start() int {
	return s.start
}

// Sum returns the sum of all deltas, which equals the last sampled total
// minus the starting total.
func (s *Sampler) Sum() int {
	return Sum(s.deltas)
}

// Sum adds up a delta sequence.
func Sum(deltas []int) int {
	total := 0
	for _, d := range deltas {
		total += d
	}
	return total
}
