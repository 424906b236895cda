package convergence

import "golang.org/x/exp/constraints"

// MovingAverage is the mean of the last Window values pushed into it. The
// window starts filled with zeros, so the average ramps up from 0 while
// the first Window values arrive.
type MovingAverage[T constraints.Integer | constraints.Float] struct {
	values []T
	head   int
	sum    float64
}

// NewMovingAverage returns a moving average over the given window size.
// It panics if window <= 0.
func NewMovingAverage[T constraints.Integer | constraints.Float](window int) *MovingAverage[T] {
	if window <= 0 {
		panic("convergence: moving average window must be positive")
	}
	return &MovingAverage[T]{values: make([]T, window)}
}

// Push adds a value, evicting the oldest one.
func (a *MovingAverage[T]) Push(v T) {
	a.sum += float64(v) - float64(a.values[a.head])
	a.values[a.head] = v
	a.head++
	if a.head == len(a.values) {
		a.head = 0
		// Resum once per lap so float drift cannot accumulate.
		a.sum = 0
		for _, x := range a.values {
			a.sum += float64(x)
		}
	}
}

// Value returns the current average.
func (a *MovingAverage[T]) Value() float64 {
	return a.sum / float64(len(a.values))
}

// Window returns the window size.
func (a *MovingAverage[T]) Window() int { return len(a.values) }

// Reset refills the window with zeros.
func (a *MovingAverage[T]) Reset() {
	clear(a.values)
	a.head = 0
	a.sum = 0
}
