package probes

import (
	"context"

	"github.com/bartekus/featureprobe/internal/runner"
)

// Counter lazily yields 0, 1, ... up to limit-1. Once drained it stays drained.
type Counter struct {
	next  int
	limit int
}

// NewCounter returns a counter yielding limit values.
func NewCounter(limit int) *Counter {
	return &Counter{limit: limit}
}

// HasNext reports whether another value is available.
func (c *Counter) HasNext() bool { return c.next < c.limit }

// Next returns the next value, or false when the sequence is exhausted.
func (c *Counter) Next() (int, bool) {
	if !c.HasNext() {
		return 0, false
	}
	v := c.next
	c.next++
	return v, true
}

// Drain consumes every remaining value.
func (c *Counter) Drain() []int {
	out := []int{}
	for v, ok := c.Next(); ok; v, ok = c.Next() {
		out = append(out, v)
	}
	return out
}

func generatorProbe() runner.Probe {
	return runner.Probe{
		Name: "generator:counter",
		Doc:  "function* counter() { while (i < 3) yield i++ }",
		Action: func(context.Context) (any, error) {
			return NewCounter(3).Drain(), nil
		},
		Expect: []int{0, 1, 2},
	}
}
