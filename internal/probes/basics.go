package probes

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"github.com/bartekus/featureprobe/internal/runner"
)

// Pair is a fixed two-element tuple.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Point is a plain record with two coordinates.
type Point struct {
	X, Y int
}

// Primitives groups one value of every basic shape.
type Primitives struct {
	Num     int
	Str     string
	Bool    bool
	Tuple   Pair[string, int]
	Arr     []int
	Obj     Point
	Unknown int // length of the unknown value once narrowed to a string
}

func primitivesProbe() runner.Probe {
	return runner.Probe{
		Name: "basics:primitives",
		Doc:  "number, string, boolean, tuple, array, object literal and narrowing of an unknown value",
		Action: func(context.Context) (any, error) {
			var unknownVal any = "maybe string"
			s, ok := unknownVal.(string)
			if !ok {
				return nil, fmt.Errorf("unknown value is %T, not string", unknownVal)
			}
			return Primitives{
				Num:     42,
				Str:     "hello",
				Bool:    true,
				Tuple:   Pair[string, int]{"age", 30},
				Arr:     []int{1, 2, 3},
				Obj:     Point{X: 10, Y: 20},
				Unknown: len(s),
			}, nil
		},
		Expect: Primitives{
			Num:     42,
			Str:     "hello",
			Bool:    true,
			Tuple:   Pair[string, int]{"age", 30},
			Arr:     []int{1, 2, 3},
			Obj:     Point{X: 10, Y: 20},
			Unknown: 12,
		},
	}
}

// Narrowing reports a fixed-width conversion that fits and one that overflows.
type Narrowing struct {
	Small    int8
	Overflow bool
}

func checkedNarrowingProbe() runner.Probe {
	return runner.Probe{
		Name: "basics:checked-narrowing",
		Doc:  "fixed-width integers: narrowing conversions are checked, not truncated",
		Action: func(context.Context) (any, error) {
			small, err := safecast.Conv[int8](42)
			if err != nil {
				return nil, err
			}
			_, err = safecast.Conv[uint8](300)
			return Narrowing{Small: small, Overflow: err != nil}, nil
		},
		Expect: Narrowing{Small: 42, Overflow: true},
	}
}

// Nullable holds a value of T or nothing.
type Nullable[T any] struct {
	value T
	valid bool
}

// Some wraps a present value.
func Some[T any](v T) Nullable[T] { return Nullable[T]{value: v, valid: true} }

// Null returns the empty Nullable.
func Null[T any]() Nullable[T] { return Nullable[T]{} }

// Get returns the value and whether it is present.
func (n Nullable[T]) Get() (T, bool) { return n.value, n.valid }

// OrElse returns the value, or def when absent.
func (n Nullable[T]) OrElse(def T) T {
	if n.valid {
		return n.value
	}
	return def
}

func nullableProbe() runner.Probe {
	return runner.Probe{
		Name: "alias:nullable",
		Doc:  "Nullable<T> = T | null",
		Action: func(context.Context) (any, error) {
			present := Some("x").OrElse("default")
			absent := Null[string]().OrElse("default")
			return []string{present, absent}, nil
		},
		Expect: []string{"x", "default"},
	}
}

func optionProbe() runner.Probe {
	return runner.Probe{
		Name: "option:some",
		Doc:  "if let Some(v) = maybe",
		Action: func(context.Context) (any, error) {
			maybe := Some(5)
			if v, ok := maybe.Get(); ok {
				return v, nil
			}
			return nil, fmt.Errorf("expected a value")
		},
		Expect: 5,
	}
}
