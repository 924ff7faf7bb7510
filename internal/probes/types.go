package probes

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bartekus/featureprobe/internal/runner"
)

// Person has a read-only id, a name, an optional age and a greeting.
type Person interface {
	ID() int
	Name() string
	Age() (int, bool)
	Greet(msg string) string
}

type person struct {
	id   int
	name string
	age  Nullable[int]
}

func (p person) ID() int          { return p.id }
func (p person) Name() string     { return p.name }
func (p person) Age() (int, bool) { return p.age.Get() }

func (p person) Greet(msg string) string {
	return fmt.Sprintf("%s, I'm %s", msg, p.name)
}

// Alice is the sample Person.
var Alice Person = person{id: 1, name: "Alice"}

func personProbe() runner.Probe {
	return runner.Probe{
		Name: "interface:person",
		Doc:  "interface with a readonly id, an optional field and a method",
		Action: func(context.Context) (any, error) {
			_, hasAge := Alice.Age()
			return fmt.Sprintf("%d %s age=%t: %s", Alice.ID(), Alice.Name(), hasAge, Alice.Greet("Hello")), nil
		},
		Expect: "1 Alice age=false: Hello, I'm Alice",
	}
}

// Color is a string-valued enum.
type Color string

const (
	Red   Color = "RED"
	Green Color = "GREEN"
	Blue  Color = "BLUE"
)

// Colors lists every member in declaration order.
var Colors = []Color{Red, Green, Blue}

// ParseColor returns the member whose value is s.
func ParseColor(s string) (Color, error) {
	for _, c := range Colors {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%q is not a Color", s)
}

// Title names the member the way a match arm would print it.
func (c Color) Title() string {
	switch c {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	}
	return "Unknown"
}

// EnumCheck is what the enum membership probe observes.
type EnumCheck struct {
	Favorite Color
	Members  []Color
	Rejected bool
}

func enumProbe() runner.Probe {
	return runner.Probe{
		Name: "enum:color",
		Doc:  "string enum membership",
		Action: func(context.Context) (any, error) {
			fav, err := ParseColor("GREEN")
			if err != nil {
				return nil, err
			}
			_, err = ParseColor("PURPLE")
			return EnumCheck{Favorite: fav, Members: Colors, Rejected: err != nil}, nil
		},
		Expect: EnumCheck{Favorite: Green, Members: []Color{Red, Green, Blue}, Rejected: true},
	}
}

func enumMatchProbe() runner.Probe {
	return runner.Probe{
		Name:   "enum:match",
		Doc:    "exhaustive match over enum members",
		Action: func(context.Context) (any, error) { return Red.Title(), nil },
		Expect: "Red",
	}
}

// Add sums a and b; b defaults to 0 when omitted.
func Add(a int, b ...int) int {
	for _, n := range b {
		a += n
	}
	return a
}

// Multiply is the arrow-function form of multiplication.
var Multiply = func(a, b int) int { return a * b }

func defaultsProbe() runner.Probe {
	return runner.Probe{
		Name: "func:defaults",
		Doc:  "default parameter and function value",
		Action: func(context.Context) (any, error) {
			return []int{Add(2, 3), Add(5), Multiply(2, 3)}, nil
		},
		Expect: []int{5, 5, 6},
	}
}

type inputKind int

const (
	kindString inputKind = iota
	kindNumber
)

// FormatInput is the string | number variant accepted by Format.
type FormatInput struct {
	kind inputKind
	str  string
	num  float64
}

// Str tags a string input.
func Str(s string) FormatInput { return FormatInput{kind: kindString, str: s} }

// Num tags a numeric input.
func Num(n float64) FormatInput { return FormatInput{kind: kindNumber, num: n} }

// Format renders either variant as a string, dispatching on the tag.
func Format(in FormatInput) string {
	switch in.kind {
	case kindNumber:
		return strconv.FormatFloat(in.num, 'f', -1, 64)
	default:
		return in.str
	}
}

func overloadProbe() runner.Probe {
	return runner.Probe{
		Name: "func:overload",
		Doc:  "overloads expressed as one function over a tagged variant",
		Action: func(context.Context) (any, error) {
			return []string{Format(Num(123)), Format(Str("abc")), Format(Num(1.5))}, nil
		},
		Expect: []string{"123", "abc", "1.5"},
	}
}

// Identity returns its argument unchanged.
func Identity[T any](v T) T { return v }

// Map applies f to every element of xs.
func Map[T, U any](xs []T, f func(T) U) []U {
	out := make([]U, 0, len(xs))
	for _, x := range xs {
		out = append(out, f(x))
	}
	return out
}

func identityProbe() runner.Probe {
	return runner.Probe{
		Name: "generic:identity",
		Doc:  "identity(x) == x",
		Action: func(context.Context) (any, error) {
			return Identity(7), nil
		},
		Expect: 7,
	}
}

func genericMapProbe() runner.Probe {
	return runner.Probe{
		Name: "generic:map",
		Doc:  "ids.map(identity)",
		Action: func(context.Context) (any, error) {
			return Map([]int{1, 2, 3}, Identity[int]), nil
		},
		Expect: []int{1, 2, 3},
	}
}

func lengthAssertionProbe() runner.Probe {
	return runner.Probe{
		Name: "assert:length",
		Doc:  "type assertion, then a property of the asserted type",
		Action: func(context.Context) (any, error) {
			var input any = "123"
			s, ok := input.(string)
			if !ok {
				return nil, fmt.Errorf("input is %T", input)
			}
			var viaSwitch int
			switch v := input.(type) {
			case string:
				viaSwitch = len(v)
			}
			return []int{len(s), viaSwitch}, nil
		},
		Expect: []int{3, 3},
	}
}
