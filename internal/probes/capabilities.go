package probes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bartekus/featureprobe/internal/runner"
)

// Capabilities is the set of behaviors a Dog is built with.
type Capabilities struct {
	Greet func(msg string) string
	Speak func() string
}

// Dog holds the fields a Person needs plus its capability record.
type Dog struct {
	ID   int
	Name string
	Caps Capabilities
}

// NewDog builds the dog and its capabilities once. Speaking is logged.
func NewDog(log *zap.Logger) *Dog {
	d := &Dog{ID: 2, Name: "Doggo"}
	d.Caps = Capabilities{
		Greet: func(msg string) string { return msg + ", woof!" },
		Speak: func() string {
			log.Info("Woof!", zap.String("animal", d.Name))
			return "Woof!"
		},
	}
	return d
}

// DogReport is what the capability probe observes.
type DogReport struct {
	ID       int
	Name     string
	Greeting string
	Sound    string
}

func capabilitiesProbe(log *zap.Logger) runner.Probe {
	dog := NewDog(log)
	return runner.Probe{
		Name: "class:capabilities",
		Doc:  "interface and abstract base expressed as a capability record",
		Action: func(context.Context) (any, error) {
			return DogReport{
				ID:       dog.ID,
				Name:     dog.Name,
				Greeting: dog.Caps.Greet("Hi"),
				Sound:    dog.Caps.Speak(),
			}, nil
		},
		Expect: DogReport{ID: 2, Name: "Doggo", Greeting: "Hi, woof!", Sound: "Woof!"},
	}
}

// Drawable is implemented by anything that can describe itself on a canvas.
type Drawable interface {
	Draw() string
}

// Draw implements Drawable.
func (p Point) Draw() string {
	return fmt.Sprintf("Drawing at (%d, %d)", p.X, p.Y)
}

func drawableProbe() runner.Probe {
	return runner.Probe{
		Name: "trait:drawable",
		Doc:  "trait implemented for a struct, called through the interface",
		Action: func(context.Context) (any, error) {
			var d Drawable = Point{X: 1, Y: 2}
			return d.Draw(), nil
		},
		Expect: "Drawing at (1, 2)",
	}
}

// LogMethod wraps fn so that every call is logged before it is delegated.
func LogMethod[A, B, R any](log *zap.Logger, name string, fn func(A, B) R) func(A, B) R {
	return func(a A, b B) R {
		log.Info("calling method", zap.String("method", name), zap.Any("args", []any{a, b}))
		return fn(a, b)
	}
}

// Calculator has its Add method wrapped by LogMethod at construction time.
type Calculator struct {
	Add func(a, b int) int
}

// NewCalculator builds a Calculator with a logging Add.
func NewCalculator(log *zap.Logger) *Calculator {
	return &Calculator{Add: LogMethod(log, "add", func(a, b int) int { return a + b })}
}

func decoratorProbe(log *zap.Logger) runner.Probe {
	calc := NewCalculator(log)
	return runner.Probe{
		Name: "decorator:log-method",
		Doc:  "method wrapped by a logging decorator",
		Action: func(context.Context) (any, error) {
			return calc.Add(2, 3), nil
		},
	}
}
