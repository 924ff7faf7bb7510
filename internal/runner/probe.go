package runner

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Action is the body of a probe. It returns the observed value or fails.
type Action func(ctx context.Context) (any, error)

// Comparator decides whether got matches want and renders the difference when it does not.
type Comparator func(want, got any) (equal bool, diff string)

// Probe is one isolated unit exercising a single language feature.
type Probe struct {
	// Name is the unique identifier (e.g. "generic:identity").
	Name string
	Doc  string

	Action Action

	// Expect is the value Action must produce. A nil Expect makes the probe
	// presentation-only: it is executed and reported but never fails on value.
	Expect any

	// Compare overrides the default go-cmp equality.
	Compare Comparator
}

// PresentationOnly reports whether the probe declares no expectation.
func (p Probe) PresentationOnly() bool { return p.Expect == nil }

// Equal builds a Comparator on top of cmp.Equal with the given options.
// Unexported struct fields take part in the comparison.
func Equal(opts ...cmp.Option) Comparator {
	opts = append([]cmp.Option{cmp.Exporter(exportAll)}, opts...)
	return func(want, got any) (bool, string) {
		if cmp.Equal(want, got, opts...) {
			return true, ""
		}
		return false, cmp.Diff(want, got, opts...)
	}
}

func exportAll(reflect.Type) bool { return true }

// Deps contains dependencies injected into the runner.
type Deps struct {
	Logger  *zap.Logger
	Printer *Printer
}

// SetupFault reports a malformed probe table. It is raised before any probe runs.
type SetupFault struct {
	Err error
}

func (f *SetupFault) Error() string { return fmt.Sprintf("malformed probe table: %v", f.Err) }

func (f *SetupFault) Unwrap() error { return f.Err }

// Issues returns every individual problem found in the table.
func (f *SetupFault) Issues() []error { return multierr.Errors(f.Err) }

// FailedError is returned by the run operations when at least one probe failed or errored.
type FailedError struct {
	Probes []string
}

func (e *FailedError) Error() string { return fmt.Sprintf("probes failed: %v", e.Probes) }

var errEmptyTable = errors.New("probe table is empty")

// Validate checks the probe table preconditions: non-empty, named, unique, runnable.
func Validate(probes []Probe) error {
	if len(probes) == 0 {
		return &SetupFault{Err: errEmptyTable}
	}

	var err error
	seen := make(map[string]int, len(probes))
	for i, p := range probes {
		if p.Name == "" {
			err = multierr.Append(err, fmt.Errorf("probe #%d has no name", i))
		} else if j, dup := seen[p.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("duplicate probe name %q (#%d and #%d)", p.Name, j, i))
		} else {
			seen[p.Name] = i
		}
		if p.Action == nil {
			err = multierr.Append(err, fmt.Errorf("probe %q has no action", p.Name))
		}
	}
	if err != nil {
		return &SetupFault{Err: err}
	}
	return nil
}
