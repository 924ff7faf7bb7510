package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Runner manages the execution of probes.
type Runner struct {
	probes []Probe
	store  *StateStore
	deps   *Deps
}

// NewRunner creates a new runner with the given probe table, state store and dependencies.
// The store may be nil, in which case nothing is persisted and Resume is unavailable.
func NewRunner(probes []Probe, store *StateStore, deps *Deps) *Runner {
	if deps == nil {
		deps = &Deps{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Runner{
		probes: probes,
		store:  store,
		deps:   deps,
	}
}

// Probes returns the runner's probe table in declaration order.
func (r *Runner) Probes() []Probe { return r.probes }

// Run executes probes strictly in order and returns one Result per probe.
// Probe names must be unique; a malformed table yields a *SetupFault and no
// probe is invoked. Per-probe failures never abort the run.
func (r *Runner) Run(ctx context.Context, probes []Probe) ([]Result, error) {
	if err := Validate(probes); err != nil {
		return nil, err
	}

	r.deps.Printer.Begin(probes)

	results := make([]Result, 0, len(probes))
	for _, p := range probes {
		start := time.Now()
		res := r.execute(ctx, p)
		r.deps.Logger.Debug("probe finished",
			zap.String("probe", res.Probe),
			zap.String("status", string(res.Status)),
			zap.Duration("duration", time.Since(start)),
		)
		r.deps.Printer.Result(res)
		results = append(results, res)
	}
	return results, nil
}

// RunAll executes the whole table and records the run.
// It continues execution even if a probe fails, accumulating failures.
// Returns a *FailedError if ANY probe failed or errored.
func (r *Runner) RunAll(ctx context.Context) ([]Result, error) {
	return r.executeSequence(ctx, r.probes)
}

// RunList executes the named probes, in the order given.
func (r *Runner) RunList(ctx context.Context, names []string) ([]Result, error) {
	var toRun []Probe
	for _, name := range names {
		p, ok := r.findProbe(name)
		if !ok {
			return nil, fmt.Errorf("probe not found: %s", name)
		}
		toRun = append(toRun, p)
	}
	return r.executeSequence(ctx, toRun)
}

// Resume re-runs only the probes that failed or errored in the last recorded run.
// With nothing to resume it returns no results and no error.
func (r *Runner) Resume(ctx context.Context) ([]Result, error) {
	if r.store == nil {
		return nil, errors.New("resume needs a state store")
	}
	failed, err := r.store.LoadFailedProbes()
	if err != nil {
		return nil, fmt.Errorf("loading failed probes: %w", err)
	}
	if len(failed) == 0 {
		return nil, nil
	}

	var toRun []Probe
	for _, name := range failed {
		// Probes removed from the table since the last run are dropped silently.
		if p, ok := r.findProbe(name); ok {
			toRun = append(toRun, p)
		}
	}
	if len(toRun) == 0 {
		return nil, nil
	}
	return r.executeSequence(ctx, toRun)
}

func (r *Runner) findProbe(name string) (Probe, bool) {
	for _, p := range r.probes {
		if p.Name == name {
			return p, true
		}
	}
	return Probe{}, false
}

// executeSequence runs probes, prints the summary and updates state.
func (r *Runner) executeSequence(ctx context.Context, probes []Probe) ([]Result, error) {
	results, err := r.Run(ctx, probes)
	if err != nil {
		return nil, err
	}

	summary, failed := Summarize(results)
	r.deps.Printer.Summary(summary, failed)

	if r.store != nil {
		for _, res := range results {
			if err := r.store.WriteProbeResult(res); err != nil {
				return results, fmt.Errorf("writing result for %s: %w", res.Probe, err)
			}
		}

		lastRun := LastRun{
			Status:  "pass",
			Probes:  make([]string, 0, len(results)),
			Failed:  failed,
			Summary: summary,
		}
		for _, res := range results {
			lastRun.Probes = append(lastRun.Probes, res.Probe)
		}
		if len(failed) > 0 {
			lastRun.Status = "fail"
		}
		if err := r.store.WriteLastRun(lastRun); err != nil {
			return results, fmt.Errorf("writing last run: %w", err)
		}
	}

	if len(failed) > 0 {
		r.deps.Logger.Warn("run finished with failures", zap.Strings("probes", failed))
		return results, &FailedError{Probes: failed}
	}
	return results, nil
}

// execute runs one probe inside the failure boundary: a returned error or a
// panic from the action becomes StatusError instead of escaping the runner.
func (r *Runner) execute(ctx context.Context, p Probe) Result {
	res := Result{Probe: p.Name}

	got, err := invoke(ctx, p.Action)
	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		return res
	}
	res.Value = fmt.Sprintf("%+v", got)

	if p.PresentationOnly() {
		res.Status = StatusInfo
		return res
	}

	compare := p.Compare
	if compare == nil {
		compare = Equal()
	}
	if ok, diff := check(compare, p.Expect, got); !ok {
		res.Status = StatusFail
		res.Diff = diff
		return res
	}
	res.Status = StatusPass
	return res
}

func invoke(ctx context.Context, action Action) (got any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			got, err = nil, fmt.Errorf("panic: %v", rec)
		}
	}()
	return action(ctx)
}

// check runs the comparator on a value the action produced normally, so a
// comparator that panics yields a mismatch rather than an action error.
func check(compare Comparator, want, got any) (equal bool, diff string) {
	defer func() {
		if rec := recover(); rec != nil {
			equal, diff = false, fmt.Sprintf("cannot compare %T with %T: %v", want, got, rec)
		}
	}()
	return compare(want, got)
}
