// Package probes holds the built-in feature probe table.
//
// Each probe exercises one language feature and declares the value it must
// produce. A few probes (decorator:log-method, symbol:keyed) only demonstrate
// a feature and declare no expectation; the runner reports them as info.
package probes

import (
	"time"

	"go.uber.org/zap"

	"github.com/bartekus/featureprobe/internal/runner"
)

// Options tunes the probes that have external knobs. A zero AsyncDelay
// selects DefaultAsyncDelay; config.Validate never lets one through.
type Options struct {
	AsyncDelay time.Duration
	Logger     *zap.Logger
}

// Registry returns the canonical probe table, in declaration order.
func Registry(opts Options) []runner.Probe {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.AsyncDelay <= 0 {
		opts.AsyncDelay = DefaultAsyncDelay
	}
	log := opts.Logger

	return []runner.Probe{
		primitivesProbe(),
		checkedNarrowingProbe(),
		nullableProbe(),
		personProbe(),
		enumProbe(),
		enumMatchProbe(),
		defaultsProbe(),
		overloadProbe(),
		identityProbe(),
		genericMapProbe(),
		capabilitiesProbe(log),
		namespaceProbe(),
		lengthAssertionProbe(),
		unionOKProbe(),
		unionErrProbe(),
		mappedProbe(),
		conditionalProbe(),
		utilityProbe(),
		asyncProbe(log, opts.AsyncDelay),
		decoratorProbe(log),
		symbolProbe(),
		generatorProbe(),
		bigIntProbe(),
		closureProbe(),
		optionProbe(),
		mayFailProbe(),
		drawableProbe(),
		iteratorProbe(),
		hashMapProbe(),
		unicodeProbe(),
	}
}

// Without drops the named probes, keeping the order of the rest.
func Without(probes []runner.Probe, skip []string) []runner.Probe {
	if len(skip) == 0 {
		return probes
	}
	drop := make(map[string]bool, len(skip))
	for _, name := range skip {
		drop[name] = true
	}
	kept := make([]runner.Probe, 0, len(probes))
	for _, p := range probes {
		if !drop[p.Name] {
			kept = append(kept, p)
		}
	}
	return kept
}
