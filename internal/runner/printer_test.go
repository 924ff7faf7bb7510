package runner

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/featureprobe/internal/testutil/golden"
)

func TestPrinter_Golden(t *testing.T) {
	var b bytes.Buffer
	p := NewPrinter(&b, false)

	p.Begin([]Probe{{Name: "generic:identity"}, {Name: "async:fetch"}, {Name: "namespace:utils"}, {Name: "symbol:keyed"}})
	p.Result(Result{Probe: "generic:identity", Status: StatusPass, Value: "7"})
	p.Result(Result{Probe: "async:fetch", Status: StatusError, Error: "context deadline exceeded"})
	p.Result(Result{Probe: "namespace:utils", Status: StatusFail, Diff: "-want\n+got\n"})
	p.Result(Result{Probe: "symbol:keyed", Status: StatusInfo, Value: "123"})
	p.Summary(Summary{Passed: 1, Failed: 1, Errored: 1, Info: 1}, []string{"async:fetch", "namespace:utils"})

	golden.Equal(t, golden.TestdataDir(t), "printer", b.String())
}

func TestPrinter_NilIsSilent(t *testing.T) {
	var p *Printer
	assert.NotPanics(t, func() {
		p.Begin([]Probe{{Name: "x"}})
		p.Result(Result{Probe: "x", Status: StatusPass})
		p.Summary(Summary{}, nil)
	})
}

func TestRunner_WritesOneLinePerProbe(t *testing.T) {
	var b bytes.Buffer
	table := []Probe{
		(&mockProbe{name: "one", value: 1, expect: 1}).Probe(),
		(&mockProbe{name: "two", value: 2, expect: 2}).Probe(),
	}
	r := NewRunner(table, nil, &Deps{Printer: NewPrinter(&b, false)})

	_, err := r.RunAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "PASS   one  1\nPASS   two  2\n\n2 passed, 0 failed, 0 errored, 0 info\n", b.String())
}
