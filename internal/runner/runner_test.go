package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProbe builds a Probe whose action records that it was called.
type mockProbe struct {
	name   string
	value  any
	err    error
	expect any
	called int
}

func (m *mockProbe) Probe() Probe {
	return Probe{
		Name: m.name,
		Action: func(ctx context.Context) (any, error) {
			m.called++
			return m.value, m.err
		},
		Expect: m.expect,
	}
}

func names(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Probe)
	}
	return out
}

func TestRunner_Run_PreservesOrderAndLength(t *testing.T) {
	p1 := &mockProbe{name: "p1", value: 1, expect: 1}
	p2 := &mockProbe{name: "p2", value: "x", expect: "x"}
	p3 := &mockProbe{name: "p3", value: true, expect: true}
	table := []Probe{p3.Probe(), p1.Probe(), p2.Probe()}

	results, err := NewRunner(table, nil, nil).Run(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, []string{"p3", "p1", "p2"}, names(results))
	for _, r := range results {
		assert.Equal(t, StatusPass, r.Status, r.Probe)
	}
}

func TestRunner_Run_FailureIsolation(t *testing.T) {
	failing := &mockProbe{name: "fail", value: 2, expect: 3}
	erroring := &mockProbe{name: "error", err: errors.New("boom")}
	panicking := Probe{Name: "panic", Action: func(context.Context) (any, error) { panic("kaboom") }, Expect: 1}
	last := &mockProbe{name: "last", value: 7, expect: 7}

	table := []Probe{failing.Probe(), erroring.Probe(), panicking, last.Probe()}
	results, err := NewRunner(table, nil, nil).Run(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, StatusFail, results[0].Status)
	assert.NotEmpty(t, results[0].Diff)

	assert.Equal(t, StatusError, results[1].Status)
	assert.Equal(t, "boom", results[1].Error)

	assert.Equal(t, StatusError, results[2].Status)
	assert.Contains(t, results[2].Error, "kaboom")

	assert.Equal(t, 1, last.called)
	assert.Equal(t, StatusPass, results[3].Status)
	assert.Equal(t, "7", results[3].Value)
}

func TestRunner_Run_PresentationOnly(t *testing.T) {
	p := &mockProbe{name: "show", value: 123}
	table := []Probe{p.Probe()}

	results, err := NewRunner(table, nil, nil).Run(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, StatusInfo, results[0].Status)
	assert.True(t, results[0].OK())
}

func TestRunner_Run_CustomComparator(t *testing.T) {
	table := []Probe{{
		Name:    "approx",
		Action:  func(context.Context) (any, error) { return 0.1 + 0.2, nil },
		Expect:  0.3,
		Compare: Equal(cmpopts.EquateApprox(0, 1e-9)),
	}}

	results, err := NewRunner(table, nil, nil).Run(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, StatusPass, results[0].Status)
}

type opaque struct {
	n     int
	label string
}

func TestRunner_Run_ComparesUnexportedFields(t *testing.T) {
	same := &mockProbe{name: "same", value: opaque{n: 5, label: "x"}, expect: opaque{n: 5, label: "x"}}
	other := &mockProbe{name: "other", value: opaque{n: 5, label: "x"}, expect: opaque{n: 6, label: "x"}}
	table := []Probe{same.Probe(), other.Probe()}

	results, err := NewRunner(table, nil, nil).Run(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, StatusPass, results[0].Status, results[0].Error)
	assert.Equal(t, StatusFail, results[1].Status, results[1].Error)
	assert.Contains(t, results[1].Diff, "n:")
	assert.Empty(t, results[1].Error)
}

func TestRunner_Run_ComparatorPanicIsFailure(t *testing.T) {
	table := []Probe{{
		Name:    "broken-compare",
		Action:  func(context.Context) (any, error) { return 1, nil },
		Expect:  1,
		Compare: func(want, got any) (bool, string) { panic("no comparer") },
	}}

	results, err := NewRunner(table, nil, nil).Run(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, StatusFail, results[0].Status)
	assert.Contains(t, results[0].Diff, "no comparer")
	assert.Equal(t, "1", results[0].Value)
	assert.Empty(t, results[0].Error)
}

func TestRunner_Run_Idempotent(t *testing.T) {
	table := []Probe{
		(&mockProbe{name: "a", value: []int{0, 1, 2}, expect: []int{0, 1, 2}}).Probe(),
		(&mockProbe{name: "b", value: 1, expect: 2}).Probe(),
		(&mockProbe{name: "c", err: errors.New("nope")}).Probe(),
	}
	r := NewRunner(table, nil, nil)

	first, err := r.Run(context.Background(), table)
	require.NoError(t, err)
	second, err := r.Run(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunner_Run_DuplicateNamesIsSetupFault(t *testing.T) {
	a := &mockProbe{name: "dup", value: 1, expect: 1}
	b := &mockProbe{name: "dup", value: 2, expect: 2}
	table := []Probe{a.Probe(), b.Probe()}

	results, err := NewRunner(table, nil, nil).Run(context.Background(), table)
	require.Error(t, err)
	assert.Nil(t, results)

	var fault *SetupFault
	require.ErrorAs(t, err, &fault)
	assert.Len(t, fault.Issues(), 1)
	assert.Zero(t, a.called, "no probe may run before the table is validated")
	assert.Zero(t, b.called)
}

func TestRunner_Run_MalformedTableCollectsIssues(t *testing.T) {
	table := []Probe{
		{Name: "", Action: func(context.Context) (any, error) { return nil, nil }},
		{Name: "no-action"},
	}
	_, err := NewRunner(table, nil, nil).Run(context.Background(), table)

	var fault *SetupFault
	require.ErrorAs(t, err, &fault)
	assert.Len(t, fault.Issues(), 2)
}

func TestRunner_Run_EmptyTable(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Run(context.Background(), nil)

	var fault *SetupFault
	require.ErrorAs(t, err, &fault)
	assert.ErrorIs(t, err, errEmptyTable)
}

func TestRunner_RunAll(t *testing.T) {
	store := NewStateStore(t.TempDir())

	s1 := &mockProbe{name: "s1", value: 1, expect: 1}
	s2 := &mockProbe{name: "s2", value: 2, expect: 2}

	r := NewRunner([]Probe{s1.Probe(), s2.Probe()}, store, &Deps{})

	_, err := r.RunAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, s1.called)
	assert.Equal(t, 1, s2.called)

	// Verify state
	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, "pass", last.Status)
	assert.Equal(t, []string{"s1", "s2"}, last.Probes)
	assert.Empty(t, last.Failed)
	assert.Equal(t, Summary{Passed: 2}, last.Summary)

	res, err := store.ReadProbeResult("s2")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, StatusPass, res.Status)
}

func TestRunner_RunAll_Failure(t *testing.T) {
	store := NewStateStore(t.TempDir())

	s1 := &mockProbe{name: "s1", value: 1, expect: 2}
	s2 := &mockProbe{name: "s2", value: 2, expect: 2}

	r := NewRunner([]Probe{s1.Probe(), s2.Probe()}, store, &Deps{})

	results, err := r.RunAll(context.Background())
	require.Error(t, err) // Should return error on failure
	assert.Len(t, results, 2)

	var failed *FailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, []string{"s1"}, failed.Probes)

	assert.Equal(t, 1, s2.called) // Should continue despite failure

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, "fail", last.Status)
	assert.Equal(t, []string{"s1"}, last.Failed)
}

func TestRunner_RunList(t *testing.T) {
	s1 := &mockProbe{name: "s1", value: 1, expect: 1}
	s2 := &mockProbe{name: "s2", value: 2, expect: 2}
	r := NewRunner([]Probe{s1.Probe(), s2.Probe()}, nil, nil)

	results, err := r.RunList(context.Background(), []string{"s2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, names(results))
	assert.Zero(t, s1.called)

	_, err = r.RunList(context.Background(), []string{"missing"})
	assert.EqualError(t, err, "probe not found: missing")
}

func TestRunner_Resume(t *testing.T) {
	store := NewStateStore(t.TempDir())

	// Seed failure
	err := store.WriteLastRun(LastRun{
		Status: "fail",
		Probes: []string{"s1", "s2", "gone"},
		Failed: []string{"s2", "gone"},
	})
	require.NoError(t, err)

	s1 := &mockProbe{name: "s1", value: 1, expect: 1}
	s2 := &mockProbe{name: "s2", value: 2, expect: 2} // it passes this time

	r := NewRunner([]Probe{s1.Probe(), s2.Probe()}, store, &Deps{})

	_, err = r.Resume(context.Background())
	require.NoError(t, err)

	assert.Zero(t, s1.called) // Should NOT run s1
	assert.Equal(t, 1, s2.called)

	// The resumed run replaces the recorded state.
	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, "pass", last.Status)
	assert.Equal(t, []string{"s2"}, last.Probes)

	// Nothing left to resume.
	results, err := r.Resume(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1, s2.called)
}

func TestRunner_Resume_NeedsStore(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Resume(context.Background())
	assert.Error(t, err)
}
