package runner

// Status represents the outcome of a probe execution.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
	// StatusInfo marks a presentation-only probe: it ran, but declares no expectation.
	StatusInfo Status = "info"
)

// Result represents the result of a single probe execution. It carries no
// timing, so two runs of a deterministic table produce equal results.
// Matches .featureprobe/run/probes/<probe>.json schema.
type Result struct {
	Probe  string `json:"probe" yaml:"probe" msgpack:"probe"`
	Status Status `json:"status" yaml:"status" msgpack:"status"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Diff   string `json:"diff,omitempty" yaml:"diff,omitempty" msgpack:"diff,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error,omitempty"`
}

// OK reports whether the result counts as successful for the exit status.
func (r Result) OK() bool {
	return r.Status == StatusPass || r.Status == StatusInfo
}

// Summary counts results per status.
type Summary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Info    int `json:"info"`
}

// LastRun represents the summary of the last execution.
// Matches .featureprobe/run/last-run.json schema.
type LastRun struct {
	Status  string   `json:"status"` // "pass" or "fail"
	Probes  []string `json:"probes"` // Ordered list of probes run
	Failed  []string `json:"failed"` // Probes that failed or errored
	Summary Summary  `json:"summary"`
}

// Summarize counts results and collects the names of unsuccessful probes in order.
func Summarize(results []Result) (Summary, []string) {
	var s Summary
	var bad []string
	for _, res := range results {
		switch res.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusError:
			s.Errored++
		case StatusInfo:
			s.Info++
		}
		if !res.OK() {
			bad = append(bad, res.Probe)
		}
	}
	return s, bad
}
