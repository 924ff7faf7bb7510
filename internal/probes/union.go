package probes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/bartekus/featureprobe/internal/runner"
)

// ErrTaskFailed is carried by the failure arm of TaskResult.
var ErrTaskFailed = errors.New("fail")

// TaskResult is discriminated by OK: Value is set when true, Err when false.
type TaskResult struct {
	OK    bool
	Value string
	Err   error
}

// DoTask returns the success arm when flag is set, the failure arm otherwise.
func DoTask(flag bool) TaskResult {
	if flag {
		return TaskResult{OK: true, Value: "done"}
	}
	return TaskResult{OK: false, Err: ErrTaskFailed}
}

// Describe handles both arms of the union.
func (r TaskResult) Describe() string {
	if r.OK {
		return "value: " + r.Value
	}
	return "error: " + r.Err.Error()
}

func unionOKProbe() runner.Probe {
	return runner.Probe{
		Name:   "union:result-ok",
		Doc:    "discriminated union, success arm",
		Action: func(context.Context) (any, error) { return DoTask(true), nil },
		Expect: TaskResult{OK: true, Value: "done"},
		// Err is nil on this arm; EquateErrors keeps cmp away from error internals.
		Compare: runner.Equal(cmpopts.EquateErrors()),
	}
}

func unionErrProbe() runner.Probe {
	return runner.Probe{
		Name:    "union:result-err",
		Doc:     "discriminated union, failure arm",
		Action:  func(context.Context) (any, error) { return DoTask(false), nil },
		Expect:  TaskResult{OK: false, Err: ErrTaskFailed},
		Compare: runner.Equal(cmpopts.EquateErrors()),
	}
}

// MayFail is the Result<i32, &str> example: 1 on success, an error otherwise.
func MayFail(ok bool) (int, error) {
	if ok {
		return 1, nil
	}
	return 0, errors.New("fail")
}

func mayFailProbe() runner.Probe {
	return runner.Probe{
		Name: "result:may-fail",
		Doc:  "match on Ok / Err",
		Action: func(context.Context) (any, error) {
			var out []string
			for _, ok := range []bool{true, false} {
				if v, err := MayFail(ok); err != nil {
					out = append(out, "Error: "+err.Error())
				} else {
					out = append(out, fmt.Sprintf("Success: %d", v))
				}
			}
			return out, nil
		},
		Expect: []string{"Success: 1", "Error: fail"},
	}
}
