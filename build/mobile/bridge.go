package mobile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gosuda/poliz"
	pruntime "github.com/gosuda/poliz/runtime"
)

// DefaultMaxSteps bounds runs started through the bridge when the caller
// gives no limit.
const DefaultMaxSteps = 1000000

type outputPayload struct {
	Line  int   `json:"line"`
	Value int64 `json:"value"`
}

type runResult struct {
	Outputs []outputPayload    `json:"outputs"`
	Faults  []string           `json:"faults,omitempty"`
	Vars    map[string]int64   `json:"vars,omitempty"`
	Arrays  map[string][]int64 `json:"arrays,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// Run executes program text and returns a JSON result holding the printed
// values, runtime faults and the final variable and array tables.
func Run(source string, maxSteps int) string {
	result := runResult{Outputs: []outputPayload{}}
	if strings.TrimSpace(source) == "" {
		result.Error = "empty program"
		return marshal(result)
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	vm, err := poliz.CompileSource(source)
	if err != nil {
		result.Error = fmt.Sprintf("compile: %v", err)
		return marshal(result)
	}
	vm.SetStepLimit(maxSteps)
	vm.SetFaultHook(func(f pruntime.Fault) {
		result.Faults = append(result.Faults, f.Error())
	})

	out, err := vm.Run(context.Background())
	for _, o := range out {
		result.Outputs = append(result.Outputs, outputPayload{Line: o.Row + 1, Value: o.Value})
	}
	if err != nil {
		result.Error = fmt.Sprintf("runtime: %v", err)
	}
	snap := vm.State().Snapshot()
	result.Vars = snap.Vars
	result.Arrays = snap.Arrays
	return marshal(result)
}

func marshal(result runResult) string {
	b, _ := json.Marshal(result)
	return string(b)
}
