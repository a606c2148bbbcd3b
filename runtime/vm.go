package pruntime

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosuda/poliz/ast"
)

// Sentinel is the result of an instruction that faulted.
const Sentinel int64 = -1

var ErrStepLimit = errors.New("step limit exceeded")

// Output is the scalar a line left on top of its stack.
type Output struct {
	Row   int
	Value int64
}

// Fault is a runtime fault. Faults do not stop the line that raised them.
type Fault struct {
	Row int
	Msg string
}

func (f Fault) Error() string {
	return fmt.Sprintf("line %d: %s", f.Row+1, f.Msg)
}

// Step is the outcome of evaluating one line.
type Step struct {
	Next   int
	Top    ast.Node
	HasTop bool
}

type VM struct {
	program    *ast.Program
	state      *ast.State
	outputs    []Output
	faults     []Fault
	outputHook func(Output)
	faultHook  func(Fault)
	traceHook  func(row int, line ast.Line)
	stepLimit  int
	row        int
}

// New binds a parsed program to the state it was parsed against.
func New(program *ast.Program, st *ast.State) *VM {
	if program == nil {
		program = &ast.Program{}
	}
	if st == nil {
		st = ast.NewState()
	}
	return &VM{
		program: program,
		state:   st,
	}
}

func (vm *VM) Program() *ast.Program {
	return vm.program
}

func (vm *VM) State() *ast.State {
	return vm.state
}

// SetOutputHook sends line results to fn instead of collecting them; Run
// and Outputs then report nothing.
func (vm *VM) SetOutputHook(fn func(Output)) {
	vm.outputHook = fn
}

// SetFaultHook sends faults to fn instead of collecting them.
func (vm *VM) SetFaultHook(fn func(Fault)) {
	vm.faultHook = fn
}

// SetTraceHook installs fn to be called before each line executes.
func (vm *VM) SetTraceHook(fn func(row int, line ast.Line)) {
	vm.traceHook = fn
}

// SetStepLimit bounds the number of lines Run executes; 0 means no bound.
func (vm *VM) SetStepLimit(n int) {
	vm.stepLimit = n
}

func (vm *VM) Outputs() []Output {
	return append([]Output(nil), vm.outputs...)
}

func (vm *VM) Faults() []Fault {
	return append([]Fault(nil), vm.faults...)
}

func (vm *VM) fault(format string, args ...any) {
	f := Fault{Row: vm.row, Msg: fmt.Sprintf(format, args...)}
	if vm.faultHook != nil {
		vm.faultHook(f)
		return
	}
	vm.faults = append(vm.faults, f)
}

// Run executes the program from row 0 until the program counter reaches the
// line count.
func (vm *VM) Run(ctx context.Context) ([]Output, error) {
	vm.outputs = vm.outputs[:0]
	vm.faults = vm.faults[:0]
	steps := 0
	for row := 0; row < vm.program.Len(); {
		if err := ctx.Err(); err != nil {
			return vm.Outputs(), fmt.Errorf("line %d: %w", row+1, err)
		}
		if vm.stepLimit > 0 && steps >= vm.stepLimit {
			return vm.Outputs(), fmt.Errorf("line %d: %w (%d)", row+1, ErrStepLimit, vm.stepLimit)
		}
		row = vm.EvaluateLine(row).Next
		steps++
	}
	return vm.Outputs(), nil
}

// EvaluateLine executes one row against a fresh operand stack and returns
// the row to execute next.
func (vm *VM) EvaluateLine(row int) Step {
	end := vm.program.Len()
	if row < 0 || row >= end {
		return Step{Next: end}
	}
	vm.row = row
	line := vm.program.Lines[row]
	if vm.traceHook != nil {
		vm.traceHook(row, line)
	}

	next := row + 1
	stack := make([]ast.Node, 0, len(line))
	for _, n := range line {
		switch v := n.(type) {
		case ast.Nop:
		case ast.Number, ast.Variable, ast.ArrayElem:
			stack = append(stack, v)
		case ast.Branch:
			next, stack = vm.jump(v, stack, row)
		case ast.Binary, ast.Assign, ast.Dereference:
			var res ast.Node
			res, stack = vm.apply(v, stack)
			stack = append(stack, res)
		default:
			vm.fault("unsupported instruction %T", n)
		}
	}

	step := Step{Next: next}
	if len(stack) > 0 {
		step.Top = stack[len(stack)-1]
		step.HasTop = true
		if num, ok := step.Top.(ast.Number); ok {
			out := Output{Row: row, Value: num.Value}
			if vm.outputHook != nil {
				vm.outputHook(out)
			} else {
				vm.outputs = append(vm.outputs, out)
			}
		}
	}
	return step
}

// jump computes the next row for a branch. Unresolvable targets halt the
// program by jumping to the line count.
func (vm *VM) jump(br ast.Branch, stack []ast.Node, row int) (int, []ast.Node) {
	halt := vm.program.Len()
	switch br.Kind {
	case ast.BranchGoto:
		if len(stack) == 0 {
			vm.fault("goto without label")
			return halt, stack
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		label, ok := top.(ast.Variable)
		if !ok {
			vm.fault("goto target %s is not a label", ast.NodeString(top))
			return halt, stack
		}
		target, ok := vm.state.Label(label.Name)
		if !ok {
			vm.fault("undefined label %q", label.Name)
			return halt, stack
		}
		return target, stack
	case ast.BranchIf, ast.BranchWhile:
		cond := false
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			v, err := vm.Resolve(top)
			if err != nil {
				vm.fault("%v", err)
			}
			cond = err == nil && truthy(v)
		}
		if cond {
			return row + 1, stack
		}
		return vm.target(br), stack
	case ast.BranchElse, ast.BranchEndWhile:
		return vm.target(br), stack
	default:
		vm.fault("unsupported branch %s", br.Kind)
		return halt, stack
	}
}

func (vm *VM) target(br ast.Branch) int {
	if !br.Resolved {
		vm.fault("%s branch has no target", br.Kind)
		return vm.program.Len()
	}
	return br.Target
}
