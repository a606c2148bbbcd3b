package pruntime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gosuda/poliz/ast"
	"github.com/gosuda/poliz/parser"
	pruntime "github.com/gosuda/poliz/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, lines ...string) *pruntime.VM {
	t.Helper()
	st := ast.NewState()
	prog, err := parser.BuildProgram(lines, st)
	require.NoError(t, err)
	return pruntime.New(prog, st)
}

func run(t *testing.T, vm *pruntime.VM) []pruntime.Output {
	t.Helper()
	out, err := vm.Run(context.Background())
	require.NoError(t, err)
	return out
}

func values(out []pruntime.Output) []int64 {
	vs := make([]int64, 0, len(out))
	for _, o := range out {
		vs = append(vs, o.Value)
	}
	return vs
}

// trace records the rows in the order they execute.
func trace(vm *pruntime.VM) *[]int {
	rows := []int{}
	vm.SetTraceHook(func(row int, _ ast.Line) {
		rows = append(rows, row)
	})
	return &rows
}

func TestArithmetic(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want int64
	}{
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"8-3-2", 3},
		{"7/2", 3},
		{"0-7/2", -3},
		{"(0-7)%3", -1},
		{"1&&0", 0},
		{"2||0", 1},
		{"0||0", 0},
		{"6&3", 2},
		{"6|3", 7},
		{"6^3", 5},
		{"1<<4", 16},
		{"256>>4", 16},
		{"3==3", 1},
		{"3!=3", 0},
		{"2<=1", 0},
		{"2>=2", 1},
		{"1<2", 1},
		{"1>2", 0},
		{"x+1", 1},
	} {
		t.Run(tc.src, func(t *testing.T) {
			vm := compile(t, tc.src)
			assert.Equal(t, []int64{tc.want}, values(run(t, vm)))
			assert.Empty(t, vm.Faults())
		})
	}
}

func TestChainedAssignment(t *testing.T) {
	vm := compile(t, "a:=b:=5")
	out := run(t, vm)
	assert.Equal(t, []pruntime.Output{{Row: 0, Value: 5}}, out)
	assert.Equal(t, int64(5), vm.State().Var("a"))
	assert.Equal(t, int64(5), vm.State().Var("b"))
}

func TestArrayElements(t *testing.T) {
	vm := compile(t, "arr[2]:=9", "arr[2]", "arr[7]")

	step := vm.EvaluateLine(0)
	assert.Equal(t, 1, step.Next)
	assert.Equal(t, 3, vm.State().Array("arr").Len())

	step = vm.EvaluateLine(1)
	require.True(t, step.HasTop)
	assert.Equal(t, ast.ArrayElem{Name: "arr", Index: 2}, step.Top)
	v, err := vm.Resolve(step.Top)
	require.NoError(t, err)
	assert.Equal(t, int64(9), v)

	step = vm.EvaluateLine(2)
	v, err = vm.Resolve(step.Top)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
	assert.Equal(t, 3, vm.State().Array("arr").Len(), "reads do not grow")

	assert.Equal(t, []int64{9}, values(vm.Outputs()), "only numbers are printed")
}

func TestComputedIndex(t *testing.T) {
	vm := compile(t, "i:=1", "a[i+1]:=4", "a[a[2]-2]+0")
	out := run(t, vm)
	assert.Equal(t, []int64{1, 4, 4}, values(out))
	assert.Equal(t, map[string][]int64{"a": {0, 0, 4}}, vm.State().Snapshot().Arrays)
}

func TestVariableTopIsNotPrinted(t *testing.T) {
	vm := compile(t, "x:=3", "x")
	step := vm.EvaluateLine(1)
	require.True(t, step.HasTop)
	assert.Equal(t, ast.Variable{Name: "x"}, step.Top)
	assert.Empty(t, vm.Outputs())
}

func TestForwardGoto(t *testing.T) {
	vm := compile(t, "goto L", "x:=1", "L:", "x:=2")
	rows := trace(vm)
	run(t, vm)
	assert.Equal(t, int64(2), vm.State().Var("x"))
	assert.Equal(t, []int{0, 2, 3}, *rows)
}

func TestIfElse(t *testing.T) {
	for _, tc := range []struct {
		guard string
		want  int64
	}{
		{"0", 2},
		{"1", 1},
		{"5-5", 2},
		{"0-1", 1},
	} {
		t.Run(tc.guard, func(t *testing.T) {
			vm := compile(t, "if "+tc.guard+" then", "x:=1", "else", "x:=2", "endif")
			run(t, vm)
			assert.Equal(t, tc.want, vm.State().Var("x"))
		})
	}
}

func TestIfOnArrayElement(t *testing.T) {
	vm := compile(t, "a[0]:=1", "if a[0] then", "x:=5", "endif")
	run(t, vm)
	assert.Equal(t, int64(5), vm.State().Var("x"))
}

func TestWhileLoop(t *testing.T) {
	vm := compile(t, "i:=0", "while i<3 then", "i:=i+1", "endwhile")
	rows := trace(vm)
	out := run(t, vm)
	assert.Equal(t, int64(3), vm.State().Var("i"))

	body := 0
	for _, r := range *rows {
		if r == 2 {
			body++
		}
	}
	assert.Equal(t, 3, body)
	assert.Equal(t, []int64{0, 1, 2, 3}, values(out))
}

func TestBackwardGotoLoop(t *testing.T) {
	vm := compile(t,
		"n:=0",
		"top:",
		"n:=n+1",
		"if n<4 then",
		"goto top",
		"endif",
	)
	run(t, vm)
	assert.Equal(t, int64(4), vm.State().Var("n"))
}

func TestFaultsYieldSentinel(t *testing.T) {
	for _, tc := range []struct {
		src string
		msg string
	}{
		{"5/0", "division by zero"},
		{"5%0", "modulo by zero"},
		{"1<<(0-1)", "negative shift count"},
		{"a[0-1]:=3", "array index out of range"},
		{"a[0-1]+0", "array index out of range"},
	} {
		t.Run(tc.src, func(t *testing.T) {
			vm := compile(t, tc.src)
			out := run(t, vm)
			assert.Equal(t, []int64{pruntime.Sentinel}, values(out))
			faults := vm.Faults()
			require.NotEmpty(t, faults)
			assert.Contains(t, faults[0].Msg, tc.msg)
			assert.Equal(t, 0, faults[0].Row)
		})
	}
}

func TestFaultDoesNotStopLine(t *testing.T) {
	vm := compile(t, "x:=1/0", "y:=x+2")
	out := run(t, vm)
	assert.Equal(t, []int64{-1, 1}, values(out))
	assert.Equal(t, int64(-1), vm.State().Var("x"))
	require.Len(t, vm.Faults(), 1)
	assert.Equal(t, "line 1: division by zero", vm.Faults()[0].Error())
}

func TestAssignToNumberFaults(t *testing.T) {
	prog := &ast.Program{Lines: []ast.Line{
		{ast.Number{Value: 5}, ast.Number{Value: 3}, ast.Assign{}},
	}}
	vm := pruntime.New(prog, nil)
	var hooked []pruntime.Fault
	vm.SetFaultHook(func(f pruntime.Fault) { hooked = append(hooked, f) })

	out := run(t, vm)
	assert.Equal(t, []int64{pruntime.Sentinel}, values(out))
	require.Len(t, hooked, 1)
	assert.Contains(t, hooked[0].Msg, "cannot assign to 5")
}

func TestHandBuiltFaults(t *testing.T) {
	for _, tc := range []struct {
		name string
		line ast.Line
		msg  string
		halt bool
	}{
		{
			name: "index a number",
			line: ast.Line{ast.Number{Value: 1}, ast.Number{Value: 0}, ast.Dereference{}},
			msg:  "cannot index 1",
		},
		{
			name: "goto a number",
			line: ast.Line{ast.Number{Value: 3}, ast.Branch{Kind: ast.BranchGoto}},
			msg:  "goto target 3 is not a label",
			halt: true,
		},
		{
			name: "goto nothing",
			line: ast.Line{ast.Branch{Kind: ast.BranchGoto}},
			msg:  "goto without label",
			halt: true,
		},
		{
			name: "unresolved else",
			line: ast.Line{ast.Branch{Kind: ast.BranchElse}},
			msg:  "else branch has no target",
			halt: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prog := &ast.Program{Lines: []ast.Line{tc.line, {ast.Number{Value: 9}}}}
			vm := pruntime.New(prog, nil)
			step := vm.EvaluateLine(0)
			if tc.halt {
				assert.Equal(t, prog.Len(), step.Next)
				assert.False(t, step.HasTop)
			} else {
				assert.Equal(t, 1, step.Next)
				assert.Equal(t, ast.Number{Value: pruntime.Sentinel}, step.Top)
			}
			require.Len(t, vm.Faults(), 1)
			assert.Contains(t, vm.Faults()[0].Msg, tc.msg)
		})
	}
}

func TestSingleOperandPassesThrough(t *testing.T) {
	prog := &ast.Program{Lines: []ast.Line{
		{ast.Number{Value: 4}, ast.Binary{Op: ast.OpPlus}},
		{ast.Binary{Op: ast.OpMinus}},
	}}
	vm := pruntime.New(prog, nil)
	out := run(t, vm)
	assert.Equal(t, []int64{4, pruntime.Sentinel}, values(out))
	require.Len(t, vm.Faults(), 1)
	assert.Equal(t, 1, vm.Faults()[0].Row)
}

func TestEmptyGuardIsFalse(t *testing.T) {
	prog := &ast.Program{Lines: []ast.Line{
		{ast.Branch{Kind: ast.BranchIf, Target: 2, Resolved: true}},
		{ast.Variable{Name: "x"}, ast.Number{Value: 1}, ast.Assign{}},
		{ast.Nop{}},
	}}
	vm := pruntime.New(prog, nil)
	assert.Equal(t, 2, vm.EvaluateLine(0).Next)
}

func TestUndefinedLabelHalts(t *testing.T) {
	prog := &ast.Program{Lines: []ast.Line{
		{ast.Variable{Name: "nowhere"}, ast.Branch{Kind: ast.BranchGoto}},
		{ast.Number{Value: 1}},
	}}
	vm := pruntime.New(prog, nil)
	step := vm.EvaluateLine(0)
	assert.Equal(t, prog.Len(), step.Next)
	require.Len(t, vm.Faults(), 1)
	assert.Contains(t, vm.Faults()[0].Msg, `undefined label "nowhere"`)
}

func TestEvaluateLineOutOfRange(t *testing.T) {
	vm := compile(t, "1")
	assert.Equal(t, 1, vm.EvaluateLine(5).Next)
	assert.Equal(t, 1, vm.EvaluateLine(-1).Next)
	assert.Empty(t, vm.Outputs())
}

func TestStepLimit(t *testing.T) {
	vm := compile(t, "L:", "goto L")
	vm.SetStepLimit(10)
	_, err := vm.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pruntime.ErrStepLimit))
}

func TestRunHonoursContext(t *testing.T) {
	vm := compile(t, "L:", "goto L")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := vm.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = vm.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOutputHook(t *testing.T) {
	vm := compile(t, "x:=2", "", "x*3")
	var got []pruntime.Output
	vm.SetOutputHook(func(o pruntime.Output) { got = append(got, o) })
	out := run(t, vm)
	assert.Equal(t, []pruntime.Output{{Row: 0, Value: 2}, {Row: 2, Value: 6}}, got)
	assert.Empty(t, out)
	assert.Empty(t, vm.Outputs())
}

func TestHookedRunRetainsNothing(t *testing.T) {
	vm := compile(t, "i:=0", "while i<50000 then", "i:=i+1", "x:=i/0", "endwhile")
	outputs, faults := 0, 0
	vm.SetOutputHook(func(pruntime.Output) { outputs++ })
	vm.SetFaultHook(func(pruntime.Fault) { faults++ })

	out := run(t, vm)
	assert.Empty(t, out)
	assert.Empty(t, vm.Outputs())
	assert.Empty(t, vm.Faults())
	assert.Equal(t, 1+2*50000, outputs)
	assert.Equal(t, 50000, faults)
}

func TestRunResetsOutputs(t *testing.T) {
	vm := compile(t, "x:=x+1")
	run(t, vm)
	out := run(t, vm)
	assert.Equal(t, []int64{2}, values(out), "tables persist between runs")
}
