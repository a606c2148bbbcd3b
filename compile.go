package poliz

import (
	"github.com/gosuda/poliz/ast"
	"github.com/gosuda/poliz/parser"
	pruntime "github.com/gosuda/poliz/runtime"
)

// Compile parses source lines against fresh symbol tables and builds a VM
// ready to run them.
func Compile(lines []string) (*pruntime.VM, error) {
	st := ast.NewState()
	program, err := parser.BuildProgram(lines, st)
	if err != nil {
		return nil, err
	}
	return pruntime.New(program, st), nil
}

// CompileSource splits src into lines and compiles them.
func CompileSource(src string) (*pruntime.VM, error) {
	return Compile(parser.SplitLines(src))
}

// Parse only returns the postfix program for tooling use.
func Parse(lines []string) (*ast.Program, error) {
	return parser.BuildProgram(lines, ast.NewState())
}
