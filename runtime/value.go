package pruntime

import (
	"fmt"

	"github.com/gosuda/poliz/ast"
)

// Resolve returns the scalar an operand stands for: a number's literal or
// the current table value of a variable or array element.
func (vm *VM) Resolve(n ast.Node) (int64, error) {
	switch v := n.(type) {
	case ast.Number:
		return v.Value, nil
	case ast.Variable:
		return vm.state.Var(v.Name), nil
	case ast.ArrayElem:
		x, err := vm.state.Array(v.Name).Get(v.Index)
		if err != nil {
			return 0, fmt.Errorf("%s[%d]: %w", v.Name, v.Index, err)
		}
		return x, nil
	default:
		return 0, fmt.Errorf("%s is not a value", ast.NodeString(n))
	}
}

func (vm *VM) store(target ast.Node, v int64) error {
	switch t := target.(type) {
	case ast.Variable:
		vm.state.SetVar(t.Name, v)
		return nil
	case ast.ArrayElem:
		if err := vm.state.Array(t.Name).Set(t.Index, v); err != nil {
			return fmt.Errorf("%s[%d]: %w", t.Name, t.Index, err)
		}
		return nil
	default:
		return fmt.Errorf("cannot assign to %s", ast.NodeString(target))
	}
}

func truthy(v int64) bool {
	return v != 0
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
