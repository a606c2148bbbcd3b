package pruntime

import (
	"fmt"

	"github.com/gosuda/poliz/ast"
)

func evalBinary(op ast.Op, left, right int64) (int64, error) {
	switch op {
	case ast.OpOr:
		return boolInt(truthy(left) || truthy(right)), nil
	case ast.OpAnd:
		return boolInt(truthy(left) && truthy(right)), nil
	case ast.OpBitOr:
		return left | right, nil
	case ast.OpXor:
		return left ^ right, nil
	case ast.OpBitAnd:
		return left & right, nil
	case ast.OpEq:
		return boolInt(left == right), nil
	case ast.OpNeq:
		return boolInt(left != right), nil
	case ast.OpLeq:
		return boolInt(left <= right), nil
	case ast.OpLt:
		return boolInt(left < right), nil
	case ast.OpGeq:
		return boolInt(left >= right), nil
	case ast.OpGt:
		return boolInt(left > right), nil
	case ast.OpShl:
		if right < 0 {
			return 0, fmt.Errorf("negative shift count %d", right)
		}
		return left << uint64(right), nil
	case ast.OpShr:
		if right < 0 {
			return 0, fmt.Errorf("negative shift count %d", right)
		}
		return left >> uint64(right), nil
	case ast.OpPlus:
		return left + right, nil
	case ast.OpMinus:
		return left - right, nil
	case ast.OpMult:
		return left * right, nil
	case ast.OpDiv:
		if right == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return left / right, nil
	case ast.OpMod:
		if right == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return left % right, nil
	default:
		return 0, fmt.Errorf("unsupported binary operator %q", op)
	}
}

// apply pops the operands of op, computes its result and returns it with the
// remaining stack. Faults yield the sentinel -1 so the line keeps running.
func (vm *VM) apply(op ast.Node, stack []ast.Node) (ast.Node, []ast.Node) {
	if len(stack) == 0 {
		vm.fault("%s: missing operand", ast.NodeString(op))
		return ast.Number{Value: Sentinel}, stack
	}
	right := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	rv, err := vm.Resolve(right)
	if err != nil {
		vm.fault("%v", err)
		rv = Sentinel
	}
	if len(stack) == 0 {
		return ast.Number{Value: rv}, stack
	}
	left := stack[len(stack)-1]
	stack = stack[:len(stack)-1]

	switch o := op.(type) {
	case ast.Assign:
		if err := vm.store(left, rv); err != nil {
			vm.fault("%v", err)
			return ast.Number{Value: Sentinel}, stack
		}
		return ast.Number{Value: rv}, stack
	case ast.Dereference:
		v, ok := left.(ast.Variable)
		if !ok {
			vm.fault("cannot index %s", ast.NodeString(left))
			return ast.Number{Value: Sentinel}, stack
		}
		return ast.ArrayElem{Name: v.Name, Index: rv}, stack
	case ast.Binary:
		lv, err := vm.Resolve(left)
		if err != nil {
			vm.fault("%v", err)
			return ast.Number{Value: Sentinel}, stack
		}
		res, err := evalBinary(o.Op, lv, rv)
		if err != nil {
			vm.fault("%v", err)
			return ast.Number{Value: Sentinel}, stack
		}
		return ast.Number{Value: res}, stack
	default:
		vm.fault("unsupported instruction %s", ast.NodeString(op))
		return ast.Number{Value: Sentinel}, stack
	}
}
