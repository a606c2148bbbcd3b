package parser

import (
	"strconv"

	"github.com/gosuda/poliz/ast"
)

// expression parses operands and operators into p.line in postfix order.
// Operators wait on p.opers until one of lower priority (or the end of the
// expression) pushes them out. Bracket markers on p.opers have NoPriority, so
// a nested expression drains only down to its own bracket.
func (p *parser) expression() error {
	for {
		lvalue, err := p.operand()
		if err != nil {
			return err
		}
		op, ok := p.operator(lvalue)
		if !ok {
			break
		}
		p.pushOperator(op)
	}
	p.drainOperators()
	return nil
}

// operand parses a number, a variable with an optional subscript, or a
// bracketed expression. It reports whether the operand can be assigned to.
func (p *parser) operand() (bool, error) {
	if digits := p.peekNumber(); digits != "" {
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return false, p.errorf("invalid number %s", digits)
		}
		p.shift(len(digits))
		p.line = append(p.line, ast.Number{Value: v})
		return false, nil
	}
	if name := p.peekIdent(); name != "" {
		if ast.IsReserved(name) {
			return false, p.errorf("unexpected keyword %q", name)
		}
		p.shift(len(name))
		p.line = append(p.line, ast.Variable{Name: name})
		if p.accept(ast.OpLQBracket.String()) {
			if err := p.nested(ast.OpLQBracket, ast.OpRQBracket); err != nil {
				return false, err
			}
			p.line = append(p.line, ast.Dereference{})
		}
		return true, nil
	}
	if p.accept(ast.OpLBracket.String()) {
		return false, p.nested(ast.OpLBracket, ast.OpRBracket)
	}
	if p.isEndOfLine() {
		return false, p.errorf("missing operand")
	}
	return false, p.errorf("unexpected %q", string(p.peekRune()))
}

// nested parses the inside of a bracket pair whose opening bracket has
// already been consumed.
func (p *parser) nested(open, closing ast.Op) error {
	p.opers = append(p.opers, open)
	if err := p.expression(); err != nil {
		return err
	}
	if !p.accept(closing.String()) {
		return p.errorf("expected %q", closing.String())
	}
	for len(p.opers) > 0 {
		top := p.opers[len(p.opers)-1]
		p.opers = p.opers[:len(p.opers)-1]
		if top == open {
			return nil
		}
		p.emit(top)
	}
	return p.errorf("unbalanced %q", closing.String())
}

// operator matches an operator at the cursor. Assignment is only accepted
// after an lvalue. Binary operators are tried in table order so that longer
// spellings win over their prefixes.
func (p *parser) operator(lvalue bool) (ast.Op, bool) {
	if lvalue && p.accept(ast.OpAssign.String()) {
		return ast.OpAssign, true
	}
	for _, op := range ast.BinaryOps() {
		if p.accept(op.String()) {
			return op, true
		}
	}
	return 0, false
}

// pushOperator drains operators that bind at least as tightly (strictly
// tighter for the right-associative assignment) and pushes op.
func (p *parser) pushOperator(op ast.Op) {
	prio := op.Priority()
	for len(p.opers) > 0 {
		top := p.opers[len(p.opers)-1]
		if op == ast.OpAssign {
			if top.Priority() <= prio {
				break
			}
		} else if top.Priority() < prio {
			break
		}
		p.opers = p.opers[:len(p.opers)-1]
		p.emit(top)
	}
	p.opers = append(p.opers, op)
}

func (p *parser) drainOperators() {
	for len(p.opers) > 0 {
		top := p.opers[len(p.opers)-1]
		if top.Priority() < 0 {
			return
		}
		p.opers = p.opers[:len(p.opers)-1]
		p.emit(top)
	}
}

func (p *parser) emit(op ast.Op) {
	if op == ast.OpAssign {
		p.line = append(p.line, ast.Assign{})
		return
	}
	p.line = append(p.line, ast.Binary{Op: op})
}
