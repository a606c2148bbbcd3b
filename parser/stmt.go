package parser

import (
	"github.com/gosuda/poliz/ast"
)

// sequence parses statements until the end of input or a line that starts
// with one of the stop keywords. The stop line is left unconsumed and its
// keyword returned; found is false at the end of input.
func (p *parser) sequence(stop ...ast.Op) (ast.Op, bool, error) {
	for p.row < len(p.lines) {
		p.pos = 0
		kw, isKeyword := p.peekKeyword()
		if isKeyword {
			if _, err := p.label(); err != nil {
				return 0, false, err
			}
			for _, s := range stop {
				if kw == s {
					return kw, true, nil
				}
			}
		}
		var err error
		switch {
		case isKeyword && kw == ast.OpIf:
			err = p.ifBlock()
		case isKeyword && kw == ast.OpWhile:
			err = p.whileBlock()
		case isKeyword && (kw == ast.OpElse || kw == ast.OpEndif || kw == ast.OpEndwhile || kw == ast.OpThen):
			err = p.errorf("unexpected %s", kw)
		default:
			err = p.command()
		}
		if err != nil {
			return 0, false, err
		}
	}
	return 0, false, nil
}

// command parses a single-line statement: blank, goto, label or expression.
func (p *parser) command() error {
	switch {
	case p.isEndOfLine():
	case p.acceptKeyword(ast.OpGoto):
		if err := p.gotoStmt(); err != nil {
			return err
		}
	default:
		ok, err := p.label()
		if err != nil {
			return err
		}
		if !ok {
			if err := p.expression(); err != nil {
				return err
			}
		}
	}
	if !p.isEndOfLine() {
		return p.errorf("unexpected %q", p.rest())
	}
	p.commit()
	return nil
}

func (p *parser) gotoStmt() error {
	name := p.peekIdent()
	if name == "" {
		return p.errorf("goto without label")
	}
	if ast.IsReserved(name) {
		return p.errorf("goto to reserved word %q", name)
	}
	p.shift(len(name))
	if _, seen := p.labels[name]; !seen {
		p.labels[name] = ast.LabelTarget{}
		p.gotoRefs[name] = p.row
	}
	p.line = append(p.line, ast.Variable{Name: name}, ast.Branch{Kind: ast.BranchGoto})
	return nil
}

// label parses a `name:` declaration. It reports false, consuming nothing,
// when the line is not a label.
func (p *parser) label() (bool, error) {
	name := p.peekIdent()
	if name == "" {
		return false, nil
	}
	after := p.rest()[len(name):]
	colon := ast.OpColon.String()
	if len(after) < len(colon) || after[:len(colon)] != colon || (len(after) > len(colon) && after[len(colon)] == '=') {
		return false, nil
	}
	if ast.IsReserved(name) {
		return false, p.errorf("reserved word %q used as label", name)
	}
	if prev := p.labels[name]; prev.Defined {
		return false, p.errorf("label %q already declared on line %d", name, prev.Row+1)
	}
	p.labels[name] = ast.LabelTarget{Row: p.row, Defined: true}
	p.shift(len(name) + len(colon))
	p.line = append(p.line, ast.Nop{Label: name})
	return true, nil
}

// header parses `<keyword> <expr> then` and commits it ending in an
// unresolved branch of the given kind.
func (p *parser) header(kw ast.Op, kind ast.BranchKind) (int, error) {
	p.acceptKeyword(kw)
	if err := p.expression(); err != nil {
		return 0, err
	}
	if !p.acceptKeyword(ast.OpThen) {
		return 0, p.errorf("%s without then", kw)
	}
	if !p.isEndOfLine() {
		return 0, p.errorf("unexpected %q after then", p.rest())
	}
	p.line = append(p.line, ast.Branch{Kind: kind})
	return p.commit(), nil
}

// closer parses a line holding only kw.
func (p *parser) closer(kw ast.Op) error {
	p.acceptKeyword(kw)
	if !p.isEndOfLine() {
		return p.errorf("unexpected %q after %s", p.rest(), kw)
	}
	return nil
}

// ifBlock parses if/then[/else]/endif. The if branch jumps to the first row
// of the else body, or to the endif row when there is no else; the else
// branch jumps to the endif row.
func (p *parser) ifBlock() error {
	start := p.row
	pending, err := p.header(ast.OpIf, ast.BranchIf)
	if err != nil {
		return err
	}
	stop, found, err := p.sequence(ast.OpElse, ast.OpEndif)
	if err != nil {
		return err
	}
	if !found {
		return &SyntaxError{Line: start + 1, Msg: "if without endif"}
	}
	if stop == ast.OpElse {
		if err := p.closer(ast.OpElse); err != nil {
			return err
		}
		p.patch(pending, p.row+1)
		p.line = append(p.line, ast.Branch{Kind: ast.BranchElse})
		pending = p.commit()
		if _, found, err = p.sequence(ast.OpEndif); err != nil {
			return err
		}
		if !found {
			return &SyntaxError{Line: start + 1, Msg: "if without endif"}
		}
	}
	if err := p.closer(ast.OpEndif); err != nil {
		return err
	}
	p.line = append(p.line, ast.Nop{})
	end := p.commit()
	p.patch(pending, end)
	return nil
}

// whileBlock parses while/then/endwhile. The endwhile branch jumps back to
// the header row, whose branch exits to the row after endwhile.
func (p *parser) whileBlock() error {
	start := p.row
	head, err := p.header(ast.OpWhile, ast.BranchWhile)
	if err != nil {
		return err
	}
	_, found, err := p.sequence(ast.OpEndwhile)
	if err != nil {
		return err
	}
	if !found {
		return &SyntaxError{Line: start + 1, Msg: "while without endwhile"}
	}
	if err := p.closer(ast.OpEndwhile); err != nil {
		return err
	}
	p.line = append(p.line, ast.Branch{Kind: ast.BranchEndWhile, Target: head, Resolved: true})
	end := p.commit()
	p.patch(head, end+1)
	return nil
}
