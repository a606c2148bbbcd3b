package parser

import (
	"fmt"
	"sort"

	"github.com/gosuda/poliz/ast"
)

// SyntaxError reports the 1-based source line a parse failed on.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: line %d: %s", e.Line, e.Msg)
}

// BuildProgram parses lines into their postfix form. Declared labels are
// copied into st only when the whole parse succeeds; on failure nothing is
// kept and st is left as it was.
func BuildProgram(lines []string, st *ast.State) (*ast.Program, error) {
	p := newParser(lines)
	if err := p.program(); err != nil {
		return nil, err
	}
	if st != nil {
		for name, target := range p.labels {
			st.Labels[name] = target
		}
	}
	return p.prog, nil
}

type parser struct {
	lines    []string
	row      int
	pos      int
	opers    []ast.Op
	line     ast.Line
	prog     *ast.Program
	labels   map[string]ast.LabelTarget
	gotoRefs map[string]int
}

func newParser(lines []string) *parser {
	return &parser{
		lines:    lines,
		prog:     &ast.Program{Lines: make([]ast.Line, 0, len(lines))},
		labels:   map[string]ast.LabelTarget{},
		gotoRefs: map[string]int{},
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.row + 1, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) program() error {
	if _, _, err := p.sequence(); err != nil {
		return err
	}
	return p.checkLabels()
}

// checkLabels rejects gotos whose label was never declared, reporting the
// earliest referencing line.
func (p *parser) checkLabels() error {
	missing := make([]string, 0)
	for name, target := range p.labels {
		if !target.Defined {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Slice(missing, func(i, j int) bool {
		ri, rj := p.gotoRefs[missing[i]], p.gotoRefs[missing[j]]
		if ri != rj {
			return ri < rj
		}
		return missing[i] < missing[j]
	})
	name := missing[0]
	return &SyntaxError{Line: p.gotoRefs[name] + 1, Msg: fmt.Sprintf("undefined label %q", name)}
}

// commit appends the line under construction to the program and moves the
// cursor to the next source line. It returns the committed row.
func (p *parser) commit() int {
	row := len(p.prog.Lines)
	p.prog.Lines = append(p.prog.Lines, p.line)
	p.line = nil
	p.opers = p.opers[:0]
	p.row++
	p.pos = 0
	return row
}

// patch resolves the branch that ends row.
func (p *parser) patch(row, target int) {
	line := p.prog.Lines[row]
	br := line[len(line)-1].(ast.Branch)
	br.Target = target
	br.Resolved = true
	line[len(line)-1] = br
}
