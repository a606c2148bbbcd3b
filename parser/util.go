package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gosuda/poliz/ast"
)

func (p *parser) rest() string {
	if p.row >= len(p.lines) {
		return ""
	}
	return p.lines[p.row][p.pos:]
}

func (p *parser) skipSpaces() {
	line := p.lines[p.row]
	for p.pos < len(line) && (line[p.pos] == ' ' || line[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) shift(n int) {
	p.pos += n
}

// hasPrefix skips spaces and reports whether s is next.
func (p *parser) hasPrefix(s string) bool {
	p.skipSpaces()
	return strings.HasPrefix(p.rest(), s)
}

func (p *parser) accept(s string) bool {
	if p.hasPrefix(s) {
		p.shift(len(s))
		return true
	}
	return false
}

func (p *parser) isEndOfLine() bool {
	p.skipSpaces()
	return p.pos == len(p.lines[p.row])
}

// peekIdent returns the identifier at the cursor without consuming it.
func (p *parser) peekIdent() string {
	p.skipSpaces()
	rest := p.rest()
	for i, r := range rest {
		if i == 0 {
			if !isIdentStart(r) {
				return ""
			}
			continue
		}
		if !isIdentPart(r) {
			return rest[:i]
		}
	}
	return rest
}

// peekKeyword returns the keyword at the cursor, if the next identifier is one.
func (p *parser) peekKeyword() (ast.Op, bool) {
	return ast.Keyword(p.peekIdent())
}

func (p *parser) acceptKeyword(op ast.Op) bool {
	if p.peekIdent() != op.String() {
		return false
	}
	p.shift(len(op.String()))
	return true
}

// peekNumber returns the run of decimal digits at the cursor.
func (p *parser) peekNumber() string {
	p.skipSpaces()
	rest := p.rest()
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	return rest[:i]
}

func (p *parser) peekRune() rune {
	p.skipSpaces()
	r, _ := utf8.DecodeRuneInString(p.rest())
	return r
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
