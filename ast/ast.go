package ast

import (
	"strconv"
	"strings"
)

// Program is the postfix form of a whole source text, one Line per source
// line. The row index of Lines is the program counter.
type Program struct {
	Lines []Line
}

// Len returns the number of rows.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Lines)
}

func (p *Program) String() string {
	b := strings.Builder{}
	for i, line := range p.Lines {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(": ")
		b.WriteString(line.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Line is the instruction sequence of one source line.
type Line []Node

func (l Line) String() string {
	parts := make([]string, 0, len(l))
	for _, n := range l {
		if _, ok := n.(Nop); ok {
			continue
		}
		parts = append(parts, "["+nodeString(n)+"]")
	}
	return strings.Join(parts, " ")
}

type Node interface {
	isNode()
}

type Number struct {
	Value int64
}

func (Number) isNode() {}

type Variable struct {
	Name string
}

func (Variable) isNode() {}

// ArrayElem is built only by evaluating a Dereference.
type ArrayElem struct {
	Name  string
	Index int64
}

func (ArrayElem) isNode() {}

type Binary struct {
	Op Op
}

func (Binary) isNode() {}

type Assign struct{}

func (Assign) isNode() {}

type Dereference struct{}

func (Dereference) isNode() {}

type BranchKind int

const (
	BranchGoto BranchKind = iota
	BranchIf
	BranchWhile
	BranchElse
	BranchEndWhile
)

func (k BranchKind) String() string {
	switch k {
	case BranchGoto:
		return "goto"
	case BranchIf:
		return "if"
	case BranchWhile:
		return "while"
	case BranchElse:
		return "else"
	case BranchEndWhile:
		return "endwhile"
	default:
		return "branch(" + strconv.Itoa(int(k)) + ")"
	}
}

// Branch transfers control. Target is meaningful only when Resolved is set;
// a goto never carries a static target.
type Branch struct {
	Kind     BranchKind
	Target   int
	Resolved bool
}

func (Branch) isNode() {}

// Nop occupies label declarations and endif lines.
type Nop struct {
	Label string
}

func (Nop) isNode() {}

func nodeString(n Node) string {
	switch v := n.(type) {
	case Number:
		return strconv.FormatInt(v.Value, 10)
	case Variable:
		return v.Name
	case ArrayElem:
		return v.Name + "[" + strconv.FormatInt(v.Index, 10) + "]"
	case Binary:
		return v.Op.String()
	case Assign:
		return OpAssign.String()
	case Dereference:
		return OpDeref.String()
	case Branch:
		if v.Resolved {
			return v.Kind.String() + "->" + strconv.Itoa(v.Target)
		}
		return v.Kind.String()
	case Nop:
		return ""
	default:
		return "?"
	}
}

// NodeString renders a single node the way Line.String does, without brackets.
func NodeString(n Node) string {
	return nodeString(n)
}
