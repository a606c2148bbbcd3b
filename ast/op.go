package ast

// Op is an operator or keyword kind.
type Op int

const (
	OpIf Op = iota
	OpThen
	OpElse
	OpEndif
	OpWhile
	OpEndwhile
	OpGoto
	OpAssign
	OpColon
	OpLBracket
	OpRBracket
	OpLQBracket
	OpRQBracket
	OpDeref
	OpOr
	OpAnd
	OpBitOr
	OpXor
	OpBitAnd
	OpEq
	OpNeq
	OpLeq
	OpShl
	OpLt
	OpGeq
	OpShr
	OpGt
	OpPlus
	OpMinus
	OpMult
	OpDiv
	OpMod
	opCount
)

// NoPriority marks brackets and keywords; it sits below every real operator
// so ordinary priority comparisons never drain them.
const NoPriority = -1

type opInfo struct {
	text     string
	priority int
}

// Order matters: for operators sharing a leading character, the longer
// spelling precedes the shorter one (<= and << before <, || before |).
var opTable = [opCount]opInfo{
	OpIf:        {"if", NoPriority},
	OpThen:      {"then", NoPriority},
	OpElse:      {"else", NoPriority},
	OpEndif:     {"endif", NoPriority},
	OpWhile:     {"while", NoPriority},
	OpEndwhile:  {"endwhile", NoPriority},
	OpGoto:      {"goto", NoPriority},
	OpAssign:    {":=", 0},
	OpColon:     {":", NoPriority},
	OpLBracket:  {"(", NoPriority},
	OpRBracket:  {")", NoPriority},
	OpLQBracket: {"[", NoPriority},
	OpRQBracket: {"]", NoPriority},
	OpDeref:     {"dereference", NoPriority},
	OpOr:        {"||", 1},
	OpAnd:       {"&&", 2},
	OpBitOr:     {"|", 3},
	OpXor:       {"^", 4},
	OpBitAnd:    {"&", 5},
	OpEq:        {"==", 6},
	OpNeq:       {"!=", 6},
	OpLeq:       {"<=", 7},
	OpShl:       {"<<", 8},
	OpLt:        {"<", 7},
	OpGeq:       {">=", 7},
	OpShr:       {">>", 8},
	OpGt:        {">", 7},
	OpPlus:      {"+", 9},
	OpMinus:     {"-", 9},
	OpMult:      {"*", 10},
	OpDiv:       {"/", 10},
	OpMod:       {"%", 10},
}

func (o Op) String() string {
	if o < 0 || o >= opCount {
		return "?"
	}
	return opTable[o].text
}

func (o Op) Priority() int {
	if o < 0 || o >= opCount {
		return NoPriority
	}
	return opTable[o].priority
}

// IsBinary reports whether o is a left-associative binary operator.
func (o Op) IsBinary() bool {
	return o.Priority() > 0
}

var binaryOps = func() []Op {
	ops := make([]Op, 0, 18)
	for o := Op(0); o < opCount; o++ {
		if o.IsBinary() {
			ops = append(ops, o)
		}
	}
	return ops
}()

// BinaryOps lists binary operators in matching order. The slice is shared
// and must not be modified.
func BinaryOps() []Op {
	return binaryOps
}

var keywords = map[string]Op{
	"if":       OpIf,
	"then":     OpThen,
	"else":     OpElse,
	"endif":    OpEndif,
	"while":    OpWhile,
	"endwhile": OpEndwhile,
	"goto":     OpGoto,
}

// Keyword returns the keyword kind of an identifier.
func Keyword(name string) (Op, bool) {
	op, ok := keywords[name]
	return op, ok
}

// IsReserved reports whether name cannot be used as a variable or label.
func IsReserved(name string) bool {
	_, ok := keywords[name]
	return ok
}
