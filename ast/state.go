package ast

import (
	"errors"
	"fmt"
)

// MaxArrayLen bounds how far a single write may grow an array.
const MaxArrayLen = 1 << 24

var ErrIndexRange = errors.New("array index out of range")

// State holds the symbol tables of one program run. It is created before
// parsing, shared by the parser (labels) and the evaluator (everything), and
// discarded when the run ends.
type State struct {
	Vars   map[string]int64
	Arrays map[string]*Array
	Labels map[string]LabelTarget
}

// LabelTarget is the row a label resolves to. Defined is false while the label
// has only been referenced by a goto.
type LabelTarget struct {
	Row     int
	Defined bool
}

func NewState() *State {
	return &State{
		Vars:   map[string]int64{},
		Arrays: map[string]*Array{},
		Labels: map[string]LabelTarget{},
	}
}

// Reset empties the variable and array tables so the same program can run
// again. Labels belong to the parsed program and are kept.
func (s *State) Reset() {
	s.Vars = map[string]int64{}
	s.Arrays = map[string]*Array{}
}

// Var returns the value of a scalar; unseen names are 0.
func (s *State) Var(name string) int64 {
	return s.Vars[name]
}

func (s *State) SetVar(name string, v int64) {
	s.Vars[name] = v
}

// Array returns the named array, creating it empty on first use.
func (s *State) Array(name string) *Array {
	a := s.Arrays[name]
	if a == nil {
		a = &Array{}
		s.Arrays[name] = a
	}
	return a
}

// Label looks up a declared label.
func (s *State) Label(name string) (int, bool) {
	t, ok := s.Labels[name]
	if !ok || !t.Defined {
		return 0, false
	}
	return t.Row, true
}

// Array is a growable integer sequence. It never shrinks.
type Array struct {
	Data []int64
}

func checkIndex(index int64) error {
	if index < 0 || index >= MaxArrayLen {
		return fmt.Errorf("%w: %d", ErrIndexRange, index)
	}
	return nil
}

func (a *Array) Get(index int64) (int64, error) {
	if err := checkIndex(index); err != nil {
		return 0, err
	}
	if index >= int64(len(a.Data)) {
		return 0, nil
	}
	return a.Data[index], nil
}

func (a *Array) Set(index int64, v int64) error {
	if err := checkIndex(index); err != nil {
		return err
	}
	if n := int(index) + 1; n > len(a.Data) {
		a.Data = append(a.Data, make([]int64, n-len(a.Data))...)
	}
	a.Data[index] = v
	return nil
}

func (a *Array) Len() int {
	return len(a.Data)
}

// Snapshot is a detached copy of the variable and array tables.
type Snapshot struct {
	Vars   map[string]int64
	Arrays map[string][]int64
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Vars:   make(map[string]int64, len(s.Vars)),
		Arrays: make(map[string][]int64, len(s.Arrays)),
	}
	for k, v := range s.Vars {
		snap.Vars[k] = v
	}
	for k, a := range s.Arrays {
		cp := make([]int64, len(a.Data))
		copy(cp, a.Data)
		snap.Arrays[k] = cp
	}
	return snap
}
