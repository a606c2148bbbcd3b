package main

import (
	"fmt"
	"os"

	"github.com/gosuda/poliz"
	"github.com/gosuda/poliz/ast"
	"github.com/gosuda/poliz/parser"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: debug_poliz FILE")
		os.Exit(2)
	}
	b, err := os.ReadFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	prog, err := poliz.Parse(parser.SplitLines(string(b)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("rows=%d\n", prog.Len())
	for i, line := range prog.Lines {
		fmt.Printf("row %d:", i)
		for _, n := range line {
			switch v := n.(type) {
			case ast.Branch:
				fmt.Printf(" Branch{%s target=%d resolved=%v}", v.Kind, v.Target, v.Resolved)
			case ast.Nop:
				fmt.Printf(" Nop{%q}", v.Label)
			default:
				fmt.Printf(" %T(%s)", n, ast.NodeString(n))
			}
		}
		fmt.Println()
	}
}
