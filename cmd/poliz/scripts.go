package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gosuda/poliz/parser"
)

// loadScript reads program lines from path, or from stdin when path is
// empty or "-".
func loadScript(path string, stdin io.Reader) ([]string, error) {
	var (
		b   []byte
		err error
	)
	if path == "" || path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", displayName(path), err)
	}
	return parser.SplitLines(string(b)), nil
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}
