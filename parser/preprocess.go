package parser

import "strings"

func normalize(raw string) string {
	if after, ok := strings.CutPrefix(raw, "\uFEFF"); ok {
		return after
	}
	return raw
}

// SplitLines turns program text into source lines. A trailing newline does
// not produce an extra empty line.
func SplitLines(src string) []string {
	norm := normalize(src)
	norm = strings.ReplaceAll(norm, "\r\n", "\n")
	norm = strings.ReplaceAll(norm, "\r", "\n")
	norm = strings.TrimSuffix(norm, "\n")
	if norm == "" {
		return nil
	}
	return strings.Split(norm, "\n")
}
