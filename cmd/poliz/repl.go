package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// session collects program lines typed interactively. Lines starting with
// ':' are commands.
type session struct {
	cfg    appConfig
	lines  []string
	stdout io.Writer
	stderr io.Writer
}

func (s *session) prompt() string {
	return fmt.Sprintf("%3d> ", len(s.lines)+1)
}

// handle processes one typed line and reports whether the session is over.
func (s *session) handle(ctx context.Context, line string) bool {
	cmd := strings.TrimSpace(line)
	if !strings.HasPrefix(cmd, ":") {
		s.lines = append(s.lines, line)
		return false
	}
	switch strings.ToLower(cmd) {
	case ":run":
		if err := runPlain(ctx, s.cfg, s.lines, s.stdout, s.stderr); err != nil {
			fmt.Fprintln(s.stderr, errStyle.Render(err.Error()))
		}
	case ":list":
		for i, l := range s.lines {
			fmt.Fprintf(s.stdout, "%3d  %s\n", i+1, l)
		}
	case ":undo":
		if len(s.lines) > 0 {
			s.lines = s.lines[:len(s.lines)-1]
		}
	case ":clear":
		s.lines = nil
	case ":quit":
		return true
	default:
		fmt.Fprintln(s.stderr, "unknown command; use :run :list :undo :clear :quit")
	}
	return false
}

func runREPL(ctx context.Context, cfg appConfig, stdout, stderr io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	s := &session{cfg: cfg, stdout: stdout, stderr: stderr}
	for {
		line, err := ln.Prompt(s.prompt())
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			if len(s.lines) > 0 {
				s.handle(ctx, ":run")
			}
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if s.handle(ctx, line) {
			return nil
		}
	}
}
