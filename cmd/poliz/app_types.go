package main

import "time"

type appConfig struct {
	file     string
	trace    bool
	dump     bool
	tui      bool
	repl     bool
	color    string
	maxSteps int
	timeout  time.Duration
}
