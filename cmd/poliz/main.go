package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	var cfg appConfig
	flag.StringVar(&cfg.file, "file", "", "program file to run (default stdin)")
	flag.BoolVar(&cfg.trace, "trace", false, "print the postfix program and each line as it executes")
	flag.BoolVar(&cfg.dump, "dump", false, "print variable and array tables (after each line with -trace)")
	flag.BoolVar(&cfg.tui, "tui", false, "step through the program in a terminal UI")
	flag.BoolVar(&cfg.repl, "i", false, "enter the program interactively")
	flag.StringVar(&cfg.color, "color", "auto", "color output: auto|always|never")
	flag.IntVar(&cfg.maxSteps, "max-steps", 0, "stop after this many executed lines (0 = no limit)")
	flag.DurationVar(&cfg.timeout, "timeout", 0, "abort the run after this long (0 = no limit)")
	flag.Parse()
	if cfg.file == "" && flag.NArg() > 0 {
		cfg.file = flag.Arg(0)
	}

	if err := setupColor(cfg.color, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(context.Background(), cfg); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig) error {
	if cfg.repl {
		return runREPL(ctx, cfg, os.Stdout, os.Stderr)
	}
	if cfg.tui && (cfg.file == "" || cfg.file == "-") {
		return fmt.Errorf("-tui reads keys from stdin; pass the program with -file")
	}
	lines, err := loadScript(cfg.file, os.Stdin)
	if err != nil {
		return err
	}
	if cfg.tui {
		return runTUI(cfg, lines)
	}
	return runPlain(ctx, cfg, lines, os.Stdout, os.Stderr)
}
