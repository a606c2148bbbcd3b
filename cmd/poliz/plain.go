package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/gosuda/poliz"
	"github.com/gosuda/poliz/ast"
	pruntime "github.com/gosuda/poliz/runtime"
)

// compileProgram builds a VM with the step limit from cfg applied.
func compileProgram(cfg appConfig, lines []string) (*pruntime.VM, error) {
	vm, err := poliz.Compile(lines)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	vm.SetStepLimit(cfg.maxSteps)
	return vm, nil
}

// runPlain runs the whole program, printing line results to stdout and
// traces, faults and table dumps to stderr.
func runPlain(ctx context.Context, cfg appConfig, lines []string, stdout, stderr io.Writer) error {
	vm, err := compileProgram(cfg, lines)
	if err != nil {
		return err
	}
	width := len(strconv.Itoa(vm.Program().Len()))

	if cfg.trace {
		fmt.Fprintln(stderr, renderListing(vm.Program(), -1))
		vm.SetTraceHook(func(row int, line ast.Line) {
			if cfg.dump {
				printSnapshot(stderr, vm.State().Snapshot())
			}
			fmt.Fprintln(stderr, renderRow(row, line, width, true))
		})
	}
	vm.SetOutputHook(func(out pruntime.Output) {
		fmt.Fprintln(stdout, out.Value)
	})
	vm.SetFaultHook(func(f pruntime.Fault) {
		fmt.Fprintln(stderr, faultStyle.Render("fault: "+f.Error()))
	})

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	_, err = vm.Run(ctx)
	if cfg.dump {
		printSnapshot(stderr, vm.State().Snapshot())
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
