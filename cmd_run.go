package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"glint/gvm"
)

// Exit codes spec.md §6 names as conventional and expected by the
// collaborator: compile errors map to 65 (EX_DATAERR-style), runtime
// errors to 70 (EX_SOFTWARE-style).
const (
	exitCompileError subcommands.ExitStatus = 65
	exitRuntimeError subcommands.ExitStatus = 70
)

type runCmd struct {
	trace     bool
	printCode bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute Glint source from a file" }
func (*runCmd) Usage() string {
	return "run <file>: execute a Glint source file.\n"
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.trace, "trace", false, "trace stack contents and disassembled instructions as they execute")
	f.BoolVar(&r.printCode, "print-code", false, "disassemble compiled bytecode before running it")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		return fail("run: no source file given")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fail("run: %v", err)
	}

	vm := gvm.New(os.Stdout, os.Stderr)
	vm.DebugTraceExecution = r.trace
	defer vm.Free()

	result := runSource(vm, string(data), r.printCode)
	switch result {
	case gvm.ResultCompileError:
		return exitCompileError
	case gvm.ResultRuntimeError:
		return exitRuntimeError
	default:
		return subcommands.ExitSuccess
	}
}

// runSource sets the VM's DEBUG_PRINT_CODE toggle for a single Interpret
// call and restores it afterward, so -print-code stays local to the one
// source unit handed in rather than leaking across REPL lines.
func runSource(vm *gvm.VM, source string, printCode bool) gvm.Result {
	prev := vm.DebugPrintCode
	vm.DebugPrintCode = printCode
	defer func() { vm.DebugPrintCode = prev }()
	return vm.Interpret(source)
}
