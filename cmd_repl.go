package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"glint/gvm"
)

// replCmd is the interactive collaborator spec.md §6 describes: each line
// is compiled and run as its own chunk against one persistent VM, so
// variables and heap objects from earlier lines stay alive (once the
// language grows variables; for now each line is simply independent
// expression/print statements sharing one object list). Line editing and
// history come from github.com/chzyer/readline rather than a bare
// bufio.Scanner loop, the way the teacher's go.mod already declared that
// dependency without a caller to use it.
type replCmd struct {
	trace     bool
	printCode bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive Glint session" }
func (*replCmd) Usage() string {
	return "repl: read-eval-print loop over a single persistent VM.\n"
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.trace, "trace", false, "trace stack contents and disassembled instructions as they execute")
	f.BoolVar(&r.printCode, "print-code", false, "disassemble compiled bytecode before running it")
}

func (r *replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return fail("repl: %v", err)
	}
	defer rl.Close()

	vm := gvm.New(os.Stdout, os.Stderr)
	vm.DebugTraceExecution = r.trace
	defer vm.Free()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return subcommands.ExitSuccess
			}
			return fail("repl: %v", err)
		}
		if line == "" {
			continue
		}

		runSource(vm, line, r.printCode)
	}
}
