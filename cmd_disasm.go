package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"glint/gchunk"
	"glint/gcompiler"
	"glint/gvalue"
)

// disasmCmd compiles a source file and prints its disassembly without
// executing it — spec.md §6's disassembly contract pulled out from behind
// -print-code into its own subcommand, the way the teacher splits its
// "emit" command out from "run"/"runC" (cmd_emit_bytecode.go).
type disasmCmd struct{}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "Compile a Glint source file and print its disassembly" }
func (*disasmCmd) Usage() string {
	return "disasm <file>: compile without running, then print the chunk's disassembly.\n"
}

func (*disasmCmd) SetFlags(*flag.FlagSet) {}

func (*disasmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		return fail("disasm: no source file given")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fail("disasm: %v", err)
	}

	chunk := gchunk.New()
	alloc := &discardAllocator{}
	if !gcompiler.Compile(string(data), chunk, alloc, os.Stderr) {
		return exitCompileError
	}

	os.Stdout.WriteString(gchunk.Disassemble(chunk, "code"))
	return subcommands.ExitSuccess
}

// discardAllocator satisfies gvalue.Allocator for a compile-only pass:
// string constants the compiler creates still need somewhere to register,
// but nothing here ever calls Free, so there is nothing to reclaim.
type discardAllocator struct {
	head gvalue.Obj
}

func (d *discardAllocator) Register(o gvalue.Obj) {
	d.head = gvalue.Link(d.head, o)
}
