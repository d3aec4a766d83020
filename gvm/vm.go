// Package gvm is the stack-based bytecode VM: a fetch-decode-execute loop
// over a gchunk.Chunk's bytes, a bounded value stack, and the VM's
// intrusive heap-object list. Adapted from the teacher's vm.VM (vm/vm.go,
// vm/stack.go, vm/errors.go) — the fetch/switch/ip-advance loop shape is
// the same; the switch now covers the full opcode set spec.md §4.6
// specifies instead of the teacher's single OP_CONSTANT case, and the
// stack is a fixed-depth array rather than a growable slice, per spec.md
// §3's STACK_MAX bound.
package gvm

import (
	"fmt"
	"io"

	"glint/gchunk"
	"glint/gcompiler"
	"glint/gvalue"
)

// Result is the outcome of one Interpret call, spec.md §6's three-way
// embedding-API contract.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

// VM is the runtime environment bytecode executes in: a reference to the
// Chunk being executed, a program counter (byte offset into Code), a
// bounded value stack, and the head of the heap-object intrusive list.
// Per spec.md §9's note against process-wide globals, VM is an owned
// struct — nothing here is a package-level mutable record, and nothing
// prevents two VMs existing side by side (only the spec's own
// single-interpret-at-a-time discipline, §5, is a caller contract, not an
// enforced invariant).
type VM struct {
	chunk *gchunk.Chunk
	ip    int
	stack stack

	objects gvalue.Obj

	stdout io.Writer
	stderr io.Writer

	// DebugTraceExecution prints the stack contents and a disassembled
	// instruction before executing each opcode — spec.md §6's
	// DEBUG_TRACE_EXECUTION toggle.
	DebugTraceExecution bool

	// DebugPrintCode disassembles a chunk after successful compilation,
	// headed "== code ==" — spec.md §6's DEBUG_PRINT_CODE toggle.
	DebugPrintCode bool
}

// New brackets the VM's lifetime the way spec.md §6's init_vm does. stdout
// receives OP_PRINT output; stderr receives compile/runtime diagnostics.
func New(stdout, stderr io.Writer) *VM {
	return &VM{stdout: stdout, stderr: stderr}
}

// Register prepends o to the VM's intrusive object list. VM satisfies
// gvalue.Allocator through this method so both the compiler (string
// literals) and the VM itself (concatenation results) register heap
// objects the same way.
func (vm *VM) Register(o gvalue.Obj) {
	vm.objects = gvalue.Link(vm.objects, o)
}

// Free releases every heap object reachable from the VM's object list.
// There is no manual allocator to walk and free byte-by-byte here — dropping
// the list head is enough, because nothing in the program can reach those
// objects afterward and Go's garbage collector reclaims them. This is the
// idiomatic-Go rendering of spec.md §6's free_vm contract (see SPEC_FULL.md
// §7); it satisfies the observable property (no reachable heap-object bytes
// survive) without a hand-rolled allocator.
func (vm *VM) Free() {
	vm.objects = nil
}

// Interpret compiles source into a fresh chunk and, if compilation
// succeeded, runs it. The VM never executes a failed compilation.
func (vm *VM) Interpret(source string) Result {
	chunk := gchunk.New()
	if !gcompiler.CompileWithDebug(source, chunk, vm, vm.stderr, vm.DebugPrintCode) {
		return ResultCompileError
	}

	vm.chunk = chunk
	vm.ip = 0
	vm.stack.reset()
	return vm.run()
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() gvalue.Value {
	return vm.chunk.Constants[vm.readByte()]
}

// currentLine is the source line of the byte just consumed — the operand
// to runtimeError's "[line L]" trailer.
func (vm *VM) currentLine() int {
	return vm.chunk.Lines[vm.ip-1]
}

func (vm *VM) runtimeError(format string, args ...any) Result {
	err := RuntimeError{Line: vm.currentLine(), Message: fmt.Sprintf(format, args...)}
	fmt.Fprintln(vm.stderr, err.Error())
	vm.stack.reset()
	return ResultRuntimeError
}

// run is the read-decode-execute cycle: fetch one byte, switch on it, each
// case consumes operands, mutates the stack, optionally mutates ip, and
// continues. Execution terminates on OP_RETURN.
func (vm *VM) run() (result Result) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(stackOverflow); ok {
				result = vm.runtimeError("Stack overflow.")
				return
			}
			panic(r)
		}
	}()

	for {
		if vm.DebugTraceExecution {
			vm.traceStack()
			line, _ := gchunk.DisassembleInstruction(vm.chunk, vm.ip)
			fmt.Fprintln(vm.stderr, line)
		}

		instruction := gchunk.OpCode(vm.readByte())
		switch instruction {
		case gchunk.OpConstant:
			vm.stack.push(vm.readConstant())

		case gchunk.OpNil:
			vm.stack.push(gvalue.Nil())
		case gchunk.OpTrue:
			vm.stack.push(gvalue.Bool(true))
		case gchunk.OpFalse:
			vm.stack.push(gvalue.Bool(false))

		case gchunk.OpPop:
			vm.stack.pop()

		case gchunk.OpEqual:
			b := vm.stack.pop()
			a := vm.stack.pop()
			vm.stack.push(gvalue.Bool(gvalue.Equal(a, b)))

		case gchunk.OpGreater:
			if r, ok := vm.numericCompare(func(a, b float64) bool { return a > b }); !ok {
				return r
			}
		case gchunk.OpLess:
			if r, ok := vm.numericCompare(func(a, b float64) bool { return a < b }); !ok {
				return r
			}

		case gchunk.OpAdd:
			if r, ok := vm.add(); !ok {
				return r
			}
		case gchunk.OpSubtract:
			if r, ok := vm.numericBinary(func(a, b float64) float64 { return a - b }); !ok {
				return r
			}
		case gchunk.OpMultiply:
			if r, ok := vm.numericBinary(func(a, b float64) float64 { return a * b }); !ok {
				return r
			}
		case gchunk.OpDivide:
			if r, ok := vm.numericBinary(func(a, b float64) float64 { return a / b }); !ok {
				return r
			}

		case gchunk.OpNot:
			vm.stack.push(gvalue.Bool(vm.stack.pop().IsFalsey()))

		case gchunk.OpNegate:
			if !vm.stack.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.stack.push(gvalue.Number(-vm.stack.pop().AsNumber()))

		case gchunk.OpPrint:
			fmt.Fprintln(vm.stdout, vm.stack.pop().String())

		case gchunk.OpReturn:
			return ResultOK

		default:
			// Reaching an unknown opcode is a compiler/VM bug (spec.md §7),
			// not a user-facing error.
			panic(fmt.Sprintf("gvm: unknown opcode %d at ip %d", instruction, vm.ip-1))
		}
	}
}

func (vm *VM) traceStack() {
	for i := 0; i < vm.stack.top; i++ {
		fmt.Fprintf(vm.stderr, "[ %s ]", vm.stack.values[i].String())
	}
	fmt.Fprintln(vm.stderr)
}

// numericBinary pops two Number operands, applies op, and pushes the
// result. Both operands must be Number, per spec.md §4.6's OP_SUBTRACT/
// OP_MULTIPLY/OP_DIVIDE semantics.
func (vm *VM) numericBinary(op func(a, b float64) float64) (Result, bool) {
	if !vm.stack.peek(0).IsNumber() || !vm.stack.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers."), false
	}
	b := vm.stack.pop().AsNumber()
	a := vm.stack.pop().AsNumber()
	vm.stack.push(gvalue.Number(op(a, b)))
	return ResultOK, true
}

func (vm *VM) numericCompare(op func(a, b float64) bool) (Result, bool) {
	if !vm.stack.peek(0).IsNumber() || !vm.stack.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers."), false
	}
	b := vm.stack.pop().AsNumber()
	a := vm.stack.pop().AsNumber()
	vm.stack.push(gvalue.Bool(op(a, b)))
	return ResultOK, true
}

// add implements OP_ADD's two forms: string concatenation when both
// operands are strings, numeric addition when both are numbers, else a
// runtime error. Per spec.md §4.6, concatenation pops b then a and the
// result is a++b.
func (vm *VM) add() (Result, bool) {
	bVal := vm.stack.peek(0)
	aVal := vm.stack.peek(1)

	switch {
	case aVal.IsString() && bVal.IsString():
		b := vm.stack.pop()
		a := vm.stack.pop()
		aStr, _ := a.AsObjString()
		bStr, _ := b.AsObjString()
		obj := gvalue.TakeString(vm, aStr.Chars+bStr.Chars)
		vm.stack.push(gvalue.FromObj(obj))
		return ResultOK, true

	case aVal.IsNumber() && bVal.IsNumber():
		b := vm.stack.pop().AsNumber()
		a := vm.stack.pop().AsNumber()
		vm.stack.push(gvalue.Number(a + b))
		return ResultOK, true

	default:
		return vm.runtimeError("Operands must be two numbers or two strings."), false
	}
}
