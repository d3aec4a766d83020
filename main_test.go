package main

import (
	"bytes"
	"testing"

	"glint/gvalue"
	"glint/gvm"
)

func TestRunSourceRestoresDebugPrintCodeAfterCall(t *testing.T) {
	var out, errOut bytes.Buffer
	vm := gvm.New(&out, &errOut)
	vm.DebugPrintCode = false
	defer vm.Free()

	runSource(vm, "print 1;", true)

	if vm.DebugPrintCode != false {
		t.Error("runSource should restore DebugPrintCode to its prior value afterward")
	}
	if out.String() != "1\n" {
		t.Errorf("got stdout %q, want \"1\\n\"", out.String())
	}
}

func TestRunSourcePropagatesResult(t *testing.T) {
	var out, errOut bytes.Buffer
	vm := gvm.New(&out, &errOut)
	defer vm.Free()

	if result := runSource(vm, "print (1;", false); result != gvm.ResultCompileError {
		t.Errorf("got result %d, want ResultCompileError", result)
	}
}

func TestDiscardAllocatorRegisters(t *testing.T) {
	a := &discardAllocator{}
	gvalue.CopyString(a, "x")
	if a.head == nil {
		t.Error("Register should link the object onto the discard allocator's list")
	}
}
