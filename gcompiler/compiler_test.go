package gcompiler

import (
	"bytes"
	"strings"
	"testing"

	"glint/gchunk"
	"glint/gvalue"
)

type discardAllocator struct{}

func (discardAllocator) Register(gvalue.Obj) {}

func compileOK(t *testing.T, source string) *gchunk.Chunk {
	t.Helper()
	c := gchunk.New()
	var stderr bytes.Buffer
	if !Compile(source, c, discardAllocator{}, &stderr) {
		t.Fatalf("Compile(%q) failed unexpectedly: %s", source, stderr.String())
	}
	return c
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	c := compileOK(t, "print -1 + 2 * 3;")

	want := []gchunk.OpCode{
		gchunk.OpConstant, // 1
		gchunk.OpNegate,
		gchunk.OpConstant, // 2
		gchunk.OpConstant, // 3
		gchunk.OpMultiply,
		gchunk.OpAdd,
		gchunk.OpPrint,
		gchunk.OpReturn,
	}
	assertOpSequence(t, c, want)
}

func TestCompileComparisonDesugaring(t *testing.T) {
	cases := map[string][]gchunk.OpCode{
		"print 1 >= 2;": {gchunk.OpConstant, gchunk.OpConstant, gchunk.OpLess, gchunk.OpNot, gchunk.OpPrint, gchunk.OpReturn},
		"print 1 <= 2;": {gchunk.OpConstant, gchunk.OpConstant, gchunk.OpGreater, gchunk.OpNot, gchunk.OpPrint, gchunk.OpReturn},
		"print 1 != 2;": {gchunk.OpConstant, gchunk.OpConstant, gchunk.OpEqual, gchunk.OpNot, gchunk.OpPrint, gchunk.OpReturn},
	}
	for source, want := range cases {
		c := compileOK(t, source)
		assertOpSequence(t, c, want)
	}
}

func TestCompileStringLiteralStripsQuotes(t *testing.T) {
	c := compileOK(t, `print "hi";`)
	if len(c.Constants) != 1 {
		t.Fatalf("expected one constant, got %d", len(c.Constants))
	}
	s, ok := c.Constants[0].AsObjString()
	if !ok || s.Chars != "hi" {
		t.Errorf("got %+v, want string constant \"hi\"", c.Constants[0])
	}
}

func TestCompileErrorReportsLocation(t *testing.T) {
	c := gchunk.New()
	var stderr bytes.Buffer
	if Compile("print (1 + 2;", c, discardAllocator{}, &stderr) {
		t.Fatal("expected compile failure on unbalanced parentheses")
	}
	if !strings.Contains(stderr.String(), "[line 1] Error") {
		t.Errorf("got stderr %q, want a [line 1] Error report", stderr.String())
	}
}

func TestCompileErrorAtEnd(t *testing.T) {
	c := gchunk.New()
	var stderr bytes.Buffer
	if Compile("1 +", c, discardAllocator{}, &stderr) {
		t.Fatal("expected compile failure on a dangling operator")
	}
	if !strings.Contains(stderr.String(), "at end") {
		t.Errorf("got stderr %q, want an \"at end\" report", stderr.String())
	}
}

func TestCompileOnlyReportsFirstErrorUntilSynchronized(t *testing.T) {
	c := gchunk.New()
	var stderr bytes.Buffer
	Compile(") ) print 1;", c, discardAllocator{}, &stderr)
	count := strings.Count(stderr.String(), "[line")
	if count != 1 {
		t.Fatalf("got %d reported errors, want exactly 1: %q", count, stderr.String())
	}
}

func TestCompileWithDebugPrintsDisassembly(t *testing.T) {
	c := gchunk.New()
	var stderr bytes.Buffer
	if !CompileWithDebug("print 1;", c, discardAllocator{}, &stderr, true) {
		t.Fatal("compile should succeed")
	}
	if !strings.Contains(stderr.String(), "== code ==") {
		t.Errorf("got stderr %q, want disassembly header", stderr.String())
	}
}

func assertOpSequence(t *testing.T, c *gchunk.Chunk, want []gchunk.OpCode) {
	t.Helper()
	offset := 0
	for i, op := range want {
		if offset >= len(c.Code) {
			t.Fatalf("instruction %d: ran out of bytecode, want %s", i, opName(op))
		}
		got := gchunk.OpCode(c.Code[offset])
		if got != op {
			t.Errorf("instruction %d: got %s, want %s", i, opName(got), opName(op))
		}
		def, err := gchunk.Get(got)
		if err != nil {
			t.Fatalf("instruction %d: %v", i, err)
		}
		offset += 1 + len(def.OperandWidths)
	}
}

func opName(op gchunk.OpCode) string {
	def, err := gchunk.Get(op)
	if err != nil {
		return "?"
	}
	return def.Name
}
