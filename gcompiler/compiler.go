// Package gcompiler is the single-pass Pratt parser/compiler: it drives
// gscan token-by-token and emits gchunk bytecode directly, with no
// intermediate AST. The operator table (prefix/infix/precedence per token
// kind) and the advance/parsePrecedence/synchronize shape are adapted from
// the teacher's compiler.Compiler (compiler/compiler.go) — the token-driven
// Pratt compiler it already had, generalized from its four-operator grammar
// to the full grammar spec.md §4.2 specifies, and rebuilt to emit
// single-pass rather than read from a pre-scanned token slice.
package gcompiler

import (
	"fmt"
	"io"
	"strconv"

	"glint/gchunk"
	"glint/gscan"
	"glint/gvalue"
	"glint/token"
)

// Precedence levels, lowest to highest, exactly as spec.md §4.2 orders them.
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(c *Compiler)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// Compiler holds the Parser state (current/previous token, hadError,
// panicMode) plus, via fields rather than a process-wide global (spec.md
// §9's "Global singletons" note), the scanner it drives and the chunk it
// emits into.
type Compiler struct {
	scanner *gscan.Scanner
	chunk   *gchunk.Chunk
	alloc   gvalue.Allocator
	stderr  io.Writer

	current  token.Token
	previous token.Token
	hadError bool
	panicMode bool

	// DebugPrintCode disassembles the finished chunk to stderr, headed
	// "== code ==", iff compilation succeeded — spec.md §6's
	// DEBUG_PRINT_CODE toggle, exposed here as a field instead of a
	// compile-time macro (spec.md §9's "macro-heavy dispatch" note).
	DebugPrintCode bool
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LEFT_PAREN:    {prefix: (*Compiler).grouping, precedence: precCall},
		token.MINUS:         {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: precTerm},
		token.PLUS:          {infix: (*Compiler).binary, precedence: precTerm},
		token.SLASH:         {infix: (*Compiler).binary, precedence: precFactor},
		token.STAR:          {infix: (*Compiler).binary, precedence: precFactor},
		token.BANG:          {prefix: (*Compiler).unary},
		token.BANG_EQUAL:    {infix: (*Compiler).binary, precedence: precEquality},
		token.EQUAL_EQUAL:   {infix: (*Compiler).binary, precedence: precEquality},
		token.GREATER:       {infix: (*Compiler).binary, precedence: precComparison},
		token.GREATER_EQUAL: {infix: (*Compiler).binary, precedence: precComparison},
		token.LESS:          {infix: (*Compiler).binary, precedence: precComparison},
		token.LESS_EQUAL:    {infix: (*Compiler).binary, precedence: precComparison},
		token.NUMBER:        {prefix: (*Compiler).number},
		token.STRING:        {prefix: (*Compiler).string},
		token.FALSE:         {prefix: (*Compiler).literal},
		token.NIL:           {prefix: (*Compiler).literal},
		token.TRUE:          {prefix: (*Compiler).literal},
	}
}

func getRule(kind token.Kind) parseRule {
	return rules[kind] // zero value {nil, nil, precNone} for anything absent
}

// Compile parses source and emits bytecode into c. It returns true iff no
// errors were reported; on false the chunk may contain partial output and
// must be discarded by the caller (spec.md §4.2).
func Compile(source string, c *gchunk.Chunk, alloc gvalue.Allocator, stderr io.Writer) bool {
	return CompileWithDebug(source, c, alloc, stderr, false)
}

// CompileWithDebug is Compile with the DEBUG_PRINT_CODE toggle (spec.md §6)
// exposed as a parameter instead of a compile-time macro.
func CompileWithDebug(source string, c *gchunk.Chunk, alloc gvalue.Allocator, stderr io.Writer, debugPrintCode bool) bool {
	compiler := &Compiler{
		scanner:        gscan.New(source),
		chunk:          c,
		alloc:          alloc,
		stderr:         stderr,
		DebugPrintCode: debugPrintCode,
	}

	compiler.advance()
	for !compiler.match(token.EOF) {
		compiler.declaration()
	}
	compiler.emitByte(byte(gchunk.OpReturn))

	if !compiler.hadError && compiler.DebugPrintCode {
		fmt.Fprint(compiler.stderr, gchunk.Disassemble(compiler.chunk, "code"))
	}

	return !compiler.hadError
}

// --- token stream -----------------------------------------------------

// advance promotes current to previous and pulls tokens until a non-ERROR
// one is found, reporting each ERROR token it skips.
func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.ScanToken()
		if c.current.Kind != token.ERROR {
			break
		}
		c.errorAtCurrent(c.current.Message)
	}
}

func (c *Compiler) check(kind token.Kind) bool {
	return c.current.Kind == kind
}

func (c *Compiler) match(kind token.Kind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind token.Kind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// --- statements ---------------------------------------------------------

func (c *Compiler) declaration() {
	c.statement()
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	if c.match(token.PRINT) {
		c.printStatement()
		return
	}
	c.expressionStatement()
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after value.")
	c.emitByte(byte(gchunk.OpPrint))
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitByte(byte(gchunk.OpPop))
}

// synchronize discards tokens until it reaches what looks like a statement
// boundary: a consumed ';' or the start of a statement-introducing keyword.
func (c *Compiler) synchronize() {
	c.panicMode = false

	for c.current.Kind != token.EOF {
		if c.previous.Kind == token.SEMICOLON {
			return
		}
		switch c.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}

// --- expressions ---------------------------------------------------------

func (c *Compiler) expression() {
	c.parsePrecedence(precAssignment)
}

func (c *Compiler) parsePrecedence(min precedence) {
	c.advance()
	prefixRule := getRule(c.previous.Kind).prefix
	if prefixRule == nil {
		c.errorAtPrevious("Expect expression.")
		return
	}
	prefixRule(c)

	for min <= getRule(c.current.Kind).precedence {
		c.advance()
		infixRule := getRule(c.previous.Kind).infix
		infixRule(c)
	}
}

func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

func (c *Compiler) unary() {
	operator := c.previous.Kind
	c.parsePrecedence(precUnary)

	switch operator {
	case token.BANG:
		c.emitByte(byte(gchunk.OpNot))
	case token.MINUS:
		c.emitByte(byte(gchunk.OpNegate))
	}
}

// binary parses the right-hand operand at one precedence level higher than
// its own — the left-associativity trick: the right operand excludes this
// operator's own precedence, so `a+b+c` parses as `(a+b)+c` rather than
// right-folding.
func (c *Compiler) binary() {
	operator := c.previous.Kind
	rule := getRule(operator)
	c.parsePrecedence(rule.precedence + 1)

	switch operator {
	case token.PLUS:
		c.emitByte(byte(gchunk.OpAdd))
	case token.MINUS:
		c.emitByte(byte(gchunk.OpSubtract))
	case token.STAR:
		c.emitByte(byte(gchunk.OpMultiply))
	case token.SLASH:
		c.emitByte(byte(gchunk.OpDivide))
	case token.EQUAL_EQUAL:
		c.emitByte(byte(gchunk.OpEqual))
	case token.BANG_EQUAL:
		c.emitByte(byte(gchunk.OpEqual))
		c.emitByte(byte(gchunk.OpNot))
	case token.GREATER:
		c.emitByte(byte(gchunk.OpGreater))
	case token.GREATER_EQUAL:
		c.emitByte(byte(gchunk.OpLess))
		c.emitByte(byte(gchunk.OpNot))
	case token.LESS:
		c.emitByte(byte(gchunk.OpLess))
	case token.LESS_EQUAL:
		c.emitByte(byte(gchunk.OpGreater))
		c.emitByte(byte(gchunk.OpNot))
	}
}

func (c *Compiler) literal() {
	switch c.previous.Kind {
	case token.FALSE:
		c.emitByte(byte(gchunk.OpFalse))
	case token.NIL:
		c.emitByte(byte(gchunk.OpNil))
	case token.TRUE:
		c.emitByte(byte(gchunk.OpTrue))
	}
}

func (c *Compiler) number() {
	v, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.errorAtPrevious("Invalid number literal.")
		return
	}
	c.emitConstant(gvalue.Number(v))
}

func (c *Compiler) string() {
	lexeme := c.previous.Lexeme
	chars := lexeme[1 : len(lexeme)-1] // drop surrounding quotes
	obj := gvalue.CopyString(c.alloc, chars)
	c.emitConstant(gvalue.FromObj(obj))
}

// --- emission -------------------------------------------------------------

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitConstant(v gvalue.Value) {
	idx := c.makeConstant(v)
	c.emitByte(byte(gchunk.OpConstant))
	c.emitByte(byte(idx))
}

// makeConstant adds v to the chunk's constant pool and reports an error if
// the pool has grown past what a single-byte operand can index, emitting
// index 0 as a placeholder so compilation can continue looking for further
// errors.
func (c *Compiler) makeConstant(v gvalue.Value) int {
	idx := c.chunk.AddConstant(v)
	if idx > 255 {
		c.errorAtPrevious("Too many constants in one chunk.")
		return 0
	}
	return idx
}

// --- error reporting -------------------------------------------------------

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) errorAtPrevious(message string) {
	c.errorAt(c.previous, message)
}

// errorAt reports a CompileError in the exact format spec.md §4.2 mandates:
// "[line L] Error at '<lexeme>': <message>", with "at end" replacing the
// lexeme clause at EOF, and the clause omitted entirely for ERROR tokens.
// Panic mode suppresses every report after the first until synchronize
// clears it, so one malformed construct doesn't cascade into a wall of
// errors.
func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	err := CompileError{Line: tok.Line, Message: message}
	switch tok.Kind {
	case token.EOF:
		err.Where = " at end"
	case token.ERROR:
		err.Where = ""
	default:
		err.Where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}

	fmt.Fprintln(c.stderr, err.Error())
}
