package gcompiler

import "fmt"

// CompileError is gcompiler's typed error, the same shape as the teacher's
// parser.SyntaxError (line + message, formatted by Error()) adapted to
// spec.md §4.2's exact wire format instead of the teacher's own.
type CompileError struct {
	Line    int
	Where   string // "" , " at end", or " at '<lexeme>'"
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}
