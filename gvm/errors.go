package gvm

import "fmt"

// RuntimeError is gvm's typed error, formatted per spec.md §4.6/§7: the
// message, then a "[line L] in script" trailer on its own line. Shaped
// after the teacher's interpreter.RuntimeError (line + message + emoji-free
// Error() string — the teacher's own emoji prefix is a REPL/CLI flourish
// this core's error domain doesn't carry, since spec.md's wire format is
// exact).
type RuntimeError struct {
	Line    int
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d] in script", e.Message, e.Line)
}
