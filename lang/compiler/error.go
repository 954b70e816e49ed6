package compiler

// Error is a compile error: the AST was well-formed enough for lang/lower
// to build it, but violates an invariant the compiler itself must check —
// a non-Call function body, an undefined call target, or a call to a
// registered builtin with the wrong argument count.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }
