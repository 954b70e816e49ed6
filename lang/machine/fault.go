package machine

import (
	"fmt"

	"github.com/mna/tinycps/lang/compiler"
)

// Fault is a runtime error: the program compiled cleanly but its
// execution violated an invariant the machine enforces directly (a bad
// relative stack access, a non-numeric arithmetic operand, a jump to a
// value that isn't callable) or exhausted its step budget.
type Fault struct {
	IP    int
	Instr compiler.Instruction
	Msg   string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("Runtime error at instruction (%d: %s): %s.", f.IP, f.Instr, f.Msg)
}
