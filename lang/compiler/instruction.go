package compiler

import (
	"fmt"
	"strings"
)

// Instruction is one VM operation. Which fields are meaningful depends on
// Op:
//
//   - PUSHCONST   — Num
//   - PUSHFINISH  — (none)
//   - PUSHREL     — Rel: offset from the current stack top, i.e. the value
//     at depth-1-Rel was pushed at compile time when the current stack
//     held depth values
//   - PUSHLAMBDA  — Label, Arity (captured count + own arg count),
//     Captured (one relative offset per captured free variable, in the
//     order the hoisted function expects them)
//   - PUSHTHUNK   — Label, Arity (the referenced top-level function's own
//     arg count; it captures nothing)
//   - JUMPLAMBDA  — Rel: offset from the current stack top to the callee
//     value (a Closure, Thunk, or the finish sentinel); the VM reads the
//     callee's own arity to decide how many of the top stack values are
//     its arguments, rather than trusting a count baked into the
//     instruction
//   - JUMPLABEL   — Label, Arity: a static call to a module function,
//     which captures nothing
//   - CONDBRANCH, ADD, SUB, MUL, LESS, EQ, MOD — no operand; these pop
//     their fixed arity directly off the stack
type Instruction struct {
	Op       Opcode
	Num      float64
	Rel      int
	Label    string
	Arity    int
	Captured []int
}

func (i Instruction) String() string {
	switch i.Op {
	case OpPushConst:
		return fmt.Sprintf("%s %g", i.Op, i.Num)
	case OpPushRel:
		return fmt.Sprintf("%s %d", i.Op, i.Rel)
	case OpPushLambda:
		caps := make([]string, len(i.Captured))
		for j, c := range i.Captured {
			caps[j] = fmt.Sprintf("%d", c)
		}
		return fmt.Sprintf("%s %s/%d [%s]", i.Op, i.Label, i.Arity, strings.Join(caps, ","))
	case OpPushThunk, OpJumpLabel:
		return fmt.Sprintf("%s %s/%d", i.Op, i.Label, i.Arity)
	case OpJumpLambda:
		return fmt.Sprintf("%s %d", i.Op, i.Rel)
	default:
		return i.Op.String()
	}
}
