// Package machine executes a compiler.Program: a stack-based,
// tail-call-only interpreter with no host call-stack recursion in its
// dispatch loop. Because the source language is CPS, every instruction
// sequence ends in a jump; the loop below never recurses to evaluate a
// nested expression the way a tree-walking interpreter would.
package machine

import (
	"context"
	"math"

	"github.com/mna/tinycps/lang/compiler"
)

// ctxCheckEvery bounds how often the dispatch loop checks ctx.Done(), so
// cancellation isn't paying a channel-select cost on every single
// instruction.
const ctxCheckEvery = 4096

// Run executes prog starting at the label entry, seeding the initial
// stack with the finish sentinel as that entry function's first
// argument. maxSteps bounds the number of instructions executed;
// maxSteps <= 0 means unbounded.
func Run(ctx context.Context, prog *compiler.Program, entry string, maxSteps int) (Value, error) {
	pc, ok := prog.EntryPoint(entry)
	if !ok {
		return nil, &Fault{IP: -1, Msg: "no entry point named " + entry}
	}
	return run(ctx, prog, pc, maxSteps)
}

func run(ctx context.Context, prog *compiler.Program, pc int, maxSteps int) (Value, error) {
	stack := []Value{Finish{}}
	steps := 0

	for {
		steps++
		if maxSteps > 0 && steps > maxSteps {
			return nil, &Fault{IP: pc, Msg: "exceeded step budget"}
		}
		if steps%ctxCheckEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		if pc < 0 || pc >= len(prog.Instructions) {
			return nil, &Fault{IP: pc, Msg: "program counter out of range"}
		}

		insn := prog.Instructions[pc]
		switch insn.Op {
		case compiler.OpPushConst:
			stack = append(stack, Number(insn.Num))
			pc++

		case compiler.OpPushFinish:
			stack = append(stack, Finish{})
			pc++

		case compiler.OpPushRel:
			v, err := relValue(stack, insn.Rel, pc, insn)
			if err != nil {
				return nil, err
			}
			stack = append(stack, v)
			pc++

		case compiler.OpPushLambda:
			captured := make([]Value, len(insn.Captured))
			for i, rel := range insn.Captured {
				v, err := relValue(stack, rel, pc, insn)
				if err != nil {
					return nil, err
				}
				captured[i] = v
			}
			stack = append(stack, Closure{Label: insn.Label, Arity: insn.Arity, Captured: captured})
			pc++

		case compiler.OpPushThunk:
			stack = append(stack, Thunk{Label: insn.Label, Arity: insn.Arity})
			pc++

		case compiler.OpJumpLambda:
			callee, err := relValue(stack, insn.Rel, pc, insn)
			if err != nil {
				return nil, err
			}
			if _, ok := callee.(Finish); ok {
				// finish is always invoked with exactly one argument; that
				// argument is whatever the caller just pushed on top.
				if len(stack) == 0 {
					return nil, &Fault{IP: pc, Instr: insn, Msg: "stack underflow"}
				}
				return stack[len(stack)-1], nil
			}
			newStack, target, err := tailCall(prog, stack, callee, pc, insn)
			if err != nil {
				return nil, err
			}
			stack, pc = newStack, target

		case compiler.OpPop:
			if len(stack) == 0 {
				return nil, &Fault{IP: pc, Instr: insn, Msg: "stack underflow"}
			}
			stack = stack[:len(stack)-1]
			pc++

		case compiler.OpJumpLabel:
			n := insn.Arity
			if len(stack) < n {
				return nil, &Fault{IP: pc, Instr: insn, Msg: "stack underflow"}
			}
			target, ok := prog.EntryPoint(insn.Label)
			if !ok {
				return nil, &Fault{IP: pc, Instr: insn, Msg: "jump to undefined label " + insn.Label}
			}
			stack = append([]Value(nil), stack[len(stack)-n:]...)
			pc = target

		case compiler.OpCondBranch:
			// Stack, bottom to top: [continuation, test, iftrue, iffalse] —
			// the continuation was pushed first, as the builtin's own
			// args[0], exactly like any other builtin call.
			if len(stack) < 4 {
				return nil, &Fault{IP: pc, Instr: insn, Msg: "stack underflow"}
			}
			elseV, thenV, condV, contV := stack[len(stack)-1], stack[len(stack)-2], stack[len(stack)-3], stack[len(stack)-4]
			stack = stack[:len(stack)-4]

			branch := elseV
			if condV.Truth() {
				branch = thenV
			}
			stack = append(stack, contV)
			newStack, target, err := tailCall(prog, stack, branch, pc, insn)
			if err != nil {
				return nil, err
			}
			stack, pc = newStack, target

		case compiler.OpAdd, compiler.OpSub, compiler.OpMul, compiler.OpLess, compiler.OpEq, compiler.OpMod:
			if len(stack) < 3 {
				return nil, &Fault{IP: pc, Instr: insn, Msg: "stack underflow"}
			}
			// args were pushed continuation first, then lhs, then rhs — the
			// builtin's own args[0] is always the continuation.
			rhs := stack[len(stack)-1]
			lhs := stack[len(stack)-2]
			cont := stack[len(stack)-3]
			stack = stack[:len(stack)-3]

			lhsN, lok := lhs.(Number)
			rhsN, rok := rhs.(Number)
			if !lok || !rok {
				return nil, &Fault{IP: pc, Instr: insn, Msg: "arithmetic operand is not a number"}
			}

			var result Value
			switch insn.Op {
			case compiler.OpAdd:
				result = lhsN + rhsN
			case compiler.OpSub:
				result = lhsN - rhsN
			case compiler.OpMul:
				result = lhsN * rhsN
			case compiler.OpMod:
				result = Number(math.Mod(float64(lhsN), float64(rhsN)))
			case compiler.OpLess:
				result = Bool(lhsN < rhsN)
			case compiler.OpEq:
				result = Bool(lhsN == rhsN)
			}

			if _, ok := cont.(Finish); ok {
				return result, nil
			}
			stack = append(stack, result)
			newStack, target, err := tailCall(prog, stack, cont, pc, insn)
			if err != nil {
				return nil, err
			}
			stack, pc = newStack, target

		default:
			return nil, &Fault{IP: pc, Instr: insn, Msg: "illegal opcode"}
		}
	}
}

func relValue(stack []Value, rel, pc int, insn compiler.Instruction) (Value, error) {
	idx := len(stack) - 1 - rel
	if idx < 0 || idx >= len(stack) {
		return nil, &Fault{IP: pc, Instr: insn, Msg: "relative stack access out of range"}
	}
	return stack[idx], nil
}

// tailCall resolves callee (which must be Closure or Thunk) to a jump
// target and builds the new stack: its captured values followed by the
// last arity elements of stack, where arity is read from callee itself
// rather than trusted from the calling instruction.
func tailCall(prog *compiler.Program, stack []Value, callee Value, pc int, insn compiler.Instruction) ([]Value, int, error) {
	c, ok := callee.(callable)
	if !ok {
		return nil, 0, &Fault{IP: pc, Instr: insn, Msg: "value is not callable: " + callee.Type()}
	}
	label, arity, captured := c.entry()
	target, ok := prog.EntryPoint(label)
	if !ok {
		return nil, 0, &Fault{IP: pc, Instr: insn, Msg: "jump to undefined label " + label}
	}
	if len(stack) < arity {
		return nil, 0, &Fault{IP: pc, Instr: insn, Msg: "stack underflow"}
	}
	args := stack[len(stack)-arity:]
	newStack := make([]Value, 0, len(captured)+len(args))
	newStack = append(newStack, captured...)
	newStack = append(newStack, args...)
	return newStack, target, nil
}
