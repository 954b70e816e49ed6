package compiler

import "github.com/dolthub/swiss"

// Program is the output of Compile: a flat instruction vector and the
// jump table mapping every named or hoisted function's label to the
// index of its first instruction. Labels is swiss-backed for the same
// reason ast.Module is: a read-mostly table keyed by name, looked up on
// every JUMPLABEL/JUMPLAMBDA dispatch.
type Program struct {
	Instructions []Instruction
	Labels       *swiss.Map[string, int]
}

func newProgram() *Program {
	return &Program{Labels: swiss.NewMap[string, int](8)}
}

// EntryPoint returns the instruction index labeled name.
func (p *Program) EntryPoint(name string) (int, bool) {
	return p.Labels.Get(name)
}
