// Package ast defines the CPS abstract syntax tree the compiler consumes:
// five node kinds plus the supplemental Finish reference used only by
// REPL sugar.
//
// AST invariants:
//  1. Every Func's body must be a Call. Lowering enforces this
//     structurally (Func.Body is declared Node, not *Call, only because
//     the compiler re-validates it independently — see lang/compiler —
//     so the check isn't lost if a Module is ever built by hand).
//  2. Every Func's first argument is, by convention, the continuation.
//     Not enforced by this package or the compiler.
//  3. Argument names within one Func must be distinct. Enforced by
//     lang/lower at construction time.
//  4. Every Call target that is not a local variable must resolve to a
//     builtin or a module function, or compilation fails.
package ast

// A Node is one of Var, Const, Func, FuncLiteral, Call, or Finish.
type Node interface {
	String() string
	isNode()
}

// Var is a reference to a symbol: a local (stack-bound) name, or a
// top-level function used as a first-class value.
type Var struct {
	Symbol string
}

// Const is an immediate numeric literal. The surface grammar has no
// boolean literal syntax; Bool values only ever arise at runtime, from
// comparison builtins.
type Const struct {
	Value float64
}

// Finish is a reference to the distinguished finish sentinel, usable
// anywhere an argument is expected. It exists only as REPL sugar (the
// bare identifier "finish" typed at the prompt) and is never produced by
// lowering a stored `def` — see lang/lower.
type Finish struct{}

// Func is a non-first-class function definition. Args must be distinct
// symbol names (enforced by lang/lower); Body must be a *Call (enforced
// both by lang/lower and, defensively, by lang/compiler).
type Func struct {
	Args []string
	Body Node
}

// FuncLiteral is a first-class, closure-producing expression: `lambda`.
type FuncLiteral struct {
	Func *Func
}

// Call invokes Func (a symbol resolved at compile time against the local
// scope, the builtin table, or the module) with Args.
type Call struct {
	Func string
	Args []Node
}

func (*Var) isNode()         {}
func (*Const) isNode()       {}
func (*Finish) isNode()      {}
func (*Func) isNode()        {}
func (*FuncLiteral) isNode() {}
func (*Call) isNode()        {}

var (
	_ Node = (*Var)(nil)
	_ Node = (*Const)(nil)
	_ Node = (*Finish)(nil)
	_ Node = (*Func)(nil)
	_ Node = (*FuncLiteral)(nil)
	_ Node = (*Call)(nil)
)
