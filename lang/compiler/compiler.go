package compiler

import (
	"fmt"
	"sort"

	"github.com/mna/tinycps/lang/ast"
)

// arithBuiltins maps a 3-argument CPS primitive name — (op k a b), which
// computes a `op` b and tail-calls the continuation k with the result — to
// the single opcode it inlines to.
var arithBuiltins = map[string]Opcode{
	"+": OpAdd,
	"-": OpSub,
	"*": OpMul,
	"%": OpMod,
	"<": OpLess,
	"=": OpEq,
}

// Compile lowers mod into a flat Program. Every def in mod is compiled
// under its own name as a label; every lambda literal reachable from a
// def is hoisted to a synthetic label name_lambda_N and compiled
// separately, breadth-first, once the function that introduces it has
// finished compiling.
func Compile(mod *ast.Module) (*Program, error) {
	c := &compiler{
		prog:           newProgram(),
		mod:            mod,
		lambdaCounters: make(map[string]int),
	}

	var names []string
	mod.Each(func(name string, _ *ast.Func) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names) // deterministic instruction layout

	for _, name := range names {
		def, _ := mod.Lookup(name)
		if err := c.compileTopLevel(name, def); err != nil {
			return nil, err
		}
	}
	for len(c.pending) > 0 {
		p := c.pending[0]
		c.pending = c.pending[1:]
		if err := c.compileHoisted(p); err != nil {
			return nil, err
		}
	}
	return c.prog, nil
}

type pendingLambda struct {
	label         string
	root          string
	capturedNames []string
	fn            *ast.Func
}

type compiler struct {
	prog           *Program
	mod            *ast.Module
	pending        []pendingLambda
	lambdaCounters map[string]int
}

func (c *compiler) emit(i Instruction) {
	c.prog.Instructions = append(c.prog.Instructions, i)
}

func (c *compiler) compileTopLevel(name string, def *ast.Func) error {
	if err := checkDistinctArgs(def.Args); err != nil {
		return err
	}
	c.prog.Labels.Put(name, len(c.prog.Instructions))
	return c.compileBody(name, def.Body, append([]string(nil), def.Args...))
}

func (c *compiler) compileHoisted(p pendingLambda) error {
	c.prog.Labels.Put(p.label, len(c.prog.Instructions))
	scope := append(append([]string(nil), p.capturedNames...), p.fn.Args...)
	return c.compileBody(p.root, p.fn.Body, scope)
}

func (c *compiler) compileBody(root string, body ast.Node, scope []string) error {
	call, ok := body.(*ast.Call)
	if !ok {
		return &Error{Msg: fmt.Sprintf("function body must be a call, got %T", body)}
	}
	return c.compileCall(root, call, scope)
}

func (c *compiler) compileCall(root string, call *ast.Call, scope []string) error {
	depth := len(scope)
	for _, arg := range call.Args {
		if err := c.compileArg(root, arg, scope, &depth); err != nil {
			return err
		}
	}

	if idx := indexOf(scope, call.Func); idx >= 0 {
		// No extra push for the callee itself: JUMPLAMBDA finds it directly
		// at this relative depth and reads its own arity at dispatch time,
		// rather than trusting the call site's argument count.
		c.emit(Instruction{Op: OpJumpLambda, Rel: depth - 1 - idx})
		return nil
	}

	if op, ok := arithBuiltins[call.Func]; ok {
		if len(call.Args) != 3 {
			return &Error{Msg: fmt.Sprintf("%q takes exactly 3 arguments (operands and a continuation), got %d", call.Func, len(call.Args))}
		}
		c.emit(Instruction{Op: op})
		return nil
	}
	if call.Func == "if" {
		// if nominally takes a leading continuation plus three operands
		// (cond, iftrue, iffalse): four call arguments in total, matching
		// every other builtin's "continuation is just args[0]" convention.
		if len(call.Args) != 4 {
			return &Error{Msg: fmt.Sprintf("%q takes exactly 4 arguments (a continuation, a condition, and two branches), got %d", call.Func, len(call.Args))}
		}
		c.emit(Instruction{Op: OpCondBranch})
		return nil
	}

	if def, ok := c.mod.Lookup(call.Func); ok {
		if len(call.Args) != len(def.Args) {
			return &Error{Msg: fmt.Sprintf("%q takes %d arguments, got %d", call.Func, len(def.Args), len(call.Args))}
		}
		c.emit(Instruction{Op: OpJumpLabel, Label: call.Func, Arity: len(call.Args)})
		return nil
	}

	return &Error{Msg: fmt.Sprintf("undefined function %q", call.Func)}
}

func (c *compiler) compileArg(root string, node ast.Node, scope []string, depth *int) error {
	switch n := node.(type) {
	case *ast.Var:
		if idx := indexOf(scope, n.Symbol); idx >= 0 {
			c.emit(Instruction{Op: OpPushRel, Rel: *depth - 1 - idx})
			*depth++
			return nil
		}
		if def, ok := c.mod.Lookup(n.Symbol); ok {
			c.emit(Instruction{Op: OpPushThunk, Label: n.Symbol, Arity: len(def.Args)})
			*depth++
			return nil
		}
		return &Error{Msg: fmt.Sprintf("undefined variable %q", n.Symbol)}

	case *ast.Const:
		c.emit(Instruction{Op: OpPushConst, Num: n.Value})
		*depth++
		return nil

	case *ast.Finish:
		c.emit(Instruction{Op: OpPushFinish})
		*depth++
		return nil

	case *ast.FuncLiteral:
		return c.compileLambda(root, n, scope, depth)

	default:
		return &Error{Msg: fmt.Sprintf("%T cannot appear in argument position", node)}
	}
}

func (c *compiler) compileLambda(root string, fl *ast.FuncLiteral, scope []string, depth *int) error {
	if err := checkDistinctArgs(fl.Func.Args); err != nil {
		return err
	}

	bound := make(map[string]bool, len(fl.Func.Args))
	for _, a := range fl.Func.Args {
		bound[a] = true
	}
	free := freeVars(fl.Func.Body, bound)

	var captured []string
	var capturedRel []int
	for i, name := range scope {
		if free[name] {
			captured = append(captured, name)
			capturedRel = append(capturedRel, *depth-1-i)
		}
	}

	c.lambdaCounters[root]++
	label := fmt.Sprintf("%s_lambda_%d", root, c.lambdaCounters[root])
	c.pending = append(c.pending, pendingLambda{
		label:         label,
		root:          root,
		capturedNames: captured,
		fn:            fl.Func,
	})

	c.emit(Instruction{
		Op:       OpPushLambda,
		Label:    label,
		Arity:    len(captured) + len(fl.Func.Args),
		Captured: capturedRel,
	})
	*depth++
	return nil
}

// freeVars returns the set of Var symbols referenced under node that are
// not in bound, descending into nested FuncLiterals with their own args
// added to the bound set.
func freeVars(node ast.Node, bound map[string]bool) map[string]bool {
	free := map[string]bool{}
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Var:
			if !bound[v.Symbol] {
				free[v.Symbol] = true
			}
		case *ast.Const, *ast.Finish:
			// no references
		case *ast.Call:
			if !bound[v.Func] {
				free[v.Func] = true
			}
			for _, a := range v.Args {
				walk(a)
			}
		case *ast.FuncLiteral:
			inner := make(map[string]bool, len(bound)+len(v.Func.Args))
			for k := range bound {
				inner[k] = true
			}
			for _, a := range v.Func.Args {
				inner[a] = true
			}
			for k := range freeVars(v.Func.Body, inner) {
				free[k] = true
			}
		}
	}
	walk(node)
	return free
}

func checkDistinctArgs(args []string) error {
	seen := make(map[string]bool, len(args))
	for _, a := range args {
		if seen[a] {
			return &Error{Msg: fmt.Sprintf("duplicate argument name %q", a)}
		}
		seen[a] = true
	}
	return nil
}

// indexOf searches from the end of scope so that a more recently bound
// name shadows an earlier one of the same spelling.
func indexOf(scope []string, name string) int {
	for i := len(scope) - 1; i >= 0; i-- {
		if scope[i] == name {
			return i
		}
	}
	return -1
}
