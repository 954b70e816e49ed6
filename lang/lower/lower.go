// Package lower turns the untyped s-expression Forms produced by
// lang/parser into a CPS ast.Module, enforcing the syntax-level
// invariants of the language (distinct argument names, Call-shaped
// bodies, well-formed def/lambda shapes).
package lower

import (
	"fmt"
	"strconv"

	"github.com/mna/tinycps/lang/ast"
	"github.com/mna/tinycps/lang/parser"
)

// InteractiveMain is the name lowering gives the synthetic entry function
// it builds for a REPL-typed call or constant.
const InteractiveMain = "__main__"

// Error is a syntax-lowering error: the form was readable by lang/parser
// but does not have the shape lowering requires of it.
type Error struct {
	Form parser.Form
	Msg  string
}

func (e *Error) Error() string {
	if e.Form.Pos.Unknown() {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Form.Pos, e.Msg)
}

func errf(f parser.Form, format string, args ...any) error {
	return &Error{Form: f, Msg: fmt.Sprintf(format, args...)}
}

// Lower converts a whole file's top-level forms, each of which must be a
// `def`, into a Module. It does not require a "main" function to exist;
// callers that need an entry point (lang/compiler, the driver) check for
// one themselves.
func Lower(forms []parser.Form) (*ast.Module, error) {
	mod := ast.NewModule(len(forms))
	for _, f := range forms {
		if err := LowerDef(f, mod); err != nil {
			return nil, err
		}
	}
	return mod, nil
}

// LowerDef lowers one `(def name (args...) body)` form and, on success,
// defines it in mod. A later def for the same name replaces an earlier
// one.
func LowerDef(form parser.Form, mod *ast.Module) error {
	if form.IsAtom() || len(form.Items) != 4 {
		return errf(form, "a def must have the shape (def name (args...) body)")
	}
	if !form.Items[0].IsAtom() || form.Items[0].Atom != "def" {
		return errf(form, "expected 'def'")
	}
	nameForm := form.Items[1]
	if !nameForm.IsAtom() || isNumber(nameForm.Atom) {
		return errf(nameForm, "function name must be an identifier")
	}

	args, err := convertArgNames(form.Items[2])
	if err != nil {
		return err
	}

	body, err := convertCall(form.Items[3], false)
	if err != nil {
		return err
	}

	mod.Define(nameForm.Atom, &ast.Func{Args: args, Body: body})
	return nil
}

// LowerREPL lowers a single form typed at the REPL, trying in turn: a
// def, a bare call (wrapped as the body of a synthetic InteractiveMain
// whose one argument is the continuation), and a bare constant (wrapped
// the same way). It returns the name to invoke to run what was just
// entered, or an error if none of the three interpretations apply. A
// failed attempt never mutates mod, leaving the module untouched on
// total failure.
func LowerREPL(form parser.Form, mod *ast.Module) (string, error) {
	if !form.IsAtom() && len(form.Items) > 0 && form.Items[0].IsAtom() && form.Items[0].Atom == "def" {
		if err := LowerDef(form, mod); err != nil {
			return "", err
		}
		return form.Items[1].Atom, nil
	}

	if call, err := convertCall(form, true); err == nil {
		mod.Define(InteractiveMain, &ast.Func{Args: []string{"ret"}, Body: call})
		return InteractiveMain, nil
	}

	if form.IsAtom() && isNumber(form.Atom) {
		v, err := strconv.ParseFloat(form.Atom, 64)
		if err != nil {
			return "", errf(form, "malformed number literal %q", form.Atom)
		}
		mod.Define(InteractiveMain, &ast.Func{
			Args: []string{"ret"},
			Body: &ast.Call{Func: "ret", Args: []ast.Node{&ast.Const{Value: v}}},
		})
		return InteractiveMain, nil
	}

	return "", errf(form, "could not interpret %q as a def, a call, or a constant", form.String())
}

func convertArgNames(form parser.Form) ([]string, error) {
	if form.IsAtom() {
		return nil, errf(form, "argument list must be a parenthesized list of names")
	}
	seen := make(map[string]bool, len(form.Items))
	args := make([]string, 0, len(form.Items))
	for _, a := range form.Items {
		if !a.IsAtom() || isNumber(a.Atom) || isOperatorAtom(a.Atom) {
			return nil, errf(a, "argument names must be plain identifiers")
		}
		if seen[a.Atom] {
			return nil, errf(a, "duplicate argument name %q", a.Atom)
		}
		seen[a.Atom] = true
		args = append(args, a.Atom)
	}
	return args, nil
}

func convertCall(form parser.Form, transformFinish bool) (*ast.Call, error) {
	if form.IsAtom() || len(form.Items) == 0 {
		return nil, errf(form, "expected a call of the form (func args...)")
	}
	head := form.Items[0]
	if !head.IsAtom() {
		return nil, errf(head, "call target must be an identifier or operator")
	}

	args := make([]ast.Node, 0, len(form.Items)-1)
	for _, a := range form.Items[1:] {
		n, err := convertArgument(a, transformFinish)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
	}
	return &ast.Call{Func: head.Atom, Args: args}, nil
}

func convertArgument(form parser.Form, transformFinish bool) (ast.Node, error) {
	if form.IsAtom() {
		switch {
		case transformFinish && form.Atom == "finish":
			return &ast.Finish{}, nil
		case isNumber(form.Atom):
			v, err := strconv.ParseFloat(form.Atom, 64)
			if err != nil {
				return nil, errf(form, "malformed number literal %q", form.Atom)
			}
			return &ast.Const{Value: v}, nil
		default:
			return &ast.Var{Symbol: form.Atom}, nil
		}
	}
	return convertLambda(form, transformFinish)
}

func convertLambda(form parser.Form, transformFinish bool) (*ast.FuncLiteral, error) {
	if len(form.Items) != 3 || !form.Items[0].IsAtom() || form.Items[0].Atom != "lambda" {
		return nil, errf(form, "a parenthesized argument must be a lambda: (lambda (args...) body)")
	}
	args, err := convertArgNames(form.Items[1])
	if err != nil {
		return nil, err
	}
	body, err := convertCall(form.Items[2], transformFinish)
	if err != nil {
		return nil, err
	}
	return &ast.FuncLiteral{Func: &ast.Func{Args: args, Body: body}}, nil
}

func isNumber(atom string) bool {
	if atom == "" {
		return false
	}
	_, err := strconv.ParseFloat(atom, 64)
	return err == nil
}

func isOperatorAtom(atom string) bool {
	if len(atom) != 1 {
		return false
	}
	for i := 0; i < len(opChars); i++ {
		if opChars[i] == atom[0] {
			return true
		}
	}
	return false
}

const opChars = "+-*/^!=<_%"
