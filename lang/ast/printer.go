package ast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// String renders v as a debugging form, not a round-trippable surface
// syntax form.

func (v *Var) String() string { return "'" + v.Symbol }

func (c *Const) String() string { return strconv.FormatFloat(c.Value, 'g', -1, 64) }

func (*Finish) String() string { return "finish" }

func (f *Func) String() string {
	return "{" + strings.Join(f.Args, " ") + " | " + f.Body.String() + "}"
}

func (fl *FuncLiteral) String() string { return "lambda" + fl.Func.String() }

func (c *Call) String() string {
	var b strings.Builder
	b.WriteString(c.Func)
	b.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (v *Var) Format(f fmt.State, verb rune) { format(f, verb, v, v.String(), nil) }

func (c *Const) Format(f fmt.State, verb rune) { format(f, verb, c, c.String(), nil) }

func (n *Finish) Format(f fmt.State, verb rune) { format(f, verb, n, n.String(), nil) }

func (fn *Func) Format(f fmt.State, verb rune) {
	format(f, verb, fn, fn.String(), map[string]int{"args": len(fn.Args)})
}

func (fl *FuncLiteral) Format(f fmt.State, verb rune) {
	format(f, verb, fl, "lambda", map[string]int{"args": len(fl.Func.Args)})
}

func (c *Call) Format(f fmt.State, verb rune) {
	format(f, verb, c, "call "+c.Func, map[string]int{"args": len(c.Args)})
}

// format renders n's label for %v/%s, appending counts as a "{k=v, ...}"
// suffix when the %+v flag is set.
func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	fmt.Fprint(f, label)
	if f.Flag('+') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
