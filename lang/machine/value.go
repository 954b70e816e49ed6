package machine

import "strconv"

// Value is a runtime value: Number, Bool, Closure, Thunk, or Finish.
// There is no string, array, map, or user-defined type — the language
// has no heap-allocated aggregates.
type Value interface {
	String() string
	Type() string
	Truth() bool
}

// Number is the language's single numeric type; the surface grammar and
// the machine's arithmetic instructions never distinguish int from
// float.
type Number float64

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }
func (Number) Type() string     { return "number" }
func (n Number) Truth() bool    { return n != 0 }

// Bool only ever arises from the LESS and EQ builtins; there is no
// boolean literal syntax.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string  { return "bool" }
func (b Bool) Truth() bool { return bool(b) }

// Closure is a first-class function value produced by a lambda literal:
// a label to jump to plus the values its free variables captured at the
// moment the PUSHLAMBDA instruction ran.
type Closure struct {
	Label    string
	Arity    int
	Captured []Value
}

func (c Closure) String() string { return "<closure " + c.Label + ">" }
func (Closure) Type() string     { return "closure" }
func (Closure) Truth() bool      { return true }

// Thunk is a first-class reference to a top-level function, which
// captures nothing.
type Thunk struct {
	Label string
	Arity int
}

func (t Thunk) String() string { return "<function " + t.Label + ">" }
func (Thunk) Type() string     { return "function" }
func (Thunk) Truth() bool      { return true }

// Finish is the distinguished sentinel value bound to a program's entry
// continuation at launch. Tail-calling it halts the machine and yields
// its single argument as the program's result.
type Finish struct{}

func (Finish) String() string { return "<finish>" }
func (Finish) Type() string   { return "finish" }
func (Finish) Truth() bool    { return true }

// callable is implemented by the value kinds JUMPLAMBDA and CONDBRANCH
// can jump to: Closure and Thunk. arity is the callee's own argument
// count, read at dispatch time rather than trusted from the calling
// instruction.
type callable interface {
	entry() (label string, arity int, captured []Value)
}

func (c Closure) entry() (string, int, []Value) { return c.Label, c.Arity - len(c.Captured), c.Captured }
func (t Thunk) entry() (string, int, []Value)   { return t.Label, t.Arity, nil }

var (
	_ Value = Number(0)
	_ Value = Bool(false)
	_ Value = Closure{}
	_ Value = Thunk{}
	_ Value = Finish{}

	_ callable = Closure{}
	_ callable = Thunk{}
)
