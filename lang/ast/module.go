package ast

import "github.com/dolthub/swiss"

// Module is the unordered mapping from unique function name to *Func that
// lang/lower produces and lang/compiler consumes. It is backed by a
// SwissTable map rather than a built-in map for its name-keyed lookups.
type Module struct {
	funcs *swiss.Map[string, *Func]
}

// NewModule returns an empty Module sized for n functions.
func NewModule(n int) *Module {
	if n < 1 {
		n = 1
	}
	return &Module{funcs: swiss.NewMap[string, *Func](uint32(n))}
}

// Define adds fn under name, overwriting any previous definition — a
// later `def` for the same name replaces the earlier one.
func (m *Module) Define(name string, fn *Func) {
	m.funcs.Put(name, fn)
}

// Lookup returns the function named name, if any.
func (m *Module) Lookup(name string) (*Func, bool) {
	return m.funcs.Get(name)
}

// Has reports whether name is defined.
func (m *Module) Has(name string) bool {
	return m.funcs.Has(name)
}

// Len reports the number of defined functions.
func (m *Module) Len() int {
	return m.funcs.Count()
}

// Each calls fn for every (name, *Func) pair in unspecified order,
// stopping early if fn returns false.
func (m *Module) Each(fn func(name string, def *Func) bool) {
	m.funcs.Iter(func(name string, def *Func) bool {
		return !fn(name, def)
	})
}
