package ir

// GlobalVariable is a module-scope storage location. Its own Type is always
// a pointer to ValueType (a global named @buf of type i32 has Value.Type ==
// ptr(i32)), matching how references to it are used as addresses everywhere
// else in the IR — the same convention alloca's result follows.
type GlobalVariable struct {
	Value

	Parent      *Module
	ValueType   *Type
	Initializer *Constant // nil for a declared-but-uninitialized global
	Constant    bool      // true for an immutable global

	prev, next *GlobalVariable
}

// AsValue returns the embedded Value by pointer.
func (g *GlobalVariable) AsValue() *Value { return &g.Value }
