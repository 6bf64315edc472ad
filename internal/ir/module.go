package ir

// Module is the top-level compilation unit: a named collection of global
// variables and functions, all owned by one Context. Functions and globals
// are each threaded through their own intrusive doubly-linked list so a
// pass can delete one out of the middle in O(1).
type Module struct {
	Name string
	Ctx  *Context

	firstFn, lastFn *Function
	firstGv, lastGv *GlobalVariable

	structDefs []*Type // named struct types defined in this module, in source order
}

// NewModule allocates an empty Module named name against ctx.
func (c *Context) NewModule(name string) *Module {
	m := c.modulePool.Alloc()
	m.Name = name
	m.Ctx = c
	return m
}

// Functions returns the module's functions in declaration order. It
// allocates a new slice on each call.
func (m *Module) Functions() []*Function {
	var out []*Function
	for f := m.firstFn; f != nil; f = f.next {
		out = append(out, f)
	}
	return out
}

// FirstFunction returns the module's first function, or nil if none.
func (m *Module) FirstFunction() *Function { return m.firstFn }

// Globals returns the module's global variables in declaration order.
func (m *Module) Globals() []*GlobalVariable {
	var out []*GlobalVariable
	for g := m.firstGv; g != nil; g = g.next {
		out = append(out, g)
	}
	return out
}

// FirstGlobal returns the module's first global variable, or nil if none.
func (m *Module) FirstGlobal() *GlobalVariable { return m.firstGv }

// FindFunction returns the function named name, or nil if the module has
// none by that name.
func (m *Module) FindFunction(name string) *Function {
	for f := m.firstFn; f != nil; f = f.next {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindGlobal returns the global variable named name, or nil if the module
// has none by that name.
func (m *Module) FindGlobal(name string) *GlobalVariable {
	for g := m.firstGv; g != nil; g = g.next {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// DefineStruct declares a named struct type, installs its member list, and
// records it on the module in source order so a printer can re-emit struct
// definitions in the order they first appeared rather than in cache order.
func (m *Module) DefineStruct(name string, members []*Type) *Type {
	t := m.Ctx.NamedStructType(name)
	m.Ctx.SetStructBody(t, members)
	m.structDefs = append(m.structDefs, t)
	return t
}

// StructDefs returns the named struct types defined in this module, in the
// order DefineStruct installed them.
func (m *Module) StructDefs() []*Type { return m.structDefs }

// DeclareFunction adds a function declaration (no body) named name with the
// given signature to the module.
func (m *Module) DeclareFunction(name string, sig *Type) *Function {
	f := m.Ctx.funcPool.Alloc()
	f.Value = Value{Kind: KindFunction, Name: name, Type: m.Ctx.PointerType(sig)}
	f.Owner = f
	f.Sig = sig
	f.Parent = m
	if len(sig.params) > 0 {
		f.Params = make([]*Argument, len(sig.params))
		for i, pt := range sig.params {
			a := m.Ctx.argPool.Alloc()
			a.Value = Value{Kind: KindArgument, Type: pt}
			a.Owner = a
			a.Parent = f
			a.Index = i
			f.Params[i] = a
		}
	}
	m.pushFunction(f)
	return f
}

func (m *Module) pushFunction(f *Function) {
	f.prev = m.lastFn
	f.next = nil
	if m.lastFn != nil {
		m.lastFn.next = f
	} else {
		m.firstFn = f
	}
	m.lastFn = f
}

// DeclareGlobal adds a global variable declaration (no initializer) named
// name, holding a value of type valueType, to the module. Its own Value.Type
// is ptr(valueType).
func (m *Module) DeclareGlobal(name string, valueType *Type) *GlobalVariable {
	g := m.Ctx.globalPool.Alloc()
	g.Value = Value{Kind: KindGlobal, Name: name, Type: m.Ctx.PointerType(valueType)}
	g.Owner = g
	g.Parent = m
	g.ValueType = valueType
	m.pushGlobal(g)
	return g
}

func (m *Module) pushGlobal(g *GlobalVariable) {
	g.prev = m.lastGv
	g.next = nil
	if m.lastGv != nil {
		m.lastGv.next = g
	} else {
		m.firstGv = g
	}
	m.lastGv = g
}

// NewFunction adds a function definition named name with the given
// signature, and appends one empty entry block to it named entryName.
func (m *Module) NewFunction(name string, sig *Type, entryName string) *Function {
	f := m.DeclareFunction(name, sig)
	f.pushBlock(m.newBlock(entryName))
	return f
}

// AppendBlock appends a new, empty basic block named name to f and returns
// it.
func (f *Function) AppendBlock(name string) *BasicBlock {
	b := f.Parent.newBlock(name)
	f.pushBlock(b)
	return b
}

func (m *Module) newBlock(name string) *BasicBlock {
	b := m.Ctx.blockPool.Alloc()
	b.Value = Value{Kind: KindBasicBlock, Name: name, Type: m.Ctx.labelTy}
	b.Owner = b
	return b
}
