package ir

// Argument is one formal parameter of a Function; it is a Value in its own
// right (other instructions can use it as an operand) but never appears in
// any block's instruction list.
type Argument struct {
	Value

	Parent *Function
	Index  int
}

// AsValue returns the embedded Value by pointer.
func (a *Argument) AsValue() *Value { return &a.Value }

// Function is either a definition (Blocks non-empty) or a declaration (an
// external or FFI symbol with a signature but no body). Its blocks are
// threaded through an intrusive doubly-linked list, the same shape a
// BasicBlock uses for its instructions.
//
// Its own Value.Type is ptr(Sig) — a reference to a function decays to a
// function pointer at every use site, the same convention a
// GlobalVariable's Value.Type follows for its ValueType.
type Function struct {
	Value

	Sig    *Type // the FunctionKind type: return type, params, variadic
	Parent *Module
	Params []*Argument

	first, last *BasicBlock

	prev, next *Function // intrusive position within Parent's function list
}

// AsValue returns the embedded Value by pointer.
func (f *Function) AsValue() *Value { return &f.Value }

// Signature returns the function's FunctionKind Type.
func (f *Function) Signature() *Type { return f.Sig }

// ReturnType returns the function's declared return type.
func (f *Function) ReturnType() *Type { return f.Sig.ret }

// IsDeclaration reports whether the function has no body (an external or
// FFI-backed symbol).
func (f *Function) IsDeclaration() bool { return f.first == nil }

// Blocks returns the function's basic blocks in order. It allocates;
// callers on a hot path should walk FirstBlock/NextBlock instead.
func (f *Function) Blocks() []*BasicBlock {
	var out []*BasicBlock
	for b := f.first; b != nil; b = b.next {
		out = append(out, b)
	}
	return out
}

// FirstBlock returns the function's entry block, or nil for a declaration.
func (f *Function) FirstBlock() *BasicBlock { return f.first }

// LastBlock returns the function's last block, or nil for a declaration.
func (f *Function) LastBlock() *BasicBlock { return f.last }

// NameParam sets the name of the i-th formal parameter. Declarations leave
// their parameters unnamed per the verifier's function-level rule; callers
// building a definition name each parameter before emitting its body.
func (f *Function) NameParam(i int, name string) { f.Params[i].Name = name }

// pushBlock appends b to the end of the function's block list.
func (f *Function) pushBlock(b *BasicBlock) {
	b.Parent = f
	b.prev = f.last
	b.next = nil
	if f.last != nil {
		f.last.next = b
	} else {
		f.first = b
	}
	f.last = b
}
