package ir

import "testing"

func TestDeclareFunctionCreatesTypedParams(t *testing.T) {
	c := NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.I32Type(), []*Type{c.I32Type(), c.I64Type()}, false)
	f := m.DeclareFunction("add", sig)

	if !f.IsDeclaration() {
		t.Fatal("a function with no blocks should report IsDeclaration")
	}
	if len(f.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(f.Params))
	}
	if f.Params[0].Type != c.I32Type() || f.Params[1].Type != c.I64Type() {
		t.Fatal("parameter types must match the signature in order")
	}
	if f.Params[0].Index != 0 || f.Params[1].Index != 1 {
		t.Fatal("parameter Index must match its position")
	}
	if m.FindFunction("add") != f {
		t.Fatal("FindFunction must locate a declared function by name")
	}
}

func TestNewFunctionHasEntryBlockAndIsNotDeclaration(t *testing.T) {
	c := NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.VoidType(), nil, false)
	f := m.NewFunction("f", sig, "entry")

	if f.IsDeclaration() {
		t.Fatal("a function with a body must not report IsDeclaration")
	}
	if f.FirstBlock() == nil || f.FirstBlock().Name != "entry" {
		t.Fatal("NewFunction must create a named entry block")
	}
}

func TestAppendBlockOrderingAndListWalk(t *testing.T) {
	c := NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.VoidType(), nil, false)
	f := m.NewFunction("f", sig, "entry")
	then := f.AppendBlock("then")
	merge := f.AppendBlock("merge")

	blocks := f.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if blocks[0].Name != "entry" || blocks[1] != then || blocks[2] != merge {
		t.Fatal("blocks must walk in append order")
	}
}

func TestDeclareGlobalValueTypeIsPointer(t *testing.T) {
	c := NewContext()
	m := c.NewModule("m")
	g := m.DeclareGlobal("counter", c.I32Type())
	if g.Type != c.PointerType(c.I32Type()) {
		t.Fatal("a global's own Type must be a pointer to its ValueType")
	}
	if m.FindGlobal("counter") != g {
		t.Fatal("FindGlobal must locate a declared global by name")
	}
}

func TestBlockSuccessorsForBrAndCondBr(t *testing.T) {
	c := NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.VoidType(), nil, false)
	f := m.NewFunction("f", sig, "entry")
	entry := f.FirstBlock()
	then := f.AppendBlock("then")
	els := f.AppendBlock("else")

	br := c.NewInstruction(OpCondBr, c.VoidType(), entry)
	c.AppendOperand(br, c.TrueConst().AsValue())
	c.AppendOperand(br, then.AsValue())
	c.AppendOperand(br, els.AsValue())
	entry.pushBack(br)

	succs := entry.Successors()
	if len(succs) != 2 || succs[0] != then || succs[1] != els {
		t.Fatalf("cond_br successors = %v, want [then else]", succs)
	}
}
