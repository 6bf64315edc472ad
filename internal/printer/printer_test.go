package printer

import (
	"strings"
	"testing"

	"calir/internal/builder"
	"calir/internal/ir"
)

func TestPrintModuleHeaderAndEmptyBody(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("golden_module")

	got := Sprint(m)
	want := "module \"golden_module\"\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintStructDefUsesNameAndMembers(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("m")
	m.DefineStruct("point", []*ir.Type{c.I32Type(), c.I32Type()})

	got := Sprint(m)
	if !strings.Contains(got, "%point = type { i32, i32 }\n") {
		t.Fatalf("missing struct def in output:\n%s", got)
	}
}

func TestPrintGlobalWithInitializer(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("m")
	g := m.DeclareGlobal("g", c.I32Type())
	g.Initializer = c.ConstZero(c.I32Type())

	got := Sprint(m)
	if !strings.Contains(got, "@g = global i32 zeroinitializer\n") {
		t.Fatalf("missing global def in output:\n%s", got)
	}
}

func TestPrintDeclareHasBareParameterTypes(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.I32Type(), []*ir.Type{c.I32Type(), c.I32Type()}, false)
	m.DeclareFunction("declared", sig)

	got := Sprint(m)
	if !strings.Contains(got, "declare i32 @declared(i32, i32)\n") {
		t.Fatalf("missing declare in output:\n%s", got)
	}
}

func TestPrintDefineRoundTripsBasicArithmetic(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.I32Type(), []*ir.Type{c.I32Type(), c.I32Type()}, false)
	f := m.NewFunction("add", sig, "entry")
	f.NameParam(0, "a")
	f.NameParam(1, "b")
	bl := builder.New(c)
	bl.SetInsertPoint(f.FirstBlock())
	sum := bl.CreateAdd(f.Params[0].AsValue(), f.Params[1].AsValue(), "sum")
	bl.CreateRet(sum.AsValue())

	got := Sprint(m)
	if !strings.Contains(got, "define i32 @add(%a: i32, %b: i32) {\n") {
		t.Fatalf("unexpected define header in output:\n%s", got)
	}
	if !strings.Contains(got, "$entry:\n") {
		t.Fatalf("missing entry label in output:\n%s", got)
	}
	if !strings.Contains(got, "%sum: i32 = add") {
		t.Fatalf("missing add instruction in output:\n%s", got)
	}
	if !strings.Contains(got, "ret %sum: i32\n") {
		t.Fatalf("missing ret instruction in output:\n%s", got)
	}
}

func TestPrintBranchesRenderLabelsWithoutType(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.VoidType(), nil, false)
	f := m.NewFunction("f", sig, "entry")
	then := f.AppendBlock("then")
	bl := builder.New(c)
	bl.SetInsertPoint(f.FirstBlock())
	bl.CreateBr(then)
	bl.SetInsertPoint(then)
	bl.CreateRet(nil)

	got := Sprint(m)
	if !strings.Contains(got, "br $then\n") {
		t.Fatalf("expected bare label operand in output:\n%s", got)
	}
}

func TestPrintCondBrRendersCondThenElseLabels(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.VoidType(), nil, false)
	f := m.NewFunction("f", sig, "entry")
	thenB := f.AppendBlock("then")
	elseB := f.AppendBlock("else")
	bl := builder.New(c)
	bl.SetInsertPoint(f.FirstBlock())
	cond := c.TrueConst()
	bl.CreateCondBr(cond.AsValue(), thenB, elseB)
	bl.SetInsertPoint(thenB)
	bl.CreateRet(nil)
	bl.SetInsertPoint(elseB)
	bl.CreateRet(nil)

	got := Sprint(m)
	if !strings.Contains(got, "cond_br true: i1, $then, $else\n") {
		t.Fatalf("unexpected cond_br rendering:\n%s", got)
	}
}

func TestPrintAllocaUsesAllocMnemonicAndPointerResultType(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.VoidType(), nil, false)
	f := m.NewFunction("f", sig, "entry")
	bl := builder.New(c)
	bl.SetInsertPoint(f.FirstBlock())
	bl.CreateAlloca(c.I32Type(), "x")
	bl.CreateRet(nil)

	got := Sprint(m)
	if !strings.Contains(got, "%x: <i32> = alloc i32\n") {
		t.Fatalf("unexpected alloca rendering:\n%s", got)
	}
}

func TestPrintCallRendersCalleeSignatureInAngleBrackets(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("m")
	calleeSig := c.FunctionType(c.I32Type(), []*ir.Type{c.I32Type()}, false)
	callee := m.DeclareFunction("callee", calleeSig)
	callerSig := c.FunctionType(c.I32Type(), nil, false)
	f := m.NewFunction("caller", callerSig, "entry")
	bl := builder.New(c)
	bl.SetInsertPoint(f.FirstBlock())
	call, _ := bl.CreateCall(callee.AsValue(), []*ir.Value{c.ConstInt(c.I32Type(), 5).AsValue()}, "r")
	bl.CreateRet(call.AsValue())

	got := Sprint(m)
	if !strings.Contains(got, "%r: i32 = call <i32(i32)> @callee(5: i32)\n") {
		t.Fatalf("unexpected call rendering:\n%s", got)
	}
}

func TestPrintPhiRendersIncomingPairs(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.I32Type(), nil, false)
	f := m.NewFunction("f", sig, "entry")
	then := f.AppendBlock("then")
	merge := f.AppendBlock("merge")
	bl := builder.New(c)
	bl.SetInsertPoint(f.FirstBlock())
	bl.CreateBr(then)
	bl.SetInsertPoint(then)
	bl.CreateBr(merge)
	bl.SetInsertPoint(merge)
	phi := bl.CreatePhi(c.I32Type(), "x")
	bl.AddIncoming(phi, c.ConstInt(c.I32Type(), 7).AsValue(), then)
	bl.CreateRet(phi.AsValue())

	got := Sprint(m)
	if !strings.Contains(got, "%x: i32 = phi [ 7: i32, $then ]\n") {
		t.Fatalf("unexpected phi rendering:\n%s", got)
	}
}

func TestPrintUndefLiteralInStore(t *testing.T) {
	c := ir.NewContext()
	m := c.NewModule("m")
	sig := c.FunctionType(c.VoidType(), nil, false)
	f := m.NewFunction("f", sig, "entry")
	bl := builder.New(c)
	bl.SetInsertPoint(f.FirstBlock())
	p := bl.CreateAlloca(c.I32Type(), "p")
	bl.CreateStore(c.ConstUndef(c.I32Type()).AsValue(), p.AsValue())
	bl.CreateRet(nil)

	got := Sprint(m)
	if !strings.Contains(got, "store undef: i32, %p: <i32>\n") {
		t.Fatalf("unexpected store rendering:\n%s", got)
	}
}
