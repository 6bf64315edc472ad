package interp

import (
	"testing"

	"calir/internal/builder"
	"calir/internal/ir"
	"calir/internal/layout"
)

func newModule(t *testing.T) (*ir.Context, *ir.Module) {
	t.Helper()
	ctx := ir.NewContext()
	return ctx, ctx.NewModule("test")
}

// TestCallAddReturnsSum builds `define i32 @add(i32 %a, i32 %b) { %r = add
// %a, %b; ret %r }`, calls it with 10 and 20, and checks the result is 30.
func TestCallAddReturnsSum(t *testing.T) {
	ctx, m := newModule(t)
	sig := ctx.FunctionType(ctx.I32Type(), []*ir.Type{ctx.I32Type(), ctx.I32Type()}, false)
	fn := m.NewFunction("add", sig, "entry")
	fn.NameParam(0, "a")
	fn.NameParam(1, "b")

	bl := builder.New(ctx)
	bl.SetInsertPoint(fn.FirstBlock())
	sum := bl.CreateAdd(fn.Params[0].AsValue(), fn.Params[1].AsValue(), "r")
	bl.CreateRet(sum.AsValue())

	it := New(layout.Host())
	if err := it.LoadModule(m); err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
	result, err := it.Call(fn, []Value{
		{Kind: KindI32, Int: 10},
		{Kind: KindI32, Int: 20},
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.Kind != KindI32 || result.Int != 30 {
		t.Fatalf("got %+v, want i32 30", result)
	}
}

// TestAllocaLoadStoreRoundTrip builds a function that allocates an i32 slot,
// stores a constant into it, loads it back, and returns it.
func TestAllocaLoadStoreRoundTrip(t *testing.T) {
	ctx, m := newModule(t)
	sig := ctx.FunctionType(ctx.I32Type(), nil, false)
	fn := m.NewFunction("roundtrip", sig, "entry")

	bl := builder.New(ctx)
	bl.SetInsertPoint(fn.FirstBlock())
	slot := bl.CreateAlloca(ctx.I32Type(), "slot")
	bl.CreateStore(ctx.ConstInt(ctx.I32Type(), 42).AsValue(), slot.AsValue())
	loaded := bl.CreateLoad(slot.AsValue(), "loaded")
	bl.CreateRet(loaded.AsValue())

	it := New(layout.Host())
	if err := it.LoadModule(m); err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
	result, err := it.Call(fn, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.Kind != KindI32 || result.Int != 42 {
		t.Fatalf("got %+v, want i32 42", result)
	}
}

// TestGEPStructAndArrayOffsets builds { i32, [4 x i32] } on the stack,
// stores through a three-index GEP into the array member, and reads it back
// through a second, identical GEP and a load to confirm the byte offset
// landed correctly.
func TestGEPStructAndArrayOffsets(t *testing.T) {
	ctx, m := newModule(t)
	arrTy := ctx.ArrayType(ctx.I32Type(), 4)
	structTy := ctx.StructType([]*ir.Type{ctx.I32Type(), arrTy})
	sig := ctx.FunctionType(ctx.I32Type(), nil, false)
	fn := m.NewFunction("gepwrite", sig, "entry")

	bl := builder.New(ctx)
	bl.SetInsertPoint(fn.FirstBlock())
	slot := bl.CreateAlloca(structTy, "s")

	zero := ctx.ConstInt(ctx.I32Type(), 0).AsValue()
	two := ctx.ConstInt(ctx.I32Type(), 2).AsValue()
	one := ctx.ConstInt(ctx.I32Type(), 1).AsValue()

	gep, err := bl.CreateGEP(structTy, slot.AsValue(), []*ir.Value{zero, one, two}, false, "elem")
	if err != nil {
		t.Fatalf("CreateGEP: %v", err)
	}
	bl.CreateStore(ctx.ConstInt(ctx.I32Type(), 99).AsValue(), gep.AsValue())

	reload, err := bl.CreateGEP(structTy, slot.AsValue(), []*ir.Value{zero, one, two}, false, "elem2")
	if err != nil {
		t.Fatalf("CreateGEP: %v", err)
	}
	loaded := bl.CreateLoad(reload.AsValue(), "v")
	bl.CreateRet(loaded.AsValue())

	it := New(layout.Host())
	if err := it.LoadModule(m); err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
	result, err := it.Call(fn, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.Int != 99 {
		t.Fatalf("got %+v, want i32 99", result)
	}
}

func TestDivisionByZero(t *testing.T) {
	tests := []struct {
		name    string
		build   func(bl *builder.Builder, lhs, rhs *ir.Value, name string) *ir.Instruction
		resTy   func(ctx *ir.Context) *ir.Type
		lhs     uint64
		wantMsg string
	}{
		{"sdiv", (*builder.Builder).CreateSDiv, func(c *ir.Context) *ir.Type { return c.I32Type() }, 10, "division by zero (signed)"},
		{"udiv", (*builder.Builder).CreateUDiv, func(c *ir.Context) *ir.Type { return c.I32Type() }, 10, "division by zero (unsigned)"},
		{"fdiv", (*builder.Builder).CreateFDiv, func(c *ir.Context) *ir.Type { return c.F64Type() }, 0, "division by zero (float)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, m := newModule(t)
			ty := tt.resTy(ctx)
			sig := ctx.FunctionType(ty, nil, false)
			fn := m.NewFunction("divzero", sig, "entry")
			bl := builder.New(ctx)
			bl.SetInsertPoint(fn.FirstBlock())

			var lhs, rhs *ir.Value
			if tt.name == "fdiv" {
				lhs = ctx.ConstFloat(ty, 10).AsValue()
				rhs = ctx.ConstFloat(ty, 0).AsValue()
			} else {
				lhs = ctx.ConstInt(ty, tt.lhs).AsValue()
				rhs = ctx.ConstInt(ty, 0).AsValue()
			}
			d := tt.build(bl, lhs, rhs, "d")
			bl.CreateRet(d.AsValue())

			it := New(layout.Host())
			if err := it.LoadModule(m); err != nil {
				t.Fatalf("LoadModule: %v", err)
			}
			_, err := it.Call(fn, nil)
			if err == nil {
				t.Fatal("expected a division-by-zero error")
			}
			if err.Error() == "" || !contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error = %q, want it to mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// TestFFICallDispatch registers a host callback for a declared function and
// checks the interpreter invokes it instead of failing "no definition".
func TestFFICallDispatch(t *testing.T) {
	ctx, m := newModule(t)
	i32 := ctx.I32Type()
	hostSig := ctx.FunctionType(i32, []*ir.Type{i32}, false)
	hostFn := m.DeclareFunction("host_double", hostSig)

	callerSig := ctx.FunctionType(i32, []*ir.Type{i32}, false)
	caller := m.NewFunction("caller", callerSig, "entry")
	caller.NameParam(0, "x")

	bl := builder.New(ctx)
	bl.SetInsertPoint(caller.FirstBlock())
	call, err := bl.CreateCall(hostFn.AsValue(), []*ir.Value{caller.Params[0].AsValue()}, "r")
	if err != nil {
		t.Fatalf("CreateCall: %v", err)
	}
	bl.CreateRet(call.AsValue())

	it := New(layout.Host())
	if err := it.LoadModule(m); err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
	it.RegisterFFI("host_double", func(args []Value) (Value, error) {
		return Value{Kind: KindI32, Int: args[0].Int * 2}, nil
	})

	result, err := it.Call(caller, []Value{{Kind: KindI32, Int: 21}})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.Int != 42 {
		t.Fatalf("got %+v, want i32 42", result)
	}
}

// TestParallelPhiSemantics builds a diamond CFG where two phis in the merge
// block cross-reference each other's entry-block values
// (%p1 = phi [entry: %b], %p2 = phi [entry: %a]) so that binding one before
// evaluating the other would produce the wrong result under sequential
// (as opposed to simultaneous) assignment.
func TestParallelPhiSemantics(t *testing.T) {
	ctx, m := newModule(t)
	i32 := ctx.I32Type()
	sig := ctx.FunctionType(i32, nil, false)
	fn := m.NewFunction("diamond", sig, "entry")
	merge := fn.AppendBlock("merge")

	bl := builder.New(ctx)
	bl.SetInsertPoint(fn.FirstBlock())
	a := ctx.ConstInt(i32, 1).AsValue()
	b := ctx.ConstInt(i32, 2).AsValue()
	bl.CreateBr(merge)

	bl.SetInsertPoint(merge)
	p1 := bl.CreatePhi(i32, "p1")
	bl.AddIncoming(p1, b, fn.FirstBlock())
	p2 := bl.CreatePhi(i32, "p2")
	bl.AddIncoming(p2, a, fn.FirstBlock())
	sum := bl.CreateAdd(p1.AsValue(), p2.AsValue(), "sum")
	bl.CreateRet(sum.AsValue())

	it := New(layout.Host())
	if err := it.LoadModule(m); err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
	result, err := it.Call(fn, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.Int != 3 {
		t.Fatalf("got %+v, want i32 3 (2+1)", result)
	}
}

// TestStackOverflow gives a call a tiny stack arena and checks that an
// alloca which cannot fit reports a runtime stack-overflow error rather
// than panicking.
func TestStackOverflow(t *testing.T) {
	ctx, m := newModule(t)
	bigTy := ctx.ArrayType(ctx.I64Type(), 1024)
	sig := ctx.FunctionType(ctx.VoidType(), nil, false)
	fn := m.NewFunction("overflow", sig, "entry")

	bl := builder.New(ctx)
	bl.SetInsertPoint(fn.FirstBlock())
	bl.CreateAlloca(bigTy, "big")
	bl.CreateRet(nil)

	it := New(layout.Host())
	it.stackLimit = 8
	if err := it.LoadModule(m); err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
	_, err := it.Call(fn, nil)
	if err == nil || !contains(err.Error(), "stack overflow") {
		t.Fatalf("err = %v, want a stack overflow error", err)
	}
}
