// Package builder is the stateful helper that constructs Calir IR: it holds
// a Context handle, a current insertion block, and an auto-naming counter,
// and exposes one method per opcode. Each method materializes the
// instruction in the IR arena, wires up its operand Uses, computes the
// result type, and appends it at the insertion point — the same "current
// position" idiom the teacher's AST-walking compiler uses for bytecode
// emission, generalized here to SSA instruction construction instead.
package builder

import (
	"fmt"

	"calir/internal/calirerrors"
	"calir/internal/ir"
)

// Builder constructs instructions into a single function at a time,
// appending to its current block.
type Builder struct {
	ctx     *ir.Context
	block   *ir.BasicBlock
	counter int
}

// New creates a Builder bound to ctx, with no insertion point set.
func New(ctx *ir.Context) *Builder {
	return &Builder{ctx: ctx}
}

// SetInsertPoint directs subsequent instructions to append to the end of b.
func (bl *Builder) SetInsertPoint(b *ir.BasicBlock) { bl.block = b }

// InsertBlock returns the builder's current insertion block.
func (bl *Builder) InsertBlock() *ir.BasicBlock { return bl.block }

// WithInsertPoint runs fn with the insertion point moved to b, then restores
// the previous insertion point, so a caller can emit into a side block
// without losing its place.
func (bl *Builder) WithInsertPoint(b *ir.BasicBlock, fn func()) {
	prev := bl.block
	bl.block = b
	defer func() { bl.block = prev }()
	fn()
}

// DeclareFunction finalizes a signature from its parts and adds a function
// declaration (no body) named name to m.
func (bl *Builder) DeclareFunction(m *ir.Module, name string, ret *ir.Type, params []*ir.Type, variadic bool) *ir.Function {
	sig := bl.ctx.FunctionType(ret, params, variadic)
	return m.DeclareFunction(name, sig)
}

// CreateFunction finalizes a signature, adds a function definition named
// name to m with one entry block, names every parameter, and moves the
// builder's insertion point to the entry block.
func (bl *Builder) CreateFunction(m *ir.Module, name string, ret *ir.Type, params []*ir.Type, paramNames []string) *ir.Function {
	sig := bl.ctx.FunctionType(ret, params, false)
	f := m.NewFunction(name, sig, "entry")
	for i, pname := range paramNames {
		f.NameParam(i, pname)
	}
	bl.block = f.FirstBlock()
	return f
}

// autoName returns name if non-empty, else a fresh "%<n>"-style counter
// name (rendered without the sigil; the printer adds it).
func (bl *Builder) autoName(name string) string {
	if name != "" {
		return name
	}
	n := bl.counter
	bl.counter++
	return fmt.Sprintf("%d", n)
}

func (bl *Builder) emit(instr *ir.Instruction) *ir.Instruction {
	bl.block.Append(instr)
	return instr
}

// CreateAdd builds an `add` of two operands of identical integer or float
// type, naming the result name (or an auto name if name == "").
func (bl *Builder) CreateAdd(lhs, rhs *ir.Value, name string) *ir.Instruction {
	return bl.createBinOp(ir.OpAdd, lhs, rhs, name)
}

// CreateSub builds a `sub` of two operands of identical integer or float
// type.
func (bl *Builder) CreateSub(lhs, rhs *ir.Value, name string) *ir.Instruction {
	return bl.createBinOp(ir.OpSub, lhs, rhs, name)
}

// CreateSDiv builds an `sdiv` (signed integer division) of two operands of
// identical integer type.
func (bl *Builder) CreateSDiv(lhs, rhs *ir.Value, name string) *ir.Instruction {
	return bl.createBinOp(ir.OpSDiv, lhs, rhs, name)
}

// CreateUDiv builds a `udiv` (unsigned integer division) of two operands of
// identical integer type.
func (bl *Builder) CreateUDiv(lhs, rhs *ir.Value, name string) *ir.Instruction {
	return bl.createBinOp(ir.OpUDiv, lhs, rhs, name)
}

// CreateFDiv builds an `fdiv` (floating-point division) of two operands of
// identical float type.
func (bl *Builder) CreateFDiv(lhs, rhs *ir.Value, name string) *ir.Instruction {
	return bl.createBinOp(ir.OpFDiv, lhs, rhs, name)
}

func (bl *Builder) createBinOp(op ir.Opcode, lhs, rhs *ir.Value, name string) *ir.Instruction {
	instr := bl.ctx.NewInstruction(op, lhs.Type, bl.block)
	instr.Name = bl.autoName(name)
	bl.ctx.AppendOperand(instr, lhs)
	bl.ctx.AppendOperand(instr, rhs)
	return bl.emit(instr)
}

// CreateICmp builds an `icmp` with the given predicate; the result is
// always i1.
func (bl *Builder) CreateICmp(pred ir.ICmpPredicate, lhs, rhs *ir.Value, name string) *ir.Instruction {
	instr := bl.ctx.NewInstruction(ir.OpICmp, bl.ctx.I1Type(), bl.block)
	instr.Name = bl.autoName(name)
	instr.ICmpPred = pred
	bl.ctx.AppendOperand(instr, lhs)
	bl.ctx.AppendOperand(instr, rhs)
	return bl.emit(instr)
}

// CreateAlloca builds an `alloca allocType`; the result type is
// ptr(allocType). Callers are responsible for placing alloca instructions
// only in a function's entry block — the verifier enforces this, the
// builder does not.
func (bl *Builder) CreateAlloca(allocType *ir.Type, name string) *ir.Instruction {
	instr := bl.ctx.NewInstruction(ir.OpAlloca, bl.ctx.PointerType(allocType), bl.block)
	instr.Name = bl.autoName(name)
	instr.AllocType = allocType
	return bl.emit(instr)
}

// CreateLoad builds a `load ptr`, where ptr has type ptr(T); the result
// type is T.
func (bl *Builder) CreateLoad(ptr *ir.Value, name string) *ir.Instruction {
	elemType := ptr.Type.Elem()
	instr := bl.ctx.NewInstruction(ir.OpLoad, elemType, bl.block)
	instr.Name = bl.autoName(name)
	bl.ctx.AppendOperand(instr, ptr)
	return bl.emit(instr)
}

// CreateStore builds a `store val, ptr`; its result type is void.
func (bl *Builder) CreateStore(val, ptr *ir.Value) *ir.Instruction {
	instr := bl.ctx.NewInstruction(ir.OpStore, bl.ctx.VoidType(), bl.block)
	bl.ctx.AppendOperand(instr, val)
	bl.ctx.AppendOperand(instr, ptr)
	return bl.emit(instr)
}

// CreatePhi creates an empty phi of the declared type, with no incoming
// pairs yet; AddIncoming appends them.
func (bl *Builder) CreatePhi(resultType *ir.Type, name string) *ir.Instruction {
	instr := bl.ctx.NewInstruction(ir.OpPhi, resultType, bl.block)
	instr.Name = bl.autoName(name)
	return bl.emit(instr)
}

// AddIncoming appends one (value, predecessor-block) pair to a phi
// instruction, in that order.
func (bl *Builder) AddIncoming(phi *ir.Instruction, value *ir.Value, pred *ir.BasicBlock) {
	bl.ctx.AppendOperand(phi, value)
	bl.ctx.AppendOperand(phi, pred.AsValue())
}

// CreateGEP builds a `gep` walking sourceType from base through indices,
// performing the same type walk the verifier replays: index 0 addresses
// the pointer itself, and each subsequent index strips one level of array
// or struct nesting. The result type is ptr(finalType).
func (bl *Builder) CreateGEP(sourceType *ir.Type, base *ir.Value, indices []*ir.Value, inbounds bool, name string) (*ir.Instruction, error) {
	finalType, err := WalkGEP(sourceType, indices)
	if err != nil {
		return nil, err
	}
	instr := bl.ctx.NewInstruction(ir.OpGEP, bl.ctx.PointerType(finalType), bl.block)
	instr.Name = bl.autoName(name)
	instr.GEPSourceType = sourceType
	instr.GEPInbounds = inbounds
	bl.ctx.AppendOperand(instr, base)
	for _, idx := range indices {
		bl.ctx.AppendOperand(instr, idx)
	}
	return bl.emit(instr), nil
}

// WalkGEP replays the GEP type walk shared by the builder and the
// verifier: the first index addresses the pointer itself and does not
// strip a level; each index after that strips one level of array or
// struct nesting from the current type. It returns the type the final
// index lands on (the builder/verifier then wrap it in a pointer).
func WalkGEP(sourceType *ir.Type, indices []*ir.Value) (*ir.Type, error) {
	if len(indices) == 0 {
		return nil, calirerrors.NewVerify(calirerrors.Location{}, "gep requires at least one index")
	}
	cur := sourceType
	for i := 1; i < len(indices); i++ {
		switch cur.Kind() {
		case ir.ArrayKind:
			cur = cur.Elem()
		case ir.StructKind:
			idxConst := indices[i].Owner
			c, ok := idxConst.(*ir.Constant)
			if !ok || c.CK != ir.ConstInt {
				return nil, calirerrors.NewVerify(calirerrors.Location{}, "gep struct index must be a literal integer constant")
			}
			members := cur.Members()
			n := int(c.IntVal)
			if n < 0 || n >= len(members) {
				return nil, calirerrors.NewVerify(calirerrors.Location{}, "gep struct index %d out of bounds", n)
			}
			cur = members[n]
		default:
			return nil, calirerrors.NewVerify(calirerrors.Location{}, "gep: indexing a non-aggregate type %s", cur.String())
		}
	}
	return cur, nil
}

// CreateCall builds a `call` to callee, which must have type
// ptr(function(...)); the result type is the callee's return type.
func (bl *Builder) CreateCall(callee *ir.Value, args []*ir.Value, name string) (*ir.Instruction, error) {
	sig := callee.Type.Elem()
	if sig == nil || sig.Kind() != ir.FunctionKind {
		return nil, calirerrors.NewVerify(calirerrors.Location{}, "call target is not ptr(function(...))")
	}
	instr := bl.ctx.NewInstruction(ir.OpCall, sig.ReturnType(), bl.block)
	instr.Name = bl.autoName(name)
	bl.ctx.AppendOperand(instr, callee)
	for _, a := range args {
		bl.ctx.AppendOperand(instr, a)
	}
	return bl.emit(instr), nil
}

// CreateRet builds a `ret val`; its result type is void.
func (bl *Builder) CreateRet(val *ir.Value) *ir.Instruction {
	instr := bl.ctx.NewInstruction(ir.OpRet, bl.ctx.VoidType(), bl.block)
	if val != nil {
		bl.ctx.AppendOperand(instr, val)
	}
	return bl.emit(instr)
}

// CreateBr builds an unconditional `br target`.
func (bl *Builder) CreateBr(target *ir.BasicBlock) *ir.Instruction {
	instr := bl.ctx.NewInstruction(ir.OpBr, bl.ctx.VoidType(), bl.block)
	bl.ctx.AppendOperand(instr, target.AsValue())
	return bl.emit(instr)
}

// CreateCondBr builds a `cond_br cond, then, else`.
func (bl *Builder) CreateCondBr(cond *ir.Value, thenBlock, elseBlock *ir.BasicBlock) *ir.Instruction {
	instr := bl.ctx.NewInstruction(ir.OpCondBr, bl.ctx.VoidType(), bl.block)
	bl.ctx.AppendOperand(instr, cond)
	bl.ctx.AppendOperand(instr, thenBlock.AsValue())
	bl.ctx.AppendOperand(instr, elseBlock.AsValue())
	return bl.emit(instr)
}
