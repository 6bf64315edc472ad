package interp

import (
	"calir/internal/arena"
	"calir/internal/builder"
	"calir/internal/calirerrors"
	"calir/internal/ir"
	"calir/internal/layout"
)

// maxCallDepth bounds interpreter call recursion. The spec's "stack
// overflow" failure mode is defined in terms of a per-call stack arena
// running out of room for allocas; this is the analogous guard against
// unbounded IR-level recursion blowing the Go call stack instead, reported
// through the same failure mode.
const maxCallDepth = 4096

// defaultStackLimit bounds a single call's alloca stack arena, in bytes.
const defaultStackLimit = 1 << 20

// FFIFunc is a host callback an interpreted module can call by name: a
// declared function with no body whose name matches a registered FFIFunc
// is invoked in place of failing with "no definition".
type FFIFunc func(args []Value) (Value, error)

// Interpreter owns everything that outlives a single call: the data
// layout, every global's backing storage, and the FFI registry. Memory
// objects (one per global, one per alloca) are tracked in a flat table so
// a pointer Value can be the pair (object index, byte offset) rather than
// a raw unsafe.Pointer, and objects stay addressable for the Interpreter's
// whole lifetime.
type Interpreter struct {
	layout *layout.Layout

	globalArena *arena.Arena
	objs        [][]byte
	globals     map[*ir.GlobalVariable]Value

	ffi map[string]FFIFunc

	depth      int
	stackLimit int64
}

// New builds an Interpreter against lay (layout.Host() if nil).
func New(lay *layout.Layout) *Interpreter {
	if lay == nil {
		lay = layout.Host()
	}
	return &Interpreter{
		layout:      lay,
		globalArena: arena.New(4096),
		globals:     make(map[*ir.GlobalVariable]Value),
		ffi:         make(map[string]FFIFunc),
		stackLimit:  defaultStackLimit,
	}
}

// RegisterFFI installs fn as the callback invoked when an interpreted
// module calls a declared (bodyless) function named name.
func (it *Interpreter) RegisterFFI(name string, fn FFIFunc) {
	it.ffi[name] = fn
}

// LoadModule allocates backing storage for every global variable in m and
// writes its initializer, if any. It must be called once per Module before
// any Call into that module's functions resolves a global operand.
func (it *Interpreter) LoadModule(m *ir.Module) error {
	for _, g := range m.Globals() {
		size := it.layout.Size(g.ValueType.AsTypeInfo())
		align := it.layout.Align(g.ValueType.AsTypeInfo())
		buf := it.globalArena.Alloc(int(size), align)
		if buf == nil {
			return calirerrors.NewRuntime("out of memory allocating global @%s", g.Name)
		}
		if g.Initializer != nil {
			switch g.Initializer.CK {
			case ir.ConstZeroinitializer, ir.ConstUndef:
				// The arena already hands back zeroed memory.
			default:
				copy(buf, encodeScalar(g.ValueType, constantToValue(g.Initializer), it.layout))
			}
		}
		it.globals[g] = it.newPointer(buf)
	}
	return nil
}

// newPointer registers buf as a fresh memory object and returns a pointer
// Value addressing its first byte.
func (it *Interpreter) newPointer(buf []byte) Value {
	it.objs = append(it.objs, buf)
	return Value{Kind: KindPointer, PtrObj: uint64(len(it.objs)), PtrOff: 0}
}

// resolvePointer returns the live memory starting at v, or an "invalid
// pointer" runtime error if v is null, out of range, or the wrong Kind.
func (it *Interpreter) resolvePointer(v Value) ([]byte, error) {
	if v.Kind != KindPointer || v.PtrObj == 0 {
		return nil, calirerrors.NewRuntime("invalid pointer")
	}
	idx := int(v.PtrObj - 1)
	if idx < 0 || idx >= len(it.objs) {
		return nil, calirerrors.NewRuntime("invalid pointer")
	}
	buf := it.objs[idx]
	if v.PtrOff < 0 || v.PtrOff > len(buf) {
		return nil, calirerrors.NewRuntime("invalid pointer")
	}
	return buf[v.PtrOff:], nil
}

// Call invokes fn with the given runtime arguments: a defined function
// recurses through a fresh ExecutionContext, a declaration dispatches to
// its registered FFI callback.
func (it *Interpreter) Call(fn *ir.Function, args []Value) (Value, error) {
	if fn.Signature().Variadic() {
		if len(args) < len(fn.Params) {
			return Value{}, calirerrors.Internalf("call argument count mismatch: got %d, want at least %d", len(args), len(fn.Params))
		}
	} else if len(args) != len(fn.Params) {
		return Value{}, calirerrors.Internalf("call argument count mismatch: got %d, want %d", len(args), len(fn.Params))
	}
	if fn.IsDeclaration() {
		cb, ok := it.ffi[fn.Name]
		if !ok {
			return Value{}, calirerrors.NewRuntime("call to undefined function %q", fn.Name)
		}
		return cb(args)
	}
	if it.depth >= maxCallDepth {
		return Value{}, calirerrors.NewRuntime("stack overflow")
	}
	it.depth++
	defer func() { it.depth-- }()

	ec := &ExecutionContext{
		interp:     it,
		tempArena:  arena.New(4096),
		stackArena: arena.New(4096, arena.WithLimit(it.stackLimit)),
		frame:      make(map[*ir.Value]Value, len(fn.Params)),
	}
	for i, p := range fn.Params {
		ec.frame[p.AsValue()] = args[i]
	}
	return ec.run(fn.FirstBlock())
}

// ExecutionContext is the per-call state a single Call allocates: a
// temporary arena for materializing per-instruction runtime value slices
// (call argument lists), a stack arena alloca bump-allocates out of for
// the lifetime of the call, and a frame binding every argument/instruction
// Value to its runtime result so far.
type ExecutionContext struct {
	interp     *Interpreter
	tempArena  *arena.Arena
	stackArena *arena.Arena
	frame      map[*ir.Value]Value
}

func (ec *ExecutionContext) bind(instr *ir.Instruction, v Value) {
	if instr.Type.Kind() == ir.Void {
		return
	}
	ec.frame[instr.AsValue()] = v
}

// evalOperand resolves an operand Value to its runtime Value: a constant
// evaluates directly, an argument/instruction reads the frame, and a
// global reads its registered storage pointer.
func (ec *ExecutionContext) evalOperand(v *ir.Value) (Value, error) {
	switch v.Kind {
	case ir.KindConstant:
		return constantToValue(v.AsConstant()), nil
	case ir.KindArgument, ir.KindInstruction:
		val, ok := ec.frame[v]
		if !ok {
			return Value{}, calirerrors.Internalf("no frame binding for %%%s", v.Name)
		}
		return val, nil
	case ir.KindGlobal:
		val, ok := ec.interp.globals[v.AsGlobal()]
		if !ok {
			return Value{}, calirerrors.Internalf("global @%s has no storage: LoadModule was not called", v.Name)
		}
		return val, nil
	default:
		return Value{}, calirerrors.Internalf("value kind %d is not a runtime operand", v.Kind)
	}
}

// run dispatches from entry until a ret instruction returns a value (or
// void), walking the textual instruction order within each block and
// resolving phis in parallel at every block transition.
func (ec *ExecutionContext) run(entry *ir.BasicBlock) (Value, error) {
	var prev *ir.BasicBlock
	block := entry
outer:
	for {
		if err := ec.bindPhis(block, prev); err != nil {
			return Value{}, err
		}

		instr := block.First()
		for instr != nil && instr.IsPhi() {
			instr = instr.Next()
		}

		for instr != nil {
			switch instr.Opcode {
			case ir.OpRet:
				if instr.NumOperands() == 0 {
					return Value{}, nil
				}
				return ec.evalOperand(instr.Operand(0))
			case ir.OpBr:
				prev = block
				block = instr.Operand(0).AsBasicBlock()
				continue outer
			case ir.OpCondBr:
				cond, err := ec.evalOperand(instr.Operand(0))
				if err != nil {
					return Value{}, err
				}
				prev = block
				if cond.Int != 0 {
					block = instr.Operand(1).AsBasicBlock()
				} else {
					block = instr.Operand(2).AsBasicBlock()
				}
				continue outer
			default:
				v, err := ec.exec(instr)
				if err != nil {
					return Value{}, err
				}
				ec.bind(instr, v)
				instr = instr.Next()
			}
		}
		return Value{}, calirerrors.Internalf("block %q fell off the end without a terminator", block.Name)
	}
}

// bindPhis evaluates every phi at the head of block against the
// just-left predecessor prev, snapshotting all incoming values before
// binding any of them into the frame — so a phi can reference another
// phi's pre-transfer value without observing the new block's bindings.
func (ec *ExecutionContext) bindPhis(block *ir.BasicBlock, prev *ir.BasicBlock) error {
	instr := block.First()
	if instr == nil || !instr.IsPhi() {
		return nil
	}
	type pending struct {
		instr *ir.Instruction
		val   Value
	}
	var assigns []pending
	for instr != nil && instr.IsPhi() {
		val, err := ec.evalIncoming(instr, prev)
		if err != nil {
			return err
		}
		assigns = append(assigns, pending{instr, val})
		instr = instr.Next()
	}
	for _, a := range assigns {
		ec.bind(a.instr, a.val)
	}
	return nil
}

func (ec *ExecutionContext) evalIncoming(instr *ir.Instruction, prev *ir.BasicBlock) (Value, error) {
	for i := 0; i < instr.NumIncoming(); i++ {
		val, pred := instr.Incoming(i)
		if pred == prev {
			return ec.evalOperand(val)
		}
	}
	return Value{}, calirerrors.Internalf("phi %%%s has no incoming value for predecessor %q", instr.Name, blockName(prev))
}

func blockName(b *ir.BasicBlock) string {
	if b == nil {
		return "<entry>"
	}
	return b.Name
}

// exec dispatches one non-phi, non-terminator instruction.
func (ec *ExecutionContext) exec(instr *ir.Instruction) (Value, error) {
	switch instr.Opcode {
	case ir.OpAdd:
		return ec.execAdd(instr)
	case ir.OpSub:
		return ec.execSub(instr)
	case ir.OpSDiv:
		return ec.execSDiv(instr)
	case ir.OpUDiv:
		return ec.execUDiv(instr)
	case ir.OpFDiv:
		return ec.execFDiv(instr)
	case ir.OpICmp:
		return ec.execICmp(instr)
	case ir.OpAlloca:
		return ec.execAlloca(instr)
	case ir.OpLoad:
		return ec.execLoad(instr)
	case ir.OpStore:
		return ec.execStore(instr)
	case ir.OpGEP:
		return ec.execGEP(instr)
	case ir.OpCall:
		return ec.execCall(instr)
	default:
		return Value{}, calirerrors.Internalf("interp: unhandled opcode %v", instr.Opcode)
	}
}

func (ec *ExecutionContext) evalBinary(instr *ir.Instruction) (Value, Value, error) {
	lhs, err := ec.evalOperand(instr.Operand(0))
	if err != nil {
		return Value{}, Value{}, err
	}
	rhs, err := ec.evalOperand(instr.Operand(1))
	if err != nil {
		return Value{}, Value{}, err
	}
	return lhs, rhs, nil
}

func (ec *ExecutionContext) execAdd(instr *ir.Instruction) (Value, error) {
	lhs, rhs, err := ec.evalBinary(instr)
	if err != nil {
		return Value{}, err
	}
	if instr.Type.Kind().IsFloat() {
		return Value{Kind: lhs.Kind, Float: lhs.Float + rhs.Float}, nil
	}
	bits := instr.Type.IntBits()
	return Value{Kind: lhs.Kind, Int: maskToBits(lhs.Int+rhs.Int, bits)}, nil
}

func (ec *ExecutionContext) execSub(instr *ir.Instruction) (Value, error) {
	lhs, rhs, err := ec.evalBinary(instr)
	if err != nil {
		return Value{}, err
	}
	if instr.Type.Kind().IsFloat() {
		return Value{Kind: lhs.Kind, Float: lhs.Float - rhs.Float}, nil
	}
	bits := instr.Type.IntBits()
	return Value{Kind: lhs.Kind, Int: maskToBits(lhs.Int-rhs.Int, bits)}, nil
}

func (ec *ExecutionContext) execSDiv(instr *ir.Instruction) (Value, error) {
	lhs, rhs, err := ec.evalBinary(instr)
	if err != nil {
		return Value{}, err
	}
	if rhs.Int == 0 {
		return Value{}, calirerrors.NewRuntime("division by zero (signed)")
	}
	bits := instr.Type.IntBits()
	a, b := signExtend(bits, lhs.Int), signExtend(bits, rhs.Int)
	return Value{Kind: lhs.Kind, Int: maskToBits(uint64(a/b), bits)}, nil
}

func (ec *ExecutionContext) execUDiv(instr *ir.Instruction) (Value, error) {
	lhs, rhs, err := ec.evalBinary(instr)
	if err != nil {
		return Value{}, err
	}
	if rhs.Int == 0 {
		return Value{}, calirerrors.NewRuntime("division by zero (unsigned)")
	}
	bits := instr.Type.IntBits()
	return Value{Kind: lhs.Kind, Int: maskToBits(lhs.Int/rhs.Int, bits)}, nil
}

func (ec *ExecutionContext) execFDiv(instr *ir.Instruction) (Value, error) {
	lhs, rhs, err := ec.evalBinary(instr)
	if err != nil {
		return Value{}, err
	}
	if rhs.Float == 0 {
		return Value{}, calirerrors.NewRuntime("division by zero (float)")
	}
	return Value{Kind: lhs.Kind, Float: lhs.Float / rhs.Float}, nil
}

func (ec *ExecutionContext) execICmp(instr *ir.Instruction) (Value, error) {
	lhs, rhs, err := ec.evalBinary(instr)
	if err != nil {
		return Value{}, err
	}
	operandType := instr.Operand(0).Type
	var result bool
	if operandType.Kind() == ir.PointerKind {
		switch instr.ICmpPred {
		case ir.ICmpEQ:
			result = lhs.PtrObj == rhs.PtrObj && lhs.PtrOff == rhs.PtrOff
		case ir.ICmpNE:
			result = lhs.PtrObj != rhs.PtrObj || lhs.PtrOff != rhs.PtrOff
		default:
			return Value{}, calirerrors.Internalf("icmp predicate %v is not valid for pointer operands", instr.ICmpPred)
		}
	} else {
		bits := operandType.IntBits()
		switch instr.ICmpPred {
		case ir.ICmpEQ:
			result = lhs.Int == rhs.Int
		case ir.ICmpNE:
			result = lhs.Int != rhs.Int
		case ir.ICmpSGT:
			result = signExtend(bits, lhs.Int) > signExtend(bits, rhs.Int)
		case ir.ICmpSGE:
			result = signExtend(bits, lhs.Int) >= signExtend(bits, rhs.Int)
		case ir.ICmpSLT:
			result = signExtend(bits, lhs.Int) < signExtend(bits, rhs.Int)
		case ir.ICmpSLE:
			result = signExtend(bits, lhs.Int) <= signExtend(bits, rhs.Int)
		case ir.ICmpUGT:
			result = lhs.Int > rhs.Int
		case ir.ICmpUGE:
			result = lhs.Int >= rhs.Int
		case ir.ICmpULT:
			result = lhs.Int < rhs.Int
		case ir.ICmpULE:
			result = lhs.Int <= rhs.Int
		}
	}
	if result {
		return Value{Kind: KindI1, Int: 1}, nil
	}
	return Value{Kind: KindI1, Int: 0}, nil
}

func (ec *ExecutionContext) execAlloca(instr *ir.Instruction) (Value, error) {
	size := ec.interp.layout.Size(instr.AllocType.AsTypeInfo())
	align := ec.interp.layout.Align(instr.AllocType.AsTypeInfo())
	buf := ec.stackArena.Alloc(int(size), align)
	if buf == nil {
		return Value{}, calirerrors.NewRuntime("stack overflow")
	}
	return ec.interp.newPointer(buf), nil
}

func (ec *ExecutionContext) execLoad(instr *ir.Instruction) (Value, error) {
	ptrVal, err := ec.evalOperand(instr.Operand(0))
	if err != nil {
		return Value{}, err
	}
	mem, err := ec.interp.resolvePointer(ptrVal)
	if err != nil {
		return Value{}, err
	}
	size := int(ec.interp.layout.Size(instr.Type.AsTypeInfo()))
	if len(mem) < size {
		return Value{}, calirerrors.NewRuntime("invalid pointer")
	}
	return decodeScalar(instr.Type, mem[:size]), nil
}

func (ec *ExecutionContext) execStore(instr *ir.Instruction) (Value, error) {
	val, err := ec.evalOperand(instr.Operand(0))
	if err != nil {
		return Value{}, err
	}
	ptrVal, err := ec.evalOperand(instr.Operand(1))
	if err != nil {
		return Value{}, err
	}
	mem, err := ec.interp.resolvePointer(ptrVal)
	if err != nil {
		return Value{}, err
	}
	valType := instr.Operand(0).Type
	size := int(ec.interp.layout.Size(valType.AsTypeInfo()))
	if len(mem) < size {
		return Value{}, calirerrors.NewRuntime("invalid pointer")
	}
	copy(mem[:size], encodeScalar(valType, val, ec.interp.layout))
	return Value{}, nil
}

func (ec *ExecutionContext) execGEP(instr *ir.Instruction) (Value, error) {
	base, err := ec.evalOperand(instr.Operand(0))
	if err != nil {
		return Value{}, err
	}
	if base.Kind != KindPointer || base.PtrObj == 0 {
		return Value{}, calirerrors.NewRuntime("invalid pointer")
	}

	indices := make([]*ir.Value, instr.NumOperands()-1)
	for i := 1; i < instr.NumOperands(); i++ {
		indices[i-1] = instr.Operand(i)
	}
	if _, err := builder.WalkGEP(instr.GEPSourceType, indices); err != nil {
		return Value{}, calirerrors.NewInternal(err, "gep type walk")
	}

	offset, err := ec.gepOffset(instr.GEPSourceType, indices)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindPointer, PtrObj: base.PtrObj, PtrOff: base.PtrOff + int(offset)}, nil
}

// gepOffset replays the verifier's type walk at runtime, accumulating a
// byte offset instead of a result type: the first index addresses the
// pointer itself (scaled by size(sourceType)), each index after that
// strips one level of array or struct nesting and scales by that level's
// element size or struct member offset.
func (ec *ExecutionContext) gepOffset(sourceType *ir.Type, indices []*ir.Value) (int64, error) {
	lay := ec.interp.layout
	idx0, err := ec.evalOperand(indices[0])
	if err != nil {
		return 0, err
	}
	offset := signExtend(idx0.Kind.Bits(), idx0.Int) * lay.Size(sourceType.AsTypeInfo())

	cur := sourceType
	for i := 1; i < len(indices); i++ {
		switch cur.Kind() {
		case ir.ArrayKind:
			idx, err := ec.evalOperand(indices[i])
			if err != nil {
				return 0, err
			}
			offset += signExtend(idx.Kind.Bits(), idx.Int) * lay.Size(cur.Elem().AsTypeInfo())
			cur = cur.Elem()
		case ir.StructKind:
			idx, err := ec.evalOperand(indices[i])
			if err != nil {
				return 0, err
			}
			offset += lay.StructMemberOffset(cur.AsTypeInfo(), int(idx.Int))
			cur = cur.Members()[int(idx.Int)]
		default:
			return 0, calirerrors.Internalf("gep: indexing a non-aggregate type %s", cur.String())
		}
	}
	return offset, nil
}

func (ec *ExecutionContext) execCall(instr *ir.Instruction) (Value, error) {
	callee := instr.Operand(0)
	fn := callee.AsFunction()
	if fn == nil {
		return Value{}, calirerrors.Internalf("call target %%%s is not a function value", callee.Name)
	}

	n := instr.NumOperands() - 1
	args := arena.AllocSlice[Value](ec.tempArena, n)
	if args == nil && n > 0 {
		return Value{}, calirerrors.NewRuntime("stack overflow")
	}
	for i := 0; i < n; i++ {
		v, err := ec.evalOperand(instr.Operand(i + 1))
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return ec.interp.Call(fn, args)
}
