package ir

// TypeKind tags the variant held by a *Type.
type TypeKind int

const (
	Void TypeKind = iota
	I1
	I8
	I16
	I32
	I64
	F32
	F64
	LabelKind
	PointerKind
	ArrayKind
	StructKind
	FunctionKind
)

func (k TypeKind) String() string {
	switch k {
	case Void:
		return "void"
	case I1:
		return "i1"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case LabelKind:
		return "label"
	case PointerKind:
		return "ptr"
	case ArrayKind:
		return "array"
	case StructKind:
		return "struct"
	case FunctionKind:
		return "function"
	default:
		return "?"
	}
}

// IsInteger reports whether k is one of the fixed-width integer kinds.
func (k TypeKind) IsInteger() bool { return k >= I1 && k <= I64 }

// IsFloat reports whether k is one of the floating-point kinds.
func (k TypeKind) IsFloat() bool { return k == F32 || k == F64 }

// ValueKind tags the variant held by a *Value.
type ValueKind int

const (
	KindArgument ValueKind = iota
	KindInstruction
	KindBasicBlock
	KindFunction
	KindConstant
	KindGlobal
)

// Opcode enumerates instruction opcodes.
type Opcode int

const (
	OpRet Opcode = iota
	OpBr
	OpCondBr
	OpAdd
	OpSub
	OpSDiv
	OpUDiv
	OpFDiv
	OpICmp
	OpAlloca
	OpLoad
	OpStore
	OpPhi
	OpGEP
	OpCall
)

func (op Opcode) String() string {
	switch op {
	case OpRet:
		return "ret"
	case OpBr:
		return "br"
	case OpCondBr:
		return "cond_br"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpSDiv:
		return "sdiv"
	case OpUDiv:
		return "udiv"
	case OpFDiv:
		return "fdiv"
	case OpICmp:
		return "icmp"
	case OpAlloca:
		return "alloc"
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	case OpPhi:
		return "phi"
	case OpGEP:
		return "gep"
	case OpCall:
		return "call"
	default:
		return "?"
	}
}

// IsTerminator reports whether op ends a basic block.
func (op Opcode) IsTerminator() bool {
	return op == OpRet || op == OpBr || op == OpCondBr
}

// ICmpPredicate enumerates icmp comparison predicates.
type ICmpPredicate int

const (
	ICmpEQ ICmpPredicate = iota
	ICmpNE
	ICmpSGT
	ICmpSGE
	ICmpSLT
	ICmpSLE
	ICmpUGT
	ICmpUGE
	ICmpULT
	ICmpULE
)

func (p ICmpPredicate) String() string {
	switch p {
	case ICmpEQ:
		return "eq"
	case ICmpNE:
		return "ne"
	case ICmpSGT:
		return "sgt"
	case ICmpSGE:
		return "sge"
	case ICmpSLT:
		return "slt"
	case ICmpSLE:
		return "sle"
	case ICmpUGT:
		return "ugt"
	case ICmpUGE:
		return "uge"
	case ICmpULT:
		return "ult"
	case ICmpULE:
		return "ule"
	default:
		return "?"
	}
}

// ConstKind tags the payload held by a *Constant.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstUndef
	ConstZeroinitializer
)
