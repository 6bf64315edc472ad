package ir

import (
	"strconv"
	"strings"
	"unsafe"

	"calir/internal/arena"
	"calir/internal/hashmap"
)

// Context owns every arena and uniquing cache Calir allocates through. Types,
// constants, and interned strings live in permanent pools that outlive a
// single module's IR; the IR object graph (modules, functions, blocks,
// instructions, uses, arguments, globals) lives in pools ResetIR wipes
// together, the way the reference stack's compiler discards a whole
// compilation's AST/bytecode arena between runs while keeping its constant
// and string tables warm.
type Context struct {
	// Permanent pools: survive ResetIR.
	typePool  *arena.Pool[Type]
	constPool *arena.Pool[Constant]
	strPool   *arena.Pool[string]
	strBytes  *arena.Arena

	// IR pools: wiped together by ResetIR.
	modulePool *arena.Pool[Module]
	funcPool   *arena.Pool[Function]
	blockPool  *arena.Pool[BasicBlock]
	instrPool  *arena.Pool[Instruction]
	usePool    *arena.Pool[Use]
	argPool    *arena.Pool[Argument]
	globalPool *arena.Pool[GlobalVariable]

	// Singleton primitive types.
	voidTy, i1Ty, i8Ty, i16Ty, i32Ty, i64Ty, f32Ty, f64Ty, labelTy *Type

	// i1 constant singletons.
	trueConst, falseConst *Constant

	// Uniquing caches.
	pointerTypes *hashmap.Map[*Type, *Type]
	arrayTypes   *hashmap.Map[arrayKey, *Type]
	anonStructs  *hashmap.Map[string, *Type]
	namedStructs *hashmap.Map[string, *Type]
	funcTypes    *hashmap.Map[string, *Type]
	intConsts    *hashmap.Map[intKey, *Constant]
	floatConsts  *hashmap.Map[floatKey, *Constant]
	undefConsts  *hashmap.Map[*Type, *Constant]
	zeroConsts   *hashmap.Map[*Type, *Constant]
	internedStrs *hashmap.Map[string, *string]
}

type arrayKey struct {
	elem  *Type
	count int
}

type intKey struct {
	bits  int
	value uint64
}

type floatKey struct {
	bits   int
	bits64 uint64 // raw IEEE-754 bit pattern, always widened to 64 bits
}

func ptrAddr[T any](p *T) uintptr { return uintptr(unsafe.Pointer(p)) }

func hashPtr[T any](p *T) uint64 { return hashmap.HashPointer(ptrAddr(p)) }

// typeListKey derives a comparable cache key from an ordered list of
// already-uniqued member types: since every *Type is canonical, encoding
// each member's address (rather than its structure) is enough to make two
// equal-shape lists collide to the same key, and unequal-shape lists not to.
func typeListKey(types []*Type, tag string) string {
	var sb strings.Builder
	sb.WriteString(tag)
	for _, t := range types {
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatUint(uint64(ptrAddr(t)), 16))
	}
	return sb.String()
}

// NewContext builds a Context with its primitive types and constant
// singletons pre-populated.
func NewContext() *Context {
	c := &Context{
		typePool:   arena.NewPool[Type](256),
		constPool:  arena.NewPool[Constant](256),
		strPool:    arena.NewPool[string](256),
		strBytes:   arena.New(4096),
		modulePool: arena.NewPool[Module](4),
		funcPool:   arena.NewPool[Function](64),
		blockPool:  arena.NewPool[BasicBlock](256),
		instrPool:  arena.NewPool[Instruction](1024),
		usePool:    arena.NewPool[Use](2048),
		argPool:    arena.NewPool[Argument](128),
		globalPool: arena.NewPool[GlobalVariable](32),

		pointerTypes: hashmap.NewPointerMap[Type, *Type](),
		arrayTypes: hashmap.NewGenericMap[arrayKey, *Type](
			func(k arrayKey) uint64 { return hashPtr(k.elem) ^ hashmap.HashUint64(uint64(k.count)) },
			func(a, b arrayKey) bool { return a.elem == b.elem && a.count == b.count },
		),
		anonStructs:  hashmap.NewStringMap[*Type](),
		namedStructs: hashmap.NewStringMap[*Type](),
		funcTypes:    hashmap.NewStringMap[*Type](),
		intConsts: hashmap.NewGenericMap[intKey, *Constant](
			func(k intKey) uint64 { return hashmap.HashUint64(uint64(k.bits)) ^ hashmap.HashUint64(k.value) },
			func(a, b intKey) bool { return a == b },
		),
		floatConsts: hashmap.NewGenericMap[floatKey, *Constant](
			func(k floatKey) uint64 { return hashmap.HashUint64(uint64(k.bits)) ^ hashmap.HashUint64(k.bits64) },
			func(a, b floatKey) bool { return a == b },
		),
		undefConsts:  hashmap.NewPointerMap[Type, *Constant](),
		zeroConsts:   hashmap.NewPointerMap[Type, *Constant](),
		internedStrs: hashmap.NewStringMap[*string](),
	}

	c.voidTy = c.newPrimitive(Void)
	c.i1Ty = c.newPrimitive(I1)
	c.i8Ty = c.newPrimitive(I8)
	c.i16Ty = c.newPrimitive(I16)
	c.i32Ty = c.newPrimitive(I32)
	c.i64Ty = c.newPrimitive(I64)
	c.f32Ty = c.newPrimitive(F32)
	c.f64Ty = c.newPrimitive(F64)
	c.labelTy = c.newPrimitive(LabelKind)

	c.trueConst = c.newIntConstRaw(c.i1Ty, 1, 1)
	c.falseConst = c.newIntConstRaw(c.i1Ty, 1, 0)

	return c
}

func (c *Context) newPrimitive(k TypeKind) *Type {
	t := c.typePool.Alloc()
	t.kind = k
	return t
}

// VoidType, I1Type, ... return the Context's singleton primitive types.
func (c *Context) VoidType() *Type  { return c.voidTy }
func (c *Context) I1Type() *Type    { return c.i1Ty }
func (c *Context) I8Type() *Type    { return c.i8Ty }
func (c *Context) I16Type() *Type   { return c.i16Ty }
func (c *Context) I32Type() *Type   { return c.i32Ty }
func (c *Context) I64Type() *Type   { return c.i64Ty }
func (c *Context) F32Type() *Type   { return c.f32Ty }
func (c *Context) F64Type() *Type   { return c.f64Ty }
func (c *Context) LabelType() *Type { return c.labelTy }

// IntType returns the integer type of the given bit width, one of the five
// integer singletons; it panics on an unsupported width, since Calir only
// models fixed 1/8/16/32/64-bit integers.
func (c *Context) IntType(bits int) *Type {
	switch bits {
	case 1:
		return c.i1Ty
	case 8:
		return c.i8Ty
	case 16:
		return c.i16Ty
	case 32:
		return c.i32Ty
	case 64:
		return c.i64Ty
	default:
		panic("ir: unsupported integer width")
	}
}

// PointerType returns the unique pointer-to-elem type, allocating it on the
// first request for that pointee.
func (c *Context) PointerType(elem *Type) *Type {
	if t, ok := c.pointerTypes.Get(elem); ok {
		return t
	}
	t := c.typePool.Alloc()
	t.kind = PointerKind
	t.elem = elem
	c.pointerTypes.Put(elem, t)
	return t
}

// ArrayType returns the unique [count x elem] type.
func (c *Context) ArrayType(elem *Type, count int) *Type {
	key := arrayKey{elem: elem, count: count}
	if t, ok := c.arrayTypes.Get(key); ok {
		return t
	}
	t := c.typePool.Alloc()
	t.kind = ArrayKind
	t.elem = elem
	t.count = count
	c.arrayTypes.Put(key, t)
	return t
}

// StructType returns the unique anonymous struct type with the given ordered
// member types.
func (c *Context) StructType(members []*Type) *Type {
	key := typeListKey(members, "s")
	if t, ok := c.anonStructs.Get(key); ok {
		return t
	}
	t := c.typePool.Alloc()
	t.kind = StructKind
	t.members = c.copyTypeList(members)
	c.anonStructs.Put(key, t)
	return t
}

// NamedStructType returns the named struct type registered under name,
// declaring it opaque (no members yet) the first time it is seen. Calling
// it again for the same name returns the same *Type regardless of body
// state, matching forward-reference resolution during parsing.
func (c *Context) NamedStructType(name string) *Type {
	if t, ok := c.namedStructs.Get(name); ok {
		return t
	}
	t := c.typePool.Alloc()
	t.kind = StructKind
	t.name = name
	t.opaque = true
	c.namedStructs.Put(name, t)
	return t
}

// SetStructBody installs members into a named struct type created by
// NamedStructType, clearing its opaque flag. It panics if the type is not a
// named struct or already has a body — structs are defined exactly once.
func (c *Context) SetStructBody(t *Type, members []*Type) {
	if t.kind != StructKind || t.name == "" {
		panic("ir: SetStructBody on a non-named-struct type")
	}
	if !t.opaque {
		panic("ir: struct body already defined")
	}
	t.members = c.copyTypeList(members)
	t.opaque = false
}

// FunctionType returns the unique function-signature type for the given
// return type, ordered parameter types, and variadic flag.
func (c *Context) FunctionType(ret *Type, params []*Type, variadic bool) *Type {
	tag := "f"
	if variadic {
		tag = "fv"
	}
	key := typeListKey(append([]*Type{ret}, params...), tag)
	if t, ok := c.funcTypes.Get(key); ok {
		return t
	}
	t := c.typePool.Alloc()
	t.kind = FunctionKind
	t.ret = ret
	t.params = c.copyTypeList(params)
	t.variadic = variadic
	c.funcTypes.Put(key, t)
	return t
}

func (c *Context) copyTypeList(types []*Type) []*Type {
	if len(types) == 0 {
		return nil
	}
	out := make([]*Type, len(types))
	copy(out, types)
	return out
}

// InternString returns the unique *string for s: repeated calls with equal
// content return the identical pointer, making pointer equality a valid
// string-equality test downstream (symbol names, struct field names). On a
// miss the bytes are copied into the string arena followed by a NUL byte,
// which lies just past the end of the returned string.
func (c *Context) InternString(s string) *string {
	if p, ok := c.internedStrs.Get(s); ok {
		return p
	}
	buf := c.strBytes.AllocCopy(append([]byte(s), 0), 1)
	copied := unsafeBytesToString(buf[:len(s)])
	p := c.strPool.Alloc()
	*p = copied
	c.internedStrs.Put(copied, p)
	return p
}

// unsafeBytesToString views an arena-owned, never-again-mutated byte slice
// as a string without copying; the arena guarantees buf is not reused for as
// long as the Context (and hence this string) is alive.
func unsafeBytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// ResetIR discards the entire IR object graph (modules, functions, blocks,
// instructions, uses, arguments, globals) while keeping types, constants,
// and interned strings intact, mirroring the reference stack's pattern of
// resetting a per-compilation arena between runs without losing its
// long-lived symbol tables.
func (c *Context) ResetIR() {
	c.modulePool.Reset()
	c.funcPool.Reset()
	c.blockPool.Reset()
	c.instrPool.Reset()
	c.usePool.Reset()
	c.argPool.Reset()
	c.globalPool.Reset()
}
