package ir

import "math"

// Constant is a compile-time-known value: an integer or float literal, an
// undef placeholder, or a zeroinitializer aggregate. Every Constant is
// uniqued by the owning Context — two requests for ConstInt(i32, 7) return
// the identical *Constant — except NaN float constants, which bypass the
// float cache entirely (NaN != NaN makes uniquing them meaningless, so each
// request for a NaN just allocates fresh).
type Constant struct {
	Value

	CK       ConstKind
	IntVal   uint64  // valid when CK == ConstInt: raw bit pattern, width Type.IntBits()
	FloatVal float64 // valid when CK == ConstFloat: widened to float64 regardless of Type's width
}

// AsValue returns the embedded Value by pointer, so a Constant can be used
// wherever an operand target is expected.
func (c *Constant) AsValue() *Value { return &c.Value }

// SignedValue sign-extends IntVal according to the constant's integer
// width, for kinds and operations that want a signed reading (icmp slt,
// sdiv, printing a negative literal back out).
func (c *Constant) SignedValue() int64 {
	bits := c.Type.IntBits()
	if bits == 0 || bits == 64 {
		return int64(c.IntVal)
	}
	shift := 64 - bits
	return (int64(c.IntVal) << shift) >> shift
}

func (c *Context) newIntConstRaw(ty *Type, bits int, value uint64) *Constant {
	masked := maskToBits(value, bits)
	key := intKey{bits: bits, value: masked}
	if k, ok := c.intConsts.Get(key); ok {
		return k
	}
	k := c.constPool.Alloc()
	k.Value = Value{Kind: KindConstant, Type: ty}
	k.Owner = k
	k.CK = ConstInt
	k.IntVal = masked
	c.intConsts.Put(key, k)
	return k
}

func maskToBits(v uint64, bits int) uint64 {
	if bits >= 64 {
		return v
	}
	return v & ((uint64(1) << uint(bits)) - 1)
}

// ConstInt returns the unique integer constant of value value (truncated to
// ty's width) and type ty.
func (c *Context) ConstInt(ty *Type, value uint64) *Constant {
	return c.newIntConstRaw(ty, ty.IntBits(), value)
}

// ConstIntSigned returns the unique integer constant for a signed value,
// two's-complement-encoded at ty's width.
func (c *Context) ConstIntSigned(ty *Type, value int64) *Constant {
	return c.newIntConstRaw(ty, ty.IntBits(), uint64(value))
}

// TrueConst returns the i1 constant 1.
func (c *Context) TrueConst() *Constant { return c.trueConst }

// FalseConst returns the i1 constant 0.
func (c *Context) FalseConst() *Constant { return c.falseConst }

// ConstFloat returns the unique float constant of value value and type ty
// (f32 or f64). A NaN value is never cached: every ConstFloat(ty, NaN) call
// allocates a fresh Constant, since NaN can't be found again by equality.
func (c *Context) ConstFloat(ty *Type, value float64) *Constant {
	if ty.FloatBits() == 32 {
		value = float64(float32(value))
	}
	if math.IsNaN(value) {
		k := c.constPool.Alloc()
		k.Value = Value{Kind: KindConstant, Type: ty}
		k.Owner = k
		k.CK = ConstFloat
		k.FloatVal = value
		return k
	}
	bits := floatBitsOf(ty, value)
	key := floatKey{bits: ty.FloatBits(), bits64: bits}
	if k, ok := c.floatConsts.Get(key); ok {
		return k
	}
	k := c.constPool.Alloc()
	k.Value = Value{Kind: KindConstant, Type: ty}
	k.Owner = k
	k.CK = ConstFloat
	k.FloatVal = value
	c.floatConsts.Put(key, k)
	return k
}

func floatBitsOf(ty *Type, value float64) uint64 {
	if value == 0 {
		value = 0 // normalize -0.0 to +0.0, matching hashmap's float-key convention
	}
	if ty.FloatBits() == 32 {
		return uint64(math.Float32bits(float32(value)))
	}
	return math.Float64bits(value)
}

// ConstUndef returns the unique undef value of type ty — the placeholder
// RAUW retargets a dead instruction's remaining uses to before erasure.
func (c *Context) ConstUndef(ty *Type) *Constant {
	if k, ok := c.undefConsts.Get(ty); ok {
		return k
	}
	k := c.constPool.Alloc()
	k.Value = Value{Kind: KindConstant, Type: ty}
	k.Owner = k
	k.CK = ConstUndef
	c.undefConsts.Put(ty, k)
	return k
}

// ConstZero returns the unique zeroinitializer constant of type ty (an
// all-zero aggregate or scalar).
func (c *Context) ConstZero(ty *Type) *Constant {
	if k, ok := c.zeroConsts.Get(ty); ok {
		return k
	}
	k := c.constPool.Alloc()
	k.Value = Value{Kind: KindConstant, Type: ty}
	k.Owner = k
	k.CK = ConstZeroinitializer
	c.zeroConsts.Put(ty, k)
	return k
}
