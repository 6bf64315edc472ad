package ir

import (
	"strings"

	"calir/internal/layout"
)

// Type is a canonical, arena-owned type descriptor. Two equal types are the
// same *Type: all construction goes through Context getters, which unique
// every non-singleton shape.
type Type struct {
	kind     TypeKind
	elem     *Type   // Pointer pointee / Array element
	count    int     // Array length
	name     string  // Struct: "" for anonymous
	members  []*Type // Struct fields, ordered
	ret      *Type   // Function return type
	params   []*Type // Function parameter types, ordered
	variadic bool    // Function variadic flag
	opaque   bool    // Struct declared (%Name = type ...) but body not yet set
}

// Kind returns the type's variant tag.
func (t *Type) Kind() TypeKind { return t.kind }

// Elem returns the pointee (Pointer) or element type (Array); nil otherwise.
func (t *Type) Elem() *Type { return t.elem }

// Count returns the element count of an Array type.
func (t *Type) Count() int { return t.count }

// Name returns a named struct's name, or "" for anonymous structs and every
// other kind.
func (t *Type) Name() string { return t.name }

// Members returns a Struct type's ordered field types.
func (t *Type) Members() []*Type { return t.members }

// ReturnType returns a Function type's return type.
func (t *Type) ReturnType() *Type { return t.ret }

// Params returns a Function type's ordered parameter types.
func (t *Type) Params() []*Type { return t.params }

// Variadic reports whether a Function type accepts a variadic tail.
func (t *Type) Variadic() bool { return t.variadic }

// IsOpaque reports whether a named Struct type has been declared but its
// member list has not yet been installed.
func (t *Type) IsOpaque() bool { return t.kind == StructKind && t.opaque }

// Equal reports type identity. Since every Type is canonicalized by the
// owning Context, equality is pointer equality.
func (t *Type) Equal(o *Type) bool { return t == o }

func (t *Type) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Type) write(sb *strings.Builder) {
	switch t.kind {
	case PointerKind:
		sb.WriteByte('<')
		t.elem.write(sb)
		sb.WriteByte('>')
	case ArrayKind:
		sb.WriteByte('[')
		writeInt(sb, t.count)
		sb.WriteString(" x ")
		t.elem.write(sb)
		sb.WriteByte(']')
	case StructKind:
		if t.name != "" {
			sb.WriteByte('%')
			sb.WriteString(t.name)
			return
		}
		sb.WriteString("{ ")
		for i, m := range t.members {
			if i > 0 {
				sb.WriteString(", ")
			}
			m.write(sb)
		}
		sb.WriteString(" }")
	case FunctionKind:
		t.ret.write(sb)
		sb.WriteByte('(')
		for i, p := range t.params {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.write(sb)
		}
		if t.variadic {
			if len(t.params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteByte(')')
	default:
		sb.WriteString(t.kind.String())
	}
}

func writeInt(sb *strings.Builder, n int) {
	if n == 0 {
		sb.WriteByte('0')
		return
	}
	if n < 0 {
		sb.WriteByte('-')
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	sb.Write(buf[i:])
}

// IntBits returns the bit width of an integer Type (1, 8, 16, 32, or 64).
func (t *Type) IntBits() int {
	switch t.kind {
	case I1:
		return 1
	case I8:
		return 8
	case I16:
		return 16
	case I32:
		return 32
	case I64:
		return 64
	default:
		return 0
	}
}

// FloatBits returns the bit width of a floating-point Type (32 or 64).
func (t *Type) FloatBits() int {
	switch t.kind {
	case F32:
		return 32
	case F64:
		return 64
	default:
		return 0
	}
}

// layoutKind adapts TypeKind to layout.Kind, the small vocabulary
// internal/layout knows about, without internal/layout importing this
// package.
func (t *Type) layoutKind() layout.Kind {
	switch {
	case t.kind == Void:
		return layout.Void
	case t.kind.IsInteger():
		return layout.Int
	case t.kind.IsFloat():
		return layout.Float
	case t.kind == PointerKind:
		return layout.Pointer
	case t.kind == ArrayKind:
		return layout.Array
	case t.kind == StructKind:
		return layout.Struct
	case t.kind == LabelKind:
		return layout.Label
	case t.kind == FunctionKind:
		return layout.Function
	default:
		return layout.Void
	}
}

// The following methods make *Type satisfy layout.TypeInfo.

func (t *Type) layoutElem() layout.TypeInfo {
	if t.elem == nil {
		return nil
	}
	return typeInfoView{t.elem}
}

func (t *Type) layoutMembers() []layout.TypeInfo {
	out := make([]layout.TypeInfo, len(t.members))
	for i, m := range t.members {
		out[i] = typeInfoView{m}
	}
	return out
}

// typeInfoView exposes Type through layout.TypeInfo's exact method set; Type
// itself also defines Kind/IntBits/FloatBits/Count directly above for
// ergonomic direct use, so this adapter only needs to rename the two methods
// whose natural Type signatures (returning *Type / []*Type) differ from the
// interface's (returning layout.TypeInfo / []layout.TypeInfo).
type typeInfoView struct{ t *Type }

func (v typeInfoView) Kind() layout.Kind          { return v.t.layoutKind() }
func (v typeInfoView) IntBits() int               { return v.t.IntBits() }
func (v typeInfoView) FloatBits() int             { return v.t.FloatBits() }
func (v typeInfoView) Count() int                 { return v.t.count }
func (v typeInfoView) Elem() layout.TypeInfo      { return v.t.layoutElem() }
func (v typeInfoView) Members() []layout.TypeInfo { return v.t.layoutMembers() }

// AsTypeInfo adapts t to layout.TypeInfo.
func (t *Type) AsTypeInfo() layout.TypeInfo { return typeInfoView{t} }
