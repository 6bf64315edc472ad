// Package layout computes target size/align/offset rules for Calir's type
// system, decoupled from the IR's own Type representation via a small
// TypeInfo interface (internal/ir's *Type implements it).
package layout

import "unsafe"

// Kind enumerates the shapes Layout knows how to size — the same kind set
// as internal/ir.Type, duplicated here so this package has no dependency
// on internal/ir.
type Kind int

const (
	Void Kind = iota
	Int
	Float
	Pointer
	Array
	Struct
	Label
	Function
)

// TypeInfo is the minimal view of a type Layout needs.
type TypeInfo interface {
	Kind() Kind
	IntBits() int          // valid when Kind() == Int
	FloatBits() int        // valid when Kind() == Float: 32 or 64
	Elem() TypeInfo        // pointee (Pointer) or element type (Array)
	Count() int            // element count (Array)
	Members() []TypeInfo   // ordered field types (Struct)
}

// Layout is a target description: pointer size/align and a ceiling on
// struct alignment. Integer and float sizes and alignments are not part of
// the record; every Layout derives them from the type's bit width.
type Layout struct {
	PointerSize     int
	PointerAlign    int
	AggregateAlign  int // upper bound applied to struct alignment; arrays take their element's alignment
}

// Host returns a Layout filled in from the sizes/alignments of the
// executing machine's matching Go types.
func Host() *Layout {
	return &Layout{
		PointerSize:    int(unsafe.Sizeof(uintptr(0))),
		PointerAlign:   int(unsafe.Alignof(uintptr(0))),
		AggregateAlign: int(unsafe.Alignof(uint64(0))),
	}
}

// ILP32 returns a 32-bit target Layout (4-byte pointers), the shape a
// 32-bit embedded or WASM-class target would want regardless of the
// interpreting host's own word size.
func ILP32() *Layout {
	return &Layout{PointerSize: 4, PointerAlign: 4, AggregateAlign: 8}
}

// LP64 returns a 64-bit target Layout (8-byte pointers), the common shape
// of amd64/arm64 hosts, independent of whatever Host() would report for
// the machine actually running the interpreter.
func LP64() *Layout {
	return &Layout{PointerSize: 8, PointerAlign: 8, AggregateAlign: 8}
}

func intAlign(bits int) int {
	switch {
	case bits <= 8:
		return 1
	case bits <= 16:
		return 2
	case bits <= 32:
		return 4
	default:
		return 8
	}
}

func intBytes(bits int) int64 { return int64((bits + 7) / 8) }

// Size returns the size, in bytes, of t.
func (l *Layout) Size(t TypeInfo) int64 {
	switch t.Kind() {
	case Void:
		return 0
	case Int:
		return intBytes(t.IntBits())
	case Float:
		return int64(t.FloatBits() / 8)
	case Pointer, Function:
		return int64(l.PointerSize)
	case Array:
		return int64(t.Count()) * l.Size(t.Elem())
	case Struct:
		return l.structSize(t)
	default:
		return 0
	}
}

// Align returns the required alignment, in bytes, of t.
func (l *Layout) Align(t TypeInfo) int {
	switch t.Kind() {
	case Void:
		return 1
	case Int:
		return intAlign(t.IntBits())
	case Float:
		if t.FloatBits() == 32 {
			return 4
		}
		return 8
	case Pointer, Function:
		return l.PointerAlign
	case Array:
		return l.Align(t.Elem())
	case Struct:
		return l.structAlign(t)
	default:
		return 1
	}
}

func alignUp(off int64, align int) int64 {
	a := int64(align)
	return (off + a - 1) &^ (a - 1)
}

// structAlign returns the max member alignment, capped at AggregateAlign
// when that cap is set (non-zero) and smaller. An empty struct has
// alignment 1 (the host minimum).
func (l *Layout) structAlign(t TypeInfo) int {
	members := t.Members()
	if len(members) == 0 {
		return 1
	}
	max := 1
	for _, m := range members {
		if a := l.Align(m); a > max {
			max = a
		}
	}
	if l.AggregateAlign > 0 && max > l.AggregateAlign {
		max = l.AggregateAlign
	}
	return max
}

// structSize lays members out sequentially, padding each to its own
// alignment and the whole struct's trailing size up to its alignment. An
// empty struct has size 0.
func (l *Layout) structSize(t TypeInfo) int64 {
	members := t.Members()
	if len(members) == 0 {
		return 0
	}
	var off int64
	for _, m := range members {
		off = alignUp(off, l.Align(m))
		off += l.Size(m)
	}
	return alignUp(off, l.structAlign(t))
}

// StructMemberOffset returns the byte offset of member i within t, replaying
// the same sequential layout structSize uses.
func (l *Layout) StructMemberOffset(t TypeInfo, i int) int64 {
	members := t.Members()
	var off int64
	for idx, m := range members {
		off = alignUp(off, l.Align(m))
		if idx == i {
			return off
		}
		off += l.Size(m)
	}
	panic("layout: member index out of range")
}
