package arena

import "unsafe"

// AllocT allocates a single zero-valued T out of a, returning a stable
// pointer into the arena's backing storage without the caller
// hand-computing size/align. T must not contain pointers: the returned
// memory is backed by a plain []byte chunk, which the garbage collector
// scans as opaque bytes, not as a struct with live pointer fields. Use
// arena.Pool[T] instead for pointer-holding types (ir's own
// Type/Instruction/Use pools do this).
func AllocT[T any](a *Arena) *T {
	var zero T
	buf := a.Alloc(int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero)))
	if buf == nil {
		return nil
	}
	return (*T)(unsafe.Pointer(&buf[0]))
}

// AllocSlice allocates n contiguous zero-valued T out of a. Same
// pointer-free requirement on T as AllocT.
func AllocSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))
	buf := a.Alloc(size*n, align)
	if buf == nil {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n)
}
