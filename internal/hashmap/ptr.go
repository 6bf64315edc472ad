package hashmap

import "unsafe"

// ptrBits extracts the raw address of a pointer for hashing/equality
// purposes only; it never dereferences or otherwise escapes the pointee.
func ptrBits[T any](p *T) unsafe.Pointer { return unsafe.Pointer(p) }
