package hashmap

// integer is the set of key types NewIntMap accepts — every integer width
// spec.md asks for a dedicated cache per.
type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// NewIntMap builds a map keyed by an integer of any width, converted to
// uint64 before mixing (zero-extended for unsigned key types,
// sign-extended for signed ones).
func NewIntMap[K integer, V any]() *Map[K, V] {
	return New[K, V](
		func(k K) uint64 { return HashUint64(uint64(k)) },
		func(a, b K) bool { return a == b },
	)
}

// NewFloat64Map builds a map keyed by float64. Putting a NaN key panics:
// the hash map family disallows NaN as a key, since NaN != NaN would break
// the find/eq contract every other operation relies on.
func NewFloat64Map[V any]() *Map[float64, V] {
	return New[float64, V](
		func(k float64) uint64 {
			if IsNaN(k) {
				panic("hashmap: NaN is not a valid key")
			}
			return HashFloat64(k)
		},
		func(a, b float64) bool { return a == b || (a == 0 && b == 0) },
	)
}

// NewFloat32Map builds a map keyed by float32, with the same NaN rejection
// and ±0.0 equivalence as NewFloat64Map.
func NewFloat32Map[V any]() *Map[float32, V] {
	return New[float32, V](
		func(k float32) uint64 {
			if IsNaN(float64(k)) {
				panic("hashmap: NaN is not a valid key")
			}
			return HashFloat32(k)
		},
		func(a, b float32) bool { return a == b || (a == 0 && b == 0) },
	)
}

// NewPointerMap builds a map keyed by a *T, hashing the pointer value
// itself rather than anything it points to.
func NewPointerMap[T any, V any]() *Map[*T, V] {
	return New[*T, V](
		func(k *T) uint64 { return HashPointer(uintptr(ptrBits(k))) },
		func(a, b *T) bool { return a == b },
	)
}

// NewStringMap builds a map keyed by string bodies (hash covers the bytes
// and the length, so distinct lengths never collide into one bucket by
// truncation).
//
// Calir's string interning cache (internal/ir.Context) is the caller that
// realizes spec.md's Put-vs-PutPreallocated distinction: it copies a
// candidate string into the permanent arena only on a cache miss, then
// inserts the arena-resident string — equivalent to "PutPreallocated"
// because by the time Put is called here, the key already is the
// arena-backed copy, not a second copy of it.
func NewStringMap[V any]() *Map[string, V] {
	return New[string, V](
		HashString,
		func(a, b string) bool { return a == b },
	)
}

// NewGenericMap builds a map from caller-supplied hash and equality
// functions over an arbitrary comparable key — the fully generic
// specialization spec.md describes for keys with no dedicated cache of
// their own (e.g. Calir's struct-member-sequence and function-signature
// type keys, built from interned, pointer-identity members).
func NewGenericMap[K comparable, V any](hash func(K) uint64, eq func(K, K) bool) *Map[K, V] {
	return New[K, V](hash, eq)
}
