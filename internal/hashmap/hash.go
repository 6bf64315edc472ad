package hashmap

import "math"

// mix64 is a 64-bit avalanche mixer in the Murmur3/splitmix finalizer
// family: no xxhash3 (or any hashing) third-party package appears anywhere
// in the corpus this module was grounded on, so the mixing function is
// hand-rolled here exactly as the corpus hand-rolls its own string hashes
// rather than importing one.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

const (
	seed   uint64 = 0x9E3779B97F4A7C15
	prime1 uint64 = 0x9E3779B185EBCA87
	prime2 uint64 = 0xC2B2AE3D27D4EB4F
)

// HashUint64 hashes an arbitrary-width unsigned integer key (the caller
// zero-extends narrower widths before calling).
func HashUint64(v uint64) uint64 {
	return mix64(v ^ seed)
}

// HashFloat64 hashes a float64 key. The caller must reject NaN before
// calling; ±0.0 hash identically because both normalize to the same bit
// pattern (+0.0's) before hashing.
func HashFloat64(f float64) uint64 {
	if f == 0 {
		f = 0 // normalize -0.0 to +0.0
	}
	return mix64(math.Float64bits(f) ^ seed)
}

// HashFloat32 hashes a float32 key with the same ±0.0 normalization as
// HashFloat64.
func HashFloat32(f float32) uint64 {
	if f == 0 {
		f = 0
	}
	return mix64(uint64(math.Float32bits(f)) ^ seed)
}

// HashPointer hashes a raw pointer value.
func HashPointer(p uintptr) uint64 {
	return mix64(uint64(p) ^ seed)
}

// HashBytes hashes a byte slice body together with its length, in the
// xxhash family's "length folded into the seed" style.
func HashBytes(b []byte) uint64 {
	h := seed ^ (uint64(len(b)) * prime1)
	i := 0
	for ; i+8 <= len(b); i += 8 {
		var w uint64
		for j := 0; j < 8; j++ {
			w |= uint64(b[i+j]) << (8 * j)
		}
		h ^= mix64(w)
		h *= prime2
	}
	for ; i < len(b); i++ {
		h ^= uint64(b[i])
		h *= prime1
	}
	return mix64(h)
}

// HashString hashes a string body the same way as HashBytes, by converting
// it to a []byte and passing that to HashBytes.
func HashString(s string) uint64 {
	return HashBytes([]byte(s))
}

// IsNaN reports whether f is NaN, the one float bit pattern the hash map
// family refuses to accept as a key.
func IsNaN(f float64) bool { return f != f }
