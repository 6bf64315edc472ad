// Package arena implements a chunk-list bump allocator.
//
// An Arena hands out byte slices carved from a growing list of chunks.
// Nothing allocated from an Arena is ever freed individually; storage is
// reclaimed in bulk by Reset (keep the largest chunk, drop the rest) or
// Destroy (drop everything).
package arena

const defaultMinAlign = 8

// Arena is a bump-pointer allocator backed by a growing list of chunks.
//
// The zero value is not ready to use; construct one with New.
type Arena struct {
	chunks   [][]byte
	off      int // next free byte in chunks[len(chunks)-1]
	minAlign int
	limit    int64 // total bytes the arena may hand out between Resets; 0 = unlimited
	used     int64 // bytes handed out since the last Reset
}

// Option configures an Arena at construction time.
type Option func(*Arena)

// WithMinAlign sets the minimum alignment applied to every allocation,
// regardless of the align argument passed to Alloc. Must be a power of two.
func WithMinAlign(align int) Option {
	return func(a *Arena) {
		if align > 0 && align&(align-1) == 0 {
			a.minAlign = align
		}
	}
}

// WithLimit caps the total number of bytes the arena will allocate between
// Resets (Reset starts the count over). Once the limit is reached, Alloc
// returns nil.
func WithLimit(n int64) Option {
	return func(a *Arena) { a.limit = n }
}

// New creates an Arena with an initial chunk of chunkSize bytes (at least
// 4096 if chunkSize is non-positive).
func New(chunkSize int, opts ...Option) *Arena {
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	a := &Arena{minAlign: defaultMinAlign}
	for _, o := range opts {
		o(a)
	}
	a.chunks = [][]byte{make([]byte, 0, chunkSize)}
	return a
}

func alignUp(off, align int) int {
	return (off + align - 1) &^ (align - 1)
}

// Alloc returns size bytes aligned to max(align, the arena's minimum
// alignment). It returns nil if the allocation would exceed the arena's
// limit or if the underlying runtime cannot satisfy the request.
//
// A zero-size allocation succeeds and returns a properly aligned, non-nil
// (possibly empty) slice whose address is stable until the next Reset.
func (a *Arena) Alloc(size, align int) []byte {
	if align < a.minAlign {
		align = a.minAlign
	}
	if align <= 0 || align&(align-1) != 0 {
		align = a.minAlign
	}
	if size < 0 {
		return nil
	}

	cur := a.chunks[len(a.chunks)-1]
	start := alignUp(a.off, align)
	need := start + size
	if need <= cap(cur) {
		if a.limit > 0 && a.used+int64(size) > a.limit {
			return nil
		}
		buf := cur[:need]
		region := buf[start:need]
		a.off = need
		a.chunks[len(a.chunks)-1] = buf
		a.used += int64(size)
		zero(region)
		return region
	}

	// Grow: double the previous chunk's capacity, but always large enough
	// to satisfy this request plus alignment padding.
	newCap := cap(cur) * 2
	if newCap == 0 {
		newCap = 4096
	}
	if newCap < size+align {
		newCap = size + align
	}
	if a.limit > 0 && a.used+int64(size) > a.limit {
		return nil
	}
	next := make([]byte, 0, newCap)
	a.chunks = append(a.chunks, next)
	start = alignUp(0, align)
	next = next[:start+size]
	a.chunks[len(a.chunks)-1] = next
	a.off = start + size
	a.used += int64(size)
	region := next[start : start+size]
	zero(region)
	return region
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// AllocCopy allocates len(src) bytes aligned to align and copies src into it.
func (a *Arena) AllocCopy(src []byte, align int) []byte {
	dst := a.Alloc(len(src), align)
	if dst == nil {
		return nil
	}
	copy(dst, src)
	return dst
}

// Realloc allocates a new region of newSize bytes aligned to align, copies
// min(oldSize, newSize) bytes from old into it, and leaks old until the next
// Reset or Destroy. There is no in-place growth: arenas never move or
// shrink an existing allocation.
func (a *Arena) Realloc(old []byte, oldSize, newSize, align int) []byte {
	dst := a.Alloc(newSize, align)
	if dst == nil {
		return nil
	}
	n := oldSize
	if newSize < n {
		n = newSize
	}
	if n > len(old) {
		n = len(old)
	}
	copy(dst, old[:n])
	return dst
}

// Reset discards every chunk except the largest one, which is reused with
// its offset rewound to zero. Resetting an arena with a single, still-empty
// chunk is a no-op.
func (a *Arena) Reset() {
	biggest := 0
	for i, c := range a.chunks {
		if cap(c) > cap(a.chunks[biggest]) {
			biggest = i
		}
	}
	kept := a.chunks[biggest][:0]
	a.chunks = [][]byte{kept}
	a.off = 0
	a.used = 0
}

// Destroy releases every chunk. The Arena must not be used afterward except
// through a fresh call to New assigned over it.
func (a *Arena) Destroy() {
	a.chunks = nil
	a.off = 0
	a.used = 0
}

// Used returns the number of bytes handed out since the last Reset or
// Destroy (not counting bytes still reserved in the current chunk).
func (a *Arena) Used() int64 { return a.used }
