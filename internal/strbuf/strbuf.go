// Package strbuf implements an arena-backed growable string buffer: the
// accumulation target the printer renders into before flushing to a sink.
// Growth goes through the arena's allocate-and-copy Realloc, so every byte
// the buffer ever held is reclaimed in one Reset/Destroy of the owning
// arena rather than churned through the garbage collector.
package strbuf

import (
	"fmt"

	"calir/internal/arena"
)

// Buffer is a growable byte buffer whose storage lives in an Arena.
type Buffer struct {
	a   *arena.Arena
	buf []byte // full capacity slice; length tracked separately
	n   int
}

// New creates an empty Buffer drawing storage from a.
func New(a *arena.Arena) *Buffer {
	return &Buffer{a: a}
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int { return b.n }

// grow ensures room for at least extra more bytes, doubling capacity the
// same way the arena doubles its chunks.
func (b *Buffer) grow(extra int) bool {
	need := b.n + extra
	if need <= len(b.buf) {
		return true
	}
	newCap := len(b.buf) * 2
	if newCap < 16 {
		newCap = 16
	}
	for newCap < need {
		newCap *= 2
	}
	grown := b.a.Realloc(b.buf, b.n, newCap, 1)
	if grown == nil {
		return false
	}
	b.buf = grown
	return true
}

// WriteString appends s. It reports whether the append succeeded (false
// only when the owning arena is out of memory or over its limit).
func (b *Buffer) WriteString(s string) bool {
	if !b.grow(len(s)) {
		return false
	}
	copy(b.buf[b.n:], s)
	b.n += len(s)
	return true
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) bool {
	if !b.grow(1) {
		return false
	}
	b.buf[b.n] = c
	b.n++
	return true
}

// Appendf appends fmt.Sprintf(format, args...).
func (b *Buffer) Appendf(format string, args ...any) bool {
	return b.WriteString(fmt.Sprintf(format, args...))
}

// String returns everything written so far as a string. The returned string
// copies the bytes, so it stays valid after further writes or a Reset.
func (b *Buffer) String() string {
	return string(b.buf[:b.n])
}

// Bytes returns the live contents without copying; the slice is invalidated
// by any subsequent write or Reset.
func (b *Buffer) Bytes() []byte { return b.buf[:b.n] }

// Reset empties the buffer, keeping its current capacity for reuse.
func (b *Buffer) Reset() { b.n = 0 }
