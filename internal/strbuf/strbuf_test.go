package strbuf

import (
	"testing"

	"calir/internal/arena"
)

func TestWriteStringAndByteAccumulate(t *testing.T) {
	b := New(arena.New(64))
	b.WriteString("hello")
	b.WriteByte(' ')
	b.WriteString("world")
	if got := b.String(); got != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
	if b.Len() != 11 {
		t.Fatalf("Len = %d, want 11", b.Len())
	}
}

func TestGrowthPastInitialChunk(t *testing.T) {
	b := New(arena.New(16))
	for i := 0; i < 100; i++ {
		if !b.WriteString("0123456789") {
			t.Fatalf("write %d failed", i)
		}
	}
	if b.Len() != 1000 {
		t.Fatalf("Len = %d, want 1000", b.Len())
	}
	s := b.String()
	if s[:10] != "0123456789" || s[990:] != "0123456789" {
		t.Fatal("contents corrupted across growth")
	}
}

func TestAppendf(t *testing.T) {
	b := New(arena.New(64))
	b.Appendf("%s:%d", "x", 7)
	if got := b.String(); got != "x:7" {
		t.Fatalf("got %q, want %q", got, "x:7")
	}
}

func TestResetKeepsCapacityAndEmpties(t *testing.T) {
	b := New(arena.New(64))
	b.WriteString("abc")
	b.Reset()
	if b.Len() != 0 || b.String() != "" {
		t.Fatal("reset buffer should be empty")
	}
	b.WriteString("def")
	if got := b.String(); got != "def" {
		t.Fatalf("got %q after reset+write, want %q", got, "def")
	}
}

func TestWriteFailsWhenArenaLimitExceeded(t *testing.T) {
	b := New(arena.New(64, arena.WithLimit(32)))
	if ok := b.WriteString("0123456789"); !ok {
		t.Fatal("first write should fit the limit")
	}
	// The first write took a 16-byte region. The next write needs 20 bytes,
	// so the buffer asks for 32 more, and 16 + 32 passes the 32-byte limit.
	var failed bool
	for i := 0; i < 20; i++ {
		if !b.WriteString("0123456789") {
			failed = true
			break
		}
	}
	if !failed {
		t.Fatal("expected a write to fail once the arena limit was hit")
	}
}
