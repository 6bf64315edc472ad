package arena

import "testing"

func TestAllocAlignment(t *testing.T) {
	a := New(64)
	b := a.Alloc(3, 16)
	if len(b) != 3 {
		t.Fatalf("len = %d, want 3", len(b))
	}
}

func TestAllocZeroSize(t *testing.T) {
	a := New(64)
	b := a.Alloc(0, 8)
	if b == nil {
		t.Fatal("zero-size alloc returned nil")
	}
	if len(b) != 0 {
		t.Fatalf("len = %d, want 0", len(b))
	}
}

func TestAllocGrows(t *testing.T) {
	a := New(8)
	first := a.Alloc(8, 1)
	second := a.Alloc(8, 1)
	if len(a.chunks) != 2 {
		t.Fatalf("expected growth to a second chunk, got %d chunks", len(a.chunks))
	}
	first[0] = 1
	second[0] = 2
	if first[0] != 1 || second[0] != 2 {
		t.Fatal("allocations from different chunks aliased")
	}
}

func TestResetOnEmptyArenaIsNoop(t *testing.T) {
	a := New(64)
	a.Reset()
	if len(a.chunks) != 1 || a.off != 0 {
		t.Fatal("reset of empty arena mutated state")
	}
}

func TestResetKeepsLargestChunk(t *testing.T) {
	a := New(8)
	a.Alloc(8, 1)
	a.Alloc(64, 1) // forces growth past 8
	before := cap(a.chunks[len(a.chunks)-1])
	a.Reset()
	if len(a.chunks) != 1 {
		t.Fatalf("expected 1 chunk after reset, got %d", len(a.chunks))
	}
	if cap(a.chunks[0]) < before {
		t.Fatalf("reset did not keep the largest chunk: cap=%d want >= %d", cap(a.chunks[0]), before)
	}
	if a.off != 0 {
		t.Fatalf("offset not rewound: %d", a.off)
	}
}

func TestAllocRespectsLimit(t *testing.T) {
	a := New(64, WithLimit(16))
	if b := a.Alloc(16, 1); b == nil {
		t.Fatal("alloc within limit failed")
	}
	if b := a.Alloc(1, 1); b != nil {
		t.Fatal("alloc beyond limit should return nil")
	}
}

func TestReallocCopiesData(t *testing.T) {
	a := New(64)
	old := a.Alloc(4, 1)
	copy(old, []byte{1, 2, 3, 4})
	grown := a.Realloc(old, 4, 8, 1)
	if grown[0] != 1 || grown[3] != 4 {
		t.Fatalf("realloc did not preserve data: %v", grown)
	}
}

func TestPoolAllocStablePointers(t *testing.T) {
	type node struct{ v int }
	p := NewPool[node](2)
	a := p.Alloc()
	a.v = 1
	b := p.Alloc()
	b.v = 2
	c := p.Alloc() // forces a new slab
	c.v = 3
	if a.v != 1 || b.v != 2 || c.v != 3 {
		t.Fatal("pool allocation aliased across slab growth")
	}
}
