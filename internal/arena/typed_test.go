package arena

import "testing"

type typedTestPair struct {
	x, y uint64
}

func TestAllocTZeroed(t *testing.T) {
	a := New(64)
	p := AllocT[typedTestPair](a)
	if p == nil {
		t.Fatal("AllocT returned nil")
	}
	if p.x != 0 || p.y != 0 {
		t.Fatalf("expected zero-valued struct, got %+v", *p)
	}
	p.x = 7
	if p.x != 7 {
		t.Fatal("write through the returned pointer did not stick")
	}
}

func TestAllocSliceContiguousAndStable(t *testing.T) {
	a := New(64)
	s := AllocSlice[typedTestPair](a, 4)
	if len(s) != 4 {
		t.Fatalf("len = %d, want 4", len(s))
	}
	for i := range s {
		s[i].x = uint64(i)
	}
	for i := range s {
		if s[i].x != uint64(i) {
			t.Fatalf("slot %d got %d, want %d", i, s[i].x, i)
		}
	}
}

func TestAllocSliceZeroLengthIsNil(t *testing.T) {
	a := New(64)
	if s := AllocSlice[typedTestPair](a, 0); s != nil {
		t.Fatalf("expected nil for n<=0, got %v", s)
	}
}

func TestAllocTRespectsArenaLimit(t *testing.T) {
	a := New(64, WithLimit(4))
	if p := AllocT[typedTestPair](a); p != nil {
		t.Fatal("expected nil: typedTestPair (16 bytes) exceeds the 4-byte limit")
	}
}
