package bitset

import "testing"

func TestZeroLengthTrivial(t *testing.T) {
	a := New(0)
	b := New(0)
	if !a.Equals(b) {
		t.Fatal("two empty bitsets should be equal")
	}
	a.Union(b)
	a.Intersect(b)
	a.Difference(b)
	if a.PopCount() != 0 {
		t.Fatal("empty bitset should have zero popcount")
	}
	if len(a.bits) != 0 {
		t.Fatalf("expected zero words, got %d", len(a.bits))
	}
}

func TestSetClearTest(t *testing.T) {
	b := New(10)
	b.Set(3)
	if !b.Test(3) {
		t.Fatal("bit 3 should be set")
	}
	b.Clear(3)
	if b.Test(3) {
		t.Fatal("bit 3 should be cleared")
	}
}

func TestSetAllMasksTrailingBits(t *testing.T) {
	b := New(70) // spans two words, second word only has 6 live bits
	b.SetAll()
	if b.PopCount() != 70 {
		t.Fatalf("popcount = %d, want 70", b.PopCount())
	}
	for i := 70; i < 128; i++ {
		// bits beyond count must stay zero in the raw words
		if i/wordBits < len(b.bits) {
			bit := b.bits[i/wordBits] & (uint64(1) << uint(i%wordBits))
			if bit != 0 {
				t.Fatalf("trailing bit %d leaked set", i)
			}
		}
	}
}

func TestUnionIntersectDifference(t *testing.T) {
	a := New(8)
	c := New(8)
	a.Set(0)
	a.Set(1)
	c.Set(1)
	c.Set(2)

	u := a.Copy()
	u.Union(c)
	for _, i := range []int{0, 1, 2} {
		if !u.Test(i) {
			t.Fatalf("union missing bit %d", i)
		}
	}

	i2 := a.Copy()
	i2.Intersect(c)
	if i2.PopCount() != 1 || !i2.Test(1) {
		t.Fatal("intersect should contain only bit 1")
	}

	d := a.Copy()
	d.Difference(c)
	if d.PopCount() != 1 || !d.Test(0) {
		t.Fatal("difference should contain only bit 0")
	}
}

func TestMismatchedLengthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched bit counts")
		}
	}()
	New(4).Equals(New(8))
}
