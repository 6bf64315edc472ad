package hashmap

import "testing"

func TestPutGetRoundtrip(t *testing.T) {
	m := NewIntMap[int, string]()
	m.Put(1, "one")
	m.Put(2, "two")
	if v, ok := m.Get(1); !ok || v != "one" {
		t.Fatalf("got (%q, %v), want (\"one\", true)", v, ok)
	}
	if _, ok := m.Get(3); ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestGrowPreservesEntries(t *testing.T) {
	m := NewIntMap[int, int]()
	for i := 0; i < 500; i++ {
		m.Put(i, i*i)
	}
	if m.Len() != 500 {
		t.Fatalf("len = %d, want 500", m.Len())
	}
	for i := 0; i < 500; i++ {
		v, ok := m.Get(i)
		if !ok || v != i*i {
			t.Fatalf("key %d: got (%d,%v)", i, v, ok)
		}
	}
}

func TestDeleteLeavesTombstoneFindable(t *testing.T) {
	m := NewIntMap[int, int]()
	m.Put(1, 1)
	m.Put(2, 2)
	m.Delete(1)
	if m.Contains(1) {
		t.Fatal("deleted key should not be contained")
	}
	if !m.Contains(2) {
		t.Fatal("surviving key lost after delete")
	}
	// Re-inserting the deleted key should reuse the tombstone slot.
	m.Put(1, 99)
	if v, ok := m.Get(1); !ok || v != 99 {
		t.Fatal("re-insert after delete failed")
	}
}

func TestFloatMapRejectsNaN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic inserting NaN key")
		}
	}()
	m := NewFloat64Map[int]()
	nan := float64Nan()
	m.Put(nan, 1)
}

func float64Nan() float64 {
	var zero float64
	return zero / zero
}

func TestFloatMapPositiveNegativeZeroEqual(t *testing.T) {
	m := NewFloat64Map[string]()
	m.Put(0.0, "pos")
	negZero := float64FromBits()
	if v, ok := m.Get(negZero); !ok || v != "pos" {
		t.Fatalf("-0.0 should map to same slot as +0.0, got (%q,%v)", v, ok)
	}
}

func float64FromBits() float64 {
	var negZero float64 = 0
	negZero = -negZero
	return negZero
}

func TestPointerMapHashesIdentity(t *testing.T) {
	type node struct{ v int }
	a := &node{v: 1}
	b := &node{v: 1}
	m := NewPointerMap[node, string]()
	m.Put(a, "a")
	if _, ok := m.Get(b); ok {
		t.Fatal("distinct pointers to equal-valued structs must not collide")
	}
	if v, ok := m.Get(a); !ok || v != "a" {
		t.Fatal("pointer identity lookup failed")
	}
}

func TestStringMapDistinctLengths(t *testing.T) {
	m := NewStringMap[int]()
	m.Put("ab", 1)
	m.Put("a", 2)
	if v, ok := m.Get("ab"); !ok || v != 1 {
		t.Fatal("string map lookup failed")
	}
	if v, ok := m.Get("a"); !ok || v != 2 {
		t.Fatal("string map lookup failed")
	}
}

func TestIterateVisitsAllLiveEntries(t *testing.T) {
	m := NewIntMap[int, int]()
	want := map[int]int{1: 1, 2: 4, 3: 9}
	for k, v := range want {
		m.Put(k, v)
	}
	got := map[int]int{}
	m.Iterate(func(e Entry[int, int]) { got[e.Key] = e.Value })
	if len(got) != len(want) {
		t.Fatalf("iterate saw %d entries, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("entry %d = %d, want %d", k, got[k], v)
		}
	}
}
