package table

import "testing"

type testKey struct {
	hash uint32
}

func (k testKey) KeyHash() uint32 { return k.hash }

func TestSetGetRoundTrip(t *testing.T) {
	tbl := NewTable()
	k := testKey{hash: 42}

	if !tbl.Set(k, "value") {
		t.Fatal("expected Set on a new key to report isNew=true")
	}
	v, ok := tbl.Get(k)
	if !ok || v != "value" {
		t.Fatalf("Get returned (%v, %v), want (\"value\", true)", v, ok)
	}
}

func TestSetExistingKeyIsNotNew(t *testing.T) {
	tbl := NewTable()
	k := testKey{hash: 1}
	tbl.Set(k, "a")
	if tbl.Set(k, "b") {
		t.Fatal("expected Set overwriting an existing key to report isNew=false")
	}
	v, _ := tbl.Get(k)
	if v != "b" {
		t.Fatalf("got %v, want b", v)
	}
}

func TestDeleteThenReinsertReusesTombstone(t *testing.T) {
	tbl := NewTable()
	k := testKey{hash: 7}
	tbl.Set(k, 1)
	if !tbl.Delete(k) {
		t.Fatal("expected Delete to report a live entry existed")
	}
	if _, ok := tbl.Get(k); ok {
		t.Fatal("expected Get to miss after Delete")
	}
	if !tbl.Set(k, 2) {
		t.Fatal("expected re-Set after Delete to report isNew=true")
	}
	v, _ := tbl.Get(k)
	if v != 2 {
		t.Fatalf("got %v, want 2", v)
	}
}

func TestGrowPreservesAllEntries(t *testing.T) {
	tbl := NewTable()
	const n = 200
	for i := 0; i < n; i++ {
		tbl.Set(testKey{hash: uint32(i)}, i)
	}
	if tbl.Len() != n {
		t.Fatalf("got %d entries, want %d", tbl.Len(), n)
	}
	for i := 0; i < n; i++ {
		v, ok := tbl.Get(testKey{hash: uint32(i)})
		if !ok || v != i {
			t.Fatalf("entry %d: got (%v, %v)", i, v, ok)
		}
	}
}

func TestAddAllCopiesLiveEntries(t *testing.T) {
	src := NewTable()
	src.Set(testKey{hash: 1}, "a")
	src.Set(testKey{hash: 2}, "b")
	src.Delete(testKey{hash: 2})

	dst := NewTable()
	dst.Set(testKey{hash: 3}, "preexisting")
	AddAll(src, dst)

	if v, ok := dst.Get(testKey{hash: 1}); !ok || v != "a" {
		t.Errorf("expected key 1 copied into dst, got (%v, %v)", v, ok)
	}
	if _, ok := dst.Get(testKey{hash: 2}); ok {
		t.Error("tombstoned key should not have been copied")
	}
	if v, ok := dst.Get(testKey{hash: 3}); !ok || v != "preexisting" {
		t.Errorf("expected dst's own entry to survive AddAll, got (%v, %v)", v, ok)
	}
}

func TestEqualKeysCollapseToOneEntry(t *testing.T) {
	tbl := NewTable()
	// Key equality is plain == over the testKey struct, so two separately
	// built keys with the same hash are the same key and share one entry.
	a := testKey{hash: 5}
	b := testKey{hash: 5}
	tbl.Set(a, "a")
	tbl.Set(b, "b") // same value as `a` under ==, so this overwrites

	if tbl.Len() != 1 {
		t.Fatalf("identical keys should collapse to one entry, got %d", tbl.Len())
	}
}
