package gtable

import (
	"fmt"
	"testing"

	"glint/gvalue"
)

type stubAllocator struct{}

func (stubAllocator) Register(gvalue.Obj) {}

func key(s string) *gvalue.ObjString {
	return gvalue.CopyString(stubAllocator{}, s)
}

func TestSetGetRoundTrip(t *testing.T) {
	tbl := New()
	k := key("name")
	if !tbl.Set(k, gvalue.Number(42)) {
		t.Error("Set on a fresh key should report true")
	}
	v, ok := tbl.Get(k)
	if !ok || v.AsNumber() != 42 {
		t.Errorf("Get returned (%v, %v), want (42, true)", v, ok)
	}
}

func TestSetExistingKeyReturnsFalse(t *testing.T) {
	tbl := New()
	k := key("name")
	tbl.Set(k, gvalue.Number(1))
	if tbl.Set(k, gvalue.Number(2)) {
		t.Error("Set on an existing key should report false")
	}
	v, _ := tbl.Get(k)
	if v.AsNumber() != 2 {
		t.Error("Set should overwrite the existing value")
	}
}

func TestGetMissingKey(t *testing.T) {
	tbl := New()
	if _, ok := tbl.Get(key("missing")); ok {
		t.Error("Get on an empty table should report false")
	}
}

func TestDeleteTombstoneKeepsLaterEntriesReachable(t *testing.T) {
	tbl := New()
	// Force collisions within a small table by using many keys so at least
	// one chain runs past a deleted slot.
	keys := make([]*gvalue.ObjString, 0, 20)
	for i := 0; i < 20; i++ {
		keys = append(keys, key(fmt.Sprintf("k%d", i)))
		tbl.Set(keys[i], gvalue.Number(float64(i)))
	}

	if !tbl.Delete(keys[0]) {
		t.Fatal("Delete on a present key should report true")
	}
	if _, ok := tbl.Get(keys[0]); ok {
		t.Error("deleted key should no longer be found")
	}

	for i := 1; i < 20; i++ {
		v, ok := tbl.Get(keys[i])
		if !ok || v.AsNumber() != float64(i) {
			t.Errorf("key %d lost after unrelated delete: %v %v", i, v, ok)
		}
	}
}

func TestDeleteMissingKey(t *testing.T) {
	tbl := New()
	if tbl.Delete(key("nope")) {
		t.Error("Delete on a missing key should report false")
	}
}

func TestGrowsPastLoadFactor(t *testing.T) {
	tbl := New()
	for i := 0; i < 100; i++ {
		tbl.Set(key(fmt.Sprintf("k%d", i)), gvalue.Number(float64(i)))
	}
	for i := 0; i < 100; i++ {
		v, ok := tbl.Get(key(fmt.Sprintf("k%d", i)))
		if !ok || v.AsNumber() != float64(i) {
			t.Errorf("key %d missing or wrong after growth: %v %v", i, v, ok)
		}
	}
}

func TestAddAllCopiesLiveEntries(t *testing.T) {
	from := New()
	from.Set(key("a"), gvalue.Number(1))
	from.Set(key("b"), gvalue.Number(2))
	from.Delete(key("a"))

	to := New()
	AddAll(from, to)

	if _, ok := to.Get(key("a")); ok {
		t.Error("AddAll should not resurrect a tombstoned entry")
	}
	v, ok := to.Get(key("b"))
	if !ok || v.AsNumber() != 2 {
		t.Errorf("AddAll did not copy live entry b: %v %v", v, ok)
	}
}
