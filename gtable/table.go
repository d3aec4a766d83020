// Package gtable implements the open-addressed, linear-probing hash table
// with tombstone deletion that spec.md §4.5 specifies as runtime
// infrastructure for Glint's future (globals, instance fields) — not
// exercised by any opcode in this core, but the algorithm the core's own
// growth/rehash discipline (gchunk's append-only buffers) is a simpler
// cousin of.
package gtable

import "glint/gvalue"

// Entry is one slot. An empty slot has Key == nil, Value.IsNil() == true. A
// tombstone (deleted) slot has Key == nil, Value == Bool(true). A live slot
// has Key != nil.
type Entry struct {
	Key   *gvalue.ObjString
	Value gvalue.Value
}

const maxLoad = 0.75

// Table is the map itself: a flat Entry array probed linearly, plus a count
// of live entries *and* tombstones (tombstones count toward the load factor
// so probe chains stay bounded between rehashes).
type Table struct {
	count    int
	entries  []Entry
}

// New returns an empty table; its backing array is allocated lazily on the
// first Set, starting at capacity 8.
func New() *Table {
	return &Table{}
}

func isTombstone(e Entry) bool {
	return e.Key == nil && e.Value.IsBool() && e.Value.AsBool()
}

func isEmpty(e Entry) bool {
	return e.Key == nil && e.Value.IsNil()
}

// keysEqual compares string keys by length then byte content — without a
// global intern table (out of scope here; see spec.md §4.4), reference
// identity can't stand in for equality.
func keysEqual(a, b *gvalue.ObjString) bool {
	if a == b {
		return true
	}
	return a.Hash == b.Hash && a.Chars == b.Chars
}

// findEntry implements spec.md §4.5's probe sequence: walk the chain
// starting at hash % capacity; an empty slot ends the search (returning the
// first tombstone seen along the way, if any, so re-insertion reuses it);
// a tombstone is remembered and the probe continues; a matching key returns
// immediately.
func findEntry(entries []Entry, key *gvalue.ObjString) int {
	capacity := len(entries)
	index := int(key.Hash) % capacity
	var tombstone = -1

	for {
		e := &entries[index]
		switch {
		case isEmpty(*e):
			if tombstone != -1 {
				return tombstone
			}
			return index
		case isTombstone(*e):
			if tombstone == -1 {
				tombstone = index
			}
		case keysEqual(e.Key, key):
			return index
		}
		index = (index + 1) % capacity
	}
}

func (t *Table) adjustCapacity(capacity int) {
	fresh := make([]Entry, capacity)
	for i := range fresh {
		fresh[i] = Entry{Value: gvalue.Nil()}
	}

	liveCount := 0
	for _, e := range t.entries {
		if e.Key == nil {
			continue
		}
		dest := findEntry(fresh, e.Key)
		fresh[dest] = Entry{Key: e.Key, Value: e.Value}
		liveCount++
	}

	t.entries = fresh
	t.count = liveCount
}

// Get returns the value stored under key, or (Nil, false) if key is absent.
func (t *Table) Get(key *gvalue.ObjString) (gvalue.Value, bool) {
	if len(t.entries) == 0 {
		return gvalue.Nil(), false
	}
	e := &t.entries[findEntry(t.entries, key)]
	if e.Key == nil {
		return gvalue.Nil(), false
	}
	return e.Value, true
}

// Set stores value under key, growing the table first if the insertion
// would push the load factor past 0.75. It returns true iff key was not
// already present (counting a tombstone slot being reused as "new").
func (t *Table) Set(key *gvalue.ObjString, value gvalue.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		capacity := 8
		if len(t.entries) > 0 {
			capacity = len(t.entries) * 2
		}
		t.adjustCapacity(capacity)
	}

	e := &t.entries[findEntry(t.entries, key)]
	isNewKey := e.Key == nil
	if isNewKey && isEmpty(*e) {
		t.count++
	}

	e.Key = key
	e.Value = value
	return isNewKey
}

// Delete removes key, leaving a tombstone behind so later probes that
// crossed this slot still find entries beyond it. Returns false if key was
// not present.
func (t *Table) Delete(key *gvalue.ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}

	e := &t.entries[findEntry(t.entries, key)]
	if e.Key == nil {
		return false
	}

	e.Key = nil
	e.Value = gvalue.Bool(true)
	return true
}

// AddAll copies every live entry of from into to.
func AddAll(from, to *Table) {
	for _, e := range from.entries {
		if e.Key != nil {
			to.Set(e.Key, e.Value)
		}
	}
}
