// Package table implements the open-addressed, string-keyed hash table used
// throughout loxvm: globals, instance fields, and class method tables all
// share this one implementation. (The VM's string intern set is a separate
// Go map keyed by string content.)
//
// Keys are anything satisfying Key — in practice always an interned
// *object.ObjString — so lookup is a hash probe followed by an identity
// compare, never a byte-for-byte string compare. This package intentionally
// does not import pkg/object: Key is declared here as the minimal interface
// object.ObjString happens to satisfy, which keeps the dependency arrow
// pointing the sensible way (object depends on table, not the reverse).
package table

import "github.com/kristofer/loxvm/pkg/value"

// Key is the minimal contract a table key must satisfy: a precomputed hash
// for bucket selection, plus identity comparison via Go's own == (Key is
// itself compared with ==, which for a pointer type is pointer identity).
type Key interface {
	KeyHash() uint32
}

const maxLoad = 0.75

type entryState byte

const (
	stateEmpty entryState = iota
	stateTombstone
	stateLive
)

type entry struct {
	key   Key
	val   value.Value
	state entryState
}

// Table is an open-addressed hash table with linear probing. Entries take
// three states: empty (never used), tombstone (deleted, skipped on lookup
// but reclaimed on insert), and live. Growth happens once the load factor
// would exceed 0.75, doubling capacity (capacities are always a power of
// two, starting at 8).
type Table struct {
	entries []entry
	count   int // live entries only; tombstones don't count toward load
}

// NewTable returns an empty table. The zero value of Table is also usable
// and behaves identically — NewTable exists for symmetry with the rest of
// the package's constructors.
func NewTable() *Table {
	return &Table{}
}

// Len reports the number of live entries (not counting tombstones).
func (t *Table) Len() int { return t.count }

// Get looks up key, returning its value and whether it was found. Lookup
// probes past tombstones but stops at the first true-empty slot.
func (t *Table) Get(key Key) (value.Value, bool) {
	if len(t.entries) == 0 {
		return nil, false
	}
	idx := t.findEntry(key)
	e := &t.entries[idx]
	if e.state != stateLive {
		return nil, false
	}
	return e.val, true
}

// Set inserts or overwrites key's value. It returns true if this created a
// brand new entry (key was not previously live), matching the reference
// table's tableSet return value that OP_SET_GLOBAL relies on to distinguish
// "assign to known global" from "assign to undefined global".
func (t *Table) Set(key Key, v value.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		t.grow()
	}
	idx := t.findEntry(key)
	e := &t.entries[idx]
	isNew := e.state != stateLive
	if isNew {
		t.count++
	}
	e.key = key
	e.val = v
	e.state = stateLive
	return isNew
}

// Delete converts key's live entry into a tombstone, if present. Reports
// whether a live entry existed to delete.
func (t *Table) Delete(key Key) bool {
	if len(t.entries) == 0 {
		return false
	}
	idx := t.findEntry(key)
	e := &t.entries[idx]
	if e.state != stateLive {
		return false
	}
	e.key = nil
	e.val = true // tombstone sentinel value, per the spec's encoding
	e.state = stateTombstone
	t.count--
	return true
}

// AddAll copies every live entry of src into dst, used by OP_INHERIT to
// seed a subclass's method table from its superclass.
func AddAll(src, dst *Table) {
	for _, e := range src.entries {
		if e.state == stateLive {
			dst.Set(e.key, e.val)
		}
	}
}

// findEntry probes for key starting at its hash bucket, returning the index
// of either a live matching entry or the first available slot (empty or a
// reusable tombstone) where it would be inserted.
func (t *Table) findEntry(key Key) int {
	cap := len(t.entries)
	idx := int(key.KeyHash()) & (cap - 1)
	var tombstone = -1
	for {
		e := &t.entries[idx]
		switch e.state {
		case stateEmpty:
			if tombstone != -1 {
				return tombstone
			}
			return idx
		case stateTombstone:
			if tombstone == -1 {
				tombstone = idx
			}
		case stateLive:
			if e.key == key {
				return idx
			}
		}
		idx = (idx + 1) & (cap - 1)
	}
}

func (t *Table) grow() {
	newCap := 8
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	old := t.entries
	t.entries = make([]entry, newCap)
	t.count = 0
	for _, e := range old {
		if e.state == stateLive {
			t.Set(e.key, e.val)
		}
	}
}

// Keys returns every live key, in unspecified order. Used by the GC to mark
// every key (and, via Get, every value) reachable through a table such as
// the globals table during root marking.
func (t *Table) Keys() []Key {
	keys := make([]Key, 0, t.count)
	for _, e := range t.entries {
		if e.state == stateLive {
			keys = append(keys, e.key)
		}
	}
	return keys
}
