// Package atom provides globally fresh free-variable identities.
//
// An Atom names a free variable produced when the evaluator opens a binder.
// Two atoms are equal iff their tags match; the printable hint is carried
// only for diagnostics and is never consulted for equality.
package atom

import "fmt"

// Atom is a fresh free-variable name.
type Atom struct {
	hint string
	tag  uint64
}

// Equal reports whether a and b were minted by the same Table call.
func (a Atom) Equal(b Atom) bool {
	return a.tag == b.tag
}

// Hint returns the printable hint the atom was created with.
func (a Atom) Hint() string {
	return a.hint
}

// String renders the atom for diagnostics as "hint#tag".
func (a Atom) String() string {
	if a.hint == "" {
		return fmt.Sprintf("_#%d", a.tag)
	}

	return fmt.Sprintf("%s#%d", a.hint, a.tag)
}

// Table mints fresh atoms and interns them for the lifetime of a session.
// It is not safe for concurrent use — callers that need concurrency must
// serialize access themselves, matching the single-threaded evaluator of
// the package that owns it.
type Table struct {
	interned map[uint64]Atom
	next     uint64
}

// NewTable returns an empty atom table.
func NewTable() *Table {
	return &Table{interned: make(map[uint64]Atom)}
}

// Fresh mints a new atom with the given hint. The returned atom is
// guaranteed to be unequal to every atom previously minted by this table.
func (t *Table) Fresh(hint string) Atom {
	t.next++
	a := Atom{hint: hint, tag: t.next}
	t.interned[a.tag] = a

	return a
}

// FreshLike mints a new atom reusing another atom's hint, as when a binder
// is re-opened under a different name during pretty-printing or repeated
// unabstraction.
func (t *Table) FreshLike(a Atom) Atom {
	return t.Fresh(a.hint)
}

// Lookup returns the atom for a tag, if this table minted it.
func (t *Table) Lookup(tag uint64) (Atom, bool) {
	a, ok := t.interned[tag]
	return a, ok
}
