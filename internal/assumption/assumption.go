// Package assumption implements the finite sets of atoms that every TT term
// carries: the hypotheses a term's validity depends on, tracked so that
// equality reflection (accepting a proof as a definitional equality) can be
// audited after the fact.
//
// A Set pairs a set of free atoms with a set of "loose" bound-level indices
// — indices that would be captured by a binder not yet applied to this
// term. bind, instantiate and abstract are the three operations a smart
// constructor calls at every binder crossing; see internal/tt for their
// callers.
package assumption

import "github.com/orizon-lang/orizon-witness/internal/atom"

// Set is an immutable assumption set. The zero value is the empty set.
type Set struct {
	atoms  map[atom.Atom]struct{}
	levels map[int]struct{}
}

// Empty is the assumption set of a closed, hypothesis-free term.
var Empty = Set{}

// Singleton returns the assumption set of a bare free-variable occurrence.
func Singleton(a atom.Atom) Set {
	return Set{atoms: map[atom.Atom]struct{}{a: {}}}
}

// BoundLevel returns the assumption set of a bare bound-variable occurrence
// at the given de Bruijn index.
func BoundLevel(k int) Set {
	return Set{levels: map[int]struct{}{k: {}}}
}

func cloneAtoms(m map[atom.Atom]struct{}) map[atom.Atom]struct{} {
	out := make(map[atom.Atom]struct{}, len(m))
	for a := range m {
		out[a] = struct{}{}
	}

	return out
}

func cloneLevels(m map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}

	return out
}

// Union returns the assumption set depending on either s or the sets in
// others — the operation every smart constructor uses to combine the
// assumptions of a term's immediate subterms.
func Union(s Set, others ...Set) Set {
	out := Set{atoms: cloneAtoms(s.atoms), levels: cloneLevels(s.levels)}

	for _, o := range others {
		for a := range o.atoms {
			if out.atoms == nil {
				out.atoms = make(map[atom.Atom]struct{})
			}

			out.atoms[a] = struct{}{}
		}

		for k := range o.levels {
			if out.levels == nil {
				out.levels = make(map[int]struct{})
			}

			out.levels[k] = struct{}{}
		}
	}

	return out
}

// Atoms returns the free atoms in the set.
func (s Set) Atoms() []atom.Atom {
	out := make([]atom.Atom, 0, len(s.atoms))
	for a := range s.atoms {
		out = append(out, a)
	}

	return out
}

// HasAtom reports whether the set depends on a.
func (s Set) HasAtom(a atom.Atom) bool {
	_, ok := s.atoms[a]
	return ok
}

// HasLevel reports whether the set has a loose bound index at level k.
func (s Set) HasLevel(k int) bool {
	_, ok := s.levels[k]
	return ok
}

// Equal reports whether two assumption sets name the same atoms and levels.
// Used only by tests; production code never compares assumption sets for
// equality (only for use as a soundness-tracking artifact).
func (s Set) Equal(o Set) bool {
	if len(s.atoms) != len(o.atoms) || len(s.levels) != len(o.levels) {
		return false
	}

	for a := range s.atoms {
		if _, ok := o.atoms[a]; !ok {
			return false
		}
	}

	for k := range s.levels {
		if _, ok := o.levels[k]; !ok {
			return false
		}
	}

	return true
}

// Bind shifts every loose bound-level index up by one, recording that the
// set's owner has gone under one more binder. Called once per binder
// crossed on the way from a subterm to its parent.
func (s Set) Bind(k int) Set {
	if len(s.levels) == 0 {
		return Set{atoms: cloneAtoms(s.atoms)}
	}

	levels := make(map[int]struct{}, len(s.levels))
	for lvl := range s.levels {
		levels[lvl+k] = struct{}{}
	}

	return Set{atoms: cloneAtoms(s.atoms), levels: levels}
}

// Instantiate is called when a bound index at exactly `lvl` is replaced by
// a term (as `TT.instantiate` substitutes `es` for `Bound lvl, lvl+1, ...`):
// the loose index `lvl+i` is dropped and replaced by the assumptions of
// `hs[i]`; every other loose index above lvl is shifted down by len(hs) to
// account for the binders that were just discharged.
func (s Set) Instantiate(hs []Set, lvl int) Set {
	out := Set{atoms: cloneAtoms(s.atoms), levels: make(map[int]struct{})}

	for k := range s.levels {
		switch {
		case k < lvl:
			out.levels[k] = struct{}{}
		case k >= lvl && k < lvl+len(hs):
			out = Union(out, hs[k-lvl])
		default:
			out.levels[k-len(hs)] = struct{}{}
		}
	}

	return out
}

// Abstract is called when the free atoms `xs` are captured by a new binder
// at level `lvl`: each atom in `xs` is removed from the free-atom part and
// becomes a loose bound index `lvl + i`; every existing loose index at or
// above `lvl` is shifted up by len(xs).
func (s Set) Abstract(xs []atom.Atom, lvl int) Set {
	index := make(map[atom.Atom]int, len(xs))
	for i, x := range xs {
		index[x] = i
	}

	out := Set{atoms: make(map[atom.Atom]struct{}), levels: make(map[int]struct{})}

	for a := range s.atoms {
		if i, ok := index[a]; ok {
			out.levels[lvl+i] = struct{}{}
		} else {
			out.atoms[a] = struct{}{}
		}
	}

	for k := range s.levels {
		if k >= lvl {
			out.levels[k+len(xs)] = struct{}{}
		} else {
			out.levels[k] = struct{}{}
		}
	}

	return out
}
