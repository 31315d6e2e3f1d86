// Package jdg wraps internal/tt terms in typed judgements and is the sole
// authority on what counts as a valid derivation: every constructor here
// consumes premise judgements and combines their assumption sets into the
// conclusion's, following the inference rules spec.md §4.2 names. No other
// package may construct a Judgement — the type's fields are unexported and
// every exported function either builds one from checked premises or
// inspects one that already exists.
package jdg

import (
	"github.com/orizon-lang/orizon-witness/internal/assumption"
	"github.com/orizon-lang/orizon-witness/internal/tt"
	"github.com/orizon-lang/orizon-witness/internal/witnesserr"
)

// Form discriminates the four judgement variants of spec.md §3.
type Form int

const (
	FormIsType Form = iota
	FormIsTerm
	FormEqType
	FormEqTerm
)

// Judgement is a sealed, opaque derivable proposition. Its zero value is
// not a valid judgement; every instance must come from a constructor below.
type Judgement struct {
	form Form
	asmp assumption.Set

	// IsType: ty. IsTerm: term, ty. EqType: ty, ty2. EqTerm: term, ty2 (rhs), ty.
	term *tt.Term
	ty   *tt.Type
	ty2  *tt.Type
}

// Form reports which of the four judgement variants j is.
func (j *Judgement) Form() Form { return j.form }

// String names a Form for diagnostics.
func (f Form) String() string {
	switch f {
	case FormIsType:
		return "IsType"
	case FormIsTerm:
		return "IsTerm"
	case FormEqType:
		return "EqType"
	case FormEqTerm:
		return "EqTerm"
	default:
		return "Unknown"
	}
}

// Assumptions returns the hypotheses j depends on.
func (j *Judgement) Assumptions() assumption.Set { return j.asmp }

// MkIsType wraps a well-formed Type as an `IsType T` judgement. It is the
// kernel's acknowledgement that T's own formation has already been
// checked by one of the Form* constructors below.
func MkIsType(asmp assumption.Set, ty *tt.Type) *Judgement {
	return &Judgement{form: FormIsType, asmp: asmp, ty: ty}
}

// MkIsTerm wraps a term at a type as an `e : T` judgement.
func MkIsTerm(asmp assumption.Set, e *tt.Term, ty *tt.Type) *Judgement {
	return &Judgement{form: FormIsTerm, asmp: asmp, term: e, ty: ty}
}

// MkEqType wraps a type-equality judgement `T1 ≡ T2`.
func MkEqType(asmp assumption.Set, t1, t2 *tt.Type) *Judgement {
	return &Judgement{form: FormEqType, asmp: asmp, ty: t1, ty2: t2}
}

// MkEqTerm wraps a term-equality judgement `e1 ≡ e2 : T`.
func MkEqTerm(asmp assumption.Set, e1, e2 *tt.Term, ty *tt.Type) *Judgement {
	return &Judgement{form: FormEqTerm, asmp: asmp, term: e1, ty2: &tt.Type{Term: e2}, ty: ty}
}

// InvertIsType extracts the type payload of an IsType judgement.
func InvertIsType(j *Judgement) (*tt.Type, bool) {
	if j.form != FormIsType {
		return nil, false
	}

	return j.ty, true
}

// InvertIsTerm extracts the (term, type) payload of an IsTerm judgement.
func InvertIsTerm(j *Judgement) (*tt.Term, *tt.Type, bool) {
	if j.form != FormIsTerm {
		return nil, nil, false
	}

	return j.term, j.ty, true
}

// InvertEqType extracts the (assumptions, lhs, rhs) payload of an EqType
// judgement, for inspection by the equality engine.
func InvertEqType(j *Judgement) (assumption.Set, *tt.Type, *tt.Type, bool) {
	if j.form != FormEqType {
		return assumption.Set{}, nil, nil, false
	}

	return j.asmp, j.ty, j.ty2, true
}

// InvertEqTerm extracts the (assumptions, lhs, rhs, type) payload of an
// EqTerm judgement, for inspection by the equality engine.
func InvertEqTerm(j *Judgement) (assumption.Set, *tt.Term, *tt.Term, *tt.Type, bool) {
	if j.form != FormEqTerm {
		return assumption.Set{}, nil, nil, nil, false
	}

	return j.asmp, j.term, j.ty2.Term, j.ty, true
}

// MkAlphaEqualTerm returns a zero-assumption EqTerm witness when e1 and e2
// are alpha-equal at the same type, else ok is false — the fast path every
// equality question tries before dispatching an operation (spec.md §4.4).
func MkAlphaEqualTerm(e1, e2 *tt.Term, ty *tt.Type) (*Judgement, bool) {
	if !tt.AlphaEqual(e1, e2) {
		return nil, false
	}

	return MkEqTerm(assumption.Empty, e1, e2, ty), true
}

// MkAlphaEqualType is MkAlphaEqualTerm's counterpart for types.
func MkAlphaEqualType(t1, t2 *tt.Type) (*Judgement, bool) {
	if !tt.AlphaEqualType(t1, t2) {
		return nil, false
	}

	return MkEqType(assumption.Empty, t1, t2), true
}

// TypeOfTermAbstraction returns the type of a well-formed IsTerm
// judgement's term without re-checking it: the type is read off the term's
// own kernel-maintained type annotations, since every Mk* constructor in
// internal/tt that builds a typed node stores its type inline.
func TypeOfTermAbstraction(j *Judgement) (*tt.Type, error) {
	_, ty, ok := InvertIsTerm(j)
	if !ok {
		return nil, witnesserr.Impossiblef("TypeOfTermAbstraction: judgement is not IsTerm")
	}

	return ty, nil
}
