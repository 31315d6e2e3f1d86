// Package tt is the judgement-independent term algebra of the theory:
// locally-nameless terms and types, built exclusively through smart
// constructors that maintain each term's assumption set.
//
// No code outside this package may build a Term or Type by hand — the
// fields are exported for the jdg package's inspectors, but a Term
// obtained any other way than through Mk* below or the instantiate/
// abstract/substitute family violates the assumption-set invariant
// spec.md §3 requires and will produce unsound judgements downstream.
package tt

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon-witness/internal/assumption"
	"github.com/orizon-lang/orizon-witness/internal/atom"
	"github.com/orizon-lang/orizon-witness/internal/position"
)

// Atom is a re-export of atom.Atom for callers that only need the tt API.
type Atom = atom.Atom

// Kind discriminates the term/type node variants of spec.md §3.
type Kind int

const (
	KindType Kind = iota
	KindAtom
	KindBound
	KindConstant
	KindLambda
	KindApply
	KindProd
	KindEq
	KindRefl
	KindSignature
	KindStructure
	KindProjection
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "Type"
	case KindAtom:
		return "Atom"
	case KindBound:
		return "Bound"
	case KindConstant:
		return "Constant"
	case KindLambda:
		return "Lambda"
	case KindApply:
		return "Apply"
	case KindProd:
		return "Prod"
	case KindEq:
		return "Eq"
	case KindRefl:
		return "Refl"
	case KindSignature:
		return "Signature"
	case KindStructure:
		return "Structure"
	case KindProjection:
		return "Projection"
	default:
		return "Unknown"
	}
}

// Field is one entry of a Signature/Structure telescope: its Type is a
// term under one binder per field preceding it (De Bruijn level 0 refers
// to the outermost preceding field), following the same binder discipline
// as Prod/Lambda.
type Field struct {
	Label string
	Hint  string
	Type  *Type
}

// Binder is the (hint, type) pair every abstraction of the theory carries.
type Binder struct {
	Hint string
	Type *Type
}

// Term is a node of the theory's syntax. Every constructed Term satisfies:
// Assumptions equals the union of its immediate subterms' assumption sets,
// with any subterm under a binder shifted by Bind(1) first. Exactly one
// group of Kind-specific fields below is populated per Kind.
type Term struct {
	Assumptions assumption.Set
	Loc         position.Span
	Kind        Kind

	AtomVal      atom.Atom
	BoundIndex   int
	ConstantName string

	LambdaParam *Binder
	LambdaBody  *Term
	LambdaCod   *Type // codomain type, under the lambda's binder

	ApplyFun    *Term
	ApplyParam  *Binder // the Pi type's binder, carried per spec.md §3
	ApplyCod    *Type   // the Pi type's codomain, under the binder
	ApplyArg    *Term

	ProdParam *Binder
	ProdCod   *Type

	EqType *Type
	EqLHS  *Term
	EqRHS  *Term

	ReflType *Type
	ReflTerm *Term

	SignatureFields []Field

	StructureFields []Field
	StructureValues []*Term

	ProjectionTerm  *Term
	ProjectionSig   []Field
	ProjectionLabel string
}

// Type is a newtype over Term restricted to sort Type — every well-formed
// Type's Term either is literally KindType or has some other kind whose
// judgemental sort the kernel has already checked is Type. Wrapping
// prevents mixing terms and types by construction without duplicating the
// Term ADT, per spec.md §3.
type Type struct {
	Term *Term
}

// AsTerm views a Type as its underlying Term (types are terms of sort Type).
func (t *Type) AsTerm() *Term { return t.Term }

func mkType(k Kind, loc position.Span) *Term {
	return &Term{Kind: k, Loc: loc}
}

// MkTypeConstant builds the Type universe former `Type`. It has empty
// assumptions: it depends on no hypothesis.
func MkTypeConstant(loc position.Span) *Type {
	return &Type{Term: mkType(KindType, loc)}
}

// MkAtom builds a free-variable occurrence. Its assumption set is exactly
// the singleton {a}.
func MkAtom(loc position.Span, a atom.Atom) *Term {
	return &Term{Kind: KindAtom, Loc: loc, AtomVal: a, Assumptions: assumption.Singleton(a)}
}

// MkAtomType is MkAtom wrapped as a Type, for atoms known to classify Type.
func MkAtomType(loc position.Span, a atom.Atom) *Type {
	return &Type{Term: MkAtom(loc, a)}
}

// MkBound builds a bound-variable occurrence at the given de Bruijn index
// (0 = innermost). Its assumption set is the loose index {k}.
func MkBound(loc position.Span, k int) *Term {
	return &Term{Kind: KindBound, Loc: loc, BoundIndex: k, Assumptions: assumption.BoundLevel(k)}
}

// MkConstant builds a use of a globally declared constant. Constants carry
// no assumption of their own: their well-formedness is validated once,
// against the signature, at declaration time.
func MkConstant(loc position.Span, name string) *Term {
	return &Term{Kind: KindConstant, Loc: loc, ConstantName: name}
}

// MkLambda builds `λ(x:A). e : B` from a binder (x, A), a body e (under
// the binder) and its codomain type B (also under the binder).
func MkLambda(loc position.Span, param *Binder, body *Term, cod *Type) *Term {
	asmp := assumption.Union(
		param.Type.Term.Assumptions,
		body.Assumptions.Bind(1),
		cod.Term.Assumptions.Bind(1),
	)

	return &Term{
		Kind: KindLambda, Loc: loc,
		LambdaParam: param, LambdaBody: body, LambdaCod: cod,
		Assumptions: asmp,
	}
}

// MkApply builds `e1 e2` where e1 has Pi type `Π(x:A).B`; the caller
// supplies that Pi type's binder and codomain (unsubstituted, under the
// binder) so the result can record e1's exact function type.
func MkApply(loc position.Span, fn *Term, param *Binder, cod *Type, arg *Term) *Term {
	asmp := assumption.Union(
		fn.Assumptions,
		param.Type.Term.Assumptions,
		cod.Term.Assumptions.Bind(1),
		arg.Assumptions,
	)

	return &Term{
		Kind: KindApply, Loc: loc,
		ApplyFun: fn, ApplyParam: param, ApplyCod: cod, ApplyArg: arg,
		Assumptions: asmp,
	}
}

// MkProd builds `Π(x:A). B`.
func MkProd(loc position.Span, param *Binder, cod *Type) *Type {
	asmp := assumption.Union(param.Type.Term.Assumptions, cod.Term.Assumptions.Bind(1))

	return &Type{Term: &Term{
		Kind: KindProd, Loc: loc,
		ProdParam: param, ProdCod: cod,
		Assumptions: asmp,
	}}
}

// MkEq builds the equality type `Eq(T, e1, e2)`.
func MkEq(loc position.Span, ty *Type, lhs, rhs *Term) *Type {
	asmp := assumption.Union(ty.Term.Assumptions, lhs.Assumptions, rhs.Assumptions)

	return &Type{Term: &Term{
		Kind: KindEq, Loc: loc,
		EqType: ty, EqLHS: lhs, EqRHS: rhs,
		Assumptions: asmp,
	}}
}

// MkRefl builds `refl_T(e) : Eq(T, e, e)`.
func MkRefl(loc position.Span, ty *Type, e *Term) *Term {
	asmp := assumption.Union(ty.Term.Assumptions, e.Assumptions)

	return &Term{
		Kind: KindRefl, Loc: loc,
		ReflType: ty, ReflTerm: e,
		Assumptions: asmp,
	}
}

// MkSignature builds a signature (record-type telescope) term.
func MkSignature(loc position.Span, fields []Field) *Term {
	asmp := assumption.Empty
	for i, f := range fields {
		asmp = assumption.Union(asmp, f.Type.Term.Assumptions.Bind(i))
	}

	return &Term{Kind: KindSignature, Loc: loc, SignatureFields: fields, Assumptions: asmp}
}

// MkStructure builds a structure (record value) term against a signature.
func MkStructure(loc position.Span, fields []Field, values []*Term) *Term {
	asmp := assumption.Empty
	for i, f := range fields {
		asmp = assumption.Union(asmp, f.Type.Term.Assumptions.Bind(i))
	}

	for _, v := range values {
		asmp = assumption.Union(asmp, v.Assumptions)
	}

	return &Term{
		Kind: KindStructure, Loc: loc,
		StructureFields: fields, StructureValues: values,
		Assumptions: asmp,
	}
}

// MkProjection builds `e.l` for e at the given signature.
func MkProjection(loc position.Span, e *Term, sig []Field, label string) *Term {
	asmp := e.Assumptions
	for i, f := range sig {
		asmp = assumption.Union(asmp, f.Type.Term.Assumptions.Bind(i))
	}

	return &Term{
		Kind: KindProjection, Loc: loc,
		ProjectionTerm: e, ProjectionSig: sig, ProjectionLabel: label,
		Assumptions: asmp,
	}
}

// String renders a term for diagnostics only; it is never re-parsed.
func (t *Term) String() string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case KindType:
		return "Type"
	case KindAtom:
		return t.AtomVal.String()
	case KindBound:
		return fmt.Sprintf("#%d", t.BoundIndex)
	case KindConstant:
		return t.ConstantName
	case KindLambda:
		return fmt.Sprintf("λ(%s:%s). %s", t.LambdaParam.Hint, t.LambdaParam.Type, t.LambdaBody)
	case KindApply:
		return fmt.Sprintf("(%s %s)", t.ApplyFun, t.ApplyArg)
	case KindProd:
		return fmt.Sprintf("Π(%s:%s). %s", t.ProdParam.Hint, t.ProdParam.Type, t.ProdCod)
	case KindEq:
		return fmt.Sprintf("Eq(%s, %s, %s)", t.EqType, t.EqLHS, t.EqRHS)
	case KindRefl:
		return fmt.Sprintf("refl(%s)", t.ReflTerm)
	case KindSignature:
		labels := make([]string, len(t.SignatureFields))
		for i, f := range t.SignatureFields {
			labels[i] = f.Label
		}

		return fmt.Sprintf("{%s}", strings.Join(labels, "; "))
	case KindStructure:
		return "{...}"
	case KindProjection:
		return fmt.Sprintf("%s.%s", t.ProjectionTerm, t.ProjectionLabel)
	default:
		return "<?>"
	}
}

func (ty *Type) String() string {
	if ty == nil {
		return "<nil>"
	}

	return ty.Term.String()
}
