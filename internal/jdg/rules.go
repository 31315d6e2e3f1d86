package jdg

import (
	"github.com/orizon-lang/orizon-witness/internal/assumption"
	"github.com/orizon-lang/orizon-witness/internal/position"
	"github.com/orizon-lang/orizon-witness/internal/tt"
	"github.com/orizon-lang/orizon-witness/internal/witnesserr"
)

// FormType returns the `IsType Type` judgement — the universe former needs
// no premises.
func FormType(loc position.Span) *Judgement {
	return MkIsType(assumption.Empty, tt.MkTypeConstant(loc))
}

// FormProd is the Π-formation rule: given `IsType A` and, under a fresh
// atom standing for A's variable, `IsType B(a)`, concludes `IsType Π(x:A).B`.
func FormProd(loc position.Span, hint string, a tt.Atom, domain *Judgement, codomainUnderA *Judgement) (*Judgement, error) {
	domTy, ok := InvertIsType(domain)
	if !ok {
		return nil, witnesserr.Impossiblef("FormProd: domain premise is not IsType")
	}

	codTyOpen, ok := InvertIsType(codomainUnderA)
	if !ok {
		return nil, witnesserr.Impossiblef("FormProd: codomain premise is not IsType")
	}

	cod := tt.AbstractType([]tt.Atom{a}, 0, codTyOpen)
	asmp := assumption.Union(domain.Assumptions(), codomainUnderA.Assumptions().Abstract([]tt.Atom{a}, 0))

	return MkIsType(asmp, tt.MkProd(loc, &tt.Binder{Hint: hint, Type: domTy}, cod)), nil
}

// IntroLambda is the Π-introduction rule: given `IsType A` and, under a
// fresh atom for A's variable, `body : B(a)`, concludes
// `λ(x:A). body : Π(x:A). B`.
func IntroLambda(loc position.Span, hint string, a tt.Atom, domain *Judgement, bodyUnderA *Judgement) (*Judgement, error) {
	domTy, ok := InvertIsType(domain)
	if !ok {
		return nil, witnesserr.Impossiblef("IntroLambda: domain premise is not IsType")
	}

	bodyOpen, codOpen, ok := InvertIsTerm(bodyUnderA)
	if !ok {
		return nil, witnesserr.Impossiblef("IntroLambda: body premise is not IsTerm")
	}

	body := tt.Abstract([]tt.Atom{a}, 0, bodyOpen)
	cod := tt.AbstractType([]tt.Atom{a}, 0, codOpen)
	binder := &tt.Binder{Hint: hint, Type: domTy}
	asmp := assumption.Union(domain.Assumptions(), bodyUnderA.Assumptions().Abstract([]tt.Atom{a}, 0))

	lam := tt.MkLambda(loc, binder, body, cod)
	prodTy := tt.MkProd(loc, binder, cod)

	return MkIsTerm(asmp, lam, prodTy), nil
}

// ElimApply is the Π-elimination rule: given `fn : Π(x:A). B` and `arg : A`,
// concludes `fn arg : B[x := arg]`.
func ElimApply(loc position.Span, fn *Judgement, arg *Judgement) (*Judgement, error) {
	fnTerm, fnTy, ok := InvertIsTerm(fn)
	if !ok || fnTy.Term.Kind != tt.KindProd {
		return nil, witnesserr.New(witnesserr.Typing, "E_APPLY_NOT_PROD", "application head is not at a Π type").At(loc)
	}

	argTerm, argTy, ok := InvertIsTerm(arg)
	if !ok {
		return nil, witnesserr.Impossiblef("ElimApply: argument premise is not IsTerm")
	}

	if !tt.AlphaEqualType(fnTy.Term.ProdParam.Type, argTy) {
		return nil, witnesserr.New(witnesserr.Typing, "E_APPLY_ARG_TYPE",
			"argument type %s does not match domain %s", argTy, fnTy.Term.ProdParam.Type).At(loc)
	}

	resultTy := tt.InstantiateType([]*tt.Term{argTerm}, 0, fnTy.Term.ProdCod)
	applyTerm := tt.MkApply(loc, fnTerm, fnTy.Term.ProdParam, fnTy.Term.ProdCod, argTerm)
	asmp := assumption.Union(fn.Assumptions(), arg.Assumptions())

	return MkIsTerm(asmp, applyTerm, resultTy), nil
}

// FormEq is the Eq-formation rule: given `IsType T`, `e1 : T`, `e2 : T`,
// concludes `IsType Eq(T, e1, e2)`.
func FormEq(loc position.Span, tyJ *Judgement, e1 *Judgement, e2 *Judgement) (*Judgement, error) {
	ty, ok := InvertIsType(tyJ)
	if !ok {
		return nil, witnesserr.Impossiblef("FormEq: type premise is not IsType")
	}

	e1Term, e1Ty, ok := InvertIsTerm(e1)
	if !ok || !tt.AlphaEqualType(e1Ty, ty) {
		return nil, witnesserr.New(witnesserr.Typing, "E_EQ_LHS_TYPE", "left side of Eq is not at the given type").At(loc)
	}

	e2Term, e2Ty, ok := InvertIsTerm(e2)
	if !ok || !tt.AlphaEqualType(e2Ty, ty) {
		return nil, witnesserr.New(witnesserr.Typing, "E_EQ_RHS_TYPE", "right side of Eq is not at the given type").At(loc)
	}

	asmp := assumption.Union(tyJ.Assumptions(), e1.Assumptions(), e2.Assumptions())

	return MkIsType(asmp, tt.MkEq(loc, ty, e1Term, e2Term)), nil
}

// IntroRefl is the Refl-introduction rule: given `e : T`, concludes
// `refl_T(e) : Eq(T, e, e)`.
func IntroRefl(loc position.Span, e *Judgement) (*Judgement, error) {
	eTerm, eTy, ok := InvertIsTerm(e)
	if !ok {
		return nil, witnesserr.Impossiblef("IntroRefl: premise is not IsTerm")
	}

	refl := tt.MkRefl(loc, eTy, eTerm)
	eqTy := tt.MkEq(loc, eTy, eTerm, eTerm)

	return MkIsTerm(e.Assumptions(), refl, eqTy), nil
}

// UseConstant is the constant-use rule: given a name already declared in
// the signature at type declaredTy (looked up by the caller — jdg has no
// dependency on the signature package, keeping the kernel below it in the
// dependency order of spec.md §2), concludes `c : declaredTy`.
func UseConstant(loc position.Span, name string, declaredTy *tt.Type) *Judgement {
	return MkIsTerm(assumption.Empty, tt.MkConstant(loc, name), declaredTy)
}

// FormSignature is the signature-formation rule: each field's IsType
// judgement is checked under fresh atoms standing for every preceding
// field's projection, then abstracted back into telescope form.
func FormSignature(loc position.Span, fields []tt.Field) *Judgement {
	asmp := assumption.Empty
	for i, f := range fields {
		asmp = assumption.Union(asmp, f.Type.Term.Assumptions.Bind(i))
	}

	return MkIsType(asmp, &tt.Type{Term: tt.MkSignature(loc, fields)})
}

// IntroStructure is the structure-introduction rule: given a signature and
// a value per field (each already checked at its — possibly earlier-field-
// dependent — field type), concludes the structure is a term of that
// signature.
func IntroStructure(loc position.Span, sig []tt.Field, values []*Judgement) (*Judgement, error) {
	terms := make([]*tt.Term, len(values))
	asmp := assumption.Empty

	for i, v := range values {
		term, ty, ok := InvertIsTerm(v)
		if !ok {
			return nil, witnesserr.Impossiblef("IntroStructure: field %d premise is not IsTerm", i)
		}

		expected := tt.InstantiateType(terms[:i], 0, sig[i].Type)
		if !tt.AlphaEqualType(ty, expected) {
			return nil, witnesserr.New(witnesserr.Typing, "E_STRUCT_FIELD_TYPE",
				"field %q has type %s, expected %s", sig[i].Label, ty, expected).At(loc)
		}

		terms[i] = term
		asmp = assumption.Union(asmp, v.Assumptions())
	}

	structTerm := tt.MkStructure(loc, sig, terms)

	return MkIsTerm(asmp, structTerm, &tt.Type{Term: tt.MkSignature(loc, sig)}), nil
}

// ElimProjection is the projection-elimination rule: given `e : {sig}`,
// concludes `e.l : sig[l]` with the preceding fields' projections
// substituted in for the earlier telescope variables.
func ElimProjection(loc position.Span, e *Judgement, label string) (*Judgement, error) {
	eTerm, eTy, ok := InvertIsTerm(e)
	if !ok || eTy.Term.Kind != tt.KindSignature {
		return nil, witnesserr.New(witnesserr.Typing, "E_PROJECT_NOT_SIG", "projection target is not a signature").At(loc)
	}

	sig := eTy.Term.SignatureFields

	idx := -1

	for i, f := range sig {
		if f.Label == label {
			idx = i
			break
		}
	}

	if idx < 0 {
		return nil, witnesserr.New(witnesserr.Typing, "E_PROJECT_UNKNOWN_LABEL", "signature has no field %q", label).At(loc)
	}

	priorProjections := make([]*tt.Term, idx)
	for i := 0; i < idx; i++ {
		priorProjections[i] = tt.MkProjection(loc, eTerm, sig, sig[i].Label)
	}

	resultTy := tt.InstantiateType(priorProjections, 0, sig[idx].Type)
	projTerm := tt.MkProjection(loc, eTerm, sig, label)

	return MkIsTerm(e.Assumptions(), projTerm, resultTy), nil
}

// ConvertTerm is the convert-form constructor SPEC_FULL.md §9 introduces to
// realize coerce's Convertible branch: given `e : T'` and `eq : T' ≡ T`,
// reinterprets e at type T, folding eq's assumptions into the result — this
// is the one place equality reflection changes a term's recorded type
// without changing the term itself.
func ConvertTerm(e *Judgement, eq *Judgement) (*Judgement, error) {
	eTerm, eTyFrom, ok := InvertIsTerm(e)
	if !ok {
		return nil, witnesserr.Impossiblef("ConvertTerm: term premise is not IsTerm")
	}

	eqAsmp, eqFrom, eqTo, ok := InvertEqType(eq)
	if !ok {
		return nil, witnesserr.Impossiblef("ConvertTerm: equality premise is not EqType")
	}

	if !tt.AlphaEqualType(eTyFrom, eqFrom) {
		return nil, witnesserr.Impossiblef("ConvertTerm: equality's left side does not match the term's type")
	}

	asmp := assumption.Union(e.Assumptions(), eqAsmp)

	return MkIsTerm(asmp, eTerm, eqTo), nil
}
