package jdg

import (
	"testing"

	"github.com/orizon-lang/orizon-witness/internal/assumption"
	"github.com/orizon-lang/orizon-witness/internal/atom"
	"github.com/orizon-lang/orizon-witness/internal/position"
	"github.com/orizon-lang/orizon-witness/internal/tt"
)

var noLoc = position.Span{}

// identityFunction builds `λ(x:Type). x : Π(x:Type). Type`, the smallest
// nontrivial Pi introduction, and returns both the lambda judgement and the
// fresh atom used to open its body.
func identityFunction(tbl *atom.Table) (*Judgement, tt.Atom) {
	a := tbl.Fresh("x")
	dom := FormType(noLoc)
	bodyJ := MkIsTerm(dom.Assumptions(), tt.MkAtom(noLoc, a), tt.MkTypeConstant(noLoc))

	lam, err := IntroLambda(noLoc, "x", a, dom, bodyJ)
	if err != nil {
		panic(err)
	}

	return lam, a
}

func TestFormProdBindsCodomain(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("x")

	dom := FormType(noLoc)
	codUnderA := FormType(noLoc)

	prod, err := FormProd(noLoc, "x", a, dom, codUnderA)
	if err != nil {
		t.Fatalf("FormProd: %v", err)
	}

	ty, ok := InvertIsType(prod)
	if !ok {
		t.Fatalf("FormProd did not produce an IsType judgement")
	}

	if ty.Term.Kind != tt.KindProd {
		t.Fatalf("expected a Prod type, got %v", ty.Term.Kind)
	}

	if ty.Term.ProdCod.Term.Assumptions.HasAtom(a) {
		t.Fatalf("codomain must not mention the bound atom %v after abstraction", a)
	}
}

// TestFormProdDischargesCodomainAtom exercises a codomain that actually
// mentions the fresh atom opening the binder (unlike TestFormProdBindsCodomain,
// whose codomain is atom-independent and so cannot detect a leak). It
// verifies the conclusion's own assumption set discharges a the same way the
// term it wraps already does.
func TestFormProdDischargesCodomainAtom(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("x")
	outer := tbl.Fresh("outer")

	dom := FormType(noLoc)

	codTy := tt.MkAtomType(noLoc, a)
	outerTy := tt.MkAtomType(noLoc, outer)
	codUnderA := MkIsType(assumption.Union(codTy.Term.Assumptions, outerTy.Term.Assumptions), codTy)

	prod, err := FormProd(noLoc, "x", a, dom, codUnderA)
	if err != nil {
		t.Fatalf("FormProd: %v", err)
	}

	if prod.Assumptions().HasAtom(a) {
		t.Fatalf("FormProd's conclusion must discharge the bound atom %v, got assumptions %v", a, prod.Assumptions().Atoms())
	}

	if !prod.Assumptions().HasAtom(outer) {
		t.Fatalf("FormProd's conclusion must still report the codomain's genuinely free atom %v", outer)
	}
}

// TestIntroLambdaDischargesBodyAtom is IntroLambda's analogue of
// TestFormProdDischargesCodomainAtom: a body that mentions the atom opening
// its own binder must not leak that atom into the resulting judgement's
// assumptions.
func TestIntroLambdaDischargesBodyAtom(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("x")
	outer := tbl.Fresh("outer")

	dom := FormType(noLoc)

	bodyTerm := tt.MkAtom(noLoc, a)
	outerTerm := tt.MkAtom(noLoc, outer)
	bodyUnderA := MkIsTerm(assumption.Union(bodyTerm.Assumptions, outerTerm.Assumptions), bodyTerm, tt.MkTypeConstant(noLoc))

	lam, err := IntroLambda(noLoc, "x", a, dom, bodyUnderA)
	if err != nil {
		t.Fatalf("IntroLambda: %v", err)
	}

	if lam.Assumptions().HasAtom(a) {
		t.Fatalf("IntroLambda's conclusion must discharge the bound atom %v, got assumptions %v", a, lam.Assumptions().Atoms())
	}

	if !lam.Assumptions().HasAtom(outer) {
		t.Fatalf("IntroLambda's conclusion must still report the body's genuinely free atom %v", outer)
	}
}

func TestIntroLambdaElimApplyBeta(t *testing.T) {
	tbl := atom.NewTable()
	lam, _ := identityFunction(tbl)

	fnTerm, fnTy, ok := InvertIsTerm(lam)
	if !ok {
		t.Fatalf("IntroLambda did not produce an IsTerm judgement")
	}

	if fnTy.Term.Kind != tt.KindProd {
		t.Fatalf("identity function's type must be a Pi type, got %v", fnTy.Term.Kind)
	}

	argAtom := tbl.Fresh("v")
	argTerm := tt.MkAtom(noLoc, argAtom)
	argJ := MkIsTerm(argTerm.Assumptions, argTerm, tt.MkTypeConstant(noLoc))

	applied, err := ElimApply(noLoc, lam, argJ)
	if err != nil {
		t.Fatalf("ElimApply: %v", err)
	}

	appliedTerm, appliedTy, ok := InvertIsTerm(applied)
	if !ok {
		t.Fatalf("ElimApply did not produce an IsTerm judgement")
	}

	if !tt.AlphaEqualType(appliedTy, tt.MkTypeConstant(noLoc)) {
		t.Fatalf("applying the identity function must land at its codomain, got %s", appliedTy)
	}

	// beta: instantiating the lambda's body with the argument must be
	// alpha-equal to what the application itself reduces to (the identity
	// function returns its argument unchanged).
	reduced := tt.Instantiate([]*tt.Term{argTerm}, 0, fnTerm.LambdaBody)
	if !tt.AlphaEqual(reduced, argTerm) {
		t.Fatalf("beta-reducing (λx.x) applied to v must yield v, got %s", reduced)
	}

	if appliedTerm.Kind != tt.KindApply {
		t.Fatalf("ElimApply must record the unreduced application term, got %v", appliedTerm.Kind)
	}
}

func TestIntroReflWitnessesSelfEquality(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	term := tt.MkAtom(noLoc, a)
	e := MkIsTerm(term.Assumptions, term, tt.MkTypeConstant(noLoc))

	refl, err := IntroRefl(noLoc, e)
	if err != nil {
		t.Fatalf("IntroRefl: %v", err)
	}

	reflTerm, eqTy, ok := InvertIsTerm(refl)
	if !ok {
		t.Fatalf("IntroRefl did not produce an IsTerm judgement")
	}

	if eqTy.Term.Kind != tt.KindEq {
		t.Fatalf("refl's type must be an Eq type, got %v", eqTy.Term.Kind)
	}

	if !tt.AlphaEqual(eqTy.Term.EqLHS, term) || !tt.AlphaEqual(eqTy.Term.EqRHS, term) {
		t.Fatalf("refl_T(e)'s type must be Eq(T, e, e)")
	}

	if reflTerm.Kind != tt.KindRefl {
		t.Fatalf("expected a Refl term, got %v", reflTerm.Kind)
	}
}

func TestFormEqRejectsMismatchedSides(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	b := tbl.Fresh("b")

	tyJ := FormType(noLoc)
	ty := tt.MkTypeConstant(noLoc)

	e1 := MkIsTerm(tt.MkAtom(noLoc, a).Assumptions, tt.MkAtom(noLoc, a), tt.MkAtomType(noLoc, b))
	e2 := MkIsTerm(tt.MkAtom(noLoc, b).Assumptions, tt.MkAtom(noLoc, b), ty)

	if _, err := FormEq(noLoc, tyJ, e1, e2); err == nil {
		t.Fatalf("FormEq must reject a left side whose type does not match the given type")
	}
}

func TestConvertTermRequiresMatchingSourceType(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	term := tt.MkAtom(noLoc, a)

	e := MkIsTerm(term.Assumptions, term, tt.MkTypeConstant(noLoc))
	badEq := MkEqType(term.Assumptions, tt.MkAtomType(noLoc, tbl.Fresh("b")), tt.MkTypeConstant(noLoc))

	if _, err := ConvertTerm(e, badEq); err == nil {
		t.Fatalf("ConvertTerm must reject an equality whose left side does not match e's type")
	}
}
