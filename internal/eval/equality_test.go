package eval

import (
	"testing"

	"github.com/orizon-lang/orizon-witness/internal/atom"
	"github.com/orizon-lang/orizon-witness/internal/jdg"
	"github.com/orizon-lang/orizon-witness/internal/position"
	"github.com/orizon-lang/orizon-witness/internal/tt"
	"github.com/orizon-lang/orizon-witness/internal/values"
)

var noLoc = position.Span{}

func TestEqualTermAlphaFastPath(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	e := tt.MkAtom(noLoc, a)
	ty := tt.MkTypeConstant(noLoc)

	var got *values.Value

	outcome, err := EqualTerm(e, e, ty, func(v *values.Value) (*Outcome, error) {
		got = v
		return doneOutcome(v)
	})
	if err != nil {
		t.Fatalf("EqualTerm: %v", err)
	}

	if outcome.Op != nil {
		t.Fatalf("alpha-equal terms must not raise equal_term")
	}

	if _, ok := values.IsSome(got); !ok {
		t.Fatalf("expected Some(eq), got %v", got)
	}
}

// TestEqualTermRaisesOperationOnMismatch confirms that two non-alpha-equal
// terms suspend on equal_term rather than deciding anything themselves.
func TestEqualTermRaisesOperationOnMismatch(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	b := tbl.Fresh("b")
	ty := tt.MkTypeConstant(noLoc)

	outcome, err := EqualTerm(tt.MkAtom(noLoc, a), tt.MkAtom(noLoc, b), ty, doneOutcome)
	if err != nil {
		t.Fatalf("EqualTerm: %v", err)
	}

	if outcome.Op == nil || outcome.Op.Name != "equal_term" {
		t.Fatalf("expected a suspended equal_term operation, got %+v", outcome)
	}
}

// TestEqualTermValidatesHandlerProof exercises the soundness barrier: a
// handler that answers with a proof of the wrong equation must be rejected
// rather than trusted.
func TestEqualTermValidatesHandlerProof(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	b := tbl.Fresh("b")
	c := tbl.Fresh("c")
	ty := tt.MkTypeConstant(noLoc)

	outcome, err := EqualTerm(tt.MkAtom(noLoc, a), tt.MkAtom(noLoc, b), ty, doneOutcome)
	if err != nil || outcome.Op == nil {
		t.Fatalf("setup: expected a suspended equal_term operation")
	}

	wrongProof := values.MkTag("Some", values.MkJudgement(
		jdg.MkEqTerm(tt.MkAtom(noLoc, a).Assumptions, tt.MkAtom(noLoc, a), tt.MkAtom(noLoc, c), ty)))

	if _, err := outcome.Op.K(wrongProof); err == nil {
		t.Fatalf("a proof of a different equation must be rejected")
	}

	rightProof := values.MkTag("Some", values.MkJudgement(
		jdg.MkEqTerm(tt.MkAtom(noLoc, a).Assumptions, tt.MkAtom(noLoc, a), tt.MkAtom(noLoc, b), ty)))

	result, err := outcome.Op.K(rightProof)
	if err != nil {
		t.Fatalf("a correctly-shaped proof must be accepted: %v", err)
	}

	if _, ok := values.IsSome(result.Done); !ok {
		t.Fatalf("expected Some(eq) once the handler's proof validates, got %v", result.Done)
	}
}

func TestCoerceTermFastPathOnEqualTypes(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	e := tt.MkAtom(noLoc, a)
	ty := tt.MkTypeConstant(noLoc)

	outcome, err := CoerceTerm(e, ty, ty, doneOutcome)
	if err != nil {
		t.Fatalf("CoerceTerm: %v", err)
	}

	if outcome.Op != nil {
		t.Fatalf("coercing between identical types must not raise coerce")
	}

	term, resultTy, ok := jdg.InvertIsTerm(outcome.Done.Judgement)
	if !ok || !tt.AlphaEqual(term, e) || !tt.AlphaEqualType(resultTy, ty) {
		t.Fatalf("expected e itself retyped at ty, got %v", outcome.Done)
	}
}

func TestCoerceTermConvertibleFoldsEquality(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	b := tbl.Fresh("b")
	e := tt.MkAtom(noLoc, a)
	tFrom := tt.MkAtomType(noLoc, b)
	tTo := tt.MkTypeConstant(noLoc)

	outcome, err := CoerceTerm(e, tFrom, tTo, doneOutcome)
	if err != nil || outcome.Op == nil {
		t.Fatalf("setup: expected a suspended coerce operation")
	}

	eqJ := jdg.MkEqType(e.Assumptions, tFrom, tTo)
	convertible := values.MkTag("Convertible", values.MkJudgement(eqJ))

	result, err := outcome.Op.K(convertible)
	if err != nil {
		t.Fatalf("Convertible branch must accept a matching equality proof: %v", err)
	}

	term, resultTy, ok := jdg.InvertIsTerm(result.Done.Judgement)
	if !ok || !tt.AlphaEqual(term, e) || !tt.AlphaEqualType(resultTy, tTo) {
		t.Fatalf("expected e reinterpreted at tTo, got %v", result.Done)
	}
}
