package eval

import (
	"testing"

	"github.com/orizon-lang/orizon-witness/internal/jdg"
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/signature"
	"github.com/orizon-lang/orizon-witness/internal/tt"
	"github.com/orizon-lang/orizon-witness/internal/values"
)

// TestAbstractCapturesNamedAtom confirms Abstract(xs, body) turns a named
// free atom into a bound index, per spec.md §4.3.
func TestAbstractCapturesNamedAtom(t *testing.T) {
	sess := newTestSession()

	atomX := sess.Atoms.Fresh("x")
	xTerm := tt.MkAtom(noLoc, atomX)
	xJudgement := values.MkJudgement(jdg.MkIsTerm(xTerm.Assumptions, xTerm, tt.MkTypeConstant(noLoc)))

	env := values.NewEnv(signature.New()).Push(xJudgement)

	body := mlsyntax.Comp{
		Kind:          mlsyntax.CompAbstract,
		AbstractAtoms: []string{"x"},
		AbstractBody: mlsyntax.Comp{
			Kind:       mlsyntax.CompReturn,
			ReturnExpr: mlsyntax.Expr{Kind: mlsyntax.ExprVar, VarLevel: 0, VarHint: "x"},
		},
	}

	outcome, err := EvalComp(sess, env, body, doneOutcome, nil)
	if err != nil {
		t.Fatalf("EvalComp: %v", err)
	}

	e, _, ok := jdg.InvertIsTerm(outcome.Done.Judgement)
	if !ok {
		t.Fatalf("expected an IsTerm judgement, got form %v", outcome.Done.Judgement.Form())
	}

	if e.Kind != tt.KindBound || e.BoundIndex != 0 {
		t.Fatalf("expected the atom to become Bound 0, got %v", e)
	}
}

// TestAbstractRejectsUnknownAtom confirms naming an atom that is not free
// in the body fails rather than silently abstracting nothing.
func TestAbstractRejectsUnknownAtom(t *testing.T) {
	sess := newTestSession()

	atomX := sess.Atoms.Fresh("x")
	xTerm := tt.MkAtom(noLoc, atomX)
	xJudgement := values.MkJudgement(jdg.MkIsTerm(xTerm.Assumptions, xTerm, tt.MkTypeConstant(noLoc)))

	env := values.NewEnv(signature.New()).Push(xJudgement)

	body := mlsyntax.Comp{
		Kind:          mlsyntax.CompAbstract,
		AbstractAtoms: []string{"y"},
		AbstractBody: mlsyntax.Comp{
			Kind:       mlsyntax.CompReturn,
			ReturnExpr: mlsyntax.Expr{Kind: mlsyntax.ExprVar, VarLevel: 0, VarHint: "x"},
		},
	}

	if _, err := EvalComp(sess, env, body, doneOutcome, nil); err == nil {
		t.Fatalf("expected abstracting an atom absent from the body to fail")
	}
}

// TestSubstituteOpensAbstraction confirms Substitute(c, cs) is Abstract's
// inverse: opening the binder Abstract just closed with a fresh atom
// reproduces that atom's own occurrence.
func TestSubstituteOpensAbstraction(t *testing.T) {
	sess := newTestSession()

	atomX := sess.Atoms.Fresh("x")
	xTerm := tt.MkAtom(noLoc, atomX)
	xJudgement := values.MkJudgement(jdg.MkIsTerm(xTerm.Assumptions, xTerm, tt.MkTypeConstant(noLoc)))

	atomY := sess.Atoms.Fresh("y")
	yTerm := tt.MkAtom(noLoc, atomY)
	yJudgement := values.MkJudgement(jdg.MkIsTerm(yTerm.Assumptions, yTerm, tt.MkTypeConstant(noLoc)))

	env := values.NewEnv(signature.New()).Push(xJudgement) // level 0: x
	env = env.Push(yJudgement)                              // level 1: y

	abstracted := mlsyntax.Comp{
		Kind:          mlsyntax.CompAbstract,
		AbstractAtoms: []string{"x"},
		AbstractBody: mlsyntax.Comp{
			Kind:       mlsyntax.CompReturn,
			ReturnExpr: mlsyntax.Expr{Kind: mlsyntax.ExprVar, VarLevel: 0, VarHint: "x"},
		},
	}

	body := mlsyntax.Comp{
		Kind:          mlsyntax.CompSubstitute,
		SubstituteBody: abstracted,
		SubstituteArgs: []mlsyntax.Comp{
			{Kind: mlsyntax.CompReturn, ReturnExpr: mlsyntax.Expr{Kind: mlsyntax.ExprVar, VarLevel: 1, VarHint: "y"}},
		},
	}

	outcome, err := EvalComp(sess, env, body, doneOutcome, nil)
	if err != nil {
		t.Fatalf("EvalComp: %v", err)
	}

	e, _, ok := jdg.InvertIsTerm(outcome.Done.Judgement)
	if !ok {
		t.Fatalf("expected an IsTerm judgement, got form %v", outcome.Done.Judgement.Form())
	}

	if !tt.AlphaEqual(e, yTerm) {
		t.Fatalf("expected substituting y for x to yield y's own occurrence, got %v", e)
	}
}
