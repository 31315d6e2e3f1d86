package eval

import (
	"testing"

	"github.com/orizon-lang/orizon-witness/internal/diagnostic"
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/signature"
	"github.com/orizon-lang/orizon-witness/internal/values"
)

func newTestSession() *Session {
	return NewSession(signature.New(), diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{}))
}

// TestApplyInvokesClosure confirms a plain ExprFunction closure can actually
// be called: `(fun x -> x+1)(41)` must reduce to 42.
func TestApplyInvokesClosure(t *testing.T) {
	xVar := mlsyntax.Expr{Kind: mlsyntax.ExprVar, VarLevel: 0, VarHint: "x"}

	fn := mlsyntax.Expr{
		Kind:          mlsyntax.ExprFunction,
		FunctionParam: &mlsyntax.Pattern{Kind: mlsyntax.PattVar, VarHint: "x"},
		FunctionBody: mlsyntax.Comp{
			Kind: mlsyntax.CompReturn,
			ReturnExpr: mlsyntax.Expr{
				Kind:       mlsyntax.ExprPrimOp,
				PrimOpName: "add",
				PrimOpArgs: []mlsyntax.Expr{xVar, {Kind: mlsyntax.ExprLiteral, LiteralInt: intPtr(1)}},
			},
		},
	}

	body := mlsyntax.Comp{
		Kind:      mlsyntax.CompApply,
		ApplyFunc: fn,
		ApplyArg:  mlsyntax.Expr{Kind: mlsyntax.ExprLiteral, LiteralInt: intPtr(41)},
	}

	v, err := Run(newTestSession(), &values.Handler{OnOp: map[string]values.OpCase{}}, values.NewEnv(signature.New()), body)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if v.Kind != values.KindInt || v.IntVal != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
}

// TestApplyDrivesLetRecRecursion confirms LetRec's mutually-recursive
// closures are not just constructible but callable: a factorial-shaped
// self-call must actually recurse down to its base case.
//
//	letrec fact n = if n = 0 then 1 else n * fact (n-1) in fact 3
//
// desugared as a Match on the primop `eq` result, since mlsyntax has no
// surface conditional of its own (spec.md §1 puts surface desugaring out of
// scope; this builds the desugared shape directly, the way a real
// desugarer's output would look).
func TestApplyDrivesLetRecRecursion(t *testing.T) {
	n := mlsyntax.Expr{Kind: mlsyntax.ExprVar, VarLevel: 1, VarHint: "n"}
	factSelf := mlsyntax.Expr{Kind: mlsyntax.ExprVar, VarLevel: 0, VarHint: "fact"}

	recur := mlsyntax.Comp{
		Kind:      mlsyntax.CompApply,
		ApplyFunc: factSelf,
		ApplyArg: mlsyntax.Expr{
			Kind:       mlsyntax.ExprPrimOp,
			PrimOpName: "sub",
			PrimOpArgs: []mlsyntax.Expr{n, {Kind: mlsyntax.ExprLiteral, LiteralInt: intPtr(1)}},
		},
	}

	factBody := mlsyntax.Comp{
		Kind: mlsyntax.CompMatch,
		MatchScrutinee: mlsyntax.Expr{
			Kind:       mlsyntax.ExprPrimOp,
			PrimOpName: "eq",
			PrimOpArgs: []mlsyntax.Expr{n, {Kind: mlsyntax.ExprLiteral, LiteralInt: intPtr(0)}},
		},
		MatchCases: []mlsyntax.MatchCase{
			{
				Pattern: &mlsyntax.Pattern{Kind: mlsyntax.PattTag, TagName: "True"},
				Body:    mlsyntax.Comp{Kind: mlsyntax.CompReturn, ReturnExpr: mlsyntax.Expr{Kind: mlsyntax.ExprLiteral, LiteralInt: intPtr(1)}},
			},
			{
				Pattern: &mlsyntax.Pattern{Kind: mlsyntax.PattTag, TagName: "False"},
				Body: mlsyntax.Comp{
					Kind: mlsyntax.CompLet,
					LetBindings: []mlsyntax.LetBinding{
						{Pattern: &mlsyntax.Pattern{Kind: mlsyntax.PattVar, VarHint: "rec"}, Value: recur},
					},
					LetBody: mlsyntax.Comp{
						Kind: mlsyntax.CompReturn,
						ReturnExpr: mlsyntax.Expr{
							Kind:       mlsyntax.ExprPrimOp,
							PrimOpName: "mul",
							PrimOpArgs: []mlsyntax.Expr{n, {Kind: mlsyntax.ExprVar, VarLevel: 2, VarHint: "rec"}},
						},
					},
				},
			},
		},
	}

	body := mlsyntax.Comp{
		Kind: mlsyntax.CompLetRec,
		LetRecClauses: []mlsyntax.LetRecClause{
			{Name: "fact", Param: &mlsyntax.Pattern{Kind: mlsyntax.PattVar, VarHint: "n"}, Body: factBody},
		},
		LetRecBody: mlsyntax.Comp{
			Kind:      mlsyntax.CompApply,
			ApplyFunc: mlsyntax.Expr{Kind: mlsyntax.ExprVar, VarLevel: 0, VarHint: "fact"},
			ApplyArg:  mlsyntax.Expr{Kind: mlsyntax.ExprLiteral, LiteralInt: intPtr(3)},
		},
	}

	v, err := Run(newTestSession(), &values.Handler{OnOp: map[string]values.OpCase{}}, values.NewEnv(signature.New()), body)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if v.Kind != values.KindInt || v.IntVal != 6 {
		t.Fatalf("expected fact(3) = 6, got %v", v)
	}
}

// TestApplyRejectsNonClosure confirms applying a non-closure value raises
// the Runtime error spec.md §7 names as its own example ("applying a
// non-closure"), and that it is user-recoverable, not fatal.
func TestApplyRejectsNonClosure(t *testing.T) {
	body := mlsyntax.Comp{
		Kind:      mlsyntax.CompApply,
		ApplyFunc: mlsyntax.Expr{Kind: mlsyntax.ExprLiteral, LiteralInt: intPtr(1)},
		ApplyArg:  mlsyntax.Expr{Kind: mlsyntax.ExprLiteral, LiteralInt: intPtr(2)},
	}

	_, err := Run(newTestSession(), &values.Handler{OnOp: map[string]values.OpCase{}}, values.NewEnv(signature.New()), body)
	if err == nil {
		t.Fatalf("expected applying a non-closure to fail")
	}
}

func intPtr(n int) *int { return &n }
