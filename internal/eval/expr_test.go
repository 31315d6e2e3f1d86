package eval

import (
	"testing"

	"github.com/orizon-lang/orizon-witness/internal/diagnostic"
	"github.com/orizon-lang/orizon-witness/internal/jdg"
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/signature"
	"github.com/orizon-lang/orizon-witness/internal/tt"
	"github.com/orizon-lang/orizon-witness/internal/values"
	"github.com/orizon-lang/orizon-witness/internal/witnesserr"
)

// TestDynHandleResolvesToDeclaredCell confirms ExprDynHandle produces the
// same cell id DynID/DeclareDynamic already track for a given name, giving
// spec.md §3's `Dyn(cell_id)` value a real constructor site.
func TestDynHandleResolvesToDeclaredCell(t *testing.T) {
	sess := newTestSession()
	env := values.NewEnv(signature.New())

	sess.DeclareDynamic("d", values.MkInt(7))

	v, err := EvalExpr(sess, env, mlsyntax.Expr{Kind: mlsyntax.ExprDynHandle, DynHandleName: "d"})
	if err != nil {
		t.Fatalf("EvalExpr: %v", err)
	}

	if v.Kind != values.KindDyn {
		t.Fatalf("expected a Dyn handle, got %v", v)
	}

	if got := sess.DynCurrent(v.DynID); got == nil || got.IntVal != 7 {
		t.Fatalf("expected the handle to resolve to d's declared value, got %v", got)
	}
}

// TestConstantResolvesDeclaredConstant confirms ExprConstant looks a
// declared name up in the signature and wraps it in the jdg.UseConstant
// judgement, giving spec.md §2's Constant declaration a real evaluation.
func TestConstantResolvesDeclaredConstant(t *testing.T) {
	sig := signature.New()
	ty := tt.MkTypeConstant(noLoc)
	sig.Declare("zero", signature.Decl{Constant: &signature.Constant{Type: ty}})

	sess := NewSession(sig, diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{}))
	env := values.NewEnv(sig)

	v, err := EvalExpr(sess, env, mlsyntax.Expr{Kind: mlsyntax.ExprConstant, ConstantName: "zero"})
	if err != nil {
		t.Fatalf("EvalExpr: %v", err)
	}

	if v.Kind != values.KindJudgement {
		t.Fatalf("expected a judgement value, got %v", v)
	}

	term, resultTy, ok := jdg.InvertIsTerm(v.Judgement)
	if !ok {
		t.Fatalf("ExprConstant must produce an IsTerm judgement")
	}

	if term.Kind != tt.KindConstant || term.ConstantName != "zero" {
		t.Fatalf("expected the constant term %q, got %v", "zero", term)
	}

	if !tt.AlphaEqualType(resultTy, ty) {
		t.Fatalf("expected the declared type %s, got %s", ty, resultTy)
	}
}

// TestConstantRejectsUndeclaredName confirms an unknown identifier fails
// with a Typing error rather than panicking, so Driver.report can turn it
// into a diagnostic.Common.UnknownIdentifier.
func TestConstantRejectsUndeclaredName(t *testing.T) {
	sess := newTestSession()
	env := values.NewEnv(signature.New())

	_, err := EvalExpr(sess, env, mlsyntax.Expr{Kind: mlsyntax.ExprConstant, ConstantName: "missing"})
	if err == nil {
		t.Fatalf("expected an error for an undeclared constant")
	}

	we, ok := err.(*witnesserr.Error)
	if !ok || we.Kind != witnesserr.Typing || we.Code != "E_UNKNOWN_IDENTIFIER" {
		t.Fatalf("expected a Typing/E_UNKNOWN_IDENTIFIER error, got %v", err)
	}

	if we.Message != "missing" {
		t.Fatalf("expected the bare identifier name as the message, got %q", we.Message)
	}
}
