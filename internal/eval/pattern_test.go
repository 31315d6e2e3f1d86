package eval

import (
	"testing"

	"github.com/orizon-lang/orizon-witness/internal/atom"
	"github.com/orizon-lang/orizon-witness/internal/jdg"
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/signature"
	"github.com/orizon-lang/orizon-witness/internal/tt"
	"github.com/orizon-lang/orizon-witness/internal/values"
)

// TestPattTTIsTermBindsSubterm confirms a PattTTIsTerm with a TTSub
// sub-pattern actually matches the subterm, not just the judgement's type,
// per mlsyntax.go's "the subterm and its type" contract.
func TestPattTTIsTermBindsSubterm(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	term := tt.MkAtom(noLoc, a)
	ty := tt.MkTypeConstant(noLoc)

	j := jdg.MkIsTerm(term.Assumptions, term, ty)
	env := values.NewEnv(signature.New())

	pat := &mlsyntax.Pattern{
		Kind:   mlsyntax.PattTTIsTerm,
		TTSub:  &mlsyntax.Pattern{Kind: mlsyntax.PattTTVar},
		TTType: &mlsyntax.Pattern{Kind: mlsyntax.PattTTVar},
	}

	got, ok := MatchPattern(env, pat, values.MkJudgement(j))
	if !ok {
		t.Fatalf("PattTTIsTerm with TTSub/TTType must match an IsTerm judgement")
	}

	// Push order: the whole judgement, then the subterm judgement TTSub
	// bound, then the type judgement TTType bound.
	if got.Depth() != 3 {
		t.Fatalf("expected 3 bindings (whole, subterm, type), got %d", got.Depth())
	}

	subVal := got.Lookup(1)
	if subVal.Kind != values.KindJudgement {
		t.Fatalf("expected the subterm slot to hold a judgement, got %v", subVal)
	}

	subTerm, _, ok := jdg.InvertIsTerm(subVal.Judgement)
	if !ok || !tt.AlphaEqual(subTerm, term) {
		t.Fatalf("expected the subterm slot to carry the matched term, got %v", subVal)
	}

	typeVal := got.Lookup(2)
	if _, ok := jdg.InvertIsType(typeVal.Judgement); !ok {
		t.Fatalf("expected the type slot to hold an IsType judgement, got %v", typeVal)
	}
}

// TestPattTTMetaBindsSubtermAndType confirms a `?X` metavariable pattern
// over an IsTerm judgement binds both the subterm and its type, per
// spec.md's "binds the subterm and its type into the environment".
func TestPattTTMetaBindsSubtermAndType(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	term := tt.MkAtom(noLoc, a)
	ty := tt.MkTypeConstant(noLoc)

	j := jdg.MkIsTerm(term.Assumptions, term, ty)
	env := values.NewEnv(signature.New())

	pat := &mlsyntax.Pattern{Kind: mlsyntax.PattTTMeta, MetaName: "X"}

	got, ok := MatchPattern(env, pat, values.MkJudgement(j))
	if !ok {
		t.Fatalf("PattTTMeta must match an IsTerm judgement")
	}

	if got.Depth() != 2 {
		t.Fatalf("expected 2 bindings (subterm, type), got %d", got.Depth())
	}

	subTerm, _, ok := jdg.InvertIsTerm(got.Lookup(0).Judgement)
	if !ok || !tt.AlphaEqual(subTerm, term) {
		t.Fatalf("expected the first slot to carry the matched subterm, got %v", got.Lookup(0))
	}

	if _, ok := jdg.InvertIsType(got.Lookup(1).Judgement); !ok {
		t.Fatalf("expected the second slot to carry the subterm's type, got %v", got.Lookup(1))
	}
}

// TestPattTTMetaFallsBackForNonTermForms confirms a meta over a non-IsTerm
// judgement (which has no separate subterm/type pair) still matches by
// binding the judgement whole rather than failing.
func TestPattTTMetaFallsBackForNonTermForms(t *testing.T) {
	ty := tt.MkTypeConstant(noLoc)
	j := jdg.MkIsType(ty.Term.Assumptions, ty)
	env := values.NewEnv(signature.New())

	pat := &mlsyntax.Pattern{Kind: mlsyntax.PattTTMeta, JudgementForm: "IsType"}

	got, ok := MatchPattern(env, pat, values.MkJudgement(j))
	if !ok {
		t.Fatalf("PattTTMeta must match an IsType judgement restricted to that form")
	}

	if got.Depth() != 1 {
		t.Fatalf("expected a single whole-judgement binding, got %d", got.Depth())
	}
}
