package tt

import (
	"testing"

	"github.com/orizon-lang/orizon-witness/internal/atom"
	"github.com/orizon-lang/orizon-witness/internal/position"
)

var noLoc = position.Span{}

func identityLambda(tbl *atom.Table) *Term {
	ty := MkTypeConstant(noLoc)
	body := MkBound(noLoc, 0)

	return MkLambda(noLoc, &Binder{Hint: "x", Type: ty}, body, ty)
}

func TestAssumptionsMatchSubtermUnion(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	atomTerm := MkAtom(noLoc, a)
	ty := MkTypeConstant(noLoc)
	lam := MkLambda(noLoc, &Binder{Hint: "x", Type: ty}, atomTerm, ty)

	if !lam.Assumptions.HasAtom(a) {
		t.Fatalf("lambda body's free atom %v must appear in the lambda's assumptions", a)
	}

	if lam.Assumptions.HasLevel(0) {
		t.Fatalf("bound variable introduced by the lambda's own binder must not leak as a loose level")
	}
}

func TestAlphaEqualReflexive(t *testing.T) {
	tbl := atom.NewTable()
	lam := identityLambda(tbl)

	if !AlphaEqual(lam, lam) {
		t.Fatalf("AlphaEqual(t, t) must hold for any t")
	}
}

func TestAlphaEqualSymmetricTransitive(t *testing.T) {
	tbl := atom.NewTable()
	t1 := identityLambda(tbl)
	t2 := identityLambda(tbl)
	t3 := identityLambda(tbl)

	if !AlphaEqual(t1, t2) {
		t.Fatalf("two structurally identical lambdas must be alpha-equal")
	}

	if !AlphaEqual(t2, t1) {
		t.Fatalf("AlphaEqual must be symmetric")
	}

	if !AlphaEqual(t1, t2) || !AlphaEqual(t2, t3) {
		t.Fatalf("setup broken")
	}

	if !AlphaEqual(t1, t3) {
		t.Fatalf("AlphaEqual must be transitive")
	}
}

func TestSubstituteEmptyIsIdentity(t *testing.T) {
	tbl := atom.NewTable()
	lam := identityLambda(tbl)

	out := Substitute(nil, nil, lam)
	if out != lam {
		t.Fatalf("substitute([], [], t) must return t unchanged (pointer-equal)")
	}
}

func TestSubstituteDefinition(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	body := MkAtom(noLoc, a)
	ty := MkTypeConstant(noLoc)

	replacement := MkConstant(noLoc, "c")

	direct := Substitute([]Atom{a}, []*Term{replacement}, body)
	viaParts := Instantiate([]*Term{replacement}, 0, Abstract([]Atom{a}, 0, body))

	if !AlphaEqual(direct, viaParts) {
		t.Fatalf("substitute(xs, es, t) must equal instantiate(es, 0, abstract(xs, 0, t))")
	}

	if direct.Kind != KindConstant || direct.ConstantName != "c" {
		t.Fatalf("expected substitution to replace the free atom, got %v", direct)
	}

	_ = ty
}

func TestAbstractInstantiateRoundTrip(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	b := tbl.Fresh("b")

	body := MkApply(noLoc, MkAtom(noLoc, a), &Binder{Hint: "x", Type: MkTypeConstant(noLoc)}, MkTypeConstant(noLoc), MkAtom(noLoc, b))

	abstracted := Abstract([]Atom{a, b}, 0, body)
	roundTripped := Instantiate([]*Term{MkAtom(noLoc, a), MkAtom(noLoc, b)}, 0, abstracted)

	if !AlphaEqual(body, roundTripped) {
		t.Fatalf("abstract(xs, instantiate(es, t)) must equal t for fresh, distinct xs")
	}
}

func TestUnabstractAbstractIsIdentity(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Fresh("a")
	ty := MkTypeConstant(noLoc)
	body := MkApply(noLoc, MkBound(noLoc, 0), &Binder{Hint: "y", Type: ty}, ty, MkBound(noLoc, 0))

	opened := Unabstract([]Atom{a}, body)
	closed := Abstract([]Atom{a}, 0, opened)

	if !AlphaEqual(closed, body) {
		t.Fatalf("abstract([a], unabstract([a], body)) must equal body for fresh a")
	}
}
