// This file implements the decision procedure of spec.md §4.4: the three
// entry points (equal_term, equal_type, coerce) that combine the kernel's
// alpha-equality fast path with a user-extensible operation-dispatch
// protocol, validating any proof handed back before trusting it. They live
// in package eval, not a separate package, because each one is built
// directly on Cont/Outcome/RaiseOperation and needs to be callable from
// evalAscribe (comp.go) without an import cycle.
package eval

import (
	"github.com/orizon-lang/orizon-witness/internal/jdg"
	"github.com/orizon-lang/orizon-witness/internal/tt"
	"github.com/orizon-lang/orizon-witness/internal/values"
	"github.com/orizon-lang/orizon-witness/internal/witnesserr"
)

// Term runs spec.md §4.4's protocol for `equal(sgn, e1, e2)` at type ty,
// delivering `Some(eq)` or `None` to k. A fatal InvalidEqualTerm error
// short-circuits past k entirely, per the kernel's soundness barrier.
func EqualTerm(e1, e2 *tt.Term, ty *tt.Type, k Cont) (*Outcome, error) {
	if j, ok := jdg.MkAlphaEqualTerm(e1, e2, ty); ok {
		return k(values.MkTag("Some", values.MkJudgement(j)))
	}

	arg1 := values.MkJudgement(jdg.MkIsTerm(e1.Assumptions, e1, ty))
	arg2 := values.MkJudgement(jdg.MkIsTerm(e2.Assumptions, e2, ty))

	return RaiseOperation("equal_term", []*values.Value{arg1, arg2}, func(result *values.Value) (*Outcome, error) {
		sub, ok := values.IsSome(result)
		if !ok {
			return k(values.MkTag("None"))
		}

		if sub.Kind != values.KindJudgement {
			return nil, witnesserr.Impossiblef("equal_term handler returned a non-judgement Some payload")
		}

		_, lhs, rhs, _, ok := jdg.InvertEqTerm(sub.Judgement)
		if !ok {
			return nil, witnesserr.Impossiblef("equal_term handler returned a Some that is not an EqTerm judgement")
		}

		if !tt.AlphaEqual(e1, lhs) || !tt.AlphaEqual(e2, rhs) {
			return nil, witnesserr.New(witnesserr.InvalidEqualTerm, "E_INVALID_EQUAL_TERM",
				"equal_term handler returned a proof of %s ≡ %s, not the requested %s ≡ %s", lhs, rhs, e1, e2).At(e1.Loc)
		}

		return k(values.MkTag("Some", sub))
	})
}

// Type runs the equal_type counterpart of Term.
func EqualType(t1, t2 *tt.Type, k Cont) (*Outcome, error) {
	if j, ok := jdg.MkAlphaEqualType(t1, t2); ok {
		return k(values.MkTag("Some", values.MkJudgement(j)))
	}

	arg1 := values.MkJudgement(jdg.MkIsType(t1.Term.Assumptions, t1))
	arg2 := values.MkJudgement(jdg.MkIsType(t2.Term.Assumptions, t2))

	return RaiseOperation("equal_type", []*values.Value{arg1, arg2}, func(result *values.Value) (*Outcome, error) {
		sub, ok := values.IsSome(result)
		if !ok {
			return k(values.MkTag("None"))
		}

		if sub.Kind != values.KindJudgement {
			return nil, witnesserr.Impossiblef("equal_type handler returned a non-judgement Some payload")
		}

		_, lhs, rhs, ok := jdg.InvertEqType(sub.Judgement)
		if !ok {
			return nil, witnesserr.Impossiblef("equal_type handler returned a Some that is not an EqType judgement")
		}

		if !tt.AlphaEqualType(t1, lhs) || !tt.AlphaEqualType(t2, rhs) {
			return nil, witnesserr.New(witnesserr.InvalidEqualType, "E_INVALID_EQUAL_TYPE",
				"equal_type handler returned a proof of %s ≡ %s, not the requested %s ≡ %s", lhs, rhs, t1, t2).At(t1.Term.Loc)
		}

		return k(values.MkTag("Some", sub))
	})
}

// Coerce runs spec.md §4.4's coerce protocol: fast-path on syntactic type
// equality, else raise `coerce(e, T)` and interpret one of NotCoercible /
// Convertible(eq) / Coercible(e'). It delivers a judgement of e at type
// tTo to k on success, or the NotCoercible tag on failure.
func CoerceTerm(e *tt.Term, tFrom, tTo *tt.Type, k Cont) (*Outcome, error) {
	if tt.AlphaEqualType(tFrom, tTo) {
		return k(values.MkJudgement(jdg.MkIsTerm(e.Assumptions, e, tTo)))
	}

	argE := values.MkJudgement(jdg.MkIsTerm(e.Assumptions, e, tFrom))
	argT := values.MkJudgement(jdg.MkIsType(tTo.Term.Assumptions, tTo))

	return RaiseOperation("coerce", []*values.Value{argE, argT}, func(result *values.Value) (*Outcome, error) {
		if result.Kind != values.KindTag {
			return nil, witnesserr.Impossiblef("coerce handler returned a non-tag value")
		}

		switch result.TagName {
		case "NotCoercible":
			return k(values.MkTag("NotCoercible"))

		case "Convertible":
			if len(result.TagArgs) != 1 || result.TagArgs[0].Kind != values.KindJudgement {
				return nil, witnesserr.Impossiblef("coerce's Convertible tag carries no equality judgement")
			}

			eqJ := result.TagArgs[0].Judgement

			_, lhs, rhs, ok := jdg.InvertEqType(eqJ)
			if !ok {
				return nil, witnesserr.Impossiblef("coerce's Convertible tag does not carry an EqType judgement")
			}

			if !tt.AlphaEqualType(tFrom, lhs) || !tt.AlphaEqualType(tTo, rhs) {
				return nil, witnesserr.New(witnesserr.InvalidCoerce, "E_INVALID_COERCE",
					"coerce handler's Convertible proof is %s ≡ %s, not the requested %s ≡ %s", lhs, rhs, tFrom, tTo).At(e.Loc)
			}

			eJ := jdg.MkIsTerm(e.Assumptions, e, tFrom)

			conv, err := jdg.ConvertTerm(eJ, eqJ)
			if err != nil {
				return nil, err
			}

			return k(values.MkJudgement(conv))

		case "Coercible":
			if len(result.TagArgs) != 1 || result.TagArgs[0].Kind != values.KindJudgement {
				return nil, witnesserr.Impossiblef("coerce's Coercible tag carries no term judgement")
			}

			e2J := result.TagArgs[0].Judgement

			_, ty2, ok := jdg.InvertIsTerm(e2J)
			if !ok {
				return nil, witnesserr.Impossiblef("coerce's Coercible tag does not carry an IsTerm judgement")
			}

			if !tt.AlphaEqualType(ty2, tTo) {
				return nil, witnesserr.New(witnesserr.InvalidCoerce, "E_INVALID_COERCE",
					"coerce handler's Coercible term has type %s, not the requested %s", ty2, tTo).At(e.Loc)
			}

			return k(values.MkJudgement(e2J))

		default:
			return nil, witnesserr.Impossiblef("coerce handler returned unrecognized tag %q", result.TagName)
		}
	})
}
