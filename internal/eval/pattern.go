package eval

import (
	"github.com/orizon-lang/orizon-witness/internal/jdg"
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/values"
)

// MatchPattern tries to match val against pat, extending env with any
// bindings pat introduces. Bindings are pushed in left-to-right occurrence
// order, matching the order the desugarer assigns de Bruijn levels.
//
// TT patterns (spec.md §4.3/§6) unpack a judgement through the jdg
// inspectors rather than reaching into its fields directly — exactly the
// discipline the kernel's sealed Judgement type is meant to enforce.
func MatchPattern(env *values.Env, pat *mlsyntax.Pattern, val *values.Value) (*values.Env, bool) {
	if pat == nil {
		return env, true
	}

	switch pat.Kind {
	case mlsyntax.PattWildcard:
		return env, true

	case mlsyntax.PattVar:
		return env.Push(val), true

	case mlsyntax.PattAs:
		env2, ok := MatchPattern(env, pat.AsPattern, val)
		if !ok {
			return env, false
		}

		return env2.Push(val), true

	case mlsyntax.PattTag:
		if val.Kind != values.KindTag || val.TagName != pat.TagName || len(val.TagArgs) != len(pat.TagArgs) {
			return env, false
		}

		return matchAll(env, pat.TagArgs, val.TagArgs)

	case mlsyntax.PattTuple:
		if val.Kind != values.KindTuple || len(val.TupleElems) != len(pat.TupleElems) {
			return env, false
		}

		return matchAll(env, pat.TupleElems, val.TupleElems)

	case mlsyntax.PattList:
		if val.Kind != values.KindList || len(val.ListElems) != len(pat.ListElems) {
			return env, false
		}

		return matchAll(env, pat.ListElems, val.ListElems)

	case mlsyntax.PattJudgement:
		if val.Kind != values.KindJudgement {
			return env, false
		}

		return env.Push(val), true

	case mlsyntax.PattTTAnonymous:
		if val.Kind != values.KindJudgement {
			return env, false
		}

		return env, true

	case mlsyntax.PattTTVar:
		if val.Kind != values.KindJudgement {
			return env, false
		}

		return env.Push(val), true

	case mlsyntax.PattTTAs:
		if val.Kind != values.KindJudgement {
			return env, false
		}

		env2, ok := MatchPattern(env, pat.TTSub, val)
		if !ok {
			return env, false
		}

		return env2.Push(val), true

	case mlsyntax.PattTTIsType:
		if val.Kind != values.KindJudgement {
			return env, false
		}

		if _, ok := jdg.InvertIsType(val.Judgement); !ok {
			return env, false
		}

		return env.Push(val), true

	case mlsyntax.PattTTIsTerm:
		if val.Kind != values.KindJudgement {
			return env, false
		}

		term, ty, ok := jdg.InvertIsTerm(val.Judgement)
		if !ok {
			return env, false
		}

		env2 := env.Push(val)

		if pat.TTSub != nil {
			sub := values.MkJudgement(jdg.MkIsTerm(term.Assumptions, term, ty))

			env2, ok = MatchPattern(env2, pat.TTSub, sub)
			if !ok {
				return env, false
			}
		}

		if pat.TTType != nil {
			return MatchPattern(env2, pat.TTType, values.MkJudgement(jdg.MkIsType(ty.Term.Assumptions, ty)))
		}

		return env2, true

	case mlsyntax.PattTTEqType:
		if val.Kind != values.KindJudgement {
			return env, false
		}

		if _, _, _, ok := jdg.InvertEqType(val.Judgement); !ok {
			return env, false
		}

		return env.Push(val), true

	case mlsyntax.PattTTEqTerm:
		if val.Kind != values.KindJudgement {
			return env, false
		}

		if _, _, _, _, ok := jdg.InvertEqTerm(val.Judgement); !ok {
			return env, false
		}

		return env.Push(val), true

	case mlsyntax.PattTTTagged:
		if val.Kind != values.KindTag || val.TagName != pat.TagName {
			return env, false
		}

		return matchAll(env, pat.TagArgs, val.TagArgs)

	case mlsyntax.PattTTAbstraction:
		// Binder spines are matched structurally by the kernel (alpha_equal_
		// abstraction) rather than destructured by pattern; this arm only
		// admits any judgement value and binds it whole.
		if val.Kind != values.KindJudgement {
			return env, false
		}

		return env.Push(val), true

	case mlsyntax.PattTTMeta:
		if val.Kind != values.KindJudgement {
			return env, false
		}

		if pat.JudgementForm != "" && val.Judgement.Form().String() != pat.JudgementForm {
			return env, false
		}

		term, ty, ok := jdg.InvertIsTerm(val.Judgement)
		if !ok {
			// Other judgement forms have no separate subterm/type pair to
			// split apart; a meta over them binds the judgement whole.
			return env.Push(val), true
		}

		env2 := env.Push(values.MkJudgement(jdg.MkIsTerm(term.Assumptions, term, ty)))
		tyVal := values.MkJudgement(jdg.MkIsType(ty.Term.Assumptions, ty))

		if pat.TTType != nil {
			return MatchPattern(env2, pat.TTType, tyVal)
		}

		return env2.Push(tyVal), true

	default:
		return env, false
	}
}

func matchAll(env *values.Env, pats []*mlsyntax.Pattern, vals []*values.Value) (*values.Env, bool) {
	cur := env

	for i, p := range pats {
		next, ok := MatchPattern(cur, p, vals[i])
		if !ok {
			return env, false
		}

		cur = next
	}

	return cur, true
}
