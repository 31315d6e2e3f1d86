package eval

import (
	"github.com/orizon-lang/orizon-witness/internal/assumption"
	"github.com/orizon-lang/orizon-witness/internal/jdg"
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/tt"
	"github.com/orizon-lang/orizon-witness/internal/values"
	"github.com/orizon-lang/orizon-witness/internal/witnesserr"
)

// Cont is a one-shot resumable continuation: "what to do next with a
// value". A handler's on_op case receives one wrapped as a runtime value
// and may call it zero times (abandon) or exactly once (resume); calling
// it more than once is undefined, per spec.md §9.
type Cont func(*values.Value) (*Outcome, error)

// Outcome is either a finished value or a suspended operation.
type Outcome struct {
	Done *values.Value
	Op   *PendingOp
}

// PendingOp is an effect raised by Operation and not yet handled: a name,
// its evaluated arguments, and the continuation of the call site.
type PendingOp struct {
	Name string
	Args []*values.Value
	K    Cont
}

func doneOutcome(v *values.Value) (*Outcome, error) { return &Outcome{Done: v}, nil }

// RaiseOperation suspends the current computation on an effect. It is the
// primitive both CompOperation and equality.go's protocol steps use to
// ask the handler stack a question.
func RaiseOperation(name string, args []*values.Value, k Cont) (*Outcome, error) {
	return &Outcome{Op: &PendingOp{Name: name, Args: args, K: k}}, nil
}

func packArgs(args []*values.Value) *values.Value {
	if len(args) == 1 {
		return args[0]
	}

	return values.MkTuple(args...)
}

// EvalComp interprets a computation under env, delivering its eventual
// value to k (or suspending on an operation it returns instead of calling).
// yieldK is non-nil only while evaluating an on_op handler body; it is the
// resumption for the operation currently being handled, and CompYield
// calls it directly rather than the ambient k.
func EvalComp(sess *Session, env *values.Env, c mlsyntax.Comp, k Cont, yieldK Cont) (*Outcome, error) {
	switch c.Kind {
	case mlsyntax.CompReturn:
		v, err := EvalExpr(sess, env, c.ReturnExpr)
		if err != nil {
			return nil, err
		}

		return k(v)

	case mlsyntax.CompSequence:
		return EvalComp(sess, env, c.SequenceFirst, func(*values.Value) (*Outcome, error) {
			return EvalComp(sess, env, c.SequenceSecond, k, yieldK)
		}, yieldK)

	case mlsyntax.CompLet:
		return evalLetBindings(sess, env, c.LetBindings, 0, c.LetBody, k, yieldK)

	case mlsyntax.CompLetRec:
		return evalLetRec(sess, env, c, k, yieldK)

	case mlsyntax.CompMatch:
		return evalMatch(sess, env, c, k, yieldK)

	case mlsyntax.CompOperation:
		args := make([]*values.Value, len(c.OperationArgs))

		for i, e := range c.OperationArgs {
			v, err := EvalExpr(sess, env, e)
			if err != nil {
				return nil, err
			}

			args[i] = v
		}

		return RaiseOperation(c.OperationName, args, k)

	case mlsyntax.CompWith:
		hv, err := EvalExpr(sess, env, c.WithHandler)
		if err != nil {
			return nil, err
		}

		if hv.Kind != values.KindHandler {
			return nil, witnesserr.New(witnesserr.Runtime, "E_WITH_NOT_HANDLER", "with's handler expression is not a handler value").At(c.Loc)
		}

		run := func() (*Outcome, error) { return EvalComp(sess, env, c.WithBody, doneOutcome, nil) }

		return handle(sess, hv.Handler, run, k)

	case mlsyntax.CompYield:
		v, err := EvalExpr(sess, env, c.YieldExpr)
		if err != nil {
			return nil, err
		}

		if yieldK == nil {
			return nil, witnesserr.New(witnesserr.Runtime, "E_YIELD_OUTSIDE_HANDLER", "yield used outside a handler body").At(c.Loc)
		}

		return yieldK(v)

	case mlsyntax.CompRef:
		v, err := EvalExpr(sess, env, c.RefInit)
		if err != nil {
			return nil, err
		}

		id := sess.NewCell()
		sess.RefSet(id, v)

		return k(values.MkRef(id))

	case mlsyntax.CompLookup:
		rv, err := EvalExpr(sess, env, c.LookupRef)
		if err != nil {
			return nil, err
		}

		if rv.Kind != values.KindRef {
			return nil, witnesserr.New(witnesserr.Runtime, "E_LOOKUP_NOT_REF", "lookup target is not a reference").At(c.Loc)
		}

		return k(sess.RefGet(rv.RefID))

	case mlsyntax.CompUpdate:
		rv, err := EvalExpr(sess, env, c.UpdateRef)
		if err != nil {
			return nil, err
		}

		if rv.Kind != values.KindRef {
			return nil, witnesserr.New(witnesserr.Runtime, "E_UPDATE_NOT_REF", "update target is not a reference").At(c.Loc)
		}

		v, err := EvalExpr(sess, env, c.UpdateVal)
		if err != nil {
			return nil, err
		}

		sess.RefSet(rv.RefID, v)

		return k(v)

	case mlsyntax.CompNow:
		return evalNow(sess, env, c, k, yieldK)

	case mlsyntax.CompCurrent:
		id := sess.DynID(c.CurrentDynamic)

		cur := sess.DynCurrent(id)
		if cur == nil {
			return nil, witnesserr.New(witnesserr.Runtime, "E_DYNAMIC_UNSET", "dynamic %q has no current value", c.CurrentDynamic).At(c.Loc)
		}

		return k(cur)

	case mlsyntax.CompAscribe:
		return evalAscribe(sess, env, c, k, yieldK)

	case mlsyntax.CompApply:
		return evalApply(sess, env, c, k, yieldK)

	case mlsyntax.CompAbstract:
		return evalAbstract(sess, env, c, k, yieldK)

	case mlsyntax.CompSubstitute:
		return evalSubstitute(sess, env, c, k, yieldK)

	default:
		return nil, witnesserr.Impossiblef("EvalComp: unknown Comp kind %d", c.Kind)
	}
}

func evalLetBindings(sess *Session, env *values.Env, bindings []mlsyntax.LetBinding, i int, body mlsyntax.Comp, k Cont, yieldK Cont) (*Outcome, error) {
	if i == len(bindings) {
		return EvalComp(sess, env, body, k, yieldK)
	}

	b := bindings[i]

	return EvalComp(sess, env, b.Value, func(v *values.Value) (*Outcome, error) {
		newEnv, ok := MatchPattern(env, b.Pattern, v)
		if !ok {
			return nil, witnesserr.New(witnesserr.MatchFail, "E_LET_PATTERN", "let binding pattern did not match its value").At(b.Value.Loc)
		}

		return evalLetBindings(sess, newEnv, bindings, i+1, body, k, yieldK)
	}, yieldK)
}

func evalLetRec(sess *Session, env *values.Env, c mlsyntax.Comp, k Cont, yieldK Cont) (*Outcome, error) {
	placeholders := make([]*values.Value, len(c.LetRecClauses))
	for i := range placeholders {
		placeholders[i] = &values.Value{}
	}

	newEnv := env.PushAll(placeholders)

	for i, cl := range c.LetRecClauses {
		*placeholders[i] = values.Value{
			Kind: values.KindClosure,
			Closure: &values.Closure{
				Env:   newEnv,
				Param: cl.Param,
				Body:  cl.Body,
			},
		}
	}

	return EvalComp(sess, newEnv, c.LetRecBody, k, yieldK)
}

// evalApply invokes a closure value against one argument: match the
// closure's parameter pattern against the evaluated argument in the
// closure's captured environment, then run its body to completion under
// the call site's own continuation and yield target, exactly like any
// other tail-positioned Comp in this evaluator (Let, Sequence, Match all
// thread k/yieldK the same way).
func evalApply(sess *Session, env *values.Env, c mlsyntax.Comp, k Cont, yieldK Cont) (*Outcome, error) {
	fv, err := EvalExpr(sess, env, c.ApplyFunc)
	if err != nil {
		return nil, err
	}

	if fv.Kind != values.KindClosure {
		return nil, witnesserr.New(witnesserr.Runtime, "E_APPLY_NOT_CLOSURE", "application target is not a closure").At(c.Loc)
	}

	av, err := EvalExpr(sess, env, c.ApplyArg)
	if err != nil {
		return nil, err
	}

	bodyEnv, ok := MatchPattern(fv.Closure.Env, fv.Closure.Param, av)
	if !ok {
		return nil, witnesserr.New(witnesserr.MatchFail, "E_APPLY_PATTERN", "closure parameter pattern did not match its argument").At(c.Loc)
	}

	return EvalComp(sess, bodyEnv, fv.Closure.Body, k, yieldK)
}

// evalCompToJudgement runs c to completion and hands its resulting
// judgement to cont, re-suspending through wrapPending exactly like
// evalAscribe if c raises an operation along the way. Every Comp this
// evaluator runs produces a Value, but Abstract/Substitute only ever
// consume the KindJudgement case of it.
func evalCompToJudgement(sess *Session, env *values.Env, c mlsyntax.Comp, yieldK Cont, cont func(*jdg.Judgement) (*Outcome, error)) (*Outcome, error) {
	outcome, err := EvalComp(sess, env, c, doneOutcome, yieldK)
	if err != nil {
		return nil, err
	}

	asJudgement := func(v *values.Value) (*Outcome, error) {
		if v.Kind != values.KindJudgement {
			return nil, witnesserr.Impossiblef("Abstract/Substitute sub-computation did not produce a judgement")
		}

		return cont(v.Judgement)
	}

	if outcome.Op != nil {
		return wrapPending(outcome.Op, asJudgement), nil
	}

	return asJudgement(outcome.Done)
}

// resolveAtomsByHint picks, in order, one atom per name in hints out of
// free — the free atoms of the term or type Abstract's body evaluated to.
// mlsyntax carries no atom identifiers of its own (only the printable hint
// a binder was opened with), so this is the only way a desugared Abstract
// node can name which of the body's assumptions to capture; a hint shared
// by more than one free atom picks whichever is encountered first.
func resolveAtomsByHint(asmp assumption.Set, hints []string) ([]tt.Atom, bool) {
	free := asmp.Atoms()
	used := make(map[tt.Atom]bool, len(hints))
	xs := make([]tt.Atom, len(hints))

	for i, hint := range hints {
		found := false

		for _, a := range free {
			if used[a] || a.Hint() != hint {
				continue
			}

			xs[i] = a
			used[a] = true
			found = true

			break
		}

		if !found {
			return nil, false
		}
	}

	return xs, true
}

// evalAbstract implements spec.md §4.3's `Abstract(xs, body)`: run body to
// an IsTerm or IsType judgement, capture the named free atoms as bound
// indices via internal/tt's abstract, and rewrap the result under the same
// judgement form — the abstracted term or type is a term-level abstraction
// a later Substitute can open.
func evalAbstract(sess *Session, env *values.Env, c mlsyntax.Comp, k Cont, yieldK Cont) (*Outcome, error) {
	return evalCompToJudgement(sess, env, c.AbstractBody, yieldK, func(j *jdg.Judgement) (*Outcome, error) {
		switch j.Form() {
		case jdg.FormIsTerm:
			e, ty, _ := jdg.InvertIsTerm(j)

			xs, ok := resolveAtomsByHint(e.Assumptions, c.AbstractAtoms)
			if !ok {
				return nil, witnesserr.New(witnesserr.Runtime, "E_ABSTRACT_ATOM_NOT_FREE",
					"Abstract's atom names are not all free in its body's term").At(c.Loc)
			}

			abstracted := tt.Abstract(xs, 0, e)
			abstractedTy := tt.AbstractType(xs, 0, ty)

			return k(values.MkJudgement(jdg.MkIsTerm(abstracted.Assumptions, abstracted, abstractedTy)))

		case jdg.FormIsType:
			ty, _ := jdg.InvertIsType(j)

			xs, ok := resolveAtomsByHint(ty.Term.Assumptions, c.AbstractAtoms)
			if !ok {
				return nil, witnesserr.New(witnesserr.Runtime, "E_ABSTRACT_ATOM_NOT_FREE",
					"Abstract's atom names are not all free in its body's type").At(c.Loc)
			}

			abstractedTy := tt.AbstractType(xs, 0, ty)

			return k(values.MkJudgement(jdg.MkIsType(abstractedTy.Term.Assumptions, abstractedTy)))

		default:
			return nil, witnesserr.New(witnesserr.Runtime, "E_ABSTRACT_NOT_TERM_OR_TYPE",
				"Abstract's body did not produce an IsTerm or IsType judgement").At(c.AbstractBody.Loc)
		}
	})
}

// evalSubstitute implements spec.md §4.3's `Substitute(c, cs)`: run c to
// the abstracted judgement Abstract built, run each of cs to an IsTerm
// judgement supplying one replacement term, and open the outermost
// len(cs) binders of c's term or type via internal/tt's instantiate —
// destructing the abstraction Abstract constructed.
func evalSubstitute(sess *Session, env *values.Env, c mlsyntax.Comp, k Cont, yieldK Cont) (*Outcome, error) {
	return evalCompToJudgement(sess, env, c.SubstituteBody, yieldK, func(body *jdg.Judgement) (*Outcome, error) {
		return evalSubstituteArgs(sess, env, c, body, 0, nil, k, yieldK)
	})
}

func evalSubstituteArgs(sess *Session, env *values.Env, c mlsyntax.Comp, body *jdg.Judgement, i int, es []*tt.Term, k Cont, yieldK Cont) (*Outcome, error) {
	if i == len(c.SubstituteArgs) {
		return finishSubstitute(body, es, c, k)
	}

	return evalCompToJudgement(sess, env, c.SubstituteArgs[i], yieldK, func(argJ *jdg.Judgement) (*Outcome, error) {
		e, _, ok := jdg.InvertIsTerm(argJ)
		if !ok {
			return nil, witnesserr.New(witnesserr.Runtime, "E_SUBSTITUTE_ARG_NOT_TERM",
				"Substitute's argument %d did not produce an IsTerm judgement", i).At(c.SubstituteArgs[i].Loc)
		}

		return evalSubstituteArgs(sess, env, c, body, i+1, append(es, e), k, yieldK)
	})
}

func finishSubstitute(body *jdg.Judgement, es []*tt.Term, c mlsyntax.Comp, k Cont) (*Outcome, error) {
	switch body.Form() {
	case jdg.FormIsTerm:
		e, ty, _ := jdg.InvertIsTerm(body)
		inst := tt.Instantiate(es, 0, e)
		instTy := tt.InstantiateType(es, 0, ty)

		return k(values.MkJudgement(jdg.MkIsTerm(inst.Assumptions, inst, instTy)))

	case jdg.FormIsType:
		ty, _ := jdg.InvertIsType(body)
		instTy := tt.InstantiateType(es, 0, ty)

		return k(values.MkJudgement(jdg.MkIsType(instTy.Term.Assumptions, instTy)))

	default:
		return nil, witnesserr.New(witnesserr.Runtime, "E_SUBSTITUTE_NOT_TERM_OR_TYPE",
			"Substitute's body did not produce an IsTerm or IsType judgement").At(c.SubstituteBody.Loc)
	}
}

func evalMatch(sess *Session, env *values.Env, c mlsyntax.Comp, k Cont, yieldK Cont) (*Outcome, error) {
	scrut, err := EvalExpr(sess, env, c.MatchScrutinee)
	if err != nil {
		return nil, err
	}

	for _, mc := range c.MatchCases {
		if newEnv, ok := MatchPattern(env, mc.Pattern, scrut); ok {
			return EvalComp(sess, newEnv, mc.Body, k, yieldK)
		}
	}

	return nil, witnesserr.New(witnesserr.MatchFail, "E_MATCH_FAIL", "no case matched the scrutinee").At(c.Loc)
}

// evalAscribe implements spec.md §4.3's `Ascribe(c, t_comp)`: run t_comp to
// get the target type, run c to get the ascribed term's inferred judgement,
// and if the two types are not already the same, hand off to the equality
// engine's coerce protocol (§4.4) to reconcile them. Both sub-computations
// are run to completion (doneOutcome) before ascription's own logic runs;
// any operation either one raises is exactly the same PendingOp shape
// EvalComp itself returns, so it composes with an enclosing with/handle
// without any special-casing here.
func evalAscribe(sess *Session, env *values.Env, c mlsyntax.Comp, k Cont, yieldK Cont) (*Outcome, error) {
	typeOutcome, err := EvalComp(sess, env, c.AscribeType, doneOutcome, yieldK)
	if err != nil {
		return nil, err
	}

	if typeOutcome.Op != nil {
		return wrapPending(typeOutcome.Op, func(tv *values.Value) (*Outcome, error) {
			return evalAscribeWithTarget(sess, env, c, tv, k, yieldK)
		}), nil
	}

	return evalAscribeWithTarget(sess, env, c, typeOutcome.Done, k, yieldK)
}

func evalAscribeWithTarget(sess *Session, env *values.Env, c mlsyntax.Comp, tv *values.Value, k Cont, yieldK Cont) (*Outcome, error) {
	if tv.Kind != values.KindJudgement {
		return nil, witnesserr.Impossiblef("Ascribe's type computation did not produce a judgement")
	}

	targetTy, ok := jdg.InvertIsType(tv.Judgement)
	if !ok {
		return nil, witnesserr.New(witnesserr.Typing, "E_ASCRIBE_NOT_TYPE", "Ascribe's type computation did not produce an IsType judgement").At(c.AscribeType.Loc)
	}

	bodyOutcome, err := EvalComp(sess, env, c.AscribeBody, doneOutcome, yieldK)
	if err != nil {
		return nil, err
	}

	if bodyOutcome.Op != nil {
		return wrapPending(bodyOutcome.Op, func(bv *values.Value) (*Outcome, error) {
			return finishAscribe(bv, targetTy, c, k)
		}), nil
	}

	return finishAscribe(bodyOutcome.Done, targetTy, c, k)
}

func finishAscribe(bv *values.Value, targetTy *tt.Type, c mlsyntax.Comp, k Cont) (*Outcome, error) {
	if bv.Kind != values.KindJudgement {
		return nil, witnesserr.Impossiblef("Ascribe's body computation did not produce a judgement")
	}

	e, inferredTy, ok := jdg.InvertIsTerm(bv.Judgement)
	if !ok {
		return nil, witnesserr.New(witnesserr.Typing, "E_ASCRIBE_NOT_TERM", "Ascribe's body computation did not produce an IsTerm judgement").At(c.AscribeBody.Loc)
	}

	if tt.AlphaEqualType(inferredTy, targetTy) {
		return k(bv)
	}

	return CoerceTerm(e, inferredTy, targetTy, k)
}

// wrapPending re-suspends a PendingOp with its continuation post-composed
// with cont, letting an ascribe's own outstanding work resume once the
// operation the sub-computation raised is answered.
func wrapPending(op *PendingOp, cont Cont) *Outcome {
	return &Outcome{Op: &PendingOp{
		Name: op.Name,
		Args: op.Args,
		K: func(v *values.Value) (*Outcome, error) {
			outcome, err := op.K(v)
			if err != nil {
				return nil, err
			}

			if outcome.Op != nil {
				return wrapPending(outcome.Op, cont), nil
			}

			return cont(outcome.Done)
		},
	}}
}

func evalNow(sess *Session, env *values.Env, c mlsyntax.Comp, k Cont, yieldK Cont) (*Outcome, error) {
	v, err := EvalExpr(sess, env, c.NowValue)
	if err != nil {
		return nil, err
	}

	id := sess.DynID(c.NowDynamic)
	sess.DynPush(id, v)

	outcome, err := EvalComp(sess, env, c.NowBody, doneOutcome, yieldK)
	if err != nil {
		sess.DynPop(id)
		return nil, err
	}

	return finishNow(sess, id, outcome, k)
}

// finishNow keeps a Now's dynamic pushed across any operation suspension
// raised inside its body, popping only once the body's continuation truly
// completes — mirroring the deep-handler resumption pattern in handle so a
// dynamic stays visible for as long as its lexical extent is still
// "logically" executing, even across a suspend/resume round trip.
func finishNow(sess *Session, id int, outcome *Outcome, k Cont) (*Outcome, error) {
	if outcome.Done != nil {
		sess.DynPop(id)
		return k(outcome.Done)
	}

	op := outcome.Op
	wrapped := &PendingOp{
		Name: op.Name,
		Args: op.Args,
		K: func(v *values.Value) (*Outcome, error) {
			outcome2, err := op.K(v)
			if err != nil {
				sess.DynPop(id)
				return nil, err
			}

			return finishNow(sess, id, outcome2, k)
		},
	}

	return &Outcome{Op: wrapped}, nil
}

// handle runs a protected computation under handler h, dispatching
// operations to h.OnOp, on_value on normal completion, and on_finally on
// any exit — deep-handler style: resuming an operation's continuation
// re-enters this same dispatch loop, so an operation raised by the
// resumed code is still seen by h.
func handle(sess *Session, h *values.Handler, run func() (*Outcome, error), k Cont) (*Outcome, error) {
	outcome, err := run()
	if err != nil {
		return nil, err
	}

	finalize := func(v *values.Value) (*Outcome, error) {
		if h.OnFinally != nil {
			if err := runFinally(sess, h); err != nil {
				return nil, err
			}
		}

		return k(v)
	}

	if outcome.Done != nil {
		if h.OnValue == nil {
			return finalize(outcome.Done)
		}

		env2, ok := MatchPattern(h.Env, h.OnValue.Param, outcome.Done)
		if !ok {
			return nil, witnesserr.New(witnesserr.MatchFail, "E_ON_VALUE_MATCH", "on_value pattern did not match").At(h.OnValue.Body.Loc)
		}

		return EvalComp(sess, env2, h.OnValue.Body, finalize, nil)
	}

	op := outcome.Op

	opCase, ok := h.OnOp[op.Name]
	if !ok {
		wrapped := &PendingOp{
			Name: op.Name,
			Args: op.Args,
			K: func(v *values.Value) (*Outcome, error) {
				return handle(sess, h, func() (*Outcome, error) { return op.K(v) }, k)
			},
		}

		return &Outcome{Op: wrapped}, nil
	}

	bodyEnv, ok := MatchPattern(h.Env, opCase.ArgParam, packArgs(op.Args))
	if !ok {
		return nil, witnesserr.New(witnesserr.MatchFail, "E_ON_OP_MATCH", "on_op argument pattern did not match for %q", op.Name).At(opCase.Body.Loc)
	}

	yieldK := func(v *values.Value) (*Outcome, error) {
		return handle(sess, h, func() (*Outcome, error) { return op.K(v) }, k)
	}

	return EvalComp(sess, bodyEnv, opCase.Body, finalize, yieldK)
}

func runFinally(sess *Session, h *values.Handler) error {
	_, err := EvalComp(sess, h.Env, h.OnFinally.Body, doneOutcome, nil)
	return err
}
