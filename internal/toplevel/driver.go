package toplevel

import (
	"github.com/orizon-lang/orizon-witness/internal/diagnostic"
	"github.com/orizon-lang/orizon-witness/internal/eval"
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/position"
	"github.com/orizon-lang/orizon-witness/internal/predefined"
	"github.com/orizon-lang/orizon-witness/internal/signature"
	"github.com/orizon-lang/orizon-witness/internal/values"
	"github.com/orizon-lang/orizon-witness/internal/witnesserr"
)

// Driver runs an Item stream against one persistent global environment,
// per spec.md §4.6: "Each is executed in a fresh evaluation with the
// persistent global environment as initial env." Env grows as TopLet and
// TopLetRec items add bindings; Sess and Sig persist across the whole run.
type Driver struct {
	Sess *eval.Session
	Env  *values.Env
	Base *values.Handler

	diag *diagnostic.DiagnosticEngine
}

// NewDriver builds a Driver over a fresh Signature and Session, installing
// internal/predefined's base handler as the backstop every top-level
// computation runs under.
func NewDriver(sig *signature.Signature, diag *diagnostic.DiagnosticEngine) *Driver {
	return &Driver{
		Sess: eval.NewSession(sig, diag),
		Env:  values.NewEnv(sig),
		Base: predefined.Handler(),
		diag: diag,
	}
}

// Run executes items in order, stopping at the first fatal error. Runtime
// errors from TopDo/TopFail bodies are user-recoverable: they are recorded
// as a diagnostic and execution continues with the next item, matching
// spec.md §7's "propagate up to the nearest TopFail or to the top-level
// driver, which reports and continues."
func (d *Driver) Run(items []Item) error {
	for _, item := range items {
		if err := d.runItem(item); err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) runItem(item Item) error {
	switch item.Kind {
	case TopLet:
		return d.runLet(item)

	case TopLetRec:
		d.runLetRec(item)
		return nil

	case TopDo:
		_, err := d.runComp(item.Body)
		return d.recoverOrAbort(item.Loc, err)

	case TopFail:
		return d.runFail(item)

	case TopDynamic:
		v, err := eval.EvalExpr(d.Sess, d.Env, item.DynamicInit)
		if err != nil {
			return d.recoverOrAbort(item.Loc, err)
		}

		d.Sess.DeclareDynamic(item.DynamicName, v)

		return nil

	case TopNow:
		v, err := eval.EvalExpr(d.Sess, d.Env, item.NowValue)
		if err != nil {
			return d.recoverOrAbort(item.Loc, err)
		}

		d.Sess.SetTopDefault(item.NowDynamic, v)

		return nil

	case DeclSignature:
		d.Env.Sig.Declare(item.DeclName, item.Decl)
		return nil

	default:
		return witnesserr.Impossiblef("toplevel: unknown item kind %d", item.Kind)
	}
}

func (d *Driver) runLet(item Item) error {
	env := d.Env

	for _, b := range item.LetBindings {
		v, err := d.runCompIn(env, b.Value)
		if err != nil {
			return d.recoverOrAbort(item.Loc, err)
		}

		newEnv, ok := eval.MatchPattern(env, b.Pattern, v)
		if !ok {
			return d.recoverOrAbort(item.Loc, witnesserr.New(witnesserr.MatchFail, "E_TOPLET_PATTERN", "top-level let pattern did not match its value").At(item.Loc))
		}

		env = newEnv
	}

	d.Env = env

	return nil
}

func (d *Driver) runLetRec(item Item) {
	placeholders := make([]*values.Value, len(item.LetRecClauses))
	for i := range placeholders {
		placeholders[i] = &values.Value{}
	}

	newEnv := d.Env.PushAll(placeholders)

	for i, cl := range item.LetRecClauses {
		*placeholders[i] = values.Value{
			Kind:    values.KindClosure,
			Closure: &values.Closure{Env: newEnv, Param: cl.Param, Body: cl.Body},
		}
	}

	d.Env = newEnv
}

func (d *Driver) runFail(item Item) error {
	_, err := d.runComp(item.Body)
	if err == nil {
		d.diag.AddDiagnostic(diagnostic.Common.TopFailSucceeded(item.Loc))
		return nil
	}

	if we, ok := err.(*witnesserr.Error); ok && we.Fatal() {
		return we
	}

	d.report(item.Loc, err)

	return nil
}

func (d *Driver) runComp(body mlsyntax.Comp) (*values.Value, error) {
	return d.runCompIn(d.Env, body)
}

func (d *Driver) runCompIn(env *values.Env, body mlsyntax.Comp) (*values.Value, error) {
	return eval.Run(d.Sess, d.Base, env, body)
}

// recoverOrAbort reports a non-fatal error as a diagnostic and continues
// (returning nil), or propagates a fatal one to abort the run, per
// spec.md §7's recoverability column.
func (d *Driver) recoverOrAbort(loc position.Span, err error) error {
	if err == nil {
		return nil
	}

	if we, ok := err.(*witnesserr.Error); ok && we.Fatal() {
		return we
	}

	d.report(loc, err)

	return nil
}

// report records a user-recoverable error as a diagnostic against loc.
func (d *Driver) report(loc position.Span, err error) {
	we, ok := err.(*witnesserr.Error)
	if !ok {
		d.diag.AddDiagnostic(diagnostic.NewDiagnostic().Error().Kernel().Code("E_UNKNOWN").Message(err.Error()).Span(loc).Build())
		return
	}

	switch we.Kind {
	case witnesserr.MatchFail:
		d.diag.AddDiagnostic(diagnostic.Common.MatchFailed(loc, we.Message))
	case witnesserr.Typing:
		if we.Code == "E_UNKNOWN_IDENTIFIER" {
			d.diag.AddDiagnostic(diagnostic.Common.UnknownIdentifier(loc, we.Message))
			return
		}

		d.diag.AddDiagnostic(diagnostic.NewDiagnostic().Error().Typing().Code(we.Code).Message(we.Message).Span(loc).Build())
	default:
		d.diag.AddDiagnostic(diagnostic.NewDiagnostic().Error().RuntimeShape().Code(we.Code).Message(we.Message).Span(loc).Build())
	}
}
