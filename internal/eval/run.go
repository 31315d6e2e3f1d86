package eval

import (
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/values"
	"github.com/orizon-lang/orizon-witness/internal/witnesserr"
)

// Run drives body to completion under handler h and returns its value,
// for a caller (internal/toplevel) that needs a single synchronous result
// rather than composing further with an outer With. An operation h does
// not cover reaching this point means no handler anywhere in scope caught
// it — the toplevel driver's base handler (internal/predefined) is meant
// to be exactly that backstop, so this is reported as a Runtime error
// rather than left to suspend forever.
func Run(sess *Session, h *values.Handler, env *values.Env, body mlsyntax.Comp) (*values.Value, error) {
	run := func() (*Outcome, error) { return EvalComp(sess, env, body, doneOutcome, nil) }

	outcome, err := handle(sess, h, run, doneOutcome)
	if err != nil {
		return nil, err
	}

	if outcome.Op != nil {
		return nil, witnesserr.New(witnesserr.Runtime, "E_UNHANDLED_OPERATION",
			"operation %q reached the top-level driver with no handler", outcome.Op.Name).At(body.Loc)
	}

	return outcome.Done, nil
}
