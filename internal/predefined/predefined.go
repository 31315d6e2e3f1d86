// Package predefined registers the session-start default operations of
// spec.md §4.5: equal_term, equal_type, coerce, as_prod, as_eq, plus this
// module's as_sigma counterpart (SPEC_FULL.md §4.5). Each default handler
// is deliberately inert — it immediately yields None (or NotCoercible for
// coerce), "making the engine pure α-equality until the user extends it"
// — so all the interesting logic lives in whatever handler a user's own
// `with` installs closer to the operation site. This handler only catches
// what no closer handler does, per internal/eval's deep-handler forwarding.
package predefined

import (
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/values"
)

// Names lists every operation the runtime pre-registers, in spec.md §4.5's
// order plus the as_sigma expansion.
var Names = []string{"equal_term", "equal_type", "coerce", "as_prod", "as_eq", "as_sigma"}

// failureTag reports the tag a name's default handler yields on miss:
// NotCoercible for coerce, None for everything else.
func failureTag(name string) string {
	if name == "coerce" {
		return "NotCoercible"
	}

	return "None"
}

// Handler builds the base handler every toplevel driver installs around a
// top-level item's execution. It has no on_value or on_finally: a
// top-level item's own Return value and cleanup are the driver's concern,
// not this handler's.
func Handler() *values.Handler {
	onOp := make(map[string]values.OpCase, len(Names))

	for _, name := range Names {
		onOp[name] = values.OpCase{
			ArgParam: nil,
			Body: mlsyntax.Comp{
				Kind:      mlsyntax.CompYield,
				YieldExpr: mlsyntax.Expr{Kind: mlsyntax.ExprTag, TagName: failureTag(name)},
			},
		}
	}

	return &values.Handler{OnOp: onOp, Env: values.NewEnv(nil)}
}
