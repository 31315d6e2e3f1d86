package predefined

import (
	"testing"

	"github.com/orizon-lang/orizon-witness/internal/diagnostic"
	"github.com/orizon-lang/orizon-witness/internal/eval"
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/signature"
	"github.com/orizon-lang/orizon-witness/internal/values"
)

// TestDefaultsYieldFailureTags confirms every registered default operation
// is inert: raising it under nothing but the base handler always yields the
// documented miss tag, never a proof.
func TestDefaultsYieldFailureTags(t *testing.T) {
	sess := eval.NewSession(signature.New(), diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{}))
	env := values.NewEnv(signature.New())
	h := Handler()

	for _, name := range Names {
		body := mlsyntax.Comp{Kind: mlsyntax.CompOperation, OperationName: name}

		v, err := eval.Run(sess, h, env, body)
		if err != nil {
			t.Fatalf("operation %q: %v", name, err)
		}

		want := "None"
		if name == "coerce" {
			want = "NotCoercible"
		}

		if v.Kind != values.KindTag || v.TagName != want {
			t.Fatalf("operation %q: expected default handler to yield %s, got %v", name, want, v)
		}
	}
}

func TestHandlerCoversExactlyDeclaredNames(t *testing.T) {
	h := Handler()

	if len(h.OnOp) != len(Names) {
		t.Fatalf("expected %d registered defaults, got %d", len(Names), len(h.OnOp))
	}

	for _, name := range Names {
		if _, ok := h.OnOp[name]; !ok {
			t.Fatalf("Handler is missing a default case for %q", name)
		}
	}
}
