// Package toplevel drives the item stream of spec.md §4.6: TopLet,
// TopLetRec, TopDo, TopFail, TopDynamic, TopNow, and signature declarations
// (DeclOperation and rule/constant declarations), each executed in turn
// against a persistent global environment. It never parses source text —
// callers hand it already-desugared mlsyntax trees, exactly the External
// Interfaces boundary spec.md §1 draws.
package toplevel

import (
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/position"
	"github.com/orizon-lang/orizon-witness/internal/signature"
)

// ItemKind discriminates the toplevel item variants of spec.md §4.6.
type ItemKind int

const (
	TopLet ItemKind = iota
	TopLetRec
	TopDo
	TopFail
	TopDynamic
	TopNow
	DeclSignature
)

// Item is one desugared toplevel unit. Exactly one Kind-specific field
// group is populated per Kind, mirroring internal/mlsyntax.Comp's layout.
type Item struct {
	Kind ItemKind
	Loc  position.Span

	// TopLet
	LetBindings []mlsyntax.LetBinding

	// TopLetRec
	LetRecClauses []mlsyntax.LetRecClause

	// TopDo / TopFail
	Body mlsyntax.Comp

	// TopDynamic
	DynamicName string
	DynamicInit mlsyntax.Expr

	// TopNow
	NowDynamic string
	NowValue   mlsyntax.Expr

	// DeclSignature: a Rule, Constant, MLOperation, MLValue, or Dynamic
	// declaration, registered directly into the Signature without any
	// evaluation. DeclOperation from spec.md §4.6 is the MLOperation case
	// of this same variant.
	DeclName string
	Decl     signature.Decl
}
