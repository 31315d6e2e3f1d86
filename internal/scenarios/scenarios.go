// Package scenarios builds a handful of named, hand-constructed Item
// streams exercising the end-to-end behaviors of spec.md §8 that need no
// term-level (internal/tt/internal/jdg) machinery to demonstrate: dynamic
// scoping and the handler-continuation protocol. The kernel-level
// scenarios (β/η for products, equality-proof commutativity, failure
// propagation over an ill-typed application) are exercised as package
// tests closer to the code they exercise (internal/jdg, internal/eval)
// rather than here, since building their term trees is exactly the
// elaborator's job spec.md §1 puts out of scope for a hand-authored CLI
// demo.
package scenarios

import (
	"fmt"

	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/toplevel"
)

// Names lists the scenarios Build recognizes.
var Names = []string{"dynamic-scoping", "handler-continuation"}

// Build returns the Item stream for a named scenario, or an error if name
// is not one of Names.
func Build(name string) ([]toplevel.Item, error) {
	switch name {
	case "dynamic-scoping":
		return dynamicScoping(), nil
	case "handler-continuation":
		return handlerContinuation(), nil
	default:
		return nil, fmt.Errorf("scenarios: unknown scenario %q (available: %v)", name, Names)
	}
}

// dynamicScoping builds spec.md §8 scenario 4:
//
//	now d = "v" in (now d = "w" in current d) ; current d
//
// as two TopDo items sharing one dynamic, so the outer read after the
// inner Now exits observes "v" again.
func dynamicScoping() []toplevel.Item {
	innerRead := mlsyntax.Comp{Kind: mlsyntax.CompCurrent, CurrentDynamic: "d"}

	innerNow := mlsyntax.Comp{
		Kind:       mlsyntax.CompNow,
		NowDynamic: "d",
		NowValue:   strLit("w"),
		NowBody:    innerRead,
	}

	outerRead := mlsyntax.Comp{Kind: mlsyntax.CompCurrent, CurrentDynamic: "d"}

	outerNow := mlsyntax.Comp{
		Kind:       mlsyntax.CompNow,
		NowDynamic: "d",
		NowValue:   strLit("v"),
		NowBody: mlsyntax.Comp{
			Kind:           mlsyntax.CompSequence,
			SequenceFirst:  innerNow,
			SequenceSecond: outerRead,
		},
	}

	return []toplevel.Item{
		{Kind: toplevel.TopDynamic, DynamicName: "d", DynamicInit: strLit("<unset>")},
		{Kind: toplevel.TopDo, Body: outerNow},
	}
}

// handlerContinuation builds spec.md §8 scenario 5:
//
//	with (handler | op x -> yield (x+1)) handle (op 41)
//
// which should evaluate to 42, the handler running once and its
// continuation resuming with the yielded value.
func handlerContinuation() []toplevel.Item {
	xVar := mlsyntax.Expr{Kind: mlsyntax.ExprVar, VarLevel: 0, VarHint: "x"}

	onOpBody := mlsyntax.Comp{
		Kind: mlsyntax.CompYield,
		YieldExpr: mlsyntax.Expr{
			Kind:       mlsyntax.ExprPrimOp,
			PrimOpName: "add",
			PrimOpArgs: []mlsyntax.Expr{xVar, intLit(1)},
		},
	}

	handlerExpr := mlsyntax.Expr{
		Kind: mlsyntax.ExprHandler,
		HandlerOnOp: []mlsyntax.HandlerClause{
			{Operation: "op", Param: &mlsyntax.Pattern{Kind: mlsyntax.PattVar, VarHint: "x"}, Body: onOpBody},
		},
	}

	body := mlsyntax.Comp{
		Kind:        mlsyntax.CompWith,
		WithHandler: handlerExpr,
		WithBody: mlsyntax.Comp{
			Kind:          mlsyntax.CompOperation,
			OperationName: "op",
			OperationArgs: []mlsyntax.Expr{intLit(41)},
		},
	}

	return []toplevel.Item{
		{Kind: toplevel.TopDo, Body: body},
	}
}

func strLit(s string) mlsyntax.Expr {
	return mlsyntax.Expr{Kind: mlsyntax.ExprLiteral, LiteralString: &s}
}

func intLit(n int) mlsyntax.Expr {
	return mlsyntax.Expr{Kind: mlsyntax.ExprLiteral, LiteralInt: &n}
}
