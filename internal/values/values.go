// Package values is the runtime value union of spec.md §3: what a computed
// expression or computation reduces to. It sits above internal/signature
// and internal/mlsyntax (a Closure captures an *Env, which holds a
// signature) and below internal/eval, which is the only package that
// constructs Closure/Handler bodies from live Comp trees.
package values

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon-witness/internal/jdg"
	"github.com/orizon-lang/orizon-witness/internal/mlsyntax"
	"github.com/orizon-lang/orizon-witness/internal/signature"
)

// Kind discriminates the runtime value variants of spec.md §3.
type Kind int

const (
	KindJudgement Kind = iota
	KindClosure
	KindHandler
	KindTag
	KindTuple
	KindList
	KindString
	KindRef
	KindDyn
	// KindInt is an integer primitive. spec.md §3 names String explicitly
	// among the value union's primitives; Int follows the same treatment
	// and backs internal/mlsyntax's ExprPrimOp arithmetic.
	KindInt
)

// Value is a single tagged-union runtime value.
type Value struct {
	Kind Kind

	Judgement *jdg.Judgement

	Closure *Closure

	Handler *Handler

	TagName string
	TagArgs []*Value

	TupleElems []*Value
	ListElems  []*Value

	StringVal string
	IntVal    int

	RefID int
	DynID int
}

// Closure pairs a captured environment with a single-parameter function
// body, per spec.md §3's `Closure(env, pattern, body)`.
type Closure struct {
	Env   *Env
	Param *mlsyntax.Pattern
	Body  mlsyntax.Comp
}

// HandlerCase is one `pattern → body` arm of a handler record.
type HandlerCase struct {
	Param *mlsyntax.Pattern
	Body  mlsyntax.Comp
}

// OpCase is one operation-handling arm. Resumption is implicit: the body
// calls Yield to hand a value back to the operation's caller rather than
// naming a continuation variable, per spec.md §4.3.
type OpCase struct {
	ArgParam *mlsyntax.Pattern
	Body     mlsyntax.Comp
}

// Handler is the record `{on_value, on_op, on_finally}` of spec.md §3.
type Handler struct {
	OnValue   *HandlerCase
	OnOp      map[string]OpCase
	OnFinally *HandlerCase
	Env       *Env
}

// Env is the evaluator's environment: a stack of runtime values indexed by
// de Bruijn level, plus the process-wide signature. The handler stack
// itself is not stored here — it falls naturally out of Go's own call
// stack in internal/eval's CPS-style dispatch (see that package's doc
// comment).
type Env struct {
	bindings []*Value
	Sig      *signature.Signature
}

// NewEnv returns an environment rooted at sig with no bindings.
func NewEnv(sig *signature.Signature) *Env {
	return &Env{Sig: sig}
}

// Push extends env with one more binding at the next de Bruijn level,
// returning a new Env that shares the underlying signature and reference
// store but has its own binding stack (Extend never mutates its receiver,
// so a captured closure's Env is unaffected by bindings made after capture).
func (e *Env) Push(v *Value) *Env {
	out := make([]*Value, len(e.bindings)+1)
	copy(out, e.bindings)
	out[len(e.bindings)] = v

	return &Env{bindings: out, Sig: e.Sig}
}

// PushAll extends env with several bindings at once, in order.
func (e *Env) PushAll(vs []*Value) *Env {
	out := e
	for _, v := range vs {
		out = out.Push(v)
	}

	return out
}

// Lookup resolves a de Bruijn level (0 = outermost binding, matching the
// order bindings were pushed) to its value.
func (e *Env) Lookup(level int) *Value {
	return e.bindings[level]
}

// Depth reports how many bindings are in scope.
func (e *Env) Depth() int {
	return len(e.bindings)
}

// MkJudgement wraps a kernel judgement as a runtime value.
func MkJudgement(j *jdg.Judgement) *Value { return &Value{Kind: KindJudgement, Judgement: j} }

// MkClosure wraps a closure as a runtime value.
func MkClosure(c *Closure) *Value { return &Value{Kind: KindClosure, Closure: c} }

// MkHandler wraps a handler as a runtime value.
func MkHandler(h *Handler) *Value { return &Value{Kind: KindHandler, Handler: h} }

// MkTag builds a tagged constructor value, e.g. `Some(v)` or `None`.
func MkTag(name string, args ...*Value) *Value {
	return &Value{Kind: KindTag, TagName: name, TagArgs: args}
}

// MkTuple builds a tuple value.
func MkTuple(elems ...*Value) *Value { return &Value{Kind: KindTuple, TupleElems: elems} }

// MkList builds a list value.
func MkList(elems ...*Value) *Value { return &Value{Kind: KindList, ListElems: elems} }

// MkString builds a string value.
func MkString(s string) *Value { return &Value{Kind: KindString, StringVal: s} }

// MkInt builds an integer value.
func MkInt(n int) *Value { return &Value{Kind: KindInt, IntVal: n} }

// MkRef builds a reference-cell handle value.
func MkRef(id int) *Value { return &Value{Kind: KindRef, RefID: id} }

// MkDyn builds a dynamic-cell handle value.
func MkDyn(id int) *Value { return &Value{Kind: KindDyn, DynID: id} }

// String renders v for diagnostics and CLI output; it is not a surface
// pretty-printer (spec.md §1 puts that out of scope) and its format is not
// part of any contract.
func (v *Value) String() string {
	switch v.Kind {
	case KindJudgement:
		return fmt.Sprintf("<judgement %v>", v.Judgement.Form())

	case KindClosure:
		return "<closure>"

	case KindHandler:
		return "<handler>"

	case KindTag:
		if len(v.TagArgs) == 0 {
			return v.TagName
		}

		parts := make([]string, len(v.TagArgs))
		for i, a := range v.TagArgs {
			parts[i] = a.String()
		}

		return fmt.Sprintf("%s(%s)", v.TagName, strings.Join(parts, ", "))

	case KindTuple:
		parts := make([]string, len(v.TupleElems))
		for i, e := range v.TupleElems {
			parts[i] = e.String()
		}

		return fmt.Sprintf("(%s)", strings.Join(parts, ", "))

	case KindList:
		parts := make([]string, len(v.ListElems))
		for i, e := range v.ListElems {
			parts[i] = e.String()
		}

		return fmt.Sprintf("[%s]", strings.Join(parts, ", "))

	case KindString:
		return fmt.Sprintf("%q", v.StringVal)

	case KindInt:
		return fmt.Sprintf("%d", v.IntVal)

	case KindRef:
		return fmt.Sprintf("<ref %d>", v.RefID)

	case KindDyn:
		return fmt.Sprintf("<dyn %d>", v.DynID)

	default:
		return "<value>"
	}
}

// IsSome reports whether v is `Some(x)` and returns x.
func IsSome(v *Value) (*Value, bool) {
	if v.Kind == KindTag && v.TagName == "Some" && len(v.TagArgs) == 1 {
		return v.TagArgs[0], true
	}

	return nil, false
}
