// Package mlsyntax defines the desugared computation, expression and
// pattern trees the evaluator consumes, per spec.md §4.3/§6. Surface
// parsing and desugaring are out of scope (spec.md §1): nothing in this
// module produces these trees from source text. Toplevel drivers and tests
// build them directly, the way an upstream elaborator's desugaring pass
// would.
package mlsyntax

import (
	"github.com/orizon-lang/orizon-witness/internal/position"
)

// CompKind discriminates the Comp variants of spec.md §4.3.
type CompKind int

const (
	CompReturn CompKind = iota
	CompLet
	CompLetRec
	CompMatch
	CompOperation
	CompWith
	CompYield
	CompRef
	CompLookup
	CompUpdate
	CompNow
	CompCurrent
	CompAscribe
	CompAbstract
	CompSubstitute
	CompSequence
	// CompApply invokes a closure value against an argument. Not part of
	// spec.md §4.3's own Key Operations list, but required to make the
	// runtime value union's Closure variant (and ExprFunction/LetRec, which
	// both build one) actually callable — a language runtime whose function
	// values can never be invoked is not a complete one. Grounded the same
	// way ExprPrimOp fills the arithmetic spec.md's scenarios need without
	// broadening the surface grammar it doesn't define.
	CompApply
)

// LetBinding is one (pattern, computation) pair of a Let's binding list.
type LetBinding struct {
	Pattern *Pattern
	Value   Comp
}

// LetRecClause is one mutually-recursive binding of a LetRec.
type LetRecClause struct {
	Name string
	Param *Pattern
	Body Comp
}

// MatchCase is one (pattern, body) arm of a Match.
type MatchCase struct {
	Pattern *Pattern
	Body    Comp
}

// Comp is a desugared computation node. Exactly one Kind-specific field
// group is populated per Kind, mirroring internal/tt.Term's layout.
type Comp struct {
	Kind CompKind
	Loc  position.Span

	ReturnExpr Expr

	LetBindings []LetBinding
	LetBody     Comp

	LetRecClauses []LetRecClause
	LetRecBody    Comp

	MatchScrutinee Expr
	MatchCases     []MatchCase

	OperationName string
	OperationArgs []Expr

	WithHandler Expr
	WithBody    Comp

	YieldExpr Expr

	RefInit Expr

	LookupRef Expr

	UpdateRef Expr
	UpdateVal Expr

	NowDynamic string
	NowValue   Expr
	NowBody    Comp

	CurrentDynamic string

	AscribeBody Comp
	AscribeType Comp

	AbstractAtoms []string
	AbstractBody  Comp

	SubstituteBody Comp
	SubstituteArgs []Comp

	SequenceFirst  Comp
	SequenceSecond Comp

	ApplyFunc Expr
	ApplyArg  Expr
}

// ExprKind discriminates the Expr variants: expressions are pure and
// evaluate to a value in the current environment without performing
// effects.
type ExprKind int

const (
	ExprVar ExprKind = iota
	ExprLiteral
	ExprFunction
	ExprHandler
	ExprTag
	ExprTuple
	ExprList
	ExprThunk
	// ExprPrimOp applies a small fixed set of arithmetic/comparison
	// primitives to integer literals — not part of spec.md's Expr grammar
	// verbatim, but required to express the arithmetic the end-to-end
	// scenarios of spec.md §8 use (e.g. `x+1` in the handler-continuation
	// scenario), and consistent with the way an ML-like language's
	// desugarer lowers infix operators to primop applications.
	ExprPrimOp
	// ExprDynHandle evaluates to the first-class `Dyn(cell_id)` runtime
	// value spec.md §3 lists alongside `Ref(cell_id)`. CompRef is the only
	// existing constructor of a cell handle, and it allocates as it goes;
	// a dynamic's cell already exists once TopDynamic has declared it, so
	// obtaining its handle needs no effect and belongs here rather than
	// in Comp.
	ExprDynHandle
	// ExprConstant resolves a name declared in the signature (spec.md §2's
	// Constant declaration) to the `c : declaredTy` judgement jdg.UseConstant
	// witnesses. It is the only way a Comp/Expr tree can reference a
	// signature constant by name; an undeclared name is a checking-time
	// error, not a panic.
	ExprConstant
)

// HandlerClause is one operation case of a handler expression, `op x → body`.
type HandlerClause struct {
	Operation string
	Param     *Pattern
	Body      Comp
}

// Expr is a desugared pure expression node.
type Expr struct {
	Kind ExprKind
	Loc  position.Span

	VarLevel int
	VarHint  string

	LiteralString *string
	LiteralInt    *int

	FunctionParam *Pattern
	FunctionBody  Comp

	HandlerOnValue   *HandlerClause
	HandlerOnOp      []HandlerClause
	HandlerOnFinally *HandlerClause

	TagName string
	TagArgs []Expr

	TupleElems []Expr
	ListElems  []Expr

	// ThunkComp wraps a Comp as a value-level closure with no parameter,
	// used to build the `t_comp` argument of Ascribe without adding a
	// second computation slot to Comp itself.
	ThunkComp Comp

	PrimOpName string
	PrimOpArgs []Expr

	DynHandleName string

	ConstantName string
}

// PatternKind discriminates ML patterns from TT patterns, per spec.md §6's
// two disjoint syntactic classes.
type PatternKind int

const (
	PattVar PatternKind = iota
	PattWildcard
	PattTag
	PattTuple
	PattList
	PattAs
	PattJudgement

	PattTTAnonymous
	PattTTVar
	PattTTAs
	PattTTTagged
	PattTTIsType
	PattTTIsTerm
	PattTTEqType
	PattTTEqTerm
	PattTTAbstraction
	// PattTTMeta is the `?X` metavariable pattern of spec.md §4.3: it binds
	// both the matched subterm and its type into the environment, keyed by
	// a (judgement form, type pattern) position.
	PattTTMeta
)

// Pattern is a desugared pattern node, either ML- or TT-flavored depending
// on Kind.
type Pattern struct {
	Kind PatternKind
	Loc  position.Span

	VarHint string

	TagName string
	TagArgs []*Pattern

	TupleElems []*Pattern
	ListElems  []*Pattern

	AsName    string
	AsPattern *Pattern

	// JudgementForm restricts PattJudgement/PattTTIsType.../PattTTMeta to a
	// specific judgement shape; unused by the purely-ML pattern kinds.
	JudgementForm string

	TTSub  *Pattern
	TTType *Pattern

	MetaName string
}
