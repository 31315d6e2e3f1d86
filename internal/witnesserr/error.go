// Package witnesserr defines the error kinds of spec.md §7: a small,
// closed set of kernel/evaluator failure shapes rather than a general
// exception hierarchy, following the Category/Code/Message shape of the
// teacher's internal/errors.StandardError but with a strongly-typed field
// per kind instead of a map[string]interface{} grab-bag, since the kernel's
// error surface is small and fully enumerated up front.
package witnesserr

import (
	"fmt"

	"github.com/orizon-lang/orizon-witness/internal/position"
)

// Kind is one of the error kinds enumerated in spec.md §7.
type Kind string

const (
	// Typing is raised when the kernel or elaborator rejects a
	// construction: a type mismatch or an unknown identifier.
	Typing Kind = "TYPING"
	// Runtime is raised when the evaluator encounters an ill-formed
	// runtime shape, such as applying a non-closure.
	Runtime Kind = "RUNTIME"
	// InvalidEqualTerm is raised when a user equal_term handler returns a
	// proof of the wrong proposition.
	InvalidEqualTerm Kind = "INVALID_EQUAL_TERM"
	// InvalidEqualType mirrors InvalidEqualTerm for equal_type.
	InvalidEqualType Kind = "INVALID_EQUAL_TYPE"
	// InvalidCoerce is raised when a user coerce handler's Coercible
	// branch supplies a term of the wrong type.
	InvalidCoerce Kind = "INVALID_COERCE"
	// MatchFail is raised when no pattern in a Match matches its scrutinee.
	MatchFail Kind = "MATCH_FAIL"
	// Impossible marks a broken kernel invariant; it should never fire.
	Impossible Kind = "IMPOSSIBLE"
)

// Fatal reports whether errors of this kind unwind past any TopFail frame
// and abort the process, per spec.md §7's recoverability column.
func (k Kind) Fatal() bool {
	switch k {
	case InvalidEqualTerm, InvalidEqualType, InvalidCoerce, Impossible:
		return true
	default:
		return false
	}
}

// Error is the concrete error value every kernel and evaluator failure is
// reported as.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Loc     position.Span
}

// New builds an Error of the given kind.
func New(kind Kind, code, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// At attaches a source location to the error, following the builder-method
// style of the teacher's diagnostic.DiagnosticBuilder.
func (e *Error) At(loc position.Span) *Error {
	e.Loc = loc
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Loc.IsValid() {
		return fmt.Sprintf("%s: %s[%s]: %s", e.Loc.String(), e.Kind, e.Code, e.Message)
	}

	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Code, e.Message)
}

// Fatal reports whether this error is fatal, per Kind.Fatal.
func (e *Error) Fatal() bool {
	return e.Kind.Fatal()
}

// Impossiblef builds a fatal Impossible error for a broken kernel
// invariant. It should never actually be observed by a caller that
// respects the smart constructors' preconditions.
func Impossiblef(format string, args ...interface{}) *Error {
	return New(Impossible, "E_IMPOSSIBLE", format, args...)
}
