// Package diagnostic collects the non-fatal reports a session accumulates:
// TopFail-caught failures, kernel warnings, and the like. Fatal errors
// (spec.md §7) are returned directly as *witnesserr.Error and never pass
// through here — the Bag exists so a batch run can report every
// user-recoverable failure at the end, not just the first.
package diagnostic

import (
	"fmt"

	"github.com/orizon-lang/orizon-witness/internal/position"
)

// DiagnosticLevel represents the severity level of a diagnostic message.
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
	DiagnosticInfo
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticInfo:
		return "info"
	default:
		return "unknown"
	}
}

// DiagnosticCategory represents the category of diagnostic, aligned with
// the error kinds of spec.md §7.
type DiagnosticCategory int

const (
	DiagnosticTyping DiagnosticCategory = iota
	DiagnosticRuntimeShape
	DiagnosticMatchFail
	DiagnosticKernel
)

func (dc DiagnosticCategory) String() string {
	switch dc {
	case DiagnosticTyping:
		return "typing"
	case DiagnosticRuntimeShape:
		return "runtime"
	case DiagnosticMatchFail:
		return "match-fail"
	case DiagnosticKernel:
		return "kernel"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Code     string
	Title    string
	Message  string
	Span     position.Span
	Level    DiagnosticLevel
	Category DiagnosticCategory
}

// DiagnosticBuilder helps construct diagnostic messages with fluent API.
type DiagnosticBuilder struct {
	diagnostic *Diagnostic
}

// NewDiagnostic creates a new diagnostic builder.
func NewDiagnostic() *DiagnosticBuilder {
	return &DiagnosticBuilder{diagnostic: &Diagnostic{}}
}

func (db *DiagnosticBuilder) Error() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticError

	return db
}

func (db *DiagnosticBuilder) Warning() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticWarning

	return db
}

func (db *DiagnosticBuilder) Info() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticInfo

	return db
}

func (db *DiagnosticBuilder) Typing() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticTyping

	return db
}

func (db *DiagnosticBuilder) RuntimeShape() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticRuntimeShape

	return db
}

func (db *DiagnosticBuilder) MatchFail() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticMatchFail

	return db
}

func (db *DiagnosticBuilder) Kernel() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticKernel

	return db
}

func (db *DiagnosticBuilder) Code(code string) *DiagnosticBuilder {
	db.diagnostic.Code = code

	return db
}

func (db *DiagnosticBuilder) Title(title string) *DiagnosticBuilder {
	db.diagnostic.Title = title

	return db
}

func (db *DiagnosticBuilder) Message(message string) *DiagnosticBuilder {
	db.diagnostic.Message = message

	return db
}

func (db *DiagnosticBuilder) Span(span position.Span) *DiagnosticBuilder {
	db.diagnostic.Span = span

	return db
}

func (db *DiagnosticBuilder) Build() *Diagnostic {
	return db.diagnostic
}

// DiagnosticEngine manages the collection and processing of diagnostics.
type DiagnosticEngine struct {
	diagnostics []Diagnostic
	config      DiagnosticConfig
}

// DiagnosticConfig controls diagnostic behavior.
type DiagnosticConfig struct {
	IgnoreCategories []DiagnosticCategory
	IgnoreCodes      []string
	MaxErrors        int
	WarningsAsErrors bool
}

// NewDiagnosticEngine creates a new diagnostic engine.
func NewDiagnosticEngine(config DiagnosticConfig) *DiagnosticEngine {
	return &DiagnosticEngine{
		diagnostics: make([]Diagnostic, 0),
		config:      config,
	}
}

// AddDiagnostic adds a diagnostic to the engine.
func (de *DiagnosticEngine) AddDiagnostic(diagnostic *Diagnostic) {
	// Check if diagnostic should be ignored.
	if de.shouldIgnore(diagnostic) {
		return
	}

	// Convert warnings to errors if configured.
	if de.config.WarningsAsErrors && diagnostic.Level == DiagnosticWarning {
		diagnostic.Level = DiagnosticError
	}

	de.diagnostics = append(de.diagnostics, *diagnostic)

	// Stop adding diagnostics if max errors reached.
	if de.config.MaxErrors > 0 && len(de.GetErrors()) >= de.config.MaxErrors {
		// Add a special diagnostic indicating truncation.
		truncationDiag := NewDiagnostic().
			Error().
			Code("E0001").
			Title("Too many errors").
			Message(fmt.Sprintf("Stopping after %d errors", de.config.MaxErrors)).
			Build()
		de.diagnostics = append(de.diagnostics, *truncationDiag)
	}
}

// shouldIgnore checks if a diagnostic should be ignored based on config.
func (de *DiagnosticEngine) shouldIgnore(diagnostic *Diagnostic) bool {
	// Check ignored categories.
	for _, cat := range de.config.IgnoreCategories {
		if diagnostic.Category == cat {
			return true
		}
	}

	// Check ignored codes.
	for _, code := range de.config.IgnoreCodes {
		if diagnostic.Code == code {
			return true
		}
	}

	return false
}

// GetDiagnostics returns all diagnostics.
func (de *DiagnosticEngine) GetDiagnostics() []Diagnostic {
	return de.diagnostics
}

// GetErrors returns only error-level diagnostics.
func (de *DiagnosticEngine) GetErrors() []Diagnostic {
	errors := make([]Diagnostic, 0)

	for _, diag := range de.diagnostics {
		if diag.Level == DiagnosticError {
			errors = append(errors, diag)
		}
	}

	return errors
}

// HasErrors returns true if there are any errors.
func (de *DiagnosticEngine) HasErrors() bool {
	return len(de.GetErrors()) > 0
}

// Clear removes all diagnostics.
func (de *DiagnosticEngine) Clear() {
	de.diagnostics = de.diagnostics[:0]
}

// CommonDiagnostics provides factory functions for the diagnostics the
// toplevel driver and evaluator raise most often.
type CommonDiagnostics struct{}

// UnknownIdentifier creates a diagnostic for a signature lookup miss.
func (cd *CommonDiagnostics) UnknownIdentifier(span position.Span, name string) *Diagnostic {
	return NewDiagnostic().
		Error().
		Typing().
		Code("E1001").
		Title("Unknown identifier").
		Message(fmt.Sprintf("%q is not declared in the signature", name)).
		Span(span).
		Build()
}

// MatchFailed creates a diagnostic for a Match with no matching case.
func (cd *CommonDiagnostics) MatchFailed(span position.Span, scrutinee string) *Diagnostic {
	return NewDiagnostic().
		Error().
		MatchFail().
		Code("E1003").
		Title("Match failed").
		Message(fmt.Sprintf("no case matched %s", scrutinee)).
		Span(span).
		Build()
}

// TopFailSucceeded creates a diagnostic for a TopFail whose body
// unexpectedly succeeded (spec.md §4.6).
func (cd *CommonDiagnostics) TopFailSucceeded(span position.Span) *Diagnostic {
	return NewDiagnostic().
		Error().
		Kernel().
		Code("E1004").
		Title("fail did not fail").
		Message("computation inside `fail` completed without raising an error").
		Span(span).
		Build()
}

// RequireVersionMismatch creates a diagnostic for a require directive whose
// resolved manifest version does not satisfy the requested constraint.
func (cd *CommonDiagnostics) RequireVersionMismatch(span position.Span, path, constraint, got string) *Diagnostic {
	return NewDiagnostic().
		Error().
		Kernel().
		Code("E1005").
		Title("require version mismatch").
		Message(fmt.Sprintf("%s@%s: manifest declares version %s", path, constraint, got)).
		Span(span).
		Build()
}

// Global instance for convenience.
var Common = &CommonDiagnostics{}
