// Package signature is the global environment of spec.md §3: an
// insertion-ordered mapping from identifier to declaration variant. It sits
// below the evaluator and runtime-value packages in the dependency order of
// spec.md §2, so declarations that carry a runtime payload (MLValue) hold it
// as interface{} rather than importing internal/values — avoiding an import
// cycle the other way.
package signature

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/orizon-witness/internal/tt"
)

// Constant declares an opaque term of a given type, usable via jdg.UseConstant.
type Constant struct {
	Type *tt.Type
}

// Rule declares a user inference rule as a named list of premise judgement
// shapes and a conclusion shape. Per SPEC_FULL.md §4.2/§9, both the
// structure/signature surface and the rule-declaration surface lower to this
// one representation; the premise/conclusion shapes themselves are supplied
// by the upstream elaborator (surface parsing is out of scope) and are
// opaque descriptive strings here — the signature only records that the
// rule exists and under what name, for the evaluator's operation-dispatch
// layer to interpret.
type Rule struct {
	Premises   []string
	Conclusion string
}

// MLOperation declares an algebraic-effect operation's argument and result
// ML types (again opaque type descriptors, since the ML type surface is
// consumed from outside per spec.md §4.3).
type MLOperation struct {
	ArgTypes   []string
	ResultType string
}

// MLValue declares a top-level ML value: a type scheme and its already-
// evaluated runtime payload.
type MLValue struct {
	Scheme string
	Value  interface{}
}

// Dynamic declares a dynamic cell's identity and default value, before any
// Now has pushed onto it.
type Dynamic struct {
	CellID       int
	DefaultValue interface{}
}

// Decl is the sealed declaration-variant union; exactly one of its fields is
// non-nil for a well-formed entry.
type Decl struct {
	Constant *Constant
	Rule     *Rule
	Op       *MLOperation
	Value    *MLValue
	Dyn      *Dynamic

	// RequireVersion is set when this entry was loaded from a `require
	// path@constraint` directive (SPEC_FULL.md §4.6); nil for entries
	// declared directly in the toplevel item stream being evaluated.
	RequireVersion *semver.Constraints
}

// Signature is the process-wide, insertion-ordered global environment.
type Signature struct {
	entries map[string]Decl
	order   []string
}

// New returns an empty signature.
func New() *Signature {
	return &Signature{entries: make(map[string]Decl)}
}

// Declare inserts or overwrites the declaration for name, appending it to
// the insertion order only the first time name is seen.
func (s *Signature) Declare(name string, d Decl) {
	if _, exists := s.entries[name]; !exists {
		s.order = append(s.order, name)
	}

	s.entries[name] = d
}

// Lookup returns the declaration bound to name, if any.
func (s *Signature) Lookup(name string) (Decl, bool) {
	d, ok := s.entries[name]
	return d, ok
}

// LookupConstant is UseConstant's helper: it resolves name to its declared
// type, failing if name is undeclared or not a Constant.
func (s *Signature) LookupConstant(name string) (*tt.Type, error) {
	d, ok := s.entries[name]
	if !ok || d.Constant == nil {
		return nil, fmt.Errorf("signature: %q is not a declared constant", name)
	}

	return d.Constant.Type, nil
}

// Names returns every declared identifier in insertion order.
func (s *Signature) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}

// CheckRequireVersion reports whether got satisfies the constraint recorded
// against name's declaration, per SPEC_FULL.md §4.6's manifest resolution.
// A name with no recorded RequireVersion always satisfies.
func (s *Signature) CheckRequireVersion(name string, got *semver.Version) (bool, error) {
	d, ok := s.entries[name]
	if !ok {
		return false, fmt.Errorf("signature: %q is not declared", name)
	}

	if d.RequireVersion == nil {
		return true, nil
	}

	return d.RequireVersion.Check(got), nil
}
