// Package eval is the cooperative interpreter of spec.md §4.3: a
// direct-style, continuation-passing evaluator over internal/mlsyntax's
// Comp/Expr trees. Operations suspend by returning an Outcome carrying a
// PendingOp instead of calling their continuation; a `With` node resumes
// the suspended computation by invoking that continuation from inside its
// own handler-dispatch loop. This realizes spec.md §9's "CPS transform of
// computations" without goroutines: Go's own call stack does the work, and
// a continuation is just a Go closure captured at the point of suspension —
// grounded on the way daios-ai-msg's Interpreter threads an *Env through a
// tree-walking Eval.
package eval

import (
	"github.com/orizon-lang/orizon-witness/internal/atom"
	"github.com/orizon-lang/orizon-witness/internal/diagnostic"
	"github.com/orizon-lang/orizon-witness/internal/signature"
	"github.com/orizon-lang/orizon-witness/internal/values"
)

// Session is the process-wide mutable state spec.md §5 says only the
// evaluator touches: the signature table, atom counter, reference and
// dynamic stores, and the diagnostic sink top-level failures accumulate
// into. It is never accessed concurrently, so none of its fields need
// locking.
type Session struct {
	Sig         *signature.Signature
	Atoms       *atom.Table
	Diagnostics *diagnostic.DiagnosticEngine

	refs       map[int]*values.Value
	dynStacks  map[int][]*values.Value
	dynByName  map[string]int
	nextCellID int
}

// NewSession creates a fresh session over sig with empty reference and
// dynamic stores.
func NewSession(sig *signature.Signature, diag *diagnostic.DiagnosticEngine) *Session {
	return &Session{
		Sig:         sig,
		Atoms:       atom.NewTable(),
		Diagnostics: diag,
		refs:        make(map[int]*values.Value),
		dynStacks:   make(map[int][]*values.Value),
		dynByName:   make(map[string]int),
	}
}

// NewCell allocates a fresh reference-cell identifier.
func (s *Session) NewCell() int {
	id := s.nextCellID
	s.nextCellID++

	return id
}

// RefGet reads the current value of a reference cell.
func (s *Session) RefGet(id int) *values.Value { return s.refs[id] }

// RefSet performs an immediate, irreversible reference update.
func (s *Session) RefSet(id int, v *values.Value) { s.refs[id] = v }

// DeclareDynamic registers a dynamic cell under name with an initial
// default value, per a TopDynamic toplevel item. It is idempotent: a
// second declaration under the same name only replaces the base of the
// stack, never an already-pushed Now frame.
func (s *Session) DeclareDynamic(name string, initial *values.Value) int {
	id, ok := s.dynByName[name]
	if !ok {
		id = s.NewCell()
		s.dynByName[name] = id
	}

	if len(s.dynStacks[id]) == 0 {
		s.dynStacks[id] = []*values.Value{initial}
	} else {
		s.dynStacks[id][0] = initial
	}

	return id
}

// DynID resolves a dynamic's declared name to its cell id.
func (s *Session) DynID(name string) int {
	id, ok := s.dynByName[name]
	if !ok {
		id = s.NewCell()
		s.dynByName[name] = id
	}

	return id
}

// DynPush pushes a new value onto dynamic cell id, per a Now's entry.
func (s *Session) DynPush(id int, v *values.Value) {
	s.dynStacks[id] = append(s.dynStacks[id], v)
}

// DynPop restores the previous value of dynamic cell id, per a Now's exit
// (normal or error).
func (s *Session) DynPop(id int) {
	stack := s.dynStacks[id]
	if len(stack) > 0 {
		s.dynStacks[id] = stack[:len(stack)-1]
	}
}

// DynCurrent reads the top of dynamic cell id's stack.
func (s *Session) DynCurrent(id int) *values.Value {
	stack := s.dynStacks[id]
	if len(stack) == 0 {
		return nil
	}

	return stack[len(stack)-1]
}

// SetTopDefault updates a dynamic's stack-bottom value in place, per
// TopNow (spec.md §4.6): it changes what later top-level items see as the
// default, without disturbing any Now frame currently on the stack (there
// should be none between top-level items).
func (s *Session) SetTopDefault(name string, v *values.Value) {
	id := s.DynID(name)
	if len(s.dynStacks[id]) == 0 {
		s.dynStacks[id] = []*values.Value{v}
	} else {
		s.dynStacks[id][0] = v
	}
}
