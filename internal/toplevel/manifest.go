package toplevel

import (
	"context"
	"sync"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/orizon-witness/internal/diagnostic"
	"github.com/orizon-lang/orizon-witness/internal/position"
	"github.com/orizon-lang/orizon-witness/internal/witnesserr"
)

// Require is one `require path@constraint` directive, per SPEC_FULL.md
// §4.6's manifest resolution expansion.
type Require struct {
	Path       string
	Constraint *semver.Constraints
	Loc        position.Span
}

// Module is a fully desugared unit sourced from one required file, along
// with the version its loader shim parsed from that file's single
// `;; version: x.y.z` manifest header line (nil if the file carried none).
// toplevel never parses source text itself; Module is the boundary an
// external loader crosses to hand the driver something to run — grounded
// on internal/packagemanager/resolver.go's separation between constraint
// matching (here) and manifest discovery (the loader shim).
type Module struct {
	Path     string
	Version  *semver.Version
	Requires []Require
	Items    []Item
}

// Fetcher loads the Module named by path, independent of any other module.
// Concurrent, independent Fetcher calls are safe to run in parallel — the
// only shared state they may touch is read-only source text.
type Fetcher func(ctx context.Context, path string) (*Module, error)

// LoadModules resolves roots and everything they transitively require into
// a single ordered Item stream, checking each Require's constraint against
// the fetched module's declared Version. Independent requires at each
// level are fetched concurrently via errgroup (SPEC_FULL.md §4.6); the
// concurrency is confined to this I/O and version-check phase; the
// resulting stream still executes strictly sequentially through Driver.Run,
// preserving spec.md §5's single-threaded evaluator invariant.
func LoadModules(ctx context.Context, roots []string, fetch Fetcher, diag *diagnostic.DiagnosticEngine) ([]Item, error) {
	ld := &loader{fetch: fetch, diag: diag, visited: make(map[string]*Module), pending: make(map[string]bool)}

	items := make([]Item, 0)

	for _, root := range roots {
		m, err := ld.load(ctx, root, nil)
		if err != nil {
			return nil, err
		}

		items = append(items, m.Items...)
	}

	return items, nil
}

// loader carries the fetch/report callbacks and the shared visited-module
// cache across a LoadModules call. visited and pending are written from
// concurrent errgroup goroutines fetching sibling requires, so every access
// goes through mu.
type loader struct {
	fetch Fetcher
	diag  *diagnostic.DiagnosticEngine

	mu      sync.Mutex
	visited map[string]*Module
	// pending marks a path whose load is still in flight (fetched but not
	// yet resolved through its own requires): a require reaching a pending
	// path is a cycle, since visited is only populated once a load fully
	// completes.
	pending map[string]bool
}

func (ld *loader) get(path string) (*Module, bool) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	m, ok := ld.visited[path]

	return m, ok
}

func (ld *loader) put(path string, m *Module) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	delete(ld.pending, path)
	ld.visited[path] = m
}

// enter registers path as in-flight, reporting a cycle if it already is.
func (ld *loader) enter(path string) *witnesserr.Error {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	if ld.pending[path] {
		return witnesserr.New(witnesserr.Runtime, "E_REQUIRE_CYCLE", "%s: require cycle detected", path)
	}

	ld.pending[path] = true

	return nil
}

func (ld *loader) leave(path string) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	delete(ld.pending, path)
}

func (ld *loader) load(ctx context.Context, path string, req *Require) (*Module, error) {
	if m, ok := ld.get(path); ok {
		return m, nil
	}

	if err := ld.enter(path); err != nil {
		if req != nil {
			return nil, err.At(req.Loc)
		}

		return nil, err
	}
	defer ld.leave(path)

	m, err := ld.fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	if req != nil && req.Constraint != nil {
		if m.Version == nil || !req.Constraint.Check(m.Version) {
			got := "none"
			if m.Version != nil {
				got = m.Version.String()
			}

			ld.diag.AddDiagnostic(diagnostic.Common.RequireVersionMismatch(req.Loc, path, req.Constraint.String(), got))

			return nil, witnesserr.New(witnesserr.Runtime, "E_REQUIRE_VERSION_MISMATCH",
				"%s: manifest declares version %s, which does not satisfy %s", path, got, req.Constraint.String()).At(req.Loc)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	children := make([]*Module, len(m.Requires))

	for i, sub := range m.Requires {
		g.Go(func() error {
			child, err := ld.load(gctx, sub.Path, &sub)
			if err != nil {
				return err
			}

			children[i] = child

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	flattened := make([]Item, 0, len(m.Items))
	for _, child := range children {
		flattened = append(flattened, child.Items...)
	}

	flattened = append(flattened, m.Items...)
	m.Items = flattened

	ld.put(path, m)

	return m, nil
}
