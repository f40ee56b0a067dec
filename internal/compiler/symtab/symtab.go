// Package symtab implements the hierarchical symbol table: an
// ordered stack of scopes, each mapping identifier to
// declaration reference, with outer scopes shadowed by inner ones and
// a caller-supplied override policy deciding what happens when an
// identifier is re-declared in the same scope.
package symtab

import "github.com/btouchard/shaderx/internal/compiler/ast"

// ScopeKind tags what kind of lexical region a scope corresponds to,
// so callers (chiefly the analyzer) can answer questions like "am I
// inside a function body" without walking back up the AST.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeStruct
	ScopeBlock
	ScopeForInit
)

// Binding is one entry in a scope: the declaration and the scope
// depth it was registered at (0 = global).
type Binding struct {
	Decl  ast.Decl
	Depth int
}

// OverridePolicy decides whether a new declaration may replace a prior
// one already bound to the same name in the same scope. It returns
// true to accept the new binding (replacing the old), false to reject
// it (the old binding is kept and Register reports the rejection to
// the caller).
type OverridePolicy func(prior, next ast.Decl) bool

// RejectOverride is the default OverridePolicy used when none is
// supplied: same-scope re-declaration is always rejected. Overload
// sets are not rejected by this policy — FindAll, not same-scope
// override, is how the analyzer sees every candidate function sharing
// a name; a scope only ever holds one binding per exact name, so
// overloaded FuncDecls are tracked in a side table (see Scope.funcs).
func RejectOverride(prior, next ast.Decl) bool { return false }

// AllowOverride always accepts the new binding, shadowing the old one
// within the same scope. Useful for scopes that intentionally permit
// redefinition (e.g. re-running analysis in a REPL-like host).
func AllowOverride(prior, next ast.Decl) bool { return true }

// Scope is one level of the hierarchical table.
type Scope struct {
	kind    ScopeKind
	binds   map[string]Binding
	funcs   map[string][]*ast.FuncDecl // overload sets, keyed by name
	depth   int
}

func newScope(kind ScopeKind, depth int) *Scope {
	return &Scope{kind: kind, binds: map[string]Binding{}, funcs: map[string][]*ast.FuncDecl{}, depth: depth}
}

// Table is the hierarchical scope stack. The zero value is not usable;
// construct with New.
type Table struct {
	scopes []*Scope
	policy OverridePolicy
}

// New creates a Table with one open global scope. policy governs
// same-scope re-declaration; a nil policy defaults to RejectOverride.
func New(policy OverridePolicy) *Table {
	if policy == nil {
		policy = RejectOverride
	}
	t := &Table{policy: policy}
	t.Open(ScopeGlobal)
	return t
}

// Open pushes a new scope of the given kind.
func (t *Table) Open(kind ScopeKind) {
	t.scopes = append(t.scopes, newScope(kind, len(t.scopes)))
}

// Close pops the innermost scope. Closing the outermost (global) scope
// is a caller error and is a no-op, since a Table must always have at
// least one scope to remain usable.
func (t *Table) Close() {
	if len(t.scopes) <= 1 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth returns the current scope nesting depth (0 = only the global
// scope is open).
func (t *Table) Depth() int { return len(t.scopes) - 1 }

// CurrentKind reports the innermost scope's kind.
func (t *Table) CurrentKind() ScopeKind {
	return t.scopes[len(t.scopes)-1].kind
}

// InFunctionBody reports whether any enclosing scope (innermost-first)
// is a function body, used by storage-class legality checks (e.g.
// `static` is illegal on a parameter, which lives in a ScopeFunction).
func (t *Table) InFunctionBody() bool {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if t.scopes[i].kind == ScopeFunction {
			return true
		}
	}
	return false
}

// Register binds name to decl in the innermost scope. If name is
// already bound in that same scope, the configured OverridePolicy
// decides whether the new binding replaces the old; Register reports
// back whether it did, so the analyzer can turn a rejection into a
// SemanticError ("redefinition of 'x'").
func (t *Table) Register(name string, decl ast.Decl) (accepted bool) {
	s := t.scopes[len(t.scopes)-1]
	if prior, ok := s.binds[name]; ok {
		if !t.policy(prior.Decl, decl) {
			return false
		}
	}
	s.binds[name] = Binding{Decl: decl, Depth: s.depth}
	return true
}

// RegisterFunc adds fn to the overload set for its name in the
// innermost scope, independent of Register's single-binding map:
// function declarations are never "overridden" by a same-name sibling,
// they accumulate, and overload resolution (not scope lookup) is what
// picks one. RegisterFunc also writes the scope's single-binding map
// directly (without going through Register) when the name is not bound
// there yet, so a bare identifier lookup still finds *some* FuncDecl
// for the name (the first one declared), which matters for diagnostics
// that just need "is this name a function at all".
func (t *Table) RegisterFunc(fn *ast.FuncDecl) {
	s := t.scopes[len(t.scopes)-1]
	s.funcs[fn.Name] = append(s.funcs[fn.Name], fn)
	if _, ok := s.binds[fn.Name]; !ok {
		s.binds[fn.Name] = Binding{Decl: fn, Depth: s.depth}
	}
}

// Find returns the innermost binding for name, searching from the
// current scope outward to the global scope.
func (t *Table) Find(name string) (ast.Decl, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if b, ok := t.scopes[i].binds[name]; ok {
			return b.Decl, true
		}
	}
	return nil, false
}

// FindInCurrentScope looks up name only in the innermost scope,
// without falling back to enclosing scopes. Used to detect same-scope
// redefinition before calling Register.
func (t *Table) FindInCurrentScope(name string) (ast.Decl, bool) {
	s := t.scopes[len(t.scopes)-1]
	b, ok := s.binds[name]
	return b.Decl, ok
}

// FindAll returns every FuncDecl overload visible for name, innermost
// scope first, so overload resolution can rank candidates across
// nested scopes (an inner-scope function of the same name hides outer
// overloads entirely, matching normal lexical shadowing — callers stop
// at the first non-empty scope's set).
func (t *Table) FindAll(name string) []*ast.FuncDecl {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if set, ok := t.scopes[i].funcs[name]; ok && len(set) > 0 {
			return set
		}
	}
	return nil
}

// DepthOf returns the scope depth at which name was found, or -1 if
// name is unbound. Useful for diagnostics that report shadowing.
func (t *Table) DepthOf(name string) int {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if b, ok := t.scopes[i].binds[name]; ok {
			return b.Depth
		}
	}
	return -1
}
