package transform

import (
	"strconv"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/ir"
)

// ConvertFuncNames uniquifies every reachable overloaded function name
// using the configured mangling prefixes
// FuncNameConverter note: the output dialect has no function
// overloading, so sibling overloads sharing one HLSL name must
// disambiguate. FuncDecl.MangledName is left empty (the generator then
// falls back to Name) for any function that isn't part of a same-name
// overload set with more than one reachable member. Also renames the
// original entry point out from under the wrapper's hardcoded "main"
// when IO flattening synthesized one (see the SecondaryEntryPoint
// check below).
func ConvertFuncNames(prog *ast.Program, mangling ir.NameMangling) {
	groups := map[string][]*ast.FuncDecl{}
	var order []string
	for _, g := range prog.Globals {
		fn, ok := g.(*ast.FuncDecl)
		if !ok || !fn.Flags().Has(ast.FlagReachable) {
			continue
		}
		if _, seen := groups[fn.Name]; !seen {
			order = append(order, fn.Name)
		}
		groups[fn.Name] = append(groups[fn.Name], fn)
	}
	for _, name := range order {
		set := groups[name]
		if len(set) < 2 {
			continue
		}
		for i, fn := range set {
			if i == 0 {
				// The first-declared overload keeps the bare (possibly
				// namespaced) name; only its siblings need disambiguating.
				if mangling.Namespace != "" {
					fn.MangledName = mangling.Namespace + name
				}
				continue
			}
			fn.MangledName = mangling.Namespace + name + "_" + strconv.Itoa(i)
		}
	}

	// When a GLSL-family wrapper was synthesized, the generator always
	// spells it "main" regardless of the original entry point's name, so
	// the original (now just another reachable callee, invoked from the
	// wrapper's body) needs a name of its own to avoid colliding with it.
	if prog.SecondaryEntryPoint != nil && prog.EntryPoint != nil && prog.EntryPoint.MangledName == "" {
		prog.EntryPoint.MangledName = mangling.Namespace + prog.EntryPoint.Name + "_Impl"
	}
}

// EmittedName returns the name the generator should spell fn as:
// MangledName when FuncNameConverter assigned one, Name otherwise.
func EmittedName(fn *ast.FuncDecl) string {
	if fn.MangledName != "" {
		return fn.MangledName
	}
	return fn.Name
}
