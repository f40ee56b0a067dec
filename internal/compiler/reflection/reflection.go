// Package reflection implements the reflection extractor: a walk
// over the reachability-marked declarations of an
// already-analyzed Program that summarizes macros, texture/sampler/
// constant-buffer bindings, fragment render-target bindings, and
// entry-point layout (e.g. numThreads). It never mutates the AST and
// never reports diagnostics of its own; every legality check already
// happened in the analyzer.
package reflection

import (
	"sort"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/ir"
)

// Binding is one register slot, taken from an explicit register()
// decorator or auto-assigned when that option is enabled.
type Binding struct {
	Name    string
	Slot    int
	Space   int
	HasSlot bool
}

// ConstantBuffer is one `cbuffer`'s binding plus its field names.
type ConstantBuffer struct {
	Binding
	Fields []string
}

// FragmentTarget is one `SV_TargetN`-bound fragment output.
type FragmentTarget struct {
	Name  string
	Index int
}

// EntryPointLayout summarizes the bound entry point's fixed-function
// attributes relevant to reflection (currently only numThreads for
// compute; the other per-stage layout records live on ast.Program.Stages
// and are reflected by the caller directly when needed).
type EntryPointLayout struct {
	Name       string
	Target     ir.Target
	NumThreads [3]int
}

// Info is the complete reflection result of one compilation.
type Info struct {
	Macros          []string
	Textures        []Binding
	ConstantBuffers []ConstantBuffer
	Samplers        []Binding
	FragmentTargets []FragmentTarget
	EntryPoint      EntryPointLayout
}

// Extract walks prog's reachable globals and the bound entry point
// (prog.EntryPoint, set by analyzer.Analyze's processEntryPoint) and
// builds the reflection summary. macros is the preprocessor's
// DefinedMacros list; autoBinding mirrors
// ShaderOutput.Options.autoBinding.
//
// Extract is safe to call even when analyzer.Analyze or
// generator.Generate returned false: it only reads flags and
// back-references that the
// analyzer sets unconditionally before any legality failure.
func Extract(prog *ast.Program, target ir.Target, macros []string, autoBinding bool) *Info {
	info := &Info{Macros: append([]string(nil), macros...)}
	sort.Strings(info.Macros)

	var nextTexture, nextSampler, nextBuffer int
	for _, g := range prog.Globals {
		if !g.Flags().Has(ast.FlagReachable) {
			continue
		}
		switch d := g.(type) {
		case *ast.ObjectDecl:
			switch d.Type.(type) {
			case *ast.BufferType:
				b := bindingFor(d.Register, d.Name)
				assignSlot(&b, &nextTexture, autoBinding)
				info.Textures = append(info.Textures, b)
			case *ast.SamplerType:
				b := bindingFor(d.Register, d.Name)
				assignSlot(&b, &nextSampler, autoBinding)
				info.Samplers = append(info.Samplers, b)
			}
		case *ast.BufferDecl:
			b := bindingFor(d.Register, d.Name)
			assignSlot(&b, &nextBuffer, autoBinding)
			fields := make([]string, len(d.Fields))
			for i, f := range d.Fields {
				fields[i] = f.Name
			}
			info.ConstantBuffers = append(info.ConstantBuffers, ConstantBuffer{Binding: b, Fields: fields})
		}
	}

	if mainFn := prog.EntryPoint; mainFn != nil {
		info.EntryPoint.Name = mainFn.Name
		info.EntryPoint.Target = target
		if target == ir.TargetCompute {
			info.EntryPoint.NumThreads = prog.Stages.Compute.NumThreads
		}
		if target == ir.TargetFragment {
			info.FragmentTargets = fragmentTargets(mainFn)
		}
	}
	return info
}

// bindingFor turns an optional *ast.RegisterSpec into a Binding;
// reg == nil means the declaration carries no explicit register().
func bindingFor(reg *ast.RegisterSpec, name string) Binding {
	if reg == nil {
		return Binding{Name: name}
	}
	return Binding{Name: name, Slot: reg.Slot, Space: reg.Space, HasSlot: true}
}

// assignSlot fills in b.Slot from the per-kind counter when autoBinding
// is set and the declaration had no explicit register(), then advances
// the counter regardless (an explicitly bound slot still occupies a
// position in sequential auto-assignment of the rest).
func assignSlot(b *Binding, next *int, autoBinding bool) {
	if autoBinding && !b.HasSlot {
		b.Slot = *next
		b.HasSlot = true
	}
	*next++
}

// fragmentTargets collects the SV_TargetN bindings of a fragment entry
// point: either its own semantic (scalar/vector return) or each field
// semantic of a struct return type.
func fragmentTargets(fn *ast.FuncDecl) []FragmentTarget {
	if fn.Semantic != nil {
		if idx, ok := targetIndex(fn.Semantic); ok {
			return []FragmentTarget{{Name: fn.Semantic.Name, Index: idx}}
		}
		return nil
	}
	if fn.ReturnType == nil {
		return nil
	}
	st, ok := ast.GetAliased(fn.ReturnType.Denoter).(*ast.StructType)
	if !ok || st.Decl == nil {
		return nil
	}
	var targets []FragmentTarget
	for _, f := range st.Decl.Fields {
		if f.Semantic == nil {
			continue
		}
		if idx, ok := targetIndex(f.Semantic); ok {
			targets = append(targets, FragmentTarget{Name: f.Name, Index: idx})
		}
	}
	return targets
}

func targetIndex(sem *ast.Semantic) (int, bool) {
	if sem.Name != "SV_Target" {
		return 0, false
	}
	return sem.Index, true
}
