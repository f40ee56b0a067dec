// Package transform implements the AST-to-AST rewriting passes that
// run between semantic analysis and code generation: reachability
// marking, entry-IO struct classification, and the
// dialect-conversion rewrites (intrinsic call shapes, explicit
// broadcasts, name mangling) a GLSL-family target needs that HLSL
// source doesn't carry explicitly.
package transform

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/visitor"
)

// ReferenceAnalyzer computes, bitset-backed, the set of global
// declarations transitively reachable from the program's entry
// point(s). Reachable declarations are marked with ast.FlagReachable
// in place; the generator emits only flagged declarations.
type ReferenceAnalyzer struct {
	prog       *ast.Program
	index      map[ast.Decl]uint
	fieldOwner map[*ast.VarDecl]ast.Decl
	reach      *bitset.BitSet
	queue      []ast.Decl
}

// NewReferenceAnalyzer indexes every global declaration of prog (and
// every cbuffer/struct field, which shares its owner's reachability)
// ahead of the traversal.
func NewReferenceAnalyzer(prog *ast.Program) *ReferenceAnalyzer {
	ra := &ReferenceAnalyzer{
		prog:       prog,
		index:      map[ast.Decl]uint{},
		fieldOwner: map[*ast.VarDecl]ast.Decl{},
		reach:      bitset.New(uint(len(prog.Globals) + 1)),
	}
	for i, g := range prog.Globals {
		ra.index[g] = uint(i)
		switch d := g.(type) {
		case *ast.BufferDecl:
			for _, f := range d.Fields {
				ra.fieldOwner[f] = d
			}
		case *ast.StructDecl:
			for _, f := range d.Fields {
				ra.fieldOwner[f] = d
			}
		}
	}
	return ra
}

// Run performs the reachability traversal and returns the resulting
// bitset (indexed the same way as prog.Globals), having also set
// ast.FlagReachable on every reachable declaration.
func (ra *ReferenceAnalyzer) Run() *bitset.BitSet {
	if ra.prog.EntryPoint != nil {
		ra.enqueue(ra.prog.EntryPoint)
	}
	if ra.prog.SecondaryEntryPoint != nil {
		ra.enqueue(ra.prog.SecondaryEntryPoint)
	}
	rv := &referenceVisitor{ra: ra}
	for len(ra.queue) > 0 {
		d := ra.queue[0]
		ra.queue = ra.queue[1:]
		visitor.WalkDecl(rv, d)
	}
	return ra.reach
}

// enqueue marks d reachable (if it is a global declaration) and
// schedules it for traversal; a reference to a field or local
// declaration is redirected to its owning global declaration, since
// reachability is tracked at the per-global granularity the bitset is
// indexed at.
func (ra *ReferenceAnalyzer) enqueue(d ast.Decl) {
	if idx, ok := ra.index[d]; ok {
		if ra.reach.Test(idx) {
			return
		}
		ra.reach.Set(idx)
		d.Flags().Set(ast.FlagReachable)
		ra.queue = append(ra.queue, d)
		return
	}
	if field, ok := d.(*ast.VarDecl); ok {
		if owner, ok := ra.fieldOwner[field]; ok {
			ra.enqueue(owner)
		}
	}
}

func (ra *ReferenceAnalyzer) markType(t ast.TypeDenoter) {
	switch dt := ast.GetAliased(t).(type) {
	case *ast.StructType:
		if dt.Decl != nil {
			ra.enqueue(dt.Decl)
		}
	case *ast.ArrayType:
		ra.markType(dt.Elem)
	case *ast.BufferType:
		if dt.Elem != nil {
			ra.markType(dt.Elem)
		}
	}
}

// referenceVisitor walks a reachable declaration's body, enqueuing
// every name/type it references.
type referenceVisitor struct {
	visitor.BaseVisitor
	ra *ReferenceAnalyzer
}

func (v *referenceVisitor) VisitIdentExpr(e *ast.IdentExpr) bool {
	if e.ResolvedDecl != nil {
		v.ra.enqueue(e.ResolvedDecl)
	}
	return true
}

func (v *referenceVisitor) VisitCallExpr(e *ast.CallExpr) bool {
	if e.ResolvedFunc != nil {
		v.ra.enqueue(e.ResolvedFunc)
	}
	return true
}

func (v *referenceVisitor) VisitMemberExpr(e *ast.MemberExpr) bool {
	if e.ResolvedDecl != nil {
		v.ra.enqueue(e.ResolvedDecl)
	}
	return true
}

func (v *referenceVisitor) VisitTypeSpecifierExpr(e *ast.TypeSpecifierExpr) bool {
	v.ra.markType(e.Spec.Denoter)
	return true
}

func (v *referenceVisitor) VisitCastExpr(e *ast.CastExpr) bool {
	v.ra.markType(e.Target.Denoter)
	return true
}

func (v *referenceVisitor) VisitVarDecl(d *ast.VarDecl) bool {
	v.ra.markType(d.Type.Denoter)
	return true
}

func (v *referenceVisitor) VisitFuncDecl(d *ast.FuncDecl) bool {
	v.ra.markType(d.ReturnType.Denoter)
	for _, p := range d.Params {
		v.ra.markType(p.Type.Denoter)
	}
	return true
}

func (v *referenceVisitor) VisitObjectDecl(d *ast.ObjectDecl) bool {
	v.ra.markType(d.Type)
	return true
}
