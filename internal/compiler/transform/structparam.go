package transform

import (
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/visitor"
)

// MarkEntryIOStructs sets ast.FlagIsEntryIOStruct on every struct used
// purely as entry-point parameter/return IO (as opposed to a nominal
// type that also appears elsewhere in the reachable program): the
// generator inlines an
// IO-only struct's fields at the call site rather than emitting it as
// a named type in dialects that have no struct-parameter mechanism.
func MarkEntryIOStructs(prog *ast.Program) {
	candidates := map[*ast.StructDecl]bool{}
	markCandidate := func(fn *ast.FuncDecl) {
		if fn == nil {
			return
		}
		if st, ok := ast.GetAliased(fn.ReturnType.Denoter).(*ast.StructType); ok && st.Decl != nil {
			candidates[st.Decl] = true
		}
		for _, p := range fn.Params {
			if st, ok := ast.GetAliased(p.Type.Denoter).(*ast.StructType); ok && st.Decl != nil {
				candidates[st.Decl] = true
			}
		}
	}
	markCandidate(prog.EntryPoint)
	markCandidate(prog.SecondaryEntryPoint)
	if len(candidates) == 0 {
		return
	}

	sc := &structUseScanner{candidates: candidates, skip: map[*ast.FuncDecl]bool{
		prog.EntryPoint: true, prog.SecondaryEntryPoint: true,
	}}
	for _, g := range prog.Globals {
		if fn, ok := g.(*ast.FuncDecl); ok && sc.skip[fn] {
			continue
		}
		visitor.WalkDecl(sc, g)
	}

	for decl := range candidates {
		decl.Flags().Set(ast.FlagIsEntryIOStruct)
	}
}

// structUseScanner removes a struct from candidates the moment it
// finds that struct used anywhere outside the entry-point signatures
// being classified.
type structUseScanner struct {
	visitor.BaseVisitor
	candidates map[*ast.StructDecl]bool
	skip       map[*ast.FuncDecl]bool
}

func (s *structUseScanner) disqualify(t ast.TypeDenoter) {
	if st, ok := ast.GetAliased(t).(*ast.StructType); ok && st.Decl != nil {
		delete(s.candidates, st.Decl)
	}
}

func (s *structUseScanner) VisitFuncDecl(d *ast.FuncDecl) bool {
	s.disqualify(d.ReturnType.Denoter)
	for _, p := range d.Params {
		s.disqualify(p.Type.Denoter)
	}
	return true
}

func (s *structUseScanner) VisitVarDecl(d *ast.VarDecl) bool {
	s.disqualify(d.Type.Denoter)
	return true
}

func (s *structUseScanner) VisitObjectDecl(d *ast.ObjectDecl) bool {
	s.disqualify(d.Type)
	return true
}

func (s *structUseScanner) VisitTypeSpecifierExpr(e *ast.TypeSpecifierExpr) bool {
	s.disqualify(e.Spec.Denoter)
	return true
}

func (s *structUseScanner) VisitCastExpr(e *ast.CastExpr) bool {
	s.disqualify(e.Target.Denoter)
	return true
}
