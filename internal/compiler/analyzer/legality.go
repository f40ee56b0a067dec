package analyzer

import (
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// checkTargetLegality rejects constructs the output target cannot
// express target-version legality gate (the
// worked example: double-precision scalars are illegal below ESSL
// 3.2). Checked at every declared type site reachable without a full
// dataflow walk — locals inside function bodies included, since their
// TypeSpecifiers were already resolved during analyzeBodies.
func (a *Analyzer) checkTargetLegality() {
	if a.cfg.OutputVersion.SupportsDouble() {
		return
	}
	for _, g := range a.prog.Globals {
		switch d := g.(type) {
		case *ast.StructDecl:
			for _, f := range d.Fields {
				a.rejectDouble(f.Type.Denoter, f.Pos())
			}
		case *ast.BufferDecl:
			for _, f := range d.Fields {
				a.rejectDouble(f.Type.Denoter, f.Pos())
			}
		case *ast.VarDecl:
			a.rejectDouble(d.Type.Denoter, d.Pos())
		case *ast.FuncDecl:
			a.rejectDouble(d.ReturnType.Denoter, d.Pos())
			for _, p := range d.Params {
				a.rejectDouble(p.Type.Denoter, p.Pos())
			}
			walkLocalDecls(d.Body, func(v *ast.VarDecl) { a.rejectDouble(v.Type.Denoter, v.Pos()) })
		}
	}
}

func (a *Analyzer) rejectDouble(t ast.TypeDenoter, pos token.Position) {
	bt, ok := ast.GetAliased(t).(*ast.BaseType)
	if !ok {
		return
	}
	base, _, _, svOK := splitVectorOrMatrix(bt.Name)
	if svOK && base == "double" {
		a.reportTarget(pos, "type %q requires double precision, unsupported by target %s", bt.Name, a.cfg.OutputVersion)
	}
}

func walkLocalDecls(s ast.Stmt, visit func(*ast.VarDecl)) {
	switch st := s.(type) {
	case nil:
		return
	case *ast.CodeBlockStmt:
		for _, inner := range st.Stmts {
			walkLocalDecls(inner, visit)
		}
	case *ast.VarDeclStmt:
		visit(st.Decl)
	case *ast.ForStmt:
		walkLocalDecls(st.Init, visit)
		walkLocalDecls(st.Body, visit)
	case *ast.WhileStmt:
		walkLocalDecls(st.Body, visit)
	case *ast.DoWhileStmt:
		walkLocalDecls(st.Body, visit)
	case *ast.IfStmt:
		walkLocalDecls(st.Then, visit)
		walkLocalDecls(st.Else, visit)
	case *ast.SwitchStmt:
		for _, c := range st.Cases {
			for _, inner := range c.Stmts {
				walkLocalDecls(inner, visit)
			}
		}
	}
}
