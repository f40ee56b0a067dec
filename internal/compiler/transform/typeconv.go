package transform

import (
	"strconv"
	"strings"

	"github.com/btouchard/shaderx/internal/compiler/ast"
)

// ConvertTypes rewrites implicit scalar-to-vector broadcasts into
// explicit constructor calls TypeConverter note:
// HLSL lets `float3 x = 0;` broadcast a scalar initializer across every
// component of a wider target type; GLSL requires the equivalent
// `vec3(0.0)` constructor call spelled out. Runs after ConvertExprs.
// Only variable initializers, return values and the value of an
// assignment expression statement are broadcast; call arguments are
// left as written. Only reachable declarations are visited.
func ConvertTypes(prog *ast.Program) {
	for _, g := range prog.Globals {
		switch d := g.(type) {
		case *ast.VarDecl:
			if d.Flags().Has(ast.FlagReachable) {
				d.Initializer = broadcastTo(d.Type.Denoter, d.Initializer)
			}
		case *ast.FuncDecl:
			if !d.Flags().Has(ast.FlagReachable) || d.Body == nil {
				continue
			}
			convertTypeStmt(d.Body, d.ReturnType.Denoter)
		}
	}
}

func convertTypeStmt(s ast.Stmt, retType ast.TypeDenoter) {
	switch st := s.(type) {
	case nil:
	case *ast.CodeBlockStmt:
		for _, inner := range st.Stmts {
			convertTypeStmt(inner, retType)
		}
	case *ast.VarDeclStmt:
		st.Decl.Initializer = broadcastTo(st.Decl.Type.Denoter, st.Decl.Initializer)
	case *ast.ForStmt:
		convertTypeStmt(st.Init, retType)
		convertTypeStmt(st.Post, retType)
		convertTypeStmt(st.Body, retType)
	case *ast.WhileStmt:
		convertTypeStmt(st.Body, retType)
	case *ast.DoWhileStmt:
		convertTypeStmt(st.Body, retType)
	case *ast.IfStmt:
		convertTypeStmt(st.Then, retType)
		convertTypeStmt(st.Else, retType)
	case *ast.SwitchStmt:
		for _, c := range st.Cases {
			for _, inner := range c.Stmts {
				convertTypeStmt(inner, retType)
			}
		}
	case *ast.ReturnStmt:
		st.Value = broadcastTo(retType, st.Value)
	case *ast.ExprStmt:
		if assign, ok := st.Expr.(*ast.AssignExpr); ok {
			assign.Value = broadcastTo(assign.Target.Type(), assign.Value)
		}
	}
}

// broadcastTo wraps value in an explicit constructor call of target's
// type name when target is a vector/matrix and value's computed type
// is a bare scalar; value is returned unchanged in every other case
// (nil value, unresolved types, already-matching shapes, or a target
// that isn't a vector/matrix at all).
func broadcastTo(target ast.TypeDenoter, value ast.Expr) ast.Expr {
	if value == nil || target == nil {
		return value
	}
	tb, ok := ast.GetAliased(target).(*ast.BaseType)
	if !ok {
		return value
	}
	rows, cols, ok := vectorShape(tb.Name)
	if !ok || (rows == 1 && cols == 1) {
		return value
	}
	vt := value.Type()
	if vt == nil {
		return value
	}
	vb, ok := ast.GetAliased(vt).(*ast.BaseType)
	if !ok {
		return value
	}
	vrows, vcols, vok := vectorShape(vb.Name)
	if !vok || vrows != 1 || vcols != 1 {
		return value
	}
	call := &ast.CallExpr{
		ExprBase: ast.ExprBase{Base: baseOf(value)},
		Callee:   &ast.IdentExpr{Name: tb.Name},
		Args:     []ast.Expr{value},
	}
	call.SetType(target)
	return call
}

func baseOf(n ast.Node) ast.Base {
	return ast.Base{Range: ast.Range{Pos: n.Pos(), End: n.End()}}
}

// vectorShape decodes a built-in HLSL scalar/vector/matrix spelling
// (e.g. "float3", "int2x3") into its row/column shape. This duplicates
// analyzer.splitVectorOrMatrix's small parse rather than importing the
// analyzer package, since transform must not depend on it (analyzer
// runs first and never depends back on transform).
func vectorShape(name string) (rows, cols int, ok bool) {
	for _, base := range []string{"double", "float", "half", "uint", "int", "bool"} {
		if !strings.HasPrefix(name, base) {
			continue
		}
		rest := name[len(base):]
		if rest == "" {
			return 1, 1, true
		}
		if i := strings.IndexByte(rest, 'x'); i > 0 {
			r, err1 := strconv.Atoi(rest[:i])
			c, err2 := strconv.Atoi(rest[i+1:])
			if err1 == nil && err2 == nil && r >= 1 && r <= 4 && c >= 1 && c <= 4 {
				return r, c, true
			}
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 4 {
			return n, 1, true
		}
	}
	return 0, 0, false
}
