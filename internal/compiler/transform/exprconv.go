package transform

import "github.com/btouchard/shaderx/internal/compiler/ast"
import "github.com/btouchard/shaderx/internal/compiler/token"

// ConvertExprs rewrites HLSL-specific intrinsic call forms into their
// GLSL-family equivalent across every reachable function body:
// HLSL's `mul` is defined for row-major operands while GLSL's `*`
// operator is column-major, and a handful of intrinsics change shape
// rather than just name.
// Reachability-gated: only functions already marked ast.FlagReachable
// by ReferenceAnalyzer are rewritten, since the generator never emits
// anything else.
func ConvertExprs(prog *ast.Program) {
	for _, g := range prog.Globals {
		fn, ok := g.(*ast.FuncDecl)
		if !ok || !fn.Flags().Has(ast.FlagReachable) || fn.Body == nil {
			continue
		}
		convertStmt(fn.Body)
	}
}

func convertStmt(s ast.Stmt) {
	switch st := s.(type) {
	case nil:
	case *ast.CodeBlockStmt:
		for _, inner := range st.Stmts {
			convertStmt(inner)
		}
	case *ast.VarDeclStmt:
		st.Decl.Initializer = convertExpr(st.Decl.Initializer)
	case *ast.ForStmt:
		convertStmt(st.Init)
		st.Cond = convertExpr(st.Cond)
		convertStmt(st.Post)
		convertStmt(st.Body)
	case *ast.WhileStmt:
		st.Cond = convertExpr(st.Cond)
		convertStmt(st.Body)
	case *ast.DoWhileStmt:
		convertStmt(st.Body)
		st.Cond = convertExpr(st.Cond)
	case *ast.IfStmt:
		st.Cond = convertExpr(st.Cond)
		convertStmt(st.Then)
		convertStmt(st.Else)
	case *ast.SwitchStmt:
		st.Selector = convertExpr(st.Selector)
		for _, c := range st.Cases {
			for i, ce := range c.CaseExprs {
				c.CaseExprs[i] = convertExpr(ce)
			}
			for _, inner := range c.Stmts {
				convertStmt(inner)
			}
		}
	case *ast.ReturnStmt:
		st.Value = convertExpr(st.Value)
	case *ast.ExprStmt:
		st.Expr = convertExpr(st.Expr)
	}
}

// convertExpr rewrites e bottom-up, returning the (possibly replaced)
// node. nil is passed through unchanged so callers never need a nil
// check before assigning the result back into an optional field.
func convertExpr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case *ast.SequenceExpr:
		for i, el := range ex.Elems {
			ex.Elems[i] = convertExpr(el)
		}
	case *ast.BinaryExpr:
		ex.Left = convertExpr(ex.Left)
		ex.Right = convertExpr(ex.Right)
	case *ast.UnaryExpr:
		ex.Operand = convertExpr(ex.Operand)
	case *ast.PostUnaryExpr:
		ex.Operand = convertExpr(ex.Operand)
	case *ast.TernaryExpr:
		ex.Cond = convertExpr(ex.Cond)
		ex.Then = convertExpr(ex.Then)
		ex.Else = convertExpr(ex.Else)
	case *ast.BracketExpr:
		ex.Inner = convertExpr(ex.Inner)
	case *ast.MemberExpr:
		ex.Receiver = convertExpr(ex.Receiver)
	case *ast.IndexExpr:
		ex.Receiver = convertExpr(ex.Receiver)
		ex.Index = convertExpr(ex.Index)
	case *ast.CastExpr:
		ex.Operand = convertExpr(ex.Operand)
	case *ast.AssignExpr:
		ex.Target = convertExpr(ex.Target)
		ex.Value = convertExpr(ex.Value)
	case *ast.InitializerExpr:
		for i, el := range ex.Elems {
			ex.Elems[i] = convertExpr(el)
		}
	case *ast.CallExpr:
		for i, a := range ex.Args {
			ex.Args[i] = convertExpr(a)
		}
		if rewritten := convertIntrinsicCall(ex); rewritten != nil {
			return rewritten
		}
	}
	return e
}

// convertIntrinsicCall recognizes the handful of HLSL builtin
// intrinsics whose GLSL spelling is a different expression shape
// rather than a same-shaped renamed call (a plain rename is instead
// the generator's job). A nil ResolvedFunc is how the analyzer marks
// an unrecognized call as a builtin intrinsic rather than a user
// function (see analyzer.analyzeCall), so that is the signal used
// here to avoid rewriting a user-defined function that happens to be
// named "mul".
func convertIntrinsicCall(call *ast.CallExpr) ast.Expr {
	ident, ok := call.Callee.(*ast.IdentExpr)
	if !ok || call.ResolvedFunc != nil {
		return nil
	}
	switch ident.Name {
	case "mul":
		if len(call.Args) != 2 {
			return nil
		}
		// HLSL `mul(a, b)` treats a as a row vector/matrix; GLSL's `*`
		// is column-major, so the operand order swaps rather than
		// either operand needing an explicit transpose for the common
		// vector*matrix / matrix*vector cases this handles.
		return &ast.BinaryExpr{
			ExprBase: ast.ExprBase{Base: call.Base},
			Op:       token.STAR,
			Left:     call.Args[1],
			Right:    call.Args[0],
		}
	case "saturate":
		if len(call.Args) != 1 {
			return nil
		}
		return &ast.CallExpr{
			ExprBase: ast.ExprBase{Base: call.Base},
			Callee:   &ast.IdentExpr{Name: "clamp"},
			Args: []ast.Expr{
				call.Args[0],
				&ast.LiteralExpr{Kind: token.FLOAT, Value: "0.0"},
				&ast.LiteralExpr{Kind: token.FLOAT, Value: "1.0"},
			},
		}
	case "frac":
		return &ast.CallExpr{ExprBase: ast.ExprBase{Base: call.Base}, Callee: &ast.IdentExpr{Name: "fract"}, Args: call.Args}
	case "lerp":
		return &ast.CallExpr{ExprBase: ast.ExprBase{Base: call.Base}, Callee: &ast.IdentExpr{Name: "mix"}, Args: call.Args}
	case "atan2":
		return &ast.CallExpr{ExprBase: ast.ExprBase{Base: call.Base}, Callee: &ast.IdentExpr{Name: "atan"}, Args: call.Args}
	case "ddx":
		return &ast.CallExpr{ExprBase: ast.ExprBase{Base: call.Base}, Callee: &ast.IdentExpr{Name: "dFdx"}, Args: call.Args}
	case "ddy":
		return &ast.CallExpr{ExprBase: ast.ExprBase{Base: call.Base}, Callee: &ast.IdentExpr{Name: "dFdy"}, Args: call.Args}
	default:
		return nil
	}
}
