package analyzer

import "github.com/btouchard/shaderx/internal/compiler/ast"

// computeNonReturnPath sets ast.FlagHasNonReturnPath on fn when its
// body can fall off the end without executing a return statement on
// every path. Void-returning functions are exempt: falling off the
// end of a void function is legal HLSL and carries no diagnostic.
func computeNonReturnPath(fn *ast.FuncDecl) {
	if _, void := ast.GetAliased(fn.ReturnType.Denoter).(*ast.VoidType); void {
		return
	}
	if !terminates(fn.Body) {
		fn.Flags().Set(ast.FlagHasNonReturnPath)
	}
}

// terminates reports whether executing s guarantees control never
// reaches the statement immediately following it — a join over the
// statement structure rather than a dataflow analysis, since shader
// source has no goto and no exceptions.
func terminates(s ast.Stmt) bool {
	switch st := s.(type) {
	case nil:
		return false
	case *ast.ReturnStmt:
		return true
	case *ast.CtrlTransferStmt:
		return st.Kind == ast.CtrlDiscard
	case *ast.CodeBlockStmt:
		for _, inner := range st.Stmts {
			if terminates(inner) {
				return true
			}
		}
		return false
	case *ast.IfStmt:
		return st.Else != nil && terminates(st.Then) && terminates(st.Else)
	case *ast.SwitchStmt:
		sawDefault := false
		for _, c := range st.Cases {
			if c.IsDefault {
				sawDefault = true
			}
			if !caseTerminates(c) {
				return false
			}
		}
		return sawDefault
	case *ast.DoWhileStmt:
		return terminates(st.Body)
	default:
		// for/while may execute zero times; conservatively not terminating.
		return false
	}
}

func caseTerminates(c *ast.SwitchCase) bool {
	for _, s := range c.Stmts {
		if terminates(s) {
			return true
		}
	}
	return false
}
