// Package visitor implements the AST traversal infrastructure: a
// type switch dispatcher over the node variants. Visitor
// is the interface every AST-walking stage (analyzer, transformers,
// generator, reflection) implements a subset of by embedding
// BaseVisitor and overriding only the methods it cares about; Walk
// performs the recursive descent, calling back into the Visitor for
// every child so an override can intercept a subtree without having
// to reimplement traversal for nodes it does not care about.
package visitor

import "github.com/btouchard/shaderx/internal/compiler/ast"

// Visitor is implemented (typically via BaseVisitor embedding) by
// every stage that walks the AST. Each method returns false to stop
// Walk from descending into that node's children itself (the visitor
// has already handled, or intentionally skipped, the subtree).
type Visitor interface {
	VisitProgram(*ast.Program) bool
	VisitFuncDecl(*ast.FuncDecl) bool
	VisitVarDecl(*ast.VarDecl) bool
	VisitObjectDecl(*ast.ObjectDecl) bool
	VisitBufferDecl(*ast.BufferDecl) bool
	VisitStructDecl(*ast.StructDecl) bool
	VisitAliasDecl(*ast.AliasDecl) bool
	VisitStateDecl(*ast.StateDecl) bool

	VisitCodeBlockStmt(*ast.CodeBlockStmt) bool
	VisitVarDeclStmt(*ast.VarDeclStmt) bool
	VisitForStmt(*ast.ForStmt) bool
	VisitWhileStmt(*ast.WhileStmt) bool
	VisitDoWhileStmt(*ast.DoWhileStmt) bool
	VisitIfStmt(*ast.IfStmt) bool
	VisitSwitchStmt(*ast.SwitchStmt) bool
	VisitReturnStmt(*ast.ReturnStmt) bool
	VisitCtrlTransferStmt(*ast.CtrlTransferStmt) bool
	VisitExprStmt(*ast.ExprStmt) bool
	VisitNullStmt(*ast.NullStmt) bool

	VisitLiteralExpr(*ast.LiteralExpr) bool
	VisitSequenceExpr(*ast.SequenceExpr) bool
	VisitBinaryExpr(*ast.BinaryExpr) bool
	VisitUnaryExpr(*ast.UnaryExpr) bool
	VisitPostUnaryExpr(*ast.PostUnaryExpr) bool
	VisitTernaryExpr(*ast.TernaryExpr) bool
	VisitCallExpr(*ast.CallExpr) bool
	VisitBracketExpr(*ast.BracketExpr) bool
	VisitIdentExpr(*ast.IdentExpr) bool
	VisitMemberExpr(*ast.MemberExpr) bool
	VisitIndexExpr(*ast.IndexExpr) bool
	VisitCastExpr(*ast.CastExpr) bool
	VisitTypeSpecifierExpr(*ast.TypeSpecifierExpr) bool
	VisitAssignExpr(*ast.AssignExpr) bool
	VisitInitializerExpr(*ast.InitializerExpr) bool
}

// BaseVisitor implements every Visitor method as a no-op returning
// true (i.e. "I didn't handle this node specially, please keep
// descending"). Embed it and override only what you need.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*ast.Program) bool             { return true }
func (BaseVisitor) VisitFuncDecl(*ast.FuncDecl) bool           { return true }
func (BaseVisitor) VisitVarDecl(*ast.VarDecl) bool             { return true }
func (BaseVisitor) VisitObjectDecl(*ast.ObjectDecl) bool       { return true }
func (BaseVisitor) VisitBufferDecl(*ast.BufferDecl) bool       { return true }
func (BaseVisitor) VisitStructDecl(*ast.StructDecl) bool       { return true }
func (BaseVisitor) VisitAliasDecl(*ast.AliasDecl) bool         { return true }
func (BaseVisitor) VisitStateDecl(*ast.StateDecl) bool         { return true }

func (BaseVisitor) VisitCodeBlockStmt(*ast.CodeBlockStmt) bool         { return true }
func (BaseVisitor) VisitVarDeclStmt(*ast.VarDeclStmt) bool             { return true }
func (BaseVisitor) VisitForStmt(*ast.ForStmt) bool                     { return true }
func (BaseVisitor) VisitWhileStmt(*ast.WhileStmt) bool                 { return true }
func (BaseVisitor) VisitDoWhileStmt(*ast.DoWhileStmt) bool             { return true }
func (BaseVisitor) VisitIfStmt(*ast.IfStmt) bool                       { return true }
func (BaseVisitor) VisitSwitchStmt(*ast.SwitchStmt) bool               { return true }
func (BaseVisitor) VisitReturnStmt(*ast.ReturnStmt) bool               { return true }
func (BaseVisitor) VisitCtrlTransferStmt(*ast.CtrlTransferStmt) bool   { return true }
func (BaseVisitor) VisitExprStmt(*ast.ExprStmt) bool                   { return true }
func (BaseVisitor) VisitNullStmt(*ast.NullStmt) bool                   { return true }

func (BaseVisitor) VisitLiteralExpr(*ast.LiteralExpr) bool             { return true }
func (BaseVisitor) VisitSequenceExpr(*ast.SequenceExpr) bool           { return true }
func (BaseVisitor) VisitBinaryExpr(*ast.BinaryExpr) bool               { return true }
func (BaseVisitor) VisitUnaryExpr(*ast.UnaryExpr) bool                 { return true }
func (BaseVisitor) VisitPostUnaryExpr(*ast.PostUnaryExpr) bool         { return true }
func (BaseVisitor) VisitTernaryExpr(*ast.TernaryExpr) bool             { return true }
func (BaseVisitor) VisitCallExpr(*ast.CallExpr) bool                   { return true }
func (BaseVisitor) VisitBracketExpr(*ast.BracketExpr) bool             { return true }
func (BaseVisitor) VisitIdentExpr(*ast.IdentExpr) bool                 { return true }
func (BaseVisitor) VisitMemberExpr(*ast.MemberExpr) bool               { return true }
func (BaseVisitor) VisitIndexExpr(*ast.IndexExpr) bool                 { return true }
func (BaseVisitor) VisitCastExpr(*ast.CastExpr) bool                   { return true }
func (BaseVisitor) VisitTypeSpecifierExpr(*ast.TypeSpecifierExpr) bool { return true }
func (BaseVisitor) VisitAssignExpr(*ast.AssignExpr) bool               { return true }
func (BaseVisitor) VisitInitializerExpr(*ast.InitializerExpr) bool     { return true }

// WalkProgram walks every global declaration (and the entry points, if
// they are not already reachable from Globals — they always are, since
// EntryPoint/SecondaryEntryPoint point at a FuncDecl already present in
// Globals, so only Globals needs walking).
func WalkProgram(v Visitor, p *ast.Program) {
	if p == nil || !v.VisitProgram(p) {
		return
	}
	for _, d := range p.Globals {
		WalkDecl(v, d)
	}
}

// WalkDecl dispatches to the Visit method matching decl's concrete
// type, then descends into its children unless that method returned
// false.
func WalkDecl(v Visitor, decl ast.Decl) {
	if decl == nil {
		return
	}
	switch d := decl.(type) {
	case *ast.FuncDecl:
		if v.VisitFuncDecl(d) {
			for _, p := range d.Params {
				if p.Default != nil {
					WalkExpr(v, p.Default)
				}
			}
			if d.Body != nil {
				WalkStmt(v, d.Body)
			}
		}
	case *ast.VarDecl:
		if v.VisitVarDecl(d) && d.Initializer != nil {
			WalkExpr(v, d.Initializer)
		}
	case *ast.ObjectDecl:
		v.VisitObjectDecl(d)
	case *ast.BufferDecl:
		if v.VisitBufferDecl(d) {
			for _, f := range d.Fields {
				WalkDecl(v, f)
			}
		}
	case *ast.StructDecl:
		if v.VisitStructDecl(d) {
			for _, f := range d.Fields {
				WalkDecl(v, f)
			}
		}
	case *ast.AliasDecl:
		v.VisitAliasDecl(d)
	case *ast.StateDecl:
		v.VisitStateDecl(d)
	}
}

// WalkStmt dispatches to the Visit method matching stmt's concrete
// type, then descends into its children unless that method returned
// false.
func WalkStmt(v Visitor, stmt ast.Stmt) {
	if stmt == nil {
		return
	}
	switch s := stmt.(type) {
	case *ast.CodeBlockStmt:
		if v.VisitCodeBlockStmt(s) {
			for _, c := range s.Stmts {
				WalkStmt(v, c)
			}
		}
	case *ast.VarDeclStmt:
		if v.VisitVarDeclStmt(s) {
			WalkDecl(v, s.Decl)
		}
	case *ast.ForStmt:
		if v.VisitForStmt(s) {
			WalkStmt(v, s.Init)
			if s.Cond != nil {
				WalkExpr(v, s.Cond)
			}
			WalkStmt(v, s.Post)
			WalkStmt(v, s.Body)
		}
	case *ast.WhileStmt:
		if v.VisitWhileStmt(s) {
			WalkExpr(v, s.Cond)
			WalkStmt(v, s.Body)
		}
	case *ast.DoWhileStmt:
		if v.VisitDoWhileStmt(s) {
			WalkStmt(v, s.Body)
			WalkExpr(v, s.Cond)
		}
	case *ast.IfStmt:
		if v.VisitIfStmt(s) {
			WalkExpr(v, s.Cond)
			WalkStmt(v, s.Then)
			WalkStmt(v, s.Else)
		}
	case *ast.SwitchStmt:
		if v.VisitSwitchStmt(s) {
			WalkExpr(v, s.Selector)
			for _, c := range s.Cases {
				for _, ce := range c.CaseExprs {
					WalkExpr(v, ce)
				}
				for _, cs := range c.Stmts {
					WalkStmt(v, cs)
				}
			}
		}
	case *ast.ReturnStmt:
		if v.VisitReturnStmt(s) && s.Value != nil {
			WalkExpr(v, s.Value)
		}
	case *ast.CtrlTransferStmt:
		v.VisitCtrlTransferStmt(s)
	case *ast.ExprStmt:
		if v.VisitExprStmt(s) {
			WalkExpr(v, s.Expr)
		}
	case *ast.NullStmt:
		v.VisitNullStmt(s)
	}
}

// WalkExpr dispatches to the Visit method matching expr's concrete
// type, then descends into its children unless that method returned
// false.
func WalkExpr(v Visitor, expr ast.Expr) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		v.VisitLiteralExpr(e)
	case *ast.SequenceExpr:
		if v.VisitSequenceExpr(e) {
			for _, el := range e.Elems {
				WalkExpr(v, el)
			}
		}
	case *ast.BinaryExpr:
		if v.VisitBinaryExpr(e) {
			WalkExpr(v, e.Left)
			WalkExpr(v, e.Right)
		}
	case *ast.UnaryExpr:
		if v.VisitUnaryExpr(e) {
			WalkExpr(v, e.Operand)
		}
	case *ast.PostUnaryExpr:
		if v.VisitPostUnaryExpr(e) {
			WalkExpr(v, e.Operand)
		}
	case *ast.TernaryExpr:
		if v.VisitTernaryExpr(e) {
			WalkExpr(v, e.Cond)
			WalkExpr(v, e.Then)
			WalkExpr(v, e.Else)
		}
	case *ast.CallExpr:
		if v.VisitCallExpr(e) {
			WalkExpr(v, e.Callee)
			for _, a := range e.Args {
				WalkExpr(v, a)
			}
		}
	case *ast.BracketExpr:
		if v.VisitBracketExpr(e) {
			WalkExpr(v, e.Inner)
		}
	case *ast.IdentExpr:
		v.VisitIdentExpr(e)
	case *ast.MemberExpr:
		if v.VisitMemberExpr(e) {
			WalkExpr(v, e.Receiver)
		}
	case *ast.IndexExpr:
		if v.VisitIndexExpr(e) {
			WalkExpr(v, e.Receiver)
			WalkExpr(v, e.Index)
		}
	case *ast.CastExpr:
		if v.VisitCastExpr(e) {
			WalkExpr(v, e.Operand)
		}
	case *ast.TypeSpecifierExpr:
		v.VisitTypeSpecifierExpr(e)
	case *ast.AssignExpr:
		if v.VisitAssignExpr(e) {
			WalkExpr(v, e.Target)
			WalkExpr(v, e.Value)
		}
	case *ast.InitializerExpr:
		if v.VisitInitializerExpr(e) {
			for _, el := range e.Elems {
				WalkExpr(v, el)
			}
		}
	}
}
