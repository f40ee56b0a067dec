package ast

import (
	"fmt"
	"strings"
)

// Dump renders prog as an indented text tree, one line per node,
// naming its Go type and (where the node carries one) its identifier,
// plus a trailing "[dead]" marker on anything flagged FlagIsDeadCode by
// transform.EliminateDeadCode. This backs ShaderOutput.Options.showAST
//: a caller asking to see the decorated AST gets this
// instead of generated target source.
//
// Dump only walks Globals (and each FuncDecl's body) — the same
// traversal shape visitor.WalkProgram uses — since every other node
// reachable from the program is reachable through one of those.
func Dump(prog *Program) string {
	var b strings.Builder
	if prog == nil {
		return "<nil program>\n"
	}
	for _, d := range prog.Globals {
		dumpDecl(&b, d, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func deadMarker(n Node) string {
	if n.Flags().Has(FlagIsDeadCode) {
		return " [dead]"
	}
	return ""
}

func line(b *strings.Builder, depth int, n Node, label string) {
	indent(b, depth)
	fmt.Fprintf(b, "%s%s\n", label, deadMarker(n))
}

func dumpDecl(b *strings.Builder, d Decl, depth int) {
	if d == nil {
		return
	}
	switch decl := d.(type) {
	case *FuncDecl:
		line(b, depth, decl, fmt.Sprintf("FuncDecl %s", decl.Name))
		if decl.Body != nil {
			dumpStmt(b, decl.Body, depth+1)
		}
	case *VarDecl:
		line(b, depth, decl, fmt.Sprintf("VarDecl %s", decl.Name))
		if decl.Initializer != nil {
			dumpExpr(b, decl.Initializer, depth+1)
		}
	case *ObjectDecl:
		line(b, depth, decl, fmt.Sprintf("ObjectDecl %s", decl.Name))
	case *BufferDecl:
		line(b, depth, decl, fmt.Sprintf("BufferDecl %s", decl.Name))
		for _, f := range decl.Fields {
			dumpDecl(b, f, depth+1)
		}
	case *StructDecl:
		line(b, depth, decl, fmt.Sprintf("StructDecl %s", decl.Name))
		for _, f := range decl.Fields {
			dumpDecl(b, f, depth+1)
		}
	case *AliasDecl:
		line(b, depth, decl, fmt.Sprintf("AliasDecl %s", decl.Name))
	case *StateDecl:
		line(b, depth, decl, fmt.Sprintf("StateDecl %s", decl.Name))
	case *ParamDecl:
		line(b, depth, decl, fmt.Sprintf("ParamDecl %s", decl.Name))
	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T\n", d)
	}
}

func dumpStmt(b *strings.Builder, s Stmt, depth int) {
	if s == nil {
		return
	}
	switch stmt := s.(type) {
	case *CodeBlockStmt:
		line(b, depth, stmt, "CodeBlockStmt")
		for _, c := range stmt.Stmts {
			dumpStmt(b, c, depth+1)
		}
	case *VarDeclStmt:
		line(b, depth, stmt, "VarDeclStmt")
		dumpDecl(b, stmt.Decl, depth+1)
	case *ForStmt:
		line(b, depth, stmt, "ForStmt")
		dumpStmt(b, stmt.Init, depth+1)
		if stmt.Cond != nil {
			dumpExpr(b, stmt.Cond, depth+1)
		}
		dumpStmt(b, stmt.Post, depth+1)
		dumpStmt(b, stmt.Body, depth+1)
	case *WhileStmt:
		line(b, depth, stmt, "WhileStmt")
		dumpExpr(b, stmt.Cond, depth+1)
		dumpStmt(b, stmt.Body, depth+1)
	case *DoWhileStmt:
		line(b, depth, stmt, "DoWhileStmt")
		dumpStmt(b, stmt.Body, depth+1)
		dumpExpr(b, stmt.Cond, depth+1)
	case *IfStmt:
		line(b, depth, stmt, "IfStmt")
		dumpExpr(b, stmt.Cond, depth+1)
		dumpStmt(b, stmt.Then, depth+1)
		if stmt.Else != nil {
			dumpStmt(b, stmt.Else, depth+1)
		}
	case *SwitchStmt:
		line(b, depth, stmt, "SwitchStmt")
		dumpExpr(b, stmt.Selector, depth+1)
		for _, c := range stmt.Cases {
			indent(b, depth+1)
			b.WriteString("SwitchCase\n")
			for _, ce := range c.CaseExprs {
				dumpExpr(b, ce, depth+2)
			}
			for _, cs := range c.Stmts {
				dumpStmt(b, cs, depth+2)
			}
		}
	case *ReturnStmt:
		line(b, depth, stmt, "ReturnStmt")
		if stmt.Value != nil {
			dumpExpr(b, stmt.Value, depth+1)
		}
	case *CtrlTransferStmt:
		line(b, depth, stmt, "CtrlTransferStmt")
	case *ExprStmt:
		line(b, depth, stmt, "ExprStmt")
		dumpExpr(b, stmt.Expr, depth+1)
	case *NullStmt:
		line(b, depth, stmt, "NullStmt")
	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T\n", s)
	}
}

func dumpExpr(b *strings.Builder, e Expr, depth int) {
	if e == nil {
		return
	}
	switch expr := e.(type) {
	case *LiteralExpr:
		line(b, depth, expr, fmt.Sprintf("LiteralExpr %s", expr.Value))
	case *SequenceExpr:
		line(b, depth, expr, "SequenceExpr")
		for _, el := range expr.Elems {
			dumpExpr(b, el, depth+1)
		}
	case *BinaryExpr:
		line(b, depth, expr, fmt.Sprintf("BinaryExpr %s", expr.Op))
		dumpExpr(b, expr.Left, depth+1)
		dumpExpr(b, expr.Right, depth+1)
	case *UnaryExpr:
		line(b, depth, expr, fmt.Sprintf("UnaryExpr %s", expr.Op))
		dumpExpr(b, expr.Operand, depth+1)
	case *PostUnaryExpr:
		line(b, depth, expr, fmt.Sprintf("PostUnaryExpr %s", expr.Op))
		dumpExpr(b, expr.Operand, depth+1)
	case *TernaryExpr:
		line(b, depth, expr, "TernaryExpr")
		dumpExpr(b, expr.Cond, depth+1)
		dumpExpr(b, expr.Then, depth+1)
		dumpExpr(b, expr.Else, depth+1)
	case *CallExpr:
		line(b, depth, expr, "CallExpr")
		dumpExpr(b, expr.Callee, depth+1)
		for _, a := range expr.Args {
			dumpExpr(b, a, depth+1)
		}
	case *BracketExpr:
		line(b, depth, expr, "BracketExpr")
		dumpExpr(b, expr.Inner, depth+1)
	case *IdentExpr:
		line(b, depth, expr, fmt.Sprintf("IdentExpr %s", expr.Name))
	case *MemberExpr:
		line(b, depth, expr, fmt.Sprintf("MemberExpr .%s", expr.Member))
		dumpExpr(b, expr.Receiver, depth+1)
	case *IndexExpr:
		line(b, depth, expr, "IndexExpr")
		dumpExpr(b, expr.Receiver, depth+1)
		dumpExpr(b, expr.Index, depth+1)
	case *CastExpr:
		line(b, depth, expr, "CastExpr")
		dumpExpr(b, expr.Operand, depth+1)
	case *TypeSpecifierExpr:
		line(b, depth, expr, "TypeSpecifierExpr")
	case *AssignExpr:
		line(b, depth, expr, fmt.Sprintf("AssignExpr %s", expr.Op))
		dumpExpr(b, expr.Target, depth+1)
		dumpExpr(b, expr.Value, depth+1)
	case *InitializerExpr:
		line(b, depth, expr, "InitializerExpr")
		for _, el := range expr.Elems {
			dumpExpr(b, el, depth+1)
		}
	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T\n", e)
	}
}
