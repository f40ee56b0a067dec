package transform

import (
	"strconv"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// FoldConstants performs trivial literal-arithmetic constant folding
// — the only optimization this compiler attempts beyond dead-code
// elimination. Every reachable function body's expressions are
// folded bottom-up, so `1 + 2` becomes the literal `3` and `1 < 2`
// becomes the literal `true` ahead of EliminateDeadCode, which depends
// on conditions already being reduced to literals. Reachability-gated
// the same way ConvertExprs/ConvertTypes are, since the generator
// never emits anything else.
func FoldConstants(prog *ast.Program) {
	for _, g := range prog.Globals {
		fn, ok := g.(*ast.FuncDecl)
		if !ok || !fn.Flags().Has(ast.FlagReachable) || fn.Body == nil {
			continue
		}
		foldStmt(fn.Body)
	}
}

func foldStmt(s ast.Stmt) {
	switch st := s.(type) {
	case nil:
	case *ast.CodeBlockStmt:
		for _, inner := range st.Stmts {
			foldStmt(inner)
		}
	case *ast.VarDeclStmt:
		st.Decl.Initializer = foldExpr(st.Decl.Initializer)
	case *ast.ForStmt:
		foldStmt(st.Init)
		st.Cond = foldExpr(st.Cond)
		foldStmt(st.Post)
		foldStmt(st.Body)
	case *ast.WhileStmt:
		st.Cond = foldExpr(st.Cond)
		foldStmt(st.Body)
	case *ast.DoWhileStmt:
		foldStmt(st.Body)
		st.Cond = foldExpr(st.Cond)
	case *ast.IfStmt:
		st.Cond = foldExpr(st.Cond)
		foldStmt(st.Then)
		foldStmt(st.Else)
	case *ast.SwitchStmt:
		st.Selector = foldExpr(st.Selector)
		for _, c := range st.Cases {
			for i, ce := range c.CaseExprs {
				c.CaseExprs[i] = foldExpr(ce)
			}
			for _, inner := range c.Stmts {
				foldStmt(inner)
			}
		}
	case *ast.ReturnStmt:
		st.Value = foldExpr(st.Value)
	case *ast.ExprStmt:
		st.Expr = foldExpr(st.Expr)
	}
}

// foldExpr rewrites e bottom-up, returning the (possibly replaced)
// node; nil passes through unchanged, matching ConvertExprs'
// convertExpr convention in this same package.
func foldExpr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case *ast.SequenceExpr:
		for i, el := range ex.Elems {
			ex.Elems[i] = foldExpr(el)
		}
	case *ast.BinaryExpr:
		ex.Left = foldExpr(ex.Left)
		ex.Right = foldExpr(ex.Right)
		if folded := foldBinary(ex); folded != nil {
			return folded
		}
	case *ast.UnaryExpr:
		ex.Operand = foldExpr(ex.Operand)
		if folded := foldUnary(ex); folded != nil {
			return folded
		}
	case *ast.PostUnaryExpr:
		ex.Operand = foldExpr(ex.Operand)
	case *ast.TernaryExpr:
		ex.Cond = foldExpr(ex.Cond)
		ex.Then = foldExpr(ex.Then)
		ex.Else = foldExpr(ex.Else)
		if truthy, ok := constCond(ex.Cond); ok {
			if truthy {
				return ex.Then
			}
			return ex.Else
		}
	case *ast.BracketExpr:
		ex.Inner = foldExpr(ex.Inner)
	case *ast.MemberExpr:
		ex.Receiver = foldExpr(ex.Receiver)
	case *ast.IndexExpr:
		ex.Receiver = foldExpr(ex.Receiver)
		ex.Index = foldExpr(ex.Index)
	case *ast.CastExpr:
		ex.Operand = foldExpr(ex.Operand)
	case *ast.AssignExpr:
		ex.Target = foldExpr(ex.Target)
		ex.Value = foldExpr(ex.Value)
	case *ast.InitializerExpr:
		for i, el := range ex.Elems {
			ex.Elems[i] = foldExpr(el)
		}
	case *ast.CallExpr:
		for i, a := range ex.Args {
			ex.Args[i] = foldExpr(a)
		}
	}
	return e
}

// literalNumber reads a LiteralExpr's INT/FLOAT payload as a float64
// plus whether it was an integer literal (so the caller can decide
// whether to re-emit an INT or FLOAT literal kind).
func literalNumber(e ast.Expr) (value float64, isInt bool, ok bool) {
	lit, is := e.(*ast.LiteralExpr)
	if !is {
		return 0, false, false
	}
	switch lit.Kind {
	case token.INT:
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return 0, false, false
		}
		return float64(n), true, true
	case token.FLOAT:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return 0, false, false
		}
		return f, false, true
	}
	return 0, false, false
}

// literalBool reads a LiteralExpr's boolean payload: TRUE/FALSE
// directly, or a numeric literal's C-style truthiness (nonzero).
func literalBool(e ast.Expr) (value bool, ok bool) {
	lit, is := e.(*ast.LiteralExpr)
	if !is {
		return false, false
	}
	switch lit.Kind {
	case token.TRUE:
		return true, true
	case token.FALSE:
		return false, true
	}
	if n, _, isNum := literalNumber(e); isNum {
		return n != 0, true
	}
	return false, false
}

// constCond is literalBool under the name EliminateDeadCode's
// condition-folding reads at call sites; kept as a thin alias so the
// DCE code below reads as "is this condition decided" rather than
// "read a bool literal".
func constCond(e ast.Expr) (bool, bool) { return literalBool(e) }

func intLit(base ast.Base, n int64) *ast.LiteralExpr {
	return &ast.LiteralExpr{ExprBase: ast.ExprBase{Base: base}, Kind: token.INT, Value: strconv.FormatInt(n, 10)}
}

func floatLit(base ast.Base, f float64) *ast.LiteralExpr {
	return &ast.LiteralExpr{ExprBase: ast.ExprBase{Base: base}, Kind: token.FLOAT, Value: strconv.FormatFloat(f, 'g', -1, 64)}
}

func boolLit(base ast.Base, b bool) *ast.LiteralExpr {
	k := token.FALSE
	if b {
		k = token.TRUE
	}
	return &ast.LiteralExpr{ExprBase: ast.ExprBase{Base: base}, Kind: k}
}

// foldBinary folds a BinaryExpr whose operands are now both literals,
// returning nil (leave ex as-is) when either operand isn't a literal
// this pass knows how to combine, or the operator itself isn't a
// trivially-foldable one (vector/matrix operators are left to the
// generator; this only ever sees scalar literal pairs since a
// vector-typed operand is never a LiteralExpr).
func foldBinary(ex *ast.BinaryExpr) ast.Expr {
	if lv, lInt, lOK := literalNumber(ex.Left); lOK {
		if rv, rInt, rOK := literalNumber(ex.Right); rOK {
			bothInt := lInt && rInt
			switch ex.Op {
			case token.PLUS:
				return numericResult(ex.Base, lv+rv, bothInt)
			case token.MINUS:
				return numericResult(ex.Base, lv-rv, bothInt)
			case token.STAR:
				return numericResult(ex.Base, lv*rv, bothInt)
			case token.SLASH:
				if rv == 0 {
					return nil
				}
				if bothInt {
					return intLit(ex.Base, int64(lv)/int64(rv))
				}
				return floatLit(ex.Base, lv/rv)
			case token.PERCENT:
				if !bothInt || int64(rv) == 0 {
					return nil
				}
				return intLit(ex.Base, int64(lv)%int64(rv))
			case token.AMP:
				if bothInt {
					return intLit(ex.Base, int64(lv)&int64(rv))
				}
			case token.PIPE:
				if bothInt {
					return intLit(ex.Base, int64(lv)|int64(rv))
				}
			case token.CARET:
				if bothInt {
					return intLit(ex.Base, int64(lv)^int64(rv))
				}
			case token.SHL:
				if bothInt {
					return intLit(ex.Base, int64(lv)<<uint(int64(rv)))
				}
			case token.SHR:
				if bothInt {
					return intLit(ex.Base, int64(lv)>>uint(int64(rv)))
				}
			case token.LT:
				return boolLit(ex.Base, lv < rv)
			case token.GT:
				return boolLit(ex.Base, lv > rv)
			case token.LT_EQ:
				return boolLit(ex.Base, lv <= rv)
			case token.GT_EQ:
				return boolLit(ex.Base, lv >= rv)
			case token.EQ:
				return boolLit(ex.Base, lv == rv)
			case token.NOT_EQ:
				return boolLit(ex.Base, lv != rv)
			}
			return nil
		}
	}
	if lb, lOK := literalBool(ex.Left); lOK {
		if rb, rOK := literalBool(ex.Right); rOK {
			switch ex.Op {
			case token.ANDAND:
				return boolLit(ex.Base, lb && rb)
			case token.OROR:
				return boolLit(ex.Base, lb || rb)
			}
		}
	}
	return nil
}

func numericResult(base ast.Base, v float64, isInt bool) *ast.LiteralExpr {
	if isInt {
		return intLit(base, int64(v))
	}
	return floatLit(base, v)
}

// foldUnary folds `-lit` and `!lit`; other unary operators (`~`, pre-
// increment/decrement) either have no scalar-literal analogue here or
// are never legal on a literal operand to begin with.
func foldUnary(ex *ast.UnaryExpr) ast.Expr {
	switch ex.Op {
	case token.MINUS:
		if v, isInt, ok := literalNumber(ex.Operand); ok {
			return numericResult(ex.Base, -v, isInt)
		}
	case token.BANG:
		if b, ok := literalBool(ex.Operand); ok {
			return boolLit(ex.Base, !b)
		}
	}
	return nil
}

// EliminateDeadCode collapses `if` statements whose condition
// FoldConstants already reduced to a literal
// dead-code-elimination floor: the surviving branch's statements are
// spliced directly into the enclosing block in place of the `if`,
// and the discarded branch is flagged ast.FlagIsDeadCode. The discarded
// branch is no longer referenced from the function body afterward, so
// neither the generator nor an Options.ShowAST dump (taken after this
// pass) sees it. Must run after FoldConstants in the same pass
// sequence; it does not fold expressions itself.
func EliminateDeadCode(prog *ast.Program) {
	for _, g := range prog.Globals {
		fn, ok := g.(*ast.FuncDecl)
		if !ok || !fn.Flags().Has(ast.FlagReachable) || fn.Body == nil {
			continue
		}
		fn.Body.Stmts = flattenAll(fn.Body.Stmts)
	}
}

func flattenAll(stmts []ast.Stmt) []ast.Stmt {
	var out []ast.Stmt
	for _, s := range stmts {
		out = append(out, flattenOne(s)...)
	}
	return out
}

// flattenOne rewrites one statement, returning the zero-or-more
// statements it expands to in its enclosing list: a constant-folded
// `if` expands to its live branch's statements (or nothing, if that
// branch is absent); every other statement expands to itself,
// recursively flattened inside any nested block it carries.
func flattenOne(s ast.Stmt) []ast.Stmt {
	switch st := s.(type) {
	case nil:
		return nil
	case *ast.CodeBlockStmt:
		st.Stmts = flattenAll(st.Stmts)
		return []ast.Stmt{st}
	case *ast.ForStmt:
		st.Body = wrapFlattened(st.Body)
		return []ast.Stmt{st}
	case *ast.WhileStmt:
		st.Body = wrapFlattened(st.Body)
		return []ast.Stmt{st}
	case *ast.DoWhileStmt:
		st.Body = wrapFlattened(st.Body)
		return []ast.Stmt{st}
	case *ast.SwitchStmt:
		for _, c := range st.Cases {
			c.Stmts = flattenAll(c.Stmts)
		}
		return []ast.Stmt{st}
	case *ast.IfStmt:
		if truthy, ok := constCond(st.Cond); ok {
			live, dead := st.Then, st.Else
			if !truthy {
				live, dead = st.Else, st.Then
			}
			markDead(dead)
			if block, isBlock := live.(*ast.CodeBlockStmt); isBlock {
				return flattenAll(block.Stmts)
			}
			return flattenOne(live)
		}
		st.Then = wrapFlattened(st.Then)
		st.Else = wrapFlattened(st.Else)
		return []ast.Stmt{st}
	default:
		return []ast.Stmt{s}
	}
}

// wrapFlattened flattens a loop/if body in place, re-wrapping a
// multi-statement expansion in a CodeBlockStmt since the body field
// holds a single ast.Stmt, not a list.
func wrapFlattened(body ast.Stmt) ast.Stmt {
	expanded := flattenOne(body)
	switch len(expanded) {
	case 0:
		return nil
	case 1:
		return expanded[0]
	default:
		return &ast.CodeBlockStmt{Stmts: expanded}
	}
}

// markDead flags a pruned branch (and, if it is a block, each direct
// child statement) with ast.FlagIsDeadCode without touching anything
// it references; pruned subtrees are simply unreachable from fn.Body
// afterward, so the flag is only visible through a reference to the
// pruned statement taken before elimination ran.
func markDead(s ast.Stmt) {
	if s == nil {
		return
	}
	s.Flags().Set(ast.FlagIsDeadCode)
	if block, ok := s.(*ast.CodeBlockStmt); ok {
		for _, inner := range block.Stmts {
			markDead(inner)
		}
	}
}
