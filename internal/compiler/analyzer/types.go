package analyzer

import (
	"strconv"
	"strings"

	"github.com/btouchard/shaderx/internal/compiler/ast"
)

// scalarRank orders the built-in scalar bases from narrowest to
// widest "promotion table" note. Higher ranks can
// always absorb a lower rank's value with zero information loss except
// for the bool/int boundary, which the cost function below prices as a
// conversion rather than a no-op.
var scalarRank = map[string]int{
	"bool": 0, "int": 1, "uint": 2, "half": 3, "float": 4, "double": 5,
}

// splitVectorOrMatrix decodes a built-in HLSL type name like "float3"
// or "int2x3" into its scalar base and dimensions. ok is false for
// anything that is not a recognized scalar/vector/matrix spelling.
func splitVectorOrMatrix(name string) (base string, rows, cols int, ok bool) {
	for b := range scalarRank {
		if !strings.HasPrefix(name, b) {
			continue
		}
		rest := name[len(b):]
		if rest == "" {
			return b, 1, 1, true
		}
		if i := strings.IndexByte(rest, 'x'); i > 0 {
			r, err1 := strconv.Atoi(rest[:i])
			c, err2 := strconv.Atoi(rest[i+1:])
			if err1 == nil && err2 == nil && r >= 1 && r <= 4 && c >= 1 && c <= 4 {
				return b, r, c, true
			}
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 4 {
			return b, n, 1, true
		}
	}
	return "", 0, 0, false
}

func isScalarName(name string) bool {
	_, ok := scalarRank[name]
	return ok
}

// conversionCost ranks how expensive it is to convert a value of type
// from to type to, for overload resolution's "implicit-conversion-cost
// vector" rule. -1 means no implicit conversion exists.
func conversionCost(from, to ast.TypeDenoter) int {
	from, to = ast.GetAliased(from), ast.GetAliased(to)
	if from == nil || to == nil {
		return -1
	}
	if from.String() == to.String() {
		return 0
	}
	fb, ok1 := from.(*ast.BaseType)
	tb, ok2 := to.(*ast.BaseType)
	if !ok1 || !ok2 {
		// Struct-to-struct or buffer-to-buffer: only identical denoters
		// convert (checked above), everything else is incompatible.
		return -1
	}
	fBase, fRows, fCols, fOK := splitVectorOrMatrix(fb.Name)
	tBase, tRows, tCols, tOK := splitVectorOrMatrix(tb.Name)
	if !fOK || !tOK || fRows != tRows || fCols != tCols {
		return -1
	}
	fr, fok := scalarRank[fBase]
	tr, tok := scalarRank[tBase]
	if !fok || !tok {
		return -1
	}
	if fr <= tr {
		return 1 + (tr - fr) // widening, always legal
	}
	return 10 + (fr - tr) // narrowing, legal but costlier and warning-worthy
}

// resolveOverload picks the best FuncDecl from candidates for the
// given argument types by summing each argument's conversionCost
// against the corresponding parameter. A candidate with any -1
// (incompatible) argument is dropped; among the rest, the unique
// lowest total wins. A tie for the lowest total is reported as
// ambiguous (matched=nil, ambiguous=true), never resolved by
// declaration order.
func resolveOverload(candidates []*ast.FuncDecl, argTypes []ast.TypeDenoter) (matched *ast.FuncDecl, ambiguous bool) {
	best := -1
	var bestFn *ast.FuncDecl
	tie := false
	for _, fn := range candidates {
		if len(fn.Params) != len(argTypes) {
			continue
		}
		total := 0
		ok := true
		for i, p := range fn.Params {
			c := conversionCost(argTypes[i], p.Type.Denoter)
			if c < 0 {
				ok = false
				break
			}
			total += c
		}
		if !ok {
			continue
		}
		switch {
		case best == -1 || total < best:
			best, bestFn, tie = total, fn, false
		case total == best:
			tie = true
		}
	}
	if bestFn == nil {
		return nil, false
	}
	if tie {
		return nil, true
	}
	return bestFn, false
}

// constructedType computes the result type of a type-constructor call
// such as float4(...) or MyStruct(...): simply the named type itself,
// since HLSL constructor calls are always fully saturating (the
// analyzer only validates argument-count/type legality elsewhere).
func constructedType(spec *ast.TypeSpecifier) ast.TypeDenoter {
	if len(spec.Dims) == 0 {
		return spec.Denoter
	}
	dims := make([]int, len(spec.Dims))
	for i, d := range spec.Dims {
		dims[i] = -1
		if lit, ok := d.Size.(*ast.LiteralExpr); ok {
			if n, err := strconv.Atoi(lit.Value); err == nil {
				dims[i] = n
			}
		}
	}
	return &ast.ArrayType{Elem: spec.Denoter, Dims: dims}
}

// binaryResultType computes the result type of an arithmetic/bitwise
// binary operator over scalar or same-shape vector operands by
// promoting to the wider scalar base promotion
// table. Mismatched vector shapes or non-numeric operands return nil;
// the caller reports that as a semantic error.
func binaryResultType(l, r ast.TypeDenoter) ast.TypeDenoter {
	l, r = ast.GetAliased(l), ast.GetAliased(r)
	lb, ok1 := l.(*ast.BaseType)
	rb, ok2 := r.(*ast.BaseType)
	if !ok1 || !ok2 {
		return nil
	}
	if lb.Name == rb.Name {
		return lb
	}
	lBase, lRows, lCols, lOK := splitVectorOrMatrix(lb.Name)
	rBase, rRows, rCols, rOK := splitVectorOrMatrix(rb.Name)
	if !lOK || !rOK {
		return nil
	}
	// A scalar operand broadcasts against a vector/matrix of the other
	// operand's shape; otherwise shapes must match exactly.
	rows, cols := lRows, lCols
	switch {
	case lRows == 1 && lCols == 1:
		rows, cols = rRows, rCols
	case rRows == 1 && rCols == 1:
		rows, cols = lRows, lCols
	case lRows != rRows || lCols != rCols:
		return nil
	}
	lr, lok := scalarRank[lBase]
	rr, rok := scalarRank[rBase]
	if !lok || !rok {
		return nil
	}
	base := lBase
	if rr > lr {
		base = rBase
	}
	return &ast.BaseType{Name: shapeName(base, rows, cols)}
}

func shapeName(base string, rows, cols int) string {
	if rows == 1 && cols == 1 {
		return base
	}
	if cols == 1 {
		return base + strconv.Itoa(rows)
	}
	return base + strconv.Itoa(rows) + "x" + strconv.Itoa(cols)
}

// swizzleResultType computes the type of a vector swizzle such as
// `.xyz` or `.rg`, or false if member is not a valid swizzle mask for
// receiver's shape.
func swizzleResultType(receiver ast.TypeDenoter, member string) (ast.TypeDenoter, bool) {
	bt, ok := ast.GetAliased(receiver).(*ast.BaseType)
	if !ok {
		return nil, false
	}
	base, rows, cols, vok := splitVectorOrMatrix(bt.Name)
	if !vok || cols != 1 || rows < 1 || len(member) == 0 || len(member) > 4 {
		return nil, false
	}
	const xyzw = "xyzw"
	const rgba = "rgba"
	for _, c := range member {
		ix := strings.IndexRune(xyzw, c)
		if ix < 0 {
			ix = strings.IndexRune(rgba, c)
		}
		if ix < 0 || ix >= rows {
			return nil, false
		}
	}
	return &ast.BaseType{Name: shapeName(base, len(member), 1)}, true
}
