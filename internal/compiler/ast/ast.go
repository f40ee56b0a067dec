// Package ast defines the typed, visitable abstract syntax tree the
// parser produces and every later stage decorates in place. Nodes
// are grouped as declarations, statements,
// expressions and typing nodes; every node carries a source range and
// a flag bitfield, and expression nodes additionally carry a lazily
// computed, shared TypeDenoter. The Program node owns every node in
// the tree (arena-style): cross-references such as a CallExpr's
// ResolvedFunc are non-owning back-references that outlive the
// reference because the Program is the unit of lifetime.
package ast

import "github.com/btouchard/shaderx/internal/compiler/token"

// Range is the source span a node occupies.
type Range struct {
	Pos token.Position
	End token.Position
}

// Flags is the small bitfield every node carries, each bit
// enumerated explicitly below. Different node kinds use different
// subsets of bits;
// an unused bit on a given node kind is simply never set.
type Flags uint32

const (
	// FlagReachable marks a declaration transitively reachable from the
	// entry point (set by transform.ReferenceAnalyzer).
	FlagReachable Flags = 1 << iota
	// FlagGenerated marks a node synthesized by a transformer rather
	// than produced by the parser (e.g. the IO-flattening wrapper entry
	// point).
	FlagGenerated
	// FlagHasNonReturnPath marks a FuncDecl for which control can fall
	// off the end without executing a return statement.
	FlagHasNonReturnPath
	// FlagIsEntryPoint marks the function named by ShaderInput.entryPoint.
	FlagIsEntryPoint
	// FlagIsSecondaryEntryPoint marks the IO-flattening wrapper entry
	// point FuncDecl the analyzer generates for targets that cannot
	// carry semantics on parameters.
	FlagIsSecondaryEntryPoint
	// FlagIsImmutable marks a VarDecl declared `static` or `const`.
	FlagIsImmutable
	// FlagIsDeadCode marks a statement of a branch that
	// transform.EliminateDeadCode pruned (an `if (false) { ... }`
	// branch); the pruned branch is removed from its enclosing block, so
	// the generator never reaches it.
	FlagIsDeadCode
	// FlagIsEntryIOStruct marks a StructDecl used purely as entry-point
	// parameter/return IO, as opposed to a nominal type that survives
	// into the output (set by transform.MarkEntryIOStructs).
	FlagIsEntryIOStruct
)

// Set, Clear and Has implement simple bit-test/bit-mutation helpers so
// callers never write raw `|=`/`&^=` against a Flags field.
func (f *Flags) Set(b Flags)     { *f |= b }
func (f *Flags) Clear(b Flags)   { *f &^= b }
func (f Flags) Has(b Flags) bool { return f&b != 0 }

// Node is the base interface every AST value implements: a source
// range and, via the embedded NodeFlags accessor, the flag bitfield.
type Node interface {
	Pos() token.Position
	End() token.Position
	Flags() *Flags
}

// Base is embedded by every concrete node and supplies Node's methods.
type Base struct {
	Range     Range
	NodeFlags Flags
}

func (b *Base) Pos() token.Position { return b.Range.Pos }
func (b *Base) End() token.Position { return b.Range.End }
func (b *Base) Flags() *Flags       { return &b.NodeFlags }

// ---------------------------------------------------------------------
// Type denoters
// ---------------------------------------------------------------------

// TypeDenoter is the structural representation of a type, shared by
// reference across every expression that computes the same type.
// Denoters are immutable after construction; in Go the
// garbage collector supersedes manual reference counting, so sharing
// is by plain pointer.
type TypeDenoter interface {
	denoterNode()
	String() string
}

// VoidType is the denoter of a function with no return value.
type VoidType struct{}

func (*VoidType) denoterNode()    {}
func (*VoidType) String() string { return "void" }

// BaseType names a scalar, vector or matrix built-in (e.g. "float",
// "float4", "int3x3", "bool2").
type BaseType struct{ Name string }

func (*BaseType) denoterNode()      {}
func (t *BaseType) String() string { return t.Name }

// BufferType denotes a texture or buffer object type, e.g.
// Texture2D<float4>, Buffer<float4>, RWTexture2D<float4>.
type BufferType struct {
	Kind string // "Texture1D", "Texture2D", "RWBuffer", "ConstantBuffer", ...
	Elem TypeDenoter
}

func (*BufferType) denoterNode() {}
func (t *BufferType) String() string {
	if t.Elem == nil {
		return t.Kind
	}
	return t.Kind + "<" + t.Elem.String() + ">"
}

// SamplerType denotes SamplerState / SamplerComparisonState.
type SamplerType struct{ Kind string }

func (*SamplerType) denoterNode()    {}
func (t *SamplerType) String() string { return t.Kind }

// StructType denotes a user struct, referencing its declaration.
type StructType struct{ Decl *StructDecl }

func (*StructType) denoterNode() {}
func (t *StructType) String() string {
	if t.Decl == nil {
		return "struct"
	}
	return t.Decl.Name
}

// ArrayType denotes an array of Elem with one entry per dimension;
// Dims[i] == -1 means that dimension is unsized (only legal as the
// outermost dimension of a function parameter).
type ArrayType struct {
	Elem TypeDenoter
	Dims []int
}

func (*ArrayType) denoterNode() {}
func (t *ArrayType) String() string {
	s := t.Elem.String()
	for range t.Dims {
		s += "[]"
	}
	return s
}

// AliasType is a typedef: a name that forwards to another denoter.
// Aliased chains must be followed with GetAliased before structural
// inspection
type AliasType struct {
	Name    string
	Aliased TypeDenoter
}

func (*AliasType) denoterNode()     {}
func (t *AliasType) String() string { return t.Name }

// GetAliased follows an AliasType chain to its underlying structural
// denoter. Non-alias denoters are returned unchanged.
func GetAliased(t TypeDenoter) TypeDenoter {
	for {
		a, ok := t.(*AliasType)
		if !ok || a.Aliased == nil {
			return t
		}
		t = a.Aliased
	}
}

// ---------------------------------------------------------------------
// Decorators shared across declarations
// ---------------------------------------------------------------------

// Semantic binds a declaration to a pipeline slot, e.g. `: SV_Target`,
// `: POSITION0`.
type Semantic struct {
	Name  string
	Index int
}

// RegisterSpec is an explicit `register(b0, space1)` binding decorator.
type RegisterSpec struct {
	Kind  byte // 'b','t','s','u', ...
	Slot  int
	Space int
}

// PackOffset is a `packoffset(c0.y)` decorator on a cbuffer field.
type PackOffset struct {
	Component string
	Offset    int
}

// Annotation is a `<...>` decorator block on a variable declaration.
type Annotation struct {
	Entries map[string]string
}

// Attribute is a `[numthreads(8,8,1)]`-shaped bracketed attribute on a
// function declaration.
type Attribute struct {
	Name string
	Args []string
}

// StorageClass enumerates the storage-class keywords.
type StorageClass uint8

const (
	StorageNone StorageClass = iota
	StorageStatic
	StorageConst
	StorageUniform
	StorageIn
	StorageOut
	StorageInout
)

// InterpModifier enumerates interpolation modifiers.
type InterpModifier uint8

const (
	InterpDefault InterpModifier = iota
	InterpLinear
	InterpCentroid
	InterpNoPerspective
	InterpNoInterpolation
	InterpSample
)

// ---------------------------------------------------------------------
// Typing nodes
// ---------------------------------------------------------------------

// ArrayDimension is one `[N]` or `[]` suffix on a declared type.
// Size is nil for an unsized dimension.
type ArrayDimension struct {
	Base
	Size Expr
}

// TypeSpecifier is the syntactic type written at a declaration or
// cast site: a denoter plus any trailing array dimensions.
type TypeSpecifier struct {
	Base
	Denoter TypeDenoter
	Dims    []*ArrayDimension
}

// ---------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------

// Decl is implemented by every declaration-kind node.
type Decl interface {
	Node
	declNode()
	DeclName() string
}

// ParamDecl is one function parameter.
type ParamDecl struct {
	Base
	Name         string
	Type         *TypeSpecifier
	StorageClass StorageClass
	Interp       InterpModifier
	Semantic     *Semantic
	Default      Expr
}

func (p *ParamDecl) declNode()        {}
func (p *ParamDecl) DeclName() string { return p.Name }

// FuncDecl is a function declaration (and, when Body is non-nil, its
// definition). Overloaded functions share a name and are recorded as
// separate FuncDecls; the analyzer, not the parser, picks among them.
type FuncDecl struct {
	Base
	Name         string
	Params       []*ParamDecl
	ReturnType   *TypeSpecifier
	Semantic     *Semantic
	Attributes   []*Attribute
	Body         *CodeBlockStmt
	MangledName  string // set by transform.ConvertFuncNames
}

func (f *FuncDecl) declNode()        {}
func (f *FuncDecl) DeclName() string { return f.Name }

// VarDecl is a variable declaration: a global, a cbuffer field, a
// struct field, or (wrapped in a VarDeclStmt) a local.
type VarDecl struct {
	Base
	Name         string
	Type         *TypeSpecifier
	StorageClass StorageClass
	Interp       InterpModifier
	Semantic     *Semantic
	Register     *RegisterSpec
	PackOffset   *PackOffset
	Annotations  []*Annotation
	Initializer  Expr
}

func (v *VarDecl) declNode()        {}
func (v *VarDecl) DeclName() string { return v.Name }

// ObjectDecl is a global texture, sampler, or raw-buffer object
// declaration (as opposed to a cbuffer's scalar/vector fields).
type ObjectDecl struct {
	Base
	Name     string
	Type     TypeDenoter // *BufferType or *SamplerType
	Register *RegisterSpec
}

func (o *ObjectDecl) declNode()        {}
func (o *ObjectDecl) DeclName() string { return o.Name }

// BufferDecl is a `cbuffer`/`tbuffer` declaration: a named group of
// VarDecl fields sharing one register binding.
type BufferDecl struct {
	Base
	Name            string
	IsTextureBuffer bool
	Fields          []*VarDecl
	Register        *RegisterSpec
}

func (b *BufferDecl) declNode()        {}
func (b *BufferDecl) DeclName() string { return b.Name }

// StructDecl is a user `struct` declaration.
type StructDecl struct {
	Base
	Name   string
	Fields []*VarDecl
}

func (s *StructDecl) declNode()        {}
func (s *StructDecl) DeclName() string { return s.Name }

// AliasDecl is a `typedef` declaration.
type AliasDecl struct {
	Base
	Name string
	Type *TypeSpecifier
}

func (a *AliasDecl) declNode()        {}
func (a *AliasDecl) DeclName() string { return a.Name }

// StateDecl is a state-object block declaration, e.g.
// `SamplerState s { Filter = MIN_MAG_MIP_LINEAR; };`.
type StateDecl struct {
	Base
	Name    string
	Kind    string
	Entries map[string]string
}

func (s *StateDecl) declNode()        {}
func (s *StateDecl) DeclName() string { return s.Name }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Stmt is implemented by every statement-kind node.
type Stmt interface {
	Node
	stmtNode()
}

// CodeBlockStmt is a brace-delimited statement sequence; it also
// doubles as a symtab scope boundary.
type CodeBlockStmt struct {
	Base
	Stmts []Stmt
}

func (*CodeBlockStmt) stmtNode() {}

// VarDeclStmt wraps a local VarDecl so it can appear in a statement
// position.
type VarDeclStmt struct {
	Base
	Decl *VarDecl
}

func (*VarDeclStmt) stmtNode() {}

// ForStmt is a C-style `for (init; cond; post) body` loop. Init may be
// a VarDeclStmt or an ExprStmt; Post is always an ExprStmt or nil.
type ForStmt struct {
	Base
	Init Stmt
	Cond Expr
	Post Stmt
	Body Stmt
}

func (*ForStmt) stmtNode() {}

// WhileStmt is a `while (cond) body` loop.
type WhileStmt struct {
	Base
	Cond Expr
	Body Stmt
}

func (*WhileStmt) stmtNode() {}

// DoWhileStmt is a `do body while (cond);` loop.
type DoWhileStmt struct {
	Base
	Body Stmt
	Cond Expr
}

func (*DoWhileStmt) stmtNode() {}

// IfStmt is an `if (cond) then else alt` conditional; Else is nil when
// there is no else clause.
type IfStmt struct {
	Base
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) stmtNode() {}

// SwitchCase is one `case expr:` or `default:` arm of a SwitchStmt.
// Multiple fallthrough case labels share one Stmts list via
// CaseExprs holding more than one entry.
type SwitchCase struct {
	Base
	CaseExprs []Expr
	IsDefault bool
	Stmts     []Stmt
}

// SwitchStmt is a `switch (selector) { cases }` statement.
type SwitchStmt struct {
	Base
	Selector Expr
	Cases    []*SwitchCase
}

func (*SwitchStmt) stmtNode() {}

// ReturnStmt is `return;` or `return value;`.
type ReturnStmt struct {
	Base
	Value Expr
}

func (*ReturnStmt) stmtNode() {}

// CtrlTransferKind enumerates the non-return control-transfer
// statements.
type CtrlTransferKind uint8

const (
	CtrlBreak CtrlTransferKind = iota
	CtrlContinue
	CtrlDiscard
)

// CtrlTransferStmt is `break;`, `continue;`, or `discard;`.
type CtrlTransferStmt struct {
	Base
	Kind CtrlTransferKind
}

func (*CtrlTransferStmt) stmtNode() {}

// ExprStmt is an expression used as a statement (a call, an
// assignment, a pre/post increment).
type ExprStmt struct {
	Base
	Expr Expr
}

func (*ExprStmt) stmtNode() {}

// NullStmt is a bare `;`.
type NullStmt struct{ Base }

func (*NullStmt) stmtNode() {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expr is implemented by every expression-kind node. Every expression
// carries a lazily computed TypeDenoter, filled in bottom-up by the
// analyzer.
type Expr interface {
	Node
	exprNode()
	Type() TypeDenoter
	SetType(TypeDenoter)
}

// ExprBase is embedded by every concrete expression and supplies the
// Type()/SetType() half of Expr on top of Base's Node methods.
type ExprBase struct {
	Base
	Typ TypeDenoter
}

func (e *ExprBase) exprNode()             {}
func (e *ExprBase) Type() TypeDenoter     { return e.Typ }
func (e *ExprBase) SetType(t TypeDenoter) { e.Typ = t }

// LiteralExpr is a numeric, string, character, or boolean literal.
type LiteralExpr struct {
	ExprBase
	Kind   token.Kind // INT, FLOAT, STRING, CHAR, TRUE, FALSE
	Value  string
	Suffix string
}

// SequenceExpr is the comma operator: `a, b, c`.
type SequenceExpr struct {
	ExprBase
	Elems []Expr
}

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// UnaryExpr is a prefix unary operator: `!x`, `-x`, `++x`, `--x`.
type UnaryExpr struct {
	ExprBase
	Op      token.Kind
	Operand Expr
}

// PostUnaryExpr is a postfix unary operator: `x++`, `x--`.
type PostUnaryExpr struct {
	ExprBase
	Op      token.Kind
	Operand Expr
}

// TernaryExpr is `cond ? then : else`.
type TernaryExpr struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

// CallExpr is a function call or type constructor invocation;
// ResolvedFunc is bound by the analyzer's overload resolution (nil for
// a type-constructor call, which has no FuncDecl).
type CallExpr struct {
	ExprBase
	Callee       Expr
	Args         []Expr
	ResolvedFunc *FuncDecl
}

// BracketExpr is a parenthesized expression, kept as its own node
// (rather than folded away) so the parser's cast-vs-paren
// disambiguation and the generator's paren-preservation policy both
// have a concrete node to work with.
type BracketExpr struct {
	ExprBase
	Inner Expr
}

// IdentExpr is a bare identifier use-site. ResolvedDecl is nil until
// the analyzer's name-binding pass runs; an unresolved name at the end
// of analysis is reported as a SemanticError, never left silently nil
// in a way that later stages would dereference.
type IdentExpr struct {
	ExprBase
	Name         string
	ResolvedDecl Decl
}

// MemberExpr is `receiver.member`: a struct field access, a cbuffer
// field access, or a vector swizzle. Swizzles are distinguished from
// field access by the analyzer inspecting Receiver's type, not by the
// parser.
type MemberExpr struct {
	ExprBase
	Receiver     Expr
	Member       string
	ResolvedDecl Decl // nil for a swizzle
}

// IndexExpr is `receiver[index]`: array indexing or a matrix row
// access.
type IndexExpr struct {
	ExprBase
	Receiver Expr
	Index    Expr
}

// CastExpr is an explicit C-style cast: `(float3)x`.
type CastExpr struct {
	ExprBase
	Target  *TypeSpecifier
	Operand Expr
}

// TypeSpecifierExpr wraps a TypeSpecifier so it can appear in
// expression position, as the callee of a CallExpr representing a
// type-constructor invocation (`float4(1,0,0,1)`).
type TypeSpecifierExpr struct {
	ExprBase
	Spec *TypeSpecifier
}

// AssignExpr is `target op= value` for op in {=, +=, -=, *=, /=, %=,
// &=, |=, ^=, <<=, >>=}.
type AssignExpr struct {
	ExprBase
	Op     token.Kind
	Target Expr
	Value  Expr
}

// InitializerExpr is a brace aggregate initializer: `{1, 2, 3}`.
type InitializerExpr struct {
	ExprBase
	Elems []Expr
}

// ---------------------------------------------------------------------
// Program and per-stage layout records
// ---------------------------------------------------------------------

// TessControlLayout holds hull-shader-stage attributes.
type TessControlLayout struct {
	OutputControlPoints int
	MaxTessFactor        float64
	Partitioning         string
	OutputTopology       string
}

// TessEvalLayout holds domain-shader-stage attributes.
type TessEvalLayout struct {
	DomainType     string
	Partitioning   string
	OutputTopology string
}

// GeometryLayout holds geometry-shader-stage attributes.
type GeometryLayout struct {
	MaxVertices    int
	InputPrimitive string
	OutputTopology string
}

// FragmentLayout holds pixel/fragment-shader-stage attributes.
type FragmentLayout struct {
	EarlyDepthStencil bool
}

// ComputeLayout holds compute-shader-stage attributes.
type ComputeLayout struct {
	NumThreads [3]int
}

// StageLayouts groups the fixed per-stage attribute records. Only
// the record matching ShaderInput.shaderTarget is
// meaningful for a given compilation; the others are left zero.
type StageLayouts struct {
	TessControl TessControlLayout
	TessEval    TessEvalLayout
	Geometry    GeometryLayout
	Fragment    FragmentLayout
	Compute     ComputeLayout
}

// Program is the AST root: it owns every node reachable from it
// (arena-style — there is no explicit free; the Go garbage collector
// reclaims the tree when Program itself is no longer referenced).
type Program struct {
	Base
	Globals             []Decl
	EntryPoint          *FuncDecl
	SecondaryEntryPoint *FuncDecl
	Stages              StageLayouts
}
