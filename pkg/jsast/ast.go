// Package jsast is an offset-annotated JavaScript / TypeScript syntax tree and the
// parser that produces it.
//
// Every node records byte offsets into the text it was parsed from, shifted by
// Options.Base so callers can parse a slice of a larger document and still get
// offsets relative to the larger document. TypeScript-only syntax is parsed but
// kept opaque: type annotations become TypeNode spans, type declarations become
// TypeDecl nodes.
package jsast

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() int
	End() int
	node()
}

// Loc is the [Start, End) byte range of a node.
type Loc struct {
	Start int
	Stop  int
}

func (l Loc) Pos() int { return l.Start }
func (l Loc) End() int { return l.Stop }
func (Loc) node()      {}

type Program struct {
	Loc
	Body   []Node
	Module bool
}

// Ident is an identifier reference or binding name. `this` and `super` are
// represented as identifiers.
type Ident struct {
	Loc
	Name string
}

type LiteralKind uint8

const (
	LitString LiteralKind = iota
	LitNumber
	LitBigInt
	LitBoolean
	LitNull
	LitRegExp
)

type Literal struct {
	Loc
	Kind LiteralKind
	Raw  string
	// Value is the unquoted value for strings, the pattern between the slashes
	// for regular expressions and the raw text otherwise.
	Value string
	// Flags holds the flags of a regular expression.
	Flags string
}

// TemplateLiteral is a (possibly tagged) template string.
type TemplateLiteral struct {
	Loc
	Tag    Node
	Quasis []string
	Exprs  []Node
}

type ArrayExpr struct {
	Loc
	// Elements holds nil for holes.
	Elements []Node
}

type ObjectExpr struct {
	Loc
	Props []Node
}

type PropertyKind uint8

const (
	PropInit PropertyKind = iota
	PropGet
	PropSet
	PropMethod
)

// Property is an object literal or object pattern member.
type Property struct {
	Loc
	Key       Node
	Value     Node
	Kind      PropertyKind
	Computed  bool
	Shorthand bool
}

type SpreadElement struct {
	Loc
	Arg Node
}

type FuncKind uint8

const (
	FuncDecl FuncKind = iota
	FuncExpr
	FuncArrow
	FuncMethod
)

// Function covers declarations, expressions, arrows and methods.
type Function struct {
	Loc
	Kind      FuncKind
	Name      *Ident
	Params    []Node
	Body      Node // *BlockStmt, or an expression for concise arrows
	Async     bool
	Generator bool
	// TypeParams is the `<...>` list when present.
	TypeParams *TypeNode
	ReturnType *TypeNode
}

type Class struct {
	Loc
	Decl    bool
	Name    *Ident
	Super   Node
	Members []Node
}

type ClassMember struct {
	Loc
	Key      Node
	Value    Node // *Function for methods, initializer for fields, *BlockStmt for static blocks
	Static   bool
	Computed bool
	Kind     PropertyKind
}

type CallExpr struct {
	Loc
	Callee   Node
	Args     []Node
	TypeArgs *TypeNode
	Optional bool
}

type NewExpr struct {
	Loc
	Callee   Node
	Args     []Node
	TypeArgs *TypeNode
}

type MemberExpr struct {
	Loc
	Object   Node
	Property Node
	Computed bool
	Optional bool
}

type UnaryExpr struct {
	Loc
	Op  string
	Arg Node
}

type UpdateExpr struct {
	Loc
	Op     string
	Prefix bool
	Arg    Node
}

// BinaryExpr includes logical operators.
type BinaryExpr struct {
	Loc
	Op    string
	Left  Node
	Right Node
}

type AssignExpr struct {
	Loc
	Op    string
	Left  Node
	Right Node
}

type CondExpr struct {
	Loc
	Test Node
	Cons Node
	Alt  Node
}

type SeqExpr struct {
	Loc
	Exprs []Node
}

type AwaitExpr struct {
	Loc
	Arg Node
}

type YieldExpr struct {
	Loc
	Arg      Node
	Delegate bool
}

type ParenExpr struct {
	Loc
	Expr Node
}

// TypeAssertion is `x as T`, `x satisfies T` or the non-null assertion `x!`.
type TypeAssertion struct {
	Loc
	Expr Node
	Op   string
	Type *TypeNode
}

// TypeNode is an opaque TypeScript type.
type TypeNode struct {
	Loc
}

type ObjectPattern struct {
	Loc
	Props []Node // *Property or *RestElement
}

type ArrayPattern struct {
	Loc
	Elements []Node
}

type AssignPattern struct {
	Loc
	Left  Node
	Right Node
}

type RestElement struct {
	Loc
	Arg Node
}

// Param wraps a parameter that carries TypeScript decoration.
type Param struct {
	Loc
	Pattern  Node
	Optional bool
	Type     *TypeNode
}

type VarDecl struct {
	Loc
	Kind  string
	Decls []*VarDeclarator
}

type VarDeclarator struct {
	Loc
	ID   Node
	Type *TypeNode
	Init Node
}

type ExprStmt struct {
	Loc
	Expr Node
}

type BlockStmt struct {
	Loc
	Body []Node
}

type IfStmt struct {
	Loc
	Test Node
	Cons Node
	Alt  Node
}

type ForStmt struct {
	Loc
	Init   Node
	Test   Node
	Update Node
	Body   Node
}

// ForInStmt covers for-in, for-of and for-await-of.
type ForInStmt struct {
	Loc
	Left  Node
	Right Node
	Body  Node
	Of    bool
	Await bool
}

type WhileStmt struct {
	Loc
	Test Node
	Body Node
}

type DoWhileStmt struct {
	Loc
	Body Node
	Test Node
}

type SwitchStmt struct {
	Loc
	Disc  Node
	Cases []*SwitchCase
}

type SwitchCase struct {
	Loc
	Test Node // nil for default
	Body []Node
}

type TryStmt struct {
	Loc
	Block     *BlockStmt
	Param     Node
	Handler   *BlockStmt
	Finalizer *BlockStmt
}

type ReturnStmt struct {
	Loc
	Arg Node
}

type ThrowStmt struct {
	Loc
	Arg Node
}

// JumpStmt is break or continue.
type JumpStmt struct {
	Loc
	Keyword string
	Label   *Ident
}

type EmptyStmt struct {
	Loc
}

type LabeledStmt struct {
	Loc
	Label *Ident
	Body  Node
}

type ImportKind uint8

const (
	ImportNamed ImportKind = iota
	ImportDefault
	ImportNamespace
)

type ImportDecl struct {
	Loc
	Specifiers []*ImportSpec
	Source     *Literal
	TypeOnly   bool
}

type ImportSpec struct {
	Loc
	Kind     ImportKind
	Imported *Ident
	Local    *Ident
	TypeOnly bool
}

type ExportNamed struct {
	Loc
	Decl       Node
	Specifiers []*ExportSpec
	Source     *Literal
	TypeOnly   bool
}

type ExportSpec struct {
	Loc
	Local    *Ident
	Exported *Ident
}

type ExportDefault struct {
	Loc
	Decl Node
}

type ExportAll struct {
	Loc
	Exported *Ident
	Source   *Literal
}

// TypeDecl is an opaque TypeScript-only declaration (type alias, interface,
// enum, namespace, declare).
type TypeDecl struct {
	Loc
	Kind string
	Name *Ident
}

// BadNode marks a region the tolerant parser skipped. Idents holds the
// identifier references recovered from the skipped tokens.
type BadNode struct {
	Loc
	Idents []*Ident
}
