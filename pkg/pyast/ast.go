// Package pyast defines a typed Python syntax tree built from a closed set of node variants.
//
// The tree keeps only what structural analysis needs: definitions, control flow, imports,
// boolean operators and string literals. Every other statement or expression is preserved as a
// generic container so that descendants (nested definitions, lambdas, boolean operators inside
// calls) remain reachable.
package pyast

// Pos is a 1-based source line.
type Pos struct {
	Line int
}

// Position returns the receiver; it lets every variant satisfy Node through embedding.
func (p Pos) Position() Pos { return p }

// Node is implemented by every variant in this package.
type Node interface {
	Position() Pos
	node()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Module is the root of a parsed file.
type Module struct {
	Pos
	Body []Stmt
}

// FunctionDef is a def or async def statement. Pos is the line of the def keyword,
// not of the first decorator.
type FunctionDef struct {
	Pos
	Name       string
	Async      bool
	Decorators []Expr
	Params     []Expr
	Returns    Expr
	Body       []Stmt
}

// ClassDef is a class statement.
type ClassDef struct {
	Pos
	Name       string
	Decorators []Expr
	Bases      []Expr
	Body       []Stmt
}

// If is an if statement. An elif clause is represented as an If with Elif set, stored as the
// only statement of its parent's Orelse, mirroring CPython's ast.
type If struct {
	Pos
	Elif   bool
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// For is a for or async for loop.
type For struct {
	Pos
	Async  bool
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
}

// While is a while loop.
type While struct {
	Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// Try is a try statement; Star marks except* groups.
type Try struct {
	Pos
	Star     bool
	Body     []Stmt
	Handlers []*ExceptHandler
	Orelse   []Stmt
	Finally  []Stmt
}

// ExceptHandler is one except clause of a Try.
type ExceptHandler struct {
	Pos
	Type Expr
	Body []Stmt
}

// With is a with or async with statement.
type With struct {
	Pos
	Async bool
	Items []Expr
	Body  []Stmt
}

// Match is a match statement.
type Match struct {
	Pos
	Subject []Expr
	Cases   []*MatchCase
}

// MatchCase is one case block of a Match.
type MatchCase struct {
	Pos
	Patterns []Expr
	Guard    Expr
	Body     []Stmt
}

// Alias is one imported name with its optional "as" binding.
type Alias struct {
	Name   string
	AsName string
}

// Import is "import a.b, c as d".
type Import struct {
	Pos
	Names []Alias
}

// ImportFrom is "from [.]module import names". Module is empty for "from . import x";
// Level counts the leading dots.
type ImportFrom struct {
	Pos
	Module string
	Level  int
	Names  []Alias
}

// ExprStmt is a statement consisting of a single expression.
type ExprStmt struct {
	Pos
	Value Expr
}

// SimpleStmt is any other statement (assignment, return, raise, pass, global, ...). Kind is the
// grammar's node type; Exprs holds the statement's expressions in source order; Body holds
// statements nested in constructs the tree does not model explicitly.
type SimpleStmt struct {
	Pos
	Kind  string
	Exprs []Expr
	Body  []Stmt
}

// BoolOperator is "and" or "or".
type BoolOperator string

const (
	And BoolOperator = "and"
	Or  BoolOperator = "or"
)

// BoolOp is a short-circuit chain. "a and b and c" is one BoolOp with three values;
// "a and b or c" is an Or whose first value is an And.
type BoolOp struct {
	Pos
	Op     BoolOperator
	Values []Expr
}

// Str is a single string literal. Prefix holds the literal's prefix letters (r, b, f, u, ...)
// and Text its full source text.
type Str struct {
	Pos
	Prefix string
	Text   string
}

// Concat is an implicit concatenation of adjacent string literals.
type Concat struct {
	Pos
	Parts []*Str
}

// Lambda is a lambda expression.
type Lambda struct {
	Pos
	Params []Expr
	Body   Expr
}

// Ident is a bare identifier.
type Ident struct {
	Pos
	Name string
}

// OtherExpr is any expression not modelled above. Kind is the grammar's node type.
type OtherExpr struct {
	Pos
	Kind     string
	Children []Expr
}

func (*Module) node()        {}
func (*FunctionDef) node()   {}
func (*ClassDef) node()      {}
func (*If) node()            {}
func (*For) node()           {}
func (*While) node()         {}
func (*Try) node()           {}
func (*ExceptHandler) node() {}
func (*With) node()          {}
func (*Match) node()         {}
func (*MatchCase) node()     {}
func (*Import) node()        {}
func (*ImportFrom) node()    {}
func (*ExprStmt) node()      {}
func (*SimpleStmt) node()    {}
func (*BoolOp) node()        {}
func (*Str) node()           {}
func (*Concat) node()        {}
func (*Lambda) node()        {}
func (*Ident) node()         {}
func (*OtherExpr) node()     {}

func (*FunctionDef) stmt() {}
func (*ClassDef) stmt()    {}
func (*If) stmt()          {}
func (*For) stmt()         {}
func (*While) stmt()       {}
func (*Try) stmt()         {}
func (*With) stmt()        {}
func (*Match) stmt()       {}
func (*Import) stmt()      {}
func (*ImportFrom) stmt()  {}
func (*ExprStmt) stmt()    {}
func (*SimpleStmt) stmt()  {}

func (*BoolOp) expr()    {}
func (*Str) expr()       {}
func (*Concat) expr()    {}
func (*Lambda) expr()    {}
func (*Ident) expr()     {}
func (*OtherExpr) expr() {}
