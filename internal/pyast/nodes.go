package pyast

// Stmt is a Python statement.
//
// This is a sealed interface - only types in this package implement it.
type Stmt interface {
	stmtNode() // Marker method - seals interface to this package
}

// Expr is a Python expression.
//
// This is a sealed interface - only types in this package implement it.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Module is a complete source file.
type Module struct {
	Body []Stmt
}

// Add appends statements to the module body.
func (m *Module) Add(stmts ...Stmt) {
	m.Body = append(m.Body, stmts...)
}

// Statements

// Comment is a full-line comment. Empty Text prints a bare "#".
type Comment struct {
	Text string
}

// Blank is an empty line.
type Blank struct{}

// Import is "import <Module>".
type Import struct {
	Module string
}

// Assign is "<Target> = <Value>".
type Assign struct {
	Target Expr
	Value  Expr
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	X Expr
}

// Return is "return <Value>", or a bare "return" when Value is nil.
type Return struct {
	Value Expr
}

// Assert is "assert <Test>".
type Assert struct {
	Test Expr
}

// Pass is "pass".
type Pass struct{}

// FuncDef is a function or method definition. An empty Body prints "pass".
type FuncDef struct {
	Decorators []Expr
	Name       string
	Params     []string
	Body       []Stmt
}

// ClassDef is a class definition. An empty Body prints "pass".
type ClassDef struct {
	Name  string
	Bases []Expr
	Body  []Stmt
}

// Raw is verbatim source, re-indented to the enclosing block. It exists for
// the fixed runtime prelude; generated code should use typed nodes.
type Raw struct {
	Text string
}

func (Comment) stmtNode()  {}
func (Blank) stmtNode()    {}
func (Import) stmtNode()   {}
func (Assign) stmtNode()   {}
func (ExprStmt) stmtNode() {}
func (Return) stmtNode()   {}
func (Assert) stmtNode()   {}
func (Pass) stmtNode()     {}
func (FuncDef) stmtNode()  {}
func (ClassDef) stmtNode() {}
func (Raw) stmtNode()      {}

// Expressions

// Name is a bare identifier.
type Name struct {
	ID string
}

// Attr is attribute access, "<Value>.<Name>".
type Attr struct {
	Value Expr
	Name  string
}

// Call is a call expression. Multiline puts each argument on its own line
// with a trailing comma.
type Call struct {
	Func      Expr
	Args      []Expr
	Multiline bool
}

// Keyword is a keyword argument, "<Name>=<Value>". Only valid inside Call.Args.
type Keyword struct {
	Name  string
	Value Expr
}

// Str is a string literal.
type Str struct {
	Value string
}

// Int is an integer literal.
type Int struct {
	Value int64
}

// NoneLit is None.
type NoneLit struct{}

// Tuple is a tuple display. A one-element tuple keeps its trailing comma.
type Tuple struct {
	Elts      []Expr
	Multiline bool
}

// List is a list display.
type List struct {
	Elts      []Expr
	Multiline bool
}

// Lambda is "lambda <Params>: <Body>".
type Lambda struct {
	Params []string
	Body   Expr
}

// BinOp is a binary arithmetic operator.
type BinOp struct {
	Left  Expr
	Op    string // "+", "-", "*"
	Right Expr
}

// BoolOp joins two or more operands with "and" or "or".
type BoolOp struct {
	Op     string // "and", "or"
	Values []Expr
}

// IfExp is "<Body> if <Test> else <Orelse>".
type IfExp struct {
	Body   Expr
	Test   Expr
	Orelse Expr
}

// Compare is a single comparison.
type Compare struct {
	Left  Expr
	Op    string // "==", "!=", "<", "<=", ">", ">=", "is", "is not", "in", "not in"
	Right Expr
}

func (Name) exprNode()    {}
func (Attr) exprNode()    {}
func (Call) exprNode()    {}
func (Keyword) exprNode() {}
func (Str) exprNode()     {}
func (Int) exprNode()     {}
func (NoneLit) exprNode() {}
func (Tuple) exprNode()   {}
func (List) exprNode()    {}
func (Lambda) exprNode()  {}
func (BinOp) exprNode()   {}
func (BoolOp) exprNode()  {}
func (IfExp) exprNode()   {}
func (Compare) exprNode() {}

// Constructors for the common shapes.

// N returns a Name.
func N(id string) Name { return Name{ID: id} }

// Dot builds a dotted attribute chain: Dot("ctypes", "c_uint32").
func Dot(root string, attrs ...string) Expr {
	var e Expr = Name{ID: root}
	for _, a := range attrs {
		e = Attr{Value: e, Name: a}
	}
	return e
}

// C builds a single-line call.
func C(fn Expr, args ...Expr) Call {
	return Call{Func: fn, Args: args}
}
