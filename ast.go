// ast.go: syntax tree for Lox programs.
//
// Expressions and statements are closed tagged variants: one struct per node
// kind behind the Expr/Stmt marker interfaces. The parser produces them, the
// resolver annotates Variable/Assign nodes with a binding depth in place, and
// the interpreter walks them. Nodes that can fail at runtime carry the line
// and column of their operator or name token so runtime errors point at
// source.
package rlox

// Expr is the closed set of expression nodes.
type Expr interface{ isExpr() }

// Stmt is the closed set of statement nodes.
type Stmt interface{ isStmt() }

// notResolved is the Depth value of a variable reference the resolver did not
// find in any enclosing local scope: the interpreter looks it up globally.
const notResolved = -1

// LiteralExpr holds nil, bool, float64 or string.
type LiteralExpr struct {
	Value interface{}
}

// VariableExpr is a variable read. Depth is the number of enclosing-scope
// hops to the declaring frame, filled in by the resolver; notResolved means
// the name is global (or undefined, caught at runtime).
type VariableExpr struct {
	Name  string
	Line  int
	Col   int
	Depth int
}

// AssignExpr is an assignment to an existing variable. Depth as in
// VariableExpr.
type AssignExpr struct {
	Name  string
	Line  int
	Col   int
	Value Expr
	Depth int
}

type UnaryExpr struct {
	Op    TokenType // BANG or MINUS
	Line  int
	Col   int
	Right Expr
}

type BinaryExpr struct {
	Left  Expr
	Op    TokenType
	Line  int
	Col   int
	Right Expr
}

// LogicalExpr short-circuits; Op is AND or OR.
type LogicalExpr struct {
	Left  Expr
	Op    TokenType
	Line  int
	Col   int
	Right Expr
}

type GroupingExpr struct {
	Inner Expr
}

// CallExpr records the closing paren position for error reporting.
type CallExpr struct {
	Callee Expr
	Line   int
	Col    int
	Args   []Expr
}

func (*LiteralExpr) isExpr()  {}
func (*VariableExpr) isExpr() {}
func (*AssignExpr) isExpr()   {}
func (*UnaryExpr) isExpr()    {}
func (*BinaryExpr) isExpr()   {}
func (*LogicalExpr) isExpr()  {}
func (*GroupingExpr) isExpr() {}
func (*CallExpr) isExpr()     {}

type ExprStmt struct {
	Expr Expr
}

type PrintStmt struct {
	Expr Expr
}

// VarStmt declares a variable; Init may be nil ("var a;" binds nil).
type VarStmt struct {
	Name string
	Line int
	Col  int
	Init Expr
}

type BlockStmt struct {
	Stmts []Stmt
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
}

type WhileStmt struct {
	Cond Expr
	Body Stmt
}

type FunStmt struct {
	Name   string
	Line   int
	Col    int
	Params []Token // ID tokens
	Body   []Stmt
}

type ReturnStmt struct {
	Line  int
	Col   int
	Value Expr // may be nil
}

func (*ExprStmt) isStmt()   {}
func (*PrintStmt) isStmt()  {}
func (*VarStmt) isStmt()    {}
func (*BlockStmt) isStmt()  {}
func (*IfStmt) isStmt()     {}
func (*WhileStmt) isStmt()  {}
func (*FunStmt) isStmt()    {}
func (*ReturnStmt) isStmt() {}
