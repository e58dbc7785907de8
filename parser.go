// parser.go: recursive-descent parser for Lox.
//
// The grammar descends by precedence, lowest to highest:
//
//	assignment → or → and → equality → comparison → term → factor
//	           → unary → call → primary
//
// Each binary level is left-associative and loops while the current token
// matches that level's operator set, building a left-leaning tree.
// Assignment is right-associative and only valid when the left-hand side
// parsed as a bare variable reference.
//
// Statement grammar:
//
//	program     := declaration* EOF
//	declaration := varDecl | funDecl | statement
//	statement   := exprStmt | printStmt | block | ifStmt | whileStmt
//	             | forStmt | returnStmt
//
// "for" is desugared at parse time into a block holding the optional
// initializer and a while loop whose body has the increment appended; the
// AST has no dedicated loop-counter construct.
//
// Error recovery: a statement-level parse error does not abort the parse.
// The parser records the error, discards tokens until it passes a semicolon
// or reaches a token that can start a new statement (synchronize), and
// resumes. One genuine mistake therefore reports (ideally) one error.
package rlox

import "fmt"

// ParseError reports a syntax error at a 1-based line and 0-based column.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// maxCallArity bounds both parameter and call-argument counts.
const maxCallArity = 255

// Parse consumes a token list (EOF-terminated) and returns one statement per
// successful top-level declaration plus one error per failed one. A program
// with any error should not be interpreted, but the successfully parsed
// statements are still returned.
func Parse(tokens []Token) ([]Stmt, []error) {
	p := &parser{toks: tokens}
	return p.program()
}

type parser struct {
	toks []Token
	i    int
}

// -----------------------------------------------------------------------------
// token basics & helpers
// -----------------------------------------------------------------------------

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.check(t) {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) advance() Token {
	if !p.atEnd() {
		p.i++
	}
	return p.prev()
}

func (p *parser) need(tt TokenType, msg string) (Token, error) {
	if p.match(tt) {
		return p.prev(), nil
	}
	return Token{}, p.errAt(p.peek(), msg)
}

func (p *parser) errAt(tok Token, msg string) error {
	if tok.Type == EOF {
		return &ParseError{Line: tok.Line, Col: tok.Col, Msg: msg + " (reached end of input)"}
	}
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: msg}
}

// synchronize discards tokens until just past a semicolon or at a token that
// can begin a new statement, bounding the error cascade after a bad
// statement.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.prev().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}

// -----------------------------------------------------------------------------
// statements
// -----------------------------------------------------------------------------

func (p *parser) program() ([]Stmt, []error) {
	var stmts []Stmt
	var errs []error
	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			errs = append(errs, err)
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts, errs
}

func (p *parser) declaration() (Stmt, error) {
	switch {
	case p.match(VAR):
		return p.varDeclaration()
	case p.match(FUN):
		return p.function("function")
	default:
		return p.statement()
	}
}

func (p *parser) varDeclaration() (Stmt, error) {
	name, err := p.need(ID, "expect variable name")
	if err != nil {
		return nil, err
	}

	var init Expr
	if p.match(ASSIGN) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.need(SEMICOLON, "expect ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name.Literal.(string), Line: name.Line, Col: name.Col, Init: init}, nil
}

func (p *parser) function(kind string) (Stmt, error) {
	name, err := p.need(ID, "expect "+kind+" name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LROUND, "expect '(' after "+kind+" name"); err != nil {
		return nil, err
	}

	var params []Token
	if !p.check(RROUND) {
		for {
			if len(params) >= maxCallArity {
				return nil, p.errAt(p.peek(), fmt.Sprintf("too many parameters (max %d)", maxCallArity))
			}
			param, err := p.need(ID, "expect parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RROUND, "expect ')' after "+kind+" parameters"); err != nil {
		return nil, err
	}

	if _, err := p.need(LCURLY, "expect '{' before "+kind+" body"); err != nil {
		return nil, err
	}
	body, err := p.blockStmts()
	if err != nil {
		return nil, err
	}
	return &FunStmt{Name: name.Literal.(string), Line: name.Line, Col: name.Col, Params: params, Body: body}, nil
}

func (p *parser) statement() (Stmt, error) {
	switch {
	case p.match(IF):
		return p.ifStmt()
	case p.match(WHILE):
		return p.whileStmt()
	case p.match(FOR):
		return p.forStmt()
	case p.match(RETURN):
		return p.returnStmt()
	case p.match(PRINT):
		return p.printStmt()
	case p.match(LCURLY):
		stmts, err := p.blockStmts()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Stmts: stmts}, nil
	default:
		return p.expressionStmt()
	}
}

// blockStmts parses declarations up to and including the closing '}'.
func (p *parser) blockStmts() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(RCURLY) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.need(RCURLY, "expect '}' after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	if _, err := p.need(LROUND, "expect '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "expect ')' after if condition"); err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(ELSE) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return &IfStmt{Cond: cond, Then: then, Else: elseBranch}, nil
}

func (p *parser) whileStmt() (Stmt, error) {
	if _, err := p.need(LROUND, "expect '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "expect ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body}, nil
}

// forStmt desugars for(init; cond; incr) body into:
//
//	{ init; while (cond) { body; incr; } }
//
// with a missing condition defaulting to true.
func (p *parser) forStmt() (Stmt, error) {
	if _, err := p.need(LROUND, "expect '(' after 'for'"); err != nil {
		return nil, err
	}

	var init Stmt
	var err error
	switch {
	case p.match(SEMICOLON):
		// no initializer
	case p.match(VAR):
		if init, err = p.varDeclaration(); err != nil {
			return nil, err
		}
	default:
		if init, err = p.expressionStmt(); err != nil {
			return nil, err
		}
	}

	var cond Expr
	if !p.match(SEMICOLON) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
		if _, err := p.need(SEMICOLON, "expect ';' after loop condition"); err != nil {
			return nil, err
		}
	}

	var incr Expr
	if !p.check(RROUND) {
		if incr, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.need(RROUND, "expect ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &BlockStmt{Stmts: []Stmt{body, &ExprStmt{Expr: incr}}}
	}
	if cond == nil {
		cond = &LiteralExpr{Value: true}
	}
	body = &WhileStmt{Cond: cond, Body: body}
	if init != nil {
		body = &BlockStmt{Stmts: []Stmt{init, body}}
	}
	return body, nil
}

func (p *parser) returnStmt() (Stmt, error) {
	kw := p.prev()
	var value Expr
	var err error
	if !p.check(SEMICOLON) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "expect ';' after return value"); err != nil {
		return nil, err
	}
	return &ReturnStmt{Line: kw.Line, Col: kw.Col, Value: value}, nil
}

func (p *parser) printStmt() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "expect ';' after value"); err != nil {
		return nil, err
	}
	return &PrintStmt{Expr: expr}, nil
}

func (p *parser) expressionStmt() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "expect ';' after expression"); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

// -----------------------------------------------------------------------------
// expressions
// -----------------------------------------------------------------------------

func (p *parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(ASSIGN) {
		eq := p.prev()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		v, ok := expr.(*VariableExpr)
		if !ok {
			return nil, p.errAt(eq, "invalid assignment target")
		}
		return &AssignExpr{Name: v.Name, Line: v.Line, Col: v.Col, Value: value, Depth: notResolved}, nil
	}
	return expr, nil
}

func (p *parser) or() (Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		op := p.prev()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Op: op.Type, Line: op.Line, Col: op.Col, Right: right}
	}
	return expr, nil
}

func (p *parser) and() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.prev()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Op: op.Type, Line: op.Line, Col: op.Col, Right: right}
	}
	return expr, nil
}

func (p *parser) equality() (Expr, error) {
	return p.binaryLevel(p.comparison, EQ, NEQ)
}

func (p *parser) comparison() (Expr, error) {
	return p.binaryLevel(p.term, GREATER, GREATER_EQ, LESS, LESS_EQ)
}

func (p *parser) term() (Expr, error) {
	return p.binaryLevel(p.factor, PLUS, MINUS)
}

func (p *parser) factor() (Expr, error) {
	return p.binaryLevel(p.unary, MULT, DIV)
}

// binaryLevel builds one left-associative precedence level over next.
func (p *parser) binaryLevel(next func() (Expr, error), ops ...TokenType) (Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.prev()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op.Type, Line: op.Line, Col: op.Col, Right: right}
	}
	return expr, nil
}

func (p *parser) unary() (Expr, error) {
	if p.match(BANG, MINUS) {
		op := p.prev()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op.Type, Line: op.Line, Col: op.Col, Right: right}, nil
	}
	return p.call()
}

// call handles zero-or-more chained invocations f(...)().
func (p *parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(LROUND) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(RROUND) {
		for {
			if len(args) >= maxCallArity {
				return nil, p.errAt(p.peek(), fmt.Sprintf("too many arguments (max %d)", maxCallArity))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren, err := p.need(RROUND, "expect ')' after arguments")
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Line: paren.Line, Col: paren.Col, Args: args}, nil
}

func (p *parser) primary() (Expr, error) {
	switch {
	case p.match(FALSE):
		return &LiteralExpr{Value: false}, nil
	case p.match(TRUE):
		return &LiteralExpr{Value: true}, nil
	case p.match(NIL):
		return &LiteralExpr{Value: nil}, nil
	case p.match(NUMBER):
		return &LiteralExpr{Value: p.prev().Literal.(float64)}, nil
	case p.match(STRING):
		return &LiteralExpr{Value: p.prev().Literal.(string)}, nil
	case p.match(ID):
		tok := p.prev()
		return &VariableExpr{Name: tok.Literal.(string), Line: tok.Line, Col: tok.Col, Depth: notResolved}, nil
	case p.match(LROUND):
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "expect ')' after expression"); err != nil {
			return nil, err
		}
		return &GroupingExpr{Inner: inner}, nil
	}
	return nil, p.errAt(p.peek(), fmt.Sprintf("expect expression, got %s", p.peek().Type))
}
