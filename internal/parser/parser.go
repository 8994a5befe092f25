// Package parser implements a recursive-descent, Pratt-precedence parser
// producing the AST defined in internal/ast.
package parser

import (
	"github.com/sdecook/golox/internal/ast"
	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/token"
)

const maxArgs = 255

// Parser consumes a token stream and produces a program (a slice of
// top-level declarations), reporting syntax errors through diagnostics
// and recovering at statement boundaries so a single error doesn't abort
// parsing of the rest of the file.
type Parser struct {
	tokens  []token.Token
	current int
	diags   *diagnostics.Bag
}

func New(tokens []token.Token, diags *diagnostics.Bag) *Parser {
	return &Parser{tokens: tokens, diags: diags}
}

// parseError signals a syntax error to unwind the recursive descent up to
// the nearest recover point (declaration()). It is always paired with a
// diagnostics.Bag.ErrorAt call before being raised.
type parseError struct{}

// Parse runs the full grammar's top-level production:
//
//	program → declaration* EOF
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.atEnd() {
		if decl := p.declaration(); decl != nil {
			stmts = append(stmts, decl)
		}
	}
	return stmts
}

// AtEnd reports whether the parser has consumed every token up to EOF,
// used by callers of ParseExpression to check that the whole input was a
// single expression with nothing trailing it.
func (p *Parser) AtEnd() bool { return p.atEnd() }

// ParseExpression parses a single expression, used by the REPL to check
// whether a line is one bare expression rather than statements.
func (p *Parser) ParseExpression() (expr ast.Expr) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				expr = nil
				return
			}
			panic(r)
		}
	}()
	return p.expression()
}

func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.Class):
		return p.classDecl()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.Less) {
		p.consume(token.Identifier, "Expect superclass name.")
		superclass = ast.NewVariable(p.previous())
	}

	p.consume(token.LeftBrace, "Expect '{' before class body.")

	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RightBrace, "Expect '}' after class body.")

	return ast.NewClass(name, superclass, methods)
}

// function parses the shared `IDENT "(" params? ")" block` production
// used for both `fun` declarations and methods. kind is "function" or
// "method", used only in error messages.
func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")

	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()

	return ast.NewFunction(name, params, body)
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}

	p.consume(token.Semicolon, "Expect ';' after variable declaration.")
	return ast.NewVar(name, initializer)
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.LeftBrace):
		return ast.NewBlock(p.block())
	default:
		return p.exprStmt()
	}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return ast.NewExpression(expr)
}

func (p *Parser) printStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after value.")
	return ast.NewPrint(expr)
}

func (p *Parser) returnStmt() ast.Stmt {
	keyword := p.previous()

	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}

	p.consume(token.Semicolon, "Expect ';' after return value.")
	return ast.NewReturn(keyword, value)
}

func (p *Parser) ifStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}

	return ast.NewIf(condition, thenBranch, elseBranch)
}

func (p *Parser) whileStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return ast.NewWhile(condition, body)
}

// forStmt desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }`, with a missing condition
// defaulting to the literal `true`.
func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = ast.NewBlock([]ast.Stmt{body, ast.NewExpression(increment)})
	}

	if condition == nil {
		condition = ast.NewLiteral(true)
	}
	body = ast.NewWhile(condition, body)

	if initializer != nil {
		body = ast.NewBlock([]ast.Stmt{initializer, body})
	}

	return body
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		if decl := p.declaration(); decl != nil {
			stmts = append(stmts, decl)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return stmts
}

// ---- Expressions, lowest to highest precedence -----------------------

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(target.Name, value)
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value)
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return expr
		}
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.Or) {
		op := p.previous()
		right := p.logicAnd()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right := p.term()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Minus, token.Plus) {
		op := p.previous()
		right := p.factor()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Slash, token.Star) {
		op := p.previous()
		right := p.unary()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return ast.NewUnary(op, right)
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'.")
			expr = ast.NewGet(expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAtCurrent("Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}

	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return ast.NewCall(callee, paren, args)
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(false)
	case p.match(token.True):
		return ast.NewLiteral(true)
	case p.match(token.Nil):
		return ast.NewLiteral(nil)
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.previous().Literal)
	case p.match(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "Expect '.' after 'super'.")
		method := p.consume(token.Identifier, "Expect superclass method name.")
		return ast.NewSuper(keyword, method)
	case p.match(token.This):
		return ast.NewThis(p.previous())
	case p.match(token.Identifier):
		return ast.NewVariable(p.previous())
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return ast.NewGrouping(expr)
	default:
		p.errorAtCurrent("Expect expression.")
		panic(parseError{})
	}
}

// ---- Helpers ------------------------------------------------------

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAtCurrent(message)
	panic(parseError{})
}

func (p *Parser) check(kind token.Kind) bool {
	return !p.atEnd() && p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) errorAtCurrent(message string) {
	p.errorAt(p.peek(), message)
}

func (p *Parser) errorAt(tok token.Token, message string) {
	p.diags.ErrorAt(tok, message)
}

// synchronize discards tokens until it reaches a likely statement
// boundary: a semicolon just consumed, or the next token begins a new
// declaration/statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.atEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}

		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}

		p.advance()
	}
}
