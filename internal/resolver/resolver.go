// Package resolver performs the static pass over the AST that binds every
// variable use to a lexical depth and validates class/function-context
// rules, ahead of interpretation.
package resolver

import (
	"github.com/sdecook/golox/internal/ast"
	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/token"
)

type functionType int

const (
	funcNone functionType = iota
	funcFunction
	funcInitializer
	funcMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Locals is the side-table produced by a resolver run: for every
// expression node that resolves to a local (non-global) binding, the
// number of lexical scopes between the use and its declaration.
type Locals map[int]int

// Resolver walks the AST once, before interpretation.
type Resolver struct {
	diags  *diagnostics.Bag
	scopes []map[string]bool
	locals Locals

	currentFunction functionType
	currentClass    classType
}

func New(diags *diagnostics.Bag) *Resolver {
	return &Resolver{diags: diags, locals: make(Locals)}
}

// Resolve walks every top-level statement and returns the locals
// side-table. Running Resolve twice over the same (unmutated) AST with a
// fresh Resolver always yields an identical table, since resolution only
// ever reads the AST and the scope stack it builds is reconstructed from
// scratch each call.
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *ast.Class:
		r.resolveClass(s)
	case *ast.Expression:
		r.resolveExpr(s.Expr)
	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, funcFunction)
	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.Print:
		r.resolveExpr(s.Expr)
	case *ast.Return:
		if r.currentFunction == funcNone {
			r.diags.ErrorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == funcInitializer {
				r.diags.ErrorAt(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.While:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(c *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.diags.ErrorAt(c.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range c.Methods {
		fnType := funcMethod
		if method.Name.Lexeme == "init" {
			fnType = funcInitializer
		}
		r.resolveFunction(method, fnType)
	}

	r.endScope()

	if c.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.Function, fnType functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = fnType

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Grouping:
		r.resolveExpr(e.Expression)
	case *ast.Literal:
		// nothing to resolve
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.diags.ErrorAt(e.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			r.diags.ErrorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, "super")
	case *ast.This:
		if r.currentClass == classNone {
			r.diags.ErrorAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, "this")
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.diags.ErrorAt(e.Name, "Can't read local variable in its own initialiser.")
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)
	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr.ID()] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: treated as global, no table entry
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.diags.ErrorAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
