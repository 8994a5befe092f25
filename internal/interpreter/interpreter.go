// Package interpreter implements the tree-walking evaluator: given a
// resolved AST it executes statements and evaluates expressions directly,
// with no intermediate bytecode.
package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sdecook/golox/internal/ast"
	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/resolver"
	"github.com/sdecook/golox/internal/token"
)

// Interpreter holds the state that persists across an entire run (or, for
// a REPL, across every line): the global environment, the locals
// side-table produced by the resolver, and the input reader used by the
// `input` builtin.
type Interpreter struct {
	diags   *diagnostics.Bag
	globals *Environment
	env     *Environment
	locals  resolver.Locals
	stdin   *bufio.Scanner
}

// New creates an interpreter with clock and input registered in the
// global scope, reading input() lines from os.Stdin.
func New(diags *diagnostics.Bag) *Interpreter {
	return NewWithStdin(diags, os.Stdin)
}

// NewWithStdin is New but lets a caller (the REPL, tests) supply the
// reader input() draws lines from.
func NewWithStdin(diags *diagnostics.Bag, stdin io.Reader) *Interpreter {
	globals := NewEnvironment(nil)
	interp := &Interpreter{diags: diags, globals: globals, env: globals, stdin: bufio.NewScanner(stdin)}
	registerBuiltins(interp)
	return interp
}

// SetLocals adds the side-table produced by a resolver run to the
// interpreter's locals. Node ids are unique across the process, so the
// tables of successive runs (one per REPL line) never collide, and a
// function declared on an earlier line keeps its resolved depths. Must be
// called before Interpret, since variable resolution depends on it.
func (i *Interpreter) SetLocals(locals resolver.Locals) {
	if i.locals == nil {
		i.locals = make(resolver.Locals, len(locals))
	}
	for id, depth := range locals {
		i.locals[id] = depth
	}
}

// Evaluate computes a single expression's value against the interpreter's
// current environment and locals table, for a caller (the REPL) that
// wants the value itself rather than a statement's side effects.
func (i *Interpreter) Evaluate(expr ast.Expr) (Value, error) {
	return i.evaluate(expr)
}

// Interpret executes a full program. A runtime error is reported through
// the diagnostics bag and execution of the remaining top-level statements
// stops, matching the spec's fail-fast runtime-error behavior.
func (i *Interpreter) Interpret(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		if err := i.execute(stmt); err != nil {
			if rerr, ok := err.(*diagnostics.RuntimeError); ok {
				i.diags.ReportRuntime(rerr)
				return
			}
			panic(err) // a returnSignal escaping top-level is an interpreter bug
		}
	}
}

// execute runs a single statement, returning a *diagnostics.RuntimeError
// for a language-level failure or a *returnSignal when a `return` is
// unwinding through it.
func (i *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return i.executeBlock(s.Statements, NewEnvironment(i.env))
	case *ast.Class:
		return i.executeClass(s)
	case *ast.Expression:
		_, err := i.evaluate(s.Expr)
		return err
	case *ast.Function:
		fn := NewFunction(s, i.env, false)
		i.env.Define(s.Name.Lexeme, fn)
		return nil
	case *ast.If:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return i.execute(s.Then)
		}
		if s.Else != nil {
			return i.execute(s.Else)
		}
		return nil
	case *ast.Print:
		v, err := i.evaluate(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.diags.Stdout, v.String())
		return nil
	case *ast.Return:
		var value Value = Nil{}
		if s.Value != nil {
			v, err := i.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}
	case *ast.Var:
		var value Value = Nil{}
		if s.Initializer != nil {
			v, err := i.evaluate(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		i.env.Define(s.Name.Lexeme, value)
		return nil
	case *ast.While:
		for {
			cond, err := i.evaluate(s.Condition)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := i.execute(s.Body); err != nil {
				return err
			}
		}
	default:
		panic("interpreter: unhandled statement type")
	}
}

// executeBlock runs stmts in env, restoring the interpreter's previous
// environment on every exit path (normal, error, or return-signal).
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range stmts {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeClass(s *ast.Class) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := i.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return &diagnostics.RuntimeError{Token: s.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = sc
	}

	i.env.Define(s.Name.Lexeme, Nil{})

	env := i.env
	if superclass != nil {
		env = NewEnvironment(i.env)
		env.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, env, m.Name.Lexeme == "init")
	}

	class := NewClass(s.Name.Lexeme, superclass, methods)
	if superclass != nil {
		i.env = env.parent // restore before assigning, `super` scope only wraps method closures
	}
	i.env.Assign(s.Name.Lexeme, class)
	return nil
}

// evaluate computes an expression's value, returning a
// *diagnostics.RuntimeError on failure. A *returnSignal never originates
// here: it only flows upward through execute/executeBlock.
func (i *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Value), nil
	case *ast.Grouping:
		return i.evaluate(e.Expression)
	case *ast.Unary:
		return i.evalUnary(e)
	case *ast.Binary:
		return i.evalBinary(e)
	case *ast.Logical:
		return i.evalLogical(e)
	case *ast.Variable:
		return i.lookupVariable(e.Name, e)
	case *ast.Assign:
		return i.evalAssign(e)
	case *ast.Call:
		return i.evalCall(e)
	case *ast.Get:
		return i.evalGet(e)
	case *ast.Set:
		return i.evalSet(e)
	case *ast.This:
		return i.lookupVariable(e.Keyword, e)
	case *ast.Super:
		return i.evalSuper(e)
	default:
		panic("interpreter: unhandled expression type")
	}
}

func literalValue(v any) Value {
	switch val := v.(type) {
	case nil:
		return Nil{}
	case bool:
		return Bool(val)
	case float64:
		return Number(val)
	case string:
		return String(val)
	default:
		panic(fmt.Sprintf("interpreter: unexpected literal payload %T", v))
	}
}

func (i *Interpreter) lookupVariable(name token.Token, expr ast.Expr) (Value, error) {
	if depth, ok := i.locals[expr.ID()]; ok {
		return i.env.GetAt(depth, name.Lexeme), nil
	}
	if v, ok := i.globals.Get(name.Lexeme); ok {
		return v, nil
	}
	return nil, &diagnostics.RuntimeError{Token: name, Message: "Undefined variable '" + name.Lexeme + "'."}
}

func (i *Interpreter) evalAssign(e *ast.Assign) (Value, error) {
	value, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if depth, ok := i.locals[e.ID()]; ok {
		i.env.AssignAt(depth, e.Name.Lexeme, value)
		return value, nil
	}
	if i.globals.Assign(e.Name.Lexeme, value) {
		return value, nil
	}
	return nil, &diagnostics.RuntimeError{Token: e.Name, Message: "Undefined variable '" + e.Name.Lexeme + "'."}
}

func (i *Interpreter) evalLogical(e *ast.Logical) (Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Kind == token.Or {
		if IsTruthy(left) {
			return left, nil
		}
	} else if !IsTruthy(left) {
		return left, nil
	}
	return i.evaluate(e.Right)
}

func (i *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Kind {
	case token.Minus:
		n, ok := right.(Number)
		if !ok {
			return nil, &diagnostics.RuntimeError{Token: e.Op, Message: "Operand must be a number."}
		}
		return -n, nil
	case token.Bang:
		return Bool(!IsTruthy(right)), nil
	default:
		panic("interpreter: unhandled unary operator")
	}
}

func (i *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.Minus, token.Slash, token.Star, token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		ln, lok := left.(Number)
		rn, rok := right.(Number)
		if !lok || !rok {
			return nil, &diagnostics.RuntimeError{Token: e.Op, Message: "Operands must be numbers."}
		}
		switch e.Op.Kind {
		case token.Minus:
			return ln - rn, nil
		case token.Slash:
			return ln / rn, nil
		case token.Star:
			return ln * rn, nil
		case token.Greater:
			return Bool(ln > rn), nil
		case token.GreaterEqual:
			return Bool(ln >= rn), nil
		case token.Less:
			return Bool(ln < rn), nil
		case token.LessEqual:
			return Bool(ln <= rn), nil
		}
	case token.Plus:
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}
		// A Number and a String mix by stringifying whichever side needs
		// it, rather than erroring (original_source/Interpreter.py's PLUS
		// case).
		if _, ok := left.(Number); ok {
			if rs, ok := right.(String); ok {
				return String(left.String()) + rs, nil
			}
		}
		if ls, ok := left.(String); ok {
			if _, ok := right.(Number); ok {
				return ls + String(right.String()), nil
			}
		}
		return nil, &diagnostics.RuntimeError{Token: e.Op, Message: "Operands must be two numbers or two strings."}
	case token.BangEqual:
		return Bool(!Equal(left, right)), nil
	case token.EqualEqual:
		return Bool(Equal(left, right)), nil
	}
	panic("interpreter: unhandled binary operator")
}

func (i *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for idx, a := range e.Args {
		v, err := i.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, &diagnostics.RuntimeError{Token: e.Paren, Message: "Can only call functions and classes."}
	}
	if len(args) != fn.Arity() {
		return nil, &diagnostics.RuntimeError{
			Token:   e.Paren,
			Message: fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)),
		}
	}
	return fn.Call(i, args)
}

func (i *Interpreter) evalGet(e *ast.Get) (Value, error) {
	obj, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, &diagnostics.RuntimeError{Token: e.Name, Message: "Only instances have properties."}
	}
	v, ok := instance.Get(e.Name.Lexeme)
	if !ok {
		return nil, &diagnostics.RuntimeError{Token: e.Name, Message: "Undefined property '" + e.Name.Lexeme + "'."}
	}
	return v, nil
}

func (i *Interpreter) evalSet(e *ast.Set) (Value, error) {
	obj, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, &diagnostics.RuntimeError{Token: e.Name, Message: "Only instances have fields."}
	}
	value, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name.Lexeme, value)
	return value, nil
}

func (i *Interpreter) evalSuper(e *ast.Super) (Value, error) {
	depth := i.locals[e.ID()]
	superVal := i.env.GetAt(depth, "super")
	super := superVal.(*Class)
	instanceVal := i.env.GetAt(depth-1, "this")
	instance := instanceVal.(*Instance)

	method, ok := super.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, &diagnostics.RuntimeError{Token: e.Method, Message: "Undefined property '" + e.Method.Lexeme + "'."}
	}
	return method.bind(instance), nil
}
