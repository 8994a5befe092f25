package interpreter

import (
	"fmt"

	"github.com/sdecook/golox/internal/ast"
	"github.com/sdecook/golox/internal/diagnostics"
)

// Callable is implemented by every value that can appear on the left of
// a call expression: user-defined functions, bound methods, classes
// (calling a class constructs an instance), and native builtins.
type Callable interface {
	Value
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
}

// Function is a user-defined function or method, closing over the
// environment active at the point of its declaration.
type Function struct {
	decl          *ast.Function
	closure       *Environment
	isInitializer bool
}

// NewFunction wraps a parsed function declaration as a callable closing
// over env.
func NewFunction(decl *ast.Function, env *Environment, isInitializer bool) *Function {
	return &Function{decl: decl, closure: env, isInitializer: isInitializer}
}

func (*Function) Kind() ValueKind { return KindCallable }

func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme) }

func (f *Function) Arity() int { return len(f.decl.Params) }

// Call executes the function body in a fresh environment parented to the
// closure, binding each parameter. A `return` statement unwinds via the
// returnSignal error type, which Call unpacks here rather than letting it
// propagate further — this is the function-call boundary the language's
// non-local return is scoped to.
func (f *Function) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := interp.executeBlock(f.decl.Body, env)
	if ret, ok := err.(*returnSignal); ok {
		if f.isInitializer {
			return f.closure.GetAt(0, "this"), nil
		}
		return ret.value, nil
	}
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return Nil{}, nil
}

// bind returns a copy of the method closing over a new environment whose
// only binding is `this`, per the standard method-binding trick: `bind`
// is what turns an unbound method found on a class into the callable
// returned by a Get expression on an instance.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return NewFunction(f.decl, env, f.isInitializer)
}

// Class is a runtime class value. Calling it constructs a new Instance
// and, if an `init` method is defined, runs it.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

func (*Class) Kind() ValueKind { return KindCallable }

func (c *Class) String() string { return c.Name }

// FindMethod looks up name on the class, falling back to the superclass
// chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(interp *Interpreter, args []Value) (Value, error) {
	instance := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a runtime object: a class reference plus its own field
// table, consulted before the class's methods on a Get.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: make(map[string]Value)}
}

func (*Instance) Kind() ValueKind { return KindInstance }

func (i *Instance) String() string { return i.class.Name + " instance" }

// Get reads a field or bound method. Fields shadow methods of the same
// name, matching the reference semantics.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.fields[name]; ok {
		return v, true
	}
	if m, ok := i.class.FindMethod(name); ok {
		return m.bind(i), true
	}
	return nil, false
}

func (i *Instance) Set(name string, value Value) {
	i.fields[name] = value
}

// Builtin wraps a native Go function as a Callable, for functions like
// clock and input that have no Lox-level body.
type Builtin struct {
	name   string
	arity  int
	fn     func(interp *Interpreter, args []Value) (Value, error)
}

func NewBuiltin(name string, arity int, fn func(interp *Interpreter, args []Value) (Value, error)) *Builtin {
	return &Builtin{name: name, arity: arity, fn: fn}
}

func (*Builtin) Kind() ValueKind { return KindCallable }

func (b *Builtin) String() string { return fmt.Sprintf("<native fn %s>", b.name) }

func (b *Builtin) Arity() int { return b.arity }

func (b *Builtin) Call(interp *Interpreter, args []Value) (Value, error) {
	return b.fn(interp, args)
}

// returnSignal is how a `return` statement unwinds the Go call stack back
// to the enclosing Function.Call, instead of threading a sentinel value
// through every statement executor's return path. It satisfies the error
// interface purely so it can travel through the same execute/evaluate
// signatures as a genuine runtime error; Function.Call is the only place
// that type-asserts for it, and the top-level driver panics on any error
// that is not a runtime error.
type returnSignal struct {
	value Value
}

func (*returnSignal) Error() string { return "return outside of a function" }

var _ error = (*diagnostics.RuntimeError)(nil)
