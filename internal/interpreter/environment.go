package interpreter

// Environment is a name→value map with an optional parent, forming the
// lexical scope chain. A name may be declared (present, value possibly
// Nil) without yet being "defined" in the resolver's sense; at the
// runtime layer Define always both declares and assigns in one step, so
// there is no separate declared-but-undefined runtime state — the
// resolver is what prevents use-before-definition (internal/resolver),
// this layer only needs to store and fetch values.
type Environment struct {
	parent *Environment
	values map[string]Value
}

// NewEnvironment creates a scope whose parent is enclosing (nil for the
// global scope).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{parent: enclosing, values: make(map[string]Value)}
}

// Define binds name to value in this environment, overwriting any
// existing binding. Redeclaration in the same scope is caught earlier by
// the resolver for locals; globals are allowed to redefine freely (handy
// for a REPL, where re-running `var x = 1;` on two separate lines must
// not be an error).
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks up name, walking the parent chain. Returns false if the name
// is undefined anywhere in the chain.
func (e *Environment) Get(name string) (Value, bool) {
	if v, ok := e.values[name]; ok {
		return v, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, false
}

// GetAt fetches name from the environment exactly `distance` hops up the
// parent chain, used for resolved local references (never walks past the
// target frame).
func (e *Environment) GetAt(distance int, name string) Value {
	env := e.ancestor(distance)
	v, ok := env.values[name]
	if !ok {
		// A resolver bug, not a user error: the resolver only records a
		// depth when it has already seen the name declared at that scope.
		panic("interpreter: resolved local '" + name + "' missing from its environment")
	}
	return v
}

// AssignAt assigns to name exactly `distance` hops up the parent chain.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.ancestor(distance).values[name] = value
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
	}
	return env
}

// Assign sets an existing binding for name, walking the parent chain to
// find where it was declared. Returns false if name is undefined
// anywhere in the chain (the caller reports the runtime error, since it
// needs the offending token for the diagnostic).
func (e *Environment) Assign(name string, value Value) bool {
	if _, ok := e.values[name]; ok {
		e.values[name] = value
		return true
	}
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return false
}
