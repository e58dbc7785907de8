// env.go: lexical environments.
//
// An Env is one frame of the scope chain: a name→value table plus a parent
// link. Frames are shared, not copied: a closure captures the *Env pointer
// active at its declaration, so the same frame can be reachable from the
// interpreter's current-scope pointer and from any number of Fun values at
// once, and mutations through one reference are visible through all of them.
// Go's garbage collector provides the multiple-owner lifetime this demands:
// a frame lives for as long as anything points at it, well past the block
// that created it.
package rlox

// Env is a lexical environment frame with a parent link.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new frame whose parent is the given scope (which may be
// nil for the global frame). The parent is shared by reference, not copied.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name to v in this frame only, shadowing any outer binding.
// Redefining an existing name in the same frame overwrites it.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get searches innermost-to-outermost for name. This is the slow path used
// for references the resolver left global; resolved references use GetAt.
func (e *Env) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.table[name]; ok {
			return v, nil
		}
	}
	return Value{}, &RuntimeError{Kind: ErrUndefinedVariable, Msg: "undefined variable: " + name}
}

// Set updates the nearest existing binding of name. Assigning an undeclared
// name is an error: the language has no implicit global creation.
func (e *Env) Set(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.table[name]; ok {
			env.table[name] = v
			return nil
		}
	}
	return &RuntimeError{Kind: ErrUndefinedVariableAssignment, Msg: "cannot assign to undefined variable: " + name}
}

// ancestor walks exactly depth parent links.
func (e *Env) ancestor(depth int) *Env {
	env := e
	for i := 0; i < depth && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name in the frame exactly depth hops up. The resolver
// guarantees the name exists there; a miss is an interpreter bug surfaced as
// an internal error, not a user-facing undefined-variable error.
func (e *Env) GetAt(name string, depth int) (Value, error) {
	env := e.ancestor(depth)
	if env == nil {
		return Value{}, &RuntimeError{Kind: ErrInternal, Msg: "no scope at resolved depth for: " + name}
	}
	v, ok := env.table[name]
	if !ok {
		return Value{}, &RuntimeError{Kind: ErrInternal, Msg: "resolved variable missing at depth: " + name}
	}
	return v, nil
}

// SetAt writes name in the frame exactly depth hops up, under the same
// invariant as GetAt.
func (e *Env) SetAt(name string, depth int, v Value) error {
	env := e.ancestor(depth)
	if env == nil {
		return &RuntimeError{Kind: ErrInternal, Msg: "no scope at resolved depth for: " + name}
	}
	if _, ok := env.table[name]; !ok {
		return &RuntimeError{Kind: ErrInternal, Msg: "resolved variable missing at depth: " + name}
	}
	env.table[name] = v
	return nil
}
