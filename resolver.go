// resolver.go: static binding-depth resolution.
//
// A single pass over the parsed program computes, for every variable read and
// assignment, the number of lexical scopes between its use and its declaring
// scope, and stores that hop count on the AST node. The interpreter then
// walks exactly that many parent links at runtime (Env.GetAt / Env.SetAt)
// instead of searching scope by scope. The walk here must mirror the runtime
// lookup precisely (innermost-first, stopping at the first scope containing
// the name), or static and dynamic scoping disagree.
//
// The resolver tracks only local scopes. A name found in no tracked scope is
// left unresolved, meaning global: globals keep the slow name-search path
// because the global scope is mutated freely at runtime (REPL lines, natives).
//
// It also rejects three things the parser cannot see:
//   - reading or assigning a variable inside its own initializer
//     (var a = a; and var a = a = 1;)
//   - re-declaring a name in the same local scope
//   - a return statement outside any function
package rlox

import "fmt"

// ResolveError reports a static-analysis error at a 1-based line and 0-based
// column.
type ResolveError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("RESOLVE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

type fnKind int

const (
	fnNone fnKind = iota
	fnFunction
)

type resolver struct {
	// scopes is the stack of lexical scopes, innermost last. A name maps to
	// false between declaration and the end of its initializer, true after.
	scopes    []map[string]bool
	currentFn fnKind
}

// Resolve annotates Variable and Assign nodes in place with their binding
// depth. It stops at the first error; a program that fails to resolve must
// not be interpreted.
func Resolve(stmts []Stmt) error {
	r := &resolver{}
	return r.stmts(stmts)
}

func (r *resolver) stmts(stmts []Stmt) error {
	for _, s := range stmts {
		if err := r.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) stmt(s Stmt) error {
	switch st := s.(type) {
	case *ExprStmt:
		return r.expr(st.Expr)
	case *PrintStmt:
		return r.expr(st.Expr)
	case *VarStmt:
		// Declared-but-not-defined until the initializer resolves, so that
		// `var a = a;` is caught.
		if err := r.declare(st.Name, st.Line, st.Col); err != nil {
			return err
		}
		if st.Init != nil {
			if err := r.expr(st.Init); err != nil {
				return err
			}
		}
		r.define(st.Name)
		return nil
	case *BlockStmt:
		r.beginScope()
		defer r.endScope()
		return r.stmts(st.Stmts)
	case *IfStmt:
		if err := r.expr(st.Cond); err != nil {
			return err
		}
		if err := r.stmt(st.Then); err != nil {
			return err
		}
		if st.Else != nil {
			return r.stmt(st.Else)
		}
		return nil
	case *WhileStmt:
		if err := r.expr(st.Cond); err != nil {
			return err
		}
		return r.stmt(st.Body)
	case *FunStmt:
		// The function's own name lives in the enclosing scope and is defined
		// immediately, so the body can recurse.
		if err := r.declare(st.Name, st.Line, st.Col); err != nil {
			return err
		}
		r.define(st.Name)
		return r.function(st)
	case *ReturnStmt:
		if r.currentFn == fnNone {
			return &ResolveError{Line: st.Line, Col: st.Col, Msg: "return statement is not inside a function"}
		}
		if st.Value != nil {
			return r.expr(st.Value)
		}
		return nil
	default:
		return fmt.Errorf("resolver: unknown statement %T", s)
	}
}

func (r *resolver) function(fn *FunStmt) error {
	saved := r.currentFn
	r.currentFn = fnFunction
	defer func() { r.currentFn = saved }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		if err := r.declare(param.Literal.(string), param.Line, param.Col); err != nil {
			return err
		}
		r.define(param.Literal.(string))
	}
	return r.stmts(fn.Body)
}

func (r *resolver) expr(e Expr) error {
	switch ex := e.(type) {
	case *LiteralExpr:
		return nil
	case *VariableExpr:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][ex.Name]; declared && !defined {
				return &ResolveError{Line: ex.Line, Col: ex.Col,
					Msg: fmt.Sprintf("cannot read variable %q in its own initializer", ex.Name)}
			}
		}
		ex.Depth = r.depthOf(ex.Name)
		return nil
	case *AssignExpr:
		if err := r.expr(ex.Value); err != nil {
			return err
		}
		// Assigning a declared-but-not-defined name would resolve to a frame
		// that has no binding yet at runtime, so `var a = a = 1;` is rejected
		// like the read case above.
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][ex.Name]; declared && !defined {
				return &ResolveError{Line: ex.Line, Col: ex.Col,
					Msg: fmt.Sprintf("cannot assign variable %q in its own initializer", ex.Name)}
			}
		}
		ex.Depth = r.depthOf(ex.Name)
		return nil
	case *UnaryExpr:
		return r.expr(ex.Right)
	case *BinaryExpr:
		if err := r.expr(ex.Left); err != nil {
			return err
		}
		return r.expr(ex.Right)
	case *LogicalExpr:
		if err := r.expr(ex.Left); err != nil {
			return err
		}
		return r.expr(ex.Right)
	case *GroupingExpr:
		return r.expr(ex.Inner)
	case *CallExpr:
		if err := r.expr(ex.Callee); err != nil {
			return err
		}
		for _, arg := range ex.Args {
			if err := r.expr(arg); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("resolver: unknown expression %T", e)
	}
}

// depthOf walks outward from the innermost scope counting hops, stopping at
// the first scope containing name (shadowing is first-match-wins). Names in
// no tracked scope resolve to notResolved, meaning global.
func (r *resolver) depthOf(name string) int {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			return len(r.scopes) - 1 - i
		}
	}
	return notResolved
}

// declare marks name as existing-but-uninitialized in the innermost scope.
// Global declarations are not tracked and may redeclare freely.
func (r *resolver) declare(name string, line, col int) error {
	if len(r.scopes) == 0 {
		return nil
	}
	top := r.scopes[len(r.scopes)-1]
	if _, ok := top[name]; ok {
		return &ResolveError{Line: line, Col: col,
			Msg: fmt.Sprintf("variable %q already declared in this scope", name)}
	}
	top[name] = false
	return nil
}

func (r *resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}
