// interpreter.go: tree-walking evaluation.
//
// The interpreter executes resolved statements for their side effects
// (printing, variable mutation) and stops at the first runtime error.
// Evaluation is purely synchronous recursion on the native call stack;
// the only shared mutable resource is the environment chain (see env.go).
//
// Function returns are modeled as an explicit control value, not a panic:
// every statement-executing method returns (*returnSignal, error), and a
// non-nil signal unwinds through blocks and loops until the function-call
// boundary that expects it. The top-level Interpret treats a stray signal as
// unreachable because the resolver rejects return outside a function.
package rlox

import (
	"fmt"
	"io"
	"time"
)

// RuntimeErrorKind enumerates the runtime failure classes.
type RuntimeErrorKind int

const (
	ErrTypeComparison RuntimeErrorKind = iota
	ErrConcatenation
	ErrArithmetic
	ErrUndefinedVariable
	ErrUndefinedVariableAssignment
	ErrNotACallableType
	ErrMismatchedArguments
	ErrInternal // resolver/interpreter depth mismatch; a bug, not a user error
)

var runtimeErrorNames = map[RuntimeErrorKind]string{
	ErrTypeComparison:              "TypeComparison",
	ErrConcatenation:               "Concatenation",
	ErrArithmetic:                  "Arithmetic",
	ErrUndefinedVariable:           "UndefinedVariable",
	ErrUndefinedVariableAssignment: "UndefinedVariableAssignment",
	ErrNotACallableType:            "NotACallableType",
	ErrMismatchedArguments:         "MismatchedArguments",
	ErrInternal:                    "Internal",
}

func (k RuntimeErrorKind) String() string {
	if s, ok := runtimeErrorNames[k]; ok {
		return s
	}
	return fmt.Sprintf("RuntimeErrorKind(%d)", int(k))
}

// RuntimeError represents an execution-time failure. It is fatal to the
// current Interpret call but not to the interpreter: a REPL may report it
// and keep evaluating with state intact. Line is 1-based, Col 0-based;
// both may be zero when no source position applies.
type RuntimeError struct {
	Kind RuntimeErrorKind
	Msg  string
	Line int
	Col  int
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s: %s", e.Line, e.Col+1, e.Kind, e.Msg)
	}
	return fmt.Sprintf("RUNTIME ERROR: %s: %s", e.Kind, e.Msg)
}

// at fills in a source position on errors that lack one, as they bubble past
// the node that knows where it is.
func at(err error, line, col int) error {
	if re, ok := err.(*RuntimeError); ok && re.Line == 0 {
		re.Line = line
		re.Col = col
	}
	return err
}

// returnSignal carries a return value up to the enclosing call boundary.
type returnSignal struct {
	value Value
}

// Interpreter walks the AST, evaluating expressions against the environment
// chain. Output from print goes to out.
type Interpreter struct {
	globals *Env
	env     *Env // current scope; equals globals outside any block/call
	out     io.Writer
}

// NewInterpreter returns an interpreter with the native builtins (clock,
// print) registered in a fresh global scope. Print-statement output and the
// print native both write to out.
//
// The print native mirrors the print statement for host embedders; from
// inside the language "print" always lexes as the statement keyword.
func NewInterpreter(out io.Writer) *Interpreter {
	ip := &Interpreter{globals: NewEnv(nil), out: out}
	ip.env = ip.globals

	ip.RegisterNative("clock", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		return Num(float64(time.Now().UnixNano()) / 1e9), nil
	})
	ip.RegisterNative("print", 1, func(ip *Interpreter, args []Value) (Value, error) {
		fmt.Fprintln(ip.out, FormatValue(args[0]))
		return Nil, nil
	})
	return ip
}

// RegisterNative binds a host function of fixed arity in the global scope.
func (ip *Interpreter) RegisterNative(name string, nargs int, impl NativeImpl) {
	ip.globals.Define(name, NativeVal(&Native{Name: name, NArgs: nargs, Impl: impl}))
}

// Globals exposes the global scope, primarily for embedding and tests.
func (ip *Interpreter) Globals() *Env { return ip.globals }

// Interpret executes a resolved program and propagates the first runtime
// error. Interpreter state (the global scope) survives across calls.
func (ip *Interpreter) Interpret(stmts []Stmt) error {
	for _, s := range stmts {
		if _, err := ip.exec(s); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// statements
// -----------------------------------------------------------------------------

func (ip *Interpreter) exec(s Stmt) (*returnSignal, error) {
	switch st := s.(type) {
	case *ExprStmt:
		_, err := ip.eval(st.Expr)
		return nil, err
	case *PrintStmt:
		v, err := ip.eval(st.Expr)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(ip.out, FormatValue(v))
		return nil, nil
	case *VarStmt:
		v := Nil
		if st.Init != nil {
			var err error
			if v, err = ip.eval(st.Init); err != nil {
				return nil, err
			}
		}
		ip.env.Define(st.Name, v)
		return nil, nil
	case *BlockStmt:
		return ip.execBlock(st.Stmts, NewEnv(ip.env))
	case *IfStmt:
		cond, err := ip.eval(st.Cond)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return ip.exec(st.Then)
		}
		if st.Else != nil {
			return ip.exec(st.Else)
		}
		return nil, nil
	case *WhileStmt:
		for {
			cond, err := ip.eval(st.Cond)
			if err != nil {
				return nil, err
			}
			if !truthy(cond) {
				return nil, nil
			}
			ret, err := ip.exec(st.Body)
			if ret != nil || err != nil {
				return ret, err
			}
		}
	case *FunStmt:
		// Close over the scope current at declaration time.
		fn := &Fun{Name: st.Name, Params: paramNames(st.Params), Body: st.Body, Env: ip.env}
		ip.env.Define(st.Name, FunVal(fn))
		return nil, nil
	case *ReturnStmt:
		v := Nil
		if st.Value != nil {
			var err error
			if v, err = ip.eval(st.Value); err != nil {
				return nil, err
			}
		}
		return &returnSignal{value: v}, nil
	default:
		return nil, &RuntimeError{Kind: ErrInternal, Msg: fmt.Sprintf("unknown statement %T", s)}
	}
}

// execBlock runs stmts inside env and restores the previous scope on every
// exit path, including an in-flight return signal or error.
func (ip *Interpreter) execBlock(stmts []Stmt, env *Env) (*returnSignal, error) {
	prev := ip.env
	ip.env = env
	defer func() { ip.env = prev }()

	for _, s := range stmts {
		ret, err := ip.exec(s)
		if ret != nil || err != nil {
			return ret, err
		}
	}
	return nil, nil
}

func paramNames(params []Token) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Literal.(string)
	}
	return names
}

// -----------------------------------------------------------------------------
// expressions
// -----------------------------------------------------------------------------

func (ip *Interpreter) eval(e Expr) (Value, error) {
	switch ex := e.(type) {
	case *LiteralExpr:
		switch v := ex.Value.(type) {
		case nil:
			return Nil, nil
		case bool:
			return Bool(v), nil
		case float64:
			return Num(v), nil
		case string:
			return Str(v), nil
		default:
			return Value{}, &RuntimeError{Kind: ErrInternal, Msg: fmt.Sprintf("unknown literal %T", ex.Value)}
		}
	case *VariableExpr:
		if ex.Depth == notResolved {
			v, err := ip.globals.Get(ex.Name)
			if err != nil {
				return Value{}, at(err, ex.Line, ex.Col)
			}
			return v, nil
		}
		v, err := ip.env.GetAt(ex.Name, ex.Depth)
		if err != nil {
			return Value{}, at(err, ex.Line, ex.Col)
		}
		return v, nil
	case *AssignExpr:
		v, err := ip.eval(ex.Value)
		if err != nil {
			return Value{}, err
		}
		if ex.Depth == notResolved {
			if err := ip.globals.Set(ex.Name, v); err != nil {
				return Value{}, at(err, ex.Line, ex.Col)
			}
			return v, nil
		}
		if err := ip.env.SetAt(ex.Name, ex.Depth, v); err != nil {
			return Value{}, at(err, ex.Line, ex.Col)
		}
		return v, nil
	case *GroupingExpr:
		return ip.eval(ex.Inner)
	case *UnaryExpr:
		return ip.unary(ex)
	case *BinaryExpr:
		return ip.binary(ex)
	case *LogicalExpr:
		return ip.logical(ex)
	case *CallExpr:
		return ip.call(ex)
	default:
		return Value{}, &RuntimeError{Kind: ErrInternal, Msg: fmt.Sprintf("unknown expression %T", e)}
	}
}

func (ip *Interpreter) unary(ex *UnaryExpr) (Value, error) {
	right, err := ip.eval(ex.Right)
	if err != nil {
		return Value{}, err
	}
	switch ex.Op {
	case BANG:
		return Bool(!truthy(right)), nil
	case MINUS:
		if right.Tag != VTNum {
			return Value{}, &RuntimeError{Kind: ErrArithmetic,
				Msg: "unary '-' requires a number, got " + FormatValue(right),
				Line: ex.Line, Col: ex.Col}
		}
		return Num(-right.Data.(float64)), nil
	default:
		return Value{}, &RuntimeError{Kind: ErrInternal, Msg: "unknown unary operator " + ex.Op.String()}
	}
}

func (ip *Interpreter) binary(ex *BinaryExpr) (Value, error) {
	left, err := ip.eval(ex.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := ip.eval(ex.Right)
	if err != nil {
		return Value{}, err
	}

	bothNums := left.Tag == VTNum && right.Tag == VTNum

	switch ex.Op {
	case MINUS, DIV, MULT:
		if !bothNums {
			return Value{}, &RuntimeError{Kind: ErrArithmetic,
				Msg: fmt.Sprintf("'%s' requires two numbers", ex.Op), Line: ex.Line, Col: ex.Col}
		}
		a, b := left.Data.(float64), right.Data.(float64)
		switch ex.Op {
		case MINUS:
			return Num(a - b), nil
		case DIV:
			return Num(a / b), nil
		default:
			return Num(a * b), nil
		}
	case PLUS:
		// Numeric addition first; otherwise string concatenation.
		if bothNums {
			return Num(left.Data.(float64) + right.Data.(float64)), nil
		}
		if left.Tag == VTStr && right.Tag == VTStr {
			return Str(left.Data.(string) + right.Data.(string)), nil
		}
		return Value{}, &RuntimeError{Kind: ErrConcatenation,
			Msg: "'+' requires two numbers or two strings", Line: ex.Line, Col: ex.Col}
	case GREATER, GREATER_EQ, LESS, LESS_EQ:
		if !bothNums {
			return Value{}, &RuntimeError{Kind: ErrTypeComparison,
				Msg: fmt.Sprintf("'%s' requires two numbers", ex.Op), Line: ex.Line, Col: ex.Col}
		}
		a, b := left.Data.(float64), right.Data.(float64)
		switch ex.Op {
		case GREATER:
			return Bool(a > b), nil
		case GREATER_EQ:
			return Bool(a >= b), nil
		case LESS:
			return Bool(a < b), nil
		default:
			return Bool(a <= b), nil
		}
	case EQ:
		return Bool(equal(left, right)), nil
	case NEQ:
		return Bool(!equal(left, right)), nil
	default:
		return Value{}, &RuntimeError{Kind: ErrInternal, Msg: "unknown binary operator " + ex.Op.String()}
	}
}

// logical short-circuits and yields the operand's own value, never a coerced
// boolean.
func (ip *Interpreter) logical(ex *LogicalExpr) (Value, error) {
	left, err := ip.eval(ex.Left)
	if err != nil {
		return Value{}, err
	}
	if ex.Op == OR {
		if truthy(left) {
			return left, nil
		}
	} else if !truthy(left) {
		return left, nil
	}
	return ip.eval(ex.Right)
}

func (ip *Interpreter) call(ex *CallExpr) (Value, error) {
	callee, err := ip.eval(ex.Callee)
	if err != nil {
		return Value{}, err
	}
	if callee.Tag != VTFun && callee.Tag != VTNative {
		return Value{}, &RuntimeError{Kind: ErrNotACallableType,
			Msg: "can only call functions, got " + FormatValue(callee), Line: ex.Line, Col: ex.Col}
	}

	args := make([]Value, 0, len(ex.Args))
	for _, arg := range ex.Args {
		v, err := ip.eval(arg)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	if want := arity(callee); want != len(args) {
		return Value{}, &RuntimeError{Kind: ErrMismatchedArguments,
			Msg:  fmt.Sprintf("expected %d arguments, but got %d", want, len(args)),
			Line: ex.Line, Col: ex.Col}
	}

	if callee.Tag == VTNative {
		n := callee.Data.(*Native)
		v, err := n.Impl(ip, args)
		if err != nil {
			return Value{}, at(err, ex.Line, ex.Col)
		}
		return v, nil
	}
	return ip.apply(callee.Data.(*Fun), args)
}

// apply runs a user function: a fresh frame is chained to the function's
// captured scope rather than the caller's, parameters are bound there, and
// the body executes until it returns or falls off the end.
func (ip *Interpreter) apply(fn *Fun, args []Value) (Value, error) {
	frame := NewEnv(fn.Env)
	for i, name := range fn.Params {
		frame.Define(name, args[i])
	}

	ret, err := ip.execBlock(fn.Body, frame)
	if err != nil {
		return Value{}, err
	}
	if ret != nil {
		return ret.value, nil
	}
	return Nil, nil
}
