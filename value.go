// value.go: the runtime value model.
//
// Values are a closed tagged variant: Tag says which kind, Data carries the
// payload. Functions and natives share the callable surface through arity()
// and the interpreter's call dispatch rather than runtime type inspection
// beyond the tag.
package rlox

// ValueTag represents the kind of a runtime value.
type ValueTag int

const (
	VTNil    ValueTag = iota // nil (no payload)
	VTBool                   // Data is bool
	VTNum                    // Data is float64
	VTStr                    // Data is string
	VTFun                    // Data is *Fun
	VTNative                 // Data is *Native
)

// Value is a Lox runtime value.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Nil is the single nil value.
var Nil = Value{Tag: VTNil}

func Bool(b bool) Value { return Value{Tag: VTBool, Data: b} }

func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }

func Str(s string) Value { return Value{Tag: VTStr, Data: s} }

// Fun is a user-defined function: a closure over the environment frame that
// was current at its declaration. That frame (and every frame above it)
// stays alive for as long as any Fun value references it.
type Fun struct {
	Name   string
	Params []string
	Body   []Stmt
	Env    *Env // captured defining scope, not the caller's scope
}

// FunVal wraps *Fun into a Value.
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// NativeImpl is the implementation signature for host-provided functions.
type NativeImpl func(ip *Interpreter, args []Value) (Value, error)

// Native is a built-in function with a fixed arity.
type Native struct {
	Name  string
	NArgs int
	Impl  NativeImpl
}

// NativeVal wraps *Native into a Value.
func NativeVal(n *Native) Value { return Value{Tag: VTNative, Data: n} }

// truthy maps every value to a condition: false and nil are falsy, every
// other value (including 0 and "") is truthy.
func truthy(v Value) bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// equal is structural and type-sensitive: values of different tags are never
// equal, nil equals nil, and numbers/strings/bools compare by value.
// Functions compare by identity.
func equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTFun:
		return a.Data.(*Fun) == b.Data.(*Fun)
	case VTNative:
		return a.Data.(*Native) == b.Data.(*Native)
	default:
		return false
	}
}

// arity of a callable value; -1 for non-callables.
func arity(v Value) int {
	switch v.Tag {
	case VTFun:
		return len(v.Data.(*Fun).Params)
	case VTNative:
		return v.Data.(*Native).NArgs
	default:
		return -1
	}
}
