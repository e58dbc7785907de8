// printer.go: textual rendering of runtime values.
package rlox

import (
	"fmt"
	"strconv"
)

// FormatValue renders a value the way print shows it: numbers in their
// natural decimal form (no trailing zeros), booleans as true/false, nil as
// nil, strings as their raw contents.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'f', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTFun:
		f := v.Data.(*Fun)
		return fmt.Sprintf("<fn %s#%d()>", f.Name, len(f.Params))
	case VTNative:
		return "<native fn>"
	default:
		return fmt.Sprintf("<unknown value %d>", v.Tag)
	}
}
