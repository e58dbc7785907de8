// errors.go: user-facing error wrapping and caret-snippet rendering.
//
// This module turns positioned scan/parse/resolve/runtime errors into
// readable snippets with a caret pointing at the offending column:
//
//	PARSE ERROR at 3:12: expect ')' after expression
//
//	   2 | var x = (1 + 2
//	   3 |              ;
//	       |            ^
//	   4 | print x;
//
// The snippet includes up to one line of context before and after the
// error, numbers the lines, and places the caret under the 1-based column.
// Errors of any other type are returned unchanged. The core never prints
// these itself; the CLI and REPL render them.
package rlox

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes the four positioned error
// types of the pipeline and leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("in <name>")
// in the header, for file-based runs.
func WrapErrorWithName(err error, srcName, src string) error {
	// Stored columns are 0-based; render as 1-based.
	switch e := err.(type) {
	case *ScanError:
		return fmt.Errorf("%s", snippet(src, "SCAN ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ResolveError:
		return fmt.Errorf("%s", snippet(src, "RESOLVE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", snippet(src, "RUNTIME ERROR", srcName, e.Line, e.Col+1,
			fmt.Sprintf("%s: %s", e.Kind, e.Msg)))
	default:
		return err
	}
}

// snippet builds the header plus a caret-annotated excerpt. Coordinates are
// treated as 1-based and clamped to the source bounds so rendering never
// fails on short or empty input.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
