// rlox.go: the public entry points into the pipeline.
//
// The pipeline is scan → parse → resolve → interpret. Scan errors are fatal
// to the whole run. Parse errors are collected per statement (the parser
// resynchronizes between them) and a program with any parse error is not
// resolved or interpreted, though every error is reported. Resolve and
// runtime errors stop at the first failure.
package rlox

import (
	"errors"
	"io"
)

// Version of the interpreter.
const Version = "0.1.0"

// Run scans, parses, resolves and interprets src in a fresh interpreter,
// writing print output to out. The returned error (if any) is already
// wrapped with a caret snippet of src.
func Run(src string, out io.Writer) error {
	return RunNamed("", src, out)
}

// RunNamed is Run with a source name (typically a file path) included in
// rendered error headers.
func RunNamed(name, src string, out io.Writer) error {
	ip := NewInterpreter(out)
	_, _, err := ip.evalNamed(name, src)
	return err
}

// Eval runs src against the interpreter's persistent global state, as a REPL
// does line by line. It returns the value of the final top-level expression
// statement, with ok reporting whether there was one. Errors are wrapped
// with a caret snippet of src.
func (ip *Interpreter) Eval(src string) (last Value, ok bool, err error) {
	return ip.evalNamed("", src)
}

func (ip *Interpreter) evalNamed(name, src string) (last Value, ok bool, err error) {
	tokens, err := NewScanner(src).Scan()
	if err != nil {
		return Nil, false, WrapErrorWithName(err, name, src)
	}

	stmts, perrs := Parse(tokens)
	if len(perrs) > 0 {
		wrapped := make([]error, len(perrs))
		for i, pe := range perrs {
			wrapped[i] = WrapErrorWithName(pe, name, src)
		}
		return Nil, false, errors.Join(wrapped...)
	}

	if err := Resolve(stmts); err != nil {
		return Nil, false, WrapErrorWithName(err, name, src)
	}

	for _, s := range stmts {
		if es, isExpr := s.(*ExprStmt); isExpr {
			v, err := ip.eval(es.Expr)
			if err != nil {
				return Nil, false, WrapErrorWithName(err, name, src)
			}
			last, ok = v, true
			continue
		}
		if _, err := ip.exec(s); err != nil {
			return Nil, false, WrapErrorWithName(err, name, src)
		}
		last, ok = Nil, false
	}
	return last, ok, nil
}
