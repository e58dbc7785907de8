// interpreter_test.go
package rlox

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

// runSrc executes a program through the full pipeline and returns what it
// printed.
func runSrc(t *testing.T, src string) string {
	t.Helper()
	var out bytes.Buffer
	if err := Run(src, &out); err != nil {
		t.Fatalf("run error: %v\nsource:\n%s", err, src)
	}
	return out.String()
}

func wantOutput(t *testing.T, src, want string) {
	t.Helper()
	got := runSrc(t, src)
	if got != want {
		t.Fatalf("\nsource:\n%s\nwant output:\n%q\ngot output:\n%q", src, want, got)
	}
}

// runtimeErr runs the pipeline by hand so the unwrapped *RuntimeError is
// available for kind checks.
func runtimeErr(t *testing.T, src string) *RuntimeError {
	t.Helper()
	stmts := resolveSrc(t, src)
	err := NewInterpreter(io.Discard).Interpret(stmts)
	if err == nil {
		t.Fatalf("want runtime error for:\n%s", src)
	}
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	return re
}

func wantKind(t *testing.T, src string, kind RuntimeErrorKind) *RuntimeError {
	t.Helper()
	re := runtimeErr(t, src)
	if re.Kind != kind {
		t.Fatalf("want %s, got %s (%v)", kind, re.Kind, re)
	}
	return re
}

// evalExpr evaluates a single expression statement and returns its value.
func evalExpr(t *testing.T, src string) Value {
	t.Helper()
	ip := NewInterpreter(io.Discard)
	v, ok, err := ip.Eval(src)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	if !ok {
		t.Fatalf("no expression value for %q", src)
	}
	return v
}

func wantNumVal(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != VTNum || v.Data.(float64) != f {
		t.Fatalf("want num %v, got %s", f, FormatValue(v))
	}
}

func wantBoolVal(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want bool %v, got %s", b, FormatValue(v))
	}
}

func wantStrVal(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTStr || v.Data.(string) != s {
		t.Fatalf("want str %q, got %s", s, FormatValue(v))
	}
}

// --- arithmetic & operators ------------------------------------------------

func Test_Interp_Arithmetic(t *testing.T) {
	wantNumVal(t, evalExpr(t, `1 + 2 * 3;`), 7)
	wantNumVal(t, evalExpr(t, `(1 + 2) * 3;`), 9)
	wantNumVal(t, evalExpr(t, `10 / 4;`), 2.5)
	wantNumVal(t, evalExpr(t, `-5 + 2;`), -3)
	wantNumVal(t, evalExpr(t, `--5;`), 5)
}

func Test_Interp_StringConcatenation(t *testing.T) {
	wantStrVal(t, evalExpr(t, `"foo" + "bar";`), "foobar")
}

func Test_Interp_MixedPlusIsError(t *testing.T) {
	wantKind(t, `1 + "one";`, ErrConcatenation)
	wantKind(t, `"one" + 1;`, ErrConcatenation)
	wantKind(t, `nil + nil;`, ErrConcatenation)
}

func Test_Interp_ArithmeticOnNonNumbers(t *testing.T) {
	wantKind(t, `"a" * 2;`, ErrArithmetic)
	wantKind(t, `true - 1;`, ErrArithmetic)
	wantKind(t, `-"abc";`, ErrArithmetic)
}

func Test_Interp_Comparisons(t *testing.T) {
	wantBoolVal(t, evalExpr(t, `1 < 2;`), true)
	wantBoolVal(t, evalExpr(t, `2 <= 2;`), true)
	wantBoolVal(t, evalExpr(t, `3 > 4;`), false)
	wantBoolVal(t, evalExpr(t, `4 >= 5;`), false)
}

func Test_Interp_ComparingNonNumbersIsError(t *testing.T) {
	wantKind(t, `"a" < "b";`, ErrTypeComparison)
	wantKind(t, `1 < nil;`, ErrTypeComparison)
}

func Test_Interp_Equality(t *testing.T) {
	wantBoolVal(t, evalExpr(t, `1 == 1;`), true)
	wantBoolVal(t, evalExpr(t, `1 == 2;`), false)
	wantBoolVal(t, evalExpr(t, `"a" == "a";`), true)
	wantBoolVal(t, evalExpr(t, `nil == nil;`), true)

	// Different types are never equal, no coercion.
	wantBoolVal(t, evalExpr(t, `1 == "1";`), false)
	wantBoolVal(t, evalExpr(t, `nil == false;`), false)
	wantBoolVal(t, evalExpr(t, `0 == false;`), false)
	wantBoolVal(t, evalExpr(t, `1 != "1";`), true)
}

func Test_Interp_Truthiness(t *testing.T) {
	// Only nil and false are falsy; 0 and "" are truthy.
	wantBoolVal(t, evalExpr(t, `!nil;`), true)
	wantBoolVal(t, evalExpr(t, `!false;`), true)
	wantBoolVal(t, evalExpr(t, `!0;`), false)
	wantBoolVal(t, evalExpr(t, `!"";`), false)
	wantBoolVal(t, evalExpr(t, `!true;`), false)
}

func Test_Interp_LogicalReturnsOperandValue(t *testing.T) {
	wantStrVal(t, evalExpr(t, `"hi" or 2;`), "hi")
	wantNumVal(t, evalExpr(t, `nil or 2;`), 2)
	wantNumVal(t, evalExpr(t, `1 and 2;`), 2)
	if v := evalExpr(t, `false and 2;`); v.Tag != VTBool || v.Data.(bool) {
		t.Fatalf("want false, got %s", FormatValue(v))
	}
}

func Test_Interp_ShortCircuit(t *testing.T) {
	ip := NewInterpreter(io.Discard)
	calls := 0
	ip.RegisterNative("probe", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		calls++
		return Nil, nil
	})

	mustEval := func(src string) {
		t.Helper()
		if _, _, err := ip.Eval(src); err != nil {
			t.Fatalf("eval %q: %v", src, err)
		}
	}

	mustEval(`false and probe();`)
	mustEval(`true or probe();`)
	if calls != 0 {
		t.Fatalf("right operand evaluated despite short circuit, %d calls", calls)
	}

	mustEval(`true and probe();`)
	mustEval(`false or probe();`)
	if calls != 2 {
		t.Fatalf("want 2 probe calls, got %d", calls)
	}
}

// --- variables & scope -----------------------------------------------------

func Test_Interp_VarDefaultsToNil(t *testing.T) {
	wantOutput(t, "var a;\nprint a;", "nil\n")
}

func Test_Interp_UndefinedVariable(t *testing.T) {
	wantKind(t, `print missing;`, ErrUndefinedVariable)
}

func Test_Interp_AssignToUndefined(t *testing.T) {
	wantKind(t, `ghost = 1;`, ErrUndefinedVariableAssignment)
}

func Test_Interp_AssignmentIsAnExpression(t *testing.T) {
	wantOutput(t, "var a = 1;\nprint a = 2;\nprint a;", "2\n2\n")
}

func Test_Interp_Shadowing(t *testing.T) {
	src := `
var a = 1;
{
	var a = 2;
	print a;
}
print a;
`
	wantOutput(t, src, "2\n1\n")
}

func Test_Interp_BlockAssignsOuter(t *testing.T) {
	src := `
var a = 1;
{
	a = 2;
}
print a;
`
	wantOutput(t, src, "2\n")
}

func Test_Interp_BlockLocalDoesNotLeak(t *testing.T) {
	wantKind(t, "{\n\tvar hidden = 1;\n}\nprint hidden;", ErrUndefinedVariable)
}

// --- control flow ----------------------------------------------------------

func Test_Interp_IfElse(t *testing.T) {
	wantOutput(t, `if (1 < 2) print "yes"; else print "no";`, "yes\n")
	wantOutput(t, `if (1 > 2) print "yes"; else print "no";`, "no\n")
	wantOutput(t, `if (nil) print "taken";`, "")
}

func Test_Interp_While(t *testing.T) {
	src := `
var i = 0;
while (i < 3) {
	print i;
	i = i + 1;
}
`
	wantOutput(t, src, "0\n1\n2\n")
}

func Test_Interp_For(t *testing.T) {
	wantOutput(t, `for (var i = 0; i < 3; i = i + 1) print i;`, "0\n1\n2\n")
}

func Test_Interp_ForWithoutInit(t *testing.T) {
	src := `
var i = 10;
for (; i > 8; i = i - 1) print i;
`
	wantOutput(t, src, "10\n9\n")
}

// --- functions & closures --------------------------------------------------

func Test_Interp_FunctionCall(t *testing.T) {
	src := `
fun add(a, b) {
	return a + b;
}
print add(1, 2);
`
	wantOutput(t, src, "3\n")
}

func Test_Interp_FunctionFallsOffEndReturnsNil(t *testing.T) {
	src := `
fun noop() {}
print noop();
`
	wantOutput(t, src, "nil\n")
}

func Test_Interp_BareReturnReturnsNil(t *testing.T) {
	src := `
fun f() { return; }
print f();
`
	wantOutput(t, src, "nil\n")
}

func Test_Interp_ReturnUnwindsLoops(t *testing.T) {
	src := `
fun firstOver(limit) {
	for (var i = 0; ; i = i + 1) {
		if (i > limit) return i;
	}
}
print firstOver(3);
`
	wantOutput(t, src, "4\n")
}

func Test_Interp_Recursion(t *testing.T) {
	src := `
fun fib(n) {
	if (n < 2) return n;
	return fib(n - 1) + fib(n - 2);
}
print fib(10);
`
	wantOutput(t, src, "55\n")
}

func Test_Interp_ClosureCountersAreIndependent(t *testing.T) {
	src := `
fun makeCounter() {
	var count = 0;
	fun increment() {
		count = count + 1;
		return count;
	}
	return increment;
}
var a = makeCounter();
print a();
print a();
var b = makeCounter();
print b();
print a();
`
	wantOutput(t, src, "1\n2\n1\n3\n")
}

func Test_Interp_ClosureCapturesDefiningScope(t *testing.T) {
	// The closure sees its defining scope, not the caller's.
	src := `
var x = "global";
fun makeShow() {
	var x = "captured";
	fun show() {
		print x;
	}
	return show;
}
var show = makeShow();
show();
`
	wantOutput(t, src, "captured\n")
}

func Test_Interp_TwoClosuresShareOneFrame(t *testing.T) {
	src := `
fun makePair() {
	var n = 0;
	fun bump() {
		n = n + 1;
	}
	fun read() {
		return n;
	}
	bump();
	print read();
	return bump;
}
var bump = makePair();
bump();
`
	wantOutput(t, src, "1\n")
}

func Test_Interp_ArityMismatch(t *testing.T) {
	re := wantKind(t, "fun f(a, b) { return a; }\nf(1);", ErrMismatchedArguments)
	if !strings.Contains(re.Msg, "expected 2 arguments, but got 1") {
		t.Fatalf("got %q", re.Msg)
	}
	wantKind(t, "fun g() { return 1; }\ng(1, 2);", ErrMismatchedArguments)
}

func Test_Interp_CallingNonCallable(t *testing.T) {
	wantKind(t, `"not a function"();`, ErrNotACallableType)
	wantKind(t, "var x = 1;\nx();", ErrNotACallableType)
}

func Test_Interp_FunctionsAreValues(t *testing.T) {
	src := `
fun twice(f, x) {
	return f(f(x));
}
fun addOne(n) {
	return n + 1;
}
print twice(addOne, 5);
`
	wantOutput(t, src, "7\n")
}

// --- natives & embedding ---------------------------------------------------

func Test_Interp_ClockIsRegistered(t *testing.T) {
	v := evalExpr(t, `clock();`)
	if v.Tag != VTNum || v.Data.(float64) <= 0 {
		t.Fatalf("clock() should return seconds since the epoch, got %s", FormatValue(v))
	}
}

func Test_Interp_PrintNativeForEmbedders(t *testing.T) {
	// "print" lexes as the statement keyword, so the native is reachable
	// only through the embedding API.
	var out bytes.Buffer
	ip := NewInterpreter(&out)
	pv, err := ip.Globals().Get("print")
	if err != nil {
		t.Fatalf("print native not registered: %v", err)
	}
	if pv.Tag != VTNative {
		t.Fatalf("want native, got %s", FormatValue(pv))
	}
	ret, err := pv.Data.(*Native).Impl(ip, []Value{Str("from host")})
	if err != nil {
		t.Fatalf("print impl: %v", err)
	}
	if ret.Tag != VTNil {
		t.Fatalf("print must return nil, got %s", FormatValue(ret))
	}
	if out.String() != "from host\n" {
		t.Fatalf("got %q", out.String())
	}
}

func Test_Interp_PrintParenthesized(t *testing.T) {
	// print is a statement, not a function, but a parenthesized operand is
	// an ordinary grouping.
	var out bytes.Buffer
	if err := Run(`print("grouped");`, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "grouped\n" {
		t.Fatalf("got %q", out.String())
	}
}

func Test_Interp_RegisteredNativeReceivesArgs(t *testing.T) {
	ip := NewInterpreter(io.Discard)
	ip.RegisterNative("double", 1, func(_ *Interpreter, args []Value) (Value, error) {
		return Num(args[0].Data.(float64) * 2), nil
	})
	v, ok, err := ip.Eval(`double(21);`)
	if err != nil || !ok {
		t.Fatalf("eval: ok=%v err=%v", ok, err)
	}
	wantNumVal(t, v, 42)
}

// --- REPL-style persistent evaluation --------------------------------------

func Test_Interp_EvalStatePersists(t *testing.T) {
	var out bytes.Buffer
	ip := NewInterpreter(&out)

	if _, _, err := ip.Eval(`var x = 5;`); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, _, err := ip.Eval(`fun addX(n) { return n + x; }`); err != nil {
		t.Fatalf("function: %v", err)
	}
	v, ok, err := ip.Eval(`addX(2);`)
	if err != nil || !ok {
		t.Fatalf("call: ok=%v err=%v", ok, err)
	}
	wantNumVal(t, v, 7)
}

func Test_Interp_EvalSurvivesErrors(t *testing.T) {
	ip := NewInterpreter(io.Discard)
	if _, _, err := ip.Eval(`var x = 1;`); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, _, err := ip.Eval(`x + nil;`); err == nil {
		t.Fatalf("want runtime error")
	}
	// State is intact after the failed line.
	v, ok, err := ip.Eval(`x;`)
	if err != nil || !ok {
		t.Fatalf("after error: ok=%v err=%v", ok, err)
	}
	wantNumVal(t, v, 1)
}

func Test_Interp_EvalEchoOnlyForExpressions(t *testing.T) {
	ip := NewInterpreter(io.Discard)
	if _, ok, err := ip.Eval(`var y = 3;`); err != nil || ok {
		t.Fatalf("declaration must not echo: ok=%v err=%v", ok, err)
	}
	v, ok, err := ip.Eval(`y * y;`)
	if err != nil || !ok {
		t.Fatalf("expression must echo: ok=%v err=%v", ok, err)
	}
	wantNumVal(t, v, 9)
}

// --- error positions -------------------------------------------------------

func Test_Interp_RuntimeErrorCarriesPosition(t *testing.T) {
	re := wantKind(t, "var a = 1;\nvar b = a + nil;", ErrConcatenation)
	if re.Line != 2 {
		t.Fatalf("want error on line 2, got %d", re.Line)
	}
}

func Test_Interp_UndefinedVariablePositionFilledAtUse(t *testing.T) {
	re := wantKind(t, "print 1;\nprint nothing;", ErrUndefinedVariable)
	if re.Line != 2 || re.Col != 6 {
		t.Fatalf("want 2:6, got %d:%d", re.Line, re.Col)
	}
}
