package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aolsen/lumen/pkg/compiler"
)

func run(t *testing.T, source string) (*VM, string, error) {
	t.Helper()
	var diagnostics bytes.Buffer
	fn, err := compiler.New(source, &diagnostics).Compile()
	if err != nil {
		t.Fatalf("compile error: %s", diagnostics.String())
	}

	var out bytes.Buffer
	theVM := New()
	theVM.SetOutput(&out)
	runErr := theVM.Interpret(fn)
	return theVM, out.String(), runErr
}

func TestVMArithmeticPrecedence(t *testing.T) {
	_, out, err := run(t, "print 1 + 2 * 3;")
	if err != nil {
		t.Fatalf("VM error: %v", err)
	}
	if out != "7\n" {
		t.Errorf("expected %q, got %q", "7\n", out)
	}
}

func TestVMStringConcatenation(t *testing.T) {
	_, out, err := run(t, `print "foo" + "bar";`)
	if err != nil {
		t.Fatalf("VM error: %v", err)
	}
	if out != "foobar\n" {
		t.Errorf("expected %q, got %q", "foobar\n", out)
	}
}

func TestVMForLoopSum(t *testing.T) {
	source := `
var sum = 0;
for (var i = 1; i <= 5; i = i + 1) {
  sum = sum + i;
}
print sum;
`
	_, out, err := run(t, source)
	if err != nil {
		t.Fatalf("VM error: %v", err)
	}
	if out != "15\n" {
		t.Errorf("expected %q, got %q", "15\n", out)
	}
}

func TestVMRecursiveFibonacci(t *testing.T) {
	source := `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`
	_, out, err := run(t, source)
	if err != nil {
		t.Fatalf("VM error: %v", err)
	}
	if out != "55\n" {
		t.Errorf("expected %q, got %q", "55\n", out)
	}
}

func TestVMClockNativeIsNonNegative(t *testing.T) {
	_, out, err := run(t, "print clock() >= 0;")
	if err != nil {
		t.Fatalf("VM error: %v", err)
	}
	if out != "true\n" {
		t.Errorf("expected %q, got %q", "true\n", out)
	}
}

func TestVMAssignmentIsAnExpression(t *testing.T) {
	source := `
var x;
print x = 3;
print x;
`
	_, out, err := run(t, source)
	if err != nil {
		t.Fatalf("VM error: %v", err)
	}
	if out != "3\n3\n" {
		t.Errorf("expected %q, got %q", "3\n3\n", out)
	}
}

func TestVMUndefinedVariableReadIsRuntimeError(t *testing.T) {
	_, _, err := run(t, "print nope;")
	if err == nil {
		t.Fatal("expected a runtime error, got nil")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if !strings.Contains(rerr.Error(), "Undefined variable 'nope'") {
		t.Errorf("unexpected error text: %s", rerr.Error())
	}
	if rerr.ExitCode() != 70 {
		t.Errorf("expected exit code 70, got %d", rerr.ExitCode())
	}
}

func TestVMUndefinedVariableAssignmentLeavesNoGhostBinding(t *testing.T) {
	theVM, _, err := run(t, "x = 1;")
	if err == nil {
		t.Fatal("expected a runtime error assigning to an undefined global")
	}
	if _, ok := theVM.globals.Get("x"); ok {
		t.Error("failed SetGlobal must not leave a ghost binding")
	}
}

func TestVMArityMismatchIsRuntimeError(t *testing.T) {
	_, _, err := run(t, "fun f(a, b) { return a + b; } f(1);")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(err.Error(), "Expected 2 argument(s) but got 1.") {
		t.Errorf("unexpected error text: %s", err.Error())
	}
}

func TestVMCallingANonCallableIsRuntimeError(t *testing.T) {
	_, _, err := run(t, "var x = 1; x();")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(err.Error(), "Can only call functions and classes.") {
		t.Errorf("unexpected error text: %s", err.Error())
	}
}

func TestVMStackOverflowOnUnboundedRecursion(t *testing.T) {
	source := `
fun loop() { return loop(); }
loop();
`
	_, _, err := run(t, source)
	if err == nil {
		t.Fatal("expected a stack overflow runtime error")
	}
	if !strings.Contains(err.Error(), "Stack overflow.") {
		t.Errorf("unexpected error text: %s", err.Error())
	}
}

func TestVMAndOrShortCircuit(t *testing.T) {
	source := `
fun sideEffect() {
  print "called";
  return true;
}
print false and sideEffect();
print true or sideEffect();
`
	_, out, err := run(t, source)
	if err != nil {
		t.Fatalf("VM error: %v", err)
	}
	if out != "false\ntrue\n" {
		t.Errorf("expected no side effect to run: got %q", out)
	}
}

func TestVMRuntimeErrorResetsStackForNextInterpretCall(t *testing.T) {
	var diagnostics bytes.Buffer
	theVM := New()
	var out bytes.Buffer
	theVM.SetOutput(&out)

	fn1, err := compiler.New("print nope;", &diagnostics).Compile()
	if err != nil {
		t.Fatalf("compile error: %s", diagnostics.String())
	}
	if err := theVM.Interpret(fn1); err == nil {
		t.Fatal("expected a runtime error from the undefined variable")
	}
	if len(theVM.stack) != 0 || len(theVM.frames) != 0 {
		t.Fatalf("expected empty stacks after a runtime error, got stack=%d frames=%d",
			len(theVM.stack), len(theVM.frames))
	}

	fn2, err := compiler.New(`print "still alive";`, &diagnostics).Compile()
	if err != nil {
		t.Fatalf("compile error: %s", diagnostics.String())
	}
	if err := theVM.Interpret(fn2); err != nil {
		t.Fatalf("VM error on next line after a prior runtime error: %v", err)
	}
	if out.String() != "still alive\n" {
		t.Errorf("expected %q, got %q", "still alive\n", out.String())
	}
}

func TestVMPersistentSessionKeepsGlobalsAcrossRuns(t *testing.T) {
	var diagnostics bytes.Buffer
	theVM := New()
	var out bytes.Buffer
	theVM.SetOutput(&out)

	fn1, err := compiler.New("var x = 1;", &diagnostics).Compile()
	if err != nil {
		t.Fatalf("compile error: %s", diagnostics.String())
	}
	if err := theVM.Interpret(fn1); err != nil {
		t.Fatalf("VM error: %v", err)
	}

	fn2, err := compiler.New("print x + 1;", &diagnostics).Compile()
	if err != nil {
		t.Fatalf("compile error: %s", diagnostics.String())
	}
	if err := theVM.Interpret(fn2); err != nil {
		t.Fatalf("VM error: %v", err)
	}

	if out.String() != "2\n" {
		t.Errorf("expected %q, got %q", "2\n", out.String())
	}
}
