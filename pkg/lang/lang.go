// Package lang is the single entry point host programs use to run
// lumen source: it wires pkg/compiler and pkg/vm together and turns
// whatever they report into one of the two typed errors the CLI's
// exit-code table (spec.md §6) dispatches on.
package lang

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/aolsen/lumen/pkg/compiler"
	"github.com/aolsen/lumen/pkg/vm"
)

// CompileError wraps the diagnostics the compiler printed to its error
// writer. The VM never runs when this is returned.
type CompileError struct {
	Diagnostics string
}

func (e *CompileError) Error() string { return e.Diagnostics }

// ExitCode is 65, the compile-time-error status spec.md §6 assigns.
func (e *CompileError) ExitCode() int { return 65 }

// RuntimeError reports a failure raised while executing already-compiled
// bytecode.
type RuntimeError struct {
	inner *vm.RuntimeError
}

func (e *RuntimeError) Error() string { return e.inner.Error() }

// ExitCode is 70, the runtime-error status spec.md §6 assigns.
func (e *RuntimeError) ExitCode() int { return e.inner.ExitCode() }

// Unwrap exposes the underlying *vm.RuntimeError for callers that want
// its structured Stack field.
func (e *RuntimeError) Unwrap() error { return e.inner }

// Session is a reusable interpreter: its VM's globals persist across
// calls to Run, which is what the REPL (cmd/lumen) needs so that a
// variable defined on one line is visible on the next.
type Session struct {
	vm *vm.VM
}

// NewSession creates a Session with fresh VM state and stdout wired to
// out.
func NewSession(out io.Writer) *Session {
	v := vm.New()
	v.SetOutput(out)
	return &Session{vm: v}
}

// SetTrace toggles the VM's --trace-execution instruction dump.
func (s *Session) SetTrace(trace bool) { s.vm.TraceExecution = trace }

// Run compiles and executes source against this session's persistent VM
// state, returning a *CompileError or *RuntimeError on failure.
func (s *Session) Run(source string) error {
	var diagnostics bytes.Buffer
	fn, err := compiler.New(source, &diagnostics).Compile()
	if err != nil {
		return &CompileError{Diagnostics: diagnostics.String()}
	}

	if err := s.vm.Interpret(fn); err != nil {
		var rerr *vm.RuntimeError
		if errors.As(err, &rerr) {
			return &RuntimeError{inner: rerr}
		}
		return fmt.Errorf("lumen: %w", err)
	}
	return nil
}

// Interpret is a convenience one-shot: compile and run source in a fresh
// Session, writing Print output to out.
func Interpret(source string, out io.Writer) error {
	return NewSession(out).Run(source)
}
