// Package object defines the callable heap objects: Function, Closure,
// and NativeFunction. They live in their own package, separate from
// pkg/value, because a Function owns a *chunk.Chunk and a Chunk's
// constant pool holds value.Value entries — putting Function in
// pkg/value would make pkg/value and pkg/chunk import each other. This
// package imports both and breaks the cycle; it is a Go packaging
// necessity, not a change to the Value/Object data model spec.md §3
// describes.
package object

import (
	"fmt"

	"github.com/aolsen/lumen/pkg/chunk"
	"github.com/aolsen/lumen/pkg/value"
)

// Function is a compiled function: its arity, its own Chunk, and an
// optional name (nil for the implicit top-level script function).
type Function struct {
	Arity int
	Chunk *chunk.Chunk
	Name  *value.String
}

// NewFunction creates an empty Function ready to receive compiled code.
func NewFunction() *Function {
	return &Function{Chunk: chunk.New()}
}

func (f *Function) Display() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}
func (*Function) TypeName() string { return "function" }

// Closure wraps a Function so call sites have a uniform callable to push
// and invoke. Per spec.md's Non-goals and §9's Open Question, this design
// captures no upvalues: the wrapper exists only so the Call opcode's
// target is always a Closure, never a bare Function.
type Closure struct {
	Function *Function
}

// NewClosure wraps fn in a Closure.
func NewClosure(fn *Function) *Closure {
	return &Closure{Function: fn}
}

func (c *Closure) Display() string { return c.Function.Display() }
func (*Closure) TypeName() string  { return "closure" }

// NativeFunc is the Go function signature a NativeFunction wraps: it
// receives the argument count and a slice of the arguments, and returns
// the call's result value or an error.
type NativeFunc func(argCount int, args []value.Value) (value.Value, error)

// NativeFunction is a host-language callable exposed to lumen programs
// (e.g. the pre-defined clock() global).
type NativeFunction struct {
	Name string
	Fn   NativeFunc
}

// NewNativeFunction wraps a Go function as a callable lumen value.
func NewNativeFunction(name string, fn NativeFunc) *NativeFunction {
	return &NativeFunction{Name: name, Fn: fn}
}

func (*NativeFunction) Display() string  { return "<native fn>" }
func (*NativeFunction) TypeName() string { return "native function" }
