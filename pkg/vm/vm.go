// Package vm implements the stack-based virtual machine that executes
// lumen bytecode.
//
// The VM is the final stage in the pipeline:
//
//	Source -> Scanner -> Compiler -> Chunk -> VM -> Execution
//
// Execution model:
//
// The VM fetches one instruction byte at a time from the current call
// frame's Chunk, advances the frame's instruction pointer, and dispatches
// to that opcode's handler. Handlers pop their operands off the value
// stack and push their results back — the stack discipline spec.md §4.2
// defines for each opcode. Function calls push a new CallFrame pointing
// at the callee's Chunk and a slot base into the shared value stack;
// Return pops the frame and truncates the stack back to that slot base.
//
// State ownership: the value stack, frame stack, globals table, and
// string-intern table are all owned and mutated only by this VM
// instance — there is no sharing across VM instances or goroutines
// (spec.md §5).
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/dolthub/swiss"

	"github.com/aolsen/lumen/pkg/chunk"
	"github.com/aolsen/lumen/pkg/object"
	"github.com/aolsen/lumen/pkg/value"
)

// maxFrames bounds the call-frame stack (spec.md §3): exceeding it is a
// "Stack overflow" runtime error.
const maxFrames = 256

// CallFrame is one activation of a Closure: its own instruction pointer
// into the closure's function's Chunk, and the index into the VM's
// shared value stack where this frame's slot 0 (the closure itself)
// begins. Arguments occupy the slots immediately after; locals extend
// upward from there.
type CallFrame struct {
	closure  *object.Closure
	ip       int
	slotBase int
}

// VM owns all runtime state: the value stack, the frame stack, the
// globals table, and the string-intern table.
//
// Globals and the string-intern table are backed by
// github.com/dolthub/swiss's open-addressing hash map (the same map
// implementation mna-nenuphar uses for its own language-level Map
// value), rather than a plain Go map, so the VM's two hottest lookup
// paths — global variable access and string interning on every
// concatenation — go through it.
type VM struct {
	stack  []value.Value
	frames []CallFrame

	globals *swiss.Map[string, value.Value]
	strings *swiss.Map[string, *value.String]

	stdout io.Writer
	stderr io.Writer

	// TraceExecution, when true, dumps the value stack and disassembles
	// the next instruction before every fetch — the debug flag spec.md
	// §4.4 calls for, wired to the CLI's --trace-execution flag.
	TraceExecution bool
}

// New creates a VM with empty globals/interning tables and the clock()
// native pre-defined, writing Print output to stdout and error output to
// stderr (override via SetOutput/SetErrorOutput, mainly for tests).
func New() *VM {
	vm := &VM{
		globals: swiss.NewMap[string, value.Value](64),
		strings: swiss.NewMap[string, *value.String](256),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	vm.defineNatives()
	return vm
}

// SetOutput redirects Print output (used by tests and the golden harness).
func (vm *VM) SetOutput(w io.Writer) { vm.stdout = w }

// SetErrorOutput redirects runtime-error output.
func (vm *VM) SetErrorOutput(w io.Writer) { vm.stderr = w }

// Intern returns the canonical *value.String for s: if an equal string
// was interned before, the existing object is returned so that
// downstream identity comparisons (and the retention semantics spec.md
// §5 describes) are consistent; otherwise a new String is created,
// hashed, and stored.
func (vm *VM) Intern(s string) *value.String {
	if existing, ok := vm.strings.Get(s); ok {
		return existing
	}
	str := value.NewString(s)
	vm.strings.Put(s, str)
	return str
}

// Interpret runs an already compiled top-level Function: it is wrapped
// in a Closure, pushed as the bottom frame, and run against this VM's
// existing globals. Returns a *RuntimeError on failure, or nil on
// success.
func (vm *VM) Interpret(fn *object.Function) error {
	closure := object.NewClosure(fn)
	vm.push(closure)
	frame := CallFrame{closure: closure, ip: 0, slotBase: 0}
	vm.frames = append(vm.frames, frame)
	return vm.run()
}

func (vm *VM) push(v value.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() value.Value {
	n := len(vm.stack)
	v := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) currentFrame() *CallFrame {
	return &vm.frames[len(vm.frames)-1]
}

func (vm *VM) readByte(f *CallFrame) byte {
	b := f.closure.Function.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readShort(f *CallFrame) int {
	hi := f.closure.Function.Chunk.Code[f.ip]
	lo := f.closure.Function.Chunk.Code[f.ip+1]
	f.ip += 2
	return int(hi)<<8 | int(lo)
}

func (vm *VM) readConstant(f *CallFrame) value.Value {
	idx := vm.readByte(f)
	return f.closure.Function.Chunk.Constants[idx]
}

// run is the VM's main fetch-dispatch loop.
func (vm *VM) run() error {
	for {
		frame := vm.currentFrame()

		if vm.TraceExecution {
			vm.traceBefore(frame)
		}

		op := chunk.OpCode(vm.readByte(frame))
		switch op {
		case chunk.OpConstant:
			vm.push(vm.readConstant(frame))

		case chunk.OpNil:
			vm.push(value.Nil)
		case chunk.OpTrue:
			vm.push(value.Bool(true))
		case chunk.OpFalse:
			vm.push(value.Bool(false))

		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			slot := vm.readByte(frame)
			vm.push(vm.stack[frame.slotBase+int(slot)])

		case chunk.OpSetLocal:
			slot := vm.readByte(frame)
			vm.stack[frame.slotBase+int(slot)] = vm.peek(0)

		case chunk.OpGetGlobal:
			name := vm.readConstant(frame).(*value.String)
			v, ok := vm.globals.Get(name.Chars)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)

		case chunk.OpDefineGlobal:
			name := vm.readConstant(frame).(*value.String)
			vm.globals.Put(name.Chars, vm.pop())

		case chunk.OpSetGlobal:
			name := vm.readConstant(frame).(*value.String)
			if _, ok := vm.globals.Get(name.Chars); !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.globals.Put(name.Chars, vm.peek(0))

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))

		case chunk.OpGreater:
			if err := vm.binaryCompare(func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case chunk.OpLess:
			if err := vm.binaryCompare(func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case chunk.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case chunk.OpSubtract:
			if err := vm.binaryNumeric(func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case chunk.OpMultiply:
			if err := vm.binaryNumeric(func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case chunk.OpDivide:
			if err := vm.binaryNumeric(func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}

		case chunk.OpNot:
			vm.push(value.Bool(value.IsFalsey(vm.pop())))

		case chunk.OpNegate:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.pop()
			vm.push(-n)

		case chunk.OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop().Display())

		case chunk.OpJump:
			offset := vm.readShort(frame)
			frame.ip += offset

		case chunk.OpJumpIfFalse:
			offset := vm.readShort(frame)
			if value.IsFalsey(vm.peek(0)) {
				frame.ip += offset
			}

		case chunk.OpLoop:
			offset := vm.readShort(frame)
			frame.ip -= offset

		case chunk.OpCall:
			argCount := int(vm.readByte(frame))
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}

		case chunk.OpClosure:
			fn := vm.readConstant(frame).(*object.Function)
			vm.push(object.NewClosure(fn))

		case chunk.OpReturn:
			result := vm.pop()
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				vm.pop() // the synthetic top-level script callee
				return nil
			}
			vm.stack = vm.stack[:frame.slotBase]
			vm.push(result)

		default:
			return vm.runtimeError("Unknown opcode %d.", op)
		}
	}
}

func (vm *VM) binaryNumeric(f func(a, b float64) float64) error {
	b, aOK := vm.peek(0).(value.Number)
	a, bOK := vm.peek(1).(value.Number)
	if !aOK || !bOK {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(value.Number(f(float64(a), float64(b))))
	return nil
}

func (vm *VM) binaryCompare(f func(a, b float64) bool) error {
	b, aOK := vm.peek(0).(value.Number)
	a, bOK := vm.peek(1).(value.Number)
	if !aOK || !bOK {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(value.Bool(f(float64(a), float64(b))))
	return nil
}

// add implements Add's dual numeric/string semantics: both operands
// numbers adds; both operands strings concatenates (interning the
// result); any other combination is a runtime error.
func (vm *VM) add() error {
	bVal := vm.peek(0)
	aVal := vm.peek(1)

	if bNum, ok := bVal.(value.Number); ok {
		if aNum, ok := aVal.(value.Number); ok {
			vm.pop()
			vm.pop()
			vm.push(aNum + bNum)
			return nil
		}
	}
	if bStr, ok := bVal.(*value.String); ok {
		if aStr, ok := aVal.(*value.String); ok {
			vm.pop()
			vm.pop()
			vm.push(vm.Intern(aStr.Chars + bStr.Chars))
			return nil
		}
	}
	return vm.runtimeError("Operands must be two numbers or two strings.")
}

// callValue dispatches a Call opcode: callee is peeked from argCount
// below the top of the stack, which still holds the arguments above it.
func (vm *VM) callValue(callee value.Value, argCount int) error {
	switch c := callee.(type) {
	case *object.Closure:
		return vm.callClosure(c, argCount)
	case *object.NativeFunction:
		args := vm.stack[len(vm.stack)-argCount:]
		result, err := c.Fn(argCount, args)
		if err != nil {
			return vm.runtimeError("%s", err.Error())
		}
		vm.stack = vm.stack[:len(vm.stack)-argCount-1]
		vm.push(result)
		return nil
	default:
		return vm.runtimeError("Can only call functions and classes.")
	}
}

func (vm *VM) callClosure(closure *object.Closure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeError("Expected %d argument(s) but got %d.", closure.Function.Arity, argCount)
	}
	if len(vm.frames) >= maxFrames {
		return vm.runtimeError("Stack overflow.")
	}
	vm.frames = append(vm.frames, CallFrame{
		closure:  closure,
		ip:       0,
		slotBase: len(vm.stack) - argCount - 1,
	})
	return nil
}
