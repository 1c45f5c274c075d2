package vm

import "fmt"

// traceBefore dumps the value stack and disassembles the instruction
// about to execute, matching the trace format the teacher's debugger
// produced before a breakpoint prompt — stripped here down to a plain
// println, since lumen carries no interactive breakpoint UI (spec.md's
// Non-goals exclude a debugger; --trace-execution is a firehose, not a
// REPL-in-a-REPL).
func (vm *VM) traceBefore(frame *CallFrame) {
	fmt.Fprint(vm.stderr, "          ")
	for _, v := range vm.stack {
		fmt.Fprintf(vm.stderr, "[ %s ]", v.Display())
	}
	fmt.Fprintln(vm.stderr)
	frame.closure.Function.Chunk.DisassembleInstruction(vm.stderr, frame.ip)
}
