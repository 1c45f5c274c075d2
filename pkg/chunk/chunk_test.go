package chunk

import (
	"bytes"
	"testing"

	"github.com/aolsen/lumen/pkg/value"
)

func TestWriteTracksLines(t *testing.T) {
	c := New()
	c.WriteOp(OpConstant, 1)
	c.Write(0, 1)
	c.WriteOp(OpReturn, 2)

	if got := c.GetLine(0); got != 1 {
		t.Errorf("offset 0: expected line 1, got %d", got)
	}
	if got := c.GetLine(1); got != 1 {
		t.Errorf("offset 1: expected line 1, got %d", got)
	}
	if got := c.GetLine(2); got != 2 {
		t.Errorf("offset 2: expected line 2, got %d", got)
	}
}

func TestGetLineMonotonic(t *testing.T) {
	c := New()
	lines := []int{1, 1, 2, 2, 2, 5, 9}
	for _, l := range lines {
		c.WriteOp(OpNil, l)
	}
	last := 0
	for offset := 0; offset < len(c.Code); offset++ {
		got := c.GetLine(offset)
		if got < last {
			t.Fatalf("GetLine not monotonic at offset %d: %d < %d", offset, got, last)
		}
		last = got
	}
}

func TestAddConstantNoDedup(t *testing.T) {
	c := New()
	i1 := c.AddConstant(value.Number(42))
	i2 := c.AddConstant(value.Number(42))
	if i1 == i2 {
		t.Errorf("expected distinct indices for separately added constants, got %d and %d", i1, i2)
	}
	if len(c.Constants) != 2 {
		t.Errorf("expected 2 constants, got %d", len(c.Constants))
	}
}

func TestDisassembleConstant(t *testing.T) {
	c := New()
	idx := c.AddConstant(value.Number(7))
	c.WriteOp(OpConstant, 1)
	c.Write(byte(idx), 1)
	c.WriteOp(OpReturn, 1)

	var buf bytes.Buffer
	c.Disassemble(&buf, "test")

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("OP_CONSTANT")) {
		t.Errorf("expected disassembly to mention OP_CONSTANT, got:\n%s", out)
	}
	if !bytes.Contains([]byte(out), []byte("'7'")) {
		t.Errorf("expected disassembly to display constant 7, got:\n%s", out)
	}
}

func TestDisassembleJumpTarget(t *testing.T) {
	c := New()
	c.WriteOp(OpJumpIfFalse, 1)
	c.Write(0, 1)
	c.Write(5, 1) // jump forward 5 from offset 3
	c.WriteOp(OpPop, 1)

	var buf bytes.Buffer
	offset := c.DisassembleInstruction(&buf, 0)
	if offset != 3 {
		t.Errorf("expected jump instruction width 3, got next offset %d", offset)
	}
	if !bytes.Contains(buf.Bytes(), []byte("-> 8")) {
		t.Errorf("expected jump target 8 (3+5), got:\n%s", buf.String())
	}
}

func TestMaxOpCodeValidity(t *testing.T) {
	if OpCode(200) <= MaxOpCode {
		t.Errorf("200 should be well above MaxOpCode")
	}
	if OpReturn > MaxOpCode {
		t.Errorf("OpReturn should be <= MaxOpCode")
	}
}
