package vm

import (
	"fmt"

	"github.com/evanlindqvist/golox/debug"
)

// OpCode is a single bytecode instruction. Ordinals are fixed in the
// order listed here (CONSTANT first, RETURN last) since chunks are
// ephemeral within one interpret() call and nothing depends on
// cross-chunk compatibility.
//
//go:generate stringer -type=OpCode
type OpCode byte

const (
	OpConst   OpCode = iota // idx:u8 — push consts[idx]
	OpNil                   // push nil
	OpTrue                  // push true
	OpFalse                 // push false
	OpEqual                 // a b -> a==b
	OpGreater               // a b -> a>b, operands must be numbers
	OpLess                  // a b -> a<b, operands must be numbers
	OpAdd                   // a b -> a+b, numeric add or string concat
	OpSub                   // a b -> a-b, operands must be numbers
	OpMul                   // a b -> a*b, operands must be numbers
	OpDiv                   // a b -> a/b, operands must be numbers
	OpNot                   // a -> !falsey(a)
	OpNeg                   // a -> -a, operand must be a number
	OpReturn                // v -> , pop, print, halt
)

// Chunk is an append-only program image: a byte vector, a parallel
// per-byte source-line vector, and a constant pool a CONSTANT operand
// indexes into.
type Chunk struct {
	code []byte
	// Contract: len(lines) == len(code); lines[i] is the source line
	// that produced code[i].
	lines  []int
	consts []Value
}

func NewChunk() *Chunk { return &Chunk{} }

func (c *Chunk) Write(b byte, line int) {
	c.code = append(c.code, b)
	c.lines = append(c.lines, line)
	debug.AssertEq(len(c.code), len(c.lines))
}

// AddConst appends to the constant pool and returns its index. The
// caller (Parser.makeConst) is responsible for rejecting indices beyond
// the single-byte operand's range.
func (c *Chunk) AddConst(val Value) (idx int) {
	idx = len(c.consts)
	c.consts = append(c.consts, val)
	return
}

// DisassembleInst renders one instruction at offset and returns the
// offset of the next one: offset+2 for CONSTANT (it carries a one-byte
// operand), offset+1 for every nullary opcode.
func (c *Chunk) DisassembleInst(offset int) (res string, newOffset int) {
	sprintf := func(format string, a ...any) { res += fmt.Sprintf(format, a...) }

	sprintf("%04d ", offset)
	if offset > 0 && c.lines[offset] == c.lines[offset-1] {
		sprintf("   | ")
	} else {
		sprintf("%4d ", c.lines[offset])
	}

	switch inst := OpCode(c.code[offset]); inst {
	case OpConst:
		const_ := c.code[offset+1]
		sprintf("%-16s %4d '%s'", inst, const_, c.consts[const_])
		return res, offset + 2
	default:
		sprintf("%s", inst)
		return res, offset + 1
	}
}

func (c *Chunk) Disassemble(name string) (res string) {
	res = fmt.Sprintf("== %s ==\n", name)
	for i := 0; i < len(c.code); {
		var delta string
		delta, i = c.DisassembleInst(i)
		res += delta + "\n"
	}
	return res
}
