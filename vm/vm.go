package vm

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/evanlindqvist/golox/debug"
	e "github.com/evanlindqvist/golox/errors"
)

// StackMax is the evaluation stack's fixed capacity.
const StackMax = 256

// VM is a fetch-decode-execute loop over a Chunk: an instruction
// pointer and a fixed-size evaluation stack. One VM may run several
// chunks in sequence (e.g. one per REPL line), never concurrently.
type VM struct {
	chunk    *Chunk
	ip       int
	stack    [StackMax]Value
	stackTop int
}

func NewVM() *VM { return &VM{} }

func (vm *VM) resetStack() { vm.stackTop = 0 }

func (vm *VM) push(v Value) error {
	if vm.stackTop >= StackMax {
		// The byte before ip belongs to the instruction being executed
		// (its opcode or its operand), so it carries that instruction's line.
		return vm.runtimeError(vm.ip-1, "Stack overflow.")
	}
	vm.stack[vm.stackTop] = v
	vm.stackTop++
	return nil
}

func (vm *VM) pop() (last Value) {
	vm.stackTop--
	last = vm.stack[vm.stackTop]
	return
}

func (vm *VM) peek(distance int) Value { return vm.stack[vm.stackTop-1-distance] }

// Interpret compiles source into a fresh Chunk and, on a clean compile,
// runs it to completion or to the first runtime error. source does not
// need a trailing NUL: Interpret appends the sentinel the scanner
// expects.
func (vm *VM) Interpret(source string) (Value, error) {
	chunk := NewChunk()
	parser := NewParser()
	if ok := parser.Compile(source+"\x00", chunk); !ok {
		return VNil{}, parser.Err()
	}

	vm.chunk = chunk
	vm.ip = 0
	vm.resetStack()
	return vm.run()
}

func (vm *VM) readByte() (res byte) {
	res = vm.chunk.code[vm.ip]
	vm.ip++
	return
}

func (vm *VM) readConst() Value { return vm.chunk.consts[vm.readByte()] }

func (vm *VM) run() (Value, error) {
	for {
		if debug.DEBUG {
			logrus.Debugln(vm.traceStack())
			dump, _ := vm.chunk.DisassembleInst(vm.ip)
			logrus.Debugln(dump)
		}

		// The offset of the instruction about to dispatch, so a runtime
		// error raised while executing it can still report its line.
		instOffset := vm.ip
		switch inst := OpCode(vm.readByte()); inst {
		case OpConst:
			if err := vm.push(vm.readConst()); err != nil {
				return VNil{}, err
			}
		case OpNil:
			if err := vm.push(VNil{}); err != nil {
				return VNil{}, err
			}
		case OpTrue:
			if err := vm.push(VBool(true)); err != nil {
				return VNil{}, err
			}
		case OpFalse:
			if err := vm.push(VBool(false)); err != nil {
				return VNil{}, err
			}
		case OpEqual:
			b, a := vm.pop(), vm.pop()
			if err := vm.push(VEq(a, b)); err != nil {
				return VNil{}, err
			}
		case OpGreater:
			if err := vm.binaryCompare(instOffset, func(a, b VNum) VBool { return a > b }); err != nil {
				return VNil{}, err
			}
		case OpLess:
			if err := vm.binaryCompare(instOffset, func(a, b VNum) VBool { return a < b }); err != nil {
				return VNil{}, err
			}
		case OpAdd:
			if err := vm.add(instOffset); err != nil {
				return VNil{}, err
			}
		case OpSub:
			if err := vm.binaryArith(instOffset, func(a, b VNum) VNum { return a - b }); err != nil {
				return VNil{}, err
			}
		case OpMul:
			if err := vm.binaryArith(instOffset, func(a, b VNum) VNum { return a * b }); err != nil {
				return VNil{}, err
			}
		case OpDiv:
			if err := vm.binaryArith(instOffset, func(a, b VNum) VNum { return a / b }); err != nil {
				return VNil{}, err
			}
		case OpNot:
			if err := vm.push(VBool(!VTruthy(vm.pop()))); err != nil {
				return VNil{}, err
			}
		case OpNeg:
			if err := vm.negate(instOffset); err != nil {
				return VNil{}, err
			}
		case OpReturn:
			val := vm.pop()
			fmt.Printf("%s\n", val)
			return val, nil
		default:
			return VNil{}, vm.runtimeError(instOffset, "unknown instruction '%d'", inst)
		}
	}
}

// binaryArith peeks at the top two values, type-checks both before
// popping either, then pops, applies fn and pushes the number it produces.
func (vm *VM) binaryArith(offset int, fn func(a, b VNum) VNum) error {
	b, ok := vm.peek(0).(VNum)
	if !ok {
		return vm.runtimeError(offset, "Operand must be a number.")
	}
	a, ok := vm.peek(1).(VNum)
	if !ok {
		return vm.runtimeError(offset, "Operand must be a number.")
	}
	vm.pop()
	vm.pop()
	return vm.push(fn(a, b))
}

// binaryCompare is binaryArith's counterpart for GREATER/LESS, which
// produce a VBool rather than a VNum.
func (vm *VM) binaryCompare(offset int, fn func(a, b VNum) VBool) error {
	b, ok := vm.peek(0).(VNum)
	if !ok {
		return vm.runtimeError(offset, "Operand must be a number.")
	}
	a, ok := vm.peek(1).(VNum)
	if !ok {
		return vm.runtimeError(offset, "Operand must be a number.")
	}
	vm.pop()
	vm.pop()
	return vm.push(fn(a, b))
}

// add is ADD's dual contract: two numbers add, two strings concatenate,
// anything else is a runtime error.
func (vm *VM) add(offset int) error {
	if bStr, bOk := vm.peek(0).(VStr); bOk {
		if aStr, aOk := vm.peek(1).(VStr); aOk {
			vm.pop()
			vm.pop()
			return vm.push(NewVStr(string(aStr) + string(bStr)))
		}
	}
	if bNum, bOk := vm.peek(0).(VNum); bOk {
		if aNum, aOk := vm.peek(1).(VNum); aOk {
			vm.pop()
			vm.pop()
			return vm.push(aNum + bNum)
		}
	}
	return vm.runtimeError(offset, "Operands must be two numbers or two strings.")
}

func (vm *VM) negate(offset int) error {
	n, ok := vm.peek(0).(VNum)
	if !ok {
		return vm.runtimeError(offset, "Operand must be a number.")
	}
	vm.pop()
	return vm.push(-n)
}

// traceStack renders the stack contents for the execution trace:
// "          [ v0 ][ v1 ]...".
func (vm *VM) traceStack() string {
	res := "          "
	for i := 0; i < vm.stackTop; i++ {
		res += fmt.Sprintf("[ %s ]", vm.stack[i])
	}
	return res
}

// runtimeError writes the diagnostic to stderr, resets the stack, and
// returns a *errors.RuntimeError. offset is the byte offset of the
// instruction that just dispatched, whose recorded line is what the
// "[line L] in script" trailer reports.
func (vm *VM) runtimeError(offset int, format string, args ...any) error {
	line := vm.chunk.lines[offset]
	err := &e.RuntimeError{Line: line, Reason: fmt.Sprintf(format, args...)}
	fmt.Fprintln(os.Stderr, err.Error())
	vm.resetStack()
	return err
}
