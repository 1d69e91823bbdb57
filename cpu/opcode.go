package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Op is a decoded operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_INVALID   = Op(0) // ???
	OP_LD_SP_D16 = Op(1) // LD SP
	OP_XOR_A     = Op(2) // XOR A
	OP_LD_HL_D16 = Op(3) // LD HL
)

// Opcode describes the encoding and cost of an operation.
type Opcode struct {
	Op     Op  // Operation.
	Length int // Encoded length in bytes, including the opcode.
	Cycles int // Clock cycles.
}

// Operands returns the number of operand bytes following the opcode.
func (oc Opcode) Operands() int {
	return oc.Length - 1
}

// opcodeTable holds every implemented opcode.
var opcodeTable = map[uint8]Opcode{
	0x31: {Op: OP_LD_SP_D16, Length: 3, Cycles: 12},
	0xaf: {Op: OP_XOR_A, Length: 1, Cycles: 4},
	0x21: {Op: OP_LD_HL_D16, Length: 3, Cycles: 12},
}

// Lookup returns the description of an opcode byte.
func Lookup(opcode uint8) (oc Opcode, ok bool) {
	oc, ok = opcodeTable[opcode]
	return
}

// Encoding returns the opcode byte for an operation.
func Encoding(op Op) (opcode uint8, ok bool) {
	for opcode, oc := range opcodeTable {
		if oc.Op == op {
			return opcode, true
		}
	}
	return
}

// Opcodes returns the implemented opcodes in ascending byte order.
func Opcodes() iter.Seq2[uint8, Opcode] {
	return func(yield func(opcode uint8, oc Opcode) bool) {
		for _, opcode := range slices.Sorted(maps.Keys(opcodeTable)) {
			if !yield(opcode, opcodeTable[opcode]) {
				return
			}
		}
	}
}

// Instruction is a fully decoded instruction. It is a value; once built by
// Decode it is never modified.
type Instruction struct {
	address   uint16
	opcode    uint8
	op        Op
	cycles    int
	length    int
	immediate uint16
	has_imm   bool
}

// Address returns the address of the opcode byte.
func (ins Instruction) Address() uint16 {
	return ins.address
}

// Opcode returns the opcode byte.
func (ins Instruction) Opcode() uint8 {
	return ins.opcode
}

// Op returns the decoded operation.
func (ins Instruction) Op() Op {
	return ins.op
}

// Cycles returns the clock cycle cost.
func (ins Instruction) Cycles() int {
	return ins.cycles
}

// Length returns the encoded length in bytes.
func (ins Instruction) Length() int {
	return ins.length
}

// Immediate16 returns the 16-bit immediate operand, if the instruction has
// one.
func (ins Instruction) Immediate16() (value uint16, ok bool) {
	return ins.immediate, ins.has_imm
}

// String returns the disassembly, as '<MNEMONIC> <OPERANDS> ;$<address>'.
func (ins Instruction) String() string {
	switch ins.op {
	case OP_LD_SP_D16, OP_LD_HL_D16:
		return fmt.Sprintf("%v, 0x%04x ;$0x%04x", ins.op, ins.immediate, ins.address)
	case OP_INVALID:
		return fmt.Sprintf("DB 0x%02x ;$0x%04x", ins.opcode, ins.address)
	}
	return fmt.Sprintf("%v ;$0x%04x", ins.op, ins.address)
}
