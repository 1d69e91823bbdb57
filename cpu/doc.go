// Package cpu implements the DMG CPU and a small assembler for it.
//
// The CPU has eight 8-bit registers (a, b, c, d, e, f, h, l), usable as the
// 16-bit pairs af, bc, de and hl, plus a 16-bit stack pointer and program
// counter. Every instruction is read through a memory.Bus in three steps:
// Fetch reads the opcode byte at the program counter, Decode fetches the
// operand bytes and builds an Instruction, and Execute applies it.
//
// Only the instructions used by the first steps of the DMG boot image are
// implemented. Any other opcode fails to decode with ErrUnimplementedOpcode.
//
// The assembler accepts the implemented instruction set, and supports
// labels, macros, equates, and compile-time expression evaluation.
package cpu
