// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/dmg/memory"
)

var _cpu_defines = map[string]string{
	"FLAG_Z": fmt.Sprintf("0x%02x", FLAG_Z),
	"FLAG_N": fmt.Sprintf("0x%02x", FLAG_N),
	"FLAG_H": fmt.Sprintf("0x%02x", FLAG_H),
	"FLAG_C": fmt.Sprintf("0x%02x", FLAG_C),
}

// Cpu is the simulation context for the DMG CPU.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Bus *memory.Bus // Memory bus for all fetches, loads and stores.

	Registers // Register file.

	Ticks int // Clock cycles executed since reset.
}

// NewCpu creates a new CPU attached to a memory bus.
func NewCpu(bus *memory.Bus) (cpu *Cpu) {
	cpu = &Cpu{
		Bus: bus,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []Reg16{REG_AF, REG_BC, REG_DE, REG_HL, REG_SP, REG_PC}
	for _, reg := range regs {
		text += fmt.Sprintf("% 5s: %04X\n", reg.String(), cpu.Read16(reg))
	}

	flags := []byte("----")
	for n, flag := range []uint8{FLAG_Z, FLAG_N, FLAG_H, FLAG_C} {
		if cpu.Flag(flag) {
			flags[n] = "znhc"[n]
		}
	}
	text += fmt.Sprintf("% 5s: %s\n", "flags", flags)
	text += fmt.Sprintf("% 5s: %d\n", "ticks", cpu.Ticks)

	return
}

// Reset the CPU state.
// - Clears all registers, so execution restarts at 0x0000.
// - Zeros the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Ticks = 0
}

// Fetch reads the byte at PC, and advances PC.
// PC wraps from 0xffff to 0x0000. On error PC is left unchanged.
func (cpu *Cpu) Fetch() (value uint8, err error) {
	value, err = cpu.Bus.Read(cpu.Pc)
	if err != nil {
		return
	}

	cpu.Pc++

	return
}

// fetch16 fetches a little-endian immediate word.
func (cpu *Cpu) fetch16() (value uint16, err error) {
	lo, err := cpu.Fetch()
	if err != nil {
		return
	}

	hi, err := cpu.Fetch()
	if err != nil {
		return
	}

	value = uint16(lo) | (uint16(hi) << 8)
	return
}

// Decode builds the instruction for an opcode fetched from address,
// fetching any operand bytes that follow it. If an operand fetch fails, PC
// is restored to its value on entry.
func (cpu *Cpu) Decode(opcode uint8, address uint16) (ins Instruction, err error) {
	oc, ok := Lookup(opcode)
	if !ok {
		err = ErrUnimplementedOpcode{Opcode: opcode, Address: address}
		return
	}

	ins = Instruction{
		address: address,
		opcode:  opcode,
		op:      oc.Op,
		cycles:  oc.Cycles,
		length:  oc.Length,
	}

	switch oc.Operands() {
	case 0:
		// pass
	case 2:
		pc := cpu.Pc
		ins.immediate, err = cpu.fetch16()
		if err != nil {
			cpu.Pc = pc
			err = errors.Join(ErrOperandFetch, err)
			ins = Instruction{}
			return
		}
		ins.has_imm = true
	default:
		err = ErrOpInvalid
		ins = Instruction{}
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: decode %v", ins)
	}

	return
}

// Execute applies an instruction to the CPU state.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: execute %v", ins)
	}

	switch ins.op {
	case OP_LD_SP_D16:
		imm, ok := ins.Immediate16()
		if !ok {
			err = errors.Join(ErrOpInvalid, ErrImmediateMissing)
			return
		}
		cpu.Write16(REG_SP, imm)
	case OP_LD_HL_D16:
		imm, ok := ins.Immediate16()
		if !ok {
			err = errors.Join(ErrOpInvalid, ErrImmediateMissing)
			return
		}
		cpu.Write16(REG_HL, imm)
	case OP_XOR_A:
		result := cpu.Read8(REG_A) ^ cpu.Read8(REG_A)
		cpu.Write8(REG_A, result)
		cpu.setFlags(result)
	default:
		err = ErrOpInvalid
		return
	}

	cpu.Ticks += ins.cycles

	return
}

// setFlags recomputes F from an ALU result.
// Only Z is computed; N, H and C are cleared.
// TODO: compute N, H and C once arithmetic opcodes are implemented.
func (cpu *Cpu) setFlags(result uint8) {
	var flags uint8

	if result == 0 {
		flags |= FLAG_Z
	}

	cpu.Write8(REG_F, flags)
}

// Step performs a single fetch, decode, execute cycle.
// The decoded instruction is returned even if it fails to execute.
// If the instruction cannot be fetched or decoded, PC is left at its opcode
// so the step can be retried.
func (cpu *Cpu) Step() (ins Instruction, err error) {
	address := cpu.Pc

	opcode, err := cpu.Fetch()
	if err != nil {
		return
	}

	ins, err = cpu.Decode(opcode, address)
	if err != nil {
		cpu.Pc = address
		return
	}

	err = cpu.Execute(ins)

	return
}
