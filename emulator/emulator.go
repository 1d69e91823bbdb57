// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/dmg/cpu"
	"github.com/ezrec/dmg/internal"
	"github.com/ezrec/dmg/memory"
)

var _emulator_defines = map[string]string{
	"BOOTSTRAP_SIZE": fmt.Sprintf("%v", memory.BOOTSTRAP_SIZE),
}

// Emulator state. CPU + memory bus.
type Emulator struct {
	Verbose  bool        // If set, enables verbose logging.
	*cpu.Cpu             // Reference to the CPU simulation.
	Bus      *memory.Bus // Reference to the memory bus.

	Trace io.Writer // If set, each instruction's disassembly is written here before it executes.
}

// NewEmulator creates a new emulator, booting from the bootstrap.
func NewEmulator(boot *memory.Bootstrap) (emu *Emulator) {
	bus := memory.NewBus(boot)

	emu = &Emulator{
		Cpu: cpu.NewCpu(bus),
		Bus: bus,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		memory.Defines(),
	)
}

// Reset the emulator state.
func (emu *Emulator) Reset() {
	emu.Bus.Verbose = emu.Verbose
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()
}

// Ticks returns the total clock cycles since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint16 {
	return emu.Cpu.Pc
}

// Tick performs a single fetch, decode, execute cycle.
// PC is left at the opcode if the instruction cannot be fetched or decoded.
func (emu *Emulator) Tick() (ins cpu.Instruction, err error) {
	emu.Bus.Verbose = emu.Verbose
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, Ticks: emu.Cpu.Ticks, Err: err}
		}
	}()

	opcode, err := emu.Cpu.Fetch()
	if err != nil {
		return
	}

	ins, err = emu.Cpu.Decode(opcode, pc)
	if err != nil {
		emu.Cpu.Pc = pc
		return
	}

	if emu.Trace != nil {
		_, err = fmt.Fprintln(emu.Trace, ins.String())
		if err != nil {
			return
		}
	}

	err = emu.Cpu.Execute(ins)

	return
}

// Run ticks until an error occurs, or limit instructions have executed.
// A limit of zero runs until an error occurs.
func (emu *Emulator) Run(limit int) (count int, err error) {
	for limit == 0 || count < limit {
		_, err = emu.Tick()
		if err != nil {
			return
		}
		count++
	}

	return
}
