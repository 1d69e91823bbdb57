package cpu

// Reg8 is an 8-bit register.
type Reg8 int

//go:generate go tool stringer -linecomment -type=Reg8
const (
	REG_A = Reg8(0) // a
	REG_B = Reg8(1) // b
	REG_C = Reg8(2) // c
	REG_D = Reg8(3) // d
	REG_E = Reg8(4) // e
	REG_F = Reg8(5) // f
	REG_H = Reg8(6) // h
	REG_L = Reg8(7) // l
)

// Reg16 is a 16-bit register, or a pair of 8-bit registers.
type Reg16 int

//go:generate go tool stringer -linecomment -type=Reg16
const (
	REG_AF = Reg16(0) // af
	REG_BC = Reg16(1) // bc
	REG_DE = Reg16(2) // de
	REG_HL = Reg16(3) // hl
	REG_SP = Reg16(4) // sp
	REG_PC = Reg16(5) // pc
)

// Flag register bits.
const (
	FLAG_Z    = uint8(1 << 7) // Zero
	FLAG_N    = uint8(1 << 6) // Subtract
	FLAG_H    = uint8(1 << 5) // Half-carry
	FLAG_C    = uint8(1 << 4) // Carry
	FLAG_MASK = FLAG_Z | FLAG_N | FLAG_H | FLAG_C
)

// pairs holds the (high, low) halves of each register pair, indexed by
// Reg16. Indexing past REG_HL panics, as Read8 does for a bad Reg8.
var pairs = [...][2]Reg8{
	REG_AF: {REG_A, REG_F},
	REG_BC: {REG_B, REG_C},
	REG_DE: {REG_D, REG_E},
	REG_HL: {REG_H, REG_L},
}

// Registers is the register file.
type Registers struct {
	Reg [8]uint8 // 8-bit registers, indexed by Reg8.
	Sp  uint16   // Stack pointer.
	Pc  uint16   // Program counter.
}

// Read8 reads an 8-bit register.
func (r *Registers) Read8(reg Reg8) uint8 {
	return r.Reg[reg]
}

// Write8 writes an 8-bit register. The low nibble of F always reads as zero.
func (r *Registers) Write8(reg Reg8, value uint8) {
	if reg == REG_F {
		value &= FLAG_MASK
	}
	r.Reg[reg] = value
}

// Read16 reads a 16-bit register or register pair, high byte first.
func (r *Registers) Read16(reg Reg16) uint16 {
	switch reg {
	case REG_SP:
		return r.Sp
	case REG_PC:
		return r.Pc
	}

	pair := pairs[reg]
	return (uint16(r.Read8(pair[0])) << 8) | uint16(r.Read8(pair[1]))
}

// Write16 writes a 16-bit register or register pair, high byte first.
func (r *Registers) Write16(reg Reg16, value uint16) {
	switch reg {
	case REG_SP:
		r.Sp = value
		return
	case REG_PC:
		r.Pc = value
		return
	}

	pair := pairs[reg]
	r.Write8(pair[0], uint8(value>>8))
	r.Write8(pair[1], uint8(value&0xff))
}

// Flag returns true if all of the flag bits are set.
func (r *Registers) Flag(flag uint8) bool {
	return (r.Reg[REG_F] & flag) == flag
}

// Reset clears all registers.
func (r *Registers) Reset() {
	*r = Registers{}
}
