package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/dmg/memory"
)

// newTestCpu creates a CPU booting from an image holding program.
func newTestCpu(t *testing.T, program ...uint8) (cpu *Cpu) {
	image := make([]uint8, memory.BOOTSTRAP_SIZE)
	copy(image, program)

	boot, err := memory.NewBootstrap(image)
	if err != nil {
		t.Fatal(err)
	}

	cpu = NewCpu(memory.NewBus(boot))
	cpu.Reset()

	return
}

func TestCpu_Fetch(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0x31, 0xfe, 0xff)

	for n, expected := range []uint8{0x31, 0xfe, 0xff} {
		value, err := cpu.Fetch()
		assert.NoError(err)
		assert.Equal(expected, value)
		assert.Equal(uint16(n+1), cpu.Pc)
	}
	assert.Equal(uint16(0x0003), cpu.Pc)
}

func TestCpu_FetchWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)
	ie := memory.NewRam(memory.REGION_IE)
	ie.Data[0] = 0x1f
	cpu.Bus.Attach(memory.REGION_IE, ie)

	cpu.Pc = 0xffff
	value, err := cpu.Fetch()
	assert.NoError(err)
	assert.Equal(uint8(0x1f), value)
	assert.Equal(uint16(0x0000), cpu.Pc)
}

func TestCpu_FetchError(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)

	cpu.Pc = 0x0100
	_, err := cpu.Fetch()
	assert.Equal(memory.ErrInvalidBootstrapAccess(0x0100), err)
	assert.Equal(uint16(0x0100), cpu.Pc)

	cpu.Pc = 0x8000
	_, err = cpu.Fetch()
	assert.Equal(memory.ErrUnimplementedRegion(memory.REGION_VRAM), err)
	assert.Equal(uint16(0x8000), cpu.Pc)
}

func TestCpu_LdSp(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0x31, 0xfe, 0xff)

	opcode, err := cpu.Fetch()
	assert.NoError(err)

	ins, err := cpu.Decode(opcode, 0x0000)
	assert.NoError(err)
	assert.Equal(OP_LD_SP_D16, ins.Op())
	assert.Equal(uint8(0x31), ins.Opcode())
	assert.Equal(uint16(0x0000), ins.Address())
	assert.Equal(3, ins.Length())
	assert.Equal(12, ins.Cycles())
	imm, ok := ins.Immediate16()
	assert.True(ok)
	assert.Equal(uint16(0xfffe), imm)
	assert.Equal("LD SP, 0xfffe ;$0x0000", ins.String())

	// Decode consumed exactly the operand bytes.
	assert.Equal(uint16(ins.Length()), cpu.Pc)

	err = cpu.Execute(ins)
	assert.NoError(err)
	assert.Equal(uint16(0xfffe), cpu.Sp)
	assert.Equal(12, cpu.Ticks)
}

func TestCpu_XorA(t *testing.T) {
	assert := assert.New(t)

	for _, a := range []uint8{0x00, 0x01, 0x5a, 0xff} {
		cpu := newTestCpu(t, 0xaf)
		cpu.Write8(REG_A, a)
		cpu.Write8(REG_F, FLAG_N|FLAG_H|FLAG_C)

		ins, err := cpu.Step()
		assert.NoError(err)
		assert.Equal(OP_XOR_A, ins.Op())
		assert.Equal(1, ins.Length())
		assert.Equal(4, ins.Cycles())
		_, ok := ins.Immediate16()
		assert.False(ok)
		assert.Equal("XOR A ;$0x0000", ins.String())

		assert.Equal(uint8(0), cpu.Read8(REG_A))
		assert.Equal(FLAG_Z, cpu.Read8(REG_F)&FLAG_Z)
		assert.Equal(FLAG_Z, cpu.Read8(REG_F))
		assert.Equal(uint16(1), cpu.Pc)
	}
}

func TestCpu_LdHl(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0x21, 0x34, 0x12)

	ins, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(OP_LD_HL_D16, ins.Op())
	assert.Equal(3, ins.Length())
	assert.Equal(12, ins.Cycles())
	assert.Equal("LD HL, 0x1234 ;$0x0000", ins.String())

	assert.Equal(uint8(0x12), cpu.Read8(REG_H))
	assert.Equal(uint8(0x34), cpu.Read8(REG_L))
	assert.Equal(uint16(0x1234), cpu.Read16(REG_HL))
}

func TestCpu_Unimplemented(t *testing.T) {
	assert := assert.New(t)

	implemented := map[uint8]bool{}
	for opcode := range 0x100 {
		cpu := newTestCpu(t, uint8(opcode), 0x00, 0x00)
		cpu.Pc = 0x0010
		cpu.Bus.Bootstrap.Data[0x10] = uint8(opcode)

		_, err := cpu.Step()
		if err == nil {
			implemented[uint8(opcode)] = true
			continue
		}

		var unimpl ErrUnimplementedOpcode
		assert.True(errors.As(err, &unimpl), "0x%02x", opcode)
		assert.Equal(ErrUnimplementedOpcode{Opcode: uint8(opcode), Address: 0x0010}, unimpl)
	}

	assert.Equal(map[uint8]bool{0x21: true, 0x31: true, 0xaf: true}, implemented)
}

func TestCpu_DecodeOperandError(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)
	cpu.Bus.Bootstrap.Data[0xfe] = 0x31

	cpu.Pc = 0x00fe
	ins, err := cpu.Step()
	assert.True(errors.Is(err, ErrOperandFetch))
	var access memory.ErrInvalidBootstrapAccess
	assert.True(errors.As(err, &access))
	assert.Equal(memory.ErrInvalidBootstrapAccess(0x0100), access)
	assert.Equal(OP_INVALID, ins.Op())
	assert.Equal(uint16(0x00fe), cpu.Pc)

	// Decode alone gives back the operand bytes it consumed.
	cpu.Pc = 0x00ff
	_, err = cpu.Decode(0x31, 0x00fe)
	assert.True(errors.Is(err, ErrOperandFetch))
	assert.Equal(uint16(0x00ff), cpu.Pc)

	// Once the cause is gone, the same step succeeds.
	cart := memory.NewRam(memory.REGION_CART_BANK_ZERO)
	copy(cart.Data[0xfe:], []uint8{0x31, 0x34, 0x12})
	cpu.Bus.Attach(memory.REGION_CART_BANK_ZERO, cart)
	cpu.Bus.UnmapBootstrap()

	cpu.Pc = 0x00fe
	ins, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(OP_LD_SP_D16, ins.Op())
	assert.Equal(uint16(0x1234), cpu.Sp)
	assert.Equal(uint16(0x0101), cpu.Pc)
}

func TestCpu_ExecuteInvalid(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t)

	err := cpu.Execute(Instruction{})
	assert.True(errors.Is(err, ErrOpInvalid))

	err = cpu.Execute(Instruction{op: OP_LD_HL_D16, length: 3, cycles: 12})
	assert.True(errors.Is(err, ErrImmediateMissing))
	assert.Equal(0, cpu.Ticks)
}

func TestCpu_BootPrefix(t *testing.T) {
	assert := assert.New(t)

	// The first instructions of the DMG boot image.
	cpu := newTestCpu(t, 0x31, 0xfe, 0xff, 0xaf, 0x21, 0xff, 0x9f, 0x32)

	var listing []string
	for {
		ins, err := cpu.Step()
		if err != nil {
			assert.Equal(ErrUnimplementedOpcode{Opcode: 0x32, Address: 0x0007}, err)
			break
		}
		listing = append(listing, ins.String())
	}

	assert.Equal([]string{
		"LD SP, 0xfffe ;$0x0000",
		"XOR A ;$0x0003",
		"LD HL, 0x9fff ;$0x0004",
	}, listing)
	assert.Equal(uint16(0xfffe), cpu.Sp)
	assert.Equal(uint16(0x9fff), cpu.Read16(REG_HL))
	assert.True(cpu.Flag(FLAG_Z))
	assert.Equal(28, cpu.Ticks)
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0x31, 0xfe, 0xff)
	_, err := cpu.Step()
	assert.NoError(err)

	cpu.Reset()
	assert.Equal(Registers{}, cpu.Registers)
	assert.Equal(0, cpu.Ticks)
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0xaf)
	_, err := cpu.Step()
	assert.NoError(err)

	text := cpu.String()
	assert.Contains(text, "   af: 0080\n")
	assert.Contains(text, "   pc: 0001\n")
	assert.Contains(text, "flags: z---\n")
}

func TestOpcodes(t *testing.T) {
	assert := assert.New(t)

	var bytes []uint8
	for opcode, oc := range Opcodes() {
		bytes = append(bytes, opcode)
		encoded, ok := Encoding(oc.Op)
		assert.True(ok)
		assert.Equal(opcode, encoded)
	}
	assert.Equal([]uint8{0x21, 0x31, 0xaf}, bytes)

	_, ok := Lookup(0x00)
	assert.False(ok)

	_, ok = Encoding(OP_INVALID)
	assert.False(ok)
}
