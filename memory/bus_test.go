package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_ReadBootstrap(t *testing.T) {
	assert := assert.New(t)

	boot, err := NewBootstrap(testImage())
	assert.NoError(err)

	bus := NewBus(boot)
	assert.True(bus.BootMapped())

	value, err := bus.Read(0x0000)
	assert.NoError(err)
	assert.Equal(uint8(0xa5), value)

	word, err := bus.Read16(0x00fe)
	assert.NoError(err)
	assert.Equal(uint16(0xfe^0xa5)|(uint16(0xff^0xa5)<<8), word)

	_, err = bus.Read(0x0100)
	assert.Equal(ErrInvalidBootstrapAccess(0x0100), err)
}

func TestBus_Unimplemented(t *testing.T) {
	assert := assert.New(t)

	boot, err := NewBootstrap(testImage())
	assert.NoError(err)
	bus := NewBus(boot)

	table := [](struct {
		address uint16
		region  Region
	}){
		{0x4000, REGION_CART_BANK_SWITCHABLE},
		{0x8000, REGION_VRAM},
		{0xa000, REGION_CART_RAM},
		{0xc000, REGION_WORK_RAM},
		{0xd000, REGION_WORK_RAM_2},
		{0xe000, REGION_ECHO_RAM},
		{0xfe00, REGION_OAM},
		{0xfea0, REGION_PROHIBITED},
		{0xff00, REGION_IO},
		{0xff80, REGION_HIRAM},
		{0xffff, REGION_IE},
	}

	for _, entry := range table {
		_, err := bus.Read(entry.address)
		var unimpl ErrUnimplementedRegion
		assert.True(errors.As(err, &unimpl), "0x%04x", entry.address)
		assert.Equal(entry.region, Region(unimpl))
	}

	// Without a bootstrap, bank zero is visible but has no store yet.
	bus = NewBus(nil)
	assert.False(bus.BootMapped())
	_, err = bus.Read(0x0000)
	assert.Equal(ErrUnimplementedRegion(REGION_CART_BANK_ZERO), err)
}

func TestBus_WriteReadOnly(t *testing.T) {
	assert := assert.New(t)

	boot, err := NewBootstrap(testImage())
	assert.NoError(err)
	bus := NewBus(boot)

	err = bus.Write(0x0000, 0x12)
	assert.Equal(ErrReadOnlyRegion(REGION_BOOTSTRAP), err)

	err = bus.Write(0x4000, 0x12)
	assert.True(errors.Is(err, ErrReadOnlyRegion(0)))

	// ROM stays read-only even with a store attached.
	bus.Attach(REGION_CART_BANK_SWITCHABLE, NewRam(REGION_CART_BANK_SWITCHABLE))
	err = bus.Write(0x4000, 0x12)
	assert.Equal(ErrReadOnlyRegion(REGION_CART_BANK_SWITCHABLE), err)

	bus.UnmapBootstrap()
	err = bus.Write(0x0000, 0x12)
	assert.Equal(ErrReadOnlyRegion(REGION_CART_BANK_ZERO), err)

	err = bus.Write(0xc000, 0x12)
	assert.Equal(ErrUnimplementedRegion(REGION_WORK_RAM), err)
}

func TestBus_Attach(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus(nil)
	wram := NewRam(REGION_WORK_RAM)
	bus.Attach(REGION_WORK_RAM, wram)

	assert.NoError(bus.Write(0xc123, 0x5a))
	assert.Equal(uint8(0x5a), wram.Data[0x123])

	value, err := bus.Read(0xc123)
	assert.NoError(err)
	assert.Equal(uint8(0x5a), value)

	bus.Attach(REGION_WORK_RAM, nil)
	_, err = bus.Read(0xc123)
	assert.Equal(ErrUnimplementedRegion(REGION_WORK_RAM), err)
}

func TestBus_Unmap(t *testing.T) {
	assert := assert.New(t)

	boot, err := NewBootstrap(testImage())
	assert.NoError(err)
	bus := NewBus(boot)

	bank0 := NewRam(REGION_CART_BANK_ZERO)
	bank0.Data[0x0000] = 0x77
	bank0.Data[0x0100] = 0x88
	bus.Attach(REGION_CART_BANK_ZERO, bank0)

	value, err := bus.Read(0x0000)
	assert.NoError(err)
	assert.Equal(uint8(0xa5), value)

	bus.UnmapBootstrap()
	assert.False(bus.BootMapped())

	value, err = bus.Read(0x0000)
	assert.NoError(err)
	assert.Equal(uint8(0x77), value)

	value, err = bus.Read(0x0100)
	assert.NoError(err)
	assert.Equal(uint8(0x88), value)
}
