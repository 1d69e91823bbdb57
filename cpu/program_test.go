package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Statements: []Statement{
			{LineNo: 1, Address: 0, Words: []string{"LD", "SP", "0xfffe"},
				Bytes: []uint8{0x31, 0xfe, 0xff}},
			{LineNo: 2, Address: 3, Words: []string{"XOR", "A"},
				Bytes: []uint8{0xaf}},
			{LineNo: 4, Address: 8, Words: []string{".db", "1", "2"},
				Bytes: []uint8{0x01, 0x02}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Statement)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Statement)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(3)
	assert.NotNil(dbg.Statement)
	assert.Equal(2, dbg.LineNo)

	dbg = prog.Debug(9)
	assert.NotNil(dbg.Statement)
	assert.Equal(4, dbg.LineNo)
	assert.Equal(1, dbg.Index)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	for _, address := range []uint16{4, 7, 10, 0xffff} {
		dbg := prog.Debug(address)
		assert.Nil(dbg.Statement)
		assert.Equal(0, dbg.Index)
	}
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()
	assert.Equal(10, prog.Size())
	assert.Equal([]uint8{0x31, 0xfe, 0xff, 0xaf, 0, 0, 0, 0, 0x01, 0x02}, prog.Binary())

	count := 0
	for address, value := range prog.Bytes() {
		assert.Equal(prog.Binary()[address], value)
		count++
	}
	assert.Equal(6, count)
}

func TestProgram_Image(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	image, err := prog.Image(16)
	assert.NoError(err)
	assert.Equal(16, len(image))
	assert.Equal(uint8(0x02), image[9])
	assert.Equal(uint8(0), image[15])

	_, err = prog.Image(8)
	assert.Equal(ErrImageOverflow, err)

	empty := &Program{}
	image, err = empty.Image(4)
	assert.NoError(err)
	assert.Equal([]uint8{0, 0, 0, 0}, image)
}

func TestProgram_BinaryTop(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".org 0xfffe",
		".dw 0x1234",
	)

	bin := prog.Binary()
	assert.Equal(ADDRESS_SPACE, len(bin))
	assert.Equal(uint8(0), bin[0])
	assert.Equal(uint8(0x34), bin[0xfffe])
	assert.Equal(uint8(0x12), bin[0xffff])

	for address := range prog.Bytes() {
		assert.GreaterOrEqual(address, 0xfffe)
	}
}
