package memory

// Store is the backing storage of a single region. Offsets are relative to
// the region origin.
type Store interface {
	// ReadAt reads the byte at offset.
	ReadAt(offset uint16) (value uint8, err error)
	// WriteAt writes the byte at offset.
	WriteAt(offset uint16, value uint8) (err error)
}

// Ram is plain read/write storage.
type Ram struct {
	Data []uint8
}

var _ Store = (*Ram)(nil)

// NewRam creates zeroed storage sized to cover a region.
func NewRam(region Region) *Ram {
	return &Ram{
		Data: make([]uint8, region.Size()),
	}
}

func (ram *Ram) ReadAt(offset uint16) (value uint8, err error) {
	if int(offset) >= len(ram.Data) {
		err = ErrOffsetRange(offset)
		return
	}

	value = ram.Data[offset]
	return
}

func (ram *Ram) WriteAt(offset uint16, value uint8) (err error) {
	if int(offset) >= len(ram.Data) {
		err = ErrOffsetRange(offset)
		return
	}

	ram.Data[offset] = value
	return
}

// Reset zeroes the storage.
func (ram *Ram) Reset() {
	clear(ram.Data)
}
