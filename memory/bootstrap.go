package memory

import (
	"io"
)

const (
	BOOTSTRAP_SIZE = 256 // Size of the DMG boot image.
)

// Bootstrap is the read-only boot image, mapped over the start of cartridge
// bank zero at reset.
type Bootstrap struct {
	Data [BOOTSTRAP_SIZE]uint8

	unmapped bool
}

var _ Store = (*Bootstrap)(nil)

// NewBootstrap creates a mapped bootstrap from an image.
func NewBootstrap(image []uint8) (boot *Bootstrap, err error) {
	if len(image) != BOOTSTRAP_SIZE {
		err = ErrBootstrapSize{Expected: BOOTSTRAP_SIZE, Actual: len(image)}
		return
	}

	boot = &Bootstrap{}
	copy(boot.Data[:], image)

	return
}

// LoadBootstrap reads a boot image from a reader.
func LoadBootstrap(in io.Reader) (boot *Bootstrap, err error) {
	// Read one byte past the end, to detect oversized images.
	image, err := io.ReadAll(io.LimitReader(in, BOOTSTRAP_SIZE+1))
	if err != nil {
		return
	}

	return NewBootstrap(image)
}

// Mapped returns true if the bootstrap overlays cartridge bank zero.
func (boot *Bootstrap) Mapped() bool {
	return !boot.unmapped
}

// Unmap removes the bootstrap from the address space. There is no way to
// map it again, short of creating a new Bootstrap.
func (boot *Bootstrap) Unmap() {
	boot.unmapped = true
}

// Read8 reads a byte from the boot image.
func (boot *Bootstrap) Read8(offset uint16) (value uint8, err error) {
	if boot.unmapped {
		err = ErrNotMapped
		return
	}

	if int(offset) >= BOOTSTRAP_SIZE {
		err = ErrInvalidBootstrapAccess(ORIGIN_BOOTSTRAP + offset)
		return
	}

	value = boot.Data[offset]
	return
}

// Read16 reads a little-endian word from the boot image.
func (boot *Bootstrap) Read16(offset uint16) (value uint16, err error) {
	lo, err := boot.Read8(offset)
	if err != nil {
		return
	}

	hi, err := boot.Read8(offset + 1)
	if err != nil {
		return
	}

	value = uint16(lo) | (uint16(hi) << 8)
	return
}

// ReadAt implements Store.
func (boot *Bootstrap) ReadAt(offset uint16) (value uint8, err error) {
	return boot.Read8(offset)
}

// WriteAt implements Store. The boot image is never writable.
func (boot *Bootstrap) WriteAt(offset uint16, value uint8) (err error) {
	return ErrReadOnlyRegion(REGION_BOOTSTRAP)
}
