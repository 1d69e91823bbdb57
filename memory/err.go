package memory

import (
	"errors"

	"github.com/ezrec/dmg/translate"
)

var f = translate.From

var (
	// Bootstrap errors
	ErrNotMapped = errors.New(f("bootstrap not mapped"))
)

// ErrBootstrapSize is returned when a boot image is not exactly
// BOOTSTRAP_SIZE bytes.
type ErrBootstrapSize struct {
	Expected int
	Actual   int
}

func (err ErrBootstrapSize) Error() string {
	return f("bootstrap size invalid: expected %v bytes, got %v", err.Expected, err.Actual)
}

// ErrInvalidBootstrapAccess is an access to cartridge bank zero, outside of
// the bootstrap window, while the bootstrap is mapped.
type ErrInvalidBootstrapAccess uint16

func (err ErrInvalidBootstrapAccess) Error() string {
	return f("address 0x%04x outside of bootstrap while mapped", uint16(err))
}

// ErrUnimplementedRegion is an access to a region with no backing store.
type ErrUnimplementedRegion Region

func (err ErrUnimplementedRegion) Error() string {
	return f("region %v unimplemented", Region(err).String())
}

// ErrReadOnlyRegion is a write to a region backed by ROM.
type ErrReadOnlyRegion Region

func (err ErrReadOnlyRegion) Error() string {
	return f("region %v is read-only", Region(err).String())
}

// Is matches any ErrReadOnlyRegion.
func (err ErrReadOnlyRegion) Is(target error) (ok bool) {
	_, ok = target.(ErrReadOnlyRegion)
	return
}

// ErrOffsetRange is an offset past the end of a store.
type ErrOffsetRange uint16

func (err ErrOffsetRange) Error() string {
	return f("offset 0x%04x out of range", uint16(err))
}
