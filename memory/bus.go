package memory

import (
	"log"
)

// Bus routes every memory access to the Store backing the addressed region.
type Bus struct {
	Verbose   bool       // Set to enable verbose logging.
	Bootstrap *Bootstrap // Boot image, if any.

	store [REGION_COUNT]Store // Backing store per region.
}

// NewBus creates a bus with the bootstrap attached. A nil bootstrap leaves
// cartridge bank zero visible from reset.
func NewBus(boot *Bootstrap) (bus *Bus) {
	bus = &Bus{
		Bootstrap: boot,
	}

	if boot != nil {
		bus.store[REGION_BOOTSTRAP] = boot
	}

	return
}

// Attach sets the backing store for a region. A nil store detaches it.
func (bus *Bus) Attach(region Region, store Store) {
	if bus.Verbose {
		log.Printf("bus: attach %v", region)
	}
	bus.store[region] = store
}

// BootMapped returns true while the bootstrap overlays cartridge bank zero.
func (bus *Bus) BootMapped() bool {
	return bus.Bootstrap != nil && bus.Bootstrap.Mapped()
}

// UnmapBootstrap exposes cartridge bank zero in place of the boot image.
func (bus *Bus) UnmapBootstrap() {
	if bus.Bootstrap == nil {
		return
	}

	if bus.Verbose {
		log.Printf("bus: bootstrap unmapped")
	}

	bus.Bootstrap.Unmap()
}

// Resolve classifies an address against the current bootstrap mapping.
func (bus *Bus) Resolve(address uint16) (addr Address, err error) {
	return Classify(address, bus.BootMapped())
}

// lookup finds the store owning an address.
func (bus *Bus) lookup(address uint16) (addr Address, store Store, err error) {
	addr, err = bus.Resolve(address)
	if err != nil {
		return
	}

	store = bus.store[addr.Region]
	if store == nil {
		err = ErrUnimplementedRegion(addr.Region)
		return
	}

	return
}

// Read reads a byte.
func (bus *Bus) Read(address uint16) (value uint8, err error) {
	addr, store, err := bus.lookup(address)
	if err != nil {
		return
	}

	value, err = store.ReadAt(addr.Offset)
	if err != nil {
		return
	}

	if bus.Verbose {
		log.Printf("bus: read 0x%04x (%v) = 0x%02x", address, addr, value)
	}

	return
}

// Read16 reads a little-endian word. The high byte address wraps at 0xffff.
func (bus *Bus) Read16(address uint16) (value uint16, err error) {
	lo, err := bus.Read(address)
	if err != nil {
		return
	}

	hi, err := bus.Read(address + 1)
	if err != nil {
		return
	}

	value = uint16(lo) | (uint16(hi) << 8)
	return
}

// Write writes a byte. Writes to ROM regions are rejected before any store
// is consulted.
func (bus *Bus) Write(address uint16, value uint8) (err error) {
	addr, err := bus.Resolve(address)
	if err != nil {
		return
	}

	if addr.Region.ReadOnly() {
		err = ErrReadOnlyRegion(addr.Region)
		return
	}

	store := bus.store[addr.Region]
	if store == nil {
		err = ErrUnimplementedRegion(addr.Region)
		return
	}

	if bus.Verbose {
		log.Printf("bus: write 0x%04x (%v) = 0x%02x", address, addr, value)
	}

	return store.WriteAt(addr.Offset, value)
}
