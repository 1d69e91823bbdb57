// Package memory implements the DMG address space.
//
// The 16-bit address space is partitioned into a fixed set of regions
// (boot ROM, cartridge banks, video RAM, work RAM, I/O registers, and so
// on). Classify maps a raw address to its region and region-relative
// offset, and the Bus dispatches reads and writes to the Store that backs
// each region.
//
// While the bootstrap is mapped, the first 256 bytes of the address space
// are served by the boot image instead of cartridge bank zero.
package memory
