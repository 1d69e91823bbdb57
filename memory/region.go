package memory

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/ezrec/dmg/internal"
)

// Region is a named partition of the address space.
type Region int

//go:generate go tool stringer -linecomment -type=Region
const (
	REGION_BOOTSTRAP            = Region(0)  // bootstrap
	REGION_CART_BANK_ZERO       = Region(1)  // cart0
	REGION_CART_BANK_SWITCHABLE = Region(2)  // cartN
	REGION_VRAM                 = Region(3)  // vram
	REGION_CART_RAM             = Region(4)  // cartram
	REGION_WORK_RAM             = Region(5)  // wram0
	REGION_WORK_RAM_2           = Region(6)  // wram1
	REGION_ECHO_RAM             = Region(7)  // echo
	REGION_OAM                  = Region(8)  // oam
	REGION_PROHIBITED           = Region(9)  // prohibited
	REGION_IO                   = Region(10) // io
	REGION_HIRAM                = Region(11) // hiram
	REGION_IE                   = Region(12) // ie
)

// REGION_COUNT is the number of distinct regions.
const REGION_COUNT = int(REGION_IE) + 1

// The origin and memtop (inclusive) of each region.
const (
	ORIGIN_BOOTSTRAP            = uint16(0x0000)
	MEMTOP_BOOTSTRAP            = uint16(0x00ff)
	ORIGIN_CART_BANK_ZERO       = uint16(0x0000)
	MEMTOP_CART_BANK_ZERO       = uint16(0x3fff)
	ORIGIN_CART_BANK_SWITCHABLE = uint16(0x4000)
	MEMTOP_CART_BANK_SWITCHABLE = uint16(0x7fff)
	ORIGIN_VRAM                 = uint16(0x8000)
	MEMTOP_VRAM                 = uint16(0x9fff)
	ORIGIN_CART_RAM             = uint16(0xa000)
	MEMTOP_CART_RAM             = uint16(0xbfff)
	ORIGIN_WORK_RAM             = uint16(0xc000)
	MEMTOP_WORK_RAM             = uint16(0xcfff)
	ORIGIN_WORK_RAM_2           = uint16(0xd000)
	MEMTOP_WORK_RAM_2           = uint16(0xdfff)
	ORIGIN_ECHO_RAM             = uint16(0xe000)
	MEMTOP_ECHO_RAM             = uint16(0xfdff)
	ORIGIN_OAM                  = uint16(0xfe00)
	MEMTOP_OAM                  = uint16(0xfe9f)
	ORIGIN_PROHIBITED           = uint16(0xfea0)
	MEMTOP_PROHIBITED           = uint16(0xfeff)
	ORIGIN_IO                   = uint16(0xff00)
	MEMTOP_IO                   = uint16(0xff7f)
	ORIGIN_HIRAM                = uint16(0xff80)
	MEMTOP_HIRAM                = uint16(0xfffe)
	ORIGIN_IE                   = uint16(0xffff)
	MEMTOP_IE                   = uint16(0xffff)
)

// Span is a contiguous, inclusive range of the address space owned by a
// single region.
type Span struct {
	Region Region
	Origin uint16
	Memtop uint16
}

// Contains returns true if the address is inside the span.
func (s Span) Contains(address uint16) bool {
	return address >= s.Origin && address <= s.Memtop
}

// Size returns the number of addresses covered by the span.
func (s Span) Size() int {
	return int(s.Memtop) - int(s.Origin) + 1
}

// memoryMap is ordered by origin and covers 0x0000-0xffff without gaps when
// the bootstrap is not mapped.
var memoryMap = [...]Span{
	{REGION_CART_BANK_ZERO, ORIGIN_CART_BANK_ZERO, MEMTOP_CART_BANK_ZERO},
	{REGION_CART_BANK_SWITCHABLE, ORIGIN_CART_BANK_SWITCHABLE, MEMTOP_CART_BANK_SWITCHABLE},
	{REGION_VRAM, ORIGIN_VRAM, MEMTOP_VRAM},
	{REGION_CART_RAM, ORIGIN_CART_RAM, MEMTOP_CART_RAM},
	{REGION_WORK_RAM, ORIGIN_WORK_RAM, MEMTOP_WORK_RAM},
	{REGION_WORK_RAM_2, ORIGIN_WORK_RAM_2, MEMTOP_WORK_RAM_2},
	{REGION_ECHO_RAM, ORIGIN_ECHO_RAM, MEMTOP_ECHO_RAM},
	{REGION_OAM, ORIGIN_OAM, MEMTOP_OAM},
	{REGION_PROHIBITED, ORIGIN_PROHIBITED, MEMTOP_PROHIBITED},
	{REGION_IO, ORIGIN_IO, MEMTOP_IO},
	{REGION_HIRAM, ORIGIN_HIRAM, MEMTOP_HIRAM},
	{REGION_IE, ORIGIN_IE, MEMTOP_IE},
}

// bootstrapSpan overlays the start of cartridge bank zero while mapped.
var bootstrapSpan = Span{REGION_BOOTSTRAP, ORIGIN_BOOTSTRAP, MEMTOP_BOOTSTRAP}

// Spans returns the memory map in address order, followed by the bootstrap
// overlay.
func Spans() iter.Seq[Span] {
	return internal.IterSeqConcat(slices.Values(memoryMap[:]), slices.Values([]Span{bootstrapSpan}))
}

// Span returns the address range owned by the region.
func (r Region) Span() (span Span) {
	if r == REGION_BOOTSTRAP {
		return bootstrapSpan
	}

	for _, span = range memoryMap {
		if span.Region == r {
			return
		}
	}

	return Span{Region: r}
}

// Size returns the number of bytes in the region.
func (r Region) Size() int {
	return r.Span().Size()
}

// ReadOnly returns true for the regions backed by ROM.
func (r Region) ReadOnly() bool {
	switch r {
	case REGION_BOOTSTRAP, REGION_CART_BANK_ZERO, REGION_CART_BANK_SWITCHABLE:
		return true
	}
	return false
}

// Address is a raw address together with its classification.
// Only Classify creates an Address, so the raw value and the region always
// agree.
type Address struct {
	Raw    uint16 // Raw 16-bit address.
	Region Region // Region owning the address.
	Offset uint16 // Offset from the region origin.
}

// String returns the address as 'region+offset'.
func (a Address) String() string {
	if a.Region == REGION_IE {
		return a.Region.String()
	}
	return fmt.Sprintf("%v+0x%04x", a.Region, a.Offset)
}

// Classify maps an address to the region that owns it.
//
// While the bootstrap is mapped, only 0x0000-0x00ff of cartridge bank zero
// is reachable; any other bank zero address fails with
// ErrInvalidBootstrapAccess.
func Classify(address uint16, bootMapped bool) (addr Address, err error) {
	span := memoryMap[spanIndex(address)]

	if bootMapped && span.Region == REGION_CART_BANK_ZERO {
		if !bootstrapSpan.Contains(address) {
			err = ErrInvalidBootstrapAccess(address)
			return
		}
		span = bootstrapSpan
	}

	addr = Address{
		Raw:    address,
		Region: span.Region,
		Offset: address - span.Origin,
	}

	return
}

// spanIndex finds the memoryMap entry for the address.
func spanIndex(address uint16) int {
	lo, hi := 0, len(memoryMap)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if memoryMap[mid].Origin <= address {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

var _memory_defines = func() map[string]string {
	defines := make(map[string]string, 2*REGION_COUNT)
	for span := range Spans() {
		name := defineName[span.Region]
		defines["ORIGIN_"+name] = fmt.Sprintf("0x%04x", span.Origin)
		defines["MEMTOP_"+name] = fmt.Sprintf("0x%04x", span.Memtop)
	}
	return defines
}()

var defineName = [REGION_COUNT]string{
	REGION_BOOTSTRAP:            "BOOTSTRAP",
	REGION_CART_BANK_ZERO:       "CART_BANK_ZERO",
	REGION_CART_BANK_SWITCHABLE: "CART_BANK_SWITCHABLE",
	REGION_VRAM:                 "VRAM",
	REGION_CART_RAM:             "CART_RAM",
	REGION_WORK_RAM:             "WORK_RAM",
	REGION_WORK_RAM_2:           "WORK_RAM_2",
	REGION_ECHO_RAM:             "ECHO_RAM",
	REGION_OAM:                  "OAM",
	REGION_PROHIBITED:           "PROHIBITED",
	REGION_IO:                   "IO",
	REGION_HIRAM:                "HIRAM",
	REGION_IE:                   "IE",
}

// Defines for the memory map.
func Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}
