package cpu

import (
	"iter"
)

// Statement is a line of assembled code with its source location and
// generated bytes.
type Statement struct {
	LineNo    int
	Address   int
	Words     []string
	Bytes     []uint8
	LinkLabel string
}

// Program is an assembled program.
type Program struct {
	Statements []Statement
}

// Debug locates the statement that generated the byte at an address.
type Debug struct {
	*Statement
	Index int
}

func (prog *Program) Debug(address uint16) (dbg Debug) {
	for n, st := range prog.Statements {
		if int(address) >= st.Address && int(address) < st.Address+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(address) - st.Address,
			}
			break
		}
	}

	return
}

// Bytes iterates over every assembled byte and its address.
func (prog *Program) Bytes() iter.Seq2[int, uint8] {
	return func(yield func(address int, value uint8) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(st.Address+n, value) {
					return
				}
			}
		}
	}
}

// Size returns the address just past the last assembled byte.
func (prog *Program) Size() (size int) {
	for _, st := range prog.Statements {
		size = max(size, st.Address+len(st.Bytes))
	}
	return
}

// Binary returns the program as a flat image starting at address 0.
// Gaps left by .org are zero filled.
func (prog *Program) Binary() (bins []uint8) {
	bins = make([]uint8, prog.Size())
	for address, value := range prog.Bytes() {
		bins[address] = value
	}

	return
}

// Image returns the program zero padded to exactly size bytes.
func (prog *Program) Image(size int) (image []uint8, err error) {
	if prog.Size() > size {
		err = ErrImageOverflow
		return
	}

	image = make([]uint8, size)
	copy(image, prog.Binary())

	return
}
