package emulator

import (
	"github.com/ezrec/dmg/translate"
)

var f = translate.From

// ErrRuntime locates a failed instruction cycle.
type ErrRuntime struct {
	Pc    uint16 // Address of the failing opcode.
	Ticks int    // Clock cycles completed before the failure.
	Err   error  // Underlying bus, decode or execute error.
}

func (err *ErrRuntime) Error() string {
	return f("$0x%04x (after %v cycles): %v", err.Pc, err.Ticks, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
