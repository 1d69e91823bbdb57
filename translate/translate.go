// Package translate formats diagnostic and error text for the user's locale.
//
// All keys are en-US fmt formats. The locale is taken from the environment
// at startup, and may be overridden with SetLocale.
package translate

import (
	"fmt"
	"io"
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// DEFAULT_LOCALE is used when the environment names no locale.
const DEFAULT_LOCALE = "en-US"

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("dmg: locale: %v", err)
	}

	SetLocale(locales...)
}

// SetLocale selects the best matching language for all later messages.
// With no names, DEFAULT_LOCALE is selected.
func SetLocale(names ...string) {
	if len(names) == 0 {
		names = []string{DEFAULT_LOCALE}
	}

	printer = message.NewPrinter(message.MatchLanguage(names...))
}

// From translates an en-US format, with its arguments, to a string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Fprintln writes a translated line to w.
func Fprintln(w io.Writer, key message.Reference, args ...any) (err error) {
	_, err = fmt.Fprintln(w, From(key, args...))
	return
}
