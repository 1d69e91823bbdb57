// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/dmg/memory"
)

// Macro is a recorded .macro body.
type Macro struct {
	LineNo int      // Line number of the first body line.
	Args   []string // Formal argument names.
	Lines  []string // Body text, comments removed.
}

// ADDRESS_SPACE is the number of addressable bytes.
const ADDRESS_SPACE = 0x10000

// sysEquate holds the symbols every program starts with.
var sysEquate = func() (equ map[string]string) {
	equ = map[string]string{
		"LINENO": "0",
	}
	maps.Insert(equ, memory.Defines())
	maps.Insert(equ, maps.All(_cpu_defines))
	return
}()

// Assembler is a single pass macro assembler for the DMG CPU.
//
// Source is line oriented; ';' starts a comment and operands are separated
// by spaces or commas. Supported directives are .equ, .org, .db, .dw and
// .macro/.endm. A 16-bit immediate may name a label defined anywhere in the
// source.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // Statements emitted by the last Parse.

	Label  map[string]int      // Label addresses.
	Equate map[string]string   // Equates in scope.
	Macro  map[string](*Macro) // Macro definitions.

	predefine  map[string]string
	here       int // Address of the next statement.
	expansions int // Macro expansions so far, for unique '@' labels.
}

// Predefine defines an equate for every later Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = make(map[string]string)
	}
	asm.predefine[equ] = value
}

// valueOf parses an integer word. A leading '~' inverts the low 16 bits.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	text, invert := strings.CutPrefix(word, "~")

	value, err = strconv.ParseInt(text, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = int64(^uint16(value))
	}

	return
}

// valueRange parses an integer word, which must be in [lo, hi].
func (asm *Assembler) valueRange(word string, lo, hi int64) (value int64, err error) {
	value, err = asm.valueOf(word)
	if err == nil && (value < lo || value > hi) {
		err = ErrValueRange
	}
	return
}

func (asm *Assembler) value16(word string) (value uint16, err error) {
	v64, err := asm.valueRange(word, -0x8000, 0xffff)
	value = uint16(v64)
	return
}

func (asm *Assembler) value8(word string) (value uint8, err error) {
	v64, err := asm.valueRange(word, -0x80, 0xff)
	value = uint8(v64)
	return
}

// symbols returns the integer equates and all labels as starlark values.
// Equates that are not integers are left out.
func (asm *Assembler) symbols() (env starlark.StringDict) {
	env = make(starlark.StringDict, len(asm.Equate)+len(asm.Label))
	for key, str := range asm.Equate {
		v64, err := asm.valueOf(str)
		if err != nil {
			continue
		}
		env[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		env[key] = starlark.MakeInt(addr)
	}
	return
}

// evaluate computes a $(...) expression at assembly time.
func (asm *Assembler) evaluate(expr string) (value int64, err error) {
	thread := &starlark.Thread{Name: "asm"}

	result, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, "expr", expr, asm.symbols())
	if err != nil {
		return
	}

	num, ok := result.(starlark.Int)
	if ok {
		value, ok = num.Int64()
	}
	if !ok {
		err = ErrParseExpression(expr)
	}

	return
}

var (
	reChar  = regexp.MustCompile(`'\\?[^']'`)
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
)

// charEscape maps the supported '\x' escapes to their byte.
var charEscape = map[string]uint8{
	`\\`: '\\',
	`\n`: '\n',
	`\r`: '\r',
	`\e`: 0x1b,
}

// charLiteral replaces a quoted character with its decimal value. Unknown
// escapes are left as-is, and fail later as numbers.
func charLiteral(quoted string) string {
	text := quoted[1 : len(quoted)-1]
	if len(text) == 1 {
		return strconv.Itoa(int(text[0]))
	}

	value, ok := charEscape[text]
	if !ok {
		return quoted
	}

	return strconv.Itoa(int(value))
}

// expand rewrites a line into words, evaluating character literals, $(...)
// expressions and equates.
func (asm *Assembler) expand(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = strconv.Itoa(lineno)

	line = reChar.ReplaceAllStringFunc(line, charLiteral)

	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, eval_err := asm.evaluate(str[2 : len(str)-1])
		if eval_err != nil && err == nil {
			err = eval_err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	for n, word := range words {
		if n == 1 && words[0] == ".equ" {
			// Never substitute the name being defined.
			continue
		}
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// parseLine handles one line of source outside of a macro definition.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	words, err := asm.expand(line, lineno)
	if err != nil || len(words) == 0 {
		return
	}

	if words[0] == ".equ" {
		return asm.defineEquate(words)
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		err = asm.defineLabel(strings.TrimSuffix(words[0], ":"))
		if err != nil {
			return
		}
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	macro, ok := asm.Macro[words[0]]
	if ok {
		return asm.invoke(words[0], macro, words[1:])
	}

	return asm.parseWords(words, lineno)
}

// defineEquate handles '.equ NAME VALUE'.
func (asm *Assembler) defineEquate(words []string) (err error) {
	if len(words) != 3 {
		return ErrEquateSyntax
	}

	_, ok := asm.Equate[words[1]]
	if ok {
		return ErrEquateDuplicate
	}

	asm.Equate[words[1]] = words[2]
	return
}

// defineLabel binds a label to the current address.
func (asm *Assembler) defineLabel(label string) (err error) {
	_, ok := asm.Label[label]
	if ok {
		return ErrLabelDuplicate
	}

	if asm.Label == nil {
		asm.Label = make(map[string]int)
	}
	asm.Label[label] = asm.here

	return
}

// invoke expands a macro. The formal arguments are equates for the
// duration of the expansion, and '@' in the body becomes a prefix unique to
// this expansion.
func (asm *Assembler) invoke(name string, macro *Macro, args []string) (err error) {
	if len(args) != len(macro.Args) {
		return ErrMacroSyntax
	}

	saved := maps.Clone(asm.Equate)
	defer func() { asm.Equate = saved }()

	for n, arg := range macro.Args {
		asm.Equate[arg] = args[n]
	}

	asm.expansions++
	local := fmt.Sprintf("%v_%v_", name, asm.expansions)

	for n, body := range macro.Lines {
		lineno := macro.LineNo + n
		line := strings.ReplaceAll(body, "@", local)

		err = asm.parseLine(line, lineno)
		if err != nil {
			err = &ErrMacro{Macro: name, Line: lineno, Err: err}
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
	}

	return
}

// reset clears the state left by a previous Parse.
func (asm *Assembler) reset() {
	asm.Statement = asm.Statement[:0]
	asm.here = 0
	asm.expansions = 0

	clear(asm.Label)
	asm.Macro = make(map[string](*Macro))

	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, asm.predefine)
}

// link patches each label reference into the last two bytes of its
// statement.
func (asm *Assembler) link() (err error) {
	for n := range asm.Statement {
		st := &asm.Statement[n]
		if len(st.LinkLabel) == 0 {
			continue
		}

		address, ok := asm.Label[st.LinkLabel]
		if !ok {
			err = ErrLabelMissing(st.LinkLabel)
		} else if len(st.Bytes) < 3 {
			err = ErrOpcodeValueMissing
		}
		if err != nil {
			return &ErrSyntax{LineNo: st.LineNo, Line: strings.Join(st.Words, " "), Err: err}
		}

		st.Bytes[len(st.Bytes)-2] = uint8(address & 0xff)
		st.Bytes[len(st.Bytes)-1] = uint8(address >> 8)
	}

	return
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	asm.reset()

	for scanner.Scan() {
		lineno++
		text := scanner.Text()

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)

		var directive string
		words := strings.Fields(line)
		if len(words) > 0 {
			directive = words[0]
		}

		switch {
		case directive == ".macro":
			if macro != nil {
				err = ErrMacroNesting
				break
			}
			macro, err = asm.record(words[1:], lineno)
		case directive == ".endm":
			if macro == nil {
				err = ErrMacroLonelyEndm
			}
			macro = nil
		case macro != nil:
			macro.Lines = append(macro.Lines, line)
		default:
			err = asm.parseLine(line, lineno)
		}

		if err != nil {
			_, nested := err.(*ErrSyntax)
			if !nested {
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			}
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = &ErrSyntax{LineNo: macro.LineNo - 1, Line: ".macro", Err: ErrMacroLonely}
		return
	}

	err = asm.link()
	if err != nil {
		return
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// record starts a macro definition from the words after '.macro'.
func (asm *Assembler) record(words []string, lineno int) (macro *Macro, err error) {
	if len(words) == 0 {
		err = ErrMacroSyntax
		return
	}

	_, ok := asm.Macro[words[0]]
	if ok {
		err = ErrMacroDuplicate
		return
	}

	macro = &Macro{
		LineNo: lineno + 1,
		Args:   words[1:],
	}
	asm.Macro[words[0]] = macro

	return
}

// ld16 maps the 16-bit load targets to their operations.
var ld16 = map[string]Op{
	"sp": OP_LD_SP_D16,
	"hl": OP_LD_HL_D16,
}

// encode assembles an operation and its immediate.
func encode(op Op, imm uint16) (bytes []uint8) {
	opcode, ok := Encoding(op)
	if !ok {
		return
	}

	bytes = []uint8{opcode}

	oc, _ := Lookup(opcode)
	if oc.Operands() == 2 {
		bytes = append(bytes, uint8(imm&0xff), uint8(imm>>8))
	}

	return
}

// operands checks that a mnemonic has between lo and hi operands.
func operands(words []string, lo, hi int) (err error) {
	switch count := len(words) - 1; {
	case count < lo:
		err = ErrOpcodeValueMissing
	case count > hi:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords emits the statement for a directive or instruction.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var bytes []uint8
	var label string

	switch strings.ToLower(words[0]) {
	case ".org":
		err = operands(words, 1, 1)
		if err != nil {
			return
		}
		var org uint16
		org, err = asm.value16(words[1])
		if err != nil {
			return
		}
		if int(org) < asm.here {
			return ErrOrgBackwards
		}
		asm.here = int(org)
		return
	case ".db":
		err = operands(words, 1, len(words))
		for _, word := range words[1:] {
			if err != nil {
				return
			}
			var value uint8
			value, err = asm.value8(word)
			bytes = append(bytes, value)
		}
	case ".dw":
		err = operands(words, 1, len(words))
		for _, word := range words[1:] {
			if err != nil {
				return
			}
			var value uint16
			value, err = asm.value16(word)
			bytes = append(bytes, uint8(value&0xff), uint8(value>>8))
		}
	case "ld":
		err = operands(words, 2, 2)
		if err != nil {
			return
		}
		op, ok := ld16[strings.ToLower(words[1])]
		if !ok {
			return ErrRegisterInvalid
		}
		var imm uint16
		imm, err = asm.value16(words[2])
		if err != nil && reLabel.MatchString(words[2]) {
			// Patched by link() once every label is known.
			err = nil
			label = words[2]
		}
		bytes = encode(op, imm)
	case "xor":
		err = operands(words, 1, 1)
		if err != nil {
			return
		}
		if strings.ToLower(words[1]) != "a" {
			return ErrRegisterInvalid
		}
		bytes = encode(OP_XOR_A, 0)
	default:
		err = ErrInstructionInvalid
	}

	if err != nil {
		return
	}

	if asm.here+len(bytes) > ADDRESS_SPACE {
		return ErrImageOverflow
	}

	asm.Statement = append(asm.Statement, Statement{
		LineNo:    lineno,
		Address:   asm.here,
		Words:     words,
		Bytes:     bytes,
		LinkLabel: label,
	})
	asm.here += len(bytes)

	return
}
