// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the LS-8 system.
type Assembler struct {
	Verbose    bool        // If set, verbosely logs the assembler actions.
	Statements []Statement // List of generated statements.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the byte value of a simple word.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	if len(word) == 3 && word[0] == '\'' && word[2] == '\'' {
		value = word[1]
		return
	}

	v64, err := strconv.ParseInt(word, 0, 16)
	if err != nil || v64 < -128 || v64 > 0xff {
		err = ErrParseNumber(word)
		return
	}

	value = byte(v64)
	return
}

// isLabel returns true if the word can name a label.
func isLabel(word string) bool {
	if len(word) == 0 {
		return false
	}

	for n, r := range word {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case n > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// isCharLiteral returns true if text[n:] starts with a 'x' literal.
func isCharLiteral(text string, n int) bool {
	return n+2 < len(text) && text[n] == '\'' && text[n+2] == '\''
}

// stripComment removes a ';' or '#' comment that is not quoted.
func stripComment(text string) string {
	quoted := false
	for n := 0; n < len(text); n++ {
		switch text[n] {
		case '\\':
			if quoted {
				n++
			}
		case '"':
			quoted = !quoted
		case '\'':
			if !quoted && isCharLiteral(text, n) {
				n += 2
			}
		case ';', '#':
			if !quoted {
				return text[:n]
			}
		}
	}

	return text
}

var parenRegexp = regexp.MustCompile(`\$\([^\$]*\)`)

// splitWords splits a line on commas and whitespace, keeping 'x' literals
// as single words.
func splitWords(line string) (words []string) {
	start := -1
	for n := 0; n < len(line); n++ {
		c := line[n]
		switch {
		case start < 0 && isCharLiteral(line, n):
			words = append(words, line[n:n+3])
			n += 2
		case strings.IndexByte(" \t\r\n\v\f,", c) >= 0:
			if start >= 0 {
				words = append(words, line[start:n])
				start = -1
			}
		case start < 0:
			start = n
		}
	}
	if start >= 0 {
		words = append(words, line[start:])
	}

	return
}

// parseLine splits a single line into words, after defining its labels
// and expanding its expressions.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Labels
	for {
		line = strings.TrimSpace(line)
		colon := strings.Index(line, ":")
		if colon < 0 || strings.ContainsAny(line[:colon], " \t\",") {
			break
		}
		label := line[:colon]
		if !isLabel(label) {
			err = ErrLabelSyntax
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.currentAddress()
		line = line[colon+1:]
	}

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	// DS "string" keeps its argument as a single word.
	head, tail := line, ""
	if space := strings.IndexFunc(line, unicode.IsSpace); space >= 0 {
		head, tail = line[:space], line[space:]
	}
	if strings.ToUpper(head) == "DS" {
		tail = strings.TrimSpace(tail)
		if len(tail) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		words = []string{head, tail}
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words[1:] {
		equate, ok := asm.Equate[word]
		if ok {
			words[1+n] = equate
		}
	}

	return
}

// currentAddress gets the address of the next statement.
func (asm *Assembler) currentAddress() int {
	if len(asm.Statements) == 0 {
		return 0
	}

	last := asm.Statements[len(asm.Statements)-1]

	return last.Address + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Statements = asm.Statements[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Statements {
		st := &asm.Statements[n]
		for _, link := range st.Links {
			addr, ok := asm.Label[link.Label]
			if !ok {
				lineno, line = st.LineNo, st.String()
				err = ErrLabelMissing(link.Label)
				return
			}
			if addr > 0xff {
				lineno, line = st.LineNo, st.String()
				err = ErrLabelRange{Label: link.Label, Address: addr}
				return
			}
			st.Bytes[link.Index] = byte(addr)
		}
	}

	prog = &Program{
		Statements: append([]Statement(nil), asm.Statements...),
	}

	return
}

// immediate encodes a value, or a link to a label.
func (asm *Assembler) immediate(word string, index int) (value byte, link *Link, err error) {
	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if !isLabel(word) {
		return
	}

	err = nil
	link = &Link{Label: word, Index: index}
	return
}

// register decodes a register name.
func (asm *Assembler) register(word string) (value byte, err error) {
	value, ok := registerNames[strings.ToUpper(word)]
	if !ok {
		err = ErrParseValue(word)
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []byte
	var links []Link

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(data) == 0 {
			return
		}
		st := Statement{LineNo: lineno, Address: asm.currentAddress(), Words: initial_words, Bytes: data, Links: links}
		asm.Statements = append(asm.Statements, st)
	}()

	mnemonic := strings.ToUpper(words[0])
	args := words[1:]

	switch mnemonic {
	case "DB":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		for n, word := range args {
			var value byte
			var link *Link
			value, link, err = asm.immediate(word, n)
			if err != nil {
				return
			}
			if link != nil {
				links = append(links, *link)
			}
			data = append(data, value)
		}
		return
	case "DS":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		var str string
		str, err = strconv.Unquote(args[0])
		if err != nil {
			err = ErrStringSyntax
			return
		}
		data = []byte(str)
		return
	}

	in, ok := LookupName(mnemonic)
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	if len(args) < in.Operands() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > in.Operands() {
		err = ErrOpcodeExtraArgs
		return
	}

	data = append(data, byte(in.Opcode))
	for n, kind := range in.Args {
		var value byte
		switch kind {
		case ARG_REG:
			value, err = asm.register(args[n])
		case ARG_IMM:
			var link *Link
			value, link, err = asm.immediate(args[n], 1+n)
			if link != nil {
				links = append(links, *link)
			}
		}
		if err != nil {
			data = nil
			return
		}
		data = append(data, value)
	}

	return
}
