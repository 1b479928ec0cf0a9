// Package io provides the LS-8 program image format.
//
// An image is a text file holding one byte per line as a base-2 numeral,
// optionally followed by a comment:
//
//	10000010 # LDI R0,8
//	00000000
//	00001000
//
// Lines that do not start with a binary numeral are skipped.
package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ezrec/ls8/cpu"
)

// IMAGE_LIMIT is the largest image that fits the LS-8 memory bank.
const IMAGE_LIMIT = cpu.MEMORY_SIZE

// parseLine returns the value of the leading binary numeral of a line.
// Values wider than a byte keep their low 8 bits.
func parseLine(line string) (value byte, ok bool) {
	line = strings.TrimLeft(line, " \t\r\v\f")

	for _, c := range line {
		if c != '0' && c != '1' {
			break
		}
		value = (value << 1) | byte(c-'0')
		ok = true
	}

	return
}

// ReadImage reads a program image.
func ReadImage(input io.Reader) (data []byte, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno++

		value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}

		if len(data) == IMAGE_LIMIT {
			err = &ErrImageLine{LineNo: lineno, Err: ErrImageSize}
			return
		}

		data = append(data, value)
	}

	err = scanner.Err()

	return
}

// WriteImage writes a program image. Each group of bytes is annotated
// with its comment on the first line of the group.
func WriteImage(output io.Writer, listing iter.Seq2[[]byte, string]) (err error) {
	w := bufio.NewWriter(output)

	for data, comment := range listing {
		for n, value := range data {
			if n == 0 && len(comment) != 0 {
				_, err = fmt.Fprintf(w, "%08b # %s\n", value, comment)
			} else {
				_, err = fmt.Fprintf(w, "%08b\n", value)
			}
			if err != nil {
				return
			}
		}
	}

	err = w.Flush()

	return
}
