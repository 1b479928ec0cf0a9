package cpu

import (
	"iter"
	"strings"
)

// Link is an operand byte to be patched with the address of a label.
type Link struct {
	Label string
	Index int // Index into Statement.Bytes
}

// Statement is a line of assembled code with its source location and
// generated bytes.
type Statement struct {
	LineNo  int
	Address int
	Words   []string
	Bytes   []byte
	Links   []Link
}

// String returns the source words of the statement.
func (st *Statement) String() string {
	return strings.Join(st.Words, " ")
}

// Program is an assembled, or disassembled, program listing.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug finds the statement that generated the byte at address.
func (prog *Program) Debug(address uint) (dbg Debug) {
	for n, st := range prog.Statements {
		if address >= uint(st.Address) && address < uint(st.Address+len(st.Bytes)) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(address - uint(st.Address)),
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (bins []byte) {
	for addr, value := range prog.Codes() {
		for len(bins) < addr {
			bins = append(bins, 0)
		}
		bins = append(bins, value)
	}

	return
}

// Codes iterates over the address and value of every program byte.
func (prog *Program) Codes() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(st.Address+n, value) {
					return
				}
			}
		}
	}
}

// Listing iterates over the bytes and source text of every statement.
func (prog *Program) Listing() iter.Seq2[[]byte, string] {
	return func(yield func(data []byte, comment string) bool) {
		for n := range prog.Statements {
			st := &prog.Statements[n]
			if !yield(st.Bytes, st.String()) {
				return
			}
		}
	}
}
