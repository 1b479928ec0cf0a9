package cpu

import (
	"fmt"
)

// Disassemble decodes a memory image into a program listing.
//
// Decoding is linear from address 0; bytes that are not a defined
// opcode, or whose operands run past the image, become DB statements.
func Disassemble(data []byte) (prog *Program) {
	prog = &Program{}

	for addr := 0; addr < len(data); {
		op := Opcode(data[addr])
		in, ok := op.Instruction()
		if !ok || addr+1+in.Operands() > len(data) {
			prog.Statements = append(prog.Statements, Statement{
				Address: addr,
				Words:   []string{"DB", fmt.Sprintf("0x%02X", data[addr])},
				Bytes:   data[addr : addr+1],
			})
			addr++
			continue
		}

		size := 1 + in.Operands()
		words := []string{in.Name}
		for n, kind := range in.Args {
			arg := data[addr+1+n]
			switch kind {
			case ARG_REG:
				words = append(words, fmt.Sprintf("R%d", arg))
			case ARG_IMM:
				words = append(words, fmt.Sprintf("%d", arg))
			}
		}

		prog.Statements = append(prog.Statements, Statement{
			Address: addr,
			Words:   words,
			Bytes:   data[addr : addr+size],
		})
		addr += size
	}

	return
}
