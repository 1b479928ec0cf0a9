package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcode_Encoding(t *testing.T) {
	assert := assert.New(t)

	table := map[Opcode]byte{
		ADD: 0xA0, AND: 0xA8, CMP: 0xA7, DEC: 0x66,
		DIV: 0xA3, INC: 0x65, MOD: 0xA4, MUL: 0xA2,
		NOT: 0x69, OR: 0xAA, SHL: 0xAC, SHR: 0xAD,
		SUB: 0xA1, XOR: 0xAB, CALL: 0x50, JEQ: 0x55,
		JMP: 0x54, JNE: 0x56, RET: 0x11, HLT: 0x01,
		LDI: 0x82, POP: 0x46, PRN: 0x47, PUSH: 0x45,
	}

	for op, value := range table {
		assert.Equal(value, byte(op), op.String())
	}

	assert.Equal(len(table), len(Instructions()))
}

func TestOpcode_Table(t *testing.T) {
	assert := assert.New(t)

	setsPc := map[Opcode]bool{CALL: true, JEQ: true, JMP: true, JNE: true, RET: true}

	for _, in := range Instructions() {
		assert.Equal(in.Opcode.Operands(), in.Operands(), in.Name)
		assert.Equal(in.Opcode.IsAlu(), in.Alu, in.Name)
		assert.Equal(setsPc[in.Opcode], in.SetsPc, in.Name)
		assert.Equal(in.Opcode.SetsPc(), in.SetsPc, in.Name)

		found, ok := in.Opcode.Instruction()
		assert.True(ok, in.Name)
		assert.Equal(in.Name, found.Name)

		named, ok := LookupName(in.Name)
		assert.True(ok, in.Name)
		assert.Equal(in.Opcode, named.Opcode)
	}
}

func TestOpcode_Undefined(t *testing.T) {
	assert := assert.New(t)

	defined := 0
	for n := range 256 {
		op := Opcode(n)
		_, ok := op.Instruction()
		if ok {
			defined++
			assert.NotEqual(OPERANDS_RESERVED, op.Operands(), op.String())
		}
	}
	assert.Equal(len(Instructions()), defined)

	assert.Equal("0xFF", Opcode(0xff).String())
	assert.Equal("LDI", LDI.String())
	assert.Equal(3, Opcode(0xff).Operands())
}

func TestOpcode_Error(t *testing.T) {
	assert := assert.New(t)

	err := ErrOpcode(PUSH)
	assert.Equal("bad opcode 0x45 PUSH", err.Error())
	assert.ErrorIs(err, ErrOpcode(HLT))
}
