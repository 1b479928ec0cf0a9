package cpu

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, program ...string) (prog *Program) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))
	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssembler_Print(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"; print8",
		"LDI R0,8",
		"ldi r1, 9   # lower case",
		"ADD R0 R1",
		"PRN R0",
		"HLT",
	)

	expected := []Statement{
		{2, 0, []string{"LDI", "R0", "8"}, []byte{0x82, 0x00, 0x08}, nil},
		{3, 3, []string{"ldi", "r1", "9"}, []byte{0x82, 0x01, 0x09}, nil},
		{4, 6, []string{"ADD", "R0", "R1"}, []byte{0xa0, 0x00, 0x01}, nil},
		{5, 9, []string{"PRN", "R0"}, []byte{0x47, 0x00}, nil},
		{6, 11, []string{"HLT"}, []byte{0x01}, nil},
	}
	assert.Equal(expected, prog.Statements)

	cpu, output, err := runProgram(prog.Binary()...)
	assert.NoError(err)
	assert.True(cpu.Halted)
	assert.Equal("17\n", output.String())
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"      LDI R1,Mult2Print",
		"      LDI R0,10",
		"      CALL R1",
		"      HLT",
		"",
		"Mult2Print:",
		"      ADD R0,R0",
		"      PRN R0",
		"      RET",
	)

	assert.Equal([]Link{{Label: "Mult2Print", Index: 2}}, prog.Statements[0].Links)
	assert.Equal(byte(9), prog.Statements[0].Bytes[2])

	_, output, err := runProgram(prog.Binary()...)
	assert.NoError(err)
	assert.Equal("20\n", output.String())
}

func TestAssembler_Data(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"start: LDI R0,msg",
		"HLT",
		`msg: DS "Hi; #1"`,
		"DB 0x0a, 0b101, -1, 'x', start",
	)

	assert.Equal([]byte{
		0x82, 0x00, 0x04,
		0x01,
		'H', 'i', ';', ' ', '#', '1',
		0x0a, 0x05, 0xff, 'x', 0x00,
	}, prog.Binary())
}

func TestAssembler_CharLiterals(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"DB ';', '#' ; comment",
		"DB ' ',','",
		"DB\t'a'\t# 'b'",
		"DS\t\"a b\"",
	)

	assert.Equal([]byte{';', '#', ' ', ',', 'a', 'a', ' ', 'b'}, prog.Binary())
}

func TestAssembler_Equate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("TOP", "0xf4")

	program := []string{
		".equ TEN 10",
		"LDI R0,TEN",
		"LDI R1,$(TEN * 2 + 1)",
		"LDI R2,$(TOP - 1)",
		"LDI R3,$(LINENO)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal([]byte{
		0x82, 0, 10,
		0x82, 1, 21,
		0x82, 2, 0xf3,
		0x82, 3, 5,
	}, prog.Binary())
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"opcode", []string{"NOP"}, 1, ErrOpcodeInvalid},
		{"missing", []string{"HLT", "LDI R0"}, 2, ErrOpcodeValueMissing},
		{"extra", []string{"PRN R0,R1"}, 1, ErrOpcodeExtraArgs},
		{"register", []string{"PRN 3"}, 1, ErrParseValue("3")},
		{"number", []string{"LDI R0,256"}, 1, ErrParseNumber("256")},
		{"label_dup", []string{"a: HLT", "a: HLT"}, 2, ErrLabelDuplicate},
		{"label_missing", []string{"LDI R0,nowhere"}, 1, ErrLabelMissing("nowhere")},
		{"equ", []string{".equ A"}, 1, ErrEquateSyntax},
		{"equ_dup", []string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{"string", []string{"DS hello"}, 1, ErrStringSyntax},
		{"db", []string{"DB"}, 1, ErrOpcodeValueMissing},
		{"ds_empty", []string{"DS,"}, 1, ErrOpcodeValueMissing},
		{"ds_extra", []string{"HLT", `DS, "a", "b"`}, 2, ErrOpcodeExtraArgs},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssembler_LabelRange(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := strings.Join([]string{
		"LDI R0,end",
		`DS "` + strings.Repeat("x", 300) + `"`,
		"end: HLT",
	}, "\n")

	_, err := asm.Parse(strings.NewReader(program))
	var rangeErr ErrLabelRange
	assert.True(errors.As(err, &rangeErr))
	assert.Equal(303, rangeErr.Address)
}

func TestAssembler_Expression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(`LDI R0,$("a")`))
	assert.Error(err)

	var buf bytes.Buffer
	buf.WriteString("LDI R0,$(1 +)")
	_, err = asm.Parse(&buf)
	assert.Error(err)
}
