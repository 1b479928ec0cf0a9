package cpu

import (
	"fmt"
)

// Opcode is a single instruction byte.
//
// Bit layout: AABCDDDD
//   - AA: number of operand bytes that follow
//   - B: ALU operation
//   - C: instruction sets the PC
//   - DDDD: instruction identifier
type Opcode byte

// ALU operations
const (
	ADD = Opcode(0b10100000)
	AND = Opcode(0b10101000)
	CMP = Opcode(0b10100111)
	DEC = Opcode(0b01100110)
	DIV = Opcode(0b10100011)
	INC = Opcode(0b01100101)
	MOD = Opcode(0b10100100)
	MUL = Opcode(0b10100010)
	NOT = Opcode(0b01101001)
	OR  = Opcode(0b10101010)
	SHL = Opcode(0b10101100)
	SHR = Opcode(0b10101101)
	SUB = Opcode(0b10100001)
	XOR = Opcode(0b10101011)
)

// PC mutators
const (
	CALL = Opcode(0b01010000)
	JEQ  = Opcode(0b01010101)
	JMP  = Opcode(0b01010100)
	JNE  = Opcode(0b01010110)
	RET  = Opcode(0b00010001)
)

// Other
const (
	HLT  = Opcode(0b00000001)
	LDI  = Opcode(0b10000010)
	POP  = Opcode(0b01000110)
	PRN  = Opcode(0b01000111)
	PUSH = Opcode(0b01000101)
)

// OPERANDS_RESERVED is the operand count no instruction uses.
const OPERANDS_RESERVED = 3

// ArgKind is how an instruction interprets an operand byte.
type ArgKind int

const (
	ARG_REG = ArgKind(0) // Register index
	ARG_IMM = ArgKind(1) // Immediate value
)

// Instruction describes the decode and execution of an opcode.
type Instruction struct {
	Opcode Opcode
	Name   string
	Args   []ArgKind // One entry per operand byte.
	Alu    bool      // Executed by the ALU.
	SetsPc bool      // Manages the PC itself; no advance after execution.

	execute func(cpu *Cpu, op Opcode, a, b byte) error
}

// Operands returns the number of operand bytes.
func (in *Instruction) Operands() int {
	return len(in.Args)
}

var (
	argsNone   = []ArgKind{}
	argsReg    = []ArgKind{ARG_REG}
	argsRegReg = []ArgKind{ARG_REG, ARG_REG}
	argsRegImm = []ArgKind{ARG_REG, ARG_IMM}
)

var _instructions = []Instruction{
	{ADD, "ADD", argsRegReg, true, false, (*Cpu).alu},
	{AND, "AND", argsRegReg, true, false, (*Cpu).alu},
	{CMP, "CMP", argsRegReg, true, false, (*Cpu).alu},
	{DEC, "DEC", argsReg, true, false, (*Cpu).alu},
	{DIV, "DIV", argsRegReg, true, false, (*Cpu).alu},
	{INC, "INC", argsReg, true, false, (*Cpu).alu},
	{MOD, "MOD", argsRegReg, true, false, (*Cpu).alu},
	{MUL, "MUL", argsRegReg, true, false, (*Cpu).alu},
	{NOT, "NOT", argsReg, true, false, (*Cpu).alu},
	{OR, "OR", argsRegReg, true, false, (*Cpu).alu},
	{SHL, "SHL", argsRegReg, true, false, (*Cpu).alu},
	{SHR, "SHR", argsRegReg, true, false, (*Cpu).alu},
	{SUB, "SUB", argsRegReg, true, false, (*Cpu).alu},
	{XOR, "XOR", argsRegReg, true, false, (*Cpu).alu},

	{CALL, "CALL", argsReg, false, true, (*Cpu).opCall},
	{JEQ, "JEQ", argsReg, false, true, (*Cpu).opJeq},
	{JMP, "JMP", argsReg, false, true, (*Cpu).opJmp},
	{JNE, "JNE", argsReg, false, true, (*Cpu).opJne},
	{RET, "RET", argsNone, false, true, (*Cpu).opRet},

	{HLT, "HLT", argsNone, false, false, (*Cpu).opHlt},
	{LDI, "LDI", argsRegImm, false, false, (*Cpu).opLdi},
	{POP, "POP", argsReg, false, false, (*Cpu).opPop},
	{PRN, "PRN", argsReg, false, false, (*Cpu).opPrn},
	{PUSH, "PUSH", argsReg, false, false, (*Cpu).opPush},
}

// instructionTable is indexed by opcode byte; nil entries are undefined.
var instructionTable [256]*Instruction

// instructionNames maps mnemonics to instructions.
var instructionNames = map[string]*Instruction{}

func init() {
	for n := range _instructions {
		in := &_instructions[n]
		if in.Operands() != in.Opcode.Operands() {
			panic(fmt.Sprintf("%v: operand count mismatch", in.Name))
		}
		instructionTable[in.Opcode] = in
		instructionNames[in.Name] = in
	}
}

// Instructions returns all defined instructions, in table order.
func Instructions() []Instruction {
	return _instructions
}

// LookupName returns the instruction for a mnemonic.
func LookupName(name string) (in *Instruction, ok bool) {
	in, ok = instructionNames[name]
	return
}

// Instruction returns the table entry for the opcode.
func (op Opcode) Instruction() (in *Instruction, ok bool) {
	in = instructionTable[op]
	ok = in != nil
	return
}

// Operands returns the operand count encoded in the top two bits.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// IsAlu reports the ALU bit.
func (op Opcode) IsAlu() bool {
	return (op & 0b00100000) != 0
}

// SetsPc reports the PC mutator bit.
func (op Opcode) SetsPc() bool {
	return (op & 0b00010000) != 0
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	in, ok := op.Instruction()
	if !ok {
		return fmt.Sprintf("0x%02X", uint8(op))
	}
	return in.Name
}
