// Package cpu implements the processor and assembler for the LS-8 system.
//
// The LS-8 is an 8-bit machine with 256 bytes of RAM, eight byte-wide
// registers (R7 doubles as the stack pointer), a flags register holding
// the result of the last compare, and a program counter. The top two
// bits of every opcode give the number of operand bytes that follow it.
//
// The assembler provides a small assembly language for the LS-8
// instruction set, supporting labels, equates, data bytes, and
// compile-time expression evaluation.
package cpu
