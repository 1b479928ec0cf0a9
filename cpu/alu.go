package cpu

import (
	"log"
)

// alu performs the ALU operation op on registers a and b.
// The result is stored in register a, or in the flags for CMP.
func (cpu *Cpu) alu(op Opcode, a, b byte) (err error) {
	input, err := cpu.Register.Get(a)
	if err != nil {
		return
	}

	// Unary operations ignore register b.
	var value byte
	switch op {
	case INC, DEC, NOT:
	default:
		value, err = cpu.Register.Get(b)
		if err != nil {
			return
		}
	}

	var output byte
	switch op {
	case ADD:
		output = input + value
	case SUB:
		output = input - value
	case MUL:
		output = input * value
	case DIV:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		output = input / value
	case MOD:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		output = input % value
	case INC:
		output = input + 1
	case DEC:
		output = input - 1
	case AND:
		output = input & value
	case OR:
		output = input | value
	case XOR:
		output = input ^ value
	case NOT:
		output = ^input
	case SHL:
		output = input << value
	case SHR:
		output = input >> value
	case CMP:
		cpu.Fl = compare(cpu.Fl, input, value)
		if cpu.Verbose {
			log.Printf("cpu: flags 0x%X", cpu.Fl)
		}
		return
	default:
		err = ErrAluInvalid
		return
	}

	cpu.Register[a] = output

	return
}

// compare clears the compare bits of fl, and sets the one for a vs b.
func compare(fl byte, a, b byte) byte {
	fl &= ^FLAG_MASK

	switch {
	case a < b:
		fl |= FLAG_L
	case a > b:
		fl |= FLAG_G
	default:
		fl |= FLAG_E
	}

	return fl
}
