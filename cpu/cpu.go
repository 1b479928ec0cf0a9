package cpu

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
	"strings"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"IVT":            fmt.Sprintf("0x%x", IVT),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"FLAG_E":         fmt.Sprintf("0x%x", FLAG_E),
	"FLAG_G":         fmt.Sprintf("0x%x", FLAG_G),
	"FLAG_L":         fmt.Sprintf("0x%x", FLAG_L),
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool      // Set to enable verbose logging.
	Output  io.Writer // Destination of PRN output.

	Memory   Memory    // RAM bank.
	Register Registers // Register bank; R7 is the stack pointer.
	Fl       byte      // Flags, 00000LGE.
	Pc       uint      // Program counter.
	Ir       Opcode    // Most recently fetched opcode.
	Halted   bool      // Set by HLT.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU, in the reset state, printing to os.Stdout.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Output: os.Stdout,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Stack returns the stack view over RAM and the stack pointer.
func (cpu *Cpu) Stack() *Stack {
	return &Stack{Memory: &cpu.Memory, Sp: &cpu.Register[SP]}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %02x\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %02x %v\n", "ir", uint8(cpu.Ir), cpu.Ir)
	text += fmt.Sprintf("% 5s: %08b\n", "fl", cpu.Fl)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %02x\n", fmt.Sprintf("r%d", n), val)
	}

	var ram []string
	for addr, val := range cpu.Memory {
		if val != 0 {
			ram = append(ram, fmt.Sprintf("%02x:%02x", addr, val))
		}
	}
	text += fmt.Sprintf("% 5s: [%v]\n", "ram", strings.Join(ram, " "))

	return
}

// Reset the CPU state.
// - Zero-fills RAM and the registers.
// - Sets the stack pointer to the top of the stack.
// - Clears PC, flags, halt state and the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	clear(cpu.Register[:])
	cpu.Register[SP] = IVT
	cpu.Fl = 0
	cpu.Pc = 0
	cpu.Ir = 0
	cpu.Halted = false
	cpu.Ticks = 0
}

// Load copies a program image into RAM, starting at address 0.
func (cpu *Cpu) Load(program []byte) (err error) {
	if len(program) > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	for addr, value := range program {
		cpu.Memory.Write(uint(addr), value)
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(program))
	}

	return
}

// Fetch reads the opcode at PC into the instruction register, and the
// operand bytes that follow it.
func (cpu *Cpu) Fetch() (op Opcode, args [2]byte, err error) {
	ir, ok := cpu.Memory.Read(cpu.Pc)
	if !ok {
		log.Printf("cpu: pc 0x%x > memory size 0x%x", cpu.Pc, MEMORY_SIZE)
		err = ErrAddressInvalid
		return
	}

	op = Opcode(ir)
	cpu.Ir = op

	count := op.Operands()
	if count == OPERANDS_RESERVED {
		// No instruction uses the reserved count.
		return
	}

	for n := range count {
		args[n], ok = cpu.Memory.Read(cpu.Pc + 1 + uint(n))
		if !ok {
			err = errors.Join(ErrOpcode(op), ErrAddressInvalid)
			return
		}
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	op, args, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(op, args)

	return
}

// Run ticks until the CPU halts, or an instruction faults.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction, then advances the PC
// unless the instruction set it.
func (cpu *Cpu) Execute(op Opcode, args [2]byte) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(op), err)
		}
	}()

	in, ok := op.Instruction()
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %02x: %v %v", cpu.Pc, op, args[:in.Operands()])
		log.Printf("cpu: state\n%v", cpu)
	}

	err = in.execute(cpu, op, args[0], args[1])
	if err != nil {
		return
	}

	if !in.SetsPc {
		cpu.Pc += uint(1 + op.Operands())
	}

	cpu.Ticks++

	return
}

// next returns the address of the instruction following op.
func (cpu *Cpu) next(op Opcode) uint {
	return cpu.Pc + 1 + uint(op.Operands())
}

// jump sets the PC to the address held in register a.
func (cpu *Cpu) jump(a byte) (err error) {
	target, err := cpu.Register.Get(a)
	if err != nil {
		return
	}

	cpu.Pc = uint(target)
	return
}

func (cpu *Cpu) opLdi(op Opcode, a, b byte) (err error) {
	return cpu.Register.Set(a, b)
}

func (cpu *Cpu) opPrn(op Opcode, a, b byte) (err error) {
	value, err := cpu.Register.Get(a)
	if err != nil {
		return
	}

	if cpu.Output == nil {
		return
	}

	_, err = fmt.Fprintf(cpu.Output, "%d\n", value)
	return
}

func (cpu *Cpu) opPush(op Opcode, a, b byte) (err error) {
	value, err := cpu.Register.Get(a)
	if err != nil {
		return
	}

	return cpu.Stack().Push(value)
}

func (cpu *Cpu) opPop(op Opcode, a, b byte) (err error) {
	if _, err = cpu.Register.Get(a); err != nil {
		return
	}

	value, err := cpu.Stack().Pop()
	if err != nil {
		return
	}

	cpu.Register[a] = value
	return
}

// opCall pushes the return address, which must fit in a byte.
func (cpu *Cpu) opCall(op Opcode, a, b byte) (err error) {
	if _, err = cpu.Register.Get(a); err != nil {
		return
	}

	err = cpu.Stack().Push(byte(cpu.next(op)))
	if err != nil {
		return
	}

	return cpu.jump(a)
}

func (cpu *Cpu) opRet(op Opcode, a, b byte) (err error) {
	addr, err := cpu.Stack().Pop()
	if err != nil {
		return
	}

	cpu.Pc = uint(addr)
	return
}

func (cpu *Cpu) opJmp(op Opcode, a, b byte) (err error) {
	return cpu.jump(a)
}

func (cpu *Cpu) opJeq(op Opcode, a, b byte) (err error) {
	if (cpu.Fl & FLAG_E) != 0 {
		return cpu.jump(a)
	}

	cpu.Pc = cpu.next(op)
	return
}

func (cpu *Cpu) opJne(op Opcode, a, b byte) (err error) {
	if (cpu.Fl & FLAG_E) == 0 {
		return cpu.jump(a)
	}

	cpu.Pc = cpu.next(op)
	return
}

func (cpu *Cpu) opHlt(op Opcode, a, b byte) (err error) {
	cpu.Halted = true
	return
}
