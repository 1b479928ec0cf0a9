package cpu

// Register file indexes.
const (
	R0 = 0
	R1 = 1
	R2 = 2
	R3 = 3
	R4 = 4
	IM = 5 // Interrupt mask (reserved)
	IS = 6 // Interrupt status (reserved)
	SP = 7 // Stack pointer

	REGISTER_COUNT = 8
)

// Flags register bits: 00000LGE
const (
	FLAG_E    = byte(1 << 0) // Equal
	FLAG_G    = byte(1 << 1) // Greater than
	FLAG_L    = byte(1 << 2) // Less than
	FLAG_MASK = FLAG_L | FLAG_G | FLAG_E
)

// registerNames maps assembler names to register indexes.
var registerNames = map[string]byte{
	"R0": R0,
	"R1": R1,
	"R2": R2,
	"R3": R3,
	"R4": R4,
	"R5": IM,
	"R6": IS,
	"R7": SP,
	"IM": IM,
	"IS": IS,
	"SP": SP,
}

// Registers is the register file.
type Registers [REGISTER_COUNT]byte

// Get returns the register at index.
func (regs *Registers) Get(index byte) (value byte, err error) {
	if int(index) >= len(regs) {
		err = ErrRegisterInvalid
		return
	}

	value = regs[index]
	return
}

// Set stores value in the register at index.
func (regs *Registers) Set(index byte, value byte) (err error) {
	if int(index) >= len(regs) {
		err = ErrRegisterInvalid
		return
	}

	regs[index] = value
	return
}
