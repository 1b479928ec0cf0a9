package cpu

const (
	MEMORY_SIZE = 256  // Bytes of RAM.
	IVT         = 0xf4 // Interrupt vector table; also the empty stack top.
)

// Memory is the LS-8 RAM bank.
type Memory [MEMORY_SIZE]byte

// Read returns the byte at address, or ok == false if the address is
// outside of the bank.
func (mem *Memory) Read(address uint) (value byte, ok bool) {
	if address >= MEMORY_SIZE {
		return
	}

	return mem[address], true
}

// Write stores value at address. Writes outside of the bank are
// dropped, and reported with ok == false.
func (mem *Memory) Write(address uint, value byte) (ok bool) {
	if address >= MEMORY_SIZE {
		return
	}

	mem[address] = value
	return true
}

// Reset zero-fills the bank.
func (mem *Memory) Reset() {
	clear(mem[:])
}
