package cpu

// Stack is a view of the downward growing stack held in RAM, with the
// top of stack addressed by the stack pointer register.
//
// The stack is empty when the stack pointer is at IVT.
type Stack struct {
	Memory *Memory
	Sp     *byte
}

// Push decrements the stack pointer, then stores value at the new top.
func (s *Stack) Push(value byte) (err error) {
	// The stack pointer is a byte; below address 0 it would wrap
	// around onto the interrupt vectors.
	if s.Full() {
		err = ErrStackFull
		return
	}

	*s.Sp--
	s.Memory.Write(uint(*s.Sp), value)

	return
}

// Pop loads the top of stack, then increments the stack pointer.
func (s *Stack) Pop() (value byte, err error) {
	value, err = s.Peek()
	if err != nil {
		return
	}

	*s.Sp++
	return
}

// Peek returns the top of stack without removing it.
func (s *Stack) Peek() (value byte, err error) {
	if s.Empty() {
		err = ErrStackEmpty
		return
	}

	value, _ = s.Memory.Read(uint(*s.Sp))
	return
}

func (s *Stack) Empty() bool {
	return *s.Sp > IVT-1
}

func (s *Stack) Full() bool {
	return *s.Sp == 0
}

// Depth returns the number of bytes on the stack.
func (s *Stack) Depth() int {
	if s.Empty() {
		return 0
	}

	return IVT - int(*s.Sp)
}
