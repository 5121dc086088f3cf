package mesh

import "meshmul/src/matrix"

// Registers is the private state of one compute unit: the current left operand A, the
// current top operand B and the accumulator C.
type Registers[T matrix.Element] struct {
	A T
	B T
	C T
}

// Load latches the operands of the current round.
func (r *Registers[T]) Load(a, b T) {
	r.A = a
	r.B = b
}

// Accumulate performs the round's multiply-accumulate. Overflow wraps.
func (r *Registers[T]) Accumulate() {
	r.C += r.A * r.B
}

// operandStream is the FIFO of edge operands a boundary unit consumes locally.
type operandStream[T matrix.Element] struct {
	values []T
	next   int
}

func newOperandStream[T matrix.Element](values []T) *operandStream[T] {
	return &operandStream[T]{values: values}
}

func (s *operandStream[T]) Pop() (T, bool) {
	var zero T
	if s == nil || s.next >= len(s.values) {
		return zero, false
	}
	value := s.values[s.next]
	s.next++
	return value, true
}

func (s *operandStream[T]) Remaining() int {
	if s == nil {
		return 0
	}
	return len(s.values) - s.next
}
