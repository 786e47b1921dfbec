package walk

// stack is a singly-linked LIFO holding pending walk work. Traversal depth
// is bounded by heap memory, not goroutine stack frames.
type stack[T any] struct {
	top *stackNode[T]
}

type stackNode[T any] struct {
	data T
	next *stackNode[T]
}

func (s *stack[T]) empty() bool {
	return s.top == nil
}

func (s *stack[T]) push(data T) {
	s.top = &stackNode[T]{data: data, next: s.top}
}

func (s *stack[T]) pop() (T, bool) {
	if s.top == nil {
		var zero T
		return zero, false
	}
	n := s.top
	s.top = n.next
	return n.data, true
}

func (s *stack[T]) peek() (T, bool) {
	if s.top == nil {
		var zero T
		return zero, false
	}
	return s.top.data, true
}
