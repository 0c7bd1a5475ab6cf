// stack.go provides a slice backed stack. The bottom element is the first entry into the stack, while the top is
// the last entry to be added to the stack. A Stack is not safe for concurrent use; every worker owns its own.

package util

// Stack is a last in, first out stack of elements of type T. The zero value is an empty stack.
type Stack[T any] struct {
	e []T // Elements, bottom first.
}

// Push adds a new element to the top of the stack.
func (s *Stack[T]) Push(e T) {
	s.e = append(s.e, e)
}

// Pop removes and returns the last inserted element on the stack.
// The second return value is false if the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.e) == 0 {
		return zero, false
	}
	e := s.e[len(s.e)-1]
	s.e[len(s.e)-1] = zero
	s.e = s.e[:len(s.e)-1]
	return e, true
}

// Peek works just like Pop, but it does not remove the element from the stack.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.e) == 0 {
		var zero T
		return zero, false
	}
	return s.e[len(s.e)-1], true
}

// Size returns the number of elements in the stack.
func (s *Stack[T]) Size() int {
	return len(s.e)
}

// Get returns the nth element from the stack, top down, not zero indexed.
// Get(1) returns the first element on stack, and is similar to Peek.
// Get(Stack.Size()) returns the bottom element. If the index n is out of range
// the second return value is false. Get does not remove elements from the stack.
func (s *Stack[T]) Get(n int) (T, bool) {
	if n < 1 || n > len(s.e) {
		var zero T
		return zero, false
	}
	return s.e[len(s.e)-n], true
}
