package liveness

import (
	"fmt"
	"strings"
	"tigerc/src/graph"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Move is a move coalescing candidate: the interference nodes of a move's source and destination.
type Move struct {
	Src graph.Node
	Dst graph.Node
}

// MoveList is an ordered collection of Moves, compared by node identity. Append, Prepend, Delete and Clear modify
// the receiver. Union, Intersect and Diff return a new MoveList and leave both operands unmodified, such that a
// coalescing worklist may be queried without side effects while pairs are moved between lists.
type MoveList struct {
	moves []Move
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewMoveList returns a MoveList holding moves in the given order.
func NewMoveList(moves ...Move) *MoveList {
	l := &MoveList{moves: make([]Move, len(moves))}
	copy(l.moves, moves)
	return l
}

// Append adds the move src -> dst at the end of l.
func (l *MoveList) Append(src, dst graph.Node) {
	l.moves = append(l.moves, Move{Src: src, Dst: dst})
}

// Prepend adds the move src -> dst at the front of l.
func (l *MoveList) Prepend(src, dst graph.Node) {
	l.moves = append(l.moves, Move{})
	copy(l.moves[1:], l.moves)
	l.moves[0] = Move{Src: src, Dst: dst}
}

// Contain returns true if l holds the move src -> dst.
func (l *MoveList) Contain(src, dst graph.Node) bool {
	return l.index(Move{Src: src, Dst: dst}) >= 0
}

// Delete removes the first occurrence of the move src -> dst from l. Deleting a missing move has no effect.
func (l *MoveList) Delete(src, dst graph.Node) {
	i1 := l.index(Move{Src: src, Dst: dst})
	if i1 < 0 {
		return
	}
	copy(l.moves[i1:], l.moves[i1+1:])
	l.moves = l.moves[:len(l.moves)-1]
}

// Clear removes all moves from l.
func (l *MoveList) Clear() {
	l.moves = l.moves[:0]
}

// Len returns the number of moves in l.
func (l *MoveList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.moves)
}

// Moves returns a copy of the moves of l in order.
func (l *MoveList) Moves() []Move {
	if l == nil {
		return nil
	}
	res := make([]Move, len(l.moves))
	copy(res, l.moves)
	return res
}

// Union returns a new MoveList holding the moves of l followed by the moves of o that l doesn't hold.
func (l *MoveList) Union(o *MoveList) *MoveList {
	res := NewMoveList(l.Moves()...)
	for _, e1 := range o.Moves() {
		if !res.Contain(e1.Src, e1.Dst) {
			res.moves = append(res.moves, e1)
		}
	}
	return res
}

// Intersect returns a new MoveList holding the moves of l that o holds as well.
func (l *MoveList) Intersect(o *MoveList) *MoveList {
	res := &MoveList{}
	for _, e1 := range l.Moves() {
		if o.Contain(e1.Src, e1.Dst) {
			res.moves = append(res.moves, e1)
		}
	}
	return res
}

// Diff returns a new MoveList holding the moves of l that o doesn't hold.
func (l *MoveList) Diff(o *MoveList) *MoveList {
	res := &MoveList{}
	for _, e1 := range l.Moves() {
		if !o.Contain(e1.Src, e1.Dst) {
			res.moves = append(res.moves, e1)
		}
	}
	return res
}

// String returns a print friendly representation of l.
func (l *MoveList) String() string {
	sb := strings.Builder{}
	sb.WriteRune('[')
	for i1, e1 := range l.Moves() {
		if i1 > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%d->%d", e1.Src, e1.Dst))
	}
	sb.WriteRune(']')
	return sb.String()
}

// index returns the position of the first occurrence of m in l, or -1.
func (l *MoveList) index(m Move) int {
	if l == nil {
		return -1
	}
	for i1, e1 := range l.moves {
		if e1 == m {
			return i1
		}
	}
	return -1
}
