// Package temp defines temporaries, the abstract value-holding locations that register allocation maps onto
// physical registers or spill slots, and the jump labels referenced by instructions.
package temp

import (
	"fmt"
	"strings"

	"golang.org/x/tools/container/intsets"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Temp identifies a temporary. Temporaries below FirstVirtual are reserved for precolored machine registers.
type Temp int

// Factory hands out fresh virtual temporaries. One Factory is used per function body.
type Factory struct {
	next Temp // next is the next temporary to hand out.
}

// Set is a set of temporaries. The zero value is an empty set ready to use. A Set must not be copied after first use.
type Set struct {
	bits intsets.Sparse
}

// ---------------------
// ----- Constants -----
// ---------------------

// FirstVirtual is the first temporary id handed out by a Factory.
const FirstVirtual Temp = 100

// ---------------------
// ----- Functions -----
// ---------------------

// IsVirtual returns true if t is not reserved for a machine register.
func (t Temp) IsVirtual() bool {
	return t >= FirstVirtual
}

// String returns the default textual name of t.
func (t Temp) String() string {
	return fmt.Sprintf("t%d", int(t))
}

// NewTemp returns the next unused virtual temporary of Factory f.
func (f *Factory) NewTemp() Temp {
	if f.next < FirstVirtual {
		f.next = FirstVirtual
	}
	t := f.next
	f.next++
	return t
}

// Count returns the number of temporaries created by Factory f so far.
func (f *Factory) Count() int {
	if f.next < FirstVirtual {
		return 0
	}
	return int(f.next - FirstVirtual)
}

// NewSet returns a Set holding the temporaries ts.
func NewSet(ts ...Temp) *Set {
	s := &Set{}
	for _, e1 := range ts {
		s.Add(e1)
	}
	return s
}

// Add inserts t into s and returns true if t was not already present.
func (s *Set) Add(t Temp) bool {
	return s.bits.Insert(int(t))
}

// Remove deletes t from s and returns true if t was present.
func (s *Set) Remove(t Temp) bool {
	return s.bits.Remove(int(t))
}

// Has returns true if t is a member of s.
func (s *Set) Has(t Temp) bool {
	return s.bits.Has(int(t))
}

// Len returns the number of temporaries in s.
func (s *Set) Len() int {
	return s.bits.Len()
}

// IsEmpty returns true if s holds no temporaries.
func (s *Set) IsEmpty() bool {
	return s.bits.IsEmpty()
}

// Clear removes all temporaries from s.
func (s *Set) Clear() {
	s.bits.Clear()
}

// Copy sets s to the value of o.
func (s *Set) Copy(o *Set) {
	s.bits.Copy(&o.bits)
}

// UnionWith sets s to s ∪ o and returns true if s changed.
func (s *Set) UnionWith(o *Set) bool {
	return s.bits.UnionWith(&o.bits)
}

// DifferenceWith sets s to s − o.
func (s *Set) DifferenceWith(o *Set) {
	s.bits.DifferenceWith(&o.bits)
}

// Equals returns true if s and o hold the same temporaries.
func (s *Set) Equals(o *Set) bool {
	return s.bits.Equals(&o.bits)
}

// SubsetOf returns true if every member of s is a member of o.
func (s *Set) SubsetOf(o *Set) bool {
	return s.bits.SubsetOf(&o.bits)
}

// Temps returns the members of s in ascending order.
func (s *Set) Temps() []Temp {
	ids := s.bits.AppendTo(make([]int, 0, s.bits.Len()))
	res := make([]Temp, len(ids))
	for i1, e1 := range ids {
		res[i1] = Temp(e1)
	}
	return res
}

// Format returns the members of s in ascending order, named by namer. A nil namer uses Temp.String.
func (s *Set) Format(namer func(Temp) string) string {
	if namer == nil {
		namer = Temp.String
	}
	sb := strings.Builder{}
	sb.WriteRune('{')
	for i1, e1 := range s.Temps() {
		if i1 > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(namer(e1))
	}
	sb.WriteRune('}')
	return sb.String()
}

// String returns a print friendly representation of s.
func (s *Set) String() string {
	return s.Format(nil)
}
