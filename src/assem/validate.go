package assem

import (
	"errors"
	"tigerc/src/temp"
	"tigerc/src/util"
)

// ---------------------
// ----- Constants -----
// ---------------------

var (
	// ErrEmpty is reported for a function body without instructions.
	ErrEmpty = errors.New("empty instruction list")

	// ErrMalformed is reported for an instruction that violates the instruction model.
	ErrMalformed = errors.New("malformed instruction")
)

// ---------------------
// ----- Functions -----
// ---------------------

// Validate checks that List l of function fn is a well formed instruction sequence. The returned error, if any,
// is a *util.InternalError naming the first offending instruction.
func (l List) Validate(fn string) error {
	if len(l) == 0 {
		return util.NewInternalError(fn, -1, ErrEmpty, "")
	}
	defined := make(map[*temp.Label]int)
	for i1, e1 := range l {
		switch e2 := e1.(type) {
		case nil:
			return util.NewInternalError(fn, i1, ErrMalformed, "nil instruction")
		case *Label:
			if e2 == nil || e2.Label == nil {
				return util.NewInternalError(fn, i1, ErrMalformed, "label instruction without label")
			}
			if prev, ok := defined[e2.Label]; ok {
				return util.NewInternalError(fn, i1, ErrMalformed, "label %s already defined by instruction %d",
					e2.Label.Name(), prev)
			}
			defined[e2.Label] = i1
		case *Move:
			if e2 == nil {
				return util.NewInternalError(fn, i1, ErrMalformed, "nil move")
			}
			if e2.Dst < 0 || e2.Src < 0 {
				return util.NewInternalError(fn, i1, ErrMalformed, "negative temporary in move")
			}
		case *Oper:
			if e2 == nil {
				return util.NewInternalError(fn, i1, ErrMalformed, "nil operation")
			}
			if err := validTemps(e2.Dst, e2.Src); err != nil {
				return util.NewInternalError(fn, i1, ErrMalformed, "%s", err)
			}
			if e2.Jumps != nil {
				if len(e2.Jumps.Labels) == 0 {
					return util.NewInternalError(fn, i1, ErrMalformed, "jump without targets")
				}
				for _, e3 := range e2.Jumps.Labels {
					if e3 == nil {
						return util.NewInternalError(fn, i1, ErrMalformed, "nil jump target")
					}
				}
			}
		}
	}
	return nil
}

// validTemps returns an error if any temporary in ts is negative.
func validTemps(ts ...[]temp.Temp) error {
	for _, e1 := range ts {
		for _, e2 := range e1 {
			if e2 < 0 {
				return errors.New("negative temporary " + e2.String())
			}
		}
	}
	return nil
}
