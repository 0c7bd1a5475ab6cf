// Package assem defines the target machine instructions produced by instruction selection. An instruction is a
// Label, a register-to-register Move or any other Oper; every instruction exposes the temporaries it defines and uses.
package assem

import (
	"fmt"
	"strconv"
	"strings"
	"tigerc/src/temp"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind identifies the variant of an instruction.
type Kind uint

// Instr is a target machine instruction. The set of implementations is closed: *Label, *Move and *Oper.
type Instr interface {
	Kind() Kind          // Kind returns the variant tag of the instruction.
	Def() []temp.Temp    // Def returns the temporaries written by the instruction.
	Use() []temp.Temp    // Use returns the temporaries read by the instruction.
	Format(Namer) string // Format renders the instruction as assembler text.
	instr()
}

// Namer maps a temporary to its textual name.
type Namer func(temp.Temp) string

// Label marks a jump target. It defines and uses no temporaries.
type Label struct {
	Label *temp.Label
}

// Move copies temporary Src into temporary Dst.
type Move struct {
	Assem string    // Assembler template, e.g. "movq `s0, `d0".
	Dst   temp.Temp // Destination temporary.
	Src   temp.Temp // Source temporary.
}

// Oper is any instruction that is neither a Label nor a Move.
type Oper struct {
	Assem string      // Assembler template.
	Dst   []temp.Temp // Temporaries written.
	Src   []temp.Temp // Temporaries read.
	Jumps *Targets    // Jump targets, <nil> if the instruction always falls through.
}

// Targets lists the labels an Oper may jump to.
type Targets struct {
	Labels        []*temp.Label
	Unconditional bool // Set by instruction selection if control never falls through to the next instruction.
}

// List is an ordered instruction sequence, typically one function body.
type List []Instr

// ---------------------
// ----- Constants -----
// ---------------------

const (
	KindLabel Kind = iota // KindLabel identifies *Label.
	KindMove              // KindMove identifies *Move.
	KindOper              // KindOper identifies *Oper.
)

// kTyp provides string literals for Kind constants.
var kTyp = [...]string{
	"label",
	"move",
	"oper",
}

// ---------------------
// ----- Functions -----
// ---------------------

// String provides a print friendly string representation of the Kind.
func (k Kind) String() string {
	if int(k) < len(kTyp) {
		return kTyp[k]
	}
	return fmt.Sprintf("kind(%d)", uint(k))
}

// NewLabel returns a Label instruction marking l.
func NewLabel(l *temp.Label) *Label {
	return &Label{Label: l}
}

// NewMove returns a Move instruction copying src into dst.
func NewMove(assem string, dst, src temp.Temp) *Move {
	return &Move{Assem: assem, Dst: dst, Src: src}
}

// NewOper returns an Oper instruction that falls through to the next instruction.
func NewOper(assem string, dst, src []temp.Temp) *Oper {
	return &Oper{Assem: assem, Dst: dst, Src: src}
}

// NewJump returns an Oper instruction that transfers control to one of labels. If unconditional is false the
// instruction may also fall through to the next instruction.
func NewJump(assem string, dst, src []temp.Temp, unconditional bool, labels ...*temp.Label) *Oper {
	return &Oper{
		Assem: assem,
		Dst:   dst,
		Src:   src,
		Jumps: &Targets{Labels: labels, Unconditional: unconditional},
	}
}

func (*Label) instr() {}
func (*Move) instr()  {}
func (*Oper) instr()  {}

// Kind returns KindLabel.
func (*Label) Kind() Kind { return KindLabel }

// Kind returns KindMove.
func (*Move) Kind() Kind { return KindMove }

// Kind returns KindOper.
func (*Oper) Kind() Kind { return KindOper }

// Def returns no temporaries: labels define nothing.
func (*Label) Def() []temp.Temp { return nil }

// Use returns no temporaries: labels use nothing.
func (*Label) Use() []temp.Temp { return nil }

// Def returns the destination of the Move.
func (m *Move) Def() []temp.Temp { return []temp.Temp{m.Dst} }

// Use returns the source of the Move.
func (m *Move) Use() []temp.Temp { return []temp.Temp{m.Src} }

// Def returns the temporaries written by the Oper.
func (o *Oper) Def() []temp.Temp { return o.Dst }

// Use returns the temporaries read by the Oper.
func (o *Oper) Use() []temp.Temp { return o.Src }

// IsJump returns true if the Oper has jump targets.
func (o *Oper) IsJump() bool {
	return o.Jumps != nil
}

// Format returns "name:".
func (l *Label) Format(Namer) string {
	return l.Label.Name() + ":"
}

// Format renders the Move's template.
func (m *Move) Format(n Namer) string {
	return format(m.Assem, m.Def(), m.Use(), nil, n)
}

// Format renders the Oper's template.
func (o *Oper) Format(n Namer) string {
	var labels []*temp.Label
	if o.Jumps != nil {
		labels = o.Jumps.Labels
	}
	return format(o.Assem, o.Dst, o.Src, labels, n)
}

// String renders l with default temporary names.
func (l *Label) String() string { return l.Format(nil) }

// String renders m with default temporary names.
func (m *Move) String() string { return m.Format(nil) }

// String renders o with default temporary names.
func (o *Oper) String() string { return o.Format(nil) }

// format substitutes the placeholders `d<i>, `s<i> and `j<i> of template t with the i'th destination, source
// or jump label. Placeholders without a matching operand are kept verbatim.
func format(t string, dst, src []temp.Temp, jumps []*temp.Label, n Namer) string {
	if n == nil {
		n = temp.Temp.String
	}
	sb := strings.Builder{}
	for i1 := 0; i1 < len(t); i1++ {
		if t[i1] != '`' || i1+1 >= len(t) {
			sb.WriteByte(t[i1])
			continue
		}
		k := t[i1+1]
		if k == '`' {
			sb.WriteByte('`')
			i1++
			continue
		}
		end := i1 + 2
		for end < len(t) && t[end] >= '0' && t[end] <= '9' {
			end++
		}
		idx, err := strconv.Atoi(t[i1+2 : end])
		if err != nil {
			sb.WriteByte(t[i1])
			continue
		}
		switch {
		case k == 'd' && idx < len(dst):
			sb.WriteString(n(dst[idx]))
		case k == 's' && idx < len(src):
			sb.WriteString(n(src[idx]))
		case k == 'j' && idx < len(jumps):
			sb.WriteString(jumps[idx].Name())
		default:
			sb.WriteString(t[i1:end])
		}
		i1 = end - 1
	}
	return sb.String()
}
