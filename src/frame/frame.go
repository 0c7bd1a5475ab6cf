// Package frame provides the precolored machine registers of every supported target architecture. The tables are
// initialised once when the package is loaded and never mutated afterwards, so they may be shared freely between
// functions that are analysed in parallel.
package frame

import (
	"fmt"
	"tigerc/src/temp"
	"tigerc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Register describes one physical register. Its temporary is permanently bound to the register.
type Register struct {
	Temp        temp.Temp // Precolored temporary of the register.
	Name        string    // Assembler name of the register.
	CalleeSaved bool      // Set to true if the register is preserved across calls.
}

// Table is the immutable register file of one target architecture.
type Table struct {
	arch   string               // Architecture identifier.
	regs   []Register           // Registers, indexed by their temporary.
	byName map[string]temp.Temp // Temporary lookup by assembler name.
	sp     temp.Temp            // Stack pointer.
	fp     temp.Temp            // Frame pointer.
}

// -------------------
// ----- Globals -----
// -------------------

// X86_64 is the integer register file of x86-64.
var X86_64 = newTable("x86_64",
	[]string{"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp", "rsp",
		"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"},
	[]string{"rbx", "rbp", "r12", "r13", "r14", "r15"},
	"rsp", "rbp")

// Aarch64 is the general purpose register file of ARMv8. Registers x19-x28 are callee-saved, x29 is the frame
// pointer and x30 the link register.
var Aarch64 = newTable("aarch64",
	numbered("x", 31, "sp"),
	numbered("x", 29)[19:29],
	"sp", "x29")

// Riscv64 is the integer register file of RV64I. Registers x8, x9 and x18-x27 are callee-saved.
var Riscv64 = newTable("riscv64",
	numbered("x", 32),
	append([]string{"x8", "x9"}, numbered("x", 28)[18:28]...),
	"x2", "x8")

// ---------------------
// ----- Functions -----
// ---------------------

// ForArch returns the register table of target architecture arch, as defined by the util package constants.
func ForArch(arch int) (*Table, error) {
	switch arch {
	case util.X86_64, util.UnknownArch:
		return X86_64, nil
	case util.Aarch64:
		return Aarch64, nil
	case util.Riscv64:
		return Riscv64, nil
	default:
		return nil, fmt.Errorf("no register table for target architecture %d", arch)
	}
}

// Arch returns the architecture identifier of Table t.
func (t *Table) Arch() string {
	return t.arch
}

// Len returns the number of registers in Table t.
func (t *Table) Len() int {
	return len(t.regs)
}

// Registers returns the precolored temporaries of Table t in register order.
func (t *Table) Registers() []temp.Temp {
	res := make([]temp.Temp, len(t.regs))
	for i1, e1 := range t.regs {
		res[i1] = e1.Temp
	}
	return res
}

// Register returns the description of precolored temporary tmp. The second return value is false if tmp is not
// a register of Table t.
func (t *Table) Register(tmp temp.Temp) (Register, bool) {
	if tmp < 0 || int(tmp) >= len(t.regs) {
		return Register{}, false
	}
	return t.regs[tmp], true
}

// Lookup returns the precolored temporary of the register named name.
func (t *Table) Lookup(name string) (temp.Temp, bool) {
	tmp, ok := t.byName[name]
	return tmp, ok
}

// Name returns the register name of tmp if tmp is precolored, or its default name otherwise.
func (t *Table) Name(tmp temp.Temp) string {
	if r, ok := t.Register(tmp); ok {
		return r.Name
	}
	return tmp.String()
}

// SP returns the stack pointer.
func (t *Table) SP() temp.Temp {
	return t.sp
}

// FP returns the frame pointer.
func (t *Table) FP() temp.Temp {
	return t.fp
}

// newTable builds a Table. It panics on inconsistent input, which can only happen when the package is edited.
func newTable(arch string, names, callee []string, sp, fp string) *Table {
	if len(names) >= int(temp.FirstVirtual) {
		panic(fmt.Sprintf("frame: %s has %d registers, at most %d supported", arch, len(names), temp.FirstVirtual))
	}
	t := &Table{
		arch:   arch,
		regs:   make([]Register, len(names)),
		byName: make(map[string]temp.Temp, len(names)),
	}
	for i1, e1 := range names {
		if _, ok := t.byName[e1]; ok {
			panic(fmt.Sprintf("frame: duplicate register %s in %s", e1, arch))
		}
		t.regs[i1] = Register{Temp: temp.Temp(i1), Name: e1}
		t.byName[e1] = temp.Temp(i1)
	}
	for _, e1 := range callee {
		t.regs[t.mustLookup(e1)].CalleeSaved = true
	}
	t.sp = t.mustLookup(sp)
	t.fp = t.mustLookup(fp)
	return t
}

// mustLookup returns the temporary of register name and panics if it doesn't exist.
func (t *Table) mustLookup(name string) temp.Temp {
	tmp, ok := t.byName[name]
	if !ok {
		panic(fmt.Sprintf("frame: unknown register %s in %s", name, t.arch))
	}
	return tmp
}

// numbered returns the names prefix0 .. prefix(n-1) followed by extra.
func numbered(prefix string, n int, extra ...string) []string {
	res := make([]string, 0, n+len(extra))
	for i1 := 0; i1 < n; i1++ {
		res = append(res, fmt.Sprintf("%s%d", prefix, i1))
	}
	return append(res, extra...)
}
