package assem

import (
	"fmt"
	"io"
	"tigerc/src/temp"

	"gopkg.in/yaml.v3"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Registers resolves register names to precolored temporaries.
type Registers interface {
	Lookup(name string) (temp.Temp, bool) // Lookup returns the precolored temporary of register name.
	Name(t temp.Temp) string              // Name returns the register name of t, or its default name.
}

// Program is a sequence of function bodies after instruction selection.
type Program struct {
	Functions []*Function
}

// Function is the instruction list of one function body together with the names of its temporaries.
type Function struct {
	Name  string       // Name of the function.
	Body  List         // Instructions of the function body.
	Temps temp.Factory // Factory that created the function's virtual temporaries.
	names map[temp.Temp]string
}

// yamlProgram is the on-disk layout of a Program.
type yamlProgram struct {
	Functions []yamlFunction `yaml:"functions"`
}

// yamlFunction is the on-disk layout of a Function.
type yamlFunction struct {
	Name string      `yaml:"name"`
	Body []yamlInstr `yaml:"body"`
}

// yamlInstr holds exactly one of Label, Move or Oper.
type yamlInstr struct {
	Label string    `yaml:"label"`
	Move  *yamlMove `yaml:"move"`
	Oper  *yamlOper `yaml:"oper"`
}

type yamlMove struct {
	Assem string `yaml:"assem"`
	Dst   string `yaml:"dst"`
	Src   string `yaml:"src"`
}

type yamlOper struct {
	Assem string   `yaml:"assem"`
	Dst   []string `yaml:"dst"`
	Src   []string `yaml:"src"`
	Jumps []string `yaml:"jumps"`
	Jmp   bool     `yaml:"jmp"` // Unconditional jump.
}

// ---------------------
// ----- Functions -----
// ---------------------

// Load decodes a YAML program from r. Register names are resolved through regs. Every other temporary name
// becomes a fresh virtual temporary of its function, and label names are resolved per function, such that jump
// targets refer to the same *temp.Label as the Label instruction defining them.
func Load(r io.Reader, regs Registers) (*Program, error) {
	var yp yamlProgram
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&yp); err != nil {
		return nil, fmt.Errorf("could not decode program: %s", err)
	}
	if len(yp.Functions) == 0 {
		return nil, fmt.Errorf("program has no functions")
	}

	p := &Program{Functions: make([]*Function, len(yp.Functions))}
	for i1, e1 := range yp.Functions {
		f, err := loadFunction(e1, regs)
		if err != nil {
			return nil, err
		}
		if len(f.Name) == 0 {
			f.Name = fmt.Sprintf("func%d", i1)
		}
		p.Functions[i1] = f
	}
	return p, nil
}

// loadFunction converts the on-disk function yf.
func loadFunction(yf yamlFunction, regs Registers) (*Function, error) {
	f := &Function{
		Name:  yf.Name,
		Body:  make(List, 0, len(yf.Body)),
		names: make(map[temp.Temp]string),
	}
	temps := make(map[string]temp.Temp)
	labels := make(map[string]*temp.Label)

	tmp := func(name string) (temp.Temp, error) {
		if len(name) == 0 {
			return 0, fmt.Errorf("empty temporary name")
		}
		if t, ok := regs.Lookup(name); ok {
			return t, nil
		}
		if t, ok := temps[name]; ok {
			return t, nil
		}
		t := f.Temps.NewTemp()
		temps[name] = t
		f.names[t] = name
		return t, nil
	}
	tmpList := func(names []string) ([]temp.Temp, error) {
		res := make([]temp.Temp, len(names))
		for i1, e1 := range names {
			t, err := tmp(e1)
			if err != nil {
				return nil, err
			}
			res[i1] = t
		}
		return res, nil
	}
	label := func(name string) *temp.Label {
		if l, ok := labels[name]; ok {
			return l
		}
		l := temp.NamedLabel(name)
		labels[name] = l
		return l
	}

	for i1, e1 := range yf.Body {
		n := 0
		if len(e1.Label) > 0 {
			n++
		}
		if e1.Move != nil {
			n++
		}
		if e1.Oper != nil {
			n++
		}
		if n != 1 {
			return nil, fmt.Errorf("function %s, instruction %d: expected exactly one of label, move or oper", yf.Name, i1)
		}

		switch {
		case len(e1.Label) > 0:
			f.Body = append(f.Body, NewLabel(label(e1.Label)))
		case e1.Move != nil:
			dst, err := tmp(e1.Move.Dst)
			if err != nil {
				return nil, fmt.Errorf("function %s, instruction %d: move destination: %s", yf.Name, i1, err)
			}
			src, err := tmp(e1.Move.Src)
			if err != nil {
				return nil, fmt.Errorf("function %s, instruction %d: move source: %s", yf.Name, i1, err)
			}
			f.Body = append(f.Body, NewMove(e1.Move.Assem, dst, src))
		default:
			dst, err := tmpList(e1.Oper.Dst)
			if err != nil {
				return nil, fmt.Errorf("function %s, instruction %d: destination: %s", yf.Name, i1, err)
			}
			src, err := tmpList(e1.Oper.Src)
			if err != nil {
				return nil, fmt.Errorf("function %s, instruction %d: source: %s", yf.Name, i1, err)
			}
			if len(e1.Oper.Jumps) == 0 {
				if e1.Oper.Jmp {
					return nil, fmt.Errorf("function %s, instruction %d: unconditional jump without targets", yf.Name, i1)
				}
				f.Body = append(f.Body, NewOper(e1.Oper.Assem, dst, src))
				continue
			}
			targets := make([]*temp.Label, len(e1.Oper.Jumps))
			for i2, e2 := range e1.Oper.Jumps {
				targets[i2] = label(e2)
			}
			f.Body = append(f.Body, NewJump(e1.Oper.Assem, dst, src, e1.Oper.Jmp, targets...))
		}
	}
	return f, nil
}

// Namer returns a Namer for the temporaries of Function f: registers are named by regs, virtual temporaries by
// the names they had in the program source.
func (f *Function) Namer(regs Registers) Namer {
	return func(t temp.Temp) string {
		if n, ok := f.names[t]; ok {
			return n
		}
		return regs.Name(t)
	}
}
