// Package flowgraph builds the control flow graph of a function body: one node per instruction, with an edge for
// every possible transfer of control between two instructions.
package flowgraph

import (
	"errors"
	"tigerc/src/assem"
	"tigerc/src/graph"
	"tigerc/src/temp"
	"tigerc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Graph is the control flow graph of one function. Node i wraps instruction i of the function body.
type Graph struct {
	*graph.Graph[assem.Instr]
	fn string // Name of the function.
}

// ---------------------
// ----- Constants -----
// ---------------------

// ErrUnresolvedLabel is reported for a jump to a label that no instruction of the function defines.
var ErrUnresolvedLabel = errors.New("unresolved jump target")

// ---------------------
// ----- Functions -----
// ---------------------

// Build validates the body of function fn and constructs its control flow graph. On error no graph is returned.
// Every error is a *util.InternalError.
func Build(fn string, body assem.List) (*Graph, error) {
	if err := body.Validate(fn); err != nil {
		return nil, err
	}

	g := &Graph{
		Graph: graph.New[assem.Instr](len(body)),
		fn:    fn,
	}

	// Create one node per instruction and remember where each label is defined.
	labels := make(map[*temp.Label]graph.Node)
	for _, e1 := range body {
		n := g.NewNode(e1)
		if l, ok := e1.(*assem.Label); ok {
			labels[l.Label] = n
		}
	}

	// Add control flow edges. The last instruction has no successors, but its jump targets must still resolve.
	last := graph.Node(len(body) - 1)
	for i1, e1 := range body {
		n := graph.Node(i1)
		o, ok := e1.(*assem.Oper)
		if !ok || !o.IsJump() {
			if n < last {
				g.AddEdge(n, n+1)
			}
			continue
		}
		for _, e2 := range o.Jumps.Labels {
			dst, ok := labels[e2]
			if !ok {
				return nil, util.NewInternalError(fn, i1, ErrUnresolvedLabel, "label %s", e2.Name())
			}
			if n < last {
				g.AddEdge(n, dst)
			}
		}
		if !o.Jumps.Unconditional && n < last {
			g.AddEdge(n, n+1)
		}
	}
	return g, nil
}

// Func returns the name of the function of Graph g.
func (g *Graph) Func() string {
	return g.fn
}

// Instr returns the instruction wrapped by node n.
func (g *Graph) Instr(n graph.Node) assem.Instr {
	return g.Info(n)
}

// Def returns the temporaries defined by the instruction of node n.
func (g *Graph) Def(n graph.Node) []temp.Temp {
	return g.Info(n).Def()
}

// Use returns the temporaries used by the instruction of node n.
func (g *Graph) Use(n graph.Node) []temp.Temp {
	return g.Info(n).Use()
}

// IsMove returns true if node n wraps a Move instruction.
func (g *Graph) IsMove(n graph.Node) bool {
	return g.Info(n).Kind() == assem.KindMove
}

// Exits returns the nodes without successors in ascending order.
func (g *Graph) Exits() []graph.Node {
	res := make([]graph.Node, 0, 1)
	for _, e1 := range g.Nodes() {
		if g.OutDegree(e1) == 0 {
			res = append(res, e1)
		}
	}
	return res
}
