// Package liveness computes the temporaries live at every instruction of a function body and derives from them
// the register interference graph and the move coalescing candidates consumed by register allocation.
package liveness

import (
	"fmt"
	"tigerc/src/graph"
	"tigerc/src/liveness/flowgraph"
	"tigerc/src/temp"
	"tigerc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// LiveMap holds the live-in and live-out sets of every node of a control flow graph. The sets are computed by
// backward iterative dataflow:
//
//	out[n] = ∪ in[s] for s in succ(n)
//	in[n]  = use[n] ∪ (out[n] − def[n])
type LiveMap struct {
	fg       *flowgraph.Graph
	in, out  []*temp.Set  // Live-in and live-out sets indexed by node.
	def, use []*temp.Set  // Define and use sets indexed by node.
	order    []graph.Node // Evaluation order of one pass.
	passes   int          // Number of passes performed so far.
}

// dfsEntry is a node on the depth first search stack together with the index of its next unvisited neighbour.
type dfsEntry struct {
	n    graph.Node
	next int
	adj  []graph.Node
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewLiveMap returns a LiveMap of fg with all sets empty. The graph must not be modified afterwards.
func NewLiveMap(fg *flowgraph.Graph) *LiveMap {
	l := fg.Len()
	lm := &LiveMap{
		fg:    fg,
		in:    make([]*temp.Set, l),
		out:   make([]*temp.Set, l),
		def:   make([]*temp.Set, l),
		use:   make([]*temp.Set, l),
		order: order(fg),
	}
	for i1 := 0; i1 < l; i1++ {
		n := graph.Node(i1)
		lm.in[i1] = &temp.Set{}
		lm.out[i1] = &temp.Set{}
		lm.def[i1] = temp.NewSet(fg.Def(n)...)
		lm.use[i1] = temp.NewSet(fg.Use(n)...)
	}
	return lm
}

// Step recomputes every live-in and live-out set once and returns true if any set changed.
func (lm *LiveMap) Step() bool {
	changed := false
	in, out := &temp.Set{}, &temp.Set{}
	for _, e1 := range lm.order {
		out.Clear()
		for _, e2 := range lm.fg.Succ(e1) {
			out.UnionWith(lm.in[e2])
		}
		in.Copy(out)
		in.DifferenceWith(lm.def[e1])
		in.UnionWith(lm.use[e1])

		if !out.Equals(lm.out[e1]) {
			lm.out[e1].Copy(out)
			changed = true
		}
		if !in.Equals(lm.in[e1]) {
			lm.in[e1].Copy(in)
			changed = true
		}
	}
	lm.passes++
	return changed
}

// Solve repeats Step until a full pass changes no set, and returns the total number of passes performed.
// Termination is guaranteed: sets only grow and are bounded by the temporaries of the function.
func (lm *LiveMap) Solve() int {
	for lm.Step() {
	}
	return lm.passes
}

// Passes returns the number of passes performed so far.
func (lm *LiveMap) Passes() int {
	return lm.passes
}

// In returns the live-in set of node n. The set must not be modified.
func (lm *LiveMap) In(n graph.Node) *temp.Set {
	return lm.in[n]
}

// Out returns the live-out set of node n. The set must not be modified.
func (lm *LiveMap) Out(n graph.Node) *temp.Set {
	return lm.out[n]
}

// Flow returns the control flow graph of LiveMap lm.
func (lm *LiveMap) Flow() *flowgraph.Graph {
	return lm.fg
}

// Verify returns an error naming the first node whose sets do not satisfy the dataflow equations.
func (lm *LiveMap) Verify() error {
	in, out := &temp.Set{}, &temp.Set{}
	for _, e1 := range lm.fg.Nodes() {
		out.Clear()
		for _, e2 := range lm.fg.Succ(e1) {
			out.UnionWith(lm.in[e2])
		}
		in.Copy(out)
		in.DifferenceWith(lm.def[e1])
		in.UnionWith(lm.use[e1])
		if !out.Equals(lm.out[e1]) {
			return fmt.Errorf("node %d: live-out %s, expected %s", e1, lm.out[e1], out)
		}
		if !in.Equals(lm.in[e1]) {
			return fmt.Errorf("node %d: live-in %s, expected %s", e1, lm.in[e1], in)
		}
	}
	return nil
}

// order returns the nodes of fg in reverse postorder of the transposed graph, searched from every exit node.
// Nodes that cannot reach an exit, such as the body of an infinite loop, follow in reverse index order. A
// backward analysis evaluated in this order sees the live-in sets of most successors before their predecessors.
func order(fg *flowgraph.Graph) []graph.Node {
	visited := make([]bool, fg.Len())
	post := make([]graph.Node, 0, fg.Len())

	visit := func(root graph.Node) {
		st := util.Stack[*dfsEntry]{}
		visited[root] = true
		st.Push(&dfsEntry{n: root, adj: fg.Pred(root)})
		for st.Size() > 0 {
			e, _ := st.Peek()
			if e.next < len(e.adj) {
				p := e.adj[e.next]
				e.next++
				if !visited[p] {
					visited[p] = true
					st.Push(&dfsEntry{n: p, adj: fg.Pred(p)})
				}
				continue
			}
			st.Pop()
			post = append(post, e.n)
		}
	}

	for _, e1 := range fg.Exits() {
		visit(e1)
	}
	for i1 := fg.Len() - 1; i1 >= 0; i1-- {
		if !visited[i1] {
			visit(graph.Node(i1))
		}
	}

	// Reverse postorder.
	for i1, j1 := 0, len(post)-1; i1 < j1; i1, j1 = i1+1, j1-1 {
		post[i1], post[j1] = post[j1], post[i1]
	}
	return post
}
