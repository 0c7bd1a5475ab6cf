package liveness

import (
	"tigerc/src/graph"
	"tigerc/src/temp"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// IGraph is a register interference graph. There is one node per temporary, and an undirected edge between two
// temporaries that must not share a register. Edges are symmetric and never connect a node with itself.
// Precolored nodes are created before any other node and are never removed.
type IGraph struct {
	g          *graph.Graph[temp.Temp]
	nodes      map[temp.Temp]graph.Node // Node of every temporary seen so far.
	precolored int                      // Nodes [0, precolored) are precolored.
}

// ---------------------
// ----- Functions -----
// ---------------------

// newIGraph returns an IGraph seeded with one node per precolored register in regs. Physical registers are
// distinct, so the precolored nodes interfere with each other.
func newIGraph(regs []temp.Temp, hint int) *IGraph {
	ig := &IGraph{
		g:     graph.New[temp.Temp](len(regs) + hint),
		nodes: make(map[temp.Temp]graph.Node, len(regs)+hint),
	}
	for _, e1 := range regs {
		if _, ok := ig.nodes[e1]; ok {
			continue
		}
		ig.nodes[e1] = ig.g.NewNode(e1)
	}
	ig.precolored = ig.g.Len()
	for i1 := 0; i1 < ig.precolored; i1++ {
		for i2 := i1 + 1; i2 < ig.precolored; i2++ {
			ig.addInterference(graph.Node(i1), graph.Node(i2))
		}
	}
	return ig
}

// node returns the node of temporary t, creating it on first reference.
func (ig *IGraph) node(t temp.Temp) graph.Node {
	if n, ok := ig.nodes[t]; ok {
		return n
	}
	n := ig.g.NewNode(t)
	ig.nodes[t] = n
	return n
}

// addInterference adds the undirected edge a - b. Self edges are ignored.
func (ig *IGraph) addInterference(a, b graph.Node) {
	if a == b {
		return
	}
	ig.g.AddEdge(a, b)
	ig.g.AddEdge(b, a)
}

// Len returns the number of nodes.
func (ig *IGraph) Len() int {
	return ig.g.Len()
}

// Nodes returns all nodes, precolored nodes first.
func (ig *IGraph) Nodes() []graph.Node {
	return ig.g.Nodes()
}

// Precolored returns the precolored nodes.
func (ig *IGraph) Precolored() []graph.Node {
	return ig.g.Nodes()[:ig.precolored]
}

// IsPrecolored returns true if node n is bound to a physical register.
func (ig *IGraph) IsPrecolored(n graph.Node) bool {
	return int(n) < ig.precolored
}

// Temp returns the temporary of node n.
func (ig *IGraph) Temp(n graph.Node) temp.Temp {
	return ig.g.Info(n)
}

// Lookup returns the node of temporary t. The second return value is false if t is neither precolored nor
// referenced by the function.
func (ig *IGraph) Lookup(t temp.Temp) (graph.Node, bool) {
	n, ok := ig.nodes[t]
	return n, ok
}

// Adj returns the nodes interfering with n in ascending order.
func (ig *IGraph) Adj(n graph.Node) []graph.Node {
	return ig.g.Succ(n)
}

// Degree returns the number of nodes interfering with n.
func (ig *IGraph) Degree(n graph.Node) int {
	return ig.g.OutDegree(n)
}

// Interferes returns true if a and b interfere.
func (ig *IGraph) Interferes(a, b graph.Node) bool {
	return ig.g.GoesTo(a, b)
}

// Edges returns the number of undirected interference edges.
func (ig *IGraph) Edges() int {
	return ig.g.Edges() / 2
}
