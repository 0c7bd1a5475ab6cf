// Package graph provides a directed graph whose nodes live in an arena and are addressed by integer indices.
// Both the control flow graph and the register interference graph are built on it.
package graph

import (
	"fmt"

	"golang.org/x/tools/container/intsets"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Node is the index of a node in its Graph. Nodes are only meaningful together with the Graph that created them.
type Node int

// Graph is a directed graph with a payload of type T per node. Nodes are never removed.
type Graph[T any] struct {
	info  []T               // info holds the payload of every node, indexed by Node.
	succ  []*intsets.Sparse // succ holds the successor set of every node.
	pred  []*intsets.Sparse // pred holds the predecessor set of every node.
	edges int               // edges is the number of directed edges.
}

// ---------------------
// ----- Functions -----
// ---------------------

// New returns an empty Graph with room for n nodes.
func New[T any](n int) *Graph[T] {
	if n < 0 {
		n = 0
	}
	return &Graph[T]{
		info: make([]T, 0, n),
		succ: make([]*intsets.Sparse, 0, n),
		pred: make([]*intsets.Sparse, 0, n),
	}
}

// NewNode adds a node holding info to g and returns its index.
func (g *Graph[T]) NewNode(info T) Node {
	g.info = append(g.info, info)
	g.succ = append(g.succ, &intsets.Sparse{})
	g.pred = append(g.pred, &intsets.Sparse{})
	return Node(len(g.info) - 1)
}

// Len returns the number of nodes in g.
func (g *Graph[T]) Len() int {
	return len(g.info)
}

// Edges returns the number of directed edges in g.
func (g *Graph[T]) Edges() int {
	return g.edges
}

// Nodes returns all nodes of g in creation order.
func (g *Graph[T]) Nodes() []Node {
	res := make([]Node, len(g.info))
	for i1 := range res {
		res[i1] = Node(i1)
	}
	return res
}

// Info returns the payload of node n.
func (g *Graph[T]) Info(n Node) T {
	g.check(n)
	return g.info[n]
}

// AddEdge adds the directed edge from -> to. Adding an existing edge has no effect.
func (g *Graph[T]) AddEdge(from, to Node) {
	g.check(from)
	g.check(to)
	if g.succ[from].Insert(int(to)) {
		g.pred[to].Insert(int(from))
		g.edges++
	}
}

// GoesTo returns true if the directed edge from -> to exists.
func (g *Graph[T]) GoesTo(from, to Node) bool {
	g.check(from)
	g.check(to)
	return g.succ[from].Has(int(to))
}

// Succ returns the successors of n in ascending order.
func (g *Graph[T]) Succ(n Node) []Node {
	g.check(n)
	return toNodes(g.succ[n])
}

// Pred returns the predecessors of n in ascending order.
func (g *Graph[T]) Pred(n Node) []Node {
	g.check(n)
	return toNodes(g.pred[n])
}

// OutDegree returns the number of successors of n.
func (g *Graph[T]) OutDegree(n Node) int {
	g.check(n)
	return g.succ[n].Len()
}

// check panics if n is not a node of g. An out of range node is a programming error in the caller.
func (g *Graph[T]) check(n Node) {
	if n < 0 || int(n) >= len(g.info) {
		panic(fmt.Sprintf("graph: node %d out of range [0, %d)", n, len(g.info)))
	}
}

// toNodes converts the members of s to a slice of Node.
func toNodes(s *intsets.Sparse) []Node {
	ids := s.AppendTo(make([]int, 0, s.Len()))
	res := make([]Node, len(ids))
	for i1, e1 := range ids {
		res[i1] = Node(e1)
	}
	return res
}
