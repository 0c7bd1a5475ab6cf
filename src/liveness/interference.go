package liveness

import (
	"log/slog"
	"tigerc/src/assem"
	"tigerc/src/graph"
	"tigerc/src/liveness/flowgraph"
	"tigerc/src/temp"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Registers supplies the precolored temporaries of the target machine.
type Registers interface {
	Registers() []temp.Temp // Registers returns one temporary per physical register.
}

// LiveGraph is the result of interference analysis of one function, consumed by register allocation.
type LiveGraph struct {
	Interference *IGraph                  // Register interference graph.
	Moves        *MoveList                // Move coalescing candidates in program order, without duplicates.
	NodeMoves    map[graph.Node]*MoveList // Moves each node takes part in, as source or destination.
	Defs         map[graph.Node][]int     // Indices of the instructions defining each node.
	Uses         map[graph.Node][]int     // Indices of the instructions using each node.
}

// Result bundles the control flow graph, live sets and interference graph of one function.
type Result struct {
	Func  string
	Flow  *flowgraph.Graph
	Live  *LiveMap
	Graph *LiveGraph
}

// ---------------------
// ----- Functions -----
// ---------------------

// Analyze builds the control flow graph of body, solves liveness and builds the interference graph of function
// fn. Either the complete Result or an error is returned, never both.
func Analyze(fn string, body assem.List, regs Registers) (*Result, error) {
	fg, err := flowgraph.Build(fn, body)
	if err != nil {
		return nil, err
	}
	lm := NewLiveMap(fg)
	passes := lm.Solve()
	lg := Build(lm, regs)

	slog.Debug("liveness",
		"func", fn,
		"instructions", fg.Len(),
		"edges", fg.Edges(),
		"passes", passes,
		"nodes", lg.Interference.Len(),
		"interferences", lg.Interference.Edges(),
		"moves", lg.Moves.Len())

	return &Result{
		Func:  fn,
		Flow:  fg,
		Live:  lm,
		Graph: lg,
	}, nil
}

// Build derives the interference graph and the move coalescing candidates from the solved LiveMap lm. The graph
// is seeded with the precolored temporaries of regs, which may be nil.
//
// A temporary defined by an instruction interferes with every other temporary live out of that instruction. The
// exception is a move d <- s: there d does not interfere with s through this instruction, such that the move may
// be coalesced if nothing else forces them apart.
func Build(lm *LiveMap, regs Registers) *LiveGraph {
	fg := lm.Flow()
	var pre []temp.Temp
	if regs != nil {
		pre = regs.Registers()
	}
	ig := newIGraph(pre, fg.Len())
	lg := &LiveGraph{
		Interference: ig,
		Moves:        &MoveList{},
		NodeMoves:    make(map[graph.Node]*MoveList),
		Defs:         make(map[graph.Node][]int),
		Uses:         make(map[graph.Node][]int),
	}

	for _, e1 := range fg.Nodes() {
		for _, e2 := range fg.Def(e1) {
			n := ig.node(e2)
			lg.Defs[n] = append(lg.Defs[n], int(e1))
		}
		for _, e2 := range fg.Use(e1) {
			n := ig.node(e2)
			lg.Uses[n] = append(lg.Uses[n], int(e1))
		}

		live := lm.Out(e1).Temps()

		if mv, ok := fg.Instr(e1).(*assem.Move); ok {
			src, dst := ig.node(mv.Src), ig.node(mv.Dst)
			lg.addMove(src, dst)
			for _, e2 := range live {
				if e2 == mv.Src || e2 == mv.Dst {
					continue
				}
				ig.addInterference(dst, ig.node(e2))
			}
			continue
		}

		for _, e2 := range fg.Def(e1) {
			d := ig.node(e2)
			for _, e3 := range live {
				if e3 == e2 {
					continue
				}
				ig.addInterference(d, ig.node(e3))
			}
		}
	}
	return lg
}

// addMove records the move src -> dst once, both in the worklist and in the move lists of its nodes.
func (lg *LiveGraph) addMove(src, dst graph.Node) {
	if lg.Moves.Contain(src, dst) {
		return
	}
	lg.Moves.Append(src, dst)
	lg.nodeMoves(src).Append(src, dst)
	if dst != src {
		lg.nodeMoves(dst).Append(src, dst)
	}
}

// nodeMoves returns the move list of node n, creating it if necessary.
func (lg *LiveGraph) nodeMoves(n graph.Node) *MoveList {
	l, ok := lg.NodeMoves[n]
	if !ok {
		l = &MoveList{}
		lg.NodeMoves[n] = l
	}
	return l
}

// MovesOf returns the moves node n takes part in. The result is never nil.
func (lg *LiveGraph) MovesOf(n graph.Node) *MoveList {
	if l, ok := lg.NodeMoves[n]; ok {
		return l
	}
	return &MoveList{}
}

// MoveRelated returns true if node n is the source or destination of any move.
func (lg *LiveGraph) MoveRelated(n graph.Node) bool {
	return lg.NodeMoves[n].Len() > 0
}
