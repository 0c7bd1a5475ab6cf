// Package dump renders analysis results as human-readable tables.
package dump

import (
	"fmt"
	"strings"
	"tigerc/src/assem"
	"tigerc/src/frame"
	"tigerc/src/graph"
	"tigerc/src/liveness"
	"tigerc/src/temp"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Function renders the control flow graph with live sets, the interference graph and the move candidates of res.
// Temporaries are named by namer, or by their default names if namer is nil. The precolored registers are
// described by regs, which may be nil.
func Function(res *liveness.Result, namer assem.Namer, regs *frame.Table) string {
	sb := strings.Builder{}
	sb.WriteString(Flow(res, namer))
	sb.WriteString("\n")
	sb.WriteString(Interference(res, namer, regs))
	sb.WriteString("\n")
	sb.WriteString(Moves(res, namer))
	sb.WriteString("\n")
	return sb.String()
}

// Flow renders one row per instruction: its successors, def and use sets and the live-in and live-out sets.
func Flow(res *liveness.Result, namer assem.Namer) string {
	namer = orDefault(namer)
	tw := table.NewWriter()
	tw.SetTitle(fmt.Sprintf("Flow graph of %s", res.Func))
	tw.AppendHeader(table.Row{"#", "Instruction", "Succ", "Def", "Use", "In", "Out"})

	fg := res.Flow
	for _, e1 := range fg.Nodes() {
		tw.AppendRow(table.Row{
			int(e1),
			fg.Instr(e1).Format(namer),
			nodes(fg.Succ(e1)),
			temp.NewSet(fg.Def(e1)...).Format(namer),
			temp.NewSet(fg.Use(e1)...).Format(namer),
			res.Live.In(e1).Format(namer),
			res.Live.Out(e1).Format(namer),
		})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d edges, %d passes", fg.Edges(), res.Live.Passes())})
	return tw.Render()
}

// Interference renders one row per interference node. Precolored nodes are omitted unless they interfere with a
// virtual temporary; their Saved column tells whether a call preserves the register.
func Interference(res *liveness.Result, namer assem.Namer, regs *frame.Table) string {
	namer = orDefault(namer)
	ig := res.Graph.Interference
	tw := table.NewWriter()
	tw.SetTitle(fmt.Sprintf("Interference graph of %s", res.Func))
	tw.AppendHeader(table.Row{"Node", "Temp", "Saved", "Degree", "Interferes with"})

	for _, e1 := range ig.Nodes() {
		if ig.IsPrecolored(e1) && !virtualNeighbour(ig, e1) {
			continue
		}
		names := make([]string, 0, ig.Degree(e1))
		for _, e2 := range ig.Adj(e1) {
			names = append(names, namer(ig.Temp(e2)))
		}
		name, saved := namer(ig.Temp(e1)), ""
		if ig.IsPrecolored(e1) {
			name += "*"
			saved = savedBy(regs, ig.Temp(e1))
		}
		tw.AppendRow(table.Row{int(e1), name, saved, ig.Degree(e1), strings.Join(names, ", ")})
	}
	tw.AppendFooter(table.Row{"", "", "", ig.Edges(), fmt.Sprintf("%d nodes, %d precolored", ig.Len(), len(ig.Precolored()))})
	return tw.Render()
}

// Moves renders the move coalescing candidates in program order.
func Moves(res *liveness.Result, namer assem.Namer) string {
	namer = orDefault(namer)
	ig := res.Graph.Interference
	tw := table.NewWriter()
	tw.SetTitle(fmt.Sprintf("Moves of %s", res.Func))
	tw.AppendHeader(table.Row{"Dst", "Src", "Interfere"})
	for _, e1 := range res.Graph.Moves.Moves() {
		tw.AppendRow(table.Row{namer(ig.Temp(e1.Dst)), namer(ig.Temp(e1.Src)), ig.Interferes(e1.Dst, e1.Src)})
	}
	return tw.Render()
}

// savedBy returns "callee" for a callee-saved register and "caller" for any other register of regs.
func savedBy(regs *frame.Table, t temp.Temp) string {
	if regs == nil {
		return ""
	}
	r, ok := regs.Register(t)
	switch {
	case !ok:
		return ""
	case r.CalleeSaved:
		return "callee"
	default:
		return "caller"
	}
}

func orDefault(namer assem.Namer) assem.Namer {
	if namer == nil {
		return temp.Temp.String
	}
	return namer
}

func virtualNeighbour(ig *liveness.IGraph, n graph.Node) bool {
	for _, e1 := range ig.Adj(n) {
		if !ig.IsPrecolored(e1) {
			return true
		}
	}
	return false
}

func nodes(ns []graph.Node) string {
	s := make([]string, len(ns))
	for i1, e1 := range ns {
		s[i1] = fmt.Sprint(int(e1))
	}
	return strings.Join(s, ", ")
}
