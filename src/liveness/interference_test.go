package liveness_test

import (
	"errors"
	"tigerc/src/assem"
	"tigerc/src/frame"
	"tigerc/src/graph"
	"tigerc/src/liveness"
	"tigerc/src/liveness/flowgraph"
	"tigerc/src/temp"
	"tigerc/src/util"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// node returns the interference node of t and fails if t has none.
func node(ig *liveness.IGraph, t temp.Temp) graph.Node {
	n, ok := ig.Lookup(t)
	ExpectWithOffset(1, ok).To(BeTrue(), "no node for %s", t)
	return n
}

// expectSymmetric checks that the interference relation of ig is symmetric and irreflexive.
func expectSymmetric(ig *liveness.IGraph) {
	for _, e1 := range ig.Nodes() {
		for _, e2 := range ig.Adj(e1) {
			ExpectWithOffset(1, e2).NotTo(Equal(e1))
			ExpectWithOffset(1, ig.Interferes(e2, e1)).To(BeTrue())
		}
	}
}

var _ = Describe("Interference", func() {
	var (
		mockCtrl *gomock.Controller
		regs     *MockRegisters
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		regs = NewMockRegisters(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	analyze := func(body assem.List) *liveness.Result {
		res, err := liveness.Analyze("f", body, regs)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return res
	}

	Context("moves", func() {
		BeforeEach(func() {
			regs.EXPECT().Registers().Return(nil)
		})

		It("should not make a move's destination interfere with its source", func() {
			res := analyze(assem.List{
				assem.NewLabel(temp.NamedLabel("L0")),
				assem.NewMove("movq `s0, `d0", tb, ta),
				assem.NewOper("use `s0", nil, temps(tb)),
			})
			ig := res.Graph.Interference

			Expect(res.Flow.Len()).To(Equal(3))
			Expect(res.Live.Out(1).Temps()).To(Equal(temps(tb)))
			Expect(ig.Interferes(node(ig, ta), node(ig, tb))).To(BeFalse())
			Expect(res.Graph.Moves.Moves()).To(Equal([]liveness.Move{{Src: node(ig, ta), Dst: node(ig, tb)}}))
		})

		It("should exempt the source even when it stays live after the move", func() {
			res := analyze(assem.List{
				assem.NewOper("def `d0", temps(ta), nil),
				assem.NewMove("movq `s0, `d0", tb, ta),
				assem.NewOper("use `s0, `s1", nil, temps(ta, tb)),
			})
			ig := res.Graph.Interference

			Expect(res.Live.Out(1).Temps()).To(Equal(temps(ta, tb)))
			Expect(ig.Interferes(node(ig, ta), node(ig, tb))).To(BeFalse())
			Expect(ig.Edges()).To(Equal(0))
		})

		It("should make an operation's destination interfere with its live source", func() {
			res := analyze(assem.List{
				assem.NewOper("def `d0", temps(ta), nil),
				assem.NewOper("neg `d0, `s0", temps(tb), temps(ta)),
				assem.NewOper("use `s0, `s1", nil, temps(ta, tb)),
			})
			ig := res.Graph.Interference

			Expect(ig.Interferes(node(ig, ta), node(ig, tb))).To(BeTrue())
			Expect(ig.Interferes(node(ig, tb), node(ig, ta))).To(BeTrue())
		})

		It("should make a move's destination interfere with other live temporaries", func() {
			res := analyze(assem.List{
				assem.NewOper("def `d0, `d1", temps(ta, tx), nil),
				assem.NewMove("movq `s0, `d0", tb, ta),
				assem.NewOper("use `s0, `s1", nil, temps(tb, tx)),
			})
			ig := res.Graph.Interference

			Expect(ig.Interferes(node(ig, tb), node(ig, tx))).To(BeTrue())
			Expect(ig.Interferes(node(ig, ta), node(ig, tx))).To(BeTrue())
			Expect(ig.Interferes(node(ig, ta), node(ig, tb))).To(BeFalse())
			expectSymmetric(ig)
		})

		It("should make temporaries defined together interfere", func() {
			res := analyze(assem.List{
				assem.NewOper("def `d0, `d1", temps(ta, tb), nil),
				assem.NewMove("movq `s0, `d0", tc, ta),
			})
			ig := res.Graph.Interference

			Expect(res.Live.Out(0).Has(ta)).To(BeTrue())
			Expect(ig.Interferes(node(ig, ta), node(ig, tb))).To(BeTrue())
			Expect(ig.Interferes(node(ig, tc), node(ig, ta))).To(BeFalse())
		})

		It("should record every move once and index it by node", func() {
			top := temp.NamedLabel("top")
			res := analyze(assem.List{
				assem.NewLabel(top),
				assem.NewMove("mov", tb, ta),
				assem.NewMove("mov", tc, tb),
				assem.NewMove("mov", tb, ta),
				assem.NewJump("jne", nil, temps(tc), false, top),
			})
			ig := res.Graph.Interference
			a, b, c := node(ig, ta), node(ig, tb), node(ig, tc)

			Expect(res.Graph.Moves.Moves()).To(Equal([]liveness.Move{{Src: a, Dst: b}, {Src: b, Dst: c}}))
			Expect(res.Graph.MovesOf(b).Moves()).To(Equal([]liveness.Move{{Src: a, Dst: b}, {Src: b, Dst: c}}))
			Expect(res.Graph.MovesOf(a).Len()).To(Equal(1))
			Expect(res.Graph.MoveRelated(c)).To(BeTrue())
			Expect(res.Graph.Defs[b]).To(Equal([]int{1, 3}))
			Expect(res.Graph.Uses[b]).To(Equal([]int{2}))
			Expect(res.Graph.Uses[c]).To(Equal([]int{4}))
		})
	})

	Context("precolored registers", func() {
		It("should seed precolored nodes first and keep them distinct", func() {
			regs.EXPECT().Registers().Return(temps(0, 1, 2)).Times(1)

			res := analyze(assem.List{
				assem.NewMove("mov", ta, 1),
				assem.NewOper("call", temps(0, 2), temps(ta)),
				assem.NewOper("ret", nil, temps(0, ta)),
			})
			ig := res.Graph.Interference

			Expect(ig.Precolored()).To(Equal([]graph.Node{0, 1, 2}))
			for _, e1 := range ig.Precolored() {
				Expect(ig.IsPrecolored(e1)).To(BeTrue())
				Expect(ig.Temp(e1)).To(Equal(temp.Temp(e1)))
			}
			Expect(ig.IsPrecolored(node(ig, ta))).To(BeFalse())
			Expect(ig.Interferes(0, 1)).To(BeTrue())
			Expect(ig.Interferes(1, 2)).To(BeTrue())

			// The call defines r0 and r2 while a stays live.
			a := node(ig, ta)
			Expect(ig.Interferes(0, a)).To(BeTrue())
			Expect(ig.Interferes(2, a)).To(BeTrue())
			Expect(ig.Interferes(1, a)).To(BeFalse())
			Expect(ig.Degree(a)).To(Equal(2))
			Expect(ig.Len()).To(Equal(4))
			expectSymmetric(ig)
		})

		It("should work with the shared register tables", func() {
			rdi, _ := frame.X86_64.Lookup("rdi")
			rax, _ := frame.X86_64.Lookup("rax")
			res, err := liveness.Analyze("f", assem.List{
				assem.NewMove("movq `s0, `d0", ta, rdi),
				assem.NewOper("addq `s0, `d0", temps(ta), temps(ta, rdi)),
				assem.NewMove("movq `s0, `d0", rax, ta),
				assem.NewOper("ret", nil, temps(rax)),
			}, frame.X86_64)
			Expect(err).NotTo(HaveOccurred())
			ig := res.Graph.Interference

			Expect(ig.Precolored()).To(HaveLen(frame.X86_64.Len()))
			Expect(ig.Edges()).To(BeNumerically(">=", frame.X86_64.Len()*(frame.X86_64.Len()-1)/2))
			Expect(ig.Interferes(node(ig, ta), node(ig, rdi))).To(BeFalse())
			Expect(ig.Interferes(node(ig, rax), node(ig, ta))).To(BeFalse())
			Expect(res.Graph.Moves.Len()).To(Equal(2))
			expectSymmetric(ig)
		})
	})

	Context("errors", func() {
		It("should return no result for an unresolved jump target", func() {
			res, err := liveness.Analyze("broken", assem.List{
				assem.NewJump("jmp", nil, nil, true, temp.NamedLabel("nowhere")),
			}, regs)

			Expect(res).To(BeNil())
			Expect(errors.Is(err, flowgraph.ErrUnresolvedLabel)).To(BeTrue())
			var ie *util.InternalError
			Expect(errors.As(err, &ie)).To(BeTrue())
			Expect(ie.Func).To(Equal("broken"))
			Expect(ie.Index).To(Equal(0))
		})

		It("should reject an empty body", func() {
			_, err := liveness.Analyze("empty", nil, regs)
			Expect(err).To(MatchError(assem.ErrEmpty))
		})
	})

	It("should accept a nil register source", func() {
		res, err := liveness.Analyze("f", assem.List{assem.NewOper("def", temps(ta, tb), nil)}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Graph.Interference.Precolored()).To(BeEmpty())
		Expect(res.Graph.Interference.Len()).To(Equal(2))
	})
})
