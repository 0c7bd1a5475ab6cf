package liveness_test

import (
	"tigerc/src/assem"
	"tigerc/src/graph"
	"tigerc/src/liveness"
	"tigerc/src/liveness/flowgraph"
	"tigerc/src/temp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Program temporaries used throughout the specs.
const (
	ta temp.Temp = temp.FirstVirtual + iota
	tb
	tc
	td
	tx
)

func solve(body assem.List) *liveness.LiveMap {
	fg, err := flowgraph.Build("f", body)
	Expect(err).NotTo(HaveOccurred())
	lm := liveness.NewLiveMap(fg)
	lm.Solve()
	return lm
}

func temps(ts ...temp.Temp) []temp.Temp {
	return ts
}

var _ = Describe("LiveMap", func() {
	Context("straight-line code", func() {
		It("should propagate a moved value to its use", func() {
			lm := solve(assem.List{
				assem.NewLabel(temp.NamedLabel("L0")),
				assem.NewMove("movq `s0, `d0", tb, ta),
				assem.NewOper("use `s0", nil, temps(tb)),
			})

			Expect(lm.Out(1).Temps()).To(Equal(temps(tb)))
			Expect(lm.In(1).Temps()).To(Equal(temps(ta)))
			Expect(lm.In(0).Temps()).To(Equal(temps(ta)))
			Expect(lm.Out(2).IsEmpty()).To(BeTrue())
		})

		It("should kill a temporary at its definition", func() {
			lm := solve(assem.List{
				assem.NewOper("def `d0", temps(ta), nil),
				assem.NewOper("def `d0, use `s0", temps(tb), temps(ta)),
				assem.NewOper("use `s0", nil, temps(tb)),
			})

			Expect(lm.In(0).IsEmpty()).To(BeTrue())
			Expect(lm.Out(0).Temps()).To(Equal(temps(ta)))
			Expect(lm.Out(1).Temps()).To(Equal(temps(tb)))
		})
	})

	Context("loops", func() {
		It("should keep a loop-carried temporary live around the back edge", func() {
			top := temp.NamedLabel("top")
			lm := solve(assem.List{
				assem.NewLabel(top),
				assem.NewOper("b = a + 1", temps(tb), temps(ta)),
				assem.NewOper("a = b * 2", temps(ta), temps(tb)),
				assem.NewJump("jne `j0", nil, temps(ta), false, top),
				assem.NewOper("ret `s0", nil, temps(ta)),
			})

			Expect(lm.In(0).Temps()).To(Equal(temps(ta)))
			Expect(lm.Out(3).Temps()).To(Equal(temps(ta)))
			Expect(lm.Out(1).Temps()).To(Equal(temps(tb)))
			Expect(lm.Verify()).To(Succeed())
		})

		It("should converge on a loop without exit", func() {
			top := temp.NamedLabel("top")
			lm := solve(assem.List{
				assem.NewLabel(top),
				assem.NewOper("out `s0", nil, temps(ta)),
				assem.NewJump("jmp `j0", nil, nil, true, top),
				assem.NewOper("ret", nil, nil),
			})

			for _, e1 := range []graph.Node{0, 1, 2} {
				Expect(lm.In(e1).Has(ta)).To(BeTrue())
				Expect(lm.Out(e1).Has(ta)).To(BeTrue())
			}
			Expect(lm.In(3).IsEmpty()).To(BeTrue())
			Expect(lm.Verify()).To(Succeed())
		})

		It("should not carry temporaries around a jump in the last position", func() {
			top := temp.NamedLabel("top")
			lm := solve(assem.List{
				assem.NewLabel(top),
				assem.NewOper("out `s0", nil, temps(ta)),
				assem.NewJump("jmp `j0", nil, nil, true, top),
			})

			Expect(lm.Flow().Succ(2)).To(BeEmpty())
			Expect(lm.Out(2).IsEmpty()).To(BeTrue())
			Expect(lm.Out(1).IsEmpty()).To(BeTrue())
			Expect(lm.In(0).Temps()).To(Equal(temps(ta)))
		})

		It("should propagate through a conditional jump to both successors", func() {
			start, end := temp.NamedLabel("Lstart"), temp.NamedLabel("Lend")
			lm := solve(assem.List{
				assem.NewLabel(start),
				assem.NewOper("op `d0, `s0", temps(tc), temps(tb)),
				assem.NewJump("jne `j0", nil, nil, false, start),
				assem.NewLabel(end),
				assem.NewOper("use `s0", nil, temps(tc)),
			})

			Expect(lm.Flow().Succ(2)).To(Equal([]graph.Node{0, 3}))
			Expect(lm.Out(2).Temps()).To(Equal(temps(tb, tc)))
		})
	})

	Context("fixpoint", func() {
		var body assem.List

		BeforeEach(func() {
			l1, l2 := temp.NamedLabel("l1"), temp.NamedLabel("l2")
			body = assem.List{
				assem.NewOper("init", temps(ta, tb), nil),
				assem.NewLabel(l1),
				assem.NewJump("cmp", nil, temps(ta, tb), false, l2),
				assem.NewOper("a = a + c", temps(ta), temps(ta, tc)),
				assem.NewMove("mov", td, ta),
				assem.NewJump("jmp", nil, nil, true, l1),
				assem.NewLabel(l2),
				assem.NewOper("ret", nil, temps(td, tb)),
			}
		})

		It("should satisfy the dataflow equations and be stable", func() {
			fg, err := flowgraph.Build("f", body)
			Expect(err).NotTo(HaveOccurred())
			lm := liveness.NewLiveMap(fg)

			passes := lm.Solve()
			Expect(passes).To(BeNumerically(">=", 2))
			Expect(lm.Passes()).To(Equal(passes))
			Expect(lm.Verify()).To(Succeed())
			Expect(lm.Step()).To(BeFalse())
		})

		It("should never shrink a set between passes", func() {
			fg, err := flowgraph.Build("f", body)
			Expect(err).NotTo(HaveOccurred())
			lm := liveness.NewLiveMap(fg)

			prevIn := make([]*temp.Set, fg.Len())
			prevOut := make([]*temp.Set, fg.Len())
			for i1 := range prevIn {
				prevIn[i1], prevOut[i1] = &temp.Set{}, &temp.Set{}
			}
			for changed := true; changed; {
				changed = lm.Step()
				for _, e1 := range fg.Nodes() {
					Expect(prevIn[e1].SubsetOf(lm.In(e1))).To(BeTrue())
					Expect(prevOut[e1].SubsetOf(lm.Out(e1))).To(BeTrue())
					prevIn[e1].Copy(lm.In(e1))
					prevOut[e1].Copy(lm.Out(e1))
				}
			}
			Expect(lm.Verify()).To(Succeed())
		})

		It("should report sets that violate the equations", func() {
			fg, err := flowgraph.Build("f", body)
			Expect(err).NotTo(HaveOccurred())
			lm := liveness.NewLiveMap(fg)

			Expect(lm.Verify()).To(HaveOccurred())
		})
	})
})
