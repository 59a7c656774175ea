package seir

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/epinet/sim/hooking"
	"github.com/sarchlab/epinet/sim/timing"
	"github.com/sarchlab/epinet/variate"
)

var _ = Describe("Tracing hooks", func() {
	It("should count handled events by action", func() {
		sim, err := NewSimulation(randomNodes(200, 100, 8))
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.BuildIndex()).To(Succeed())

		counts := hooking.NewCountHook(ActionKey)
		sim.AcceptHook(counts)

		result, err := sim.Run(fastParams(), variate.New(9))
		Expect(err).NotTo(HaveOccurred())

		total := uint64(0)
		for _, a := range Actions() {
			total += counts.Count(a.String())
		}

		Expect(total).To(Equal(result.Dispatched))
		Expect(counts.Count(Infect.String())).
			To(BeNumerically(">=", result.Stats.Infected))
	})

	It("should ignore hook positions other than after event", func() {
		_, ok := ActionKey(hooking.HookCtx{
			Pos:  timing.HookPosBeforeEvent,
			Item: NewEvent(0, 0, Infect, nil),
		})
		Expect(ok).To(BeFalse())

		_, ok = ActionKey(hooking.HookCtx{
			Pos:  timing.HookPosAfterEvent,
			Item: timing.NewEventBase(0, nil),
		})
		Expect(ok).To(BeFalse())
	})

	It("should pass transitions to a watcher", func() {
		store, err := NewNodeStore(randomNodes(3, 10, 1))
		Expect(err).NotTo(HaveOccurred())

		var seen []Transition
		watcher := NewTransitionWatcher(store, func(t Transition) {
			seen = append(seen, t)
		})

		evt := NewEvent(1.5, 2, Expose, nil)
		watcher.Func(hooking.HookCtx{Pos: timing.HookPosBeforeEvent, Item: evt})
		store.advance(2, Exposed)
		watcher.Func(hooking.HookCtx{Pos: timing.HookPosAfterEvent, Item: evt})

		Expect(seen).To(Equal([]Transition{{
			Time: 1.5, Node: 2, Action: Expose,
			Before: Susceptible, After: Exposed,
		}}))
		Expect(seen[0].Applied()).To(BeTrue())
		Expect(watcher.Transitions()).To(BeEmpty())
	})
})
