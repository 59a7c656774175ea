package timing

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("EventQueueImpl", func() {
	var (
		mockCtrl *gomock.Controller
		queue    *EventQueueImpl
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		queue = NewEventQueue()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	newEvent := func(t VTimeInSec) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()

		return evt
	}

	It("should pop in order", func() {
		r := rand.New(rand.NewSource(1))
		numEvents := 100

		for i := 0; i < numEvents; i++ {
			queue.Push(newEvent(VTimeInSec(r.Float64() / 1e8)))
		}

		now := VTimeInSec(-1)
		for i := 0; i < numEvents; i++ {
			event := queue.Pop()
			Expect(event.Time() >= now).To(BeTrue())
			now = event.Time()
		}

		Expect(queue.Len()).To(Equal(0))
	})

	It("should pop same-time events in insertion order", func() {
		early := newEvent(0.5)
		a := newEvent(1)
		b := newEvent(1)
		c := newEvent(1)

		queue.Push(a)
		queue.Push(b)
		queue.Push(early)
		queue.Push(c)

		Expect(queue.Peek()).To(BeIdenticalTo(early))
		Expect(queue.Pop()).To(BeIdenticalTo(early))
		Expect(queue.Pop()).To(BeIdenticalTo(a))
		Expect(queue.Pop()).To(BeIdenticalTo(b))
		Expect(queue.Pop()).To(BeIdenticalTo(c))
	})

	It("should return nil when empty", func() {
		Expect(queue.Pop()).To(BeNil())
		Expect(queue.Peek()).To(BeNil())
	})

	It("should restart the sequence after clear", func() {
		queue.Push(newEvent(1))
		queue.Clear()

		Expect(queue.Len()).To(Equal(0))
		Expect(queue.nextSeq).To(Equal(uint64(0)))
	})
})
