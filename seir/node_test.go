package seir

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/epinet/spatial"
)

var _ = Describe("Status", func() {
	It("should print names and codes", func() {
		Expect(Susceptible.String()).To(Equal("Susceptible"))
		Expect(Removed.Code()).To(Equal(byte('R')))
		Expect(Status(9).Valid()).To(BeFalse())
		Expect(Status(9).Code()).To(Equal(byte('?')))
	})

	It("should only allow the SEIR transitions", func() {
		Expect(Susceptible.CanAdvanceTo(Exposed)).To(BeTrue())
		Expect(Susceptible.CanAdvanceTo(Infected)).To(BeTrue())
		Expect(Exposed.CanAdvanceTo(Infected)).To(BeTrue())
		Expect(Infected.CanAdvanceTo(Removed)).To(BeTrue())

		Expect(Susceptible.CanAdvanceTo(Removed)).To(BeFalse())
		Expect(Exposed.CanAdvanceTo(Susceptible)).To(BeFalse())
		Expect(Removed.CanAdvanceTo(Removed)).To(BeFalse())
		Expect(Infected.CanAdvanceTo(Susceptible)).To(BeFalse())
	})

	It("should parse names and codes", func() {
		for _, s := range Statuses() {
			parsed, err := ParseStatus(s.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(s))

			parsed, err = ParseStatus(string(s.Code()))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(s))
		}

		_, err := ParseStatus("Zombie")
		Expect(err).To(MatchError(ErrInvalidParameter))
	})
})

var _ = Describe("NodeStore", func() {
	var store *NodeStore

	BeforeEach(func() {
		var err error
		store, err = NewNodeStore([]Node{
			{ID: 0, Status: Susceptible, Loc: spatial.Point{X: 0, Y: 0}},
			{ID: 1, Status: Susceptible, Loc: spatial.Point{X: 1, Y: 1}},
			{ID: 2, Status: Removed, Loc: spatial.Point{X: 2, Y: 2}},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject ids out of order", func() {
		_, err := NewNodeStore([]Node{{ID: 1}})
		Expect(err).To(MatchError(ErrInvalidParameter))
	})

	It("should reject invalid statuses", func() {
		_, err := NewNodeStore([]Node{{ID: 0, Status: Status(7)}})
		Expect(err).To(MatchError(ErrInvalidParameter))
	})

	It("should look up nodes", func() {
		n, err := store.Node(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(Node{ID: 1, Status: Susceptible,
			Loc: spatial.Point{X: 1, Y: 1}}))

		_, err = store.Node(3)
		Expect(err).To(MatchError(ErrNodeNotFound))
		_, err = store.Node(-1)
		Expect(err).To(MatchError(ErrNodeNotFound))
	})

	It("should count statuses", func() {
		Expect(store.Tally()).To(Equal(Tally{Susceptible: 2, Removed: 1}))
		Expect(store.Tally().Total()).To(Equal(3))
	})

	It("should only move forward", func() {
		Expect(store.advance(0, Exposed)).To(BeTrue())
		Expect(store.advance(0, Exposed)).To(BeFalse())
		Expect(store.advance(0, Susceptible)).To(BeFalse())
		Expect(store.Status(0)).To(Equal(Exposed))
		Expect(store.Tally()).To(Equal(Tally{Susceptible: 1, Exposed: 1, Removed: 1}))
	})

	It("should not skip compartments", func() {
		Expect(store.advance(1, Removed)).To(BeFalse())
		Expect(store.Status(1)).To(Equal(Susceptible))
	})

	It("should reset to the initial statuses", func() {
		store.advance(0, Infected)
		store.advance(1, Exposed)

		store.reset()

		Expect(store.Snapshot()).To(Equal([]Status{Susceptible, Susceptible, Removed}))
		Expect(store.Tally()).To(Equal(Tally{Susceptible: 2, Removed: 1}))
	})

	It("should return copies", func() {
		snapshot := store.Snapshot()
		snapshot[0] = Removed
		Expect(store.Status(0)).To(Equal(Susceptible))

		locs := store.Locations()
		locs[0] = spatial.Point{X: 9, Y: 9}
		Expect(store.Location(0)).To(Equal(spatial.Point{}))
	})

	It("should build susceptible nodes from locations", func() {
		nodes := NodesAt([]spatial.Point{{X: 3, Y: 4}, {X: 5, Y: 6}})
		Expect(nodes).To(HaveLen(2))
		Expect(nodes[1]).To(Equal(Node{ID: 1, Status: Susceptible,
			Loc: spatial.Point{X: 5, Y: 6}}))
	})
})
