package seir

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Params", func() {
	It("should accept the defaults", func() {
		Expect(DefaultParams().Validate(10)).To(Succeed())
	})

	DescribeTable("invalid parameters",
		func(mutate func(p *Params), target error) {
			p := DefaultParams()
			mutate(&p)
			Expect(p.Validate(10)).To(MatchError(target))
		},
		Entry("zero horizon", func(p *Params) { p.Horizon = 0 }, ErrInvalidParameter),
		Entry("infinite horizon",
			func(p *Params) { p.Horizon = math.Inf(1) }, ErrInvalidParameter),
		Entry("negative beta", func(p *Params) { p.Beta = -1 }, ErrInvalidParameter),
		Entry("NaN epsilon",
			func(p *Params) { p.Epsilon = math.NaN() }, ErrInvalidParameter),
		Entry("zero gamma", func(p *Params) { p.Gamma = 0 }, ErrInvalidParameter),
		Entry("zero contact rate",
			func(p *Params) { p.ContactRate = 0 }, ErrInvalidParameter),
		Entry("negative radius cap",
			func(p *Params) { p.MaxContactRadius = -1 }, ErrInvalidParameter),
		Entry("negative contacts",
			func(p *Params) { p.MaxContacts = -1 }, ErrInvalidParameter),
		Entry("too many seeds",
			func(p *Params) { p.InitialInfected = 11 }, ErrInvalidParameter),
		Entry("negative seeds",
			func(p *Params) { p.InitialInfected = -1 }, ErrInvalidParameter),
		Entry("unknown seed node",
			func(p *Params) { p.SeedNodes = []int{10} }, ErrNodeNotFound),
		Entry("duplicated seed node",
			func(p *Params) { p.SeedNodes = []int{1, 1} }, ErrInvalidParameter),
	)

	It("should ignore InitialInfected when seed nodes are listed", func() {
		p := DefaultParams()
		p.InitialInfected = 100
		p.SeedNodes = []int{0, 9}
		Expect(p.Validate(10)).To(Succeed())
	})
})
