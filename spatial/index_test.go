package spatial

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func bruteForce(points []Point, center Point, radius float64) []int {
	found := []int{}

	for i, p := range points {
		dx, dy := p.X-center.X, p.Y-center.Y
		if dx*dx+dy*dy <= radius*radius {
			found = append(found, i)
		}
	}

	return found
}

var _ = Describe("QuadIndex", func() {
	var index *QuadIndex

	BeforeEach(func() {
		index = NewQuadIndex()
	})

	It("should fail to query before build", func() {
		_, err := index.RangeQuery(Point{}, 1)

		Expect(errors.Is(err, ErrNotInitialized)).To(BeTrue())
	})

	It("should refuse to build twice", func() {
		Expect(index.Build([]Point{{0, 0}})).To(Succeed())

		Expect(errors.Is(index.Build([]Point{{1, 1}}), ErrAlreadyBuilt)).To(BeTrue())
	})

	It("should reject non-finite points", func() {
		err := index.Build([]Point{{0, 0}, {math.NaN(), 1}})

		Expect(errors.Is(err, ErrInvalidPoint)).To(BeTrue())
		Expect(index.Built()).To(BeFalse())
	})

	It("should reject invalid radii", func() {
		Expect(index.Build([]Point{{0, 0}})).To(Succeed())

		_, err := index.RangeQuery(Point{}, -1)
		Expect(errors.Is(err, ErrInvalidRadius)).To(BeTrue())

		_, err = index.RangeQuery(Point{}, math.NaN())
		Expect(errors.Is(err, ErrInvalidRadius)).To(BeTrue())
	})

	It("should answer queries on an empty index", func() {
		Expect(index.Build(nil)).To(Succeed())

		found, err := index.RangeQuery(Point{3, 4}, 10)

		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeEmpty())
	})

	It("should include points exactly on the circle", func() {
		Expect(index.Build([]Point{{0, 0}, {3, 4}, {3, 4.0001}})).To(Succeed())

		found, err := index.RangeQuery(Point{0, 0}, 5)

		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(ConsistOf(0, 1))
	})

	It("should include points on the edge of the bounding box", func() {
		Expect(index.Build([]Point{{0, 0}, {10, 0}, {10, 10}})).To(Succeed())

		found, _ := index.RangeQuery(Point{10, 5}, 5)
		Expect(found).To(ConsistOf(1, 2))

		lo, hi := index.Bound()
		Expect(lo).To(Equal(Point{0, 0}))
		Expect(hi).To(Equal(Point{10, 10}))
	})

	It("should handle points that all share a location", func() {
		Expect(index.Build([]Point{{2, 2}, {2, 2}, {2, 2}})).To(Succeed())

		found, _ := index.RangeQuery(Point{2, 2}, 0)
		Expect(found).To(ConsistOf(0, 1, 2))

		found, _ = index.RangeQuery(Point{10, 10}, 1)
		Expect(found).To(BeEmpty())
	})

	It("should handle collinear points", func() {
		points := []Point{{0, 5}, {1, 5}, {2, 5}, {10, 5}}
		Expect(index.Build(points)).To(Succeed())

		found, _ := index.RangeQuery(Point{1, 5}, 1)
		Expect(found).To(ConsistOf(0, 1, 2))
	})

	It("should handle nearly collinear points over a huge span", func() {
		points := []Point{{0, 0}, {1e9, 1e-9}, {5e8, 0}}
		Expect(index.Build(points)).To(Succeed())

		found, err := index.RangeQuery(Point{1e9, 0}, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(ConsistOf(1))

		found, _ = index.RangeQuery(Point{5e8, 0}, 5e8)
		Expect(found).To(ConsistOf(0, 1, 2))
	})

	It("should handle tiny spans next to huge coordinates", func() {
		points := []Point{{1e7, 1e7}, {1e7 + 1e-7, 1e7}, {1e7, 1e7 + 5e-8}}
		Expect(index.Build(points)).To(Succeed())

		found, _ := index.RangeQuery(Point{1e7, 1e7}, 1e-6)
		Expect(found).To(ConsistOf(0, 1, 2))
	})

	It("should find everything with an infinite radius", func() {
		Expect(index.Build([]Point{{0, 0}, {100, 100}})).To(Succeed())

		found, err := index.RangeQuery(Point{50, 50}, math.Inf(1))

		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(ConsistOf(0, 1))
	})

	It("should find nothing for a circle outside the points", func() {
		Expect(index.Build([]Point{{0, 0}, {1, 1}})).To(Succeed())

		found, err := index.RangeQuery(Point{-50, -50}, 10)

		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeEmpty())
	})

	It("should agree with brute force on random points", func() {
		r := rand.New(rand.NewPCG(1, 2))
		points := make([]Point, 5000)
		for i := range points {
			points[i] = Point{r.Float64() * 400, r.Float64() * 200}
		}

		Expect(index.Build(points)).To(Succeed())
		Expect(index.Len()).To(Equal(5000))

		for i := 0; i < 300; i++ {
			center := Point{r.Float64()*500 - 50, r.Float64()*300 - 50}
			radius := r.ExpFloat64() * 20

			found, err := index.RangeQuery(center, radius)

			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(ConsistOf(bruteForce(points, center, radius)))
		}
	})

	It("should not be affected by later changes to the input", func() {
		points := []Point{{0, 0}, {5, 5}}
		Expect(index.Build(points)).To(Succeed())

		points[0] = Point{100, 100}

		Expect(index.Point(0)).To(Equal(Point{0, 0}))
		found, _ := index.RangeQuery(Point{100, 100}, 1)
		Expect(found).To(BeEmpty())
	})

	It("should serve concurrent queries", func() {
		points := make([]Point, 1000)
		for i := range points {
			points[i] = Point{float64(i % 40), float64(i / 40)}
		}
		Expect(index.Build(points)).To(Succeed())

		var wg sync.WaitGroup
		counts := make([]int, 8)

		for w := range counts {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				found, err := index.RangeQuery(Point{20, 12}, 3)
				Expect(err).NotTo(HaveOccurred())
				counts[w] = len(found)
			}()
		}
		wg.Wait()

		for _, c := range counts {
			Expect(c).To(Equal(counts[0]))
		}
	})
})
