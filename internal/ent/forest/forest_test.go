package forest_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/spidermap/internal/ent/forest"
)

var _ = Describe("Forest", func() {
	ctx := context.Background()
	cfg := forest.Config{Trees: 10, Seed: 42, JobsNum: 4}

	// y depends on the first feature only, the second one is noise.
	x := make([][]float64, 0, 100)
	y := make([]float64, 0, 100)
	for i := range 100 {
		v := float64(i % 10)
		x = append(x, []float64{v, float64((i * 7) % 13)})
		y = append(y, v*v)
	}

	It("fits a step function", func() {
		f, err := forest.Fit(ctx, x, y, cfg)
		Expect(err).To(BeNil())
		pred := f.Predict([][]float64{{3, 0}, {9, 5}})
		Expect(pred[0]).To(BeNumerically("~", 9, 3))
		Expect(pred[1]).To(BeNumerically("~", 81, 10))
	})

	It("is reproducible for the same seed", func() {
		f1, err := forest.Fit(ctx, x, y, cfg)
		Expect(err).To(BeNil())
		c := cfg
		c.JobsNum = 1
		f2, err := forest.Fit(ctx, x, y, c)
		Expect(err).To(BeNil())
		Expect(f1.Predict(x)).To(Equal(f2.Predict(x)))
		Expect(f1.Importances()).To(Equal(f2.Importances()))
	})

	It("finds the important feature", func() {
		f, err := forest.Fit(ctx, x, y, cfg)
		Expect(err).To(BeNil())
		imp := f.Importances()
		Expect(imp).To(HaveLen(2))
		Expect(imp[0]).To(BeNumerically(">", imp[1]))
		Expect(imp[0] + imp[1]).To(BeNumerically("~", 1, 1e-9))
	})

	It("stops at constant targets", func() {
		f, err := forest.Fit(ctx, [][]float64{{1}, {2}, {3}}, []float64{5, 5, 5}, cfg)
		Expect(err).To(BeNil())
		Expect(f.Predict([][]float64{{10}})).To(Equal([]float64{5}))
		Expect(f.Importances()).To(Equal([]float64{0}))
	})

	It("checks input shape", func() {
		_, err := forest.Fit(ctx, nil, nil, cfg)
		Expect(err).To(MatchError(forest.ErrNoData))
		_, err = forest.Fit(ctx, [][]float64{{1}}, []float64{1, 2}, cfg)
		Expect(errors.Is(err, forest.ErrShape)).To(BeTrue())
	})
})
