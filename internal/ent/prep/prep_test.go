package prep_test

import (
	"math"
	"slices"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/spidermap/internal/ent/prep"
)

var _ = Describe("LabelEncoder", func() {
	It("is a bijection between sorted values and codes", func() {
		vals := []string{"Zora spinimana", "Araneus diadematus", "Linyphia triangularis", "Araneus diadematus"}
		enc := prep.NewLabelEncoder(vals)
		Expect(enc.Classes()).To(Equal(
			[]string{"Araneus diadematus", "Linyphia triangularis", "Zora spinimana"},
		))
		seen := make(map[int]bool)
		for _, v := range vals {
			code, ok := enc.Encode(v)
			Expect(ok).To(BeTrue())
			seen[code] = true
			back, ok := enc.Decode(code)
			Expect(ok).To(BeTrue())
			Expect(back).To(Equal(v))
		}
		Expect(seen).To(HaveLen(3))

		_, ok := enc.Encode("Pardosa lugubris")
		Expect(ok).To(BeFalse())
		_, ok = enc.Decode(3)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("OneHot", func() {
	It("creates indicator columns", func() {
		cols := [][]string{
			{"Bern", "Vaud", "Bern"},
			{"Alpine", "Jura", "Alpine"},
		}
		oh := prep.FitOneHot([]string{"stateProvince", "Landscape"}, cols)
		Expect(oh.Width()).To(Equal(4))
		Expect(oh.FeatureNames()).To(Equal([]string{
			"stateProvince_Bern", "stateProvince_Vaud",
			"Landscape_Alpine", "Landscape_Jura",
		}))
		dst := make([]float64, 4)
		oh.Transform(cols, 1, dst)
		Expect(dst).To(Equal([]float64{0, 1, 0, 1}))
	})

	It("ignores unknown categories", func() {
		oh := prep.FitOneHot([]string{"stateProvince"}, [][]string{{"Bern"}})
		dst := make([]float64, 1)
		oh.Transform([][]string{{"Zug"}}, 0, dst)
		Expect(dst).To(Equal([]float64{0}))
	})
})

var _ = Describe("Scaler", func() {
	It("uses population standard deviation", func() {
		s := prep.FitScaler([][]float64{{1, 3}, {5, 5}, {2, math.NaN()}})
		Expect(s.Mean()).To(Equal([]float64{2, 5, 2}))
		Expect(s.Scale()).To(Equal([]float64{1, 1, 1}))

		dst := make([]float64, 3)
		s.Transform([][]float64{{1, 3}, {5, 5}, {2, math.NaN()}}, 1, dst)
		Expect(dst).To(Equal([]float64{1, 0, 0}))
	})
})

var _ = Describe("TrainTestSplit", func() {
	It("splits 70/30 with a seed", func() {
		train, test := prep.TrainTestSplit(10, 0.3, 42)
		Expect(test).To(HaveLen(3))
		Expect(train).To(HaveLen(7))
		all := append(slices.Clone(train), test...)
		slices.Sort(all)
		Expect(all).To(Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))

		train2, test2 := prep.TrainTestSplit(10, 0.3, 42)
		Expect(train2).To(Equal(train))
		Expect(test2).To(Equal(test))
	})

	It("rounds the test size up", func() {
		_, test := prep.TrainTestSplit(11, 0.3, 42)
		Expect(test).To(HaveLen(4))
	})
})
