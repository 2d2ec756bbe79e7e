package agg_test

import (
	"database/sql"
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/pkg/ent/occur"
)

var _ = Describe("GroupBy", func() {
	It("counts, sizes and sums rows that share a key", func() {
		recs := []agg.Record{
			rec("Bern", "Linyphia triangularis", 2001, 1, 10, agg.Num(3)),
			rec("Bern", "Linyphia triangularis", 2001, 1, 12, agg.Num(4)),
		}
		by := []agg.Column{agg.Canton, agg.Species}

		res := agg.GroupBy(recs, by, agg.Count)
		Expect(res).To(HaveLen(1))
		Expect(res[0].Occurrence.Num).To(Equal(2.0))
		Expect(res[0].Temperature).To(Equal(11.0))

		res = agg.GroupBy(recs, by, agg.Size)
		Expect(res[0].Occurrence.Num).To(Equal(2.0))

		res = agg.GroupBy(recs, by, agg.Sum)
		Expect(res[0].Occurrence.Num).To(Equal(7.0))
	})

	It("differs between count and size for missing occurrences", func() {
		recs := []agg.Record{
			rec("Bern", "Linyphia triangularis", 2001, 1, 10, agg.Str("PRESENT")),
			rec("Bern", "Linyphia triangularis", 2001, 1, 10, agg.Value{}),
		}
		by := []agg.Column{agg.Canton}
		Expect(agg.GroupBy(recs, by, agg.Count)[0].Occurrence.Num).To(Equal(1.0))
		Expect(agg.GroupBy(recs, by, agg.Size)[0].Occurrence.Num).To(Equal(2.0))
	})

	It("ignores text values in sums", func() {
		recs := []agg.Record{
			rec("Bern", "Linyphia triangularis", 2001, 1, 10, agg.Num(1)),
			rec("Bern", "Linyphia triangularis", 2001, 1, 10, agg.Str("ABSENT")),
		}
		res := agg.GroupBy(recs, []agg.Column{agg.Canton}, agg.Sum)
		Expect(res[0].Occurrence.Num).To(Equal(1.0))
	})

	It("drops rows with a missing key and sorts by key", func() {
		r := rec("Zug", "Araneus diadematus", 2001, 1, 10, agg.Num(1))
		noCanton := rec("Aargau", "Araneus diadematus", 2001, 1, 10, agg.Num(1))
		noCanton.SetMissing(agg.Canton)
		recs := []agg.Record{
			r,
			noCanton,
			rec("Bern", "Araneus diadematus", 2001, 1, 10, agg.Num(1)),
		}
		res := agg.GroupBy(recs, []agg.Column{agg.Canton}, agg.Size)
		Expect(res).To(HaveLen(2))
		Expect(res[0].Canton).To(Equal("Bern"))
		Expect(res[1].Canton).To(Equal("Zug"))
		Expect(res[0].IsMissing(agg.Species)).To(BeTrue())
	})

	It("returns NaN mean when all values are missing", func() {
		r := rec("Bern", "Araneus diadematus", 2001, 1, 0, agg.Num(1))
		r.Temperature = math.NaN()
		res := agg.GroupBy([]agg.Record{r}, []agg.Column{agg.Canton}, agg.Sum)
		Expect(math.IsNaN(res[0].Temperature)).To(BeTrue())
	})

	It("groups by date", func() {
		recs := []agg.Record{
			rec("Bern", "Araneus diadematus", 2001, 2, 1, agg.Num(1)),
			rec("Bern", "Araneus diadematus", 2001, 1, 1, agg.Num(1)),
			rec("Bern", "Araneus diadematus", 2001, 2, 1, agg.Num(1)),
		}
		res := agg.GroupBy(recs, []agg.Column{agg.Date}, agg.Sum)
		Expect(res).To(HaveLen(2))
		Expect(res[0].Month).To(Equal(1))
		Expect(res[1].Occurrence.Num).To(Equal(2.0))
		Expect(res[1].IsMissing(agg.Year)).To(BeFalse())
	})
})

var _ = Describe("Views", func() {
	It("builds climate table from scatter table", func() {
		cantons := []string{"Bern", "Zürich", "Vaud"}
		species := []string{"Araneus diadematus", "Linyphia triangularis"}
		years := []int{2001, 2002}

		var recs []agg.Record
		for _, c := range cantons {
			for _, s := range species {
				for _, y := range years {
					recs = append(recs,
						rec(c, s, y, 5, 10, agg.Str(occur.Present)),
						rec(c, s, y, 6, 20, agg.Str(occur.Present)),
						rec(c, s, y, 6, 30, agg.Str(occur.Present)),
					)
				}
			}
		}

		scatter := agg.Scatter(recs)
		Expect(scatter).To(HaveLen(24))

		res := agg.Climate(scatter)
		Expect(res).To(HaveLen(12))
		for _, v := range res {
			Expect(v.Occurrence.Num).To(Equal(3.0))
			// mean of monthly means 10 and 25
			Expect(v.Temperature).To(Equal(17.5))
			Expect(v.Landscape.Valid()).To(BeTrue())
		}
		Expect(res[0].Year).To(Equal(2001))
		Expect(res[11].Year).To(Equal(2002))
	})

	It("counts occurrences for choropleth", func() {
		recs := []agg.Record{
			rec("Bern", "Araneus diadematus", 2002, 5, 10, agg.Str(occur.Present)),
			rec("Bern", "Araneus diadematus", 2001, 5, 10, agg.Str(occur.Present)),
			rec("Bern", "Araneus diadematus", 2001, 6, 10, agg.Str(occur.Present)),
		}
		res := agg.Choropleth(recs)
		Expect(res).To(HaveLen(2))
		Expect(res[0].Year).To(Equal(2001))
		Expect(res[0].Occurrence.Num).To(Equal(2.0))
	})

	It("filters families and lists distinct values", func() {
		a := rec("Bern", "Araneus diadematus", 2002, 5, 10, agg.Num(1))
		a.Family = "Araneidae"
		b := rec("Bern", "Linyphia triangularis", 2001, 5, 10, agg.Num(1))
		c := rec("Bern", "Tenuiphantes tenuis", 2001, 5, 10, agg.Num(1))
		recs := []agg.Record{b, a, c}

		Expect(agg.Families(recs)).To(Equal([]string{"Linyphiidae", "Araneidae"}))
		res := agg.FilterFamilies(recs, []string{"Linyphiidae"})
		Expect(agg.SpeciesList(res)).To(Equal(
			[]string{"Linyphia triangularis", "Tenuiphantes tenuis"},
		))
		Expect(agg.Years(recs)).To(Equal([]int{2001, 2002}))
	})

	It("converts occurrences with missing values", func() {
		o := occur.Occurrence{
			Canton:    sql.NullString{String: "Bern", Valid: true},
			Landscape: occur.Landscape("Bern"),
			Status:    sql.NullString{String: occur.Present, Valid: true},
		}
		r := agg.FromOccurrence(o)
		Expect(r.IsMissing(agg.Canton)).To(BeFalse())
		Expect(r.IsMissing(agg.Species)).To(BeTrue())
		Expect(r.IsMissing(agg.Date)).To(BeTrue())
		Expect(r.Landscape).To(Equal(occur.Alpine))
		Expect(r.Occurrence.Kind).To(Equal(agg.Text))
		Expect(math.IsNaN(r.Temperature)).To(BeTrue())
	})
})

func rec(canton, species string, year, month int, temp float64, v agg.Value) agg.Record {
	return agg.Record{
		Canton:        canton,
		Species:       species,
		Family:        "Linyphiidae",
		TaxonRank:     "SPECIES",
		Landscape:     occur.Landscape(canton),
		Lat:           46.9,
		Lon:           7.4,
		Elevation:     540,
		Year:          year,
		Month:         month,
		Occurrence:    v,
		Temperature:   temp,
		Precipitation: 80,
	}
}
