package clean_test

import (
	"reflect"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/spidermap/internal/ent/clean"
	"github.com/gnames/spidermap/pkg/ent/occur"
)

var _ = Describe("Clean", func() {
	rows := []occur.Raw{
		raw("Bern", 1975),
		raw("Zürich", 1980),
		raw("Vaud", 2020),
		raw("Liechtenstein", 2001),
		{StateProvince: ptr("Bern")},
	}

	It("keeps only rows from MinYear on", func() {
		res := clean.Clean(rows, clean.Options{FilterYear: true, MinYear: 1980})
		Expect(res.Occurrences).To(HaveLen(3))
		Expect(res.Filtered).To(Equal(2))
		for _, v := range res.Occurrences {
			Expect(v.Year.Int64).To(BeNumerically(">=", 1980))
		}
	})

	It("keeps all rows without the year filter", func() {
		res := clean.Clean(rows, clean.Options{MinYear: 1980})
		Expect(res.Occurrences).To(HaveLen(5))
		Expect(res.Occurrences[4].Year.Valid).To(BeFalse())
	})

	It("adds landscape and counts unmapped cantons", func() {
		res := clean.Clean(rows, clean.Options{})
		Expect(res.Occurrences[0].Landscape).To(Equal(occur.Alpine))
		Expect(res.Occurrences[1].Landscape).To(Equal(occur.Plateau))
		Expect(res.Occurrences[2].Landscape).To(Equal(occur.Jura))
		Expect(res.Occurrences[3].Landscape).To(Equal(occur.Unmapped))
		Expect(res.Unmapped).To(Equal(1))
	})

	It("carries values of kept columns", func() {
		res := clean.Clean(rows[:1], clean.Options{})
		o := res.Occurrences[0]
		Expect(o.Canton.String).To(Equal("Bern"))
		Expect(o.Species.String).To(Equal("Araneus diadematus"))
		Expect(o.Status.String).To(Equal(occur.Present))
		Expect(o.Temperature.Float64).To(Equal(0.0))
		Expect(o.Temperature.Valid).To(BeTrue())
		Expect(o.Precipitation.Valid).To(BeFalse())
	})

	It("has no occurrence fields for dropped columns", func() {
		rawType := reflect.TypeOf(occur.Raw{})
		fields := make(map[string]string, rawType.NumField())
		for i := range rawType.NumField() {
			f := rawType.Field(i)
			fields[f.Tag.Get("parquet")] = f.Name
		}

		occType := reflect.TypeOf(occur.Occurrence{})
		for _, col := range clean.DroppedColumns {
			name, ok := fields[col]
			Expect(ok).To(BeTrue(), col)
			_, ok = occType.FieldByName(name)
			Expect(ok).To(BeFalse(), name)
		}
	})
})

func ptr[T any](v T) *T {
	return &v
}

func raw(canton string, year int64) occur.Raw {
	return occur.Raw{
		Kingdom:          ptr("Animalia"),
		Family:           ptr("Araneidae"),
		Species:          ptr("Araneus diadematus"),
		StateProvince:    ptr(canton),
		OccurrenceStatus: ptr(occur.Present),
		Year:             ptr(year),
		Month:            ptr(int64(6)),
		Temperature:      ptr(0.0),
	}
}
