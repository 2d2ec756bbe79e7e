package dashboard_test

import (
	"time"

	"github.com/jonboulle/clockwork"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/dashboard"
	"github.com/gnames/spidermap/internal/ent/geo"
	"github.com/gnames/spidermap/internal/observability"
	"github.com/gnames/spidermap/pkg/ent/occur"
)

var _ = Describe("Selection", func() {
	It("starts with the default family and temperature", func() {
		sel := dashboard.NewSelection("Linyphiidae")
		Expect(sel.Families).To(Equal([]string{"Linyphiidae"}))
		Expect(sel.Climate).To(Equal(dashboard.Temperature))
	})

	It("rejects unknown climate variables", func() {
		sel := dashboard.Selection{Climate: "Humidity"}
		Expect(sel.Validate()).ToNot(Succeed())
	})

	It("rejects empty family names", func() {
		sel := dashboard.Selection{Families: []string{""}}
		Expect(sel.Validate()).ToNot(Succeed())
	})

	It("sets temperature when climate is empty", func() {
		sel := dashboard.Selection{}
		Expect(sel.Validate()).To(Succeed())
		Expect(sel.Climate).To(Equal(dashboard.Temperature))
	})

	It("parses render modes", func() {
		m, err := dashboard.NewRenderMode("Parity")
		Expect(err).To(BeNil())
		Expect(m).To(Equal(dashboard.Parity))
		m, err = dashboard.NewRenderMode("")
		Expect(err).To(BeNil())
		Expect(m).To(Equal(dashboard.Aggregated))
		_, err = dashboard.NewRenderMode("raw")
		Expect(err).ToNot(BeNil())
	})
})

var _ = Describe("Renderer", func() {
	var data dashboard.Data

	BeforeEach(func() {
		data = dashboard.Data{
			Records: []agg.Record{
				rec("Bern", "Linyphiidae", "Linyphia triangularis", 2001, 5),
				rec("Bern", "Linyphiidae", "Linyphia triangularis", 2001, 6),
				rec("Vaud", "Araneidae", "Araneus diadematus", 2002, 5),
				rec("Zug", "Linyphiidae", "Tenuiphantes tenuis", 2002, 7),
			},
			Regions: &geo.Collection{Type: "FeatureCollection"},
		}
	})

	It("renders the whole page", func() {
		m := observability.NewMetricsForTesting()
		clock := clockwork.NewFakeClockAt(time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC))
		r := dashboard.New(dashboard.Aggregated,
			dashboard.OptClock(clock), dashboard.OptMetrics(m))

		sel := dashboard.NewSelection("Linyphiidae")
		sel.ShowSpecies = true
		page, err := r.Render(data, sel)
		Expect(err).To(BeNil())
		Expect(page.Title).To(Equal(dashboard.Title))
		Expect(page.Sidebar).To(HaveLen(7))
		Expect(page.Families).To(Equal([]string{"Linyphiidae", "Araneidae"}))
		Expect(page.Species).To(Equal(
			[]string{"Linyphia triangularis", "Tenuiphantes tenuis"},
		))

		Expect(page.Choropleth.Frames).To(HaveLen(2))
		Expect(page.Scatter.Data).To(HaveLen(2))
		Expect(page.Climate.Data).To(HaveLen(2))
		Expect(page.Climate.Layout).To(HaveKey("coloraxis2"))
	})

	It("hides species list by default", func() {
		r := dashboard.New(dashboard.Aggregated)
		page, err := r.Render(data, dashboard.NewSelection("Linyphiidae"))
		Expect(err).To(BeNil())
		Expect(page.Species).To(BeNil())
	})

	It("aggregates the choropleth by canton and year", func() {
		r := dashboard.New(dashboard.Aggregated)
		fig := r.ChoroplethFigure(data)
		Expect(fig.Frames[0].Data[0]["locations"]).To(Equal([]string{"Bern"}))
		Expect(fig.Frames[0].Data[0]["z"]).To(Equal([]any{2.0}))
	})

	It("renders raw rows in parity mode", func() {
		r := dashboard.New(dashboard.Parity)
		fig := r.ChoroplethFigure(data)
		Expect(fig.Frames[0].Data[0]["locations"]).To(Equal([]string{"Bern", "Bern"}))
		Expect(fig.Frames[0].Data[0]["z"]).To(Equal([]any{1.0, 1.0}))

		sel := dashboard.NewSelection("Linyphiidae")
		climate, err := r.ClimateFigure(data, sel)
		Expect(err).To(BeNil())
		Expect(climate.Frames[0].Data[0]["locations"]).To(Equal([]string{"Bern", "Bern"}))
	})

	It("sums monthly occurrences on the climate map", func() {
		r := dashboard.New(dashboard.Aggregated)
		sel := dashboard.NewSelection("Linyphiidae")
		sel.Climate = dashboard.Precipitation
		fig, err := r.ClimateFigure(data, sel)
		Expect(err).To(BeNil())
		Expect(fig.Frames[0].Data[0]["locations"]).To(Equal([]string{"Bern"}))
		Expect(fig.Frames[0].Data[0]["z"]).To(Equal([]any{80.0}))
		marker := fig.Frames[0].Data[1]["marker"].(map[string]any)
		Expect(marker["color"]).To(Equal([]any{2.0}))
	})
})

func rec(canton, family, species string, year, month int) agg.Record {
	return agg.Record{
		Canton:        canton,
		Family:        family,
		Species:       species,
		TaxonRank:     "SPECIES",
		Landscape:     occur.Landscape(canton),
		Lat:           46.9,
		Lon:           7.4,
		Elevation:     540,
		Year:          year,
		Month:         month,
		Occurrence:    agg.Str(occur.Present),
		Temperature:   12,
		Precipitation: 80,
	}
}
