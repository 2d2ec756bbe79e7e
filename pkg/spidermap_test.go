package spidermap_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/spidermap/internal/ent/dashboard"
	"github.com/gnames/spidermap/internal/ent/loader"
	"github.com/gnames/spidermap/internal/io/loadio"
	spidermap "github.com/gnames/spidermap/pkg"
	"github.com/gnames/spidermap/pkg/config"
	"github.com/gnames/spidermap/pkg/ent/occur"
)

var _ = Describe("SpiderMap", func() {
	var (
		dir string
		cfg config.Config
		ldr loader.Loader
		ctx = context.Background()
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "spidermap")
		Expect(err).To(BeNil())
		occPath := filepath.Join(dir, "final_dataset.parquet")
		Expect(parquet.WriteFile(occPath, fixture())).To(Succeed())
		geoPath := filepath.Join(dir, "cantons.geojson")
		Expect(os.WriteFile(geoPath, []byte(geoJSON), 0644)).To(Succeed())

		cfg = config.New(
			config.OptDataPath(occPath),
			config.OptRegionsPath(geoPath),
			config.OptCacheDir(""),
			config.OptJobsNum(2),
		)
		ldr = loadio.New()
	})

	AfterEach(func() {
		_ = os.RemoveAll(dir)
	})

	It("prepares dashboard data from recent years", func() {
		sm := spidermap.New(cfg)
		d, err := sm.DashboardData(ctx, ldr)
		Expect(err).To(BeNil())
		Expect(d.Records).To(HaveLen(7))
		for _, v := range d.Records {
			Expect(v.Year).To(BeNumerically(">=", 1980))
		}
		Expect(d.Regions.Names()).To(Equal([]string{"Bern", "Vaud"}))

		d, err = sm.DashboardData(ctx, ldr)
		Expect(err).To(BeNil())
		Expect(ldr.Stats().Reads).To(Equal(2))
	})

	It("fits the model on all years", func() {
		sm := spidermap.New(cfg)
		rep, err := sm.Model(ctx, ldr)
		Expect(err).To(BeNil())
		Expect(rep.Rows).To(Equal(12))
		Expect(rep.Species).To(Equal(2))
		Expect(rep.Results).To(HaveLen(2))

		full, ablation := rep.Results[0], rep.Results[1]
		Expect(full.TrainRows + full.TestRows).To(Equal(12))
		Expect(ablation.TrainRows).To(Equal(full.TrainRows))
		Expect(ablation.TestRows).To(Equal(full.TestRows))
		Expect(len(ablation.Features)).To(BeNumerically("<", len(full.Features)))
		Expect(full.Importances).To(HaveLen(len(full.Features)))
	})

	It("builds aggregated views of a selection", func() {
		sm := spidermap.New(cfg)
		sel := dashboard.NewSelection("Araneidae")
		views, err := sm.Views(ctx, ldr, sel)
		Expect(err).To(BeNil())
		Expect(views).To(HaveLen(3))
		Expect(views[0].Name).To(Equal("choropleth"))
		Expect(views[0].Records).ToNot(BeEmpty())
		for _, v := range views[1].Records {
			Expect(v.Species).To(Equal("Araneus diadematus"))
		}
		Expect(views[2].Records).ToNot(BeEmpty())

		sel.Climate = "Wind"
		_, err = sm.Views(ctx, ldr, sel)
		Expect(err).ToNot(BeNil())
	})

	It("fails when the snapshot is missing", func() {
		cfg.DataPath = filepath.Join(dir, "absent.parquet")
		sm := spidermap.New(cfg)
		_, err := sm.DashboardData(ctx, ldr)
		Expect(err).ToNot(BeNil())
		_, err = sm.Model(ctx, ldr)
		Expect(err).ToNot(BeNil())
	})
})

const geoJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"kan_name":["Bern"]},"geometry":null},
{"type":"Feature","properties":{"kan_name":"Vaud"},"geometry":null}]}`

func ptr[T any](v T) *T {
	return &v
}

// fixture has one row per year from 1975 to 1986.
func fixture() []occur.Raw {
	res := make([]occur.Raw, 0, 12)
	for i := range 12 {
		family, species, canton := "Linyphiidae", "Linyphia triangularis", "Bern"
		if i%3 == 0 {
			family, species, canton = "Araneidae", "Araneus diadematus", "Vaud"
		}
		res = append(res, occur.Raw{
			Index:            ptr(int64(i)),
			Family:           ptr(family),
			Species:          ptr(species),
			TaxonRank:        ptr("SPECIES"),
			StateProvince:    ptr(canton),
			DecimalLatitude:  ptr(46.5 + float64(i)/100),
			DecimalLongitude: ptr(7.0 + float64(i)/100),
			Elevation:        ptr(500.0 + float64(i*10)),
			OccurrenceStatus: ptr(occur.Present),
			Year:             ptr(int64(1975 + i)),
			Month:            ptr(int64(i%12 + 1)),
			Temperature:      ptr(8.0 + float64(i)),
			Precipitation:    ptr(70.0 + float64(i)),
		})
	}
	return res
}
