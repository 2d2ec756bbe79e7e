package reportio_test

import (
	"math"
	"os"
	"path/filepath"

	"github.com/gnames/gnsys"
	"github.com/xuri/excelize/v2"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/modeler"
	"github.com/gnames/spidermap/internal/ent/report"
	"github.com/gnames/spidermap/internal/io/reportio"
)

var _ = Describe("Reporter", func() {
	var dir string
	rep := modeler.Report{
		Rows: 10,
		Results: []modeler.Result{
			{
				Name:      "all features",
				Features:  []string{"species", "elevation"},
				TrainRows: 7,
				TestRows:  3,
				MSE:       0.5,
				R2:        0.25,
				Importances: []modeler.Importance{
					{Feature: "elevation", Importance: 0.7},
					{Feature: "species", Importance: 0.3},
				},
			},
		},
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "spidermap-report")
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		_ = os.RemoveAll(dir)
	})

	It("saves importance chart", func() {
		r := reportio.New(10)
		path := filepath.Join(dir, "importances.png")
		Expect(r.ImportanceChart(path, rep.Results[0])).To(Succeed())
		exists, err := gnsys.FileExists(path)
		Expect(err).To(BeNil())
		Expect(exists).To(BeTrue())
	})

	It("refuses to draw an empty chart", func() {
		r := reportio.New(10)
		err := r.ImportanceChart(filepath.Join(dir, "x.png"), modeler.Result{})
		Expect(err).ToNot(BeNil())
	})

	It("saves model workbook", func() {
		r := reportio.New(0)
		path := filepath.Join(dir, "model.xlsx")
		Expect(r.ModelWorkbook(path, rep)).To(Succeed())

		f, err := excelize.OpenFile(path)
		Expect(err).To(BeNil())
		defer f.Close()
		rows, err := f.GetRows("Metrics")
		Expect(err).To(BeNil())
		Expect(rows).To(HaveLen(2))
		Expect(rows[1][0]).To(Equal("all features"))

		rows, err = f.GetRows("all features")
		Expect(err).To(BeNil())
		Expect(rows[1]).To(Equal([]string{"elevation", "0.7"}))
	})

	It("saves views workbook with empty missing cells", func() {
		r := reportio.New(0)
		path := filepath.Join(dir, "views.xlsx")
		views := []report.View{{
			Name:    "choropleth",
			Columns: []agg.Column{agg.Canton, agg.Year},
			Records: []agg.Record{{
				Canton:        "Bern",
				Year:          2001,
				Occurrence:    agg.Num(2),
				Temperature:   math.NaN(),
				Precipitation: 80,
			}},
		}}
		Expect(r.ViewsWorkbook(path, views)).To(Succeed())

		f, err := excelize.OpenFile(path)
		Expect(err).To(BeNil())
		defer f.Close()
		rows, err := f.GetRows("choropleth")
		Expect(err).To(BeNil())
		Expect(rows[0]).To(Equal([]string{
			"stateProvince", "Year", "occurrenceStatus", "Temperature", "Precipitation",
		}))
		Expect(rows[1]).To(Equal([]string{"Bern", "2001", "2", "", "80"}))
	})
})
