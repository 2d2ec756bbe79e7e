package reportio

import (
	"fmt"
	"image/color"

	"github.com/gnames/spidermap/internal/ent/modeler"
	"github.com/gnames/spidermap/internal/str"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const maxLabel = 40

// ImportanceChart draws horizontal bars of feature importances with the
// most important feature on top.
func (r *reportio) ImportanceChart(path string, res modeler.Result) error {
	imps := res.Importances
	if r.top > 0 && len(imps) > r.top {
		imps = imps[:r.top]
	}
	if len(imps) == 0 {
		return fmt.Errorf("no importances for %s", res.Name)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Feature importances (%s)", res.Name)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Importance"

	n := len(imps)
	values := make(plotter.Values, n)
	labels := make([]string, n)
	for i, v := range imps {
		values[n-1-i] = v.Importance
		labels[n-1-i] = str.ShortLabel(v.Feature, maxLabel)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("cannot create bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.Color = color.RGBA{R: 68, G: 1, B: 84, A: 255}
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.Add(plotter.NewGrid())
	p.NominalY(labels...)
	p.X.Min = 0

	height := vg.Length(n)*vg.Points(20) + 2*vg.Inch
	if err = p.Save(10*vg.Inch, height, path); err != nil {
		return fmt.Errorf("cannot save chart %s: %w", path, err)
	}
	return nil
}
