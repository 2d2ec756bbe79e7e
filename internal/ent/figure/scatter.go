package figure

import (
	"github.com/gnames/spidermap/internal/ent/agg"
)

const hoverPoint = "<b>%{hovertext}</b><br>" +
	"Canton=%{customdata[0]}<br>" +
	"Temperature=%{customdata[1]}<br>" +
	"Precipitation=%{customdata[2]}<br>" +
	"Number of occurrences=%{customdata[3]}<extra></extra>"

// SpeciesScatter places records on a map with one trace per species.
// Every frame carries a trace for every species, even if it has no points
// in that year, so the legend does not change during the animation.
func SpeciesScatter(recs []agg.Record, m MapLayout) Figure {
	species := agg.SpeciesList(recs)
	names, groups := frames(recs)

	res := Figure{
		Layout: m.layout(),
		Frames: make([]Frame, len(names)),
	}
	for i := range names {
		res.Frames[i] = Frame{
			Name: names[i],
			Data: speciesTraces(groups[i], species),
		}
	}
	if len(groups) > 0 {
		res.Data = speciesTraces(groups[0], species)
	} else {
		res.Data = speciesTraces(nil, species)
	}
	animate(res.Layout, names)
	return res
}

func speciesTraces(recs []agg.Record, species []string) []Trace {
	idx := make(map[string]int, len(species))
	pts := make([]points, len(species))
	for i, v := range species {
		idx[v] = i
	}
	for _, v := range recs {
		i, ok := idx[v.Species]
		if !ok || v.IsMissing(agg.Species) {
			continue
		}
		pts[i].add(v)
	}

	res := make([]Trace, len(species))
	for i, v := range species {
		t := pts[i].trace()
		t["name"] = v
		t["legendgroup"] = v
		t["showlegend"] = true
		t["marker"] = map[string]any{"opacity": 0.8}
		res[i] = t
	}
	return res
}

// Scatter places records on a map coloured by a record value, one frame
// per year.
func Scatter(recs []agg.Record, color ColorSpec, m MapLayout) Figure {
	names, groups := frames(recs)
	res := Figure{
		Layout: m.layout(),
		Frames: make([]Frame, len(names)),
	}
	res.Layout[color.axis()] = color.colorAxis(recs)

	for i := range names {
		res.Frames[i] = Frame{
			Name: names[i],
			Data: []Trace{colorTrace(groups[i], color)},
		}
	}
	if len(groups) > 0 {
		res.Data = []Trace{colorTrace(groups[0], color)}
	} else {
		res.Data = []Trace{colorTrace(nil, color)}
	}
	animate(res.Layout, names)
	return res
}

func colorTrace(recs []agg.Record, color ColorSpec) Trace {
	var p points
	colors := make([]any, 0, len(recs))
	for _, v := range recs {
		if p.add(v) {
			colors = append(colors, num(color.Value(v)))
		}
	}
	res := p.trace()
	res["name"] = ""
	res["showlegend"] = false
	res["marker"] = map[string]any{
		"color":     colors,
		"coloraxis": color.axis(),
	}
	return res
}

type points struct {
	lat, lon []float64
	text     []string
	custom   [][]any
}

// add appends a record with coordinates and reports if it was used.
func (p *points) add(r agg.Record) bool {
	if r.IsMissing(agg.Lat) || r.IsMissing(agg.Lon) {
		return false
	}
	p.lat = append(p.lat, r.Lat)
	p.lon = append(p.lon, r.Lon)
	p.text = append(p.text, r.Species)
	p.custom = append(p.custom, []any{
		r.Canton,
		num(r.Temperature),
		num(r.Precipitation),
		num(Occurrence(r)),
	})
	return true
}

func (p *points) trace() Trace {
	lat, lon := p.lat, p.lon
	if lat == nil {
		lat, lon = []float64{}, []float64{}
	}
	text, custom := p.text, p.custom
	if text == nil {
		text, custom = []string{}, [][]any{}
	}
	return Trace{
		"type":          "scattermapbox",
		"mode":          "markers",
		"lat":           lat,
		"lon":           lon,
		"hovertext":     text,
		"customdata":    custom,
		"hovertemplate": hoverPoint,
	}
}
