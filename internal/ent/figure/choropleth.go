package figure

import (
	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/geo"
)

const hoverCanton = "<b>%{location}</b><br>" +
	"species=%{customdata[0]}<br>" +
	"occurrences=%{customdata[1]}<br>" +
	"Temperature=%{customdata[2]}<br>" +
	"Precipitation=%{customdata[3]}<br>" +
	"%{z}<extra></extra>"

// Choropleth colours cantons by a record value, one frame per year. Boundaries
// are attached only to the figure trace, frames update locations and values.
func Choropleth(
	recs []agg.Record,
	regions *geo.Collection,
	color ColorSpec,
	m MapLayout,
) Figure {
	names, groups := frames(recs)
	res := Figure{
		Layout: m.layout(),
		Frames: make([]Frame, len(names)),
	}
	res.Layout[color.axis()] = color.colorAxis(recs)

	for i := range names {
		res.Frames[i] = Frame{
			Name: names[i],
			Data: []Trace{choroplethTrace(groups[i], color)},
		}
	}

	var base Trace
	if len(groups) > 0 {
		base = choroplethTrace(groups[0], color)
	} else {
		base = choroplethTrace(nil, color)
	}
	base["geojson"] = regions
	base["featureidkey"] = geo.FeatureIDKey
	base["marker"] = map[string]any{"opacity": 0.8}
	res.Data = []Trace{base}

	animate(res.Layout, names)
	return res
}

func choroplethTrace(recs []agg.Record, color ColorSpec) Trace {
	locs := make([]string, 0, len(recs))
	z := make([]any, 0, len(recs))
	custom := make([][]any, 0, len(recs))
	for _, v := range recs {
		if v.IsMissing(agg.Canton) {
			continue
		}
		locs = append(locs, v.Canton)
		z = append(z, num(color.Value(v)))
		custom = append(custom, []any{
			v.Species,
			num(Occurrence(v)),
			num(v.Temperature),
			num(v.Precipitation),
		})
	}
	return Trace{
		"type":          "choroplethmapbox",
		"name":          "",
		"locations":     locs,
		"z":             z,
		"customdata":    custom,
		"coloraxis":     color.axis(),
		"hovertemplate": color.Label + "=" + hoverCanton,
	}
}
