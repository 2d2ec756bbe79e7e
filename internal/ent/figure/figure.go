package figure

import (
	"errors"
	"math"
	"strconv"

	"github.com/gnames/spidermap/internal/ent/agg"
)

// ErrFrameMismatch is returned when figures with a different number of
// animation frames are overlaid.
var ErrFrameMismatch = errors.New("animation frames do not match")

// Trace is a plotly trace. Frames carry partial traces that are merged into
// the figure traces with the same index.
type Trace map[string]any

// Frame is one step of an animation.
type Frame struct {
	Name string  `json:"name"`
	Data []Trace `json:"data"`
}

// Figure is a plotly figure document that is rendered by plotly.js.
type Figure struct {
	Data   []Trace        `json:"data"`
	Layout map[string]any `json:"layout"`
	Frames []Frame        `json:"frames,omitempty"`
}

// MapLayout describes a map viewport.
type MapLayout struct {
	Title     string
	Style     string
	CenterLat float64
	CenterLon float64
	Zoom      float64
	Width     int
	Height    int
	Margin    map[string]int
}

// ColorSpec describes a continuous colour of a trace.
type ColorSpec struct {
	// Label is shown on the colour bar.
	Label string

	// Value extracts the colour value from a record.
	Value func(agg.Record) float64

	// Scale is a plotly colour scale name.
	Scale string

	// Axis is the layout key of the colour axis.
	Axis string
}

// Occurrence returns the aggregated occurrence value of a record.
func Occurrence(r agg.Record) float64 {
	if r.Occurrence.Kind != agg.Number {
		return math.NaN()
	}
	return r.Occurrence.Num
}

// Temperature returns the mean temperature of a record.
func Temperature(r agg.Record) float64 {
	return r.Temperature
}

// Precipitation returns the mean precipitation of a record.
func Precipitation(r agg.Record) float64 {
	return r.Precipitation
}

// frames splits records by year. Years are ascending, records keep their
// order inside of a year.
func frames(recs []agg.Record) ([]string, [][]agg.Record) {
	years := agg.Years(recs)
	idx := make(map[int]int, len(years))
	names := make([]string, len(years))
	for i, v := range years {
		idx[v] = i
		names[i] = strconv.Itoa(v)
	}
	res := make([][]agg.Record, len(years))
	for _, v := range recs {
		if v.IsMissing(agg.Year) {
			continue
		}
		i := idx[v.Year]
		res[i] = append(res[i], v)
	}
	return names, res
}

// num converts NaN to null for JSON.
func num(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func (m MapLayout) layout() map[string]any {
	res := map[string]any{
		"mapbox": map[string]any{
			"style":  m.Style,
			"zoom":   m.Zoom,
			"center": map[string]float64{"lat": m.CenterLat, "lon": m.CenterLon},
		},
		"legend": map[string]any{"tracegrouporder": "reversed"},
	}
	if m.Title != "" {
		res["title"] = map[string]any{"text": m.Title}
	}
	if m.Width > 0 {
		res["width"] = m.Width
	}
	if m.Height > 0 {
		res["height"] = m.Height
	}
	if m.Margin != nil {
		res["margin"] = m.Margin
	}
	return res
}

// colorAxis returns a colour axis with a range over all frames.
func (c ColorSpec) colorAxis(recs []agg.Record) map[string]any {
	res := map[string]any{
		"colorscale": c.Scale,
		"colorbar":   map[string]any{"title": map[string]any{"text": c.Label}},
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range recs {
		f := c.Value(v)
		if math.IsNaN(f) {
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if lo <= hi {
		res["cmin"] = lo
		res["cmax"] = hi
	}
	return res
}

func (c ColorSpec) axis() string {
	if c.Axis == "" {
		return "coloraxis"
	}
	return c.Axis
}

// animate adds a year slider and play/pause buttons to a layout.
func animate(layout map[string]any, names []string) {
	if len(names) == 0 {
		return
	}
	steps := make([]map[string]any, len(names))
	for i, v := range names {
		steps[i] = map[string]any{
			"label":  v,
			"method": "animate",
			"args": []any{
				[]string{v},
				map[string]any{
					"mode":       "immediate",
					"frame":      map[string]any{"duration": 0, "redraw": true},
					"transition": map[string]any{"duration": 0, "easing": "linear"},
				},
			},
		}
	}
	layout["sliders"] = []map[string]any{{
		"active":       0,
		"currentvalue": map[string]any{"prefix": "Year="},
		"len":          0.9,
		"x":            0.1,
		"pad":          map[string]int{"b": 10, "t": 60},
		"steps":        steps,
	}}
	layout["updatemenus"] = []map[string]any{{
		"type":       "buttons",
		"direction":  "left",
		"showactive": false,
		"x":          0.1,
		"xanchor":    "right",
		"y":          0,
		"yanchor":    "top",
		"pad":        map[string]int{"r": 10, "t": 70},
		"buttons": []map[string]any{
			{
				"label":  "&#9654;",
				"method": "animate",
				"args": []any{nil, map[string]any{
					"frame":       map[string]any{"duration": 500, "redraw": true},
					"mode":        "immediate",
					"fromcurrent": true,
					"transition":  map[string]any{"duration": 500, "easing": "linear"},
				}},
			},
			{
				"label":  "&#9724;",
				"method": "animate",
				"args": []any{[]any{nil}, map[string]any{
					"frame":       map[string]any{"duration": 0, "redraw": true},
					"mode":        "immediate",
					"fromcurrent": true,
					"transition":  map[string]any{"duration": 0, "easing": "linear"},
				}},
			},
		},
	}}
}
