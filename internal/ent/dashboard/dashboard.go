package dashboard

import (
	"fmt"
	"slices"
	"time"

	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/figure"
	"github.com/gnames/spidermap/internal/ent/geo"
	"github.com/gnames/spidermap/internal/observability"
	"github.com/jonboulle/clockwork"
)

const (
	Title   = "Spiders Biodiversity in Switzerland App"
	Heading = "Exploring changes in spider species distribution and their " +
		"relationship with the average temperature"
	Team = "Team members: Robin Portmann, Michelle Peter and Ansam Zedan"
)

// Sidebar is the table of contents of the page.
var Sidebar = []string{
	"Introduction",
	"Data Description and Source",
	"Has the composition of spider species in Switzerland changed between " +
		"1896 and 2021, and is there a correlation between the distribution " +
		"of spider species and average temperature fluctuations?",
	"Methods Used",
	"Maps Plotted",
	"Geographical Scope",
	"Outlook",
}

var (
	cantonMap = figure.MapLayout{
		Title:     "Spider Biodiversity in Switzerland",
		Style:     "carto-positron",
		CenterLat: 46.818,
		CenterLon: 8.2275,
		Zoom:      7,
		Width:     1500,
		Height:    750,
		Margin:    map[string]int{"r": 0, "t": 0, "l": 0, "b": 0},
	}

	speciesMap = figure.MapLayout{
		Title:     "<b>Number of spider spottings for specific families per species</b>",
		Style:     "open-street-map",
		CenterLat: 46.8,
		CenterLon: 8.3,
		Zoom:      6.3,
		Width:     1400,
		Height:    750,
		Margin:    map[string]int{"r": 0, "t": 35, "l": 0, "b": 0},
	}

	presentColor = figure.ColorSpec{
		Label: "Number of spiders present",
		Value: figure.Occurrence,
		Scale: "Viridis",
	}
)

// Data is the input of the dashboard.
type Data struct {
	// Records are cleaned occurrences filtered by year.
	Records []agg.Record

	// Regions are canton boundaries.
	Regions *geo.Collection
}

// Page is everything the dashboard page shows.
type Page struct {
	Title    string
	Heading  string
	Team     string
	Sidebar  []string
	Families []string

	Selection Selection

	// Species are shown when Selection.ShowSpecies is true.
	Species []string

	Choropleth figure.Figure
	Scatter    figure.Figure
	Climate    figure.Figure
}

// Renderer builds dashboard figures from data and widget state.
type Renderer struct {
	mode    RenderMode
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// Option changes settings of Renderer.
type Option func(*Renderer)

// OptClock sets a time source for render timings.
func OptClock(c clockwork.Clock) Option {
	return func(r *Renderer) {
		r.clock = c
	}
}

// OptMetrics sets Prometheus metrics.
func OptMetrics(m *observability.Metrics) Option {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// New creates a Renderer.
func New(mode RenderMode, opts ...Option) *Renderer {
	res := Renderer{
		mode:  mode,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(&res)
	}
	return &res
}

// Mode returns the render mode.
func (r *Renderer) Mode() RenderMode {
	return r.mode
}

// Render builds the whole page.
func (r *Renderer) Render(d Data, sel Selection) (Page, error) {
	if err := sel.Validate(); err != nil {
		return Page{}, err
	}
	res := Page{
		Title:     Title,
		Heading:   Heading,
		Team:      Team,
		Sidebar:   Sidebar,
		Families:  agg.Families(d.Records),
		Selection: sel,
	}
	if sel.ShowSpecies {
		res.Species = r.Species(d, sel)
	}

	res.Choropleth = r.ChoroplethFigure(d)
	res.Scatter = r.ScatterFigure(d, sel)

	var err error
	res.Climate, err = r.ClimateFigure(d, sel)
	if err != nil {
		return Page{}, err
	}
	return res, nil
}

// Species returns distinct species of selected families.
func (r *Renderer) Species(d Data, sel Selection) []string {
	return agg.SpeciesList(agg.FilterFamilies(d.Records, sel.Families))
}

// ChoroplethFigure shows the number of occurrences of all spiders per canton
// and year.
func (r *Renderer) ChoroplethFigure(d Data) figure.Figure {
	defer r.observe("choropleth", r.clock.Now())

	var recs []agg.Record
	switch r.mode {
	case Parity:
		recs = presence(d.Records)
	default:
		recs = agg.Choropleth(d.Records)
	}
	return figure.Choropleth(recs, d.Regions, presentColor, cantonMap)
}

// ScatterFigure shows occurrences of selected families coloured by species.
func (r *Renderer) ScatterFigure(d Data, sel Selection) figure.Figure {
	defer r.observe("scatter", r.clock.Now())

	recs := agg.Scatter(agg.FilterFamilies(d.Records, sel.Families))
	return figure.SpeciesScatter(recs, speciesMap)
}

// ClimateFigure colours cantons by a climate variable and draws occurrences
// of selected families on top.
func (r *Renderer) ClimateFigure(d Data, sel Selection) (figure.Figure, error) {
	defer r.observe("climate", r.clock.Now())

	recs := agg.Scatter(agg.FilterFamilies(d.Records, sel.Families))
	if r.mode != Parity {
		recs = agg.Climate(recs)
	}

	color := figure.ColorSpec{
		Label: string(sel.Climate),
		Value: figure.Temperature,
		Scale: "RdBu",
	}
	if sel.Climate == Precipitation {
		color.Value = figure.Precipitation
	}
	base := figure.Choropleth(recs, d.Regions, color, cantonMap)

	points := presentColor
	points.Axis = "coloraxis2"
	top := figure.Scatter(recs, points, cantonMap)

	res, err := figure.Overlay(base, top)
	if err != nil {
		if r.metrics != nil {
			r.metrics.RenderErrors.Inc()
		}
		return figure.Figure{}, fmt.Errorf("cannot build climate map: %w", err)
	}
	colorbarOffset(res.Layout, points.Axis)
	return res, nil
}

// presence sorts cleaned rows by year and counts every row with an
// occurrence status as one occurrence.
func presence(recs []agg.Record) []agg.Record {
	res := slices.Clone(recs)
	for i := range res {
		if res[i].Occurrence.Kind != agg.Missing {
			res[i].Occurrence = agg.Num(1)
		}
	}
	agg.SortByYear(res)
	return res
}

// colorbarOffset moves the colour bar of an overlay so the two bars do not
// cover each other.
func colorbarOffset(layout map[string]any, axis string) {
	ax, ok := layout[axis].(map[string]any)
	if !ok {
		return
	}
	if bar, ok := ax["colorbar"].(map[string]any); ok {
		bar["x"] = 1.12
	}
}

func (r *Renderer) observe(name string, start time.Time) {
	if r.metrics != nil {
		r.metrics.RenderDuration.WithLabelValues(name).
			Observe(r.clock.Since(start).Seconds())
	}
}
