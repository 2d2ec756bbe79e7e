package spidermap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/clean"
	"github.com/gnames/spidermap/internal/ent/dashboard"
	"github.com/gnames/spidermap/internal/ent/geo"
	"github.com/gnames/spidermap/internal/ent/loader"
	"github.com/gnames/spidermap/internal/ent/modeler"
	"github.com/gnames/spidermap/internal/ent/report"
	"github.com/gnames/spidermap/pkg/config"
	"github.com/gnames/spidermap/pkg/ent/occur"
	"golang.org/x/sync/errgroup"
)

// spidermap is an implementation of SpiderMap interface.
type spidermap struct {
	cfg config.Config
}

// New creates a new instance of SpiderMap.
func New(cfg config.Config) SpiderMap {
	res := spidermap{cfg: cfg}
	return &res
}

// DashboardData loads both input files at the same time.
func (s *spidermap) DashboardData(
	ctx context.Context,
	l loader.Loader,
) (dashboard.Data, error) {
	var res dashboard.Data
	var raw []occur.Raw
	var regions *geo.Collection

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = l.Occurrences(ctx, s.cfg.DataPath)
		return err
	})
	g.Go(func() error {
		var err error
		regions, err = l.Regions(ctx, s.cfg.RegionsPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return res, err
	}

	cl := clean.Clean(raw, clean.Options{FilterYear: true, MinYear: s.cfg.MinYear})
	logClean(cl)
	res.Records = agg.FromOccurrences(cl.Occurrences)
	res.Regions = regions
	return res, nil
}

// Model uses all years of the snapshot.
func (s *spidermap) Model(
	ctx context.Context,
	l loader.Loader,
) (modeler.Report, error) {
	raw, err := l.Occurrences(ctx, s.cfg.DataPath)
	if err != nil {
		return modeler.Report{}, err
	}
	cl := clean.Clean(raw, clean.Options{})
	logClean(cl)

	cfg := modeler.Config{
		TestSize: s.cfg.TestSize,
		Seed:     s.cfg.Seed,
		Trees:    s.cfg.Trees,
		JobsNum:  s.cfg.JobsNum,
	}
	res, err := modeler.Run(ctx, agg.FromOccurrences(cl.Occurrences), cfg)
	if err != nil {
		return res, fmt.Errorf("cannot run model: %w", err)
	}
	return res, nil
}

// Views returns choropleth, scatter and climate tables.
func (s *spidermap) Views(
	ctx context.Context,
	l loader.Loader,
	sel dashboard.Selection,
) ([]report.View, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	d, err := s.DashboardData(ctx, l)
	if err != nil {
		return nil, err
	}
	scatter := agg.Scatter(agg.FilterFamilies(d.Records, sel.Families))
	res := []report.View{
		{
			Name:    "choropleth",
			Columns: agg.ChoroplethColumns,
			Records: agg.Choropleth(d.Records),
		},
		{
			Name:    "scatter",
			Columns: agg.ScatterColumns,
			Records: scatter,
		},
		{
			Name:    "climate",
			Columns: agg.ClimateColumns,
			Records: agg.Climate(scatter),
		},
	}
	return res, nil
}

func logClean(cl clean.Result) {
	slog.Info("Cleaned occurrences",
		"rows", humanize.Comma(int64(len(cl.Occurrences))),
		"filtered", humanize.Comma(int64(cl.Filtered)),
	)
	if cl.Unmapped > 0 {
		slog.Warn("Cantons without landscape",
			"rows", humanize.Comma(int64(cl.Unmapped)))
	}
}
