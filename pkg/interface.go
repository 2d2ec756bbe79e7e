package spidermap

import (
	"context"

	"github.com/gnames/spidermap/internal/ent/dashboard"
	"github.com/gnames/spidermap/internal/ent/loader"
	"github.com/gnames/spidermap/internal/ent/modeler"
	"github.com/gnames/spidermap/internal/ent/report"
)

// SpiderMap prepares spider occurrence data for the dashboard, the
// regression model and the export.
type SpiderMap interface {
	// DashboardData loads occurrences and canton boundaries, cleans
	// occurrences and keeps the years shown on the dashboard.
	DashboardData(ctx context.Context, l loader.Loader) (dashboard.Data, error)

	// Model fits random forest models on all cleaned occurrences.
	Model(ctx context.Context, l loader.Loader) (modeler.Report, error)

	// Views returns aggregated tables of the dashboard for a selection.
	Views(
		ctx context.Context,
		l loader.Loader,
		sel dashboard.Selection,
	) ([]report.View, error)
}
