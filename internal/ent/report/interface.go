package report

import (
	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/modeler"
)

// View is a named aggregated table.
type View struct {
	Name    string
	Columns []agg.Column
	Records []agg.Record
}

// Reporter saves results to files.
type Reporter interface {
	// ImportanceChart saves a bar chart of feature importances as PNG.
	ImportanceChart(path string, res modeler.Result) error

	// ModelWorkbook saves metrics and importances as an xlsx workbook.
	ModelWorkbook(path string, rep modeler.Report) error

	// ViewsWorkbook saves aggregated tables as an xlsx workbook, one sheet
	// per view.
	ViewsWorkbook(path string, views []View) error
}
