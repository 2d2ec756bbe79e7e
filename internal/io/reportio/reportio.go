package reportio

import (
	"github.com/gnames/spidermap/internal/ent/report"
)

// reportio implements report.Reporter.
type reportio struct {
	// top is the number of features shown on a chart, 0 shows all.
	top int
}

// New creates a new Reporter that shows top features on charts.
func New(top int) report.Reporter {
	return &reportio{top: top}
}
