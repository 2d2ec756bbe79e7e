package reportio

import (
	"fmt"
	"math"

	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/modeler"
	"github.com/gnames/spidermap/internal/ent/report"
	"github.com/gnames/spidermap/internal/str"
	"github.com/xuri/excelize/v2"
)

const (
	metricsSheet = "Metrics"
	maxSheetName = 31
)

// ModelWorkbook writes metrics of all results to the first sheet and
// importances of every result to its own sheet.
func (r *reportio) ModelWorkbook(path string, rep modeler.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", metricsSheet); err != nil {
		return err
	}
	header := []any{"Model", "Features", "Train rows", "Test rows", "MSE", "R^2"}
	if err := setRow(f, metricsSheet, 1, header); err != nil {
		return err
	}
	_ = f.SetColWidth(metricsSheet, "A", "A", 24)
	for i, v := range rep.Results {
		row := []any{v.Name, len(v.Features), v.TrainRows, v.TestRows, v.MSE, v.R2}
		if err := setRow(f, metricsSheet, i+2, row); err != nil {
			return err
		}
	}

	for _, v := range rep.Results {
		sheet := sheetName(v.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := setRow(f, sheet, 1, []any{"Feature", "Importance"}); err != nil {
			return err
		}
		_ = f.SetColWidth(sheet, "A", "A", 30)
		for i, imp := range v.Importances {
			if err := setRow(f, sheet, i+2, []any{imp.Feature, imp.Importance}); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save workbook %s: %w", path, err)
	}
	return nil
}

// ViewsWorkbook writes every view to its own sheet. Missing values are left
// empty.
func (r *reportio) ViewsWorkbook(path string, views []report.View) error {
	if len(views) == 0 {
		return fmt.Errorf("no views to export")
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, v := range views {
		sheet := sheetName(v.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		header := make([]any, 0, len(v.Columns)+3)
		for _, c := range v.Columns {
			header = append(header, columnName(c))
		}
		header = append(header, "occurrenceStatus", "Temperature", "Precipitation")
		if err := setRow(f, sheet, 1, header); err != nil {
			return err
		}
		_ = f.SetColWidth(sheet, "A", "B", 24)

		for j, rec := range v.Records {
			row := make([]any, 0, len(header))
			for _, c := range v.Columns {
				row = append(row, columnValue(rec, c))
			}
			row = append(row,
				occurrenceValue(rec.Occurrence),
				floatValue(rec.Temperature),
				floatValue(rec.Precipitation),
			)
			if err := setRow(f, sheet, j+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, vals []any) error {
	for i, v := range vals {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err = f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func sheetName(s string) string {
	return str.Truncate(s, maxSheetName)
}

func columnName(c agg.Column) string {
	switch c {
	case agg.Canton:
		return "stateProvince"
	case agg.Species:
		return "species"
	case agg.Family:
		return "family"
	case agg.TaxonRank:
		return "taxonRank"
	case agg.Landscape:
		return "Landscape"
	case agg.Lat:
		return "decimalLatitude"
	case agg.Lon:
		return "decimalLongitude"
	case agg.Elevation:
		return "elevation"
	case agg.Year:
		return "Year"
	case agg.Month:
		return "Month"
	case agg.Date:
		return "date"
	default:
		return "unknown"
	}
}

func columnValue(r agg.Record, c agg.Column) any {
	if r.IsMissing(c) {
		return nil
	}
	switch c {
	case agg.Canton:
		return r.Canton
	case agg.Species:
		return r.Species
	case agg.Family:
		return r.Family
	case agg.TaxonRank:
		return r.TaxonRank
	case agg.Landscape:
		return r.Landscape.String()
	case agg.Lat:
		return r.Lat
	case agg.Lon:
		return r.Lon
	case agg.Elevation:
		return r.Elevation
	case agg.Year:
		return r.Year
	case agg.Month:
		return r.Month
	case agg.Date:
		return r.DateValue()
	default:
		return nil
	}
}

func occurrenceValue(v agg.Value) any {
	switch v.Kind {
	case agg.Number:
		return v.Num
	case agg.Text:
		return v.Str
	default:
		return nil
	}
}

func floatValue(f float64) any {
	if math.IsNaN(f) {
		return nil
	}
	return f
}
