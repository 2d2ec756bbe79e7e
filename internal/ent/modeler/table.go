package modeler

import (
	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/prep"
	"github.com/gnames/spidermap/pkg/ent/occur"
)

// Feature names as they appear in the occurrence snapshot.
const (
	FeatSpecies       = "species"
	FeatLat           = "decimalLatitude"
	FeatLon           = "decimalLongitude"
	FeatElevation     = "elevation"
	FeatTemperature   = "Temperature"
	FeatPrecipitation = "Precipitation"
	FeatCanton        = "stateProvince"
	FeatLandscape     = "Landscape"
	FeatTaxonRank     = "taxonRank"
)

var (
	// NumericFeatures are scaled.
	NumericFeatures = []string{
		FeatSpecies, FeatLat, FeatLon, FeatElevation, FeatTemperature,
		FeatPrecipitation,
	}

	// CategoricalFeatures are one-hot encoded.
	CategoricalFeatures = []string{FeatCanton, FeatLandscape, FeatTaxonRank}

	// LocationFeatures are removed for the ablation run.
	LocationFeatures = []string{FeatCanton, FeatLat, FeatLon}
)

// Table is a grouped and encoded occurrence table.
type Table struct {
	Numeric     map[string][]float64
	Categorical map[string][]string

	// Target is the number of occurrences.
	Target []float64

	// Species maps species codes back to names.
	Species *prep.LabelEncoder
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.Target)
}

// EncodePresence replaces PRESENT occurrence values with 1. Other text
// values stay as they are and their number is returned.
func EncodePresence(recs []agg.Record) ([]agg.Record, int) {
	res := make([]agg.Record, len(recs))
	var unconverted int
	for i, v := range recs {
		if v.Occurrence.Kind == agg.Text {
			if v.Occurrence.Str == occur.Present {
				v.Occurrence = agg.Num(1)
			} else {
				unconverted++
			}
		}
		res[i] = v
	}
	return res, unconverted
}

// NewTable groups encoded records by canton, species, date, coordinates,
// landscape, elevation and taxon rank and encodes species names.
func NewTable(recs []agg.Record) *Table {
	sorted := make([]agg.Record, len(recs))
	copy(sorted, recs)
	agg.SortByYear(sorted)
	grouped := agg.GroupBy(sorted, agg.ModelColumns, agg.Sum)

	names := make([]string, len(grouped))
	for i, v := range grouped {
		names[i] = v.Species
	}
	enc := prep.NewLabelEncoder(names)

	n := len(grouped)
	res := Table{
		Numeric:     make(map[string][]float64, len(NumericFeatures)),
		Categorical: make(map[string][]string, len(CategoricalFeatures)),
		Target:      make([]float64, n),
		Species:     enc,
	}
	for _, f := range NumericFeatures {
		res.Numeric[f] = make([]float64, n)
	}
	for _, f := range CategoricalFeatures {
		res.Categorical[f] = make([]string, n)
	}

	for i, v := range grouped {
		code, _ := enc.Encode(v.Species)
		res.Numeric[FeatSpecies][i] = float64(code)
		res.Numeric[FeatLat][i] = v.Lat
		res.Numeric[FeatLon][i] = v.Lon
		res.Numeric[FeatElevation][i] = v.Elevation
		res.Numeric[FeatTemperature][i] = v.Temperature
		res.Numeric[FeatPrecipitation][i] = v.Precipitation
		res.Categorical[FeatCanton][i] = v.Canton
		res.Categorical[FeatLandscape][i] = v.Landscape.String()
		res.Categorical[FeatTaxonRank][i] = v.TaxonRank
		res.Target[i] = v.Occurrence.Num
	}
	return &res
}
