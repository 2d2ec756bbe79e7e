package clean

import (
	"github.com/gnames/spidermap/pkg/ent/occur"
)

// DroppedColumns are identification columns that are not used by the
// dashboard or the model.
var DroppedColumns = []string{
	"kingdom", "class", "Unnamed: 0", "phylum", "order",
	"scientificName", "verbatimScientificName", "countryCode",
}

// Options change the behavior of Clean.
type Options struct {
	// FilterYear enables removal of rows older than MinYear.
	FilterYear bool

	// MinYear is the earliest year to keep. Rows without a year are
	// removed when FilterYear is true.
	MinYear int
}

// Result contains cleaned occurrences.
type Result struct {
	Occurrences []occur.Occurrence

	// Unmapped is the number of kept rows with a canton that has no
	// landscape.
	Unmapped int

	// Filtered is the number of rows removed by the year filter.
	Filtered int
}

// Clean removes identification columns, optionally filters rows by year and
// adds the landscape of every row's canton.
func Clean(raw []occur.Raw, opts Options) Result {
	res := Result{Occurrences: make([]occur.Occurrence, 0, len(raw))}
	for i := range raw {
		r := &raw[i]
		if opts.FilterYear && (r.Year == nil || *r.Year < int64(opts.MinYear)) {
			res.Filtered++
			continue
		}
		o := occur.Occurrence{
			Family:        occur.NullString(r.Family),
			Species:       occur.NullString(r.Species),
			TaxonRank:     occur.NullString(r.TaxonRank),
			Canton:        occur.NullString(r.StateProvince),
			Lat:           occur.NullFloat(r.DecimalLatitude),
			Lon:           occur.NullFloat(r.DecimalLongitude),
			Elevation:     occur.NullFloat(r.Elevation),
			Status:        occur.NullString(r.OccurrenceStatus),
			Year:          occur.NullInt(r.Year),
			Month:         occur.NullInt(r.Month),
			Temperature:   occur.NullFloat(r.Temperature),
			Precipitation: occur.NullFloat(r.Precipitation),
		}
		if o.Canton.Valid {
			o.Landscape = occur.Landscape(o.Canton.String)
		}
		if !o.Landscape.Valid() {
			res.Unmapped++
		}
		res.Occurrences = append(res.Occurrences, o)
	}
	return res
}
