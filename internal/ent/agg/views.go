package agg

import (
	"slices"
)

var (
	// ChoroplethColumns group occurrences of all species for the canton map.
	ChoroplethColumns = []Column{Canton, Species, Year, Lat, Lon}

	// ScatterColumns group occurrences of selected families for the scatter
	// map.
	ScatterColumns = []Column{Species, Canton, Lat, Lon, Year, Month, Landscape}

	// ClimateColumns group the scatter table for the climate map.
	ClimateColumns = []Column{Canton, Species, Year, Lat, Lon, Landscape}

	// ModelColumns group occurrences for the regression model.
	ModelColumns = []Column{
		Canton, Species, Date, Lat, Lon, Landscape, Elevation, TaxonRank,
	}
)

// Choropleth counts occurrences of every species per canton, coordinates
// and year.
func Choropleth(recs []Record) []Record {
	return yearView(recs, ChoroplethColumns, Count)
}

// Scatter counts rows per species, canton, coordinates, year, month and
// landscape.
func Scatter(recs []Record) []Record {
	return yearView(recs, ScatterColumns, Size)
}

// Climate sums the occurrences of a scatter table over months.
func Climate(scatter []Record) []Record {
	return yearView(scatter, ClimateColumns, Sum)
}

func yearView(recs []Record, by []Column, red Reduction) []Record {
	sorted := slices.Clone(recs)
	SortByYear(sorted)
	res := GroupBy(sorted, by, red)
	SortByYear(res)
	return res
}

// FilterFamilies keeps records that belong to one of the families.
func FilterFamilies(recs []Record, families []string) []Record {
	set := make(map[string]struct{}, len(families))
	for _, v := range families {
		set[v] = struct{}{}
	}
	res := make([]Record, 0, len(recs))
	for _, v := range recs {
		if v.IsMissing(Family) {
			continue
		}
		if _, ok := set[v.Family]; ok {
			res = append(res, v)
		}
	}
	return res
}

// Families returns distinct families in the order they first appear.
func Families(recs []Record) []string {
	return distinct(recs, Family, func(r Record) string { return r.Family })
}

// SpeciesList returns distinct species in the order they first appear.
func SpeciesList(recs []Record) []string {
	return distinct(recs, Species, func(r Record) string { return r.Species })
}

// Years returns distinct years in ascending order.
func Years(recs []Record) []int {
	seen := make(map[int]struct{})
	var res []int
	for _, v := range recs {
		if v.IsMissing(Year) {
			continue
		}
		if _, ok := seen[v.Year]; ok {
			continue
		}
		seen[v.Year] = struct{}{}
		res = append(res, v.Year)
	}
	slices.Sort(res)
	return res
}

func distinct(recs []Record, c Column, val func(Record) string) []string {
	seen := make(map[string]struct{})
	var res []string
	for _, v := range recs {
		if v.IsMissing(c) {
			continue
		}
		s := val(v)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		res = append(res, s)
	}
	return res
}
