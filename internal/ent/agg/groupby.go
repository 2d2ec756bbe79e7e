package agg

import (
	"cmp"
	"math"
	"slices"
)

// Reduction is applied to occurrence values of a group. Temperature and
// Precipitation are always reduced with a mean.
type Reduction int

const (
	// Count is the number of non-missing occurrence values.
	Count Reduction = iota
	// Size is the number of rows.
	Size
	// Sum adds numeric occurrence values. Text values add nothing.
	Sum
)

func (r Reduction) String() string {
	switch r {
	case Count:
		return "count"
	case Size:
		return "size"
	case Sum:
		return "sum"
	default:
		return "unknown"
	}
}

const allColumns = Canton | Species | Family | TaxonRank | Landscape | Lat |
	Lon | Elevation | Year | Month | Date

// key is a projection of a Record to its grouping columns.
type key struct {
	canton, species, family, taxonRank string
	landscape                          int
	lat, lon, elevation                float64
	year, month                        int
}

type group struct {
	rec       Record
	rows      int
	count     int
	sum       float64
	tempSum   float64
	tempN     int
	precipSum float64
	precipN   int
}

// GroupBy groups records by columns and reduces every group to one record.
// Records with a missing value in any of the columns are skipped. The
// result is sorted by the columns in the given order.
func GroupBy(recs []Record, by []Column, red Reduction) []Record {
	var mask Column
	for _, c := range by {
		mask |= c
	}

	idx := make(map[key]int)
	var groups []*group
	for i := range recs {
		r := &recs[i]
		if hasMissing(r, by) {
			continue
		}
		k := project(r, mask)
		gi, ok := idx[k]
		if !ok {
			gi = len(groups)
			idx[k] = gi
			groups = append(groups, &group{rec: keyRecord(r, mask)})
		}
		groups[gi].add(r)
	}

	res := make([]Record, len(groups))
	for i, g := range groups {
		res[i] = g.reduce(red)
	}
	slices.SortFunc(res, func(a, b Record) int {
		return Compare(a, b, by)
	})
	return res
}

func hasMissing(r *Record, by []Column) bool {
	for _, c := range by {
		if r.IsMissing(c) {
			return true
		}
	}
	return false
}

func project(r *Record, mask Column) key {
	var k key
	if mask&Canton != 0 {
		k.canton = r.Canton
	}
	if mask&Species != 0 {
		k.species = r.Species
	}
	if mask&Family != 0 {
		k.family = r.Family
	}
	if mask&TaxonRank != 0 {
		k.taxonRank = r.TaxonRank
	}
	if mask&Landscape != 0 {
		k.landscape = int(r.Landscape)
	}
	if mask&Lat != 0 {
		k.lat = r.Lat
	}
	if mask&Lon != 0 {
		k.lon = r.Lon
	}
	if mask&Elevation != 0 {
		k.elevation = r.Elevation
	}
	if mask&(Year|Date) != 0 {
		k.year = r.Year
	}
	if mask&(Month|Date) != 0 {
		k.month = r.Month
	}
	return k
}

// keyRecord copies grouping columns of a record, the rest is missing.
func keyRecord(r *Record, mask Column) Record {
	res := Record{
		Canton:    r.Canton,
		Species:   r.Species,
		Family:    r.Family,
		TaxonRank: r.TaxonRank,
		Landscape: r.Landscape,
		Lat:       r.Lat,
		Lon:       r.Lon,
		Elevation: r.Elevation,
		Year:      r.Year,
		Month:     r.Month,
	}
	keep := mask
	if mask&Date != 0 {
		keep |= Year | Month
	}
	res.missing = allColumns &^ keep
	return res
}

func (g *group) add(r *Record) {
	g.rows++
	switch r.Occurrence.Kind {
	case Number:
		g.count++
		g.sum += r.Occurrence.Num
	case Text:
		g.count++
	}
	if !math.IsNaN(r.Temperature) {
		g.tempSum += r.Temperature
		g.tempN++
	}
	if !math.IsNaN(r.Precipitation) {
		g.precipSum += r.Precipitation
		g.precipN++
	}
}

func (g *group) reduce(red Reduction) Record {
	res := g.rec
	switch red {
	case Count:
		res.Occurrence = Num(float64(g.count))
	case Size:
		res.Occurrence = Num(float64(g.rows))
	case Sum:
		res.Occurrence = Num(g.sum)
	}
	res.Temperature = mean(g.tempSum, g.tempN)
	res.Precipitation = mean(g.precipSum, g.precipN)
	return res
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Compare orders two records lexicographically by the given columns.
// Landscapes compare by their names.
func Compare(a, b Record, by []Column) int {
	for _, c := range by {
		var res int
		switch c {
		case Canton:
			res = cmp.Compare(a.Canton, b.Canton)
		case Species:
			res = cmp.Compare(a.Species, b.Species)
		case Family:
			res = cmp.Compare(a.Family, b.Family)
		case TaxonRank:
			res = cmp.Compare(a.TaxonRank, b.TaxonRank)
		case Landscape:
			res = cmp.Compare(a.Landscape.String(), b.Landscape.String())
		case Lat:
			res = cmp.Compare(a.Lat, b.Lat)
		case Lon:
			res = cmp.Compare(a.Lon, b.Lon)
		case Elevation:
			res = cmp.Compare(a.Elevation, b.Elevation)
		case Year:
			res = cmp.Compare(a.Year, b.Year)
		case Month:
			res = cmp.Compare(a.Month, b.Month)
		case Date:
			res = cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month))
		}
		if res != 0 {
			return res
		}
	}
	return 0
}

// SortByYear sorts records by year keeping the order of records with the
// same year. Records without a year go last.
func SortByYear(recs []Record) {
	slices.SortStableFunc(recs, func(a, b Record) int {
		am, bm := a.IsMissing(Year), b.IsMissing(Year)
		switch {
		case am && bm:
			return 0
		case am:
			return 1
		case bm:
			return -1
		}
		return cmp.Compare(a.Year, b.Year)
	})
}
