package agg

import (
	"math"
	"time"

	"github.com/gnames/spidermap/pkg/ent/occur"
)

// Column is a field of a Record that can be used for grouping.
type Column uint16

const (
	Canton Column = 1 << iota
	Species
	Family
	TaxonRank
	Landscape
	Lat
	Lon
	Elevation
	Year
	Month
	// Date is the first day of Year and Month.
	Date
)

// ValueKind tells how an occurrence value is represented.
type ValueKind int

const (
	Missing ValueKind = iota
	Number
	Text
)

// Value is an occurrence value. Raw snapshots carry strings, encoded and
// aggregated tables carry numbers.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

// Num creates a numeric value.
func Num(f float64) Value {
	return Value{Kind: Number, Num: f}
}

// Str creates a text value.
func Str(s string) Value {
	return Value{Kind: Text, Str: s}
}

// Record is one row of a table that goes through aggregation.
type Record struct {
	Canton    string
	Species   string
	Family    string
	TaxonRank string
	Landscape occur.Region
	Lat       float64
	Lon       float64
	Elevation float64
	Year      int
	Month     int

	Occurrence Value

	// Temperature is NaN when missing.
	Temperature float64

	// Precipitation is NaN when missing.
	Precipitation float64

	// missing keeps columns without a value.
	missing Column
}

// IsMissing returns true if the record has no value for the column. For
// Date the value is missing if either Year or Month is missing.
func (r Record) IsMissing(c Column) bool {
	if c == Date {
		return r.missing&(Year|Month|Date) != 0
	}
	return r.missing&c != 0
}

// SetMissing marks columns as missing.
func (r *Record) SetMissing(c Column) {
	r.missing |= c
}

// DateValue returns the date of the record.
func (r Record) DateValue() time.Time {
	return time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
}

// FromOccurrence converts a cleaned occurrence to a Record.
func FromOccurrence(o occur.Occurrence) Record {
	var res Record
	setStr := func(s string, valid bool, dst *string, c Column) {
		if valid {
			*dst = s
			return
		}
		res.missing |= c
	}
	setNum := func(f float64, valid bool, dst *float64, c Column) {
		if valid && !math.IsNaN(f) {
			*dst = f
			return
		}
		res.missing |= c
	}
	setInt := func(i int64, valid bool, dst *int, c Column) {
		if valid {
			*dst = int(i)
			return
		}
		res.missing |= c
	}

	setStr(o.Canton.String, o.Canton.Valid, &res.Canton, Canton)
	setStr(o.Species.String, o.Species.Valid, &res.Species, Species)
	setStr(o.Family.String, o.Family.Valid, &res.Family, Family)
	setStr(o.TaxonRank.String, o.TaxonRank.Valid, &res.TaxonRank, TaxonRank)
	setNum(o.Lat.Float64, o.Lat.Valid, &res.Lat, Lat)
	setNum(o.Lon.Float64, o.Lon.Valid, &res.Lon, Lon)
	setNum(o.Elevation.Float64, o.Elevation.Valid, &res.Elevation, Elevation)
	setInt(o.Year.Int64, o.Year.Valid, &res.Year, Year)
	setInt(o.Month.Int64, o.Month.Valid, &res.Month, Month)

	res.Landscape = o.Landscape
	if !o.Landscape.Valid() {
		res.missing |= Landscape
	}

	if o.Status.Valid {
		res.Occurrence = Str(o.Status.String)
	}

	res.Temperature = math.NaN()
	if o.Temperature.Valid {
		res.Temperature = o.Temperature.Float64
	}
	res.Precipitation = math.NaN()
	if o.Precipitation.Valid {
		res.Precipitation = o.Precipitation.Float64
	}
	return res
}

// FromOccurrences converts a slice of cleaned occurrences.
func FromOccurrences(occs []occur.Occurrence) []Record {
	res := make([]Record, len(occs))
	for i := range occs {
		res[i] = FromOccurrence(occs[i])
	}
	return res
}
