package occur

import (
	"database/sql"
)

// Present is the occurrenceStatus value that marks an observed presence.
const Present = "PRESENT"

// Raw is one row of the occurrence snapshot exactly as it is stored in the
// parquet file. Every column is nullable, the snapshot is written by pandas.
type Raw struct {
	// Index is an index artifact left by a previous CSV round-trip.
	Index *int64 `parquet:"Unnamed: 0"`

	Kingdom *string `parquet:"kingdom"`
	Phylum  *string `parquet:"phylum"`
	Class   *string `parquet:"class"`
	Order   *string `parquet:"order"`
	Family  *string `parquet:"family"`
	Species *string `parquet:"species"`

	// ScientificName is a name-string with authorship.
	ScientificName *string `parquet:"scientificName"`

	// VerbatimScientificName is the name-string as it was given by a
	// data provider.
	VerbatimScientificName *string `parquet:"verbatimScientificName"`

	TaxonRank   *string `parquet:"taxonRank"`
	CountryCode *string `parquet:"countryCode"`

	// StateProvince is a name of a Swiss canton.
	StateProvince *string `parquet:"stateProvince"`

	DecimalLatitude  *float64 `parquet:"decimalLatitude"`
	DecimalLongitude *float64 `parquet:"decimalLongitude"`
	Elevation        *float64 `parquet:"elevation"`

	// OccurrenceStatus is "PRESENT" for an observation of presence.
	OccurrenceStatus *string `parquet:"occurrenceStatus"`

	Year  *int64 `parquet:"Year"`
	Month *int64 `parquet:"Month"`

	// Temperature is an average temperature for the canton and month.
	Temperature *float64 `parquet:"Temperature"`

	// Precipitation is an average precipitation for the canton and month.
	Precipitation *float64 `parquet:"Precipitation"`
}

// Occurrence is a cleaned observation: identification columns are gone and
// the Landscape of the canton is derived.
type Occurrence struct {
	Family    sql.NullString
	Species   sql.NullString
	TaxonRank sql.NullString
	Canton    sql.NullString

	// Landscape is Unmapped when the canton is not in the lookup table.
	Landscape Region

	Lat       sql.NullFloat64
	Lon       sql.NullFloat64
	Elevation sql.NullFloat64

	Status sql.NullString

	Year  sql.NullInt64
	Month sql.NullInt64

	Temperature   sql.NullFloat64
	Precipitation sql.NullFloat64
}

// NullString converts a nullable parquet string.
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullFloat converts a nullable parquet float.
func NullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// NullInt converts a nullable parquet integer.
func NullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
