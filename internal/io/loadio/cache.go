package loadio

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/gnames/gnfmt"
	"github.com/gnames/spidermap/pkg/ent/occur"
)

// cacheRow keeps validity of every value explicitly. Gob drops zero values
// of pointers, so a 0.0 temperature would come back as missing.
type cacheRow struct {
	Index                  sql.NullInt64
	Kingdom                sql.NullString
	Phylum                 sql.NullString
	Class                  sql.NullString
	Order                  sql.NullString
	Family                 sql.NullString
	Species                sql.NullString
	ScientificName         sql.NullString
	VerbatimScientificName sql.NullString
	TaxonRank              sql.NullString
	CountryCode            sql.NullString
	StateProvince          sql.NullString
	DecimalLatitude        sql.NullFloat64
	DecimalLongitude       sql.NullFloat64
	Elevation              sql.NullFloat64
	OccurrenceStatus       sql.NullString
	Year                   sql.NullInt64
	Month                  sql.NullInt64
	Temperature            sql.NullFloat64
	Precipitation          sql.NullFloat64
}

// cacheKey changes when a file is modified, so stale entries are never
// found.
func cacheKey(path string, fi os.FileInfo) []byte {
	return fmt.Appendf(nil, "%s|%s|%d|%d",
		kindOccurrences, path, fi.Size(), fi.ModTime().UnixNano())
}

func (l *loadio) getCached(key []byte) ([]occur.Raw, bool, error) {
	data, err := l.kv.GetValue(key)
	if err != nil {
		return nil, false, err
	}
	if data == nil {
		return nil, false, nil
	}
	var rows []cacheRow
	enc := gnfmt.GNgob{}
	if err = enc.Decode(data, &rows); err != nil {
		return nil, false, err
	}
	res := make([]occur.Raw, len(rows))
	for i := range rows {
		res[i] = fromCache(rows[i])
	}
	return res, true, nil
}

func (l *loadio) setCached(key []byte, raw []occur.Raw) error {
	rows := make([]cacheRow, len(raw))
	for i := range raw {
		rows[i] = toCache(raw[i])
	}
	enc := gnfmt.GNgob{}
	data, err := enc.Encode(rows)
	if err != nil {
		return err
	}
	return l.kv.SetValue(key, data)
}

func toCache(r occur.Raw) cacheRow {
	return cacheRow{
		Index:                  occur.NullInt(r.Index),
		Kingdom:                occur.NullString(r.Kingdom),
		Phylum:                 occur.NullString(r.Phylum),
		Class:                  occur.NullString(r.Class),
		Order:                  occur.NullString(r.Order),
		Family:                 occur.NullString(r.Family),
		Species:                occur.NullString(r.Species),
		ScientificName:         occur.NullString(r.ScientificName),
		VerbatimScientificName: occur.NullString(r.VerbatimScientificName),
		TaxonRank:              occur.NullString(r.TaxonRank),
		CountryCode:            occur.NullString(r.CountryCode),
		StateProvince:          occur.NullString(r.StateProvince),
		DecimalLatitude:        occur.NullFloat(r.DecimalLatitude),
		DecimalLongitude:       occur.NullFloat(r.DecimalLongitude),
		Elevation:              occur.NullFloat(r.Elevation),
		OccurrenceStatus:       occur.NullString(r.OccurrenceStatus),
		Year:                   occur.NullInt(r.Year),
		Month:                  occur.NullInt(r.Month),
		Temperature:            occur.NullFloat(r.Temperature),
		Precipitation:          occur.NullFloat(r.Precipitation),
	}
}

func fromCache(c cacheRow) occur.Raw {
	return occur.Raw{
		Index:                  intPtr(c.Index),
		Kingdom:                strPtr(c.Kingdom),
		Phylum:                 strPtr(c.Phylum),
		Class:                  strPtr(c.Class),
		Order:                  strPtr(c.Order),
		Family:                 strPtr(c.Family),
		Species:                strPtr(c.Species),
		ScientificName:         strPtr(c.ScientificName),
		VerbatimScientificName: strPtr(c.VerbatimScientificName),
		TaxonRank:              strPtr(c.TaxonRank),
		CountryCode:            strPtr(c.CountryCode),
		StateProvince:          strPtr(c.StateProvince),
		DecimalLatitude:        floatPtr(c.DecimalLatitude),
		DecimalLongitude:       floatPtr(c.DecimalLongitude),
		Elevation:              floatPtr(c.Elevation),
		OccurrenceStatus:       strPtr(c.OccurrenceStatus),
		Year:                   intPtr(c.Year),
		Month:                  intPtr(c.Month),
		Temperature:            floatPtr(c.Temperature),
		Precipitation:          floatPtr(c.Precipitation),
	}
}

func strPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

func intPtr(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	return &i.Int64
}
