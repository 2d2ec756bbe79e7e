package prep

import (
	"slices"
)

// LabelEncoder maps strings to integer codes in sorted order.
type LabelEncoder struct {
	classes []string
	codes   map[string]int
}

// NewLabelEncoder creates codes 0..n-1 for sorted distinct values.
func NewLabelEncoder(values []string) *LabelEncoder {
	classes := slices.Clone(values)
	slices.Sort(classes)
	classes = slices.Compact(classes)
	res := LabelEncoder{
		classes: classes,
		codes:   make(map[string]int, len(classes)),
	}
	for i, v := range classes {
		res.codes[v] = i
	}
	return &res
}

// Encode returns the code of a value.
func (l *LabelEncoder) Encode(s string) (int, bool) {
	res, ok := l.codes[s]
	return res, ok
}

// Decode returns the value of a code.
func (l *LabelEncoder) Decode(code int) (string, bool) {
	if code < 0 || code >= len(l.classes) {
		return "", false
	}
	return l.classes[code], true
}

// Classes returns known values in code order.
func (l *LabelEncoder) Classes() []string {
	return slices.Clone(l.classes)
}

// OneHot turns categorical columns into indicator columns.
type OneHot struct {
	names      []string
	categories [][]string
	offsets    []int
	index      []map[string]int
	width      int
}

// FitOneHot learns sorted categories of every column. Columns are given
// column-major: cols[j][i] is the value of column j in row i.
func FitOneHot(names []string, cols [][]string) *OneHot {
	res := OneHot{
		names:      slices.Clone(names),
		categories: make([][]string, len(cols)),
		offsets:    make([]int, len(cols)),
		index:      make([]map[string]int, len(cols)),
	}
	for j, col := range cols {
		cats := slices.Clone(col)
		slices.Sort(cats)
		cats = slices.Compact(cats)
		res.categories[j] = cats
		res.offsets[j] = res.width
		res.index[j] = make(map[string]int, len(cats))
		for k, v := range cats {
			res.index[j][v] = k
		}
		res.width += len(cats)
	}
	return &res
}

// FeatureNames returns names of indicator columns as column_value.
func (o *OneHot) FeatureNames() []string {
	res := make([]string, 0, o.width)
	for j, cats := range o.categories {
		for _, v := range cats {
			res = append(res, o.names[j]+"_"+v)
		}
	}
	return res
}

// Width is the number of indicator columns.
func (o *OneHot) Width() int {
	return o.width
}

// Transform writes indicators of row i into dst. A category that was not
// seen during fitting gets zeros in all its column's indicators.
func (o *OneHot) Transform(cols [][]string, i int, dst []float64) {
	for j := range o.categories {
		if k, ok := o.index[j][cols[j][i]]; ok {
			dst[o.offsets[j]+k] = 1
		}
	}
}
