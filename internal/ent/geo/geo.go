package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gnames/gnfmt"
)

// NameKey is the feature property that holds the canton name.
const NameKey = "kan_name"

// FeatureIDKey locates a canton name inside of a feature for plotly.
const FeatureIDKey = "properties." + NameKey

// ErrNotCollection is returned for GeoJSON documents that are not a
// FeatureCollection.
var ErrNotCollection = errors.New("GeoJSON is not a FeatureCollection")

// Collection is a GeoJSON FeatureCollection of canton boundaries.
type Collection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a boundary of one canton. Geometry is kept as is and is only
// passed to the browser.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// Parse decodes GeoJSON data.
func Parse(data []byte) (*Collection, error) {
	var res Collection
	enc := gnfmt.GNjson{}
	err := enc.Decode(data, &res)
	if err != nil {
		return nil, fmt.Errorf("cannot decode GeoJSON: %w", err)
	}
	if res.Type != "FeatureCollection" {
		return nil, fmt.Errorf("type %q: %w", res.Type, ErrNotCollection)
	}
	return &res, nil
}

// Name returns the canton name of a feature. Some exports keep the name
// in a one-element list.
func (f Feature) Name() string {
	switch v := f.Properties[NameKey].(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// Names returns canton names of all features.
func (c *Collection) Names() []string {
	res := make([]string, 0, len(c.Features))
	for _, v := range c.Features {
		if n := v.Name(); n != "" {
			res = append(res, n)
		}
	}
	return res
}
