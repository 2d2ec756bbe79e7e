package dashboard

import (
	"fmt"
	"strings"
)

// RenderMode decides what the choropleth and climate maps display.
type RenderMode int

const (
	// Aggregated renders aggregated tables.
	Aggregated RenderMode = iota

	// Parity renders year-sorted tables before aggregation: cleaned rows for
	// the choropleth map and the scatter table for the climate map.
	Parity
)

func (m RenderMode) String() string {
	switch m {
	case Aggregated:
		return "aggregated"
	case Parity:
		return "parity"
	default:
		return "unknown"
	}
}

// NewRenderMode converts a name to RenderMode.
func NewRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "aggregated":
		return Aggregated, nil
	case "parity":
		return Parity, nil
	default:
		return Aggregated, fmt.Errorf("unknown render mode %q", s)
	}
}
