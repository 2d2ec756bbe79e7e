package occur

import (
	"golang.org/x/text/unicode/norm"
)

// Region is one of the three landscape regions of Switzerland.
type Region int

const (
	// Unmapped is the missing value for cantons outside of the lookup table.
	Unmapped Region = iota
	Alpine
	Plateau
	Jura
)

var regionNames = [...]string{"", "Alpine", "Plateau", "Jura"}

// String returns the name of a region, or an empty string for Unmapped.
func (r Region) String() string {
	if r < Unmapped || r > Jura {
		return ""
	}
	return regionNames[r]
}

// Valid is true for a mapped region.
func (r Region) Valid() bool {
	return r >= Alpine && r <= Jura
}

// Regions lists the mapped regions in their canonical order.
func Regions() []Region {
	return []Region{Alpine, Plateau, Jura}
}

var (
	alpineCantons = []string{
		"Valais", "Graubünden", "Uri", "Bern", "Ticino", "Schwyz", "Glarus",
		"Obwalden", "Nidwalden", "Appenzell", "St. Gallen",
	}
	plateauCantons = []string{
		"Zürich", "Aargau", "Luzern", "Thurgau", "Solothurn", "Basel",
		"Schaffhausen", "Zug", "Fribourg", "Genève",
	}
	juraCantons = []string{"Neuchâtel", "Jura", "Vaud"}

	landscapes = func() map[string]Region {
		res := make(map[string]Region)
		for _, v := range alpineCantons {
			res[v] = Alpine
		}
		for _, v := range plateauCantons {
			res[v] = Plateau
		}
		for _, v := range juraCantons {
			res[v] = Jura
		}
		return res
	}()
)

// Landscape returns the region of a canton. Names are compared in NFC form,
// a canton that is not in the table returns Unmapped.
func Landscape(canton string) Region {
	if r, ok := landscapes[canton]; ok {
		return r
	}
	return landscapes[norm.NFC.String(canton)]
}

// Cantons returns the cantons that belong to a region.
func Cantons(r Region) []string {
	var src []string
	switch r {
	case Alpine:
		src = alpineCantons
	case Plateau:
		src = plateauCantons
	case Jura:
		src = juraCantons
	default:
		return nil
	}
	res := make([]string, len(src))
	copy(res, src)
	return res
}
