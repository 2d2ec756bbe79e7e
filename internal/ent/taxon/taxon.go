package taxon

import (
	"strings"
	"sync"

	"github.com/gnames/gnparser"
	"github.com/gnames/gnuuid"
)

// Species is an entry of the species list.
type Species struct {
	// ID is UUIDv5 of the name, it does not change between runs.
	ID string `json:"id"`

	// Name is the name as it is given in the data.
	Name string `json:"name"`

	// Canonical is the name without authorship, empty if the name could not
	// be parsed.
	Canonical string `json:"canonical,omitempty"`

	// Genus is the first word of the canonical form.
	Genus string `json:"genus,omitempty"`

	// Cardinality is 1 for uninomials, 2 for binomials, 3 for trinomials.
	Cardinality int `json:"cardinality"`
}

// Parser converts species names to Species.
type Parser struct {
	mu  sync.Mutex
	gnp gnparser.GNparser
}

// New creates a Parser.
func New(jobsNum int) *Parser {
	if jobsNum < 1 {
		jobsNum = 1
	}
	cfg := gnparser.NewConfig(gnparser.OptJobsNum(jobsNum))
	return &Parser{gnp: gnparser.New(cfg)}
}

// List parses names and keeps their order.
func (p *Parser) List(names []string) []Species {
	if len(names) == 0 {
		return []Species{}
	}
	p.mu.Lock()
	ps := p.gnp.ParseNames(names)
	p.mu.Unlock()

	res := make([]Species, len(names))
	for i, v := range names {
		res[i] = Species{ID: gnuuid.New(v).String(), Name: v}
		if i >= len(ps) || !ps[i].Parsed || ps[i].Canonical == nil {
			continue
		}
		res[i].Canonical = ps[i].Canonical.Simple
		res[i].Cardinality = ps[i].Cardinality
		if ws := strings.Fields(ps[i].Canonical.Simple); len(ws) > 0 {
			res[i].Genus = ws[0]
		}
	}
	return res
}
