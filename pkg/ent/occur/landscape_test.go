package occur_test

import (
	"golang.org/x/text/unicode/norm"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/gnames/spidermap/pkg/ent/occur"
)

var _ = Describe("Landscape", func() {
	It("maps every listed canton to its region", func() {
		seen := make(map[string]int)
		for _, r := range occur.Regions() {
			for _, c := range occur.Cantons(r) {
				Expect(occur.Landscape(c)).To(Equal(r))
				seen[c]++
			}
		}
		Expect(seen).To(HaveLen(24))
		for _, v := range seen {
			Expect(v).To(Equal(1))
		}
	})

	DescribeTable("region lookup",
		func(canton string, region occur.Region) {
			Expect(occur.Landscape(canton)).To(Equal(region))
		},
		Entry("alpine", "Graubünden", occur.Alpine),
		Entry("plateau", "Genève", occur.Plateau),
		Entry("jura", "Neuchâtel", occur.Jura),
		Entry("decomposed umlaut", norm.NFD.String("Zürich"), occur.Plateau),
		Entry("unknown canton", "Liechtenstein", occur.Unmapped),
		Entry("empty name", "", occur.Unmapped),
	)

	It("names regions", func() {
		Expect(occur.Alpine.String()).To(Equal("Alpine"))
		Expect(occur.Unmapped.String()).To(Equal(""))
		Expect(occur.Unmapped.Valid()).To(BeFalse())
		Expect(occur.Cantons(occur.Unmapped)).To(BeNil())
	})
})
