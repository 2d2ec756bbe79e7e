package geo_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/spidermap/internal/ent/geo"
)

var _ = Describe("Parse", func() {
	It("reads canton names in string and list forms", func() {
		data := []byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","properties":{"kan_name":"Bern"},
			 "geometry":{"type":"Point","coordinates":[7.4,46.9]}},
			{"type":"Feature","properties":{"kan_name":["Zürich"]},
			 "geometry":null},
			{"type":"Feature","properties":{},"geometry":null}
		]}`)
		res, err := geo.Parse(data)
		Expect(err).To(BeNil())
		Expect(res.Features).To(HaveLen(3))
		Expect(res.Names()).To(Equal([]string{"Bern", "Zürich"}))
		Expect(string(res.Features[0].Geometry)).To(ContainSubstring("Point"))
	})

	It("rejects documents that are not collections", func() {
		_, err := geo.Parse([]byte(`{"type":"Feature"}`))
		Expect(errors.Is(err, geo.ErrNotCollection)).To(BeTrue())
	})

	It("rejects malformed documents", func() {
		_, err := geo.Parse([]byte(`{"type":`))
		Expect(err).ToNot(BeNil())
	})
})
