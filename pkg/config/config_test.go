package config_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/spidermap/pkg/config"
)

var _ = Describe("Config", func() {
	Describe("New", func() {
		It("generates new instance with defaults", func() {
			cfg := config.New()
			Expect(cfg.MinYear).To(Equal(1980))
			Expect(cfg.DefaultFamily).To(Equal("Linyphiidae"))
			Expect(cfg.TestSize).To(Equal(0.3))
			Expect(cfg.Seed).To(Equal(uint64(42)))
			Expect(cfg.Trees).To(Equal(10))
			Expect(cfg.RenderMode).To(Equal("aggregated"))
			Expect(cfg.JobsNum).To(BeNumerically(">", 0))
		})

		It("uses options for setup", func() {
			opts := getOpts()
			cfg := config.New(opts...)
			Expect(cfg.DataPath).To(Equal("/tmp/spiders.parquet"))
			Expect(cfg.JobsNum).To(Equal(8))
			Expect(cfg.CacheDir).To(Equal(""))
			Expect(cfg.RenderMode).To(Equal("parity"))
			Expect(cfg.ShutdownTimeout).To(Equal(3 * time.Second))
		})

		It("ignores test size out of range", func() {
			cfg := config.New(config.OptTestSize(1.5))
			Expect(cfg.TestSize).To(Equal(0.3))
		})
	})
})

func getOpts() []config.Option {
	var opts []config.Option
	opts = append(opts, config.OptDataPath("/tmp/spiders.parquet"))
	opts = append(opts, config.OptRegionsPath("/tmp/cantons.geojson"))
	opts = append(opts, config.OptCacheDir(""))
	opts = append(opts, config.OptJobsNum(8))
	opts = append(opts, config.OptRenderMode("parity"))
	opts = append(opts, config.OptShutdownTimeout(3*time.Second))
	return opts
}
