package aitools_test

import (
	"scout/aitools"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registry", func() {
	var registry *aitools.Registry

	BeforeEach(func() {
		registry = aitools.NewRegistry()
	})

	It("registers and retrieves tools by name", func() {
		tool := &aitools.WeatherTool{}
		Expect(registry.Register(tool.ToolName(), tool)).To(Succeed())

		got, ok := registry.Get("current_weather")
		Expect(ok).To(BeTrue())
		Expect(got.ToolName()).To(Equal("current_weather"))
	})

	It("rejects empty names", func() {
		Expect(registry.Register("", &aitools.WeatherTool{})).To(HaveOccurred())
	})

	It("rejects duplicate names", func() {
		Expect(registry.Register("current_weather", &aitools.WeatherTool{})).To(Succeed())
		Expect(registry.Register("current_weather", &aitools.WeatherTool{})).To(HaveOccurred())
	})

	It("returns sorted names", func() {
		Expect(registry.Register("current_weather", &aitools.WeatherTool{})).To(Succeed())
		Expect(registry.Register("current_time", &aitools.CurrentTimeTool{})).To(Succeed())

		Expect(registry.Names()).To(Equal([]string{"current_time", "current_weather"}))
		Expect(registry.Len()).To(Equal(2))
	})

	It("reports missing tools", func() {
		_, ok := registry.Get("nope")
		Expect(ok).To(BeFalse())
	})
})
