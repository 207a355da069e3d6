package config_test

import (
	"context"
	"time"

	"scout/config"
	"scout/memory"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// stubMemoryClient satisfies memory.Client for registry wiring tests
type stubMemoryClient struct{}

func (stubMemoryClient) Store(ctx context.Context, content string) (memory.Record, error) {
	return memory.Record{ID: "stub"}, nil
}

func (stubMemoryClient) Recall(ctx context.Context, query string, limit int) ([]memory.Record, error) {
	return nil, nil
}

func (stubMemoryClient) List(ctx context.Context) ([]memory.Record, error) {
	return nil, nil
}

var _ = Describe("BuildRegistry", func() {

	It("registers explicit builtin tools", func() {
		registry, err := config.BuildRegistry(
			[]string{"builtin.time.current_time", "builtin.weather.current_weather"},
			nil, config.ToolDeps{},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(registry.Names()).To(ConsistOf("current_time", "current_weather"))
	})

	It("expands .all markers to every tool in the namespace", func() {
		registry, err := config.BuildRegistry(
			[]string{"builtin.http.all"},
			nil, config.ToolDeps{},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(registry.Names()).To(ConsistOf("http_get", "http_post"))
	})

	It("dedupes a tool reachable through both an .all marker and an explicit ref", func() {
		registry, err := config.BuildRegistry(
			[]string{"builtin.http.all", "builtin.http.get"},
			nil, config.ToolDeps{},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(registry.Len()).To(Equal(2))
	})

	It("errors on unknown builtin namespaces", func() {
		_, err := config.BuildRegistry([]string{"builtin.nope.all"}, nil, config.ToolDeps{})
		Expect(err).To(MatchError(ContainSubstring("unknown builtin namespace")))
	})

	It("errors on memory tools without a memory client", func() {
		_, err := config.BuildRegistry([]string{"builtin.memory.recall"}, nil, config.ToolDeps{})
		Expect(err).To(MatchError(ContainSubstring("requires a memory attachment")))
	})

	It("wires memory tools when a client is provided", func() {
		registry, err := config.BuildRegistry(
			[]string{"builtin.memory.all"},
			nil, config.ToolDeps{Memory: stubMemoryClient{}},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(registry.Names()).To(ConsistOf("store_memory", "recall_memories", "list_memories"))
	})

	It("registers explicit memory refs under their wire names", func() {
		registry, err := config.BuildRegistry(
			[]string{"builtin.memory.store", "builtin.memory.recall", "builtin.memory.list"},
			nil, config.ToolDeps{Memory: stubMemoryClient{}},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(registry.Names()).To(ConsistOf("store_memory", "recall_memories", "list_memories"))
	})

	It("errors on kb tools without a knowledge base client", func() {
		_, err := config.BuildRegistry([]string{"builtin.kb.query"}, nil, config.ToolDeps{})
		Expect(err).To(MatchError(ContainSubstring("requires a knowledge_base attachment")))
	})

	It("registers custom tools under their own names", func() {
		hcl := `
tool "oslo_weather" {
  implements  = builtin.weather.current_weather
  description = "Weather in Oslo"
  city        = "Oslo"
}
`
		_, f := writeFixture("config.hcl", hcl)
		cfg, err := config.LoadFile(f)
		Expect(err).NotTo(HaveOccurred())

		registry, err := config.BuildRegistry([]string{"tools.oslo_weather"}, cfg.CustomTools, config.ToolDeps{})
		Expect(err).NotTo(HaveOccurred())

		tool, ok := registry.Get("oslo_weather")
		Expect(ok).To(BeTrue())
		Expect(tool.ToolDescription()).To(Equal("Weather in Oslo"))
	})

	It("errors on references to undefined custom tools", func() {
		_, err := config.BuildRegistry([]string{"tools.ghost"}, nil, config.ToolDeps{})
		Expect(err).To(MatchError(ContainSubstring("unknown custom tool")))
	})
})

var _ = Describe("Custom tool runtime", func() {

	It("evaluates field expressions against the call inputs", func() {
		hcl := `
tool "city_time" {
  implements = builtin.time.current_time

  inputs {
    field "zone" {
      type     = "string"
      required = true
    }
  }

  timezone = inputs.zone
}
`
		_, f := writeFixture("config.hcl", hcl)
		cfg, err := config.LoadFile(f)
		Expect(err).NotTo(HaveOccurred())

		registry, err := config.BuildRegistry([]string{"tools.city_time"}, cfg.CustomTools, config.ToolDeps{})
		Expect(err).NotTo(HaveOccurred())

		tool, ok := registry.Get("city_time")
		Expect(ok).To(BeTrue())

		out := tool.Call(`{"zone": "UTC"}`)
		_, parseErr := time.Parse(time.RFC3339, out)
		Expect(parseErr).NotTo(HaveOccurred())
	})

	It("exposes the inputs schema instead of the base tool schema", func() {
		hcl := `
tool "city_time" {
  implements = builtin.time.current_time

  inputs {
    field "zone" {
      type     = "string"
      required = true
    }
  }

  timezone = inputs.zone
}
`
		_, f := writeFixture("config.hcl", hcl)
		cfg, err := config.LoadFile(f)
		Expect(err).NotTo(HaveOccurred())

		registry, err := config.BuildRegistry([]string{"tools.city_time"}, cfg.CustomTools, config.ToolDeps{})
		Expect(err).NotTo(HaveOccurred())

		tool, _ := registry.Get("city_time")
		schema := tool.ToolPayloadSchema()
		Expect(schema.Properties).To(HaveKey("zone"))
		Expect(schema.Properties).NotTo(HaveKey("timezone"))
		Expect(schema.Required).To(ConsistOf("zone"))
	})

	It("pins base tool parameters with literal expressions", func() {
		hcl := `
tool "sydney_forecast" {
  implements = builtin.weather.current_weather
  city       = "Sydney"
}
`
		_, f := writeFixture("config.hcl", hcl)
		cfg, err := config.LoadFile(f)
		Expect(err).NotTo(HaveOccurred())

		registry, err := config.BuildRegistry([]string{"tools.sydney_forecast"}, cfg.CustomTools, config.ToolDeps{})
		Expect(err).NotTo(HaveOccurred())

		tool, _ := registry.Get("sydney_forecast")
		Expect(tool.Call(`{}`)).To(Equal("sunny"))
	})

	It("degrades invalid call parameters to an Exception string", func() {
		hcl := `
tool "sydney_forecast" {
  implements = builtin.weather.current_weather
  city       = "Sydney"
}
`
		_, f := writeFixture("config.hcl", hcl)
		cfg, err := config.LoadFile(f)
		Expect(err).NotTo(HaveOccurred())

		registry, err := config.BuildRegistry([]string{"tools.sydney_forecast"}, cfg.CustomTools, config.ToolDeps{})
		Expect(err).NotTo(HaveOccurred())

		tool, _ := registry.Get("sydney_forecast")
		Expect(tool.Call(`{broken`)).To(HavePrefix("Exception: "))
	})
})
