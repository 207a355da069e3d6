package config_test

import (
	"os"
	"path/filepath"

	"scout/config"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config Loading", func() {

	Describe("Load", func() {
		It("routes to LoadFile for a file path", func() {
			_, f := writeFixture("vars.hcl", `variable "x" { default = "val" }`)
			cfg, err := config.Load(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Variables).To(HaveLen(1))
			Expect(cfg.Variables[0].Name).To(Equal("x"))
		})

		It("routes to LoadDir for a directory path", func() {
			dir := writeFixtures(map[string]string{
				"variables.hcl": `variable "a" { default = "1" }`,
				"models.hcl":    minimalVarsHCL() + minimalModelHCL(),
			})
			cfg, err := config.Load(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(cfg.Variables)).To(BeNumerically(">=", 1))
			Expect(cfg.Models).To(HaveLen(1))
		})

		It("returns error for nonexistent path", func() {
			_, err := config.Load("/nonexistent/path/config.hcl")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadFile", func() {
		It("parses a single HCL file with multiple block types", func() {
			_, f := writeFixture("config.hcl", fullBaseHCL())
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Variables).To(HaveLen(1))
			Expect(cfg.Models).To(HaveLen(1))
			Expect(cfg.Agents).To(HaveLen(1))
		})

		It("returns parse error for invalid HCL syntax", func() {
			_, f := writeFixture("bad.hcl", `model { missing label and brace`)
			_, err := config.LoadFile(f)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadDir", func() {
		It("ignores non-.hcl files", func() {
			dir := writeFixtures(map[string]string{
				"config.hcl": `variable "x" { default = "y" }`,
				"readme.txt": `This is not HCL`,
				"data.json":  `{"key": "value"}`,
			})
			cfg, err := config.LoadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Variables).To(HaveLen(1))
		})

		It("returns empty config for directory with no .hcl files", func() {
			dir := GinkgoT().TempDir()
			err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hello"), 0644)
			Expect(err).NotTo(HaveOccurred())
			cfg, err := config.LoadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Variables).To(BeEmpty())
			Expect(cfg.Models).To(BeEmpty())
			Expect(cfg.Agents).To(BeEmpty())
		})
	})

	Describe("Staged evaluation order", func() {
		It("resolves variable references in model blocks", func() {
			hcl := `
variable "my_key" { default = "resolved-api-key" }
model "test" {
  provider       = "openrouter"
  allowed_models = ["deepseek_v3"]
  api_key        = vars.my_key
}
`
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Models[0].APIKey).To(Equal("resolved-api-key"))
		})

		It("resolves model references in agent blocks", func() {
			hcl := minimalVarsHCL() + minimalModelHCL() + `
agent "a" {
  model       = models.router.llama_4_maverick
  personality = "x"
  role        = "y"
}
`
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Agents[0].Model).To(Equal("llama_4_maverick"))
		})

		It("resolves builtin tool references in agent blocks", func() {
			_, f := writeFixture("config.hcl", fullBaseHCL())
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Agents[0].Tools).To(ConsistOf("builtin.time.current_time"))
		})

		It("resolves namespace all markers", func() {
			hcl := minimalVarsHCL() + minimalModelHCL() + `
agent "a" {
  model       = models.router.llama_4_maverick
  personality = "x"
  role        = "y"
  tools       = [builtin.http.all]
}
`
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Agents[0].Tools).To(ConsistOf("builtin.http.all"))
		})

		It("resolves custom tool references in agent blocks", func() {
			hcl := minimalVarsHCL() + minimalModelHCL() + `
tool "oslo_weather" {
  implements = builtin.weather.current_weather
  city       = "Oslo"
}
agent "a" {
  model       = models.router.llama_4_maverick
  personality = "x"
  role        = "y"
  tools       = [tools.oslo_weather]
}
`
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Agents[0].Tools).To(ConsistOf("tools.oslo_weather"))
		})
	})

	Describe("Service blocks", func() {
		It("decodes memory blocks with defaults", func() {
			hcl := `
memory "personal" {}
`
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Memories).To(HaveLen(1))
			Expect(cfg.Memories[0].Backend).To(Equal("store"))
			Expect(cfg.Memories[0].UserID).To(Equal("default"))
		})

		It("decodes platform memory blocks with variable references", func() {
			hcl := `
variable "mem_key" { default = "mem-secret" }
memory "hosted" {
  backend  = "platform"
  base_url = "https://memory.example.com"
  api_key  = vars.mem_key
  user_id  = "alice"
}
`
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Memories[0].Backend).To(Equal("platform"))
			Expect(cfg.Memories[0].APIKey).To(Equal("mem-secret"))
			Expect(cfg.Memories[0].UserID).To(Equal("alice"))
		})

		It("decodes knowledge_base blocks with a default top_k", func() {
			hcl := `
knowledge_base "docs" {
  id       = "kb-123"
  base_url = "https://kb.example.com"
}
`
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.KnowledgeBases).To(HaveLen(1))
			Expect(cfg.KnowledgeBases[0].ID).To(Equal("kb-123"))
			Expect(cfg.KnowledgeBases[0].TopK).To(Equal(4))
		})

		It("decodes storage and server blocks", func() {
			hcl := `
storage {
  backend = "sqlite"
  path    = "custom/store.db"
}
server {
  addr = ":9000"
}
`
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Storage.Backend).To(Equal("sqlite"))
			Expect(cfg.Storage.Path).To(Equal("custom/store.db"))
			Expect(cfg.Server.Addr).To(Equal(":9000"))

			opts := cfg.Storage.StoreOptions()
			Expect(opts.Backend).To(Equal("sqlite"))
			Expect(opts.Path).To(Equal("custom/store.db"))
		})

		It("maps a missing storage block to nil store options", func() {
			var s *config.StorageConfig
			Expect(s.StoreOptions()).To(BeNil())
		})

		It("rejects multiple storage blocks", func() {
			hcl := `
storage { backend = "memory" }
storage { backend = "sqlite" }
`
			_, f := writeFixture("config.hcl", hcl)
			_, err := config.LoadFile(f)
			Expect(err).To(MatchError(ContainSubstring("multiple storage blocks")))
		})
	})

	Describe("Custom tool parsing", func() {
		It("parses inputs and dynamic field expressions", func() {
			hcl := `
tool "city_time" {
  implements  = builtin.time.current_time
  description = "Current time in a given city's timezone"

  inputs {
    field "zone" {
      type        = "string"
      description = "IANA timezone"
      required    = true
    }
  }

  timezone = inputs.zone
}
`
			_, f := writeFixture("config.hcl", hcl)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.CustomTools).To(HaveLen(1))

			tool := cfg.CustomTools[0]
			Expect(tool.Implements).To(Equal("builtin.time.current_time"))
			Expect(tool.Inputs.Fields).To(HaveLen(1))
			Expect(tool.Inputs.Fields[0].Name).To(Equal("zone"))
			Expect(tool.FieldExprs).To(HaveKey("timezone"))
		})

		It("rejects unknown implemented tools", func() {
			hcl := `
tool "bad" {
  implements = "builtin.nope.missing"
}
`
			_, f := writeFixture("config.hcl", hcl)
			_, err := config.LoadFile(f)
			Expect(err).To(MatchError(ContainSubstring("unknown implemented tool")))
		})
	})

	Describe("ResolvedVars", func() {
		It("populates ResolvedVars map from variable defaults", func() {
			_, f := writeFixture("config.hcl", `variable "app_name" { default = "myapp" }`)
			cfg, err := config.LoadFile(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.ResolvedVars).To(HaveKey("app_name"))
			Expect(cfg.ResolvedVars["app_name"].AsString()).To(Equal("myapp"))
		})
	})
})
