package config_test

import (
	"scout/config"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config Validation", func() {

	load := func(hcl string) (*config.Config, error) {
		_, f := writeFixture("config.hcl", hcl)
		return config.LoadAndValidate(f)
	}

	It("accepts a complete valid config", func() {
		cfg, err := load(fullBaseHCL())
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Agents).To(HaveLen(1))
	})

	Describe("models", func() {
		It("rejects unsupported providers", func() {
			_, err := load(`
model "bad" {
  provider       = "acme"
  allowed_models = ["gpt_4o"]
  api_key        = "k"
}
`)
			Expect(err).To(MatchError(ContainSubstring("not supported")))
		})

		It("rejects model keys the provider does not offer", func() {
			_, err := load(`
model "bad" {
  provider       = "openrouter"
  allowed_models = ["claude_opus_4"]
  api_key        = "k"
}
`)
			Expect(err).To(MatchError(ContainSubstring("not supported for provider")))
		})

		It("accepts openrouter routing slugs across upstreams", func() {
			cfg, err := load(`
model "router" {
  provider       = "openrouter"
  allowed_models = ["llama_4_maverick", "deepseek_v3", "claude_sonnet_4", "gemini_2_0_flash"]
  api_key        = "k"
}
`)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Models[0].AllowedModels).To(HaveLen(4))
		})
	})

	Describe("agents", func() {
		It("rejects unknown tool references", func() {
			_, err := load(minimalVarsHCL() + minimalModelHCL() + `
agent "a" {
  model       = models.router.llama_4_maverick
  personality = "x"
  role        = "y"
  tools       = ["builtin.time.does_not_exist"]
}
`)
			Expect(err).To(MatchError(ContainSubstring("unknown tool")))
		})

		It("requires a memory attachment for builtin.memory tools", func() {
			_, err := load(minimalVarsHCL() + minimalModelHCL() + `
agent "a" {
  model       = models.router.llama_4_maverick
  personality = "x"
  role        = "y"
  tools       = [builtin.memory.recall]
}
`)
			Expect(err).To(MatchError(ContainSubstring("require a memory attribute")))
		})

		It("requires a knowledge_base attachment for builtin.kb tools", func() {
			_, err := load(minimalVarsHCL() + minimalModelHCL() + `
agent "a" {
  model       = models.router.llama_4_maverick
  personality = "x"
  role        = "y"
  tools       = [builtin.kb.query]
}
`)
			Expect(err).To(MatchError(ContainSubstring("require a knowledge_base attribute")))
		})

		It("accepts memory tools when the agent names a memory block", func() {
			_, err := load(minimalVarsHCL() + minimalModelHCL() + `
memory "personal" {}
agent "a" {
  model       = models.router.llama_4_maverick
  personality = "x"
  role        = "y"
  tools       = [builtin.memory.all]
  memory      = "personal"
}
`)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects references to undefined memory blocks", func() {
			_, err := load(minimalVarsHCL() + minimalModelHCL() + `
agent "a" {
  model       = models.router.llama_4_maverick
  personality = "x"
  role        = "y"
  memory      = "ghost"
}
`)
			Expect(err).To(MatchError(ContainSubstring("unknown memory")))
		})

		It("rejects agents without a model", func() {
			_, err := load(`
agent "a" {
  model       = ""
  personality = "x"
  role        = "y"
}
`)
			Expect(err).To(MatchError(ContainSubstring("model is required")))
		})
	})

	Describe("custom tools", func() {
		It("rejects duplicate tool names", func() {
			_, err := load(`
tool "dup" {
  implements = builtin.weather.current_weather
}
tool "dup" {
  implements = builtin.time.current_time
}
`)
			Expect(err).To(MatchError(ContainSubstring("duplicate tool name")))
		})

		It("rejects tools shadowing reserved namespaces", func() {
			_, err := load(`
tool "builtin" {
  implements = builtin.weather.current_weather
}
`)
			Expect(err).To(MatchError(ContainSubstring("reserved namespace")))
		})

		It("rejects implements values that are not builtin references", func() {
			_, err := load(`
tool "bad" {
  implements = "tools.other"
}
`)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("services", func() {
		It("requires base_url for platform memories", func() {
			_, err := load(`
memory "hosted" {
  backend = "platform"
}
`)
			Expect(err).To(MatchError(ContainSubstring("requires base_url")))
		})

		It("requires id and base_url for knowledge bases", func() {
			_, err := load(`
knowledge_base "docs" {
  id       = ""
  base_url = "https://kb.example.com"
}
`)
			Expect(err).To(MatchError(ContainSubstring("id is required")))
		})

		It("requires a dsn for postgres storage", func() {
			_, err := load(`
storage {
  backend = "postgres"
}
`)
			Expect(err).To(MatchError(ContainSubstring("dsn")))
		})
	})
})
