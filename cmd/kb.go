package cmd

import (
	"context"
	"fmt"
	"os"

	"scout/config"
	"scout/knowledge"

	"github.com/spf13/cobra"
)

var kbConfigPath string
var kbName string
var kbTopK int

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Query knowledge bases",
	Long:  `Query a knowledge base defined in the config, either for raw passages or a generated answer.`,
}

var kbQueryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Retrieve passages relevant to a question",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustKBClient()

		passages, err := client.Retrieve(context.Background(), args[0], kbTopK)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(passages) == 0 {
			fmt.Println("No passages found")
			return
		}
		for i, p := range passages {
			fmt.Printf("%d. [%.2f] %s\n", i+1, p.Score, p.Text)
			if p.Source != "" {
				fmt.Printf("   source: %s\n", p.Source)
			}
		}
	},
}

var kbAskCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Generate an answer grounded in the knowledge base",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustKBClient()

		answer, err := client.RetrieveAndGenerate(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(answer.Answer)
		if len(answer.Citations) > 0 {
			fmt.Println("\nCitations:")
			for _, c := range answer.Citations {
				fmt.Printf("  - %s\n", c.Source)
			}
		}
	},
}

func mustKBClient() *knowledge.Client {
	cfg, err := config.LoadAndValidate(kbConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	name := kbName
	if name == "" {
		if len(cfg.KnowledgeBases) != 1 {
			fmt.Fprintf(os.Stderr, "Error: config defines %d knowledge bases; pick one with --kb\n", len(cfg.KnowledgeBases))
			os.Exit(1)
		}
		name = cfg.KnowledgeBases[0].Name
	}

	kbCfg := cfg.GetKnowledgeBase(name)
	if kbCfg == nil {
		fmt.Fprintf(os.Stderr, "Error: no knowledge_base named '%s'\n", name)
		os.Exit(1)
	}

	return knowledge.New(knowledge.Options{
		BaseURL: kbCfg.BaseURL,
		APIKey:  kbCfg.APIKey,
		KBID:    kbCfg.ID,
		TopK:    kbCfg.TopK,
	})
}

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbQueryCmd)
	kbCmd.AddCommand(kbAskCmd)
	kbCmd.PersistentFlags().StringVarP(&kbConfigPath, "config", "c", ".", "Path to config file or directory")
	kbCmd.PersistentFlags().StringVarP(&kbName, "kb", "k", "", "Knowledge base name (defaults to the only one defined)")
	kbQueryCmd.Flags().IntVarP(&kbTopK, "top-k", "n", 0, "Passage count (defaults to the block's top_k)")
}
