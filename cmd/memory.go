package cmd

import (
	"context"
	"fmt"
	"os"

	"scout/config"
	"scout/memory"
	"scout/store"

	"github.com/spf13/cobra"
)

var memoryConfigPath string
var memoryName string
var recallLimit int

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage agent memories",
	Long:  `Store, recall, and list memories against a memory block from the config.`,
}

var memoryStoreCmd = &cobra.Command{
	Use:   "remember [content]",
	Short: "Store a memory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, cleanup := mustMemoryClient()
		defer cleanup()

		rec, err := client.Store(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Stored memory %s\n", rec.ID)
	},
}

var memoryRecallCmd = &cobra.Command{
	Use:   "recall [query]",
	Short: "Recall memories relevant to a query",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, cleanup := mustMemoryClient()
		defer cleanup()

		records, err := client.Recall(context.Background(), args[0], recallLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			fmt.Println("No memories found")
			return
		}
		for _, r := range records {
			fmt.Printf("  [%.2f] %s\n", r.Score, r.Content)
		}
	},
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all memories",
	Run: func(cmd *cobra.Command, args []string) {
		client, cleanup := mustMemoryClient()
		defer cleanup()

		records, err := client.List(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			fmt.Println("No memories found")
			return
		}
		for _, r := range records {
			fmt.Printf("  %s  %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Content)
		}
	},
}

// mustMemoryClient builds a memory client from the named memory block,
// or the only block when the config defines exactly one. The cleanup
// closes the storage bundle backing a store-based memory.
func mustMemoryClient() (memory.Client, func()) {
	cfg, err := config.LoadAndValidate(memoryConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	name := memoryName
	if name == "" {
		if len(cfg.Memories) != 1 {
			fmt.Fprintf(os.Stderr, "Error: config defines %d memory blocks; pick one with --memory\n", len(cfg.Memories))
			os.Exit(1)
		}
		name = cfg.Memories[0].Name
	}

	memCfg := cfg.GetMemory(name)
	if memCfg == nil {
		fmt.Fprintf(os.Stderr, "Error: no memory block named '%s'\n", name)
		os.Exit(1)
	}

	switch memCfg.Backend {
	case "platform":
		return memory.NewPlatform(memCfg.BaseURL, memCfg.APIKey, memCfg.UserID), func() {}
	default:
		stores, err := store.NewBundle(cfg.Storage.StoreOptions())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		return memory.NewLocal(stores.Memories, memCfg.UserID), func() { stores.Close() }
	}
}

func init() {
	rootCmd.AddCommand(memoryCmd)
	memoryCmd.AddCommand(memoryStoreCmd)
	memoryCmd.AddCommand(memoryRecallCmd)
	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.PersistentFlags().StringVarP(&memoryConfigPath, "config", "c", ".", "Path to config file or directory")
	memoryCmd.PersistentFlags().StringVarP(&memoryName, "memory", "m", "", "Memory block name (defaults to the only one defined)")
	memoryRecallCmd.Flags().IntVarP(&recallLimit, "limit", "n", 5, "Max memories to recall")
}
