package cmd

import (
	"fmt"
	"os"
	"sort"

	"scout/config"

	"github.com/spf13/cobra"
)

var toolsConfigPath string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available tools",
	Long:  `List the builtin tools, plus any custom tools when a config path is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Builtin tools:")

		namespaces := make([]string, 0, len(config.BuiltinTools))
		for ns := range config.BuiltinTools {
			namespaces = append(namespaces, ns)
		}
		sort.Strings(namespaces)

		for _, ns := range namespaces {
			for _, name := range config.BuiltinTools[ns] {
				ref := fmt.Sprintf("builtin.%s.%s", ns, name)
				proto := config.BuiltinToolPrototype(ref)
				if proto == nil {
					continue
				}
				fmt.Printf("  %-28s %s\n", ref, proto.ToolDescription())
			}
		}

		if toolsConfigPath == "" {
			return
		}

		cfg, err := config.LoadAndValidate(toolsConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(cfg.CustomTools) > 0 {
			fmt.Println("\nCustom tools:")
			for _, t := range cfg.CustomTools {
				fmt.Printf("  %-28s %s (implements %s)\n", "tools."+t.Name, t.Description, t.Implements)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().StringVarP(&toolsConfigPath, "config", "c", "", "Path to config file or directory (optional)")
}
