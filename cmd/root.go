package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Scout is a CLI for HCL-defined AI agents",
	Long:  `Scout runs AI agents defined in HCL configuration files.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to Scout! Use --help to see available commands.")
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
