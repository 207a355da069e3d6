package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Long = fmt.Sprintf(`Scout %s

HCL-based CLI for defining and running AI agents.

Define agents, models, tools, memories, and knowledge bases in HCL
configuration files, then run them with simple commands.

Get started:
  scout verify <path>   Validate your configuration
  scout chat <agent>    Chat with an agent
  scout tools           List available tools
  scout serve           Expose agents over WebSocket`, Version)
}
