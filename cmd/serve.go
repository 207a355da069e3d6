package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"scout/config"
	"scout/wsbridge"
)

var serveConfigPath string
var serveLogLevel string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose configured agents over WebSocket",
	Long: `Start a long-running server that accepts WebSocket connections on /chat.
Clients pick an agent with the ?agent= query parameter and exchange JSON
chat commands and events. When the server block sets auth_token, requests
must carry it as a Bearer token.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate(serveConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		logger := hclog.New(&hclog.LoggerOptions{
			Name:  "scout",
			Level: hclog.LevelFromString(serveLogLevel),
		})

		srv := wsbridge.NewServer(cfg, logger)
		if err := srv.ListenAndServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", ".", "Path to config file or directory")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", "info", "Log level (trace, debug, info, warn, error)")
}
