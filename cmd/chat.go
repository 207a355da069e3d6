package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"scout/agent"
	"scout/config"
	"scout/llm"
	"scout/store"
	"scout/streamers/cli"

	"github.com/spf13/cobra"
)

var configPath string
var debugMode bool
var resumeSession bool

var chatCmd = &cobra.Command{
	Use:   "chat [agent_name]",
	Short: "Chat with a given agent",
	Long:  `Start an interactive chat session with the specified agent.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		agentName := args[0]
		ctx := context.Background()

		cfg, err := config.LoadAndValidate(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// The same bundle backs session history and any store-backed
		// memory attached to the agent.
		stores, err := store.NewBundle(cfg.Storage.StoreOptions())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer stores.Close()

		opts := agent.Options{
			Config:    cfg,
			AgentName: agentName,
			Store:     stores,
		}
		if debugMode {
			opts.DebugFile = "debug.txt"
		}

		a, err := agent.New(ctx, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()

		if resumeSession {
			if err := restoreLatestSession(a, stores, agentName); err != nil {
				fmt.Fprintf(os.Stderr, "Error resuming session: %v\n", err)
				os.Exit(1)
			}
		}

		sessionID, err := stores.Sessions.CreateSession(agentName, a.ModelName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating session: %v\n", err)
			os.Exit(1)
		}
		defer stores.Sessions.CompleteSession(sessionID, nil)

		streamer := cli.NewChatHandler()
		streamer.Welcome(a.Name, a.ModelName)

		for {
			input, err := streamer.AwaitClientAnswer()
			if err != nil {
				if err == io.EOF {
					streamer.Goodbye()
					break
				}
				streamer.Error(err)
				break
			}

			if input == "" {
				continue
			}

			if input == "exit" || input == "quit" {
				streamer.Goodbye()
				break
			}

			_ = stores.Sessions.AppendMessage(sessionID, string(llm.RoleUser), input)
			result, err := a.Chat(ctx, input, streamer)
			if err != nil {
				streamer.Error(err)
				continue
			}
			if result.Complete {
				_ = stores.Sessions.AppendMessage(sessionID, string(llm.RoleAssistant), result.Answer)
			}
		}
	},
}

// restoreLatestSession loads the most recent session for the agent and
// seeds the conversation history with its messages.
func restoreLatestSession(a *agent.Agent, stores *store.Bundle, agentName string) error {
	info, err := stores.Sessions.LatestSession(agentName)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("no previous session found for agent '%s'", agentName)
	}

	messages, err := stores.Sessions.GetMessages(info.ID)
	if err != nil {
		return err
	}

	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, llm.NewTextMessage(llm.Role(m.Role), m.Content))
	}
	a.RestoreHistory(history)

	fmt.Printf("Resumed session %s (%d messages)\n", info.ID, len(messages))
	return nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&configPath, "config", "c", ".", "Path to config file or directory")
	chatCmd.Flags().BoolVarP(&debugMode, "debug", "d", false, "Log full LLM messages to debug.txt")
	chatCmd.Flags().BoolVarP(&resumeSession, "resume", "r", false, "Resume the most recent session for this agent")
}
