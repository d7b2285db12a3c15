package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "chatrelay",
	Short: "Relay Slack conversations to a conversational engine",
	Long: `Chatrelay bridges Slack workspaces and a remote conversational engine.
It receives Slack events, keeps the channel-to-session mapping, forwards
the user's text to the engine and posts the engine's reply back to the
originating channel.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".chatrelay.yml", "config file path")
}
