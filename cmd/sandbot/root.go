package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sandbot",
	Short: "Sandbot - Sandboxed AI Agent Runner",
	Long: `Sandbot runs a tool-calling AI agent inside a sandbox. The agent can
work with files, run shell commands and fetch web pages in its workspace;
messages, scheduled tasks and group registrations are handed to the trusted
host through a file-drop IPC directory.`,
	Version: Version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tasksCmd)
}
