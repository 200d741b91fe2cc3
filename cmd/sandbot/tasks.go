package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/sandbot/internal/config"
	"github.com/aatumaykin/sandbot/internal/ipc"
	"github.com/aatumaykin/sandbot/internal/workspace"
)

var tasksConfigPath string

// tasksCmd represents the tasks command
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List scheduled tasks",
	Long: `List the scheduled tasks visible to this agent from the host-maintained
task snapshot. The snapshot is refreshed by the host; a missing snapshot
means no tasks are scheduled.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadOptional(tasksConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		identity := ipc.Identity{
			Folder:         cfg.Identity.Folder,
			ConversationID: cfg.Identity.ConversationID,
			Privileged:     cfg.Identity.Privileged(),
		}
		emitter := ipc.NewEmitter(workspace.ExpandHome(cfg.IPC.Dir), identity, nil, nil)

		listing, err := ipc.NewSnapshotReader(emitter.SnapshotPath()).List(identity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to read task snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(listing)
	},
}

func init() {
	tasksCmd.Flags().StringVarP(&tasksConfigPath, "config", "c", "config.toml", "Path to configuration file")
}
