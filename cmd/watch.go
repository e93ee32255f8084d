package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Gaubee/walkfs/walk"
	"github.com/spf13/cobra"
)

var (
	// Watch command options
	watchEvents    []string
	watchRecursive bool
	watchIgnore    []string
	watchMatch     []string
	watchWorkspace string
	watchTimeout   time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch for filesystem changes",
	Long: `Watch for filesystem changes and print each event whose path survives
the ignore/match pattern pipeline.

Examples:
  walkfs watch /path/to/watch
  walkfs watch --events=create,modify --match="**/*.go" /path/to/watch
  walkfs watch --recursive --ignore=node_modules /path/to/watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var watchDir string
		if len(args) > 0 {
			watchDir = args[0]
		} else {
			var err error
			watchDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("get current directory: %w", err)
			}
		}
		abs, err := filepath.Abs(watchDir)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", watchDir, err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Convert string events to WatchEvent types
		var events []walk.WatchEvent
		for _, e := range watchEvents {
			switch strings.ToLower(e) {
			case "create":
				events = append(events, walk.EventCreate)
			case "write", "modify":
				events = append(events, walk.EventModify)
			case "remove", "delete":
				events = append(events, walk.EventDelete)
			case "rename":
				events = append(events, walk.EventRename)
			case "chmod":
				events = append(events, walk.EventChmod)
			default:
				return fmt.Errorf("unknown event type: %s", e)
			}
		}

		opts := walk.WatchOptions{
			Events:    events,
			Recursive: watchRecursive,
			Ignore:    watchIgnore,
			Match:     watchMatch,
			Workspace: watchWorkspace,
			Timeout:   watchTimeout,
		}

		fmt.Printf("Watching %s for changes...\n", abs)
		fmt.Println("Press Ctrl+C to exit.")

		return walk.Watch(ctx, abs, opts, nil)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	// Define flags for the watch command
	watchCmd.Flags().StringSliceVar(&watchEvents, "events", nil, "Events to watch for (create, modify, delete, rename, chmod)")
	watchCmd.Flags().BoolVar(&watchRecursive, "recursive", false, "Watch subdirectories recursively")
	watchCmd.Flags().StringSliceVar(&watchIgnore, "ignore", nil, "Glob patterns to exclude")
	watchCmd.Flags().StringSliceVar(&watchMatch, "match", nil, "Glob patterns to select")
	watchCmd.Flags().StringVar(&watchWorkspace, "workspace", "", "Base path for workspace-relative views")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Duration to watch before exiting (e.g., 1h, 30m)")
}
