package walkfs

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchEvent represents a filesystem event type.
type WatchEvent string

// Watch event types.
const (
	EventCreate WatchEvent = "create"
	EventModify WatchEvent = "modify"
	EventDelete WatchEvent = "delete"
	EventRename WatchEvent = "rename"
	EventChmod  WatchEvent = "chmod"
)

// WatchOptions defines options for watching filesystem changes.
type WatchOptions struct {
	// Events to deliver (create, modify, delete, rename, chmod).
	// If empty, all events are delivered.
	Events []WatchEvent

	// Recursive registers every directory beneath the root, and registers
	// newly created directories as they appear.
	Recursive bool

	// Ignore holds glob patterns; matching paths are dropped.
	Ignore []string

	// Match holds glob patterns; when non-empty, only matching paths are
	// delivered.
	Match []string

	// Workspace is the base for the Workspace* views of delivered entries
	// and for pattern resolution. Defaults to the watched root.
	Workspace string

	// Timeout stops the watch after this duration (0 means no timeout).
	Timeout time.Duration

	// Logger overrides the logger used for diagnostics.
	Logger *zap.Logger
}

// WatchMessage describes one filesystem event.
type WatchMessage struct {
	// View holds the path views of the affected path.
	View PathView
	// Entry is the classified entry, or nil when the path no longer exists
	// (delete and rename events).
	Entry Entry
	// Event is the event type.
	Event WatchEvent
}

// WatchResult is delivered to the handler for each event.
type WatchResult struct {
	Message WatchMessage
	Error   error
}

// WatchHandler processes watch events.
type WatchHandler func(ctx context.Context, result WatchResult) error

// defaultWatchHandler prints each event path.
func defaultWatchHandler() WatchHandler {
	return func(ctx context.Context, result WatchResult) error {
		if result.Error != nil {
			return result.Error
		}
		fmt.Printf("%s: %s\n", result.Message.Event, result.Message.View.EntryPath)
		return nil
	}
}

// Watch monitors root for filesystem changes and delivers each surviving
// event to handler. Event paths run through the same ignore/match pattern
// pipeline as a walk, and stat-able paths are classified into the same
// entry variants. Watch blocks until ctx is done or the timeout elapses.
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	if handler == nil {
		handler = defaultWatchHandler()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(LogLevelInfo)
		defer logger.Sync()
	}

	root = absPath(root)
	workspace := opts.Workspace
	if workspace == "" {
		workspace = root
	} else {
		workspace = absPath(workspace)
	}
	var ignoreSet, matchSet *PatternSet
	if len(opts.Ignore) > 0 {
		ignoreSet = NewPatternSet(opts.Ignore, workspace)
	}
	if len(opts.Match) > 0 {
		matchSet = NewPatternSet(opts.Match, workspace)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if opts.Recursive {
		for dir := range WalkDirs(root, NewOptions()) {
			if err := watcher.Add(dir.EntryPath); err != nil {
				logger.Warn("cannot watch directory",
					zap.String("path", dir.EntryPath),
					zap.Error(err),
				)
			}
		}
	}

	wanted := func(e WatchEvent) bool {
		if len(opts.Events) == 0 {
			return true
		}
		for _, w := range opts.Events {
			if w == e {
				return true
			}
		}
		return false
	}
	eventMap := make(map[fsnotify.Op]WatchEvent)
	for op, e := range map[fsnotify.Op]WatchEvent{
		fsnotify.Create: EventCreate,
		fsnotify.Write:  EventModify,
		fsnotify.Remove: EventDelete,
		fsnotify.Rename: EventRename,
		fsnotify.Chmod:  EventChmod,
	} {
		if wanted(e) {
			eventMap[op] = e
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			var eventType WatchEvent
			matchedOp := false
			for _, op := range []fsnotify.Op{fsnotify.Create, fsnotify.Write, fsnotify.Remove, fsnotify.Rename, fsnotify.Chmod} {
				if event.Has(op) {
					if e, ok := eventMap[op]; ok {
						eventType = e
						matchedOp = true
						break
					}
				}
			}
			if !matchedOp {
				continue
			}

			path := event.Name
			view := NewPathView(root, workspace, path, "", "")
			if view.EntryName == metadataName {
				continue
			}
			if ignoreSet != nil && ignoreSet.Match(path) {
				continue
			}
			if matchSet != nil && !matchSet.Match(path) {
				continue
			}

			var entry Entry
			if eventType != EventDelete && eventType != EventRename {
				info, err := os.Stat(path)
				if err != nil {
					// Gone already; treat as traversal noise.
					continue
				}
				switch {
				case info.Mode().IsRegular():
					entry = &FileEntry{view}
				case info.IsDir():
					entry = &DirEntry{view}
					if opts.Recursive && eventType == EventCreate {
						if err := watcher.Add(path); err != nil {
							logger.Warn("cannot watch new directory",
								zap.String("path", path),
								zap.Error(err),
							)
						}
					}
				default:
					continue
				}
			}

			msg := WatchMessage{View: view, Entry: entry, Event: eventType}
			if err := handler(ctx, WatchResult{Message: msg}); err != nil {
				handler(ctx, WatchResult{
					Error: fmt.Errorf("handle %s event for %s: %w", eventType, path, err),
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			handler(ctx, WatchResult{Error: fmt.Errorf("watcher: %w", err)})

		case <-ctx.Done():
			return nil
		}
	}
}
