package walk

import (
	"context"
	"iter"

	internal "github.com/Gaubee/walkfs/internal/walk"
	"go.uber.org/zap"
)

// Re-export the types from the internal package.
type (
	// PathView holds the identity and derived relative views of one entry.
	PathView = internal.PathView

	// Entry is one filesystem object discovered during a walk.
	Entry = internal.Entry

	// FileEntry is a regular file discovered during a walk.
	FileEntry = internal.FileEntry

	// DirEntry is a directory discovered during a walk.
	DirEntry = internal.DirEntry

	// Options configures a walk.
	Options = internal.Options

	// Filter selects entries by glob patterns or a predicate.
	Filter = internal.Filter

	// Predicate reports whether an entry is selected.
	Predicate = internal.Predicate

	// PatternSet matches paths against a glob set rooted at a base directory.
	PatternSet = internal.PatternSet

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel

	// Watch types.
	WatchEvent   = internal.WatchEvent
	WatchOptions = internal.WatchOptions
	WatchMessage = internal.WatchMessage
	WatchResult  = internal.WatchResult
	WatchHandler = internal.WatchHandler
)

// Re-export the constants.
const (
	// DepthUnlimited disables the depth bound.
	DepthUnlimited = internal.DepthUnlimited

	// Log levels.
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug

	// Watch event constants.
	EventCreate = internal.EventCreate
	EventModify = internal.EventModify
	EventDelete = internal.EventDelete
	EventRename = internal.EventRename
	EventChmod  = internal.EventChmod
)

// NewOptions returns Options with unlimited depth.
func NewOptions() *Options {
	return internal.NewOptions()
}

// NewPathView computes the derived views for entrypath against rootpath and
// workspace.
func NewPathView(rootpath, workspace, entrypath, dirpath, entryname string) PathView {
	return internal.NewPathView(rootpath, workspace, entrypath, dirpath, entryname)
}

// NewPatternSet compiles glob patterns against a base directory.
func NewPatternSet(patterns []string, base string) *PatternSet {
	return internal.NewPatternSet(patterns, base)
}

// NewLogger creates a zap logger with the specified log level.
func NewLogger(level LogLevel) *zap.Logger {
	return internal.NewLogger(level)
}

// WalkAny lazily yields every file and directory beneath root that survives
// the ignore/match pipeline.
func WalkAny(root string, opts *Options) iter.Seq[Entry] {
	return internal.WalkAny(root, opts)
}

// WalkFiles yields only the file entries of WalkAny.
func WalkFiles(root string, opts *Options) iter.Seq[*FileEntry] {
	return internal.WalkFiles(root, opts)
}

// WalkDirs yields only the directory entries of WalkAny.
func WalkDirs(root string, opts *Options) iter.Seq[*DirEntry] {
	return internal.WalkDirs(root, opts)
}

// Collect drains a lazy sequence into a slice.
func Collect[E any](seq iter.Seq[E]) []E {
	return internal.Collect(seq)
}

// Count consumes a lazy sequence and reports how many items it produced.
func Count[E any](seq iter.Seq[E]) int {
	return internal.Count(seq)
}

// Watch monitors a directory for filesystem changes.
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	return internal.Watch(ctx, root, opts, handler)
}
