package walkfs

import (
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// DepthUnlimited disables the depth gate.
const DepthUnlimited = -1

// metadataName is the macOS Finder marker file, rejected during
// classification before it is ever stat'ed.
const metadataName = ".DS_Store"

// Options configures a walk. The zero value lists nothing below the root
// (Depth 0); use NewOptions for the usual unlimited-depth defaults.
type Options struct {
	// Ignore excludes matching entries before Match is considered.
	Ignore Filter
	// Match selects entries that survived Ignore. An empty filter selects
	// everything.
	Match Filter
	// Workspace is the base path for the Workspace* views and for pattern
	// resolution. Defaults to the walk root.
	Workspace string
	// Depth bounds how many directory levels below the root are listed.
	// A directory at segment-distance Depth from the root is still yielded
	// (it was classified as a child of its parent) but never listed.
	// DepthUnlimited disables the bound.
	Depth int
	// Self classifies the root itself before any children. If the root is
	// rejected the walk yields nothing at all.
	Self bool
	// Log emits a diagnostic when the walk starts.
	Log bool
	// Logger overrides the logger used for diagnostics.
	Logger *zap.Logger
}

// NewOptions returns Options with unlimited depth.
func NewOptions() *Options {
	return &Options{Depth: DepthUnlimited}
}

// classifier holds the per-walk state shared by every classification step.
// Predicates are built once, before the first entry is considered.
type classifier struct {
	root      string
	workspace string
	ignore    Predicate
	match     Predicate
}

func newClassifier(root string, opts *Options) *classifier {
	workspace := opts.Workspace
	if workspace == "" {
		workspace = root
	} else {
		workspace = absPath(workspace)
	}
	return &classifier{
		root:      root,
		workspace: workspace,
		ignore:    buildIgnore(opts.Ignore, workspace),
		match:     buildMatch(opts.Match, workspace),
	}
}

// classify stats entrypath and, when it survives the ignore/match pipeline,
// returns it as a *FileEntry or *DirEntry. A nil result means the candidate
// was skipped: reserved names, failed stats (dangling symlinks, entries
// deleted between listing and stat), irregular file types and filter
// rejections are all silent.
func (c *classifier) classify(entrypath, dirpath, entryname string) Entry {
	if entryname == "" {
		entryname = filepath.Base(entrypath)
	}
	if entryname == metadataName {
		return nil
	}
	info, err := os.Stat(entrypath)
	if err != nil {
		return nil
	}
	var entry Entry
	switch {
	case info.Mode().IsRegular():
		entry = &FileEntry{NewPathView(c.root, c.workspace, entrypath, dirpath, entryname)}
	case info.IsDir():
		entry = &DirEntry{NewPathView(c.root, c.workspace, entrypath, dirpath, entryname)}
	default:
		return nil
	}
	if c.ignore(entry) {
		return nil
	}
	if !c.match(entry) {
		return nil
	}
	return entry
}

// WalkAny lazily yields every file and directory beneath root that survives
// the ignore/match pipeline. Traversal is breadth-first over an explicit
// queue that grows while it is consumed; children within a directory are
// visited in listing order. The consumer may stop iterating at any point.
//
// The root's existence is re-verified before each queued directory is
// listed, so a consumer that deletes the root mid-walk terminates the
// sequence cleanly rather than erroring.
func WalkAny(root string, opts *Options) iter.Seq[Entry] {
	root = absPath(root)
	if opts == nil {
		opts = NewOptions()
	}
	return func(yield func(Entry) bool) {
		c := newClassifier(root, opts)
		if opts.Log {
			logger := opts.Logger
			if logger == nil {
				logger = NewLogger(LogLevelDebug)
				defer logger.Sync()
			}
			logger.Debug("starting walk",
				zap.String("root", root),
				zap.String("workspace", c.workspace),
				zap.Int("depth", opts.Depth),
				zap.Bool("self", opts.Self),
			)
		}
		if opts.Self {
			self := c.classify(root, "", "")
			if self == nil {
				return
			}
			if !yield(self) {
				return
			}
		}
		dirs := []string{root}
		for i := 0; i < len(dirs); i++ {
			dir := dirs[i]
			// The consumer may have mutated the tree since the last yield.
			info, err := os.Stat(root)
			if err != nil || !info.IsDir() {
				return
			}
			if opts.Depth >= 0 && depthBetween(root, dir) >= opts.Depth {
				continue
			}
			names, err := godirwalk.ReadDirnames(dir, nil)
			if err != nil {
				// Removed since it was queued.
				continue
			}
			for _, name := range names {
				child := filepath.Join(dir, name)
				entry := c.classify(child, dir, name)
				if entry == nil {
					continue
				}
				if !yield(entry) {
					return
				}
				if entry.IsDir() {
					dirs = append(dirs, child)
				}
			}
		}
	}
}

// WalkFiles yields only the file entries of WalkAny. It imposes no
// traversal logic of its own.
func WalkFiles(root string, opts *Options) iter.Seq[*FileEntry] {
	return func(yield func(*FileEntry) bool) {
		for entry := range WalkAny(root, opts) {
			if f, ok := entry.(*FileEntry); ok {
				if !yield(f) {
					return
				}
			}
		}
	}
}

// WalkDirs yields only the directory entries of WalkAny.
func WalkDirs(root string, opts *Options) iter.Seq[*DirEntry] {
	return func(yield func(*DirEntry) bool) {
		for entry := range WalkAny(root, opts) {
			if d, ok := entry.(*DirEntry); ok {
				if !yield(d) {
					return
				}
			}
		}
	}
}

// absPath resolves path against the working directory so every yielded
// entry carries absolute identity fields. A failed resolution (working
// directory gone) leaves the path as given.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// depthBetween counts the path segments separating dir from root.
// It is 0 for the root itself.
func depthBetween(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// Collect drains a lazy sequence into a slice.
func Collect[E any](seq iter.Seq[E]) []E {
	var out []E
	for e := range seq {
		out = append(out, e)
	}
	return out
}

// Count consumes a lazy sequence and reports how many items it produced.
func Count[E any](seq iter.Seq[E]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}
