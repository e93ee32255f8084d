// Package walk provides lazy, filter-aware filesystem traversal.
//
// A walk is a pull-based sequence over the files and directories beneath a
// root path. Each yielded entry carries its path relative to the walk root
// and to a logical workspace root, and entries can be pruned or selected
// with glob patterns or predicate functions:
//
//	// Every .go file, skipping vendored code.
//	opts := walk.NewOptions()
//	opts.Ignore = walk.Filter{Patterns: []string{"vendor", ".git"}}
//	opts.Match = walk.Filter{Patterns: []string{"**/*.go"}}
//	for f := range walk.WalkFiles(root, opts) {
//		fmt.Println(f.RelativePath)
//	}
//
// Watch mode monitors a tree for changes, running each event through the
// same ignore/match pipeline:
//
//	opts := walk.WatchOptions{
//		Recursive: true,
//		Events:    []walk.WatchEvent{walk.EventCreate, walk.EventModify},
//	}
//	err := walk.Watch(ctx, root, opts, func(ctx context.Context, result walk.WatchResult) error {
//		if result.Error != nil {
//			return result.Error
//		}
//		fmt.Printf("%s: %s\n", result.Message.Event, result.Message.View.EntryPath)
//		return nil
//	})
package walk
