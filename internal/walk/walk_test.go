package walkfs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTree creates the named files (with parents) under root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
}

func relPaths[E Entry](entries []E) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.View().RelativePath)
	}
	return out
}

func contains(paths []string, want string) bool {
	for _, p := range paths {
		if p == want {
			return true
		}
	}
	return false
}

func TestWalkAnyCounts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt", "sub/nested/c.txt")

	// 3 files + 2 directories.
	if n := Count(WalkAny(root, nil)); n != 5 {
		t.Errorf("Expected 5 entries, got %d", n)
	}
}

func TestWalkSkipsMetadataName(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", ".DS_Store", "sub/.DS_Store")

	entries := Collect(WalkAny(root, nil))
	for _, e := range entries {
		if e.View().EntryName == ".DS_Store" {
			t.Errorf("Reserved metadata file was yielded: %s", e.View().EntryPath)
		}
	}
	// a.txt and sub only.
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
}

func TestFilesDirsPartition(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt", "sub/nested/c.txt", "other/d.txt")

	all := Collect(WalkAny(root, nil))
	files := Collect(WalkFiles(root, nil))
	dirs := Collect(WalkDirs(root, nil))

	if len(files)+len(dirs) != len(all) {
		t.Fatalf("Partition sizes do not add up: %d files + %d dirs != %d entries",
			len(files), len(dirs), len(all))
	}

	seen := make(map[string]bool)
	for _, f := range files {
		if !f.IsFile() {
			t.Errorf("WalkFiles yielded a non-file: %s", f.EntryPath)
		}
		seen[f.EntryPath] = true
	}
	for _, d := range dirs {
		if !d.IsDir() {
			t.Errorf("WalkDirs yielded a non-directory: %s", d.EntryPath)
		}
		if seen[d.EntryPath] {
			t.Errorf("Entry in both partitions: %s", d.EntryPath)
		}
		seen[d.EntryPath] = true
	}
	for _, e := range all {
		if !seen[e.View().EntryPath] {
			t.Errorf("Entry missing from partitions: %s", e.View().EntryPath)
		}
	}
}

func TestRelativePathReconstructsEntryPath(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/nested/c.txt")

	for e := range WalkAny(root, nil) {
		joined := filepath.ToSlash(filepath.Join(root, filepath.FromSlash(e.View().RelativePath)))
		if joined != e.View().EntryPath {
			t.Errorf("Join(root, %s) = %s, expected %s",
				e.View().RelativePath, joined, e.View().EntryPath)
		}
	}
}

func TestIgnoreDirectoryPrunes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt")

	opts := NewOptions()
	opts.Ignore = Filter{Patterns: []string{"sub"}}

	got := relPaths(Collect(WalkFiles(root, opts)))
	if len(got) != 1 || got[0] != "a.txt" {
		t.Errorf("Expected [a.txt], got %v", got)
	}
}

func TestMatchRejectionPrunesDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt")

	// A directory rejected by match is never descended into, so b.txt is
	// unreachable even though it would match.
	opts := NewOptions()
	opts.Match = Filter{Patterns: []string{"**/*.txt"}}

	got := relPaths(Collect(WalkFiles(root, opts)))
	if len(got) != 1 || got[0] != "a.txt" {
		t.Errorf("Expected [a.txt], got %v", got)
	}
}

func TestMatchFuncKeepsDirectoriesOpen(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "a.log", "sub/b.txt")

	opts := NewOptions()
	opts.Match = Filter{Func: func(e Entry) bool {
		return e.IsDir() || strings.HasSuffix(e.View().EntryName, ".txt")
	}}

	got := relPaths(Collect(WalkAny(root, opts)))
	for _, want := range []string{"a.txt", "sub", "sub/b.txt"} {
		if !contains(got, want) {
			t.Errorf("Expected %s in %v", want, got)
		}
	}
	if contains(got, "a.log") {
		t.Errorf("Rejected entry a.log was yielded: %v", got)
	}
}

func TestIgnoreRunsBeforeMatch(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "b.txt")

	opts := NewOptions()
	opts.Ignore = Filter{Patterns: []string{"a.txt"}}
	opts.Match = Filter{Patterns: []string{"*.txt"}}

	got := relPaths(Collect(WalkFiles(root, opts)))
	if len(got) != 1 || got[0] != "b.txt" {
		t.Errorf("Expected [b.txt], got %v", got)
	}
}

func TestDepthZeroYieldsNoDescendants(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt")

	opts := NewOptions()
	opts.Depth = 0
	if n := Count(WalkAny(root, opts)); n != 0 {
		t.Errorf("Expected 0 entries at depth 0, got %d", n)
	}

	opts.Self = true
	got := Collect(WalkAny(root, opts))
	if len(got) != 1 || !got[0].IsDir() {
		t.Errorf("Expected only the root at depth 0 with self, got %v", relPaths(got))
	}
}

func TestDepthOneStopsAtFirstLevel(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "x/y/z.txt")

	opts := NewOptions()
	opts.Depth = 1

	got := relPaths(Collect(WalkAny(root, opts)))
	if len(got) != 1 || got[0] != "x" {
		t.Errorf("Expected [x], got %v", got)
	}
}

func TestSelfYieldsRootFirst(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt")

	opts := NewOptions()
	opts.Self = true

	got := Collect(WalkAny(root, opts))
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if !got[0].IsDir() || got[0].View().RelativePath != "." {
		t.Errorf("Expected the root first, got %s", got[0].View().RelativePath)
	}
}

func TestSelfGateShortCircuits(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt")

	// The root is a directory, so a files-only match rejects it and the
	// whole walk terminates before any child is visited.
	opts := NewOptions()
	opts.Self = true
	opts.Match = Filter{Func: func(e Entry) bool { return e.IsFile() }}

	if n := Count(WalkAny(root, opts)); n != 0 {
		t.Errorf("Expected empty walk when self is rejected, got %d entries", n)
	}
}

func TestWorkspaceViews(t *testing.T) {
	workspace := t.TempDir()
	root := filepath.Join(workspace, "project")
	writeTree(t, root, "src/main.go")

	opts := NewOptions()
	opts.Workspace = workspace

	for f := range WalkFiles(root, opts) {
		if f.RelativePath != "src/main.go" {
			t.Errorf("Expected relative path src/main.go, got %s", f.RelativePath)
		}
		if f.WorkspacePath != "project/src/main.go" {
			t.Errorf("Expected workspace path project/src/main.go, got %s", f.WorkspacePath)
		}
	}
}

func TestPatternsResolveAgainstWorkspace(t *testing.T) {
	workspace := t.TempDir()
	root := filepath.Join(workspace, "project")
	writeTree(t, root, "a.txt", "b.log")

	opts := NewOptions()
	opts.Workspace = workspace
	opts.Match = Filter{Patterns: []string{"project/*.txt"}}

	got := relPaths(Collect(WalkFiles(root, opts)))
	if len(got) != 1 || got[0] != "a.txt" {
		t.Errorf("Expected [a.txt], got %v", got)
	}
}

func TestRelativeRootYieldsAbsolutePaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt")

	t.Chdir(filepath.Dir(root))
	rel := filepath.Base(root)

	var count int
	for e := range WalkAny(rel, nil) {
		count++
		if !filepath.IsAbs(filepath.FromSlash(e.View().EntryPath)) {
			t.Errorf("EntryPath not absolute: %s", e.View().EntryPath)
		}
		if !filepath.IsAbs(filepath.FromSlash(e.View().DirPath)) {
			t.Errorf("DirPath not absolute: %s", e.View().DirPath)
		}
		if !filepath.IsAbs(filepath.FromSlash(e.View().RootPath)) {
			t.Errorf("RootPath not absolute: %s", e.View().RootPath)
		}
	}
	if count != 3 {
		t.Errorf("Expected 3 entries, got %d", count)
	}
}

func TestRelativeWorkspaceResolved(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt")

	t.Chdir(filepath.Dir(root))

	opts := NewOptions()
	opts.Workspace = filepath.Base(root)

	for f := range WalkFiles(filepath.Base(root), opts) {
		if !filepath.IsAbs(filepath.FromSlash(f.Workspace)) {
			t.Errorf("Workspace not absolute: %s", f.Workspace)
		}
		if f.WorkspacePath != "a.txt" {
			t.Errorf("Expected workspace path a.txt, got %s", f.WorkspacePath)
		}
	}
}

func TestBrokenSymlinkSkipped(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt")
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")); err != nil {
		t.Skipf("Cannot create symlink: %v", err)
	}

	got := relPaths(Collect(WalkAny(root, nil)))
	if len(got) != 1 || got[0] != "a.txt" {
		t.Errorf("Expected [a.txt], got %v", got)
	}
}

func TestRootRemovedMidWalk(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt")

	var count int
	for range WalkAny(root, nil) {
		count++
		if count == 1 {
			if err := os.RemoveAll(root); err != nil {
				t.Fatalf("RemoveAll failed: %v", err)
			}
		}
	}
	// The remaining sibling fails its stat and the root check stops the
	// queue, so only the first entry survives.
	if count != 1 {
		t.Errorf("Expected 1 entry after removing the root, got %d", count)
	}
}

func TestQueuedDirectoryRemovedMidWalk(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt", "other/c.txt")

	var got []string
	for e := range WalkAny(root, nil) {
		got = append(got, e.View().RelativePath)
		if e.View().EntryName == "sub" {
			if err := os.RemoveAll(filepath.Join(root, "sub")); err != nil {
				t.Fatalf("RemoveAll failed: %v", err)
			}
		}
	}

	if contains(got, "sub/b.txt") {
		t.Errorf("Removed directory was still listed: %v", got)
	}
	for _, want := range []string{"a.txt", "sub", "other", "other/c.txt"} {
		if !contains(got, want) {
			t.Errorf("Expected %s in %v", want, got)
		}
	}
}

func TestEarlyTermination(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "b.txt", "c.txt")

	var count int
	for range WalkAny(root, nil) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("Expected to stop after 2 entries, got %d", count)
	}
}

func TestDepthBetween(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "r")
	testCases := []struct {
		dir      string
		expected int
	}{
		{root, 0},
		{filepath.Join(root, "a"), 1},
		{filepath.Join(root, "a", "b"), 2},
		{filepath.Join(root, "a", "b", "c"), 3},
	}
	for _, tc := range testCases {
		if got := depthBetween(root, tc.dir); got != tc.expected {
			t.Errorf("depthBetween(%s, %s) = %d, expected %d", root, tc.dir, got, tc.expected)
		}
	}
}
