// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package walker produces the typed tree of a scan root, honoring the
// pattern engine, per-directory .gitignore files, symlink containment and
// the query's resource budgets.
package walker

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/codeglyph/go-dotignore/v2"
	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/gardener/repoingest/pkg/fstree"
	"github.com/gardener/repoingest/pkg/patterns"
	"github.com/gardener/repoingest/pkg/query"
	"k8s.io/klog/v2"
)

// extraIgnoreFile supplements .gitignore the way the digest consumer
// expects: entries listed there are excluded from ingestion only.
const extraIgnoreFile = ".gitingestignore"

// Walker traverses one scan root.
type Walker struct {
	query   *query.Query
	matcher *patterns.Matcher

	root         string
	resolvedRoot string
	ignorers     []*dotignore.RepositoryMatcher
}

// New prepares a walker for the query's scan root. Unless gitignored
// content is requested, .gitignore and .gitingestignore files at any level
// extend the ignore decision for the subtree they govern.
func New(q *query.Query, m *patterns.Matcher) (*Walker, error) {
	w := &Walker{query: q, matcher: m, root: q.ScanRoot()}
	info, err := os.Lstat(w.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errkind.Wrap(errkind.NotFound, err, "scan root %s does not exist", w.root)
		}
		return nil, errkind.Wrap(errkind.IOError, err, "cannot stat scan root %s", w.root)
	}
	if w.resolvedRoot, err = filepath.EvalSymlinks(w.root); err != nil {
		return nil, errkind.Wrap(errkind.IOError, err, "cannot resolve scan root %s", w.root)
	}
	if info.IsDir() && !q.IncludeGitignored {
		for _, name := range []string{".gitignore", extraIgnoreFile} {
			matcher, err := dotignore.NewRepositoryMatcherWithConfig(w.root, &dotignore.RepositoryConfig{IgnoreFileName: name})
			if err != nil {
				return nil, errkind.Wrap(errkind.IOError, err, "cannot load %s files under %s", name, w.root)
			}
			w.ignorers = append(w.ignorers, matcher)
		}
	}
	return w, nil
}

// Walk builds the tree. The returned root node is a directory, or a single
// file node when the scan root points at a file.
func (w *Walker) Walk() (*fstree.Node, *fstree.Stats, error) {
	info, err := os.Lstat(w.root)
	if err != nil {
		return nil, nil, errkind.Wrap(errkind.IOError, err, "cannot stat scan root %s", w.root)
	}
	stats := &fstree.Stats{}
	if !info.IsDir() {
		if info.Size() > w.query.MaxFileSize {
			return nil, nil, errkind.NewQuota(errkind.QuotaFileSize,
				"file %s exceeds the %d byte limit", w.root, w.query.MaxFileSize)
		}
		stats.TotalFiles, stats.TotalSize = 1, info.Size()
		return &fstree.Node{
			Kind: fstree.KindFile, Name: info.Name(), RelPath: info.Name(),
			AbsPath: w.root, Size: info.Size(),
		}, stats, nil
	}
	root := &fstree.Node{
		Kind: fstree.KindDirectory, Name: w.query.DisplayName(), AbsPath: w.root,
	}
	if err := w.walkDir(root, false, stats); err != nil {
		return nil, nil, err
	}
	return root, stats, nil
}

// walkDir fills dir with its admitted children in display order.
// ancestorIncluded carries a matched include pattern down the subtree.
func (w *Walker) walkDir(dir *fstree.Node, ancestorIncluded bool, stats *fstree.Stats) error {
	entries, err := os.ReadDir(dir.AbsPath)
	if err != nil {
		return errkind.Wrap(errkind.IOError, err, "cannot list %s", dir.AbsPath)
	}
	var candidates []*fstree.Node
	included := make(map[*fstree.Node]bool)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return errkind.Wrap(errkind.IOError, err, "cannot stat %s", filepath.Join(dir.AbsPath, entry.Name()))
		}
		rel := entry.Name()
		if dir.RelPath != "" {
			rel = dir.RelPath + "/" + entry.Name()
		}
		node := &fstree.Node{
			Name: entry.Name(), RelPath: rel,
			AbsPath: filepath.Join(dir.AbsPath, entry.Name()),
			Depth:   dir.Depth + 1, Size: info.Size(),
		}
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			node.Kind = fstree.KindSymlink
			node.Size = 0
		case entry.IsDir():
			node.Kind = fstree.KindDirectory
			node.Size = 0
		default:
			node.Kind = fstree.KindFile
		}
		if w.gitIgnored(rel) {
			continue
		}
		switch node.Kind {
		case fstree.KindSymlink:
			if !w.matcher.SelectsFile(rel, ancestorIncluded) || !w.containedLink(node) {
				continue
			}
		case fstree.KindDirectory:
			descend, childIncluded := w.matcher.DescendDir(rel, ancestorIncluded)
			if !descend {
				continue
			}
			included[node] = childIncluded
		case fstree.KindFile:
			if !w.matcher.SelectsFile(rel, ancestorIncluded) {
				continue
			}
		}
		candidates = append(candidates, node)
	}

	scratch := &fstree.Node{Children: candidates}
	scratch.SortChildren()

	for _, node := range scratch.Children {
		switch node.Kind {
		case fstree.KindFile:
			if !w.admitFile(node, stats) {
				continue
			}
			dir.FileCount++
		case fstree.KindDirectory:
			// a directory at the depth limit stays in the tree with no children
			if node.Depth < w.query.MaxDirDepth {
				if err := w.walkDir(node, included[node], stats); err != nil {
					return err
				}
			} else {
				klog.V(6).Infof("depth limit reached at %s", node.RelPath)
			}
			dir.FileCount += node.FileCount
			dir.DirCount += node.DirCount + 1
		}
		dir.Children = append(dir.Children, node)
	}
	return nil
}

// admitFile applies the per-file and running budgets. Oversized or
// over-budget files are skipped whole; nothing partial is recorded.
func (w *Walker) admitFile(node *fstree.Node, stats *fstree.Stats) bool {
	q := w.query
	switch {
	case node.Size > q.MaxFileSize:
		klog.V(6).Infof("skipping %s: %d bytes exceed the per-file limit", node.RelPath, node.Size)
	case stats.TotalSize+node.Size > q.MaxTotalSize:
		klog.V(6).Infof("skipping %s: total size budget exhausted", node.RelPath)
	case stats.TotalFiles+1 > q.MaxFiles:
		klog.V(6).Infof("skipping %s: file count budget exhausted", node.RelPath)
	default:
		stats.TotalFiles++
		stats.TotalSize += node.Size
		return true
	}
	return false
}

// containedLink records the link target as read and admits the node only
// when the resolved target stays inside the scan root. Targets are never
// followed during enumeration.
func (w *Walker) containedLink(node *fstree.Node) bool {
	target, err := os.Readlink(node.AbsPath)
	if err != nil {
		klog.V(6).Infof("skipping unreadable symlink %s: %v", node.RelPath, err)
		return false
	}
	node.Target = target
	resolved, err := filepath.EvalSymlinks(node.AbsPath)
	if err != nil {
		klog.V(6).Infof("skipping dangling symlink %s", node.RelPath)
		return false
	}
	rel, err := filepath.Rel(w.resolvedRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		klog.V(6).Infof("skipping symlink %s: target escapes the scan root", node.RelPath)
		return false
	}
	return true
}

func (w *Walker) gitIgnored(rel string) bool {
	for _, m := range w.ignorers {
		ignored, err := m.Matches(path.Clean(rel))
		if err == nil && ignored {
			return true
		}
	}
	return false
}
