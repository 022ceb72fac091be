// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package fstree holds the typed tree produced by the filesystem walker.
// Nodes are mutated only while the walker builds the tree; once handed to
// the assembler they are read-only.
package fstree

import (
	"sort"
	"strings"
)

// NodeKind tags the variant of a Node.
type NodeKind int

const (
	// KindFile is a regular file.
	KindFile NodeKind = iota
	// KindDirectory is a directory owning its children.
	KindDirectory
	// KindSymlink is a symbolic link; the target is kept as read and never
	// dereferenced into the tree.
	KindSymlink
)

// String returns the lowercase name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	}
	return "unknown"
}

// Node is one entry of the traversed tree.
type Node struct {
	Kind    NodeKind
	Name    string
	RelPath string // POSIX-relative to the scan root; empty for the root
	AbsPath string
	Depth   int
	Size    int64

	// directory fields
	Children  []*Node
	FileCount int
	DirCount  int

	// symlink field
	Target string
}

// Stats tracks running totals for one traversal.
type Stats struct {
	TotalFiles int
	TotalSize  int64
}

// IsHidden reports whether the node name starts with a dot.
func (n *Node) IsHidden() bool {
	return strings.HasPrefix(n.Name, ".")
}

func isReadme(name string) bool {
	lower := strings.ToLower(name)
	return lower == "readme" || strings.HasPrefix(lower, "readme.")
}

// sortGroup buckets children for display: README files first, then
// non-hidden files, hidden files, non-hidden directories, hidden
// directories and finally symlinks.
func sortGroup(n *Node) int {
	switch n.Kind {
	case KindFile:
		if isReadme(n.Name) {
			return 0
		}
		if n.IsHidden() {
			return 2
		}
		return 1
	case KindDirectory:
		if n.IsHidden() {
			return 4
		}
		return 3
	default:
		return 5
	}
}

// SortChildren orders the direct children of a directory node. Within each
// group names compare case-insensitively; equal folded names fall back to
// the raw name so the order stays total.
func (n *Node) SortChildren() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		ga, gb := sortGroup(a), sortGroup(b)
		if ga != gb {
			return ga < gb
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
}

// Walk visits the node and all descendants depth-first in child order.
// It stops when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Files returns all file nodes under n in traversal order.
func (n *Node) Files() []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if node.Kind == KindFile {
			out = append(out, node)
		}
		return true
	})
	return out
}
