// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package assemble renders the digest artifacts: the human-readable
// summary, the ASCII tree and the concatenated file contents.
package assemble

import (
	"fmt"
	"strings"

	"github.com/gardener/repoingest/pkg/fstree"
	"github.com/gardener/repoingest/pkg/query"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Separator delimits file blocks in the content stream. The length is
// tuned so the line tokenizes as two tokens, keeping block overhead flat.
var Separator = strings.Repeat("=", 48)

// Info carries everything the summary needs.
type Info struct {
	Query *query.Query
	Root  *fstree.Node
	Stats *fstree.Stats
	// FileLines is the line count of a single-file root body.
	FileLines int
	// TokenLabel is the formatted token estimate; empty omits the line.
	TokenLabel string
}

// Renderer produces the three digest artifacts. Alternate renderings are
// additional implementations, not subclasses.
type Renderer interface {
	RenderSummary(info Info) string
	RenderTree(root *fstree.Node) string
	RenderContent(files []*fstree.Node, bodies map[*fstree.Node]string) string
}

// DefaultRenderer implements the stable digest format.
type DefaultRenderer struct{}

var numberPrinter = message.NewPrinter(language.English)

// RenderSummary implements Renderer. Every line ends with a newline; the
// branch line is omitted for the default branch names.
func (DefaultRenderer) RenderSummary(info Info) string {
	q := info.Query
	var b strings.Builder
	if q.Kind == query.Remote {
		fmt.Fprintf(&b, "Repository: %s/%s\n", q.Owner, q.Repo)
	} else {
		fmt.Fprintf(&b, "Directory: %s\n", q.Slug)
	}
	switch q.RefKind {
	case query.RefTag:
		fmt.Fprintf(&b, "Tag: %s\n", q.Ref)
	case query.RefBranch:
		if q.Ref != "main" && q.Ref != "master" {
			fmt.Fprintf(&b, "Branch: %s\n", q.Ref)
		}
	}
	if q.Commit != "" {
		fmt.Fprintf(&b, "Commit: %s\n", q.Commit)
	}
	if q.Subpath != "/" && info.Root.Kind == fstree.KindDirectory {
		fmt.Fprintf(&b, "Subpath: %s\n", q.Subpath)
	}
	if info.Root.Kind == fstree.KindFile {
		fmt.Fprintf(&b, "File: %s\n", info.Root.Name)
		numberPrinter.Fprintf(&b, "Lines: %d\n", info.FileLines)
	} else {
		numberPrinter.Fprintf(&b, "Files analyzed: %d\n", info.Stats.TotalFiles)
	}
	if info.TokenLabel != "" {
		fmt.Fprintf(&b, "\nEstimated tokens: %s\n", info.TokenLabel)
	}
	return b.String()
}

// RenderTree implements Renderer: box-drawing children under a bare root
// label, a trailing slash on directories and the target after symlinks.
func (DefaultRenderer) RenderTree(root *fstree.Node) string {
	var b strings.Builder
	b.WriteString(nodeLabel(root) + "\n")
	renderChildren(&b, root, "")
	return b.String()
}

func nodeLabel(n *fstree.Node) string {
	switch n.Kind {
	case fstree.KindDirectory:
		return n.Name + "/"
	case fstree.KindSymlink:
		return n.Name + " -> " + n.Target
	}
	return n.Name
}

func renderChildren(b *strings.Builder, dir *fstree.Node, prefix string) {
	for i, child := range dir.Children {
		connector, continuation := "├── ", "│   "
		if i == len(dir.Children)-1 {
			connector, continuation = "└── ", "    "
		}
		b.WriteString(prefix + connector + nodeLabel(child) + "\n")
		if child.Kind == fstree.KindDirectory {
			renderChildren(b, child, prefix+continuation)
		}
	}
}

// RenderContent implements Renderer: one separator-bracketed block per
// file in traversal order, each body ending with a blank line.
func (DefaultRenderer) RenderContent(files []*fstree.Node, bodies map[*fstree.Node]string) string {
	var b strings.Builder
	for _, f := range files {
		b.WriteString(renderBlock(f, bodies[f]))
	}
	return b.String()
}

func renderBlock(f *fstree.Node, body string) string {
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return Separator + "\nFILE: " + f.RelPath + "\n" + Separator + "\n" + body + "\n"
}

// DebugRenderer decorates the tree with node metadata for
// troubleshooting; summary and content render as usual.
type DebugRenderer struct {
	DefaultRenderer
}

// RenderTree implements Renderer.
func (DebugRenderer) RenderTree(root *fstree.Node) string {
	var b strings.Builder
	root.Walk(func(n *fstree.Node) bool {
		fmt.Fprintf(&b, "%s%s [%s depth=%d size=%d]\n",
			strings.Repeat("  ", n.Depth), nodeLabel(n), n.Kind, n.Depth, n.Size)
		return true
	})
	return b.String()
}
