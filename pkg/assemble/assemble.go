// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package assemble

import (
	"fmt"
	"strings"

	"github.com/gardener/repoingest/pkg/fstree"
	"github.com/gardener/repoingest/pkg/query"
	"github.com/gardener/repoingest/pkg/tokens"
)

// Artifacts is the rendered digest tuple.
type Artifacts struct {
	Summary string
	Tree    string
	Content string
}

// Assembler combines the walked tree and the file bodies into the digest.
type Assembler struct {
	Renderer Renderer
	Counter  tokens.Counter
	// MaxTokens, when positive, bounds the whole digest; file bodies are
	// packed greedily and never truncated mid-file.
	MaxTokens int
}

// Assemble renders the digest for one walked tree.
func (a *Assembler) Assemble(q *query.Query, root *fstree.Node, stats *fstree.Stats, bodies map[*fstree.Node]string) Artifacts {
	renderer := a.Renderer
	if renderer == nil {
		renderer = DefaultRenderer{}
	}
	counter := a.Counter
	if counter == nil {
		counter = tokens.Estimator{}
	}

	tree := renderer.RenderTree(root)
	files := root.Files()
	info := Info{Query: q, Root: root, Stats: stats}
	if root.Kind == fstree.KindFile {
		info.FileLines = strings.Count(strings.TrimSuffix(bodies[root], "\n"), "\n") + 1
	}

	var content string
	if a.MaxTokens > 0 {
		content = a.packContent(renderer, counter, info, tree, files, bodies)
	} else {
		content = renderer.RenderContent(files, bodies)
	}

	info.TokenLabel = tokens.Format(counter.Count(tree + content))
	if tokens.IsEstimate(counter) {
		// the encoding was unavailable or disabled; flag the weaker number
		info.TokenLabel += " (approximate)"
	}
	return Artifacts{
		Summary: renderer.RenderSummary(info),
		Tree:    tree,
		Content: content,
	}
}

// packContent includes whole file bodies in traversal order until the
// token budget left after the summary header and the tree is exhausted.
func (a *Assembler) packContent(renderer Renderer, counter tokens.Counter, info Info, tree string, files []*fstree.Node, bodies map[*fstree.Node]string) string {
	budget := a.MaxTokens - counter.Count(renderer.RenderSummary(info)+tree)
	var b strings.Builder
	used, truncated := 0, false
	for _, f := range files {
		block := renderBlock(f, bodies[f])
		cost := counter.Count(block)
		if used+cost > budget {
			truncated = true
			break
		}
		b.WriteString(block)
		used += cost
	}
	if truncated {
		fmt.Fprintf(&b, "[Content truncated to %d tokens]\n", a.MaxTokens)
	}
	return b.String()
}
