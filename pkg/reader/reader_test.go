// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gardener/repoingest/pkg/fstree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileNode(t *testing.T, name string, content []byte) *fstree.Node {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return &fstree.Node{
		Kind: fstree.KindFile, Name: name, RelPath: name,
		AbsPath: path, Size: int64(len(content)),
	}
}

func TestReadFileUTF8(t *testing.T) {
	r := &Reader{}
	node := fileNode(t, "a.py", []byte("print(1)\n"))
	assert.Equal(t, "print(1)\n", r.ReadFile(node))
}

func TestReadFileEmpty(t *testing.T) {
	r := &Reader{}
	node := fileNode(t, "empty.txt", nil)
	assert.Equal(t, EmptyPlaceholder, r.ReadFile(node))
}

func TestReadFileBinary(t *testing.T) {
	r := &Reader{}
	node := fileNode(t, "blob.bin", []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01, 0x02})
	assert.Equal(t, BinaryPlaceholder, r.ReadFile(node))
}

func TestReadFileCP1252Fallback(t *testing.T) {
	r := &Reader{}
	// "café" with a Windows-1252 encoded é
	node := fileNode(t, "legacy.txt", []byte{'c', 'a', 'f', 0xE9, '\n'})
	assert.Equal(t, "café\n", r.ReadFile(node))
}

func TestReadFileUTF16BOM(t *testing.T) {
	r := &Reader{}
	// "hi\n" little-endian with BOM
	node := fileNode(t, "wide.txt", []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00, '\n', 0x00})
	assert.Equal(t, "hi\n", r.ReadFile(node))
}

func TestReadFileMissing(t *testing.T) {
	r := &Reader{}
	node := &fstree.Node{Kind: fstree.KindFile, Name: "gone", AbsPath: "/nonexistent/gone", Size: 1}
	assert.True(t, strings.HasPrefix(r.ReadFile(node), "Error reading file: "))
}

func TestReadFileLargeUTF8CutAtProbeBoundary(t *testing.T) {
	r := &Reader{}
	// place a multi-byte rune across the 1 KiB probe boundary
	body := strings.Repeat("a", probeSize-1) + "é" + strings.Repeat("b", 100)
	node := fileNode(t, "cut.txt", []byte(body))
	assert.Equal(t, body, r.ReadFile(node))
}

func TestReadNotebook(t *testing.T) {
	nb := `{
	  "cells": [
	    {"cell_type": "markdown", "source": ["# Title\n"]},
	    {"cell_type": "code", "source": ["print(1)\n"], "outputs": [
	      {"output_type": "stream", "text": ["1\n"]}
	    ]},
	    {"cell_type": "code", "source": [""], "outputs": []}
	  ]
	}`
	r := &Reader{IncludeNotebookOutput: true}
	node := fileNode(t, "nb.ipynb", []byte(nb))
	got := r.ReadFile(node)
	assert.Contains(t, got, "```markdown\n# Title\n```")
	assert.Contains(t, got, "```code\nprint(1)\n# Output:\n#   1\n```")
	// the empty cell is dropped
	assert.Equal(t, 2, strings.Count(got, "```\n"))
}

func TestReadNotebookLegacyWorksheets(t *testing.T) {
	nb := `{"worksheets": [{"cells": [{"cell_type": "code", "input": "x = 1\n"}]}]}`
	r := &Reader{}
	node := fileNode(t, "old.ipynb", []byte(nb))
	assert.Contains(t, r.ReadFile(node), "```code\nx = 1\n```")
}

func TestReadNotebookErrors(t *testing.T) {
	r := &Reader{}
	bad := fileNode(t, "bad.ipynb", []byte("{not json"))
	assert.True(t, strings.HasPrefix(r.ReadFile(bad), "Error reading file: "))

	unknown := fileNode(t, "odd.ipynb", []byte(`{"cells": [{"cell_type": "mystery", "source": ["x"]}]}`))
	assert.True(t, strings.HasPrefix(r.ReadFile(unknown), "Error reading file: "))
}

func TestContentsKeepsNodeAssociation(t *testing.T) {
	r := &Reader{MaxWorkers: 4}
	var nodes []*fstree.Node
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		nodes = append(nodes, fileNode(t, n+".txt", []byte(n+"\n")))
	}
	got, err := r.Contents(context.Background(), nodes)
	require.NoError(t, err)
	for _, node := range nodes {
		assert.Equal(t, strings.TrimSuffix(node.Name, ".txt")+"\n", got[node])
	}
}
