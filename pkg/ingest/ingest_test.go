// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/gardener/repoingest/pkg/query"
	"github.com/gardener/repoingest/pkg/tokens/tokensfakes"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeCounter avoids loading the BPE encoding in tests.
func runeCounter() *tokensfakes.FakeCounter {
	c := &tokensfakes.FakeCounter{}
	c.CountCalls(func(text string) int { return len([]rune(text)) })
	return c
}

func testEnv(t *testing.T) Env {
	t.Helper()
	return Env{
		TmpRoot:      t.TempDir(),
		CacheDir:     t.TempDir(),
		MaxFileSize:  DefaultMaxFileSize,
		MaxFiles:     DefaultMaxFiles,
		MaxTotalSize: DefaultMaxTotalSize,
		MaxDirDepth:  DefaultMaxDirDepth,
	}
}

func writeFixture(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestIngestLocalDirectory(t *testing.T) {
	src := t.TempDir()
	writeFixture(t, src, map[string]string{
		"README.md": "# Toy\n",
		"src/a.py":  "print('a')\n",
	})

	var states []State
	digest, err := Ingest(context.Background(), src,
		WithEnv(testEnv(t)),
		WithCounter(runeCounter()),
		WithObserver(func(_ uuid.UUID, s State) { states = append(states, s) }),
	)
	require.NoError(t, err)

	slug := filepath.Base(filepath.Dir(src)) + "/" + filepath.Base(src)
	assert.Contains(t, digest.Summary, "Directory: "+slug)
	assert.Contains(t, digest.Summary, "Files analyzed: 2")
	assert.Contains(t, digest.Summary, "Estimated tokens:")
	assert.Contains(t, digest.Tree, "README.md")
	assert.Contains(t, digest.Tree, "src/")
	assert.Contains(t, digest.Content, "FILE: README.md")
	assert.Contains(t, digest.Content, "print('a')")

	assert.Equal(t, []State{
		StateCreated, StateResolving, StateWalking, StateReading, StateAssembling, StateDone,
	}, states)
}

func TestIngestWritesOutput(t *testing.T) {
	src := t.TempDir()
	writeFixture(t, src, map[string]string{"a.txt": "hello\n"})
	out := filepath.Join(t.TempDir(), "digest.txt")

	digest, err := Ingest(context.Background(), src,
		WithEnv(testEnv(t)),
		WithCounter(runeCounter()),
		WithOutput(out),
	)
	require.NoError(t, err)

	blob, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, digest.Bytes(), blob)
	assert.Equal(t, digest.Summary+"\n"+digest.Tree+"\n"+digest.Content, string(blob))
}

func TestIngestPatternOptions(t *testing.T) {
	src := t.TempDir()
	writeFixture(t, src, map[string]string{
		"keep.py":   "x\n",
		"skip.md":   "y\n",
		"docs/d.py": "z\n",
	})

	digest, err := Ingest(context.Background(), src,
		WithEnv(testEnv(t)),
		WithCounter(runeCounter()),
		WithIncludePatterns("*.py"),
		WithExcludePatterns("docs"),
	)
	require.NoError(t, err)
	assert.Contains(t, digest.Content, "FILE: keep.py")
	assert.NotContains(t, digest.Content, "skip.md")
	assert.NotContains(t, digest.Content, "docs/d.py")
}

func TestIngestInvalidPattern(t *testing.T) {
	src := t.TempDir()
	_, err := Ingest(context.Background(), src,
		WithEnv(testEnv(t)),
		WithCounter(runeCounter()),
		WithIncludePatterns("bad|pattern"),
	)
	require.Error(t, err)
	assert.Equal(t, errkind.PatternSyntax, errkind.KindOf(err))
}

func TestIngestBudgetOptions(t *testing.T) {
	src := t.TempDir()
	writeFixture(t, src, map[string]string{
		"a.txt": "aaaa\n",
		"b.txt": "bbbb\n",
	})

	digest, err := Ingest(context.Background(), src,
		WithEnv(testEnv(t)),
		WithCounter(runeCounter()),
		WithMaxFiles(1),
	)
	require.NoError(t, err)
	assert.Contains(t, digest.Summary, "Files analyzed: 1")
	assert.Contains(t, digest.Content, "FILE: a.txt")
	assert.NotContains(t, digest.Content, "FILE: b.txt")
}

func TestIngestRefOverrides(t *testing.T) {
	src := t.TempDir()

	_, err := Ingest(context.Background(), src,
		WithEnv(testEnv(t)),
		WithCounter(runeCounter()),
		WithBranch("main"), WithTag("v1.0.0"),
	)
	require.Error(t, err)
	assert.Equal(t, errkind.InvalidSource, errkind.KindOf(err))

	// refs make no sense against a plain directory
	_, err = Ingest(context.Background(), src,
		WithEnv(testEnv(t)),
		WithCounter(runeCounter()),
		WithBranch("main"),
	)
	require.Error(t, err)
	assert.Equal(t, errkind.InvalidSource, errkind.KindOf(err))
}

func TestIngestMissingSourceState(t *testing.T) {
	var last State
	_, err := Ingest(context.Background(), "https://example.invalid/owner",
		WithEnv(testEnv(t)),
		WithCounter(runeCounter()),
		WithObserver(func(_ uuid.UUID, s State) { last = s }),
	)
	require.Error(t, err)
	assert.True(t, last.Terminal())
	assert.Equal(t, StateError, last)
}

func TestIngestQuotaState(t *testing.T) {
	src := t.TempDir()
	writeFixture(t, src, map[string]string{"big.txt": strings.Repeat("x", 100)})
	env := testEnv(t)
	env.MaxTotalSize = 10

	var last State
	_, err := Ingest(context.Background(), src,
		WithEnv(env),
		WithCounter(runeCounter()),
		WithObserver(func(_ uuid.UUID, s State) { last = s }),
	)
	// the oversized file is skipped, not fatal; the digest still assembles
	require.NoError(t, err)
	assert.Equal(t, StateDone, last)
}

func TestIngestRemoteWithFakes(t *testing.T) {
	env := testEnv(t)

	var provisioned *query.Query
	prov := provisionFunc(func(_ context.Context, q *query.Query) error {
		provisioned = q
		worktree := q.WorktreePath()
		writeFixture(t, worktree, map[string]string{"main.go": "package main\n"})
		q.Commit = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
		return nil
	})

	reg := NewRegistry()
	digest, err := Ingest(context.Background(), "https://github.com/owner/repo",
		WithEnv(env),
		WithCounter(runeCounter()),
		WithRegistry(reg),
		withProvisioner(prov),
	)
	require.NoError(t, err)
	require.NotNil(t, provisioned)

	assert.Contains(t, digest.Summary, "Repository: owner/repo")
	assert.Contains(t, digest.Summary, "Commit: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	assert.Contains(t, digest.Content, "package main")

	// the working tree is deleted once the digest is assembled
	_, statErr := os.Stat(provisioned.ScratchPath)
	assert.True(t, os.IsNotExist(statErr))

	state, ok := reg.StateOf(digest.ID)
	require.True(t, ok)
	assert.Equal(t, StateDone, state)

	require.NoError(t, reg.Release(digest.ID))
	_, ok = reg.StateOf(digest.ID)
	assert.False(t, ok)
	err = reg.Release(digest.ID)
	assert.Equal(t, errkind.NotFound, errkind.KindOf(err))
}

func TestIngestRemoteFailureCleansScratch(t *testing.T) {
	env := testEnv(t)
	prov := provisionFunc(func(_ context.Context, q *query.Query) error {
		require.NoError(t, os.MkdirAll(q.WorktreePath(), 0o755))
		return errkind.New(errkind.RefNotFound, "no such branch")
	})

	reg := NewRegistry()
	var last State
	_, err := Ingest(context.Background(), "https://github.com/owner/repo",
		WithEnv(env),
		WithCounter(runeCounter()),
		WithRegistry(reg),
		WithObserver(func(_ uuid.UUID, s State) { last = s }),
		withProvisioner(prov),
	)
	require.Error(t, err)
	assert.Equal(t, StateRefNotFound, last)

	entries, readErr := os.ReadDir(env.TmpRoot)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "scratch directories must not survive a failed job")
}

func TestRegistrySweep(t *testing.T) {
	reg := NewRegistry()
	scratch := filepath.Join(t.TempDir(), "job")
	require.NoError(t, os.MkdirAll(scratch, 0o755))

	id := uuid.New()
	reg.register(id, scratch)

	reg.sweep(time.Hour)
	_, ok := reg.StateOf(id)
	assert.True(t, ok, "fresh jobs survive a sweep")

	reg.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	reg.sweep(time.Hour)
	_, ok = reg.StateOf(id)
	assert.False(t, ok)
	_, statErr := os.Stat(scratch)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvMaxFileSize, "1234")
	t.Setenv(EnvMaxFiles, "7")
	t.Setenv(EnvMaxDirDepth, "not-a-number")
	t.Setenv(EnvTmpRoot, "/var/scratch")

	env := LoadEnv()
	assert.Equal(t, int64(1234), env.MaxFileSize)
	assert.Equal(t, 7, env.MaxFiles)
	assert.Equal(t, DefaultMaxDirDepth, env.MaxDirDepth)
	assert.Equal(t, int64(DefaultMaxTotalSize), env.MaxTotalSize)
	assert.Equal(t, "/var/scratch", env.TmpRoot)
}

// provisionFunc adapts a function to the provisioner seam.
type provisionFunc func(ctx context.Context, q *query.Query) error

func (f provisionFunc) Provision(ctx context.Context, q *query.Query) error { return f(ctx, q) }

func withProvisioner(p provisioner) Option {
	return func(o *options) { o.provisioner = p }
}
