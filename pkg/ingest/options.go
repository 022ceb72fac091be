// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"

	"github.com/gardener/repoingest/pkg/assemble"
	"github.com/gardener/repoingest/pkg/query"
	"github.com/gardener/repoingest/pkg/tokens"
)

// provisioner materializes the working tree of a remote query.
type provisioner interface {
	Provision(ctx context.Context, q *query.Query) error
}

type options struct {
	env *Env

	maxFileSize  int64
	maxFiles     int
	maxTotalSize int64
	maxDirDepth  int
	maxTokens    int

	includes []string
	excludes []string

	branch string
	tag    string
	commit string

	includeGitignored bool
	includeSubmodules bool
	notebookOutput    bool

	token      string
	outputPath string

	renderer assemble.Renderer
	counter  tokens.Counter
	observer Observer
	registry *Registry

	// test seams
	resolver    *query.Resolver
	provisioner provisioner
}

// Option customizes one Ingest call.
type Option func(*options)

// WithEnv replaces the environment loaded from GIT_INGEST_* variables.
func WithEnv(env Env) Option {
	return func(o *options) { o.env = &env }
}

// WithMaxFileSize overrides the per-file byte budget.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithMaxFiles overrides the per-job file count budget.
func WithMaxFiles(n int) Option {
	return func(o *options) { o.maxFiles = n }
}

// WithMaxTotalSize overrides the per-job total byte budget.
func WithMaxTotalSize(n int64) Option {
	return func(o *options) { o.maxTotalSize = n }
}

// WithMaxDirDepth overrides the traversal depth budget.
func WithMaxDirDepth(n int) Option {
	return func(o *options) { o.maxDirDepth = n }
}

// WithMaxTokens caps the content section to a token budget; zero disables
// the cap.
func WithMaxTokens(n int) Option {
	return func(o *options) { o.maxTokens = n }
}

// WithIncludePatterns restricts the digest to files matching the globs.
func WithIncludePatterns(globs ...string) Option {
	return func(o *options) { o.includes = append(o.includes, globs...) }
}

// WithExcludePatterns ignores files matching the globs, on top of the
// built-in default ignore set.
func WithExcludePatterns(globs ...string) Option {
	return func(o *options) { o.excludes = append(o.excludes, globs...) }
}

// WithBranch pins the checkout to a branch, overriding any ref embedded in
// the source URL.
func WithBranch(name string) Option {
	return func(o *options) { o.branch = name }
}

// WithTag pins the checkout to a tag, overriding any ref embedded in the
// source URL.
func WithTag(name string) Option {
	return func(o *options) { o.tag = name }
}

// WithCommit pins the checkout to a full 40-character commit SHA.
func WithCommit(sha string) Option {
	return func(o *options) { o.commit = sha }
}

// WithIncludeGitignored disables .gitignore and .gitingestignore filtering.
func WithIncludeGitignored(v bool) Option {
	return func(o *options) { o.includeGitignored = v }
}

// WithIncludeSubmodules clones submodules into the working tree.
func WithIncludeSubmodules(v bool) Option {
	return func(o *options) { o.includeSubmodules = v }
}

// WithNotebookOutput includes cell outputs when rendering notebooks.
func WithNotebookOutput(v bool) Option {
	return func(o *options) { o.notebookOutput = v }
}

// WithToken sets the personal access token. When unset, the GITHUB_TOKEN
// environment variable is consulted.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithOutput writes the digest to path after assembly; "-" selects stdout.
func WithOutput(path string) Option {
	return func(o *options) { o.outputPath = path }
}

// WithRenderer replaces the default digest renderer.
func WithRenderer(r assemble.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithCounter replaces the token counter.
func WithCounter(c tokens.Counter) Option {
	return func(o *options) { o.counter = c }
}

// WithObserver registers a callback invoked on every state transition.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithRegistry records the job in the given registry instead of a private
// one, enabling StateOf, Release and reaping by the caller.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
