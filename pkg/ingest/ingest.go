// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package ingest orchestrates the pipeline turning a source reference into
// a digest: resolve, provision, walk, read, assemble.
package ingest

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gardener/repoingest/pkg/assemble"
	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/gardener/repoingest/pkg/patterns"
	"github.com/gardener/repoingest/pkg/provision"
	"github.com/gardener/repoingest/pkg/query"
	"github.com/gardener/repoingest/pkg/reader"
	"github.com/gardener/repoingest/pkg/tokens"
	"github.com/gardener/repoingest/pkg/walker"
	"github.com/gardener/repoingest/pkg/writers"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Digest is the assembled result of one ingestion.
type Digest struct {
	ID      uuid.UUID
	Summary string
	Tree    string
	Content string
}

// Bytes renders the digest the way it is persisted: the three sections
// joined by single newlines.
func (d *Digest) Bytes() []byte {
	return []byte(d.Summary + "\n" + d.Tree + "\n" + d.Content)
}

// Ingest runs the full pipeline for source, which may be a remote
// repository reference or a local directory. The digest is returned and,
// when WithOutput is given, persisted.
func Ingest(ctx context.Context, source string, opts ...Option) (*Digest, error) {
	o := newOptions(opts)
	return newPipeline(o).run(ctx, source)
}

type pipeline struct {
	opts     *options
	env      Env
	token    string
	registry *Registry
	resolver *query.Resolver
	prov     provisioner
	counter  tokens.Counter
	renderer assemble.Renderer

	id uuid.UUID
}

func newPipeline(o *options) *pipeline {
	env := LoadEnv()
	if o.env != nil {
		env = *o.env
	}
	token := o.token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	p := &pipeline{
		opts:     o,
		env:      env,
		token:    token,
		registry: o.registry,
		resolver: o.resolver,
		prov:     o.provisioner,
		counter:  o.counter,
		renderer: o.renderer,
		id:       uuid.New(),
	}
	if p.registry == nil {
		p.registry = DefaultRegistry
	}
	if p.prov == nil {
		p.prov = provision.New(token, env.CacheDir)
	}
	if p.resolver == nil {
		p.resolver = &query.Resolver{
			Prober: provision.NewProber(token, env.CacheDir),
			Refs:   &provision.RefResolver{Token: token},
		}
	}
	if p.counter == nil {
		p.counter = tokens.NewCounter()
	}
	if p.renderer == nil {
		p.renderer = assemble.DefaultRenderer{}
	}
	return p
}

func (p *pipeline) run(ctx context.Context, source string) (*Digest, error) {
	p.registry.register(p.id, "")
	p.transition(StateCreated)

	p.transition(StateResolving)
	q, err := p.resolver.Resolve(ctx, source)
	if err != nil {
		return p.fail(ctx, err)
	}
	if err := p.prepare(q); err != nil {
		return p.fail(ctx, err)
	}

	if q.Kind == query.Remote {
		p.transition(StateProvisioning)
		if err := p.prov.Provision(ctx, q); err != nil {
			return p.fail(ctx, err)
		}
	}

	p.transition(StateWalking)
	matcher := patterns.NewMatcher(q.IncludePatterns, q.IgnorePatterns)
	w, err := walker.New(q, matcher)
	if err != nil {
		return p.fail(ctx, err)
	}
	root, stats, err := w.Walk()
	if err != nil {
		return p.fail(ctx, err)
	}

	p.transition(StateReading)
	rd := &reader.Reader{IncludeNotebookOutput: p.opts.notebookOutput}
	bodies, err := rd.Contents(ctx, root.Files())
	if err != nil {
		return p.fail(ctx, err)
	}

	p.transition(StateAssembling)
	asm := &assemble.Assembler{Renderer: p.renderer, Counter: p.counter, MaxTokens: p.opts.maxTokens}
	art := asm.Assemble(q, root, stats, bodies)

	digest := &Digest{ID: q.ID, Summary: art.Summary, Tree: art.Tree, Content: art.Content}
	p.cleanupScratch(q)
	if err := p.persist(digest); err != nil {
		return p.fail(ctx, err)
	}
	p.transition(StateDone)
	return digest, nil
}

// prepare applies the call options and environment budgets to the resolved
// query and registers its scratch directory.
func (p *pipeline) prepare(q *query.Query) error {
	q.ID = p.id
	q.Token = p.token
	q.IncludeGitignored = p.opts.includeGitignored
	q.IncludeSubmodules = p.opts.includeSubmodules

	if err := p.applyRefOverride(q); err != nil {
		return err
	}

	includes, err := patterns.Normalize(p.opts.includes...)
	if err != nil {
		return err
	}
	excludes, err := patterns.Normalize(p.opts.excludes...)
	if err != nil {
		return err
	}
	q.IncludePatterns = includes
	q.IgnorePatterns = append(patterns.DefaultIgnorePatterns(), excludes...)

	q.MaxFileSize = p.env.MaxFileSize
	if p.opts.maxFileSize > 0 {
		q.MaxFileSize = p.opts.maxFileSize
	}
	q.MaxFiles = p.env.MaxFiles
	if p.opts.maxFiles > 0 {
		q.MaxFiles = p.opts.maxFiles
	}
	q.MaxTotalSize = p.env.MaxTotalSize
	if p.opts.maxTotalSize > 0 {
		q.MaxTotalSize = p.opts.maxTotalSize
	}
	q.MaxDirDepth = p.env.MaxDirDepth
	if p.opts.maxDirDepth > 0 {
		q.MaxDirDepth = p.opts.maxDirDepth
	}

	if q.Kind == query.Remote {
		q.ScratchPath = filepath.Join(p.env.TmpRoot, q.ID.String())
		p.registry.setScratch(p.id, q.ScratchPath)
	}
	return q.Validate()
}

// applyRefOverride pins the query to the branch, tag or commit given as a
// call option, replacing any ref parsed from the source URL.
func (p *pipeline) applyRefOverride(q *query.Query) error {
	set := 0
	for _, v := range []string{p.opts.branch, p.opts.tag, p.opts.commit} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return errkind.New(errkind.InvalidSource, "at most one of branch, tag and commit may be given")
	}
	if set == 0 {
		return nil
	}
	if q.Kind == query.Local {
		return errkind.New(errkind.InvalidSource, "refs cannot be pinned on a local directory")
	}
	switch {
	case p.opts.branch != "":
		q.RefKind, q.Ref = query.RefBranch, p.opts.branch
	case p.opts.tag != "":
		q.RefKind, q.Ref = query.RefTag, p.opts.tag
	case p.opts.commit != "":
		q.RefKind, q.Ref = query.RefCommit, p.opts.commit
	}
	return nil
}

func (p *pipeline) persist(d *Digest) error {
	path := p.opts.outputPath
	if path == "" {
		return nil
	}
	if path == "-" {
		if _, err := os.Stdout.Write(d.Bytes()); err != nil {
			return errkind.Wrap(errkind.IOError, err, "cannot write digest to stdout")
		}
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errkind.Wrap(errkind.IOError, err, "cannot resolve output path %s", path)
	}
	var w writers.Writer = &writers.FSWriter{Root: filepath.Dir(abs)}
	if err := w.Write(filepath.Base(abs), "", d.Bytes()); err != nil {
		return errkind.Wrap(errkind.IOError, err, "cannot write digest")
	}
	return nil
}

// cleanupScratch removes the cloned working tree once the digest no longer
// needs it. The registry record stays until released or reaped.
func (p *pipeline) cleanupScratch(q *query.Query) {
	if q.ScratchPath == "" {
		return
	}
	if err := os.RemoveAll(q.ScratchPath); err != nil {
		klog.Warningf("cannot remove scratch dir %s: %v", q.ScratchPath, err)
	}
}

func (p *pipeline) transition(state State) {
	klog.V(6).Infof("job %s: %s", p.id, state)
	p.registry.setState(p.id, state)
	if p.opts.observer != nil {
		p.opts.observer(p.id, state)
	}
}

func (p *pipeline) fail(ctx context.Context, err error) (*Digest, error) {
	err = errkind.FromContext(ctx, err)
	p.transition(errorState(err))
	if scratch := p.registry.scratchOf(p.id); scratch != "" {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			klog.Warningf("cannot remove scratch dir %s: %v", scratch, rmErr)
		}
	}
	return nil, err
}
