// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package provision verifies reachability of a remote repository, resolves
// its ref to a commit and materializes a shallow (optionally sparse)
// working tree at that commit.
package provision

import (
	"context"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/gardener/repoingest/pkg/provision/gitcmd"
	"github.com/gardener/repoingest/pkg/query"
	"k8s.io/klog/v2"
)

// DefaultTimeout bounds the wall-clock time of one provisioning run.
const DefaultTimeout = 60 * time.Second

// CommitResolver resolves a ref of a remote to a commit SHA.
type CommitResolver interface {
	ResolveCommit(ctx context.Context, repoURL string, kind query.RefKind, ref string) (string, error)
}

// Provisioner drives the probe, resolve and clone sequence for a remote
// query. All git invocations go through the Runner adapter.
type Provisioner struct {
	Runner  gitcmd.Runner
	Refs    CommitResolver
	Prober  query.HostProber
	Timeout time.Duration
}

// New wires a provisioner with the exec-based git runner.
func New(token, cacheDir string) *Provisioner {
	return &Provisioner{
		Runner:  gitcmd.ExecRunner{},
		Refs:    &RefResolver{Token: token},
		Prober:  NewProber(token, cacheDir),
		Timeout: DefaultTimeout,
	}
}

// step is one git invocation of the clone sequence.
type step struct {
	dir  string
	args []string
	auth bool
}

// Provision checks the remote, resolves the query ref to a commit and
// clones the working tree under the query's scratch path. The resolved
// commit is recorded on the query.
func (p *Provisioner) Provision(ctx context.Context, q *query.Query) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if q.Token != "" && query.IsGitHubHost(q.Host) {
		if err := ValidateToken(q.Token); err != nil {
			return err
		}
	}
	if err := p.Prober.Probe(ctx, q.Host, q.Owner, q.Repo); err != nil {
		return errkind.FromContext(ctx, err)
	}
	commit, err := p.Refs.ResolveCommit(ctx, q.URL(), q.RefKind, q.Ref)
	if err != nil {
		return errkind.FromContext(ctx, err)
	}
	q.Commit = commit
	if err := p.clone(ctx, q, commit); err != nil {
		return errkind.FromContext(ctx, err)
	}
	return nil
}

func (p *Provisioner) clone(ctx context.Context, q *query.Query, commit string) error {
	target := q.WorktreePath()
	if err := os.RemoveAll(target); err != nil {
		return errkind.Wrap(errkind.IOError, err, "cannot clear working tree %s", target)
	}
	if err := os.MkdirAll(q.ScratchPath, 0o755); err != nil {
		return errkind.Wrap(errkind.IOError, err, "cannot create scratch dir %s", q.ScratchPath)
	}
	p.adviseLongPaths(ctx)

	partial := q.Subpath != "/"
	cloneArgs := []string{"clone"}
	if partial {
		cloneArgs = append(cloneArgs, "--filter=blob:none", "--sparse")
	}
	cloneArgs = append(cloneArgs, "--single-branch", "--depth=1", "--no-checkout", q.URL(), target)

	steps := []step{{dir: "", args: cloneArgs, auth: true}}
	if partial {
		if rel := sparsePath(q); rel != "" {
			steps = append(steps, step{dir: target, args: []string{"sparse-checkout", "set", rel}})
		}
	}
	steps = append(steps,
		step{dir: target, args: []string{"fetch", "--depth=1", "origin", commit}, auth: true},
		step{dir: target, args: []string{"checkout", commit}},
	)
	if q.IncludeSubmodules {
		steps = append(steps, step{dir: target, args: []string{"submodule", "update", "--init", "--recursive", "--depth=1"}, auth: true})
	}

	for _, s := range steps {
		args := s.args
		if s.auth && q.Token != "" && query.IsGitHubHost(q.Host) {
			args = append(gitcmd.AuthArgs(q.Host, q.Token), args...)
		}
		if _, err := p.Runner.Run(ctx, s.dir, args...); err != nil {
			return err
		}
	}
	return nil
}

// sparsePath is the subpath handed to sparse-checkout. For blob queries
// the file name is stripped so that its parent directory materializes.
func sparsePath(q *query.Query) string {
	rel := strings.TrimPrefix(q.Subpath, "/")
	if q.Blob {
		rel = path.Dir(rel)
		if rel == "." {
			return ""
		}
	}
	return rel
}

// adviseLongPaths warns when core.longpaths is off on Windows; deep
// repositories may fail to check out there. Non-fatal.
func (p *Provisioner) adviseLongPaths(ctx context.Context) {
	if runtime.GOOS != "windows" {
		return
	}
	out, err := p.Runner.Run(ctx, "", "config", "core.longpaths")
	if err != nil || strings.TrimSpace(string(out)) != "true" {
		klog.Warningf("git core.longpaths is not enabled; cloning repositories with long paths may fail")
	}
}
