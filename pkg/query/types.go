// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package query parses a user-supplied source string into the normalized,
// read-only request that drives one ingestion.
package query

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/google/uuid"
)

// SourceKind distinguishes remote repositories from local directories.
type SourceKind string

const (
	// Remote is a repository reachable over https.
	Remote SourceKind = "remote"
	// Local is an existing filesystem path.
	Local SourceKind = "local"
)

// RefKind tags which kind of git reference a query pins.
type RefKind string

const (
	// RefNone resolves to the remote HEAD.
	RefNone RefKind = ""
	// RefBranch is a branch name.
	RefBranch RefKind = "branch"
	// RefTag is a tag name.
	RefTag RefKind = "tag"
	// RefCommit is a full 40-character commit SHA.
	RefCommit RefKind = "commit"
)

// KnownHosts lists the public hosts probed for bare owner/repo sources,
// in probe order.
var KnownHosts = []string{"github.com", "gitlab.com", "bitbucket.org", "gitea.com", "codeberg.org"}

// IsKnownHost reports whether host belongs to the known set. Enterprise
// GitHub instances (github.<domain>) are accepted as well.
func IsKnownHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range KnownHosts {
		if host == h {
			return true
		}
	}
	return strings.HasPrefix(host, "github.")
}

// IsGitHubHost reports whether host is github.com or an enterprise variant.
// Authentication is applied only against these hosts.
func IsGitHubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || strings.HasPrefix(host, "github.")
}

// Query is the normalized request. It is created by the resolver and is
// read-only for the rest of the pipeline.
type Query struct {
	Kind SourceKind

	// remote fields
	Host    string
	Owner   string
	Repo    string
	RefKind RefKind
	Ref     string
	// Commit is the SHA the ref resolved to; set by the provisioner.
	Commit  string
	Subpath string
	// Blob marks a query whose subpath points at a single file.
	Blob bool

	// local field
	RootPath string

	Slug        string
	ID          uuid.UUID
	ScratchPath string

	// budgets; all strictly positive
	MaxFileSize  int64
	MaxFiles     int
	MaxTotalSize int64
	MaxDirDepth  int

	IncludePatterns []string
	IgnorePatterns  []string

	IncludeSubmodules bool
	IncludeGitignored bool

	Token string
}

// URL returns the https clone URL of a remote query.
func (q *Query) URL() string {
	return fmt.Sprintf("https://%s/%s/%s", q.Host, q.Owner, q.Repo)
}

// WorktreePath is the directory the repository is cloned into.
func (q *Query) WorktreePath() string {
	return filepath.Join(q.ScratchPath, q.Slug)
}

// ScanRoot is the directory (or, for blob queries, file) traversal starts
// from: the local root path, or the cloned worktree joined with the subpath.
func (q *Query) ScanRoot() string {
	if q.Kind == Local {
		return q.RootPath
	}
	if q.Subpath == "/" {
		return q.WorktreePath()
	}
	return filepath.Join(q.WorktreePath(), filepath.FromSlash(q.Subpath))
}

// DisplayName is the label rendered as the tree root: the repository name,
// the subpath tail when one is set, or the file name for blob queries.
func (q *Query) DisplayName() string {
	if q.Subpath != "/" {
		return strings.TrimPrefix(q.Subpath[strings.LastIndex(q.Subpath, "/"):], "/")
	}
	if q.Kind == Local {
		return filepath.Base(q.RootPath)
	}
	return q.Repo
}

// Validate checks the query invariants.
func (q *Query) Validate() error {
	switch q.Kind {
	case Remote:
		if q.Host == "" || q.Owner == "" || q.Repo == "" {
			return errkind.New(errkind.InvalidSource, "remote query requires host, owner and repo")
		}
	case Local:
		if q.RootPath == "" {
			return errkind.New(errkind.InvalidSource, "local query requires a root path")
		}
	default:
		return errkind.New(errkind.InvalidSource, "unknown source kind %q", q.Kind)
	}
	if !strings.HasPrefix(q.Subpath, "/") {
		return errkind.New(errkind.InvalidSource, "subpath %q must begin with /", q.Subpath)
	}
	if q.MaxFileSize <= 0 || q.MaxFiles <= 0 || q.MaxTotalSize <= 0 || q.MaxDirDepth <= 0 {
		return errkind.New(errkind.InvalidSource, "budgets must be strictly positive")
	}
	return nil
}
