// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// HostProber answers whether owner/repo exists on a host. A nil error means
// reachable; errors carry the errkind classification.
//
//counterfeiter:generate . HostProber
type HostProber interface {
	Probe(ctx context.Context, host, owner, repo string) error
}

// RefLister enumerates the branch and tag names of a remote. It is used to
// recover refs containing '/' from URL path segments.
//
//counterfeiter:generate . RefLister
type RefLister interface {
	Branches(ctx context.Context, url string) ([]string, error)
	Tags(ctx context.Context, url string) ([]string, error)
}

var commitSHA = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Resolver turns raw source strings into queries.
type Resolver struct {
	Prober HostProber
	Refs   RefLister
}

// Resolve parses source. An existing filesystem path yields a local query;
// everything else is treated as a remote repository reference.
func (r *Resolver) Resolve(ctx context.Context, source string) (*Query, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, errkind.New(errkind.InvalidSource, "empty source")
	}
	decoded, err := url.PathUnescape(trimmed)
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidSource, err, "cannot decode source %q", trimmed)
	}
	if !strings.Contains(decoded, "://") {
		if _, statErr := os.Stat(decoded); statErr == nil {
			return localQuery(decoded)
		}
	}
	return r.resolveRemote(ctx, decoded)
}

func localQuery(path string) (*Query, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidSource, err, "cannot absolutize path %q", path)
	}
	slug := filepath.Base(abs)
	if parent := filepath.Base(filepath.Dir(abs)); parent != string(filepath.Separator) && parent != "." {
		slug = parent + "/" + slug
	}
	return &Query{
		Kind:     Local,
		RootPath: abs,
		Slug:     slug,
		Subpath:  "/",
		ID:       uuid.New(),
	}, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, source string) (*Query, error) {
	src := source
	if !strings.Contains(src, "://") {
		head, _, _ := strings.Cut(src, "/")
		if strings.Contains(head, ".") {
			src = "https://" + src
		} else {
			withHost, err := r.probeKnownHosts(ctx, src)
			if err != nil {
				return nil, err
			}
			src = withHost
		}
	}
	u, err := url.Parse(src)
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidSource, err, "malformed URL %q", source)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errkind.New(errkind.InvalidSource, "unsupported scheme %q", u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if !IsKnownHost(host) {
		return nil, errkind.New(errkind.UnknownHost, "host %q is not a known git host", host)
	}
	segments := splitPath(u.Path)
	if len(segments) < 2 {
		return nil, errkind.New(errkind.InvalidSource, "URL %q lacks an owner/repo path", source)
	}
	q := &Query{
		Kind:    Remote,
		Host:    host,
		Owner:   segments[0],
		Repo:    strings.TrimSuffix(segments[1], ".git"),
		Subpath: "/",
		ID:      uuid.New(),
	}
	q.Slug = q.Owner + "-" + q.Repo
	rest := segments[2:]
	if len(rest) == 0 {
		return q, nil
	}
	switch rest[0] {
	case "issues", "pull":
		return q, nil
	case "tree", "blob":
		if len(rest) < 2 {
			return q, nil
		}
		q.Blob = rest[0] == "blob"
		if err := r.resolveRefAndSubpath(ctx, q, rest[1:]); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// resolveRefAndSubpath consumes the segments following tree/ or blob/.
// A 40-character hex segment pins a commit; otherwise the segments are
// matched greedily against the remote's branches and tags so that refs
// containing '/' are recovered.
func (r *Resolver) resolveRefAndSubpath(ctx context.Context, q *Query, segments []string) error {
	if commitSHA.MatchString(segments[0]) {
		q.RefKind, q.Ref = RefCommit, segments[0]
		q.Subpath = "/" + strings.Join(segments[1:], "/")
		return nil
	}
	joined := strings.Join(segments, "/")
	kind, ref := r.matchRef(ctx, q.URL(), joined)
	if ref == "" {
		// no listing available; the first segment is taken as a branch
		kind, ref = RefBranch, segments[0]
	}
	q.RefKind, q.Ref = kind, ref
	q.Subpath = "/" + strings.TrimPrefix(strings.TrimPrefix(joined, ref), "/")
	return nil
}

func (r *Resolver) matchRef(ctx context.Context, url, joined string) (RefKind, string) {
	best, kind := "", RefNone
	consider := func(names []string, k RefKind) {
		for _, name := range names {
			if name != joined && !strings.HasPrefix(joined, name+"/") {
				continue
			}
			if len(name) > len(best) {
				best, kind = name, k
			}
		}
	}
	branches, err := r.Refs.Branches(ctx, url)
	if err != nil {
		klog.V(6).Infof("listing branches of %s failed: %v", url, err)
	}
	consider(branches, RefBranch)
	tags, err := r.Refs.Tags(ctx, url)
	if err != nil {
		klog.V(6).Infof("listing tags of %s failed: %v", url, err)
	}
	consider(tags, RefTag)
	return kind, best
}

// probeKnownHosts resolves a bare owner/repo source by probing the known
// hosts. Probes run concurrently; selection honors the KnownHosts order.
func (r *Resolver) probeKnownHosts(ctx context.Context, source string) (string, error) {
	parts := splitPath(source)
	if len(parts) != 2 {
		return "", errkind.New(errkind.InvalidSource, "source %q is neither a path, a URL nor owner/repo", source)
	}
	owner, repo := parts[0], strings.TrimSuffix(parts[1], ".git")
	results := make([]error, len(KnownHosts))
	g, gctx := errgroup.WithContext(ctx)
	for i, host := range KnownHosts {
		i, host := i, host
		g.Go(func() error {
			results[i] = r.Prober.Probe(gctx, host, owner, repo)
			return nil
		})
	}
	_ = g.Wait()
	for i, host := range KnownHosts {
		if results[i] == nil {
			klog.V(6).Infof("%s/%s found on %s", owner, repo, host)
			return "https://" + host + "/" + owner + "/" + repo, nil
		}
	}
	return "", errkind.New(errkind.NotFound, "repository %s/%s not found on any known host", owner, repo)
}
