// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/gardener/repoingest/pkg/query"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
)

const (
	headsPrefix  = "refs/heads/"
	tagsPrefix   = "refs/tags/"
	peeledSuffix = "^{}"
)

// RefResolver lists remote references and resolves refs to commits. It
// also implements query.RefLister for the source resolver.
type RefResolver struct {
	Token string
}

func (r *RefResolver) list(ctx context.Context, repoURL string) ([]*plumbing.Reference, error) {
	remote := gogit.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{repoURL},
	})
	var auth transport.AuthMethod
	if r.Token != "" && isGitHubURL(repoURL) {
		auth = &githttp.BasicAuth{Username: "x-oauth-basic", Password: r.Token}
	}
	refs, err := remote.ListContext(ctx, &gogit.ListOptions{
		Auth:          auth,
		PeelingOption: gogit.AppendPeeled,
	})
	if err != nil {
		switch {
		case errors.Is(err, transport.ErrAuthenticationRequired) || errors.Is(err, transport.ErrAuthorizationFailed):
			return nil, errkind.Wrap(errkind.Unauthorized, err, "listing refs of %s", repoURL)
		case errors.Is(err, transport.ErrRepositoryNotFound):
			return nil, errkind.Wrap(errkind.NotFound, err, "listing refs of %s", repoURL)
		}
		return nil, errkind.Wrap(errkind.Provisioner, errkind.FromContext(ctx, err), "listing refs of %s", repoURL)
	}
	return refs, nil
}

func isGitHubURL(repoURL string) bool {
	u, err := url.Parse(repoURL)
	if err != nil {
		return false
	}
	return query.IsGitHubHost(u.Hostname())
}

// Branches implements query.RefLister.
func (r *RefResolver) Branches(ctx context.Context, repoURL string) ([]string, error) {
	return r.names(ctx, repoURL, headsPrefix)
}

// Tags implements query.RefLister.
func (r *RefResolver) Tags(ctx context.Context, repoURL string) ([]string, error) {
	return r.names(ctx, repoURL, tagsPrefix)
}

func (r *RefResolver) names(ctx context.Context, repoURL, prefix string) ([]string, error) {
	refs, err := r.list(ctx, repoURL)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, ref := range refs {
		name := ref.Name().String()
		if !strings.HasPrefix(name, prefix) || strings.HasSuffix(name, peeledSuffix) {
			continue
		}
		out = append(out, strings.TrimPrefix(name, prefix))
	}
	return out, nil
}

// ResolveCommit resolves a ref of the given kind to a commit SHA. Commits
// pass through verbatim; a missing ref yields RefNotFound.
func (r *RefResolver) ResolveCommit(ctx context.Context, repoURL string, kind query.RefKind, ref string) (string, error) {
	if kind == query.RefCommit {
		return ref, nil
	}
	refs, err := r.list(ctx, repoURL)
	if err != nil {
		return "", err
	}
	return selectCommit(refs, kind, ref)
}

// selectCommit picks the commit SHA for the wanted ref from a listed
// reference set. For tags, a peeled entry (the commit behind an annotated
// tag) takes precedence over the tag object itself.
func selectCommit(refs []*plumbing.Reference, kind query.RefKind, ref string) (string, error) {
	switch kind {
	case query.RefBranch:
		want := headsPrefix + ref
		for _, r := range refs {
			if r.Name().String() == want {
				return r.Hash().String(), nil
			}
		}
		return "", errkind.New(errkind.RefNotFound, "branch %q not found", ref)
	case query.RefTag:
		want := tagsPrefix + ref
		var first string
		for _, r := range refs {
			name := r.Name().String()
			if name == want+peeledSuffix {
				return r.Hash().String(), nil
			}
			if first == "" && strings.HasPrefix(name, want) && !strings.HasSuffix(name, peeledSuffix) {
				first = r.Hash().String()
			}
		}
		if first != "" {
			return first, nil
		}
		return "", errkind.New(errkind.RefNotFound, "tag %q not found", ref)
	case query.RefNone:
		for _, r := range refs {
			if r.Name() != plumbing.HEAD {
				continue
			}
			if r.Type() == plumbing.SymbolicReference {
				// resolve the default branch HEAD points at
				for _, t := range refs {
					if t.Name() == r.Target() {
						return t.Hash().String(), nil
					}
				}
				break
			}
			return r.Hash().String(), nil
		}
		return "", errkind.New(errkind.RefNotFound, "remote has no HEAD")
	}
	return "", errkind.New(errkind.RefNotFound, "unsupported ref kind %q", kind)
}
