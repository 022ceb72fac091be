// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/gardener/repoingest/pkg/query"
	"github.com/google/go-github/v43/github"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/peterbourgon/diskv"
	"github.com/xanzy/go-gitlab"
	"golang.org/x/oauth2"
	"k8s.io/klog/v2"
)

// Prober answers repository reachability questions against the known
// hosts. GitHub variants go through the API client so that token
// authentication applies; gitlab.com uses its API; everything else falls
// back to a plain HEAD request. All clients share a disk-cached transport.
// The token travels only to the hosts that issued it: GitHub probes carry
// it as a bearer, gitlab.com receives it through its own client and HEAD
// probes against other hosts stay anonymous.
type Prober struct {
	Token    string
	CacheDir string

	httpClient *http.Client
	authClient *http.Client
	anonClient *http.Client
}

// NewProber builds a prober whose HTTP traffic is cached under cacheDir.
func NewProber(token, cacheDir string) *Prober {
	return &Prober{Token: token, CacheDir: cacheDir}
}

// client returns the cached HTTP client variant. withToken attaches the
// bearer token and must stay false for hosts that did not issue it.
func (p *Prober) client(ctx context.Context, withToken bool) *http.Client {
	if p.httpClient != nil {
		return p.httpClient
	}
	withToken = withToken && p.Token != ""
	cached := &p.anonClient
	if withToken {
		cached = &p.authClient
	}
	if *cached != nil {
		return *cached
	}
	base := http.DefaultTransport
	if withToken {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: p.Token})
		base = oauth2.NewClient(ctx, ts).Transport
	}
	if p.CacheDir != "" {
		flatTransform := func(s string) []string { return []string{} }
		d := diskv.New(diskv.Options{
			BasePath:     filepath.Join(p.CacheDir, "diskv"),
			Transform:    flatTransform,
			CacheSizeMax: 1024 * 1024 * 1024,
		})
		base = &httpcache.Transport{
			Transport:           base,
			Cache:               diskcache.NewWithDiskv(d),
			MarkCachedResponses: true,
		}
	}
	*cached = &http.Client{Transport: base}
	return *cached
}

// Probe implements query.HostProber. A nil return means owner/repo exists
// on host; errors carry the errkind classification.
func (p *Prober) Probe(ctx context.Context, host, owner, repo string) error {
	switch {
	case query.IsGitHubHost(host):
		return p.probeGitHub(ctx, host, owner, repo)
	case host == "gitlab.com":
		return p.probeGitLab(ctx, owner, repo)
	}
	return p.probeHead(ctx, host, owner, repo)
}

func (p *Prober) probeGitHub(ctx context.Context, host, owner, repo string) error {
	httpClient := p.client(ctx, true)
	var (
		client *github.Client
		err    error
	)
	if host == "github.com" {
		client = github.NewClient(httpClient)
	} else if client, err = github.NewEnterpriseClient("https://"+host, "", httpClient); err != nil {
		return errkind.Wrap(errkind.Provisioner, err, "cannot build client for %s", host)
	}
	_, resp, err := client.Repositories.Get(ctx, owner, repo)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	return statusError(status, err, host, owner, repo)
}

func (p *Prober) probeGitLab(ctx context.Context, owner, repo string) error {
	client, err := gitlab.NewClient(p.Token, gitlab.WithHTTPClient(p.client(ctx, false)))
	if err != nil {
		return errkind.Wrap(errkind.Provisioner, err, "cannot build gitlab client")
	}
	_, resp, err := client.Projects.GetProject(owner+"/"+repo, nil, gitlab.WithContext(ctx))
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	return statusError(status, err, "gitlab.com", owner, repo)
}

func (p *Prober) probeHead(ctx context.Context, host, owner, repo string) error {
	url := fmt.Sprintf("https://%s/%s/%s", host, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return errkind.Wrap(errkind.Provisioner, err, "cannot build HEAD request for %s", url)
	}
	resp, err := p.client(ctx, false).Do(req)
	if err != nil {
		return errkind.Wrap(errkind.Provisioner, errkind.FromContext(ctx, err), "HEAD %s failed", url)
	}
	defer resp.Body.Close()
	return statusError(resp.StatusCode, nil, host, owner, repo)
}

func statusError(status int, cause error, host, owner, repo string) error {
	klog.V(6).Infof("probe %s/%s/%s: HTTP %d", host, owner, repo, status)
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound || status == http.StatusFound:
		return errkind.New(errkind.NotFound, "repository %s/%s not found on %s", owner, repo, host)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errkind.New(errkind.Unauthorized, "access to %s/%s on %s denied", owner, repo, host)
	case cause != nil:
		return errkind.Wrap(errkind.Provisioner, cause, "probing %s/%s on %s", owner, repo, host)
	}
	return errkind.New(errkind.Provisioner, "unexpected status %d probing %s/%s on %s", status, owner, repo, host)
}
