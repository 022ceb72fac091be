// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package query_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/gardener/repoingest/pkg/query"
	"github.com/gardener/repoingest/pkg/query/queryfakes"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resolver", func() {
	var (
		prober   *queryfakes.FakeHostProber
		refs     *queryfakes.FakeRefLister
		resolver *query.Resolver
		ctx      context.Context
	)

	BeforeEach(func() {
		prober = &queryfakes.FakeHostProber{}
		refs = &queryfakes.FakeRefLister{}
		resolver = &query.Resolver{Prober: prober, Refs: refs}
		ctx = context.Background()
	})

	Context("local paths", func() {
		var dir string

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "resolver-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(os.RemoveAll(dir)).To(Succeed())
		})

		It("resolves an existing directory to a local query", func() {
			q, err := resolver.Resolve(ctx, dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Kind).To(Equal(query.Local))
			Expect(q.RootPath).To(Equal(dir))
			Expect(q.Subpath).To(Equal("/"))
			Expect(q.Slug).To(Equal(filepath.Base(filepath.Dir(dir)) + "/" + filepath.Base(dir)))
		})
	})

	Context("full URLs", func() {
		It("parses owner and repo", func() {
			q, err := resolver.Resolve(ctx, "https://github.com/acme/toy")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Kind).To(Equal(query.Remote))
			Expect(q.Host).To(Equal("github.com"))
			Expect(q.Owner).To(Equal("acme"))
			Expect(q.Repo).To(Equal("toy"))
			Expect(q.Slug).To(Equal("acme-toy"))
			Expect(q.Subpath).To(Equal("/"))
		})

		It("trims a .git suffix", func() {
			q, err := resolver.Resolve(ctx, "https://github.com/acme/toy.git")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Repo).To(Equal("toy"))
		})

		It("accepts enterprise github hosts", func() {
			q, err := resolver.Resolve(ctx, "https://github.tools.example/acme/toy")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Host).To(Equal("github.tools.example"))
		})

		It("rejects unknown hosts", func() {
			_, err := resolver.Resolve(ctx, "https://example.com/acme/toy")
			Expect(errkind.KindOf(err)).To(Equal(errkind.UnknownHost))
		})

		It("rejects non-http schemes", func() {
			_, err := resolver.Resolve(ctx, "ftp://github.com/acme/toy")
			Expect(errkind.KindOf(err)).To(Equal(errkind.InvalidSource))
		})

		It("rejects URLs without owner/repo", func() {
			_, err := resolver.Resolve(ctx, "https://github.com/acme")
			Expect(errkind.KindOf(err)).To(Equal(errkind.InvalidSource))
		})

		It("prepends https to a dotted host without scheme", func() {
			q, err := resolver.Resolve(ctx, "gitlab.com/acme/toy")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Host).To(Equal("gitlab.com"))
		})
	})

	Context("tree and blob URLs", func() {
		It("treats a 40-hex segment as a commit", func() {
			sha := "0123456789abcdef0123456789abcdef01234567"
			q, err := resolver.Resolve(ctx, "https://github.com/acme/toy/tree/"+sha+"/src")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.RefKind).To(Equal(query.RefCommit))
			Expect(q.Ref).To(Equal(sha))
			Expect(q.Subpath).To(Equal("/src"))
			Expect(refs.BranchesCallCount()).To(BeZero())
		})

		It("recovers a branch containing a slash via greedy matching", func() {
			refs.BranchesReturns([]string{"main", "feature/x"}, nil)
			refs.TagsReturns(nil, nil)
			q, err := resolver.Resolve(ctx, "https://github.com/acme/toy/tree/feature/x/src")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.RefKind).To(Equal(query.RefBranch))
			Expect(q.Ref).To(Equal("feature/x"))
			Expect(q.Subpath).To(Equal("/src"))
		})

		It("prefers the longer match between branches and tags", func() {
			refs.BranchesReturns([]string{"v1"}, nil)
			refs.TagsReturns([]string{"v1/stable"}, nil)
			q, err := resolver.Resolve(ctx, "https://github.com/acme/toy/tree/v1/stable/doc")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.RefKind).To(Equal(query.RefTag))
			Expect(q.Ref).To(Equal("v1/stable"))
			Expect(q.Subpath).To(Equal("/doc"))
		})

		It("falls back to the first segment when listing fails", func() {
			refs.BranchesReturns(nil, os.ErrDeadlineExceeded)
			refs.TagsReturns(nil, os.ErrDeadlineExceeded)
			q, err := resolver.Resolve(ctx, "https://github.com/acme/toy/tree/main/src")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.RefKind).To(Equal(query.RefBranch))
			Expect(q.Ref).To(Equal("main"))
			Expect(q.Subpath).To(Equal("/src"))
		})

		It("marks blob queries and keeps the file in the subpath", func() {
			refs.BranchesReturns([]string{"main"}, nil)
			q, err := resolver.Resolve(ctx, "https://github.com/acme/toy/blob/main/src/a.py")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Blob).To(BeTrue())
			Expect(q.Subpath).To(Equal("/src/a.py"))
		})

		It("ignores issues and pull segments", func() {
			q, err := resolver.Resolve(ctx, "https://github.com/acme/toy/issues/42")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Subpath).To(Equal("/"))
			Expect(q.RefKind).To(Equal(query.RefNone))
		})
	})

	Context("bare owner/repo slugs", func() {
		It("selects the first reachable host in order", func() {
			prober.ProbeCalls(func(_ context.Context, host, owner, repo string) error {
				if host == "gitlab.com" || host == "codeberg.org" {
					return nil
				}
				return errkind.New(errkind.NotFound, "no %s/%s on %s", owner, repo, host)
			})
			q, err := resolver.Resolve(ctx, "acme/toy")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Host).To(Equal("gitlab.com"))
			Expect(prober.ProbeCallCount()).To(Equal(len(query.KnownHosts)))
		})

		It("fails when no host has the repository", func() {
			prober.ProbeReturns(errkind.New(errkind.NotFound, "nope"))
			_, err := resolver.Resolve(ctx, "acme/toy")
			Expect(errkind.KindOf(err)).To(Equal(errkind.NotFound))
		})
	})
})

var _ = Describe("Query", func() {
	It("validates budgets", func() {
		q := &query.Query{Kind: query.Local, RootPath: "/tmp", Subpath: "/"}
		Expect(q.Validate()).To(HaveOccurred())
		q.MaxFileSize, q.MaxFiles, q.MaxTotalSize, q.MaxDirDepth = 1, 1, 1, 1
		Expect(q.Validate()).To(Succeed())
	})

	It("computes the scan root from worktree and subpath", func() {
		q := &query.Query{
			Kind: query.Remote, Host: "github.com", Owner: "acme", Repo: "toy",
			Slug: "acme-toy", ScratchPath: "/tmp/x", Subpath: "/src",
		}
		Expect(q.ScanRoot()).To(Equal(filepath.Join("/tmp/x", "acme-toy", "src")))
		Expect(q.DisplayName()).To(Equal("src"))
	})
})
