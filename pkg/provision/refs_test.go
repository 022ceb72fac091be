// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"testing"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/gardener/repoingest/pkg/query"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shaMain   = "1111111111111111111111111111111111111111"
	shaTagObj = "2222222222222222222222222222222222222222"
	shaPeeled = "3333333333333333333333333333333333333333"
	shaDev    = "4444444444444444444444444444444444444444"
)

func listedRefs() []*plumbing.Reference {
	return []*plumbing.Reference{
		plumbing.NewSymbolicReference(plumbing.HEAD, "refs/heads/main"),
		plumbing.NewReferenceFromStrings("refs/heads/main", shaMain),
		plumbing.NewReferenceFromStrings("refs/heads/dev", shaDev),
		plumbing.NewReferenceFromStrings("refs/tags/v1.0", shaTagObj),
		plumbing.NewReferenceFromStrings("refs/tags/v1.0^{}", shaPeeled),
		plumbing.NewReferenceFromStrings("refs/tags/v2.0", shaDev),
	}
}

func TestSelectCommit(t *testing.T) {
	t.Run("branch resolves refs/heads", func(t *testing.T) {
		sha, err := selectCommit(listedRefs(), query.RefBranch, "dev")
		require.NoError(t, err)
		assert.Equal(t, shaDev, sha)
	})
	t.Run("annotated tag prefers the peeled commit", func(t *testing.T) {
		sha, err := selectCommit(listedRefs(), query.RefTag, "v1.0")
		require.NoError(t, err)
		assert.Equal(t, shaPeeled, sha)
	})
	t.Run("lightweight tag uses the first non-peeled line", func(t *testing.T) {
		sha, err := selectCommit(listedRefs(), query.RefTag, "v2.0")
		require.NoError(t, err)
		assert.Equal(t, shaDev, sha)
	})
	t.Run("no ref resolves HEAD through its target", func(t *testing.T) {
		sha, err := selectCommit(listedRefs(), query.RefNone, "")
		require.NoError(t, err)
		assert.Equal(t, shaMain, sha)
	})
	t.Run("missing branch yields RefNotFound", func(t *testing.T) {
		_, err := selectCommit(listedRefs(), query.RefBranch, "gone")
		assert.True(t, errkind.IsKind(err, errkind.RefNotFound))
	})
	t.Run("missing tag yields RefNotFound", func(t *testing.T) {
		_, err := selectCommit(listedRefs(), query.RefTag, "v9")
		assert.True(t, errkind.IsKind(err, errkind.RefNotFound))
	})
}
