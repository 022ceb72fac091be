// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1.0k"},
		{1_234, "1.2k"},
		{999_949, "999.9k"},
		{1_000_000, "1.0M"},
		{2_460_000, "2.5M"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(tc.n), "Format(%d)", tc.n)
	}
}

func TestEstimator(t *testing.T) {
	e := Estimator{}
	assert.Equal(t, 0, e.Count(""))
	// ceil(4 * 1.3) = 6
	assert.Equal(t, 6, e.Count("abcd"))
	assert.Equal(t, 13, e.Count("0123456789"))
}

func TestIsEstimate(t *testing.T) {
	assert.True(t, IsEstimate(Estimator{}))
	assert.False(t, IsEstimate(bpeCounter{}))
}

func TestDisabledEnv(t *testing.T) {
	t.Setenv(DisableEnv, "TRUE")
	assert.True(t, Disabled())
	assert.IsType(t, Estimator{}, NewCounter())

	t.Setenv(DisableEnv, "0")
	assert.False(t, Disabled())

	t.Setenv(DisableEnv, "")
	assert.False(t, Disabled())
}

func TestClearEncodingCache(t *testing.T) {
	// must be safe to call regardless of whether an encoding ever loaded
	ClearEncodingCache()
	ClearEncodingCache()
}
