// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"errors"
	"testing"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"invalid source", errkind.New(errkind.InvalidSource, "bad"), 2},
		{"unknown host", errkind.New(errkind.UnknownHost, "bad"), 2},
		{"pattern syntax", errkind.New(errkind.PatternSyntax, "bad"), 2},
		{"invalid token", errkind.New(errkind.InvalidToken, "bad"), 3},
		{"unauthorized", errkind.New(errkind.Unauthorized, "bad"), 3},
		{"not found", errkind.New(errkind.NotFound, "bad"), 4},
		{"ref not found", errkind.New(errkind.RefNotFound, "bad"), 4},
		{"quota", errkind.NewQuota(errkind.QuotaFileCount, "bad"), 5},
		{"io error", errkind.New(errkind.IOError, "bad"), 1},
		{"provisioner", errkind.New(errkind.Provisioner, "bad"), 1},
		{"wrapped kind", errkind.Wrap(errkind.NotFound, errors.New("cause"), "bad"), 4},
		{"cancelled", context.Canceled, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}
