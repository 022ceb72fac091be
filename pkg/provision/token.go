// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"regexp"

	"github.com/gardener/repoingest/pkg/errkind"
)

// githubPAT covers the classic and fine-grained personal access token
// formats published by GitHub.
var githubPAT = regexp.MustCompile(`^(?:gh[pousr]_[A-Za-z0-9]{36}|github_pat_[A-Za-z0-9]{22}_[A-Za-z0-9]{59})$`)

// ValidateToken rejects personal access tokens that do not match a
// well-known GitHub format, so that malformed credentials fail before any
// network traffic.
func ValidateToken(token string) error {
	if !githubPAT.MatchString(token) {
		return errkind.New(errkind.InvalidToken, "token does not match a known GitHub personal access token format")
	}
	return nil
}
