// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"

	"github.com/gardener/repoingest/pkg/errkind"
)

// Exit statuses of the repoingest binary.
const (
	codeOK       = 0
	codeGeneric  = 1
	codeUsage    = 2
	codeAuth     = 3
	codeNotFound = 4
	codeQuota    = 5
)

// ExitCode maps an error to the binary's exit status.
func ExitCode(err error) int {
	if err == nil {
		return codeOK
	}
	switch errkind.KindOf(err) {
	case errkind.InvalidSource, errkind.UnknownHost, errkind.PatternSyntax:
		return codeUsage
	case errkind.InvalidToken, errkind.Unauthorized:
		return codeAuth
	case errkind.NotFound, errkind.RefNotFound:
		return codeNotFound
	case errkind.QuotaExceeded:
		return codeQuota
	}
	return codeGeneric
}

// Report prints the error as a single stderr line keyed by its kind.
func Report(err error) {
	if err == nil {
		return
	}
	if kind := errkind.KindOf(err); kind != "" {
		fmt.Fprintf(os.Stderr, "%s: %v\n", kind, err)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
