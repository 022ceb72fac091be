// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package gitcmd is the single adapter through which every git invocation
// of the provisioner runs. Authentication is injected as per-invocation
// config and never persisted in the working tree; tokens are redacted from
// error output.
package gitcmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/gardener/repoingest/pkg/errkind"
	"k8s.io/klog/v2"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Runner executes one git command in dir (empty dir means the process
// working directory) and returns its combined output.
//
//counterfeiter:generate . Runner
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// tokenLike matches GitHub personal access tokens and basic-auth userinfo
// so they never leak into error messages.
var tokenLike = regexp.MustCompile(`(gh[pousr]_[A-Za-z0-9]{36}|github_pat_[A-Za-z0-9_]{82}|://[^/@\s]+@)`)

// Redact replaces credential material in s with a placeholder.
func Redact(s string) string {
	return tokenLike.ReplaceAllString(s, "<redacted>")
}

// AuthHeader builds the Authorization value git sends for token access,
// per the x-oauth-basic convention.
func AuthHeader(token string) string {
	credentials := base64.StdEncoding.EncodeToString([]byte("x-oauth-basic:" + token))
	return "Basic " + credentials
}

// AuthArgs returns the per-invocation config that scopes the token to one
// host. The slice is prepended to the git argument list.
func AuthArgs(host, token string) []string {
	return []string{
		"-c", fmt.Sprintf("http.https://%s/.extraheader=Authorization: %s", host, AuthHeader(token)),
	}
}

// ExecRunner runs git as a subprocess.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	klog.V(6).Infof("git %s", Redact(fmt.Sprint(args)))
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := errkind.FromContext(ctx, err); errkind.KindOf(ctxErr) != "" {
			return out, ctxErr
		}
		return out, errkind.Wrap(errkind.Provisioner, err, "git %s failed: %s",
			Redact(fmt.Sprint(args)), Redact(string(out)))
	}
	return out, nil
}
