// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package errkind defines the stable error classification shared by the
// ingestion pipeline and its callers. Every failure that crosses a package
// boundary is wrapped in an *Error carrying one of the kinds below, so that
// surfaces (CLI, library consumers) can map outcomes without string matching.
package errkind

import (
	"context"
	"errors"
	"fmt"
)

// Kind identifies a failure class. The set is closed; callers may rely on it.
type Kind string

const (
	// InvalidSource marks a source string that cannot be parsed into a query.
	InvalidSource Kind = "invalid_source"
	// UnknownHost marks a remote URL pointing at a host outside the known set.
	UnknownHost Kind = "unknown_host"
	// InvalidToken marks a personal access token with an unrecognized format.
	InvalidToken Kind = "invalid_token"
	// Unauthorized marks a 401/403 answer from the remote host.
	Unauthorized Kind = "unauthorized"
	// NotFound marks a repository or path that does not exist.
	NotFound Kind = "not_found"
	// RefNotFound marks a branch, tag or commit missing from the remote.
	RefNotFound Kind = "ref_not_found"
	// PatternSyntax marks an include or ignore glob outside the allowed syntax.
	PatternSyntax Kind = "pattern_syntax"
	// QuotaExceeded marks a resource budget violation; see Quota for the reason.
	QuotaExceeded Kind = "quota_exceeded"
	// IOError marks a filesystem failure outside per-file content reads.
	IOError Kind = "io_error"
	// Provisioner marks an unexpected git or transport failure.
	Provisioner Kind = "provisioner_error"
	// TokenizerUnavailable marks a token encoder that could not be loaded.
	TokenizerUnavailable Kind = "tokenizer_unavailable"
	// Cancelled marks a job aborted by its context.
	Cancelled Kind = "cancelled"
	// Timeout marks a job aborted by its deadline.
	Timeout Kind = "timeout"
)

// Quota names the budget that a QuotaExceeded error ran into.
type Quota string

const (
	// QuotaFileSize is a single file above the per-file byte budget.
	QuotaFileSize Quota = "file_size"
	// QuotaFileCount is the per-job file count budget.
	QuotaFileCount Quota = "file_count"
	// QuotaTotalSize is the per-job total byte budget.
	QuotaTotalSize Quota = "total_size"
	// QuotaDirDepth is the directory depth budget.
	QuotaDirDepth Quota = "dir_depth"
)

// Error couples a Kind with a message and an optional cause.
type Error struct {
	Kind  Kind
	Quota Quota // set only when Kind == QuotaExceeded
	Msg   string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. It lets callers
// write errors.Is(err, &Error{Kind: NotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Quota == "" || e.Quota == t.Quota)
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// NewQuota builds a QuotaExceeded error for the given budget.
func NewQuota(quota Quota, format string, args ...interface{}) *Error {
	return &Error{Kind: QuotaExceeded, Quota: quota, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, walking wrapped causes. Context
// cancellation and deadline errors map to Cancelled and Timeout. Errors
// without a kind yield the empty string.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) {
		return Cancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// QuotaOf extracts the quota reason from err, or "" when err is not a
// quota violation.
func QuotaOf(err error) Quota {
	var e *Error
	if errors.As(err, &e) && e.Kind == QuotaExceeded {
		return e.Quota
	}
	return ""
}

// FromContext converts a context error into a kinded error, leaving other
// errors untouched.
func FromContext(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return Wrap(Cancelled, err, "job cancelled")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Wrap(Timeout, err, "job timed out")
	}
	return err
}
