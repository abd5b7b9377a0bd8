// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package github

import "fmt"

// ParseError reports a repository URL that cannot be resolved into a
// reference.
type ParseError struct {
	// URL is the input that failed to parse.
	URL string

	msg string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid repository URL %q: %s", e.URL, e.msg)
}

// NotFoundError reports a remote resource that does not exist (HTTP 404).
type NotFoundError struct {
	// URL is the remote resource that was requested.
	URL string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return "remote resource not found: " + e.URL
}

// DownloadError reports a remote fetch that failed with a non-success,
// non-404 status.
type DownloadError struct {
	// URL is the remote resource that was requested.
	URL string
	// StatusCode is the HTTP status returned, zero when the request itself
	// failed.
	StatusCode int

	err error
}

// Error implements the error interface.
func (e *DownloadError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("downloading %s: %s", e.URL, e.err.Error())
	}
	return fmt.Sprintf("downloading %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying error, if any.
func (e *DownloadError) Unwrap() error {
	return e.err
}
