// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package pack

// ParseError reports a malformed skill package document or archive.
type ParseError struct {
	msg string
	err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap returns the underlying error, if any.
func (e *ParseError) Unwrap() error {
	return e.err
}

// newParseError creates a ParseError with an optional underlying cause.
func newParseError(msg string, err error) *ParseError {
	return &ParseError{msg: msg, err: err}
}
