// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resources

// ResourceError reports a resource that cannot be resolved: the requested
// virtual path is absent from the mapping, or its storage id has no backing
// record.
type ResourceError struct {
	// Path is the requested virtual path.
	Path string

	msg string
	err error
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap returns the underlying error, if any.
func (e *ResourceError) Unwrap() error {
	return e.err
}

func newResourceError(path, msg string, err error) *ResourceError {
	return &ResourceError{Path: path, msg: msg, err: err}
}
