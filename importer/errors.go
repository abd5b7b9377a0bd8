// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package importer

// ErrorCode discriminates import failures. Transport layers map codes to
// user-visible statuses; this package guarantees only a correct, stable code.
type ErrorCode string

// Import failure codes.
const (
	// CodeConflict reports an identifier that already exists.
	CodeConflict ErrorCode = "CONFLICT"

	// CodeInvalidURL reports a repository URL that could not be resolved.
	CodeInvalidURL ErrorCode = "INVALID_URL"

	// CodeNotFound reports a repository or branch that does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeDownloadFailed reports a repository archive that could not be
	// fetched or did not contain a usable skill package.
	CodeDownloadFailed ErrorCode = "DOWNLOAD_FAILED"

	// CodeFileNotFound reports an uploaded file that is missing or does not
	// contain a usable skill package.
	CodeFileNotFound ErrorCode = "FILE_NOT_FOUND"
)

// ImportError is the orchestration-level error. Lower-layer error kinds are
// always translated into an ImportError code before crossing the importer
// boundary; the underlying error remains reachable through Unwrap for
// logging.
type ImportError struct {
	// Code classifies the failure.
	Code ErrorCode

	msg string
	err error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	s := string(e.Code) + ": " + e.msg
	if e.err != nil {
		s += ": " + e.err.Error()
	}
	return s
}

// Unwrap returns the underlying error, if any.
func (e *ImportError) Unwrap() error {
	return e.err
}

func newImportError(code ErrorCode, msg string, err error) *ImportError {
	return &ImportError{Code: code, msg: msg, err: err}
}
