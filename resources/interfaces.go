// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resources

import "context"

// ObjectStorage stores raw resource bytes under string keys.
type ObjectStorage interface {
	// Put stores data under the given key and returns the stored object's URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Get retrieves the bytes previously stored under the given key or URL.
	Get(ctx context.Context, key string) ([]byte, error)
}

// FileRecordSpec describes a file to register.
type FileRecordSpec struct {
	// Hash is the hex-encoded SHA-256 of the file content. The registry
	// deduplicates records by this hash.
	Hash string
	// ContentType is the media type of the file.
	ContentType string
	// Name is the file's base name.
	Name string
	// Size is the content length in bytes.
	Size int64
	// URL locates the stored object.
	URL string
}

// FileRecord is a registered file.
type FileRecord struct {
	// ID uniquely identifies the record.
	ID string
	// URL locates the stored object.
	URL string
	// Hash is the hex-encoded SHA-256 of the file content.
	Hash string
	// ContentType is the media type of the file.
	ContentType string
	// Size is the content length in bytes.
	Size int64
}

// FileRegistry registers stored files and resolves them by id.
// Create deduplicates by content hash: registering the same hash twice
// returns the same id.
type FileRegistry interface {
	// Create registers a stored file and returns its record id.
	Create(ctx context.Context, spec FileRecordSpec) (string, error)

	// FindByID returns the record for the given id, or nil when absent.
	FindByID(ctx context.Context, id string) (*FileRecord, error)
}
