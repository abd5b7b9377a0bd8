// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"
	"mime"
	"path"
	"sort"

	"github.com/opencontainers/go-digest"

	"github.com/stacklok/skillpack-core/logger"
)

// storageKeyPrefix is the key namespace for imported skill resources.
const storageKeyPrefix = "skills/source_files"

// defaultContentType is used when no media type can be inferred from the
// file extension.
const defaultContentType = "application/octet-stream"

// Store persists extracted skill resources through an object storage backend
// and a file registry.
type Store struct {
	storage  ObjectStorage
	registry FileRegistry
}

// NewStore creates a resource store with the given collaborators.
// Panics if either is nil.
func NewStore(storage ObjectStorage, registry FileRegistry) *Store {
	if storage == nil || registry == nil {
		panic("resources: NewStore called with nil collaborator")
	}
	return &Store{storage: storage, registry: registry}
}

// StorageKey returns the content-addressed storage key for a resource.
// Resources of the same archive share a prefix, so re-importing identical
// bytes overwrites in place instead of accumulating copies.
func StorageKey(archiveHash, virtualPath string) string {
	return storageKeyPrefix + "/" + archiveHash + "/" + virtualPath
}

// StoreAll uploads every resource and registers a file record for it,
// returning the virtual path to record id mapping.
//
// Processing is strictly sequential: a failure aborts the remaining batch
// and already-stored resources are not rolled back. Re-importing the same
// archive reconciles such partial writes, because keys and record hashes are
// both content-derived.
func (s *Store) StoreAll(ctx context.Context, archiveHash string, resources map[string][]byte) (map[string]string, error) {
	paths := make([]string, 0, len(resources))
	for p := range resources {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	ids := make(map[string]string, len(resources))
	for _, p := range paths {
		data := resources[p]
		key := StorageKey(archiveHash, p)
		contentType := contentTypeFor(p)

		url, err := s.storage.Put(ctx, key, data, contentType)
		if err != nil {
			return nil, fmt.Errorf("storing resource %s: %w", p, err)
		}

		id, err := s.registry.Create(ctx, FileRecordSpec{
			Hash:        digest.FromBytes(data).Encoded(),
			ContentType: contentType,
			Name:        path.Base(p),
			Size:        int64(len(data)),
			URL:         url,
		})
		if err != nil {
			return nil, fmt.Errorf("registering resource %s: %w", p, err)
		}

		ids[p] = id
	}

	logger.Debugw("stored skill resources", "archiveHash", archiveHash, "count", len(ids))
	return ids, nil
}

// ReadOne resolves a single resource by virtual path through the given
// path-to-id mapping and returns its bytes.
func (s *Store) ReadOne(ctx context.Context, resourceIDs map[string]string, virtualPath string) ([]byte, error) {
	id, ok := resourceIDs[virtualPath]
	if !ok {
		return nil, newResourceError(virtualPath, "resource not found: "+virtualPath, nil)
	}

	record, err := s.registry.FindByID(ctx, id)
	if err != nil {
		return nil, newResourceError(virtualPath, "resolving resource record "+id, err)
	}
	if record == nil {
		return nil, newResourceError(virtualPath, "resource record not found: "+id, nil)
	}

	data, err := s.storage.Get(ctx, record.URL)
	if err != nil {
		return nil, newResourceError(virtualPath, "reading resource "+virtualPath, err)
	}

	return data, nil
}

// Storage returns the underlying object storage for direct use by callers
// that stage or read raw objects.
func (s *Store) Storage() ObjectStorage {
	return s.storage
}

// Registry returns the underlying file registry.
func (s *Store) Registry() FileRegistry {
	return s.registry
}

// contentTypeFor infers a media type from the file extension.
func contentTypeFor(p string) string {
	if t := mime.TypeByExtension(path.Ext(p)); t != "" {
		return t
	}
	return defaultContentType
}
