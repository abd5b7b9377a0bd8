// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// LocalStorage is a filesystem-backed implementation of ObjectStorage and
// FileRegistry, for tests and local installs. Objects live under
// <root>/objects mirroring their storage keys; file records are kept
// in memory and deduplicated by content hash.
type LocalStorage struct {
	root string

	mu      sync.Mutex
	byID    map[string]*FileRecord
	byHash  map[string]string
	counter int
}

// Compile-time interface checks.
var (
	_ ObjectStorage = (*LocalStorage)(nil)
	_ FileRegistry  = (*LocalStorage)(nil)
)

// NewLocalStorage creates local storage rooted at the given directory.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(root, "objects"), 0o750); err != nil {
		return nil, fmt.Errorf("creating storage root at %s: %w", root, err)
	}
	return &LocalStorage{
		root:   root,
		byID:   make(map[string]*FileRecord),
		byHash: make(map[string]string),
	}, nil
}

// StorageRoot returns the resource storage root within the given data home
// directory. This is the injectable, testable form. For the standard XDG
// location, use DefaultStorageRoot.
func StorageRoot(dataHome string) string {
	return filepath.Join(dataHome, "skillpack", "resources")
}

// DefaultStorageRoot returns the default storage root directory using XDG
// base directory conventions.
func DefaultStorageRoot() string {
	return StorageRoot(xdg.DataHome)
}

// Root returns the storage root directory.
func (l *LocalStorage) Root() string {
	return l.root
}

// Put stores data under the given key and returns the key as the object URL.
func (l *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	target, err := l.objectPath(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return "", fmt.Errorf("writing object %s: %w", key, err)
	}

	return key, nil
}

// Get retrieves the bytes stored under the given key.
func (l *LocalStorage) Get(_ context.Context, key string) ([]byte, error) {
	target, err := l.objectPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target) //#nosec G304 -- path validated by objectPath
	if err != nil {
		return nil, fmt.Errorf("reading object %s: %w", key, err)
	}
	return data, nil
}

// Create registers a stored file, deduplicating by content hash.
func (l *LocalStorage) Create(_ context.Context, spec FileRecordSpec) (string, error) {
	if spec.Hash == "" {
		return "", fmt.Errorf("file record requires a content hash")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if id, ok := l.byHash[spec.Hash]; ok {
		return id, nil
	}

	l.counter++
	id := fmt.Sprintf("file-%d-%s", l.counter, shortHash(spec.Hash))
	l.byID[id] = &FileRecord{
		ID:          id,
		URL:         spec.URL,
		Hash:        spec.Hash,
		ContentType: spec.ContentType,
		Size:        spec.Size,
	}
	l.byHash[spec.Hash] = id

	return id, nil
}

// FindByID returns the record for the given id, or nil when absent.
func (l *LocalStorage) FindByID(_ context.Context, id string) (*FileRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *record
	return &cp, nil
}

// objectPath maps a storage key to a filesystem path under the root,
// rejecting keys that would escape it.
func (l *LocalStorage) objectPath(key string) (string, error) {
	cleaned := path.Clean(key)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || path.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return filepath.Join(l.root, "objects", filepath.FromSlash(cleaned)), nil
}

// shortHash returns a short, stable suffix for record ids.
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
