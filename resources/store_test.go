// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *LocalStorage) {
	t.Helper()

	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewStore(local, local), local
}

func TestStoreAll_RoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	resources := map[string][]byte{
		"assets/x.png": []byte("png-bytes"),
		"scripts/run":  []byte("#!/bin/sh"),
	}

	ids, err := store.StoreAll(ctx, "abc123", resources)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	for p, want := range resources {
		got, err := store.ReadOne(ctx, ids, p)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestStoreAll_DeduplicatesByContent(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	ids, err := store.StoreAll(ctx, "abc123", map[string][]byte{
		"a.txt": []byte("same bytes"),
		"b.txt": []byte("same bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, ids["a.txt"], ids["b.txt"], "identical content should share a file record")
}

func TestStoreAll_Empty(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	ids, err := store.StoreAll(context.Background(), "abc123", nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStorageKey(t *testing.T) {
	t.Parallel()

	key := StorageKey("deadbeef", "assets/x.png")
	assert.Equal(t, "skills/source_files/deadbeef/assets/x.png", key)
}

func TestReadOne_MissingPath(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	_, err := store.ReadOne(context.Background(), map[string]string{}, "nope.txt")
	require.Error(t, err)

	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "nope.txt", rerr.Path)
}

func TestReadOne_OrphanedID(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	_, err := store.ReadOne(context.Background(), map[string]string{"a.txt": "file-999-gone"}, "a.txt")
	require.Error(t, err)

	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, err.Error(), "record not found")
}

// failingStorage fails every Put after the first n successes.
type failingStorage struct {
	inner    ObjectStorage
	failFrom int
	calls    int
}

func (f *failingStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.calls++
	if f.calls > f.failFrom {
		return "", fmt.Errorf("storage backend unavailable")
	}
	return f.inner.Put(ctx, key, data, contentType)
}

func (f *failingStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return f.inner.Get(ctx, key)
}

func TestStoreAll_FailureAbortsWithoutRollback(t *testing.T) {
	t.Parallel()

	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	failing := &failingStorage{inner: local, failFrom: 1}
	store := NewStore(failing, local)
	ctx := context.Background()

	_, err = store.StoreAll(ctx, "abc123", map[string][]byte{
		"a.txt": []byte("first"),
		"b.txt": []byte("second"),
	})
	require.Error(t, err)

	// Processing is lexicographic, so a.txt was stored before b.txt failed;
	// the partial write is not rolled back.
	data, err := local.Get(ctx, StorageKey("abc123", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	_, err = local.Get(ctx, StorageKey("abc123", "b.txt"))
	assert.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "assets/x.png", want: "image/png"},
		{path: "data.json", want: "application/json"},
		{path: "no-extension", want: "application/octet-stream"},
		{path: "weird.zzz-unknown", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, contentTypeFor(tt.path), tt.want)
		})
	}
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	t.Parallel()

	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = local.Put(context.Background(), "../escape.txt", []byte("x"), "text/plain")
	require.Error(t, err)

	_, err = local.Get(context.Background(), "/etc/passwd")
	require.Error(t, err)
}
