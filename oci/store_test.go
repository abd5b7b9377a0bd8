// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_InitializesLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := NewStore(root)
	require.NoError(t, err)
	assert.Equal(t, root, store.Root())

	_, err = os.Stat(filepath.Join(root, "oci-layout"))
	assert.NoError(t, err)
}

func TestStore_BlobRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	content := []byte("blob content")

	d, err := store.PutBlob(ctx, content)
	require.NoError(t, err)

	// Idempotent re-put.
	d2, err := store.PutBlob(ctx, content)
	require.NoError(t, err)
	assert.Equal(t, d, d2)

	got, err := store.GetBlob(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestStore_GetBlob_NotFound(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.GetBlob(context.Background(), digest.FromString("never stored"))
	assert.Error(t, err)
}

func TestStore_ManifestTagResolve(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	manifest := ocispec.Manifest{
		MediaType:    ocispec.MediaTypeImageManifest,
		ArtifactType: ArtifactTypeSkill,
		Config:       ocispec.DescriptorEmptyJSON,
	}
	manifest.SchemaVersion = 2
	manifestBytes, err := json.Marshal(manifest)
	require.NoError(t, err)

	d, err := store.PutManifest(ctx, manifestBytes)
	require.NoError(t, err)

	require.NoError(t, store.Tag(ctx, d, "my-skill-1.0.0"))

	resolved, err := store.Resolve(ctx, "my-skill-1.0.0")
	require.NoError(t, err)
	assert.Equal(t, d, resolved)

	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	assert.Contains(t, tags, "my-skill-1.0.0")

	got, err := store.GetManifest(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, manifestBytes, got)
}

func TestStore_Resolve_UnknownTag(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Resolve(context.Background(), "no-such-tag")
	assert.Error(t, err)
}
