// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTar_Deterministic(t *testing.T) {
	t.Parallel()

	forward := []FileEntry{
		{Path: "a.txt", Content: []byte("alpha")},
		{Path: "b/c.txt", Content: []byte("charlie")},
	}
	reversed := []FileEntry{
		{Path: "b/c.txt", Content: []byte("charlie")},
		{Path: "a.txt", Content: []byte("alpha")},
	}

	first, err := CreateTar(forward, DefaultTarOptions())
	require.NoError(t, err)
	second, err := CreateTar(reversed, DefaultTarOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second, "input order must not affect output bytes")
}

func TestCreateTar_ExtractRoundTrip(t *testing.T) {
	t.Parallel()

	files := []FileEntry{
		{Path: "SKILL.md", Content: []byte("# skill")},
		{Path: "scripts/run.sh", Content: []byte("#!/bin/sh"), Mode: 0755},
	}

	data, err := CreateTar(files, DefaultTarOptions())
	require.NoError(t, err)

	extracted, err := ExtractTar(data)
	require.NoError(t, err)
	require.Len(t, extracted, 2)

	assert.Equal(t, "SKILL.md", extracted[0].Path)
	assert.Equal(t, []byte("# skill"), extracted[0].Content)
	assert.Equal(t, int64(0755), extracted[1].Mode)
}

func TestExtractTar_RejectsUnsafeEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hdr  tar.Header
	}{
		{
			name: "path traversal",
			hdr:  tar.Header{Name: "../../etc/passwd", Typeflag: tar.TypeReg},
		},
		{
			name: "absolute path",
			hdr:  tar.Header{Name: "/etc/passwd", Typeflag: tar.TypeReg},
		},
		{
			name: "symlink",
			hdr:  tar.Header{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "/etc/passwd"},
		},
		{
			name: "hardlink",
			hdr:  tar.Header{Name: "link", Typeflag: tar.TypeLink, Linkname: "target"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tw := tar.NewWriter(&buf)
			require.NoError(t, tw.WriteHeader(&tt.hdr))
			require.NoError(t, tw.Close())

			_, err := ExtractTar(buf.Bytes())
			assert.Error(t, err)
		})
	}
}

func TestExtractTarWithLimit_RejectsOversizedFile(t *testing.T) {
	t.Parallel()

	data, err := CreateTar([]FileEntry{
		{Path: "big.bin", Content: bytes.Repeat([]byte("x"), 1024)},
	}, DefaultTarOptions())
	require.NoError(t, err)

	_, err = ExtractTarWithLimit(data, 512)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum size")
}
