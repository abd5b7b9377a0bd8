// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"archive/zip"
	"bytes"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSkillDoc = "---\nname: test\ndescription: d\n---\n\nSkill body.\n"

// zipFile is a single entry for buildZip. Names with a trailing slash create
// directory markers.
type zipFile struct {
	name    string
	content string
}

func buildZip(t *testing.T, files []zipFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		if f.content != "" {
			_, err = w.Write([]byte(f.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestParseArchive_ManifestOnly(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipFile{
		{name: "SKILL.md", content: testSkillDoc},
	})

	pkg, err := ParseArchive(data, ParseArchiveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "test", pkg.Manifest.Name)
	assert.Equal(t, "d", pkg.Manifest.Description)
	assert.Empty(t, pkg.Resources)
	assert.Regexp(t, hexDigest, pkg.ArchiveHash)
}

func TestParseArchive_NestedManifestWithResources(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipFile{
		{name: "my-skill/SKILL.md", content: testSkillDoc},
		{name: "my-skill/assets/x.png", content: "png-bytes"},
		{name: "other/ignored.txt", content: "outside base path"},
	})

	pkg, err := ParseArchive(data, ParseArchiveOptions{})
	require.NoError(t, err)
	require.Len(t, pkg.Resources, 1)
	assert.Equal(t, []byte("png-bytes"), pkg.Resources["assets/x.png"])
}

func TestParseArchive_ManifestNotFound(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipFile{
		{name: "README.md", content: "no manifest here"},
		{name: "deep/nested/dir/SKILL.md", content: testSkillDoc},
	})

	_, err := ParseArchive(data, ParseArchiveOptions{})
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "manifest not found")
}

func TestParseArchive_RootOutranksNested(t *testing.T) {
	t.Parallel()

	rootDoc := "---\nname: root\ndescription: d\n---\nroot"
	nestedDoc := "---\nname: nested\ndescription: d\n---\nnested"

	data := buildZip(t, []zipFile{
		{name: "a-skill/SKILL.md", content: nestedDoc},
		{name: "SKILL.md", content: rootDoc},
	})

	pkg, err := ParseArchive(data, ParseArchiveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "root", pkg.Manifest.Name)
}

func TestParseArchive_SubdirectoryHint(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipFile{
		{name: "tools-main/"},
		{name: "tools-main/README.md", content: "repo readme"},
		{name: "tools-main/skills/foo/SKILL.md", content: testSkillDoc},
		{name: "tools-main/skills/foo/helper.py", content: "print('hi')"},
		{name: "tools-main/skills/bar/SKILL.md", content: testSkillDoc},
	})

	pkg, err := ParseArchive(data, ParseArchiveOptions{SubdirectoryHint: "skills/foo"})
	require.NoError(t, err)
	require.Len(t, pkg.Resources, 1)
	assert.Equal(t, []byte("print('hi')"), pkg.Resources["helper.py"])
}

func TestParseArchive_SubdirectoryHintPatternFallback(t *testing.T) {
	t.Parallel()

	// The first entry does not reveal the wrapper folder, so the inferred
	// root prefix misses; the pattern fallback still finds the manifest.
	data := buildZip(t, []zipFile{
		{name: "aaa-notes.txt", content: "stray root file"},
		{name: "tools-main/skills/foo/SKILL.md", content: testSkillDoc},
		{name: "tools-main/skills/foo/helper.py", content: "print('hi')"},
	})

	pkg, err := ParseArchive(data, ParseArchiveOptions{SubdirectoryHint: "skills/foo"})
	require.NoError(t, err)
	assert.Equal(t, "test", pkg.Manifest.Name)
	assert.Equal(t, []byte("print('hi')"), pkg.Resources["helper.py"])
}

func TestParseArchive_SkipsHiddenAndMetadataEntries(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipFile{
		{name: "SKILL.md", content: testSkillDoc},
		{name: "assets/ok.txt", content: "kept"},
		{name: ".hidden/secret.txt", content: "dropped"},
		{name: "assets/.DS_Store", content: "dropped"},
		{name: "__MACOSX/._SKILL.md", content: "dropped"},
	})

	pkg, err := ParseArchive(data, ParseArchiveOptions{})
	require.NoError(t, err)
	require.Len(t, pkg.Resources, 1)
	assert.Equal(t, []byte("kept"), pkg.Resources["assets/ok.txt"])
}

func TestParseArchive_PathTraversalRejected(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipFile{
		{name: "SKILL.md", content: testSkillDoc},
		{name: "../evil.txt", content: "escape attempt"},
	})

	_, err := ParseArchive(data, ParseArchiveOptions{})
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "path traversal")
}

func TestParseArchive_CorruptArchive(t *testing.T) {
	t.Parallel()

	_, err := ParseArchive([]byte("not a zip archive"), ParseArchiveOptions{})
	require.Error(t, err)

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestParseArchive_InvalidManifestPropagates(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipFile{
		{name: "SKILL.md", content: "---\nname: test\n---\nmissing description"},
	})

	_, err := ParseArchive(data, ParseArchiveOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestParseArchive_HashDeterministic(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipFile{
		{name: "my-skill/SKILL.md", content: testSkillDoc},
		{name: "my-skill/assets/x.png", content: "png-bytes"},
	})

	// Identical bytes always hash identically, regardless of how resources
	// are subsequently extracted.
	first, err := ParseArchive(data, ParseArchiveOptions{})
	require.NoError(t, err)

	second, err := ParseArchive(data, ParseArchiveOptions{SubdirectoryHint: "my-skill"})
	require.NoError(t, err)

	assert.Equal(t, first.ArchiveHash, second.ArchiveHash)
	assert.Regexp(t, hexDigest, first.ArchiveHash)
}

func TestParseArchive_SkipHash(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipFile{
		{name: "SKILL.md", content: testSkillDoc},
	})

	pkg, err := ParseArchive(data, ParseArchiveOptions{SkipHash: true})
	require.NoError(t, err)
	assert.Empty(t, pkg.ArchiveHash)
}

func TestInferRootPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []archiveEntry
		want    string
	}{
		{name: "empty archive", entries: nil, want: ""},
		{
			name:    "wrapper directory first",
			entries: []archiveEntry{{path: "repo-main", dir: true}, {path: "repo-main/SKILL.md"}},
			want:    "repo-main/",
		},
		{
			name:    "nested file first",
			entries: []archiveEntry{{path: "repo-main/docs/README.md"}},
			want:    "repo-main/",
		},
		{
			name:    "root file first",
			entries: []archiveEntry{{path: "SKILL.md"}},
			want:    "SKILL.md/",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, inferRootPrefix(tt.entries))
		})
	}
}

func TestLocateManifest(t *testing.T) {
	t.Parallel()

	wrapped := []archiveEntry{
		{path: "repo-main", dir: true},
		{path: "repo-main/README.md"},
		{path: "repo-main/skills/foo/SKILL.md"},
		{path: "repo-main/SKILL.md"},
	}

	tests := []struct {
		name    string
		entries []archiveEntry
		hint    string
		want    string
		wantOK  bool
	}{
		{name: "hint with inferred prefix", entries: wrapped, hint: "skills/foo", want: "repo-main/skills/foo/SKILL.md", wantOK: true},
		{name: "no hint prefers wrapper root", entries: wrapped, hint: "", want: "repo-main/SKILL.md", wantOK: true},
		{
			name:    "exact root",
			entries: []archiveEntry{{path: "SKILL.md"}},
			want:    "SKILL.md",
			wantOK:  true,
		},
		{
			name:    "first-level fallback",
			entries: []archiveEntry{{path: "my-skill/SKILL.md"}},
			want:    "my-skill/SKILL.md",
			wantOK:  true,
		},
		{
			name:    "too deep without hint",
			entries: []archiveEntry{{path: "a/b/SKILL.md"}},
			wantOK:  false,
		},
		{
			name:    "missing entirely",
			entries: []archiveEntry{{path: "README.md"}},
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := locateManifest(tt.entries, tt.hint)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
