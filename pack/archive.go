// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/opencontainers/go-digest"
)

// ManifestFileName is the skill document entry every package must contain.
const ManifestFileName = "SKILL.md"

// MaxArchiveFileSize is the maximum decompressed size of a single archive
// entry (100MB). This prevents decompression bombs.
const MaxArchiveFileSize = 100 * 1024 * 1024

// macOSMetadataDir is the resource-fork folder macOS adds to zip archives.
const macOSMetadataDir = "__MACOSX"

// ParseArchiveOptions configures archive parsing.
type ParseArchiveOptions struct {
	// SubdirectoryHint narrows the manifest search to a repository
	// subdirectory, accommodating archives wrapped in a single
	// <repo>-<branch>/ folder as produced by repository archive downloads.
	SubdirectoryHint string

	// SkipHash disables whole-archive hashing; ArchiveHash is left empty.
	SkipHash bool
}

// ParsedArchivePackage is the result of parsing a skill archive.
type ParsedArchivePackage struct {
	ParsedPackage

	// Resources maps virtual paths (relative to the manifest's directory)
	// to file contents. Keys are unique.
	Resources map[string][]byte

	// ArchiveHash is the hex-encoded SHA-256 of the whole archive byte
	// buffer, empty only when hashing was skipped.
	ArchiveHash string
}

// archiveEntry is a decoded zip entry, in archive order.
type archiveEntry struct {
	path string
	data []byte
	dir  bool
}

// ParseArchive decodes a ZIP byte stream into a parsed skill package.
// It locates the SKILL.md manifest entry, parses and validates it, collects
// the remaining entries as resources relative to the manifest's directory,
// and computes the whole-archive content hash.
func ParseArchive(data []byte, opts ParseArchiveOptions) (*ParsedArchivePackage, error) {
	entries, err := readArchive(data)
	if err != nil {
		return nil, err
	}

	manifestPath, ok := locateManifest(entries, opts.SubdirectoryHint)
	if !ok {
		return nil, newParseError("manifest not found in archive", nil)
	}

	var manifestData []byte
	for _, e := range entries {
		if !e.dir && e.path == manifestPath {
			manifestData = e.data
			break
		}
	}

	doc, err := ParseDocument(string(manifestData))
	if err != nil {
		return nil, err
	}

	basePath := path.Dir(manifestPath)
	if basePath == "." {
		basePath = ""
	}

	pkg := &ParsedArchivePackage{
		ParsedPackage: *doc,
		Resources:     collectResources(entries, manifestPath, basePath),
	}

	if !opts.SkipHash {
		pkg.ArchiveHash = digest.FromBytes(data).Encoded()
	}

	return pkg, nil
}

// readArchive decompresses a zip byte stream into a flat list of entries,
// preserving archive order. Entry paths are validated against traversal and
// absolute paths; entry sizes are bounded.
func readArchive(data []byte) ([]archiveEntry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, newParseError("reading zip archive", err)
	}
	// On ErrInsecurePath the reader is still usable; per-entry validation
	// below reports the offending path.

	entries := make([]archiveEntry, 0, len(zr.File))
	for _, f := range zr.File {
		name := strings.TrimSuffix(f.Name, "/")
		if name == "" {
			continue
		}

		if err := validateArchivePath(name); err != nil {
			return nil, err
		}

		if f.FileInfo().IsDir() {
			entries = append(entries, archiveEntry{path: name, dir: true})
			continue
		}

		if f.UncompressedSize64 > MaxArchiveFileSize {
			return nil, newParseError(
				fmt.Sprintf("archive entry %s exceeds maximum size of %d bytes", name, MaxArchiveFileSize), nil)
		}

		content, err := readArchiveEntry(f)
		if err != nil {
			return nil, err
		}

		entries = append(entries, archiveEntry{path: name, data: content})
	}

	return entries, nil
}

// readArchiveEntry reads a single zip entry with a size limit enforced
// during reading, defending against lying size headers.
func readArchiveEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, newParseError(fmt.Sprintf("opening archive entry %s", f.Name), err)
	}
	defer func() { _ = rc.Close() }()

	limitedReader := io.LimitReader(rc, MaxArchiveFileSize+1)
	content, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, newParseError(fmt.Sprintf("reading archive entry %s", f.Name), err)
	}
	if int64(len(content)) > MaxArchiveFileSize {
		return nil, newParseError(
			fmt.Sprintf("archive entry %s exceeds maximum size of %d bytes", f.Name, MaxArchiveFileSize), nil)
	}

	return content, nil
}

// validateArchivePath checks that a zip entry path is safe.
func validateArchivePath(p string) error {
	// path.Clean resolves all ".." segments; any remaining leading ".."
	// means the path escapes the archive root.
	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return newParseError("path traversal detected in archive: "+p, nil)
	}
	if path.IsAbs(cleaned) {
		return newParseError("absolute path not allowed in archive: "+p, nil)
	}
	return nil
}

// inferRootPrefix returns the first path segment seen among entries, with a
// trailing separator. Repository archive downloads wrap all content in a
// single <repo>-<branch>/ folder; this recovers that wrapper without
// hardcoding its naming convention.
func inferRootPrefix(entries []archiveEntry) string {
	if len(entries) == 0 {
		return ""
	}
	first := entries[0].path
	if i := strings.Index(first, "/"); i >= 0 {
		return first[:i+1]
	}
	return first + "/"
}

// locateManifest finds the manifest entry path. Search order:
//
//  1. <inferredRootPrefix><hint>/SKILL.md when a subdirectory hint is given
//  2. any entry ending in <hint>/SKILL.md under exactly one leading segment
//  3. root-level SKILL.md
//  4. first-level */SKILL.md
//
// A root-level match always outranks a nested one.
func locateManifest(entries []archiveEntry, hint string) (string, bool) {
	exists := make(map[string]bool, len(entries))
	ordered := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.dir {
			continue
		}
		exists[e.path] = true
		ordered = append(ordered, e.path)
	}

	if hint != "" {
		candidate := inferRootPrefix(entries) + hint + "/" + ManifestFileName
		if exists[candidate] {
			return candidate, true
		}

		suffix := "/" + hint + "/" + ManifestFileName
		for _, p := range ordered {
			if strings.HasSuffix(p, suffix) && !strings.Contains(strings.TrimSuffix(p, suffix), "/") {
				return p, true
			}
		}
	}

	if exists[ManifestFileName] {
		return ManifestFileName, true
	}

	for _, p := range ordered {
		if strings.HasSuffix(p, "/"+ManifestFileName) && strings.Count(p, "/") == 1 {
			return p, true
		}
	}

	return "", false
}

// collectResources gathers every non-manifest file entry as a resource keyed
// by its virtual path relative to basePath. Hidden entries, macOS metadata
// folders, and entries outside basePath are skipped.
func collectResources(entries []archiveEntry, manifestPath, basePath string) map[string][]byte {
	resources := make(map[string][]byte)
	for _, e := range entries {
		if e.dir || e.path == manifestPath {
			continue
		}
		if hasHiddenOrMetadataSegment(e.path) {
			continue
		}

		rel := e.path
		if basePath != "" {
			prefix := basePath + "/"
			if !strings.HasPrefix(e.path, prefix) {
				continue
			}
			rel = e.path[len(prefix):]
		}
		if rel == "" {
			continue
		}

		resources[rel] = e.data
	}
	return resources
}

// hasHiddenOrMetadataSegment reports whether any path segment is hidden
// (dot-prefixed) or a macOS metadata folder.
func hasHiddenOrMetadataSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == macOSMetadataDir || strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
