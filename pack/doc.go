// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package pack parses skill packages: a SKILL.md document with a frontmatter
manifest block, optionally bundled inside a ZIP archive together with
ancillary resource files.

# Documents

ParseDocument splits the leading frontmatter block (lines containing only
"---") from the free-form body and validates the frontmatter through the
manifest package:

	pkg, err := pack.ParseDocument(text)

# Archives

ParseArchive decodes a ZIP byte stream, locates the SKILL.md entry (with
support for the <repo>-<branch>/ wrapper folder produced by repository
archive downloads), collects resource files relative to the manifest's
directory, and computes a whole-archive content hash for deduplication:

	pkg, err := pack.ParseArchive(data, pack.ParseArchiveOptions{
		SubdirectoryHint: "skills/foo",
	})

Archive decoding defends against path traversal, absolute entry paths, and
decompression bombs. Hidden entries and macOS metadata folders are never
collected as resources.

# Errors

Malformed input fails with *ParseError. Manifest schema violations propagate
as *manifest.ValidationError, unwrapped, so callers can distinguish the two.
*/
package pack
