// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package oci exports parsed skill packages as OCI artifacts.

An Exporter builds a reproducible tar.gz content layer from a parsed
package (SKILL.md plus resources), an image config carrying the manifest
metadata as labels, and a single-platform OCI image manifest with the
skill artifact type, and writes all three into a local OCI Image Layout
store. Identical input bytes always produce identical digests: file
ordering, tar headers, gzip headers, and timestamps are all pinned.
*/
package oci
