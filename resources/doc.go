// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package resources persists extracted skill resources under content-addressed
storage keys and resolves them back by virtual path.

Resources are keyed by their virtual path, the path relative to the skill
manifest's directory inside the source archive. Storage keys share a prefix
derived from the whole-archive content hash, so re-importing the same archive
writes to the same locations and the file registry's content-hash
deduplication collapses identical files.

The object storage and file registry collaborators are injected as
interfaces; LocalStorage provides a filesystem-backed implementation of both
for tests and local installs.

BuildTree turns a flat list of virtual paths into a deterministic directory
tree view for display purposes; trees are computed on demand and never
stored.
*/
package resources
