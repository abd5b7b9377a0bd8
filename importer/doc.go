// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package importer orchestrates skill creation and import.

An Importer is scoped to one owning user and composes the package parser,
resource store, and repository client into three entry points:

  - CreateUserSkill creates a skill from user-provided fields.
  - ImportFromArchiveUpload imports a directly uploaded skill archive.
  - ImportFromRepository imports or updates a skill from a repository URL;
    re-importing the same repository and subdirectory updates the existing
    record in place.

Every operation is a single caller-driven sequence with no internal
parallelism and no retries. Failures that classify as import outcomes cross
the boundary as *ImportError with a stable code; infrastructure faults from
the record store or object storage are returned wrapped.
*/
package importer
