// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package importer

import (
	"context"

	"github.com/stacklok/skillpack-core/github"
)

// SkillStore is the durable, user-scoped record store for skills. It is the
// sole serialization point for identifier-uniqueness races.
type SkillStore interface {
	// Create persists a new skill record.
	Create(ctx context.Context, record *SkillRecord) error

	// Update replaces an existing skill record, matched by identifier.
	Update(ctx context.Context, record *SkillRecord) error

	// FindByIdentifier returns the record for the given identifier, or nil
	// when absent.
	FindByIdentifier(ctx context.Context, identifier string) (*SkillRecord, error)

	// Delete removes the record for the given identifier.
	Delete(ctx context.Context, identifier string) error
}

// ArchiveFetcher downloads repository branch archives.
// Satisfied by *github.Client; override in tests to avoid network access.
type ArchiveFetcher interface {
	FetchArchive(ctx context.Context, ref *github.Reference) ([]byte, error)
}

// Compile-time assertion that the github client satisfies ArchiveFetcher.
var _ ArchiveFetcher = (*github.Client)(nil)
