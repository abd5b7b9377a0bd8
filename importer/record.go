// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package importer

// Source tags how a skill entered the system.
type Source string

// Skill sources.
const (
	// SourceUser marks skills created or uploaded by the owning user.
	SourceUser Source = "user"
	// SourceMarket marks skills imported from a repository.
	SourceMarket Source = "market"
	// SourceBuiltin marks skills shipped with the platform.
	SourceBuiltin Source = "builtin"
)

// SkillRecord is the persisted form of a skill, owned by the external record
// store and scoped to one user.
type SkillRecord struct {
	// Identifier uniquely identifies the skill within the owner's scope.
	Identifier string
	// Name is the skill name from the manifest.
	Name string
	// Description is the skill description from the manifest.
	Description string
	// Content is the skill document body.
	Content string
	// Manifest is the full manifest mapping, passthrough fields included.
	Manifest map[string]any
	// Source tags how the skill entered the system.
	Source Source
	// ResourceIDs maps virtual resource paths to file record ids.
	ResourceIDs map[string]string
	// ArchiveHash is the content hash of the source archive, empty for
	// manually created skills.
	ArchiveHash string
}
