// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package manifest defines the skill manifest data model and its validation.

A manifest is the structured metadata carried in the frontmatter block of a
SKILL.md document. Validation is schema-driven: required fields (name,
description) must be present and non-empty, URL-valued fields must be
well-formed absolute URLs, and every unrecognized field is preserved verbatim
so that manifests written against newer revisions of the format survive a
round-trip through older code.

# Basic Usage

	m, err := manifest.Validate(map[string]any{
		"name":        "my-skill",
		"description": "does something useful",
		"x-custom":    "kept as-is",
	})

A failed validation returns a *ValidationError carrying every violated-field
reason, not just the first one.
*/
package manifest
