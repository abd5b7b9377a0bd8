// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import "encoding/json"

// Author identifies the author of a skill.
type Author struct {
	// Name is the display name of the author.
	Name string `json:"name,omitempty"`
	// URL is the author's homepage. Must be an absolute URL when present.
	URL string `json:"url,omitempty"`
}

// Manifest is the validated metadata of a skill package.
// After Validate, Name and Description are always present and non-empty.
type Manifest struct {
	// Name is the skill name. Required.
	Name string `json:"name"`
	// Description is the human-readable skill description. Required.
	Description string `json:"description"`
	// Author identifies the skill author.
	Author *Author `json:"author,omitempty"`
	// Version is the skill version. Any non-empty string is valid, but
	// ideally it should be a semantic version or a commit hash.
	Version string `json:"version,omitempty"`
	// License is the SPDX license identifier of the skill.
	License string `json:"license,omitempty"`
	// Permissions lists capability names the skill requests.
	Permissions []string `json:"permissions,omitempty"`
	// Repository is the source repository URL of the skill.
	Repository string `json:"repository,omitempty"`
	// GitURL is the git clone URL of the skill's repository.
	GitURL string `json:"gitUrl,omitempty"`

	// Extra holds every manifest field not covered by the typed fields above,
	// preserved verbatim. Typed fields always win over Extra entries of the
	// same name when the manifest is re-serialized.
	Extra map[string]any `json:"-"`
}

// knownFields are the manifest keys mapped to typed Manifest fields.
var knownFields = map[string]struct{}{
	"name":        {},
	"description": {},
	"author":      {},
	"version":     {},
	"license":     {},
	"permissions": {},
	"repository":  {},
	"gitUrl":      {},
}

// ToMap reconstitutes the full manifest mapping, typed fields plus
// passthrough fields, for persistence.
func (m *Manifest) ToMap() map[string]any {
	out := make(map[string]any, len(knownFields)+len(m.Extra))

	// JSON round-trip keeps value shapes consistent with what Validate decoded.
	data, err := json.Marshal(m)
	if err == nil {
		_ = json.Unmarshal(data, &out)
	}

	for k, v := range m.Extra {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}

	return out
}
