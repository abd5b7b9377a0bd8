// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/skill-manifest.schema.json
var embeddedSchemaFS embed.FS

const schemaFile = "data/skill-manifest.schema.json"

// ValidationError reports a manifest that violates the schema.
// It carries every violated-field reason, not just the first.
type ValidationError struct {
	// Reasons lists one message per violated field rule.
	Reasons []string
}

// Error implements the error interface. The message concatenates all
// violated-field reasons.
func (e *ValidationError) Error() string {
	return "invalid skill manifest: " + strings.Join(e.Reasons, "; ")
}

// Validate checks a loosely-typed manifest mapping against the skill manifest
// schema and returns the typed manifest on success. Unrecognized fields are
// never rejected; they are preserved verbatim in Manifest.Extra.
func Validate(data map[string]any) (*Manifest, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("serializing manifest data: %w", err)
	}

	schemaData, err := embeddedSchemaFS.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema %s: %w", schemaFile, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("evaluating manifest schema: %w", err)
	}

	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, &ValidationError{Reasons: reasons}
	}

	var m Manifest
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest fields: %w", err)
	}

	for k, v := range data {
		if _, ok := knownFields[k]; ok {
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[k] = v
	}

	return &m, nil
}
