// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/skillpack-core/manifest"
)

// frontmatterDelimiter marks the start and end of the manifest block.
const frontmatterDelimiter = "---"

// maxFrontmatterSize limits frontmatter to prevent YAML parsing attacks.
const maxFrontmatterSize = 64 * 1024

// ParsedPackage is the result of parsing a skill document.
type ParsedPackage struct {
	// Manifest is the validated frontmatter manifest.
	Manifest *manifest.Manifest
	// Body is the document body with surrounding whitespace trimmed.
	Body string
	// Raw is the full document as received.
	Raw string
}

// ParseDocument splits a skill document into its frontmatter manifest and
// body, and validates the manifest.
//
// Lower-level failures are wrapped in a *ParseError. Manifest schema
// violations propagate unwrapped as *manifest.ValidationError so callers can
// distinguish a malformed document from an invalid manifest.
func ParseDocument(text string) (*ParsedPackage, error) {
	fm, body, err := splitFrontmatter(text)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Validate(fm)
	if err != nil {
		var verr *manifest.ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, newParseError("validating frontmatter", err)
	}

	return &ParsedPackage{
		Manifest: m,
		Body:     strings.TrimSpace(body),
		Raw:      text,
	}, nil
}

// splitFrontmatter separates the leading frontmatter block, delimited by
// lines containing only "---", from the rest of the document. A document
// without a frontmatter block yields an empty manifest mapping, which then
// fails validation on the required fields.
func splitFrontmatter(text string) (map[string]any, string, error) {
	lines := strings.Split(text, "\n")

	if len(lines) == 0 || !isDelimiterLine(lines[0]) {
		return map[string]any{}, text, nil
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if isDelimiterLine(lines[i]) {
			closing = i
			break
		}
	}
	if closing == -1 {
		return nil, "", newParseError("frontmatter missing closing delimiter (---)", nil)
	}

	fmText := strings.Join(lines[1:closing], "\n")
	if len(fmText) > maxFrontmatterSize {
		return nil, "", newParseError("frontmatter exceeds maximum size", nil)
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(fmText), &fm); err != nil {
		return nil, "", newParseError("parsing frontmatter YAML", err)
	}
	if fm == nil {
		fm = map[string]any{}
	}

	body := strings.Join(lines[closing+1:], "\n")
	return fm, body, nil
}

// isDelimiterLine reports whether a line contains only the frontmatter
// delimiter, tolerating a trailing carriage return.
func isDelimiterLine(line string) bool {
	return strings.TrimRight(line, "\r") == frontmatterDelimiter
}
