// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"encoding/json"
	"fmt"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// ArtifactTypeSkill identifies skill artifacts in manifests.
const ArtifactTypeSkill = "dev.skillpack.skill.v1"

// Annotation keys for skill metadata in manifests.
const (
	// AnnotationSkillName is the annotation key for skill name.
	AnnotationSkillName = "dev.skillpack.skill.name"

	// AnnotationSkillDescription is the annotation key for skill description.
	AnnotationSkillDescription = "dev.skillpack.skill.description"

	// AnnotationSkillVersion is the annotation key for skill version.
	AnnotationSkillVersion = "dev.skillpack.skill.version"
)

// Label keys for skill metadata in OCI image config.
const (
	// LabelSkillName is the label key for skill name.
	LabelSkillName = "dev.skillpack.skill.name"

	// LabelSkillDescription is the label key for skill description.
	LabelSkillDescription = "dev.skillpack.skill.description"

	// LabelSkillVersion is the label key for skill version.
	LabelSkillVersion = "dev.skillpack.skill.version"

	// LabelSkillLicense is the label key for skill license.
	LabelSkillLicense = "dev.skillpack.skill.license"

	// LabelSkillFiles is the label key for skill files (JSON array).
	LabelSkillFiles = "dev.skillpack.skill.files"
)

// SkillConfig represents skill metadata carried in OCI image config labels.
type SkillConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version,omitempty"`
	License     string   `json:"license,omitempty"`
	Files       []string `json:"files"`
}

// SkillConfigFromImageConfig extracts SkillConfig from OCI image config
// labels.
func SkillConfigFromImageConfig(imgConfig *ocispec.Image) (*SkillConfig, error) {
	if imgConfig == nil {
		return nil, fmt.Errorf("image config is nil")
	}

	labels := imgConfig.Config.Labels
	if labels == nil {
		return nil, fmt.Errorf("oci config has no labels")
	}

	config := &SkillConfig{
		Name:        labels[LabelSkillName],
		Description: labels[LabelSkillDescription],
		Version:     labels[LabelSkillVersion],
		License:     labels[LabelSkillLicense],
	}
	if config.Name == "" {
		return nil, fmt.Errorf("skill name is required in labels")
	}

	if filesJSON := labels[LabelSkillFiles]; filesJSON != "" {
		if err := json.Unmarshal([]byte(filesJSON), &config.Files); err != nil {
			return nil, fmt.Errorf("parsing files: %w", err)
		}
	}

	return config, nil
}
