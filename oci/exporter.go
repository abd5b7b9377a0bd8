// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
	specs "github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/stacklok/skillpack-core/pack"
)

// Exporter writes parsed skill packages into a local OCI store as
// reproducible artifacts.
type Exporter struct {
	store *Store
}

// ExportOptions configures artifact creation.
type ExportOptions struct {
	// Epoch is the timestamp pinned into layer and config metadata.
	Epoch time.Time

	// Tag overrides the tag derived from the skill name and version.
	Tag string
}

// ExportResult describes the stored artifact.
type ExportResult struct {
	// ManifestDigest is the digest of the OCI image manifest.
	ManifestDigest digest.Digest
	// ConfigDigest is the digest of the image config blob.
	ConfigDigest digest.Digest
	// LayerDigest is the digest of the compressed content layer.
	LayerDigest digest.Digest
	// Tag is the tag the manifest was stored under.
	Tag string
	// Config is the skill metadata written into the config labels.
	Config *SkillConfig
}

// NewExporter creates an exporter backed by the given store.
// Panics if store is nil.
func NewExporter(store *Store) *Exporter {
	if store == nil {
		panic("oci: NewExporter called with nil store")
	}
	return &Exporter{store: store}
}

// DefaultExportOptions returns default export options.
// Respects SOURCE_DATE_EPOCH for reproducible builds.
func DefaultExportOptions() ExportOptions {
	epoch := time.Unix(0, 0).UTC()

	if sde := os.Getenv("SOURCE_DATE_EPOCH"); sde != "" {
		if ts, err := strconv.ParseInt(sde, 10, 64); err == nil {
			epoch = time.Unix(ts, 0).UTC()
		}
	}

	return ExportOptions{Epoch: epoch}
}

// Export builds a skill artifact from a parsed package and stores it.
// The content layer holds SKILL.md and every resource; the config carries
// the manifest metadata as labels; the manifest is tagged with the skill
// name and version.
func (e *Exporter) Export(ctx context.Context, pkg *pack.ParsedArchivePackage, opts ExportOptions) (*ExportResult, error) {
	if opts.Epoch.IsZero() {
		opts.Epoch = time.Unix(0, 0).UTC()
	}

	layerBytes, uncompressedTar, err := buildContentLayer(pkg, opts)
	if err != nil {
		return nil, fmt.Errorf("building content layer: %w", err)
	}

	layerDigest, err := e.store.PutBlob(ctx, layerBytes)
	if err != nil {
		return nil, fmt.Errorf("storing layer blob: %w", err)
	}

	imgConfig, skillConfig := buildImageConfig(pkg, uncompressedTar, opts)
	configBytes, err := json.Marshal(imgConfig)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}

	configDigest, err := e.store.PutBlob(ctx, configBytes)
	if err != nil {
		return nil, fmt.Errorf("storing config blob: %w", err)
	}

	ociManifest := buildManifest(configBytes, configDigest, layerBytes, layerDigest, pkg, opts)
	manifestBytes, err := json.Marshal(ociManifest)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}

	manifestDigest, err := e.store.PutManifest(ctx, manifestBytes)
	if err != nil {
		return nil, fmt.Errorf("storing manifest: %w", err)
	}

	tag := opts.Tag
	if tag == "" {
		tag = DeriveTag(pkg.Manifest.Name, pkg.Manifest.Version)
	}
	if err := e.store.Tag(ctx, manifestDigest, tag); err != nil {
		return nil, fmt.Errorf("tagging manifest: %w", err)
	}

	return &ExportResult{
		ManifestDigest: manifestDigest,
		ConfigDigest:   configDigest,
		LayerDigest:    layerDigest,
		Tag:            tag,
		Config:         skillConfig,
	}, nil
}

// buildContentLayer creates the reproducible tar.gz layer. Returns both
// compressed and uncompressed bytes (uncompressed is needed for the
// config's diff_id).
func buildContentLayer(pkg *pack.ParsedArchivePackage, opts ExportOptions) (compressed, uncompressed []byte, err error) {
	files := make([]FileEntry, 0, len(pkg.Resources)+1)
	files = append(files, FileEntry{
		Path:    pack.ManifestFileName,
		Content: []byte(pkg.Raw),
	})
	for p, content := range pkg.Resources {
		files = append(files, FileEntry{Path: p, Content: content})
	}

	tarOpts := TarOptions{Epoch: opts.Epoch}

	uncompressed, err = CreateTar(files, tarOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("creating tar: %w", err)
	}

	compressed, err = Compress(uncompressed, DefaultGzipOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("compressing tar: %w", err)
	}

	return compressed, uncompressed, nil
}

// buildImageConfig creates the OCI image config with skill metadata in
// labels.
func buildImageConfig(pkg *pack.ParsedArchivePackage, uncompressedTar []byte, opts ExportOptions) (*ocispec.Image, *SkillConfig) {
	allFiles := []string{pack.ManifestFileName}
	for p := range pkg.Resources {
		allFiles = append(allFiles, p)
	}
	slices.Sort(allFiles)

	skillConfig := &SkillConfig{
		Name:        pkg.Manifest.Name,
		Description: pkg.Manifest.Description,
		Version:     pkg.Manifest.Version,
		License:     pkg.Manifest.License,
		Files:       allFiles,
	}

	filesJSON, _ := json.Marshal(skillConfig.Files)

	epoch := opts.Epoch
	imgConfig := &ocispec.Image{
		Created: &epoch,
		Config: ocispec.ImageConfig{
			Labels: map[string]string{
				LabelSkillName:        skillConfig.Name,
				LabelSkillDescription: skillConfig.Description,
				LabelSkillVersion:     skillConfig.Version,
				LabelSkillLicense:     skillConfig.License,
				LabelSkillFiles:       string(filesJSON),
			},
		},
		RootFS: ocispec.RootFS{
			Type:    "layers",
			DiffIDs: []digest.Digest{digest.FromBytes(uncompressedTar)},
		},
		History: []ocispec.History{
			{
				Created:   &epoch,
				CreatedBy: "skillpack export",
			},
		},
	}

	return imgConfig, skillConfig
}

// buildManifest creates the single-platform OCI image manifest.
func buildManifest(
	configBytes []byte,
	configDigest digest.Digest,
	layerBytes []byte,
	layerDigest digest.Digest,
	pkg *pack.ParsedArchivePackage,
	opts ExportOptions,
) *ocispec.Manifest {
	return &ocispec.Manifest{
		Versioned:    specs.Versioned{SchemaVersion: 2},
		MediaType:    ocispec.MediaTypeImageManifest,
		ArtifactType: ArtifactTypeSkill,
		Config: ocispec.Descriptor{
			MediaType: ocispec.MediaTypeImageConfig,
			Digest:    configDigest,
			Size:      int64(len(configBytes)),
		},
		Layers: []ocispec.Descriptor{
			{
				MediaType: ocispec.MediaTypeImageLayerGzip,
				Digest:    layerDigest,
				Size:      int64(len(layerBytes)),
			},
		},
		Annotations: map[string]string{
			ocispec.AnnotationCreated:  opts.Epoch.Format(time.RFC3339),
			AnnotationSkillName:        pkg.Manifest.Name,
			AnnotationSkillDescription: pkg.Manifest.Description,
			AnnotationSkillVersion:     pkg.Manifest.Version,
		},
	}
}

// DeriveTag builds a valid OCI tag from a skill name and version.
// Version defaults to "latest" when empty.
func DeriveTag(name, version string) string {
	if version == "" {
		version = "latest"
	}
	tag := sanitizeTagPart(name) + "-" + sanitizeTagPart(version)
	if len(tag) > maxTagLength {
		tag = tag[:maxTagLength]
	}
	return tag
}

// maxTagLength is the OCI distribution spec's tag length limit.
const maxTagLength = 128

// sanitizeTagPart maps arbitrary text onto the OCI tag character set,
// replacing disallowed characters with underscores.
func sanitizeTagPart(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case i > 0 && (r == '.' || r == '-'):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		out = "_"
	}
	if len(out) > maxTagLength {
		out = out[:maxTagLength]
	}
	return out
}
