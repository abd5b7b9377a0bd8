// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stacklok/skillpack-core/github"
	"github.com/stacklok/skillpack-core/logger"
	"github.com/stacklok/skillpack-core/manifest"
	"github.com/stacklok/skillpack-core/pack"
	"github.com/stacklok/skillpack-core/resources"
)

// Importer orchestrates skill creation and import for a single owning user.
type Importer struct {
	ownerID       string
	skills        SkillStore
	res           *resources.Store
	fetcher       ArchiveFetcher
	defaultBranch string
	now           func() time.Time
}

// Option configures an Importer.
type Option func(*Importer)

// WithFetcher overrides the repository archive fetcher.
func WithFetcher(f ArchiveFetcher) Option {
	return func(i *Importer) {
		i.fetcher = f
	}
}

// WithDefaultBranch overrides the branch assumed when a repository URL names
// none.
func WithDefaultBranch(branch string) Option {
	return func(i *Importer) {
		i.defaultBranch = branch
	}
}

// WithClock overrides the time source used for generated identifiers.
func WithClock(now func() time.Time) Option {
	return func(i *Importer) {
		i.now = now
	}
}

// New creates an Importer scoped to the given owner.
// Panics if skills or res is nil.
func New(ownerID string, skills SkillStore, res *resources.Store, opts ...Option) *Importer {
	if skills == nil || res == nil {
		panic("importer: New called with nil collaborator")
	}
	i := &Importer{
		ownerID:       ownerID,
		skills:        skills,
		res:           res,
		defaultBranch: github.DefaultBranch,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.fetcher == nil {
		client, err := github.NewClient()
		if err != nil {
			panic("importer: default client: " + err.Error())
		}
		i.fetcher = client
	}
	return i
}

// CreateUserSkillRequest carries the fields for a manually created skill.
type CreateUserSkillRequest struct {
	// Identifier is the desired identifier; generated when empty.
	Identifier string
	// Name is the skill name.
	Name string
	// Description is the skill description.
	Description string
	// Content is the skill document body.
	Content string
}

// CreateUserSkill creates a skill record from user-provided fields. When no
// identifier is given one is generated from the owner and current time. An
// existing identifier fails with CONFLICT.
func (i *Importer) CreateUserSkill(ctx context.Context, req CreateUserSkillRequest) (*SkillRecord, error) {
	identifier := req.Identifier
	if identifier == "" {
		identifier = i.generatedIdentifier("user")
	}

	existing, err := i.skills.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("looking up skill %s: %w", identifier, err)
	}
	if existing != nil {
		return nil, newImportError(CodeConflict, "skill already exists: "+identifier, nil)
	}

	record := &SkillRecord{
		Identifier:  identifier,
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		Manifest: map[string]any{
			"name":        req.Name,
			"description": req.Description,
		},
		Source:      SourceUser,
		ResourceIDs: map[string]string{},
	}
	if err := i.skills.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("creating skill %s: %w", identifier, err)
	}

	logger.Infow("created user skill", "identifier", identifier)
	return record, nil
}

// ImportFromArchiveUpload imports a skill from a previously uploaded archive,
// addressed by its file record id. A missing record, unreadable object, or
// unusable archive fails with FILE_NOT_FOUND.
func (i *Importer) ImportFromArchiveUpload(ctx context.Context, fileRef string) (*SkillRecord, error) {
	record, err := i.res.Registry().FindByID(ctx, fileRef)
	if err != nil {
		return nil, fmt.Errorf("resolving uploaded file %s: %w", fileRef, err)
	}
	if record == nil {
		return nil, newImportError(CodeFileNotFound, "uploaded file not found: "+fileRef, nil)
	}

	data, err := i.res.Storage().Get(ctx, record.URL)
	if err != nil {
		return nil, newImportError(CodeFileNotFound, "reading uploaded file "+fileRef, err)
	}

	// Stage through a scoped temp file so oversized uploads never pin two
	// copies in memory longer than the parse itself.
	staged, cleanup, err := stageArchive(data)
	if err != nil {
		return nil, fmt.Errorf("staging uploaded file %s: %w", fileRef, err)
	}
	defer cleanup()

	parsed, err := pack.ParseArchive(staged, pack.ParseArchiveOptions{})
	if err != nil {
		return nil, newImportError(CodeFileNotFound, "parsing uploaded archive "+fileRef, err)
	}

	resourceIDs, err := i.storeResources(ctx, parsed)
	if err != nil {
		return nil, err
	}

	skill := &SkillRecord{
		Identifier:  i.generatedIdentifier("import"),
		Name:        parsed.Manifest.Name,
		Description: parsed.Manifest.Description,
		Content:     parsed.Body,
		Manifest:    parsed.Manifest.ToMap(),
		Source:      SourceUser,
		ResourceIDs: resourceIDs,
		ArchiveHash: parsed.ArchiveHash,
	}
	if err := i.skills.Create(ctx, skill); err != nil {
		return nil, fmt.Errorf("creating skill %s: %w", skill.Identifier, err)
	}

	logger.Infow("imported skill from upload",
		"identifier", skill.Identifier, "fileRef", fileRef, "resources", len(resourceIDs))
	return skill, nil
}

// ImportFromRepositoryRequest identifies a repository to import from.
type ImportFromRepositoryRequest struct {
	// URL is the repository URL, in any accepted form.
	URL string
	// Branch overrides the branch assumed when the URL names none.
	Branch string
}

// ImportFromRepository imports a skill from a repository branch archive.
// The identifier derives from the repository coordinates, so re-importing the
// same repository and subdirectory updates the existing record in place.
func (i *Importer) ImportFromRepository(ctx context.Context, req ImportFromRepositoryRequest) (*SkillRecord, error) {
	defaultBranch := req.Branch
	if defaultBranch == "" {
		defaultBranch = i.defaultBranch
	}

	ref, err := github.ParseReference(req.URL, defaultBranch)
	if err != nil {
		return nil, newImportError(CodeInvalidURL, "parsing repository URL "+req.URL, err)
	}

	data, err := i.fetcher.FetchArchive(ctx, ref)
	if err != nil {
		var nfe *github.NotFoundError
		if errors.As(err, &nfe) {
			return nil, newImportError(CodeNotFound, "repository or branch not found: "+ref.CanonicalURL(), err)
		}
		return nil, newImportError(CodeDownloadFailed, "downloading archive for "+ref.CanonicalURL(), err)
	}

	parsed, err := pack.ParseArchive(data, pack.ParseArchiveOptions{
		SubdirectoryHint: ref.Subdirectory,
	})
	if err != nil {
		return nil, newImportError(CodeDownloadFailed, "parsing archive for "+ref.CanonicalURL(), err)
	}

	resourceIDs, err := i.storeResources(ctx, parsed)
	if err != nil {
		return nil, err
	}

	manifestMap := withProvenance(parsed.Manifest, ref)
	identifier := repositoryIdentifier(ref)

	existing, err := i.skills.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("looking up skill %s: %w", identifier, err)
	}
	if existing != nil {
		existing.Name = parsed.Manifest.Name
		existing.Description = parsed.Manifest.Description
		existing.Content = parsed.Body
		existing.Manifest = manifestMap
		existing.ResourceIDs = resourceIDs
		existing.ArchiveHash = parsed.ArchiveHash
		if err := i.skills.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("updating skill %s: %w", identifier, err)
		}
		logger.Infow("updated skill from repository",
			"identifier", identifier, "repository", ref.CanonicalURL())
		return existing, nil
	}

	skill := &SkillRecord{
		Identifier:  identifier,
		Name:        parsed.Manifest.Name,
		Description: parsed.Manifest.Description,
		Content:     parsed.Body,
		Manifest:    manifestMap,
		Source:      SourceMarket,
		ResourceIDs: resourceIDs,
		ArchiveHash: parsed.ArchiveHash,
	}
	if err := i.skills.Create(ctx, skill); err != nil {
		return nil, fmt.Errorf("creating skill %s: %w", identifier, err)
	}

	logger.Infow("imported skill from repository",
		"identifier", identifier, "repository", ref.CanonicalURL(), "resources", len(resourceIDs))
	return skill, nil
}

// storeResources persists the parsed archive's resources. When hashing was
// skipped there is no stable key prefix, so resources are not persisted and
// the mapping is empty.
func (i *Importer) storeResources(ctx context.Context, parsed *pack.ParsedArchivePackage) (map[string]string, error) {
	if parsed.ArchiveHash == "" || len(parsed.Resources) == 0 {
		return map[string]string{}, nil
	}
	ids, err := i.res.StoreAll(ctx, parsed.ArchiveHash, parsed.Resources)
	if err != nil {
		return nil, fmt.Errorf("storing skill resources: %w", err)
	}
	return ids, nil
}

// generatedIdentifier builds a time-based identifier in the owner's scope.
func (i *Importer) generatedIdentifier(kind string) string {
	return kind + "." + i.ownerID + "." + strconv.FormatInt(i.now().UnixMilli(), 10)
}

// repositoryIdentifier derives a stable identifier from repository
// coordinates. The subdirectory participates so distinct skills in one
// repository stay distinct.
func repositoryIdentifier(ref *github.Reference) string {
	identifier := "github." + ref.Owner + "." + ref.Repo
	if ref.Subdirectory != "" {
		identifier += "." + strings.ReplaceAll(ref.Subdirectory, "/", ".")
	}
	return identifier
}

// withProvenance returns the manifest mapping with repository provenance
// overriding any same-named parsed fields.
func withProvenance(m *manifest.Manifest, ref *github.Reference) map[string]any {
	out := m.ToMap()
	out["repository"] = ref.CanonicalURL()
	out["gitUrl"] = ref.GitCloneURL()
	return out
}

// stageArchive writes archive bytes to a scoped temp file and reads them back.
// The returned cleanup removes the file and must be called on every exit path.
func stageArchive(data []byte) ([]byte, func(), error) {
	f, err := os.CreateTemp("", "skillpack-upload-*.zip")
	if err != nil {
		return nil, nil, fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()
	cleanup := func() {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			logger.Warnw("removing staged archive", "path", name, "error", err)
		}
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return nil, nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("closing temp file: %w", err)
	}

	staged, err := os.ReadFile(name)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("reading temp file: %w", err)
	}
	return staged, cleanup, nil
}
