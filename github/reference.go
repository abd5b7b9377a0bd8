// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package github

import "strings"

// DefaultBranch is the branch assumed when a reference does not name one.
const DefaultBranch = "main"

// githubHost is the only repository host supported by this resolver.
const githubHost = "github.com"

// Reference is a resolved repository location.
type Reference struct {
	// Owner is the repository owner or organization.
	Owner string
	// Repo is the repository name.
	Repo string
	// Branch is the branch to fetch from.
	Branch string
	// Subdirectory is the path within the repository holding the skill,
	// empty for repository-root skills.
	Subdirectory string
}

// ParseReference resolves a repository URL into a structured reference.
// It accepts bare "owner/repo", "github.com/owner/repo" with or without an
// https scheme, the same with "/tree/<branch>" and an optional trailing
// subdirectory path, and any of those forms with a trailing ".git".
//
// defaultBranch is used when the URL does not name a branch; pass "" for
// DefaultBranch. The first segment after "tree/" is always taken as the
// complete branch, so branch names containing "/" are not supported.
func ParseReference(rawURL, defaultBranch string) (*Reference, error) {
	if defaultBranch == "" {
		defaultBranch = DefaultBranch
	}

	s := strings.TrimSpace(rawURL)
	if s == "" {
		return nil, &ParseError{URL: rawURL, msg: "empty URL"}
	}

	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	// A first segment with a dot or colon is a host; only github.com is
	// recognized. Anything else is a bare owner/repo path.
	if first, rest, ok := strings.Cut(s, "/"); ok && looksLikeHost(first) {
		if first != githubHost {
			return nil, &ParseError{URL: rawURL, msg: "host must be " + githubHost}
		}
		s = rest
	}

	segments := strings.Split(s, "/")
	for _, seg := range segments {
		if seg == "" {
			return nil, &ParseError{URL: rawURL, msg: "empty path segment"}
		}
	}

	ref := &Reference{Branch: defaultBranch}
	switch {
	case len(segments) == 2:
		ref.Owner, ref.Repo = segments[0], segments[1]
	case len(segments) >= 4 && segments[2] == "tree":
		ref.Owner, ref.Repo = segments[0], segments[1]
		ref.Branch = segments[3]
		ref.Subdirectory = strings.Join(segments[4:], "/")
	default:
		return nil, &ParseError{URL: rawURL, msg: "expected owner/repo or owner/repo/tree/<branch>[/<subdirectory>]"}
	}

	return ref, nil
}

// looksLikeHost reports whether a path segment denotes a host rather than a
// repository owner.
func looksLikeHost(segment string) bool {
	return strings.ContainsAny(segment, ".:")
}

// CanonicalURL returns the canonical https repository URL.
func (r *Reference) CanonicalURL() string {
	return "https://" + githubHost + "/" + r.Owner + "/" + r.Repo
}

// GitCloneURL returns the https git clone URL.
func (r *Reference) GitCloneURL() string {
	return r.CanonicalURL() + ".git"
}

// ArchiveURL returns the canonical branch archive download URL.
func ArchiveURL(ref *Reference) string {
	return archiveURL("https://"+githubHost, ref)
}

// RawFileURL returns the canonical raw-content URL for a file on the
// reference's branch.
func RawFileURL(ref *Reference, filePath string) string {
	return rawFileURL(defaultRawBaseURL, ref, filePath)
}

func archiveURL(base string, ref *Reference) string {
	return base + "/" + ref.Owner + "/" + ref.Repo + "/archive/refs/heads/" + ref.Branch + ".zip"
}

func rawFileURL(base string, ref *Reference, filePath string) string {
	return base + "/" + ref.Owner + "/" + ref.Repo + "/" + ref.Branch + "/" + filePath
}
