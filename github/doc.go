// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package github resolves heterogeneous GitHub repository URL syntaxes into
structured references and downloads repository content.

ParseReference accepts five URL forms:

	owner/repo
	github.com/owner/repo
	https://github.com/owner/repo
	https://github.com/owner/repo/tree/<branch>
	https://github.com/owner/repo/tree/<branch>/<subdirectory...>

each optionally with a trailing ".git". The first segment after "tree/" is
always taken as the complete branch; branch names containing "/" are not
disambiguated from a following subdirectory path.

Client fetches branch archives and raw files over HTTP with a configurable
client-identifier header. Remote 404s surface as *NotFoundError, other HTTP
failures as *DownloadError.
*/
package github
