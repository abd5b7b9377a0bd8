// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/http/httpguts"

	"github.com/stacklok/skillpack-core/logger"
)

// defaultBaseURL is the canonical repository host.
const defaultBaseURL = "https://" + githubHost

// defaultRawBaseURL is the canonical raw-content host.
const defaultRawBaseURL = "https://raw.githubusercontent.com"

// defaultUserAgent identifies this client to the remote host.
const defaultUserAgent = "skillpack-core"

// MaxDownloadSize is the maximum size of a downloaded archive or raw file
// (100MB). This prevents resource exhaustion from oversized remotes.
const MaxDownloadSize int64 = 100 * 1024 * 1024

// Client downloads repository content over HTTP.
// Requests carry no built-in timeout; callers needing bounded latency must
// impose a deadline through the context or the injected http.Client.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	rawBaseURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the http.Client used for fetches.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the client-identifier header sent with every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithBaseURL overrides the repository host, e.g. for a GitHub Enterprise
// installation or a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRawBaseURL overrides the raw-content host.
func WithRawBaseURL(rawBaseURL string) ClientOption {
	return func(c *Client) {
		c.rawBaseURL = rawBaseURL
	}
}

// NewClient creates a repository content client with the given options.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  defaultUserAgent,
		baseURL:    defaultBaseURL,
		rawBaseURL: defaultRawBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if !httpguts.ValidHeaderFieldValue(c.userAgent) {
		return nil, fmt.Errorf("invalid client-identifier header value %q", c.userAgent)
	}

	return c, nil
}

// FetchArchive downloads the branch archive for the given reference.
func (c *Client) FetchArchive(ctx context.Context, ref *Reference) ([]byte, error) {
	return c.get(ctx, archiveURL(c.baseURL, ref))
}

// FetchRawFile downloads a single file from the reference's branch.
func (c *Client) FetchRawFile(ctx context.Context, ref *Reference, filePath string) ([]byte, error) {
	return c.get(ctx, rawFileURL(c.rawBaseURL, ref, filePath))
}

// get performs an HTTP GET, mapping 404 to NotFoundError and any other
// non-success status to DownloadError.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &DownloadError{URL: url, err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	logger.Debugw("fetching repository content", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: url, err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{URL: url}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	limitedReader := io.LimitReader(resp.Body, MaxDownloadSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, &DownloadError{URL: url, err: err}
	}
	if int64(len(data)) > MaxDownloadSize {
		return nil, &DownloadError{URL: url, err: fmt.Errorf("response exceeds maximum size of %d bytes", MaxDownloadSize)}
	}

	return data, nil
}
