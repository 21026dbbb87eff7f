// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultTimeout bounds every manifest fetch and script download.
	DefaultTimeout = 30 * time.Second

	// DefaultScriptsDir is the repository directory that holds the scripts.
	DefaultScriptsDir = "src"

	// maxJSONResponseBytes is the upper bound on the tree response size (10 MB).
	maxJSONResponseBytes = 10 << 20

	opFetchManifest  = "fetch manifest"
	opDownloadScript = "download script"
)

type (
	// Entry is one installable script in the manifest of a ref.
	Entry struct {
		Path string // Repository path, e.g. "src/packup.sh"
		Name string // File name without extension, e.g. "packup"
		Kind Kind   // Extension-derived kind
	}

	// githubTree is the JSON wire format of the Git trees API response.
	githubTree struct {
		SHA       string            `json:"sha"`
		Tree      []githubTreeEntry `json:"tree"`
		Truncated bool              `json:"truncated"`
	}

	// githubTreeEntry is one node of a recursive Git tree.
	githubTreeEntry struct {
		Path string `json:"path"`
		Type string `json:"type"`
	}

	// Client queries the GitHub trees API for the manifest and fetches raw
	// script content.
	Client struct {
		httpClient *http.Client
		owner      string        // Repository owner (default: "scruffaluff")
		repo       string        // Repository name (default: "scripts")
		scriptsDir string        // Directory holding the scripts (default: "src")
		baseURL    string        // API base URL (default: "https://api.github.com")
		rawURL     string        // Raw content base URL (default: "https://raw.githubusercontent.com")
		token      string        // Optional GITHUB_TOKEN for authenticated requests
		userAgent  string        // User-Agent header value
		timeout    time.Duration // Per-request timeout
		logger     *log.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)

	// timeoutBody cancels the request context once the body is closed and
	// reports deadline failures during reads as TimeoutError.
	timeoutBody struct {
		io.ReadCloser
		cancel  context.CancelFunc
		url     string
		timeout time.Duration
	}
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(g *Client) {
		g.httpClient = c
	}
}

// WithBaseURL overrides the GitHub API base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(g *Client) {
		g.baseURL = strings.TrimRight(base, "/")
	}
}

// WithRawURL overrides the raw content base URL, primarily for test servers.
func WithRawURL(base string) ClientOption {
	return func(g *Client) {
		g.rawURL = strings.TrimRight(base, "/")
	}
}

// WithToken sets a GitHub personal access token for authenticated requests.
func WithToken(token string) ClientOption {
	return func(g *Client) {
		g.token = token
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(g *Client) {
		g.userAgent = ua
	}
}

// WithRepo overrides the default repository owner and name.
func WithRepo(owner, repo string) ClientOption {
	return func(g *Client) {
		g.owner = owner
		g.repo = repo
	}
}

// WithScriptsDir overrides the repository directory scanned for scripts.
func WithScriptsDir(dir string) ClientOption {
	return func(g *Client) {
		g.scriptsDir = strings.Trim(dir, "/")
	}
}

// WithTimeout sets the per-request timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) ClientOption {
	return func(g *Client) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the logger used for debug and warning output.
func WithLogger(l *log.Logger) ClientOption {
	return func(g *Client) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewClient creates a Client with sensible defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		owner:      "scruffaluff",
		repo:       "scripts",
		scriptsDir: DefaultScriptsDir,
		baseURL:    "https://api.github.com",
		rawURL:     "https://raw.githubusercontent.com",
		userAgent:  "scripts-install/dev",
		timeout:    DefaultTimeout,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAvailable fetches the recursive tree of ref and returns the scripts it
// contains, in manifest order. A ref without qualifying files yields an empty,
// non-nil slice and no error.
func (c *Client) ListAvailable(ctx context.Context, ref string) ([]Entry, error) {
	treeURL := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=true",
		c.baseURL, c.owner, c.repo, url.PathEscape(ref))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.doRequest(ctx, treeURL, "application/vnd.github+json")
	if err != nil {
		return nil, c.classify(opFetchManifest, treeURL, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if rlErr := checkRateLimit(resp); rlErr != nil {
		return nil, rlErr
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		return nil, &FetchError{Op: opFetchManifest, URL: redactURL(treeURL), Err: fmt.Errorf("%w: %q", ErrRefNotFound, ref)}
	default:
		return nil, &FetchError{Op: opFetchManifest, URL: redactURL(treeURL), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var tree githubTree
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&tree); err != nil {
		return nil, c.classify(opFetchManifest, treeURL, fmt.Errorf("decoding tree: %w", err))
	}
	if tree.Truncated {
		c.logger.Warn("manifest tree truncated by the API, some scripts may be missing", "ref", ref)
	}

	entries := c.filterTree(tree.Tree)
	c.logger.Debug("fetched manifest", "ref", ref, "sha", tree.SHA, "scripts", len(entries))
	return entries, nil
}

// Download fetches the raw content of entry at ref. The caller is responsible
// for closing the returned ReadCloser; the request timeout stays armed until then.
func (c *Client) Download(ctx context.Context, ref string, entry Entry) (io.ReadCloser, error) {
	rawURL := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawURL, c.owner, c.repo, escapeSegments(ref), escapeSegments(entry.Path))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	resp, err := c.doRequest(ctx, rawURL, "")
	if err != nil {
		cancel()
		return nil, c.classify(opDownloadScript, rawURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		cancel()
		return nil, &FetchError{Op: opDownloadScript, URL: redactURL(rawURL), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	c.logger.Debug("downloading script", "path", entry.Path, "ref", ref)
	return &timeoutBody{ReadCloser: resp.Body, cancel: cancel, url: redactURL(rawURL), timeout: c.timeout}, nil
}

// escapeSegments path-escapes each slash-separated segment of p.
func escapeSegments(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// filterTree keeps blobs directly under the scripts directory with a supported extension.
func (c *Client) filterTree(nodes []githubTreeEntry) []Entry {
	entries := make([]Entry, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != "blob" || path.Dir(n.Path) != c.scriptsDir {
			continue
		}
		kind, err := KindOf(n.Path)
		if err != nil {
			continue
		}
		base := path.Base(n.Path)
		name := strings.TrimSuffix(base, kind.Ext())
		if name == "" {
			continue
		}
		entries = append(entries, Entry{Path: n.Path, Name: name, Kind: kind})
	}
	return entries
}

// doRequest creates and executes a GET request with common GitHub headers.
func (c *Client) doRequest(ctx context.Context, reqURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if accept != "" {
		req.Header.Set("Accept", accept)
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	}
	req.Header.Set("User-Agent", c.userAgent)

	// Only attach the auth token for the configured hosts.
	if c.token != "" && c.isGitHubHost(req.URL) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}

// classify maps a transport error to TimeoutError or FetchError.
func (c *Client) classify(op, reqURL string, err error) error {
	if isTimeout(err) {
		return &TimeoutError{Op: op, URL: redactURL(reqURL), Timeout: c.timeout}
	}
	return &FetchError{Op: op, URL: redactURL(reqURL), Err: err}
}

// isGitHubHost reports whether reqURL targets the configured API or raw host.
func (c *Client) isGitHubHost(reqURL *url.URL) bool {
	for _, base := range []string{c.baseURL, c.rawURL} {
		u, err := url.Parse(base)
		if err != nil {
			continue
		}
		if strings.EqualFold(reqURL.Host, u.Host) {
			return true
		}
	}
	return false
}

// Read forwards to the response body, turning deadline failures into TimeoutError.
func (b *timeoutBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF && isTimeout(err) {
		return n, &TimeoutError{Op: opDownloadScript, URL: b.url, Timeout: b.timeout}
	}
	return n, err //nolint:wrapcheck // io.EOF must pass through unwrapped.
}

// Close closes the body and releases the request context.
func (b *timeoutBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err //nolint:wrapcheck // Close error of the raw body.
}

// checkRateLimit returns a RateLimitError when the remaining quota is zero.
func checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil || rem > 0 {
		return nil //nolint:nilerr // Non-numeric header is non-fatal.
	}

	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))                 //nolint:errcheck // Best-effort header parsing.
	resetUnix, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64) //nolint:errcheck // Best-effort header parsing.

	return &RateLimitError{
		Limit:     limit,
		Remaining: 0,
		ResetAt:   time.Unix(resetUnix, 0),
	}
}

// redactURL strips query parameters and fragments from a URL for safe inclusion
// in error messages.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
