package cocalc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	fieldAPIKey    = "api_key"
	fieldBaseURL   = "base_url"
	fieldProjectID = "project_id"
)

const maxErrorBodyBytes = 64 << 10

// WithHTTPClient sets the http.Client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithProjectRequired makes a missing project id a construction error.
func WithProjectRequired() Option {
	return func(c *Client) { c.requireProject = true }
}

// New validates the credentials and returns a Client bound to them.
func New(creds Credentials, opts ...Option) (*Client, error) {
	c := &Client{
		apiKey:     strings.TrimSpace(creds.APIKey),
		projectID:  strings.TrimSpace(creds.ProjectID),
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if len(c.apiKey) == 0 {
		return nil, &ConfigError{Field: fieldAPIKey, Err: ErrMissingCredential}
	}

	baseURL := strings.TrimSpace(creds.BaseURL)
	if len(baseURL) == 0 {
		return nil, &ConfigError{Field: fieldBaseURL, Err: ErrMissingCredential}
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, &ConfigError{Field: fieldBaseURL, Err: fmt.Errorf("%w: %w", ErrInvalidURL, err)}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &ConfigError{Field: fieldBaseURL, Err: fmt.Errorf("%w: base url must be absolute", ErrInvalidURL)}
	}

	// endpoints resolve relative to the base path
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c.baseURL = u

	if c.requireProject && len(c.projectID) == 0 {
		return nil, &ConfigError{Field: fieldProjectID, Err: ErrMissingCredential}
	}

	return c, nil
}

// NewTempPath returns a fresh temp/<uuid>/main.tex path.
func NewTempPath() string {
	return path.Join("temp", uuid.NewString(), "main.tex")
}

// ProjectID returns the project id sent with every request, empty when unset.
func (c *Client) ProjectID() string { return c.projectID }

// BaseURL returns the API base url, always ending in a slash.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Latex compiles a LaTeX document in the remote project and returns the PDF.
//
// In temporary mode the compile status is checked and the parent directory of
// the request path is removed on every return path once the compile request
// has been answered. A path directly under the project root ("main.tex",
// "/main.tex") has no directory of its own, so no cleanup command is sent
// for it.
func (c *Client) Latex(ctx context.Context, lr LatexRequest) (pdf []byte, err error) {
	slog.Debug(">>Latex")
	defer slog.Debug("<<Latex")

	texPath := lr.Path
	if len(texPath) == 0 {
		texPath = NewTempPath()
	}

	command := lr.Command
	if len(command) == 0 {
		command = DefaultLatexCommand
	}

	form := url.Values{}
	form.Set("path", texPath)
	if len(lr.Content) != 0 {
		form.Set("content", lr.Content)
	}
	form.Set("command", command)
	if len(c.projectID) != 0 {
		form.Set("project_id", c.projectID)
	}

	resp, err := c.request(ctx, LatexEndpoint, http.MethodPost, form)
	if err != nil {
		slog.Error("Failed to send the latex request", "path", texPath, "error", err)
		return nil, err
	}

	if lr.Temporary {
		defer func() {
			dir := path.Dir(texPath)
			cleanupErr := c.rmDir(context.WithoutCancel(ctx), dir)
			if cleanupErr != nil {
				slog.Error("Failed to remove the temporary directory", "dir", dir, "error", cleanupErr)
				err = errors.Join(err, cleanupErr)
				pdf = nil
			}
		}()
	}

	if err := checkStatus(resp); err != nil {
		slog.Error("Latex request was rejected", "path", texPath, "error", err)
		return nil, err
	}

	latexResp, err := NewLatexResponse(resp)
	if err != nil {
		slog.Error("Failed to decode the latex response", "path", texPath, "error", err)
		return nil, err
	}

	if lr.Temporary && latexResp.Failed() {
		msg := latexResp.CompileError()
		slog.Error("LaTeX compile failed", "path", texPath, "error", msg)
		return nil, &CompileError{Message: msg}
	}

	return c.downloadPDF(ctx, latexResp.Result.URL)
}

// Exec runs a shell command in the remote project. The response is returned
// untouched and the caller must close its body.
func (c *Client) Exec(ctx context.Context, command string) (*http.Response, error) {
	slog.Debug(">>Exec")
	defer slog.Debug("<<Exec")

	form := url.Values{}
	form.Set("command", command)
	if len(c.projectID) != 0 {
		form.Set("project_id", c.projectID)
	}

	return c.request(ctx, ProjectExecEndpoint, http.MethodPost, form)
}

func (c *Client) rmDir(ctx context.Context, dir string) error {
	switch dir {
	case "", ".", "/":
		slog.Warn("Skipping removal of the project root", "dir", dir)
		return nil
	}

	resp, err := c.Exec(ctx, "rm -rf "+dir)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		slog.Warn("Remote cleanup returned an unexpected status", "dir", dir, "status", resp.StatusCode)
	}

	return nil
}

func (c *Client) request(ctx context.Context, endpoint string, method string, form url.Values) (*http.Response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	endpointURL := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(endpoint, "/")})

	req, err := http.NewRequestWithContext(ctx, method, endpointURL.String(), body)
	if err != nil {
		return nil, err
	}

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cocalc: %s %s: %w", method, endpoint, err)
	}

	return resp, nil
}

func (c *Client) downloadPDF(ctx context.Context, rawURL string) ([]byte, error) {
	slog.Debug(">>downloadPDF")
	defer slog.Debug("<<downloadPDF")

	pdfURL, err := c.resolveDownloadURL(rawURL)
	if err != nil {
		slog.Error("Invalid PDF url in the latex response", "url", rawURL, "error", err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Failed to download the PDF", "url", pdfURL.String(), "error", err)
		return nil, fmt.Errorf("cocalc: download pdf: %w", err)
	}

	if err := checkStatus(resp); err != nil {
		slog.Error("PDF download was rejected", "url", pdfURL.String(), "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cocalc: read pdf: %w", err)
	}

	return pdf, nil
}

// resolveDownloadURL accepts absolute http(s) urls and resolves relative ones
// against the base url.
func (c *Client) resolveDownloadURL(rawURL string) (*url.URL, error) {
	if len(strings.TrimSpace(rawURL)) == 0 {
		return nil, fmt.Errorf("%w: empty pdf url", ErrInvalidURL)
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if !u.IsAbs() {
		u = c.baseURL.ResolveReference(u)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	return u, nil
}

// checkStatus closes the body of a non-2xx response and returns a *StatusError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	se := &StatusError{StatusCode: resp.StatusCode, Body: body}
	if resp.Request != nil {
		se.Method = resp.Request.Method
		se.URL = resp.Request.URL.String()
	}

	return se
}
