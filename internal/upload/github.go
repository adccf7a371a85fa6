package upload

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const githubAPIBaseURL = "https://api.github.com"

// Client publishes files through the GitHub contents API to obtain a
// public raw URL, which the telephony provider fetches during playback.
type Client struct {
	token      string
	repo       string
	path       string
	baseURL    string
	rawBaseURL string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURLs overrides the API and raw-content hosts, for tests.
func WithBaseURLs(api, raw string) Option {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(api, "/")
		cl.rawBaseURL = strings.TrimRight(raw, "/")
	}
}

func NewClient(token, repo, path string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		repo:       repo,
		path:       path,
		baseURL:    githubAPIBaseURL,
		rawBaseURL: "https://raw.githubusercontent.com",
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type putContentRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
}

// Upload stores the file under the configured repo path and returns its
// public raw-content URL. Spaces in the filename are normalized since
// they do not survive the raw URL.
func (c *Client) Upload(filename string, content []byte) (string, error) {
	if c.token == "" {
		return "", fmt.Errorf("upload client not configured: missing token")
	}

	filename = strings.ReplaceAll(filename, " ", "_")
	payload := putContentRequest{
		Message: fmt.Sprintf("Add new audio file %s", filename),
		Content: base64.StdEncoding.EncodeToString(content),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal upload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/contents/%s/%s", c.baseURL, c.repo, c.path, filename)
	req, err := http.NewRequest(http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upload API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return fmt.Sprintf("%s/%s/main/%s/%s", c.rawBaseURL, c.repo, c.path, filename), nil
}
