package telephony

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const twilioBaseURL = "https://api.twilio.com"

// Client places outbound voice calls through the Twilio REST API.
type Client struct {
	accountSID string
	authToken  string
	callerID   string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithBaseURL(u string) Option {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(u, "/")
	}
}

func NewClient(accountSID, authToken, callerID string, opts ...Option) *Client {
	c := &Client{
		accountSID: accountSID,
		authToken:  authToken,
		callerID:   callerID,
		baseURL:    twilioBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the account credentials are set.
func (c *Client) Configured() bool {
	return c.accountSID != "" && c.authToken != "" && c.callerID != ""
}

type callResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// PlaceCall dials one number and instructs playback of the given audio
// URL. It returns the provider's call SID.
func (c *Client) PlaceCall(to, audioURL string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("telephony client not configured: missing account credentials")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.callerID)
	form.Set("Twiml", fmt.Sprintf("<Response><Play>%s</Play></Response>", audioURL))

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("place call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("telephony API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out callResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode call response: %w", err)
	}
	return out.SID, nil
}
