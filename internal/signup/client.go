package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nfrund/stucruum/internal/domain"
)

// EndpointPath is the path of the remote sign-up endpoint, relative to the
// configured API base URL.
const EndpointPath = "/api/auth/signup"

// RejectedError reports that the endpoint answered with a non-success status.
type RejectedError struct {
	StatusCode int
}

func (e *RejectedError) Error() string { return MsgRejected }

// Client posts drafts to the remote sign-up endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client for the API rooted at baseURL. A nil httpClient
// falls back to http.DefaultClient. No timeout is applied: a request lives
// exactly as long as the context passed to Submit.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + EndpointPath,
		httpClient: httpClient,
	}
}

// Endpoint returns the absolute URL drafts are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Submit implements domain.SignupSubmitter. Any 2xx answer is a success and
// the response body is discarded.
func (c *Client) Submit(ctx context.Context, draft domain.Draft) error {
	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode sign-up draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create sign-up request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RejectedError{StatusCode: resp.StatusCode}
	}
	return nil
}
