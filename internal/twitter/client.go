package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"

	"xedule/internal/domain"
)

// APIError is a failure reported by the publish API itself. These are
// treated as transient and retried with backoff.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("publish api: %d %s: %s", e.StatusCode, e.Title, e.Detail)
	}
	return fmt.Sprintf("publish api: status %d", e.StatusCode)
}

func (e *APIError) Retryable() bool {
	return true
}

// Config holds publish API client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Factory builds per-account publish clients. Construction signs nothing
// and performs no network activity; failures surface on the first call.
type Factory struct {
	baseURL string
	timeout time.Duration
}

func NewFactory(cfg Config) *Factory {
	return &Factory{
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
	}
}

// New binds a stateless client to one account's OAuth1 credentials.
func (f *Factory) New(creds domain.Credentials) *Client {
	oauthConfig := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = f.timeout

	return &Client{
		httpClient: httpClient,
		baseURL:    f.baseURL,
	}
}

// Client publishes posts on behalf of one account.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// CreatePost submits the text to the API and returns the identifier the
// remote side assigned to it.
func (c *Client) CreatePost(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(createPostRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Xedule/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", apiError(resp)
	}

	var created createPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if created.Data.ID == "" {
		return "", errors.New("response carries no post id")
	}

	return created.Data.ID, nil
}

func apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err == nil {
		apiErr.Title = payload.Title
		apiErr.Detail = payload.Detail
	}

	return apiErr
}
