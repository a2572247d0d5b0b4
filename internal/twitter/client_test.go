package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xedule/internal/domain"
)

func testCreds() domain.Credentials {
	return domain.Credentials{
		AccountID:      "acct-1",
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		AccessToken:    "at",
		AccessSecret:   "as",
	}
}

func newTestClient(baseURL string) *Client {
	factory := NewFactory(Config{BaseURL: baseURL, Timeout: 5 * time.Second})
	return factory.New(testCreds())
}

func TestCreatePost_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tweets", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "OAuth")

		var req createPostRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello world", req.Text)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1880000000000000001","text":"hello world"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	id, err := client.CreatePost(context.Background(), "hello world")

	require.NoError(t, err)
	assert.Equal(t, "1880000000000000001", id)
}

func TestCreatePost_APIErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"title":"Too Many Requests","detail":"Rate limit exceeded","type":"about:blank"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.CreatePost(context.Background(), "rate limited")

	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "Rate limit exceeded")
}

func TestCreatePost_APIErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.CreatePost(context.Background(), "api down")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "publish api: status 503", apiErr.Error())
}

func TestCreatePost_TransportErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := newTestClient(server.URL)

	_, err := client.CreatePost(context.Background(), "unreachable")

	require.Error(t, err)
	assert.False(t, domain.IsRetryable(err))
}

func TestCreatePost_MissingIDIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.CreatePost(context.Background(), "weird response")

	require.Error(t, err)
	assert.False(t, domain.IsRetryable(err))
}
