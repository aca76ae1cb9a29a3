package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-advisor/internal/llm"
	"service-advisor/internal/shared/telemetry"
)

func quietLogs(t *testing.T) {
	t.Helper()
	t.Cleanup(telemetry.SetOutput(io.Discard))
}

func TestNewClientRequiresCredential(t *testing.T) {
	_, err := NewClient("", "gemini-2.0-flash", "", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrNotConfigured))
}

func TestGenerateSendsContentsBody(t *testing.T) {
	quietLogs(t)

	var gotPath, gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", "gemini-2.0-flash", server.URL+"/v1beta/", time.Second)
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), "hello prompt")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"candidates":[]}`, string(resp.Body))
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	contents := gotBody["contents"].([]any)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 1)
	assert.Equal(t, "hello prompt", parts[0].(map[string]any)["text"])
}

func TestGenerateReturnsNon2xxAsResponse(t *testing.T) {
	quietLogs(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota"}}`))
	}))
	defer server.Close()

	client, err := NewClient("k", "m", server.URL, time.Second)
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "quota")
}

func TestGenerateConnectionFailureIsTransportError(t *testing.T) {
	quietLogs(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := NewClient("k", "m", baseURL, time.Second)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "p")
	var transportErr *llm.TransportError
	require.True(t, errors.As(err, &transportErr), "expected TransportError, got %v", err)
}

func TestGenerateTimeoutIsTransportError(t *testing.T) {
	quietLogs(t)

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient("k", "m", server.URL, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "p")
	var transportErr *llm.TransportError
	require.True(t, errors.As(err, &transportErr), "expected TransportError, got %v", err)
	assert.True(t, transportErr.Timeout())
}
