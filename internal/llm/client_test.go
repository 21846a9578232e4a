package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testOptions(url string) Options {
	return Options{
		BaseURL:    url,
		APIKey:     "sk-test",
		ChatModel:  "test-chat",
		ImageModel: "test-image",
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	}
}

func TestChatClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-chat", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "make soup", req.Messages[1].Content)
		assert.Equal(t, "json_object", req.ResponseFormat["type"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"title\":\"Soup\"} "}}]}`))
	}))
	defer server.Close()

	client := NewChatClient(testOptions(server.URL), zap.NewNop())
	content, err := client.Complete(context.Background(), "you are a chef", "make soup")

	require.NoError(t, err)
	assert.Equal(t, `{"title":"Soup"}`, content)
}

func TestChatClientRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewChatClient(testOptions(server.URL), zap.NewNop())
	content, err := client.Complete(context.Background(), "s", "u")

	require.NoError(t, err)
	assert.Equal(t, "ok", content)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestChatClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"client error", http.StatusBadRequest, `{"error":{"message":"bad"}}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`},
		{"malformed", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			opts := testOptions(server.URL)
			opts.MaxRetries = 0
			_, err := NewChatClient(opts, zap.NewNop()).Complete(context.Background(), "s", "u")
			assert.Error(t, err)
		})
	}
}

func TestImageClientGenerateImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)

		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-image", req.Model)
		assert.Equal(t, "1024x1024", req.Size)
		assert.Equal(t, "url", req.ResponseFormat)

		_, _ = w.Write([]byte(`{"created":1,"data":[{"url":"https://images.example.com/a.png"}]}`))
	}))
	defer server.Close()

	client := NewImageClient(testOptions(server.URL), time.Second, zap.NewNop())
	url, err := client.GenerateImage(context.Background(), "a bowl of soup")

	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/a.png", url)
}

func TestImageClientEmptyURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"created":1,"data":[{"url":""}]}`))
	}))
	defer server.Close()

	_, err := NewImageClient(testOptions(server.URL), time.Second, zap.NewNop()).GenerateImage(context.Background(), "p")
	assert.Error(t, err)
}
