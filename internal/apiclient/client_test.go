package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/lexbrief/internal/dtos"
)

func TestQuery_Success(t *testing.T) {
	var got dtos.ChatRequestDTO
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ChatPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"explanation":"Held liable.","precedents":[{"case_name":"Rylands v Fletcher","excerpt":"escape of things"}]}`)
	}))
	defer srv.Close()

	resp, err := New(srv.URL+"/", nil).Query(context.Background(), dtos.ChatRequestDTO{Query: "strict liability?", TopK: 5})
	require.NoError(t, err)

	assert.Equal(t, dtos.ChatRequestDTO{Query: "strict liability?", TopK: 5}, got)
	assert.Equal(t, "Held liable.", resp.Explanation)
	require.Len(t, resp.Precedents, 1)
	assert.Equal(t, "Rylands v Fletcher", resp.Precedents[0].CaseName)
	assert.Equal(t, "escape of things", resp.Precedents[0].Excerpt)
}

func TestQuery_MissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	resp, err := New(srv.URL, nil).Query(context.Background(), dtos.ChatRequestDTO{Query: "q", TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, resp.Explanation)
	assert.Empty(t, resp.Precedents)
}

func TestQuery_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"Failed to process request. Make sure the RAG service is running."}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Query(context.Background(), dtos.ChatRequestDTO{Query: "q", TopK: 5})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "RAG service")
}

func TestQuery_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":"slow down","retryAfter":2}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Query(context.Background(), dtos.ChatRequestDTO{Query: "q", TopK: 5})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "proxy responded with status 429: slow down", err.Error())
}

func TestQuery_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Query(context.Background(), dtos.ChatRequestDTO{Query: "q", TopK: 5})
	assert.ErrorContains(t, err, "decode response")
}

func TestQuery_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Query(context.Background(), dtos.ChatRequestDTO{Query: "q", TopK: 5})
	assert.Error(t, err)
}
