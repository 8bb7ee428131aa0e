package rag

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
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{UpstreamURL: "relative/path"}).Validate())
	assert.Error(t, (&Config{UpstreamURL: DefaultUpstreamURL, Timeout: -time.Second}).Validate())
}

func TestForward_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPForwarder(&Config{UpstreamURL: srv.URL}).Forward(context.Background(), json.RawMessage(`{}`))
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, ErrTypeStatus, upErr.Type)
	assert.Equal(t, http.StatusBadGateway, upErr.Code)
}

func TestForward_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))
	defer srv.Close()

	_, err := NewHTTPForwarder(&Config{UpstreamURL: srv.URL}).Forward(context.Background(), json.RawMessage(`{}`))
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, ErrTypeDecode, upErr.Type)
}

func TestForward_NetworkErrorUnwraps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPForwarder(DefaultConfig()).Forward(ctx, json.RawMessage(`{}`))
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, ErrTypeNetwork, upErr.Type)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestForward_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := NewHTTPForwarder(&Config{UpstreamURL: srv.URL, Timeout: 50 * time.Millisecond}).
		Forward(context.Background(), json.RawMessage(`{}`))
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, ErrTypeNetwork, upErr.Type)
}
