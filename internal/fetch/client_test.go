package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTile(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("tile-bytes"))
	}))
	defer srv.Close()

	client := NewClient()
	body, contentType, err := client.FetchTile(context.Background(), srv.URL+"/tile/0/0/0")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "tile-bytes", string(data))
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, DefaultUserAgent, gotUserAgent)
}

func TestFetchTileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient()
	body, _, err := client.FetchTile(context.Background(), srv.URL+"/tile/2/5/5")
	require.Error(t, err)
	assert.Nil(t, body)

	var missing *TileMissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestFetchTileContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient()
	_, _, err := client.FetchTile(ctx, srv.URL)
	assert.Error(t, err)
}
