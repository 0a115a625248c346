package dnd5e

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dnderr "github.com/KirkDiggler/dnd-progression/internal/errors"
)

func TestNew_NilConfig(t *testing.T) {
	c, err := New(nil)
	assert.Nil(t, c)
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(&Config{BaseURL: "not a url"})
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestWithBaseURL_RewritesRequests(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	httpClient, err := withBaseURL(&http.Client{}, server.URL+"/mirror/api/")
	require.NoError(t, err)

	resp, err := httpClient.Get(DefaultBaseURL + "/races/elf")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, "/mirror/api/races/elf", gotPath)
}

func TestWithBaseURL_KeepsCallerClient(t *testing.T) {
	original := &http.Client{}

	rewritten, err := withBaseURL(original, "http://localhost:3000/api")
	require.NoError(t, err)

	assert.Nil(t, original.Transport)
	assert.IsType(t, &rewriteTransport{}, rewritten.Transport)
}
