package extractclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Extract_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tdz/plan", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.ExtractAll)

		resp := Response{Tasks: []ExtractedTask{{Action: "ship it", Priority: "High"}}}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key")
	resp, err := client.Extract(t.Context(), EndpointPlan, Request{Content: "ship it"})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "ship it", resp.Tasks[0].Action)
}

func TestClient_Extract_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	client := New(srv.URL, "bad-key")
	_, err := client.Extract(t.Context(), EndpointStrategic, Request{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTrimTrailingSlash(t *testing.T) {
	assert.Equal(t, "http://x", trimTrailingSlash("http://x/"))
	assert.Equal(t, "http://x", trimTrailingSlash("http://x"))
}
