package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khaledhikmat/vs-analyzer/service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutURLIsFake(t *testing.T) {
	svc := New(config.NewHardCoded())

	require.NoError(t, svc.Post(context.Background(), map[string]interface{}{"label": "gun"}))
	assert.Len(t, Payloads(svc), 1)
}

func TestHTTPPost(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := config.DefaultSettings()
	s.WebhookURL = srv.URL
	svc := New(config.NewStatic(s))

	err := svc.Post(context.Background(), map[string]interface{}{"status": "danger", "frame": 150})
	require.NoError(t, err)
	assert.Equal(t, "danger", received["status"])
	assert.Equal(t, float64(150), received["frame"])
}

func TestHTTPPostErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := config.DefaultSettings()
	s.WebhookURL = srv.URL
	svc := New(config.NewStatic(s))

	assert.Error(t, svc.Post(context.Background(), map[string]interface{}{}))
}
