package n8n

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func storeAt(t *testing.T) *ConfigStore {
	t.Helper()
	return NewConfigStore(filepath.Join(t.TempDir(), "n8n_config.json"))
}

func TestConfigStore_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := storeAt(t).Load()
	require.NoError(t, err)
	require.Equal(t, defaultTimeoutSeconds, cfg.TimeoutSeconds)
	require.Empty(t, cfg.WebhookURLs.SubmitJob)
}

func TestConfigStore_UpdateFromBase(t *testing.T) {
	s := storeAt(t)
	cfg, err := s.UpdateFromBase("https://abc123.ngrok.io/")
	require.NoError(t, err)
	require.Equal(t, "https://abc123.ngrok.io/webhook/bgaud", cfg.WebhookURLs.SubmitJob)
	require.Equal(t, "https://abc123.ngrok.io/webhook/back", cfg.WebhookURLs.NocapJob)
	require.Equal(t, "https://abc123.ngrok.io/webhook/longform", cfg.WebhookURLs.LongformJob)
	require.Equal(t, "https://abc123.ngrok.io/webhook/compile", cfg.WebhookURLs.CompileJob)
	require.NotEmpty(t, cfg.LastUpdated)

	// Round-trips through the file.
	loaded, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, cfg.WebhookURLs, loaded.WebhookURLs)

	_, err = s.UpdateFromBase("   ")
	require.Error(t, err)
}

func TestLongformRow_PostsPayload(t *testing.T) {
	var got LongformRowPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	s := storeAt(t)
	_, err := s.Update(WebhookURLs{LongformJob: srv.URL})
	require.NoError(t, err)

	c := NewClient(s)
	err = c.LongformRow(context.Background(), LongformRowPayload{
		ProjectName:  "demo",
		SerialNumber: 3,
		AudioURL:     "https://cdn/a.mp3",
		Images:       []string{"https://cdn/1.png", "https://cdn/2.png"},
	})
	require.NoError(t, err)
	require.Equal(t, "demo", got.ProjectName)
	require.Equal(t, 3, got.SerialNumber)
	require.Len(t, got.Images, 2)
}

func TestClient_NonOKBecomesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := storeAt(t)
	_, err := s.Update(WebhookURLs{CompileJob: srv.URL})
	require.NoError(t, err)

	err = NewClient(s).Compile(context.Background(), "demo")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusBadGateway, se.Code)
}

func TestClient_UnconfiguredWebhook(t *testing.T) {
	err := NewClient(storeAt(t)).Compile(context.Background(), "demo")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestSubmitJob_ValidatesCounts(t *testing.T) {
	c := NewClient(storeAt(t))
	err := c.SubmitJob(context.Background(), SubmitJobPayload{
		User:   "op",
		Images: []string{"a"},
		Audios: []string{"b", "c", "d", "e"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected 4 images")
}
