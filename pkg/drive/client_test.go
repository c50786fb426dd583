package drive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func TestFileMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "/files/abc123")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc123","name":"episode.mp4","mimeType":"video/mp4","size":"1048576"}`))
	}))
	defer srv.Close()

	svc, err := drivev3.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	meta, err := NewClientFromService(svc).FileMetadata(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, "episode.mp4", meta.Name)
	require.Equal(t, "video/mp4", meta.MimeType)
	require.EqualValues(t, 1048576, meta.Size)
}

func TestFileMetadata_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"File not found"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	svc, err := drivev3.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = NewClientFromService(svc).FileMetadata(context.Background(), "missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing")
}
