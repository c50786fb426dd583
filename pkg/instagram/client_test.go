package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("tok")
	c.baseURL = srv.URL
	return c
}

func TestAccountsSkipsPagesWithoutInstagram(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me/accounts", r.URL.Path)
		require.Equal(t, "tok", r.URL.Query().Get("access_token"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "page1", "name": "Orphan Page"},
				{
					"id":   "page2",
					"name": "Linked Page",
					"instagram_business_account": map[string]any{
						"id":       "ig9",
						"username": "greenroom",
					},
				},
			},
		})
	}))

	accounts, err := c.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "ig9", accounts[0].ID)
	require.Equal(t, "greenroom", accounts[0].Username)
	require.Equal(t, "Linked Page", accounts[0].Name)
	require.Equal(t, "page2", accounts[0].PageID)
}

func TestCreateReelContainer(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ig9/media", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "REELS", r.PostForm.Get("media_type"))
		require.Equal(t, "https://cdn.example/video.mp4", r.PostForm.Get("video_url"))
		require.Equal(t, "hello", r.PostForm.Get("caption"))
		require.Equal(t, "true", r.PostForm.Get("share_to_feed"))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "container1"})
	}))

	id, err := c.CreateReelContainer(context.Background(), "ig9", "https://cdn.example/video.mp4", "hello")
	require.NoError(t, err)
	require.Equal(t, "container1", id)
}

func TestPublishContainer(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ig9/media_publish", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "container1", r.PostForm.Get("creation_id"))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "media42"})
	}))

	id, err := c.PublishContainer(context.Background(), "ig9", "container1")
	require.NoError(t, err)
	require.Equal(t, "media42", id)
}

func TestGetContainerStatus(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/container1", r.URL.Path)
		require.Equal(t, "status_code,status", r.URL.Query().Get("fields"))
		_ = json.NewEncoder(w).Encode(map[string]string{"status_code": "FINISHED", "status": "ok"})
	}))

	st, err := c.GetContainerStatus(context.Background(), "container1")
	require.NoError(t, err)
	require.Equal(t, "FINISHED", st.StatusCode)
}

func TestGraphErrorSurfaced(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusBadRequest)
	}))

	_, err := c.Accounts(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
}
