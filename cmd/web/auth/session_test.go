package auth

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionName {
			require.NotEmpty(t, c.Value)
			return c
		}
	}
	t.Fatalf("no %s cookie set", SessionName)
	return nil
}

func TestSessionManager_ActiveClient_RoundTrip(t *testing.T) {
	sm := NewSessionManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	rr := httptest.NewRecorder()

	require.NoError(t, sm.SetActiveClient(rr, req, "client-1"))
	cookie := sessionCookie(t, rr)

	req2 := httptest.NewRequest("GET", "http://example.com/", nil)
	req2.AddCookie(cookie)

	clientID, err := sm.ActiveClient(req2)
	require.NoError(t, err)
	require.Equal(t, "client-1", clientID)

	// No channel selected yet.
	_, err = sm.ActiveChannel(req2)
	require.ErrorIs(t, err, ErrNoSelection)
}

func TestSessionManager_SwitchingClientClearsChannel(t *testing.T) {
	sm := NewSessionManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	rr := httptest.NewRecorder()
	require.NoError(t, sm.SetActiveClient(rr, req, "client-1"))

	req2 := httptest.NewRequest("GET", "http://example.com/", nil)
	req2.AddCookie(sessionCookie(t, rr))
	rr2 := httptest.NewRecorder()
	require.NoError(t, sm.SetActiveChannel(rr2, req2, "channel-9"))

	req3 := httptest.NewRequest("GET", "http://example.com/", nil)
	req3.AddCookie(sessionCookie(t, rr2))
	channelID, err := sm.ActiveChannel(req3)
	require.NoError(t, err)
	require.Equal(t, "channel-9", channelID)

	// A new client selection invalidates the channel.
	rr3 := httptest.NewRecorder()
	require.NoError(t, sm.SetActiveClient(rr3, req3, "client-2"))

	req4 := httptest.NewRequest("GET", "http://example.com/", nil)
	req4.AddCookie(sessionCookie(t, rr3))
	_, err = sm.ActiveChannel(req4)
	require.ErrorIs(t, err, ErrNoSelection)

	clientID, err := sm.ActiveClient(req4)
	require.NoError(t, err)
	require.Equal(t, "client-2", clientID)
}

func TestSessionManager_SecureDetection(t *testing.T) {
	sm := NewSessionManager("test-secret")

	t.Run("tls implies secure", func(t *testing.T) {
		req := httptest.NewRequest("GET", "https://example.com/", nil)
		req.TLS = &tls.ConnectionState{}
		rr := httptest.NewRecorder()

		require.NoError(t, sm.SetActiveClient(rr, req, "client-1"))
		require.True(t, sessionCookie(t, rr).Secure)
	})

	t.Run("x-forwarded-proto implies secure", func(t *testing.T) {
		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rr := httptest.NewRecorder()

		require.NoError(t, sm.SetActiveClient(rr, req, "client-1"))
		require.True(t, sessionCookie(t, rr).Secure)
	})
}

func TestSessionManager_NoSelection(t *testing.T) {
	sm := NewSessionManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	_, err := sm.ActiveClient(req)
	require.ErrorIs(t, err, ErrNoSelection)
}

func TestSessionManager_Flashes(t *testing.T) {
	sm := NewSessionManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	rr := httptest.NewRecorder()
	require.NoError(t, sm.AddFlash(rr, req, "project created"))

	req2 := httptest.NewRequest("GET", "http://example.com/", nil)
	req2.AddCookie(sessionCookie(t, rr))
	rr2 := httptest.NewRecorder()

	flashes := sm.PopFlashes(rr2, req2)
	require.Equal(t, []string{"project created"}, flashes)

	// Draining consumed the notices.
	req3 := httptest.NewRequest("GET", "http://example.com/", nil)
	req3.AddCookie(sessionCookie(t, rr2))
	rr3 := httptest.NewRecorder()
	require.Empty(t, sm.PopFlashes(rr3, req3))
}

func TestSessionManager_ClearSession(t *testing.T) {
	sm := NewSessionManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	rr := httptest.NewRecorder()

	require.NoError(t, sm.ClearSession(rr, req))

	// Gorilla sessions writes a Set-Cookie header for deletion.
	setCookies := rr.Result().Header.Values("Set-Cookie")
	require.NotEmpty(t, setCookies)

	var found bool
	for _, v := range setCookies {
		if strings.HasPrefix(v, SessionName+"=") {
			found = true
			// Be flexible across implementations: deletion usually sets Max-Age=0 and/or Expires in past.
			require.True(t, strings.Contains(v, "Max-Age=0") || strings.Contains(v, "Max-Age=-1") || strings.Contains(v, "Expires="))
			break
		}
	}
	require.True(t, found)
}
