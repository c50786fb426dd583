package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName      = "console_session"
	ActiveClientKey  = "active_client"
	ActiveChannelKey = "active_channel"
	FlashKey         = "flash"
)

var ErrNoSelection = errors.New("no active selection")

// SessionManager keeps the operator's working selection (upload client and
// channel) and one-shot flash notices in a cookie session.
type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string) *SessionManager {
	if secret == "" {
		secret = generateSecret()
	}
	return &SessionManager{
		store: sessions.NewCookieStore([]byte(secret)),
	}
}

func generateSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}

func (sm *SessionManager) save(w http.ResponseWriter, r *http.Request, session *sessions.Session) error {
	isHTTPS := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	session.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   isHTTPS,
	}
	return session.Save(r, w)
}

// SetActiveClient stores the selected upload client. Switching clients
// clears any channel selection, which belongs to the previous client.
func (sm *SessionManager) SetActiveClient(w http.ResponseWriter, r *http.Request, clientID string) error {
	session, _ := sm.store.Get(r, SessionName)
	session.Values[ActiveClientKey] = clientID
	delete(session.Values, ActiveChannelKey)
	return sm.save(w, r, session)
}

// ActiveClient returns the selected upload client ID.
func (sm *SessionManager) ActiveClient(r *http.Request) (string, error) {
	return sm.stringValue(r, ActiveClientKey)
}

// SetActiveChannel stores the selected channel for the active client.
func (sm *SessionManager) SetActiveChannel(w http.ResponseWriter, r *http.Request, channelID string) error {
	session, _ := sm.store.Get(r, SessionName)
	session.Values[ActiveChannelKey] = channelID
	return sm.save(w, r, session)
}

// ActiveChannel returns the selected channel ID.
func (sm *SessionManager) ActiveChannel(r *http.Request) (string, error) {
	return sm.stringValue(r, ActiveChannelKey)
}

func (sm *SessionManager) stringValue(r *http.Request, key string) (string, error) {
	session, err := sm.store.Get(r, SessionName)
	if err != nil {
		return "", err
	}
	val, ok := session.Values[key]
	if !ok {
		return "", ErrNoSelection
	}
	str, ok := val.(string)
	if !ok || str == "" {
		return "", ErrNoSelection
	}
	return str, nil
}

// AddFlash queues a one-shot notice for the next rendered page.
func (sm *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, message string) error {
	session, _ := sm.store.Get(r, SessionName)
	session.AddFlash(message, FlashKey)
	return sm.save(w, r, session)
}

// PopFlashes drains queued notices, clearing them from the cookie.
func (sm *SessionManager) PopFlashes(w http.ResponseWriter, r *http.Request) []string {
	session, err := sm.store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	raw := session.Flashes(FlashKey)
	if len(raw) == 0 {
		return nil
	}
	if err := sm.save(w, r, session); err != nil {
		return nil
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}

// ClearSession drops the whole cookie session.
func (sm *SessionManager) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, _ := sm.store.Get(r, SessionName)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
