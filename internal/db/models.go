package db

import (
	"time"

	"github.com/google/uuid"
)

// Project is a long-form assembly project. Its rows live in project_rows.
type Project struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client is a stored upload credential bundle. Tokens are refresh tokens
// exchanged out-of-band; the console never runs an OAuth flow itself.
type Client struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	OAuthClientID        string    `json:"oauth_client_id"`
	OAuthClientSecret    string    `json:"-"`
	YouTubeRefreshToken  string    `json:"-"`
	InstagramAccessToken string    `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
}

// QuotaUsage is one client's YouTube API spend for one UTC day.
type QuotaUsage struct {
	ClientID  uuid.UUID `json:"client_id"`
	Day       time.Time `json:"day"`
	UnitsUsed int64     `json:"units_used"`
}
