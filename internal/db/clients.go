package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"greenroom.tools/console/pkg/encryption"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrDuplicateClient = errors.New("a client with that name already exists")
)

// YouTube Data API quota accounting. Google grants 10k units per project
// per day; a resumable video insert burns 1600 of them.
const (
	QuotaDailyLimit   = 10_000
	QuotaCostUpload   = 1600
	QuotaCostList     = 1
	QuotaCostSearch   = 100
	QuotaCostPlaylist = 50
)

func (s *Store) encryptToken(token string) (encryption.EncryptedField[string], error) {
	if token == "" {
		return encryption.EncryptNull[string](), nil
	}
	return encryption.Encrypt(s.enc, token)
}

func (s *Store) decryptToken(field *encryption.EncryptedField[string]) (string, error) {
	if !field.IsValid() {
		return "", nil
	}
	return encryption.DecryptValue(s.enc, field)
}

func (s *Store) scanClient(row pgx.Row) (*Client, error) {
	var c Client
	var ytToken, igToken encryption.EncryptedField[string]
	err := row.Scan(&c.ID, &c.Name, &c.OAuthClientID, &c.OAuthClientSecret,
		&ytToken, &igToken, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.YouTubeRefreshToken, err = s.decryptToken(&ytToken); err != nil {
		return nil, fmt.Errorf("decrypt youtube token: %w", err)
	}
	if c.InstagramAccessToken, err = s.decryptToken(&igToken); err != nil {
		return nil, fmt.Errorf("decrypt instagram token: %w", err)
	}
	return &c, nil
}

const clientColumns = `id, name, oauth_client_id, oauth_client_secret,
	youtube_refresh_token, instagram_access_token, created_at`

// ListClients returns every stored upload client, oldest first.
func (s *Store) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := s.scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

// GetClient looks a client up by ID.
func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1`, id)
	return s.scanClient(row)
}

// NewClientParams contains the parameters for registering an upload client.
type NewClientParams struct {
	Name                 string
	OAuthClientID        string
	OAuthClientSecret    string
	YouTubeRefreshToken  string
	InstagramAccessToken string
}

// CreateClient registers an upload credential bundle. Tokens are encrypted
// before they touch the database.
func (s *Store) CreateClient(ctx context.Context, params NewClientParams) (*Client, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, errors.New("client name is required")
	}

	ytToken, err := s.encryptToken(params.YouTubeRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("encrypt youtube token: %w", err)
	}
	igToken, err := s.encryptToken(params.InstagramAccessToken)
	if err != nil {
		return nil, fmt.Errorf("encrypt instagram token: %w", err)
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO clients (id, name, oauth_client_id, oauth_client_secret,
		                     youtube_refresh_token, instagram_access_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+clientColumns,
		uuid.New(), params.Name, params.OAuthClientID, params.OAuthClientSecret,
		ytToken, igToken)

	c, err := s.scanClient(row)
	if IsUniqueViolation(err) {
		return nil, ErrDuplicateClient
	}
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// UpdateClientTokens replaces a client's stored tokens. Empty strings clear.
func (s *Store) UpdateClientTokens(ctx context.Context, id uuid.UUID, youtubeRefresh, instagramAccess string) error {
	ytToken, err := s.encryptToken(youtubeRefresh)
	if err != nil {
		return fmt.Errorf("encrypt youtube token: %w", err)
	}
	igToken, err := s.encryptToken(instagramAccess)
	if err != nil {
		return fmt.Errorf("encrypt instagram token: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE clients
		SET youtube_refresh_token = $2, instagram_access_token = $3
		WHERE id = $1`, id, ytToken, igToken)
	if err != nil {
		return fmt.Errorf("update client tokens: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

// DeleteClient removes a client and its quota history.
func (s *Store) DeleteClient(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

// RecordQuotaUsage adds API units to the client's tally for the given day.
func (s *Store) RecordQuotaUsage(ctx context.Context, clientID uuid.UUID, day time.Time, units int64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO quota_usage (client_id, day, units_used)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_id, day)
		DO UPDATE SET units_used = quota_usage.units_used + EXCLUDED.units_used`,
		clientID, day.UTC().Truncate(24*time.Hour), units)
	if err != nil {
		return fmt.Errorf("record quota usage: %w", err)
	}
	return nil
}

// QuotaUsedOn reports the client's units spent on the given UTC day.
func (s *Store) QuotaUsedOn(ctx context.Context, clientID uuid.UUID, day time.Time) (int64, error) {
	var used int64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(units_used), 0)
		FROM quota_usage
		WHERE client_id = $1 AND day = $2`,
		clientID, day.UTC().Truncate(24*time.Hour)).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("quota used: %w", err)
	}
	return used, nil
}

// QuotaRemaining reports how many units the client can still spend today.
func (s *Store) QuotaRemaining(ctx context.Context, clientID uuid.UUID, now time.Time) (int64, error) {
	used, err := s.QuotaUsedOn(ctx, clientID, now)
	if err != nil {
		return 0, err
	}
	remaining := int64(QuotaDailyLimit) - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
