// Package n8n posts jobs to the operator's n8n webhook endpoints. The
// workflows behind the webhooks are opaque collaborators: the client
// reports their HTTP status and nothing more.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the requested webhook URL is absent
// from the config file.
var ErrNotConfigured = errors.New("webhook URL not configured")

// StatusError reports a non-200 answer from a webhook.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("n8n returned %d", e.Code)
}

type Client struct {
	store *ConfigStore
	http  *http.Client
}

func NewClient(store *ConfigStore) *Client {
	return &Client{
		store: store,
		http:  &http.Client{},
	}
}

// SubmitJobPayload is the background-audio shorts job.
type SubmitJobPayload struct {
	User            string   `json:"user"`
	Images          []string `json:"images"`
	Audios          []string `json:"audios"`
	BackgroundAudio string   `json:"background_audio"`
	AudioSpeed      float64  `json:"aud_speed"`
}

// NocapJobPayload is the no-caption variant.
type NocapJobPayload struct {
	User   string   `json:"user"`
	Images []string `json:"images"`
	Audios []string `json:"audios"`
}

// LongformRowPayload is one row of a long-form project. Images arrive
// ordered 1..5.
type LongformRowPayload struct {
	ProjectName  string   `json:"project_name"`
	SerialNumber int      `json:"serial_number"`
	AudioURL     string   `json:"audio_url"`
	Images       []string `json:"images"`
}

type CompilePayload struct {
	ProjectName string `json:"project_name"`
}

func (c *Client) SubmitJob(ctx context.Context, p SubmitJobPayload) error {
	if len(p.Images) != 4 {
		return fmt.Errorf("expected 4 images, got %d", len(p.Images))
	}
	if len(p.Audios) != 4 {
		return fmt.Errorf("expected 4 audio files, got %d", len(p.Audios))
	}
	if p.BackgroundAudio == "" {
		p.BackgroundAudio = p.Audios[len(p.Audios)-1]
	}
	if p.AudioSpeed == 0 {
		p.AudioSpeed = 1.0
	}
	return c.post(ctx, func(u WebhookURLs) string { return u.SubmitJob }, p)
}

func (c *Client) NocapJob(ctx context.Context, p NocapJobPayload) error {
	return c.post(ctx, func(u WebhookURLs) string { return u.NocapJob }, p)
}

func (c *Client) LongformRow(ctx context.Context, p LongformRowPayload) error {
	return c.post(ctx, func(u WebhookURLs) string { return u.LongformJob }, p)
}

func (c *Client) Compile(ctx context.Context, projectName string) error {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return fmt.Errorf("project_name is required")
	}
	return c.post(ctx, func(u WebhookURLs) string { return u.CompileJob }, CompilePayload{ProjectName: projectName})
}

// PostTo sends an arbitrary payload to an explicit webhook URL. The bulk
// wizard lets the operator choose the destination per job.
func (c *Client) PostTo(ctx context.Context, webhookURL string, payload any) error {
	cfg, err := c.store.Load()
	if err != nil {
		return err
	}
	return c.doPost(ctx, webhookURL, payload, cfg.TimeoutSeconds)
}

func (c *Client) post(ctx context.Context, pick func(WebhookURLs) string, payload any) error {
	cfg, err := c.store.Load()
	if err != nil {
		return err
	}
	u := strings.TrimSpace(pick(cfg.WebhookURLs))
	if u == "" {
		return ErrNotConfigured
	}
	return c.doPost(ctx, u, payload, cfg.TimeoutSeconds)
}

func (c *Client) doPost(ctx context.Context, webhookURL string, payload any, timeoutSeconds int) error {
	if strings.TrimSpace(webhookURL) == "" {
		return ErrNotConfigured
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
