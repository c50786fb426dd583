package n8n

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// WebhookURLs holds the four automation endpoints the console drives.
type WebhookURLs struct {
	SubmitJob   string `json:"submit_job"`
	NocapJob    string `json:"nocap_job"`
	LongformJob string `json:"longform_job,omitempty"`
	CompileJob  string `json:"compile_job,omitempty"`
}

// Config mirrors the on-disk n8n_config.json layout.
type Config struct {
	WebhookURLs    WebhookURLs `json:"webhook_urls"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	LastUpdated    string      `json:"last_updated,omitempty"`
}

const defaultTimeoutSeconds = 30

// ConfigStore reads and writes the webhook config file. Webhook URLs change
// whenever the operator restarts their tunnel, so the file is re-read on
// every use rather than cached.
type ConfigStore struct {
	path string
	mu   sync.Mutex
}

func NewConfigStore(path string) *ConfigStore {
	if strings.TrimSpace(path) == "" {
		path = "n8n_config.json"
	}
	return &ConfigStore{path: path}
}

func (s *ConfigStore) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ConfigStore) load() (Config, error) {
	cfg := Config{TimeoutSeconds: defaultTimeoutSeconds}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read webhook config: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse webhook config: %w", err)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeoutSeconds
	}
	return cfg, nil
}

// Update replaces the webhook URL set, keeping the configured timeout.
func (s *ConfigStore) Update(urls WebhookURLs) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return cfg, err
	}
	cfg.WebhookURLs = urls
	return s.save(cfg)
}

// UpdateFromBase derives all four webhook URLs from a tunnel base URL.
// The webhook paths are fixed by the n8n workflows on the other end.
func (s *ConfigStore) UpdateFromBase(base string) (Config, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return Config{}, fmt.Errorf("base url is required")
	}
	return s.Update(WebhookURLs{
		SubmitJob:   base + "/webhook/bgaud",
		NocapJob:    base + "/webhook/back",
		LongformJob: base + "/webhook/longform",
		CompileJob:  base + "/webhook/compile",
	})
}

func (s *ConfigStore) save(cfg Config) (Config, error) {
	cfg.LastUpdated = time.Now().Format("2006-01-02 15:04:05")
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return cfg, err
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return cfg, fmt.Errorf("write webhook config: %w", err)
	}
	return cfg, nil
}
