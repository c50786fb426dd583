// Package discord fetches message attachments through the Discord REST API.
// Operators stage job media as Discord uploads and paste message links into
// the console; this client turns a link back into attachment URLs.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://discord.com/api/v10"

var ErrNoToken = errors.New("discord bot token not configured")

// MessageRef addresses one message: discord.com/channels/{guild}/{channel}/{message}.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// ParseMessageLink extracts the channel and message IDs from a message link,
// tolerating the app-protocol and discordapp.com spellings.
func ParseMessageLink(link string) (MessageRef, error) {
	link = strings.TrimSpace(link)
	link = strings.ReplaceAll(link, "discordapp.com", "discord.com")
	if strings.HasPrefix(link, "discord://") {
		link = "https://discord.com/" + strings.TrimPrefix(strings.TrimPrefix(link, "discord://discord/"), "discord://")
	}

	parts := strings.Split(strings.Trim(link, "/"), "/")
	if len(parts) < 2 {
		return MessageRef{}, fmt.Errorf("invalid discord message link: %q", link)
	}
	ref := MessageRef{
		ChannelID: parts[len(parts)-2],
		MessageID: parts[len(parts)-1],
	}
	if !numericID(ref.ChannelID) || !numericID(ref.MessageID) {
		return MessageRef{}, fmt.Errorf("invalid discord message link: %q", link)
	}
	return ref, nil
}

func numericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Attachments groups a message's uploads by kind, each list ordered
// first-to-last as the job pipeline expects. Discord reports uploads
// newest-first, so both lists are reversed after classification.
type Attachments struct {
	Images []string
	Audios []string
}

type Client struct {
	baseURL  string
	botToken string
	http     *http.Client
}

func NewClient(botToken string) *Client {
	return &Client{
		baseURL:  defaultBaseURL,
		botToken: strings.TrimSpace(botToken),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

var (
	audioExts = []string{".mp3", ".wav", ".m4a", ".aac", ".mp4"}
	imageExts = []string{".jpg", ".jpeg", ".png", ".webp"}
)

type attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type message struct {
	Attachments []attachment `json:"attachments"`
}

// MessageAttachments fetches a message by link and classifies its uploads.
// Count requirements differ per workflow (bulk jobs want 4+4, long-form
// rows want 5 images), so callers enforce their own.
func (c *Client) MessageAttachments(ctx context.Context, messageLink string) (Attachments, error) {
	if c.botToken == "" {
		return Attachments{}, ErrNoToken
	}

	ref, err := ParseMessageLink(messageLink)
	if err != nil {
		return Attachments{}, err
	}

	u := fmt.Sprintf("%s/channels/%s/messages/%s", c.baseURL, ref.ChannelID, ref.MessageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Attachments{}, err
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return Attachments{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return Attachments{}, fmt.Errorf("discord: fetch message failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var msg message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return Attachments{}, err
	}

	var out Attachments
	for _, a := range msg.Attachments {
		name := strings.ToLower(a.Filename)
		switch {
		case hasAnySuffix(name, audioExts):
			out.Audios = append(out.Audios, a.URL)
		case hasAnySuffix(name, imageExts):
			out.Images = append(out.Images, a.URL)
		}
	}
	reverse(out.Images)
	reverse(out.Audios)
	return out, nil
}

func hasAnySuffix(s string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(s, ext) {
			return true
		}
	}
	return false
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
