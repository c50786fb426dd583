// Package instagram publishes Reels through the Instagram Graph API.
// Publishing is a three-step contract: create a media container from a
// public video URL, publish the container, then poll its status until
// Instagram finishes processing.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewClient(accessToken string) *Client {
	return &Client{
		baseURL:     defaultBaseURL,
		accessToken: strings.TrimSpace(accessToken),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Account is an Instagram business/creator account reachable through one
// of the token's Facebook pages.
type Account struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	PageID            string `json:"page_id"`
	PageName          string `json:"page_name"`
}

// Accounts walks the token's pages and collects the linked Instagram
// business accounts.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var pages struct {
		Data []struct {
			ID                string `json:"id"`
			Name              string `json:"name"`
			InstagramBusiness *struct {
				ID                string `json:"id"`
				Username          string `json:"username"`
				Name              string `json:"name"`
				ProfilePictureURL string `json:"profile_picture_url"`
			} `json:"instagram_business_account"`
		} `json:"data"`
	}

	params := url.Values{
		"fields": {"id,name,instagram_business_account{id,username,name,profile_picture_url}"},
	}
	if err := c.get(ctx, "/me/accounts", params, &pages); err != nil {
		return nil, err
	}

	var accounts []Account
	for _, p := range pages.Data {
		if p.InstagramBusiness == nil {
			continue
		}
		name := p.InstagramBusiness.Name
		if name == "" {
			name = p.Name
		}
		accounts = append(accounts, Account{
			ID:                p.InstagramBusiness.ID,
			Username:          p.InstagramBusiness.Username,
			Name:              name,
			ProfilePictureURL: p.InstagramBusiness.ProfilePictureURL,
			PageID:            p.ID,
			PageName:          p.Name,
		})
	}
	return accounts, nil
}

// CreateReelContainer registers a Reel upload from a publicly fetchable
// video URL and returns the container ID.
func (c *Client) CreateReelContainer(ctx context.Context, accountID, videoURL, caption string) (string, error) {
	form := url.Values{
		"media_type":    {"REELS"},
		"video_url":     {videoURL},
		"share_to_feed": {"true"},
		"thumb_offset":  {"0"},
	}
	if caption = strings.TrimSpace(caption); caption != "" {
		form.Set("caption", caption)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, "/"+accountID+"/media", form, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("instagram: container create returned no id")
	}
	return out.ID, nil
}

// PublishContainer makes a processed container live and returns the media ID.
func (c *Client) PublishContainer(ctx context.Context, accountID, containerID string) (string, error) {
	form := url.Values{"creation_id": {containerID}}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, "/"+accountID+"/media_publish", form, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// ContainerStatus reports Instagram's processing state for a container.
// StatusCode is FINISHED once the container may be published.
type ContainerStatus struct {
	StatusCode string `json:"status_code"`
	Status     string `json:"status"`
}

func (c *Client) GetContainerStatus(ctx context.Context, containerID string) (ContainerStatus, error) {
	var st ContainerStatus
	params := url.Values{"fields": {"status_code,status"}}
	if err := c.get(ctx, "/"+containerID, params, &st); err != nil {
		return ContainerStatus{}, err
	}
	return st, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("access_token", c.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	form.Set("access_token", c.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
		return fmt.Errorf("instagram: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
