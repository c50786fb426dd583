// Package captions generates platform-tuned titles, descriptions and
// hashtags for uploads with Gemini, keyed off the video filename.
package captions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"google.golang.org/genai"
)

const model = "gemini-2.0-flash"

type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
)

// Limits per platform. Hashtag count is truncated, length overruns fail.
const (
	youtubeTitleMax       = 100
	youtubeDescriptionMax = 5000
	instagramTitleMax     = 125
	instagramCaptionMax   = 2200
	maxHashtags           = 20
)

var ErrEmptyTopic = errors.New("could not extract topic from filename")

// Content is a generated caption set.
type Content struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Hashtags    string `json:"hashtags"`
	Platform    string `json:"platform"`
}

type Generator struct {
	apiKey string
}

func NewGenerator(apiKey string) *Generator {
	return &Generator{apiKey: strings.TrimSpace(apiKey)}
}

var (
	extPattern     = regexp.MustCompile(`(?i)\.(mp4|avi|mov|mkv|wmv|flv|webm|m4v)$`)
	leadingJunk    = regexp.MustCompile(`^[0-9\s\-_.]+`)
	trailingJunk   = regexp.MustCompile(`[0-9\s\-_.]+$`)
	separatorRuns  = regexp.MustCompile(`[_-]+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	titleCaser     = cases.Title(language.AmericanEnglish)
)

// ExtractTopic turns an upload filename into a human topic:
// "03_gut-health_tips_v2.mp4" becomes "Gut Health Tips V".
func ExtractTopic(filename string) string {
	name := extPattern.ReplaceAllString(strings.TrimSpace(filename), "")
	name = leadingJunk.ReplaceAllString(name, "")
	name = trailingJunk.ReplaceAllString(name, "")
	name = separatorRuns.ReplaceAllString(name, " ")
	name = whitespaceRuns.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(name))
}

// Generate produces caption content for the platform. Gemini failures fall
// back to deterministic topic-based content so the upload form is never
// blocked by the caption service.
func (g *Generator) Generate(ctx context.Context, filename string, platform Platform) (Content, error) {
	topic := ExtractTopic(filename)
	if topic == "" {
		return Content{}, ErrEmptyTopic
	}

	switch platform {
	case PlatformYouTube, PlatformInstagram:
	default:
		return Content{}, fmt.Errorf("unsupported platform: %q", platform)
	}

	text, err := g.callGemini(ctx, prompt(topic, platform))
	if err != nil {
		slog.Warn("gemini generation failed, using fallback content", "topic", topic, "platform", platform, "error", err)
		return fallback(topic, platform), nil
	}

	content, err := ParseResponse(text)
	if err != nil {
		slog.Warn("gemini response unusable, using fallback content", "topic", topic, "platform", platform, "error", err)
		return fallback(topic, platform), nil
	}
	content.Platform = string(platform)

	if err := validate(&content, platform); err != nil {
		slog.Warn("generated content failed validation, using fallback", "topic", topic, "error", err)
		return fallback(topic, platform), nil
	}
	return content, nil
}

func (g *Generator) callGemini(ctx context.Context, promptText string) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("gemini api key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(promptText), nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty response from gemini")
	}
	return text, nil
}

func prompt(topic string, platform Platform) string {
	if platform == PlatformInstagram {
		return fmt.Sprintf(`Create SEO-optimized content for an Instagram Reel about %q.

Format your response exactly like this:
TITLE: [engaging caption title under 125 characters with emojis]
DESCRIPTION: [engaging caption with hook, emojis, line breaks, under 2200 chars]
HASHTAGS: [exactly 20 relevant hashtags separated by spaces]

Requirements:
- Title: Engaging, uses emojis appropriately
- Description: Hook, key points, call to action, emojis, line breaks
- Hashtags: Include #reels #viral #trending plus topic-specific tags (exactly 20 total)`, topic)
	}
	return fmt.Sprintf(`Create SEO-optimized content for a YouTube Shorts video about %q.

Format your response exactly like this:
TITLE: [compelling title under 100 characters]
DESCRIPTION: [engaging description with hook, key points, call to action]
HASHTAGS: [exactly 15 relevant hashtags separated by spaces]

Requirements:
- Title: Clickable, includes topic, uses power words
- Description: Hook in first line, key points, call to action, under 5000 chars
- Hashtags: Include #shorts #viral #trending plus topic-specific tags (exactly 15 total)`, topic)
}

// ParseResponse reads the TITLE/DESCRIPTION/HASHTAGS sections out of a
// model response, tolerating multi-line sections.
func ParseResponse(text string) (Content, error) {
	var c Content
	section := ""
	var buf []string

	flush := func() {
		joined := strings.TrimSpace(strings.Join(buf, " "))
		switch section {
		case "title":
			c.Title = joined
		case "description":
			c.Description = joined
		case "hashtags":
			c.Hashtags = joined
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			flush()
			section = "title"
			buf = append(buf, strings.TrimSpace(strings.TrimPrefix(line, "TITLE:")))
		case strings.HasPrefix(line, "DESCRIPTION:"):
			flush()
			section = "description"
			buf = append(buf, strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:")))
		case strings.HasPrefix(line, "HASHTAGS:"):
			flush()
			section = "hashtags"
			buf = append(buf, strings.TrimSpace(strings.TrimPrefix(line, "HASHTAGS:")))
		case line != "" && section != "":
			buf = append(buf, line)
		}
	}
	flush()

	if c.Title == "" || c.Description == "" || c.Hashtags == "" {
		return c, errors.New("incomplete response: missing title, description or hashtags")
	}
	return c, nil
}

func validate(c *Content, platform Platform) error {
	tags := strings.Fields(c.Hashtags)
	if len(tags) > maxHashtags {
		c.Hashtags = strings.Join(tags[:maxHashtags], " ")
	}

	titleMax, descMax := youtubeTitleMax, youtubeDescriptionMax
	if platform == PlatformInstagram {
		titleMax, descMax = instagramTitleMax, instagramCaptionMax
	}
	if len(c.Title) > titleMax {
		return fmt.Errorf("title too long: %d chars", len(c.Title))
	}
	if len(c.Description) > descMax {
		return fmt.Errorf("description too long: %d chars", len(c.Description))
	}
	return nil
}

func fallback(topic string, platform Platform) Content {
	if platform == PlatformInstagram {
		return Content{
			Title:       topic,
			Description: fmt.Sprintf("%s — watch till the end! Follow for more.", topic),
			Hashtags:    "#reels #viral #trending",
			Platform:    string(platform),
		}
	}
	return Content{
		Title:       topic + " #shorts",
		Description: fmt.Sprintf("%s — watch till the end! Subscribe for more.", topic),
		Hashtags:    "#shorts #viral #trending",
		Platform:    string(platform),
	}
}
