package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// Content is one editable marketing document. Consumed purely for display;
// the booking core never reads it.
type Content struct {
	Slug     string          `json:"slug"`
	Type     string          `json:"type"`
	Title    string          `json:"title"`
	Body     json.RawMessage `json:"body"`
	Updated  time.Time       `json:"updatedAt"`
}

var ErrNotFound = errors.New("cms: content not found")

// Client reads content by slug from a headless CMS, with a redis cache in
// front. Marketing copy tolerates staleness; availability and pricing never
// go through here.
type Client struct {
	HTTP     *http.Client
	BaseURL  string
	Cache    *redis.Client
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		BaseURL:  baseURL,
		Cache:    cache,
		CacheTTL: ttl,
		Logger:   logger,
	}
}

// ContentBySlug returns one document, from cache when fresh.
func (c *Client) ContentBySlug(ctx context.Context, slug string) (Content, error) {
	if c == nil || c.BaseURL == "" {
		return Content{}, ErrNotFound
	}

	cacheKey := "cms:content:" + slug
	if c.Cache != nil {
		if cached, err := c.Cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var content Content
			if err := json.Unmarshal(cached, &content); err == nil {
				return content, nil
			}
		}
	}

	content, err := c.fetch(ctx, slug)
	if err != nil {
		return Content{}, err
	}

	if c.Cache != nil {
		if payload, err := json.Marshal(content); err == nil {
			if err := c.Cache.Set(ctx, cacheKey, payload, c.CacheTTL).Err(); err != nil && c.Logger != nil {
				c.Logger.Warn("cms cache write failed", "slug", slug, "error", err)
			}
		}
	}
	return content, nil
}

func (c *Client) fetch(ctx context.Context, slug string) (Content, error) {
	endpoint := c.BaseURL + "/content/" + url.PathEscape(slug)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Content{}, err
	}
	resp, err := c.HTTP.Do(request)
	if err != nil {
		return Content{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Content{}, ErrNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Content{}, fmt.Errorf("cms: status %d: %s", resp.StatusCode, string(snippet))
	}

	var content Content
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return Content{}, fmt.Errorf("cms: decode content: %w", err)
	}
	return content, nil
}
