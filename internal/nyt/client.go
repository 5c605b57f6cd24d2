package nyt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bilgisen/nytproxy/internal/config"
	"github.com/bilgisen/nytproxy/internal/logger"
	"github.com/bilgisen/nytproxy/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	opTopStories    = "top stories"
	opArticleSearch = "article search"

	searchDateLayout = "20060102"
)

// Client is a thin wrapper around the two NYT endpoints the service exposes.
// It is safe for concurrent use and meant to live as long as the process.
type Client struct {
	client *resty.Client
}

// NewClient builds a client with the base URL, timeout and API key from cfg.
// The key is attached to every outgoing request.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(cfg.NYTBaseURL).
			SetTimeout(cfg.Timeout).
			SetQueryParam("api-key", cfg.NYTAPIKey).
			SetHeader("Accept", "application/json"),
	}
}

// Close releases idle upstream connections.
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

// TopStories fetches the top stories of one section. Items that cannot be
// parsed are logged and skipped; the rest are returned in upstream order.
func (c *Client) TopStories(ctx context.Context, section string) ([]models.TopStoryArticle, error) {
	log := logger.Section(section)

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("section", section).
		Get("/topstories/v2/{section}.json")
	if err != nil {
		logFetchError(log, err)
		return nil, &UpstreamError{Op: opTopStories, Section: section, Err: err}
	}
	if !resp.IsSuccess() {
		err := fmt.Errorf("unexpected status %s", resp.Status())
		log.Error().Err(err).Int("status", resp.StatusCode()).Msg("Error fetching top stories")
		return nil, &UpstreamError{Op: opTopStories, Section: section, StatusCode: resp.StatusCode(), Err: err}
	}

	var payload topStoriesResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		log.Error().Err(err).Msg("Malformed top stories response")
		return nil, &UpstreamError{
			Op:         opTopStories,
			Section:    section,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	log.Debug().
		Int("results", len(payload.Results)).
		Dur("latency", resp.Time()).
		Msg("NYT top stories response")

	articles := make([]models.TopStoryArticle, 0, len(payload.Results))
	for i, raw := range payload.Results {
		article, err := parseTopStory(raw)
		if err != nil {
			log.Warn().
				Err(err).
				Int("index", i).
				RawJSON("item", raw).
				Msg("Skipping malformed top story")
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

// logFetchError demotes failures caused by a cancelled fan-out; the fetch
// that triggered the cancellation is already logged at error level.
func logFetchError(log *zerolog.Logger, err error) {
	event := log.Error()
	if errors.Is(err, context.Canceled) {
		event = log.Debug()
	}
	event.Err(err).Msg("Error fetching top stories")
}

// SearchArticles runs a full-text search. Optional dates bound the results;
// any malformed document fails the whole call.
func (c *Client) SearchArticles(ctx context.Context, q string, beginDate, endDate *time.Time) ([]models.SearchArticle, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", q)
	if beginDate != nil {
		req.SetQueryParam("begin_date", beginDate.Format(searchDateLayout))
	}
	if endDate != nil {
		req.SetQueryParam("end_date", endDate.Format(searchDateLayout))
	}

	resp, err := req.Get("/search/v2/articlesearch.json")
	if err != nil {
		return nil, &UpstreamError{Op: opArticleSearch, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &UpstreamError{
			Op:         opArticleSearch,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}

	articles, err := parseSearchResponse(resp.Body())
	if err != nil {
		return nil, &UpstreamError{Op: opArticleSearch, StatusCode: resp.StatusCode(), Err: err}
	}

	logger.Get().Debug().
		Str("q", q).
		Int("docs", len(articles)).
		Dur("latency", resp.Time()).
		Msg("NYT article search response")

	return articles, nil
}
