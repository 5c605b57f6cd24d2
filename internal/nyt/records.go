package nyt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bilgisen/nytproxy/internal/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Timestamp layouts seen across NYT endpoints. Inputs without an offset are UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

type topStoriesResponse struct {
	Results []json.RawMessage `json:"results"`
}

// topStoryRecord mirrors one item of the top stories "results" array.
// Pointers distinguish a missing field from an empty one.
type topStoryRecord struct {
	Title         *string `json:"title" validate:"required"`
	Section       *string `json:"section" validate:"required"`
	URL           string  `json:"url" validate:"omitempty,http_url"`
	Abstract      *string `json:"abstract" validate:"required"`
	PublishedDate *string `json:"published_date" validate:"required"`
}

func parseTopStory(raw json.RawMessage) (models.TopStoryArticle, error) {
	var rec topStoryRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.TopStoryArticle{}, fmt.Errorf("decode: %w", err)
	}
	if err := validate.Struct(rec); err != nil {
		return models.TopStoryArticle{}, err
	}

	published, err := parseTimestamp(*rec.PublishedDate)
	if err != nil {
		return models.TopStoryArticle{}, fmt.Errorf("published_date: %w", err)
	}

	article := models.TopStoryArticle{
		Title:         *rec.Title,
		Section:       *rec.Section,
		Abstract:      *rec.Abstract,
		PublishedDate: published,
	}
	if rec.URL != "" {
		u := rec.URL
		article.URL = &u
	}
	return article, nil
}

type searchResponse struct {
	Response *struct {
		Docs *[]searchDoc `json:"docs"`
	} `json:"response"`
}

type searchHeadline struct {
	Main *string `json:"main" validate:"required"`
}

type searchDoc struct {
	Headline *searchHeadline `json:"headline" validate:"required"`
	Snippet  *string         `json:"snippet" validate:"required"`
	WebURL   *string         `json:"web_url" validate:"required,http_url"`
	PubDate  *string         `json:"pub_date" validate:"required"`
}

// parseSearchResponse converts the whole docs array or fails; a single bad
// document invalidates the response.
func parseSearchResponse(body []byte) ([]models.SearchArticle, error) {
	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.Response == nil || payload.Response.Docs == nil {
		return nil, fmt.Errorf("response has no docs")
	}

	docs := *payload.Response.Docs
	articles := make([]models.SearchArticle, 0, len(docs))
	for i, doc := range docs {
		if err := validate.Struct(doc); err != nil {
			return nil, fmt.Errorf("doc %d: %w", i, err)
		}
		pubDate, err := parseTimestamp(*doc.PubDate)
		if err != nil {
			return nil, fmt.Errorf("doc %d pub_date: %w", i, err)
		}
		articles = append(articles, models.SearchArticle{
			Headline: *doc.Headline.Main,
			Snippet:  *doc.Snippet,
			WebURL:   *doc.WebURL,
			PubDate:  pubDate,
		})
	}
	return articles, nil
}
