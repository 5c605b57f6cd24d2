package models

import "time"

// TopStoryArticle is one entry of the aggregated top stories response
type TopStoryArticle struct {
	Title         string    `json:"title"`
	Section       string    `json:"section"`
	URL           *string   `json:"url"`
	Abstract      string    `json:"abstract"`
	PublishedDate time.Time `json:"published_date"`
}

// SearchArticle is one entry of the article search response
type SearchArticle struct {
	Headline string    `json:"headline"`
	Snippet  string    `json:"snippet"`
	WebURL   string    `json:"web_url"`
	PubDate  time.Time `json:"pub_date"`
}
