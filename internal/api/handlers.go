package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilgisen/nytproxy/internal/config"
	"github.com/bilgisen/nytproxy/internal/logger"
	"github.com/bilgisen/nytproxy/internal/middleware"
	"github.com/bilgisen/nytproxy/internal/models"
	"github.com/bilgisen/nytproxy/internal/nyt"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

const queryDateLayout = "2006-01-02"

// NewsClient is the subset of the NYT client used by the handlers.
type NewsClient interface {
	TopStories(ctx context.Context, section string) ([]models.TopStoryArticle, error)
	SearchArticles(ctx context.Context, q string, beginDate, endDate *time.Time) ([]models.SearchArticle, error)
}

// ArticleSearchQuery holds the query parameters of GET /nytimes/articlesearch.
type ArticleSearchQuery struct {
	Q         string `query:"q" validate:"required,min=2"`
	BeginDate string `query:"begin_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type Handlers struct {
	config *config.Config
	client NewsClient
}

func NewHandlers(cfg *config.Config, client NewsClient) *Handlers {
	return &Handlers{
		config: cfg,
		client: client,
	}
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"env":    h.config.Env,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// TopStories handles GET /nytimes/topstories
func (h *Handlers) TopStories(c *fiber.Ctx) error {
	perSection, err := h.fetchSections(c.UserContext())
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(nyt.MergeTopStories(perSection))
}

// fetchSections calls TopStories for every configured section concurrently.
// The first failure cancels the remaining calls; it is reported once all of
// them have returned. Results are indexed by section, not completion order.
func (h *Handlers) fetchSections(ctx context.Context) ([][]models.TopStoryArticle, error) {
	sections := h.config.TopSections
	perSection := make([][]models.TopStoryArticle, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	for i, section := range sections {
		g.Go(func() error {
			articles, err := h.client.TopStories(gctx, section)
			if err != nil {
				return err
			}
			perSection[i] = articles
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return perSection, nil
}

// ArticleSearch handles GET /nytimes/articlesearch. Query parameters have
// already been validated by middleware.ValidateQuery.
func (h *Handlers) ArticleSearch(c *fiber.Ctx) error {
	query := middleware.QueryParams[ArticleSearchQuery](c)
	if query == nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}

	beginDate, err := parseQueryDate(query.BeginDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid begin_date")
	}
	endDate, err := parseQueryDate(query.EndDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid end_date")
	}
	if beginDate != nil && endDate != nil && beginDate.After(*endDate) {
		return fiber.NewError(fiber.StatusBadRequest, "begin_date cannot be after end_date")
	}

	articles, err := h.client.SearchArticles(c.UserContext(), query.Q, beginDate, endDate)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(articles)
}

func parseQueryDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(queryDateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// upstreamError maps any failure of the NYT client to 502.
func upstreamError(err error) error {
	var upstreamErr *nyt.UpstreamError
	if errors.As(err, &upstreamErr) {
		logger.Get().Error().
			Err(err).
			Str("op", upstreamErr.Op).
			Str("section", upstreamErr.Section).
			Int("upstream_status", upstreamErr.StatusCode).
			Msg("NYT API error")
	}
	return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("NYT API error: %v", err))
}
