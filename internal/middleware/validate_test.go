package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageQuery struct {
	Name string `query:"name" validate:"required,min=2"`
	Page int    `query:"page" validate:"omitempty,min=1"`
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	app.Get("/items", ValidateQuery[pageQuery](), func(c *fiber.Ctx) error {
		params := QueryParams[pageQuery](c)
		return c.JSON(fiber.Map{"name": params.Name, "page": params.Page})
	})
	app.Get("/plain-error", func(c *fiber.Ctx) error {
		return errors.New("database password leaked in message")
	})
	app.Get("/fiber-error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadGateway, "NYT API error: boom")
	})
	return app
}

func TestValidateQueryAndErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
	}{
		{name: "valid query", target: "/items?name=ab&page=2", wantStatus: http.StatusOK},
		{name: "unparsable query", target: "/items?name=ab&page=abc", wantStatus: http.StatusBadRequest, wantError: "Invalid query parameters"},
		{name: "failed rule", target: "/items?name=a", wantStatus: http.StatusUnprocessableEntity, wantError: "Invalid query parameters"},
		{name: "missing field", target: "/items", wantStatus: http.StatusUnprocessableEntity, wantError: "Invalid query parameters"},
		{name: "plain error hides details", target: "/plain-error", wantStatus: http.StatusInternalServerError, wantError: "Internal Server Error"},
		{name: "fiber error keeps message", target: "/fiber-error", wantStatus: http.StatusBadGateway, wantError: "NYT API error: boom"},
	}

	app := newTestApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &payload))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, payload["error"])
			} else {
				assert.Equal(t, "ab", payload["name"])
				assert.EqualValues(t, 2, payload["page"])
			}
		})
	}
}

func TestValidateQueryReportsFailedFields(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest(http.MethodGet, "/items?name=a&page=0", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, map[string]string{"Name": "min"}, payload.Fields)
}
