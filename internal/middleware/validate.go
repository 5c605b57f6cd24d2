package middleware

import (
	"errors"

	"github.com/bilgisen/nytproxy/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// QueryParamsKey is the Locals key holding the validated query struct.
const QueryParamsKey = "queryParams"

var validate = validator.New()

// ValidateQuery parses the query string into a fresh T per request, validates
// it and stores the *T in c.Locals(QueryParamsKey).
func ValidateQuery[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := new(T)
		if err := c.QueryParser(params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid query parameters",
				"msg":   err.Error(),
			})
		}

		if err := validate.Struct(params); err != nil {
			var validationErrs validator.ValidationErrors
			if !errors.As(err, &validationErrs) {
				return err
			}

			fields := make(map[string]string, len(validationErrs))
			for _, fe := range validationErrs {
				fields[fe.Field()] = fe.Tag()
			}

			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Invalid query parameters",
				"fields": fields,
			})
		}

		c.Locals(QueryParamsKey, params)
		return c.Next()
	}
}

// QueryParams returns the struct stored by ValidateQuery.
func QueryParams[T any](c *fiber.Ctx) *T {
	params, _ := c.Locals(QueryParamsKey).(*T)
	return params
}

// ErrorHandler writes every error returned by a handler as {"error": message}.
// Errors other than *fiber.Error are reported as 500 without details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	event := logger.Get().Warn()
	if code >= fiber.StatusInternalServerError {
		event = logger.Get().Error()
	}
	event.
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
