package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func newJobApp(secret string) *fiber.App {
	app := fiber.New()
	app.Post("/jobs/reconcile", JobSecret(secret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestJobSecret(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		header   string
		expected int
	}{
		{"open when unset", "", "", fiber.StatusOK},
		{"missing header", "s3cret", "", fiber.StatusUnauthorized},
		{"wrong secret", "s3cret", "guess", fiber.StatusForbidden},
		{"matching secret", "s3cret", "s3cret", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/jobs/reconcile", nil)
			if tt.header != "" {
				req.Header.Set(JobSecretHeader, tt.header)
			}
			resp, err := newJobApp(tt.secret).Test(req)
			assert.NoError(t, err)
			check.Equal(t, tt.expected, resp.StatusCode)
		})
	}
}
